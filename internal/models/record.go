// Package models defines the data types shared across the crawl pipeline:
// per-file metadata records, per-directory results, and run-level outcomes.
package models

// Optional is a string field that distinguishes "absent from the source file"
// from "present but empty". DICOM attributes are frequently missing, and the
// output table must keep the two cases apart.
type Optional struct {
	value   string
	present bool
}

// Some returns an Optional carrying the given value.
func Some(value string) Optional {
	return Optional{value: value, present: true}
}

// Absent returns an Optional marked as missing.
func Absent() Optional {
	return Optional{}
}

// Present reports whether a value was found in the source file.
func (o Optional) Present() bool {
	return o.present
}

// Get returns the value and whether it is present.
func (o Optional) Get() (string, bool) {
	return o.value, o.present
}

// Or returns the value when present, otherwise the fallback.
func (o Optional) Or(fallback string) string {
	if o.present {
		return o.value
	}
	return fallback
}

// MetadataRecord is the extracted summary for one verified DICOM file.
// RawModality holds the tag value as read from the file; Modality is filled
// in by modality resolution with the canonical template name (or the Unknown
// sentinel) before the record reaches the aggregator.
type MetadataRecord struct {
	Path            string
	StudyDate       Optional
	AcquisitionTime Optional
	PatientID       Optional
	PatientSex      Optional
	PatientAge      Optional
	RawModality     Optional
	Modality        string
}

// DirectoryResult is the ordered table of records for one crawled directory.
// Records follow discovery order from the traversal.
type DirectoryResult struct {
	Root     string
	Records  []MetadataRecord
	Scanned  int // regular files visited during traversal
	Skipped  int // files excluded as non-DICOM
	Warnings int // unreadable or corrupt files skipped with a warning
}
