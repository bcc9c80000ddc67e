// Package extract reads the descriptive metadata fields from verified DICOM
// files and resolves their modality against the loaded template.
package extract

import (
	"fmt"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/pradhanhitesh/dicomcrawl/internal/models"
	"github.com/pradhanhitesh/dicomcrawl/internal/template"
)

// CorruptFileError indicates a file that passed classification could not be
// parsed at all, for example because it was truncated mid-read. The crawler
// converts it into a per-file skip, never a directory abort.
type CorruptFileError struct {
	Path string
	Err  error
}

func (e *CorruptFileError) Error() string {
	return fmt.Sprintf("corrupt DICOM file %s: %v", e.Path, e.Err)
}

func (e *CorruptFileError) Unwrap() error {
	return e.Err
}

// Extractor reads the fixed descriptive field set from DICOM files.
// The zero value is ready to use and safe for concurrent use.
type Extractor struct{}

// New returns a metadata extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses the DICOM file at path and reads study date, acquisition
// time, patient identifier, patient sex, patient age and the raw modality
// tag. Each field absent from the file is recorded as explicitly absent;
// absence of one field never prevents extraction of the rest. Date, time
// and age values are carried as raw strings with no normalization, which
// preserves the original provenance.
//
// Returns *CorruptFileError when the file cannot be parsed at all.
func (e *Extractor) Extract(path string) (models.MetadataRecord, error) {
	dataset, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return models.MetadataRecord{}, &CorruptFileError{Path: path, Err: err}
	}

	return models.MetadataRecord{
		Path:            path,
		StudyDate:       stringAttribute(&dataset, tag.StudyDate),
		AcquisitionTime: stringAttribute(&dataset, tag.AcquisitionTime),
		PatientID:       stringAttribute(&dataset, tag.PatientID),
		PatientSex:      stringAttribute(&dataset, tag.PatientSex),
		PatientAge:      stringAttribute(&dataset, tag.PatientAge),
		RawModality:     stringAttribute(&dataset, tag.Modality),
	}, nil
}

// ResolveModality replaces the record's raw modality tag with the canonical
// template name, or template.Unknown when the tag is absent or unmatched.
// Pure function, no I/O.
func ResolveModality(record models.MetadataRecord, tpl *template.Template) models.MetadataRecord {
	raw, ok := record.RawModality.Get()
	if !ok {
		record.Modality = template.Unknown
		return record
	}
	record.Modality = tpl.Resolve(raw)
	return record
}

// stringAttribute looks up a single string attribute in the dataset.
// A missing element, or an element whose value is not string-typed, yields
// an explicit absent marker rather than an empty string.
func stringAttribute(dataset *dicom.Dataset, t tag.Tag) models.Optional {
	element, err := dataset.FindElementByTag(t)
	if err != nil || element == nil {
		return models.Absent()
	}
	values, ok := element.Value.GetValue().([]string)
	if !ok || len(values) == 0 {
		return models.Absent()
	}
	// DICOM pads string values to even length with trailing space or NUL.
	return models.Some(strings.TrimRight(values[0], " \x00"))
}
