// Package writer serializes a directory's result table to its CSV output
// file.
package writer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/pradhanhitesh/dicomcrawl/internal/filelock"
	"github.com/pradhanhitesh/dicomcrawl/internal/models"
)

// DefaultOutputName is the conventional output filename written inside each
// crawled directory.
const DefaultOutputName = "modal_data.csv"

// absentCell marks an explicitly absent field in the output table, keeping
// it distinguishable from a present-but-empty value.
const absentCell = "NA"

// header is the fixed column set of every output table.
var header = []string{
	"path",
	"study_date",
	"acquisition_time",
	"patient_id",
	"patient_sex",
	"patient_age",
	"modality",
}

// WriteError indicates the output table could not be written into the
// crawled directory. This is the one writer fault surfaced to the
// orchestrator as a directory-level failure.
type WriteError struct {
	Root string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write result table %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer persists directory result tables. The zero value writes
// DefaultOutputName in discovery order; it is safe for concurrent use.
type Writer struct {
	outputName            string
	sortByAcquisitionTime bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithOutputName overrides the output filename written inside each crawled
// directory.
func WithOutputName(name string) Option {
	return func(w *Writer) {
		if name != "" {
			w.outputName = name
		}
	}
}

// WithAcquisitionTimeSort enables the declared sort key: rows ordered by
// acquisition time with absent values last, instead of discovery order.
// The sort is stable, so ties keep discovery order.
func WithAcquisitionTimeSort(enabled bool) Option {
	return func(w *Writer) {
		w.sortByAcquisitionTime = enabled
	}
}

// New creates a Writer.
func New(opts ...Option) *Writer {
	w := &Writer{outputName: DefaultOutputName}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write serializes the result table to its fixed location inside the crawled
// root, overwriting any prior output. The table is fully buffered in memory
// and replaced atomically under a file lock, so no partial write is ever
// externally visible. Returns the output path, or *WriteError when the
// destination is not writable.
func (w *Writer) Write(result *models.DirectoryResult) (string, error) {
	records := result.Records
	if w.sortByAcquisitionTime {
		records = sortedByAcquisitionTime(records)
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("failed to encode header: %w", err)
	}
	for _, record := range records {
		if err := cw.Write(row(record)); err != nil {
			return "", fmt.Errorf("failed to encode row for %s: %w", record.Path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to encode result table: %w", err)
	}

	outputPath := filepath.Join(result.Root, w.outputName)
	if err := filelock.LockAndWrite(outputPath, buf.Bytes()); err != nil {
		return "", &WriteError{Root: result.Root, Path: outputPath, Err: err}
	}
	return outputPath, nil
}

// row renders one metadata record as CSV cells in header order.
func row(record models.MetadataRecord) []string {
	return []string{
		record.Path,
		record.StudyDate.Or(absentCell),
		record.AcquisitionTime.Or(absentCell),
		record.PatientID.Or(absentCell),
		record.PatientSex.Or(absentCell),
		record.PatientAge.Or(absentCell),
		record.Modality,
	}
}

// sortedByAcquisitionTime returns a copy of records stably ordered by
// acquisition time, with records missing the field placed last.
func sortedByAcquisitionTime(records []models.MetadataRecord) []models.MetadataRecord {
	sorted := make([]models.MetadataRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, aOK := sorted[i].AcquisitionTime.Get()
		b, bOK := sorted[j].AcquisitionTime.Get()
		if aOK != bOK {
			return aOK
		}
		return a < b
	})
	return sorted
}
