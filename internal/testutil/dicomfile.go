// Package testutil builds DICOM file fixtures for tests.
package testutil

import (
	"os"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Transfer syntax and SOP class UIDs used by all fixtures.
const (
	explicitVRLittleEndian = "1.2.840.10008.1.2.1"
	mrImageStorage         = "1.2.840.10008.5.1.4.1.1.4"
)

// DICOMFields describes the descriptive attributes of a fixture file. An
// empty string omits the attribute entirely, which is how tests exercise
// absent-field tolerance.
type DICOMFields struct {
	StudyDate       string
	AcquisitionTime string
	PatientID       string
	PatientSex      string
	PatientAge      string
	Modality        string
}

// WriteDICOMFile writes a minimal but standards-shaped DICOM Part 10 file
// (preamble, DICM marker, file meta group, dataset) at path.
func WriteDICOMFile(t *testing.T, path string, fields DICOMFields) {
	t.Helper()

	elements := []*dicom.Element{
		mustElement(t, tag.MediaStorageSOPClassUID, []string{mrImageStorage}),
		mustElement(t, tag.MediaStorageSOPInstanceUID, []string{"1.2.3.4.5.6.7.8"}),
		mustElement(t, tag.TransferSyntaxUID, []string{explicitVRLittleEndian}),
		mustElement(t, tag.SOPClassUID, []string{mrImageStorage}),
		mustElement(t, tag.SOPInstanceUID, []string{"1.2.3.4.5.6.7.8"}),
	}
	elements = appendIfSet(t, elements, tag.StudyDate, fields.StudyDate)
	elements = appendIfSet(t, elements, tag.AcquisitionTime, fields.AcquisitionTime)
	elements = appendIfSet(t, elements, tag.Modality, fields.Modality)
	elements = appendIfSet(t, elements, tag.PatientID, fields.PatientID)
	elements = appendIfSet(t, elements, tag.PatientSex, fields.PatientSex)
	elements = appendIfSet(t, elements, tag.PatientAge, fields.PatientAge)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create fixture %s: %v", path, err)
	}
	defer f.Close()

	if err := dicom.Write(f, dicom.Dataset{Elements: elements}); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
}

// WriteCorruptDICOMFile writes a file that carries the DICM marker (so it
// passes content sniffing) but whose body is unparseable garbage.
func WriteCorruptDICOMFile(t *testing.T, path string) {
	t.Helper()

	data := make([]byte, 128, 160)
	data = append(data, []byte("DICM")...)
	data = append(data, []byte("not a real dataset, truncated mid-read")...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write corrupt fixture %s: %v", path, err)
	}
}

func appendIfSet(t *testing.T, elements []*dicom.Element, tg tag.Tag, value string) []*dicom.Element {
	t.Helper()
	if value == "" {
		return elements
	}
	return append(elements, mustElement(t, tg, []string{value}))
}

func mustElement(t *testing.T, tg tag.Tag, value []string) *dicom.Element {
	t.Helper()
	element, err := dicom.NewElement(tg, value)
	if err != nil {
		t.Fatalf("failed to build element %v: %v", tg, err)
	}
	return element
}
