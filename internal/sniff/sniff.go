// Package sniff decides whether a file is a DICOM object by inspecting its
// content, never its name or extension.
package sniff

import (
	"errors"
	"io"
	"os"

	"github.com/h2non/filetype"
)

// headerLen covers the DICOM Part 10 header: a 128-byte preamble followed by
// the 4-byte "DICM" marker. The verdict is decided from this bounded prefix,
// so arbitrarily large files are never read in full.
const headerLen = 132

// Detector is the content-sniffing capability the crawler depends on.
// Implementations must decide from file content alone; alternative detection
// strategies can be substituted without touching the crawler.
type Detector interface {
	IsDICOM(path string) (bool, error)
}

// MagicDetector sniffs the DICOM magic bytes from a bounded file prefix.
type MagicDetector struct{}

// NewMagicDetector returns the default magic-byte detector.
func NewMagicDetector() *MagicDetector {
	return &MagicDetector{}
}

// IsDICOM reports whether the file at path carries a DICOM Part 10 header.
// Files shorter than the header (including zero-length files) are not DICOM
// and return false with no error. An unreadable file returns false and the
// open or read error; callers log it and move on.
func (d *MagicDetector) IsDICOM(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, headerLen)
	n, err := io.ReadFull(f, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return filetype.Is(buf[:n], "dcm"), nil
}
