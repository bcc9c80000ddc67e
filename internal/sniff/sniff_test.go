package sniff

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradhanhitesh/dicomcrawl/internal/testutil"
)

func TestIsDICOM_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.dcm")
	testutil.WriteDICOMFile(t, path, testutil.DICOMFields{Modality: "MR"})

	ok, err := NewMagicDetector().IsDICOM(path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsDICOM_MagicOnlyPrefix(t *testing.T) {
	// Content sniffing decides from the header alone; a DICM-marked file is
	// classified as DICOM even if the dataset behind it is garbage.
	path := filepath.Join(t.TempDir(), "broken.dcm")
	testutil.WriteCorruptDICOMFile(t, path)

	ok, err := NewMagicDetector().IsDICOM(path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsDICOM_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dcm")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	ok, err := NewMagicDetector().IsDICOM(path)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsDICOM_TextFileWithDICOMExtension(t *testing.T) {
	// The extension is never consulted; content decides.
	path := filepath.Join(t.TempDir(), "notes.dcm")
	content := make([]byte, 0, 200)
	for len(content) < 200 {
		content = append(content, []byte("plain text pretending to be imaging data\n")...)
	}
	require.NoError(t, os.WriteFile(path, content, 0644))

	ok, err := NewMagicDetector().IsDICOM(path)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsDICOM_TruncatedHeader(t *testing.T) {
	// Shorter than preamble + marker: cannot be DICOM.
	path := filepath.Join(t.TempDir(), "short.dcm")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0644))

	ok, err := NewMagicDetector().IsDICOM(path)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsDICOM_MissingFile(t *testing.T) {
	ok, err := NewMagicDetector().IsDICOM(filepath.Join(t.TempDir(), "gone.dcm"))
	require.Error(t, err)
	assert.False(t, ok)
}

func TestIsDICOM_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}

	path := filepath.Join(t.TempDir(), "locked.dcm")
	testutil.WriteDICOMFile(t, path, testutil.DICOMFields{Modality: "MR"})
	require.NoError(t, os.Chmod(path, 0000))

	ok, err := NewMagicDetector().IsDICOM(path)
	require.Error(t, err)
	assert.False(t, ok)
}

func TestIsDICOM_DanglingSymlink(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "dangling.dcm")
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing-target"), link))

	ok, err := NewMagicDetector().IsDICOM(link)
	require.Error(t, err)
	assert.False(t, ok)
}
