package crawler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradhanhitesh/dicomcrawl/internal/extract"
	"github.com/pradhanhitesh/dicomcrawl/internal/sniff"
	"github.com/pradhanhitesh/dicomcrawl/internal/template"
	"github.com/pradhanhitesh/dicomcrawl/internal/testutil"
)

// captureLogger records warnings so tests can assert per-file faults were
// reported rather than swallowed.
type captureLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *captureLogger) Debugf(format string, args ...interface{}) {}

func (l *captureLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func loadTemplate(t *testing.T, content string) *template.Template {
	t.Helper()
	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	tpl, err := template.Load(path)
	require.NoError(t, err)
	return tpl
}

func newCrawler(logger Logger, opts ...Option) *Crawler {
	return New(sniff.NewMagicDetector(), extract.New(), logger, opts...)
}

func TestCrawl_MixedDirectory(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDICOMFile(t, filepath.Join(dir, "a.dcm"), testutil.DICOMFields{
		StudyDate: "20230815",
		PatientID: "SUBJ-001",
		Modality:  "MR",
		// patient age absent
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("plain text, no imaging here"), 0644))

	logger := &captureLogger{}
	tpl := loadTemplate(t, `{"MRI": ["MR"]}`)

	result, err := newCrawler(logger).Crawl(context.Background(), dir, tpl)
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	record := result.Records[0]
	assert.Equal(t, filepath.Join(dir, "a.dcm"), record.Path)
	assert.Equal(t, "MRI", record.Modality)
	assert.False(t, record.PatientAge.Present())

	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Warnings)
	assert.Empty(t, logger.warnings, "non-DICOM files skip silently")
}

func TestCrawl_DiscoveryOrder(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "series1")
	require.NoError(t, os.MkdirAll(sub, 0755))
	testutil.WriteDICOMFile(t, filepath.Join(dir, "a.dcm"), testutil.DICOMFields{Modality: "MR"})
	testutil.WriteDICOMFile(t, filepath.Join(dir, "z.dcm"), testutil.DICOMFields{Modality: "MR"})
	testutil.WriteDICOMFile(t, filepath.Join(sub, "m.dcm"), testutil.DICOMFields{Modality: "CT"})

	tpl := loadTemplate(t, `{"MRI": ["MR"], "CT": ["CT"]}`)
	result, err := newCrawler(nil).Crawl(context.Background(), dir, tpl)
	require.NoError(t, err)

	var paths []string
	for _, record := range result.Records {
		paths = append(paths, record.Path)
	}
	assert.Equal(t, []string{
		filepath.Join(dir, "a.dcm"),
		filepath.Join(sub, "m.dcm"),
		filepath.Join(dir, "z.dcm"),
	}, paths, "entries visited in lexical discovery order")
}

func TestCrawl_UnknownModality(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDICOMFile(t, filepath.Join(dir, "a.dcm"), testutil.DICOMFields{Modality: "XA"})

	tpl := loadTemplate(t, `{"MRI": ["MR"]}`)
	result, err := newCrawler(nil).Crawl(context.Background(), dir, tpl)
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, template.Unknown, result.Records[0].Modality)
}

func TestCrawl_CorruptFileSkippedWithWarning(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDICOMFile(t, filepath.Join(dir, "good.dcm"), testutil.DICOMFields{Modality: "MR"})
	testutil.WriteCorruptDICOMFile(t, filepath.Join(dir, "bad.dcm"))

	logger := &captureLogger{}
	tpl := loadTemplate(t, `{"MRI": ["MR"]}`)

	result, err := newCrawler(logger).Crawl(context.Background(), dir, tpl)
	require.NoError(t, err, "a corrupt file never aborts the directory")

	require.Len(t, result.Records, 1)
	assert.Equal(t, filepath.Join(dir, "good.dcm"), result.Records[0].Path)
	assert.Equal(t, 1, result.Warnings)
	require.Len(t, logger.warnings, 1)
	assert.Contains(t, logger.warnings[0], "bad.dcm")
}

func TestCrawl_SelfReferentialSymlinkTerminates(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDICOMFile(t, filepath.Join(dir, "a.dcm"), testutil.DICOMFields{Modality: "MR"})
	require.NoError(t, os.Symlink(dir, filepath.Join(dir, "loop")))

	tpl := loadTemplate(t, `{"MRI": ["MR"]}`)
	result, err := newCrawler(nil).Crawl(context.Background(), dir, tpl)
	require.NoError(t, err)

	assert.Len(t, result.Records, 1, "cycle visited once, not looped")
}

func TestCrawl_SymlinkCycleBetweenDirectories(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.MkdirAll(a, 0755))
	require.NoError(t, os.MkdirAll(b, 0755))
	require.NoError(t, os.Symlink(b, filepath.Join(a, "to-b")))
	require.NoError(t, os.Symlink(a, filepath.Join(b, "to-a")))
	testutil.WriteDICOMFile(t, filepath.Join(b, "scan.dcm"), testutil.DICOMFields{Modality: "MR"})

	tpl := loadTemplate(t, `{"MRI": ["MR"]}`)
	result, err := newCrawler(nil).Crawl(context.Background(), dir, tpl)
	require.NoError(t, err)

	assert.Len(t, result.Records, 1)
}

func TestCrawl_TwoLinksToOneFileYieldOneRow(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "scan.dcm")
	testutil.WriteDICOMFile(t, target, testutil.DICOMFields{Modality: "MR"})
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "alias.dcm")))

	tpl := loadTemplate(t, `{"MRI": ["MR"]}`)
	result, err := newCrawler(nil).Crawl(context.Background(), dir, tpl)
	require.NoError(t, err)

	assert.Len(t, result.Records, 1)
}

func TestCrawl_SymlinksDisabled(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	testutil.WriteDICOMFile(t, filepath.Join(outside, "scan.dcm"), testutil.DICOMFields{Modality: "MR"})
	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "linked")))

	tpl := loadTemplate(t, `{"MRI": ["MR"]}`)
	result, err := newCrawler(nil, WithFollowSymlinks(false)).Crawl(context.Background(), dir, tpl)
	require.NoError(t, err)

	assert.Empty(t, result.Records)
}

func TestCrawl_BrokenSymlinkIsWarning(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "dangling")))

	logger := &captureLogger{}
	tpl := loadTemplate(t, `{"MRI": ["MR"]}`)
	result, err := newCrawler(logger).Crawl(context.Background(), dir, tpl)
	require.NoError(t, err)

	assert.Empty(t, result.Records)
	assert.Equal(t, 1, result.Warnings)
	require.Len(t, logger.warnings, 1)
}

func TestCrawl_MissingRoot(t *testing.T) {
	tpl := loadTemplate(t, `{"MRI": ["MR"]}`)
	_, err := newCrawler(nil).Crawl(context.Background(), filepath.Join(t.TempDir(), "gone"), tpl)
	require.Error(t, err)
}

func TestCrawl_RootIsAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	tpl := loadTemplate(t, `{"MRI": ["MR"]}`)
	_, err := newCrawler(nil).Crawl(context.Background(), path, tpl)
	require.Error(t, err)
}

func TestCrawl_CanceledContextYieldsNoPartialResult(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDICOMFile(t, filepath.Join(dir, "a.dcm"), testutil.DICOMFields{Modality: "MR"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tpl := loadTemplate(t, `{"MRI": ["MR"]}`)
	result, err := newCrawler(nil).Crawl(ctx, dir, tpl)
	require.Error(t, err)
	assert.Nil(t, result, "interrupted traversal returns no result, not a partial one")
}
