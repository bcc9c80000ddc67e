// Package crawler walks a directory tree, classifies every regular file by
// content, and collects metadata records for the DICOM files it finds.
package crawler

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pradhanhitesh/dicomcrawl/internal/extract"
	"github.com/pradhanhitesh/dicomcrawl/internal/models"
	"github.com/pradhanhitesh/dicomcrawl/internal/sniff"
	"github.com/pradhanhitesh/dicomcrawl/internal/template"
)

// Logger is the subset of logging the crawler needs. Per-file skips are
// debug-level; unreadable or corrupt files are warnings.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Crawler traverses one directory at a time. A single Crawler may be shared
// across goroutines crawling different roots: all per-directory state lives
// in the Crawl call.
type Crawler struct {
	detector       sniff.Detector
	extractor      *extract.Extractor
	logger         Logger
	followSymlinks bool
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithFollowSymlinks controls whether directory symlinks are followed during
// traversal. Cycle detection applies regardless of this setting.
func WithFollowSymlinks(follow bool) Option {
	return func(c *Crawler) {
		c.followSymlinks = follow
	}
}

// New creates a Crawler. The logger may be nil to disable diagnostics.
func New(detector sniff.Detector, extractor *extract.Extractor, logger Logger, opts ...Option) *Crawler {
	c := &Crawler{
		detector:       detector,
		extractor:      extractor,
		logger:         logger,
		followSymlinks: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Crawl recursively enumerates all regular files under root in discovery
// order. Every file is classified by content; DICOM files are extracted,
// their modality resolved against the template, and the record appended to
// the result table. Non-DICOM files are skipped silently. Unreadable or
// corrupt files are skipped with a warning and never abort the crawl.
//
// Symlinked directories are visited at most once per resolved target, so a
// self-referential or circular link terminates rather than looping. If the
// context is canceled mid-traversal the caller receives an error and no
// partial result.
func (c *Crawler) Crawl(ctx context.Context, root string, tpl *template.Template) (*models.DirectoryResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	result := &models.DirectoryResult{Root: root}
	visited := make(map[string]struct{})
	if err := c.walk(ctx, root, visited, tpl, result); err != nil {
		return nil, err
	}
	return result, nil
}

// walk processes one directory level. visited holds resolved real paths of
// every directory already entered; entering a directory twice is the cycle
// condition this guards against.
func (c *Crawler) walk(ctx context.Context, dir string, visited map[string]struct{}, tpl *template.Template, result *models.DirectoryResult) error {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		c.warnf("skipping unresolvable directory %s: %v", dir, err)
		result.Warnings++
		return nil
	}
	if _, seen := visited[real]; seen {
		c.debugf("skipping already-visited directory %s (resolves to %s)", dir, real)
		return nil
	}
	visited[real] = struct{}{}

	// os.ReadDir returns entries sorted by name, which fixes discovery
	// order across runs and platforms.
	entries, err := os.ReadDir(dir)
	if err != nil {
		c.warnf("skipping unreadable directory %s: %v", dir, err)
		result.Warnings++
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("crawl of %s interrupted: %w", result.Root, err)
		}

		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			if err := c.walkSymlink(ctx, path, visited, tpl, result); err != nil {
				return err
			}
		case entry.IsDir():
			if err := c.walk(ctx, path, visited, tpl, result); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			c.processFile(path, visited, tpl, result)
		default:
			c.debugf("skipping irregular file %s", path)
		}
	}
	return nil
}

// walkSymlink handles a symlink entry according to the follow policy. Broken
// links are a warning; links to directories recurse through the visited
// guard; links to regular files are processed like any other file.
func (c *Crawler) walkSymlink(ctx context.Context, path string, visited map[string]struct{}, tpl *template.Template, result *models.DirectoryResult) error {
	if !c.followSymlinks {
		c.debugf("skipping symlink %s (follow_symlinks disabled)", path)
		return nil
	}
	target, err := os.Stat(path)
	if err != nil {
		c.warnf("skipping broken symlink %s: %v", path, err)
		result.Warnings++
		return nil
	}
	if target.IsDir() {
		return c.walk(ctx, path, visited, tpl, result)
	}
	if target.Mode().IsRegular() {
		c.processFile(path, visited, tpl, result)
	}
	return nil
}

// processFile classifies one file and, when it is DICOM, extracts and
// resolves its metadata record. All per-file faults end here. Files are
// keyed by resolved real path in the visited set, so a file reachable both
// directly and through a symlink yields one row.
func (c *Crawler) processFile(path string, visited map[string]struct{}, tpl *template.Template, result *models.DirectoryResult) {
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		c.warnf("skipping unresolvable file %s: %v", path, err)
		result.Warnings++
		return
	}
	if _, seen := visited[real]; seen {
		c.debugf("skipping already-visited file %s (resolves to %s)", path, real)
		return
	}
	visited[real] = struct{}{}

	result.Scanned++

	isDICOM, err := c.detector.IsDICOM(path)
	if err != nil {
		c.warnf("skipping unreadable file %s: %v", path, err)
		result.Warnings++
		return
	}
	if !isDICOM {
		result.Skipped++
		return
	}

	record, err := c.extractor.Extract(path)
	if err != nil {
		c.warnf("skipping %s: %v", path, err)
		result.Warnings++
		return
	}

	result.Records = append(result.Records, extract.ResolveModality(record, tpl))
}

func (c *Crawler) debugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}

func (c *Crawler) warnf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warnf(format, args...)
	}
}
