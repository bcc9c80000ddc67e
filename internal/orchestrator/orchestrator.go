// Package orchestrator drives one independent crawl-and-write cycle per
// requested directory and aggregates per-directory outcomes.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/pradhanhitesh/dicomcrawl/internal/crawler"
	"github.com/pradhanhitesh/dicomcrawl/internal/extract"
	"github.com/pradhanhitesh/dicomcrawl/internal/logger"
	"github.com/pradhanhitesh/dicomcrawl/internal/sniff"
	"github.com/pradhanhitesh/dicomcrawl/internal/models"
	"github.com/pradhanhitesh/dicomcrawl/internal/template"
	"github.com/pradhanhitesh/dicomcrawl/internal/writer"
)

// Writer is the aggregation sink for one directory's result table.
type Writer interface {
	Write(result *models.DirectoryResult) (string, error)
}

// Crawler produces the result table for one directory.
type Crawler interface {
	Crawl(ctx context.Context, root string, tpl *template.Template) (*models.DirectoryResult, error)
}

// Orchestrator coordinates per-directory crawl+write cycles. Directories are
// independent units of work sharing only the read-only template, so they may
// run in parallel with no synchronization between them.
type Orchestrator struct {
	crawler        Crawler
	writer         Writer
	log            logger.Logger
	maxConcurrency int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxConcurrency bounds the number of directories processed in parallel.
// Zero means one worker per directory.
func WithMaxConcurrency(n int) Option {
	return func(o *Orchestrator) {
		o.maxConcurrency = n
	}
}

// WithCrawler substitutes the directory crawler implementation.
func WithCrawler(c Crawler) Option {
	return func(o *Orchestrator) {
		o.crawler = c
	}
}

// WithWriter substitutes the table writer implementation.
func WithWriter(w Writer) Option {
	return func(o *Orchestrator) {
		o.writer = w
	}
}

// New creates an Orchestrator with the default crawler and writer. The
// logger may be nil to disable logging.
func New(log logger.Logger, crawlerOpts []crawler.Option, writerOpts []writer.Option, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		crawler:        crawler.New(sniff.NewMagicDetector(), extract.New(), log, crawlerOpts...),
		writer:         writer.New(writerOpts...),
		log:            log,
		maxConcurrency: 1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run loads the template once, then crawls and writes results for each
// directory independently. A broken template aborts before any directory is
// touched; any other failure is recorded in that directory's outcome and the
// remaining directories continue. The returned RunResult enumerates every
// directory's outcome explicitly.
//
// SIGINT/SIGTERM cancel the run: in-flight directories finish with a failure
// outcome and queued directories are not started.
func (o *Orchestrator) Run(ctx context.Context, dirs []string, templatePath string) (*models.RunResult, error) {
	tpl, err := template.Load(templatePath)
	if err != nil {
		return nil, fmt.Errorf("cannot start run: %w", err)
	}

	runID := uuid.NewString()
	o.infof("run %s: crawling %d directories with template %s (%d modalities)",
		runID, len(dirs), templatePath, len(tpl.Modalities()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			o.warnf("received interrupt signal, shutting down gracefully")
			cancel()
		case <-ctx.Done():
		}
	}()

	startTime := time.Now()

	workers := o.maxConcurrency
	if workers <= 0 || workers > len(dirs) {
		workers = len(dirs)
	}
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]models.DirectoryOutcome, len(dirs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, dir := range dirs {
		wg.Add(1)
		go func(i int, dir string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				outcomes[i] = models.DirectoryOutcome{
					Root:   dir,
					Status: models.StatusFailed,
					Err:    fmt.Errorf("not started: %w", err),
				}
				return
			}
			outcomes[i] = o.processDirectory(ctx, dir, tpl)
		}(i, dir)
	}
	wg.Wait()

	result := &models.RunResult{
		RunID:       runID,
		Directories: len(dirs),
		Duration:    time.Since(startTime),
		Outcomes:    outcomes,
	}
	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	o.infof("run %s: %d succeeded, %d failed in %s",
		runID, result.Succeeded, result.Failed, result.Duration.Round(time.Millisecond))

	return result, nil
}

// processDirectory runs one full crawl+write cycle and converts any failure
// into a directory-level outcome.
func (o *Orchestrator) processDirectory(ctx context.Context, dir string, tpl *template.Template) models.DirectoryOutcome {
	startTime := time.Now()
	o.infof("crawling %s", dir)

	result, err := o.crawler.Crawl(ctx, dir, tpl)
	if err != nil {
		o.errorf("crawl of %s failed: %v", dir, err)
		return models.DirectoryOutcome{
			Root:     dir,
			Status:   models.StatusFailed,
			Err:      err,
			Duration: time.Since(startTime),
		}
	}

	outputPath, err := o.writer.Write(result)
	if err != nil {
		o.errorf("writing results for %s failed: %v", dir, err)
		return models.DirectoryOutcome{
			Root:     dir,
			Status:   models.StatusFailed,
			Warnings: result.Warnings,
			Err:      err,
			Duration: time.Since(startTime),
		}
	}

	outcome := models.DirectoryOutcome{
		Root:       dir,
		Status:     models.StatusSuccess,
		OutputPath: outputPath,
		Records:    len(result.Records),
		Warnings:   result.Warnings,
		Duration:   time.Since(startTime),
	}
	o.infof("completed %s: %d records (%d files scanned, %d skipped, %d warnings) -> %s",
		dir, outcome.Records, result.Scanned, result.Skipped, result.Warnings, outputPath)
	return outcome
}

func (o *Orchestrator) infof(format string, args ...interface{}) {
	if o.log != nil {
		o.log.Infof(format, args...)
	}
}

func (o *Orchestrator) warnf(format string, args ...interface{}) {
	if o.log != nil {
		o.log.Warnf(format, args...)
	}
}

func (o *Orchestrator) errorf(format string, args ...interface{}) {
	if o.log != nil {
		o.log.Errorf(format, args...)
	}
}
