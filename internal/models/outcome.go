package models

import "time"

// Directory outcome status constants
const (
	StatusSuccess = "SUCCESS" // Directory crawled and output table written
	StatusFailed  = "FAILED"  // Directory crawl or write failed
)

// DirectoryOutcome records the terminal status of one directory's crawl+write
// cycle. Exactly one of OutputPath or Err is meaningful depending on Status.
type DirectoryOutcome struct {
	Root       string        // The crawled root directory
	Status     string        // StatusSuccess or StatusFailed
	OutputPath string        // Path of the written table on success
	Records    int           // Rows in the written table
	Warnings   int           // Per-file warnings emitted during the crawl
	Err        error         // Failure reason on StatusFailed
	Duration   time.Duration // Time taken for crawl plus write
}

// Succeeded reports whether the directory completed with a written table.
func (o DirectoryOutcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// RunResult aggregates the outcomes of a full orchestrator run. Every
// requested directory appears in Outcomes exactly once, in input order.
type RunResult struct {
	RunID       string
	Directories int
	Succeeded   int
	Failed      int
	Duration    time.Duration
	Outcomes    []DirectoryOutcome
}
