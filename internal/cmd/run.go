package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pradhanhitesh/dicomcrawl/internal/config"
	"github.com/pradhanhitesh/dicomcrawl/internal/crawler"
	"github.com/pradhanhitesh/dicomcrawl/internal/logger"
	"github.com/pradhanhitesh/dicomcrawl/internal/models"
	"github.com/pradhanhitesh/dicomcrawl/internal/orchestrator"
	"github.com/pradhanhitesh/dicomcrawl/internal/writer"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var (
		templatePath          string
		maxConcurrency        int
		logLevel              string
		logDir                string
		outputName            string
		followSymlinks        bool
		sortByAcquisitionTime bool
	)

	cmd := &cobra.Command{
		Use:   "run <directory>...",
		Short: "Crawl directories and write per-directory metadata tables",
		Long: `Crawl each directory recursively, verify DICOM files by content,
extract descriptive metadata, resolve modalities against the template, and
write a modal_data.csv table inside each directory.

Directories are independent units of work; one directory's failure never
prevents processing of the rest. Configuration is loaded from
.dicomcrawl/config.yaml if present; CLI flags override it.

Examples:
  # Crawl one archive
  dicomcrawl run /data/study-a --template modal-templates.json

  # Crawl several archives in parallel
  dicomcrawl run /data/study-a /data/study-b --template modal-templates.json --max-concurrency 4

  # Reproduce the legacy acquisition-time row order
  dicomcrawl run /data/study-a --template modal-templates.json --sort-by-acquisition-time`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigFromDir(".")
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg.MergeWithFlags(
				changedInt(cmd, "max-concurrency", &maxConcurrency),
				changedString(cmd, "log-level", &logLevel),
				changedString(cmd, "log-dir", &logDir),
				changedString(cmd, "output-name", &outputName),
				changedBool(cmd, "follow-symlinks", &followSymlinks),
				changedBool(cmd, "sort-by-acquisition-time", &sortByAcquisitionTime),
			)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			return runCrawl(cmd, args, templatePath, cfg)
		},
	}

	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "path to the modality template file (required)")
	cmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 0, "directories crawled in parallel (0 = one worker per directory)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log verbosity: trace, debug, info, warn, error")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "directory for run log files (empty disables file logging)")
	cmd.Flags().StringVar(&outputName, "output-name", "", "result table filename written inside each directory")
	cmd.Flags().BoolVar(&followSymlinks, "follow-symlinks", true, "follow directory symlinks during traversal")
	cmd.Flags().BoolVar(&sortByAcquisitionTime, "sort-by-acquisition-time", false, "order rows by acquisition time instead of discovery order")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}

func runCrawl(cmd *cobra.Command, dirs []string, templatePath string, cfg *config.Config) error {
	consoleLog := logger.NewConsoleLogger(cmd.OutOrStdout(), cfg.LogLevel)
	log := logger.Logger(consoleLog)

	var fileLog *logger.FileLogger
	if cfg.LogDir != "" {
		var err error
		// The run ID is not known before the orchestrator starts, so the
		// log file is keyed by start time instead.
		fileLog, err = logger.NewFileLogger(cfg.LogDir, time.Now().Format("20060102-150405"))
		if err != nil {
			return fmt.Errorf("failed to open run log: %w", err)
		}
		defer fileLog.Close()
		log = logger.NewMultiLogger(consoleLog, fileLog)
	}

	orch := orchestrator.New(
		log,
		[]crawler.Option{crawler.WithFollowSymlinks(cfg.FollowSymlinks)},
		[]writer.Option{
			writer.WithOutputName(cfg.OutputName),
			writer.WithAcquisitionTimeSort(cfg.SortByAcquisitionTime),
		},
		orchestrator.WithMaxConcurrency(cfg.MaxConcurrency),
	)

	result, err := orch.Run(cmd.Context(), dirs, templatePath)
	if err != nil {
		return err
	}

	printSummary(cmd, result)

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d directories failed", result.Failed, result.Directories)
	}
	return nil
}

// printSummary writes the per-directory outcome table to stdout.
func printSummary(cmd *cobra.Command, result *models.RunResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nCrawl Summary (run %s):\n", result.RunID)
	fmt.Fprintf(out, "  Directories: %d\n", result.Directories)
	fmt.Fprintf(out, "  Succeeded: %d\n", result.Succeeded)
	fmt.Fprintf(out, "  Failed: %d\n", result.Failed)
	fmt.Fprintf(out, "  Total duration: %s\n", result.Duration.Round(time.Millisecond))

	for _, outcome := range result.Outcomes {
		if outcome.Succeeded() {
			fmt.Fprintf(out, "  - %s: %d records -> %s\n", outcome.Root, outcome.Records, outcome.OutputPath)
		} else {
			fmt.Fprintf(out, "  - %s: FAILED (%v)\n", outcome.Root, outcome.Err)
		}
	}
}

// changedInt returns the flag value only when the user set it, so config
// file settings survive unset flags.
func changedInt(cmd *cobra.Command, name string, value *int) *int {
	if cmd.Flags().Changed(name) {
		return value
	}
	return nil
}

func changedString(cmd *cobra.Command, name string, value *string) *string {
	if cmd.Flags().Changed(name) {
		return value
	}
	return nil
}

func changedBool(cmd *cobra.Command, name string, value *bool) *bool {
	if cmd.Flags().Changed(name) {
		return value
	}
	return nil
}
