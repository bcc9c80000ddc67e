// Package cmd wires the dicomcrawl CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for dicomcrawl
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dicomcrawl",
		Short: "Inventory DICOM files across heterogeneous archives",
		Long: `dicomcrawl crawls directory trees that mix arbitrary files with DICOM
imaging files, verifies DICOM files by content, classifies each by imaging
modality against a user-supplied template, extracts descriptive metadata,
and writes one modal_data.csv summary per crawled directory.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewValidateCommand())

	return cmd
}
