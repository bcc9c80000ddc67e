package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pradhanhitesh/dicomcrawl/internal/template"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	var templatePath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a modality template without crawling",
		Long: `Load and validate the modality template, reporting format problems and
conflicting identifiers. No directory is touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := template.Load(templatePath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			modalities := tpl.Modalities()
			fmt.Fprintf(out, "Template %s is valid: %d modalities\n", templatePath, len(modalities))
			for _, name := range modalities {
				fmt.Fprintf(out, "  %s: %v\n", name, tpl.Identifiers(name))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "path to the modality template file (required)")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}
