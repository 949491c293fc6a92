package main

import (
	"fmt"
	"os"

	"claims_backoffice/db"
	"claims_backoffice/services"
	"claims_backoffice/services/i18n"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func importPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-policies <file.xlsx>",
		Short: "Create policies from a spreadsheet",
		Long: `Create one policy per row of an xlsx workbook laid out like the import template.
Rows that fail validation are reported and skipped, the rest are saved.

Example:
  claimsctl import-policies ~/Downloads/policies_2025.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: runImportPolicies,
	}
}

func runImportPolicies(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	result, err := services.ImportPolicies(cmd.Context(), db.DB, cliActor, f)
	if err != nil {
		if ve, ok := services.AsValidationError(err); ok {
			return fmt.Errorf("cannot import %s: %s", args[0], ve.Fields["file"])
		}
		return err
	}

	fmt.Printf("Processed %d rows: %s, %s\n",
		result.TotalProcessed,
		color.GreenString("%d imported", result.SuccessCount),
		failedColor(result.FailedCount).Sprintf("%d failed", result.FailedCount))
	for _, e := range result.Errors {
		fmt.Println("  " + color.YellowString(e.String()))
	}
	return nil
}

func importTemplateCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "import-template <out.xlsx>",
		Short: "Write the policy import template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !i18n.IsSupported(lang) {
				return fmt.Errorf("unsupported language %q", lang)
			}
			buf, err := services.BuildPolicyImportTemplate(i18n.WithLocale(cmd.Context(), lang))
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}
			fmt.Println(color.GreenString("✓ Template written to %s", args[0]))
			return nil
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "en", "template language (en, pt)")
	return cmd
}

func failedColor(n int) *color.Color {
	if n == 0 {
		return color.New(color.FgGreen)
	}
	return color.New(color.FgRed, color.Bold)
}
