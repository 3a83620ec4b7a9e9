/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/archgate/internal/boundary"
	"github.com/fulmenhq/archgate/pkg/logger"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [target]",
	Short: "Validate architectural boundaries under a root path",
	Long: `Check scans the target tree (default: current directory), builds the
import and module-dependency graphs, and evaluates every enabled rule.

Exit codes: 0 when the tree is clean, 1 when violations or parse errors
were found, 2 when a fatal error prevented evaluation.`,
	Example: `  archgate check                              # Validate the current directory
  archgate check ./services                     # Validate a subtree
  archgate check --rules module-cycles          # Run a single rule
  archgate check --skip-rules domain-purity     # Run everything else
  archgate check --format json -o report.json   # Machine-readable report`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("format", "markdown", "Output format (markdown, json, html, concise)")
	checkCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	checkCmd.Flags().StringSlice("rules", nil, "Run only these rules (comma-separated names)")
	checkCmd.Flags().StringSlice("skip-rules", nil, "Skip these rules (comma-separated names)")
	checkCmd.Flags().Bool("include-tests", false, "Include _test.go files in the scan")
	checkCmd.Flags().Bool("no-ignore", false, "Disable .gitignore/.archgateignore during discovery")
	checkCmd.Flags().Int("workers", 0, "Parallel parse workers (0 = sequential)")
	checkCmd.Flags().String("policy", "", "Explicit policy file path (default: .archgate.yaml at the target root)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	format, _ := flags.GetString("format")
	output, _ := flags.GetString("output")
	onlyRules, _ := flags.GetStringSlice("rules")
	skipRules, _ := flags.GetStringSlice("skip-rules")
	includeTests, _ := flags.GetBool("include-tests")
	noIgnore, _ := flags.GetBool("no-ignore")
	workers, _ := flags.GetInt("workers")
	policyPath, _ := flags.GetString("policy")
	noColor, _ := flags.GetBool("no-color")

	switch boundary.OutputFormat(format) {
	case boundary.FormatMarkdown, boundary.FormatJSON, boundary.FormatHTML, boundary.FormatConcise:
		// ok
	default:
		return fmt.Errorf("invalid format: %s (must be markdown, json, html, or concise)", format)
	}

	// Suppress info logs for JSON output so stdout pipes stay clean.
	if boundary.OutputFormat(format) == boundary.FormatJSON && output == "" {
		logger.Initialize(logger.Config{
			Level:     logger.ErrorLevel,
			Component: "archgate",
		})
	}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	report, err := boundary.Orchestrate(target, boundary.Options{
		PolicyPath:   policyPath,
		IncludeTests: includeTests,
		NoIgnore:     noIgnore,
		Workers:      workers,
		Selection:    boundary.Selection{Only: onlyRules, Skip: skipRules},
	})
	if err != nil {
		return err
	}

	formatter := boundary.NewFormatter(boundary.OutputFormat(format))
	formatter.SetNoColor(noColor || os.Getenv("NO_COLOR") != "")
	rendered, err := formatter.Format(report)
	if err != nil {
		return err
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(rendered), 0644); err != nil { // #nosec G306 -- report is not sensitive
			return fmt.Errorf("failed to write report to %s: %w", output, err)
		}
		logger.Info("report written", logger.String("path", output))
	} else {
		cmd.Print(rendered)
	}

	if code := report.ExitCode(); code != 0 {
		os.Exit(code)
	}
	return nil
}
