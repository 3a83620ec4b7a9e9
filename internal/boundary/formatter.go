/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package boundary

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aymerick/raymond"
)

// OutputFormat represents the format for report output
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatJSON     OutputFormat = "json"
	FormatHTML     OutputFormat = "html"
	// Concise is a short, colorized summary ideal for hook logs
	FormatConcise OutputFormat = "concise"
)

//go:embed report.html.hbs
var htmlTemplate string

// Formatter renders validation reports. Markdown and JSON output is
// byte-stable: the same tree always renders the same bytes.
type Formatter struct {
	format  OutputFormat
	noColor bool
}

// NewFormatter creates a report formatter
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{format: format}
}

// SetNoColor disables ANSI colors in the concise format.
func (f *Formatter) SetNoColor(noColor bool) {
	f.noColor = noColor
}

// Format renders the report in the configured format.
func (f *Formatter) Format(report *Report) (string, error) {
	switch f.format {
	case FormatMarkdown:
		return f.formatMarkdown(report), nil
	case FormatJSON:
		return f.formatJSON(report)
	case FormatHTML:
		return f.formatHTML(report)
	case FormatConcise:
		return f.formatConcise(report), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", f.format)
	}
}

func (f *Formatter) formatMarkdown(report *Report) string {
	var sb strings.Builder

	sb.WriteString("# archgate boundary report\n\n")
	fmt.Fprintf(&sb, "Target: %s\n", report.Metadata.Target)
	fmt.Fprintf(&sb, "Modules: %d | Compilation units: %d\n", report.Metadata.Modules, report.Metadata.Units)

	for _, res := range report.Results {
		fmt.Fprintf(&sb, "\n## %s\n\n", res.Name)
		fmt.Fprintf(&sb, "%s\n\n", res.Description)
		switch {
		case res.Skipped:
			sb.WriteString("SKIP (disabled)\n")
		case res.Err != "":
			fmt.Fprintf(&sb, "FAULT: %s\n", res.Err)
		case len(res.Violations) == 0:
			sb.WriteString("PASS\n")
		default:
			for _, v := range res.Violations {
				fmt.Fprintf(&sb, "- %s\n", v.Message)
			}
		}
	}

	if len(report.ParseErrors) > 0 {
		sb.WriteString("\n## parse errors\n\n")
		for _, perr := range report.ParseErrors {
			fmt.Fprintf(&sb, "- [%s] %s: %s\n", perr.Kind, perr.Path, perr.Message)
		}
	}

	sb.WriteString("\n## summary\n\n")
	fmt.Fprintf(&sb, "Rules run: %d | Failed: %d | Violations: %d | Parse errors: %d\n",
		report.Summary.RulesRun, report.Summary.RulesFailed, report.Summary.Violations, report.Summary.ParseErrors)
	if report.Summary.Pass {
		sb.WriteString("Result: PASS\n")
	} else {
		sb.WriteString("Result: FAIL\n")
	}
	return sb.String()
}

func (f *Formatter) formatJSON(report *Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data) + "\n", nil
}

func (f *Formatter) formatHTML(report *Report) (string, error) {
	ctx := map[string]interface{}{
		"tool":        report.Metadata.Tool,
		"version":     report.Metadata.Version,
		"target":      report.Metadata.Target,
		"modules":     report.Metadata.Modules,
		"units":       report.Metadata.Units,
		"results":     resultContexts(report),
		"parseErrors": report.ParseErrors,
		"violations":  report.Summary.Violations,
		"pass":        report.Summary.Pass,
	}
	out, err := raymond.Render(htmlTemplate, ctx)
	if err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return out, nil
}

func resultContexts(report *Report) []map[string]interface{} {
	contexts := make([]map[string]interface{}, 0, len(report.Results))
	for _, res := range report.Results {
		messages := make([]string, 0, len(res.Violations))
		for _, v := range res.Violations {
			messages = append(messages, v.Message)
		}
		contexts = append(contexts, map[string]interface{}{
			"name":        res.Name,
			"description": res.Description,
			"skipped":     res.Skipped,
			"fault":       res.Err,
			"messages":    messages,
			"pass":        !res.Skipped && res.Err == "" && len(res.Violations) == 0,
		})
	}
	return contexts
}

// formatConcise prints a short, colorized summary suitable for hook logs
func (f *Formatter) formatConcise(report *Report) string {
	color := func(code string, s string) string {
		if f.noColor {
			return s
		}
		return "\x1b[" + code + "m" + s + "\x1b[0m"
	}
	bold := func(s string) string { return color("1", s) }
	green := func(s string) string { return color("32", s) }
	yellow := func(s string) string { return color("33", s) }
	red := func(s string) string { return color("31", s) }

	var sb strings.Builder

	verdict := green("PASS")
	if !report.Summary.Pass {
		verdict = red("FAIL")
	}
	fmt.Fprintf(&sb, "%s %s | modules: %d | units: %d | violations: %d\n",
		bold("Boundary check"), verdict, report.Metadata.Modules, report.Metadata.Units, report.Summary.Violations)

	for _, res := range report.Results {
		var status string
		switch {
		case res.Skipped:
			status = "skipped"
		case res.Err != "":
			status = red("fault")
		case len(res.Violations) > 0:
			status = yellow(fmt.Sprintf("%d violation(s)", len(res.Violations)))
		default:
			status = green("ok")
		}
		fmt.Fprintf(&sb, " - %s: %s\n", res.Name, status)
	}

	if len(report.ParseErrors) > 0 {
		fmt.Fprintf(&sb, " - parse errors: %s\n", yellow(fmt.Sprintf("%d", len(report.ParseErrors))))
	}
	return sb.String()
}
