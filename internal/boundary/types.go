/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package boundary

import (
	"github.com/fulmenhq/archgate/pkg/archgraph"
	"github.com/fulmenhq/archgate/pkg/exitcode"
)

// Violation is one reported breach of a structural rule. It is a pure
// output value; the message names the offending import or dependency
// verbatim so no cross-referencing against source is needed.
type Violation struct {
	Rule    string `json:"rule"`
	Subject string `json:"subject"` // file or module implicated
	Message string `json:"message"`
}

// ParseError is a recoverable diagnostic from the scan phase: one source
// file or manifest that could not be parsed. It is distinct from a
// Violation and reported in its own section.
type ParseError struct {
	Kind    string `json:"kind"` // "source" or "manifest"
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Rule is a named, pure structural check over the graph model. Rules are
// registered once into an ordered table; the order determines report
// layout only, never outcome, and no rule may read another's output.
type Rule struct {
	Name        string
	Description string
	Check       func(*archgraph.Model) []Violation
}

// RuleResult is the outcome of running (or skipping) one rule
type RuleResult struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Skipped     bool        `json:"skipped,omitempty"`
	Violations  []Violation `json:"violations,omitempty"`
	Err         string      `json:"error,omitempty"` // internal fault, recovered
}

// ReportMetadata describes a run. It deliberately carries no timestamps:
// re-running against an unchanged tree must produce byte-identical output.
type ReportMetadata struct {
	Tool    string `json:"tool"`
	Version string `json:"version"`
	Target  string `json:"target"`
	Modules int    `json:"modules"`
	Units   int    `json:"units"`
}

// ReportSummary aggregates the run for the exit-status decision
type ReportSummary struct {
	RulesRun    int  `json:"rules_run"`
	RulesFailed int  `json:"rules_failed"`
	Violations  int  `json:"violations"`
	ParseErrors int  `json:"parse_errors"`
	Pass        bool `json:"pass"`
}

// Report is the complete result of one validation run
type Report struct {
	Metadata    ReportMetadata `json:"metadata"`
	Results     []RuleResult   `json:"results"`
	ParseErrors []ParseError   `json:"parse_errors,omitempty"`
	Summary     ReportSummary  `json:"summary"`
}

// ExitCode computes the process exit status per the CI contract: internal
// rule faults are fatal, violations and parse errors gate the merge, and
// a clean tree exits zero.
func (r *Report) ExitCode() int {
	for _, res := range r.Results {
		if res.Err != "" {
			return exitcode.FatalError
		}
	}
	if r.Summary.Violations > 0 || r.Summary.ParseErrors > 0 {
		return exitcode.ViolationsFound
	}
	return exitcode.Success
}

func summarize(report *Report) {
	var violations, failed int
	for _, res := range report.Results {
		if res.Skipped {
			continue
		}
		report.Summary.RulesRun++
		violations += len(res.Violations)
		if len(res.Violations) > 0 || res.Err != "" {
			failed++
		}
	}
	report.Summary.RulesFailed = failed
	report.Summary.Violations = violations
	report.Summary.ParseErrors = len(report.ParseErrors)
	report.Summary.Pass = report.ExitCode() == exitcode.Success
}
