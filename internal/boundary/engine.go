/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package boundary

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/archgate/pkg/archgraph"
	"github.com/fulmenhq/archgate/pkg/logger"
)

// Engine runs the registered rule table against an immutable graph model.
// Its only responsibilities are selection, fault containment, and result
// collection: a panicking rule becomes a recorded fault, never a silent
// skip, and never stops the rules after it.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine over the built-in rule table.
func NewEngine() *Engine {
	return &Engine{rules: DefaultRules()}
}

// Rules returns the registered rule table in registration order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Selection names which rules run. Zero value means "run everything".
type Selection struct {
	Only []string // when non-empty, only these rule names run
	Skip []string // always skipped, applied after Only
}

// Validate rejects selections naming rules that do not exist, so a typo
// in a CI config fails loudly instead of silently passing.
func (e *Engine) Validate(sel Selection) error {
	known := make(map[string]struct{}, len(e.rules))
	for _, rule := range e.rules {
		known[rule.Name] = struct{}{}
	}
	for _, name := range append(append([]string(nil), sel.Only...), sel.Skip...) {
		if _, ok := known[strings.TrimSpace(name)]; !ok {
			return fmt.Errorf("unknown rule: %s", name)
		}
	}
	return nil
}

func (sel Selection) enabled(name string) bool {
	for _, skip := range sel.Skip {
		if strings.TrimSpace(skip) == name {
			return false
		}
	}
	if len(sel.Only) == 0 {
		return true
	}
	for _, only := range sel.Only {
		if strings.TrimSpace(only) == name {
			return true
		}
	}
	return false
}

// Run evaluates every registered rule against the model, in registration
// order. Disabled rules appear in the results as skipped so report layout
// stays stable across selections.
func (e *Engine) Run(model *archgraph.Model, sel Selection) []RuleResult {
	results := make([]RuleResult, 0, len(e.rules))
	for _, rule := range e.rules {
		result := RuleResult{Name: rule.Name, Description: rule.Description}
		if !sel.enabled(rule.Name) {
			result.Skipped = true
			results = append(results, result)
			continue
		}
		result.Violations, result.Err = runRule(rule, model)
		if result.Err != "" {
			logger.Error("rule failed with internal fault",
				logger.String("rule", rule.Name), logger.String("fault", result.Err))
		}
		results = append(results, result)
	}
	return results
}

// runRule isolates one rule invocation so a fault in its check cannot
// abort the rules after it.
func runRule(rule Rule, model *archgraph.Model) (violations []Violation, fault string) {
	defer func() {
		if r := recover(); r != nil {
			violations = nil
			fault = fmt.Sprintf("internal fault in rule %s: %v", rule.Name, r)
		}
	}()
	return rule.Check(model), ""
}
