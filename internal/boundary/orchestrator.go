/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package boundary

import (
	"fmt"

	"github.com/fulmenhq/archgate/pkg/archgraph"
	"github.com/fulmenhq/archgate/pkg/buildinfo"
	"github.com/fulmenhq/archgate/pkg/config"
	"github.com/fulmenhq/archgate/pkg/ignore"
	"github.com/fulmenhq/archgate/pkg/logger"
	"github.com/fulmenhq/archgate/pkg/manifest"
	"github.com/fulmenhq/archgate/pkg/scanner"
)

// Options configures one validation run
type Options struct {
	PolicyPath   string
	IncludeTests bool
	NoIgnore     bool
	Workers      int
	Selection    Selection
}

// Orchestrate drives a full run through its three phases: scanning
// (source + manifests + graph build), evaluating (every enabled rule),
// and reporting (the returned Report). An error return means the run
// failed fatally before evaluation; recoverable diagnostics land in the
// Report instead.
func Orchestrate(target string, opts Options) (*Report, error) {
	engine := NewEngine()
	if err := engine.Validate(opts.Selection); err != nil {
		return nil, err
	}

	policy, err := config.LoadPolicy(target, opts.PolicyPath)
	if err != nil {
		return nil, err
	}

	var matcher *ignore.Matcher
	if !opts.NoIgnore {
		matcher, err = ignore.NewMatcher(target)
		if err != nil {
			return nil, fmt.Errorf("failed to build ignore matcher for %s: %w", target, err)
		}
	}

	// Phase 1: scanning.
	scan, err := scanner.Scan(target, scanner.Options{
		IncludeTests:  opts.IncludeTests,
		Ignore:        matcher,
		ExtraExcludes: policy.Exclude,
		Workers:       opts.Workers,
	})
	if err != nil {
		return nil, err
	}
	manifests, manifestErrs, err := manifest.Discover(target, manifest.Options{Ignore: matcher})
	if err != nil {
		return nil, err
	}

	model, err := archgraph.Build(scan, manifests, policy)
	if err != nil {
		return nil, err
	}
	logger.Info("scan complete",
		logger.Int("modules", len(model.Modules())),
		logger.Int("units", len(model.Units())),
		logger.Int("parse_errors", len(scan.ParseErrors)+len(manifestErrs)))

	// Phase 2: evaluating.
	results := engine.Run(model, opts.Selection)

	// Phase 3: reporting.
	report := &Report{
		Metadata: ReportMetadata{
			Tool:    "archgate",
			Version: buildinfo.BinaryVersion,
			Target:  target,
			Modules: len(model.Modules()),
			Units:   len(model.Units()),
		},
		Results: results,
	}
	for _, perr := range scan.ParseErrors {
		report.ParseErrors = append(report.ParseErrors, ParseError{Kind: "source", Path: perr.Path, Message: perr.Message})
	}
	for _, perr := range manifestErrs {
		report.ParseErrors = append(report.ParseErrors, ParseError{Kind: "manifest", Path: perr.Path, Message: perr.Message})
	}
	summarize(report)
	return report, nil
}
