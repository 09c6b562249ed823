// Package review dispatches registered review rules over a schema model
// and collects their recommendations.
//
// Rules are pure functions of a declared set of inputs: the database
// model, an optional worksheet, an optional query backend, and the run
// configuration. The dispatcher inspects each rule's declared inputs
// before calling it; a rule that requires an input missing from this
// run is skipped with a diagnostic instead of being invoked with a nil
// value. All inputs are treated as read-only for the duration of a run.
//
// Concrete rules live in pkg/review/rules and register themselves with
// the global registry from init().
package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schemalint/schemalint/internal/config"
	"github.com/schemalint/schemalint/pkg/backend"
	"github.com/schemalint/schemalint/pkg/model"
)

// Inputs carries the values a review run can supply to rules. Database
// is required; Worksheet and Backend may be nil. A nil Config is
// replaced with an empty one so rules always see threshold defaults.
type Inputs struct {
	Database  *model.Database
	Worksheet *model.Worksheet
	Backend   backend.Backend
	Config    *config.Config
	Logger    *slog.Logger
}

// satisfies reports whether the input tagged by in is available.
func (i *Inputs) satisfies(in Input) bool {
	switch in {
	case InputDatabase:
		return i.Database != nil
	case InputWorksheet:
		return i.Worksheet != nil
	case InputBackend:
		return i.Backend != nil
	case InputConfig:
		return true
	}
	return false
}

// Report holds the outcome of a review run: per-rule findings keyed by
// rule name, in rule dispatch order, plus diagnostics for skipped rules.
type Report struct {
	ruleNames []string
	findings  map[string][]string
	skipped   []string
}

// add stores a rule's findings. Empty finding lists are dropped.
func (r *Report) add(rule string, findings []string) {
	if len(findings) == 0 {
		return
	}
	if r.findings == nil {
		r.findings = make(map[string][]string)
	}
	r.ruleNames = append(r.ruleNames, rule)
	r.findings[rule] = findings
}

// Rules returns the names of rules with findings, in dispatch order.
func (r *Report) Rules() []string {
	return r.ruleNames
}

// Findings returns the findings recorded for the named rule.
func (r *Report) Findings(rule string) []string {
	return r.findings[rule]
}

// Skipped returns diagnostics for rules not run because a required
// input was unavailable.
func (r *Report) Skipped() []string {
	return r.skipped
}

// Empty reports whether no rule produced findings.
func (r *Report) Empty() bool {
	return len(r.ruleNames) == 0
}

// Reviewer runs every registered rule against a set of inputs.
type Reviewer struct {
	logger *slog.Logger
}

// NewReviewer creates a reviewer. A nil logger discards log output.
func NewReviewer(logger *slog.Logger) *Reviewer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reviewer{logger: logger}
}

// Review dispatches all registered rules in name order. A rule whose
// declared inputs are all available is invoked and its non-empty
// findings stored under its name; a rule missing a required input is
// recorded as skipped. Individual rule failures do not abort the run,
// so the report is always complete for the rules that could execute.
func (r *Reviewer) Review(ctx context.Context, in *Inputs) (*Report, error) {
	if in == nil || in.Database == nil {
		return nil, fmt.Errorf("review requires a database model")
	}

	run := *in
	if run.Config == nil {
		run.Config = config.New()
	}
	if run.Logger == nil {
		run.Logger = r.logger
	}

	report := &Report{}
	for _, rule := range GetAll() {
		if missing, ok := unsatisfied(&run, rule); !ok {
			diag := fmt.Sprintf("skipping %s: no %s available", rule.Signature(), missing)
			report.skipped = append(report.skipped, diag)
			r.logger.Debug("rule skipped", "rule", rule.Name, "missing", missing)
			continue
		}
		r.logger.Debug("running rule", "rule", rule.Name)
		report.add(rule.Name, rule.Check(ctx, &run))
	}
	return report, nil
}

// unsatisfied returns the first declared input missing from this run,
// or ok when every declared input is available.
func unsatisfied(in *Inputs, rule RuleDef) (Input, bool) {
	for _, req := range rule.Requires {
		if !in.satisfies(req) {
			return req, false
		}
	}
	return "", true
}
