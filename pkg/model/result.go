package model

import (
	"fmt"
	"io"
)

// Severity indicates the weight of a validation issue.
type Severity int

const (
	// SeverityInfo is informational feedback.
	SeverityInfo Severity = iota
	// SeverityWarning is a potential problem worth reviewing.
	SeverityWarning
	// SeverityError is a defect that will break loading or querying.
	SeverityError
)

// String returns the display form of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Information"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Issue is a single validation finding.
type Issue struct {
	Message  string
	Severity Severity
}

// ValidationResult accumulates validation findings in the order they
// were found. Adding any issue, Warnings and Info included, flips Valid
// to false; use HasErrors for a severity-aware check.
type ValidationResult struct {
	Valid  bool
	Issues []Issue
}

// NewValidationResult creates a result that is valid with no issues.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{Valid: true}
}

// AddIssue records a finding at the given severity and marks the result
// invalid.
func (r *ValidationResult) AddIssue(message string, severity Severity) {
	r.Valid = false
	r.Issues = append(r.Issues, Issue{Message: message, Severity: severity})
}

// AddError records an Error finding.
func (r *ValidationResult) AddError(message string) {
	r.AddIssue(message, SeverityError)
}

// AddWarning records a Warning finding.
func (r *ValidationResult) AddWarning(message string) {
	r.AddIssue(message, SeverityWarning)
}

// AddInfo records an Info finding.
func (r *ValidationResult) AddInfo(message string) {
	r.AddIssue(message, SeverityInfo)
}

// HasErrors reports whether any Error-severity issue was recorded.
func (r *ValidationResult) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// WriteIssues prints all issues to w, one per line, prefixed by severity.
func (r *ValidationResult) WriteIssues(w io.Writer) {
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "%s:  %s\n", issue.Severity, issue.Message)
	}
}
