// Package reviewrules registers the built-in model review rules.
// Import this package (blank import is enough) to register all rules
// with the global registry in pkg/review.
package reviewrules
