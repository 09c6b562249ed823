// Package model defines the schema data model for schemalint: databases,
// tables, columns, keys, relationships, and worksheets, plus the structural
// validator that checks a model for internal consistency.
//
// Entities are built once by a loader (see internal/loader), optionally
// mutated by editing tools, and then consumed read-only by the validator
// and the review rules in pkg/review. Nothing in this package is safe for
// concurrent mutation.
//
// Iteration order matters: columns, foreign keys, relationships, and tables
// all preserve insertion order, which is significant for validation output
// and for re-serialization.
package model
