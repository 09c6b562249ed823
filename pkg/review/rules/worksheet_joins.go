package reviewrules

import (
	"context"
	"fmt"

	"github.com/schemalint/schemalint/pkg/backend"
	"github.com/schemalint/schemalint/pkg/model"
	"github.com/schemalint/schemalint/pkg/review"
)

func init() {
	review.Register(review.RuleDef{
		Name:        "review_worksheet_joins",
		Description: "Worksheet joins whose declared kind doesn't match the data",
		Requires:    []review.Input{review.InputDatabase, review.InputWorksheet, review.InputBackend},
		Check:       checkWorksheetJoins,
	})
}

// checkWorksheetJoins infers the join kind each declared worksheet join
// actually needs by counting unmatched rows on each side with outer
// join probes: unmatched rows on both sides need FULL_OUTER, on the
// source side LEFT_OUTER, on the destination side RIGHT_OUTER, and on
// neither INNER. Only physical table references backed by a foreign
// key can be probed; alias and fully qualified references are skipped
// with a diagnostic finding.
func checkWorksheetJoins(ctx context.Context, in *review.Inputs) []string {
	var issues []string
	for _, join := range in.Worksheet.Joins() {
		issues = append(issues, checkWorksheetJoin(ctx, in, join)...)
	}
	return issues
}

func checkWorksheetJoin(ctx context.Context, in *review.Inputs, join model.WorksheetJoin) []string {
	source, finding := physicalTable(in, join, join.Source)
	if finding != "" {
		return []string{finding}
	}
	dest, finding := physicalTable(in, join, join.Destination)
	if finding != "" {
		return []string{finding}
	}

	fk := foreignKeyBetween(source, dest.Name)
	if fk == nil {
		return []string{fmt.Sprintf("join %s: no foreign key from %s to %s to probe",
			join.Name, source.Name, dest.Name)}
	}
	d, ok := fkDescriptor(in.Database, source, fk)
	if !ok {
		return nil
	}

	unmatchedSource := probeCount(ctx, in.Backend, in.Logger,
		unmatchedQuery(d, d.Source, d.Target, fk.ToKeys[0]), "unmatched_count")
	unmatchedDest := probeCount(ctx, in.Backend, in.Logger,
		unmatchedQuery(d, d.Target, d.Source, fk.FromKeys[0]), "unmatched_count")
	if unmatchedSource == probeFailed || unmatchedDest == probeFailed {
		return []string{fmt.Sprintf("join %s from %s to %s didn't return data",
			join.Name, source.Name, dest.Name)}
	}

	needed := inferJoinType(unmatchedSource, unmatchedDest)
	if needed != join.Type {
		return []string{fmt.Sprintf("join %s from %s to %s is declared %s but the data needs %s",
			join.Name, source.Name, dest.Name, join.Type, needed)}
	}
	return nil
}

// physicalTable resolves a worksheet table reference to its physical
// table in the database. A non-empty second return is the finding that
// explains why the reference cannot be probed.
func physicalTable(in *review.Inputs, join model.WorksheetJoin, name string) (*model.Table, string) {
	ref := in.Worksheet.Table(name)
	if ref == nil {
		return nil, fmt.Sprintf("join %s references unknown worksheet table %s", join.Name, name)
	}
	if ref.Type != model.WorksheetTablePhysical {
		return nil, fmt.Sprintf("skipping join %s: %s table references are not supported", join.Name, ref.Type)
	}
	t := in.Database.Table(ref.Name)
	if t == nil {
		return nil, fmt.Sprintf("join %s references table %s which isn't in the database", join.Name, ref.Name)
	}
	return t, ""
}

// foreignKeyBetween returns the first foreign key from t to the named
// target table, or nil.
func foreignKeyBetween(t *model.Table, target string) *model.ForeignKey {
	for _, fk := range t.ForeignKeys() {
		if fk.ToTable == target {
			return fk
		}
	}
	return nil
}

// unmatchedQuery counts rows of the outer side with no join partner on
// the inner side. nullColumn is an inner-side joined column; it is NULL
// exactly on the unmatched rows.
func unmatchedQuery(d joinDescriptor, outer, inner joinSide, nullColumn string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) AS unmatched_count FROM %s LEFT OUTER JOIN %s ON %s WHERE %s IS NULL;",
		outer.quoted(), inner.quoted(), d.Condition,
		backend.QuoteColumn(inner.Database, inner.Schema, inner.Table, nullColumn))
}

func inferJoinType(unmatchedSource, unmatchedDest int64) string {
	switch {
	case unmatchedSource > 0 && unmatchedDest > 0:
		return model.JoinFullOuter
	case unmatchedSource > 0:
		return model.JoinLeftOuter
	case unmatchedDest > 0:
		return model.JoinRightOuter
	}
	return model.JoinInner
}
