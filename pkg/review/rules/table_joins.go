package reviewrules

import (
	"context"
	"fmt"

	"github.com/schemalint/schemalint/pkg/review"
)

func init() {
	review.Register(review.RuleDef{
		Name:        "review_table_joins",
		Description: "Joins whose data is one-to-many or many-to-many",
		Requires:    []review.Input{review.InputDatabase, review.InputBackend},
		Check:       checkTableJoins,
	})
}

// checkTableJoins probes the actual cardinality of every foreign key
// and generic relationship. For each join it counts, grouped by each
// side in turn, the maximum number of joined rows per group. A target
// side matching many source rows while each source row matches at most
// one target row is one-to-many; many on both sides is many-to-many.
// Both are flagged. One-to-one and many-to-one joins pass.
func checkTableJoins(ctx context.Context, in *review.Inputs) []string {
	var issues []string
	for _, t := range in.Database.Tables() {
		for _, fk := range t.ForeignKeys() {
			if d, ok := fkDescriptor(in.Database, t, fk); ok {
				issues = append(issues, classifyJoin(ctx, in, d)...)
			}
		}
		for _, rel := range t.Relationships() {
			if d, ok := relDescriptor(in.Database, t, rel); ok {
				issues = append(issues, classifyJoin(ctx, in, d)...)
			}
		}
	}
	return issues
}

// classifyJoin runs both probe queries for a join descriptor and
// returns the findings. A failed probe on either side reports the join
// as returning no data instead of aborting the run.
func classifyJoin(ctx context.Context, in *review.Inputs, d joinDescriptor) []string {
	perSource := probeCount(ctx, in.Backend, in.Logger, matchCountQuery(d, d.Source), "max_group_count")
	perTarget := probeCount(ctx, in.Backend, in.Logger, matchCountQuery(d, d.Target), "max_group_count")

	if perSource == probeFailed || perTarget == probeFailed {
		return []string{fmt.Sprintf("%s from %s to %s didn't return data",
			d.Name, d.Source.Table, d.Target.Table)}
	}

	switch {
	case perTarget > 1 && perSource > 1:
		return []string{fmt.Sprintf(
			"%s from %s to %s is many-to-many (up to %d and %d rows per group); consider an intermediate table",
			d.Name, d.Source.Table, d.Target.Table, perSource, perTarget)}
	case perTarget > 1 && perSource == 1:
		return []string{fmt.Sprintf(
			"%s from %s to %s is one-to-many (up to %d rows of %s join each row of %s)",
			d.Name, d.Source.Table, d.Target.Table, perTarget, d.Source.Table, d.Target.Table)}
	}
	return nil
}
