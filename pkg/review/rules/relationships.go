package reviewrules

import (
	"context"
	"fmt"

	"github.com/schemalint/schemalint/pkg/review"
)

func init() {
	review.Register(review.RuleDef{
		Name:        "review_relationships",
		Description: "Generic relationships that duplicate a foreign key",
		Requires:    []review.Input{review.InputDatabase},
		Check:       checkRelationships,
	})
}

// checkRelationships flags generic relationships whose source table
// already has a foreign key to the same target. Foreign keys are
// preferred where they can express the link; a parallel generic
// relationship doubles the join edge.
func checkRelationships(_ context.Context, in *review.Inputs) []string {
	var issues []string
	for _, t := range in.Database.Tables() {
		fkTargets := make(map[string]bool)
		for _, fk := range t.ForeignKeys() {
			fkTargets[fk.ToTable] = true
		}
		for _, rel := range t.Relationships() {
			if fkTargets[rel.ToTable] {
				issues = append(issues, fmt.Sprintf(
					"relationship %s from %s to %s duplicates a foreign key and could be removed",
					rel.Name, t.Name, rel.ToTable))
			}
		}
	}
	return issues
}
