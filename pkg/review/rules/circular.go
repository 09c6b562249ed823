package reviewrules

import (
	"context"
	"fmt"

	"github.com/schemalint/schemalint/internal/relgraph"
	"github.com/schemalint/schemalint/pkg/review"
)

func init() {
	review.Register(review.RuleDef{
		Name:        "review_circular_relationships",
		Description: "Tables whose relationship closure loops back to themselves",
		Requires:    []review.Input{review.InputDatabase},
		Check:       checkCircularRelationships,
	})
}

// checkCircularRelationships reports every table whose reachable-table
// closure contains the table itself. A ring of N tables yields N
// findings, one per starting table.
func checkCircularRelationships(_ context.Context, in *review.Inputs) []string {
	var issues []string

	graph := relgraph.FromDatabase(in.Database)
	for _, table := range graph.Nodes() {
		if graph.HasCycleFrom(table) {
			issues = append(issues, fmt.Sprintf("%s has a circular relationship back to itself", table))
		}
	}
	return issues
}
