package reviewrules

import (
	"context"
	"fmt"

	"github.com/schemalint/schemalint/pkg/review"
)

func init() {
	review.Register(review.RuleDef{
		Name:        "review_pks",
		Description: "Tables with no declared primary key",
		Requires:    []review.Input{review.InputDatabase},
		Check:       checkPrimaryKeys,
	})
}

// checkPrimaryKeys reports one finding per table that declares no
// primary key. Tables without a primary key cannot anchor foreign keys
// and default to full-row grouping in cardinality probes.
func checkPrimaryKeys(_ context.Context, in *review.Inputs) []string {
	var issues []string
	for _, t := range in.Database.Tables() {
		if len(t.PrimaryKey) == 0 {
			issues = append(issues, fmt.Sprintf("table %s doesn't have a primary key", t.Name))
		}
	}
	return issues
}
