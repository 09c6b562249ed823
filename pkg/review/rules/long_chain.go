package reviewrules

import (
	"context"
	"fmt"
	"strings"

	"github.com/schemalint/schemalint/internal/config"
	"github.com/schemalint/schemalint/internal/relgraph"
	"github.com/schemalint/schemalint/pkg/review"
)

func init() {
	review.Register(review.RuleDef{
		Name:        "review_long_chain_relationships",
		Description: "Relationship chains longer than the configured maximum",
		Requires:    []review.Input{review.InputDatabase, review.InputConfig},
		Check:       checkLongChainRelationships,
		ConfigKeys:  []string{config.KeyMaxChainLength},
	})
}

// checkLongChainRelationships enumerates every simple path through the
// relationship graph and reports the ones longer (in edges) than the
// configured maximum. Paths starting at intermediate tables are
// reported too.
func checkLongChainRelationships(_ context.Context, in *review.Inputs) []string {
	maxLength := in.Config.Int64(config.KeyMaxChainLength, config.DefaultMaxChainLength)

	var issues []string
	graph := relgraph.FromDatabase(in.Database)
	for _, table := range graph.Nodes() {
		for _, path := range graph.SimplePaths(table) {
			edges := int64(len(path) - 1)
			if edges > maxLength {
				issues = append(issues, fmt.Sprintf("long path (%d joins): %s", edges, strings.Join(path, " -> ")))
			}
		}
	}
	return issues
}
