// Package relgraph builds a directed graph of table-to-table
// relationships from a schema model and runs the reachability and path
// algorithms behind the relationship review rules.
//
// Path enumeration is exponential in the worst case for densely
// connected graphs. No cap is imposed here: the source graphs are
// schema models with tens of tables, and callers that need a bound
// should configure one at the rule level.
package relgraph

import "github.com/schemalint/schemalint/pkg/model"

// Graph is an adjacency structure over table names. Nodes iterate in
// table insertion order; neighbors are the union of a table's foreign
// key targets and generic relationship targets, deduplicated, in first
// reference order. Neighbor names that are not nodes (dangling targets)
// are kept; they simply have no outgoing edges.
type Graph struct {
	nodes     []string
	adjacency map[string][]string
}

// FromDatabase builds the relationship graph for a database.
func FromDatabase(db *model.Database) *Graph {
	g := &Graph{adjacency: make(map[string][]string)}
	for _, t := range db.Tables() {
		g.nodes = append(g.nodes, t.Name)
		seen := make(map[string]bool)
		var neighbors []string
		for _, related := range t.RelatedTables() {
			if !seen[related] {
				seen[related] = true
				neighbors = append(neighbors, related)
			}
		}
		g.adjacency[t.Name] = neighbors
	}
	return g
}

// Nodes returns the table names in insertion order.
func (g *Graph) Nodes() []string {
	return g.nodes
}

// Neighbors returns the tables directly related to the given table.
func (g *Graph) Neighbors(table string) []string {
	return g.adjacency[table]
}

// HasCycleFrom computes the closure of tables reachable from start by
// repeated expansion and reports whether the closure comes to contain
// start itself. The expansion is a standard reachability fixed point:
// it converges within at most one pass per table in the graph.
func (g *Graph) HasCycleFrom(start string) bool {
	closure := make(map[string]bool)
	frontier := g.adjacency[start]

	for len(frontier) > 0 {
		var next []string
		for _, table := range frontier {
			if table == start {
				return true
			}
			if closure[table] {
				continue
			}
			closure[table] = true
			next = append(next, g.adjacency[table]...)
		}
		frontier = next
	}
	return false
}

// SimplePaths enumerates every simple path (no repeated table) that
// starts at the given table, by depth-first expansion. Each returned
// path begins with start; a path's length in edges is len(path)-1.
func (g *Graph) SimplePaths(start string) [][]string {
	var paths [][]string
	g.extendPaths([]string{start}, &paths)
	return paths
}

func (g *Graph) extendPaths(path []string, paths *[][]string) {
	last := path[len(path)-1]
	for _, neighbor := range g.adjacency[last] {
		if containsTable(path, neighbor) {
			continue
		}
		next := make([]string, len(path), len(path)+1)
		copy(next, path)
		next = append(next, neighbor)
		*paths = append(*paths, next)
		g.extendPaths(next, paths)
	}
}

func containsTable(path []string, table string) bool {
	for _, t := range path {
		if t == table {
			return true
		}
	}
	return false
}
