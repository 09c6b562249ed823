package reviewrules

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/schemalint/schemalint/pkg/backend"
	"github.com/schemalint/schemalint/pkg/model"
)

// probeFailed is the sentinel count for a probe query that errored,
// returned no rows, or returned an unparsable aggregate.
const probeFailed = -1

// joinSide is one side of a join descriptor: where the table lives and
// which columns to group by when counting matches from this side.
type joinSide struct {
	Database string
	Schema   string
	Table    string
	GroupBy  []string
}

// quoted returns the fully qualified, quoted table identifier.
func (s joinSide) quoted() string {
	return backend.QuoteTable(s.Database, s.Schema, s.Table)
}

// quotedColumns returns the fully qualified grouping column identifiers.
func (s joinSide) quotedColumns() []string {
	cols := make([]string, len(s.GroupBy))
	for i, c := range s.GroupBy {
		cols[i] = backend.QuoteColumn(s.Database, s.Schema, s.Table, c)
	}
	return cols
}

// joinDescriptor is a concrete table-to-table join to probe: both sides
// plus the join condition over fully qualified columns.
type joinDescriptor struct {
	Name      string
	Source    joinSide
	Target    joinSide
	Condition string
}

// groupingColumns returns the columns to group by when counting join
// matches per row: the primary key if declared, else all columns.
func groupingColumns(t *model.Table) []string {
	if len(t.PrimaryKey) > 0 {
		return t.PrimaryKey
	}
	return t.ColumnNames()
}

// side builds the join side for a table in the given database.
func side(databaseName string, t *model.Table) joinSide {
	return joinSide{
		Database: databaseName,
		Schema:   t.SchemaName,
		Table:    t.Name,
		GroupBy:  groupingColumns(t),
	}
}

// fkDescriptor derives a join descriptor from a foreign key. The join
// condition equates each source column with its target column. Reports
// false when the target table is missing from the database; validation
// owns that finding.
func fkDescriptor(db *model.Database, t *model.Table, fk *model.ForeignKey) (joinDescriptor, bool) {
	target := db.Table(fk.ToTable)
	if target == nil {
		return joinDescriptor{}, false
	}

	conditions := make([]string, len(fk.FromKeys))
	for i := range fk.FromKeys {
		conditions[i] = fmt.Sprintf("%s = %s",
			backend.QuoteColumn(db.Name, t.SchemaName, t.Name, fk.FromKeys[i]),
			backend.QuoteColumn(db.Name, target.SchemaName, target.Name, fk.ToKeys[i]))
	}

	return joinDescriptor{
		Name:      fk.Name,
		Source:    side(db.Name, t),
		Target:    side(db.Name, target),
		Condition: strings.Join(conditions, " AND "),
	}, true
}

// relDescriptor derives a join descriptor from a generic relationship,
// using its declared condition verbatim. Reports false when the target
// table is missing.
func relDescriptor(db *model.Database, t *model.Table, rel *model.GenericRelationship) (joinDescriptor, bool) {
	target := db.Table(rel.ToTable)
	if target == nil {
		return joinDescriptor{}, false
	}
	return joinDescriptor{
		Name:      rel.Name,
		Source:    side(db.Name, t),
		Target:    side(db.Name, target),
		Condition: rel.Conditions,
	}, true
}

// matchCountQuery builds the probe query counting, per group of the
// given side, how many joined rows exist, and taking the maximum over
// all groups.
func matchCountQuery(d joinDescriptor, groupSide joinSide) string {
	return fmt.Sprintf(
		"SELECT MAX(group_count) AS max_group_count FROM "+
			"(SELECT COUNT(*) AS group_count FROM %s, %s WHERE %s GROUP BY %s) AS grouped;",
		d.Source.quoted(), d.Target.quoted(), d.Condition,
		strings.Join(groupSide.quotedColumns(), ", "))
}

// probeCount runs a probe query and reads the named aggregate column
// from the first result row. Any failure yields probeFailed; probe
// failures never abort a review run.
func probeCount(ctx context.Context, be backend.Backend, logger *slog.Logger, query, column string) int64 {
	result, err := be.Query(ctx, query)
	if err != nil {
		logger.Warn("probe query failed", "query", query, "error", err)
		return probeFailed
	}
	if result.RowCount() == 0 {
		return probeFailed
	}
	count, err := strconv.ParseInt(result.Rows()[0].Column(column), 10, 64)
	if err != nil {
		logger.Warn("probe query returned a non-numeric count", "query", query, "value", result.Rows()[0].Column(column))
		return probeFailed
	}
	return count
}
