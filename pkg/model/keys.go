package model

import (
	"fmt"
	"sort"
)

// ForeignKey is a named, ordered column-list reference from one table to
// the primary key of another.
type ForeignKey struct {
	Name      string
	FromTable string
	FromKeys  []string
	ToTable   string
	ToKeys    []string
}

// NewForeignKey creates a foreign key. The number of from and to keys
// must match. If name is empty, one is derived from the table names;
// note that two unnamed keys between the same tables collide.
func NewForeignKey(fromTable string, fromKeys []string, toTable string, toKeys []string, name string) (*ForeignKey, error) {
	if fromTable == "" || toTable == "" {
		return nil, fmt.Errorf("foreign key requires both from and to tables")
	}
	if len(fromKeys) == 0 || len(toKeys) == 0 {
		return nil, fmt.Errorf("foreign key %s requires from and to key columns", name)
	}
	if len(fromKeys) != len(toKeys) {
		return nil, fmt.Errorf("foreign key %s has different length keys: %s:%v -- %s:%v",
			name, fromTable, fromKeys, toTable, toKeys)
	}
	if name == "" {
		name = fmt.Sprintf("FK_%s_to_%s", fromTable, toTable)
	}
	return &ForeignKey{
		Name:      name,
		FromTable: fromTable,
		FromKeys:  append([]string(nil), fromKeys...),
		ToTable:   toTable,
		ToKeys:    append([]string(nil), toKeys...),
	}, nil
}

// Equal reports structural equality: same name and tables, and the same
// key columns on each side regardless of order.
func (fk *ForeignKey) Equal(other *ForeignKey) bool {
	if other == nil {
		return false
	}
	return fk.Name == other.Name &&
		fk.FromTable == other.FromTable &&
		fk.ToTable == other.ToTable &&
		equalUnordered(fk.FromKeys, other.FromKeys) &&
		equalUnordered(fk.ToKeys, other.ToKeys)
}

func equalUnordered(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// GenericRelationship is a named link between two tables expressed as a
// freeform join condition rather than a foreign key. The condition is
// opaque to the model.
type GenericRelationship struct {
	Name       string
	FromTable  string
	ToTable    string
	Conditions string
}

// NewGenericRelationship creates a relationship between two tables. If
// name is empty, one is derived from the table names; multiple unnamed
// relationships between the same tables would collide, so name them.
func NewGenericRelationship(fromTable, toTable, conditions, name string) (*GenericRelationship, error) {
	if fromTable == "" || toTable == "" {
		return nil, fmt.Errorf("relationship requires both from and to tables")
	}
	if conditions == "" {
		return nil, fmt.Errorf("relationship from %s to %s requires a join condition", fromTable, toTable)
	}
	if name == "" {
		name = fmt.Sprintf("REL_%s_to_%s", fromTable, toTable)
	}
	return &GenericRelationship{
		Name:       name,
		FromTable:  fromTable,
		ToTable:    toTable,
		Conditions: conditions,
	}, nil
}

// Equal reports full structural equality.
func (r *GenericRelationship) Equal(other *GenericRelationship) bool {
	if other == nil {
		return false
	}
	return r.Name == other.Name &&
		r.FromTable == other.FromTable &&
		r.ToTable == other.ToTable &&
		r.Conditions == other.Conditions
}

// ShardKey describes how a table's rows are horizontally partitioned:
// the columns hashed and the number of shards.
type ShardKey struct {
	Columns      []string
	NumberShards int
}

// NewShardKey creates a shard key over the given columns.
func NewShardKey(columns []string, numberShards int) (*ShardKey, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("shard key requires at least one column")
	}
	if numberShards < 1 {
		return nil, fmt.Errorf("shard key requires a positive shard count, got %d", numberShards)
	}
	return &ShardKey{
		Columns:      append([]string(nil), columns...),
		NumberShards: numberShards,
	}, nil
}
