package model

import "fmt"

// DefaultSchema is the schema tables belong to when none is given.
const DefaultSchema = "falcon_default_schema"

// Table holds columns, keys, and relationships. Column, foreign key,
// and relationship iteration order is insertion order.
type Table struct {
	Name       string
	SchemaName string
	PrimaryKey []string
	ShardKey   *ShardKey

	columns       *OrderedMap[*Column]
	foreignKeys   *OrderedMap[*ForeignKey]
	relationships *OrderedMap[*GenericRelationship]
}

// NewTable creates a table in the given schema. An empty schema name
// selects DefaultSchema.
func NewTable(name, schemaName string) *Table {
	if schemaName == "" {
		schemaName = DefaultSchema
	}
	return &Table{
		Name:          name,
		SchemaName:    schemaName,
		columns:       NewOrderedMap[*Column](),
		foreignKeys:   NewOrderedMap[*ForeignKey](),
		relationships: NewOrderedMap[*GenericRelationship](),
	}
}

// AddColumn adds a column, replacing any column with the same name
// without changing its position.
func (t *Table) AddColumn(c *Column) {
	t.columns.Set(c.Name, c)
}

// AddColumns adds columns in order.
func (t *Table) AddColumns(cols []*Column) {
	for _, c := range cols {
		t.AddColumn(c)
	}
}

// DropColumn removes the named column, returning it, or nil if absent.
func (t *Table) DropColumn(name string) *Column {
	c, _ := t.columns.Delete(name)
	return c
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.columns.Has(name)
}

// Column returns the named column or nil.
func (t *Table) Column(name string) *Column {
	c, _ := t.columns.Get(name)
	return c
}

// Columns returns all columns in insertion order.
func (t *Table) Columns() []*Column {
	return t.columns.Values()
}

// ColumnNames returns all column names in insertion order.
func (t *Table) ColumnNames() []string {
	return t.columns.Keys()
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return t.columns.Len()
}

// SetPrimaryKey replaces the primary key with the given columns.
func (t *Table) SetPrimaryKey(columns []string) {
	t.PrimaryKey = append([]string(nil), columns...)
}

// AddForeignKey adds an already constructed foreign key.
func (t *Table) AddForeignKey(fk *ForeignKey) {
	t.foreignKeys.Set(fk.Name, fk)
}

// NewForeignKey constructs a foreign key owned by this table and adds it.
func (t *Table) NewForeignKey(fromKeys []string, toTable string, toKeys []string, name string) (*ForeignKey, error) {
	fk, err := NewForeignKey(t.Name, fromKeys, toTable, toKeys, name)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", t.Name, err)
	}
	t.AddForeignKey(fk)
	return fk, nil
}

// ForeignKey returns the named foreign key or nil.
func (t *Table) ForeignKey(name string) *ForeignKey {
	fk, _ := t.foreignKeys.Get(name)
	return fk
}

// ForeignKeys returns all foreign keys in insertion order.
func (t *Table) ForeignKeys() []*ForeignKey {
	return t.foreignKeys.Values()
}

// AddRelationship adds an already constructed generic relationship.
func (t *Table) AddRelationship(rel *GenericRelationship) {
	t.relationships.Set(rel.Name, rel)
}

// NewRelationship constructs a relationship owned by this table and adds it.
func (t *Table) NewRelationship(toTable, conditions, name string) (*GenericRelationship, error) {
	rel, err := NewGenericRelationship(t.Name, toTable, conditions, name)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", t.Name, err)
	}
	t.AddRelationship(rel)
	return rel, nil
}

// Relationship returns the named relationship or nil.
func (t *Table) Relationship(name string) *GenericRelationship {
	rel, _ := t.relationships.Get(name)
	return rel
}

// Relationships returns all generic relationships in insertion order.
func (t *Table) Relationships() []*GenericRelationship {
	return t.relationships.Values()
}

// ShardKeyColumns returns the shard key columns, or nil if unsharded.
func (t *Table) ShardKeyColumns() []string {
	if t.ShardKey == nil {
		return nil
	}
	return t.ShardKey.Columns
}

// NumberShards returns the shard count, or 0 if unsharded.
func (t *Table) NumberShards() int {
	if t.ShardKey == nil {
		return 0
	}
	return t.ShardKey.NumberShards
}

// RelatedTables returns the names of all tables this table links to,
// foreign-key targets first, then generic-relationship targets, each in
// insertion order. Duplicates are preserved.
func (t *Table) RelatedTables() []string {
	var related []string
	for _, fk := range t.ForeignKeys() {
		related = append(related, fk.ToTable)
	}
	for _, rel := range t.Relationships() {
		related = append(related, rel.ToTable)
	}
	return related
}
