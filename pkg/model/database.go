package model

import "fmt"

// Database is a named collection of tables. Table iteration order is
// insertion order. Table names must be unique across the whole database;
// same-named tables in different schemas are not supported.
type Database struct {
	Name string

	tables  *OrderedMap[*Table]
	schemas map[string]int // schema name -> number of tables in it
}

// NewDatabase creates an empty database.
func NewDatabase(name string) *Database {
	return &Database{
		Name:    name,
		tables:  NewOrderedMap[*Table](),
		schemas: make(map[string]int),
	}
}

// AddTable adds a table, replacing any table with the same name.
func (db *Database) AddTable(t *Table) {
	if old, ok := db.tables.Get(t.Name); ok {
		db.releaseSchema(old.SchemaName)
	}
	db.tables.Set(t.Name, t)
	db.schemas[t.SchemaName]++
}

// DropTable removes the named table, returning it, or nil if absent.
func (db *Database) DropTable(name string) *Table {
	t, ok := db.tables.Delete(name)
	if !ok {
		return nil
	}
	db.releaseSchema(t.SchemaName)
	return t
}

func (db *Database) releaseSchema(schemaName string) {
	db.schemas[schemaName]--
	if db.schemas[schemaName] <= 0 {
		delete(db.schemas, schemaName)
	}
}

// Table returns the named table or nil.
func (db *Database) Table(name string) *Table {
	t, _ := db.tables.Get(name)
	return t
}

// HasTable reports whether the named table exists.
func (db *Database) HasTable(name string) bool {
	return db.tables.Has(name)
}

// Tables returns all tables in insertion order.
func (db *Database) Tables() []*Table {
	return db.tables.Values()
}

// TableNames returns all table names in insertion order.
func (db *Database) TableNames() []string {
	return db.tables.Keys()
}

// NumTables returns the number of tables.
func (db *Database) NumTables() int {
	return db.tables.Len()
}

// SchemaNames returns the names of schemas that currently hold at least
// one table. Order is unspecified.
func (db *Database) SchemaNames() []string {
	names := make([]string, 0, len(db.schemas))
	for name := range db.schemas {
		names = append(names, name)
	}
	return names
}

// NumRelationshipsFrom returns the number of foreign keys and generic
// relationships originating at the named table.
func (db *Database) NumRelationshipsFrom(tableName string) (int, error) {
	t := db.Table(tableName)
	if t == nil {
		return 0, fmt.Errorf("unknown table %s", tableName)
	}
	return len(t.ForeignKeys()) + len(t.Relationships()), nil
}

// NumRelationshipsTo returns the number of foreign keys and generic
// relationships pointing at the named table from anywhere in the database.
func (db *Database) NumRelationshipsTo(tableName string) (int, error) {
	if !db.HasTable(tableName) {
		return 0, fmt.Errorf("unknown table %s", tableName)
	}
	count := 0
	for _, t := range db.Tables() {
		for _, fk := range t.ForeignKeys() {
			if fk.ToTable == tableName {
				count++
			}
		}
		for _, rel := range t.Relationships() {
			if rel.ToTable == tableName {
				count++
			}
		}
	}
	return count, nil
}

// Validate checks the database for structural defects.
func (db *Database) Validate() *ValidationResult {
	return NewValidator(db).Validate()
}
