package model

import "strings"

// Worksheet table reference kinds.
const (
	// WorksheetTablePhysical references a physical table by name.
	WorksheetTablePhysical = "table"
	// WorksheetTableAlias references a table through an alias.
	WorksheetTableAlias = "alias"
	// WorksheetTableFQN references a table by fully qualified identifier.
	WorksheetTableFQN = "fqn"
)

// Join kinds declared on worksheet joins.
const (
	JoinInner      = "INNER"
	JoinLeftOuter  = "LEFT_OUTER"
	JoinRightOuter = "RIGHT_OUTER"
	JoinFullOuter  = "FULL_OUTER"
)

// WorksheetTable is a logical table reference in a worksheet.
type WorksheetTable struct {
	Name string
	Type string // WorksheetTablePhysical, WorksheetTableAlias, or WorksheetTableFQN
}

// WorksheetJoin is a declared join between two worksheet tables.
type WorksheetJoin struct {
	Name        string
	Source      string
	Destination string
	Type        string // one of the Join* kinds
	IsOneToOne  bool
}

// WorksheetTablePath describes the join path used to reach a table.
type WorksheetTablePath struct {
	PathID    string
	Table     string
	JoinPaths []string
}

// WorksheetFormula is a named expression in a worksheet.
type WorksheetFormula struct {
	Name       string
	Expression string
	FormulaID  string
}

// WorksheetColumn is a column exposed by a worksheet. For non-formula
// columns, ID is a composite "path::source" identifier.
type WorksheetColumn struct {
	Name       string
	ID         string
	Properties map[string]string
	IsFormula  bool
}

// Path returns the path component of the column ID, or "" for formulas.
func (c *WorksheetColumn) Path() string {
	if c.IsFormula {
		return ""
	}
	return strings.SplitN(c.ID, "::", 2)[0]
}

// Source returns the source table component of the column ID, or "" for
// formulas and malformed IDs.
func (c *WorksheetColumn) Source() string {
	if c.IsFormula {
		return ""
	}
	parts := strings.SplitN(c.ID, "::", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Property returns the named column property, or "" if unset.
func (c *WorksheetColumn) Property(name string) string {
	return c.Properties[name]
}

// Worksheet is a logical, query-facing view composed of tables, joins,
// formulas, and columns. The worksheet owns its stored elements: every
// Add call clones its argument once at the boundary, so callers keep
// their originals and later mutation of either side is invisible to the
// other.
type Worksheet struct {
	Name        string
	Description string
	Properties  map[string]string

	tables     []WorksheetTable
	joins      []WorksheetJoin
	tablePaths []WorksheetTablePath
	formulas   []WorksheetFormula
	columns    []WorksheetColumn
}

// NewWorksheet creates an empty worksheet.
func NewWorksheet(name, description string, properties map[string]string) *Worksheet {
	props := make(map[string]string, len(properties))
	for k, v := range properties {
		props[k] = v
	}
	return &Worksheet{Name: name, Description: description, Properties: props}
}

// AddTable stores a copy of the table reference.
func (w *Worksheet) AddTable(t WorksheetTable) {
	w.tables = append(w.tables, t)
}

// Tables returns the table references in insertion order.
func (w *Worksheet) Tables() []WorksheetTable {
	return w.tables
}

// Table returns the named table reference, or nil if absent.
func (w *Worksheet) Table(name string) *WorksheetTable {
	for i := range w.tables {
		if w.tables[i].Name == name {
			return &w.tables[i]
		}
	}
	return nil
}

// AddJoin stores a copy of the join.
func (w *Worksheet) AddJoin(j WorksheetJoin) {
	w.joins = append(w.joins, j)
}

// Joins returns the joins in insertion order.
func (w *Worksheet) Joins() []WorksheetJoin {
	return w.joins
}

// AddTablePath stores a copy of the table path.
func (w *Worksheet) AddTablePath(tp WorksheetTablePath) {
	tp.JoinPaths = append([]string(nil), tp.JoinPaths...)
	w.tablePaths = append(w.tablePaths, tp)
}

// TablePaths returns the table paths in insertion order.
func (w *Worksheet) TablePaths() []WorksheetTablePath {
	return w.tablePaths
}

// AddFormula stores a copy of the formula.
func (w *Worksheet) AddFormula(f WorksheetFormula) {
	w.formulas = append(w.formulas, f)
}

// Formulas returns the formulas in insertion order.
func (w *Worksheet) Formulas() []WorksheetFormula {
	return w.formulas
}

// AddColumn stores a copy of the column, including its property bag.
func (w *Worksheet) AddColumn(c WorksheetColumn) {
	props := make(map[string]string, len(c.Properties))
	for k, v := range c.Properties {
		props[k] = v
	}
	c.Properties = props
	w.columns = append(w.columns, c)
}

// Columns returns the columns in insertion order.
func (w *Worksheet) Columns() []WorksheetColumn {
	return w.columns
}
