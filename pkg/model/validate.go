package model

import "fmt"

// Validator checks a database for structural defects. Validation is
// exhaustive: every check runs for every table and all findings are
// accumulated, never raised.
type Validator struct {
	db     *Database
	result *ValidationResult
}

// NewValidator creates a validator for the given database.
func NewValidator(db *Database) *Validator {
	return &Validator{db: db, result: NewValidationResult()}
}

// Validate runs all checks over every table in insertion order.
func (v *Validator) Validate() *ValidationResult {
	for _, t := range v.db.Tables() {
		v.checkColumnTypes(t)
		v.checkPrimaryKey(t)
		v.checkShardKey(t)
		v.checkForeignKeys(t)
		v.checkRelationships(t)
	}
	return v.result
}

func (v *Validator) addIssue(t *Table, severity Severity, format string, args ...any) {
	issue := fmt.Sprintf(format, args...)
	v.result.AddIssue(fmt.Sprintf("database %s, table %s:  %s", v.db.Name, t.Name, issue), severity)
}

// checkColumnTypes flags columns whose declared type is UNKNOWN. The
// model loads with unknown types, so this is a warning rather than an
// error.
func (v *Validator) checkColumnTypes(t *Table) {
	for _, c := range t.Columns() {
		if c.Type == TypeUnknown {
			v.addIssue(t, SeverityWarning, "column %s is of type UNKNOWN", c.Name)
		}
	}
}

// checkPrimaryKey verifies every primary key column exists in the table.
func (v *Validator) checkPrimaryKey(t *Table) {
	for _, pk := range t.PrimaryKey {
		if !t.HasColumn(pk) {
			v.addIssue(t, SeverityError, "column %s in primary key does not exist in the table", pk)
		}
	}
}

// checkShardKey verifies shard key columns exist and, when the table has
// a primary key, that each shard column is part of it.
func (v *Validator) checkShardKey(t *Table) {
	if t.ShardKey == nil {
		return
	}
	for _, sk := range t.ShardKey.Columns {
		if !t.HasColumn(sk) {
			v.addIssue(t, SeverityError, "column %s in shard key does not exist in the table", sk)
		}
		if len(t.PrimaryKey) > 0 && !containsName(t.PrimaryKey, sk) {
			v.addIssue(t, SeverityError, "column %s in shard key not in primary key %v", sk, t.PrimaryKey)
		}
	}
}

// checkForeignKeys verifies each foreign key against the target table:
// the target must exist, key arities must match on both sides and match
// the target's primary key, each referenced column must exist, and
// column types must be compatible. Column checks for a key are skipped
// entirely when the target table is missing.
func (v *Validator) checkForeignKeys(t *Table) {
	for _, fk := range t.ForeignKeys() {
		toTable := v.db.Table(fk.ToTable)
		if toTable == nil {
			v.addIssue(t, SeverityError, "table %s doesn't exist for foreign key %s", fk.ToTable, fk.Name)
			continue
		}

		if len(fk.FromKeys) != len(fk.ToKeys) {
			v.addIssue(t, SeverityError, "FK %s doesn't have the matching column count from and to keys", fk.Name)
		}
		if len(fk.ToKeys) != len(toTable.PrimaryKey) {
			v.addIssue(t, SeverityError, "FK %s doesn't match number of columns in primary key %v",
				fk.Name, toTable.PrimaryKey)
		}

		pairs := min(len(fk.FromKeys), len(fk.ToKeys))
		for i := 0; i < pairs; i++ {
			fromName := fk.FromKeys[i]
			toName := fk.ToKeys[i]
			fromCol := t.Column(fromName)
			toCol := toTable.Column(toName)

			if !containsName(toTable.PrimaryKey, toName) {
				v.addIssue(t, SeverityError, "foreign key %s column %s isn't in primary key for %s",
					fk.Name, toName, toTable.Name)
			}

			missing := false
			if fromCol == nil {
				v.addIssue(t, SeverityError, "foreign key %s missing from_column %s from table %s",
					fk.Name, fromName, t.Name)
				missing = true
			}
			if toCol == nil {
				v.addIssue(t, SeverityError, "foreign key %s missing to_column %s from table %s",
					fk.Name, toName, toTable.Name)
				missing = true
			}
			if missing {
				continue
			}

			if !typesCompatible(fromCol.Type, toCol.Type) {
				v.addIssue(t, SeverityError,
					"foreign key %s column %s type %s doesn't match type %s for %s column %s",
					fk.Name, fromCol.Name, fromCol.Type, toCol.Type, toTable.Name, toCol.Name)
			}
		}
	}
}

// typesCompatible reports whether two declared column types may be
// joined. Any two variable-length string types are compatible regardless
// of length; a string type never pairs with a non-string type; anything
// else must match exactly.
func typesCompatible(fromType, toType string) bool {
	fromVarchar := IsVarcharType(fromType)
	toVarchar := IsVarcharType(toType)
	if fromVarchar || toVarchar {
		return fromVarchar && toVarchar
	}
	return fromType == toType
}

// checkRelationships verifies each generic relationship starts at the
// table that owns it and targets a table that exists.
func (v *Validator) checkRelationships(t *Table) {
	for _, rel := range t.Relationships() {
		if rel.FromTable != t.Name {
			v.addIssue(t, SeverityError, "from table %s doesn't match owner in relationship %s",
				rel.FromTable, rel.Name)
		}
		if !v.db.HasTable(rel.ToTable) {
			v.addIssue(t, SeverityError, "to table %s doesn't exist in relationship %s",
				rel.ToTable, rel.Name)
		}
	}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
