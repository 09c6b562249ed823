package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustColumn(t *testing.T, name, typ string) *Column {
	t.Helper()
	c, err := NewColumn(name, typ)
	require.NoError(t, err)
	return c
}

// buildDB creates a two-table database with a valid FK from orders to
// customers. Tests mutate it to introduce specific defects.
func buildDB(t *testing.T) *Database {
	t.Helper()
	db := NewDatabase("sales")

	customers := NewTable("customers", "")
	customers.AddColumns([]*Column{
		mustColumn(t, "id", TypeInt),
		mustColumn(t, "name", "VARCHAR(64)"),
	})
	customers.SetPrimaryKey([]string{"id"})
	db.AddTable(customers)

	orders := NewTable("orders", "")
	orders.AddColumns([]*Column{
		mustColumn(t, "id", TypeInt),
		mustColumn(t, "customer_id", TypeInt),
	})
	orders.SetPrimaryKey([]string{"id"})
	_, err := orders.NewForeignKey([]string{"customer_id"}, "customers", []string{"id"}, "")
	require.NoError(t, err)
	db.AddTable(orders)

	return db
}

func TestValidateCleanModel(t *testing.T) {
	db := buildDB(t)
	result := db.Validate()
	assert.True(t, result.Valid)
	assert.Empty(t, result.Issues)
	assert.False(t, result.HasErrors())
}

func TestValidateUnknownColumnTypeIsWarning(t *testing.T) {
	db := buildDB(t)
	db.Table("customers").AddColumn(mustColumn(t, "mystery", TypeUnknown))

	result := db.Validate()
	require.Len(t, result.Issues, 1)
	assert.Equal(t, SeverityWarning, result.Issues[0].Severity)
	assert.Contains(t, result.Issues[0].Message, "mystery")
	assert.False(t, result.Valid, "warnings flip validity too")
	assert.False(t, result.HasErrors())
}

func TestValidatePrimaryKeyMissingColumn(t *testing.T) {
	db := buildDB(t)
	db.Table("customers").SetPrimaryKey([]string{"id", "nope"})

	result := db.Validate()
	// Missing PK column, plus the orders FK no longer matching the
	// two-column primary key of customers.
	require.False(t, result.Valid)
	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue.Message, "nope") && strings.Contains(issue.Message, "primary key") {
			found = true
			assert.Equal(t, SeverityError, issue.Severity)
		}
	}
	assert.True(t, found)
}

func TestValidateShardKey(t *testing.T) {
	tests := []struct {
		name       string
		shardCols  []string
		primaryKey []string
		wantIssues int
	}{
		{name: "shard key in pk", shardCols: []string{"id"}, primaryKey: []string{"id"}, wantIssues: 0},
		{name: "shard col not in table", shardCols: []string{"ghost"}, primaryKey: []string{"id"}, wantIssues: 2},
		{name: "shard col not in pk", shardCols: []string{"name"}, primaryKey: []string{"id"}, wantIssues: 1},
		{name: "no pk skips membership check", shardCols: []string{"name"}, primaryKey: nil, wantIssues: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := NewDatabase("sales")
			tbl := NewTable("customers", "")
			tbl.AddColumns([]*Column{
				mustColumn(t, "id", TypeInt),
				mustColumn(t, "name", "VARCHAR(64)"),
			})
			tbl.SetPrimaryKey(tt.primaryKey)
			sk, err := NewShardKey(tt.shardCols, 4)
			require.NoError(t, err)
			tbl.ShardKey = sk
			db.AddTable(tbl)

			result := db.Validate()
			assert.Len(t, result.Issues, tt.wantIssues)
		})
	}
}

func TestValidateForeignKeyMissingTargetTable(t *testing.T) {
	db := buildDB(t)
	_, err := db.Table("orders").NewForeignKey([]string{"customer_id"}, "ghosts", []string{"id"}, "fk_ghost")
	require.NoError(t, err)

	result := db.Validate()
	// Exactly one issue for the missing table; column and type checks
	// for that key are skipped.
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0].Message, "ghosts doesn't exist for foreign key fk_ghost")
}

func TestValidateForeignKeyArity(t *testing.T) {
	db := buildDB(t)
	// Target customers has a single-column PK; a two-column FK cannot match.
	orders := db.Table("orders")
	orders.AddColumn(mustColumn(t, "region", "VARCHAR(16)"))
	fk, err := NewForeignKey("orders", []string{"customer_id", "region"}, "customers", []string{"id", "name"}, "fk_wide")
	require.NoError(t, err)
	orders.AddForeignKey(fk)

	result := db.Validate()
	var arity, pkMembership, typeMismatch int
	for _, issue := range result.Issues {
		switch {
		case strings.Contains(issue.Message, "number of columns in primary key"):
			arity++
		case strings.Contains(issue.Message, "isn't in primary key"):
			pkMembership++
		case strings.Contains(issue.Message, "doesn't match type"):
			typeMismatch++
		}
	}
	assert.Equal(t, 1, arity)
	assert.Equal(t, 1, pkMembership, "name is not part of the customers primary key")
	assert.Equal(t, 0, typeMismatch, "customer_id/id and region/name both pair compatible types")
}

func TestValidateForeignKeyTypes(t *testing.T) {
	tests := []struct {
		name     string
		fromType string
		toType   string
		wantErr  bool
	}{
		{name: "same type", fromType: TypeInt, toType: TypeInt, wantErr: false},
		{name: "varchar lengths differ", fromType: "VARCHAR(10)", toType: "VARCHAR(255)", wantErr: false},
		{name: "int vs bigint", fromType: TypeInt, toType: TypeBigint, wantErr: true},
		{name: "varchar vs int", fromType: "VARCHAR(10)", toType: TypeInt, wantErr: true},
		{name: "int vs varchar", fromType: TypeInt, toType: "VARCHAR(10)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := NewDatabase("sales")

			target := NewTable("target", "")
			target.AddColumn(mustColumn(t, "id", tt.toType))
			target.SetPrimaryKey([]string{"id"})
			db.AddTable(target)

			source := NewTable("source", "")
			source.AddColumn(mustColumn(t, "target_id", tt.fromType))
			_, err := source.NewForeignKey([]string{"target_id"}, "target", []string{"id"}, "")
			require.NoError(t, err)
			db.AddTable(source)

			result := db.Validate()
			if tt.wantErr {
				require.Len(t, result.Issues, 1)
				assert.Contains(t, result.Issues[0].Message, "doesn't match type")
			} else {
				assert.Empty(t, result.Issues)
			}
		})
	}
}

func TestValidateForeignKeyMissingColumns(t *testing.T) {
	db := buildDB(t)
	orders := db.Table("orders")
	fk, err := NewForeignKey("orders", []string{"ghost_col"}, "customers", []string{"id"}, "fk_missing")
	require.NoError(t, err)
	orders.AddForeignKey(fk)

	result := db.Validate()
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0].Message, "missing from_column ghost_col")
}

func TestValidateRelationships(t *testing.T) {
	db := buildDB(t)
	orders := db.Table("orders")

	// Relationship constructed under the wrong owner.
	rel, err := NewGenericRelationship("customers", "orders", `"customers"."id" = "orders"."customer_id"`, "rel_bad")
	require.NoError(t, err)
	orders.AddRelationship(rel)

	// Relationship to a missing table.
	_, err = orders.NewRelationship("ghosts", `"orders"."id" = "ghosts"."id"`, "rel_ghost")
	require.NoError(t, err)

	result := db.Validate()
	require.Len(t, result.Issues, 2)
	assert.Contains(t, result.Issues[0].Message, "doesn't match owner in relationship rel_bad")
	assert.Contains(t, result.Issues[1].Message, "ghosts doesn't exist in relationship rel_ghost")
}

func TestValidateIsIdempotent(t *testing.T) {
	db := buildDB(t)
	db.Table("customers").AddColumn(mustColumn(t, "mystery", TypeUnknown))
	db.Table("customers").SetPrimaryKey([]string{"id", "nope"})

	first := db.Validate()
	second := db.Validate()
	require.Equal(t, len(first.Issues), len(second.Issues))
	for i := range first.Issues {
		assert.Equal(t, first.Issues[i], second.Issues[i])
	}
}

func TestWriteIssues(t *testing.T) {
	result := NewValidationResult()
	result.AddError("broken fk")
	result.AddWarning("odd type")

	var buf bytes.Buffer
	result.WriteIssues(&buf)
	out := buf.String()
	assert.Contains(t, out, "Error:  broken fk")
	assert.Contains(t, out, "Warning:  odd type")
}
