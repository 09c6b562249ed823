package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemalint/schemalint/pkg/model"
)

const sampleDDL = `
-- retail schema
CREATE DATABASE sales;

CREATE TABLE "customers" (
    "id" INT,
    "name" VARCHAR(64),
    "balance" DECIMAL(10,2),
    "created" DATETIME,
    "avatar" BLOB,
    PRIMARY KEY ("id")
);

/* orders reference customers
   and carry a shard key */
CREATE TABLE orders (
    id INT,
    customer_id INT,
    region VARCHAR(16),
    amount DOUBLE
)
PARTITION BY HASH (96) KEY ("id");

CREATE TABLE regions (
    name VARCHAR(32)
);

ALTER TABLE orders ADD CONSTRAINT PRIMARY KEY (id);
ALTER TABLE orders ADD CONSTRAINT "fk_orders_customers" FOREIGN KEY (customer_id) REFERENCES customers (id);
ALTER TABLE orders ADD RELATIONSHIP "orders_regions" WITH regions AS "orders"."region" = "regions"."name";
`

func TestParseDDL(t *testing.T) {
	parser := NewDDLParser("sales", "", nil)
	db, err := parser.Parse(strings.NewReader(sampleDDL))
	require.NoError(t, err)

	assert.Equal(t, "sales", db.Name)
	assert.Equal(t, []string{"customers", "orders", "regions"}, db.TableNames())

	customers := db.Table("customers")
	require.NotNil(t, customers)
	assert.Equal(t, []string{"id", "name", "balance", "created", "avatar"}, customers.ColumnNames())
	assert.Equal(t, model.TypeInt, customers.Column("id").Type)
	assert.Equal(t, "VARCHAR(64)", customers.Column("name").Type)
	assert.Equal(t, model.TypeDouble, customers.Column("balance").Type)
	assert.Equal(t, model.TypeDatetime, customers.Column("created").Type)
	assert.Equal(t, model.TypeUnknown, customers.Column("avatar").Type)
	assert.Equal(t, []string{"id"}, customers.PrimaryKey)
	assert.Equal(t, model.DefaultSchema, customers.SchemaName)

	orders := db.Table("orders")
	require.NotNil(t, orders)
	assert.Equal(t, []string{"id", "customer_id", "region", "amount"}, orders.ColumnNames())
	assert.Equal(t, []string{"id"}, orders.PrimaryKey)
	require.NotNil(t, orders.ShardKey)
	assert.Equal(t, []string{"id"}, orders.ShardKey.Columns)
	assert.Equal(t, 96, orders.ShardKey.NumberShards)

	fk := orders.ForeignKey("fk_orders_customers")
	require.NotNil(t, fk)
	assert.Equal(t, []string{"customer_id"}, fk.FromKeys)
	assert.Equal(t, "customers", fk.ToTable)
	assert.Equal(t, []string{"id"}, fk.ToKeys)

	rel := orders.Relationship("orders_regions")
	require.NotNil(t, rel)
	assert.Equal(t, "regions", rel.ToTable)
	assert.Equal(t, `"orders"."region" = "regions"."name"`, rel.Conditions)
}

func TestParseDDLAnonymousForeignKey(t *testing.T) {
	ddl := `
CREATE TABLE a (id INT, b_id INT, PRIMARY KEY (id));
CREATE TABLE b (id INT, PRIMARY KEY (id));
ALTER TABLE a ADD CONSTRAINT FOREIGN KEY (b_id) REFERENCES b (id);
`
	db, err := NewDDLParser("t", "", nil).Parse(strings.NewReader(ddl))
	require.NoError(t, err)

	fks := db.Table("a").ForeignKeys()
	require.Len(t, fks, 1)
	assert.Equal(t, "FK_a_to_b", fks[0].Name)
}

func TestParseDDLBracketQuotes(t *testing.T) {
	ddl := `CREATE TABLE [dbo].[events] ([event id] INT, [when] DATETIME2);`
	db, err := NewDDLParser("t", "audit", nil).Parse(strings.NewReader(ddl))
	require.NoError(t, err)

	events := db.Table("events")
	require.NotNil(t, events)
	assert.Equal(t, "audit", events.SchemaName)
	assert.Equal(t, []string{"event id", "when"}, events.ColumnNames())
	assert.Equal(t, model.TypeDatetime, events.Column("when").Type)
}

func TestParseDDLIgnoresUnknownStatements(t *testing.T) {
	ddl := `
GO
USE sales;
CREATE INDEX idx ON t (a);
CREATE TABLE t (a INT);
ALTER TABLE t SET SOMETHING;
`
	db, err := NewDDLParser("sales", "", nil).Parse(strings.NewReader(ddl))
	require.NoError(t, err)
	assert.Equal(t, []string{"t"}, db.TableNames())
}

func TestConvertType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"INT", model.TypeInt},
		{"BIGINT", model.TypeBigint},
		{"SMALLINT", model.TypeInt},
		{"SERIAL", model.TypeInt},
		{"ROWVERSION", model.TypeInt},
		{"BIT", model.TypeBool},
		{"BOOLEAN", model.TypeBool},
		{"VARCHAR(255)", "VARCHAR(255)"},
		{"NVARCHAR(32)", "VARCHAR(32)"},
		{"CHAR", "VARCHAR(0)"},
		{"TEXT", "VARCHAR(0)"},
		{"ENUM('a','b')", "VARCHAR(0)"},
		{"UNIQUEIDENTIFIER", "VARCHAR(0)"},
		{"DECIMAL(10,2)", model.TypeDouble},
		{"MONEY", model.TypeDouble},
		{"FLOAT", model.TypeDouble},
		{"NUMBER", model.TypeBigint},
		{"NUMBER(5)", model.TypeInt},
		{"NUMBER(5,0)", model.TypeInt},
		{"NUMBER(12,0)", model.TypeBigint},
		{"NUMBER(*,0)", model.TypeBigint},
		{"NUMBER(5,2)", model.TypeDouble},
		{"DATETIME", model.TypeDatetime},
		{"TIMESTAMP", model.TypeDatetime},
		{"DATE", model.TypeDate},
		{"TIME", model.TypeTime},
		{"BLOB", model.TypeUnknown},
		{"VARBINARY(8)", model.TypeUnknown},
		{"GEOGRAPHY", model.TypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, convertType(tt.in))
		})
	}
}
