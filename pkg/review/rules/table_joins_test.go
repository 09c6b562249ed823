package reviewrules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemalint/schemalint/pkg/backend"
	"github.com/schemalint/schemalint/pkg/model"
	"github.com/schemalint/schemalint/pkg/review"
)

// newOrdersInputs builds a two table model, orders referencing
// customers by foreign key.
func newOrdersInputs(t *testing.T) *review.Inputs {
	t.Helper()
	db := model.NewDatabase("sales")
	orders := newTable(t, "orders")
	customers := newTable(t, "customers")
	addLink(t, orders, customers)
	db.AddTable(orders)
	db.AddTable(customers)
	return testInputs(t, db)
}

func TestCheckTableJoins(t *testing.T) {
	sourceKey := `GROUP BY "sales"."falcon_default_schema"."orders"."id"`
	targetKey := `GROUP BY "sales"."falcon_default_schema"."customers"."id"`

	tests := []struct {
		name        string
		perSource   string
		perTarget   string
		wantIssues  int
		wantContain string
	}{
		{
			name:      "many-to-one passes",
			perSource: "1", perTarget: "1",
			wantIssues: 0,
		},
		{
			name:      "one-to-many flagged",
			perSource: "1", perTarget: "5",
			wantIssues:  1,
			wantContain: "one-to-many",
		},
		{
			name:      "many-to-many flagged",
			perSource: "3", perTarget: "4",
			wantIssues:  1,
			wantContain: "many-to-many",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newOrdersInputs(t)
			in.Backend = &fakeBackend{results: map[string]*backend.Result{
				sourceKey: countResult("max_group_count", tt.perSource),
				targetKey: countResult("max_group_count", tt.perTarget),
			}}

			issues := checkTableJoins(context.Background(), in)
			require.Len(t, issues, tt.wantIssues)
			if tt.wantContain != "" {
				assert.Contains(t, issues[0], tt.wantContain)
				assert.Contains(t, issues[0], "FK_orders_to_customers")
			}
		})
	}
}

func TestCheckTableJoinsProbeFailure(t *testing.T) {
	in := newOrdersInputs(t)
	in.Backend = &fakeBackend{err: assert.AnError}

	issues := checkTableJoins(context.Background(), in)
	assert.Equal(t, []string{"FK_orders_to_customers from orders to customers didn't return data"}, issues)
}

func TestCheckTableJoinsSkipsMissingTarget(t *testing.T) {
	db := model.NewDatabase("sales")
	orders := newTable(t, "orders")
	col, err := model.NewColumn("ghost_id", model.TypeInt)
	require.NoError(t, err)
	orders.AddColumn(col)
	_, err = orders.NewForeignKey([]string{"ghost_id"}, "ghost", []string{"id"}, "")
	require.NoError(t, err)
	db.AddTable(orders)

	in := testInputs(t, db)
	fake := &fakeBackend{}
	in.Backend = fake

	assert.Empty(t, checkTableJoins(context.Background(), in))
	assert.Empty(t, fake.queries, "missing targets belong to validation, not probes")
}

func TestMatchCountQueryShape(t *testing.T) {
	in := newOrdersInputs(t)
	orders := in.Database.Table("orders")
	d, ok := fkDescriptor(in.Database, orders, orders.ForeignKeys()[0])
	require.True(t, ok)

	query := matchCountQuery(d, d.Source)
	assert.Contains(t, query, `FROM "sales"."falcon_default_schema"."orders", "sales"."falcon_default_schema"."customers"`)
	assert.Contains(t, query, `WHERE "sales"."falcon_default_schema"."orders"."customers_id" = "sales"."falcon_default_schema"."customers"."id"`)
	assert.Contains(t, query, `GROUP BY "sales"."falcon_default_schema"."orders"."id"`)
}

func TestGroupingColumnsFallBackToAllColumns(t *testing.T) {
	bare := model.NewTable("bare", "")
	a, err := model.NewColumn("a", model.TypeInt)
	require.NoError(t, err)
	b, err := model.NewColumn("b", model.TypeVarchar)
	require.NoError(t, err)
	bare.AddColumns([]*model.Column{a, b})

	assert.Equal(t, []string{"a", "b"}, groupingColumns(bare))

	bare.SetPrimaryKey([]string{"a"})
	assert.Equal(t, []string{"a"}, groupingColumns(bare))
}
