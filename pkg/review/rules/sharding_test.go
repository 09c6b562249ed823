package reviewrules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemalint/schemalint/internal/config"
	"github.com/schemalint/schemalint/pkg/backend"
	"github.com/schemalint/schemalint/pkg/model"
)

func statsRow(database, table, rowCount, shards, skew string) backend.Row {
	return backend.Row{
		statsDatabaseName:  database,
		statsSchemaName:    "falcon_default_schema",
		statsTableName:     table,
		statsTotalRowCount: rowCount,
		statsTotalShards:   shards,
		statsRowCountSkew:  skew,
	}
}

func statsBackend(rows ...backend.Row) *fakeBackend {
	columns := []string{
		statsDatabaseName, statsSchemaName, statsTableName,
		statsTotalRowCount, statsTotalShards, statsRowCountSkew,
	}
	return &fakeBackend{results: map[string]*backend.Result{
		"SHOW STATISTICS FOR SERVER": backend.NewResult(columns, rows),
	}}
}

func TestCheckSharding(t *testing.T) {
	tests := []struct {
		name string
		row  backend.Row
		want []string
	}{
		{
			name: "unsharded under the threshold passes",
			row:  statsRow("sales", "small", "40000000", "1", "0"),
			want: nil,
		},
		{
			name: "large unsharded table is a sharding candidate",
			row:  statsRow("sales", "big_flat", "60000000", "1", "0"),
			want: []string{"sales.falcon_default_schema.big_flat is not sharded and has more than 50,000,000 rows total"},
		},
		{
			name: "exactly the maximum rows per shard passes",
			row:  statsRow("sales", "boundary", "100000000", "2", "0"),
			want: nil,
		},
		{
			name: "one row over the maximum per shard is under-sharded",
			row:  statsRow("sales", "boundary", "100000001", "2", "0"),
			want: []string{"sales.falcon_default_schema.boundary is sharded and has more than 50,000,000 rows per shard"},
		},
		{
			name: "too few rows per shard is over-sharded",
			row:  statsRow("sales", "shredded", "4000000", "2", "0"),
			want: []string{"sales.falcon_default_schema.shredded is sharded and has less than 5,000,000 rows per shard"},
		},
		{
			name: "uneven shard distribution is flagged",
			row:  statsRow("sales", "lopsided", "20000000", "2", "200000"),
			want: []string{"sales.falcon_default_schema.lopsided has a high skew of 0.020"},
		},
		{
			name: "other databases are ignored",
			row:  statsRow("marketing", "big_flat", "60000000", "1", "0"),
			want: nil,
		},
		{
			name: "rows with unparsable counts are skipped",
			row:  statsRow("sales", "garbled", "lots", "1", "0"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testInputs(t, model.NewDatabase("sales"))
			in.Backend = statsBackend(tt.row)

			issues := checkSharding(context.Background(), in)
			assert.Equal(t, tt.want, issues)
		})
	}
}

func TestCheckShardingThresholdOverrides(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{
		config.KeyMaxRowsPerShard: "1000",
		config.KeyMinRowsPerShard: "100",
	})
	require.NoError(t, err)

	in := testInputs(t, model.NewDatabase("sales"))
	in.Config = cfg
	in.Backend = statsBackend(statsRow("sales", "tiny", "2000", "1", "0"))

	issues := checkSharding(context.Background(), in)
	assert.Equal(t, []string{"sales.falcon_default_schema.tiny is not sharded and has more than 1,000 rows total"}, issues)
}

func TestCheckShardingQueryFailure(t *testing.T) {
	in := testInputs(t, model.NewDatabase("sales"))
	in.Backend = &fakeBackend{err: assert.AnError}

	issues := checkSharding(context.Background(), in)
	assert.Equal(t, []string{"statistics query didn't return data"}, issues)
}
