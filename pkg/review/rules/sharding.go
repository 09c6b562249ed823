package reviewrules

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/schemalint/schemalint/internal/config"
	"github.com/schemalint/schemalint/pkg/backend"
	"github.com/schemalint/schemalint/pkg/review"
)

func init() {
	review.Register(review.RuleDef{
		Name:        "review_sharding",
		Description: "Tables that are over-sharded, under-sharded, or skewed",
		Requires:    []review.Input{review.InputDatabase, review.InputBackend, review.InputConfig},
		Check:       checkSharding,
		ConfigKeys: []string{
			config.KeyMaxRowsPerShard,
			config.KeyMinRowsPerShard,
			config.KeyMaxSkewRatio,
		},
	})
}

// statisticsQuery reports per-table row counts, shard counts, and skew
// for every table on the server.
const statisticsQuery = "SHOW STATISTICS FOR SERVER;"

// Statistics result columns.
const (
	statsDatabaseName  = "Database Name"
	statsSchemaName    = "Schema Name"
	statsTableName     = "Table Name"
	statsTotalRowCount = "Total Row Count"
	statsTotalShards   = "Total Shards"
	statsRowCountSkew  = "Row Count Skew"
)

// checkSharding reviews shard sizing from server statistics, filtered
// to the reviewed database. An unsharded table over the maximum
// rows-per-shard threshold is a sharding candidate. A sharded table is
// flagged when its average rows per shard falls below the minimum or
// above the maximum, and separately when its skew-to-average ratio
// exceeds the configured limit. Co-sharding is not checked.
func checkSharding(ctx context.Context, in *review.Inputs) []string {
	maxRows := in.Config.Int64(config.KeyMaxRowsPerShard, config.DefaultMaxRowsPerShard)
	minRows := in.Config.Int64(config.KeyMinRowsPerShard, config.DefaultMinRowsPerShard)
	maxSkew := in.Config.Float64(config.KeyMaxSkewRatio, config.DefaultMaxSkewRatio)

	result, err := in.Backend.Query(ctx, statisticsQuery)
	if err != nil {
		in.Logger.Warn("statistics query failed", "error", err)
		return []string{"statistics query didn't return data"}
	}

	// Thousands separators keep the row-count thresholds readable.
	printer := message.NewPrinter(language.English)

	var issues []string
	for _, row := range result.Rows() {
		if row.Column(statsDatabaseName) != in.Database.Name {
			continue
		}
		issues = append(issues, reviewTableStats(in, printer, row, maxRows, minRows, maxSkew)...)
	}
	return issues
}

func reviewTableStats(in *review.Inputs, printer *message.Printer, row backend.Row, maxRows, minRows int64, maxSkew float64) []string {
	fqn := fmt.Sprintf("%s.%s.%s",
		row.Column(statsDatabaseName), row.Column(statsSchemaName), row.Column(statsTableName))

	totalRows, err := strconv.ParseInt(row.Column(statsTotalRowCount), 10, 64)
	if err != nil {
		in.Logger.Warn("skipping statistics row with bad row count", "table", fqn, "value", row.Column(statsTotalRowCount))
		return nil
	}
	totalShards, err := strconv.ParseInt(row.Column(statsTotalShards), 10, 64)
	if err != nil || totalShards < 1 {
		in.Logger.Warn("skipping statistics row with bad shard count", "table", fqn, "value", row.Column(statsTotalShards))
		return nil
	}
	skew, err := strconv.ParseFloat(row.Column(statsRowCountSkew), 64)
	if err != nil {
		in.Logger.Warn("skipping statistics row with bad skew", "table", fqn, "value", row.Column(statsRowCountSkew))
		return nil
	}

	if totalShards == 1 {
		if totalRows > maxRows {
			return []string{printer.Sprintf("%s is not sharded and has more than %d rows total", fqn, maxRows)}
		}
		return nil
	}

	var issues []string
	rowsPerShard := float64(totalRows) / float64(totalShards)
	if rowsPerShard < float64(minRows) {
		issues = append(issues, printer.Sprintf("%s is sharded and has less than %d rows per shard", fqn, minRows))
	} else if rowsPerShard > float64(maxRows) {
		issues = append(issues, printer.Sprintf("%s is sharded and has more than %d rows per shard", fqn, maxRows))
	}

	if totalRows > 0 {
		if ratio := skew / rowsPerShard; ratio > maxSkew {
			issues = append(issues, fmt.Sprintf("%s has a high skew of %.3f", fqn, ratio))
		}
	}
	return issues
}
