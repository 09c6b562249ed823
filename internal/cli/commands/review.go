package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/schemalint/schemalint/internal/config"
	"github.com/schemalint/schemalint/internal/loader"
	"github.com/schemalint/schemalint/pkg/backend"
	_ "github.com/schemalint/schemalint/pkg/backend/duckdb"   // register duckdb backend
	_ "github.com/schemalint/schemalint/pkg/backend/postgres" // register postgres backend
	"github.com/schemalint/schemalint/pkg/model"
	"github.com/schemalint/schemalint/pkg/review"
	_ "github.com/schemalint/schemalint/pkg/review/rules" // register review rules
)

// ReviewOptions holds options for the review command.
type ReviewOptions struct {
	DDLFile       string
	Database      string
	Schema        string
	WorksheetFile string
	BackendType   string
	DSN           string
	ConfigFile    string
}

// NewReviewCommand creates the review command.
func NewReviewCommand() *cobra.Command {
	opts := &ReviewOptions{}
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review a schema model for modeling problems",
		Long: `Review runs every registered review rule against a schema model
parsed from DDL and reports their recommendations.

Rules that probe live data (join cardinality, worksheet joins,
sharding) run only when a query backend is configured with --backend
and --dsn; worksheet rules run only when --worksheet names a YAML
worksheet file. Rules whose inputs are missing are skipped.`,
		Example: `  # Structural review only
  schemalint review --ddl sales.sql --database sales

  # Full review against a live backend
  schemalint review --ddl sales.sql --database sales \
      --backend postgres --dsn postgres://localhost/sales \
      --worksheet orders.yaml

  # Tighter chain limit for this run
  schemalint review --ddl sales.sql --database sales --max-chain-length 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReview(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DDLFile, "ddl", "", "DDL file to parse (required)")
	cmd.Flags().StringVarP(&opts.Database, "database", "d", "", "Database name (required)")
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "Schema name (default: the default schema)")
	cmd.Flags().StringVar(&opts.WorksheetFile, "worksheet", "", "Worksheet YAML file")
	cmd.Flags().StringVar(&opts.BackendType, "backend", "", "Query backend type: "+strings.Join(backend.List(), ", "))
	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "Query backend connection string")
	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Review configuration file (key = value lines)")

	// Threshold overrides; flags beat the config file and environment.
	cmd.Flags().Int64("max-chain-length", config.DefaultMaxChainLength, "Longest acceptable join chain in joins")
	cmd.Flags().Int64("max-rows-per-shard", config.DefaultMaxRowsPerShard, "Maximum rows per shard before flagging")
	cmd.Flags().Int64("min-rows-per-shard", config.DefaultMinRowsPerShard, "Minimum rows per shard before flagging")
	cmd.Flags().Float64("max-skew-ratio", config.DefaultMaxSkewRatio, "Maximum shard skew to average ratio")

	_ = cmd.MarkFlagRequired("ddl")
	_ = cmd.MarkFlagRequired("database")
	cmd.MarkFlagsRequiredTogether("backend", "dsn")

	return cmd
}

func runReview(cmd *cobra.Command, opts *ReviewOptions) error {
	logger := newLogger(cmd)
	ctx := cmd.Context()

	db, err := loadDatabase(opts.DDLFile, opts.Database, opts.Schema, logger)
	if err != nil {
		return err
	}

	cfg, err := loadReviewConfig(cmd, opts)
	if err != nil {
		return err
	}

	var worksheet *model.Worksheet
	if opts.WorksheetFile != "" {
		worksheet, err = loader.ReadWorksheetFile(opts.WorksheetFile)
		if err != nil {
			return err
		}
	}

	var be backend.Backend
	if opts.BackendType != "" {
		beCfg := backend.Config{Type: opts.BackendType, DSN: opts.DSN, Database: opts.Database}
		be, err = backend.New(beCfg, logger)
		if err != nil {
			return err
		}
		if err := be.Connect(ctx, beCfg); err != nil {
			return err
		}
		defer func() {
			if err := be.Close(); err != nil {
				logger.Warn("failed to close backend", "error", err)
			}
		}()
	}

	report, err := review.NewReviewer(logger).Review(ctx, &review.Inputs{
		Database:  db,
		Worksheet: worksheet,
		Backend:   be,
		Config:    cfg,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	for _, diag := range report.Skipped() {
		logger.Info(diag)
	}
	renderReport(cmd.OutOrStdout(), report)
	return nil
}

// loadReviewConfig layers the config file, environment, and explicitly
// set flags, in that priority order from lowest to highest.
func loadReviewConfig(cmd *cobra.Command, opts *ReviewOptions) (*config.Config, error) {
	cfg := config.New()
	if opts.ConfigFile != "" {
		loaded, warnings, err := config.Load(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		for _, w := range warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
		}
		cfg = loaded
	}
	if err := cfg.LoadFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func renderReport(w io.Writer, report *review.Report) {
	if report.Empty() {
		fmt.Fprintln(w, "No recommendations.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Rule", "Recommendation"})

	total := 0
	for _, rule := range report.Rules() {
		for _, finding := range report.Findings(rule) {
			t.AppendRow(table.Row{rule, finding})
			total++
		}
		t.AppendSeparator()
	}
	t.Render()
	fmt.Fprintf(w, "(%d recommendations)\n", total)
}
