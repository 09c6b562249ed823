package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	DDLFile  string
	Database string
	Schema   string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the structure of a schema model",
		Long: `Validate parses a DDL file into a schema model and checks its
structural integrity: column types, primary keys, shard keys, foreign
keys, and relationships. Every issue found is listed with its severity;
the command fails when any issue is an error.`,
		Example: `  # Validate a schema
  schemalint validate --ddl sales.sql --database sales`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DDLFile, "ddl", "", "DDL file to parse (required)")
	cmd.Flags().StringVarP(&opts.Database, "database", "d", "", "Database name (required)")
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "Schema name (default: the default schema)")
	_ = cmd.MarkFlagRequired("ddl")
	_ = cmd.MarkFlagRequired("database")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions) error {
	logger := newLogger(cmd)

	db, err := loadDatabase(opts.DDLFile, opts.Database, opts.Schema, logger)
	if err != nil {
		return err
	}

	result := db.Validate()
	if result.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%d tables)\n", db.Name, db.NumTables())
		return nil
	}

	result.WriteIssues(cmd.OutOrStdout())
	if result.HasErrors() {
		return fmt.Errorf("%s has validation errors", db.Name)
	}
	return nil
}
