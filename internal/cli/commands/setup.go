// Package commands implements the schemalint subcommands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/schemalint/schemalint/internal/loader"
	"github.com/schemalint/schemalint/pkg/model"
)

// newLogger builds the command logger. Verbose runs log debug output to
// stderr; quiet runs only warnings and errors.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadDatabase parses the DDL file into a database model.
func loadDatabase(ddlFile, database, schema string, logger *slog.Logger) (*model.Database, error) {
	db, err := loader.NewDDLParser(database, schema, logger).ParseFile(ddlFile)
	if err != nil {
		return nil, err
	}
	if db.NumTables() == 0 {
		return nil, fmt.Errorf("no tables found in %s", ddlFile)
	}
	return db, nil
}
