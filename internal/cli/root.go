// Package cli provides the command-line interface for schemalint.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemalint/schemalint/internal/cli/commands"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "schemalint",
		Short: "Schemalint - schema model validation and review",
		Long: `Schemalint analyzes tabular schema models: tables, columns, primary
keys, foreign keys, generic relationships, and shard keys.

It validates the structural integrity of a model parsed from DDL, and
reviews it with a set of pluggable rules that detect circular
relationships, long join chains, missing primary keys, bad join
cardinality, worksheet join mismatches, and sharding problems. Rules
that need a live query backend or a worksheet run only when one is
provided.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewReviewCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
