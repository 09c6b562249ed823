package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/schemalint/schemalint/pkg/review"
	_ "github.com/schemalint/schemalint/pkg/review/rules" // register review rules
)

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List available review rules",
		Long: `List every registered review rule with its declared inputs, its
description, and the configuration keys it reads. Rules requiring a
worksheet or query backend run only when those inputs are provided to
the review command.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listRules(cmd)
		},
	}
}

func listRules(cmd *cobra.Command) error {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Rule", "Inputs", "Description", "Config Keys"})

	rules := review.GetAll()
	for _, rule := range rules {
		inputs := make([]string, len(rule.Requires))
		for i, in := range rule.Requires {
			inputs[i] = string(in)
		}
		t.AppendRow(table.Row{
			rule.Name,
			strings.Join(inputs, ", "),
			rule.Description,
			strings.Join(rule.ConfigKeys, ", "),
		})
	}
	t.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "(%d rules)\n", len(rules))
	return nil
}
