// Package main provides a generator that extracts CLI and review rule
// metadata from schemalint source code and generates markdown documentation.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=rules -outdir=docs
//	go run ./scripts/gendocs -gen=cli -outdir=docs
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schemalint/schemalint/internal/cli"
	"github.com/schemalint/schemalint/pkg/review"
	_ "github.com/schemalint/schemalint/pkg/review/rules"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: rules, cli, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults to docs/)")
)

const generatedMarker = "<!-- This file is generated by scripts/gendocs. Do not edit by hand. -->"

func main() {
	flag.Parse()

	validGenFlags := map[string]bool{"rules": true, "cli": true, "all": true}
	if !validGenFlags[*genFlag] {
		log.Fatalf("unknown -gen value: %s (use: rules, cli, all)", *genFlag)
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}

	outDir := *outDirFlag
	if outDir == "" {
		outDir = filepath.Join(projectRoot, "docs")
	}
	if err := os.MkdirAll(outDir, 0750); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if *genFlag == "rules" || *genFlag == "all" {
		if err := generateRuleDocs(outDir); err != nil {
			log.Fatalf("failed to generate rule docs: %v", err)
		}
	}
	if *genFlag == "cli" || *genFlag == "all" {
		if err := generateCLIDocs(outDir); err != nil {
			log.Fatalf("failed to generate CLI docs: %v", err)
		}
	}
}

// generateRuleDocs generates the review rule reference page.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	rules := review.GetAll()

	var w strings.Builder
	w.WriteString(generatedMarker + "\n\n")
	fmt.Fprintf(&w, "# Review Rules\n\nschemalint ships with %d review rules. Rules that probe live data are\nskipped with a diagnostic when no backend or worksheet is supplied.\n\n", len(rules))

	for _, rule := range rules {
		fmt.Fprintf(&w, "## %s\n\n%s\n\n", rule.Name, rule.Description)
		fmt.Fprintf(&w, "- Inputs: %s\n", strings.Join(inputNames(rule.Requires), ", "))
		if len(rule.ConfigKeys) > 0 {
			fmt.Fprintf(&w, "- Config keys: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		}
		w.WriteString("\n")
	}

	path := filepath.Join(outDir, "rules.md")
	if err := os.WriteFile(path, []byte(w.String()), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("  Generated rules.md")
	return nil
}

// generateCLIDocs generates one reference page covering every command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	rootCmd := cli.NewRootCmd()

	var w strings.Builder
	w.WriteString(generatedMarker + "\n\n")
	fmt.Fprintf(&w, "# CLI Reference\n\n%s\n\n", rootCmd.Long)

	for _, cmd := range rootCmd.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "completion" {
			continue
		}
		writeCommandSection(&w, cmd)
	}

	path := filepath.Join(outDir, "cli.md")
	if err := os.WriteFile(path, []byte(w.String()), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("  Generated cli.md")
	return nil
}

func writeCommandSection(w *strings.Builder, cmd *cobra.Command) {
	fmt.Fprintf(w, "## %s\n\n%s\n\n", cmd.Name(), cmd.Short)
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(w, "%s\n\n", strings.TrimSpace(cmd.Long))
	}
	fmt.Fprintf(w, "```\n%s\n```\n\n", cmd.UseLine())

	if cmd.HasAvailableLocalFlags() {
		w.WriteString("| Flag | Description |\n|------|-------------|\n")
		flagUsages := strings.TrimRight(cmd.LocalFlags().FlagUsages(), "\n")
		for _, line := range strings.Split(flagUsages, "\n") {
			parts := strings.SplitN(strings.TrimSpace(line), "   ", 2)
			if len(parts) != 2 {
				continue
			}
			fmt.Fprintf(w, "| `%s` | %s |\n", parts[0], strings.TrimSpace(parts[1]))
		}
		w.WriteString("\n")
	}

	if cmd.Example != "" {
		fmt.Fprintf(w, "Examples:\n\n```\n%s\n```\n\n", strings.TrimSpace(cmd.Example))
	}
}

func inputNames(requires []review.Input) []string {
	names := make([]string, 0, len(requires))
	for _, in := range requires {
		names = append(names, string(in))
	}
	return names
}

// findProjectRoot walks up from the current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found in any parent directory")
		}
		dir = parent
	}
}
