package review

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// globalRegistry is the single global registry for review rules.
var globalRegistry = &Registry{
	rules: make(map[string]RuleDef),
}

// Registry stores registered review rules for discovery and dispatch.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]RuleDef // keyed by Name
}

// Input tags a rule's declared inputs. Database and Config are present
// on every run; Worksheet and Backend are optional and a rule requiring
// them is skipped when they are missing.
type Input string

// Inputs a rule may declare.
const (
	InputDatabase  Input = "database"
	InputWorksheet Input = "worksheet"
	InputBackend   Input = "backend"
	InputConfig    Input = "config"
)

// RuleDef is a review rule definition.
type RuleDef struct {
	Name        string   // Unique identifier, e.g., "review_pks"
	Description string   // Human-readable description, shown in rule listings
	Requires    []Input  // Declared inputs; decides dispatch and skipping
	Check       Check    // The check function
	ConfigKeys  []string // Configuration keys this rule reads
}

// Check is the function signature for review rules. It returns the
// findings as human-readable strings, or nil when the rule passes.
type Check func(ctx context.Context, in *Inputs) []string

// Signature renders the rule name with its declared inputs, e.g.
// "review_sharding(database, backend)".
func (r RuleDef) Signature() string {
	params := make([]string, len(r.Requires))
	for i, in := range r.Requires {
		params[i] = string(in)
	}
	return r.Name + "(" + strings.Join(params, ", ") + ")"
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
func Register(rule RuleDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[rule.Name] = rule
}

// GetAll returns all registered rules sorted by name.
func GetAll() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]RuleDef, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Name < rules[j].Name })
	return rules
}

// GetByName returns a rule by its name.
func GetByName(name string) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[name]
	return rule, ok
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules = make(map[string]RuleDef)
}
