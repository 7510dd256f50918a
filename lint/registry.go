package lint

import (
	"sort"
	"sync"

	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/config"
)

// Rule is one checkable convention. Rules are stateless: Check may be
// called concurrently for different files.
type Rule interface {
	// ID is the stable kebab-case rule identifier.
	ID() string
	// Category groups the rule for reporting.
	Category() Category
	// DefaultSeverity is used unless configuration overrides it.
	DefaultSeverity() Severity
	// Describe is a one-line human description.
	Describe() string
	// Check inspects a parsed file and returns findings. The runner
	// fills in Path and Severity when the rule leaves them empty.
	Check(file *ast.File, rules *config.Rules) []Finding
}

// Registry maintains the rule catalog keyed by rule ID.
// Thread-safe for concurrent access.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry creates a new empty rule registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds a rule. The first registration wins if there's an ID
// conflict.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[rule.ID()]; !exists {
		r.rules[rule.ID()] = rule
	}
}

// Get returns the rule registered under the given ID.
func (r *Registry) Get(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[id]
	return rule, ok
}

// Has returns true if a rule with the given ID is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// List returns all registered rules sorted by ID.
func (r *Registry) List() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID() < rules[j].ID()
	})
	return rules
}

// IDs returns all registered rule IDs sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultRegistry is the global rule registry.
// Rules register themselves via init() functions.
var DefaultRegistry = NewRegistry()
