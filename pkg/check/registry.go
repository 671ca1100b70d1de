package check

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Registry holds the set of known rules, keyed by ID. It is safe for
// concurrent use.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]Rule
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Rule)}
}

// Register adds a rule to the registry. It returns an error when the
// rule has an empty ID or a rule with the same ID is already present.
func (r *Registry) Register(rule Rule) error {
	id := rule.ID()
	if id == "" {
		return fmt.Errorf("register rule: empty id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("register rule: duplicate id %q", id)
	}
	r.byID[id] = rule
	return nil
}

// MustRegister registers a rule and panics on failure. Intended for
// package init functions where a failure is a programming error.
func (r *Registry) MustRegister(rule Rule) {
	if err := r.Register(rule); err != nil {
		panic(err)
	}
}

// Lookup returns the rule with the given ID.
func (r *Registry) Lookup(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.byID[id]
	return rule, ok
}

// Rules returns all registered rules sorted by ID.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, 0, len(r.byID))
	for _, rule := range r.byID {
		rules = append(rules, rule)
	}
	slices.SortFunc(rules, func(a, b Rule) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return rules
}

// IDs returns all registered rule IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

// DefaultRegistry is the registry rule packages register into.
//
//nolint:gochecknoglobals // Global registry is intentional for rule registration.
var DefaultRegistry = NewRegistry()
