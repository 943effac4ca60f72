package registry

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

// Registry holds the test cases of a suite. Cases are immutable once registered.
type Registry struct {
	mu    sync.RWMutex
	cases []models.TestCase
	index map[string]int
}

func New() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// Register adds a case. It fails with a *models.DuplicateCaseError when the
// identifier is taken and with models.ErrMalformedSpec when a spec is invalid.
func (r *Registry) Register(tc models.TestCase) error {
	if strings.TrimSpace(tc.ID) == "" {
		return errors.New("test case id is required")
	}
	if err := tc.Specs.Validate(); err != nil {
		return fmt.Errorf("test case %q: %w", tc.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[tc.ID]; exists {
		return &models.DuplicateCaseError{ID: tc.ID}
	}

	tc.Tags = append([]string(nil), tc.Tags...)
	tc.Specs = append(models.Specs(nil), tc.Specs...)

	r.index[tc.ID] = len(r.cases)
	r.cases = append(r.cases, tc)
	return nil
}

// RegisterAll registers cases in order and stops at the first error.
func (r *Registry) RegisterAll(cases []models.TestCase) error {
	for _, tc := range cases {
		if err := r.Register(tc); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Get(id string) (models.TestCase, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return models.TestCase{}, false
	}
	return r.cases[i], true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cases)
}

// Filter returns the cases whose tags intersect tags, in registration order.
// With no tags every case is returned. The sequence can be ranged over any
// number of times; each pass sees the cases registered when it starts.
func (r *Registry) Filter(tags ...string) iter.Seq[models.TestCase] {
	return func(yield func(models.TestCase) bool) {
		r.mu.RLock()
		snapshot := r.cases[:len(r.cases):len(r.cases)]
		r.mu.RUnlock()

		for _, tc := range snapshot {
			if !tc.HasAnyTag(tags) {
				continue
			}
			if !yield(tc) {
				return
			}
		}
	}
}

// List collects Filter(tags...) into a slice.
func (r *Registry) List(tags ...string) []models.TestCase {
	return slices.Collect(r.Filter(tags...))
}
