// Package catalog holds the fixed list of security questions offered for
// password recovery.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
)

//go:embed questions.yaml
var defaultQuestions []byte

// Catalog is an immutable set of questions keyed by id
type Catalog struct {
	byID  map[int]domain.Question
	order []int
}

type file struct {
	Questions []domain.Question `yaml:"questions"`
}

// Parse builds a catalog from YAML
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse question catalog: %w", err)
	}
	c := &Catalog{byID: make(map[int]domain.Question, len(f.Questions))}
	for _, q := range f.Questions {
		if q.ID <= 0 || q.Text == "" {
			return nil, fmt.Errorf("invalid question entry: id=%d", q.ID)
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		c.byID[q.ID] = q
		c.order = append(c.order, q.ID)
	}
	if len(c.order) < domain.MinRecoveryAnswers {
		return nil, fmt.Errorf("catalog needs at least %d questions, got %d", domain.MinRecoveryAnswers, len(c.order))
	}
	sort.Ints(c.order)
	return c, nil
}

// Default returns the embedded catalog
func Default() *Catalog {
	c, err := Parse(defaultQuestions)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the question with the given id
func (c *Catalog) Get(id int) (domain.Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// All returns every question ordered by id
func (c *Catalog) All() []domain.Question {
	out := make([]domain.Question, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}
