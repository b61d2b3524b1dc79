// Package catalog holds the configured universe of trackable subjects and
// chapters. The catalog is injected into the progress service rather than
// hardcoded there, so deployments can swap curricula without code changes.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/noah-isme/edtech-progress-api/internal/models"
)

// Subject is one subject with its ordered chapters.
type Subject struct {
	Name     string   `json:"name"`
	Chapters []string `json:"chapters"`
}

// Catalog is an ordered list of subjects. It is immutable after load.
type Catalog struct {
	subjects []Subject
	pairs    map[string]map[string]struct{}
}

// New builds a catalog from an explicit subject list.
func New(subjects []Subject) *Catalog {
	return build(subjects)
}

// Default returns the built-in catalog shipped with the tracker.
func Default() *Catalog {
	return build([]Subject{
		{Name: "Mathématiques", Chapters: []string{"Algèbre Linéaire", "Analyse Réelle", "Probabilités"}},
		{Name: "Physique", Chapters: []string{"Mécanique du Point", "Thermodynamique", "Électromagnétisme"}},
		{Name: "Informatique", Chapters: []string{"Python Intro", "Structures de Données", "Algorithmes"}},
	})
}

// Load reads a catalog from a JSON file, falling back to the default catalog
// when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var subjects []Subject
	if err := json.Unmarshal(raw, &subjects); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	if len(subjects) == 0 {
		return nil, fmt.Errorf("catalog file %s defines no subjects", path)
	}
	for _, s := range subjects {
		if s.Name == "" {
			return nil, fmt.Errorf("catalog file %s contains a subject without a name", path)
		}
	}

	return build(subjects), nil
}

func build(subjects []Subject) *Catalog {
	pairs := make(map[string]map[string]struct{}, len(subjects))
	for _, s := range subjects {
		chapters := make(map[string]struct{}, len(s.Chapters))
		for _, ch := range s.Chapters {
			chapters[ch] = struct{}{}
		}
		pairs[s.Name] = chapters
	}
	return &Catalog{subjects: subjects, pairs: pairs}
}

// Subjects returns the ordered subject list.
func (c *Catalog) Subjects() []Subject {
	return c.subjects
}

// Contains reports whether (subject, chapter) is a valid pair.
func (c *Catalog) Contains(subject, chapter string) bool {
	chapters, ok := c.pairs[subject]
	if !ok {
		return false
	}
	_, ok = chapters[chapter]
	return ok
}

// TotalSlots is the fixed denominator for completion-rate computation:
// every chapter counts once per component.
func (c *Catalog) TotalSlots() int {
	total := 0
	for _, s := range c.subjects {
		total += len(s.Chapters) * len(models.Components)
	}
	return total
}
