package service

import (
	"fmt"
	"sort"
	"strings"

	"armario-mascota-mockups/models"
)

// ProductPrefix maps one vocabulary prefix to its product type
type ProductPrefix struct {
	Prefix string
	Type   models.ProductType
}

// DefaultProductVocabulary is the built-in template prefix vocabulary
var DefaultProductVocabulary = []ProductPrefix{
	{Prefix: "tee", Type: models.ProductTee},
	{Prefix: "tshirt", Type: models.ProductTee},
	{Prefix: "hoodie", Type: models.ProductHoodie},
	{Prefix: "hoodieback", Type: models.ProductHoodieBack},
	{Prefix: "sweatshirt", Type: models.ProductSweatshirt},
	{Prefix: "crewneck", Type: models.ProductSweatshirt},
	{Prefix: "coachjacket", Type: models.ProductCoachJacket},
	{Prefix: "onesie", Type: models.ProductOnesie},
	{Prefix: "lunchbox", Type: models.ProductLunchbox},
	{Prefix: "sportbag", Type: models.ProductSportBag},
	{Prefix: "hat", Type: models.ProductHat},
	{Prefix: "cap", Type: models.ProductHat},
	{Prefix: "tote", Type: models.ProductTote},
}

// ProductClassifier maps template identifiers to product types by longest matching prefix.
// It is immutable after construction.
// Implements ProductClassifierInterface
type ProductClassifier struct {
	separator string
	// sorted by prefix length descending, then lexicographically
	entries []ProductPrefix
}

// Ensure ProductClassifier implements ProductClassifierInterface
var _ ProductClassifierInterface = (*ProductClassifier)(nil)

// NewProductClassifier builds a classifier over vocabulary. Prefixes are lower-cased;
// a prefix listed twice with different product types is rejected.
func NewProductClassifier(vocabulary []ProductPrefix, separator string) (*ProductClassifier, error) {
	if separator == "" {
		return nil, fmt.Errorf("classifier separator must not be empty")
	}

	seen := make(map[string]models.ProductType, len(vocabulary))
	entries := make([]ProductPrefix, 0, len(vocabulary))
	for _, e := range vocabulary {
		prefix := strings.ToLower(strings.TrimSpace(e.Prefix))
		if prefix == "" {
			return nil, fmt.Errorf("empty prefix for product type %s", e.Type)
		}
		if e.Type == models.ProductUnclassified {
			return nil, fmt.Errorf("prefix %q maps to no product type", prefix)
		}
		if existing, ok := seen[prefix]; ok {
			if existing != e.Type {
				return nil, fmt.Errorf("prefix %q maps to both %s and %s", prefix, existing, e.Type)
			}
			continue
		}
		seen[prefix] = e.Type
		entries = append(entries, ProductPrefix{Prefix: prefix, Type: e.Type})
	}

	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].Prefix) != len(entries[j].Prefix) {
			return len(entries[i].Prefix) > len(entries[j].Prefix)
		}
		return entries[i].Prefix < entries[j].Prefix
	})

	return &ProductClassifier{separator: separator, entries: entries}, nil
}

// NewDefaultProductClassifier builds the classifier over the built-in vocabulary
func NewDefaultProductClassifier() *ProductClassifier {
	c, err := NewProductClassifier(DefaultProductVocabulary, "-")
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the product type of the longest vocabulary prefix matching templateID.
// A prefix matches when it equals the identifier or is followed by the separator.
// The boolean is false when nothing matched and the result is ProductUnclassified.
func (c *ProductClassifier) Classify(templateID string) (models.ProductType, bool) {
	id := strings.ToLower(strings.TrimSpace(templateID))
	for _, e := range c.entries {
		if id == e.Prefix || strings.HasPrefix(id, e.Prefix+c.separator) {
			return e.Type, true
		}
	}
	return models.ProductUnclassified, false
}

// Vocabulary returns a copy of the normalised vocabulary in match order
func (c *ProductClassifier) Vocabulary() []ProductPrefix {
	out := make([]ProductPrefix, len(c.entries))
	copy(out, c.entries)
	return out
}
