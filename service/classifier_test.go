package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armario-mascota-mockups/models"
)

func TestProductClassifier_Classify(t *testing.T) {
	c := NewDefaultProductClassifier()

	cases := map[string]models.ProductType{
		"hoodie-black":      models.ProductHoodie,
		"HOODIE-Black":      models.ProductHoodie,
		"hoodie":            models.ProductHoodie,
		"hoodieback-black":  models.ProductHoodieBack,
		"hoodieback":        models.ProductHoodieBack,
		"tee-white":         models.ProductTee,
		"tshirt-navy":       models.ProductTee,
		"crewneck-grey":     models.ProductSweatshirt,
		"coachjacket-navy":  models.ProductCoachJacket,
		"onesie-pink":       models.ProductOnesie,
		"lunchbox-blue":     models.ProductLunchbox,
		"sportbag-black":    models.ProductSportBag,
		"cap-red":           models.ProductHat,
		"tote-natural":      models.ProductTote,
		"  sweatshirt-red ": models.ProductSweatshirt,
	}
	for id, want := range cases {
		t.Run(id, func(t *testing.T) {
			got, ok := c.Classify(id)
			assert.True(t, ok)
			assert.Equal(t, want, got)
		})
	}

	t.Run("prefix must be followed by the separator", func(t *testing.T) {
		for _, id := range []string{"hoodies-black", "hatter-red", "teepee", "mystery-widget", ""} {
			got, ok := c.Classify(id)
			assert.False(t, ok, id)
			assert.Equal(t, models.ProductUnclassified, got, id)
		}
	})
}

func TestProductClassifier_LongestPrefixWins(t *testing.T) {
	t.Run("every vocabulary entry wins over shorter matching entries", func(t *testing.T) {
		c := NewDefaultProductClassifier()
		for _, e := range DefaultProductVocabulary {
			got, ok := c.Classify(e.Prefix + "-anything")
			require.True(t, ok, e.Prefix)
			assert.Equal(t, e.Type, got, e.Prefix)
		}
	})

	t.Run("entries containing the separator", func(t *testing.T) {
		c, err := NewProductClassifier([]ProductPrefix{
			{Prefix: "hoodie", Type: models.ProductHoodie},
			{Prefix: "hoodie-back", Type: models.ProductHoodieBack},
		}, "-")
		require.NoError(t, err)

		got, ok := c.Classify("hoodie-back-black")
		require.True(t, ok)
		assert.Equal(t, models.ProductHoodieBack, got)

		got, ok = c.Classify("hoodie-black")
		require.True(t, ok)
		assert.Equal(t, models.ProductHoodie, got)
	})
}

func TestNewProductClassifier(t *testing.T) {
	t.Run("case-insensitive duplicates with the same type are merged", func(t *testing.T) {
		c, err := NewProductClassifier([]ProductPrefix{
			{Prefix: "Hat", Type: models.ProductHat},
			{Prefix: "hat", Type: models.ProductHat},
		}, "-")
		require.NoError(t, err)
		assert.Len(t, c.Vocabulary(), 1)
	})

	t.Run("conflicting duplicates are rejected", func(t *testing.T) {
		_, err := NewProductClassifier([]ProductPrefix{
			{Prefix: "HAT", Type: models.ProductHat},
			{Prefix: "hat", Type: models.ProductTote},
		}, "-")
		assert.Error(t, err)
	})

	t.Run("empty prefix and unclassified type are rejected", func(t *testing.T) {
		_, err := NewProductClassifier([]ProductPrefix{{Prefix: " ", Type: models.ProductHat}}, "-")
		assert.Error(t, err)
		_, err = NewProductClassifier([]ProductPrefix{{Prefix: "x", Type: models.ProductUnclassified}}, "-")
		assert.Error(t, err)
		_, err = NewProductClassifier(DefaultProductVocabulary, "")
		assert.Error(t, err)
	})

	t.Run("match order is length descending then lexicographic", func(t *testing.T) {
		c, err := NewProductClassifier([]ProductPrefix{
			{Prefix: "tote", Type: models.ProductTote},
			{Prefix: "cap", Type: models.ProductHat},
			{Prefix: "hat", Type: models.ProductHat},
			{Prefix: "hoodieback", Type: models.ProductHoodieBack},
		}, "-")
		require.NoError(t, err)

		var order []string
		for _, e := range c.Vocabulary() {
			order = append(order, e.Prefix)
		}
		assert.Equal(t, []string{"hoodieback", "tote", "cap", "hat"}, order)
	})
}
