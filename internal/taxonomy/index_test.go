package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramusparts/catalog/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestBuildOrdersByAscendingID(t *testing.T) {
	categories := []domain.Category{
		{ID: 30, Name: "Тормозная система", Slug: "brakes"},
		{ID: 10, Name: "Двигатель", Slug: "engine"},
		{ID: 99, Name: "Прочее", Slug: "other"},
	}

	idx, err := Build(categories, "other")
	require.NoError(t, err)
	require.Equal(t, 3, idx.Len())

	entries := idx.Entries()
	assert.Equal(t, int64(10), entries[0].Category.ID)
	assert.Equal(t, int64(30), entries[1].Category.ID)
	assert.Equal(t, int64(99), entries[2].Category.ID)
}

func TestBuildCatchAllDetection(t *testing.T) {
	categories := []domain.Category{
		{ID: 1, Name: "Двигатель", Slug: "engine"},
		{ID: 2, Name: "Прочее", Slug: "Other"},
	}

	idx, err := Build(categories, "other")
	require.NoError(t, err)

	// Slug comparison is case-insensitive.
	assert.Equal(t, int64(2), idx.CatchAllID())
	assert.True(t, idx.Entries()[1].CatchAll)
	assert.False(t, idx.Entries()[0].CatchAll)
}

func TestBuildMissingCatchAllDegrades(t *testing.T) {
	categories := []domain.Category{
		{ID: 1, Name: "Двигатель", Slug: "engine"},
	}

	idx, err := Build(categories, "other")
	assert.ErrorIs(t, err, ErrNoCatchAll)

	// The index stays usable for scoring.
	require.NotNil(t, idx)
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, int64(0), idx.CatchAllID())
}

func TestBuildKeywordsFromNameAndSlug(t *testing.T) {
	categories := []domain.Category{
		{ID: 1, Name: "Тормозные колодки", Slug: "brake-pads", ParentID: ptr(int64(5))},
		{ID: 5, Name: "Тормозная система", Slug: "brakes"},
	}

	idx, err := Build(categories, "brakes")
	require.NoError(t, err)

	sub := idx.Entries()[0]
	assert.Contains(t, sub.Keywords, "тормозн")
	assert.Contains(t, sub.Keywords, "колодки")
	assert.Contains(t, sub.Keywords, "brake")
	assert.Contains(t, sub.Keywords, "pads")
	assert.Equal(t, 1, sub.DepthWeight)
	assert.Equal(t, "тормозные колодки", sub.LiteralName)

	root := idx.Entries()[1]
	assert.Equal(t, 0, root.DepthWeight)
}
