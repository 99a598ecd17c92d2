package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramusparts/catalog/internal/domain"
)

func buildIndex(t *testing.T, categories []domain.Category) *Index {
	t.Helper()
	idx, err := Build(categories, "other")
	require.NoError(t, err)
	return idx
}

func TestAssignPrefersSpecificSubcategory(t *testing.T) {
	idx := buildIndex(t, []domain.Category{
		{ID: 1, Name: "Тормозная система", Slug: "brakes"},
		{ID: 2, Name: "Тормозные колодки", Slug: "brake-pads", ParentID: ptr(int64(1))},
		{ID: 99, Name: "Прочее", Slug: "other"},
	})
	scorer := NewScorer(idx, DefaultWeights())

	got := scorer.Assign("колодки тормозные передние brembo", "Колодки тормозные передние Brembo")

	assert.Equal(t, int64(2), got)
}

func TestAssignPhraseDominatesKeywords(t *testing.T) {
	idx := buildIndex(t, []domain.Category{
		{ID: 1, Name: "Тормозная система", Slug: "brakes"},
		{ID: 2, Name: "Тормозные колодки", Slug: "brake-pads", ParentID: ptr(int64(1))},
		{ID: 99, Name: "Прочее", Slug: "other"},
	})
	scorer := NewScorer(idx, DefaultWeights())

	// The literal category name appears in the product text, so the root
	// category beats the deeper keyword-matched one.
	got := scorer.Assign("тормозная система в сборе", "Тормозная система в сборе")

	assert.Equal(t, int64(1), got)
}

func TestAssignTieBreakKeepsLowestID(t *testing.T) {
	idx := buildIndex(t, []domain.Category{
		{ID: 5, Name: "Фильтры масляные", Slug: "oil-filters-a"},
		{ID: 7, Name: "Фильтры масляные", Slug: "oil-filters-a"},
		{ID: 99, Name: "Прочее", Slug: "other"},
	})
	scorer := NewScorer(idx, DefaultWeights())

	got := scorer.Assign("фильтр масляный mann", "Фильтр масляный Mann")

	assert.Equal(t, int64(5), got)
}

func TestAssignFallsBackToCatchAll(t *testing.T) {
	idx := buildIndex(t, []domain.Category{
		{ID: 1, Name: "Тормозная система", Slug: "brakes"},
		{ID: 99, Name: "Прочее", Slug: "other"},
	})
	scorer := NewScorer(idx, DefaultWeights())

	got := scorer.Assign("брелок сувенирный", "Брелок сувенирный")

	assert.Equal(t, int64(99), got)
}

func TestAssignDegradedIndexKeepsCurrentCategory(t *testing.T) {
	idx, err := Build([]domain.Category{
		{ID: 1, Name: "Тормозная система", Slug: "brakes"},
	}, "other")
	require.ErrorIs(t, err, ErrNoCatchAll)
	scorer := NewScorer(idx, DefaultWeights())

	// Zero signals the caller to leave the product's category untouched.
	got := scorer.Assign("брелок сувенирный", "Брелок сувенирный")

	assert.Equal(t, int64(0), got)
}

func TestAssignAbbreviationBonus(t *testing.T) {
	idx := buildIndex(t, []domain.Category{
		{ID: 1, Name: "Прокладки ГБЦ", Slug: "head-gaskets"},
		{ID: 2, Name: "Прокладки поддона", Slug: "pan-gaskets"},
		{ID: 99, Name: "Прочее", Slug: "other"},
	})
	scorer := NewScorer(idx, DefaultWeights())

	got := scorer.Assign("прокладка гбц 6.4 hemi", "Прокладка ГБЦ 6.4 Hemi")

	assert.Equal(t, int64(1), got)
}

func TestAssignEmptyTextGoesToCatchAll(t *testing.T) {
	idx := buildIndex(t, []domain.Category{
		{ID: 1, Name: "Тормозная система", Slug: "brakes"},
		{ID: 99, Name: "Прочее", Slug: "other"},
	})
	scorer := NewScorer(idx, DefaultWeights())

	assert.Equal(t, int64(99), scorer.Assign("", ""))
}

func TestAssignSingleWeakKeywordNotEligible(t *testing.T) {
	idx := buildIndex(t, []domain.Category{
		{ID: 1, Name: "Аксессуары интерьера", Slug: "interior"},
		{ID: 99, Name: "Прочее", Slug: "other"},
	})
	scorer := NewScorer(idx, DefaultWeights())

	// One keyword hit with no supporting signal falls below the gate.
	got := scorer.Assign("органайзер интерьера", "Органайзер интерьера")

	assert.Equal(t, int64(99), got)
}
