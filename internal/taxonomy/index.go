// Package taxonomy builds the per-run category index and scores products
// against it to pick the best-fitting category node.
package taxonomy

import (
	"errors"
	"sort"
	"strings"

	"github.com/ramusparts/catalog/internal/domain"
	"github.com/ramusparts/catalog/internal/textproc"
)

// ErrNoCatchAll indicates the category snapshot has no fallback leaf. The
// caller may still score against the returned index; products with no
// qualifying candidate then keep their current category.
var ErrNoCatchAll = errors.New("taxonomy: no catch-all category in snapshot")

// Entry is the derived per-category record the scorer works from. Keywords
// are normalized, suffix-stripped tokens recomputed from the category's name
// and slug on every build; they are never persisted.
type Entry struct {
	Category    domain.Category
	Keywords    map[string]struct{}
	DepthWeight int
	LiteralName string
	CatchAll    bool
}

// Index is the in-memory keyword structure for one classification run.
// Entries are ordered by ascending category ID; that order is part of the
// scoring contract (ties keep the first-encountered candidate).
type Index struct {
	entries    []Entry
	catchAllID int64
}

// Build constructs an Index from a category snapshot. The catch-all category
// (matched by slug, case-insensitively) is indexed but flagged so the scorer
// skips it. A missing catch-all returns the usable index together with
// ErrNoCatchAll so the caller can degrade instead of failing the run.
func Build(categories []domain.Category, catchAllSlug string) (*Index, error) {
	sorted := make([]domain.Category, len(categories))
	copy(sorted, categories)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	idx := &Index{entries: make([]Entry, 0, len(sorted))}
	for _, c := range sorted {
		entry := Entry{
			Category:    c,
			Keywords:    categoryKeywords(c),
			LiteralName: strings.ToLower(strings.TrimSpace(c.Name)),
			CatchAll:    strings.EqualFold(c.Slug, catchAllSlug),
		}
		if !c.IsRoot() {
			entry.DepthWeight = 1
		}
		if entry.CatchAll {
			idx.catchAllID = c.ID
		}
		idx.entries = append(idx.entries, entry)
	}

	if idx.catchAllID == 0 {
		return idx, ErrNoCatchAll
	}
	return idx, nil
}

// categoryKeywords derives the normalized keyword set from the category name
// and slug. Slugs are split on hyphens and run through the same
// normalization as the display name.
func categoryKeywords(c domain.Category) map[string]struct{} {
	tokens := textproc.Normalize(c.Name)
	tokens = append(tokens, textproc.Normalize(strings.ReplaceAll(c.Slug, "-", " "))...)
	return textproc.TokenSet(tokens)
}

// Entries returns the index entries in ascending category ID order.
func (i *Index) Entries() []Entry {
	return i.entries
}

// CatchAllID returns the fallback category identifier, or 0 when the
// snapshot had none.
func (i *Index) CatchAllID() int64 {
	return i.catchAllID
}

// Len returns the number of indexed categories.
func (i *Index) Len() int {
	return len(i.entries)
}
