package taxonomy

import (
	"strings"

	"github.com/ramusparts/catalog/internal/textproc"
)

// Weights parameterizes the category scoring function. All scoring tweaks go
// through this table; the scoring loop itself never hard-codes a weight.
type Weights struct {
	PhraseBonus       float64
	KeywordMatch      float64
	DepthWeight       float64
	Coverage          float64
	SynonymBonus      float64
	AbbreviationBonus float64

	// MinKeywordMatches is the eligibility threshold for categories with no
	// supporting phrase, synonym, abbreviation, or depth signal.
	MinKeywordMatches int
}

// DefaultWeights returns the tuned production weight table. An exact literal
// category-name match must dominate every other signal combined, so the
// phrase bonus sits an order of magnitude above the rest.
func DefaultWeights() Weights {
	return Weights{
		PhraseBonus:       1000,
		KeywordMatch:      150,
		DepthWeight:       100,
		Coverage:          20,
		SynonymBonus:      50,
		AbbreviationBonus: 200,
		MinKeywordMatches: 2,
	}
}

// synonymGroups lists interchangeable part-name variants (stems and English
// equivalents). A group contributes a bonus when the category name and the
// product text each contain at least one variant from the same group.
var synonymGroups = [][]string{
	{"ремен", "ремн", "belt"},
	{"фильтр", "filter"},
	{"масл", "oil"},
	{"свеч", "spark"},
	{"колодк", "pad"},
	{"тормоз", "brake"},
	{"амортизатор", "стойк", "shock"},
	{"диск", "disc", "rotor"},
	{"насос", "помпа", "pump"},
	{"радиатор", "radiator"},
	{"прокладк", "gasket"},
	{"подшипник", "bearing"},
	{"датчик", "sensor"},
	{"рычаг", "arm"},
	{"сцеплен", "clutch"},
	{"глушител", "muffler", "exhaust"},
	{"генератор", "alternator"},
	{"стартер", "starter"},
	{"аккумулятор", "battery"},
	{"форсунк", "injector"},
	{"пружин", "spring"},
	{"сайлентблок", "втулк", "bushing"},
	{"термостат", "thermostat"},
	{"патруб", "шланг", "hose"},
	{"фар", "headlight", "headlamp"},
}

// Scorer assigns products to taxonomy nodes.
type Scorer struct {
	index   *Index
	weights Weights
}

// NewScorer creates a scorer over a built index.
func NewScorer(index *Index, weights Weights) *Scorer {
	return &Scorer{index: index, weights: weights}
}

// score is the per-candidate breakdown, kept separate so tests can assert on
// individual signals.
type score struct {
	phrase   float64
	keywords int
	synonyms float64
	abbrevs  float64
	coverage float64
	depth    int
	total    float64
	eligible bool
}

// Assign returns the best-fitting category identifier for the given product
// text, or the catch-all identifier when no candidate passes the eligibility
// gate. Any input, including empty text, yields a decision; the function is
// pure and safe for concurrent use.
func (s *Scorer) Assign(rawText, fullText string) int64 {
	raw := strings.ToLower(rawText)
	rawTokens := textproc.TokenSet(textproc.Tokenize(fullText + " " + rawText))
	stemmed := textproc.TokenSet(textproc.Normalize(fullText))

	bestID := s.index.CatchAllID()
	bestTotal := -1.0
	found := false

	for _, entry := range s.index.Entries() {
		if entry.CatchAll {
			continue
		}
		sc := s.scoreEntry(entry, raw, rawTokens, stemmed)
		if !sc.eligible {
			continue
		}
		// Strictly-greater keeps the first-encountered candidate on ties;
		// entries iterate in ascending category ID order.
		if sc.total > bestTotal {
			bestTotal = sc.total
			bestID = entry.Category.ID
			found = true
		}
	}

	if !found {
		return s.index.CatchAllID()
	}
	return bestID
}

func (s *Scorer) scoreEntry(entry Entry, raw string, rawTokens, stemmed map[string]struct{}) score {
	var sc score

	if entry.LiteralName != "" && strings.Contains(raw, entry.LiteralName) {
		sc.phrase = s.weights.PhraseBonus
	}

	for kw := range entry.Keywords {
		if _, ok := stemmed[kw]; ok {
			sc.keywords++
		}
	}

	nameTokens := textproc.TokenSet(textproc.Tokenize(entry.LiteralName))
	for _, group := range synonymGroups {
		if containsVariant(entry.LiteralName, group) && containsVariant(raw, group) {
			sc.synonyms += s.weights.SynonymBonus
		}
	}
	for _, abbr := range textproc.Abbreviations() {
		_, inName := nameTokens[abbr]
		_, inText := rawTokens[abbr]
		if inName && inText {
			sc.abbrevs += s.weights.AbbreviationBonus
		}
	}

	if len(entry.Keywords) > 0 {
		sc.coverage = float64(sc.keywords) / float64(len(entry.Keywords))
	}
	sc.depth = entry.DepthWeight

	sc.total = sc.phrase +
		float64(sc.keywords)*s.weights.KeywordMatch +
		float64(sc.depth)*s.weights.DepthWeight +
		sc.coverage*s.weights.Coverage +
		sc.synonyms +
		sc.abbrevs

	// The gate suppresses single-weak-word false positives while letting
	// subcategories, which are inherently more specific, qualify on one
	// strong keyword.
	switch {
	case sc.phrase > 0:
		sc.eligible = true
	case sc.keywords >= s.weights.MinKeywordMatches:
		sc.eligible = true
	case sc.keywords >= 1 && sc.synonyms > 0:
		sc.eligible = true
	case sc.keywords >= 1 && sc.abbrevs > 0:
		sc.eligible = true
	case sc.keywords >= 1 && sc.depth > 0:
		sc.eligible = true
	}

	return sc
}

func containsVariant(text string, variants []string) bool {
	for _, v := range variants {
		if strings.Contains(text, v) {
			return true
		}
	}
	return false
}
