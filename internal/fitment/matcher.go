package fitment

import (
	"fmt"

	"github.com/ramusparts/catalog/internal/domain"
	"github.com/ramusparts/catalog/internal/textproc"
)

// FallbackPolicy decides what a product with no recognizable vehicle signal
// maps to. The batch path historically favored recall (fits everything); the
// policy is explicit configuration so a catalog can choose precision instead.
type FallbackPolicy int

const (
	// FallbackAll links unmatched products to the full vehicle universe.
	FallbackAll FallbackPolicy = iota
	// FallbackNone leaves unmatched products with no vehicle associations.
	FallbackNone
)

// String returns the external representation of the policy.
func (p FallbackPolicy) String() string {
	switch p {
	case FallbackAll:
		return "all"
	case FallbackNone:
		return "none"
	default:
		return fmt.Sprintf("FallbackPolicy(%d)", int(p))
	}
}

// ParseFallbackPolicy converts the external representation to a policy.
// Unrecognized values are a construction-time error, not a silent default.
func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch s {
	case "all":
		return FallbackAll, nil
	case "none":
		return FallbackNone, nil
	default:
		return FallbackAll, fmt.Errorf("unknown fitment fallback policy %q (want all or none)", s)
	}
}

// MatchRule names the decision rule that produced a match, for logging and
// metrics.
type MatchRule string

const (
	RuleUniversal MatchRule = "universal"
	RuleMake      MatchRule = "make"
	RuleQuery     MatchRule = "query"
	RuleFallback  MatchRule = "fallback"
)

// Match is the outcome of resolving a product text or user query against the
// vehicle universe.
type Match struct {
	VehicleIDs []int64
	Rule       MatchRule
	Makes      []string
	Model      *string
	Year       *int
}

// Matcher resolves vehicle compatibility from free text.
type Matcher struct {
	vocab    *Vocabulary
	fallback FallbackPolicy
}

// NewMatcher creates a matcher over the given vocabulary.
func NewMatcher(vocab *Vocabulary, fallback FallbackPolicy) *Matcher {
	return &Matcher{vocab: vocab, fallback: fallback}
}

// Match resolves the set of compatible vehicle identifiers for the given
// text. The result is always a subset of the supplied universe and never
// nil. Decision order: universal part -> full universe; otherwise detected
// make aliases restrict by make, an extracted year restricts by production
// range, a model token that is not itself a make signal restricts by model;
// with no signal at all the configured fallback policy applies.
func (m *Matcher) Match(text string, universe []domain.Vehicle) Match {
	if m.vocab.IsUniversal(text) {
		return Match{VehicleIDs: vehicleIDs(universe), Rule: RuleUniversal}
	}

	tokens := textproc.Tokenize(text)
	makes := m.vocab.DetectMakes(tokens)
	year := ExtractYear(tokens)
	model := m.vocab.DetectModel(tokens)

	if len(makes) == 0 && year == nil && model == nil {
		ids := []int64{}
		if m.fallback == FallbackAll {
			ids = vehicleIDs(universe)
		}
		return Match{VehicleIDs: ids, Rule: RuleFallback}
	}

	candidates := universe
	if len(makes) > 0 {
		candidates = filterVehicles(candidates, func(v domain.Vehicle) bool {
			for _, mk := range makes {
				if v.Make == mk {
					return true
				}
			}
			return false
		})
	}
	if year != nil {
		candidates = filterVehicles(candidates, func(v domain.Vehicle) bool {
			return v.InProductionDuring(*year)
		})
	}
	if model != nil {
		candidates = filterVehicles(candidates, func(v domain.Vehicle) bool {
			return v.MatchesModel(*model)
		})
	}

	rule := RuleMake
	if len(makes) == 0 {
		rule = RuleQuery
	}
	return Match{
		VehicleIDs: vehicleIDs(candidates),
		Rule:       rule,
		Makes:      makes,
		Model:      model,
		Year:       year,
	}
}

func filterVehicles(vehicles []domain.Vehicle, keep func(domain.Vehicle) bool) []domain.Vehicle {
	out := make([]domain.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func vehicleIDs(vehicles []domain.Vehicle) []int64 {
	ids := make([]int64, len(vehicles))
	for i, v := range vehicles {
		ids[i] = v.ID
	}
	return ids
}
