// Package fitment resolves which vehicles a product is compatible with from
// free-text signals: a static bilingual alias vocabulary, universal-part
// detection, and year/model extraction.
package fitment

import (
	"strconv"
	"strings"

	"github.com/ramusparts/catalog/internal/textproc"
)

// Plausible production-year bounds for 4-digit year extraction.
const (
	YearMin = 1990
	YearMax = 2039
)

// Vocabulary holds the static, engine-versioned dictionaries the matcher
// works from. It is not database-driven; changing it is a code change.
type Vocabulary struct {
	makeAliases map[string]string
	modelTokens map[string]string
	universal   []string
}

// DefaultVocabulary returns the curated production vocabulary, biased toward
// the American truck/SUV makes the catalog specializes in but covering the
// common European and Asian makes that show up in mixed price lists.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		makeAliases: map[string]string{
			// RAM / Dodge / Jeep / Chrysler family. Flagship model names are
			// strong make signals on their own.
			"ram": "RAM", "рам": "RAM", "trx": "RAM",
			"1500": "RAM", "2500": "RAM", "3500": "RAM",
			"dodge": "Dodge", "додж": "Dodge", "hemi": "Dodge", "хеми": "Dodge",
			"challenger": "Dodge", "charger": "Dodge", "durango": "Dodge",
			"jeep": "Jeep", "джип": "Jeep", "wrangler": "Jeep",
			"cherokee": "Jeep", "gladiator": "Jeep", "compass": "Jeep", "renegade": "Jeep",
			"chrysler": "Chrysler", "крайслер": "Chrysler", "pacifica": "Chrysler",

			// Other American makes.
			"ford": "Ford", "форд": "Ford", "mustang": "Ford", "explorer": "Ford",
			"chevrolet": "Chevrolet", "шевроле": "Chevrolet", "tahoe": "Chevrolet", "тахо": "Chevrolet",
			"gmc": "GMC", "cadillac": "Cadillac", "кадиллак": "Cadillac",
			"hummer": "Hummer", "хаммер": "Hummer", "lincoln": "Lincoln",

			// European and Asian makes.
			"bmw": "BMW", "бмв": "BMW",
			"mercedes": "Mercedes-Benz", "мерседес": "Mercedes-Benz", "benz": "Mercedes-Benz",
			"audi": "Audi", "ауди": "Audi",
			"volkswagen": "Volkswagen", "фольксваген": "Volkswagen",
			"toyota": "Toyota", "тойота": "Toyota", "camry": "Toyota", "камри": "Toyota",
			"nissan": "Nissan", "ниссан": "Nissan",
			"hyundai": "Hyundai", "хендай": "Hyundai",
			"kia": "Kia", "киа": "Kia",
		},
		modelTokens: map[string]string{
			"1500": "1500", "2500": "2500", "3500": "3500",
			"wrangler": "Wrangler", "cherokee": "Cherokee", "gladiator": "Gladiator",
			"compass": "Compass", "renegade": "Renegade",
			"challenger": "Challenger", "charger": "Charger", "durango": "Durango",
			"pacifica": "Pacifica", "mustang": "Mustang", "explorer": "Explorer",
			"tahoe": "Tahoe", "camry": "Camry",
		},
		universal: []string{
			"масло", "oil", "жидкость", "fluid", "антифриз", "antifreeze", "тосол",
			"свеч", "spark", "воздушн", "air filter", "салон", "cabin",
			"очистител", "cleaner", "присадк", "additive", "герметик", "sealant",
			"смазка", "grease", "моющ", "wash", "омывайка", "полироль", "шампунь",
		},
	}
}

// IsUniversal reports whether the text names a part that fits every vehicle
// by its nature (oils, fluids, consumables). Matching is substring-based so
// multi-word entries like "air filter" work.
func (v *Vocabulary) IsUniversal(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range v.universal {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DetectMakes scans tokens for make aliases and returns the canonical makes
// in order of first occurrence, deduplicated. A product legitimately maps to
// several makes only when several distinct aliases appear.
func (v *Vocabulary) DetectMakes(tokens []string) []string {
	var makes []string
	seen := make(map[string]struct{})
	for _, t := range tokens {
		canonical, ok := v.makeAliases[t]
		if !ok {
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		makes = append(makes, canonical)
	}
	return makes
}

// DetectModel returns the canonical model for the first recognized model
// token, or nil when none is present. Tokens that double as make aliases
// ("1500", "wrangler") are skipped: in a flat product title such a token
// names the whole make, and narrowing to one model would drop the make's
// other models from the link set.
func (v *Vocabulary) DetectModel(tokens []string) *string {
	for _, t := range tokens {
		if _, isMake := v.makeAliases[t]; isMake {
			continue
		}
		if model, ok := v.modelTokens[t]; ok {
			return &model
		}
	}
	return nil
}

// MakeForModel resolves the make a model token implies ("Wrangler" implies
// Jeep). Returns empty when the token is not a make signal.
func (v *Vocabulary) MakeForModel(modelToken string) string {
	return v.makeAliases[strings.ToLower(modelToken)]
}

// ExtractYear returns the first token that parses as a 4-digit year inside
// the plausible production range, or nil.
func ExtractYear(tokens []string) *int {
	for _, t := range tokens {
		if len(t) != 4 {
			continue
		}
		year, err := strconv.Atoi(t)
		if err != nil || year < YearMin || year > YearMax {
			continue
		}
		return &year
	}
	return nil
}

// TokenizeQuery exposes the shared tokenization for callers that need the
// literal (unstemmed) token stream the vocabulary matches against.
func TokenizeQuery(text string) []string {
	return textproc.Tokenize(text)
}
