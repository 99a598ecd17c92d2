// Package textproc implements the tokenization pipeline shared by the
// category scorer and the fitment matcher: abbreviation expansion, stop-word
// removal, and a small suffix stripper that collapses Russian adjectival
// inflections.
package textproc

import (
	"sort"
	"strings"
	"unicode"
)

// abbreviations maps a whole-word abbreviation to its full form. During
// tokenization the expansion is inserted immediately after the abbreviation;
// the abbreviation itself is retained so both forms stay matchable.
var abbreviations = map[string]string{
	"гбц":  "головка блока цилиндров",
	"грм":  "газораспределительный механизм",
	"акпп": "автоматическая коробка передач",
	"мкпп": "механическая коробка передач",
	"гур":  "гидроусилитель руля",
	"абс":  "антиблокировочная система тормозов",
	"егр":  "рециркуляция отработавших газов",
	"акб":  "аккумуляторная батарея",
	"дмрв": "датчик массового расхода воздуха",
	"шрус": "шарнир равных угловых скоростей",
}

// stopWords are short prepositions and conjunctions that carry no
// classification signal in either language.
var stopWords = map[string]struct{}{
	"для": {}, "или": {}, "под": {}, "над": {}, "при": {}, "без": {},
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {},
}

// adjectiveEndings are Russian adjectival inflections stripped by Stem,
// ordered longest-first so that e.g. "ыми" wins over "ым".
var adjectiveEndings = []string{
	"ими", "ыми", "ого", "его", "ому", "ему",
	"ый", "ий", "ой", "ая", "яя", "ое", "ее", "ые", "ие",
	"ых", "их", "ым", "им", "ом", "ем", "ую", "юю",
}

func init() {
	sort.SliceStable(adjectiveEndings, func(i, j int) bool {
		return len([]rune(adjectiveEndings[i])) > len([]rune(adjectiveEndings[j]))
	})
}

const minTokenLen = 3

// Clean lowercases the text and replaces every character that is not a
// letter, digit, or whitespace with a space.
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// Tokenize splits free text into an ordered sequence of lowercased tokens:
// known abbreviations are expanded in place (the expansion follows the
// abbreviation), stop-words and tokens shorter than three runes are dropped.
// The order of first occurrence is preserved; duplicates are kept.
func Tokenize(text string) []string {
	fields := strings.Fields(Clean(text))

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, f)
		if full, ok := abbreviations[f]; ok {
			tokens = append(tokens, strings.Fields(full)...)
		}
	}

	out := tokens[:0]
	for _, t := range tokens {
		if _, stop := stopWords[t]; stop {
			continue
		}
		if len([]rune(t)) < minTokenLen {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Normalize tokenizes the text and suffix-strips each token. This is the
// form the category scorer matches keywords against; the fitment matcher
// uses the unstemmed Tokenize output because make and model tokens must stay
// literal.
func Normalize(text string) []string {
	tokens := Tokenize(text)
	for i, t := range tokens {
		tokens[i] = Stem(t)
	}
	return tokens
}

// Stem strips a known Russian adjectival ending from the token when the
// remainder is at least two runes longer than the ending, collapsing
// inflected forms ("тормозной", "тормозные" -> "тормозн").
func Stem(token string) string {
	runes := []rune(token)
	for _, ending := range adjectiveEndings {
		er := []rune(ending)
		if len(runes) < len(er)+2 {
			continue
		}
		if strings.HasSuffix(token, ending) {
			return string(runes[:len(runes)-len(er)])
		}
	}
	return token
}

// TokenSet collapses a token sequence into a membership set.
func TokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Abbreviations returns the known abbreviation tokens in a stable order.
func Abbreviations() []string {
	keys := make([]string, 0, len(abbreviations))
	for k := range abbreviations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
