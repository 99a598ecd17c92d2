package fitment

import (
	"strconv"
	"strings"

	"github.com/ramusparts/catalog/internal/textproc"
)

// QueryIntent is the vehicle context and remaining part text extracted from
// one free-text search utterance ("амортизатор для ram 1500 2022" ->
// make RAM, model 1500, year 2022, part text "амортизатор").
type QueryIntent struct {
	Make     *string `json:"make,omitempty"`
	Model    *string `json:"model,omitempty"`
	Year     *int    `json:"year,omitempty"`
	PartText string  `json:"part_text"`
}

// HasVehicle reports whether any vehicle signal was recognized.
func (q QueryIntent) HasVehicle() bool {
	return q.Make != nil || q.Model != nil || q.Year != nil
}

// ResolveQuery splits a conversational search query into a vehicle intent
// and the remaining part-search text. Vehicle tokens are consumed; every
// other token stays in PartText in its original order.
func (m *Matcher) ResolveQuery(query string) QueryIntent {
	var intent QueryIntent
	var rest []string

	for _, token := range textproc.Tokenize(query) {
		if canonical, ok := m.vocab.makeAliases[token]; ok {
			if intent.Make == nil {
				intent.Make = &canonical
			}
			if model, isModel := m.vocab.modelTokens[token]; isModel && intent.Model == nil {
				intent.Model = &model
			}
			continue
		}
		if model, ok := m.vocab.modelTokens[token]; ok {
			if intent.Model == nil {
				intent.Model = &model
				// A flagship model token implies its make.
				if intent.Make == nil {
					if implied := m.vocab.MakeForModel(token); implied != "" {
						intent.Make = &implied
					}
				}
			}
			continue
		}
		if len(token) == 4 && intent.Year == nil {
			if year, err := strconv.Atoi(token); err == nil && year >= YearMin && year <= YearMax {
				intent.Year = &year
				continue
			}
		}
		rest = append(rest, token)
	}

	intent.PartText = strings.Join(rest, " ")
	return intent
}
