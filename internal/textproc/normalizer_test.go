package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and strips punctuation",
			input:    "Колодки, тормозные (передние)!",
			expected: "колодки  тормозные  передние  ",
		},
		{
			name:     "keeps digits",
			input:    "Масло 5W-30",
			expected: "масло 5w 30",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clean(tt.input))
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "drops stop words and short tokens",
			input:    "Колодки для RAM от BG",
			expected: []string{"колодки", "ram"},
		},
		{
			name:     "expands abbreviation after the original token",
			input:    "прокладка ГБЦ",
			expected: []string{"прокладка", "гбц", "головка", "блока", "цилиндров"},
		},
		{
			name:     "preserves order and duplicates",
			input:    "масло масло моторное",
			expected: []string{"масло", "масло", "моторное"},
		},
		{
			name:     "keeps numeric model tokens",
			input:    "RAM 1500 2021",
			expected: []string{"ram", "1500", "2021"},
		},
		{
			name:     "empty input yields no tokens",
			input:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "strips plural adjective ending", input: "тормозные", expected: "тормозн"},
		{name: "strips singular adjective ending", input: "тормозной", expected: "тормозн"},
		{name: "longest ending wins", input: "моторными", expected: "моторн"},
		{name: "short remainder stays intact", input: "бой", expected: "бой"},
		{name: "latin token untouched", input: "brembo", expected: "brembo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Stem(tt.input))
		})
	}
}

func TestNormalizeCollapsesInflections(t *testing.T) {
	a := Normalize("колодки тормозные")
	b := Normalize("колодка тормозная")

	// The stemmed adjective must coincide across inflections.
	assert.Contains(t, a, "тормозн")
	assert.Contains(t, b, "тормозн")
}

func TestTokenSet(t *testing.T) {
	set := TokenSet([]string{"a", "b", "a"})
	assert.Len(t, set, 2)
	_, ok := set["a"]
	assert.True(t, ok)
}

func TestAbbreviationsStableOrder(t *testing.T) {
	first := Abbreviations()
	second := Abbreviations()
	assert.Equal(t, first, second)
	assert.Contains(t, first, "гбц")
}
