package fitment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniversal(t *testing.T) {
	vocab := DefaultVocabulary()

	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "engine oil", text: "Масло моторное 5W-30", expected: true},
		{name: "antifreeze", text: "Антифриз G12 1л", expected: true},
		{name: "english fluid", text: "Brake fluid DOT4", expected: true},
		{name: "cabin filter", text: "Фильтр салона", expected: true},
		{name: "brake pads are not universal", text: "Колодки тормозные передние", expected: false},
		{name: "empty text", text: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, vocab.IsUniversal(tt.text))
		})
	}
}

func TestDetectMakes(t *testing.T) {
	vocab := DefaultVocabulary()

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{name: "latin alias", text: "амортизатор ram 1500", expected: []string{"RAM"}},
		{name: "cyrillic alias", text: "фара для додж челленджер", expected: []string{"Dodge"}},
		{name: "flagship model implies make", text: "решетка wrangler", expected: []string{"Jeep"}},
		{name: "multiple makes deduplicated in order", text: "крепление ram dodge ram", expected: []string{"RAM", "Dodge"}},
		{name: "no alias", text: "щетка стеклоочистителя", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, vocab.DetectMakes(TokenizeQuery(tt.text)))
		})
	}
}

func TestDetectModel(t *testing.T) {
	vocab := &Vocabulary{
		makeAliases: map[string]string{"ram": "RAM", "1500": "RAM"},
		modelTokens: map[string]string{"1500": "1500", "longhorn": "Longhorn"},
	}

	model := vocab.DetectModel(TokenizeQuery("амортизатор ram longhorn задний"))
	require.NotNil(t, model)
	assert.Equal(t, "Longhorn", *model)

	// "1500" signals the make in a flat title, not a single model.
	assert.Nil(t, vocab.DetectModel(TokenizeQuery("амортизатор ram 1500 задний")))
	assert.Nil(t, vocab.DetectModel(TokenizeQuery("амортизатор задний")))
}

func TestMakeForModel(t *testing.T) {
	vocab := DefaultVocabulary()

	assert.Equal(t, "Jeep", vocab.MakeForModel("Wrangler"))
	assert.Equal(t, "RAM", vocab.MakeForModel("1500"))
	assert.Equal(t, "", vocab.MakeForModel("unknown"))
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected *int
	}{
		{name: "plain year", text: "амортизатор 2021 задний", expected: intPtr(2021)},
		{name: "below range ignored", text: "деталь 1969", expected: nil},
		{name: "above range ignored", text: "артикул 2077", expected: nil},
		{name: "part number fragment skipped", text: "фильтр 68157291aa", expected: nil},
		{name: "first valid year wins", text: "бампер 2018 2022", expected: intPtr(2018)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractYear(TokenizeQuery(tt.text))
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func intPtr(v int) *int { return &v }
