package score

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtraction_JSON(t *testing.T) {
	doc := `{
	"productName": "Hot Dogs",
	"brand": "Acme",
	"category": "Meat",
	"ingredients": ["Pork", "Water", "Sodium Nitrite"]
}`
	x, err := ParseExtraction(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Hot Dogs", x.ProductName)
	assert.Equal(t, "Acme", x.Brand)
	assert.Equal(t, "Meat", x.Category)
	assert.Equal(t, []string{"Pork", "Water", "Sodium Nitrite"}, x.Ingredients)
}

func TestParseExtraction_YAML(t *testing.T) {
	doc := `productName: Granola
ingredients:
  - Whole Grain Oats
  - Honey
  - "  "
`
	x, err := ParseExtraction(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Granola", x.ProductName)
	assert.Equal(t, []string{"Whole Grain Oats", "Honey", "  "}, x.Ingredients)
}

func TestParseExtraction_EmptyList(t *testing.T) {
	x, err := ParseExtraction(strings.NewReader(`{"ingredients": []}`))
	require.NoError(t, err)
	assert.NotNil(t, x.Ingredients)
	assert.Empty(t, x.Ingredients)
}

func TestParseExtraction_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "   "},
		{"missing ingredients", `{"productName": "x"}`},
		{"number element", `{"ingredients": ["Salt", 5]}`},
		{"null element", `{"ingredients": ["Salt", null]}`},
		{"object element", `{"ingredients": [{"name": "Salt"}]}`},
		{"yaml number element", "ingredients:\n  - Salt\n  - 12\n"},
		{"yaml list element", "ingredients:\n  - [Salt, Water]\n"},
		{"not an object", `["Salt"]`},
		{"malformed json", `{"ingredients": [`},
		{"ingredients not a list", `{"ingredients": "Salt, Water"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExtraction(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidExtraction)
		})
	}
}

func TestParseExtraction_NilReader(t *testing.T) {
	_, err := ParseExtraction(nil)
	assert.ErrorIs(t, err, ErrInvalidExtraction)
}

func TestParseExtractionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ingredients": ["Water"]}`), 0600))

	x, err := ParseExtractionFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Water"}, x.Ingredients)

	_, err = ParseExtractionFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
