package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willckim/Purelytics/pkg/ingredient"
)

func testAliases() *ingredient.AliasLists {
	return &ingredient.AliasLists{
		HiddenSugars: []string{"rice syrup", "dextrose", "maltodextrin"},
		MSG: ingredient.MSGLists{
			Always:      []string{"hydrolyzed", "yeast extract"},
			Often:       []string{"broth", "natural flavor"},
			Synergistic: []string{"disodium inosinate"},
		},
	}
}

func TestClassify(t *testing.T) {
	c := New(testAliases())

	tests := []struct {
		name     string
		input    string
		score    int
		concern  ingredient.Concern
		category string
		note     string
		rule     Rule
	}{
		{"hidden sugar", "Organic Brown Rice Syrup", 30, ingredient.ConcernModerate, CategoryHiddenSugar, noteHiddenSugar, RuleHiddenSugar},
		{"hidden sugar beats msg", "Hydrolyzed Dextrose", 30, ingredient.ConcernModerate, CategoryHiddenSugar, noteHiddenSugar, RuleHiddenSugar},
		{"msg always", "Hydrolyzed Soy Protein", 50, ingredient.ConcernModerate, CategoryFlavorEnhancer, noteMSGHigh, RuleMSGAlways},
		{"msg often", "Chicken Broth", 60, ingredient.ConcernModerate, CategoryFlavorEnhancer, noteMSGModerate, RuleMSGOften},
		{"msg often beats green", "Natural Flavor", 60, ingredient.ConcernModerate, CategoryFlavorEnhancer, noteMSGModerate, RuleMSGOften},
		{"red flag", "Modified Tapioca Starch", 40, ingredient.ConcernModerate, CategoryProcessedAdditive, "", RuleRedFlag},
		{"red beats green", "Artificial Vitamin Blend", 40, ingredient.ConcernModerate, CategoryProcessedAdditive, "", RuleRedFlag},
		{"yellow flag", "Smoke Flavoring", 50, ingredient.ConcernModerate, CategoryAdditive, "", RuleYellowFlag},
		{"yellow flag dye", "Beet Dye", 50, ingredient.ConcernModerate, CategoryAdditive, "", RuleYellowFlag},
		{"green flag", "Organic Quinoa Flakes", 80, ingredient.ConcernLow, CategoryNatural, "", RuleGreenFlag},
		{"green flag spice", "SPICES", 80, ingredient.ConcernLow, CategoryNatural, "", RuleGreenFlag},
		{"default", "Quinoa", 70, ingredient.ConcernLow, CategoryDefault, "", RuleDefault},
		{"empty", "", 70, ingredient.ConcernLow, CategoryDefault, "", RuleDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.input)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.concern, got.Concern)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.note, got.Note)
			assert.Equal(t, tt.rule, got.Rule)
		})
	}
}

func TestClassify_SynergisticIgnored(t *testing.T) {
	c := New(testAliases())
	got := c.Classify("Disodium Inosinate")
	assert.Equal(t, RuleDefault, got.Rule)
}

func TestClassify_NilAliases(t *testing.T) {
	c := New(nil)
	got := c.Classify("Brown Rice Syrup")
	assert.Equal(t, RuleDefault, got.Rule)
}

func TestClassify_DefaultAliases(t *testing.T) {
	a, err := ingredient.DefaultAliases()
	require.NoError(t, err)
	c := New(a)

	got := c.Classify("Organic Quinoa Flakes")
	assert.Equal(t, Classification{Score: 80, Concern: ingredient.ConcernLow, Category: CategoryNatural, Rule: RuleGreenFlag}, got)

	assert.Equal(t, CategoryHiddenSugar, c.Classify("Evaporated Cane Juice").Category)
	assert.Equal(t, RuleMSGAlways, c.Classify("Autolyzed Yeast").Rule)
}

func TestClassify_Deterministic(t *testing.T) {
	c := New(testAliases())
	for _, in := range []string{"Chicken Broth", "Modified Starch", "Quinoa"} {
		assert.Equal(t, c.Classify(in), c.Classify(in))
	}
}
