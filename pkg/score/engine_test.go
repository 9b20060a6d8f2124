package score

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willckim/Purelytics/pkg/classify"
	"github.com/willckim/Purelytics/pkg/ingredient"
	"github.com/willckim/Purelytics/pkg/match"
)

func testEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	db, err := ingredient.Default()
	require.NoError(t, err)
	aliases, err := ingredient.DefaultAliases()
	require.NoError(t, err)
	e, err := NewEngine(db, aliases, opts...)
	require.NoError(t, err)
	return e
}

func TestNewEngine_Errors(t *testing.T) {
	db, err := ingredient.Default()
	require.NoError(t, err)
	aliases, err := ingredient.DefaultAliases()
	require.NoError(t, err)

	_, err = NewEngine(nil, aliases)
	assert.Error(t, err)

	_, err = NewEngine(db, nil)
	assert.Error(t, err)

	bad := DefaultPolicy()
	bad.ScoreFloor = 120
	_, err = NewEngine(db, aliases, WithPolicy(bad))
	assert.Error(t, err)

	e, err := NewEngine(db, aliases, WithWorkers(0), WithMatchMode(match.ModeToken))
	require.NoError(t, err)
	assert.Equal(t, 1, e.workers)
	assert.Equal(t, match.ModeToken, e.Matcher().Mode())
	assert.Equal(t, DefaultPolicy(), e.Policy())
	assert.Same(t, db, e.Database())
	assert.NotNil(t, e.Classifier())
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Policy)
		wantErr bool
	}{
		{"default", func(p *Policy) {}, false},
		{"zero floor", func(p *Policy) { p.ScoreFloor = 0 }, false},
		{"negative penalty", func(p *Policy) { p.HighConcernPenalty = -1 }, true},
		{"negative bulk penalty", func(p *Policy) { p.BulkConcernPenalty = -1 }, true},
		{"negative threshold", func(p *Policy) { p.BulkConcernThreshold = -1 }, true},
		{"floor above range", func(p *Policy) { p.ScoreFloor = 101 }, true},
		{"empty score below range", func(p *Policy) { p.EmptyScore = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScore_ReferenceProduct(t *testing.T) {
	e := testEngine(t)

	res := e.Score("Hot Dogs", "Acme", []string{"Sodium Nitrite", "High Fructose Corn Syrup", "Citric Acid"})

	assert.Equal(t, "Hot Dogs", res.ProductName)
	assert.Equal(t, "Acme", res.Brand)
	assert.Equal(t, "2026.10", res.ReferenceVersion)
	assert.Equal(t, 40, res.OverallScore)

	require.Len(t, res.Ingredients, 3)
	ids := []string{res.Ingredients[0].ID, res.Ingredients[1].ID, res.Ingredients[2].ID}
	assert.Equal(t, []string{"sodium-nitrite", "high-fructose-corn-syrup", "citric-acid"}, ids)
	for _, p := range res.Ingredients {
		assert.True(t, p.FoundInDatabase, p.ID)
	}

	assert.Equal(t, Tally{Count: 1, Names: []string{"High Fructose Corn Syrup"}}, res.Concerns.Sugar)
	assert.Equal(t, Tally{Count: 1, Names: []string{"Sodium Nitrite"}}, res.Concerns.Preservatives)
	assert.Equal(t, Tally{Count: 0, Names: []string{}}, res.Concerns.Artificial)

	require.Len(t, res.ProfileAlerts, 3)
	assert.Equal(t, &ProfileAlert{
		Profile:    ProfileKids,
		Message:    "Contains Sodium Nitrite, which is not recommended for children",
		Ingredient: "sodium-nitrite",
	}, res.ProfileAlerts[0])
	assert.Equal(t, ProfileHeart, res.ProfileAlerts[1].Profile)
	assert.Equal(t, "sodium-nitrite", res.ProfileAlerts[1].Ingredient)
	assert.Equal(t, ProfileDiabetic, res.ProfileAlerts[2].Profile)
	assert.Equal(t, "high-fructose-corn-syrup", res.ProfileAlerts[2].Ingredient)
}

func TestScore_Empty(t *testing.T) {
	e := testEngine(t)

	res := e.Score("", "", nil)
	assert.Equal(t, EmptyScoreDefault, res.OverallScore)
	assert.NotNil(t, res.Ingredients)
	assert.Empty(t, res.Ingredients)
	assert.NotNil(t, res.ProfileAlerts)
	assert.Equal(t, 0, res.Concerns.Total())

	res = e.Score("", "", []string{"", "   ", "\t\n"})
	assert.Equal(t, EmptyScoreDefault, res.OverallScore)
	assert.Empty(t, res.Ingredients)
}

func TestScore_SkipsBlankNames(t *testing.T) {
	e := testEngine(t)
	res := e.Score("", "", []string{" ", "Water", ""})
	require.Len(t, res.Ingredients, 1)
	assert.Equal(t, "water", res.Ingredients[0].ID)
	assert.Equal(t, 100, res.OverallScore)
}

func TestScore_NonLatinNamesAreClassified(t *testing.T) {
	e := testEngine(t)

	res := e.Score("Чай", "", []string{"сахар", "вода", "Sodium Nitrite"})
	require.Len(t, res.Ingredients, 3)

	for i, in := range []string{"сахар", "вода"} {
		p := res.Ingredients[i]
		assert.Equal(t, in, p.Input)
		assert.Equal(t, in, p.Name)
		assert.False(t, p.FoundInDatabase)
		assert.Equal(t, 70, p.Score)
		assert.True(t, strings.HasPrefix(p.ID, "unknown-"))
		assert.NotEqual(t, "unknown-", p.ID)
	}
	assert.NotEqual(t, res.Ingredients[0].ID, res.Ingredients[1].ID)
	assert.Equal(t, "sodium-nitrite", res.Ingredients[2].ID)

	// round((70 + 70 + 25) / 3) = 55, one high concern
	assert.Equal(t, 47, res.OverallScore)

	res = e.Score("", "", []string{"сахар", "вода", "!!"})
	assert.Len(t, res.Ingredients, 3)
	assert.Equal(t, 70, res.OverallScore)
}

func TestScore_FloorAndBulkPenalty(t *testing.T) {
	e := testEngine(t)
	res := e.Score("", "", []string{
		"Red 40", "Yellow 5", "Yellow 6", "Blue 1",
		"Sodium Benzoate", "Aspartame", "High Fructose Corn Syrup",
	})

	assert.Equal(t, ScoreFloorDefault, res.OverallScore)
	assert.Equal(t, 5, res.Concerns.Artificial.Count)
	assert.Equal(t, 1, res.Concerns.Preservatives.Count)
	assert.Equal(t, []string{"Aspartame", "High Fructose Corn Syrup"}, res.Concerns.Sugar.Names)
	assert.Equal(t, 8, res.Concerns.Total())

	require.Len(t, res.ProfileAlerts, 3)
	assert.Equal(t, "red-40", res.ProfileAlerts[0].Ingredient)
	assert.Equal(t, ProfileHeart, res.ProfileAlerts[1].Profile)
	assert.Equal(t, "high-fructose-corn-syrup", res.ProfileAlerts[1].Ingredient)
}

func TestScore_AlertOncePerProfile(t *testing.T) {
	e := testEngine(t)
	res := e.Score("", "", []string{"Red 40", "Yellow 5"})
	require.Len(t, res.ProfileAlerts, 1)
	assert.Equal(t, ProfileKids, res.ProfileAlerts[0].Profile)
	assert.Equal(t, "red-40", res.ProfileAlerts[0].Ingredient)
}

func TestScore_NoPKUAlert(t *testing.T) {
	e := testEngine(t)
	res := e.Score("", "", []string{"Aspartame"})
	for _, a := range res.ProfileAlerts {
		assert.NotEqual(t, "PKU", a.Profile)
	}
	require.Len(t, res.ProfileAlerts, 1)
	assert.Equal(t, ProfileKids, res.ProfileAlerts[0].Profile)
}

func TestScore_MatchedHiddenSugarByInput(t *testing.T) {
	e := testEngine(t)
	res := e.Score("", "", []string{"Maltodextrin"})
	require.Len(t, res.Ingredients, 1)
	assert.True(t, res.Ingredients[0].FoundInDatabase)
	assert.Equal(t, []string{"Maltodextrin"}, res.Concerns.Sugar.Names)
}

func TestScore_ColorCountsAsArtificial(t *testing.T) {
	e := testEngine(t)
	res := e.Score("", "", []string{"Caramel Color"})
	assert.Equal(t, []string{"Caramel Color"}, res.Concerns.Artificial.Names)
}

func TestScore_UnknownIngredients(t *testing.T) {
	e := testEngine(t)
	res := e.Score("", "", []string{"Modified Tapioca Starch", "Organic Brown Rice Syrup", "Hydrolyzed Soy Protein"})
	require.Len(t, res.Ingredients, 3)

	p := res.Ingredients[0]
	assert.False(t, p.FoundInDatabase)
	assert.Equal(t, "unknown-modified-tapioca-starch", p.ID)
	assert.Equal(t, "Modified Tapioca Starch", p.Name)
	assert.Equal(t, 40, p.Score)
	assert.Equal(t, classify.CategoryProcessedAdditive, p.Category)

	sugar := res.Ingredients[1]
	assert.Equal(t, classify.CategoryHiddenSugar, sugar.Category)
	assert.Equal(t, "This is a form of added sugar", sugar.Note)

	msg := res.Ingredients[2]
	assert.Equal(t, 50, msg.Score)
	assert.Equal(t, "May contain MSG (high certainty)", msg.Note)

	assert.Equal(t, []string{"Organic Brown Rice Syrup"}, res.Concerns.Sugar.Names)
	assert.Equal(t, 0, res.Concerns.Artificial.Count)
	assert.Equal(t, 0, res.Concerns.Preservatives.Count)
	assert.Empty(t, res.ProfileAlerts)
	assert.Equal(t, 40, res.OverallScore)
}

func TestScore_RoundsHalfUp(t *testing.T) {
	db, err := ingredient.New("t", []ingredient.Entry{
		{Table: ingredient.TableSafe, Record: &ingredient.Record{ID: "a", Name: "Alpha", Score: 50, Concern: ingredient.ConcernModerate, Category: "X"}},
		{Table: ingredient.TableSafe, Record: &ingredient.Record{ID: "b", Name: "Beta", Score: 51, Concern: ingredient.ConcernModerate, Category: "X"}},
	})
	require.NoError(t, err)
	e, err := NewEngine(db, &ingredient.AliasLists{})
	require.NoError(t, err)

	assert.Equal(t, 51, e.Score("", "", []string{"Alpha", "Beta"}).OverallScore)
}

func TestScore_CustomPolicy(t *testing.T) {
	p := DefaultPolicy()
	p.HighConcernPenalty = 0
	p.EmptyScore = 77
	e := testEngine(t, WithPolicy(p))

	assert.Equal(t, 77, e.Score("", "", nil).OverallScore)
	assert.Equal(t, 25, e.Score("", "", []string{"Sodium Nitrite"}).OverallScore)
}

func TestScore_Deterministic(t *testing.T) {
	e := testEngine(t)
	in := []string{"Sugar", "Enriched Flour", "Red 40 Lake", "Natural Flavors", "Salt"}
	assert.Equal(t, e.Score("p", "b", in), e.Score("p", "b", in))
}

func TestScoreExtraction(t *testing.T) {
	e := testEngine(t)
	res := e.ScoreExtraction(&Extraction{ProductName: "Water", Ingredients: []string{"Water"}})
	assert.Equal(t, "Water", res.ProductName)
	assert.Equal(t, 100, res.OverallScore)

	res = e.ScoreExtraction(nil)
	assert.Equal(t, EmptyScoreDefault, res.OverallScore)
}

func TestUnknownID(t *testing.T) {
	assert.Equal(t, "unknown-organic-quinoa-flakes", UnknownID("  Organic Quinoa Flakes "))
	assert.Equal(t, "unknown-jalapeno", UnknownID("Jalapeño"))

	id := UnknownID("сахар")
	assert.Len(t, id, len("unknown-")+8)
	assert.Equal(t, id, UnknownID("  сахар "))
	assert.NotEqual(t, id, UnknownID("вода"))
	assert.NotEqual(t, "unknown-", UnknownID("!!"))
}
