package score

import (
	"github.com/willckim/Purelytics/pkg/ingredient"
)

const (
	ProfileKids     = "Kids"
	ProfileHeart    = "Heart Health"
	ProfileDiabetic = "Diabetic"
)

// ParsedIngredient is the per-ingredient outcome of one scoring pass.
type ParsedIngredient struct {
	ID              string             `json:"id" yaml:"id"`
	Name            string             `json:"name" yaml:"name"`
	Input           string             `json:"input" yaml:"input"`
	Score           int                `json:"score" yaml:"score"`
	Concern         ingredient.Concern `json:"concern" yaml:"concern"`
	Category        string             `json:"category" yaml:"category"`
	FoundInDatabase bool               `json:"foundInDatabase" yaml:"foundInDatabase"`
	Note            string             `json:"note,omitempty" yaml:"note,omitempty"`
}

// Tally counts the ingredients that fell into one concern bucket.
type Tally struct {
	Count int      `json:"count" yaml:"count"`
	Names []string `json:"names" yaml:"names"`
}

func (t *Tally) add(name string) {
	t.Count++
	t.Names = append(t.Names, name)
}

// Concerns holds the concern-category tallies of a product.
type Concerns struct {
	Sugar         Tally `json:"sugar" yaml:"sugar"`
	Preservatives Tally `json:"preservatives" yaml:"preservatives"`
	Artificial    Tally `json:"artificial" yaml:"artificial"`
}

// Total returns the sum of all bucket counts.
func (c *Concerns) Total() int {
	return c.Sugar.Count + c.Preservatives.Count + c.Artificial.Count
}

// ProfileAlert is a household-member warning raised by an ingredient flag.
type ProfileAlert struct {
	Profile    string `json:"profile" yaml:"profile"`
	Message    string `json:"message" yaml:"message"`
	Ingredient string `json:"ingredient" yaml:"ingredient"`
}

// ProductResult is the structured result of scoring one product.
type ProductResult struct {
	ProductName      string              `json:"productName,omitempty" yaml:"productName,omitempty"`
	Brand            string              `json:"brand,omitempty" yaml:"brand,omitempty"`
	OverallScore     int                 `json:"overallScore" yaml:"overallScore"`
	Ingredients      []*ParsedIngredient `json:"ingredients" yaml:"ingredients"`
	Concerns         Concerns            `json:"concerns" yaml:"concerns"`
	ProfileAlerts    []*ProfileAlert     `json:"profileAlerts" yaml:"profileAlerts"`
	ReferenceVersion string              `json:"referenceVersion,omitempty" yaml:"referenceVersion,omitempty"`
}

func newProductResult(name, brand, version string) *ProductResult {
	return &ProductResult{
		ProductName: name,
		Brand:       brand,
		Ingredients: make([]*ParsedIngredient, 0),
		Concerns: Concerns{
			Sugar:         Tally{Names: make([]string, 0)},
			Preservatives: Tally{Names: make([]string, 0)},
			Artificial:    Tally{Names: make([]string, 0)},
		},
		ProfileAlerts:    make([]*ProfileAlert, 0),
		ReferenceVersion: version,
	}
}
