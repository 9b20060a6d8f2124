package alternative

import (
	"github.com/willckim/Purelytics/pkg/match"
)

// Category is a product category from the fixed vocabulary.
type Category string

const (
	CategoryBeverage   Category = "Beverage"
	CategoryDairy      Category = "Dairy"
	CategorySnack      Category = "Snack"
	CategoryMeat       Category = "Meat"
	CategoryGrain      Category = "Grain"
	CategoryCondiment  Category = "Condiment"
	CategorySupplement Category = "Supplement"
	CategoryBabyFood   Category = "Baby Food"
	CategoryFrozen     Category = "Frozen"
	CategoryBakery     Category = "Bakery"
	CategoryCandy      Category = "Candy"
	CategoryOther      Category = "Other"
)

// Categories is the product category vocabulary.
var Categories = []Category{
	CategoryBeverage,
	CategoryDairy,
	CategorySnack,
	CategoryMeat,
	CategoryGrain,
	CategoryCondiment,
	CategorySupplement,
	CategoryBabyFood,
	CategoryFrozen,
	CategoryBakery,
	CategoryCandy,
	CategoryOther,
}

var categoryIndex = func() map[string]Category {
	m := make(map[string]Category, len(Categories))
	for _, c := range Categories {
		m[match.Normalize(string(c))] = c
	}
	return m
}()

// ParseCategory resolves s to a vocabulary category, ignoring case and
// punctuation. Unrecognized values resolve to CategoryOther with ok=false.
func ParseCategory(s string) (c Category, ok bool) {
	if c, ok := categoryIndex[match.Normalize(s)]; ok {
		return c, true
	}
	return CategoryOther, false
}
