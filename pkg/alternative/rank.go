package alternative

import (
	"log/slog"
	"sort"
)

const (
	PriceLevelHigh     = "high"
	PriceLevelModerate = "moderate"
	PriceLevelBudget   = "budget"
	PriceLevelUnknown  = "unknown"

	highPriceAbove     = 7.0
	moderatePriceAbove = 4.0
	budgetPickMax      = 4.0
)

// Alternative is a candidate decorated for one query. The derived fields are
// recomputed on every query and never stored.
type Alternative struct {
	Candidate   `yaml:",inline"`
	Category    Category `json:"category" yaml:"category"`
	Improvement int      `json:"improvement" yaml:"improvement"`
	PriceLevel  string   `json:"priceLevel" yaml:"priceLevel"`
	BudgetPick  bool     `json:"budgetPick" yaml:"budgetPick"`
}

// Ranking is the ranker output. Recognized tells whether the requested value
// was in the vocabulary and HasCatalog whether it owns a dedicated list, so an
// empty Alternatives list can be told apart from a missing catalog.
type Ranking struct {
	Requested     string         `json:"requested" yaml:"requested"`
	Category      Category       `json:"category" yaml:"category"`
	Recognized    bool           `json:"recognized" yaml:"recognized"`
	HasCatalog    bool           `json:"hasCatalog" yaml:"hasCatalog"`
	OriginalScore int            `json:"originalScore" yaml:"originalScore"`
	Alternatives  []*Alternative `json:"alternatives" yaml:"alternatives"`
}

// Ranker ranks catalog candidates strictly within one category.
type Ranker struct {
	catalog *Catalog
}

// NewRanker creates a Ranker over the catalog.
func NewRanker(c *Catalog) *Ranker {
	return &Ranker{catalog: c}
}

// Catalog returns the ranker's catalog.
func (r *Ranker) Catalog() *Catalog {
	return r.catalog
}

// For returns the ranked alternatives for a category and baseline score.
func (r *Ranker) For(category string, originalScore int) []*Alternative {
	return r.Rank(category, originalScore).Alternatives
}

// Rank keeps only candidates scoring strictly above originalScore and orders
// them by descending improvement, ties in catalog order. It never mixes
// buckets: a category without a dedicated list is served from Other alone.
func (r *Ranker) Rank(category string, originalScore int) *Ranking {
	cat, recognized := ParseCategory(category)
	list, hasCatalog := r.catalog.List(cat)
	bucket := cat
	if !hasCatalog {
		bucket = CategoryOther
		list, _ = r.catalog.List(CategoryOther)
		slog.Debug("category has no dedicated alternatives, using fallback",
			"requested", category, "category", cat, "fallback", bucket)
	}

	res := &Ranking{
		Requested:     category,
		Category:      bucket,
		Recognized:    recognized,
		HasCatalog:    recognized && hasCatalog,
		OriginalScore: originalScore,
		Alternatives:  make([]*Alternative, 0, len(list)),
	}

	for _, c := range list {
		if c.Score <= originalScore {
			continue
		}
		res.Alternatives = append(res.Alternatives, decorate(c, bucket, originalScore))
	}

	sort.SliceStable(res.Alternatives, func(i, j int) bool {
		return res.Alternatives[i].Improvement > res.Alternatives[j].Improvement
	})

	return res
}

func decorate(c Candidate, cat Category, originalScore int) *Alternative {
	a := &Alternative{
		Candidate:   c,
		Category:    cat,
		Improvement: max(0, c.Score-originalScore),
		PriceLevel:  PriceLevelUnknown,
	}
	a.Stores = append([]string(nil), c.Stores...)
	a.Highlights = append([]string(nil), c.Highlights...)

	if p, ok := ParsePrice(c.Price); ok {
		a.PriceLevel = priceLevel(p)
		a.BudgetPick = p <= budgetPickMax
	}
	return a
}

func priceLevel(p float64) string {
	switch {
	case p > highPriceAbove:
		return PriceLevelHigh
	case p > moderatePriceAbove:
		return PriceLevelModerate
	default:
		return PriceLevelBudget
	}
}
