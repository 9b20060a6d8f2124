package classify

import (
	"strings"

	"github.com/willckim/Purelytics/pkg/ingredient"
)

const (
	CategoryHiddenSugar       = "Hidden Sugar"
	CategoryFlavorEnhancer    = "Flavor Enhancer"
	CategoryProcessedAdditive = "Processed Additive"
	CategoryAdditive          = "Additive"
	CategoryNatural           = "Natural Ingredient"
	CategoryDefault           = "Ingredient"

	noteHiddenSugar = "This is a form of added sugar"
	noteMSGHigh     = "May contain MSG (high certainty)"
	noteMSGModerate = "May contain MSG (moderate certainty)"
)

var (
	redFlags    = []string{"artificial", "synthetic", "hydrogenated", "modified"}
	yellowFlags = []string{"flavor", "color", "dye", "preservative"}
	greenFlags  = []string{"organic", "natural", "vitamin", "mineral", "water", "salt", "spice"}
)

// Rule names the heuristic that produced a classification.
type Rule string

const (
	RuleHiddenSugar Rule = "hidden-sugar"
	RuleMSGAlways   Rule = "msg-always"
	RuleMSGOften    Rule = "msg-often"
	RuleRedFlag     Rule = "red-flag"
	RuleYellowFlag  Rule = "yellow-flag"
	RuleGreenFlag   Rule = "green-flag"
	RuleDefault     Rule = "default"
)

// Classification is the provisional profile of an ingredient that is not in
// the Reference Database.
type Classification struct {
	Score    int                `json:"score" yaml:"score"`
	Concern  ingredient.Concern `json:"concern" yaml:"concern"`
	Category string             `json:"category" yaml:"category"`
	Note     string             `json:"note,omitempty" yaml:"note,omitempty"`
	Rule     Rule               `json:"rule" yaml:"rule"`
}

// Classifier assigns scores to unknown ingredients from lexical signals.
// Unknown ingredients are assumed moderately safe unless a negative signal fires.
type Classifier struct {
	aliases *ingredient.AliasLists
}

// New creates a Classifier over the given alias lists.
func New(aliases *ingredient.AliasLists) *Classifier {
	if aliases == nil {
		aliases = &ingredient.AliasLists{}
	}
	return &Classifier{aliases: aliases}
}

// Classify applies the rules in order; the first one that fires wins.
func (c *Classifier) Classify(raw string) Classification {
	name := strings.ToLower(raw)

	switch {
	case c.aliases.IsHiddenSugar(name):
		return Classification{Score: 30, Concern: ingredient.ConcernModerate, Category: CategoryHiddenSugar, Note: noteHiddenSugar, Rule: RuleHiddenSugar}
	case c.aliases.AlwaysMSG(name):
		return Classification{Score: 50, Concern: ingredient.ConcernModerate, Category: CategoryFlavorEnhancer, Note: noteMSGHigh, Rule: RuleMSGAlways}
	case c.aliases.OftenMSG(name):
		return Classification{Score: 60, Concern: ingredient.ConcernModerate, Category: CategoryFlavorEnhancer, Note: noteMSGModerate, Rule: RuleMSGOften}
	case hasAny(name, redFlags):
		return Classification{Score: 40, Concern: ingredient.ConcernModerate, Category: CategoryProcessedAdditive, Rule: RuleRedFlag}
	case hasAny(name, yellowFlags):
		return Classification{Score: 50, Concern: ingredient.ConcernModerate, Category: CategoryAdditive, Rule: RuleYellowFlag}
	case hasAny(name, greenFlags):
		return Classification{Score: 80, Concern: ingredient.ConcernLow, Category: CategoryNatural, Rule: RuleGreenFlag}
	default:
		return Classification{Score: 70, Concern: ingredient.ConcernLow, Category: CategoryDefault, Rule: RuleDefault}
	}
}

func hasAny(name string, words []string) bool {
	for _, w := range words {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}
