package ingredient

import (
	"fmt"
	"strings"
)

// Concern is the ordinal risk level attached to an ingredient.
type Concern string

const (
	ConcernNone     Concern = "none"
	ConcernLow      Concern = "low"
	ConcernModerate Concern = "moderate"
	ConcernHigh     Concern = "high"
)

// Rank returns an integer rank for comparison (None=0, High=3).
func (c Concern) Rank() int {
	switch c {
	case ConcernLow:
		return 1
	case ConcernModerate:
		return 2
	case ConcernHigh:
		return 3
	default:
		return 0
	}
}

func (c Concern) String() string {
	return string(c)
}

// Valid reports whether c is one of the known concern levels.
func (c Concern) Valid() bool {
	switch c {
	case ConcernNone, ConcernLow, ConcernModerate, ConcernHigh:
		return true
	default:
		return false
	}
}

// ParseConcern parses a concern level case-insensitively.
// Accepts "medium" as "moderate".
func ParseConcern(s string) (Concern, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return ConcernNone, nil
	case "low":
		return ConcernLow, nil
	case "moderate", "medium":
		return ConcernModerate, nil
	case "high":
		return ConcernHigh, nil
	default:
		return "", fmt.Errorf("invalid concern: %s", s)
	}
}

// ConcernForScore returns the concern level a record with the given score is
// expected to carry when authored. The engine never calls it while scoring.
func ConcernForScore(score int) Concern {
	switch {
	case score <= 29:
		return ConcernHigh
	case score <= 69:
		return ConcernModerate
	case score <= 94:
		return ConcernLow
	default:
		return ConcernNone
	}
}

// Alerts holds the household profile flags of a record.
type Alerts struct {
	Kid      bool `json:"kid,omitempty" yaml:"kid,omitempty"`
	Heart    bool `json:"heart,omitempty" yaml:"heart,omitempty"`
	Diabetic bool `json:"diabetic,omitempty" yaml:"diabetic,omitempty"`
	PKU      bool `json:"pku,omitempty" yaml:"pku,omitempty"`
}

// Record is a single Reference Database entry. Records are never mutated once
// the Database holding them has been built.
type Record struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Score       int      `json:"score" yaml:"score"`
	Concern     Concern  `json:"concern" yaml:"concern"`
	Category    string   `json:"category" yaml:"category"`
	HiddenNames []string `json:"hiddenNames,omitempty" yaml:"hidden_names,omitempty"`
	Alerts      Alerts   `json:"alerts" yaml:"alerts,omitempty"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Source      string   `json:"source,omitempty" yaml:"source,omitempty"`
}

// CategoryContains reports whether the record category contains s, ignoring case.
func (r *Record) CategoryContains(s string) bool {
	return strings.Contains(strings.ToLower(r.Category), strings.ToLower(s))
}

func (r *Record) validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: %s: name is required", ErrInvalidRecord, r.ID)
	}
	if r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("%w: %s: score %d outside 0-100", ErrInvalidRecord, r.ID, r.Score)
	}
	if !r.Concern.Valid() {
		return fmt.Errorf("%w: %s: invalid concern %q", ErrInvalidRecord, r.ID, r.Concern)
	}
	if strings.TrimSpace(r.Category) == "" {
		return fmt.Errorf("%w: %s: category is required", ErrInvalidRecord, r.ID)
	}
	for i, h := range r.HiddenNames {
		if strings.TrimSpace(h) == "" {
			return fmt.Errorf("%w: %s: hidden name %d is empty", ErrInvalidRecord, r.ID, i)
		}
	}
	return nil
}
