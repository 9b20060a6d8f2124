package score

import (
	"errors"
	"fmt"
)

const (
	HighConcernPenaltyDefault   = 8
	BulkConcernThresholdDefault = 5
	BulkConcernPenaltyDefault   = 10
	ScoreFloorDefault           = 5
	EmptyScoreDefault           = 50
)

// Policy holds the weighting knobs of the overall score.
type Policy struct {
	HighConcernPenalty   int `json:"high_concern_penalty" yaml:"high_concern_penalty"`
	BulkConcernThreshold int `json:"bulk_concern_threshold" yaml:"bulk_concern_threshold"`
	BulkConcernPenalty   int `json:"bulk_concern_penalty" yaml:"bulk_concern_penalty"`
	ScoreFloor           int `json:"score_floor" yaml:"score_floor"`
	EmptyScore           int `json:"empty_score" yaml:"empty_score"`
}

// DefaultPolicy returns the stock weighting.
func DefaultPolicy() Policy {
	return Policy{
		HighConcernPenalty:   HighConcernPenaltyDefault,
		BulkConcernThreshold: BulkConcernThresholdDefault,
		BulkConcernPenalty:   BulkConcernPenaltyDefault,
		ScoreFloor:           ScoreFloorDefault,
		EmptyScore:           EmptyScoreDefault,
	}
}

// Validate checks that all knobs are within range.
func (p Policy) Validate() error {
	if p.HighConcernPenalty < 0 || p.BulkConcernPenalty < 0 || p.BulkConcernThreshold < 0 {
		return errors.New("scoring penalties and thresholds must not be negative")
	}
	if p.ScoreFloor < 0 || p.ScoreFloor > 100 {
		return fmt.Errorf("score floor %d outside 0-100", p.ScoreFloor)
	}
	if p.EmptyScore < 0 || p.EmptyScore > 100 {
		return fmt.Errorf("empty score %d outside 0-100", p.EmptyScore)
	}
	return nil
}

func (p Policy) clamp(v int) int {
	return max(p.ScoreFloor, v)
}
