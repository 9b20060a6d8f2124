package score

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/willckim/Purelytics/pkg/classify"
	"github.com/willckim/Purelytics/pkg/ingredient"
	"github.com/willckim/Purelytics/pkg/match"
)

const (
	workersDefault  = 4
	unknownIDPrefix = "unknown-"
	unknownHashLen  = 8
)

var alertMessages = map[string]string{
	ProfileKids:     "Contains %s, which is not recommended for children",
	ProfileHeart:    "Contains %s, which may affect heart health",
	ProfileDiabetic: "Contains %s, which may raise blood sugar levels",
}

// Engine turns raw ingredient lists into product results. The reference data
// it holds is read-only, so one Engine can score many products concurrently.
type Engine struct {
	db         *ingredient.Database
	aliases    *ingredient.AliasLists
	matcher    *match.Matcher
	classifier *classify.Classifier
	policy     Policy
	workers    int
}

// Option customizes an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	policy  Policy
	mode    match.Mode
	workers int
}

// WithPolicy replaces the default scoring policy.
func WithPolicy(p Policy) Option {
	return func(o *engineOptions) {
		o.policy = p
	}
}

// WithMatchMode selects the matcher mode.
func WithMatchMode(m match.Mode) Option {
	return func(o *engineOptions) {
		o.mode = m
	}
}

// WithWorkers sets the batch scoring concurrency.
func WithWorkers(n int) Option {
	return func(o *engineOptions) {
		o.workers = n
	}
}

// NewEngine wires the matcher and classifier over the given reference data.
func NewEngine(db *ingredient.Database, aliases *ingredient.AliasLists, opts ...Option) (*Engine, error) {
	if db == nil {
		return nil, errors.New("reference database required")
	}
	if aliases == nil {
		return nil, errors.New("alias lists required")
	}

	o := &engineOptions{
		policy:  DefaultPolicy(),
		mode:    match.ModeSubstring,
		workers: workersDefault,
	}
	for _, opt := range opts {
		opt(o)
	}

	if err := o.policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring policy: %w", err)
	}
	if o.workers < 1 {
		o.workers = 1
	}

	return &Engine{
		db:         db,
		aliases:    aliases,
		matcher:    match.New(db, o.mode),
		classifier: classify.New(aliases),
		policy:     o.policy,
		workers:    o.workers,
	}, nil
}

// Database returns the reference database the engine scores against.
func (e *Engine) Database() *ingredient.Database {
	return e.db
}

// Matcher returns the engine's matcher.
func (e *Engine) Matcher() *match.Matcher {
	return e.matcher
}

// Classifier returns the engine's unknown-ingredient classifier.
func (e *Engine) Classifier() *classify.Classifier {
	return e.classifier
}

// Policy returns the scoring policy in use.
func (e *Engine) Policy() Policy {
	return e.policy
}

// ScoreExtraction scores an extraction document.
func (e *Engine) ScoreExtraction(x *Extraction) *ProductResult {
	if x == nil {
		return e.Score("", "", nil)
	}
	return e.Score(x.ProductName, x.Brand, x.Ingredients)
}

// Score matches each ingredient in input order, tallies concern buckets and
// profile alerts, and derives the overall score. It never fails: unmatched
// names go through the classifier and an empty list gets the empty score.
func (e *Engine) Score(productName, brand string, ingredients []string) *ProductResult {
	res := newProductResult(productName, brand, e.db.Version())
	alerted := make(map[string]bool)

	sum, high := 0, 0
	for _, raw := range ingredients {
		if strings.TrimSpace(raw) == "" {
			slog.Debug("skipping blank ingredient", "input", raw)
			continue
		}

		var p *ParsedIngredient
		if rec := e.matcher.Match(raw); rec != nil {
			p = e.parseMatched(res, alerted, raw, rec)
		} else {
			p = e.parseUnknown(res, raw)
		}

		if p.Concern == ingredient.ConcernHigh {
			high++
		}
		sum += p.Score
		res.Ingredients = append(res.Ingredients, p)
	}

	res.OverallScore = e.overall(sum, len(res.Ingredients), high, res.Concerns.Total())

	slog.Debug("product scored",
		"product", productName,
		"ingredients", len(res.Ingredients),
		"high", high,
		"concerns", res.Concerns.Total(),
		"score", res.OverallScore)

	return res
}

func (e *Engine) parseMatched(res *ProductResult, alerted map[string]bool, raw string, rec *ingredient.Record) *ParsedIngredient {
	p := &ParsedIngredient{
		ID:              rec.ID,
		Name:            rec.Name,
		Input:           raw,
		Score:           rec.Score,
		Concern:         rec.Concern,
		Category:        rec.Category,
		FoundInDatabase: true,
	}

	if rec.CategoryContains("sweetener") || e.aliases.IsHiddenSugar(raw) {
		res.Concerns.Sugar.add(rec.Name)
	}
	if rec.CategoryContains("preservative") {
		res.Concerns.Preservatives.add(rec.Name)
	}
	if rec.CategoryContains("artificial") || rec.CategoryContains("color") {
		res.Concerns.Artificial.add(rec.Name)
	}

	flags := []struct {
		on      bool
		profile string
	}{
		{rec.Alerts.Kid, ProfileKids},
		{rec.Alerts.Heart, ProfileHeart},
		{rec.Alerts.Diabetic, ProfileDiabetic},
	}
	for _, f := range flags {
		if !f.on || alerted[f.profile] {
			continue
		}
		alerted[f.profile] = true
		res.ProfileAlerts = append(res.ProfileAlerts, &ProfileAlert{
			Profile:    f.profile,
			Message:    fmt.Sprintf(alertMessages[f.profile], rec.Name),
			Ingredient: rec.ID,
		})
	}

	return p
}

func (e *Engine) parseUnknown(res *ProductResult, raw string) *ParsedIngredient {
	c := e.classifier.Classify(raw)
	name := strings.TrimSpace(raw)

	if c.Category == classify.CategoryHiddenSugar {
		res.Concerns.Sugar.add(name)
	}

	return &ParsedIngredient{
		ID:       UnknownID(raw),
		Name:     name,
		Input:    raw,
		Score:    c.Score,
		Concern:  c.Concern,
		Category: c.Category,
		Note:     c.Note,
	}
}

func (e *Engine) overall(sum, count, high, concerns int) int {
	base := e.policy.EmptyScore
	if count > 0 {
		base = int(math.Floor(float64(sum)/float64(count) + 0.5))
	}
	s := e.policy.clamp(base)
	s = e.policy.clamp(s - high*e.policy.HighConcernPenalty)
	if concerns > e.policy.BulkConcernThreshold {
		s = e.policy.clamp(s - e.policy.BulkConcernPenalty)
	}
	return s
}

// UnknownID derives a stable id for an ingredient absent from the database.
// Names with no Latin letters or digits (other scripts, punctuation) get a
// short name-based hash instead of a slug.
func UnknownID(raw string) string {
	slug := strings.ReplaceAll(match.NormalizeFolded(raw), " ", "-")
	if slug == "" {
		key := strings.ToLower(strings.TrimSpace(raw))
		slug = uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()[:unknownHashLen]
	}
	return unknownIDPrefix + slug
}
