package match

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/willckim/Purelytics/pkg/ingredient"
)

// Mode selects the matching algorithm.
type Mode string

const (
	// ModeSubstring is the default multi-pass substring containment chain.
	ModeSubstring Mode = "substring"
	// ModeToken only accepts whole-token matches.
	ModeToken Mode = "token"
)

// ParseMode parses a match mode; empty defaults to ModeSubstring.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeSubstring):
		return ModeSubstring, nil
	case string(ModeToken):
		return ModeToken, nil
	default:
		return "", fmt.Errorf("invalid match mode: %s (permitted options: substring, token)", s)
	}
}

// Step identifies which pass produced a match.
type Step string

const (
	StepNone      Step = "none"
	StepContains  Step = "name-contains"
	StepExact     Step = "exact"
	StepSubstring Step = "substring"
	StepAlias     Step = "alias"
	StepToken     Step = "token"
)

// Result is the outcome of resolving one raw name.
type Result struct {
	Input      string             `json:"input" yaml:"input"`
	Normalized string             `json:"normalized" yaml:"normalized"`
	Step       Step               `json:"step" yaml:"step"`
	Alias      string             `json:"alias,omitempty" yaml:"alias,omitempty"`
	Record     *ingredient.Record `json:"record,omitempty" yaml:"record,omitempty"`
}

// Found reports whether a record was matched.
func (r *Result) Found() bool {
	return r.Record != nil
}

type entry struct {
	rec         *ingredient.Record
	name        string
	nameTokens  []string
	aliases     []string
	aliasNames  []string
	aliasTokens [][]string
}

// Matcher resolves raw ingredient names against a Reference Database.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	mode      Mode
	normalize func(string) string
	entries   []entry
}

// New creates a Matcher over db. Normalized names are computed once here.
func New(db *ingredient.Database, mode Mode) *Matcher {
	if mode == "" {
		mode = ModeSubstring
	}
	recs := db.Records()
	m := &Matcher{
		mode:      mode,
		normalize: Normalize,
		entries:   make([]entry, 0, len(recs)),
	}
	if mode == ModeToken {
		m.normalize = NormalizeFolded
	}
	for _, r := range recs {
		name := m.normalize(r.Name)
		e := entry{
			rec:        r,
			name:       name,
			nameTokens: strings.Fields(name),
		}
		for _, h := range r.HiddenNames {
			n := m.normalize(h)
			if n == "" {
				continue
			}
			e.aliases = append(e.aliases, n)
			e.aliasNames = append(e.aliasNames, h)
			e.aliasTokens = append(e.aliasTokens, strings.Fields(n))
		}
		m.entries = append(m.entries, e)
	}
	return m
}

// Mode returns the matching mode in use.
func (m *Matcher) Mode() Mode {
	return m.mode
}

// Match returns the record raw resolves to, or nil when nothing matches.
func (m *Matcher) Match(raw string) *ingredient.Record {
	return m.Resolve(raw).Record
}

// Resolve runs the matching passes in order; the first hit wins and ties go
// to the record that comes first in database order.
func (m *Matcher) Resolve(raw string) *Result {
	res := &Result{
		Input:      raw,
		Normalized: m.normalize(raw),
		Step:       StepNone,
	}
	if res.Normalized == "" {
		return res
	}

	if m.mode == ModeToken {
		m.resolveTokens(res)
	} else {
		m.resolveSubstring(res)
	}

	if res.Record != nil {
		slog.Debug("ingredient matched", "input", raw, "id", res.Record.ID, "step", res.Step)
	} else {
		slog.Debug("ingredient not matched", "input", raw)
	}
	return res
}

func (m *Matcher) resolveSubstring(res *Result) {
	n := res.Normalized

	for i := range m.entries {
		if strings.Contains(m.entries[i].name, n) {
			res.Record, res.Step = m.entries[i].rec, StepContains
			return
		}
	}

	for i := range m.entries {
		if m.entries[i].name == n {
			res.Record, res.Step = m.entries[i].rec, StepExact
			return
		}
	}

	for i := range m.entries {
		name := m.entries[i].name
		if name == "" {
			continue
		}
		if strings.Contains(n, name) || strings.Contains(name, n) {
			res.Record, res.Step = m.entries[i].rec, StepSubstring
			return
		}
	}

	for i := range m.entries {
		e := &m.entries[i]
		for j, a := range e.aliases {
			if strings.Contains(n, a) || strings.Contains(a, n) {
				res.Record, res.Step, res.Alias = e.rec, StepAlias, e.aliasNames[j]
				return
			}
		}
	}
}

func (m *Matcher) resolveTokens(res *Result) {
	n := res.Normalized
	tokens := make(map[string]bool)
	for _, t := range strings.Fields(n) {
		tokens[t] = true
	}

	for i := range m.entries {
		if m.entries[i].name == n {
			res.Record, res.Step = m.entries[i].rec, StepExact
			return
		}
	}

	for i := range m.entries {
		e := &m.entries[i]
		for j, a := range e.aliases {
			if a == n {
				res.Record, res.Step, res.Alias = e.rec, StepAlias, e.aliasNames[j]
				return
			}
		}
	}

	for i := range m.entries {
		if containsTokens(tokens, m.entries[i].nameTokens) {
			res.Record, res.Step = m.entries[i].rec, StepToken
			return
		}
	}

	for i := range m.entries {
		e := &m.entries[i]
		for j, at := range e.aliasTokens {
			if containsTokens(tokens, at) {
				res.Record, res.Step, res.Alias = e.rec, StepAlias, e.aliasNames[j]
				return
			}
		}
	}
}

func containsTokens(set map[string]bool, want []string) bool {
	if len(want) == 0 {
		return false
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}
