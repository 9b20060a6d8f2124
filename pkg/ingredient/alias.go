package ingredient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// AliasLists are the static lexical lists used by the unknown-ingredient
// classifier. Entries are stored lowercased.
type AliasLists struct {
	HiddenSugars []string `json:"hiddenSugars" yaml:"hidden_sugars"`
	MSG          MSGLists `json:"msg" yaml:"msg"`
}

// MSGLists splits MSG aliases by certainty. Synergistic is informational only.
type MSGLists struct {
	Always      []string `json:"always" yaml:"always"`
	Often       []string `json:"often" yaml:"often"`
	Synergistic []string `json:"synergistic,omitempty" yaml:"synergistic,omitempty"`
}

// IsHiddenSugar reports whether name contains any hidden-sugar alias.
func (a *AliasLists) IsHiddenSugar(name string) bool {
	return containsAny(name, a.HiddenSugars)
}

// AlwaysMSG reports whether name contains an alias that always contains MSG.
func (a *AliasLists) AlwaysMSG(name string) bool {
	return containsAny(name, a.MSG.Always)
}

// OftenMSG reports whether name contains an alias that often contains MSG.
func (a *AliasLists) OftenMSG(name string) bool {
	return containsAny(name, a.MSG.Often)
}

func containsAny(name string, list []string) bool {
	n := strings.ToLower(name)
	for _, v := range list {
		if strings.Contains(n, v) {
			return true
		}
	}
	return false
}

// LoadAliases decodes a YAML alias document. Empty entries are rejected.
func LoadAliases(r io.Reader) (*AliasLists, error) {
	var a AliasLists
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("error decoding alias lists: %w", err)
	}

	lists := map[string][]string{
		"hidden_sugars":   a.HiddenSugars,
		"msg.always":      a.MSG.Always,
		"msg.often":       a.MSG.Often,
		"msg.synergistic": a.MSG.Synergistic,
	}
	for name, list := range lists {
		if err := lowerAll(name, list); err != nil {
			return nil, err
		}
	}

	if len(a.HiddenSugars) == 0 {
		return nil, errors.New("hidden sugar list is empty")
	}
	return &a, nil
}

func lowerAll(name string, list []string) error {
	for i, v := range list {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			return fmt.Errorf("%w: %s[%d] is empty", ErrInvalidRecord, name, i)
		}
		list[i] = v
	}
	return nil
}

// DefaultAliases returns the embedded alias lists.
func DefaultAliases() (*AliasLists, error) {
	b, err := f.ReadFile("data/aliases.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded alias lists: %w", err)
	}
	return LoadAliases(bytes.NewReader(b))
}
