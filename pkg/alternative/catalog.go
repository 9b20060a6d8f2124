package alternative

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	//go:embed data/*
	f embed.FS

	// ErrInvalidCandidate is returned when catalog data fails validation.
	ErrInvalidCandidate = errors.New("invalid alternative candidate")
)

// Candidate is a static catalog entry offered as a healthier alternative.
type Candidate struct {
	Name       string   `json:"name" yaml:"name"`
	Brand      string   `json:"brand" yaml:"brand"`
	Score      int      `json:"score" yaml:"score"`
	Price      string   `json:"price" yaml:"price"`
	Stores     []string `json:"stores" yaml:"stores"`
	Highlights []string `json:"highlights" yaml:"highlights"`
}

// Catalog holds the candidate lists keyed by category. It is read-only once loaded.
type Catalog struct {
	lists map[Category][]Candidate
}

// LoadCatalog decodes and validates a YAML catalog. The Other bucket is
// mandatory since every unrecognized category falls back to it.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var doc map[string][]Candidate
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding alternatives catalog: %w", err)
	}

	c := &Catalog{lists: make(map[Category][]Candidate, len(doc))}
	for key, list := range doc {
		cat, ok := ParseCategory(key)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidCandidate, key)
		}
		if _, dup := c.lists[cat]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidCandidate, key)
		}
		seen := make(map[string]bool, len(list))
		for i := range list {
			if err := list[i].validate(); err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", cat, i, err)
			}
			k := strings.ToLower(list[i].Brand + "|" + list[i].Name)
			if seen[k] {
				return nil, fmt.Errorf("%w: %s[%d]: duplicate candidate %s", ErrInvalidCandidate, cat, i, list[i].Name)
			}
			seen[k] = true
		}
		c.lists[cat] = list
	}

	if _, ok := c.lists[CategoryOther]; !ok {
		return nil, fmt.Errorf("%w: catalog has no %s bucket", ErrInvalidCandidate, CategoryOther)
	}
	return c, nil
}

// LoadCatalogFile reads the catalog at path.
func LoadCatalogFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog file %s: %w", path, err)
	}
	return LoadCatalog(bytes.NewReader(b))
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	b, err := f.ReadFile("data/catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalog: %w", err)
	}
	return LoadCatalog(bytes.NewReader(b))
}

// List returns the dedicated candidate list of a category.
func (c *Catalog) List(cat Category) ([]Candidate, bool) {
	l, ok := c.lists[cat]
	return l, ok
}

// Categories returns the categories that own a dedicated list, in vocabulary order.
func (c *Catalog) Categories() []Category {
	list := make([]Category, 0, len(c.lists))
	for _, cat := range Categories {
		if _, ok := c.lists[cat]; ok {
			list = append(list, cat)
		}
	}
	return list
}

func (c *Candidate) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCandidate)
	}
	if strings.TrimSpace(c.Brand) == "" {
		return fmt.Errorf("%w: %s: brand is required", ErrInvalidCandidate, c.Name)
	}
	if c.Score < 0 || c.Score > 100 {
		return fmt.Errorf("%w: %s: score %d outside 0-100", ErrInvalidCandidate, c.Name, c.Score)
	}
	if _, ok := ParsePrice(c.Price); !ok {
		return fmt.Errorf("%w: %s: invalid price %q", ErrInvalidCandidate, c.Name, c.Price)
	}
	return nil
}

// ParsePrice parses a display price such as "$4.99" by dropping everything
// but digits and the decimal point.
func ParsePrice(s string) (float64, bool) {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if clean == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
