package score

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidExtraction is returned for structurally malformed extraction input.
var ErrInvalidExtraction = errors.New("invalid extraction")

// Extraction is the upstream vision/extraction output: an ordered list of
// already-segmented ingredient names plus optional product metadata.
type Extraction struct {
	ProductName string   `json:"productName,omitempty" yaml:"productName,omitempty"`
	Brand       string   `json:"brand,omitempty" yaml:"brand,omitempty"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	RawText     string   `json:"rawText,omitempty" yaml:"rawText,omitempty"`
	Ingredients []string `json:"ingredients" yaml:"ingredients"`
}

type extractionDoc struct {
	ProductName string `json:"productName" yaml:"productName"`
	Brand       string `json:"brand" yaml:"brand"`
	Category    string `json:"category" yaml:"category"`
	RawText     string `json:"rawText" yaml:"rawText"`
	Ingredients *[]any `json:"ingredients" yaml:"ingredients"`
}

// ParseExtraction decodes a JSON or YAML extraction document. Every
// ingredient element must be a string; anything else is rejected rather
// than coerced.
func ParseExtraction(r io.Reader) (*Extraction, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: reader required", ErrInvalidExtraction)
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading extraction: %w", err)
	}

	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidExtraction)
	}

	var doc extractionDoc
	if b[0] == '{' {
		err = json.Unmarshal(b, &doc)
	} else {
		err = yaml.Unmarshal(b, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtraction, err)
	}

	if doc.Ingredients == nil {
		return nil, fmt.Errorf("%w: ingredients list is required", ErrInvalidExtraction)
	}

	x := &Extraction{
		ProductName: doc.ProductName,
		Brand:       doc.Brand,
		Category:    doc.Category,
		RawText:     doc.RawText,
		Ingredients: make([]string, 0, len(*doc.Ingredients)),
	}

	for i, v := range *doc.Ingredients {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: ingredient %d is %T, expected string", ErrInvalidExtraction, i, v)
		}
		x.Ingredients = append(x.Ingredients, s)
	}

	return x, nil
}

// ParseExtractionFile reads an extraction document from path.
func ParseExtractionFile(path string) (*Extraction, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading extraction file %s: %w", path, err)
	}
	x, err := ParseExtraction(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return x, nil
}
