package ingredient

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	TablePreservatives = "preservatives"
	TableSweeteners    = "sweeteners"
	TableColors        = "colors"
	TableEmulsifiers   = "emulsifiers"
	TableAdditives     = "additives"
	TableSafe          = "safe"
)

var (
	//go:embed data/*
	f embed.FS

	// ErrInvalidRecord is returned when reference data fails validation.
	ErrInvalidRecord = errors.New("invalid ingredient record")

	// Tables lists the reference sub-tables in precedence order.
	Tables = []string{
		TablePreservatives,
		TableSweeteners,
		TableColors,
		TableEmulsifiers,
		TableAdditives,
		TableSafe,
	}
)

type referenceFile struct {
	Version       string    `yaml:"version"`
	Preservatives []*Record `yaml:"preservatives"`
	Sweeteners    []*Record `yaml:"sweeteners"`
	Colors        []*Record `yaml:"colors"`
	Emulsifiers   []*Record `yaml:"emulsifiers"`
	Additives     []*Record `yaml:"additives"`
	Safe          []*Record `yaml:"safe"`
}

func (r *referenceFile) tables() [][]*Record {
	return [][]*Record{r.Preservatives, r.Sweeteners, r.Colors, r.Emulsifiers, r.Additives, r.Safe}
}

// Database is the immutable Reference Database. Iteration order is the
// insertion order of the combined sub-tables and decides match precedence.
type Database struct {
	version string
	records []*Record
	tables  []string
	byID    map[string]int
}

// Option customizes a Database while it is being built.
type Option func(*buildOptions)

type buildOptions struct {
	extraNames map[string][]string
}

// WithExtraHiddenNames appends additional hidden names (keyed by record id)
// after each record's own hidden names. Unknown ids are skipped.
func WithExtraHiddenNames(names map[string][]string) Option {
	return func(o *buildOptions) {
		o.extraNames = names
	}
}

// Entry pairs a record with the sub-table it belongs to.
type Entry struct {
	Table  string
	Record *Record
}

// New builds a Database from entries in precedence order. Records are copied
// and validated; the first defect aborts the build.
func New(version string, entries []Entry, opts ...Option) (*Database, error) {
	o := &buildOptions{}
	for _, opt := range opts {
		opt(o)
	}

	db := &Database{
		version: version,
		records: make([]*Record, 0, len(entries)),
		tables:  make([]string, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}

	for i, e := range entries {
		if e.Record == nil {
			return nil, fmt.Errorf("%w: %s[%d] is empty", ErrInvalidRecord, e.Table, i)
		}
		r := *e.Record
		r.HiddenNames = append([]string(nil), e.Record.HiddenNames...)
		if r.Concern != "" {
			if c, err := ParseConcern(string(r.Concern)); err == nil {
				r.Concern = c
			}
		}
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", e.Table, i, err)
		}
		if _, ok := db.byID[r.ID]; ok {
			return nil, fmt.Errorf("%w: %s[%d]: duplicate id %s", ErrInvalidRecord, e.Table, i, r.ID)
		}
		db.byID[r.ID] = len(db.records)
		db.records = append(db.records, &r)
		db.tables = append(db.tables, e.Table)
	}

	for id, names := range o.extraNames {
		idx, ok := db.byID[id]
		if !ok {
			slog.Warn("skipping hidden names for unknown ingredient", "id", id)
			continue
		}
		for _, n := range names {
			if strings.TrimSpace(n) == "" {
				continue
			}
			db.records[idx].HiddenNames = append(db.records[idx].HiddenNames, n)
		}
	}

	slog.Debug("reference database built", "version", version, "records", len(db.records))
	return db, nil
}

// Load decodes a YAML reference document and builds a Database from it.
func Load(r io.Reader, opts ...Option) (*Database, error) {
	var doc referenceFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding reference data: %w", err)
	}

	if strings.TrimSpace(doc.Version) == "" {
		return nil, fmt.Errorf("%w: reference version is required", ErrInvalidRecord)
	}

	entries := make([]Entry, 0)
	for i, t := range doc.tables() {
		for _, rec := range t {
			entries = append(entries, Entry{Table: Tables[i], Record: rec})
		}
	}

	return New(doc.Version, entries, opts...)
}

// LoadFile reads the reference document at path.
func LoadFile(path string, opts ...Option) (*Database, error) {
	if path == "" {
		return nil, errors.New("reference file path required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading reference file %s: %w", path, err)
	}
	return Load(bytes.NewReader(b), opts...)
}

// Default returns the Database built from the embedded reference tables.
func Default(opts ...Option) (*Database, error) {
	b, err := f.ReadFile("data/reference.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded reference data: %w", err)
	}
	return Load(bytes.NewReader(b), opts...)
}

// Version returns the reference data version.
func (d *Database) Version() string {
	return d.version
}

// Len returns the number of records.
func (d *Database) Len() int {
	return len(d.records)
}

// Records returns all records in precedence order. Callers must not modify them.
func (d *Database) Records() []*Record {
	return d.records
}

// Get returns the record with the given id.
func (d *Database) Get(id string) (*Record, bool) {
	idx, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return d.records[idx], true
}

// TableOf returns the sub-table the record with the given id was loaded from.
func (d *Database) TableOf(id string) string {
	idx, ok := d.byID[id]
	if !ok {
		return ""
	}
	return d.tables[idx]
}
