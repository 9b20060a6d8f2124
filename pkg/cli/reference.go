package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/willckim/Purelytics/pkg/alternative"
	"github.com/willckim/Purelytics/pkg/ingredient"
	"github.com/willckim/Purelytics/pkg/net"
)

const referenceFileName = "reference.yaml"

const (
	tableFlagName   = "table"
	catalogFlagName = "catalog"
	urlFlagName     = "url"
	outFlagName     = "out"
)

func newReferenceCmd() *cli.Command {
	return &cli.Command{
		Name:    "reference",
		Aliases: []string{"ref"},
		Usage:   "Inspect, validate and fetch reference data",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Usage:   "List reference records in match order",
				Aliases: []string{"l"},
				Action:  cmdReferenceList,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  tableFlagName,
						Usage: fmt.Sprintf("Reference table [%s]", strings.Join(ingredient.Tables, ", ")),
					},
				},
			},
			{
				Name:  "validate",
				Usage: "Validate reference and catalog files without using them",
				UsageText: `purelytics reference validate --file reference.yaml
   purelytics reference validate --catalog catalog.yaml`,
				Action: cmdReferenceValidate,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  fileFlagName,
						Usage: "Path to a YAML reference database to validate",
					},
					&cli.StringFlag{
						Name:  catalogFlagName,
						Usage: "Path to a YAML alternatives catalog to validate",
					},
				},
			},
			{
				Name:      "fetch",
				Usage:     "Download and validate a reference database",
				UsageText: "purelytics reference fetch --url https://example.com/reference.yaml",
				Action:    cmdReferenceFetch,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     urlFlagName,
						Usage:    "URL of a YAML reference database",
						Required: true,
					},
					&cli.StringFlag{
						Name:  outFlagName,
						Usage: fmt.Sprintf("Where to save the reference database (default: <home>/%s)", referenceFileName),
					},
				},
			},
		},
	}
}

type referenceRecord struct {
	Table             string `json:"table" yaml:"table"`
	ingredient.Record `yaml:",inline"`
}

type referenceSummary struct {
	Version string         `json:"version" yaml:"version"`
	Records int            `json:"records" yaml:"records"`
	Tables  map[string]int `json:"tables" yaml:"tables"`
}

type catalogSummary struct {
	Categories map[string]int `json:"categories" yaml:"categories"`
}

type fetchResult struct {
	Path      string            `json:"path" yaml:"path"`
	Reference *referenceSummary `json:"reference" yaml:"reference"`
}

type validationResult struct {
	Reference *referenceSummary `json:"reference,omitempty" yaml:"reference,omitempty"`
	Catalog   *catalogSummary   `json:"catalog,omitempty" yaml:"catalog,omitempty"`
}

func cmdReferenceList(_ context.Context, cmd *cli.Command) error {
	db := getConfig(cmd).Engine.Database()
	table := strings.ToLower(strings.TrimSpace(cmd.String(tableFlagName)))

	if table != "" && !containsString(ingredient.Tables, table) {
		return fmt.Errorf("invalid table: %s (permitted options: %v)", table, ingredient.Tables)
	}

	list := make([]*referenceRecord, 0, db.Len())
	for _, r := range db.Records() {
		t := db.TableOf(r.ID)
		if table != "" && t != table {
			continue
		}
		list = append(list, &referenceRecord{Table: t, Record: *r})
	}
	return encode(cmd, list)
}

func cmdReferenceValidate(_ context.Context, cmd *cli.Command) error {
	refPath := cmd.String(fileFlagName)
	catPath := cmd.String(catalogFlagName)
	if refPath == "" && catPath == "" {
		return cli.ShowSubcommandHelp(cmd)
	}

	res := &validationResult{}

	if refPath != "" {
		db, err := ingredient.LoadFile(refPath)
		if err != nil {
			return fmt.Errorf("invalid reference database: %w", err)
		}
		res.Reference = summarizeReference(db)
	}

	if catPath != "" {
		c, err := alternative.LoadCatalogFile(catPath)
		if err != nil {
			return fmt.Errorf("invalid alternatives catalog: %w", err)
		}
		res.Catalog = &catalogSummary{Categories: make(map[string]int)}
		for _, cat := range c.Categories() {
			list, _ := c.List(cat)
			res.Catalog.Categories[string(cat)] = len(list)
		}
	}

	return encode(cmd, res)
}

func cmdReferenceFetch(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	url := strings.TrimSpace(cmd.String(urlFlagName))
	path := cmd.String(outFlagName)
	if path == "" {
		path = filepath.Join(cfg.Home, referenceFileName)
	}

	tmp := path + ".download"
	if err := net.Download(ctx, url, tmp); err != nil {
		return fmt.Errorf("error downloading reference database: %w", err)
	}

	db, err := ingredient.LoadFile(tmp)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("invalid reference database: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error saving reference database: %w", err)
	}

	slog.Info("reference database saved", "path", path, "version", db.Version())
	return encode(cmd, &fetchResult{Path: path, Reference: summarizeReference(db)})
}

func summarizeReference(db *ingredient.Database) *referenceSummary {
	s := &referenceSummary{
		Version: db.Version(),
		Records: db.Len(),
		Tables:  make(map[string]int, len(ingredient.Tables)),
	}
	for _, r := range db.Records() {
		s.Tables[db.TableOf(r.ID)]++
	}
	return s
}

func containsString(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
