package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/willckim/Purelytics/pkg/alternative"
	"github.com/willckim/Purelytics/pkg/data"
	"github.com/willckim/Purelytics/pkg/score"
)

const (
	stdinFileName = "-"

	fileFlagName       = "file"
	ingredientFlagName = "ingredient"
	productFlagName    = "product"
	brandFlagName      = "brand"
	categoryFlagName   = "category"
	saveFlagName       = "save"
)

func newScoreCmd() *cli.Command {
	return &cli.Command{
		Name:    "score",
		Aliases: []string{"s"},
		Usage:   "Score a product ingredient list and suggest alternatives",
		UsageText: `purelytics score -i "Sodium Nitrite" -i "High Fructose Corn Syrup" --category Meat
   purelytics score --file label.json --save                  # score an extraction document
   purelytics score a.json b.yaml c.json                      # batch score documents`,
		Action: cmdScore,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    fileFlagName,
				Aliases: []string{"f"},
				Usage:   "Extraction document (JSON or YAML), '-' reads stdin (can be specified multiple times)",
			},
			&cli.StringSliceFlag{
				Name:    ingredientFlagName,
				Aliases: []string{"i"},
				Usage:   "Ingredient name in label order (can be specified multiple times)",
			},
			&cli.StringFlag{
				Name:  productFlagName,
				Usage: "Product name",
			},
			&cli.StringFlag{
				Name:  brandFlagName,
				Usage: "Product brand",
			},
			&cli.StringFlag{
				Name:  categoryFlagName,
				Usage: fmt.Sprintf("Product category [%s]", categoryList()),
			},
			&cli.BoolFlag{
				Name:  saveFlagName,
				Usage: "Save the report to the local history",
			},
		},
	}
}

// Report is a scored product together with the alternatives for its category.
type Report struct {
	ScanID       string               `json:"scanId,omitempty" yaml:"scanId,omitempty"`
	Category     string               `json:"category,omitempty" yaml:"category,omitempty"`
	Result       *score.ProductResult `json:"result" yaml:"result"`
	Alternatives *alternative.Ranking `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

func newReport(r *alternative.Ranker, x *score.Extraction, res *score.ProductResult) *Report {
	rep := &Report{
		Category: strings.TrimSpace(x.Category),
		Result:   res,
	}
	if rep.Category != "" {
		rep.Alternatives = r.Rank(rep.Category, res.OverallScore)
	}
	return rep
}

func saveReport(db *sql.DB, rep *Report) error {
	s, err := data.SaveScan(db, &data.Scan{
		ProductName:      rep.Result.ProductName,
		Brand:            rep.Result.Brand,
		Category:         rep.Category,
		OverallScore:     rep.Result.OverallScore,
		ReferenceVersion: rep.Result.ReferenceVersion,
	}, rep)
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	rep.ScanID = s.ID
	slog.Debug("report saved", "id", s.ID, "product", s.ProductName)
	return nil
}

func cmdScore(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	items, err := readExtractions(cmd)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return cli.ShowSubcommandHelp(cmd)
	}

	results, err := cfg.Engine.ScoreAll(ctx, items)
	if err != nil {
		return fmt.Errorf("scoring: %w", err)
	}

	reports := make([]*Report, 0, len(results))
	for i, res := range results {
		rep := newReport(cfg.Ranker, items[i], res)
		if cmd.Bool(saveFlagName) {
			if err := saveReport(cfg.DB, rep); err != nil {
				return err
			}
		}
		reports = append(reports, rep)
	}

	if len(reports) == 1 {
		return encode(cmd, reports[0])
	}
	return encode(cmd, reports)
}

// readExtractions collects the documents named by --file and the positional
// args, plus one document built from --ingredient. Product flags override
// the document metadata when set.
func readExtractions(cmd *cli.Command) ([]*score.Extraction, error) {
	files := make([]string, 0, cmd.NArg()+1)
	files = append(files, cmd.StringSlice(fileFlagName)...)
	files = append(files, cmd.Args().Slice()...)

	items := make([]*score.Extraction, 0, len(files)+1)
	for _, f := range files {
		x, err := readExtraction(cmd, f)
		if err != nil {
			return nil, err
		}
		items = append(items, x)
	}

	if list := cmd.StringSlice(ingredientFlagName); len(list) > 0 {
		items = append(items, &score.Extraction{Ingredients: list})
	}

	for _, x := range items {
		if v := cmd.String(productFlagName); v != "" {
			x.ProductName = v
		}
		if v := cmd.String(brandFlagName); v != "" {
			x.Brand = v
		}
		if v := cmd.String(categoryFlagName); v != "" {
			x.Category = v
		}
	}

	return items, nil
}

func readExtraction(cmd *cli.Command, path string) (*score.Extraction, error) {
	if path != stdinFileName {
		return score.ParseExtractionFile(path)
	}

	var r io.Reader = os.Stdin
	if root := cmd.Root(); root.Reader != nil {
		r = root.Reader
	}
	x, err := score.ParseExtraction(r)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	return x, nil
}

func categoryList() string {
	list := make([]string, 0, len(alternative.Categories))
	for _, c := range alternative.Categories {
		list = append(list, string(c))
	}
	return strings.Join(list, ", ")
}
