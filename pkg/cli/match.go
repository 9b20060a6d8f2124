package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/willckim/Purelytics/pkg/classify"
	"github.com/willckim/Purelytics/pkg/match"
	"github.com/willckim/Purelytics/pkg/score"
)

const scoreFlagName = "score"

func newMatchCmd() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Aliases:   []string{"m"},
		Usage:     "Resolve ingredient names against the reference database",
		UsageText: `purelytics match "Prague Powder #1" "Organic Quinoa Flakes"`,
		Action:    cmdMatch,
	}
}

func newAlternativesCmd() *cli.Command {
	return &cli.Command{
		Name:      "alternatives",
		Aliases:   []string{"alt"},
		Usage:     "List healthier alternatives in a category",
		UsageText: `purelytics alternatives --category Supplement --score 40`,
		Action:    cmdAlternatives,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     categoryFlagName,
				Usage:    fmt.Sprintf("Product category [%s]", categoryList()),
				Required: true,
			},
			&cli.IntFlag{
				Name:  scoreFlagName,
				Usage: "Overall score of the scanned product (0-100)",
			},
		},
	}
}

type matchOutput struct {
	Input          string                   `json:"input" yaml:"input"`
	ID             string                   `json:"id" yaml:"id"`
	Match          *match.Result            `json:"match" yaml:"match"`
	Classification *classify.Classification `json:"classification,omitempty" yaml:"classification,omitempty"`
}

func resolveNames(cfg *appConfig, names []string) []*matchOutput {
	list := make([]*matchOutput, 0, len(names))
	for _, n := range names {
		res := cfg.Engine.Matcher().Resolve(n)
		out := &matchOutput{
			Input: n,
			Match: res,
		}
		if res.Found() {
			out.ID = res.Record.ID
		} else {
			c := cfg.Engine.Classifier().Classify(n)
			out.ID = score.UnknownID(n)
			out.Classification = &c
		}
		list = append(list, out)
	}
	return list
}

func cmdMatch(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return cli.ShowSubcommandHelp(cmd)
	}
	return encode(cmd, resolveNames(getConfig(cmd), cmd.Args().Slice()))
}

func cmdAlternatives(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	s := int(cmd.Int(scoreFlagName))
	if s < 0 || s > 100 {
		return fmt.Errorf("score %d outside 0-100", s)
	}

	res := cfg.Ranker.Rank(cmd.String(categoryFlagName), s)
	if !res.Recognized {
		slog.Warn("unknown category, showing general alternatives", "category", res.Requested, "options", categoryList())
	}
	return encode(cmd, res)
}
