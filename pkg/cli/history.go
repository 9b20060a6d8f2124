package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/willckim/Purelytics/pkg/data"
)

const (
	limitFlagName = "limit"
	idFlagName    = "id"
)

func newHistoryCmd() *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"h"},
		Usage:   "List saved scan reports",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Usage:   "List recent scans, newest first",
				Aliases: []string{"l"},
				Action:  cmdHistoryList,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  limitFlagName,
						Usage: "Limits number of result returned",
						Value: data.ScanListLimitDefault,
					},
				},
			},
			{
				Name:      "get",
				Usage:     "Get a saved scan with its full report",
				UsageText: "purelytics history get --id <scan-id>",
				Action:    cmdHistoryGet,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  idFlagName,
						Usage: "Saved scan id",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Count saved scans and aliases",
				Action: cmdHistoryStats,
			},
		},
	}
}

// scanOutput carries a decoded report so YAML output shows it as a document.
type scanOutput struct {
	Scan   *data.Scan `json:"scan" yaml:"scan"`
	Report any        `json:"report" yaml:"report"`
}

func newScanOutput(s *data.Scan) (*scanOutput, error) {
	out := &scanOutput{Scan: s}
	if len(s.Report) > 0 {
		if err := json.Unmarshal(s.Report, &out.Report); err != nil {
			return nil, fmt.Errorf("decoding scan %s report: %w", s.ID, err)
		}
	}
	s.Report = nil
	return out, nil
}

func cmdHistoryList(_ context.Context, cmd *cli.Command) error {
	list, err := data.ListScans(getConfig(cmd).DB, int(cmd.Int(limitFlagName)))
	if err != nil {
		return fmt.Errorf("listing scans: %w", err)
	}
	return encode(cmd, list)
}

func cmdHistoryGet(_ context.Context, cmd *cli.Command) error {
	id := cmd.String(idFlagName)
	if id == "" {
		id = cmd.Args().First()
	}
	if id == "" {
		return cli.ShowSubcommandHelp(cmd)
	}

	s, err := data.GetScan(getConfig(cmd).DB, id)
	if err != nil {
		return fmt.Errorf("getting scan: %w", err)
	}

	out, err := newScanOutput(s)
	if err != nil {
		return err
	}
	return encode(cmd, out)
}

func cmdHistoryStats(_ context.Context, cmd *cli.Command) error {
	state, err := data.GetDataState(getConfig(cmd).DB)
	if err != nil {
		return fmt.Errorf("getting data state: %w", err)
	}
	return encode(cmd, state)
}
