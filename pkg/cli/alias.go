package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/willckim/Purelytics/pkg/data"
)

const nameFlagName = "name"

func aliasNameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     nameFlagName,
		Usage:    "Ingredient name as printed on labels",
		Required: true,
	}
}

func newAliasCmd() *cli.Command {
	return &cli.Command{
		Name:  "alias",
		Usage: "Manage extra hidden names for reference records",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a hidden name to a reference record",
				UsageText: `purelytics alias add --name "Cure #1" --id sodium-nitrite`,
				Action:    cmdAliasAdd,
				Flags: []cli.Flag{
					aliasNameFlag(),
					&cli.StringFlag{
						Name:     idFlagName,
						Usage:    "Reference record id the name stands for (see: purelytics reference list)",
						Required: true,
					},
				},
			},
			{
				Name:    "list",
				Usage:   "List user aliases",
				Aliases: []string{"l"},
				Action:  cmdAliasList,
			},
			{
				Name:      "remove",
				Usage:     "Remove a user alias",
				Aliases:   []string{"rm"},
				UsageText: `purelytics alias remove --name "Cure #1"`,
				Action:    cmdAliasRemove,
				Flags: []cli.Flag{
					aliasNameFlag(),
				},
			},
		},
	}
}

func cmdAliasAdd(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	id := cmd.String(idFlagName)

	if _, ok := cfg.Engine.Database().Get(id); !ok {
		return fmt.Errorf("unknown reference record id: %s", id)
	}

	a, err := data.SaveAlias(cfg.DB, cmd.String(nameFlagName), id)
	if err != nil {
		return fmt.Errorf("failed to save alias: %w", err)
	}

	slog.Debug("alias saved", "name", a.Name, "id", a.ID)
	return encode(cmd, a)
}

func cmdAliasList(_ context.Context, cmd *cli.Command) error {
	list, err := data.ListAliases(getConfig(cmd).DB)
	if err != nil {
		return fmt.Errorf("failed to list aliases: %w", err)
	}
	return encode(cmd, list)
}

func cmdAliasRemove(_ context.Context, cmd *cli.Command) error {
	name := cmd.String(nameFlagName)
	if err := data.DeleteAlias(getConfig(cmd).DB, name); err != nil {
		return fmt.Errorf("failed to remove alias: %w", err)
	}
	return encode(cmd, map[string]string{"removed": name})
}
