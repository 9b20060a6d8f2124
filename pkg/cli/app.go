package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/willckim/Purelytics/pkg/alternative"
	"github.com/willckim/Purelytics/pkg/config"
	"github.com/willckim/Purelytics/pkg/data"
	"github.com/willckim/Purelytics/pkg/ingredient"
	"github.com/willckim/Purelytics/pkg/logging"
	"github.com/willckim/Purelytics/pkg/match"
	"github.com/willckim/Purelytics/pkg/score"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "purelytics"
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"

	homeFlagName      = "home"
	debugFlagName     = "debug"
	dbFlagName        = "db"
	referenceFlagName = "reference"
	formatFlagName    = "format"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger(config.LogLevelDefault)

	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appOptions struct {
	home      string
	dbPath    string
	reference string
	format    string
	debug     bool
}

type appConfig struct {
	Home   string
	DBPath string
	Format string
	Debug  bool
	Config *config.Config
	DB     *sql.DB
	Engine *score.Engine
	Ranker *alternative.Ranker
}

func getConfig(cmd *cli.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                      appName,
		Version:                   fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Usage:                     "Score packaged food ingredient lists and suggest healthier alternatives",
		EnableShellCompletion:     true,
		HideHelpCommand:           true,
		DisableSliceFlagSeparator: true,
		Metadata:                  map[string]any{},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  homeFlagName,
				Usage: "Path to the app directory holding config and data (default: $HOME/.purelytics)",
			},
			&cli.BoolFlag{
				Name:  debugFlagName,
				Usage: "Prints verbose logs (optional, default: false)",
			},
			&cli.StringFlag{
				Name:  dbFlagName,
				Usage: "Path to the Sqlite database file (default: <home>/purelytics.db)",
			},
			&cli.StringFlag{
				Name:  referenceFlagName,
				Usage: "Path to a YAML reference database replacing the built-in one",
			},
			&cli.StringFlag{
				Name:  formatFlagName,
				Usage: "Output format [json, yaml]",
				Value: formatJSON,
			},
		},
		Commands: []*cli.Command{
			newScoreCmd(),
			newMatchCmd(),
			newAlternativesCmd(),
			newHistoryCmd(),
			newAliasCmd(),
			newReferenceCmd(),
			newResetCmd(),
			newServerCmd(),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := newAppConfig(appOptions{
				home:      cmd.String(homeFlagName),
				dbPath:    cmd.String(dbFlagName),
				reference: cmd.String(referenceFlagName),
				format:    cmd.String(formatFlagName),
				debug:     cmd.Bool(debugFlagName),
			})
			if err != nil {
				return ctx, err
			}
			cmd.Root().Metadata[appConfigKey] = cfg
			return ctx, nil
		},
		After: func(_ context.Context, cmd *cli.Command) error {
			if cfg, ok := cmd.Root().Metadata[appConfigKey].(*appConfig); ok {
				cfg.Close()
			}
			return nil
		},
	}
}

// newAppConfig resolves the home dir and config file, opens the local
// database and builds the scoring engine and ranker from the reference data.
func newAppConfig(o appOptions) (*appConfig, error) {
	home := o.home
	if home == "" {
		dir, _, err := config.GetOrCreateHomeDir(appName)
		if err != nil {
			return nil, fmt.Errorf("resolving home dir: %w", err)
		}
		home = dir
	}

	conf, err := config.ReadOrCreate(home)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	level := conf.LogLevel
	if o.debug {
		level = "debug"
	}
	logging.SetDefaultCLILogger(level)

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("validating config in %s: %w", home, err)
	}

	cfg := &appConfig{
		Home:   home,
		DBPath: firstNonEmpty(o.dbPath, conf.DB, filepath.Join(home, data.DataFileName)),
		Format: formatJSON,
		Debug:  o.debug,
		Config: conf,
	}

	if f := strings.ToLower(strings.TrimSpace(o.format)); f == formatYAML || f == "yml" {
		cfg.Format = formatYAML
	}

	if err := data.Init(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	if cfg.DB, err = data.GetDB(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if cfg.Engine, err = newEngine(cfg.DB, conf, firstNonEmpty(o.reference, conf.Reference)); err != nil {
		cfg.Close()
		return nil, err
	}

	if cfg.Ranker, err = newRanker(conf.Catalog); err != nil {
		cfg.Close()
		return nil, err
	}

	slog.Debug("app configured",
		"home", cfg.Home,
		"db", cfg.DBPath,
		"reference", cfg.Engine.Database().Version(),
		"records", cfg.Engine.Database().Len(),
		"mode", cfg.Engine.Matcher().Mode())

	return cfg, nil
}

// Close releases the database handle.
func (c *appConfig) Close() {
	if c != nil && c.DB != nil {
		c.DB.Close()
		c.DB = nil
	}
}

func newEngine(db *sql.DB, conf *config.Config, referencePath string) (*score.Engine, error) {
	extra, err := data.GetAliasMap(db)
	if err != nil {
		return nil, fmt.Errorf("loading user aliases: %w", err)
	}
	opt := ingredient.WithExtraHiddenNames(extra)

	var ref *ingredient.Database
	if referencePath != "" {
		ref, err = ingredient.LoadFile(referencePath, opt)
	} else {
		ref, err = ingredient.Default(opt)
	}
	if err != nil {
		return nil, fmt.Errorf("loading reference database: %w", err)
	}

	aliases, err := ingredient.DefaultAliases()
	if err != nil {
		return nil, fmt.Errorf("loading alias lists: %w", err)
	}

	mode, err := match.ParseMode(conf.Match.Mode)
	if err != nil {
		return nil, err
	}

	return score.NewEngine(ref, aliases,
		score.WithPolicy(conf.Scoring),
		score.WithMatchMode(mode),
		score.WithWorkers(conf.Workers))
}

func newRanker(catalogPath string) (*alternative.Ranker, error) {
	var c *alternative.Catalog
	var err error
	if catalogPath != "" {
		c, err = alternative.LoadCatalogFile(catalogPath)
	} else {
		c, err = alternative.DefaultCatalog()
	}
	if err != nil {
		return nil, fmt.Errorf("loading alternatives catalog: %w", err)
	}
	return alternative.NewRanker(c), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func encode(cmd *cli.Command, v any) error {
	var w io.Writer = os.Stdout
	if root := cmd.Root(); root.Writer != nil {
		w = root.Writer
	}

	if cfg, ok := cmd.Root().Metadata[appConfigKey].(*appConfig); ok && cfg.Format == formatYAML {
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	}

	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
