// Package command defines the coverart command line.
package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/simonhull/coverart"
	"github.com/simonhull/coverart/internal/config"
	"github.com/simonhull/coverart/internal/logging"
)

const envKey = "env"

// Env is what every command needs, built once in App.Before.
type Env struct {
	Config   *config.Config
	Logger   *zap.Logger
	Accessor *coverart.Accessor
}

// App creates the CLI application.
func App() *cli.App {
	info := coverart.GetVersionInfo()
	return &cli.App{
		Name:    "coverart",
		Usage:   "view and edit MP3 title, artist and cover art",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.GitCommit, info.BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ShowCommand(),
			SaveCommand(),
			EditCommand(),
			VersionCommand(),
		},
		Before: setup,
		After: func(c *cli.Context) error {
			if env, ok := c.App.Metadata[envKey].(*Env); ok {
				_ = env.Logger.Sync() //nolint:errcheck // stderr sync fails on some terminals
			}
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
			EnvVars: []string{"COVERART_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "backend",
			Aliases: []string{"b"},
			Usage:   "tagging library: id3v2 or taglib",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "console or json",
		},
	}
}

// setup loads configuration and builds the logger and accessor.
func setup(c *cli.Context) error {
	overrides := map[string]any{}
	for flag, key := range map[string]string{
		"backend":    "backend",
		"log-level":  "log.level",
		"log-format": "log.format",
	} {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}

	cfg, err := config.NewLoader(config.WithConfigFile(c.String("config"))).Load(overrides)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	acc, err := coverart.New(append(cfg.AccessorOptions(), coverart.WithLogger(logger))...)
	if err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[envKey] = &Env{Config: cfg, Logger: logger, Accessor: acc}
	return nil
}

// GetEnv retrieves the command environment from context.
func GetEnv(c *cli.Context) (*Env, error) {
	if env, ok := c.App.Metadata[envKey].(*Env); ok {
		return env, nil
	}
	return nil, errors.New("command environment not initialised")
}

// mp3Arg returns the single MP3 path argument.
func mp3Arg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("usage: coverart %s %s", c.Command.Name, c.Command.ArgsUsage)
	}
	return c.Args().First(), nil
}
