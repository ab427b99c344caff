// Command api runs the LocalLibrary site and its admin tasks.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/5w1tchy/locallibrary/internal/config"
	"github.com/5w1tchy/locallibrary/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	app := &cli.App{
		Name:    "locallibrary",
		Usage:   "LocalLibrary catalog site",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			seedCommand(),
			createUserCommand(),
			revokeSessionsCommand(),
			coverCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Get().Error("command failed", err)
		os.Exit(1)
	}
}

// setup loads configuration and installs the process logger.
func setup(c *cli.Context) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.Setup(logger.Config{
		Level:  cfg.Logging.Level,
		Format: logger.ParseFormat(cfg.Logging.Format),
	})
	return cfg, log, nil
}
