package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Pro7ech/ntt2x2/config"
	"github.com/Pro7ech/ntt2x2/logger"
)

var (
	Version   = "DEV"
	BuildTime = "unknown"
)

const configFlag = "config"

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := &cli.App{}
	app.Name = "ntt2x2"
	app.Usage = "Pipelined merged-radix forward NTT over Z_q[X]/(X^N+1)"
	app.UsageText = "ntt2x2 [global options] command [command options]"
	app.Version = fmt.Sprintf("%s (built %s)", Version, BuildTime)
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
			EnvVars: []string{"NTT2X2_CONFIG"},
		},
		&cli.StringFlag{
			Name:  logger.LogLevelFlag,
			Value: "info",
			Usage: "Application logging level {trace, debug, info, warn, error}",
		},
		&cli.BoolFlag{
			Name:  logger.LogJSONFlag,
			Usage: "Log one JSON object per event",
		},
	}
	app.Commands = []*cli.Command{
		runCommand(),
		vectorCommand(),
		patternsCommand(),
	}
	return app
}

// loadConfig reads the configuration named by the config flag, or the
// default configuration file if present, and applies the logging flags
// given on the command line on top of it.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()

	path := c.String(configFlag)
	if path == "" {
		path = config.FindDefaultConfigPath()
	}

	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if c.IsSet(logger.LogLevelFlag) || cfg.LogLevel == "" {
		cfg.LogLevel = c.String(logger.LogLevelFlag)
	}
	if c.IsSet(logger.LogJSONFlag) {
		cfg.JSONLogs = c.Bool(logger.LogJSONFlag)
	}

	return cfg, nil
}
