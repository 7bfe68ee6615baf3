package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(-1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:    "bstmap",
		Usage:   "drive an ordered map from a script of commands",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity level (eg: warn, info, debug)",
				Value:   "warn",
				EnvVars: []string{"BSTMAP_LOG_LEVEL", "LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "trace structural changes to the map on stdout",
				EnvVars: []string{"BSTMAP_DEBUG"},
			},
		},
	}
	app.Commands = []*cli.Command{
		cmdRun,
	}
	return app.Run(args)
}

var cmdRun = &cli.Command{
	Name:      "run",
	Usage:     "execute commands from a script file, or stdin if none is given",
	ArgsUsage: "[script]",
	Action:    runScript,
}

func runScript(cctx *cli.Context) error {
	logger := configLogger(cctx, os.Stderr)

	var in io.Reader = os.Stdin
	name := "-"
	if cctx.Args().Len() > 0 && cctx.Args().First() != "-" {
		name = cctx.Args().First()
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		in = f
	}

	s, err := newSession(cctx.App.Writer, logger.With("script", name), cctx.Bool("debug"))
	if err != nil {
		return err
	}
	return s.runAll(in)
}

func configLogger(cctx *cli.Context, writer io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cctx.String("log-level")) {
	case "error":
		level = slog.LevelError
	case "warn":
		level = slog.LevelWarn
	case "info":
		level = slog.LevelInfo
	case "debug":
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger.With("system", "bstmap")
}
