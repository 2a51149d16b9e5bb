// Package cli implements the carousel command-line interface.
//
// Commands:
//   - serve: run the HTTP render API
//   - render: render one slide request (JSON) to a file
//   - deck: render every slide of a .carousel deck file
//   - templates: preview the palette each template derives from a brand
//
// All commands accept --verbose (-v) for debug logging and --config for a
// YAML or TOML configuration file.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/carousel/internal/config"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the values printed by --version. main injects them via ldflags.
func SetVersion(v, c, d string) {
	if v != "" {
		version = v
	}
	commit = c
	date = d
}

// globals holds the persistent flags shared by every command.
type globals struct {
	verbose    bool
	configPath string
}

// Execute runs the CLI with args taken from os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// NewRootCmd builds the command tree. stdout receives command output and
// stderr receives logs.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "carousel",
		Short:         "Render branded carousel slides",
		Long:          "carousel renders 1080×1350 social carousel slides from a JSON request or a .carousel deck file, as a CLI or an HTTP service.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if g.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(stderr, level)))
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(fmt.Sprintf("carousel %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")

	root.AddCommand(newServeCmd(g))
	root.AddCommand(newRenderCmd(g))
	root.AddCommand(newDeckCmd(g))
	root.AddCommand(newTemplatesCmd())
	return root
}

// loadConfig reads the config file and lets the config's log level raise
// verbosity; --verbose always wins.
func (g *globals) loadConfig(ctx context.Context) (*config.Config, *log.Logger, error) {
	logger := loggerFromContext(ctx)
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if !g.verbose {
		if lvl, err := log.ParseLevel(strings.ToLower(cfg.Log.Level)); err == nil {
			logger.SetLevel(lvl)
		} else {
			logger.Warn("ignoring unknown log level", "level", cfg.Log.Level)
		}
	}
	return cfg, logger, nil
}
