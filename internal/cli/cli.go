// Package cli implements the graphlab command-line interface.
//
// # Commands
//
//   - run: load an edge list and run one algorithm against the service
//   - render: draw an edge list as DOT, SVG or JSON
//   - edit: interactive line-oriented graph editor
//   - serve: HTTP API with one graph session per client
//   - config: show the effective configuration and its location
//
// All commands support --verbose (-v) for debug-level logging and --config
// to point at a settings file other than the default.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphlab/internal/config"
	"github.com/matzehuels/graphlab/pkg/algo"
	"github.com/matzehuels/graphlab/pkg/buildinfo"
	"github.com/matzehuels/graphlab/pkg/edit"
	"github.com/matzehuels/graphlab/pkg/session"
)

// appName is the application name used for directories and display.
const appName = "graphlab"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// In and Out are the terminal streams used by interactive commands.
	In  io.Reader
	Out io.Writer

	configPath string
	serviceURL string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "graphlab runs graph algorithms on weighted edge lists",
		Long: `graphlab builds weighted graphs from edge lists or interactive edits, sends them
to an external algorithm service (minimum spanning tree, shortest path, DROMD
labeling) and shows the annotated result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/graphlab/config.toml)")
	root.PersistentFlags().StringVar(&c.serviceURL, "service", "", "algorithm service base URL (overrides config)")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the settings and applies the --service flag.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.serviceURL != "" {
		cfg.Service.BaseURL = c.serviceURL
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// sessionConfig wires the shared session dependencies from cfg.
func (c *CLI) sessionConfig(cfg config.Config, p edit.Prompter) session.Config {
	return session.Config{
		Runner:   algo.NewClient(cfg.Service.BaseURL, cfg.Service.Endpoints()),
		Prompter: p,
		Labeling: cfg.Labeling,
		Logger:   c.Logger,
	}
}
