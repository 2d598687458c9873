// Package cli implements the pcbflow command-line interface.
//
// Commands wrap the pure layout core: "layout" places a circuit and
// routes its connections, "route" re-routes an already-placed circuit,
// "serve" exposes the same pipeline over HTTP, and "cache" manages the
// local layout cache. All commands support --verbose (-v) for
// debug-level logging via the charmbracelet/log library.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pcbflow/pcbflow/pkg/buildinfo"
	"github.com/pcbflow/pcbflow/pkg/cache"
	"github.com/pcbflow/pcbflow/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "pcbflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "PCBFlow places circuit components and routes their connections",
		Long:         `PCBFlow is a deterministic 2D placement and routing engine: it positions circuit components on a canvas using force-directed, hierarchical, or circular layout and computes signal-aware polylines for their connections.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use, backed by the local
// file cache unless caching is disabled.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), c.Logger), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(fc, c.Logger), nil
}

// cacheDir returns the layout cache directory, creating nothing.
func cacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName, "layouts"), nil
}
