// Package cli implements the furnidraw command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/furnidraw/pkg/buildinfo"
	"github.com/matzehuels/furnidraw/pkg/cache"
	"github.com/matzehuels/furnidraw/pkg/pipeline"
	"github.com/matzehuels/furnidraw/pkg/scene"
	"github.com/matzehuels/furnidraw/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "furnidraw"

	// Environment variables read by every command. Flags take precedence.
	envCacheURL = "FURNIDRAW_CACHE_URL"
	envStore    = "FURNIDRAW_STORE"
	envAddr     = "FURNIDRAW_ADDR"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Furnidraw exports furniture layouts as technical drawings",
		Long:         `Furnidraw turns a furniture layout (a space and the modules placed in it) into 2D technical drawings: DXF for CAD, PDF for print, and SVG, PNG and JSON previews.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.slotsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerConfig selects the runner's backends.
type runnerConfig struct {
	noCache  bool
	cacheURL string // redis:// URL; empty uses the file cache
	store    string // storage DSN; empty keeps artifacts local
	scene    string // scene snapshot file for the scene strategy
}

// withEnv fills unset fields from the environment.
func (rc runnerConfig) withEnv() runnerConfig {
	if rc.cacheURL == "" {
		rc.cacheURL = os.Getenv(envCacheURL)
	}
	if rc.store == "" {
		rc.store = os.Getenv(envStore)
	}
	return rc
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, rc runnerConfig) (*pipeline.Runner, error) {
	runner := pipeline.NewRunner(c.newCache(ctx, rc), nil, c.Logger)

	if rc.store != "" {
		store, err := storage.Open(ctx, rc.store)
		if err != nil {
			runner.Close()
			return nil, err
		}
		runner.Store = store
	}

	if rc.scene != "" {
		root, err := scene.ReadSnapshotFile(rc.scene)
		if err != nil {
			runner.Close()
			return nil, err
		}
		runner.Holder = scene.NewHolder(root)
	}
	return runner, nil
}

// newCache returns the configured cache. An unreachable Redis falls back to
// the file cache and a missing cache directory disables caching.
func (c *CLI) newCache(ctx context.Context, rc runnerConfig) cache.Cache {
	if rc.noCache {
		return cache.NewNullCache()
	}
	if rc.cacheURL != "" {
		rcache, err := cache.NewRedisCache(ctx, rc.cacheURL)
		if err == nil {
			return rcache
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "error", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/furnidraw/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{pipeline.FormatDXF}
	}
	return pipeline.ParseFormats(s)
}

// envOr returns the environment value of key, or def when unset.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
