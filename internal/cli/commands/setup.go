package commands

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/styx11/styx/internal/cli/output"
	"github.com/styx11/styx/internal/config"
	"github.com/styx11/styx/internal/content"
	"github.com/styx11/styx/pkg/site"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the context from the settings and logger stored
// on the command by the root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// LoadDescriptor returns the configured descriptor file, or the built-in
// Styx descriptor when none is set.
func (c *CommandContext) LoadDescriptor() (*site.Descriptor, error) {
	if c.Cfg.UsesBuiltinDescriptor() {
		c.Logger.Debug("using built-in descriptor")
		return site.Default(), nil
	}
	c.Logger.Debug("loading descriptor", "path", c.Cfg.Descriptor)
	d, err := site.Load(c.Cfg.Descriptor)
	if err != nil {
		return nil, fmt.Errorf("failed to load descriptor: %w", err)
	}
	return d, nil
}

// DocsFS opens the docs directory.
func (c *CommandContext) DocsFS() (fs.FS, error) {
	info, err := os.Stat(c.Cfg.DocsDir)
	if err != nil {
		return nil, fmt.Errorf("docs directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("docs directory %s is not a directory", c.Cfg.DocsDir)
	}
	return os.DirFS(c.Cfg.DocsDir), nil
}

// LoadIndex indexes the markdown documents of the docs directory.
func (c *CommandContext) LoadIndex() (*content.Index, error) {
	fsys, err := c.DocsFS()
	if err != nil {
		return nil, err
	}
	idx, err := content.Load(fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to index documents: %w", err)
	}
	c.Logger.Debug("indexed documents", "dir", c.Cfg.DocsDir, "count", idx.Len())
	return idx, nil
}
