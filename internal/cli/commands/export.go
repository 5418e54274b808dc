package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/styx11/styx/pkg/site"
)

// DefaultBanner heads exported JS config modules.
const DefaultBanner = "Generated by styx. Edit the descriptor, not this file."

// ExportOptions holds options for the export command.
type ExportOptions struct {
	Format string
	Minify bool
	Out    string
	Banner string
	// SkipValidate exports descriptors that fail validation.
	SkipValidate bool
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the descriptor as YAML, JSON or a JS config module",
		Long: `Export the descriptor in the given format.

The js format writes the CommonJS module read by the site generator
(module.exports = {...}); it is syntax-checked with esbuild before being
written. The descriptor is validated first unless --skip-validate is set.

Without --out the result goes to standard output. With --out and no
--format, the format follows the file extension.`,
		Example: `  # Built-in descriptor as YAML
  styx export

  # Generate the site config module
  styx export --format js --out docs/.vuepress/config.js

  # Minified module
  styx export --format js --minify`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: yaml, json or js (default yaml, or from --out extension)")
	cmd.Flags().BoolVar(&opts.Minify, "minify", false, "Minify the js module")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write to this file instead of standard output")
	cmd.Flags().StringVar(&opts.Banner, "banner", DefaultBanner, "Comment written above the js module (empty for none)")
	cmd.Flags().BoolVar(&opts.SkipValidate, "skip-validate", false, "Export even if the descriptor fails validation")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "json", "js"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func exportFormat(opts *ExportOptions) (site.Format, error) {
	switch opts.Format {
	case "yaml", "yml":
		return site.FormatYAML, nil
	case "json":
		return site.FormatJSON, nil
	case "js":
		return site.FormatJS, nil
	case "":
		if opts.Out != "" {
			return site.FormatFromPath(opts.Out)
		}
		return site.FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want yaml, json or js)", opts.Format)
	}
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	cmdCtx := NewCommandContext(cmd)
	logger := cmdCtx.Logger

	format, err := exportFormat(opts)
	if err != nil {
		return err
	}
	if opts.Minify && format != site.FormatJS {
		return fmt.Errorf("--minify only applies to the js format")
	}

	desc, err := cmdCtx.LoadDescriptor()
	if err != nil {
		return err
	}
	if !opts.SkipValidate {
		if err := desc.Validate(); err != nil {
			return fmt.Errorf("descriptor is invalid: %w", err)
		}
	}

	var data []byte
	if format == site.FormatJS {
		data, err = site.EncodeJS(desc, site.JSOptions{Minify: opts.Minify, Banner: opts.Banner})
	} else {
		data, err = site.Marshal(desc, format)
	}
	if err != nil {
		return err
	}

	if opts.Out == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if dir := filepath.Dir(opts.Out); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.Out, data, 0o644); err != nil { //nolint:gosec // G306: generated site config is meant to be world-readable
		return fmt.Errorf("failed to write %s: %w", opts.Out, err)
	}
	logger.Info("descriptor exported", "path", opts.Out, "format", string(format), "bytes", len(data))
	cmdCtx.Renderer.Success(fmt.Sprintf("Wrote %s (%s, %d bytes)", opts.Out, format, len(data)))
	return nil
}
