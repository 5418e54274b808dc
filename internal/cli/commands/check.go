package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/styx11/styx/internal/cli/output"
	"github.com/styx11/styx/internal/config"
	"github.com/styx11/styx/internal/watch"
	"github.com/styx11/styx/pkg/site"
)

// Check groups.
const (
	GroupStructure = "structure"
	GroupDocuments = "documents"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the descriptor against the docs directory",
		Long: `Check the descriptor in two groups:

  structure  title, sidebar depth, nav items and sidebar prefixes and pages
  documents  every sidebar page and internal nav link has a markdown source

All problems are reported at once. The command fails when any are found.

With --watch, the check re-runs whenever a markdown file under the docs
directory or the descriptor file changes, until interrupted. Changes are
batched over the --debounce window; paths matching --ignore are skipped.`,
		Example: `  # One-shot check
  styx check --docs-dir docs

  # Re-check while writing
  styx check --watch --debounce 500ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run the check when documents or the descriptor change")
	cmd.Flags().Duration("debounce", config.DefaultDebounce, "Quiet period before a batch of changes triggers a re-check")
	cmd.Flags().StringSlice("ignore", nil, "Paths or patterns under the docs directory to ignore while watching")

	return cmd
}

// CheckGroup is the result of one group of checks.
type CheckGroup struct {
	Name     string         `json:"name"`
	Status   string         `json:"status"`
	Problems []site.Problem `json:"problems"`
}

// CheckOutput is the JSON shape of the check command.
type CheckOutput struct {
	Valid        bool         `json:"valid"`
	Descriptor   string       `json:"descriptor"`
	DocsDir      string       `json:"docsDir"`
	Groups       []CheckGroup `json:"groups"`
	ProblemCount int          `json:"problemCount"`
}

func newCheckGroup(name string, err error) CheckGroup {
	g := CheckGroup{Name: name, Status: "success", Problems: site.ProblemsOf(err)}
	if g.Problems == nil {
		g.Problems = []site.Problem{}
	}
	if len(g.Problems) > 0 {
		g.Status = "failed"
	}
	return g
}

// CheckSite runs both check groups. The returned error reports failures to
// load the descriptor or the docs directory, not descriptor problems.
func CheckSite(cmdCtx *CommandContext) (*CheckOutput, error) {
	desc, err := cmdCtx.LoadDescriptor()
	if err != nil {
		return nil, err
	}
	fsys, err := cmdCtx.DocsFS()
	if err != nil {
		return nil, err
	}

	out := &CheckOutput{
		Descriptor: cmdCtx.Cfg.Descriptor,
		DocsDir:    cmdCtx.Cfg.DocsDir,
		Groups: []CheckGroup{
			newCheckGroup(GroupStructure, desc.Validate()),
			newCheckGroup(GroupDocuments, desc.CheckDocuments(fsys)),
		},
	}
	if out.Descriptor == "" {
		out.Descriptor = "(built-in)"
	}
	for _, g := range out.Groups {
		out.ProblemCount += len(g.Problems)
	}
	out.Valid = out.ProblemCount == 0
	return out, nil
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)

	if opts.Watch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchCheck(ctx, cmdCtx)
	}

	out, err := CheckSite(cmdCtx)
	if err != nil {
		return err
	}
	if err := renderCheck(cmdCtx.Renderer, out); err != nil {
		return err
	}
	if !out.Valid {
		return fmt.Errorf("%d problems found", out.ProblemCount)
	}
	return nil
}

// watchCheck checks once, then again after every batch of changes, until
// ctx is done. Failed checks are reported without stopping the watch.
func watchCheck(ctx context.Context, cmdCtx *CommandContext) error {
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	var files []string
	if !cfg.UsesBuiltinDescriptor() {
		files = append(files, cfg.Descriptor)
	}
	w, err := watch.New(watch.Options{
		Root:     cfg.DocsDir,
		Files:    files,
		Debounce: cfg.Watch.Debounce,
		Ignore:   cfg.Watch.Ignore,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	recheck := func() {
		out, err := CheckSite(cmdCtx)
		if err != nil {
			cmdCtx.Renderer.Error(err.Error())
			return
		}
		if err := renderCheck(cmdCtx.Renderer, out); err != nil {
			logger.Warn("failed to render check", "error", err)
		}
	}

	recheck()
	logger.Info("watching for changes", "docs_dir", cfg.DocsDir, "debounce", cfg.Watch.Debounce.String())
	cmdCtx.Renderer.Println(cmdCtx.Renderer.Styles().Muted.Render(
		fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", cfg.DocsDir)))

	return w.Run(ctx, func(paths []string) {
		logger.Debug("re-checking", "changed", len(paths))
		if cmdCtx.Renderer.EffectiveMode() == output.ModeText {
			cmdCtx.Renderer.Println("")
			cmdCtx.Renderer.Println(cmdCtx.Renderer.Styles().Muted.Render(
				fmt.Sprintf("[%s] %s changed", time.Now().Format("15:04:05"), changedSummary(paths))))
		}
		recheck()
	})
}

func changedSummary(paths []string) string {
	if len(paths) == 1 {
		return paths[0]
	}
	return fmt.Sprintf("%d files", len(paths))
}

func renderCheck(r *output.Renderer, out *CheckOutput) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		renderCheckMarkdown(r, out)
	default:
		renderCheckText(r, out)
	}
	return nil
}

func renderCheckText(r *output.Renderer, out *CheckOutput) {
	styles := r.Styles()
	titleCaser := cases.Title(language.English)

	r.Println(styles.Muted.Render(fmt.Sprintf("descriptor: %s  docs: %s", out.Descriptor, out.DocsDir)))
	for _, g := range out.Groups {
		detail := ""
		if n := len(g.Problems); n > 0 {
			detail = fmt.Sprintf("(%d problems)", n)
		}
		r.StatusLine(titleCaser.String(g.Name), g.Status, detail)
		for _, p := range g.Problems {
			r.Println("   " + styles.Bold.Render(p.Path) + " " + p.Message)
		}
	}

	if out.Valid {
		r.Success("No problems found")
		return
	}
	r.Println(styles.Error.Render(fmt.Sprintf("%d problems found", out.ProblemCount)))
}

func renderCheckMarkdown(r *output.Renderer, out *CheckOutput) {
	titleCaser := cases.Title(language.English)

	r.Println("# Check")
	r.Println("")
	r.Println(output.FormatKeyValue("Descriptor", out.Descriptor))
	r.Println(output.FormatKeyValue("Docs", out.DocsDir))
	r.Println("")

	for _, g := range out.Groups {
		r.Println(output.FormatHeader(2, titleCaser.String(g.Name)))
		r.Println("")
		if len(g.Problems) == 0 {
			r.Println("No problems.")
			r.Println("")
			continue
		}
		for _, p := range g.Problems {
			r.Printf("- `%s`: %s\n", p.Path, p.Message)
		}
		r.Println("")
	}

	if out.Valid {
		r.Println("**Result**: no problems found")
		return
	}
	r.Printf("**Result**: %d problems found\n", out.ProblemCount)
}
