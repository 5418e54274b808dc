package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/styx11/styx/internal/cli/output"
	"github.com/styx11/styx/pkg/site"
)

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Show which sidebar applies to a URL path",
		Long: `Resolve a site URL path to the sidebar section the site generator
shows for it. Sections are tried in authored order and the first whose
prefix starts the path wins, so more specific prefixes must come first.

The section's pages are listed in order; the page the path points at is
marked.`,
		Example: `  styx resolve /koa/
  styx resolve /koa/context.html
  styx resolve /projects/ -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args[0])
		},
	}
	return cmd
}

// ResolvedPage is one page of a resolved section.
type ResolvedPage struct {
	ID     string `json:"id"`
	Link   string `json:"link"`
	Active bool   `json:"active"`
}

// ResolveOutput is the JSON shape of the resolve command.
type ResolveOutput struct {
	Path   string         `json:"path"`
	Prefix string         `json:"prefix"`
	Pages  []ResolvedPage `json:"pages"`
}

// ResolvePath matches urlPath against the sidebar. A query or fragment is
// ignored.
func ResolvePath(desc *site.Descriptor, urlPath string) (*ResolveOutput, error) {
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}
	page := urlPath
	if i := strings.IndexAny(page, "#?"); i >= 0 {
		page = page[:i]
	}
	sec, ok := desc.ThemeConfig.Sidebar.Match(page)
	if !ok {
		return nil, fmt.Errorf("no sidebar section matches %s", urlPath)
	}

	out := &ResolveOutput{Path: urlPath, Prefix: sec.Prefix, Pages: make([]ResolvedPage, 0, len(sec.Pages))}
	for _, id := range sec.Pages {
		link := sec.Link(id)
		out.Pages = append(out.Pages, ResolvedPage{ID: id, Link: link, Active: pointsAt(page, link)})
	}
	return out, nil
}

// pointsAt reports whether the site path p serves the page at link. Index
// pages are also served as index.html or README.html, and pages with or
// without their .html extension.
func pointsAt(p, link string) bool {
	if p == link {
		return true
	}
	if dir, ok := strings.CutSuffix(link, "/"); ok {
		return p == dir || p == link+"index.html" || p == link+"README.html"
	}
	return p+".html" == link
}

func runResolve(cmd *cobra.Command, urlPath string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	desc, err := cmdCtx.LoadDescriptor()
	if err != nil {
		return err
	}
	out, err := ResolvePath(desc, urlPath)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("resolved sidebar", "path", out.Path, "prefix", out.Prefix)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, out.Prefix))
		r.Println("")
		for i, p := range out.Pages {
			line := fmt.Sprintf("%d. [%s](%s)", i+1, pageLabel(p.ID), p.Link)
			if p.Active {
				line += " **(active)**"
			}
			r.Println(line)
		}
	default:
		styles := r.Styles()
		r.Println(styles.Muted.Render(out.Path+" ->") + " " + styles.Bold.Render(out.Prefix))
		rows := make([]table.Row, 0, len(out.Pages))
		for i, p := range out.Pages {
			marker := ""
			if p.Active {
				marker = styles.Success.Render("●")
			}
			rows = append(rows, table.Row{i + 1, marker, pageLabel(p.ID), p.Link})
		}
		r.Table(table.Row{"#", "", "Page", "Link"}, rows)
	}
	return nil
}
