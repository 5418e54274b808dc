package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/styx11/styx/internal/cli/output"
	"github.com/styx11/styx/internal/content"
	"github.com/styx11/styx/pkg/site"
)

// ShowOptions holds options for the show command.
type ShowOptions struct {
	Headers bool
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the navigation bar and sidebars",
		Long: `Show the site metadata, the top navigation bar and every sidebar
section in authored order.

With --headers, each sidebar page is resolved against the docs directory and
listed with its document title and the headers the sidebar depth lets
through.

Output adapts to environment:
  - Terminal: Styled tables
  - Piped/Scripted: Markdown lists

Use --output to override: auto, text, markdown, json`,
		Example: `  # Show the built-in Styx navigation
  styx show

  # Include document titles and headers
  styx show --headers --docs-dir docs

  # Machine-readable
  styx show -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Headers, "headers", false, "Resolve pages against the docs directory and list their headers")

	return cmd
}

// ShowOutput is the JSON shape of the show command.
type ShowOutput struct {
	Meta         site.SiteMeta    `json:"meta"`
	Nav          []site.NavItem   `json:"nav"`
	SidebarDepth int              `json:"sidebarDepth"`
	Sidebar      []ShowSection    `json:"sidebar"`
	Outline      *content.Outline `json:"outline,omitempty"`
	Stats        *content.Stats   `json:"stats,omitempty"`
}

// ShowSection is one sidebar section with its page links.
type ShowSection struct {
	Prefix string   `json:"prefix"`
	Links  []string `json:"links"`
}

func runShow(cmd *cobra.Command, opts *ShowOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	desc, err := cmdCtx.LoadDescriptor()
	if err != nil {
		return err
	}

	var outline *content.Outline
	if opts.Headers {
		idx, err := cmdCtx.LoadIndex()
		if err != nil {
			return err
		}
		outline = content.BuildOutline(desc, idx)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return showJSON(r, desc, outline)
	case output.ModeMarkdown:
		showMarkdown(r, desc, outline)
	default:
		showText(r, desc, outline)
	}
	return nil
}

func showJSON(r *output.Renderer, desc *site.Descriptor, outline *content.Outline) error {
	out := ShowOutput{
		Meta:         desc.Meta(),
		Nav:          desc.ThemeConfig.Nav,
		SidebarDepth: desc.ThemeConfig.SidebarDepth,
		Sidebar:      make([]ShowSection, 0, len(desc.ThemeConfig.Sidebar)),
		Outline:      outline,
	}
	for _, sec := range desc.ThemeConfig.Sidebar {
		out.Sidebar = append(out.Sidebar, ShowSection{Prefix: sec.Prefix, Links: sec.Links()})
	}
	if outline != nil {
		stats := outline.Stats()
		out.Stats = &stats
	}
	return r.JSON(out)
}

func navKind(item site.NavItem) string {
	switch {
	case len(item.Items) > 0:
		return "dropdown"
	case item.IsExternal():
		return "external"
	default:
		return "internal"
	}
}

func showText(r *output.Renderer, desc *site.Descriptor, outline *content.Outline) {
	styles := r.Styles()
	meta := desc.Meta()

	r.Header(1, meta.Title)
	if meta.Description != "" {
		r.Println(styles.Muted.Render(meta.Description))
	}
	if meta.Favicon != "" {
		r.Println(styles.Muted.Render("favicon: " + meta.Favicon))
	}
	r.Println("")

	r.Header(2, "Navigation")
	var navRows []table.Row
	for _, item := range desc.ThemeConfig.Nav {
		item.Walk(func(n site.NavItem, depth int) {
			text := n.Text
			if depth > 0 {
				text = strings.Repeat("  ", depth-1) + "└ " + n.Text
			}
			navRows = append(navRows, table.Row{text, n.Link, navKind(n)})
		})
	}
	r.Table(table.Row{"Text", "Link", "Kind"}, navRows)
	r.Println("")

	r.Header(2, fmt.Sprintf("Sidebar (depth %d)", desc.ThemeConfig.SidebarDepth))
	for i, sec := range desc.ThemeConfig.Sidebar {
		r.Println(styles.Bold.Render(sec.Prefix))
		if outline == nil {
			rows := make([]table.Row, 0, len(sec.Pages))
			for j, link := range sec.Links() {
				rows = append(rows, table.Row{j + 1, pageLabel(sec.Pages[j]), link})
			}
			r.Table(table.Row{"#", "Page", "Link"}, rows)
		} else {
			resolved := outline.Sections[i]
			rows := make([]table.Row, 0, len(resolved.Pages))
			for j, page := range resolved.Pages {
				doc := page.Document
				if page.Missing {
					doc = styles.Error.Render("missing")
				}
				rows = append(rows, table.Row{j + 1, page.Link, page.Title, doc, headerLines(page.Headers)})
			}
			r.Table(table.Row{"#", "Link", "Title", "Document", "Headers"}, rows)
		}
		r.Println("")
	}

	if outline != nil {
		s := outline.Stats()
		r.Println(styles.Muted.Render(fmt.Sprintf("%d sections, %d pages, %d missing, %d headers",
			s.Sections, s.Pages, s.Missing, s.Headers)))
	}
}

func showMarkdown(r *output.Renderer, desc *site.Descriptor, outline *content.Outline) {
	meta := desc.Meta()

	r.Println(output.FormatHeader(1, meta.Title))
	r.Println("")
	if meta.Description != "" {
		r.Println(meta.Description)
		r.Println("")
	}
	if meta.Favicon != "" {
		r.Println(output.FormatKeyValue("Favicon", meta.Favicon))
	}
	r.Println(output.FormatKeyValue("Sidebar depth", fmt.Sprintf("%d", desc.ThemeConfig.SidebarDepth)))
	r.Println("")

	r.Println(output.FormatHeader(2, "Navigation"))
	r.Println("")
	for _, item := range desc.ThemeConfig.Nav {
		item.Walk(func(n site.NavItem, depth int) {
			indent := strings.Repeat("  ", depth)
			if n.Link == "" {
				r.Printf("%s- %s\n", indent, n.Text)
				return
			}
			r.Printf("%s- [%s](%s)\n", indent, n.Text, n.Link)
		})
	}
	r.Println("")

	r.Println(output.FormatHeader(2, "Sidebar"))
	r.Println("")
	for i, sec := range desc.ThemeConfig.Sidebar {
		r.Println(output.FormatHeader(3, sec.Prefix))
		r.Println("")
		if outline == nil {
			for j, link := range sec.Links() {
				r.Printf("%d. [%s](%s)\n", j+1, pageLabel(sec.Pages[j]), link)
			}
			r.Println("")
			continue
		}
		for j, page := range outline.Sections[i].Pages {
			title := page.Title
			if page.Missing {
				title += " (missing)"
			}
			r.Printf("%d. [%s](%s)\n", j+1, title, page.Link)
			for _, h := range page.Headers {
				r.Printf("%s- [%s](%s#%s)\n", strings.Repeat("  ", h.Level-1), h.Title, page.Link, h.Slug)
			}
		}
		r.Println("")
	}
}

func pageLabel(id string) string {
	if id == site.IndexPage {
		return "(index)"
	}
	return id
}

func headerLines(headers []content.Header) string {
	lines := make([]string, 0, len(headers))
	for _, h := range headers {
		lines = append(lines, strings.Repeat("  ", h.Level-2)+h.Title)
	}
	return strings.Join(lines, "\n")
}
