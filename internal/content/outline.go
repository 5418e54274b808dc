package content

import (
	"github.com/styx11/styx/pkg/site"
)

// OutlinePage is one sidebar entry resolved against the docs root.
type OutlinePage struct {
	ID       string   `json:"id"`
	Link     string   `json:"link"`
	Document string   `json:"document,omitempty"`
	Title    string   `json:"title"`
	Headers  []Header `json:"headers,omitempty"`
	Missing  bool     `json:"missing,omitempty"`
}

// OutlineSection is the resolved sidebar of one URL prefix.
type OutlineSection struct {
	Prefix string        `json:"prefix"`
	Pages  []OutlinePage `json:"pages"`
}

// Outline is the sidebar as the reader sees it.
type Outline struct {
	Depth    int              `json:"depth"`
	Sections []OutlineSection `json:"sections"`
}

// Stats counts what the outline resolved.
type Stats struct {
	Sections int `json:"sections"`
	Pages    int `json:"pages"`
	Missing  int `json:"missing"`
	Headers  int `json:"headers"`
}

// BuildOutline resolves every sidebar page of desc against idx, keeping
// the headers allowed by the sidebar depth. A page whose document is not
// indexed is kept and flagged Missing.
func BuildOutline(desc *site.Descriptor, idx *Index) *Outline {
	depth := desc.ThemeConfig.SidebarDepth
	out := &Outline{
		Depth:    depth,
		Sections: make([]OutlineSection, 0, len(desc.ThemeConfig.Sidebar)),
	}

	for _, sec := range desc.ThemeConfig.Sidebar {
		resolved := OutlineSection{
			Prefix: sec.Prefix,
			Pages:  make([]OutlinePage, 0, len(sec.Pages)),
		}
		for _, id := range sec.Pages {
			page := OutlinePage{ID: id, Link: sec.Link(id)}
			doc := lookupFirst(idx, sec.DocumentCandidates(id))
			if doc == nil {
				page.Missing = true
				page.Title = fallbackTitle(sec, id)
			} else {
				page.Document = doc.Path
				page.Title = doc.Title
				page.Headers = headersUpTo(doc.Headers, depth)
			}
			resolved.Pages = append(resolved.Pages, page)
		}
		out.Sections = append(out.Sections, resolved)
	}
	return out
}

// Stats summarizes the outline.
func (o *Outline) Stats() Stats {
	s := Stats{Sections: len(o.Sections)}
	for _, sec := range o.Sections {
		s.Pages += len(sec.Pages)
		for _, p := range sec.Pages {
			if p.Missing {
				s.Missing++
			}
			s.Headers += len(p.Headers)
		}
	}
	return s
}

func lookupFirst(idx *Index, candidates []string) *Document {
	for _, c := range candidates {
		if doc, ok := idx.Lookup(c); ok {
			return doc
		}
	}
	return nil
}

func fallbackTitle(sec site.SidebarSection, id string) string {
	if id != site.IndexPage {
		return id
	}
	return sec.Prefix
}

// headersUpTo keeps h2 for depth 1 and h2/h3 from depth 2 on.
func headersUpTo(headers []Header, depth int) []Header {
	if depth <= 0 {
		return nil
	}
	maxLevel := 3
	if depth == 1 {
		maxLevel = 2
	}
	var out []Header
	for _, h := range headers {
		if h.Level <= maxLevel {
			out = append(out, h)
		}
	}
	return out
}
