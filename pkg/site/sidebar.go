package site

import (
	"path"
	"strings"
)

// IndexPage is the page identifier of a section's index document.
const IndexPage = ""

// SidebarSection is the ordered list of pages shown while browsing under
// Prefix. Pages are identifiers relative to Prefix; IndexPage denotes the
// section index.
type SidebarSection struct {
	Prefix string
	Pages  []string
}

// Sidebar is the ordered set of sidebar sections. It serializes as a
// mapping from prefix to page list, keeping the authored key order.
type Sidebar []SidebarSection

// Prefixes returns the section prefixes in order.
func (s Sidebar) Prefixes() []string {
	out := make([]string, len(s))
	for i, sec := range s {
		out[i] = sec.Prefix
	}
	return out
}

// Section returns the section registered under exactly prefix.
func (s Sidebar) Section(prefix string) (SidebarSection, bool) {
	for _, sec := range s {
		if sec.Prefix == prefix {
			return sec, true
		}
	}
	return SidebarSection{}, false
}

// Match returns the section shown for the page at urlPath. Sections are
// tried in authored order and the first prefix that urlPath falls under
// wins.
func (s Sidebar) Match(urlPath string) (SidebarSection, bool) {
	p := ensureEndingSlash(urlPath)
	for _, sec := range s {
		if strings.HasPrefix(p, ensureEndingSlash(sec.Prefix)) {
			return sec, true
		}
	}
	return SidebarSection{}, false
}

func (s Sidebar) clone() Sidebar {
	if s == nil {
		return nil
	}
	out := make(Sidebar, len(s))
	for i, sec := range s {
		out[i] = SidebarSection{Prefix: sec.Prefix}
		if sec.Pages != nil {
			out[i].Pages = append([]string(nil), sec.Pages...)
		}
	}
	return out
}

// Link returns the URL of page id within the section.
func (sec SidebarSection) Link(id string) string {
	base := ensureEndingSlash(sec.Prefix)
	if id == IndexPage {
		return base
	}
	return base + id + ".html"
}

// Links returns the URLs of all pages, in order.
func (sec SidebarSection) Links() []string {
	out := make([]string, len(sec.Pages))
	for i, id := range sec.Pages {
		out[i] = sec.Link(id)
	}
	return out
}

// DocumentPath returns the canonical markdown source of page id, relative
// to the docs root.
func (sec SidebarSection) DocumentPath(id string) string {
	return sec.DocumentCandidates(id)[0]
}

// DocumentCandidates lists the markdown files that may back page id, most
// preferred first. Index pages accept README.md or index.md.
func (sec SidebarSection) DocumentCandidates(id string) []string {
	dir := strings.TrimPrefix(ensureEndingSlash(sec.Prefix), "/")
	if id == IndexPage {
		return []string{dir + "README.md", dir + "index.md"}
	}
	return []string{dir + id + ".md"}
}

// LinkDocumentCandidates maps an internal site link (as used by nav items)
// to the markdown files that may back it.
func LinkDocumentCandidates(link string) []string {
	link, _, _ = strings.Cut(link, "#")
	if strings.HasSuffix(link, "/") || link == "" {
		return SidebarSection{Prefix: ensureEndingSlash(link)}.DocumentCandidates(IndexPage)
	}
	dir, file := path.Split(link)
	file = strings.TrimSuffix(file, ".html")
	return SidebarSection{Prefix: dir}.DocumentCandidates(file)
}

func ensureEndingSlash(p string) string {
	if p == "" {
		return "/"
	}
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, ".html") {
		return p
	}
	return p + "/"
}
