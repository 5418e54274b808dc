package site

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// MaxSidebarDepth is the deepest header level the sidebar can expand to.
const MaxSidebarDepth = 3

// Problem is a single defect found in a descriptor.
type Problem struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	return p.Path + ": " + p.Message
}

// ValidationError carries every problem found by Validate or
// CheckDocuments.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return e.Problems[0].String()
	}
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		lines[i] = "  " + p.String()
	}
	return fmt.Sprintf("%d problems:\n%s", len(e.Problems), strings.Join(lines, "\n"))
}

// ProblemsOf extracts the problems carried by err, if any.
func ProblemsOf(err error) []Problem {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Problems
	}
	return nil
}

type problems []Problem

func (ps *problems) add(path, format string, args ...interface{}) {
	*ps = append(*ps, Problem{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (ps problems) err() error {
	if len(ps) == 0 {
		return nil
	}
	return &ValidationError{Problems: ps}
}

// Validate checks the structure of d and reports all problems at once.
func (d *Descriptor) Validate() error {
	var ps problems

	if strings.TrimSpace(d.Title) == "" {
		ps.add("title", "must not be empty")
	}

	tc := d.ThemeConfig
	if tc.SidebarDepth < 0 || tc.SidebarDepth > MaxSidebarDepth {
		ps.add("themeConfig.sidebarDepth", "must be between 0 and %d, got %d", MaxSidebarDepth, tc.SidebarDepth)
	}

	for i, h := range tc.Head {
		if strings.TrimSpace(h.Tag) == "" {
			ps.add(fmt.Sprintf("themeConfig.head[%d]", i), "tag name is required")
		}
	}

	for i, item := range tc.Nav {
		validateNav(&ps, fmt.Sprintf("themeConfig.nav[%d]", i), item)
	}

	seen := make(map[string]bool, len(tc.Sidebar))
	for _, sec := range tc.Sidebar {
		path := fmt.Sprintf("themeConfig.sidebar[%q]", sec.Prefix)
		if !strings.HasPrefix(sec.Prefix, "/") || !strings.HasSuffix(sec.Prefix, "/") {
			ps.add(path, "prefix must start and end with /")
		}
		if seen[sec.Prefix] {
			ps.add(path, "duplicate prefix")
		}
		seen[sec.Prefix] = true

		pages := make(map[string]int, len(sec.Pages))
		for j, id := range sec.Pages {
			pagePath := fmt.Sprintf("%s[%d]", path, j)
			if first, dup := pages[id]; dup {
				ps.add(pagePath, "page %q already listed at index %d", id, first)
				continue
			}
			pages[id] = j
			if strings.Contains(id, "/") {
				ps.add(pagePath, "page %q must not contain /", id)
			}
			if strings.HasSuffix(id, ".md") || strings.HasSuffix(id, ".html") {
				ps.add(pagePath, "page %q must not carry a file extension", id)
			}
		}
	}

	return ps.err()
}

func validateNav(ps *problems, path string, item NavItem) {
	if strings.TrimSpace(item.Text) == "" {
		ps.add(path, "text is required")
	}
	if item.Link == "" && len(item.Items) == 0 {
		ps.add(path, "link is required unless the item has sub-items")
	}
	if item.Link != "" && !item.IsExternal() && !strings.HasPrefix(item.Link, "/") {
		ps.add(path, "internal link %q must be absolute", item.Link)
	}
	for i, child := range item.Items {
		validateNav(ps, fmt.Sprintf("%s.items[%d]", path, i), child)
	}
}

// CheckDocuments verifies that every sidebar page and every internal nav
// link resolves to a markdown document in fsys, the docs root.
func (d *Descriptor) CheckDocuments(fsys fs.FS) error {
	var ps problems

	for _, sec := range d.ThemeConfig.Sidebar {
		for j, id := range sec.Pages {
			candidates := sec.DocumentCandidates(id)
			if _, ok := firstExisting(fsys, candidates); !ok {
				ps.add(fmt.Sprintf("themeConfig.sidebar[%q][%d]", sec.Prefix, j),
					"no document for page %q (looked for %s)", id, strings.Join(candidates, ", "))
			}
		}
	}

	for i, item := range d.ThemeConfig.Nav {
		checkNavDocuments(&ps, fsys, fmt.Sprintf("themeConfig.nav[%d]", i), item)
	}

	return ps.err()
}

func checkNavDocuments(ps *problems, fsys fs.FS, path string, item NavItem) {
	if item.Link != "" && !item.IsExternal() {
		candidates := LinkDocumentCandidates(item.Link)
		if _, ok := firstExisting(fsys, candidates); !ok {
			ps.add(path, "no document for link %q (looked for %s)", item.Link, strings.Join(candidates, ", "))
		}
	}
	for i, child := range item.Items {
		checkNavDocuments(ps, fsys, fmt.Sprintf("%s.items[%d]", path, i), child)
	}
}

// ResolveDocument returns the first existing document among the
// candidates for page id of sec.
func ResolveDocument(fsys fs.FS, sec SidebarSection, id string) (string, bool) {
	return firstExisting(fsys, sec.DocumentCandidates(id))
}

func firstExisting(fsys fs.FS, candidates []string) (string, bool) {
	for _, c := range candidates {
		info, err := fs.Stat(fsys, c)
		if err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}
