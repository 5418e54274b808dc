// Package content indexes the markdown documents behind the blog sidebar.
package content

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/sync/errgroup"
)

// Header is an h2 or h3 heading of a document.
type Header struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Document is a single markdown file of the docs root.
type Document struct {
	Path    string   `json:"path"`
	Title   string   `json:"title"`
	Headers []Header `json:"headers,omitempty"`
}

// Index holds every document found under a docs root, keyed by its
// slash-separated path relative to that root.
type Index struct {
	docs map[string]*Document
}

// Lookup returns the document at p.
func (idx *Index) Lookup(p string) (*Document, bool) {
	if idx == nil {
		return nil, false
	}
	doc, ok := idx.docs[p]
	return doc, ok
}

// Paths returns the document paths in lexical order.
func (idx *Index) Paths() []string {
	if idx == nil {
		return nil
	}
	paths := make([]string, 0, len(idx.docs))
	for p := range idx.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.docs)
}

// skipDir reports directories that never hold site pages: dot directories
// such as .vuepress and installed packages.
func skipDir(name string) bool {
	return name != "." && (strings.HasPrefix(name, ".") || name == "node_modules")
}

// Load walks fsys and parses every .md file. Documents are parsed
// concurrently; the first failure cancels the rest.
func Load(fsys fs.FS) (*Index, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.EqualFold(path.Ext(p), ".md") {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	docs := make([]*Document, len(paths))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			src, err := fs.ReadFile(fsys, p)
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			doc, err := parseDocument(newMarkdown(), p, src)
			if err != nil {
				return fmt.Errorf("parse %s: %w", p, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := &Index{docs: make(map[string]*Document, len(docs))}
	for _, doc := range docs {
		idx.docs[doc.Path] = doc
	}
	return idx, nil
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
}

type frontMatter struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

// parseDocument extracts the title and h2/h3 headers of a markdown file.
// A frontmatter title wins over the first h1; without either the file name
// is used.
func parseDocument(md goldmark.Markdown, p string, src []byte) (*Document, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: %w", err)
	}

	doc := &Document{Path: p, Title: strings.TrimSpace(fm.Title)}
	pctx := parser.NewContext(parser.WithIDs(newSlugger()))
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(pctx))

	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		title := strings.TrimSpace(string(heading.Text(body))) //nolint:staticcheck // plain text of the heading is all we need
		switch heading.Level {
		case 1:
			if doc.Title == "" {
				doc.Title = title
			}
		case 2, 3:
			doc.Headers = append(doc.Headers, Header{
				Level: heading.Level,
				Title: title,
				Slug:  headingID(heading),
			})
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(path.Base(p), path.Ext(p))
	}
	return doc, nil
}

func headingID(h *ast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}
