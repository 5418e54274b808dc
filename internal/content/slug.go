package content

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// slugger generates heading anchors the way the site generator does:
// letters and digits of any script are kept, runs of anything else become
// a single hyphen, and repeated slugs get -1, -2, ... suffixes.
type slugger struct {
	seen  map[string]bool
	lower cases.Caser
}

func newSlugger() *slugger {
	return &slugger{seen: make(map[string]bool), lower: cases.Lower(language.Und)}
}

// Slug returns the anchor for a heading titled s, without deduplication.
func (sl *slugger) Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range sl.lower.String(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	slug := b.String()
	if slug == "" {
		return "heading"
	}
	if slug[0] >= '0' && slug[0] <= '9' {
		slug = "_" + slug
	}
	return slug
}

// Generate implements parser.IDs.
func (sl *slugger) Generate(value []byte, _ ast.NodeKind) []byte {
	base := sl.Slug(string(value))
	slug := base
	for i := 1; sl.seen[slug]; i++ {
		slug = base + "-" + strconv.Itoa(i)
	}
	sl.seen[slug] = true
	return []byte(slug)
}

// Put implements parser.IDs.
func (sl *slugger) Put(value []byte) {
	sl.seen[string(value)] = true
}
