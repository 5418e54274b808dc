// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

// TestDescriptor is the descriptor written by SetupTestSite.
const TestDescriptor = `title: Test Site
description: CLI fixture
themeConfig:
  nav:
    - text: Home
      link: /
    - text: Guide
      link: /guide/
    - text: Source
      link: https://example.com/source
  sidebarDepth: 2
  sidebar:
    /guide/:
      - ""
      - install
`

// SetupTestSite creates a temporary site: a styx.yaml settings file, the
// site.yaml descriptor and a docs directory backing every page. It returns
// the site root.
func SetupTestSite(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"styx.yaml":             "descriptor: site.yaml\ndocs_dir: docs\n",
		"site.yaml":             TestDescriptor,
		"docs/README.md":        "# Home\n",
		"docs/guide/README.md":  "# Guide\n\n## Overview\n\n### Audience\n",
		"docs/guide/install.md": "---\ntitle: Installing\n---\n\n## Requirements\n",
		"docs/.vuepress/x.md":   "# hidden\n",
		"docs/guide/notes.txt":  "not markdown\n",
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return root
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// StripANSI removes ANSI escape codes from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
