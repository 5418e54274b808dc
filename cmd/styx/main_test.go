// Package main provides tests for the Styx CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/styx11/styx/internal/cli"
)

func testdataDir(t *testing.T) string {
	t.Helper()
	// Get the absolute path to testdata directory
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	return filepath.Join(wd, "..", "..", "testdata")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := run(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "Styx") {
		t.Errorf("version output should contain 'Styx', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := run(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"show", "export", "check", "resolve", "completion", "version"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestShowCommand(t *testing.T) {
	td := testdataDir(t)

	output, err := run(t, "show", "--config", filepath.Join(td, "styx.yaml"), "--output", "markdown", "--headers")
	if err != nil {
		t.Fatalf("show command error = %v", err)
	}

	for _, want := range []string{
		"# Styx",
		"- Blog",
		"  - [Koa](/blog/Koa/)",
		"1. [Koa Basics](/blog/Koa/)",
		"2. [Koa, Part Two](/blog/Koa/koa_second_part.html)",
		"  - [Usage](/blog/Node/zlib.html#usage)",
		"  - [Usage](/blog/Node/zlib.html#usage-1)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("show output should contain %q, got: %s", want, output)
		}
	}
}

func TestCheckCommand(t *testing.T) {
	td := testdataDir(t)

	output, err := run(t, "check", "--config", filepath.Join(td, "styx.yaml"), "-o", "json")
	if err != nil {
		t.Fatalf("check command error = %v\n%s", err, output)
	}

	var result struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("check output is not JSON: %v\n%s", err, output)
	}
	if !result.Valid {
		t.Errorf("testdata site should be valid, got: %s", output)
	}
}

func TestCheckCommandMissingDocs(t *testing.T) {
	td := testdataDir(t)

	_, err := run(t, "check", "--config", filepath.Join(td, "styx.yaml"), "--docs-dir", t.TempDir(), "-o", "markdown")
	if err == nil {
		t.Fatal("check against an empty docs dir should fail")
	}
	if !strings.Contains(err.Error(), "problems found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExportCommand(t *testing.T) {
	td := testdataDir(t)
	out := filepath.Join(t.TempDir(), "config.js")

	if _, err := run(t, "export", "--config", filepath.Join(td, "styx.yaml"), "--out", out); err != nil {
		t.Fatalf("export command error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("export did not write %s: %v", out, err)
	}
	if !strings.Contains(string(data), "module.exports = {") {
		t.Errorf("exported module should assign module.exports, got: %s", data)
	}
	koa := strings.Index(string(data), `"/blog/Koa/"`)
	node := strings.Index(string(data), `"/blog/Node/"`)
	if koa < 0 || node < 0 || koa > node {
		t.Errorf("sidebar sections should keep their order, got: %s", data)
	}
}

func TestResolveCommand(t *testing.T) {
	td := testdataDir(t)

	output, err := run(t, "resolve", "/blog/Node/zlib.html", "--config", filepath.Join(td, "styx.yaml"), "-o", "markdown")
	if err != nil {
		t.Fatalf("resolve command error = %v", err)
	}
	if !strings.Contains(output, "2. [zlib](/blog/Node/zlib.html) **(active)**") {
		t.Errorf("resolve should mark the active page, got: %s", output)
	}

	if _, err := run(t, "resolve", "/about/", "--config", filepath.Join(td, "styx.yaml")); err == nil {
		t.Error("resolve of an unknown section should fail")
	}
}

func TestBuiltinDescriptor(t *testing.T) {
	output, err := run(t, "show", "--docs-dir", t.TempDir(), "-o", "markdown")
	if err != nil {
		t.Fatalf("show command error = %v", err)
	}
	if !strings.Contains(output, "### /blog/FontEnd_Construction/") {
		t.Errorf("built-in descriptor should list its sections, got: %s", output)
	}
}
