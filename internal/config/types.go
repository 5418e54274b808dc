// Package config holds the settings of the styx command.
//
// Settings are layered with koanf. Precedence, highest first: flags, STYX_*
// environment variables, the settings file (styx.yaml or styx.yml), and the
// built-in defaults.
package config

import (
	"fmt"
	"time"
)

// SettingsFileName is the name of the settings file.
const SettingsFileName = "styx.yaml"

// SettingsFileNameAlt is the alternate name of the settings file.
const SettingsFileNameAlt = "styx.yml"

// Default setting values.
const (
	DefaultDocsDir  = "docs"
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultDebounce = 200 * time.Millisecond
)

// DefaultWatchIgnore lists the paths under the docs dir that never trigger
// a re-check.
var DefaultWatchIgnore = []string{".vuepress/dist", "node_modules", "*.swp", "*~"}

// Config holds all settings of the styx command.
type Config struct {
	// Descriptor is the descriptor file to load. Empty means the built-in
	// Styx descriptor.
	Descriptor   string      `koanf:"descriptor"`
	DocsDir      string      `koanf:"docs_dir"`
	OutputFormat string      `koanf:"output"`
	Verbose      bool        `koanf:"verbose"`
	Watch        WatchConfig `koanf:"watch"`

	// Root is the directory relative paths are resolved against: the
	// directory of the settings file, or the working directory.
	Root string `koanf:"-"`
	// SettingsFile is the settings file that was loaded, if any.
	SettingsFile string `koanf:"-"`
}

// WatchConfig holds settings for check --watch.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
	Ignore   []string      `koanf:"ignore"`
}

var outputModes = map[string]bool{
	"auto":     true,
	"text":     true,
	"markdown": true,
	"json":     true,
}

// Validate checks the loaded settings.
func (c *Config) Validate() error {
	if c.DocsDir == "" {
		return fmt.Errorf("docs_dir is required")
	}
	if !outputModes[c.OutputFormat] {
		return fmt.Errorf("invalid output format %q (want auto, text, markdown or json)", c.OutputFormat)
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be positive, got %s", c.Watch.Debounce)
	}
	return nil
}

// UsesBuiltinDescriptor reports whether no descriptor file is configured.
func (c *Config) UsesBuiltinDescriptor() bool {
	return c.Descriptor == ""
}
