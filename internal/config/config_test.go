package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/styx11/styx/internal/testutil"
)

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("descriptor", "", "descriptor file")
	flags.String("docs-dir", "", "docs directory")
	flags.StringP("output", "o", "", "output format")
	flags.BoolP("verbose", "v", false, "verbose")
	flags.Duration("debounce", 0, "watch debounce")
	return flags
}

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, SettingsFileName)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfigFrom(dir, "", nil)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Root)
	assert.Empty(t, cfg.SettingsFile)
	assert.True(t, cfg.UsesBuiltinDescriptor())
	assert.Equal(t, filepath.Join(dir, DefaultDocsDir), cfg.DocsDir)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	assert.Equal(t, DefaultWatchIgnore, cfg.Watch.Ignore)
}

func TestLoadConfig_SettingsFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `descriptor: site/config.yml
docs_dir: content
output: json
watch:
  debounce: 1s
  ignore: [drafts]
`)

	cfg, err := LoadConfigFrom(dir, "", nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, SettingsFileName), cfg.SettingsFile)
	assert.Equal(t, filepath.Join(dir, "site", "config.yml"), cfg.Descriptor)
	assert.Equal(t, filepath.Join(dir, "content"), cfg.DocsDir)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, []string{"drafts"}, cfg.Watch.Ignore)
}

func TestLoadConfig_SearchesUpward(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, "docs_dir: blog\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	cfg, err := LoadConfigFrom(nested, "", nil)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, filepath.Join(root, "blog"), cfg.DocsDir)
}

func TestLoadConfig_AltFileName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileNameAlt), []byte("output: text\n"), 0o600))

	cfg, err := LoadConfigFrom(dir, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.OutputFormat)
}

func TestLoadConfig_ExplicitFileMustExist(t *testing.T) {
	_, err := LoadConfigFrom(t.TempDir(), "missing.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading settings file")
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "output: json\nwatch:\n  debounce: 1s\n")

	t.Setenv("STYX_OUTPUT", "markdown")
	t.Setenv("STYX_WATCH_DEBOUNCE", "750ms")
	t.Setenv("STYX_WATCH_IGNORE", "drafts,tmp")

	cfg, err := LoadConfigFrom(dir, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "markdown", cfg.OutputFormat, "env var should override settings file")
	assert.Equal(t, 750*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, []string{"drafts", "tmp"}, cfg.Watch.Ignore)
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "output: json\n")
	t.Setenv("STYX_OUTPUT", "markdown")

	flags := newFlagSet()
	require.NoError(t, flags.Set("output", "text"))
	require.NoError(t, flags.Set("debounce", "2s"))

	cfg, err := LoadConfigFrom(dir, "", flags)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.OutputFormat, "flag value should override settings file and env var")
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
}

func TestLoadConfig_CommandFlagsAreNotSettings(t *testing.T) {
	dir := t.TempDir()

	flags := newFlagSet()
	flags.Bool("watch", false, "watch mode")
	flags.String("format", "", "export format")
	require.NoError(t, flags.Set("watch", "true"))
	require.NoError(t, flags.Set("format", "js"))

	cfg, err := LoadConfigFrom(dir, "", flags)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	assert.Equal(t, DefaultWatchIgnore, cfg.Watch.Ignore)
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STYX_OUTPUT", "markdown")

	flags := newFlagSet()

	cfg, err := LoadConfigFrom(dir, "", flags)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat, "env var should be used when flag is not set")
}

func TestLoadConfig_FlagPathsResolveAgainstWorkDir(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, "docs_dir: from_file\n")
	work := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(work, 0o750))

	flags := newFlagSet()
	require.NoError(t, flags.Set("docs-dir", "from_flag"))
	require.NoError(t, flags.Set("descriptor", "site.json"))

	cfg, err := LoadConfigFrom(work, "", flags)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, filepath.Join(work, "from_flag"), cfg.DocsDir)
	assert.Equal(t, filepath.Join(work, "site.json"), cfg.Descriptor)
}

func TestLoadConfig_InvalidOutput(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "output: html\n")

	_, err := LoadConfigFrom(dir, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{DocsDir: "docs", OutputFormat: "auto", Watch: WatchConfig{Debounce: time.Second}}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		errSubstr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty docs_dir", mutate: func(c *Config) { c.DocsDir = "" }, errSubstr: "docs_dir is required"},
		{name: "bad output", mutate: func(c *Config) { c.OutputFormat = "xml" }, errSubstr: "invalid output format"},
		{name: "zero debounce", mutate: func(c *Config) { c.Watch.Debounce = 0 }, errSubstr: "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "docs_dir", envKey("STYX_DOCS_DIR"))
	assert.Equal(t, "watch.debounce", envKey("STYX_WATCH_DEBOUNCE"))
	assert.Equal(t, "verbose", envKey("STYX_VERBOSE"))
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	assert.NotNil(t, GetLogger(ctx), "missing logger falls back to discard")
	def := FromContext(ctx)
	assert.Equal(t, DefaultOutput, def.OutputFormat)
	assert.NoError(t, def.Validate())

	logger := testutil.NewTestLogger(t)
	cfg := &Config{OutputFormat: "json"}
	ctx = WithConfig(WithLogger(ctx, logger), cfg)

	assert.Same(t, logger, GetLogger(ctx))
	assert.Same(t, cfg, FromContext(ctx))
}
