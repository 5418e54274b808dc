package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read as settings.
const EnvPrefix = "STYX_"

// maxUpwardSearchLevels limits how far up the directory tree to search for settings files.
const maxUpwardSearchLevels = 10

// flagKeys maps flag names whose setting key is not the snake_case flag name.
var flagKeys = map[string]string{
	"debounce": "watch.debounce",
	"ignore":   "watch.ignore",
}

// pathFlags are flags holding paths; explicit values resolve against the
// working directory rather than the settings root.
var pathFlags = map[string]string{
	"descriptor": "descriptor",
	"docs-dir":   "docs_dir",
}

// settingsFileIn returns the settings file in dir, or "".
func settingsFileIn(dir string) string {
	for _, name := range []string{SettingsFileName, SettingsFileNameAlt} {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// FindSettingsFile searches upward from startDir for a settings file.
// Returns empty string if not found within maxUpwardSearchLevels.
func FindSettingsFile(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if f := settingsFileIn(dir); f != "" {
			return f
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// envKey maps STYX_DOCS_DIR to docs_dir and STYX_WATCH_DEBOUNCE to
// watch.debounce.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "watch_"); ok {
		return "watch." + rest
	}
	return key
}

// flagKey maps a flag name to its setting key.
func flagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}

// defaultSettings returns every setting key with its default value.
func defaultSettings() map[string]interface{} {
	return map[string]interface{}{
		"descriptor":     "",
		"docs_dir":       DefaultDocsDir,
		"output":         DefaultOutput,
		"verbose":        false,
		"watch.debounce": DefaultDebounce.String(),
		"watch.ignore":   append([]string(nil), DefaultWatchIgnore...),
	}
}

// LoadConfig loads settings from the working directory.
// Precedence (highest to lowest): flags > env vars > settings file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return LoadConfigFrom(wd, cfgFile, flags)
}

// LoadConfigFrom loads settings as if styx ran in workDir. An explicit
// cfgFile must exist; otherwise styx.yaml or styx.yml is searched upward
// from workDir.
func LoadConfigFrom(workDir, cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	defaults := defaultSettings()
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load the settings file
	settingsFile := resolvePathRelativeTo(cfgFile, workDir)
	if settingsFile == "" {
		settingsFile = FindSettingsFile(workDir)
	}
	root := workDir
	if settingsFile != "" {
		if err := k.Load(file.Provider(settingsFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading settings file %s: %w", settingsFile, err)
		}
		root = filepath.Dir(settingsFile)
	}

	// 3. Load environment variables (STYX_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and settings file)
	explicitPaths := make(map[string]string)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Command flags such as check --watch are not settings.
			key := flagKey(f.Name)
			if _, ok := defaults[key]; !ok {
				return "", nil
			}
			if pathKey, ok := pathFlags[f.Name]; ok && f.Value.String() != "" {
				explicitPaths[pathKey] = resolvePathRelativeTo(f.Value.String(), workDir)
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}

	// 6. Resolve relative paths against the settings root; flag paths
	// were given relative to the working directory.
	cfg.Root = root
	cfg.SettingsFile = settingsFile
	cfg.DocsDir = resolvePathRelativeTo(cfg.DocsDir, root)
	cfg.Descriptor = resolvePathRelativeTo(cfg.Descriptor, root)
	if p, ok := explicitPaths["docs_dir"]; ok {
		cfg.DocsDir = p
	}
	if p, ok := explicitPaths["descriptor"]; ok {
		cfg.Descriptor = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &cfg, nil
}
