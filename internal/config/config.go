// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/addonhelper/addonhelper/internal/issue"
	"github.com/addonhelper/addonhelper/pkg/cueutil"
	"github.com/addonhelper/addonhelper/pkg/fspath"
	"github.com/addonhelper/addonhelper/pkg/platform"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "addonhelper"
	// ConfigFileName is the name of the config file inside the config directory.
	ConfigFileName = "config.cue"
	// LocalFileName is the config file looked up in the working directory.
	LocalFileName = AppName + ".cue"
	// EnvPrefix prefixes every environment override (ADDONHELPER_WORLD_NAME, ...).
	EnvPrefix = "ADDONHELPER"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the addonhelper configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions resolves the config file, merges it over the defaults and
// applies environment overrides. The returned path is empty when no file was found.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := resolvePath(opts)
	if err != nil {
		return nil, "", err
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'addonhelper config show' to see the defaults").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for typos").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// resolvePath applies the lookup order: explicit file, config directory, working directory.
func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'addonhelper config init' to create a default file").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		var err error
		if cfgDir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	if p := filepath.Join(cfgDir, ConfigFileName); fileExists(p) {
		return p, nil
	}

	local := LocalFileName
	if opts.WorkDir != "" {
		local = filepath.Join(opts.WorkDir, LocalFileName)
	}
	if fileExists(local) {
		return local, nil
	}
	return "", nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("server_dir", d.ServerDir)
	v.SetDefault("staging_dir", d.StagingDir)
	v.SetDefault("behavior_packs_dir", d.BehaviorPacksDir)
	v.SetDefault("resource_packs_dir", d.ResourcePacksDir)
	v.SetDefault("worlds_dir", d.WorldsDir)
	v.SetDefault("world_name", d.WorldName)
	v.SetDefault("bundle_patterns", d.BundlePatterns)
	v.SetDefault("pack_patterns", d.PackPatterns)
	v.SetDefault("restart_hook", d.RestartHook)
	v.SetDefault("log_level", string(d.LogLevel))
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("watch.install_on_start", d.Watch.InstallOnStart)
	v.SetDefault("ui.color_scheme", string(d.UI.ColorScheme))
	v.SetDefault("ui.verbose", d.UI.Verbose)
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into Viper.
// Fields stay optional, so unification is not required to be concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	unified, err := cueutil.Unify(configSchema, data, "#Config",
		cueutil.WithConcrete(false),
		cueutil.WithFilename(path))
	if err != nil {
		return err
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config.cue into dir unless one exists.
// It returns the file path and whether a file was written.
func CreateDefaultConfig(dir string) (string, bool, error) {
	cfgPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.MkdirAll(dir, fspath.DirPerm); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := fspath.WriteAtomic(cfgPath, []byte(GenerateCUE(DefaultConfig()))); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return cfgPath, true, nil
}

// GenerateCUE renders cfg as a config file. Empty directory settings are
// emitted as comments since they are derived from server_dir.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// addonhelper configuration\n")
	sb.WriteString("// Directories left unset are derived from server_dir.\n\n")

	for _, f := range []struct{ key, value string }{
		{"server_dir", cfg.ServerDir},
		{"staging_dir", cfg.StagingDir},
		{"behavior_packs_dir", cfg.BehaviorPacksDir},
		{"resource_packs_dir", cfg.ResourcePacksDir},
		{"worlds_dir", cfg.WorldsDir},
		{"world_name", cfg.WorldName},
		{"restart_hook", cfg.RestartHook},
	} {
		if f.value == "" {
			fmt.Fprintf(&sb, "// %s: \"\"\n", f.key)
			continue
		}
		fmt.Fprintf(&sb, "%s: %q\n", f.key, f.value)
	}

	fmt.Fprintf(&sb, "\nbundle_patterns: %s\n", cueList(cfg.BundlePatterns))
	fmt.Fprintf(&sb, "pack_patterns: %s\n", cueList(cfg.PackPatterns))
	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)

	sb.WriteString("\nwatch: {\n")
	fmt.Fprintf(&sb, "\tdebounce: %q\n", cfg.Watch.Debounce.String())
	fmt.Fprintf(&sb, "\tinstall_on_start: %v\n", cfg.Watch.InstallOnStart)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

func cueList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, it := range items {
		quoted = append(quoted, fmt.Sprintf("%q", it))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
