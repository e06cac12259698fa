// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// LogLevelDebug logs every staged file and copy.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs skipped packs and recoverable failures only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogLevel is the minimum level the CLI logger emits.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError collects every field error found by Config.Validate.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the full addonhelper configuration.
	// Empty directory fields are derived from ServerDir when the layout is built.
	Config struct {
		ServerDir        string      `json:"server_dir" mapstructure:"server_dir"`
		StagingDir       string      `json:"staging_dir" mapstructure:"staging_dir"`
		BehaviorPacksDir string      `json:"behavior_packs_dir" mapstructure:"behavior_packs_dir"`
		ResourcePacksDir string      `json:"resource_packs_dir" mapstructure:"resource_packs_dir"`
		WorldsDir        string      `json:"worlds_dir" mapstructure:"worlds_dir"`
		WorldName        string      `json:"world_name" mapstructure:"world_name"`
		BundlePatterns   []string    `json:"bundle_patterns" mapstructure:"bundle_patterns"`
		PackPatterns     []string    `json:"pack_patterns" mapstructure:"pack_patterns"`
		RestartHook      string      `json:"restart_hook" mapstructure:"restart_hook"`
		LogLevel         LogLevel    `json:"log_level" mapstructure:"log_level"`
		Watch            WatchConfig `json:"watch" mapstructure:"watch"`
		UI               UIConfig    `json:"ui" mapstructure:"ui"`
	}

	// WatchConfig configures the staging directory watcher.
	WatchConfig struct {
		// Debounce is the quiet period after the last file event before installing.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// InstallOnStart runs one install pass before watching.
		InstallOnStart bool `json:"install_on_start" mapstructure:"install_on_start"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file or environment overrides exist.
func DefaultConfig() *Config {
	return &Config{
		BundlePatterns: []string{"*.mcaddon"},
		PackPatterns:   []string{"*.mcpack"},
		LogLevel:       LogLevelInfo,
		Watch: WatchConfig{
			Debounce:       2 * time.Second,
			InstallOnStart: true,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Validate returns an error if the ColorScheme is not one of the defined schemes.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Validate returns an error if the LogLevel is not one of the defined levels.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Level converts the configured level for the charmbracelet logger.
func (l LogLevel) Level() log.Level {
	lvl, err := log.ParseLevel(string(l))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks the values CUE cannot see, such as environment overrides.
func (c *Config) Validate() error {
	var errs []error
	if err := c.LogLevel.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}
	if len(c.BundlePatterns)+len(c.PackPatterns) == 0 {
		errs = append(errs, errors.New("at least one of bundle_patterns or pack_patterns is required"))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}
