// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/addonhelper/addonhelper/internal/issue"
	"github.com/addonhelper/addonhelper/internal/testutil"

	"github.com/google/go-cmp/cmp"
)

// isolate points every lookup location at empty temp directories and clears
// environment overrides that could leak in from the host.
func isolate(t *testing.T) LoadOptions {
	t.Helper()
	for _, key := range []string{"SERVER_DIR", "WORLD_NAME", "LOG_LEVEL", "STAGING_DIR", "WATCH_DEBOUNCE", "BUNDLE_PATTERNS"} {
		t.Setenv(EnvPrefix+"_"+key, "")
	}
	return LoadOptions{ConfigDirPath: t.TempDir(), WorkDir: t.TempDir()}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.ServerDir != "" || cfg.StagingDir != "" || cfg.WorldName != "" {
		t.Errorf("directories should be derived, got %+v", cfg)
	}
	if diff := cmp.Diff([]string{"*.mcaddon"}, cfg.BundlePatterns); diff != "" {
		t.Errorf("BundlePatterns (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"*.mcpack"}, cfg.PackPatterns); diff != "" {
		t.Errorf("PackPatterns (-want +got):\n%s", diff)
	}
	if cfg.LogLevel != LogLevelInfo {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Watch.Debounce != 2*time.Second || !cfg.Watch.InstallOnStart {
		t.Errorf("Watch = %+v", cfg.Watch)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto || cfg.UI.Verbose {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME is only honored on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if want := filepath.Join("/tmp/xdg-test", AppName); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	opts := isolate(t)

	cfg, path, err := loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want none", path)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_LookupOrder(t *testing.T) {
	opts := isolate(t)
	dirFile := filepath.Join(opts.ConfigDirPath, ConfigFileName)
	localFile := filepath.Join(opts.WorkDir, LocalFileName)
	explicit := filepath.Join(t.TempDir(), "custom.cue")

	testutil.MustWriteFile(t, localFile, `world_name: "local"`)
	cfg, path, err := loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if path != localFile || cfg.WorldName != "local" {
		t.Errorf("local file: path=%q world=%q", path, cfg.WorldName)
	}

	testutil.MustWriteFile(t, dirFile, `world_name: "from config dir"`)
	cfg, path, err = loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if path != dirFile || cfg.WorldName != "from config dir" {
		t.Errorf("config dir file: path=%q world=%q", path, cfg.WorldName)
	}

	testutil.MustWriteFile(t, explicit, `world_name: "explicit"`)
	opts.ConfigFilePath = explicit
	cfg, path, err = loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if path != explicit || cfg.WorldName != "explicit" {
		t.Errorf("explicit file: path=%q world=%q", path, cfg.WorldName)
	}
}

func TestLoad_FullFile(t *testing.T) {
	opts := isolate(t)
	testutil.MustWriteFile(t, filepath.Join(opts.ConfigDirPath, ConfigFileName), `
server_dir:   "/srv/bedrock"
staging_dir:  "incoming"
world_name:   "Skyblock"
pack_patterns: ["*.mcpack", "*.zip"]
restart_hook: "systemctl restart bedrock"
log_level:    "debug"
watch: {
	debounce:         "500ms"
	install_on_start: false
}
ui: color_scheme: "dark"
`)

	cfg, _, err := loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}

	want := DefaultConfig()
	want.ServerDir = "/srv/bedrock"
	want.StagingDir = "incoming"
	want.WorldName = "Skyblock"
	want.PackPatterns = []string{"*.mcpack", "*.zip"}
	want.RestartHook = "systemctl restart bedrock"
	want.LogLevel = LogLevelDebug
	want.Watch = WatchConfig{Debounce: 500 * time.Millisecond, InstallOnStart: false}
	want.UI.ColorScheme = ColorSchemeDark
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	opts := isolate(t)
	testutil.MustWriteFile(t, filepath.Join(opts.WorkDir, LocalFileName), `world_name: "file"`)
	t.Setenv("ADDONHELPER_WORLD_NAME", "env")
	t.Setenv("ADDONHELPER_WATCH_DEBOUNCE", "10s")

	cfg, _, err := loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}
	if cfg.WorldName != "env" {
		t.Errorf("WorldName = %q, want env", cfg.WorldName)
	}
	if cfg.Watch.Debounce != 10*time.Second {
		t.Errorf("Debounce = %s, want 10s", cfg.Watch.Debounce)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		env       map[string]string
		explicit  string
		operation string
		contains  string
	}{
		{
			name:      "missing explicit file",
			explicit:  "does-not-exist.cue",
			operation: "load configuration",
			contains:  "config file not found",
		},
		{
			name:      "syntax error",
			content:   `world_name: "unterminated`,
			operation: "load configuration",
			contains:  LocalFileName,
		},
		{
			name:      "schema violation",
			content:   `log_level: "loud"`,
			operation: "load configuration",
			contains:  "log_level",
		},
		{
			name:      "unknown key",
			content:   `colour: "red"`,
			operation: "load configuration",
			contains:  "colour",
		},
		{
			name:      "bad duration",
			content:   `watch: debounce: "soon"`,
			operation: "load configuration",
			contains:  "watch.debounce",
		},
		{
			name:      "bad env level",
			env:       map[string]string{"ADDONHELPER_LOG_LEVEL": "chatty"},
			operation: "validate configuration",
			contains:  "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.content != "" {
				testutil.MustWriteFile(t, filepath.Join(opts.WorkDir, LocalFileName), tt.content)
			}
			if tt.explicit != "" {
				opts.ConfigFilePath = filepath.Join(opts.WorkDir, tt.explicit)
			}

			_, _, err := loadWithOptions(context.Background(), opts)
			if err == nil {
				t.Fatal("expected error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be actionable, got %T: %v", err, err)
			}
			if ae.Operation != tt.operation {
				t.Errorf("Operation = %q, want %q", ae.Operation, tt.operation)
			}
			if !ae.HasSuggestions() {
				t.Error("expected suggestions")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should mention %q", err, tt.contains)
			}
		})
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := loadWithOptions(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	opts := isolate(t)

	want := DefaultConfig()
	want.ServerDir = "/srv/bedrock"
	want.RestartHook = `echo "restart"`
	want.Watch.Debounce = 1500 * time.Millisecond
	testutil.MustWriteFile(t, filepath.Join(opts.WorkDir, LocalFileName), GenerateCUE(want))

	got, _, err := loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatalf("generated CUE does not load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", AppName)
	path, created, err := CreateDefaultConfig(dir)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if !created || path != filepath.Join(dir, ConfigFileName) {
		t.Fatalf("CreateDefaultConfig() = %q, %v", path, created)
	}
	if !strings.Contains(testutil.MustReadFile(t, path), `bundle_patterns: ["*.mcaddon"]`) {
		t.Error("default file should list bundle patterns")
	}

	testutil.MustWriteFile(t, path, "// mine\n")
	if _, created, err = CreateDefaultConfig(dir); err != nil || created {
		t.Errorf("existing file must be kept: created=%v err=%v", created, err)
	}
	if got := testutil.MustReadFile(t, path); got != "// mine\n" {
		t.Errorf("file was overwritten: %q", got)
	}
}
