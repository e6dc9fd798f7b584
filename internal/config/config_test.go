//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
	"time"

	"github.com/adrg/xdg"
)

// isolate points the user config dir and the working directory at empty
// temp dirs so host configuration never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	wd := t.TempDir()
	t.Chdir(wd)
	return wd
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("could not create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/srv/music",
			expected: "/srv/music",
		},
		{
			name:     "relative path unchanged",
			input:    "Albums",
			expected: "Albums",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	isolate(t)
	paths := getConfigPaths()

	if len(paths) != 2 {
		t.Fatalf("getConfigPaths() returned %d paths, want 2", len(paths))
	}

	expectedFirst := filepath.Join(xdg.ConfigHome, "trackerhelper", "config.toml")
	if paths[0] != expectedFirst {
		t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
	}
	if paths[1] != "trackerhelper.toml" {
		t.Errorf("last config path = %q, want %q", paths[1], "trackerhelper.toml")
	}
}

func TestGetDedupeConfig_Defaults(t *testing.T) {
	cfg := (&Config{}).GetDedupeConfig()

	if !slices.Equal(cfg.Roots, []string{"Albums", "Singles"}) {
		t.Errorf("Roots = %v, want [Albums Singles]", cfg.Roots)
	}
	if cfg.OutDir != "_dedupe_reports" {
		t.Errorf("OutDir = %q, want %q", cfg.OutDir, "_dedupe_reports")
	}
	if cfg.Jobs != runtime.NumCPU() {
		t.Errorf("Jobs = %d, want %d", cfg.Jobs, runtime.NumCPU())
	}
	if !slices.Equal(cfg.Collections, []string{"Albums", "Singles"}) {
		t.Errorf("Collections = %v, want [Albums Singles]", cfg.Collections)
	}
	if cfg.Exts != nil {
		t.Errorf("Exts = %v, want nil", cfg.Exts)
	}
}

func TestGetDedupeConfig_CustomValues(t *testing.T) {
	c := &Config{Dedupe: DedupeConfig{
		Roots:       []string{"/music"},
		OutDir:      "reports",
		Jobs:        3,
		Collections: []string{"LP", "EP"},
	}}
	cfg := c.GetDedupeConfig()

	if cfg.Jobs != 3 || cfg.OutDir != "reports" {
		t.Errorf("GetDedupeConfig() = %+v, custom values not kept", cfg)
	}
	if !slices.Equal(cfg.Collections, []string{"LP", "EP"}) {
		t.Errorf("Collections = %v, want [LP EP]", cfg.Collections)
	}
}

func TestGetFpcalcConfig(t *testing.T) {
	tests := []struct {
		name        string
		config      FpcalcConfig
		wantPath    string
		wantTimeout time.Duration
	}{
		{
			name:        "defaults",
			wantPath:    "fpcalc",
			wantTimeout: 2 * time.Minute,
		},
		{
			name:        "custom",
			config:      FpcalcConfig{Path: "/opt/bin/fpcalc", Timeout: "30s"},
			wantPath:    "/opt/bin/fpcalc",
			wantTimeout: 30 * time.Second,
		},
		{
			name:        "non-positive timeout falls back",
			config:      FpcalcConfig{Timeout: "0s"},
			wantPath:    "fpcalc",
			wantTimeout: 2 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Fpcalc: tt.config}
			if got := c.GetFpcalcConfig().Path; got != tt.wantPath {
				t.Errorf("Path = %q, want %q", got, tt.wantPath)
			}
			if got := c.FpcalcTimeout(); got != tt.wantTimeout {
				t.Errorf("FpcalcTimeout() = %v, want %v", got, tt.wantTimeout)
			}
		})
	}
}

func TestCacheEnabled(t *testing.T) {
	off, on := false, true
	tests := []struct {
		name     string
		enabled  *bool
		expected bool
	}{
		{"unset defaults to enabled", nil, true},
		{"explicitly enabled", &on, true},
		{"explicitly disabled", &off, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Cache: CacheConfig{Enabled: tt.enabled}}
			if got := c.CacheEnabled(); got != tt.expected {
				t.Errorf("CacheEnabled() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetLogConfig_Defaults(t *testing.T) {
	cfg := (&Config{}).GetLogConfig()

	if cfg.Level != "warn" {
		t.Errorf("Level = %q, want %q", cfg.Level, "warn")
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want empty", cfg.File)
	}
	if cfg.MaxSizeMB != 10 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 28 {
		t.Errorf("rotation defaults = %d/%d/%d, want 10/3/28", cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	}
}

func TestLoad_NoFiles(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if len(cfg.Dedupe.Roots) != 0 {
		t.Errorf("Dedupe.Roots = %v, want empty", cfg.Dedupe.Roots)
	}
}

func TestLoad_BasicConfig(t *testing.T) {
	isolate(t)

	configContent := `
[dedupe]
roots = ["/music/Albums", "~/Singles"]
exts = ["dsf"]
jobs = 4

[fpcalc]
timeout = "45s"
length = 120

[cache]
enabled = false

[log]
level = "debug"
file = "~/logs/trackerhelper.log"
`
	writeConfig(t, "trackerhelper.toml", configContent)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	home, _ := os.UserHomeDir()
	wantRoots := []string{"/music/Albums", filepath.Join(home, "Singles")}
	if !slices.Equal(cfg.Dedupe.Roots, wantRoots) {
		t.Errorf("Dedupe.Roots = %v, want %v", cfg.Dedupe.Roots, wantRoots)
	}
	if !slices.Equal(cfg.Dedupe.Exts, []string{"dsf"}) {
		t.Errorf("Dedupe.Exts = %v, want [dsf]", cfg.Dedupe.Exts)
	}
	if cfg.Dedupe.Jobs != 4 {
		t.Errorf("Dedupe.Jobs = %d, want 4", cfg.Dedupe.Jobs)
	}
	if cfg.FpcalcTimeout() != 45*time.Second {
		t.Errorf("FpcalcTimeout() = %v, want 45s", cfg.FpcalcTimeout())
	}
	if cfg.Fpcalc.Length != 120 {
		t.Errorf("Fpcalc.Length = %d, want 120", cfg.Fpcalc.Length)
	}
	if cfg.CacheEnabled() {
		t.Error("CacheEnabled() = true, want false")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if want := filepath.Join(home, "logs", "trackerhelper.log"); cfg.Log.File != want {
		t.Errorf("Log.File = %q, want %q", cfg.Log.File, want)
	}
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)

	writeConfig(t, filepath.Join(xdg.ConfigHome, "trackerhelper", "config.toml"), `
[dedupe]
out_dir = "user"
jobs = 2
`)
	writeConfig(t, "trackerhelper.toml", `
[dedupe]
out_dir = "local"
`)
	explicit := filepath.Join(t.TempDir(), "explicit.toml")
	writeConfig(t, explicit, `
[fpcalc]
path = "/usr/local/bin/fpcalc"
`)

	cfg, err := Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Dedupe.OutDir != "local" {
		t.Errorf("Dedupe.OutDir = %q, want %q", cfg.Dedupe.OutDir, "local")
	}
	if cfg.Dedupe.Jobs != 2 {
		t.Errorf("Dedupe.Jobs = %d, want 2 from user config", cfg.Dedupe.Jobs)
	}
	if cfg.Fpcalc.Path != "/usr/local/bin/fpcalc" {
		t.Errorf("Fpcalc.Path = %q, want explicit value", cfg.Fpcalc.Path)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Error("Load() expected error for missing explicit config, got nil")
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	isolate(t)
	writeConfig(t, "trackerhelper.toml", "invalid = [[[")

	_, err := Load("")
	if err == nil {
		t.Error("Load() expected error for invalid TOML, got nil")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad timeout", "[fpcalc]\ntimeout = \"soon\"\n"},
		{"negative length", "[fpcalc]\nlength = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			writeConfig(t, "trackerhelper.toml", tt.content)

			if _, err := Load(""); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}
