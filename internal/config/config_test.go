package config

import (
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"strings"
	"testing"
	"time"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scale != 2 || cfg.Quality != 92 || cfg.AssetTimeout != 10*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.HistoryMax != 50 || cfg.SnapThreshold != 10 {
		t.Fatalf("unexpected editor defaults: %+v", cfg)
	}
}

func TestLoadEnvThenFlags(t *testing.T) {
	t.Setenv("GOSLIDES_SCALE", "3")
	t.Setenv("GOSLIDES_QUALITY", "70")
	t.Setenv("GOSLIDES_FONT_DIRS", "/a:/b")

	cfg, err := Load(newFlagSet(), []string{"-quality", "80"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scale != 3 {
		t.Errorf("scale = %d, want env value 3", cfg.Scale)
	}
	if cfg.Quality != 80 {
		t.Errorf("quality = %d, want flag value 80", cfg.Quality)
	}
	if len(cfg.FontDirs) != 2 || cfg.FontDirs[0] != "/a" {
		t.Errorf("font dirs = %v", cfg.FontDirs)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("GOSLIDES_SCALE", "not-an-int")
	_, err := Load(newFlagSet(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
		want string
	}{
		{"scale", func(c *Config) { c.Scale = 0 }, "scale"},
		{"quality", func(c *Config) { c.Quality = 101 }, "quality"},
		{"format", func(c *Config) { c.LogFormat = "xml" }, "log format"},
		{"level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(newFlagSet(), nil)
			if err != nil {
				t.Fatal(err)
			}
			tt.mut(&cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{LogFormat: "json", LogLevel: "warn"}
	log := cfg.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if rec["msg"] != "shown" {
		t.Errorf("msg = %v", rec["msg"])
	}
}
