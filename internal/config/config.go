// Package config loads slidekit settings from the environment, with
// command-line flags taking precedence.
package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds settings shared by every slidekit command.
type Config struct {
	Scale         int           `env:"GOSLIDES_SCALE"                 envDefault:"2"`
	Quality       int           `env:"GOSLIDES_QUALITY"               envDefault:"92"`
	FontDirs      []string      `env:"GOSLIDES_FONT_DIRS"             envSeparator:":"`
	AssetTimeout  time.Duration `env:"GOSLIDES_ASSET_TIMEOUT"         envDefault:"10s"`
	Concurrency   int           `env:"GOSLIDES_PRELOAD_CONCURRENCY"   envDefault:"8"`
	DBPath        string        `env:"GOSLIDES_DB_PATH"               envDefault:"goslides.db"`
	Addr          string        `env:"GOSLIDES_ADDR"                  envDefault:"localhost:8090"`
	LogFormat     string        `env:"GOSLIDES_LOG_FORMAT"            envDefault:"text"`
	LogLevel      string        `env:"GOSLIDES_LOG_LEVEL"             envDefault:"info"`
	SnapThreshold float64       `env:"GOSLIDES_SNAP_THRESHOLD"        envDefault:"10"`
	HistoryMax    int           `env:"GOSLIDES_HISTORY_MAX"           envDefault:"50"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment into a Config, then lets flags registered on
// fs override it. Commands register their own flags on fs before calling
// Load.
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fonts := strings.Join(cfg.FontDirs, string(os.PathListSeparator))
	fs.IntVar(&cfg.Scale, "scale", cfg.Scale, "supersampling factor")
	fs.IntVar(&cfg.Quality, "quality", cfg.Quality, "JPEG quality (1-100)")
	fs.StringVar(&fonts, "font-dirs", fonts, "extra font directories, path-list separated")
	fs.DurationVar(&cfg.AssetTimeout, "asset-timeout", cfg.AssetTimeout, "timeout per image load")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "parallel image loads")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the document database")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "preview server listen address")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.Float64Var(&cfg.SnapThreshold, "snap-threshold", cfg.SnapThreshold, "snap distance in slide units")
	fs.IntVar(&cfg.HistoryMax, "history-max", cfg.HistoryMax, "undo steps kept per session")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.FontDirs = splitList(fonts)
	return cfg, cfg.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, string(os.PathListSeparator)) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var errs []string
	if c.Scale < 1 || c.Scale > 8 {
		errs = append(errs, fmt.Sprintf("scale %d out of range 1..8", c.Scale))
	}
	if c.Quality < 1 || c.Quality > 100 {
		errs = append(errs, fmt.Sprintf("quality %d out of range 1..100", c.Quality))
	}
	if c.Concurrency < 1 {
		errs = append(errs, "concurrency must be positive")
	}
	if c.SnapThreshold < 0 {
		errs = append(errs, "snap threshold must not be negative")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("unknown log format %q", c.LogFormat))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// Logger builds the structured logger described by the config.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
