package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v3"

	"github.com/meigma/big"
)

// fileConfig is the optional YAML configuration file.
type fileConfig struct {
	Encoding     string `yaml:"encoding"`
	LargeArchive bool   `yaml:"large_archive"`
	Magic        string `yaml:"magic"`
	Workers      int    `yaml:"workers"`
	LogLevel     string `yaml:"log_level"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Encoding: "ISO 8859-1",
		Magic:    "BIGF",
		Workers:  4,
		LogLevel: "warn",
	}
}

// defaultConfigPath returns the per-user config file location.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bigtool", "config.yaml")
}

// loadConfig reads path over the defaults. A missing file is only an error
// when explicit is set.
func loadConfig(path string, explicit bool) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

var encodingAliases = map[string]*charmap.Charmap{
	"latin1":     charmap.ISO8859_1,
	"latin-1":    charmap.ISO8859_1,
	"iso-8859-1": charmap.ISO8859_1,
	"iso8859-1":  charmap.ISO8859_1,
	"cp1252":     charmap.Windows1252,
	"cp1251":     charmap.Windows1251,
}

// lookupEncoding resolves a charmap by its display name ("Windows 1252")
// or a common alias ("latin1").
func lookupEncoding(name string) (*charmap.Charmap, error) {
	if cm, ok := encodingAliases[strings.ToLower(name)]; ok {
		return cm, nil
	}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok && strings.EqualFold(cm.String(), name) {
			return cm, nil
		}
	}
	return nil, fmt.Errorf("unknown encoding %q", name)
}

// listEncodings returns the display names accepted by lookupEncoding.
func listEncodings() []string {
	list := make([]string, 0, len(charmap.All))
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

func parseMagic(s string) (big.Magic, error) {
	switch strings.ToUpper(s) {
	case "", "BIGF":
		return big.MagicBIGF, nil
	case "BIG4":
		return big.MagicBIG4, nil
	default:
		return big.Magic{}, fmt.Errorf("unsupported magic %q (want BIGF or BIG4)", s)
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
