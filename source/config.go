package source

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"tidyseries/internal/tidy"
)

const (
	DefaultPath     = "data/raw_female_labor_data2.csv"
	DefaultSeries   = "SL.TLF.CACT.FM.ZS"
	DefaultFromYear = 2016
	DefaultToYear   = 2024

	envPrefix = "TIDY_SOURCE__"
)

type Config struct {
	Path      string         `koanf:"path"`
	Series    string         `koanf:"series"`
	Years     tidy.YearRange `koanf:"years"`
	Delimiter string         `koanf:"delimiter"` // csv only, default ","
	Sheet     string         `koanf:"sheet"`     // xlsx/xls only, default first sheet
}

// LoadConfig merges YAML (if path is set) with env-vars
// (prefix `TIDY_SOURCE__`, delimiter `__`, e.g. TIDY_SOURCE__YEARS__FROM).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("source config %s: %w", path, err)
		}
	}
	sv := k.String("schema_version")
	if sv != "" && sv != "v1" {
		return Config{}, fmt.Errorf("source schema_version %q not supported (want v1)", sv)
	}

	err := k.Load(env.Provider(envPrefix, "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	if err := cfg.Years.Validate(); err != nil {
		return cfg, err
	}
	if _, err := ParseDelimiter(cfg.Delimiter); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(c *Config) {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.Series == "" {
		c.Series = DefaultSeries
	}
	if c.Years.From == 0 {
		c.Years.From = DefaultFromYear
	}
	if c.Years.To == 0 {
		c.Years.To = DefaultToYear
	}
	if c.Delimiter == "" {
		c.Delimiter = ","
	}
}

// ParseDelimiter accepts a single character or the word "tab".
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, n := utf8.DecodeRuneInString(s)
	if n != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}
