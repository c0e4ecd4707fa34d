package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Dump     string `yaml:"dump"      env:"WIKIDICT_DUMP"`
	Language string `yaml:"language"  env:"WIKIDICT_LANGUAGE"`
	// Marker selects dump pages; empty means "==<Language>==".
	Marker string `yaml:"marker"    env:"WIKIDICT_MARKER"`
	Limit  int    `yaml:"limit"     env:"WIKIDICT_LIMIT"`

	RawDB  string `yaml:"raw_db"  env:"WIKIDICT_RAW_DB"`
	DictDB string `yaml:"dict_db" env:"WIKIDICT_DICT_DB"`

	Workers        int  `yaml:"workers"         env:"WIKIDICT_WORKERS"`
	MaxRounds      int  `yaml:"max_rounds"      env:"WIKIDICT_MAX_ROUNDS"`
	Interactive    bool `yaml:"interactive"     env:"WIKIDICT_INTERACTIVE"`
	ProcessWorkers int  `yaml:"process_workers" env:"WIKIDICT_PROCESS_WORKERS"`
	Debug          bool `yaml:"debug"           env:"WIKIDICT_DEBUG"`

	BaseURL          string        `yaml:"base_url"          env:"WIKIDICT_BASE_URL"`
	ContentSelector  string        `yaml:"content_selector"  env:"WIKIDICT_CONTENT_SELECTOR"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout"     env:"WIKIDICT_FETCH_TIMEOUT"`
	Cookie           string        `yaml:"cookie"            env:"WIKIDICT_COOKIE"`
	CookieFile       string        `yaml:"cookie_file"       env:"WIKIDICT_COOKIE_FILE"`
	UserAgent        string        `yaml:"user_agent"        env:"WIKIDICT_USER_AGENT"`
	CloudflareBypass bool          `yaml:"cloudflare_bypass" env:"WIKIDICT_CLOUDFLARE_BYPASS"`

	BackSections         []string `yaml:"back_sections"          env:"WIKIDICT_BACK_SECTIONS"`
	RelocateBackSections bool     `yaml:"relocate_back_sections" env:"WIKIDICT_RELOCATE_BACK_SECTIONS"`
	ConjugationRows      []int    `yaml:"conjugation_rows"       env:"WIKIDICT_CONJUGATION_ROWS"`
}

type Options struct {
	IgnoreConfig   bool
	Debug          bool
	Dump           string
	Language       string
	Limit          int
	RawDB          string
	DictDB         string
	Workers        int
	MaxRounds      int
	Interactive    bool
	ProcessWorkers int
	Cookie         string
	CookieFile     string
	UserAgent      string
}

func DefaultConfig() *Config {
	return &Config{
		Language:        "French",
		RawDB:           "raw_dict.db",
		DictDB:          "dict.db",
		Workers:         8,
		MaxRounds:       20,
		ProcessWorkers:  4,
		BaseURL:         "https://en.wiktionary.org/w/index.php",
		ContentSelector: "#mw-content-text",
		BackSections: []string{
			"Etymology",
			"Etymology 1",
			"Etymology 2",
			"Etymology 3",
			"Pronunciation",
			"Anagrams",
			"References",
			"Descendants",
		},
		ConjugationRows: []int{8, 9, 10, 11, 12, 19, 20, 24},
	}
}

// LanguageMarker is the wikitext heading that marks a candidate page.
func (c *Config) LanguageMarker() string {
	if c.Marker != "" {
		return c.Marker
	}
	return "==" + c.Language + "=="
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// loadYAML layers the file and then WIKIDICT_* variables over the defaults.
func loadYAML(path string) (*Config, error) {
	c := DefaultConfig()
	if err := cleanenv.ReadConfig(path, c); err != nil {
		return nil, err
	}

	return c, nil
}

func loadEnv() (*Config, error) {
	c := DefaultConfig()
	if err := cleanenv.ReadEnv(c); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	return c, nil
}

func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	activePath, err := ActiveConfigPath()
	if err == ErrNoConfig || activePath == "" {
		cfg, err := loadEnv()
		if err != nil {
			return nil, "", err
		}
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `wikidict config init` to create an actual config\n", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, activePath, nil
}

// LoadFile reads one explicit config file, bypassing the profile registry.
func LoadFile(path string, opts Options) (*Config, error) {
	cfg, err := loadYAML(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Debug {
		c.Debug = true
	}
	if o.Dump != "" {
		c.Dump = o.Dump
	}
	if o.Language != "" {
		c.Language = o.Language
	}
	if o.Limit != 0 {
		c.Limit = o.Limit
	}
	if o.RawDB != "" {
		c.RawDB = o.RawDB
	}
	if o.DictDB != "" {
		c.DictDB = o.DictDB
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if o.MaxRounds != 0 {
		c.MaxRounds = o.MaxRounds
	}
	if o.Interactive {
		c.Interactive = true
	}
	if o.ProcessWorkers != 0 {
		c.ProcessWorkers = o.ProcessWorkers
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
}

func normalizeDefaults(c *Config) {
	def := DefaultConfig()

	if c.Language == "" {
		c.Language = def.Language
	}
	if c.RawDB == "" {
		c.RawDB = def.RawDB
	}
	if c.DictDB == "" {
		c.DictDB = def.DictDB
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.MaxRounds <= 0 {
		c.MaxRounds = def.MaxRounds
	}
	if c.ProcessWorkers <= 0 {
		c.ProcessWorkers = def.ProcessWorkers
	}
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.ContentSelector == "" {
		c.ContentSelector = def.ContentSelector
	}
	if len(c.ConjugationRows) == 0 {
		c.ConjugationRows = def.ConjugationRows
	}
}

func (c *Config) Print() {
	if c.Dump != "" {
		fmt.Printf(" -dump: %s\n", c.Dump)
	}
	fmt.Printf(" -language: %s (marker %q)\n", c.Language, c.LanguageMarker())
	if c.Limit > 0 {
		fmt.Printf(" -limit: %d\n", c.Limit)
	}
	fmt.Printf(" -raw_db: %s\n", c.RawDB)
	fmt.Printf(" -dict_db: %s\n", c.DictDB)
	fmt.Printf(" -workers: %d\n", c.Workers)
	fmt.Printf(" -max_rounds: %d\n", c.MaxRounds)
	fmt.Printf(" -process_workers: %d\n", c.ProcessWorkers)
	if c.Interactive {
		fmt.Printf(" -interactive: %t\n", c.Interactive)
	}
	if c.Debug {
		fmt.Printf(" -debug: %t\n", c.Debug)
	}
	fmt.Printf(" -base_url: %s\n", c.BaseURL)
	if c.FetchTimeout > 0 {
		fmt.Printf(" -fetch_timeout: %s\n", c.FetchTimeout)
	}
	if c.CookieFile != "" {
		fmt.Printf(" -cookie_file: %s\n", c.CookieFile)
	}
	if c.CloudflareBypass {
		fmt.Printf(" -cloudflare_bypass: %t\n", c.CloudflareBypass)
	}
	if len(c.BackSections) > 0 {
		fmt.Printf(" -back_sections: %s\n", strings.Join(c.BackSections, ", "))
	}
	if c.RelocateBackSections {
		fmt.Printf(" -relocate_back_sections: %t\n", c.RelocateBackSections)
	}
}
