// Package config reads and writes parsnip.yaml, the file that tells the
// parsnip tools which grammar to parse with and how to handle errors.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/parsnip/ebnf/compile"
	"github.com/dhamidi/parsnip/peg"
	"github.com/dhamidi/parsnip/recovery"
)

// FileName is the name of the configuration file in a project directory.
const FileName = "parsnip.yaml"

// Recovery strategies.
const (
	Strict  = "strict"
	Report  = "report"
	Recover = "recover"
)

var ErrUnknownStrategy = errors.New("unknown recovery strategy")

// Config matches parsnip.yaml.
type Config struct {
	Grammar       string   `yaml:"grammar"`
	Start         string   `yaml:"start"`
	Leaves        []string `yaml:"leaves,omitempty"`
	Transparent   []string `yaml:"transparent,omitempty"`
	LexicalLeaves bool     `yaml:"lexical_leaves"`
	Spacing       string   `yaml:"spacing,omitempty"`
	EOI           bool     `yaml:"eoi"`
	Recovery      Recovery `yaml:"recovery"`
	Format        string   `yaml:"format"`

	// dir is the directory the file was read from.
	dir string
}

// Recovery configures the error handling of a parse.
type Recovery struct {
	Strategy  string            `yaml:"strategy"`
	Sync      []string          `yaml:"sync,omitempty"`
	Resync    string            `yaml:"resync,omitempty"`
	Insert    map[string]string `yaml:"insert,omitempty"`
	MaxErrors int               `yaml:"max_errors"`
	Trace     bool              `yaml:"trace"`
}

// Default returns the configuration used when there is no parsnip.yaml.
func Default() *Config {
	return &Config{
		Grammar:       "grammar.ebnf",
		LexicalLeaves: true,
		EOI:           true,
		Recovery: Recovery{
			Strategy:  Report,
			MaxErrors: recovery.DefaultMaxErrors,
		},
		Format: "text",
		dir:    ".",
	}
}

// Load reads parsnip.yaml from the current directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads parsnip.yaml from dir.
func LoadFrom(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile reads the configuration at path, or returns the defaults if
// there is no file. Settings missing from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	cfg.dir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating missing directories.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config missing")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GrammarPath returns the grammar file, relative paths taken from the
// directory the configuration was read from.
func (c *Config) GrammarPath() string {
	if c.Grammar == "" || filepath.IsAbs(c.Grammar) || c.dir == "" {
		return c.Grammar
	}
	return filepath.Join(c.dir, c.Grammar)
}

// CompileOptions translates the grammar settings for compile.Compile.
func (c *Config) CompileOptions() []compile.Option {
	var opts []compile.Option
	if len(c.Leaves) > 0 {
		opts = append(opts, compile.WithLeaves(c.Leaves...))
	}
	if len(c.Transparent) > 0 {
		opts = append(opts, compile.WithTransparent(c.Transparent...))
	}
	if c.LexicalLeaves {
		opts = append(opts, compile.WithLexicalLeaves())
	}
	if c.Spacing != "" {
		opts = append(opts, compile.WithSpacing(c.Spacing))
	}
	if c.EOI {
		opts = append(opts, compile.WithEOI())
	}
	return opts
}

// Matcher loads and compiles the configured grammar.
func (c *Config) Matcher() (peg.Matcher, error) {
	g, err := compile.Load(c.GrammarPath())
	if err != nil {
		return nil, err
	}
	return compile.Compile(g, c.Start, c.CompileOptions()...)
}

// Handler builds a fresh error handler for one parse.
func (c *Config) Handler() (peg.Handler, error) {
	var h peg.Handler
	r := c.Recovery
	switch r.Strategy {
	case "", Strict:
		h = recovery.Strict{}
	case Report:
		h = recovery.NewReporting()
	case Recover:
		opts := []recovery.Option{
			recovery.SyncOn(r.Sync...),
			recovery.ResyncAt(r.Resync),
			recovery.WithMaxErrors(r.MaxErrors),
		}
		for label, text := range r.Insert {
			opts = append(opts, recovery.InsertOnMiss(label, text))
		}
		h = recovery.NewRecovering(opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, r.Strategy)
	}
	if r.Trace {
		h = recovery.Trace(h, nil)
	}
	return h, nil
}
