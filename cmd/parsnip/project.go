package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/parsnip/config"
)

// projectFlags override the settings read from parsnip.yaml.
type projectFlags struct {
	config   string
	grammar  string
	start    string
	strategy string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", config.FileName, "configuration file")
	cmd.Flags().StringVarP(&f.grammar, "grammar", "g", "", "EBNF grammar file")
	cmd.Flags().StringVarP(&f.start, "start", "s", "", "start production")
	cmd.Flags().StringVar(&f.strategy, "recovery", "", "error handling (strict, report, recover)")
}

func (f *projectFlags) load() (*config.Config, error) {
	cfg, err := config.LoadFile(f.config)
	if err != nil {
		return nil, err
	}
	if f.grammar != "" {
		path, err := filepath.Abs(f.grammar)
		if err != nil {
			return nil, fmt.Errorf("resolve grammar: %w", err)
		}
		cfg.Grammar = path
	}
	if f.start != "" {
		cfg.Start = f.start
	}
	if f.strategy != "" {
		cfg.Recovery.Strategy = f.strategy
	}
	if cfg.Start == "" {
		return nil, fmt.Errorf("no start production: set start in %s or pass --start", f.config)
	}
	return cfg, nil
}
