package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/parsnip/config"
)

//go:embed init/grammar.ebnf
var grammarContent string

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create parsnip.yaml and an example grammar",
		Long: `Create parsnip.yaml and an example grammar.

If a directory is provided, creates it and initializes it. Otherwise,
initializes the current directory. Existing files are left alone.

Examples:
  parsnip init calc
  cd calc && echo "1 + 2 * (3 - 4)" | parsnip parse`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(dir)
		},
	}

	return cmd
}

func runInit(dir string) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
		fmt.Printf("Created %s/\n", dir)
	}

	cfg := config.Default()
	cfg.Start = "Program"
	cfg.Spacing = "space"

	configPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath, cfg); err != nil {
			return fmt.Errorf("create %s: %w", config.FileName, err)
		}
		fmt.Printf("Created %s\n", config.FileName)
	} else {
		fmt.Printf("%s already exists\n", config.FileName)
	}

	grammarPath := filepath.Join(dir, cfg.Grammar)
	if _, err := os.Stat(grammarPath); os.IsNotExist(err) {
		if err := os.WriteFile(grammarPath, []byte(grammarContent), 0644); err != nil {
			return fmt.Errorf("create %s: %w", cfg.Grammar, err)
		}
		fmt.Printf("Created %s\n", cfg.Grammar)
	} else {
		fmt.Printf("%s already exists\n", cfg.Grammar)
	}

	fmt.Println("\nNext steps:")
	fmt.Println("  - Check the grammar: parsnip check --start Program " + cfg.Grammar)
	fmt.Println("  - Parse: echo '1 + 2' | parsnip parse")
	fmt.Println("  - Edit interactively: parsnip repl")
	return nil
}
