package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/parsnip/peg"
	"github.com/dhamidi/parsnip/recovery"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Recovery.Strategy != Report {
		t.Errorf("strategy = %q, want %q", cfg.Recovery.Strategy, Report)
	}
	if !cfg.EOI || !cfg.LexicalLeaves {
		t.Errorf("expected eoi and lexical leaves by default, got %+v", cfg)
	}
	if got, want := cfg.GrammarPath(), filepath.Join(dir, "grammar.ebnf"); got != want {
		t.Errorf("GrammarPath() = %q, want %q", got, want)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	src := "grammar: calc.ebnf\nstart: Expr\nrecovery:\n  strategy: recover\n  sync: [Stmt]\n  insert:\n    Semi: \";\"\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Start != "Expr" {
		t.Errorf("start = %q", cfg.Start)
	}
	if cfg.Recovery.MaxErrors != recovery.DefaultMaxErrors {
		t.Errorf("max errors = %d, want default %d", cfg.Recovery.MaxErrors, recovery.DefaultMaxErrors)
	}
	if cfg.Recovery.Insert["Semi"] != ";" {
		t.Errorf("insert = %v", cfg.Recovery.Insert)
	}
	if cfg.Format != "text" {
		t.Errorf("format = %q", cfg.Format)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("start: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected an error for invalid yaml")
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.Start = "Program"
	cfg.Transparent = []string{"Term"}
	cfg.Recovery.Strategy = Recover
	cfg.Recovery.Resync = ";}"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Start != "Program" || got.Recovery.Resync != ";}" || len(got.Transparent) != 1 {
		t.Errorf("loaded %+v", got)
	}

	if err := Save(path, nil); err == nil {
		t.Error("expected an error saving a nil config")
	}
}

func TestHandler(t *testing.T) {
	tests := []struct {
		strategy string
		trace    bool
		want     peg.Handler
	}{
		{"", false, recovery.Strict{}},
		{Strict, false, recovery.Strict{}},
		{Report, false, &recovery.Reporting{}},
		{Recover, false, &recovery.Recovering{}},
		{Report, true, &recovery.Tracing{}},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			cfg := Default()
			cfg.Recovery.Strategy = tt.strategy
			cfg.Recovery.Trace = tt.trace

			h, err := cfg.Handler()
			if err != nil {
				t.Fatalf("Handler: %v", err)
			}
			if got, want := typeName(h), typeName(tt.want); got != want {
				t.Errorf("handler is %s, want %s", got, want)
			}
		})
	}
}

func typeName(h peg.Handler) string {
	switch h.(type) {
	case recovery.Strict:
		return "Strict"
	case *recovery.Reporting:
		return "Reporting"
	case *recovery.Recovering:
		return "Recovering"
	case *recovery.Tracing:
		return "Tracing"
	}
	return "unknown"
}

func TestHandlerUnknownStrategy(t *testing.T) {
	cfg := Default()
	cfg.Recovery.Strategy = "guess"
	_, err := cfg.Handler()
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("err = %v, want ErrUnknownStrategy", err)
	}
}

func TestMatcher(t *testing.T) {
	dir := t.TempDir()
	grammar := "List = Item { \",\" Item } .\nItem = \"a\" … \"z\" .\n"
	if err := os.WriteFile(filepath.Join(dir, "list.ebnf"), []byte(grammar), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	cfg.dir = dir
	cfg.Grammar = "list.ebnf"
	cfg.Start = "List"

	m, err := cfg.Matcher()
	if err != nil {
		t.Fatalf("Matcher: %v", err)
	}
	h, err := cfg.Handler()
	if err != nil {
		t.Fatal(err)
	}

	res, err := peg.RunString(m, "a,b,c", peg.WithHandler(h))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Matched {
		t.Fatalf("expected a match, errors: %v", res.Errors)
	}
	if n := len(res.Root.ChildrenWithLabel("Item")); n != 3 {
		t.Errorf("got %d items, want 3", n)
	}

	res, err = peg.RunString(m, "a,", peg.WithHandler(recovery.NewReporting()))
	if err != nil {
		t.Fatal(err)
	}
	if res.Matched || len(res.Errors) != 1 {
		t.Errorf("matched=%t errors=%v", res.Matched, res.Errors)
	}
}
