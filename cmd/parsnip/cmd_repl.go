package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/dhamidi/parsnip/config"
	"github.com/dhamidi/parsnip/format"
	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/peg"
)

const (
	historyFile = ".parsnip_history"
	promptMain  = "> "
	promptCont  = ". "
)

func newReplCmd() *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Parse lines typed at a prompt",
		Long: `Parse lines typed at a prompt and print their parse trees.

Input that ends before the grammar is satisfied continues on the next line.
Type :quit or press Ctrl-D to leave.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			m, err := cfg.Matcher()
			if err != nil {
				printErrors(err)
				return err
			}
			return runRepl(cfg, m)
		},
	}

	flags.register(cmd)

	return cmd
}

func runRepl(cfg *config.Config, m peg.Matcher) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	encoder := format.NewStyledEncoder(os.Stdout)
	for {
		src, res, ok := readEntry(ln, cfg, m)
		if !ok {
			fmt.Println()
			return nil
		}
		if strings.TrimSpace(src) == ":quit" {
			return nil
		}
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if res.err != nil {
			fmt.Fprintln(os.Stderr, res.err)
			printExcerpt(os.Stderr, res.err)
			continue
		}
		if err := encoder.Encode(format.NewDocument(res.buf, res.result)); err != nil {
			return err
		}
		if !res.result.Matched && !res.result.HasErrors() {
			fmt.Fprintln(os.Stderr, errParseFailed)
		}
	}
}

type entry struct {
	buf    *input.Buffer
	result *peg.Result
	err    error
}

// readEntry reads lines until they form input that does not stop at its
// end, or the user gives up.
func readEntry(ln *liner.State, cfg *config.Config, m peg.Matcher) (string, entry, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", entry{}, false
		}
		if err != nil {
			return "", entry{err: err}, true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, entry{}, true
		}
		e := parseEntry(cfg, m, src)
		if line != "" && e.err == nil && incomplete(e.buf, e.result) {
			continue
		}
		return src, e, true
	}
}

func parseEntry(cfg *config.Config, m peg.Matcher, src string) entry {
	e := entry{buf: input.NewFileBuffer("<repl>", src)}
	h, err := cfg.Handler()
	if err != nil {
		e.err = err
		return e
	}
	e.result, e.err = peg.Run(m, e.buf, peg.WithHandler(h))
	return e
}

// incomplete reports whether the parse failed only because the input ended
// too early.
func incomplete(buf *input.Buffer, res *peg.Result) bool {
	if res == nil || !res.HasErrors() {
		return false
	}
	for _, err := range res.Errors {
		if err.Start.Index < buf.Len() {
			return false
		}
	}
	return true
}
