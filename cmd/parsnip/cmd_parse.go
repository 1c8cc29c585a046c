package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/parsnip/format"
	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/peg"
)

var errParseFailed = errors.New("input does not match the grammar")

func newParseCmd() *cobra.Command {
	var flags projectFlags
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a file and print its parse tree",
		Long: `Parse a file and print its parse tree.

The grammar, start production and error handling are read from parsnip.yaml
and can be overridden with flags. Without a file, or with "-", standard input
is parsed.

The command fails if the input does not match or errors were recovered from.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if outputFormat != "" {
				cfg.Format = outputFormat
			}
			encoder, err := format.New(cfg.Format, os.Stdout)
			if err != nil {
				return err
			}

			buf, err := readInput(args)
			if err != nil {
				return err
			}
			m, err := cfg.Matcher()
			if err != nil {
				printErrors(err)
				return err
			}
			h, err := cfg.Handler()
			if err != nil {
				return err
			}

			res, err := peg.Run(m, buf, peg.WithHandler(h))
			if err != nil {
				printExcerpt(os.Stderr, err)
				return err
			}
			if err := encoder.Encode(format.NewDocument(buf, res)); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if !res.Matched || res.HasErrors() {
				return errParseFailed
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (text, json, styled)")

	return cmd
}

// printExcerpt shows where in the input a parse was aborted.
func printExcerpt(w io.Writer, err error) {
	var rerr *peg.RuntimeError
	if errors.As(err, &rerr) && rerr.Excerpt != "" {
		fmt.Fprint(w, rerr.Excerpt)
	}
}

func readInput(args []string) (*input.Buffer, error) {
	if len(args) == 0 || args[0] == "-" {
		return input.ReadBuffer("<stdin>", os.Stdin)
	}
	return input.LoadBuffer(args[0])
}
