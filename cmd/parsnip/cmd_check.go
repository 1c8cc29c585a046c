package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/parsnip/ebnf/compile"
)

func newCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check <file>",
		Short:         "Parse and verify an EBNF grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := compile.Load(args[0])
			if err != nil {
				printErrors(err)
				return err
			}
			if startProduction == "" {
				return nil
			}
			if err := compile.Verify(grammar, startProduction); err != nil {
				printErrors(err)
				return err
			}
			if _, err := compile.Compile(grammar, startProduction); err != nil {
				printErrors(err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

func printErrors(err error) {
	for _, e := range compile.Errors(err) {
		fmt.Println(e)
	}
}
