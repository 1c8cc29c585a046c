package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/parsnip/lsp"
)

func newLSPCmd() *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			server, err := lsp.NewServer(cfg, version)
			if err != nil {
				return err
			}
			return server.RunStdio()
		},
	}

	flags.register(cmd)

	return cmd
}
