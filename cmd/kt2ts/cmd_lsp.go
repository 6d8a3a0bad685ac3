package main

import (
	"github.com/dhamidi/kt2ts/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Serve the extracted model over stdio: workspace symbols for data
types and their properties, hover with the rendered declaration. The model
is rebuilt whenever kt2ts.yaml is saved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version, configFile)
			return server.RunStdio()
		},
	}
}
