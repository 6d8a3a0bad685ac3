package main

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dhamidi/kt2ts/generate"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newModelCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "model",
		Short: "Print the extracted model as the template sees it",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			result, err := generate.New(c).Extract()
			if err != nil {
				return err
			}
			data := result.Model.ToMap()

			switch format {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(data)
			case "yaml":
				enc := yaml.NewEncoder(os.Stdout)
				enc.SetIndent(2)
				if err := enc.Encode(data); err != nil {
					return err
				}
				return enc.Close()
			}
			return errors.WithHint(errors.Newf("unknown format %q", format), "use --format json or --format yaml")
		},
	}

	addExtractFlags(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")

	return cmd
}
