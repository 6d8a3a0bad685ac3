package main

import (
	"fmt"

	"github.com/dhamidi/kt2ts/generate"
	"github.com/spf13/cobra"
)

func newClassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List the selected classes, supertypes first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			result, err := generate.New(c).Extract()
			if err != nil {
				return err
			}
			for _, class := range result.Classes {
				fmt.Println(class.Name)
			}
			return nil
		},
	}

	addExtractFlags(cmd)

	return cmd
}
