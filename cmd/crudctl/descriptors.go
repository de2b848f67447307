package main

import (
	"github.com/spf13/cobra"
)

func newDescriptorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "descriptors <className>",
		Short: "Show derived table and form descriptors for an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := apiClient(cmd)
			if err != nil {
				return err
			}
			d, err := cli.Descriptors(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printOutput(cmd, d)
		},
	}
}
