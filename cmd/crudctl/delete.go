package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <className> <id> [id...]",
		Short: "Delete one or more records",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := args[1:]
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete %d record(s) from %s? [y/N]: ", len(ids), args[0])
				var s string
				fmt.Scanln(&s)
				if s != "y" && s != "Y" {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}
			cli, err := apiClient(cmd)
			if err != nil {
				return err
			}
			if err := cli.Delete(cmd.Context(), args[0], ids...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d record(s)\n", len(ids))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
