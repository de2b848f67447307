package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gencrud-dev/gencrud/pkg/config"
	"github.com/gencrud-dev/gencrud/sdk"
	"github.com/gencrud-dev/gencrud/sdk/client"
)

// apiClient resolves the endpoint configuration and builds an SDK client.
func apiClient(cmd *cobra.Command) (client.Client, error) {
	r, err := config.Resolve(cmd)
	if err != nil {
		return nil, err
	}
	var opts []client.Option
	if r.Token != "" {
		opts = append(opts, client.WithToken(r.Token))
	}
	return client.NewHTTP(r.APIURL, opts...), nil
}

func newEntitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "List registered entities",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := apiClient(cmd)
			if err != nil {
				return err
			}
			items, err := cli.Entities(cmd.Context())
			if err != nil {
				return err
			}
			return printOutput(cmd, items)
		},
	}
}

// printOutput prints data in either JSON or table format based on the
// --output flag.
func printOutput(cmd *cobra.Command, v any) error {
	format, err := cmd.Root().Flags().GetString("output")
	if err != nil {
		return err
	}
	if format == "json" {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	}
	switch x := v.(type) {
	case []sdk.EntityInfo:
		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"Class", "Entity"})
		for _, e := range x {
			tw.Append([]string{e.ClassName, e.EntityName})
		}
		tw.Render()
	case sdk.Descriptors:
		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"Field", "Title", "Type", "Search", "Enum", "Relation"})
		for _, c := range x.Columns {
			rel := ""
			if c.Relation != nil {
				rel = c.Relation.EntityName
			}
			tw.Append([]string{
				c.DataIndex, c.Title, c.Kind,
				fmt.Sprint(!c.HideInSearch),
				fmt.Sprint(len(c.ValueEnum) > 0),
				rel,
			})
		}
		tw.Render()
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
	}
	return nil
}
