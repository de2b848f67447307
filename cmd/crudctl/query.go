package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newQueryCmd() *cobra.Command {
	var (
		page     int
		pageSize int
		params   string
	)
	cmd := &cobra.Command{
		Use:   "query <className>",
		Short: "Run a paged query against an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := apiClient(cmd)
			if err != nil {
				return err
			}
			var p map[string]any
			if params != "" {
				if err := json.Unmarshal([]byte(params), &p); err != nil {
					return fmt.Errorf("parse --params: %w", err)
				}
			}
			res, err := cli.Query(cmd.Context(), args[0], page, pageSize, p)
			if err != nil {
				return err
			}
			format, _ := cmd.Root().Flags().GetString("output")
			if format == "json" {
				return printOutput(cmd, res)
			}
			printRecords(res.Data)
			fmt.Fprintf(cmd.OutOrStdout(), "total: %d\n", res.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "records per page")
	cmd.Flags().StringVar(&params, "params", "", "search params as JSON object")
	return cmd
}

// printRecords renders records as a table using the union of keys from the
// first row. Nested values are JSON-encoded.
func printRecords(records []map[string]any) {
	if len(records) == 0 {
		fmt.Println("(no records)")
		return
	}
	keys := make([]string, 0, len(records[0]))
	for k := range records[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader(keys)
	for _, rec := range records {
		row := make([]string, len(keys))
		for i, k := range keys {
			row[i] = cellString(rec[k])
		}
		tw.Append(row)
	}
	tw.Render()
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
