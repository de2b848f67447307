package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{Use: "crudctl"}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Console API base URL")
	rootCmd.PersistentFlags().String("token", "", "Bearer token for the console API")
	rootCmd.PersistentFlags().String("profile", "", "Profile name in config (overrides active)")
	rootCmd.PersistentFlags().String("output", "table", "Output format (table|json)")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newEntitiesCmd())
	rootCmd.AddCommand(newDescriptorsCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newDeleteCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
