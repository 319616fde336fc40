package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bnema/tabtree/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(_ *cobra.Command, _ []string) error {
		data, err := yaml.Marshal(GetApp().Config)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema for config files",
	RunE: func(_ *cobra.Command, _ []string) error {
		path, err := config.GenerateSchemaFile()
		if err != nil {
			return err
		}
		fmt.Printf("generated JSON schema: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSchemaCmd)
}
