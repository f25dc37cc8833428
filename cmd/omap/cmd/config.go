package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arl/omap/mapper"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config FILE",
	Short: "create a run settings file",
	Long: `Create a run settings file in YAML format, prefilled with default
values.

If FILE is not provided, 'omap.yml' is used`,
	Run: func(cmd *cobra.Command, args []string) {
		path := "omap.yml"
		if len(args) >= 1 {
			path = args[0]
		}
		check(marshalYAMLFile(path, mapper.NewSettings()))
		fmt.Printf("run settings written to '%s'\n", path)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}
