package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "omap",
	Short: "generate orienteering maps from LiDAR point clouds",
	Long: `omap builds a vector orienteering map from aerial LiDAR ground
returns:
	- triangulate the ground points into a terrain model,
	- classify lakes, cliffs and marshes,
	- trace elevation contours,
	- stream the resulting map objects to a GeoJSON file.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
