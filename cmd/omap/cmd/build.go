package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arl/omap/mapobj"
	"github.com/arl/omap/mapper"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build LASFILE [LASFILE...]",
	Short: "build an orienteering map from LiDAR files",
	Long: `Build an orienteering map from one or more LAS point cloud files.
The map object stream is written as GeoJSON next to the first input file.
Run settings are the defaults, or read from a YAML settings file created
with 'omap config'.`,
	Args: cobra.MinimumNArgs(1),
	Run:  doBuild,
}

var (
	cfgVal         string
	quietVal       bool
	declinationVal float64
)

func init() {
	RootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&cfgVal, "config", "", "run settings file (YAML)")
	buildCmd.Flags().BoolVarP(&quietVal, "quiet", "q", false, "hide additional information while running")
	buildCmd.Flags().Float64Var(&declinationVal, "declination", 0, "magnetic declination in degrees")
}

func doBuild(cmd *cobra.Command, args []string) {
	settings := mapper.NewSettings()
	if cfgVal != "" {
		check(unmarshalYAMLFile(cfgVal, &settings))
	}

	outPath := strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".geojson"
	f, err := os.Create(outPath)
	check(err)
	defer f.Close()

	if !quietVal {
		fmt.Printf("writing to %s\n", outPath)
	}

	res, err := mapper.Run(mapper.Config{
		Settings:    settings,
		InputPaths:  args,
		Sink:        mapobj.NewGeoJSONSink(f),
		Declination: mapper.ConstantDeclination(declinationVal),
		Quiet:       quietVal,
	})
	check(err)

	if !quietVal {
		fmt.Printf("%d triangles, %d lakes, %d cliffs, %d marshes, %d contours\n",
			res.Triangles, res.Lakes, res.Cliffs, res.Marshes, res.Contours)
	}
}
