// Package mapper wires the whole pipeline together: LAS ingestion,
// terrain model construction, the lake, cliff and marsh classifiers, the
// hydrology simulation and the contour tracer, all streaming map objects
// into a single sink.
package mapper

import (
	"fmt"
	"math"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/arl/omap/cliffs"
	"github.com/arl/omap/contours"
	"github.com/arl/omap/dtm"
	"github.com/arl/omap/geometry"
	"github.com/arl/omap/hydro"
	"github.com/arl/omap/internal/tag"
	"github.com/arl/omap/lakes"
	"github.com/arl/omap/las"
	"github.com/arl/omap/mapobj"
	"github.com/arl/omap/marshes"
	"github.com/arl/omap/sweref"
)

// Config is a full run description.
type Config struct {
	Settings

	// InputPaths are the LAS files to build the map from.
	InputPaths []string

	// Sink receives the generated map objects.
	Sink mapobj.Sink

	// Features contributes preexisting map features; nil adds none.
	Features FeatureProvider

	// Declination provides the magnetic declination; nil means zero.
	Declination DeclinationProvider

	// Quiet suppresses progress output.
	Quiet bool
}

// Result summarizes what a run produced.
type Result struct {
	Triangles int
	Lakes     int
	Cliffs    int
	Marshes   int
	Contours  int
}

// Run executes the pipeline to completion.
func Run(cfg Config) (Result, error) {
	var res Result
	if len(cfg.InputPaths) == 0 {
		return res, fmt.Errorf("mapper: no input files")
	}
	if cfg.Features == nil {
		cfg.Features = NopFeatures{}
	}
	if cfg.Declination == nil {
		cfg.Declination = ConstantDeclination(0)
	}
	mainLog := tag.New("MAIN", color.FgGreen, cfg.Quiet)

	// Gather the map extent from the file headers.
	var records []las.Record
	var conv las.PointConverter
	box := geometry.Rectangle{
		Southwest: geometry.Point2D{East: math.Inf(1), North: math.Inf(1)},
		Northeast: geometry.Point2D{East: math.Inf(-1), North: math.Inf(-1)},
	}
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for i, path := range cfg.InputPaths {
		h, recs, err := las.ReadRecords(path)
		if err != nil {
			return res, err
		}
		if i == 0 {
			conv = las.NewPointConverter(h)
		}
		records = append(records, recs...)
		box.Southwest.East = math.Min(box.Southwest.East, h.MinX)
		box.Southwest.North = math.Min(box.Southwest.North, h.MinY)
		box.Northeast.East = math.Max(box.Northeast.East, h.MaxX)
		box.Northeast.North = math.Max(box.Northeast.North, h.MaxY)
		minZ = math.Min(minZ, h.MinZ)
		maxZ = math.Max(maxZ, h.MaxZ)
	}
	mainLog.Printf("%d point data records in %d files.", len(records), len(cfg.InputPaths))
	logPointStats(mainLog, records)

	var ground, water []geometry.Point3D
	for _, r := range records {
		switch r.Classification {
		case las.ClassGround:
			ground = append(ground, conv.ToPoint3D(r))
		case las.ClassWater:
			water = append(water, conv.ToPoint3D(r))
		}
	}

	// Map orientation: grid convergence plus magnetic declination.
	middle := sweref.ToWgs84(sweref.Sweref{East: box.Middle().East, North: box.Middle().North})
	convergence := meridianConvergence(middle)
	declination, err := cfg.Declination.Declination(middle, minZ*0.001)
	if err != nil {
		return res, fmt.Errorf("mapper: declination: %w", err)
	}
	angle := declination + convergence
	mainLog.Printf("Lowest point over sea level: %.0f m", minZ)
	mainLog.Printf("Meridian convergence: %.2f°", convergence)
	mainLog.Printf("Magnetic declination: %.2f°", declination)

	// The sink drains the object channel until the terminator arrives.
	objects := make(chan mapobj.Object, 256)
	var sinkGroup errgroup.Group
	sinkGroup.Go(func() error { return mapobj.Drain(objects, cfg.Sink) })

	// Preexisting map features load concurrently with the terrain
	// model build.
	var prodGroup errgroup.Group
	prodGroup.Go(func() error { return cfg.Features.Provide(objects) })

	d, err := dtm.New(ground, cfg.ExteriorMargin)
	if err != nil {
		return res, fmt.Errorf("mapper: %w", err)
	}
	res.Triangles = d.NumTriangles
	mainLog.Printf("DTM triangulation complete, %d triangles.", d.NumTriangles)

	// Lake, cliff and marsh run strictly in sequence: they share the
	// terrain label and the lake pass rewrites vertex elevations.
	res.Lakes, err = lakes.Find(d, water, conv.ZResolution(), objects,
		tag.New("LAKE", color.FgBlue, cfg.Quiet))
	if err != nil {
		return res, err
	}
	res.Cliffs, err = cliffs.Detect(d, objects, tag.New("CLIFF", color.FgYellow, cfg.Quiet))
	if err != nil {
		return res, err
	}

	// Contours trace a private clone, free of later mutations. The
	// count is read back only after the producer group is joined.
	clone := d.Clone()
	var contourCount int
	prodGroup.Go(func() error {
		n, err := contours.Generate(clone, contours.Params{
			MinZ:         minZ,
			MaxZ:         maxZ,
			ZResolution:  conv.ZResolution(),
			Equidistance: cfg.Equidistance,
			OffsetStep:   cfg.ContourOffsetStep,
		}, objects, tag.New("CONTOUR", color.FgRed, cfg.Quiet))
		contourCount = n
		return err
	})

	addMeridians(box, cfg.MeridianSpacing, angle, objects,
		tag.New("MISC", color.FgMagenta, cfg.Quiet))

	absorbed := hydro.Rain(d, cfg.RainDepth, cfg.AbsorptionFactor, cfg.HydroStopVolume,
		tag.New("RAIN", color.FgBlue, cfg.Quiet))
	res.Marshes, err = marshes.Detect(d, absorbed, cfg.RainDepth, objects,
		tag.New("MARSH", color.FgCyan, cfg.Quiet))
	if err != nil {
		return res, err
	}

	if err := prodGroup.Wait(); err != nil {
		return res, err
	}
	res.Contours = contourCount
	objects <- mapobj.Terminator()
	if err := sinkGroup.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

func logPointStats(log *tag.Logger, records []las.Record) {
	count := func(class uint8) int {
		n := 0
		for _, r := range records {
			if r.Classification == class {
				n++
			}
		}
		return n
	}
	log.Printf("%d / %d / %d low / medium / high vegetation points.",
		count(las.ClassLowVegetation), count(las.ClassMediumVegetation), count(las.ClassHighVegetation))
	log.Printf("%d ground and %d water points.", count(las.ClassGround), count(las.ClassWater))
	log.Printf("%d building and %d unclassified points.", count(las.ClassBuilding), count(las.ClassUnclassified))
}

// meridianConvergence measures the local angle between grid north and
// true north by projecting two points on the same geodetic meridian. The
// result is the grid bearing of true north in degrees, clockwise from
// grid north: negative east of the central meridian, positive west of it.
func meridianConvergence(middle sweref.Wgs84) float64 {
	top := sweref.FromWgs84(sweref.Wgs84{Latitude: middle.Latitude + 0.003, Longitude: middle.Longitude})
	bottom := sweref.FromWgs84(sweref.Wgs84{Latitude: middle.Latitude - 0.003, Longitude: middle.Longitude})
	return 90 - math.Atan2(top.North-bottom.North, top.East-bottom.East)*180/math.Pi
}
