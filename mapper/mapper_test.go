package mapper

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arl/omap/las"
	"github.com/arl/omap/mapobj"
	"github.com/arl/omap/sweref"
)

// writeTestLAS writes a synthetic format-1 LAS file: a 40x40 m flat plain
// at 5 m elevation with a 6 m hump on its eastern half, plus a cluster of
// water returns on the plain. Coordinates are offset into a plausible
// SWEREF99 TM region.
func writeTestLAS(t *testing.T) string {
	t.Helper()

	const (
		eastOffset  = 500000.0
		northOffset = 6500000.0
		scale       = 0.01
	)
	elevation := func(x, y float64) float64 {
		z := 5.0
		if d := math.Hypot(x-30, y-20); d < 10 {
			z += 6 * (1 - d/10)
		}
		return z
	}

	var recs []las.Record
	put := func(x, y, z float64, class uint8) {
		recs = append(recs, las.Record{
			X: int32(math.Round(x / scale)), Y: int32(math.Round(y / scale)), Z: int32(math.Round(z / scale)),
			Classification: class,
		})
	}
	for j := 0; j <= 20; j++ {
		for i := 0; i <= 20; i++ {
			x, y := float64(i)*2, float64(j)*2
			put(x, y, elevation(x, y), las.ClassGround)
		}
	}
	put(6, 20, 5, las.ClassWater)
	put(8, 18, 5, las.ClassWater)
	put(10, 22, 5, las.ClassWater)

	var h las.Header
	copy(h.FileSignature[:], "LASF")
	h.VersionMajor, h.VersionMinor = 1, 2
	h.HeaderSize = uint16(binary.Size(h))
	h.OffsetToPoints = uint32(binary.Size(h))
	h.PointFormat = 1
	h.PointRecordLen = uint16(binary.Size(las.Record{}))
	h.NumPointRecords = uint32(len(recs))
	h.XScale, h.YScale, h.ZScale = scale, scale, scale
	h.XOffset, h.YOffset, h.ZOffset = eastOffset, northOffset, 0
	h.MinX, h.MaxX = eastOffset, eastOffset+40
	h.MinY, h.MaxY = northOffset, northOffset+40
	h.MinZ, h.MaxZ = 5, 11

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, &h))
	for _, r := range recs {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, &r))
	}
	path := filepath.Join(t.TempDir(), "terrain.las")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestRunEndToEnd(t *testing.T) {
	path := writeTestLAS(t)

	var out bytes.Buffer
	cfg := Config{
		Settings:    NewSettings(),
		InputPaths:  []string{path},
		Sink:        mapobj.NewGeoJSONSink(&out),
		Declination: ConstantDeclination(6.2),
		Quiet:       true,
	}
	cfg.ExteriorMargin = 2

	res, err := Run(cfg)
	require.NoError(t, err)

	assert.Greater(t, res.Triangles, 100)
	assert.Equal(t, 1, res.Lakes, "the flat plain forms one lake around the hump")
	assert.Zero(t, res.Cliffs, "the hump is too gentle for cliffs")
	assert.Greater(t, res.Contours, 0, "the hump produces closed contours")

	var fc struct {
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &fc))

	symbols := make(map[int]int)
	for _, f := range fc.Features {
		symbols[int(f.Properties["symbol"].(float64))]++
	}
	assert.Equal(t, 1, symbols[mapobj.SymbolLake])
	assert.Greater(t, symbols[mapobj.SymbolContour], 0)
	assert.Greater(t, symbols[mapobj.SymbolMeridian], 0)
}

func TestRunNoInput(t *testing.T) {
	_, err := Run(Config{Sink: mapobj.NewGeoJSONSink(&bytes.Buffer{})})
	assert.Error(t, err)
}

func TestMeridianConvergence(t *testing.T) {
	// On the central meridian grid north equals true north.
	assert.InDelta(t, 0.0,
		meridianConvergence(sweref.Wgs84{Latitude: 59, Longitude: 15}), 0.02)

	// East of the central meridian true north lies west of grid north,
	// so the value is negative and grows in magnitude with latitude.
	c1 := meridianConvergence(sweref.Wgs84{Latitude: 59, Longitude: 18})
	assert.Less(t, c1, -1.0)
	c2 := meridianConvergence(sweref.Wgs84{Latitude: 67, Longitude: 18})
	assert.Less(t, c2, c1)
}
