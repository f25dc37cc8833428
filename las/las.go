// Package las reads LAS 1.x LiDAR point files: the public header block and
// the point data records. Only the plain (uncompressed) layout is
// supported; LAZ streams must be decompressed externally.
package las

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Point classes used by the map generator, per the ASPRS LAS
// classification table.
const (
	ClassUnclassified     = 1
	ClassGround           = 2
	ClassLowVegetation    = 3
	ClassMediumVegetation = 4
	ClassHighVegetation   = 5
	ClassBuilding         = 6
	ClassWater            = 9
)

// Header is the LAS public header block. Field order and widths follow the
// LAS 1.2 specification; all values are little-endian on disk.
type Header struct {
	FileSignature  [4]byte
	FileSourceID   uint16
	GlobalEncoding uint16

	ProjectID1 uint32
	ProjectID2 uint16
	ProjectID3 uint16
	ProjectID4 [8]byte

	VersionMajor       uint8
	VersionMinor       uint8
	SystemIdentifier   [32]byte
	GeneratingSoftware [32]byte

	DayOfYearCreated uint16
	YearCreated      uint16
	HeaderSize       uint16
	OffsetToPoints   uint32
	NumVLRs          uint32
	PointFormat      uint8
	PointRecordLen   uint16
	NumPointRecords  uint32
	NumByReturn      [5]uint32

	XScale, YScale, ZScale    float64
	XOffset, YOffset, ZOffset float64

	MaxX, MinX float64
	MaxY, MinY float64
	MaxZ, MinZ float64
}

// Record is a point data record in format 1. Coordinates are raw integers;
// apply the header scale and offset to obtain meters.
type Record struct {
	X, Y, Z        int32
	Intensity      uint16
	ReturnInfo     uint8
	Classification uint8
	ScanAngle      int8
	UserData       uint8
	PointSourceID  uint16
	GPSTime        float64
}

// ReadHeader reads the public header block from the start of the file at
// path.
func ReadHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var h Header
	if err := binary.Read(f, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("las: reading header of %s: %w", path, err)
	}
	if string(h.FileSignature[:]) != "LASF" {
		return nil, fmt.Errorf("las: %s: bad file signature %q", path, h.FileSignature)
	}
	return &h, nil
}

// ReadRecords reads all point data records from the file at path. It
// returns the header and the records.
func ReadRecords(path string) (*Header, []Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var h Header
	if err := binary.Read(f, binary.LittleEndian, &h); err != nil {
		return nil, nil, fmt.Errorf("las: reading header of %s: %w", path, err)
	}
	if string(h.FileSignature[:]) != "LASF" {
		return nil, nil, fmt.Errorf("las: %s: bad file signature %q", path, h.FileSignature)
	}
	if h.PointFormat != 1 {
		return nil, nil, fmt.Errorf("las: %s: unsupported point data format %d", path, h.PointFormat)
	}

	if _, err := f.Seek(int64(h.OffsetToPoints), io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("las: seeking to point data of %s: %w", path, err)
	}

	r := bufio.NewReaderSize(f, 1<<20)
	records := make([]Record, h.NumPointRecords)
	for i := range records {
		if err := binary.Read(r, binary.LittleEndian, &records[i]); err != nil {
			return nil, nil, fmt.Errorf("las: reading record %d of %s: %w", i, path, err)
		}
	}
	return &h, records, nil
}
