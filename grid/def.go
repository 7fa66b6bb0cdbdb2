// Package grid defines the georeferenced raster target: an affine, uniform,
// unrotated grid addressed row-major from the upper-left corner.
package grid

import (
	"encoding/gob"
	"fmt"
	"os"
	"strconv"

	"github.com/maseology/mmio"
)

// Definition locates a raster: upper-left corner (Eorig, Norig), square cell
// size Cs, and Nr x Nc cells. Row 0 is the northernmost row.
type Definition struct {
	Eorig, Norig, Cs float64
	Nr, Nc           int
}

func (gd *Definition) NCells() int { return gd.Nr * gd.Nc }

// PixelCenter returns the coordinate of the center of pixel (row, col).
func (gd *Definition) PixelCenter(row, col int) (x, y float64) {
	return gd.Eorig + (float64(col)+.5)*gd.Cs, gd.Norig - (float64(row)+.5)*gd.Cs
}

// ColRow converts a coordinate to pixel indices; the result may be out of
// range for points beyond the grid.
func (gd *Definition) ColRow(x, y float64) (col, row int) {
	col = int((x - gd.Eorig) / gd.Cs)
	row = int((gd.Norig - y) / gd.Cs)
	if x < gd.Eorig {
		col--
	}
	if y > gd.Norig {
		row--
	}
	return
}

func (gd *Definition) Index(row, col int) int { return row*gd.Nc + col }

// Extent returns (xmin, ymin, xmax, ymax).
func (gd *Definition) Extent() (float64, float64, float64, float64) {
	return gd.Eorig, gd.Norig - float64(gd.Nr)*gd.Cs, gd.Eorig + float64(gd.Nc)*gd.Cs, gd.Norig
}

// NullArray32 allocates a row-major buffer prefilled with the nodata value.
func (gd *Definition) NullArray32(nodata float32) []float32 {
	a := make([]float32, gd.NCells())
	for i := range a {
		a[i] = nodata
	}
	return a
}

// ReadGDEF imports a grid definition text file: OE, ON, ROT, NR, NC, CS per
// line. Rotated grids are not supported.
func ReadGDEF(fp string) (*Definition, error) {
	a, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("ReadGDEF %s: %v", fp, err)
	}
	if len(a) < 6 {
		return nil, fmt.Errorf("ReadGDEF %s: expecting 6 lines, found %d", fp, len(a))
	}
	oe, err := strconv.ParseFloat(a[0], 64)
	if err != nil {
		return nil, fmt.Errorf("ReadGDEF %s: OE: %v", fp, err)
	}
	on, err := strconv.ParseFloat(a[1], 64)
	if err != nil {
		return nil, fmt.Errorf("ReadGDEF %s: ON: %v", fp, err)
	}
	rot, err := strconv.ParseFloat(a[2], 64)
	if err != nil {
		return nil, fmt.Errorf("ReadGDEF %s: ROT: %v", fp, err)
	}
	if rot != 0. {
		return nil, fmt.Errorf("ReadGDEF %s: rotated grids not supported", fp)
	}
	nr, err := strconv.ParseInt(a[3], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("ReadGDEF %s: NR: %v", fp, err)
	}
	nc, err := strconv.ParseInt(a[4], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("ReadGDEF %s: NC: %v", fp, err)
	}
	cs, err := strconv.ParseFloat(a[5], 64)
	if err != nil {
		return nil, fmt.Errorf("ReadGDEF %s: CS: %v", fp, err)
	}
	return &Definition{Eorig: oe, Norig: on, Cs: cs, Nr: int(nr), Nc: int(nc)}, nil
}

func (gd *Definition) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" grid.Definition.SaveGob %v", err)
	}
	if err := gob.NewEncoder(f).Encode(gd); err != nil {
		return fmt.Errorf(" grid.Definition.SaveGob %v", err)
	}
	f.Close()
	return nil
}

func LoadGobDefinition(fp string) (*Definition, error) {
	var gd Definition
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	if err := gob.NewDecoder(f).Decode(&gd); err != nil {
		return nil, err
	}
	f.Close()
	return &gd, nil
}
