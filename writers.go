package rasmap

import (
	"fmt"

	"github.com/hydrograph/rasmap/grid"
	"github.com/maseology/mmio"
)

// WriteBil persists the raster as float32 .bil with its .hdr sidecar.
func (rb *RasterBuffer) WriteBil(fp string) error {
	if err := grid.WriteBil(fp, rb.GD, rb.Data, rb.Nodata); err != nil {
		return fmt.Errorf("rasterbuffer.WriteBil failed: %v", err)
	}
	return nil
}

// WriteAscii persists the raster as an ESRI ASCII grid.
func (rb *RasterBuffer) WriteAscii(fp string) error {
	if err := grid.WriteAscii(fp, rb.GD, rb.Data, rb.Nodata); err != nil {
		return fmt.Errorf("rasterbuffer.WriteAscii failed: %v", err)
	}
	return nil
}

// WriteValues dumps the buffer as a flat float64 binary, handy for
// round-tripping through the mmio tool chain.
func (rb *RasterBuffer) WriteValues(fp string) error {
	f := make([]float64, len(rb.Data))
	for i, v := range rb.Data {
		f[i] = float64(v)
	}
	if err := mmio.WriteFloats(fp, f); err != nil {
		return fmt.Errorf("rasterbuffer.WriteValues failed: %v", err)
	}
	return nil
}
