package rasmap

import "github.com/hydrograph/rasmap/grid"

// TerrainSource samples ground elevation. The shallow-depth reduction policy
// needs one; a nil TerrainSource disables that policy.
type TerrainSource interface {
	Elevation(x, y float64) float64 // NODATA where unknown
}

// GridTerrain is a raster-backed TerrainSource with bilinear sampling among
// the four surrounding pixel centers. Coordinates beyond the outermost pixel
// centers clamp to the edge.
type GridTerrain struct {
	GD     *grid.Definition
	Z      []float32
	Nodata float32
}

func (g *GridTerrain) Elevation(x, y float64) float64 {
	gd := g.GD
	if gd.Nc < 1 || gd.Nr < 1 {
		return NODATA
	}
	fx := (x-gd.Eorig)/gd.Cs - .5
	fy := (gd.Norig-y)/gd.Cs - .5
	c0, r0 := int(fx), int(fy)
	if fx < 0. {
		c0 = 0
		fx = 0.
	}
	if fy < 0. {
		r0 = 0
		fy = 0.
	}
	if c0 > gd.Nc-2 {
		c0 = gd.Nc - 2
	}
	if r0 > gd.Nr-2 {
		r0 = gd.Nr - 2
	}
	// single-column/-row grids collapse the stencil onto the edge
	c0, r0 = max(c0, 0), max(r0, 0)
	c1, r1 := min(c0+1, gd.Nc-1), min(r0+1, gd.Nr-1)
	xf, yf := fx-float64(c0), fy-float64(r0)
	if xf > 1. {
		xf = 1.
	}
	if yf > 1. {
		yf = 1.
	}
	z00 := g.Z[gd.Index(r0, c0)]
	z01 := g.Z[gd.Index(r0, c1)]
	z10 := g.Z[gd.Index(r1, c0)]
	z11 := g.Z[gd.Index(r1, c1)]
	if z00 == g.Nodata || z01 == g.Nodata || z10 == g.Nodata || z11 == g.Nodata {
		return NODATA
	}
	return (1.-yf)*((1.-xf)*float64(z00)+xf*float64(z01)) +
		yf*((1.-xf)*float64(z10)+xf*float64(z11))
}
