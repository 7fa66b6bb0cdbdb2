// Package rasmap converts per-cell results from an unstructured polygonal
// flood-model mesh into smooth georeferenced raster grids. Face values are
// resolved under hydraulic-connectivity constraints, vertex values follow by
// planar regression, and pixels are filled with generalized barycentric
// (Wachspress) weights, with a bilinear fast path for rectangular cells.
package rasmap

// NODATA is the default sentinel for missing values. Callers may substitute
// their own on output buffers; internally this value never participates in a
// weighted sum.
const NODATA = -9999.

// Variable selects the interpolation path: scalars (e.g. water-surface
// elevation) are sampled at vertices only; vectors (e.g. velocity) are
// natively sampled at face centers and require the donation step that
// redistributes vertex weights onto faces.
type Variable int

const (
	Scalar Variable = iota
	Vector
)

// RenderMode selects between smooth vertex-interpolated output and constant
// value-per-cell output.
type RenderMode int

const (
	Sloped RenderMode = iota
	Flat
)
