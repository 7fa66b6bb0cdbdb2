package rasmap

import (
	"sync/atomic"

	"github.com/hydrograph/rasmap/grid"
)

// RasterBuffer is the terminal artifact: a row-major float32 grid plus its
// georeferencing.
type RasterBuffer struct {
	GD     *grid.Definition
	Data   []float32
	Nodata float32
}

// Diagnostics lists what a completed rasterization could not cover. Neither
// list is an error: the raster is valid, just NODATA-holed.
type Diagnostics struct {
	SkippedCells   []int // degenerate geometry, skipped at build
	UncoveredVerts []int // vertices with no connected face
}

// Options steers a rasterization job.
type Options struct {
	// Mode selects sloped (interpolated) or flat (cell-constant) rendering
	// of scalar fields. Vector fields are always interpolated.
	Mode RenderMode

	// ReduceShallow forces flat rendering for pixels whose interpolated
	// depth above Terrain falls below ShallowTol. Ignored without a
	// TerrainSource.
	ReduceShallow bool
	ShallowTol    float64
	Terrain       TerrainSource

	Nodata *float32 // output sentinel; nil means the package default
}

func (o *Options) nodata() float32 {
	if o.Nodata == nil {
		return float32(NODATA)
	}
	return *o.Nodata
}

// job bundles the immutable inputs and shared outputs of one rasterization.
// The occupancy mask is claimed with atomic compare-and-swap, so cells may
// be partitioned across workers arbitrarily while every pixel is still
// assigned exactly once, first claim wins.
type job struct {
	t        *Topology
	gd       *grid.Definition
	opts     Options
	nodata   float32
	vv       []float64    // vertex scalars (scalar jobs)
	vvec     [][2]float64 // vertex vectors (vector jobs)
	fv       *FaceValues
	faceVel  [][2]float64
	cellVals []float64
	mask     []uint32
	out      []float32
	out2     []float32 // v component, vector jobs only
	cancel   *int32
}

// Rasterize renders a scalar field serially: vertex values are blended with
// generalized barycentric weights (or bilinear weights on rectangular
// cells); flat mode stamps the cell value. Candidate cells are restricted to
// those intersecting the grid extent via the spatial index.
func Rasterize(t *Topology, si *SpatialIndex, vv []float64, fv *FaceValues,
	cellVals []float64, gd *grid.Definition, opts Options) (*RasterBuffer, *Diagnostics) {

	jb := newJob(t, gd, opts)
	jb.vv, jb.fv, jb.cellVals = vv, fv, cellVals
	s := newScratch(t.MaxCellVerts())
	jb.run(candidates(si, gd), s)
	return jb.buffer(jb.out), jb.diagnostics(vv)
}

// RasterizeVector renders a face-sampled vector field into u and v component
// rasters, combining residual vertex weights with donated face weights.
// Options.Mode has no effect here: flat rendering is scalar-only.
func RasterizeVector(t *Topology, si *SpatialIndex, vvec [][2]float64, fv *FaceValues,
	faceVel [][2]float64, cellVals []float64, gd *grid.Definition, opts Options) (u, v *RasterBuffer, d *Diagnostics) {

	jb := newJob(t, gd, opts)
	jb.vvec, jb.fv, jb.faceVel, jb.cellVals = vvec, fv, faceVel, cellVals
	jb.out2 = gd.NullArray32(jb.nodata)
	s := newScratch(t.MaxCellVerts())
	jb.run(candidates(si, gd), s)
	return jb.buffer(jb.out), jb.buffer(jb.out2), jb.diagnostics(nil)
}

func newJob(t *Topology, gd *grid.Definition, opts Options) *job {
	jb := &job{t: t, gd: gd, opts: opts, nodata: opts.nodata()}
	jb.out = gd.NullArray32(jb.nodata)
	jb.mask = make([]uint32, gd.NCells())
	return jb
}

func candidates(si *SpatialIndex, gd *grid.Definition) []int {
	xmin, ymin, xmax, ymax := gd.Extent()
	return si.CellsIntersecting(xmin, ymin, xmax, ymax)
}

func (jb *job) buffer(data []float32) *RasterBuffer {
	return &RasterBuffer{GD: jb.gd, Data: data, Nodata: jb.nodata}
}

func (jb *job) diagnostics(vv []float64) *Diagnostics {
	d := &Diagnostics{SkippedCells: append([]int(nil), jb.t.Degenerate...)}
	for v, x := range vv {
		if x == NODATA {
			d.UncoveredVerts = append(d.UncoveredVerts, v)
		}
	}
	return d
}

// run rasterizes a set of cells with one worker's scratch, checking the
// cancel flag every 64 cells. Already-written pixels stay valid after a
// cancel; the raster is simply incomplete.
func (jb *job) run(cells []int, s *scratch) {
	for i, c := range cells {
		if i%64 == 0 && jb.canceled() {
			return
		}
		if len(jb.t.CellVerts[c]) < 3 {
			continue
		}
		jb.cell(c, s)
	}
}

func (jb *job) canceled() bool {
	return jb.cancel != nil && atomic.LoadInt32(jb.cancel) != 0
}

// cell scans the pixel bounding box of cell c, claims the pixels whose
// centers it contains, and writes their interpolated values.
func (jb *job) cell(c int, s *scratch) {
	t, gd := jb.t, jb.gd
	s.setCell(t, c)

	c0, r0 := gd.ColRow(t.CellXmin[c], t.CellYmax[c])
	c1, r1 := gd.ColRow(t.CellXmax[c], t.CellYmin[c])
	if c1 < 0 || r1 < 0 || c0 >= gd.Nc || r0 >= gd.Nr {
		return
	}
	c0, r0 = max(c0, 0), max(r0, 0)
	c1, r1 = min(c1, gd.Nc-1), min(r1, gd.Nr-1)

	rect := t.CellRect[c]
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			px, py := gd.PixelCenter(row, col)
			if rect {
				if px < s.xmin || px > s.xmax || py < s.ymin || py > s.ymax {
					continue
				}
			} else if !s.contains(px, py) {
				continue
			}
			idx := gd.Index(row, col)
			if !atomic.CompareAndSwapUint32(&jb.mask[idx], 0, 1) {
				continue
			}
			if jb.vvec != nil {
				jb.writeVector(c, idx, px, py, rect, s)
			} else {
				jb.out[idx] = jb.scalarAt(c, px, py, rect, s)
			}
		}
	}
}

func (jb *job) scalarAt(c int, px, py float64, rect bool, s *scratch) float32 {
	if jb.opts.Mode == Flat {
		return jb.flat(c)
	}
	w := jb.weights(px, py, rect, s)
	val, ok := 0., true
	for j, v := range jb.t.CellVerts[c] {
		if w[j] <= 0. {
			continue
		}
		if jb.vv[v] == NODATA {
			ok = false
			break
		}
		val += w[j] * jb.vv[v]
	}
	if !ok {
		return jb.nodata
	}
	if jb.opts.ReduceShallow && jb.opts.Terrain != nil {
		if z := jb.opts.Terrain.Elevation(px, py); z != NODATA && val-z < jb.opts.ShallowTol {
			return jb.flat(c)
		}
	}
	return float32(val)
}

func (jb *job) flat(c int) float32 {
	if v := jb.cellVals[c]; v != NODATA {
		return float32(v)
	}
	return jb.nodata
}

func (jb *job) writeVector(c, idx int, px, py float64, rect bool, s *scratch) {
	jb.weights(px, py, rect, s)
	resid, facew := s.donate()
	u, v, ok := 0., 0., true
	for j, vert := range jb.t.CellVerts[c] {
		if resid[j] <= 0. {
			continue
		}
		if jb.vvec[vert][0] == NODATA || jb.vvec[vert][1] == NODATA {
			ok = false
			break
		}
		u += resid[j] * jb.vvec[vert][0]
		v += resid[j] * jb.vvec[vert][1]
	}
	if ok {
		for i, f := range jb.t.CellFaces[c] {
			if facew[i] <= 0. {
				continue
			}
			if jb.faceVel[f][0] == NODATA || jb.faceVel[f][1] == NODATA {
				ok = false
				break
			}
			u += facew[i] * jb.faceVel[f][0]
			v += facew[i] * jb.faceVel[f][1]
		}
	}
	if !ok {
		jb.out[idx], jb.out2[idx] = jb.nodata, jb.nodata
		return
	}
	jb.out[idx], jb.out2[idx] = float32(u), float32(v)
}

func (jb *job) weights(px, py float64, rect bool, s *scratch) []float64 {
	if rect {
		return s.bilinear(px, py)
	}
	return s.wachspress(px, py)
}
