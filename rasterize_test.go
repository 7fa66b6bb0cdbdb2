package rasmap

import (
	"math"
	"testing"

	"github.com/hydrograph/rasmap/grid"
)

// pipeline runs face/vertex resolution for a snapshot over a topology.
func pipeline(topo *Topology, cellVals []float64) (*FaceValues, []float64) {
	fv := ComputeFaceValues(topo, cellVals, NewDefaultConnectionPolicy())
	return fv, ComputeVertexValues(topo, fv)
}

// 10x10 unit-cell mesh with a half-resolution target raster: every pixel
// center falls strictly inside exactly one cell.
func tenByTen(t *testing.T) (*Topology, *SpatialIndex, *grid.Definition) {
	topo := mustTopo(t, newGridMesh(10, 10, 0., 0., 1.))
	return topo, NewSpatialIndex(topo), &grid.Definition{Eorig: 0., Norig: 10., Cs: .5, Nr: 20, Nc: 20}
}

func TestRasterizeExactlyOnce(t *testing.T) {
	topo, si, gd := tenByTen(t)
	cellVals := make([]float64, topo.NCells())
	for i := range cellVals {
		cellVals[i] = float64(i)
	}
	fv, vv := pipeline(topo, cellVals)
	rb, _ := Rasterize(topo, si, vv, fv, cellVals, gd, Options{Mode: Flat})

	for row := 0; row < gd.Nr; row++ {
		for col := 0; col < gd.Nc; col++ {
			px, py := gd.PixelCenter(row, col)
			want := float64(si.CellAt(px, py))
			got := float64(rb.Data[gd.Index(row, col)])
			if got != want {
				t.Fatalf("pixel (%d,%d) at (%f,%f): cell %g wrote it, want %g", row, col, px, py, got, want)
			}
		}
	}
}

func TestRasterizeAffineRoundTrip(t *testing.T) {
	f := func(x, y float64) float64 { return .5*x + .25*y + 2. }
	topo, si, gd := tenByTen(t)
	cellVals := make([]float64, topo.NCells())
	for c := 0; c < topo.NCells(); c++ {
		cellVals[c] = f(topo.CellCx[c], topo.CellCy[c])
	}
	fv, vv := pipeline(topo, cellVals)
	rb, _ := Rasterize(topo, si, vv, fv, cellVals, gd, Options{})

	// perimeter vertices lack full regression support; check the interior
	for row := 0; row < gd.Nr; row++ {
		for col := 0; col < gd.Nc; col++ {
			px, py := gd.PixelCenter(row, col)
			if px < 1. || px > 9. || py < 1. || py > 9. {
				continue
			}
			got := float64(rb.Data[gd.Index(row, col)])
			if math.Abs(got-f(px, py)) > 1e-4 {
				t.Fatalf("pixel (%f,%f): %f, want %f", px, py, got, f(px, py))
			}
		}
	}
}

func TestRasterizeNodataPropagation(t *testing.T) {
	topo, si, gd := tenByTen(t)
	cellVals := make([]float64, topo.NCells())
	for c := 0; c < topo.NCells(); c++ {
		cellVals[c] = 5.
	}
	// dry out the 2x2 block around vertex (5,5): all four of its faces
	// disconnect and the vertex must go NODATA
	dry := []int{4*10 + 4, 4*10 + 5, 5*10 + 4, 5*10 + 5}
	for _, c := range dry {
		cellVals[c] = NODATA
	}
	fv, vv := pipeline(topo, cellVals)

	for v := 0; v < topo.NVerts(); v++ {
		if topo.VertXY[v][0] == 5. && topo.VertXY[v][1] == 5. && vv[v] != NODATA {
			t.Fatalf("vertex (5,5) value %f, want NODATA", vv[v])
		}
	}

	rb, diag := Rasterize(topo, si, vv, fv, cellVals, gd, Options{})
	if len(diag.UncoveredVerts) == 0 {
		t.Fatal("no uncovered vertices reported")
	}
	// every pixel of the dry block depends on vertex (5,5) with nonzero
	// (clamped) bilinear weight; none may carry a fabricated finite value
	for row := 0; row < gd.Nr; row++ {
		for col := 0; col < gd.Nc; col++ {
			px, py := gd.PixelCenter(row, col)
			if px > 4. && px < 6. && py > 4. && py < 6. {
				if got := rb.Data[gd.Index(row, col)]; got != rb.Nodata {
					t.Fatalf("pixel (%f,%f) inside dry block: %f, want nodata", px, py, got)
				}
			}
		}
	}
	// far wet pixels stay finite
	if got := rb.Data[gd.Index(2, 2)]; got == rb.Nodata {
		t.Fatal("wet pixel lost to nodata")
	}
}

func TestConcurrentMatchesSerial(t *testing.T) {
	f := func(x, y float64) float64 { return .1*x - .2*y + 6. }
	topo, si, gd := tenByTen(t)
	cellVals := make([]float64, topo.NCells())
	for c := 0; c < topo.NCells(); c++ {
		cellVals[c] = f(topo.CellCx[c], topo.CellCy[c])
	}
	fv, vv := pipeline(topo, cellVals)
	serial, _ := Rasterize(topo, si, vv, fv, cellVals, gd, Options{})

	ev := NewEvaluator(topo, gd, Options{})
	conc, _ := ev.EvaluateConcurrent(&Snapshot{Cell: cellVals}, 4)
	for i := range serial.Data {
		if serial.Data[i] != conc.Data[i] {
			t.Fatalf("pixel %d: serial %f, concurrent %f", i, serial.Data[i], conc.Data[i])
		}
	}
}

func TestRasterizeVectorUniformFlow(t *testing.T) {
	topo, si, gd := tenByTen(t)
	cellVals := make([]float64, topo.NCells())
	for c := range cellVals {
		cellVals[c] = 10.
	}
	faceVel := make([][2]float64, topo.NFaces())
	for fc := range faceVel {
		faceVel[fc] = [2]float64{1., 2.}
	}
	fv := ComputeFaceValues(topo, cellVals, NewDefaultConnectionPolicy())
	vvec := ComputeVertexVectors(topo, fv, faceVel)
	u, v, _ := RasterizeVector(topo, si, vvec, fv, faceVel, cellVals, gd, Options{})

	for row := 0; row < gd.Nr; row++ {
		for col := 0; col < gd.Nc; col++ {
			px, py := gd.PixelCenter(row, col)
			if px < 1. || px > 9. || py < 1. || py > 9. {
				continue
			}
			idx := gd.Index(row, col)
			if math.Abs(float64(u.Data[idx])-1.) > 1e-5 || math.Abs(float64(v.Data[idx])-2.) > 1e-5 {
				t.Fatalf("pixel (%f,%f): velocity (%f,%f), want (1,2)", px, py, u.Data[idx], v.Data[idx])
			}
		}
	}
}

func TestRasterizeZeroNodataSentinel(t *testing.T) {
	topo := mustTopo(t, newGridMesh(10, 10, 0., 0., 1.))
	si := NewSpatialIndex(topo)
	// grid overhangs the mesh by one unit on every side
	gd := &grid.Definition{Eorig: -1., Norig: 11., Cs: .5, Nr: 24, Nc: 24}
	cellVals := make([]float64, topo.NCells())
	for i := range cellVals {
		cellVals[i] = float64(i) + 1.
	}
	fv, vv := pipeline(topo, cellVals)

	zero := float32(0.)
	rb, _ := Rasterize(topo, si, vv, fv, cellVals, gd, Options{Mode: Flat, Nodata: &zero})
	if rb.Nodata != 0. {
		t.Fatalf("buffer sentinel %f, want 0", rb.Nodata)
	}
	if got := rb.Data[gd.Index(0, 0)]; got != 0. {
		t.Fatalf("uncovered corner pixel = %f, want sentinel 0", got)
	}
	px, py := gd.PixelCenter(12, 12)
	if got := rb.Data[gd.Index(12, 12)]; float64(got) != cellVals[si.CellAt(px, py)] {
		t.Fatalf("covered pixel (%f,%f) = %f, want %f", px, py, got, cellVals[si.CellAt(px, py)])
	}
}

func TestRasterizeVectorIgnoresRenderMode(t *testing.T) {
	topo, si, gd := tenByTen(t)
	cellVals := make([]float64, topo.NCells())
	for c := range cellVals {
		cellVals[c] = 10.
	}
	faceVel := make([][2]float64, topo.NFaces())
	for fc := range faceVel {
		faceVel[fc] = [2]float64{float64(fc%7) - 3., float64(fc%5) - 2.}
	}
	fv := ComputeFaceValues(topo, cellVals, NewDefaultConnectionPolicy())
	vvec := ComputeVertexVectors(topo, fv, faceVel)

	us, vs, _ := RasterizeVector(topo, si, vvec, fv, faceVel, cellVals, gd, Options{})
	uf, vf, _ := RasterizeVector(topo, si, vvec, fv, faceVel, cellVals, gd, Options{Mode: Flat})
	for i := range us.Data {
		if us.Data[i] != uf.Data[i] || vs.Data[i] != vf.Data[i] {
			t.Fatalf("pixel %d: flat mode altered vector output (%f,%f) vs (%f,%f)",
				i, uf.Data[i], vf.Data[i], us.Data[i], vs.Data[i])
		}
	}
}

func TestRasterizeShallowReduction(t *testing.T) {
	topo, si, gd := tenByTen(t)
	cellVals := make([]float64, topo.NCells())
	for c := 0; c < topo.NCells(); c++ {
		cellVals[c] = .5 + .01*topo.CellCx[c] // a gently sloping sheet
	}
	terr := &GridTerrain{GD: gd, Z: gd.NullArray32(0.), Nodata: -9999.}
	for i := range terr.Z {
		terr.Z[i] = 0.
	}
	fv, vv := pipeline(topo, cellVals)
	opts := Options{ReduceShallow: true, ShallowTol: 10., Terrain: terr}
	rb, _ := Rasterize(topo, si, vv, fv, cellVals, gd, opts)

	// the whole sheet is shallower than the tolerance: every interior wet
	// pixel must be reduced to its flat cell value
	for row := 0; row < gd.Nr; row++ {
		for col := 0; col < gd.Nc; col++ {
			px, py := gd.PixelCenter(row, col)
			if px < 1. || px > 9. || py < 1. || py > 9. {
				continue
			}
			c := si.CellAt(px, py)
			got := float64(rb.Data[gd.Index(row, col)])
			if math.Abs(got-cellVals[c]) > 1e-6 {
				t.Fatalf("pixel (%f,%f): %f, want flat cell value %f", px, py, got, cellVals[c])
			}
		}
	}
}

func TestRasterizeCancel(t *testing.T) {
	topo, si, gd := tenByTen(t)
	cellVals := make([]float64, topo.NCells())
	fv, vv := pipeline(topo, cellVals)

	jb := newJob(topo, gd, Options{})
	jb.vv, jb.fv, jb.cellVals = vv, fv, cellVals
	flag := int32(1)
	jb.cancel = &flag
	jb.run(candidates(si, gd), newScratch(topo.MaxCellVerts()))
	for i, m := range jb.mask {
		if m != 0 {
			t.Fatalf("pixel %d written after cancel", i)
		}
	}
}
