package rasmap

import (
	"fmt"
	"math"
	"sort"
)

// BuildTopology validates the raw mesh arrays and derives the adjacency and
// geometry needed for rasterization: CCW vertex rings aligned with each
// cell's face loop, bearing-ordered vertex incidence, bounding boxes, signed
// areas and the rectangular-cell fast-path flags.
//
// Structural corruption (dangling IDs, mismatched array lengths, face loops
// that do not close) aborts the build with an error; a corrupt mesh cannot
// be salvaged. Degenerate cells (fewer than 3 faces, non-positive area) are
// recorded in Topology.Degenerate and skipped downstream.
func BuildTopology(rm *RawMesh) (*Topology, error) {
	nc, nf, nv := len(rm.CellFaces), len(rm.FaceCells), len(rm.VertXY)
	if len(rm.FaceVerts) != nf || len(rm.FaceMinElev) != nf || len(rm.FaceIsLevee) != nf {
		return nil, fmt.Errorf("buildTopology: face array lengths inconsistent (%d faces)", nf)
	}
	if len(rm.CellMinElev) != nc {
		return nil, fmt.Errorf("buildTopology: cell array lengths inconsistent (%d cells)", nc)
	}

	// reference checks
	for f, cc := range rm.FaceCells {
		for _, c := range cc {
			if c < -1 || c >= nc {
				return nil, fmt.Errorf("buildTopology: face %d references cell %d of %d", f, c, nc)
			}
		}
		v0, v1 := rm.FaceVerts[f][0], rm.FaceVerts[f][1]
		if v0 < 0 || v0 >= nv || v1 < 0 || v1 >= nv {
			return nil, fmt.Errorf("buildTopology: face %d references vertex out of range [0,%d)", f, nv)
		}
		if v0 == v1 {
			return nil, fmt.Errorf("buildTopology: face %d has coincident vertices %d", f, v0)
		}
	}
	for c, fs := range rm.CellFaces {
		for _, f := range fs {
			if f < 0 || f >= nf {
				return nil, fmt.Errorf("buildTopology: cell %d references face %d of %d", c, f, nf)
			}
		}
	}

	t := &Topology{
		CellFaces: rm.CellFaces,
		CellVerts: make([][]int, nc),
		CellCx:    make([]float64, nc),
		CellCy:    make([]float64, nc),
		CellXmin:  make([]float64, nc),
		CellYmin:  make([]float64, nc),
		CellXmax:  make([]float64, nc),
		CellYmax:  make([]float64, nc),
		CellArea:  make([]float64, nc),
		CellRect:  make([]bool, nc),
		CellMinEl: rm.CellMinElev,
		FaceCells: rm.FaceCells,
		FaceVerts: rm.FaceVerts,
		FaceCx:    make([]float64, nf),
		FaceCy:    make([]float64, nf),
		FaceMinEl: rm.FaceMinElev,
		FaceLevee: rm.FaceIsLevee,
		VertXY:    rm.VertXY,
	}

	for f := 0; f < nf; f++ {
		a, b := rm.FaceVerts[f][0], rm.FaceVerts[f][1]
		t.FaceCx[f] = (rm.VertXY[a][0] + rm.VertXY[b][0]) / 2.
		t.FaceCy[f] = (rm.VertXY[a][1] + rm.VertXY[b][1]) / 2.
	}

	for c := 0; c < nc; c++ {
		fs := rm.CellFaces[c]
		if len(fs) < 3 {
			t.Degenerate = append(t.Degenerate, c)
			continue
		}
		ring, err := walkRing(rm, c)
		if err != nil {
			return nil, err
		}
		area := ringArea(rm.VertXY, ring)
		if area <= 1e-12 {
			if area < -1e-12 {
				return nil, fmt.Errorf("buildTopology: cell %d face loop is clockwise", c)
			}
			t.Degenerate = append(t.Degenerate, c)
			continue
		}
		t.CellVerts[c] = ring
		t.CellArea[c] = area

		xmin, ymin := math.Inf(1), math.Inf(1)
		xmax, ymax := math.Inf(-1), math.Inf(-1)
		cx, cy := 0., 0.
		for _, v := range ring {
			x, y := rm.VertXY[v][0], rm.VertXY[v][1]
			cx += x
			cy += y
			xmin, ymin = math.Min(xmin, x), math.Min(ymin, y)
			xmax, ymax = math.Max(xmax, x), math.Max(ymax, y)
		}
		fn := float64(len(ring))
		t.CellCx[c], t.CellCy[c] = cx/fn, cy/fn
		t.CellXmin[c], t.CellYmin[c] = xmin, ymin
		t.CellXmax[c], t.CellYmax[c] = xmax, ymax
		t.CellRect[c] = isRectangular(rm.VertXY, ring, xmax-xmin+ymax-ymin)
	}

	// vertex incidence, ordered CCW by bearing toward each face midpoint
	vf := make([][]int, nv)
	for f := 0; f < nf; f++ {
		vf[rm.FaceVerts[f][0]] = append(vf[rm.FaceVerts[f][0]], f)
		vf[rm.FaceVerts[f][1]] = append(vf[rm.FaceVerts[f][1]], f)
	}
	for v := 0; v < nv; v++ {
		fs, vx, vy := vf[v], rm.VertXY[v][0], rm.VertXY[v][1]
		sort.Slice(fs, func(i, j int) bool {
			return math.Atan2(t.FaceCy[fs[i]]-vy, t.FaceCx[fs[i]]-vx) <
				math.Atan2(t.FaceCy[fs[j]]-vy, t.FaceCx[fs[j]]-vx)
		})
	}
	t.VertFaces = vf

	return t, nil
}

// walkRing chains a cell's face loop into its vertex ring, so that face i
// runs ring[i] -> ring[i+1].
func walkRing(rm *RawMesh, c int) ([]int, error) {
	fs := rm.CellFaces[c]
	n := len(fs)
	ring := make([]int, n)

	a0, b0 := rm.FaceVerts[fs[0]][0], rm.FaceVerts[fs[0]][1]
	a1, b1 := rm.FaceVerts[fs[1]][0], rm.FaceVerts[fs[1]][1]
	switch {
	case b0 == a1 || b0 == b1:
		ring[0], ring[1] = a0, b0
	case a0 == a1 || a0 == b1:
		ring[0], ring[1] = b0, a0
	default:
		return nil, fmt.Errorf("buildTopology: cell %d faces %d,%d share no vertex", c, fs[0], fs[1])
	}
	for i := 1; i < n-1; i++ {
		a, b := rm.FaceVerts[fs[i]][0], rm.FaceVerts[fs[i]][1]
		switch ring[i] {
		case a:
			ring[i+1] = b
		case b:
			ring[i+1] = a
		default:
			return nil, fmt.Errorf("buildTopology: cell %d face loop breaks at face %d", c, fs[i])
		}
	}
	// the last face must close the loop back to ring[0]
	a, b := rm.FaceVerts[fs[n-1]][0], rm.FaceVerts[fs[n-1]][1]
	if !(a == ring[n-1] && b == ring[0]) && !(b == ring[n-1] && a == ring[0]) {
		return nil, fmt.Errorf("buildTopology: cell %d face loop does not close", c)
	}
	return ring, nil
}

func ringArea(xy [][2]float64, ring []int) float64 {
	s := 0.
	for i, v0 := range ring {
		v1 := ring[(i+1)%len(ring)]
		s += xy[v0][0]*xy[v1][1] - xy[v1][0]*xy[v0][1]
	}
	return s / 2.
}

func isRectangular(xy [][2]float64, ring []int, scale float64) bool {
	if len(ring) != 4 {
		return false
	}
	tol := 1e-9 * (scale + 1.)
	for i, v0 := range ring {
		v1 := ring[(i+1)%4]
		dx := math.Abs(xy[v1][0] - xy[v0][0])
		dy := math.Abs(xy[v1][1] - xy[v0][1])
		if dx > tol && dy > tol {
			return false
		}
	}
	return true
}
