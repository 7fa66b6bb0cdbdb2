package rasmap

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Topology is the immutable, index-addressed adjacency store built once per
// mesh revision by BuildTopology. All relationships are integer index lists
// over flat arrays; there are no object cycles and no mutation after build,
// so a Topology is safe to share across rasterization workers.
type Topology struct {
	// per cell
	CellFaces [][]int   // CCW face loop; face i runs CellVerts[c][i] -> CellVerts[c][i+1]
	CellVerts [][]int   // CCW vertex ring (nil for degenerate cells)
	CellCx    []float64 // ring centroid
	CellCy    []float64
	CellXmin  []float64
	CellYmin  []float64
	CellXmax  []float64
	CellYmax  []float64
	CellArea  []float64 // signed, positive for CCW
	CellRect  []bool    // axis-aligned quadrilateral, bilinear fast-path eligible
	CellMinEl []float64

	// per face
	FaceCells [][2]int
	FaceVerts [][2]int
	FaceCx    []float64 // face midpoint
	FaceCy    []float64
	FaceMinEl []float64
	FaceLevee []bool

	// per vertex
	VertXY    [][2]float64
	VertFaces [][]int // incident faces, CCW by bearing from the vertex

	// cells rejected at build time (degenerate geometry, <3 faces); they
	// are skipped by the rasterizer, never interpolated
	Degenerate []int
}

func (t *Topology) NCells() int { return len(t.CellFaces) }
func (t *Topology) NFaces() int { return len(t.FaceCells) }
func (t *Topology) NVerts() int { return len(t.VertXY) }

// NextFaceCCW returns the face following f in cell c's counter-clockwise
// loop, or -1 if f does not bound c.
func (t *Topology) NextFaceCCW(c, f int) int {
	fs := t.CellFaces[c]
	for i, fi := range fs {
		if fi == f {
			return fs[(i+1)%len(fs)]
		}
	}
	return -1
}

// NextFaceCCWVertex returns the face following f in vertex v's
// counter-clockwise (by bearing) incidence list, or -1 if f is not incident.
func (t *Topology) NextFaceCCWVertex(v, f int) int {
	fs := t.VertFaces[v]
	for i, fi := range fs {
		if fi == f {
			return fs[(i+1)%len(fs)]
		}
	}
	return -1
}

// MaxCellVerts is the vertex count of the largest cell; scratch buffers are
// sized from it.
func (t *Topology) MaxCellVerts() int {
	n := 0
	for _, r := range t.CellVerts {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}

// cellContains reports whether (x,y) lies inside cell c (boundary
// inclusive). Degenerate cells contain nothing.
func (t *Topology) cellContains(c int, x, y float64) bool {
	ring := t.CellVerts[c]
	if len(ring) < 3 {
		return false
	}
	for i, v0 := range ring {
		v1 := ring[(i+1)%len(ring)]
		ax, ay := t.VertXY[v0][0]-x, t.VertXY[v0][1]-y
		bx, by := t.VertXY[v1][0]-x, t.VertXY[v1][1]-y
		if ax*by-ay*bx < -1e-12 {
			return false
		}
	}
	return true
}

func (t *Topology) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" topology.SaveGob %v", err)
	}
	if err := gob.NewEncoder(f).Encode(t); err != nil {
		return fmt.Errorf(" topology.SaveGob %v", err)
	}
	f.Close()
	return nil
}

func LoadGobTopology(fp string) (*Topology, error) {
	var t Topology
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	if err := gob.NewDecoder(f).Decode(&t); err != nil {
		return nil, err
	}
	f.Close()
	return &t, nil
}
