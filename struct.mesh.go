package rasmap

import (
	"encoding/gob"
	"fmt"
	"os"
)

// RawMesh holds the source arrays describing an unstructured polygonal mesh,
// as exported by the model pre-processor. Cell face lists are ordered
// counter-clockwise; a -1 in FaceCells marks a domain boundary.
type RawMesh struct {
	CellFaces   [][]int      // per cell: CCW loop of face IDs
	FaceCells   [][2]int     // per face: the two adjacent cell IDs (-1 = boundary)
	FaceVerts   [][2]int     // per face: its two vertex IDs
	VertXY      [][2]float64 // vertex coordinates
	CellMinElev []float64    // minimum terrain elevation within each cell
	FaceMinElev []float64    // minimum terrain elevation along each face
	FaceIsLevee []bool       // levee/structure faces never blend
}

func (rm *RawMesh) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" rawmesh.SaveGob %v", err)
	}
	if err := gob.NewEncoder(f).Encode(rm); err != nil {
		return fmt.Errorf(" rawmesh.SaveGob %v", err)
	}
	f.Close()
	return nil
}

func LoadGobRawMesh(fp string) (*RawMesh, error) {
	var rm RawMesh
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	if err := gob.NewDecoder(f).Decode(&rm); err != nil {
		return nil, err
	}
	f.Close()
	return &rm, nil
}
