package rasmap

import (
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// bounds aliases geom.Bounds so the embedded field below does not shadow the
// promoted Bounds() method that geom.Geom requires.
type bounds = geom.Bounds

type cellRef struct {
	*bounds
	id int
}

// SpatialIndex maps query windows and points to candidate cells. It is an
// R-tree over cell bounding boxes, built once per Topology and read-only
// thereafter.
type SpatialIndex struct {
	t    *Topology
	tree *rtree.Rtree
}

func NewSpatialIndex(t *Topology) *SpatialIndex {
	tree := rtree.NewTree(25, 50)
	for c := 0; c < t.NCells(); c++ {
		if len(t.CellVerts[c]) < 3 {
			continue
		}
		tree.Insert(cellRef{
			bounds: &geom.Bounds{
				Min: geom.Point{X: t.CellXmin[c], Y: t.CellYmin[c]},
				Max: geom.Point{X: t.CellXmax[c], Y: t.CellYmax[c]},
			},
			id: c,
		})
	}
	return &SpatialIndex{t: t, tree: tree}
}

// CellsIntersecting returns the IDs of cells whose bounding boxes intersect
// the window.
func (si *SpatialIndex) CellsIntersecting(xmin, ymin, xmax, ymax float64) []int {
	hits := si.tree.SearchIntersect(&geom.Bounds{
		Min: geom.Point{X: xmin, Y: ymin},
		Max: geom.Point{X: xmax, Y: ymax},
	})
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.(cellRef).id
	}
	return out
}

// CellAt returns the ID of the cell containing (x,y), or -1. Bounding-box
// candidates from the tree are confirmed with an exact point-in-polygon test.
func (si *SpatialIndex) CellAt(x, y float64) int {
	hits := si.tree.SearchIntersect(&geom.Bounds{
		Min: geom.Point{X: x, Y: y},
		Max: geom.Point{X: x, Y: y},
	})
	for _, h := range hits {
		c := h.(cellRef).id
		if si.t.cellContains(c, x, y) {
			return c
		}
	}
	return -1
}
