package rasmap

import "testing"

func TestSpatialIndexCellAt(t *testing.T) {
	topo := mustTopo(t, newGridMesh(10, 10, 0., 0., 1.))
	si := NewSpatialIndex(topo)

	cases := []struct {
		x, y float64
		want int
	}{
		{.5, .5, 0},
		{9.5, .5, 9},
		{.5, 9.5, 90},
		{3.25, 7.75, 7*10 + 3},
		{-1., 5., -1},
		{10.5, 5., -1},
		{5., 11., -1},
	}
	for _, c := range cases {
		if got := si.CellAt(c.x, c.y); got != c.want {
			t.Errorf("CellAt(%f,%f) = %d, want %d", c.x, c.y, got, c.want)
		}
	}
}

func TestSpatialIndexCellsIntersecting(t *testing.T) {
	topo := mustTopo(t, newGridMesh(10, 10, 0., 0., 1.))
	si := NewSpatialIndex(topo)

	hits := si.CellsIntersecting(2.5, 2.5, 3.5, 3.5)
	found := map[int]bool{}
	for _, c := range hits {
		found[c] = true
	}
	for _, want := range []int{2*10 + 2, 2*10 + 3, 3*10 + 2, 3*10 + 3} {
		if !found[want] {
			t.Errorf("window misses cell %d (got %v)", want, hits)
		}
	}

	all := si.CellsIntersecting(-1., -1., 11., 11.)
	if len(all) != topo.NCells() {
		t.Errorf("full-extent query returned %d cells, want %d", len(all), topo.NCells())
	}
}

func TestSpatialIndexSkipsDegenerate(t *testing.T) {
	rm := newGridMesh(2, 1, 0., 0., 1.)
	rm.CellFaces[1] = rm.CellFaces[1][:2]
	topo, err := BuildTopology(rm)
	if err != nil {
		t.Fatal(err)
	}
	si := NewSpatialIndex(topo)
	if got := si.CellAt(1.5, .5); got != -1 {
		t.Errorf("degenerate cell %d returned from point query", got)
	}
	if got := si.CellAt(.5, .5); got != 0 {
		t.Errorf("CellAt(.5,.5) = %d, want 0", got)
	}
}
