package rasmap

import "testing"

func TestFaceValuesBoundaryDisconnected(t *testing.T) {
	topo := mustTopo(t, newGridMesh(2, 1, 0., 0., 1.))
	vals := []float64{5., 6.}
	fv := ComputeFaceValues(topo, vals, NewDefaultConnectionPolicy())
	for f := 0; f < topo.NFaces(); f++ {
		a, b := topo.FaceCells[f][0], topo.FaceCells[f][1]
		if a == -1 || b == -1 {
			if fv.Kind[f] != Disconnected {
				t.Errorf("boundary face %d classified %v", f, fv.Kind[f])
			}
		} else {
			if !fv.Kind[f].Connected() {
				t.Errorf("interior wet face %d classified %v", f, fv.Kind[f])
			}
			if fv.Va[f] != vals[a] || fv.Vb[f] != vals[b] {
				t.Errorf("face %d carries (%f,%f), want (%f,%f)", f, fv.Va[f], fv.Vb[f], vals[a], vals[b])
			}
		}
	}
}

func TestFaceValuesLeveeAlwaysLevee(t *testing.T) {
	rm := newGridMesh(2, 1, 0., 0., 1.)
	var shared int
	for f := range rm.FaceCells {
		if rm.FaceCells[f][0] != -1 && rm.FaceCells[f][1] != -1 {
			shared = f
			rm.FaceIsLevee[f] = true
		}
	}
	topo := mustTopo(t, rm)
	fv := ComputeFaceValues(topo, []float64{100., 99.}, NewDefaultConnectionPolicy())
	if fv.Kind[shared] != Levee {
		t.Fatalf("levee face classified %v", fv.Kind[shared])
	}
	if fv.Kind[shared].Connected() {
		t.Fatal("levee face reports connected")
	}
}

func TestFaceValuesMissingCellDisconnected(t *testing.T) {
	topo := mustTopo(t, newGridMesh(2, 1, 0., 0., 1.))
	fv := ComputeFaceValues(topo, []float64{5., NODATA}, NewDefaultConnectionPolicy())
	for f := 0; f < topo.NFaces(); f++ {
		if fv.Kind[f].Connected() {
			t.Errorf("face %d connected against a missing cell", f)
		}
	}
}

func TestDefaultPolicyClasses(t *testing.T) {
	p := NewDefaultConnectionPolicy()
	cases := []struct {
		va, vb, zf float64
		want       HydraulicConnectionKind
	}{
		{10.0005, 10.0003, 10., Disconnected},  // neither side overtops the invert
		{12., 9., 10., Backfill},               // one-sided ponding
		{12., 11., 10., DownhillDeep},          // both sides deep
		{12., 10.3, 10., DownhillIntermediate}, // shallower side intermediate
		{12., 10.05, 10., DownhillShallow},     // shallower side barely wet
	}
	for _, c := range cases {
		if got := p.Classify(c.va, c.vb, c.zf); got != c.want {
			t.Errorf("Classify(%g,%g,%g) = %v, want %v", c.va, c.vb, c.zf, got, c.want)
		}
	}
	// symmetry in the two sides
	for _, c := range cases {
		if got := p.Classify(c.vb, c.va, c.zf); got != c.want {
			t.Errorf("Classify(%g,%g,%g) = %v, want %v (side order)", c.vb, c.va, c.zf, got, c.want)
		}
	}
}

func TestFaceValuesKindCounts(t *testing.T) {
	topo := mustTopo(t, newGridMesh(2, 1, 0., 0., 1.))
	fv := ComputeFaceValues(topo, []float64{5., 6.}, NewDefaultConnectionPolicy())
	got := fv.KindCounts()
	// 6 boundary faces disconnect; the shared face is deep on both sides
	want := map[int]int{int(Disconnected): 6, int(DownhillDeep): 1}
	if len(got) != len(want) {
		t.Fatalf("KindCounts() = %v, want %v", got, want)
	}
	for k, n := range want {
		if got[k] != n {
			t.Fatalf("KindCounts()[%v] = %d, want %d", HydraulicConnectionKind(k), got[k], n)
		}
	}
}

func TestConnectionKindConnected(t *testing.T) {
	conn := map[HydraulicConnectionKind]bool{
		Disconnected:         false,
		Levee:                false,
		Backfill:             true,
		DownhillDeep:         true,
		DownhillIntermediate: true,
		DownhillShallow:      true,
	}
	for k, want := range conn {
		if k.Connected() != want {
			t.Errorf("%v.Connected() = %v, want %v", k, k.Connected(), want)
		}
	}
}
