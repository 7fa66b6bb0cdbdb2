package rasmap

import (
	"fmt"
	"math"

	"github.com/maseology/mmaths"
)

// HydraulicConnectionKind classifies how water communicates across a face.
// Disconnected and Levee faces block blending entirely; everything else is
// hydraulically connected and contributes to vertex estimation.
type HydraulicConnectionKind int

const (
	Disconnected HydraulicConnectionKind = iota
	Backfill
	DownhillDeep
	DownhillIntermediate
	DownhillShallow
	Levee
)

func (k HydraulicConnectionKind) Connected() bool {
	return k != Disconnected && k != Levee
}

func (k HydraulicConnectionKind) String() string {
	switch k {
	case Disconnected:
		return "disconnected"
	case Backfill:
		return "backfill"
	case DownhillDeep:
		return "downhill-deep"
	case DownhillIntermediate:
		return "downhill-intermediate"
	case DownhillShallow:
		return "downhill-shallow"
	case Levee:
		return "levee"
	}
	return "unknown"
}

// FaceValues is the per-snapshot resolution of cell values onto faces: the
// two adjacent cell values (NODATA on boundary sides) and the connection
// classification. Ephemeral; rebuilt for every result snapshot.
type FaceValues struct {
	Va, Vb []float64
	Kind   []HydraulicConnectionKind
}

// Center returns the face-center value, the mean of the two sides. Only
// meaningful for connected faces, where both sides carry data.
func (fv *FaceValues) Center(f int) float64 { return (fv.Va[f] + fv.Vb[f]) / 2. }

// KindCounts tallies faces by connection kind, keyed by the kind's ordinal.
func (fv *FaceValues) KindCounts() map[int]int {
	m := make(map[int]int, int(Levee)+1)
	for _, k := range fv.Kind {
		m[int(k)]++
	}
	return m
}

// PrintSummary prints the face connectivity proportions.
func (fv *FaceValues) PrintSummary() {
	ks, vs := mmaths.SortMapInt(fv.KindCounts(), false)
	nf := float64(len(fv.Kind))
	for i := range ks {
		fmt.Printf("%25s %10.1f%%\n", HydraulicConnectionKind(ks[i]), float64(vs[i])*100./nf)
	}
}

// ConnectionPolicy classifies a face from its two (finite) side values and
// the face minimum elevation. Levee and boundary/NODATA handling happen
// before the policy is consulted and cannot be overridden by it.
type ConnectionPolicy interface {
	Classify(va, vb, faceMinElev float64) HydraulicConnectionKind
}

// DefaultConnectionPolicy grades connection by the depth of water standing
// above the face invert on each side. Tolerances are in the vertical unit of
// the result variable (metres for water-surface elevation).
type DefaultConnectionPolicy struct {
	DryTol     float64 // neither side overtops by more than this: disconnected
	ShallowTol float64 // shallow/intermediate split on the shallower side
	DeepTol    float64 // intermediate/deep split on the shallower side
}

// NewDefaultConnectionPolicy returns the reference tolerances: 1 mm dry,
// 0.1 m shallow, 0.5 m deep.
func NewDefaultConnectionPolicy() DefaultConnectionPolicy {
	return DefaultConnectionPolicy{DryTol: .001, ShallowTol: .1, DeepTol: .5}
}

func (p DefaultConnectionPolicy) Classify(va, vb, faceMinElev float64) HydraulicConnectionKind {
	ha, hb := va-faceMinElev, vb-faceMinElev
	hi, lo := math.Max(ha, hb), math.Min(ha, hb)
	if hi <= p.DryTol {
		return Disconnected
	}
	if lo <= 0. {
		return Backfill // one-sided ponding against the face
	}
	switch {
	case lo >= p.DeepTol:
		return DownhillDeep
	case lo >= p.ShallowTol:
		return DownhillIntermediate
	default:
		return DownhillShallow
	}
}

// ComputeFaceValues resolves a per-cell scalar snapshot onto faces. Missing
// cells (NODATA) and boundary sides force Disconnected; levee/structure
// faces are always Levee, whatever the policy would say.
func ComputeFaceValues(t *Topology, cellVals []float64, pol ConnectionPolicy) *FaceValues {
	nf := t.NFaces()
	fv := &FaceValues{
		Va:   make([]float64, nf),
		Vb:   make([]float64, nf),
		Kind: make([]HydraulicConnectionKind, nf),
	}
	for f := 0; f < nf; f++ {
		va, vb := NODATA, NODATA
		if c := t.FaceCells[f][0]; c >= 0 {
			va = cellVals[c]
		}
		if c := t.FaceCells[f][1]; c >= 0 {
			vb = cellVals[c]
		}
		fv.Va[f], fv.Vb[f] = va, vb
		switch {
		case t.FaceLevee[f]:
			fv.Kind[f] = Levee
		case va == NODATA || vb == NODATA:
			fv.Kind[f] = Disconnected
		default:
			fv.Kind[f] = pol.Classify(va, vb, t.FaceMinEl[f])
		}
	}
	return fv
}
