package rasmap

import (
	"sync/atomic"

	"github.com/gosuri/uiprogress"
	"github.com/hydrograph/rasmap/grid"
)

// Evaluator runs the full per-snapshot pipeline (face values, vertex values,
// rasterization) over one immutable Topology/SpatialIndex pair. Safe to
// reuse across snapshots; long jobs can be canceled cooperatively.
type Evaluator struct {
	T      *Topology
	SI     *SpatialIndex
	GD     *grid.Definition
	Policy ConnectionPolicy
	Opts   Options
	cancel int32
}

func NewEvaluator(t *Topology, gd *grid.Definition, opts Options) *Evaluator {
	return &Evaluator{
		T:      t,
		SI:     NewSpatialIndex(t),
		GD:     gd,
		Policy: NewDefaultConnectionPolicy(),
		Opts:   opts,
	}
}

// Cancel requests early termination of the running evaluation. Pixels
// already written remain valid; the raster is returned incomplete.
func (ev *Evaluator) Cancel() { atomic.StoreInt32(&ev.cancel, 1) }

// Evaluate renders one scalar snapshot, serial, with a progress bar.
func (ev *Evaluator) Evaluate(sn *Snapshot) (*RasterBuffer, *Diagnostics) {
	atomic.StoreInt32(&ev.cancel, 0)
	fv := ComputeFaceValues(ev.T, sn.Cell, ev.Policy)
	vv := ComputeVertexValues(ev.T, fv)

	cells := candidates(ev.SI, ev.GD)
	jb := newJob(ev.T, ev.GD, ev.Opts)
	jb.vv, jb.fv, jb.cellVals, jb.cancel = vv, fv, sn.Cell, &ev.cancel

	uiprogress.Start()
	bar := uiprogress.AddBar(len(cells)).AppendCompleted().PrependElapsed()
	s := newScratch(ev.T.MaxCellVerts())
	for _, c := range cells {
		if jb.canceled() {
			break
		}
		if len(ev.T.CellVerts[c]) >= 3 {
			jb.cell(c, s)
		}
		bar.Incr()
	}
	uiprogress.Stop()

	return jb.buffer(jb.out), jb.diagnostics(vv)
}

// Render is the variable-dispatched entry point: scalars return one raster,
// vectors a u,v pair, both rendered concurrently.
func (ev *Evaluator) Render(sn *Snapshot, vr Variable, nworkers int) ([]*RasterBuffer, *Diagnostics) {
	if vr == Vector {
		u, v, d := ev.EvaluateVectorConcurrent(sn, nworkers)
		return []*RasterBuffer{u, v}, d
	}
	rb, d := ev.EvaluateConcurrent(sn, nworkers)
	return []*RasterBuffer{rb}, d
}

// EvaluateVector renders one velocity snapshot into u and v rasters.
func (ev *Evaluator) EvaluateVector(sn *Snapshot) (u, v *RasterBuffer, d *Diagnostics) {
	atomic.StoreInt32(&ev.cancel, 0)
	fv := ComputeFaceValues(ev.T, sn.Cell, ev.Policy)
	vvec := ComputeVertexVectors(ev.T, fv, sn.FaceVel)

	jb := newJob(ev.T, ev.GD, ev.Opts)
	jb.vvec, jb.fv, jb.faceVel, jb.cellVals, jb.cancel = vvec, fv, sn.FaceVel, sn.Cell, &ev.cancel
	jb.out2 = ev.GD.NullArray32(jb.nodata)
	jb.run(candidates(ev.SI, ev.GD), newScratch(ev.T.MaxCellVerts()))
	return jb.buffer(jb.out), jb.buffer(jb.out2), jb.diagnostics(nil)
}
