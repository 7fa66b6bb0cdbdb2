package rasmap

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// EvaluateConcurrent renders one scalar snapshot with nworkers goroutines
// (<=0 selects GOMAXPROCS). Candidate cells are strided across workers; the
// atomic occupancy claims in the shared mask keep pixel assignment
// exactly-once, and every worker carries its own scratch so there is no
// contention on intermediate buffers.
func (ev *Evaluator) EvaluateConcurrent(sn *Snapshot, nworkers int) (*RasterBuffer, *Diagnostics) {
	atomic.StoreInt32(&ev.cancel, 0)
	fv := ComputeFaceValues(ev.T, sn.Cell, ev.Policy)
	vv := ComputeVertexValues(ev.T, fv)

	jb := newJob(ev.T, ev.GD, ev.Opts)
	jb.vv, jb.fv, jb.cellVals, jb.cancel = vv, fv, sn.Cell, &ev.cancel
	ev.spawn(jb, nworkers)
	return jb.buffer(jb.out), jb.diagnostics(vv)
}

// EvaluateVectorConcurrent is the concurrent velocity counterpart.
func (ev *Evaluator) EvaluateVectorConcurrent(sn *Snapshot, nworkers int) (u, v *RasterBuffer, d *Diagnostics) {
	atomic.StoreInt32(&ev.cancel, 0)
	fv := ComputeFaceValues(ev.T, sn.Cell, ev.Policy)
	vvec := ComputeVertexVectors(ev.T, fv, sn.FaceVel)

	jb := newJob(ev.T, ev.GD, ev.Opts)
	jb.vvec, jb.fv, jb.faceVel, jb.cellVals, jb.cancel = vvec, fv, sn.FaceVel, sn.Cell, &ev.cancel
	jb.out2 = ev.GD.NullArray32(jb.nodata)
	ev.spawn(jb, nworkers)
	return jb.buffer(jb.out), jb.buffer(jb.out2), jb.diagnostics(nil)
}

func (ev *Evaluator) spawn(jb *job, nworkers int) {
	if nworkers <= 0 {
		nworkers = runtime.GOMAXPROCS(0)
	}
	cells := candidates(ev.SI, ev.GD)
	var wg sync.WaitGroup
	wg.Add(nworkers)
	for k := 0; k < nworkers; k++ {
		go func(k int) {
			defer wg.Done()
			s := newScratch(ev.T.MaxCellVerts())
			var part []int
			for i := k; i < len(cells); i += nworkers {
				part = append(part, cells[i])
			}
			jb.run(part, s)
		}(k)
	}
	wg.Wait()
}
