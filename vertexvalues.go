package rasmap

import (
	"gonum.org/v1/gonum/mat"
)

// ComputeVertexValues estimates one scalar per vertex from the face-center
// values of its connected incident faces. With three or more samples a
// least-squares plane z = a·dx + b·dy + c is fitted about the vertex and
// evaluated there; with one or two the arithmetic mean is used; with none
// the vertex is NODATA (a coverage gap at mesh perimeters and dry regions,
// not an error). Disconnected and levee faces are excluded here, which is
// what keeps their two sides from blending into one surface.
func ComputeVertexValues(t *Topology, fv *FaceValues) []float64 {
	vv := make([]float64, t.NVerts())
	var xs, ys, zs []float64
	for v := range vv {
		xs, ys, zs = xs[:0], ys[:0], zs[:0]
		vx, vy := t.VertXY[v][0], t.VertXY[v][1]
		for _, f := range t.VertFaces[v] {
			if !fv.Kind[f].Connected() {
				continue
			}
			xs = append(xs, t.FaceCx[f]-vx)
			ys = append(ys, t.FaceCy[f]-vy)
			zs = append(zs, fv.Center(f))
		}
		vv[v] = estimateAt(xs, ys, zs)
	}
	return vv
}

// ComputeVertexVectors is the vector-field analogue: face-normal velocity
// samples are regressed componentwise under the same connectivity filter.
func ComputeVertexVectors(t *Topology, fv *FaceValues, faceVel [][2]float64) [][2]float64 {
	vv := make([][2]float64, t.NVerts())
	var xs, ys, us, ws []float64
	for v := range vv {
		xs, ys, us, ws = xs[:0], ys[:0], us[:0], ws[:0]
		vx, vy := t.VertXY[v][0], t.VertXY[v][1]
		for _, f := range t.VertFaces[v] {
			if !fv.Kind[f].Connected() {
				continue
			}
			xs = append(xs, t.FaceCx[f]-vx)
			ys = append(ys, t.FaceCy[f]-vy)
			us = append(us, faceVel[f][0])
			ws = append(ws, faceVel[f][1])
		}
		vv[v][0] = estimateAt(xs, ys, us)
		vv[v][1] = estimateAt(xs, ys, ws)
	}
	return vv
}

// estimateAt fits z over vertex-relative sample coordinates and evaluates at
// the origin. A singular fit (collinear face centers) falls back to the
// mean; numerical degeneracy is never an error.
func estimateAt(xs, ys, zs []float64) float64 {
	n := len(zs)
	switch {
	case n == 0:
		return NODATA
	case n < 3:
		return mean(zs)
	}
	a := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		a.Set(i, 0, xs[i])
		a.Set(i, 1, ys[i])
		a.Set(i, 2, 1.)
		b.SetVec(i, zs[i])
	}
	var qr mat.QR
	qr.Factorize(a)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, b); err != nil {
		return mean(zs)
	}
	return beta.At(2, 0) // plane value at the vertex itself
}

func mean(zs []float64) float64 {
	s := 0.
	for _, z := range zs {
		s += z
	}
	return s / float64(len(zs))
}
