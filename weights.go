package rasmap

import "math"

// Generalized barycentric (Wachspress) weights for convex cells, with a
// bilinear fast path for rectangular cells. All state lives in a per-worker
// scratch; nothing here is shared, so workers never contend.

const (
	crossTol  = 1e-10 // below this a cross product is treated as singular
	crossSub  = 1e-5  // sign-preserving substitute for singular crosses
	fracClamp = 1e-7  // bilinear fraction clamp, keeps edge pixels finite
)

// scratch carries the per-cell buffers one worker reuses across pixels:
// ring coordinates, local triangle areas, cross products and weight arrays.
type scratch struct {
	n               int
	x, y            []float64
	area            []float64 // signed area of (V_{j-1}, V_j, V_{j+1}), constant per cell
	xmin, ymin      float64
	xmax, ymax      float64
	cross, csub     []float64
	raw, w          []float64
	resid, facew    []float64
	ccwGive, cwGive []float64
}

func newScratch(maxVerts int) *scratch {
	if maxVerts < 4 {
		maxVerts = 4
	}
	return &scratch{
		x:       make([]float64, maxVerts),
		y:       make([]float64, maxVerts),
		area:    make([]float64, maxVerts),
		cross:   make([]float64, maxVerts),
		csub:    make([]float64, maxVerts),
		raw:     make([]float64, maxVerts),
		w:       make([]float64, maxVerts),
		resid:   make([]float64, maxVerts),
		facew:   make([]float64, maxVerts),
		ccwGive: make([]float64, maxVerts),
		cwGive:  make([]float64, maxVerts),
	}
}

// setCell loads cell c's vertex ring and precomputes the per-vertex local
// triangle areas and the bounding box.
func (s *scratch) setCell(t *Topology, c int) {
	ring := t.CellVerts[c]
	s.n = len(ring)
	for j, v := range ring {
		s.x[j], s.y[j] = t.VertXY[v][0], t.VertXY[v][1]
	}
	n := s.n
	for j := 0; j < n; j++ {
		jm, jp := (j-1+n)%n, (j+1)%n
		s.area[j] = ((s.x[j]-s.x[jm])*(s.y[jp]-s.y[j]) -
			(s.y[j]-s.y[jm])*(s.x[jp]-s.x[j])) / 2.
	}
	s.xmin, s.ymin = t.CellXmin[c], t.CellYmin[c]
	s.xmax, s.ymax = t.CellXmax[c], t.CellYmax[c]
}

// contains computes the edge cross products for P and reports whether P lies
// inside the (CCW) cell. The crosses are kept for wachspress to reuse.
func (s *scratch) contains(px, py float64) bool {
	in := true
	n := s.n
	for i := 0; i < n; i++ {
		ip := (i + 1) % n
		s.cross[i] = (s.x[i]-px)*(s.y[ip]-py) - (s.y[i]-py)*(s.x[ip]-px)
		if s.cross[i] < -1e-12 {
			in = false
		}
	}
	return in
}

// wachspress computes normalized generalized barycentric weights for the
// point last passed to contains. Weights are non-negative and sum to 1; a
// query exactly on a vertex returns that vertex's unit weight.
func (s *scratch) wachspress(px, py float64) []float64 {
	n := s.n
	for j := 0; j < n; j++ {
		if math.Abs(s.x[j]-px) < 1e-12 && math.Abs(s.y[j]-py) < 1e-12 {
			for k := 0; k < n; k++ {
				s.w[k] = 0.
			}
			s.w[j] = 1.
			return s.w[:n]
		}
	}

	// sign-preserving substitution keeps edge/vertex-adjacent queries finite
	for i := 0; i < n; i++ {
		c := s.cross[i]
		if math.Abs(c) < crossTol {
			if c < 0. {
				c = -crossSub
			} else {
				c = crossSub
			}
		}
		s.csub[i] = c
	}

	sum := 0.
	for j := 0; j < n; j++ {
		jm := (j - 1 + n) % n
		p := s.area[j]
		for i := 0; i < n; i++ {
			if i == j || i == jm {
				continue
			}
			p *= s.csub[i]
		}
		s.raw[j] = p
		sum += p
	}
	if sum == 0. {
		for j := 0; j < n; j++ { // fully degenerate; split evenly
			s.w[j] = 1. / float64(n)
		}
		return s.w[:n]
	}
	for j := 0; j < n; j++ {
		s.w[j] = s.raw[j] / sum
	}

	// clamp stray negatives (P outside or on an edge) and renormalize
	neg, possum := false, 0.
	for j := 0; j < n; j++ {
		if s.w[j] < 0. {
			s.w[j] = 0.
			neg = true
		}
		possum += s.w[j]
	}
	if neg && possum > 0. {
		for j := 0; j < n; j++ {
			s.w[j] /= possum
		}
	}
	return s.w[:n]
}

// bilinear is the rectangular-cell fast path: the four ring vertices are
// classified SW/NW/NE/SE against the bounding-box center and weighted by the
// bilinear products of the box fractions. Agrees with wachspress to 1e-5.
func (s *scratch) bilinear(px, py float64) []float64 {
	cx, cy := (s.xmin+s.xmax)/2., (s.ymin+s.ymax)/2.
	xf := (px - s.xmin) / (s.xmax - s.xmin)
	yf := (py - s.ymin) / (s.ymax - s.ymin)
	xf = math.Min(math.Max(xf, fracClamp), 1.-fracClamp)
	yf = math.Min(math.Max(yf, fracClamp), 1.-fracClamp)
	for j := 0; j < 4; j++ {
		if s.x[j] < cx {
			if s.y[j] < cy {
				s.w[j] = (1. - xf) * (1. - yf) // SW
			} else {
				s.w[j] = (1. - xf) * yf // NW
			}
		} else {
			if s.y[j] < cy {
				s.w[j] = xf * (1. - yf) // SE
			} else {
				s.w[j] = xf * yf // NE
			}
		}
	}
	return s.w[:4]
}
