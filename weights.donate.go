package rasmap

// donate redistributes the n vertex weights of the current cell into n
// residual-vertex weights plus n face-center weights, for vector fields
// natively sampled at face centers. Each vertex offers a share of its weight
// toward its two adjacent edges in proportion to the neighboring vertex
// weights; face i (between vertices i and i+1) receives twice the smaller of
// the two offers made across it. Total weight is conserved exactly.
func (s *scratch) donate() (resid, facew []float64) {
	n := s.n
	w := s.w
	for i := 0; i < n; i++ {
		im, ip := (i-1+n)%n, (i+1)%n
		d := w[im] + w[ip]
		if d <= 0. {
			s.ccwGive[i], s.cwGive[i] = 0., 0.
			continue
		}
		s.ccwGive[i] = w[i] * w[ip] / d
		s.cwGive[i] = w[i] * w[im] / d
	}
	copy(s.resid[:n], w[:n])
	for i := 0; i < n; i++ {
		ip := (i + 1) % n
		d := s.ccwGive[i]
		if g := s.cwGive[ip]; g < d {
			d = g
		}
		s.resid[i] -= d
		s.resid[ip] -= d
		s.facew[i] = 2. * d
	}
	return s.resid[:n], s.facew[:n]
}
