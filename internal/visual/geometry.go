package visual

import (
	"math"
	"sort"

	"gonum.org/v1/plot/plotter"
)

// convexHull computes the 2D convex hull of pts (Andrew's monotone chain),
// counter-clockwise, closed is not required by plotter.Polygon. Returns nil
// for fewer than three points.
func convexHull(pts plotter.XYs) plotter.XYs {
	if len(pts) < 3 {
		return nil
	}
	sorted := make(plotter.XYs, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X == sorted[j].X {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	cross := func(o, a, b plotter.XY) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	var lower, upper plotter.XYs
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) < 3 {
		return nil
	}
	return hull
}

// covarianceEllipse returns a 64-point polyline tracing the 2σ covariance
// ellipse of pts, or nil when the cluster is too small or degenerate.
func covarianceEllipse(pts plotter.XYs) plotter.XYs {
	if len(pts) < 3 {
		return nil
	}
	var mx, my float64
	for _, p := range pts {
		mx += p.X
		my += p.Y
	}
	n := float64(len(pts))
	mx /= n
	my /= n
	var sxx, syy, sxy float64
	for _, p := range pts {
		dx, dy := p.X-mx, p.Y-my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	sxx /= n - 1
	syy /= n - 1
	sxy /= n - 1

	// Eigen-decomposition of the symmetric 2×2 covariance.
	tr := sxx + syy
	det := sxx*syy - sxy*sxy
	disc := tr*tr/4 - det
	if disc < 0 {
		disc = 0
	}
	l1 := tr/2 + math.Sqrt(disc)
	l2 := tr/2 - math.Sqrt(disc)
	if l1 <= 0 || l2 <= 0 {
		return nil
	}
	theta := 0.0
	if sxy != 0 {
		theta = math.Atan2(l1-sxx, sxy)
	} else if syy > sxx {
		theta = math.Pi / 2
	}

	a := 2 * math.Sqrt(l1)
	b := 2 * math.Sqrt(l2)
	const steps = 64
	out := make(plotter.XYs, steps+1)
	for i := 0; i <= steps; i++ {
		t := 2 * math.Pi * float64(i) / steps
		x := a * math.Cos(t)
		y := b * math.Sin(t)
		out[i] = plotter.XY{
			X: mx + x*math.Cos(theta) - y*math.Sin(theta),
			Y: my + x*math.Sin(theta) + y*math.Cos(theta),
		}
	}
	return out
}
