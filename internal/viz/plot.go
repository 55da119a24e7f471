package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/intercept/internal/dynamo"
	"github.com/san-kum/intercept/internal/mission"
	"github.com/san-kum/intercept/internal/orbit"
	"github.com/san-kum/intercept/internal/study"
)

// PlotSeries draws values as an asciigraph line chart. Series longer than
// width are downsampled by asciigraph.
func PlotSeries(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption))
}

// Component extracts one state component from every state, scaled by factor.
func Component(states []dynamo.State, idx int, factor float64) []float64 {
	out := make([]float64, len(states))
	for i, s := range states {
		out[i] = s[idx] * factor
	}
	return out
}

// PlotSweep charts log10 of the radial difference between successive
// sweep rows. Pairs involving a failed row are skipped.
func PlotSweep(rows []study.Row, width, height int) string {
	diffs := study.Differences(rows, orbit.R)
	series := make([]float64, 0, len(diffs))
	for _, d := range diffs {
		if math.IsNaN(d) {
			continue
		}
		if d <= 0 {
			d = 1e-12
		}
		series = append(series, math.Log10(d))
	}
	return PlotSeries(series, "log10 |Δr| (m) between successive step sizes", width, height)
}

// PlotPath draws the projectile's Cartesian path, the central body at the
// origin and a cross at the asteroid.
func PlotPath(states []dynamo.State, target mission.Target, width, height int) string {
	c := NewCanvas(width, height)
	DrawPath(c, states, target)
	return c.String()
}

// DrawPath renders onto an existing canvas; the viewport is fitted to the
// path, the origin and the target.
func DrawPath(c *Canvas, states []dynamo.State, target mission.Target) {
	xs, ys := orbit.Path(states)
	tx, ty := target.Position()

	fitX := append([]float64{0, tx}, xs...)
	fitY := append([]float64{0, ty}, ys...)
	vp := FitViewport(c, fitX, fitY)

	for i := 1; i < len(xs); i++ {
		x0, y0 := vp.Project(xs[i-1], ys[i-1])
		x1, y1 := vp.Project(xs[i], ys[i])
		c.DrawLine(x0, y0, x1, y1)
	}
	if len(xs) == 1 {
		c.Set(vp.Project(xs[0], ys[0]))
	}

	ox, oy := vp.Project(0, 0)
	c.DrawCross(ox, oy, 1)
	ax, ay := vp.Project(tx, ty)
	c.DrawCross(ax, ay, 2)
}
