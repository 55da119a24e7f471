package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/intercept/internal/dynamo"
	"github.com/san-kum/intercept/internal/mission"
	"github.com/san-kum/intercept/internal/orbit"
	"github.com/san-kum/intercept/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelSize()
	width := float64(pw) * scale
	height := float64(ph) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the Cartesian path of the states, the central body
// at the origin and the target. Fewer than two states yield an empty string.
func TrajectoryToSVG(states []dynamo.State, target mission.Target, width, height int) string {
	if len(states) < 2 {
		return ""
	}

	xs, ys := orbit.Path(states)
	tx, ty := target.Position()

	minX, maxX := min(0, tx), max(0, tx)
	minY, maxY := min(0, ty), max(0, ty)
	for i := range xs {
		minX, maxX = min(minX, xs[i]), max(maxX, xs[i])
		minY, maxY = min(minY, ys[i]), max(maxY, ys[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1

	// one scale for both axes keeps orbits round
	scale := min(float64(width)/(maxX-minX), float64(height)/(maxY-minY))
	project := func(x, y float64) (float64, float64) {
		return (x - minX) * scale, float64(height) - (y-minY)*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="#00ccff" stroke-width="1.5" d="M`,
		width, height, width, height)

	for i := range xs {
		x, y := project(xs[i], ys[i])
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")

	ox, oy := project(0, 0)
	fmt.Fprintf(&sb, "<circle class=\"earth\" cx=\"%.1f\" cy=\"%.1f\" r=\"6\" fill=\"#3366ff\"/>\n", ox, oy)
	ax, ay := project(tx, ty)
	fmt.Fprintf(&sb, "<circle class=\"asteroid\" cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"#ff4444\"/>\n", ax, ay)

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteSVG writes TrajectoryToSVG output to w.
func WriteSVG(w io.Writer, states []dynamo.State, target mission.Target, width, height int) error {
	svg := TrajectoryToSVG(states, target, width, height)
	if svg == "" {
		return fmt.Errorf("export: need at least two states, got %d", len(states))
	}
	_, err := io.WriteString(w, svg)
	return err
}

// WriteBrailleSVG renders the path on a braille canvas of the given cell
// size, the way the terminal plot shows it, and writes it as SVG dots.
func WriteBrailleSVG(w io.Writer, states []dynamo.State, target mission.Target, cells, rows int, scale float64) error {
	if len(states) == 0 {
		return fmt.Errorf("export: no states to render")
	}
	c := viz.NewCanvas(cells, rows)
	viz.DrawPath(c, states, target)
	_, err := io.WriteString(w, CanvasToSVG(c, scale))
	return err
}
