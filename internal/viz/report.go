package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/intercept/internal/mission"
	"github.com/san-kum/intercept/internal/orbit"
	"github.com/san-kum/intercept/internal/search"
	"github.com/san-kum/intercept/internal/study"
)

// ConfirmedPrecisionKm is the radial miss below which an encounter report
// declares the impact confirmed.
const ConfirmedPrecisionKm = 1.0

// FormatIteration renders one bisection probe: velocity, reached radius
// and signed difference to the target, both in km.
func FormatIteration(it search.Iteration) string {
	reached := math.NaN()
	if len(it.Final) > orbit.R {
		reached = it.Final[orbit.R] / 1000
	}
	return fmt.Sprintf("iter %3d  v = %12.4f m/s  r = %16.3f km  diff = %14.3f km",
		it.N, it.Velocity, reached, it.Residual/1000)
}

// FormatEncounter renders the final search report.
func FormatEncounter(enc *mission.Encounter) string {
	var b strings.Builder
	b.WriteString(Title.Render("ENCOUNTER") + "\n")

	res := enc.Search
	b.WriteString(Field("status", res.Status.String()) + "\n")
	b.WriteString(Field("iterations", fmt.Sprintf("%d", res.Iterations)) + "\n")
	b.WriteString(Field("launch v", fmt.Sprintf("%.4f m/s", res.Velocity)) + "\n")

	if f := enc.Final; len(f) == 4 {
		b.WriteString(Field("r", fmt.Sprintf("%.3f km", f[orbit.R]/1000)) + "\n")
		b.WriteString(Field("theta", fmt.Sprintf("%.6f rad", f[orbit.Theta])) + "\n")
		b.WriteString(Field("v_r", fmt.Sprintf("%.6f km/s", f[orbit.VR]/1000)) + "\n")
		b.WriteString(Field("v_theta", fmt.Sprintf("%.6f km/s", f[orbit.VTheta]/1000)) + "\n")
	}

	precision := enc.Impact.DistanceKm
	b.WriteString(Field("precision", fmt.Sprintf("%.3f km", precision)) + "\n")
	if precision < ConfirmedPrecisionKm {
		b.WriteString(Confirmed.Render("IMPACT CONFIRMED"))
	} else {
		b.WriteString(Missed.Render("required precision not reached"))
	}
	return Panel.Render(b.String())
}

// SweepHeader is the column header matching FormatSweepRow.
func SweepHeader() string {
	return fmt.Sprintf("%10s %7s %12s %16s %10s %12s %12s %8s %14s",
		"h (s)", "N", "v0 (m/s)", "r (km)", "theta", "v_r (km/s)", "v_t (km/s)", "impact", "|diff| (km)")
}

// FormatSweepRow renders one step size of a convergence sweep. Failed rows
// show the error in place of the state.
func FormatSweepRow(row study.Row, velocity float64) string {
	if !row.OK() {
		return fmt.Sprintf("%10g %7d %12.4f  %s", row.Step, row.Count, velocity, Missed.Render("error: "+row.Err.Error()))
	}
	f := row.Final
	verdict := "miss"
	if row.Impact.Hit {
		verdict = "HIT"
	}
	return fmt.Sprintf("%10g %7d %12.4f %16.3f %10.6f %12.6f %12.6f %8s %14.3f",
		row.Step, row.Count, velocity,
		f[orbit.R]/1000, f[orbit.Theta], f[orbit.VR]/1000, f[orbit.VTheta]/1000,
		verdict, row.Impact.DistanceKm)
}
