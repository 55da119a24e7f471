package orbit

import (
	"math"

	"github.com/san-kum/intercept/internal/dynamo"
)

// State component indices.
const (
	R = iota
	Theta
	VR
	VTheta
)

const (
	// G is the gravitational constant [m³ kg⁻¹ s⁻²].
	G = 6.67430e-11
	// EarthMass is the mass of the attracting body [kg].
	EarthMass = 5.972e24
)

// TwoBody is the radial/angular equation-of-motion system for a test
// particle around a point mass.
type TwoBody struct {
	G float64
	M float64
}

func NewTwoBody(g, m float64) *TwoBody {
	return &TwoBody{G: g, M: m}
}

func NewEarth() *TwoBody {
	return NewTwoBody(G, EarthMass)
}

func (tb *TwoBody) StateDim() int { return 4 }

// Derive returns (vr, vθ/r, −GM/r² + vθ²/r, −vr·vθ/r). The system is
// time-invariant; t is ignored.
func (tb *TwoBody) Derive(x dynamo.State, t float64) dynamo.State {
	r, vr, vt := x[R], x[VR], x[VTheta]
	return dynamo.State{
		vr,
		vt / r,
		-tb.G*tb.M/(r*r) + vt*vt/r,
		-vr * vt / r,
	}
}

func (tb *TwoBody) Check(x dynamo.State) error {
	if x[R] <= 0 {
		return &dynamo.DomainError{Radius: x[R]}
	}
	return nil
}

// Energy is the specific orbital energy v²/2 − GM/r.
func (tb *TwoBody) Energy(x dynamo.State) float64 {
	vr, vt := x[VR], x[VTheta]
	return 0.5*(vr*vr+vt*vt) - tb.G*tb.M/x[R]
}

// Mu returns the standard gravitational parameter GM.
func (tb *TwoBody) Mu() float64 { return tb.G * tb.M }

// EscapeVelocity at radius r.
func (tb *TwoBody) EscapeVelocity(r float64) float64 {
	return math.Sqrt(2 * tb.Mu() / r)
}

// CircularVelocity at radius r.
func (tb *TwoBody) CircularVelocity(r float64) float64 {
	return math.Sqrt(tb.Mu() / r)
}

// AngularMomentum is the specific angular momentum r²·θ̇ = r·vθ.
func AngularMomentum(x dynamo.State) float64 {
	return x[R] * x[VTheta]
}

// ToCartesian converts polar position (r, θ) to (x, y).
func ToCartesian(r, theta float64) (float64, float64) {
	sin, cos := math.Sincos(theta)
	return r * cos, r * sin
}

// Path converts a polar trajectory into Cartesian points.
func Path(states []dynamo.State) (xs, ys []float64) {
	xs = make([]float64, len(states))
	ys = make([]float64, len(states))
	for i, s := range states {
		xs[i], ys[i] = ToCartesian(s[R], s[Theta])
	}
	return xs, ys
}
