// Package orbit provides the planar two-body equations of motion in polar
// coordinates.
//
// The state vector is laid out as
//
//	x[R]      radial distance r [m]
//	x[Theta]  angular position θ [rad]
//	x[VR]     radial velocity vr [m/s]
//	x[VTheta] tangential velocity vθ [m/s]
//
// The equations divide by r and r², so they are only defined for r > 0.
// [TwoBody] implements [dynamo.Checker] to report degenerate states.
package orbit
