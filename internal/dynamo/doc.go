// Package dynamo provides core simulation primitives for fixed-step
// integration of ordinary differential equations.
//
// The package defines the fundamental interfaces and types:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: single-step numerical integrator
//   - [Simulator]: drives an integrator for a fixed number of steps,
//     optionally stopping early and optionally recording the trajectory
//
// # Example
//
//	dyn := orbit.NewTwoBody(orbit.G, orbit.EarthMass)
//	sim := dynamo.New(dyn, integrators.NewRK4())
//	result, err := sim.Run(ctx, x0, dynamo.Config{Dt: 50, Steps: 10000})
//
// # Determinism
//
// For a fixed system, integrator, initial state, step and step count,
// [Simulator.Run] returns bit-identical results on every call.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe: integrators keep scratch
// buffers between steps. Build one simulator per goroutine.
package dynamo
