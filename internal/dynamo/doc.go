// Package dynamo provides core primitives for simulating controlled
// dynamical systems.
//
// The package defines the fundamental vocabulary shared by the rest of
// the module:
//
//   - [State]: vector representing system state
//   - [Control]: externally applied input, held constant over one step
//   - [System]: interface for controlled ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: single-step numerical integrator interface
//
// # Example
//
//	sys := models.NewBicycle()
//	integ := integrators.NewRK4()
//	next, err := integ.Integrate(sys, x, u, 0, 0.1, 0.1)
//
// # Thread Safety
//
// States and Controls are plain slices and carry no synchronization.
// Integrators in this module hold no per-call state, so concurrent
// calls are safe as long as the supplied System is itself stateless.
package dynamo
