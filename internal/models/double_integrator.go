package models

import "github.com/san-kum/rollout/internal/dynamo"

// DoubleIntegrator is a 4D planar double integrator: control is
// acceleration applied directly to the velocity states. Its solution
// is polynomial in time, so RK4 reproduces it exactly.
//
// State: (x, y, vx, vy).
// Control: (ax, ay).
type DoubleIntegrator struct{}

func NewDoubleIntegrator() *DoubleIntegrator {
	return &DoubleIntegrator{}
}

func (d *DoubleIntegrator) StateDim() int   { return 4 }
func (d *DoubleIntegrator) ControlDim() int { return 2 }

func (d *DoubleIntegrator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[2], x[3], u[0], u[1]}
}
