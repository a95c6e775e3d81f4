package models

import (
	"math"

	"github.com/san-kum/rollout/internal/dynamo"
)

// Unicycle is a 4D unicycle.
//
// State: (x, y, heading, speed).
// Control: (angular rate, acceleration).
type Unicycle struct{}

func NewUnicycle() *Unicycle {
	return &Unicycle{}
}

func (u *Unicycle) StateDim() int   { return 4 }
func (u *Unicycle) ControlDim() int { return 2 }

func (u *Unicycle) Derive(x dynamo.State, ctrl dynamo.Control, t float64) dynamo.State {
	theta, v := x[2], x[3]
	return dynamo.State{
		v * math.Cos(theta),
		v * math.Sin(theta),
		ctrl[0],
		ctrl[1],
	}
}
