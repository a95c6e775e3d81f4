package models

import (
	"math"

	"github.com/san-kum/rollout/internal/dynamo"
)

// Bicycle is a 5D kinematic bicycle.
//
// State: (x, y, heading, speed, steering angle).
// Control: (acceleration, steering-angle rate).
type Bicycle struct{}

func NewBicycle() *Bicycle {
	return &Bicycle{}
}

func (b *Bicycle) StateDim() int   { return 5 }
func (b *Bicycle) ControlDim() int { return 2 }

func (b *Bicycle) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	theta, v, steer := x[2], x[3], x[4]
	return dynamo.State{
		v * math.Cos(theta),
		v * math.Sin(theta),
		v * math.Tan(steer),
		u[0],
		u[1],
	}
}
