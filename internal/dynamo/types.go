package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

type Control []float64

func (c Control) Clone() Control {
	out := make(Control, len(c))
	copy(out, c)
	return out
}

// System is a continuous-time dynamical system dX/dt = f(X, u, t).
// Derive must be pure: no retained state, safe to call with off-trajectory
// intermediate states, and it must return a fresh slice of StateDim length.
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Integrator advances a system by one outer step h, holding u constant
// (zero-order hold) and internally sub-stepping so no sub-step exceeds dh.
// Implementations must not mutate x and must validate h, dh and the
// state/control dimensions before doing any work.
type Integrator interface {
	Integrate(sys System, x State, u Control, t, h, dh float64) (State, error)
}
