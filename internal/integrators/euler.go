package integrators

import "github.com/san-kum/rollout/internal/dynamo"

// Euler is the explicit first-order method. Same sub-stepping contract
// as RK4; mainly useful as an accuracy baseline.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Integrate(sys dynamo.System, x dynamo.State, u dynamo.Control, t, h, dh float64) (dynamo.State, error) {
	if err := validate(sys, x, u, h, dh); err != nil {
		return nil, err
	}

	n := len(x)
	cur := x.Clone()

	for elapsed := 0.0; elapsed < h-stepEpsilon; {
		step := dh
		if rem := h - elapsed; rem < step {
			step = rem
		}

		d := sys.Derive(cur, u, t+elapsed)
		if err := checkDerivative(d, n); err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			cur[i] += step * d[i]
		}

		elapsed += step
	}

	return cur, nil
}
