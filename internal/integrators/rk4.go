package integrators

import "github.com/san-kum/rollout/internal/dynamo"

// RK4 is the classic explicit fourth-order Runge-Kutta method with
// internal sub-stepping: the outer step h is consumed in equal pieces
// no larger than dh, the last piece shrunk to exactly fill the
// remainder.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Integrate(sys dynamo.System, x dynamo.State, u dynamo.Control, t, h, dh float64) (dynamo.State, error) {
	if err := validate(sys, x, u, h, dh); err != nil {
		return nil, err
	}

	n := len(x)
	cur := x.Clone()
	k1 := make(dynamo.State, n)
	k2 := make(dynamo.State, n)
	k3 := make(dynamo.State, n)
	k4 := make(dynamo.State, n)
	scratch := make(dynamo.State, n)

	for elapsed := 0.0; elapsed < h-stepEpsilon; {
		step := dh
		if rem := h - elapsed; rem < step {
			step = rem
		}
		ts := t + elapsed

		d := sys.Derive(cur, u, ts)
		if err := checkDerivative(d, n); err != nil {
			return nil, err
		}
		copy(k1, d)

		for i := 0; i < n; i++ {
			scratch[i] = cur[i] + step*0.5*k1[i]
		}
		d = sys.Derive(scratch, u, ts+step*0.5)
		if err := checkDerivative(d, n); err != nil {
			return nil, err
		}
		copy(k2, d)

		for i := 0; i < n; i++ {
			scratch[i] = cur[i] + step*0.5*k2[i]
		}
		d = sys.Derive(scratch, u, ts+step*0.5)
		if err := checkDerivative(d, n); err != nil {
			return nil, err
		}
		copy(k3, d)

		for i := 0; i < n; i++ {
			scratch[i] = cur[i] + step*k3[i]
		}
		d = sys.Derive(scratch, u, ts+step)
		if err := checkDerivative(d, n); err != nil {
			return nil, err
		}
		copy(k4, d)

		step6 := step / 6.0
		for i := 0; i < n; i++ {
			cur[i] += step6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
		}

		elapsed += step
	}

	return cur, nil
}
