// Package rollout chains single integration steps into full state
// trajectories for a sequence of controls.
package rollout

import (
	"context"
	"fmt"

	"github.com/san-kum/rollout/internal/dynamo"
)

// Result is a fully materialized trajectory. States has one more entry
// than the control sequence that produced it: States[0] is the initial
// state and States[i+1] is the state after applying control i for one
// outer step. Times[i] = i*h.
type Result struct {
	States []dynamo.State
	Times  []float64
}

// Final returns the last state of the trajectory.
func (r *Result) Final() dynamo.State {
	return r.States[len(r.States)-1]
}

// Engine rolls a system forward under a control sequence using a fixed
// integrator. Each step consumes the previous step's output state, so
// the recurrence is inherently serial; independent Engines are safe to
// run concurrently.
type Engine struct {
	sys   dynamo.System
	integ dynamo.Integrator
}

func New(sys dynamo.System, integ dynamo.Integrator) *Engine {
	return &Engine{sys: sys, integ: integ}
}

// Run integrates once per control, holding each control constant for
// one outer step of duration h with sub-steps no larger than dh. An
// empty control sequence yields just the initial state. A failing step
// aborts the rollout; the returned error carries the step index.
func (e *Engine) Run(ctx context.Context, x0 dynamo.State, controls []dynamo.Control, h, dh float64) (*Result, error) {
	if h <= 0 || dh <= 0 {
		return nil, fmt.Errorf("%w (h=%g, dh=%g)", dynamo.ErrInvalidStep, h, dh)
	}

	result := &Result{
		States: make([]dynamo.State, 0, len(controls)+1),
		Times:  make([]float64, 0, len(controls)+1),
	}
	result.States = append(result.States, x0.Clone())
	result.Times = append(result.Times, 0)

	x := x0
	for i, u := range controls {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		t := float64(i) * h
		next, err := e.integ.Integrate(e.sys, x, u, t, h, dh)
		if err != nil {
			return nil, &dynamo.StepError{Step: i, Time: t, Wrapped: err}
		}
		if !next.IsValid() {
			return nil, &dynamo.StepError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState}
		}

		x = next
		result.States = append(result.States, next)
		result.Times = append(result.Times, float64(i+1)*h)
	}

	return result, nil
}

// Rollout is the convenience form of Run for callers that need no
// cancellation: it returns just the state trajectory.
func Rollout(sys dynamo.System, integ dynamo.Integrator, x0 dynamo.State, controls []dynamo.Control, h, dh float64) ([]dynamo.State, error) {
	result, err := New(sys, integ).Run(context.Background(), x0, controls, h, dh)
	if err != nil {
		return nil, err
	}
	return result.States, nil
}
