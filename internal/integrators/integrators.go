package integrators

import (
	"fmt"

	"github.com/san-kum/rollout/internal/dynamo"
)

// stepEpsilon guards the sub-step accumulation loop against
// floating-point residue that would otherwise trigger a spurious
// final sub-step.
const stepEpsilon = 1e-8

func validate(sys dynamo.System, x dynamo.State, u dynamo.Control, h, dh float64) error {
	if h <= 0 || dh <= 0 {
		return fmt.Errorf("%w (h=%g, dh=%g)", dynamo.ErrInvalidStep, h, dh)
	}
	if len(x) != sys.StateDim() {
		return fmt.Errorf("%w: state has %d components, system expects %d",
			dynamo.ErrDimensionMismatch, len(x), sys.StateDim())
	}
	if len(u) != sys.ControlDim() {
		return fmt.Errorf("%w: control has %d components, system expects %d",
			dynamo.ErrDimensionMismatch, len(u), sys.ControlDim())
	}
	return nil
}

func checkDerivative(k dynamo.State, n int) error {
	if len(k) != n {
		return fmt.Errorf("%w: derivative has %d components, state has %d",
			dynamo.ErrDimensionMismatch, len(k), n)
	}
	return nil
}
