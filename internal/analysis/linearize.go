package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/rollout/internal/dynamo"
)

// DefaultEps is the perturbation used when the caller passes eps <= 0.
const DefaultEps = 1e-6

// Linearize computes the Jacobians A = df/dx (n×n) and B = df/du (n×m)
// of a system about the operating point (x, u, t) by central finite
// differences with perturbation eps.
func Linearize(sys dynamo.System, x dynamo.State, u dynamo.Control, t, eps float64) (*mat.Dense, *mat.Dense, error) {
	n, m := sys.StateDim(), sys.ControlDim()
	if len(x) != n {
		return nil, nil, fmt.Errorf("%w: state has %d components, system expects %d",
			dynamo.ErrDimensionMismatch, len(x), n)
	}
	if len(u) != m {
		return nil, nil, fmt.Errorf("%w: control has %d components, system expects %d",
			dynamo.ErrDimensionMismatch, len(u), m)
	}
	if eps <= 0 {
		eps = DefaultEps
	}

	a := mat.NewDense(n, n, nil)
	b := mat.NewDense(n, m, nil)

	xp := x.Clone()
	for j := 0; j < n; j++ {
		xp[j] = x[j] + eps
		fwd := sys.Derive(xp, u, t).Clone()
		xp[j] = x[j] - eps
		bwd := sys.Derive(xp, u, t)
		xp[j] = x[j]

		for i := 0; i < n; i++ {
			a.Set(i, j, (fwd[i]-bwd[i])/(2*eps))
		}
	}

	up := u.Clone()
	for j := 0; j < m; j++ {
		up[j] = u[j] + eps
		fwd := sys.Derive(x, up, t).Clone()
		up[j] = u[j] - eps
		bwd := sys.Derive(x, up, t)
		up[j] = u[j]

		for i := 0; i < n; i++ {
			b.Set(i, j, (fwd[i]-bwd[i])/(2*eps))
		}
	}

	return a, b, nil
}
