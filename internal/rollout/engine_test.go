package rollout_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rollout/internal/dynamo"
	"github.com/san-kum/rollout/internal/integrators"
	"github.com/san-kum/rollout/internal/models"
	"github.com/san-kum/rollout/internal/rollout"
)

// blowsUp produces NaN on its first evaluation.
type blowsUp struct{}

func (b *blowsUp) StateDim() int   { return 1 }
func (b *blowsUp) ControlDim() int { return 0 }
func (b *blowsUp) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{math.NaN()}
}

var _ = Describe("Engine", func() {
	var (
		sys    dynamo.System
		integ  dynamo.Integrator
		engine *rollout.Engine
		x0     dynamo.State
	)

	zeroControls := func(n int) []dynamo.Control {
		controls := make([]dynamo.Control, n)
		for i := range controls {
			controls[i] = dynamo.Control{0, 0}
		}
		return controls
	}

	BeforeEach(func() {
		sys = models.NewBicycle()
		integ = integrators.NewRK4()
		engine = rollout.New(sys, integ)
		x0 = dynamo.State{0, 0, 0, 1, 0}
	})

	It("produces N+1 states with the initial state first", func() {
		result, err := engine.Run(context.Background(), x0, zeroControls(5), 0.1, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.States).To(HaveLen(6))
		Expect(result.Times).To(HaveLen(6))
		Expect([]float64(result.States[0])).To(Equal([]float64{0, 0, 0, 1, 0}))
	})

	It("copies the initial state instead of aliasing it", func() {
		result, err := engine.Run(context.Background(), x0, zeroControls(1), 0.1, 0.1)
		Expect(err).NotTo(HaveOccurred())

		x0[0] = 99
		Expect(result.States[0][0]).To(BeZero())
	})

	It("spaces times by the outer step", func() {
		h := 0.25
		result, err := engine.Run(context.Background(), x0, zeroControls(4), h, h)
		Expect(err).NotTo(HaveOccurred())
		for i, tm := range result.Times {
			Expect(tm).To(BeNumerically("~", float64(i)*h, 1e-12))
		}
	})

	It("returns just the initial state for an empty control sequence", func() {
		result, err := engine.Run(context.Background(), x0, nil, 0.1, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.States).To(HaveLen(1))
		Expect([]float64(result.Final())).To(Equal([]float64(x0)))
	})

	It("is exactly the fold of single-step integration", func() {
		h := 0.1
		controls := []dynamo.Control{
			{0.1, 0.05},
			{-0.2, 0.0},
			{0.0, -0.1},
		}

		result, err := engine.Run(context.Background(), x0, controls, h, h)
		Expect(err).NotTo(HaveOccurred())

		for i, u := range controls {
			step, err := integ.Integrate(sys, result.States[i], u, float64(i)*h, h, h)
			Expect(err).NotTo(HaveOccurred())
			Expect([]float64(result.States[i+1])).To(Equal([]float64(step)))
		}
	})

	It("rejects non-positive step sizes", func() {
		_, err := engine.Run(context.Background(), x0, zeroControls(1), 0, 0.1)
		Expect(err).To(MatchError(dynamo.ErrInvalidStep))

		_, err = engine.Run(context.Background(), x0, zeroControls(1), 0.1, -1)
		Expect(err).To(MatchError(dynamo.ErrInvalidStep))
	})

	It("annotates a failing step with its index", func() {
		controls := zeroControls(5)
		controls[2] = dynamo.Control{0.1}

		_, err := engine.Run(context.Background(), x0, controls, 0.1, 0.1)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))

		var stepErr *dynamo.StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Step).To(Equal(2))
		Expect(stepErr.Time).To(BeNumerically("~", 0.2, 1e-12))
	})

	It("aborts when a step produces NaN", func() {
		engine := rollout.New(&blowsUp{}, integ)

		_, err := engine.Run(context.Background(), dynamo.State{1}, []dynamo.Control{{}}, 0.1, 0.1)
		Expect(err).To(MatchError(dynamo.ErrInvalidState))

		var stepErr *dynamo.StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Step).To(Equal(0))
	})

	It("stops between steps when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := engine.Run(ctx, x0, zeroControls(3), 0.1, 0.1)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("gives the same trajectory on repeated runs", func() {
		controls := []dynamo.Control{{0.3, 0.1}, {0.3, 0.1}}

		first, err := engine.Run(context.Background(), x0, controls, 0.1, 0.02)
		Expect(err).NotTo(HaveOccurred())
		second, err := engine.Run(context.Background(), x0, controls, 0.1, 0.02)
		Expect(err).NotTo(HaveOccurred())

		for i := range first.States {
			Expect([]float64(first.States[i])).To(Equal([]float64(second.States[i])))
		}
	})
})

var _ = Describe("Rollout", func() {
	It("returns the bare state trajectory", func() {
		sys := models.NewDoubleIntegrator()
		x0 := dynamo.State{0, 0, 1, 0}
		controls := []dynamo.Control{{0, 0}, {0, 0}}

		states, err := rollout.Rollout(sys, integrators.NewRK4(), x0, controls, 0.5, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(states).To(HaveLen(3))
		// Unit x velocity, no acceleration: x advances by h each step.
		Expect(states[2][0]).To(BeNumerically("~", 1.0, 1e-12))
	})
})
