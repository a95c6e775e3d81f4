package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/rollout/internal/analysis"
	"github.com/san-kum/rollout/internal/config"
	"github.com/san-kum/rollout/internal/dynamo"
	"github.com/san-kum/rollout/internal/integrators"
	"github.com/san-kum/rollout/internal/models"
	"github.com/san-kum/rollout/internal/rollout"
	"github.com/san-kum/rollout/internal/storage"
)

var (
	dataDir    string
	h          float64
	dh         float64
	steps      int
	x0         float64
	y0         float64
	heading    float64
	speed      float64
	steer      float64
	vx         float64
	vy         float64
	integrator string
	controlStr string
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rollout",
		Short: "trajectory rollout for controlled dynamical systems",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rollout", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "roll a model out under a constant control",
		Args:  cobra.ExactArgs(1),
		RunE:  runRollout,
	}
	runCmd.Flags().Float64Var(&h, "h", config.DefaultH, "outer step duration")
	runCmd.Flags().Float64Var(&dh, "dh", 0, "max sub-step duration (defaults to h)")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of outer steps")
	runCmd.Flags().Float64Var(&x0, "x", 0.0, "initial x position")
	runCmd.Flags().Float64Var(&y0, "y", 0.0, "initial y position")
	runCmd.Flags().Float64Var(&heading, "heading", 0.0, "initial heading")
	runCmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "initial speed")
	runCmd.Flags().Float64Var(&steer, "steer", 0.0, "initial steering angle (bicycle)")
	runCmd.Flags().Float64Var(&vx, "vx", 0.0, "initial x velocity (double_integrator)")
	runCmd.Flags().Float64Var(&vy, "vy", 0.0, "initial y velocity (double_integrator)")
	runCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (rk4, euler)")
	runCmd.Flags().StringVar(&controlStr, "control", "", "constant control, comma-separated (defaults to zero)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	linCmd := &cobra.Command{
		Use:   "linearize [model]",
		Short: "print the jacobians about an operating point",
		Args:  cobra.ExactArgs(1),
		RunE:  linearizeModel,
	}
	linCmd.Flags().Float64Var(&x0, "x", 0.0, "x position")
	linCmd.Flags().Float64Var(&y0, "y", 0.0, "y position")
	linCmd.Flags().Float64Var(&heading, "heading", 0.0, "heading")
	linCmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "speed")
	linCmd.Flags().Float64Var(&steer, "steer", 0.0, "steering angle (bicycle)")
	linCmd.Flags().Float64Var(&vx, "vx", 0.0, "x velocity (double_integrator)")
	linCmd.Flags().Float64Var(&vy, "vy", 0.0, "y velocity (double_integrator)")
	linCmd.Flags().StringVar(&controlStr, "control", "", "control, comma-separated (defaults to zero)")

	rootCmd.AddCommand(runCmd, listCmd, exportCmd, linCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildModel(name string) (dynamo.System, error) {
	switch name {
	case "bicycle":
		return models.NewBicycle(), nil
	case "unicycle":
		return models.NewUnicycle(), nil
	case "double_integrator":
		return models.NewDoubleIntegrator(), nil
	default:
		return nil, fmt.Errorf("unknown model: %s", name)
	}
}

func buildIntegrator(name string) (dynamo.Integrator, error) {
	switch name {
	case "rk4":
		return integrators.NewRK4(), nil
	case "euler":
		return integrators.NewEuler(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

func buildConfig(model string) (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	cfg := config.DefaultConfig()
	cfg.Model = model
	cfg.Integrator = integrator
	cfg.H = h
	cfg.Dh = dh
	cfg.Steps = steps
	cfg.InitState = config.InitStateConfig{
		X: x0, Y: y0, Heading: heading, Speed: speed, Steer: steer, VX: vx, VY: vy,
	}
	if controlStr != "" {
		u, err := parseControl(controlStr)
		if err != nil {
			return nil, err
		}
		cfg.Control = u
	}
	return cfg, nil
}

func parseControl(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	u := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid control component %q: %w", p, err)
		}
		u = append(u, v)
	}
	return u, nil
}

// constantControls repeats one control vector for every outer step,
// zero-filled when the config carries none.
func constantControls(cfg *config.Config, dim int) ([]dynamo.Control, error) {
	base := make(dynamo.Control, dim)
	if len(cfg.Control) > 0 {
		if len(cfg.Control) != dim {
			return nil, fmt.Errorf("control has %d components, model expects %d", len(cfg.Control), dim)
		}
		copy(base, cfg.Control)
	}
	controls := make([]dynamo.Control, cfg.Steps)
	for i := range controls {
		controls[i] = base.Clone()
	}
	return controls, nil
}

func runRollout(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(args[0])
	if err != nil {
		return err
	}

	sys, err := buildModel(cfg.Model)
	if err != nil {
		return err
	}
	integ, err := buildIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	x := dynamo.State(cfg.GetInitState())
	controls, err := constantControls(cfg, sys.ControlDim())
	if err != nil {
		return err
	}

	engine := rollout.New(sys, integ)
	result, err := engine.Run(context.Background(), x, controls, cfg.H, cfg.SubStep())
	if err != nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(cfg.Model, cfg.Integrator, cfg.H, cfg.SubStep(), controls, result)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d states over %.2fs\n", runID, len(result.States), float64(cfg.Steps)*cfg.H)
	fmt.Printf("final state: %v\n", []float64(result.Final()))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tINTEGRATOR\tSTEPS\tH\tWHEN")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%s\n",
			r.ID, r.Model, r.Integrator, r.Steps, r.H, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)

	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	states, controls, times, err := store.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	out := struct {
		Meta     *storage.RunMetadata `json:"meta"`
		Times    []float64            `json:"times"`
		States   [][]float64          `json:"states"`
		Controls [][]float64          `json:"controls"`
	}{meta, times, states, controls}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func linearizeModel(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(args[0])
	if err != nil {
		return err
	}
	sys, err := buildModel(cfg.Model)
	if err != nil {
		return err
	}

	x := dynamo.State(cfg.GetInitState())
	u := make(dynamo.Control, sys.ControlDim())
	if len(cfg.Control) > 0 {
		if len(cfg.Control) != sys.ControlDim() {
			return fmt.Errorf("control has %d components, model expects %d", len(cfg.Control), sys.ControlDim())
		}
		copy(u, cfg.Control)
	}

	a, b, err := analysis.Linearize(sys, x, u, 0, 0)
	if err != nil {
		return err
	}

	fmt.Printf("A =\n%v\n", mat.Formatted(a, mat.Prefix(""), mat.Squeeze()))
	fmt.Printf("B =\n%v\n", mat.Formatted(b, mat.Prefix(""), mat.Squeeze()))
	return nil
}
