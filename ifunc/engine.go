package ifunc

import (
	"time"

	"github.com/banachtech/riskif/errs"
	"github.com/banachtech/riskif/prewhiten"
	"github.com/banachtech/riskif/robust"
)

// Input is the full per-call configuration surface of the engine.
type Input struct {
	Estimator Estimator
	// Returns is the observed return series, optional in shape mode.
	Returns []float64
	// Labels optionally time-stamps the returns, one label per observation.
	Labels []time.Time
	// EvalShape selects shape mode (grid) over series-transform mode.
	EvalShape bool
	// Grid overrides the default shape-mode evaluation grid.
	Grid []float64
	// Nuisance overrides estimated nuisance parameters, per key.
	Nuisance Params
	// K is the default grid half-width in standard deviations (default 4).
	K float64
	// GridPoints is the default grid size (default 1000).
	GridPoints int

	// Prewhiten replaces the series-mode output with AR residuals.
	Prewhiten bool
	// AROrder is the prewhitening autoregression order (default 1).
	AROrder int

	// CleanOutliers winsorizes the series before estimation.
	CleanOutliers bool
	CleanFamily   robust.Family
	// CleanEff is the cleaning efficiency (default 0.99).
	CleanEff float64

	// Plot routes the result to the engine's plotter as well.
	Plot  bool
	Title string

	Config
}

// Plotter is the rendering sink: it consumes a result and a title and
// returns nothing the engine uses.
type Plotter interface {
	Plot(r *Result, title string) error
}

// Engine orchestrates one influence-function evaluation per call. It holds
// no state besides the optional plotter; calls are independent and safe to
// run concurrently.
type Engine struct {
	plotter Plotter
}

// NewEngine creates an engine. The plotter may be nil.
func NewEngine(p Plotter) *Engine {
	return &Engine{plotter: p}
}

// Compute runs one evaluation without a plotting sink.
func Compute(in Input) (*Result, error) {
	return NewEngine(nil).Run(in)
}

// Run validates the input, resolves nuisance parameters, evaluates the
// selected mode and applies optional post-processing. Any failure aborts
// the call with a typed error; no partial results are returned.
func (e *Engine) Run(in Input) (*Result, error) {
	f, err := formulaFor(in.Estimator)
	if err != nil {
		return nil, err
	}
	in = withInputDefaults(in)
	cfg := in.Config.withDefaults()
	if err := validate(in, cfg); err != nil {
		return nil, err
	}

	series := in.Returns
	if in.CleanOutliers && len(series) > 0 {
		series, err = robust.Clean(series, in.CleanFamily, in.CleanEff)
		if err != nil {
			return nil, err
		}
	}

	par := in.Nuisance.Clone()
	if len(series) >= 2 {
		estimated, err := Estimate(series, in.Estimator, cfg)
		if err != nil {
			return nil, err
		}
		par = Merge(in.Nuisance, estimated)
	} else if missing := missingKeys(f, par, cfg); missing != "" {
		// Nothing to estimate from: the caller must supply every key.
		return nil, &errs.InsufficientData{Need: "nuisance parameter " + missing + " is not supplied and no return series is given to estimate it"}
	}

	var res *Result
	if in.EvalShape {
		grid := in.Grid
		if grid == nil {
			grid = DefaultGrid(par, in.K, in.GridPoints)
		}
		res, err = Shape(f, grid, par, cfg)
	} else {
		res, err = Transform(f, series, in.Labels, par, cfg)
		if err == nil && in.Prewhiten {
			res, err = prewhitened(res, in.AROrder)
		}
	}
	if err != nil {
		return nil, err
	}

	if in.Plot && e.plotter != nil {
		if err := e.plotter.Plot(res, in.Title); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// prewhitened replaces the IF series with AR residuals. The residual series
// is shorter by the AR order, so x values and labels are trimmed from the
// front to stay aligned.
func prewhitened(r *Result, order int) (*Result, error) {
	resid, err := prewhiten.Prewhiten(r.IF, order)
	if err != nil {
		return nil, err
	}
	out := &Result{
		Estimator: r.Estimator,
		X:         r.X[order:],
		IF:        resid,
	}
	if r.Labels != nil {
		out.Labels = r.Labels[order:]
	}
	return out, nil
}

func withInputDefaults(in Input) Input {
	if in.K == 0.0 {
		in.K = DefaultGridWidth
	}
	if in.GridPoints == 0 {
		in.GridPoints = DefaultGridPoints
	}
	if in.AROrder == 0 {
		in.AROrder = prewhiten.DefaultOrder
	}
	if in.CleanFamily == "" {
		in.CleanFamily = robust.MOpt
	}
	if in.CleanEff == 0.0 {
		in.CleanEff = 0.99
	}
	return in
}

func validate(in Input, cfg Config) error {
	if len(in.Returns) == 0 && len(in.Nuisance) == 0 {
		return &errs.InsufficientData{Need: "either a return series or nuisance parameters"}
	}
	if len(in.Returns) == 1 {
		return &errs.InsufficientData{Need: "at least 2 observations"}
	}
	if cfg.Tail <= 0.0 || cfg.Tail >= 1.0 {
		return errs.Validationf("tail probability must be in (0,1), got %v", cfg.Tail)
	}
	if cfg.UpperTail <= 0.0 || cfg.UpperTail >= 1.0 {
		return errs.Validationf("upper tail probability must be in (0,1), got %v", cfg.UpperTail)
	}
	if cfg.LowerTail <= 0.0 || cfg.LowerTail >= 1.0 {
		return errs.Validationf("lower tail probability must be in (0,1), got %v", cfg.LowerTail)
	}
	if cfg.Efficiency <= 0.0 || cfg.Efficiency >= 1.0 {
		return errs.Validationf("efficiency must be in (0,1), got %v", cfg.Efficiency)
	}
	if in.CleanEff <= 0.0 || in.CleanEff >= 1.0 {
		return errs.Validationf("cleaning efficiency must be in (0,1), got %v", in.CleanEff)
	}
	if cfg.Threshold != ThresholdConst && cfg.Threshold != ThresholdMean {
		return errs.Validationf("threshold must be %q or %q, got %q", ThresholdConst, ThresholdMean, cfg.Threshold)
	}
	if in.K <= 0.0 {
		return errs.Validationf("grid width k must be positive, got %v", in.K)
	}
	if in.GridPoints < 2 {
		return errs.Validationf("grid must have at least 2 points, got %d", in.GridPoints)
	}
	if in.AROrder < 1 {
		return errs.Validationf("AR order must be >= 1, got %d", in.AROrder)
	}
	if in.Labels != nil && len(in.Labels) != len(in.Returns) {
		return errs.Validationf("labels length %d does not match series length %d", len(in.Labels), len(in.Returns))
	}
	if !in.EvalShape && len(in.Returns) < 2 {
		return &errs.InsufficientData{Need: "a return series of length >= 2 for series-transform mode"}
	}
	return nil
}

func missingKeys(f Formula, par Params, cfg Config) string {
	for _, k := range f.Keys(cfg) {
		if !par.Has(k) {
			return k
		}
	}
	return ""
}
