package ifunc

import (
	"math"

	"github.com/banachtech/riskif/errs"
	"github.com/banachtech/riskif/robust"
)

// Formula maps an evaluation point and nuisance parameters to a pointwise
// influence value. The same formula serves both shape and series modes.
type Formula interface {
	Name() Estimator
	// Keys lists the nuisance parameters the formula reads.
	Keys(cfg Config) []string
	// Check runs sample-level contract checks before pointwise evaluation.
	Check(par Params, cfg Config) error
	// Eval computes IF(x). Keys and Check must have passed.
	Eval(x float64, par Params, cfg Config) float64
}

// formulas is the fixed strategy table over the closed estimator set. It is
// read-only after initialization and safe for concurrent use.
var formulas = map[Estimator]Formula{
	Mean:    meanIF{},
	SD:      sdIF{},
	SemiSD:  semiSDIF{},
	LPM:     lpmIF{},
	VaR:     varIF{},
	ES:      esIF{},
	RobMean: robMeanIF{},
	SDRatio: ratioIF{name: SDRatio,
		num: meanComp(func(Config) float64 { return 0.0 }),
		den: sdComp(),
	},
	SR: ratioIF{name: SR,
		num: meanComp(func(cfg Config) float64 { return cfg.RiskFree }),
		den: sdComp(),
	},
	VaRRatio: ratioIF{name: VaRRatio,
		num: meanComp(func(cfg Config) float64 { return cfg.RiskFree }),
		den: varPlusComp(),
	},
	ESRatio: ratioIF{name: ESRatio,
		num: meanComp(func(cfg Config) float64 { return cfg.RiskFree }),
		den: esPlusComp(),
	},
	SoR: ratioIF{name: SoR,
		num: sortinoNumComp(),
		den: semiSDComp(),
	},
	RachevRatio: ratioIF{name: RachevRatio,
		num: upperTailComp(),
		den: rachevDenComp(),
	},
	OmegaRatio: ratioIF{name: OmegaRatio,
		num: upmComp(),
		den: lpmOneComp(),
	},
}

// formulaFor resolves the strategy for an estimator.
func formulaFor(est Estimator) (Formula, error) {
	f, ok := formulas[est]
	if !ok {
		return nil, errs.Validationf("unknown estimator %q", string(est))
	}
	return f, nil
}

// requireKeys verifies all declared nuisance keys are present.
func requireKeys(f Formula, par Params, cfg Config) error {
	for _, k := range f.Keys(cfg) {
		if !par.Has(k) {
			return &errs.MissingNuisanceParameter{Estimator: string(f.Name()), Key: k}
		}
	}
	return nil
}

// --- point estimators ---

type meanIF struct{}

func (meanIF) Name() Estimator { return Mean }
func (meanIF) Keys(Config) []string { return []string{ParMean} }
func (meanIF) Check(Params, Config) error { return nil }
func (meanIF) Eval(x float64, par Params, _ Config) float64 {
	return x - par[ParMean]
}

type sdIF struct{}

func (sdIF) Name() Estimator { return SD }
func (sdIF) Keys(Config) []string { return []string{ParMean, ParSD} }
func (sdIF) Check(par Params, _ Config) error {
	if par[ParSD] <= 0.0 {
		return errs.Validationf("sd must be positive, got %v", par[ParSD])
	}
	return nil
}
func (sdIF) Eval(x float64, par Params, _ Config) float64 {
	u := x - par[ParMean]
	s := par[ParSD]
	return (u*u - s*s) / (2.0 * s)
}

// semiSDIF is the below-mean semi-deviation. The mean-shift cross term uses
// the below-mean partial first moment.
type semiSDIF struct{}

func (semiSDIF) Name() Estimator { return SemiSD }
func (semiSDIF) Keys(Config) []string {
	return []string{ParMean, ParSemiSD, ParSemiMean}
}
func (semiSDIF) Check(par Params, _ Config) error {
	if par[ParSemiSD] <= 0.0 {
		return errs.Validationf("semisd must be positive, got %v", par[ParSemiSD])
	}
	return nil
}
func (semiSDIF) Eval(x float64, par Params, _ Config) float64 {
	u := x - par[ParMean]
	d := par[ParSemiSD]
	var below float64
	if u <= 0.0 {
		below = u * u
	}
	return (below - d*d - 2.0*par[ParSemiMean]*u) / (2.0 * d)
}

// lpmIF is the lower partial moment at a constant threshold.
type lpmIF struct{}

func (lpmIF) Name() Estimator { return LPM }
func (lpmIF) Keys(Config) []string { return []string{ParLPM} }
func (lpmIF) Check(_ Params, cfg Config) error {
	if cfg.LPMOrder != 1 && cfg.LPMOrder != 2 {
		return errs.Validationf("LPM order must be 1 or 2, got %d", cfg.LPMOrder)
	}
	return nil
}
func (lpmIF) Eval(x float64, par Params, cfg Config) float64 {
	return lpmTerm(x, cfg.Const, cfg.LPMOrder) - par[ParLPM]
}

func lpmTerm(x, c float64, order int) float64 {
	if x > c {
		return 0.0
	}
	return math.Pow(c-x, float64(order))
}

// varIF is discontinuous at the VaR point: the indicator jump is the
// correct shape of the quantile influence function.
type varIF struct{}

func (varIF) Name() Estimator { return VaR }
func (varIF) Keys(Config) []string { return []string{ParQuantile, ParDensity} }
func (varIF) Check(par Params, _ Config) error {
	if par[ParDensity] <= 0.0 {
		return errs.Validationf("density at the VaR point must be positive, got %v", par[ParDensity])
	}
	return nil
}
func (varIF) Eval(x float64, par Params, cfg Config) float64 {
	var ind float64
	if x <= par[ParQuantile] {
		ind = 1.0
	}
	return (cfg.Tail - ind) / par[ParDensity]
}

// esIF is linear in x below the VaR point and constant above it.
type esIF struct{}

func (esIF) Name() Estimator { return ES }
func (esIF) Keys(Config) []string { return []string{ParQuantile, ParTailMean} }
func (esIF) Check(Params, Config) error { return nil }
func (esIF) Eval(x float64, par Params, cfg Config) float64 {
	q := par[ParQuantile]
	var tail float64
	if x <= q {
		tail = (q - x) / cfg.Tail
	}
	return tail + q - par[ParTailMean]
}

type robMeanIF struct{}

func (robMeanIF) Name() Estimator { return RobMean }
func (robMeanIF) Keys(Config) []string {
	return []string{ParLocation, ParScale, ParTuning, ParPsiAvg}
}
func (robMeanIF) Check(par Params, _ Config) error {
	if par[ParScale] <= 0.0 {
		return errs.Validationf("robust scale must be positive, got %v", par[ParScale])
	}
	if par[ParPsiAvg] == 0.0 {
		return errs.Validationf("average psi slope is zero")
	}
	return nil
}
func (robMeanIF) Eval(x float64, par Params, cfg Config) float64 {
	s := par[ParScale]
	u := (x - par[ParLocation]) / s
	return s * robust.Psi(cfg.Family, u, par[ParTuning]) / par[ParPsiAvg]
}

// --- ratio estimators ---

// component is one leg of a ratio estimator: its sample value and its
// pointwise influence function.
type component struct {
	keys  []string
	value func(par Params, cfg Config) float64
	inf   func(x float64, par Params, cfg Config) float64
}

// ratioIF combines two components by the quotient-rule sensitivity
// identity IF(g/h) = (IF_g*h - g*IF_h) / h^2.
type ratioIF struct {
	name Estimator
	num  component
	den  component
}

func (r ratioIF) Name() Estimator { return r.name }

func (r ratioIF) Keys(Config) []string {
	seen := map[string]bool{}
	var keys []string
	for _, k := range append(append([]string{}, r.num.keys...), r.den.keys...) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

func (r ratioIF) Check(par Params, cfg Config) error {
	if r.den.value(par, cfg) == 0.0 {
		return &errs.DegenerateRatio{Estimator: string(r.name)}
	}
	return nil
}

func (r ratioIF) Eval(x float64, par Params, cfg Config) float64 {
	g := r.num.value(par, cfg)
	h := r.den.value(par, cfg)
	return (r.num.inf(x, par, cfg)*h - g*r.den.inf(x, par, cfg)) / (h * h)
}

// meanComp is the excess-mean numerator mu - offset(cfg).
func meanComp(offset func(Config) float64) component {
	return component{
		keys:  []string{ParMean},
		value: func(par Params, cfg Config) float64 { return par[ParMean] - offset(cfg) },
		inf:   func(x float64, par Params, _ Config) float64 { return x - par[ParMean] },
	}
}

func sdComp() component {
	return component{
		keys:  []string{ParMean, ParSD},
		value: func(par Params, _ Config) float64 { return par[ParSD] },
		inf:   func(x float64, par Params, cfg Config) float64 { return sdIF{}.Eval(x, par, cfg) },
	}
}

// varPlusComp is the positive risk figure -quantile, so its influence is
// the negated quantile influence.
func varPlusComp() component {
	return component{
		keys:  []string{ParQuantile, ParDensity},
		value: func(par Params, _ Config) float64 { return -par[ParQuantile] },
		inf:   func(x float64, par Params, cfg Config) float64 { return -varIF{}.Eval(x, par, cfg) },
	}
}

// esPlusComp is the positive expected shortfall -tailmean.
func esPlusComp() component {
	return component{
		keys:  []string{ParQuantile, ParTailMean},
		value: func(par Params, _ Config) float64 { return -par[ParTailMean] },
		inf:   func(x float64, par Params, cfg Config) float64 { return -esIF{}.Eval(x, par, cfg) },
	}
}

// rachevDenComp is the Rachev denominator: the positive expected shortfall
// at the lower Rachev tail, which may differ from the VaR/ES tail.
func rachevDenComp() component {
	return component{
		keys:  []string{ParQuantile, ParTailMean},
		value: func(par Params, _ Config) float64 { return -par[ParTailMean] },
		inf: func(x float64, par Params, cfg Config) float64 {
			q := par[ParQuantile]
			var tail float64
			if x <= q {
				tail = (q - x) / cfg.LowerTail
			}
			return -(tail + q - par[ParTailMean])
		},
	}
}

// sortinoNumComp is mu minus the downside threshold: the constant for a
// const threshold, the risk-free rate when the threshold is the mean.
func sortinoNumComp() component {
	return component{
		keys: []string{ParMean},
		value: func(par Params, cfg Config) float64 {
			if cfg.Threshold == ThresholdMean {
				return par[ParMean] - cfg.RiskFree
			}
			return par[ParMean] - cfg.Const
		},
		inf: func(x float64, par Params, _ Config) float64 { return x - par[ParMean] },
	}
}

// semiSDComp is the Sortino denominator. Around the mean it carries the
// mean-shift cross term; around a constant threshold it does not.
func semiSDComp() component {
	return component{
		keys:  []string{ParMean, ParSemiSD, ParSemiMean},
		value: func(par Params, _ Config) float64 { return par[ParSemiSD] },
		inf: func(x float64, par Params, cfg Config) float64 {
			if cfg.Threshold == ThresholdMean {
				return semiSDIF{}.Eval(x, par, cfg)
			}
			d := par[ParSemiSD]
			return (lpmTerm(x, cfg.Const, 2) - d*d) / (2.0 * d)
		},
	}
}

// upperTailComp is the Rachev numerator: the mean return at or above the
// (1 - UpperTail) quantile.
func upperTailComp() component {
	return component{
		keys:  []string{ParUQuantile, ParUTailMean},
		value: func(par Params, _ Config) float64 { return par[ParUTailMean] },
		inf: func(x float64, par Params, cfg Config) float64 {
			q := par[ParUQuantile]
			var tail float64
			if x >= q {
				tail = (x - q) / cfg.UpperTail
			}
			return tail + q - par[ParUTailMean]
		},
	}
}

// upmComp and lpmOneComp are the Omega numerator and denominator: first
// partial moments above and below the constant threshold.
func upmComp() component {
	return component{
		keys:  []string{ParUPM},
		value: func(par Params, _ Config) float64 { return par[ParUPM] },
		inf: func(x float64, par Params, cfg Config) float64 {
			return math.Max(x-cfg.Const, 0.0) - par[ParUPM]
		},
	}
}

func lpmOneComp() component {
	return component{
		keys:  []string{ParLPM},
		value: func(par Params, _ Config) float64 { return par[ParLPM] },
		inf: func(x float64, par Params, cfg Config) float64 {
			return math.Max(cfg.Const-x, 0.0) - par[ParLPM]
		},
	}
}
