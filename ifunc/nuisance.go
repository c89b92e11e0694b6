package ifunc

import (
	"math"
	"sort"

	"github.com/banachtech/riskif/errs"
	"github.com/banachtech/riskif/robust"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Estimate computes the plug-in nuisance parameters the estimator's formula
// needs from the return sample. The mean and the population (denominator n)
// standard deviation are always included: the single sd convention is used
// by every formula and by default grid sizing.
func Estimate(series []float64, est Estimator, cfg Config) (Params, error) {
	if len(series) < 2 {
		return nil, &errs.InsufficientData{Need: "at least 2 observations to estimate nuisance parameters"}
	}
	par := Params{
		ParMean: stat.Mean(series, nil),
		ParSD:   stat.PopStdDev(series, nil),
	}

	switch est {
	case Mean, SD, SDRatio, SR:
		// Mean and sd only.
	case SemiSD:
		semiMoments(par, series, par[ParMean])
	case SoR:
		center := cfg.Const
		if cfg.Threshold == ThresholdMean {
			center = par[ParMean]
		}
		semiMoments(par, series, center)
	case LPM:
		par[ParLPM] = partialMoment(series, cfg.Const, cfg.LPMOrder, false)
	case OmegaRatio:
		par[ParLPM] = partialMoment(series, cfg.Const, 1, false)
		par[ParUPM] = partialMoment(series, cfg.Const, 1, true)
	case VaR:
		q := quantile(series, cfg.Tail)
		par[ParQuantile] = q
		par[ParDensity] = kdeAt(series, q)
	case ES:
		q := quantile(series, cfg.Tail)
		par[ParQuantile] = q
		par[ParTailMean] = tailMean(series, q, false)
	case VaRRatio:
		q := quantile(series, cfg.Tail)
		par[ParQuantile] = q
		par[ParDensity] = kdeAt(series, q)
	case ESRatio:
		q := quantile(series, cfg.Tail)
		par[ParQuantile] = q
		par[ParTailMean] = tailMean(series, q, false)
	case RachevRatio:
		q := quantile(series, cfg.LowerTail)
		par[ParQuantile] = q
		par[ParTailMean] = tailMean(series, q, false)
		uq := quantile(series, 1.0-cfg.UpperTail)
		par[ParUQuantile] = uq
		par[ParUTailMean] = tailMean(series, uq, true)
	case RobMean:
		fit, err := robust.LocScaleM(series, cfg.Family, cfg.Efficiency)
		if err != nil {
			return nil, err
		}
		par[ParLocation] = fit.Location
		par[ParScale] = fit.Scale
		par[ParTuning] = fit.Tuning
		par[ParPsiAvg] = fit.PsiAvg
	default:
		return nil, errs.Validationf("unknown estimator %q", string(est))
	}
	return par, nil
}

// quantile is the interpolated order statistic at probability p, the single
// quantile convention shared by VaR, ES and Rachev estimation.
func quantile(x []float64, p float64) float64 {
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	return stat.Quantile(p, stat.LinInterp, s, nil)
}

// tailMean averages the observations at or below the quantile (upper=false)
// or at or above it (upper=true). The quantile itself seeds the average so
// the tail is never empty.
func tailMean(x []float64, q float64, upper bool) float64 {
	var sum float64
	var n int
	for _, v := range x {
		if (!upper && v <= q) || (upper && v >= q) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return q
	}
	return sum / float64(n)
}

// semiMoments fills the below-threshold semi-deviation and partial first
// moment about the given center.
func semiMoments(par Params, x []float64, center float64) {
	var sq, first float64
	for _, v := range x {
		if u := v - center; u <= 0.0 {
			sq += u * u
			first += u
		}
	}
	n := float64(len(x))
	par[ParSemiSD] = math.Sqrt(sq / n)
	par[ParSemiMean] = first / n
}

// partialMoment is E[(c-X)^order 1{X<=c}] (lower) or E[(X-c)^order 1{X>=c}]
// (upper) under the empirical distribution.
func partialMoment(x []float64, c float64, order int, upper bool) float64 {
	var sum float64
	for _, v := range x {
		d := c - v
		if upper {
			d = v - c
		}
		if d >= 0.0 {
			sum += math.Pow(d, float64(order))
		}
	}
	return sum / float64(len(x))
}

// kdeAt evaluates a Gaussian kernel density estimate at a point, with the
// nrd0 bandwidth rule b = 0.9*min(sd, IQR/1.349)*n^(-1/5).
func kdeAt(x []float64, at float64) float64 {
	n := float64(len(x))
	sd := stat.PopStdDev(x, nil)
	spread := sd
	if iqr := quantile(x, 0.75) - quantile(x, 0.25); iqr > 0.0 && iqr/1.349 < spread {
		spread = iqr / 1.349
	}
	b := 0.9 * spread * math.Pow(n, -0.2)
	if b <= 0.0 {
		// Degenerate sample, fall back to a unit-variance kernel.
		b = 1.0
	}
	var sum float64
	for _, v := range x {
		sum += distuv.UnitNormal.Prob((at - v) / b)
	}
	return sum / (n * b)
}
