package robust

import (
	"math"

	"github.com/banachtech/riskif/errs"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"
)

// Integration range and resolution for the normal-model moments. The
// standard normal density is negligible beyond +-10.
const (
	quadLo = -10.0
	quadHi = 10.0
	quadN  = 2000 // number of Simpson intervals, must be even
)

// Efficiency computes the asymptotic efficiency of the family at the
// standard normal model for tuning constant c:
//
//	eff(c) = (E psi')^2 / E psi^2.
func Efficiency(f Family, c float64) float64 {
	a := gaussMoment(func(u float64) float64 { return PsiSlope(f, u, c) })
	b := gaussMoment(func(u float64) float64 { p := Psi(f, u, c); return p * p })
	if b == 0.0 {
		return 0.0
	}
	return a * a / b
}

// Tuning solves for the tuning constant that attains the target normal
// efficiency. The solve mirrors the model-calibration pattern: a scalar
// Nelder-Mead minimization over the log of the constant.
func Tuning(f Family, eff float64) (float64, error) {
	if eff <= 0.0 || eff >= 1.0 {
		return math.NaN(), errs.Validationf("efficiency must be in (0,1), got %v", eff)
	}
	problem := optimize.Problem{
		Func: func(par []float64) float64 {
			d := Efficiency(f, math.Exp(par[0])) - eff
			return d * d
		},
	}
	res, err := optimize.Minimize(problem, []float64{math.Log(1.5)}, nil, &optimize.NelderMead{})
	if err != nil {
		return math.NaN(), &errs.NonConvergence{Stage: "tuning constant solve"}
	}
	c := math.Exp(res.X[0])
	if math.Abs(Efficiency(f, c)-eff) > 1e-4 {
		return math.NaN(), &errs.NonConvergence{Stage: "tuning constant solve"}
	}
	return c, nil
}

// gaussMoment integrates g against the standard normal density by composite
// Simpson quadrature.
func gaussMoment(g func(float64) float64) float64 {
	h := (quadHi - quadLo) / float64(quadN)
	sum := g(quadLo)*distuv.UnitNormal.Prob(quadLo) + g(quadHi)*distuv.UnitNormal.Prob(quadHi)
	for i := 1; i < quadN; i++ {
		u := quadLo + float64(i)*h
		w := 2.0
		if i%2 == 1 {
			w = 4.0
		}
		sum += w * g(u) * distuv.UnitNormal.Prob(u)
	}
	return sum * h / 3.0
}
