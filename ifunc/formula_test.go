package ifunc

import (
	"testing"

	"github.com/banachtech/riskif/errs"
	"github.com/stretchr/testify/require"
)

func TestBaselinesAtMean(t *testing.T) {
	// At the measure's neutral point the IF takes its analytic baseline.
	par := Params{ParMean: 0.01, ParSD: 0.02}
	cfg := DefaultConfig()

	require.Equal(t, 0.0, formulas[Mean].Eval(0.01, par, cfg))
	require.InDelta(t, -0.01, formulas[SD].Eval(0.01, par, cfg), 1e-15) // -sd/2

	robPar := Params{ParLocation: 0.01, ParScale: 0.02, ParTuning: 2.0, ParPsiAvg: 0.9}
	require.Equal(t, 0.0, formulas[RobMean].Eval(0.01, robPar, cfg))
}

func TestQuotientRule(t *testing.T) {
	// The composed SDratio IF must equal the hand-derived quotient-rule
	// value IF(g/h) = (IF_g*h - g*IF_h)/h^2 with g = mean, h = sd.
	m, s := 0.05, 0.1
	par := Params{ParMean: m, ParSD: s}
	cfg := DefaultConfig()
	f := formulas[SDRatio]

	for _, x := range []float64{-0.2, -0.05, 0.0, 0.05, 0.13} {
		ifg := x - m
		ifh := ((x-m)*(x-m) - s*s) / (2.0 * s)
		want := (ifg*s - m*ifh) / (s * s)
		require.InDelta(t, want, f.Eval(x, par, cfg), 1e-12, "x=%v", x)
	}
}

func TestSharpeShiftsNumerator(t *testing.T) {
	par := Params{ParMean: 0.05, ParSD: 0.1}
	cfg := DefaultConfig()
	cfg.RiskFree = 0.02

	// Same denominator as SDratio, numerator value shifted by the
	// risk-free rate.
	x := 0.03
	ifg := x - 0.05
	ifh := ((x-0.05)*(x-0.05) - 0.01) / 0.2
	want := (ifg*0.1 - (0.05-0.02)*ifh) / 0.01
	require.InDelta(t, want, formulas[SR].Eval(x, par, cfg), 1e-12)
}

func TestVaRPiecewise(t *testing.T) {
	q, den := -0.03, 2.0
	par := Params{ParQuantile: q, ParDensity: den}
	cfg := DefaultConfig() // tail 0.05
	f := formulas[VaR]

	// Constant above the VaR point, jumps at and below it.
	require.InDelta(t, 0.05/den, f.Eval(0.01, par, cfg), 1e-15)
	require.InDelta(t, 0.05/den, f.Eval(-0.0299, par, cfg), 1e-15)
	require.InDelta(t, (0.05-1.0)/den, f.Eval(q, par, cfg), 1e-15)
	require.InDelta(t, (0.05-1.0)/den, f.Eval(-0.2, par, cfg), 1e-15)
}

func TestESPiecewise(t *testing.T) {
	q, tm := -0.03, -0.05
	par := Params{ParQuantile: q, ParTailMean: tm}
	cfg := DefaultConfig()
	f := formulas[ES]

	// Constant q - ES above the VaR point.
	require.InDelta(t, q-tm, f.Eval(0.01, par, cfg), 1e-15)
	require.InDelta(t, q-tm, f.Eval(0.2, par, cfg), 1e-15)
	// Linear in x below it, slope -1/tail.
	lo1 := f.Eval(-0.05, par, cfg)
	lo2 := f.Eval(-0.06, par, cfg)
	require.InDelta(t, (q+0.05)/0.05+q-tm, lo1, 1e-15)
	require.InDelta(t, 0.01/0.05, lo2-lo1, 1e-12)
}

func TestRachevUsesLowerTail(t *testing.T) {
	// Below the lower quantile the Rachev IF is linear in x with slope
	// g/(lowerTail*h^2): the denominator leg is scaled by the Rachev lower
	// tail, not by the VaR/ES tail.
	par := Params{
		ParQuantile: -0.03, ParTailMean: -0.05,
		ParUQuantile: 0.04, ParUTailMean: 0.06,
	}
	g, h := 0.06, 0.05
	f := formulas[RachevRatio]

	cfg := DefaultConfig() // lower tail 0.1, VaR/ES tail 0.05
	slope := (f.Eval(-0.06, par, cfg) - f.Eval(-0.05, par, cfg)) / -0.01
	require.InDelta(t, -g/(0.1*h*h), slope, 1e-12)

	cfg.LowerTail = 0.2
	slope = (f.Eval(-0.06, par, cfg) - f.Eval(-0.05, par, cfg)) / -0.01
	require.InDelta(t, -g/(0.2*h*h), slope, 1e-12)
}

func TestMissingNuisanceParameter(t *testing.T) {
	par := Params{ParMean: 0.01} // sd absent
	_, err := Shape(formulas[SD], []float64{0.0, 0.1}, par, DefaultConfig())
	var missErr *errs.MissingNuisanceParameter
	require.ErrorAs(t, err, &missErr)
	require.Equal(t, string(SD), missErr.Estimator)
	require.Equal(t, ParSD, missErr.Key)
}

func TestDegenerateRatio(t *testing.T) {
	par := Params{ParUPM: 0.02, ParLPM: 0.0}
	_, err := Shape(formulas[OmegaRatio], []float64{0.0, 0.1}, par, DefaultConfig())
	var degenErr *errs.DegenerateRatio
	require.ErrorAs(t, err, &degenErr)
	require.Equal(t, string(OmegaRatio), degenErr.Estimator)
}

func TestParseEstimator(t *testing.T) {
	for _, e := range Estimators() {
		got, err := ParseEstimator(string(e))
		require.NoError(t, err)
		require.Equal(t, e, got)
	}
	_, err := ParseEstimator("kurtosis")
	var inputErr *errs.InputValidation
	require.ErrorAs(t, err, &inputErr)
}

func TestRatioKeysAreUnion(t *testing.T) {
	keys := formulas[SoR].Keys(DefaultConfig())
	require.ElementsMatch(t, []string{ParMean, ParSemiSD, ParSemiMean}, keys)
}
