package ifunc

import (
	"math"
	"sort"
	"testing"

	"github.com/banachtech/riskif/errs"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

var sample = []float64{0.012, -0.021, 0.034, -0.043, 0.055, 0.001, -0.015, 0.026, -0.037, 0.008,
	0.019, -0.028, 0.041, -0.009, 0.003, 0.022, -0.033, 0.014, -0.006, 0.017}

func TestEstimateMoments(t *testing.T) {
	par, err := Estimate(sample, SD, DefaultConfig())
	require.NoError(t, err)
	require.InDelta(t, stat.Mean(sample, nil), par[ParMean], 1e-15)
	require.InDelta(t, stat.PopStdDev(sample, nil), par[ParSD], 1e-15)
}

func TestEstimateTail(t *testing.T) {
	cfg := DefaultConfig()
	par, err := Estimate(sample, ES, cfg)
	require.NoError(t, err)
	q := par[ParQuantile]

	// The tail mean averages the observations at or below the quantile.
	var sum float64
	var n int
	for _, v := range sample {
		if v <= q {
			sum += v
			n++
		}
	}
	require.Greater(t, n, 0)
	require.InDelta(t, sum/float64(n), par[ParTailMean], 1e-15)

	par, err = Estimate(sample, VaR, cfg)
	require.NoError(t, err)
	require.Greater(t, par[ParDensity], 0.0)
	require.InDelta(t, q, par[ParQuantile], 1e-15)
}

func TestEstimateSemiMoments(t *testing.T) {
	par, err := Estimate(sample, SemiSD, DefaultConfig())
	require.NoError(t, err)

	m := par[ParMean]
	var sq, first float64
	for _, v := range sample {
		if u := v - m; u <= 0.0 {
			sq += u * u
			first += u
		}
	}
	n := float64(len(sample))
	require.InDelta(t, math.Sqrt(sq/n), par[ParSemiSD], 1e-15)
	require.InDelta(t, first/n, par[ParSemiMean], 1e-15)
}

func TestEstimateOmega(t *testing.T) {
	par, err := Estimate(sample, OmegaRatio, DefaultConfig())
	require.NoError(t, err)
	require.Greater(t, par[ParUPM], 0.0)
	require.Greater(t, par[ParLPM], 0.0)
	// With threshold 0, UPM1 - LPM1 is the mean.
	require.InDelta(t, par[ParMean], par[ParUPM]-par[ParLPM], 1e-15)
}

func TestEstimateRachev(t *testing.T) {
	par, err := Estimate(sample, RachevRatio, DefaultConfig())
	require.NoError(t, err)
	require.Greater(t, par[ParUQuantile], par[ParQuantile])
	require.Greater(t, par[ParUTailMean], par[ParTailMean])
}

func TestEstimateRachevDefaultTails(t *testing.T) {
	cfg := DefaultConfig()
	par, err := Estimate(sample, RachevRatio, cfg)
	require.NoError(t, err)

	// Both Rachev tails default to 10%, independently of the 5% VaR/ES
	// tail: the lower quantile is the 10% order statistic, not the 5% one.
	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)
	require.InDelta(t, stat.Quantile(0.1, stat.LinInterp, sorted, nil), par[ParQuantile], 1e-15)
	require.InDelta(t, stat.Quantile(0.9, stat.LinInterp, sorted, nil), par[ParUQuantile], 1e-15)
	require.Greater(t, math.Abs(stat.Quantile(cfg.Tail, stat.LinInterp, sorted, nil)-par[ParQuantile]), 1e-4)
}

func TestEstimateRobMean(t *testing.T) {
	par, err := Estimate(sample, RobMean, DefaultConfig())
	require.NoError(t, err)
	require.Greater(t, par[ParScale], 0.0)
	require.Greater(t, par[ParTuning], 0.0)
	require.Greater(t, par[ParPsiAvg], 0.0)
	require.Less(t, math.Abs(par[ParLocation]-par[ParMean]), par[ParSD])
}

func TestEstimateTooShort(t *testing.T) {
	_, err := Estimate([]float64{0.01}, Mean, DefaultConfig())
	var dataErr *errs.InsufficientData
	require.ErrorAs(t, err, &dataErr)
}

func TestMergeOverridesPerKey(t *testing.T) {
	estimated := Params{ParMean: 0.01, ParSD: 0.02}
	user := Params{ParSD: 0.5}
	merged := Merge(user, estimated)
	require.Equal(t, 0.01, merged[ParMean])
	require.Equal(t, 0.5, merged[ParSD])
	// Inputs are left untouched.
	require.Equal(t, 0.02, estimated[ParSD])
}
