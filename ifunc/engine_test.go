package ifunc

import (
	"testing"
	"time"

	"github.com/banachtech/riskif/errs"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestShapeWithSuppliedMeanOnly(t *testing.T) {
	// No series: sd defaults to 1 for grid sizing and the shape is the
	// straight line x - mean over mean +- 4 sd.
	res, err := Compute(Input{
		Estimator: Mean,
		EvalShape: true,
		Nuisance:  Params{ParMean: 0.005},
	})
	require.NoError(t, err)
	require.True(t, res.Shape)
	require.Len(t, res.X, DefaultGridPoints)
	require.InDelta(t, 0.005-4.0, res.X[0], 1e-12)
	require.InDelta(t, 0.005+4.0, res.X[len(res.X)-1], 1e-12)
	for i := range res.X {
		require.InDelta(t, res.X[i]-0.005, res.IF[i], 1e-12)
	}
}

func TestSDSeriesTransform(t *testing.T) {
	res, err := Compute(Input{Estimator: SD, Returns: sample})
	require.NoError(t, err)
	require.False(t, res.Shape)
	require.Len(t, res.IF, len(sample))

	m := stat.Mean(sample, nil)
	s := stat.PopStdDev(sample, nil)
	for i, r := range sample {
		want := ((r-m)*(r-m) - s*s) / (2.0 * s)
		require.InDelta(t, want, res.IF[i], 1e-12)
	}
}

func TestVaRShapeDiscontinuity(t *testing.T) {
	grid := make([]float64, 0, 21)
	for x := -0.1; x <= 0.1001; x += 0.01 {
		grid = append(grid, x)
	}
	res, err := Compute(Input{
		Estimator: VaR,
		Returns:   sample,
		EvalShape: true,
		Grid:      grid,
	})
	require.NoError(t, err)

	par, err := Estimate(sample, VaR, DefaultConfig())
	require.NoError(t, err)
	q, den := par[ParQuantile], par[ParDensity]
	for i, x := range res.X {
		want := 0.05 / den
		if x <= q {
			want = (0.05 - 1.0) / den
		}
		require.InDelta(t, want, res.IF[i], 1e-12, "x=%v", x)
	}
	// The jump sits exactly at the estimated VaR point.
	require.Greater(t, q, grid[0])
	require.Less(t, q, grid[len(grid)-1])
}

func TestShapeMatchesSeriesAtObservedPoints(t *testing.T) {
	// Evaluating shape mode at exactly the observed points reproduces the
	// series-transform output for every estimator.
	for _, est := range Estimators() {
		series, err := Compute(Input{Estimator: est, Returns: sample})
		require.NoError(t, err, "estimator %v", est)
		shape, err := Compute(Input{Estimator: est, Returns: sample, EvalShape: true, Grid: sample})
		require.NoError(t, err, "estimator %v", est)
		for i := range sample {
			require.InDelta(t, series.IF[i], shape.IF[i], 1e-12, "estimator %v, x=%v", est, sample[i])
		}
	}
}

func TestPrewhitenedSeries(t *testing.T) {
	start, _ := time.Parse("2006-01-02", "2024-01-02")
	labels := make([]time.Time, len(sample))
	for i := range labels {
		labels[i] = start.AddDate(0, 0, i)
	}
	res, err := Compute(Input{
		Estimator: Mean,
		Returns:   sample,
		Labels:    labels,
		Prewhiten: true,
	})
	require.NoError(t, err)
	// Residual series is shorter by the AR order; labels stay aligned.
	require.Len(t, res.IF, len(sample)-1)
	require.Len(t, res.Labels, len(sample)-1)
	require.Equal(t, labels[1], res.Labels[0])

	// Prewhitened residuals are centered.
	var sum float64
	for _, v := range res.IF {
		sum += v
	}
	require.InDelta(t, 0.0, sum/float64(len(res.IF)), 1e-10)
}

func TestShapeNeverPrewhitens(t *testing.T) {
	res, err := Compute(Input{
		Estimator: Mean,
		Returns:   sample,
		EvalShape: true,
		Prewhiten: true,
	})
	require.NoError(t, err)
	require.Len(t, res.IF, DefaultGridPoints)
}

func TestCleanOutliersAttenuates(t *testing.T) {
	contaminated := append(append([]float64(nil), sample...), 2.0)
	dirty, err := Compute(Input{Estimator: Mean, Returns: contaminated})
	require.NoError(t, err)
	cleaned, err := Compute(Input{Estimator: Mean, Returns: contaminated, CleanOutliers: true})
	require.NoError(t, err)
	require.Len(t, cleaned.IF, len(contaminated))
	// Winsorizing the outlier pulls the final influence value in.
	require.Less(t, cleaned.IF[len(cleaned.IF)-1], dirty.IF[len(dirty.IF)-1])
}

func TestRobMeanEndToEnd(t *testing.T) {
	res, err := Compute(Input{Estimator: RobMean, Returns: sample})
	require.NoError(t, err)
	require.Len(t, res.IF, len(sample))
}

func TestValidation(t *testing.T) {
	type testCases struct {
		name string
		in   Input
	}

	for _, test := range []testCases{
		{name: "NO_DATA_NO_PARS", in: Input{Estimator: Mean}},
		{name: "SINGLE_OBSERVATION", in: Input{Estimator: Mean, Returns: []float64{0.01}}},
		{name: "BAD_TAIL", in: Input{Estimator: VaR, Returns: sample, Config: Config{Tail: 1.5}}},
		{name: "BAD_EFFICIENCY", in: Input{Estimator: RobMean, Returns: sample, Config: Config{Efficiency: 2.0}}},
		{name: "BAD_THRESHOLD", in: Input{Estimator: SoR, Returns: sample, Config: Config{Threshold: "median"}}},
		{name: "LABEL_MISMATCH", in: Input{Estimator: Mean, Returns: sample, Labels: []time.Time{{}}}},
		{name: "NEGATIVE_K", in: Input{Estimator: Mean, Returns: sample, EvalShape: true, K: -1.0}},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := Compute(test.in)
			require.Error(t, err)
		})
	}
}

func TestUnknownEstimator(t *testing.T) {
	_, err := Compute(Input{Estimator: "kurtosis", Returns: sample})
	var inputErr *errs.InputValidation
	require.ErrorAs(t, err, &inputErr)
}

func TestMissingParamWithoutSeries(t *testing.T) {
	// sd is required by the SD formula, is not supplied and cannot be
	// estimated without a series.
	_, err := Compute(Input{Estimator: SD, EvalShape: true, Nuisance: Params{ParMean: 0.0}})
	var dataErr *errs.InsufficientData
	require.ErrorAs(t, err, &dataErr)
}

type captivePlotter struct {
	got *Result
}

func (p *captivePlotter) Plot(r *Result, title string) error {
	p.got = r
	return nil
}

func TestEnginePlots(t *testing.T) {
	sink := &captivePlotter{}
	engine := NewEngine(sink)
	res, err := engine.Run(ifInput(Mean, sample, true))
	require.NoError(t, err)
	require.Same(t, res, sink.got)
}

func ifInput(est Estimator, returns []float64, plot bool) Input {
	return Input{Estimator: est, Returns: returns, EvalShape: true, Plot: plot}
}
