package plot

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/banachtech/riskif/ifunc"
	"github.com/stretchr/testify/require"
)

func TestCSVPlot(t *testing.T) {
	dir := t.TempDir()
	d0, _ := time.Parse(layout, "2024-01-02")
	r := &ifunc.Result{
		Estimator: ifunc.Mean,
		X:         []float64{0.01, -0.02},
		IF:        []float64{0.005, -0.025},
		Labels:    []time.Time{d0, d0.AddDate(0, 0, 1)},
	}

	require.NoError(t, CSV{Dir: dir}.Plot(r, "mean_series"))

	f, err := os.Open(filepath.Join(dir, "mean_series.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"x", "if", "date"}, rows[0])
	require.Equal(t, []string{"0.01", "0.005", "2024-01-02"}, rows[1])
}

func TestCSVPlotDefaultTitle(t *testing.T) {
	dir := t.TempDir()
	r := &ifunc.Result{Estimator: ifunc.SD, Shape: true, X: []float64{0.0}, IF: []float64{-0.5}}
	require.NoError(t, CSV{Dir: dir}.Plot(r, ""))
	_, err := os.Stat(filepath.Join(dir, "SD.csv"))
	require.NoError(t, err)
}
