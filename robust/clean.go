package robust

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Winsorizing cutoff for outlier cleaning, expressed as a standard normal
// quantile of the robust z-score.
const cleanQuantile = 0.999

// Clean returns a copy of the series with outliers winsorized at the robust
// location plus/minus the cutoff times the robust scale. Length and order
// are preserved; when nothing exceeds the cutoff the values are returned
// unchanged.
func Clean(x []float64, f Family, eff float64) ([]float64, error) {
	est, err := LocScaleM(x, f, eff)
	if err != nil {
		return nil, err
	}
	out := append([]float64(nil), x...)
	if est.Scale == 0.0 {
		return out, nil
	}
	cut := distuv.UnitNormal.Quantile(cleanQuantile) * est.Scale
	lo, hi := est.Location-cut, est.Location+cut
	for i, v := range out {
		if v < lo {
			out[i] = lo
		} else if v > hi {
			out[i] = hi
		}
	}
	return out, nil
}
