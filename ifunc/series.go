package ifunc

import (
	"time"

	"github.com/banachtech/riskif/errs"
)

// Transform evaluates the formula pointwise over the observed series. The
// nuisance parameters are fixed at whole-sample estimates for every
// observation (stationarity assumption). Output order and length match the
// input; labels are carried through when present.
func Transform(f Formula, series []float64, labels []time.Time, par Params, cfg Config) (*Result, error) {
	if len(series) < 2 {
		return nil, &errs.InsufficientData{Need: "at least 2 observations for series-transform mode"}
	}
	if labels != nil && len(labels) != len(series) {
		return nil, errs.Validationf("labels length %d does not match series length %d", len(labels), len(series))
	}
	if err := requireKeys(f, par, cfg); err != nil {
		return nil, err
	}
	if err := f.Check(par, cfg); err != nil {
		return nil, err
	}
	vals := make([]float64, len(series))
	for i, x := range series {
		vals[i] = f.Eval(x, par, cfg)
	}
	return &Result{
		Estimator: f.Name(),
		X:         append([]float64(nil), series...),
		IF:        vals,
		Labels:    labels,
	}, nil
}
