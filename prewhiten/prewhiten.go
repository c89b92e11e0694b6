// Package prewhiten removes autoregressive serial dependence from a series
// by fitting a low-order AR model with intercept and keeping its residuals.
package prewhiten

import (
	"github.com/banachtech/riskif/errs"
	"gonum.org/v1/gonum/mat"
)

// DefaultOrder is the autoregression order used when none is given.
const DefaultOrder = 1

// Model holds a fitted autoregression with intercept.
type Model struct {
	Order     int
	Intercept float64
	// Coef holds the lag coefficients, lag 1 first.
	Coef []float64
	// Resid holds the fit residuals. The residual series is shorter than
	// the input by Order observations: the first Order points have no
	// complete lag window and are dropped.
	Resid []float64
}

// Fit estimates an AR(order) model with intercept by least squares.
func Fit(x []float64, order int) (*Model, error) {
	if order < 1 {
		return nil, errs.Validationf("AR order must be >= 1, got %d", order)
	}
	n := len(x)
	rows := n - order
	if rows < order+2 {
		return nil, &errs.InsufficientData{Need: "series too short for the requested AR order"}
	}

	a := mat.NewDense(rows, order+1, nil)
	b := mat.NewVecDense(rows, nil)
	for t := 0; t < rows; t++ {
		a.Set(t, 0, 1.0)
		for j := 0; j < order; j++ {
			a.Set(t, j+1, x[order+t-1-j])
		}
		b.SetVec(t, x[order+t])
	}

	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		return nil, &errs.NonConvergence{Stage: "AR least-squares fit"}
	}

	m := &Model{Order: order, Intercept: beta.AtVec(0), Coef: make([]float64, order)}
	for j := 0; j < order; j++ {
		m.Coef[j] = beta.AtVec(j + 1)
	}

	var fitted mat.VecDense
	fitted.MulVec(a, &beta)
	m.Resid = make([]float64, rows)
	for t := 0; t < rows; t++ {
		m.Resid[t] = b.AtVec(t) - fitted.AtVec(t)
	}
	return m, nil
}

// Prewhiten fits an AR(order) model and returns the residual series.
func Prewhiten(x []float64, order int) ([]float64, error) {
	m, err := Fit(x, order)
	if err != nil {
		return nil, err
	}
	return m.Resid, nil
}
