package errs

import "fmt"

// InputValidation reports a bad argument. It is raised before any
// computation is attempted.
type InputValidation struct {
	Msg string
}

func (e *InputValidation) Error() string {
	return "invalid input: " + e.Msg
}

// Validationf builds an InputValidation from a format string.
func Validationf(format string, args ...any) error {
	return &InputValidation{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientData reports that a required quantity is neither supplied by
// the caller nor estimable from a return series.
type InsufficientData struct {
	Need string
}

func (e *InsufficientData) Error() string {
	return "insufficient data: " + e.Need
}

// MissingNuisanceParameter reports a nuisance key absent after merging user
// overrides with sample estimates.
type MissingNuisanceParameter struct {
	Estimator string
	Key       string
}

func (e *MissingNuisanceParameter) Error() string {
	return fmt.Sprintf("estimator %v: missing nuisance parameter %q", e.Estimator, e.Key)
}

// DegenerateRatio reports a ratio estimator whose denominator component is
// zero at the sample.
type DegenerateRatio struct {
	Estimator string
}

func (e *DegenerateRatio) Error() string {
	return fmt.Sprintf("estimator %v: denominator component is zero", e.Estimator)
}

// NonConvergence reports an iterative fit that did not converge within its
// iteration bound.
type NonConvergence struct {
	Stage string
	Iters int
}

func (e *NonConvergence) Error() string {
	if e.Iters > 0 {
		return fmt.Sprintf("%v did not converge after %d iterations", e.Stage, e.Iters)
	}
	return fmt.Sprintf("%v did not converge", e.Stage)
}
