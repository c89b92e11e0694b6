package ifunc

import "time"

// Result is the output of one engine call: (x, IF) pairs in shape mode, or
// an IF value per input observation in series mode. Time labels are carried
// through from the input series when present.
type Result struct {
	Estimator Estimator
	Shape     bool
	X         []float64
	IF        []float64
	Labels    []time.Time
}
