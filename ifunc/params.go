package ifunc

// Nuisance parameter keys understood by the formulas.
const (
	ParMean     = "mean"
	ParSD       = "sd"
	ParSemiSD   = "semisd"
	ParSemiMean = "semimean"
	ParQuantile = "quantile"
	ParDensity  = "density"
	ParTailMean = "tailmean"
	// Upper-tail counterparts used by the Rachev ratio.
	ParUQuantile = "uquantile"
	ParUTailMean = "utailmean"
	// Partial moments for LPM and Omega.
	ParLPM = "lpm"
	ParUPM = "upm"
	// Robust-mean fit.
	ParLocation = "location"
	ParScale    = "scale"
	ParTuning   = "tuning"
	ParPsiAvg   = "psiavg"
)

// Params maps nuisance parameter names to values.
type Params map[string]float64

// Clone returns a shallow copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Has reports whether the key is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Merge overlays user-supplied values on sample estimates. Any user key
// overrides the corresponding estimate; partial overrides are allowed.
func Merge(user, estimated Params) Params {
	out := estimated.Clone()
	for k, v := range user {
		out[k] = v
	}
	return out
}
