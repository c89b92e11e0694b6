package robust

import (
	"math"

	"github.com/banachtech/riskif/errs"
)

// Family identifies an M-estimator score family.
type Family string

const (
	// Bisquare is the Tukey biweight redescending score.
	Bisquare Family = "bisquare"
	// Opt is the Hampel-optimal bounded score, i.e. the truncated linear psi.
	Opt Family = "opt"
	// MOpt is the modified optimal score: linear core with a Gaussian-decay
	// redescending tail.
	MOpt Family = "mopt"
)

// ParseFamily maps a family name to its Family value.
func ParseFamily(s string) (Family, error) {
	switch Family(s) {
	case Bisquare, Opt, MOpt:
		return Family(s), nil
	}
	return "", errs.Validationf("unknown robust family %q", s)
}

// Psi evaluates the score function at standardized residual u with tuning
// constant c.
func Psi(f Family, u, c float64) float64 {
	switch f {
	case Bisquare:
		if math.Abs(u) > c {
			return 0.0
		}
		t := u / c
		s := 1.0 - t*t
		return u * s * s
	case Opt:
		return math.Max(-c, math.Min(c, u))
	case MOpt:
		if math.Abs(u) <= c {
			return u
		}
		t := math.Abs(u) - c
		return u * math.Exp(-0.5*t*t)
	}
	return math.NaN()
}

// PsiSlope evaluates the derivative of the score function.
func PsiSlope(f Family, u, c float64) float64 {
	switch f {
	case Bisquare:
		if math.Abs(u) > c {
			return 0.0
		}
		t := (u / c) * (u / c)
		return (1.0 - t) * (1.0 - 5.0*t)
	case Opt:
		if math.Abs(u) < c {
			return 1.0
		}
		return 0.0
	case MOpt:
		if math.Abs(u) <= c {
			return 1.0
		}
		t := math.Abs(u) - c
		return math.Exp(-0.5*t*t) * (1.0 - math.Abs(u)*t)
	}
	return math.NaN()
}

// Weight is the reweighting function Psi(u)/u, continuously extended at zero.
func Weight(f Family, u, c float64) float64 {
	if u == 0.0 {
		return 1.0
	}
	return Psi(f, u, c) / u
}
