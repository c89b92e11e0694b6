package robust

import (
	"math"
	"sort"

	"github.com/banachtech/riskif/errs"
)

// Fixed-point solve settings for the location M-estimate.
const (
	locTol     = 1e-9
	locMaxIter = 200

	// Consistency factor making the MAD estimate the standard deviation at
	// the normal model.
	madScale = 1.4826
)

// MEstimate is the result of a robust location-scale fit.
type MEstimate struct {
	Location float64
	Scale    float64
	Tuning   float64
	// PsiAvg is the sample average of the psi slope at the fit, the
	// denominator of the robust-mean influence function.
	PsiAvg float64
}

// LocScaleM computes the M-estimate of location for the given family and
// normal efficiency. Scale is held fixed at the normalized MAD and the
// location is solved by iterated reweighting.
func LocScaleM(x []float64, f Family, eff float64) (MEstimate, error) {
	if len(x) < 2 {
		return MEstimate{}, &errs.InsufficientData{Need: "at least 2 observations for a robust location fit"}
	}
	c, err := Tuning(f, eff)
	if err != nil {
		return MEstimate{}, err
	}

	m := median(x)
	s := mad(x, m) * madScale
	if s == 0.0 {
		// Degenerate sample: more than half the observations coincide.
		return MEstimate{Location: m, Scale: 0.0, Tuning: c, PsiAvg: 1.0}, nil
	}

	for iter := 0; iter < locMaxIter; iter++ {
		var num, den float64
		for _, v := range x {
			w := Weight(f, (v-m)/s, c)
			num += w * v
			den += w
		}
		if den == 0.0 {
			return MEstimate{}, &errs.NonConvergence{Stage: "robust location fit", Iters: iter}
		}
		next := num / den
		if math.Abs(next-m) <= locTol*s {
			m = next
			est := MEstimate{Location: m, Scale: s, Tuning: c}
			est.PsiAvg = psiAvg(x, m, s, f, c)
			return est, nil
		}
		m = next
	}
	return MEstimate{}, &errs.NonConvergence{Stage: "robust location fit", Iters: locMaxIter}
}

func psiAvg(x []float64, m, s float64, f Family, c float64) float64 {
	var sum float64
	for _, v := range x {
		sum += PsiSlope(f, (v-m)/s, c)
	}
	return sum / float64(len(x))
}

func median(x []float64) float64 {
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return 0.5 * (s[n/2-1] + s[n/2])
}

func mad(x []float64, center float64) float64 {
	d := make([]float64, len(x))
	for i, v := range x {
		d[i] = math.Abs(v - center)
	}
	return median(d)
}
