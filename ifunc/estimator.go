// Package ifunc evaluates influence functions (IF) for a closed family of
// risk and performance estimators, either over a grid of hypothetical
// return values (shape mode) or pointwise over an observed return series
// (series-transform mode).
package ifunc

import (
	"github.com/banachtech/riskif/errs"
	"github.com/banachtech/riskif/robust"
)

// Estimator identifies one of the supported measures.
type Estimator string

const (
	Mean        Estimator = "mean"
	SD          Estimator = "SD"
	SemiSD      Estimator = "SemiSD"
	LPM         Estimator = "LPM"
	VaR         Estimator = "VaR"
	ES          Estimator = "ES"
	RobMean     Estimator = "robMean"
	SDRatio     Estimator = "SDratio"
	VaRRatio    Estimator = "VaRratio"
	ESRatio     Estimator = "ESratio"
	SR          Estimator = "SR"
	SoR         Estimator = "SoR"
	RachevRatio Estimator = "RachevRatio"
	OmegaRatio  Estimator = "OmegaRatio"
)

// Estimators lists the supported identifiers in a fixed order.
func Estimators() []Estimator {
	return []Estimator{
		Mean, SD, SemiSD, LPM, VaR, ES, RobMean,
		SDRatio, VaRRatio, ESRatio, SR, SoR, RachevRatio, OmegaRatio,
	}
}

// ParseEstimator maps a name to its Estimator, rejecting unknown names.
func ParseEstimator(name string) (Estimator, error) {
	if _, ok := formulas[Estimator(name)]; ok {
		return Estimator(name), nil
	}
	return "", errs.Validationf("unknown estimator %q", name)
}

// ThresholdType selects how the Sortino downside threshold is fixed.
type ThresholdType string

const (
	ThresholdConst ThresholdType = "const"
	ThresholdMean  ThresholdType = "mean"
)

// Config carries estimator-specific settings. Zero values are replaced by
// the documented defaults in withDefaults.
type Config struct {
	// Tail is the lower tail probability for VaR/ES-family measures.
	Tail float64
	// UpperTail is the upper tail probability of the Rachev numerator.
	UpperTail float64
	// LowerTail is the lower tail probability of the Rachev denominator.
	LowerTail float64
	// Threshold selects the Sortino threshold type.
	Threshold ThresholdType
	// Const is the constant threshold for LPM, Omega and Sortino(const).
	Const float64
	// RiskFree is the risk-free rate subtracted in Sharpe-type numerators.
	RiskFree float64
	// LPMOrder is the lower partial moment order, 1 or 2.
	LPMOrder int
	// Family and Efficiency configure the robust-mean M-estimator.
	Family     robust.Family
	Efficiency float64
}

// DefaultConfig returns the documented per-call defaults: 5% tail, 10%
// Rachev tails, constant threshold 0, LPM order 1, mopt family at 0.95
// efficiency.
func DefaultConfig() Config {
	return Config{
		Tail:       0.05,
		UpperTail:  0.1,
		LowerTail:  0.1,
		Threshold:  ThresholdConst,
		Const:      0.0,
		RiskFree:   0.0,
		LPMOrder:   1,
		Family:     robust.MOpt,
		Efficiency: 0.95,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Tail == 0.0 {
		c.Tail = d.Tail
	}
	if c.UpperTail == 0.0 {
		c.UpperTail = d.UpperTail
	}
	if c.LowerTail == 0.0 {
		c.LowerTail = d.LowerTail
	}
	if c.Threshold == "" {
		c.Threshold = d.Threshold
	}
	if c.LPMOrder == 0 {
		c.LPMOrder = d.LPMOrder
	}
	if c.Family == "" {
		c.Family = d.Family
	}
	if c.Efficiency == 0.0 {
		c.Efficiency = d.Efficiency
	}
	return c
}
