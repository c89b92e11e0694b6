package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/banachtech/riskif/errs"
	"github.com/banachtech/riskif/ifunc"
	"github.com/banachtech/riskif/robust"
	"github.com/gin-gonic/gin"
)

const Layout = "2006-01-02"

type ifRequest struct {
	Estimator    string             `json:"estimator" binding:"required"`
	Returns      []float64          `json:"returns"`
	Labels       []string           `json:"labels"`
	EvalShape    bool               `json:"evalShape"`
	RetVals      []float64          `json:"retVals"`
	NuisancePars map[string]float64 `json:"nuisancePars"`
	K            float64            `json:"k"`
	GridPoints   int                `json:"gridPoints"`

	TailProbability      float64 `json:"tailProbability"`
	UpperTailProbability float64 `json:"upperTailProbability"`
	LowerTailProbability float64 `json:"lowerTailProbability"`
	Threshold            string  `json:"threshold"`
	Constant             float64 `json:"constant"`
	RiskFreeRate         float64 `json:"riskFreeRate"`
	LPMOrder             int     `json:"lpmOrder"`
	Family               string  `json:"family"`
	Efficiency           float64 `json:"efficiency"`

	Prewhiten     bool    `json:"prewhiten"`
	ArOrder       int     `json:"arOrder"`
	CleanOutliers bool    `json:"cleanOutliers"`
	CleanMethod   string  `json:"cleanMethod"`
	CleanEff      float64 `json:"cleanEfficiency"`
}

func (server *Server) influence(c *gin.Context) {
	var req ifRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	est, err := ifunc.ParseEstimator(req.Estimator)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	in := ifunc.Input{
		Estimator:     est,
		Returns:       req.Returns,
		EvalShape:     req.EvalShape,
		Grid:          req.RetVals,
		Nuisance:      ifunc.Params(req.NuisancePars),
		K:             req.K,
		GridPoints:    req.GridPoints,
		Prewhiten:     req.Prewhiten,
		AROrder:       req.ArOrder,
		CleanOutliers: req.CleanOutliers,
		CleanEff:      req.CleanEff,
		Config: ifunc.Config{
			Tail:       req.TailProbability,
			UpperTail:  req.UpperTailProbability,
			LowerTail:  req.LowerTailProbability,
			Threshold:  ifunc.ThresholdType(req.Threshold),
			Const:      req.Constant,
			RiskFree:   req.RiskFreeRate,
			LPMOrder:   req.LPMOrder,
			Efficiency: req.Efficiency,
		},
	}
	if req.Family != "" {
		family, err := robust.ParseFamily(req.Family)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
			return
		}
		in.Config.Family = family
	}
	if req.CleanMethod != "" {
		family, err := robust.ParseFamily(req.CleanMethod)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
			return
		}
		in.CleanFamily = family
	}
	if len(req.Labels) > 0 {
		labels, err := parseLabels(req.Labels)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
			return
		}
		in.Labels = labels
	}

	res, err := server.engine.Run(in)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}

	out := gin.H{"estimator": res.Estimator, "shape": res.Shape, "x": res.X, "if": res.IF}
	if res.Labels != nil {
		labels := make([]string, len(res.Labels))
		for i, t := range res.Labels {
			labels[i] = t.Format(Layout)
		}
		out["labels"] = labels
	}
	c.JSON(http.StatusOK, out)
}

func (server *Server) estimators(c *gin.Context) {
	names := make([]string, 0, len(ifunc.Estimators()))
	for _, e := range ifunc.Estimators() {
		names = append(names, string(e))
	}
	c.JSON(http.StatusOK, gin.H{"estimators": names})
}

func parseLabels(raw []string) ([]time.Time, error) {
	labels := make([]time.Time, len(raw))
	for i, s := range raw {
		t, err := time.Parse(Layout, s)
		if err != nil {
			return nil, err
		}
		labels[i] = t
	}
	return labels, nil
}

// statusFor maps the engine's typed errors to HTTP statuses: caller
// mistakes are 400, numerical non-convergence is 422, anything else 500.
func statusFor(err error) int {
	var (
		inputErr *errs.InputValidation
		dataErr  *errs.InsufficientData
		missErr  *errs.MissingNuisanceParameter
		degenErr *errs.DegenerateRatio
		nonConv  *errs.NonConvergence
	)
	switch {
	case errors.As(err, &inputErr), errors.As(err, &dataErr), errors.As(err, &missErr), errors.As(err, &degenErr):
		return http.StatusBadRequest
	case errors.As(err, &nonConv):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
