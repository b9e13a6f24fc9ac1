package inferential

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"zoostat/domain/core"
)

// RegressionResult is an ordinary least squares fit of y = intercept + slope*x
type RegressionResult struct {
	Slope            float64            `json:"slope"`
	Intercept        float64            `json:"intercept"`
	RSquared         float64            `json:"r_squared"`
	StandardError    float64            `json:"standard_error"` // of the estimate
	SlopeStdError    float64            `json:"slope_std_error"`
	TStatistic       float64            `json:"t_statistic"`
	DegreesOfFreedom int                `json:"degrees_of_freedom"`
	PValue           float64            `json:"p_value"` // for the slope
	Significant      bool               `json:"significant"`
	ConfidenceLevel  int                `json:"confidence_level"`
	SlopeInterval    ConfidenceInterval `json:"slope_interval"`
	Predictions      []float64          `json:"predictions"`
	Residuals        []float64          `json:"residuals"`
	N                int                `json:"n"`
	Equation         string             `json:"equation"`
	Interpretation   string             `json:"interpretation"`
}

// LinearRegression fits y on x. x must vary.
func LinearRegression(x, y []float64, level int) (RegressionResult, error) {
	const op = "inferential.LinearRegression"
	if len(x) != len(y) {
		return RegressionResult{}, core.NewLengthMismatchError(op, len(x), len(y))
	}
	n := len(x)
	if n < 3 {
		return RegressionResult{}, core.NewInsufficientDataError(op, 3, n)
	}
	level = NormalizeLevel(level)

	meanX := stat.Mean(x, nil)
	sxx := 0.0
	for _, v := range x {
		sxx += (v - meanX) * (v - meanX)
	}
	if sxx == 0 {
		return RegressionResult{}, core.NewStructuralErrorf(op, core.ErrNoVariance, "x is constant")
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	r := RegressionResult{
		Slope:            slope,
		Intercept:        intercept,
		DegreesOfFreedom: n - 2,
		ConfidenceLevel:  level,
		Predictions:      make([]float64, n),
		Residuals:        make([]float64, n),
		N:                n,
		PValue:           1,
	}

	sse, sst := 0.0, 0.0
	meanY := stat.Mean(y, nil)
	for i := range x {
		pred := intercept + slope*x[i]
		r.Predictions[i] = pred
		r.Residuals[i] = y[i] - pred
		sse += r.Residuals[i] * r.Residuals[i]
		sst += (y[i] - meanY) * (y[i] - meanY)
	}
	if sst > 0 {
		r.RSquared = math.Max(0, math.Min(1, 1-sse/sst))
	}

	df := n - 2
	r.StandardError = math.Sqrt(sse / float64(df))
	r.SlopeStdError = r.StandardError / math.Sqrt(sxx)
	if r.SlopeStdError > 0 || slope != 0 {
		r.TStatistic = safeRatio(slope, r.SlopeStdError)
		r.PValue = tPValue(r.TStatistic, df)
	}
	crit := CriticalValue(df, level)
	r.Significant = slope != 0 && math.Abs(r.TStatistic) >= crit
	r.SlopeInterval = newInterval(slope, crit*r.SlopeStdError, level)
	r.Equation = equation(slope, intercept)
	r.Interpretation = interpretRegression(r)
	return r, nil
}
