package inferential

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"zoostat/domain/core"
)

// Strength labels for |r|
const (
	StrengthVeryWeak   = "very weak"
	StrengthWeak       = "weak"
	StrengthModerate   = "moderate"
	StrengthStrong     = "strong"
	StrengthVeryStrong = "very strong"
)

// Direction labels
const (
	DirectionPositive = "positive"
	DirectionNegative = "negative"
	DirectionNone     = "none"
)

// CorrelationResult is the outcome of a Pearson correlation
type CorrelationResult struct {
	Coefficient        float64            `json:"coefficient"`
	RSquared           float64            `json:"r_squared"`
	TStatistic         float64            `json:"t_statistic"`
	DegreesOfFreedom   int                `json:"degrees_of_freedom"`
	PValue             float64            `json:"p_value"`
	Significant        bool               `json:"significant"`
	ConfidenceLevel    int                `json:"confidence_level"`
	Strength           string             `json:"strength"`
	Direction          string             `json:"direction"`
	N                  int                `json:"n"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	Interpretation     string             `json:"interpretation"`
}

// PearsonCorrelation measures the linear association of x and y. A constant series
// has no defined correlation and is reported as r = 0, p = 1.
func PearsonCorrelation(x, y []float64, level int) (CorrelationResult, error) {
	const op = "inferential.PearsonCorrelation"
	if len(x) != len(y) {
		return CorrelationResult{}, core.NewLengthMismatchError(op, len(x), len(y))
	}
	n := len(x)
	if n < 3 {
		return CorrelationResult{}, core.NewInsufficientDataError(op, 3, n)
	}
	level = NormalizeLevel(level)
	df := n - 2

	r := CorrelationResult{N: n, DegreesOfFreedom: df, ConfidenceLevel: level, PValue: 1}

	coef := stat.Correlation(x, y, nil)
	if math.IsNaN(coef) || math.IsInf(coef, 0) {
		coef = 0
	}
	coef = math.Max(-1, math.Min(1, coef))
	r.Coefficient = coef
	r.RSquared = coef * coef
	r.Strength = ClassifyStrength(coef)
	r.Direction = ClassifyDirection(coef)

	if coef != 0 {
		r.TStatistic = safeRatio(coef*math.Sqrt(float64(df)), math.Sqrt(1-coef*coef))
		r.PValue = tPValue(r.TStatistic, df)
		r.Significant = math.Abs(r.TStatistic) >= CriticalValue(df, level)
	}
	r.ConfidenceInterval = fisherInterval(coef, n, level)
	r.Interpretation = interpretCorrelation(r)
	return r, nil
}

// ClassifyStrength buckets |r|: <0.2 very weak, <0.4 weak, <0.6 moderate, <0.8 strong
func ClassifyStrength(r float64) string {
	a := math.Abs(r)
	switch {
	case a < 0.2:
		return StrengthVeryWeak
	case a < 0.4:
		return StrengthWeak
	case a < 0.6:
		return StrengthModerate
	case a < 0.8:
		return StrengthStrong
	default:
		return StrengthVeryStrong
	}
}

// ClassifyDirection returns positive, negative or none for r == 0
func ClassifyDirection(r float64) string {
	switch {
	case r > 0:
		return DirectionPositive
	case r < 0:
		return DirectionNegative
	default:
		return DirectionNone
	}
}

// fisherInterval is the Fisher z interval for r; with n <= 3 it spans [-1, 1]
func fisherInterval(r float64, n int, level int) ConfidenceInterval {
	ci := ConfidenceInterval{Level: level, Lower: -1, Upper: 1, Margin: 1}
	if n <= 3 || math.Abs(r) >= 1 {
		if math.Abs(r) >= 1 {
			ci.Lower, ci.Upper, ci.Margin = r, r, 0
		}
		return ci
	}
	z := math.Atanh(r)
	margin := NormalCritical(level) / math.Sqrt(float64(n-3))
	ci.Lower = math.Tanh(z - margin)
	ci.Upper = math.Tanh(z + margin)
	ci.Margin = (ci.Upper - ci.Lower) / 2
	return ci
}
