package inferential

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// tPValue is the two-tailed p-value of a t statistic, evaluated at the same df row
// the critical-value table uses (the standard normal past df 120)
func tPValue(t float64, df int) float64 {
	if df <= 0 || math.IsNaN(t) {
		return 1
	}
	nu := tableDF(df)
	if nu == 0 {
		return clampProbability(2 * (1 - distuv.UnitNormal.CDF(math.Abs(t))))
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(nu)}
	return clampProbability(2 * (1 - dist.CDF(math.Abs(t))))
}

// fPValue is the upper-tail p-value of an F statistic
func fPValue(f float64, df1, df2 int) float64 {
	if df1 <= 0 || df2 <= 0 || math.IsNaN(f) {
		return 1
	}
	dist := distuv.F{D1: float64(df1), D2: float64(df2)}
	return clampProbability(1 - dist.CDF(f))
}

func clampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 1
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
