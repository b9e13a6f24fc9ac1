// Package inferential implements the hypothesis tests used by the analysis service:
// t-tests, one-way ANOVA, Pearson correlation and simple linear regression.
package inferential

import (
	"math"
	"sort"
)

// Supported confidence levels, in percent
const (
	Level90 = 90
	Level95 = 95
	Level99 = 99
)

// two-tailed critical values of Student's t, exact for df 1..10
var exactCritical = map[int][10]float64{
	Level90: {6.314, 2.920, 2.353, 2.132, 2.015, 1.943, 1.895, 1.860, 1.833, 1.812},
	Level95: {12.706, 4.303, 3.182, 2.776, 2.571, 2.447, 2.365, 2.306, 2.262, 2.228},
	Level99: {63.657, 9.925, 5.841, 4.604, 4.032, 3.707, 3.499, 3.355, 3.250, 3.169},
}

var bucketDF = []int{15, 20, 25, 30, 40, 50, 60, 80, 100, 120}

var bucketCritical = map[int][]float64{
	Level90: {1.753, 1.725, 1.708, 1.697, 1.684, 1.676, 1.671, 1.664, 1.660, 1.658},
	Level95: {2.131, 2.086, 2.060, 2.042, 2.021, 2.009, 2.000, 1.990, 1.984, 1.980},
	Level99: {2.947, 2.845, 2.787, 2.750, 2.704, 2.678, 2.660, 2.639, 2.626, 2.617},
}

var normalCritical = map[int]float64{
	Level90: 1.645,
	Level95: 1.960,
	Level99: 2.576,
}

// NormalizeLevel maps a requested confidence level onto 90, 95 or 99; anything else is 95
func NormalizeLevel(level int) int {
	switch level {
	case Level90, Level95, Level99:
		return level
	default:
		return Level95
	}
}

// Alpha returns the two-tailed significance level for a confidence level
func Alpha(level int) float64 {
	return 1 - float64(NormalizeLevel(level))/100
}

// CriticalValue returns the two-tailed critical t for df at the confidence level.
// Between table rows the nearest lower df is used, which is the conservative choice;
// beyond df 120 the normal quantile applies.
func CriticalValue(df int, level int) float64 {
	level = NormalizeLevel(level)
	if df < 1 {
		df = 1
	}
	if df <= 10 {
		return exactCritical[level][df-1]
	}
	if df > bucketDF[len(bucketDF)-1] {
		return normalCritical[level]
	}
	if df < bucketDF[0] {
		return exactCritical[level][9]
	}
	// index of the largest bucket <= df
	i := sort.SearchInts(bucketDF, df+1) - 1
	return bucketCritical[level][i]
}

// tableDF is the df row CriticalValue reads for df; 0 means the normal quantile.
// p-values are computed at the same row so they agree with Significant.
func tableDF(df int) int {
	switch {
	case df < 1:
		return 1
	case df <= 10:
		return df
	case df > bucketDF[len(bucketDF)-1]:
		return 0
	case df < bucketDF[0]:
		return 10
	}
	return bucketDF[sort.SearchInts(bucketDF, df+1)-1]
}

// NormalCritical returns the two-tailed z for the confidence level
func NormalCritical(level int) float64 {
	return normalCritical[NormalizeLevel(level)]
}

// safeRatio divides, mapping x/0 to a signed maximum so results stay JSON-encodable
func safeRatio(num, den float64) float64 {
	if den == 0 {
		if num == 0 {
			return 0
		}
		return math.Copysign(math.MaxFloat64, num)
	}
	return num / den
}
