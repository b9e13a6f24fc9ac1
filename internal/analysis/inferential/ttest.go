package inferential

import (
	"math"

	"github.com/montanaflynn/stats"

	"zoostat/domain/core"
)

// Kinds of t-test
const (
	TestOneSample   = "one_sample"
	TestIndependent = "independent"
	TestPaired      = "paired"
)

// ConfidenceInterval is a symmetric interval around an estimate
type ConfidenceInterval struct {
	Level  int     `json:"level"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Margin float64 `json:"margin"`
}

func newInterval(estimate, margin float64, level int) ConfidenceInterval {
	return ConfidenceInterval{Level: level, Lower: estimate - margin, Upper: estimate + margin, Margin: margin}
}

// TTestResult is the outcome of any of the t-tests
type TTestResult struct {
	Test               string             `json:"test"`
	TStatistic         float64            `json:"t_statistic"`
	DegreesOfFreedom   int                `json:"degrees_of_freedom"`
	PValue             float64            `json:"p_value"`
	CriticalValue      float64            `json:"critical_value"`
	Significant        bool               `json:"significant"`
	ConfidenceLevel    int                `json:"confidence_level"`
	Mean1              float64            `json:"mean1"`
	Mean2              float64            `json:"mean2"`
	N1                 int                `json:"n1"`
	N2                 int                `json:"n2,omitempty"`
	MeanDifference     float64            `json:"mean_difference"`
	StandardError      float64            `json:"standard_error"`
	EffectSize         float64            `json:"effect_size"` // Cohen's d
	EffectMagnitude    string             `json:"effect_magnitude"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	Interpretation     string             `json:"interpretation"`
}

// OneSampleTTest tests whether the mean of values differs from mu
func OneSampleTTest(values []float64, mu float64, level int) (TTestResult, error) {
	const op = "inferential.OneSampleTTest"
	n := len(values)
	if n < 2 {
		return TTestResult{}, core.NewInsufficientDataError(op, 2, n)
	}
	level = NormalizeLevel(level)

	mean, sd := meanSD(values)
	se := sd / math.Sqrt(float64(n))
	diff := mean - mu

	r := TTestResult{
		Test:            TestOneSample,
		ConfidenceLevel: level,
		Mean1:           mean,
		Mean2:           mu,
		N1:              n,
		MeanDifference:  diff,
		StandardError:   se,
		EffectSize:      safeRatio(diff, sd),
	}
	finishTTest(&r, safeRatio(diff, se), n-1)
	return r, nil
}

// IndependentTTest compares the means of two independent groups. The standard error
// is Welch's (unpooled); degrees of freedom are n1+n2-2.
func IndependentTTest(group1, group2 []float64, level int) (TTestResult, error) {
	const op = "inferential.IndependentTTest"
	n1, n2 := len(group1), len(group2)
	if n1 < 2 {
		return TTestResult{}, core.NewStructuralErrorf(op, core.ErrInsufficientData, "group 1 has %d observations, need at least 2", n1)
	}
	if n2 < 2 {
		return TTestResult{}, core.NewStructuralErrorf(op, core.ErrInsufficientData, "group 2 has %d observations, need at least 2", n2)
	}
	level = NormalizeLevel(level)

	m1, sd1 := meanSD(group1)
	m2, sd2 := meanSD(group2)
	v1, v2 := sd1*sd1, sd2*sd2

	se := math.Sqrt(v1/float64(n1) + v2/float64(n2))
	df := n1 + n2 - 2
	pooled := math.Sqrt((float64(n1-1)*v1 + float64(n2-1)*v2) / float64(df))
	diff := m1 - m2

	r := TTestResult{
		Test:            TestIndependent,
		ConfidenceLevel: level,
		Mean1:           m1,
		Mean2:           m2,
		N1:              n1,
		N2:              n2,
		MeanDifference:  diff,
		StandardError:   se,
		EffectSize:      safeRatio(diff, pooled),
	}
	finishTTest(&r, safeRatio(diff, se), df)
	return r, nil
}

// PairedTTest tests the mean of the pairwise differences before[i]-after[i] against zero
func PairedTTest(before, after []float64, level int) (TTestResult, error) {
	const op = "inferential.PairedTTest"
	if len(before) != len(after) {
		return TTestResult{}, core.NewLengthMismatchError(op, len(before), len(after))
	}
	n := len(before)
	if n < 2 {
		return TTestResult{}, core.NewInsufficientDataError(op, 2, n)
	}
	level = NormalizeLevel(level)

	diffs := make([]float64, n)
	for i := range before {
		diffs[i] = before[i] - after[i]
	}
	mBefore, _ := stats.Mean(before)
	mAfter, _ := stats.Mean(after)
	meanDiff, sdDiff := meanSD(diffs)
	se := sdDiff / math.Sqrt(float64(n))

	r := TTestResult{
		Test:            TestPaired,
		ConfidenceLevel: level,
		Mean1:           mBefore,
		Mean2:           mAfter,
		N1:              n,
		N2:              n,
		MeanDifference:  meanDiff,
		StandardError:   se,
		EffectSize:      safeRatio(meanDiff, sdDiff),
	}
	finishTTest(&r, safeRatio(meanDiff, se), n-1)
	return r, nil
}

func finishTTest(r *TTestResult, t float64, df int) {
	r.TStatistic = t
	r.DegreesOfFreedom = df
	r.PValue = tPValue(t, df)
	r.CriticalValue = CriticalValue(df, r.ConfidenceLevel)
	r.Significant = math.Abs(t) >= r.CriticalValue
	r.EffectMagnitude = cohenMagnitude(r.EffectSize)
	r.ConfidenceInterval = newInterval(r.MeanDifference, r.CriticalValue*r.StandardError, r.ConfidenceLevel)
	r.Interpretation = interpretTTest(*r)
}

// meanSD returns the mean and the sample (n-1) standard deviation
func meanSD(values []float64) (float64, float64) {
	mean, _ := stats.Mean(values)
	if len(values) < 2 {
		return mean, 0
	}
	variance, _ := stats.SampleVariance(values)
	return mean, math.Sqrt(variance)
}
