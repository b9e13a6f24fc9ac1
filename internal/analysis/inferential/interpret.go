package inferential

import (
	"fmt"
	"math"
	"strconv"
)

func cohenMagnitude(d float64) string {
	a := math.Abs(d)
	switch {
	case a < 0.2:
		return "desprezível"
	case a < 0.5:
		return "pequeno"
	case a < 0.8:
		return "médio"
	default:
		return "grande"
	}
}

func etaMagnitude(eta float64) string {
	switch {
	case eta < 0.01:
		return "desprezível"
	case eta < 0.06:
		return "pequeno"
	case eta < 0.14:
		return "médio"
	default:
		return "grande"
	}
}

func interpretTTest(r TTestResult) string {
	var subject string
	switch r.Test {
	case TestOneSample:
		subject = fmt.Sprintf("a média (%s) e o valor de referência (%s)", f3(r.Mean1), f3(r.Mean2))
	case TestPaired:
		subject = fmt.Sprintf("as medidas pareadas (diferença média %s)", f3(r.MeanDifference))
	default:
		subject = fmt.Sprintf("as médias dos grupos (%s vs %s)", f3(r.Mean1), f3(r.Mean2))
	}

	verdict := "Não há diferença estatisticamente significativa entre"
	if r.Significant {
		verdict = "Há diferença estatisticamente significativa entre"
	}
	return fmt.Sprintf("%s %s ao nível de %d%% (t = %s, gl = %d, p = %s). Tamanho de efeito %s (d = %s).",
		verdict, subject, r.ConfidenceLevel, f3(r.TStatistic), r.DegreesOfFreedom, pv(r.PValue),
		r.EffectMagnitude, f3(r.EffectSize))
}

func interpretANOVA(r ANOVAResult) string {
	verdict := "Não há evidência de diferença entre as médias dos grupos"
	if r.Significant {
		verdict = "Pelo menos um grupo difere significativamente dos demais"
	}
	return fmt.Sprintf("%s (F(%d, %d) = %s, p = %s). Efeito %s (η² = %s).",
		verdict, r.DFBetween, r.DFWithin, f3(r.FStatistic), pv(r.PValue), r.EffectMagnitude, f3(r.EtaSquared))
}

var strengthPT = map[string]string{
	StrengthVeryWeak:   "muito fraca",
	StrengthWeak:       "fraca",
	StrengthModerate:   "moderada",
	StrengthStrong:     "forte",
	StrengthVeryStrong: "muito forte",
}

var directionPT = map[string]string{
	DirectionPositive: "positiva",
	DirectionNegative: "negativa",
	DirectionNone:     "nula",
}

func interpretCorrelation(r CorrelationResult) string {
	sig := "não significativa"
	if r.Significant {
		sig = "estatisticamente significativa"
	}
	return fmt.Sprintf("Correlação %s %s, %s (r = %s, p = %s, n = %d).",
		directionPT[r.Direction], strengthPT[r.Strength], sig, f3(r.Coefficient), pv(r.PValue), r.N)
}

func interpretRegression(r RegressionResult) string {
	sig := "não é estatisticamente significativa"
	if r.Significant {
		sig = "é estatisticamente significativa"
	}
	return fmt.Sprintf("%s. A inclinação %s (p = %s) e o modelo explica %.1f%% da variação (R² = %s).",
		r.Equation, sig, pv(r.PValue), r.RSquared*100, f3(r.RSquared))
}

func equation(slope, intercept float64) string {
	sign := "+"
	if intercept < 0 {
		sign = "-"
	}
	return fmt.Sprintf("y = %sx %s %s", f4(slope), sign, f4(math.Abs(intercept)))
}

func f3(v float64) string {
	if math.Abs(v) >= 1e12 {
		return "∞"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func f4(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func pv(p float64) string {
	if p < 0.001 {
		return "< 0.001"
	}
	return strconv.FormatFloat(p, 'f', 4, 64)
}
