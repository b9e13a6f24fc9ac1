package crossval

import (
	"fmt"
	"math"
	"strconv"

	"zoostat/domain/metrics"
)

// hintConverter only checks whether a mismatch disappears under a unit change
var hintConverter = metrics.NewConverter(nil)

// ValidateGPD recomputes average daily gain as (final - initial) / days and compares it
// with reported when given. Differences above 15% are errors, from 7.5% warnings.
func ValidateGPD(initial, final, days float64, reported *float64) Result {
	r := newResult(RuleGPD)
	r.Metric = "gpd"
	r.Reported = reported

	if days <= 0 {
		r.addError(fmt.Sprintf("Período de %s dias inválido: deve ser maior que zero", num(days)))
		return r
	}
	if final < initial {
		r.addError(fmt.Sprintf("Peso final (%s kg) menor que o peso inicial (%s kg): provável erro de digitação",
			num(final), num(initial)))
		r.addSuggestion("Verifique se as colunas de peso inicial e final não estão invertidas")
		return r
	}

	calculated := (final - initial) / days
	r.Calculated = ptr(calculated)

	if reported == nil {
		r.addSuggestion(fmt.Sprintf("GPD calculado: %s kg/dia", fixed(calculated, 3)))
		return r
	}
	compareReported(&r, "GPD", "kg/dia", calculated, *reported, standardErrorTolerance, standardWarningTolerance)
	if !r.Valid {
		suggestUnit(&r, calculated, *reported, "kg/dia", "g/dia", standardErrorTolerance)
	}
	return r
}

// ValidateFCR recomputes feed conversion as totalFeed / totalGain
func ValidateFCR(totalFeed, totalGain float64, reported *float64) Result {
	r := newResult(RuleFCR)
	r.Metric = "conversao_alimentar"
	r.Reported = reported

	if totalGain <= 0 {
		r.addError(fmt.Sprintf("Ganho de peso total (%s kg) deve ser maior que zero para calcular a conversão alimentar", num(totalGain)))
		return r
	}
	if totalFeed <= 0 {
		r.addError(fmt.Sprintf("Consumo de ração (%s kg) deve ser maior que zero", num(totalFeed)))
		return r
	}

	calculated := totalFeed / totalGain
	r.Calculated = ptr(calculated)

	if reported == nil {
		r.addSuggestion(fmt.Sprintf("Conversão alimentar calculada: %s kg/kg", fixed(calculated, 3)))
		return r
	}
	compareReported(&r, "Conversão alimentar", "kg/kg", calculated, *reported, standardErrorTolerance, standardWarningTolerance)
	return r
}

// ValidateIEP recomputes the poultry production-efficiency index as
// (viability * weight) / (age * conversion) * 100, viability in percent, weight in kg,
// age in days. A viability of at most 1 is read as a fraction.
func ValidateIEP(viability, avgWeight, age, conversion float64, reported *float64) Result {
	r := newResult(RuleIEP)
	r.Metric = "iep"
	r.Reported = reported

	if age <= 0 {
		r.addError(fmt.Sprintf("Idade de %s dias inválida para o cálculo do IEP", num(age)))
		return r
	}
	if conversion <= 0 {
		r.addError(fmt.Sprintf("Conversão alimentar de %s inválida para o cálculo do IEP", num(conversion)))
		return r
	}
	if viability > 0 && viability <= 1 {
		viability = hintConverter.Convert(viability, "decimal", "%")
		r.addSuggestion("Viabilidade interpretada como fração e convertida para porcentagem")
	}
	if viability < 0 || viability > 100 {
		r.addError(fmt.Sprintf("Viabilidade de %s%% fora do intervalo 0 a 100", num(viability)))
		return r
	}

	calculated := (viability * avgWeight) / (age * conversion) * 100
	r.Calculated = ptr(calculated)

	if reported == nil {
		r.addSuggestion(fmt.Sprintf("IEP calculado: %s", fixed(calculated, 1)))
		return r
	}
	compareReported(&r, "IEP", "pontos", calculated, *reported, iepErrorTolerance, iepWarningTolerance)
	return r
}

// compareReported applies the tolerance bands to |calc - reported| / |calc|
func compareReported(r *Result, label, unit string, calculated, reported, errTol, warnTol float64) {
	diff := relativeDifference(calculated, reported)
	if !math.IsInf(diff, 0) {
		r.DifferencePct = ptr(diff * 100)
	}

	switch {
	case diff > errTol:
		r.addError(fmt.Sprintf("%s informado (%s) difere significativamente do calculado (%s %s): diferença de %s",
			label, num(reported), fixed(calculated, 3), unit, pct(diff)))
		r.addSuggestion(fmt.Sprintf("Revise os dados de origem; o valor calculado é %s %s", fixed(calculated, 3), unit))
	case diff >= warnTol:
		r.addWarning(fmt.Sprintf("%s informado (%s) difere do calculado (%s %s) em %s",
			label, num(reported), fixed(calculated, 3), unit, pct(diff)))
		r.addSuggestion("Confira arredondamentos e o período considerado")
	}
}

// suggestUnit adds a hint when the reported value matches once read in altUnit
func suggestUnit(r *Result, calculated, reported float64, unit, altUnit string, tol float64) {
	converted, ok := hintConverter.TryConvert(reported, altUnit, unit)
	if !ok {
		return
	}
	if relativeDifference(calculated, converted) <= tol {
		r.addSuggestion(fmt.Sprintf("O valor informado parece estar em %s (%s %s = %s %s)",
			altUnit, num(reported), altUnit, fixed(converted, 3), unit))
	}
}

func relativeDifference(calculated, reported float64) float64 {
	if calculated == 0 {
		if reported == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(calculated-reported) / math.Abs(calculated)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func pct(frac float64) string {
	if math.IsInf(frac, 0) {
		return "indefinida"
	}
	return strconv.FormatFloat(frac*100, 'f', 1, 64) + "%"
}
