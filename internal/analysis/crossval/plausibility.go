package crossval

import (
	"fmt"

	"zoostat/domain/core"
	"zoostat/domain/species"
)

// Bounds are the biological limits of a metric for one species. Values outside
// [HardMin, HardMax] are impossible; outside [WarnMin, WarnMax] they are unusual.
type Bounds struct {
	HardMin float64 `json:"hard_min"`
	HardMax float64 `json:"hard_max"`
	WarnMin float64 `json:"warn_min"`
	WarnMax float64 `json:"warn_max"`
	Unit    string  `json:"unit"`
}

type boundsKey struct {
	metric  string
	species string
}

var plausibility = map[boundsKey]Bounds{
	{"gpd", species.Bovine}:                 {0, 3, 0.3, 2, "kg/dia"},
	{"peso_inicial", species.Bovine}:        {20, 1200, 150, 500, "kg"},
	{"peso_final", species.Bovine}:          {100, 1500, 300, 800, "kg"},
	{"peso_vivo", species.Bovine}:           {20, 1500, 150, 900, "kg"},
	{"conversao_alimentar", species.Bovine}: {2, 20, 4, 12, "kg/kg"},
	{"cms", species.Bovine}:                 {1, 30, 5, 20, "kg/dia"},
	{"producao_leite", species.Bovine}:      {0, 80, 5, 50, "L/dia"},
	{"escore_corporal", species.Bovine}:     {1, 9, 3, 7, "pontos"},

	{"gpd", species.Swine}:                 {0, 1.6, 0.3, 1.2, "kg/dia"},
	{"peso_final", species.Swine}:          {20, 200, 90, 140, "kg"},
	{"peso_vivo", species.Swine}:           {0.5, 350, 5, 250, "kg"},
	{"conversao_alimentar", species.Swine}: {1, 5, 1.3, 3.2, "kg/kg"},
	{"espessura_toucinho", species.Swine}:  {3, 50, 8, 25, "mm"},
	{"leitoes_nascidos", species.Swine}:    {0, 30, 8, 18, "cabecas"},

	{"gpd", species.Poultry}:                 {0, 0.15, 0.03, 0.09, "kg/dia"},
	{"peso_final", species.Poultry}:          {0.5, 6, 1.8, 3.8, "kg"},
	{"peso_vivo", species.Poultry}:           {0.03, 6, 0.04, 4.5, "kg"},
	{"conversao_alimentar", species.Poultry}: {1, 3.5, 1.3, 2.2, "kg/kg"},
	{"viabilidade", species.Poultry}:         {50, 100, 85, 100, "%"},
	{"mortalidade", species.Poultry}:         {0, 50, 0, 10, "%"},
	{"iep", species.Poultry}:                 {0, 700, 250, 500, "pontos"},
	{"idade", species.Poultry}:               {1, 120, 21, 56, "dias"},
	{"producao_ovos", species.Poultry}:       {0, 100, 60, 98, "%"},

	{"gpd", species.Sheep}:                 {0, 0.6, 0.05, 0.4, "kg/dia"},
	{"peso_final", species.Sheep}:          {5, 150, 20, 70, "kg"},
	{"conversao_alimentar", species.Sheep}: {2, 15, 3.5, 9, "kg/kg"},

	{"gpd", species.Goat}:            {0, 0.5, 0.04, 0.3, "kg/dia"},
	{"peso_final", species.Goat}:     {5, 120, 15, 60, "kg"},
	{"producao_leite", species.Goat}: {0, 10, 0.5, 6, "L/dia"},
}

// LookupBounds returns the plausibility bounds of a canonical metric for a species
func LookupBounds(metricKey, speciesRaw string) (Bounds, bool) {
	sp, ok := species.Normalize(speciesRaw)
	if !ok {
		return Bounds{}, false
	}
	b, ok := plausibility[boundsKey{core.NormalizeKey(metricKey), sp}]
	return b, ok
}

// CheckPlausibility tests value against the species bounds for the metric. The second
// return is false when no bounds exist, in which case the rule does not apply.
func CheckPlausibility(metricKey string, value float64, speciesRaw string) (Result, bool) {
	b, ok := LookupBounds(metricKey, speciesRaw)
	if !ok {
		return Result{}, false
	}

	r := newResult(RulePlausibility)
	r.Metric = core.NormalizeKey(metricKey)
	r.Reported = ptr(value)

	switch {
	case value < b.HardMin || value > b.HardMax:
		r.addError(fmt.Sprintf("%s = %s %s fora do limite biológico (%s a %s %s)",
			r.Metric, num(value), b.Unit, num(b.HardMin), num(b.HardMax), b.Unit))
		r.addSuggestion(fmt.Sprintf("Verifique a unidade e a digitação de %s", r.Metric))
	case value < b.WarnMin || value > b.WarnMax:
		r.addWarning(fmt.Sprintf("%s = %s %s incomum para a espécie (esperado %s a %s %s)",
			r.Metric, num(value), b.Unit, num(b.WarnMin), num(b.WarnMax), b.Unit))
		r.addSuggestion(fmt.Sprintf("Confira a medição de %s", r.Metric))
	}
	return r, true
}
