package inferential

import (
	"math"
	"strconv"

	"zoostat/domain/core"
)

// Group is one labelled sample for ANOVA
type Group struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// GroupSummary describes one group in an ANOVA result
type GroupSummary struct {
	Name   string  `json:"name"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ANOVAResult is the outcome of a one-way ANOVA
type ANOVAResult struct {
	FStatistic      float64        `json:"f_statistic"`
	PValue          float64        `json:"p_value"`
	DFBetween       int            `json:"df_between"`
	DFWithin        int            `json:"df_within"`
	SSBetween       float64        `json:"ss_between"`
	SSWithin        float64        `json:"ss_within"`
	MSBetween       float64        `json:"ms_between"`
	MSWithin        float64        `json:"ms_within"`
	EtaSquared      float64        `json:"eta_squared"`
	EffectMagnitude string         `json:"effect_magnitude"`
	Significant     bool           `json:"significant"`
	ConfidenceLevel int            `json:"confidence_level"`
	GrandMean       float64        `json:"grand_mean"`
	Groups          []GroupSummary `json:"groups"`
	Interpretation  string         `json:"interpretation"`
}

// OneWayANOVA compares the means of two or more groups. Every group needs at least
// one value and the total sample must exceed the number of groups.
func OneWayANOVA(groups []Group, level int) (ANOVAResult, error) {
	const op = "inferential.OneWayANOVA"
	k := len(groups)
	if k < 2 {
		return ANOVAResult{}, core.NewStructuralErrorf(op, core.ErrTooFewGroups, "got %d", k)
	}
	level = NormalizeLevel(level)

	total := 0
	grandSum := 0.0
	summaries := make([]GroupSummary, k)
	for i, g := range groups {
		if len(g.Values) == 0 {
			return ANOVAResult{}, core.NewStructuralErrorf(op, core.ErrInsufficientData, "group %q is empty", groupName(g, i))
		}
		mean, sd := meanSD(g.Values)
		summaries[i] = GroupSummary{Name: groupName(g, i), N: len(g.Values), Mean: mean, StdDev: sd}
		total += len(g.Values)
		for _, v := range g.Values {
			grandSum += v
		}
	}
	if total <= k {
		return ANOVAResult{}, core.NewInsufficientDataError(op, k+1, total)
	}
	grandMean := grandSum / float64(total)

	var ssb, ssw float64
	for i, g := range groups {
		d := summaries[i].Mean - grandMean
		ssb += float64(len(g.Values)) * d * d
		for _, v := range g.Values {
			e := v - summaries[i].Mean
			ssw += e * e
		}
	}

	dfb, dfw := k-1, total-k
	msb := ssb / float64(dfb)
	msw := ssw / float64(dfw)

	r := ANOVAResult{
		DFBetween:       dfb,
		DFWithin:        dfw,
		SSBetween:       ssb,
		SSWithin:        ssw,
		MSBetween:       msb,
		MSWithin:        msw,
		ConfidenceLevel: level,
		GrandMean:       grandMean,
		Groups:          summaries,
	}

	switch {
	case msw > 0:
		r.FStatistic = msb / msw
		r.PValue = fPValue(r.FStatistic, dfb, dfw)
	case ssb == 0:
		// identical constant groups
		r.FStatistic, r.PValue = 0, 1
	default:
		// constant within groups but different means
		r.FStatistic, r.PValue = math.MaxFloat64, 0
	}

	if sst := ssb + ssw; sst > 0 {
		r.EtaSquared = ssb / sst
	}
	r.EffectMagnitude = etaMagnitude(r.EtaSquared)
	r.Significant = r.PValue < Alpha(level)
	r.Interpretation = interpretANOVA(r)
	return r, nil
}

func groupName(g Group, i int) string {
	if g.Name != "" {
		return g.Name
	}
	return "grupo_" + strconv.Itoa(i+1)
}
