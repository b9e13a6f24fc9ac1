package correlation

import "zoostat/domain/species"

// PairSpec is a biologically meaningful pair of canonical metrics
type PairSpec struct {
	Var1              string  `json:"var1"`
	Var2              string  `json:"var2"`
	ExpectedDirection string  `json:"expected_direction"`
	Category          string  `json:"category"`
	Importance        float64 `json:"importance"` // 0-10
	Rationale         string  `json:"rationale"`
}

const (
	positive = "positive"
	negative = "negative"
)

var (
	growthPairs = []PairSpec{
		{"peso_inicial", "peso_final", positive, "crescimento", 8, "Animais mais pesados na entrada tendem a terminar mais pesados"},
		{"gpd", "peso_final", positive, "desempenho", 9, "Maior ganho diário resulta em maior peso final"},
		{"consumo_racao", "gpd", positive, "eficiencia_alimentar", 8, "Maior consumo sustenta maior ganho"},
		{"conversao_alimentar", "gpd", negative, "eficiencia_alimentar", 9, "Animais de maior ganho convertem melhor o alimento"},
		{"idade", "peso_vivo", positive, "crescimento", 7, "O peso aumenta com a idade na fase de crescimento"},
		{"dias", "ganho_total", positive, "desempenho", 6, "Períodos mais longos acumulam mais ganho"},
	}

	catalog = map[string][]PairSpec{
		species.Bovine: append(append([]PairSpec{}, growthPairs...),
			PairSpec{"cms", "gpd", positive, "eficiencia_alimentar", 8, "Consumo de matéria seca é o principal determinante do ganho"},
			PairSpec{"escore_corporal", "taxa_prenhez", positive, "reproducao", 7, "Melhor condição corporal favorece a concepção"},
			PairSpec{"producao_leite", "gordura_leite", negative, "producao_leite", 7, "Efeito de diluição dos sólidos em vacas de maior produção"},
			PairSpec{"producao_leite", "proteina_leite", negative, "producao_leite", 6, "Efeito de diluição dos sólidos em vacas de maior produção"},
			PairSpec{"perimetro_toracico", "peso_vivo", positive, "morfometria", 8, "O perímetro torácico é preditor clássico do peso vivo"},
			PairSpec{"altura", "peso_vivo", positive, "morfometria", 6, "Animais maiores tendem a ser mais pesados"},
		),
		species.Swine: append(append([]PairSpec{}, growthPairs...),
			PairSpec{"espessura_toucinho", "rendimento_carcaca", negative, "carcaca", 7, "Mais gordura subcutânea reduz o rendimento de cortes magros"},
			PairSpec{"peso_final", "espessura_toucinho", positive, "carcaca", 6, "Animais abatidos mais pesados depositam mais gordura"},
			PairSpec{"leitoes_nascidos", "peso_vivo", negative, "reproducao", 5, "Leitegadas maiores nascem com menor peso individual"},
		),
		species.Poultry: append(append([]PairSpec{}, growthPairs...),
			PairSpec{"viabilidade", "iep", positive, "eficiencia_alimentar", 9, "A viabilidade entra diretamente no cálculo do IEP"},
			PairSpec{"conversao_alimentar", "iep", negative, "eficiencia_alimentar", 9, "Pior conversão reduz o IEP"},
			PairSpec{"peso_final", "iep", positive, "desempenho", 8, "Maior peso final eleva o IEP"},
			PairSpec{"mortalidade", "iep", negative, "sanidade", 8, "A mortalidade reduz a viabilidade e o IEP"},
			PairSpec{"consumo_racao", "peso_final", positive, "eficiencia_alimentar", 7, "Maior consumo sustenta maior peso de abate"},
			PairSpec{"producao_ovos", "peso_ovo", negative, "producao_ovos", 5, "Alta taxa de postura tende a reduzir o peso do ovo"},
		),
		species.Sheep: append(append([]PairSpec{}, growthPairs...),
			PairSpec{"perimetro_toracico", "peso_vivo", positive, "morfometria", 8, "O perímetro torácico é preditor clássico do peso vivo"},
			PairSpec{"escore_corporal", "peso_vivo", positive, "morfometria", 6, "Melhor condição corporal acompanha maior peso"},
		),
		species.Goat: append(append([]PairSpec{}, growthPairs...),
			PairSpec{"perimetro_toracico", "peso_vivo", positive, "morfometria", 8, "O perímetro torácico é preditor clássico do peso vivo"},
			PairSpec{"producao_leite", "gordura_leite", negative, "producao_leite", 6, "Efeito de diluição dos sólidos em cabras de maior produção"},
		),
	}
)

// PairsFor returns the configured pairs for a species, accepting any spelling
// species.Normalize understands
func PairsFor(speciesRaw string) []PairSpec {
	key, ok := species.Normalize(speciesRaw)
	if !ok {
		return nil
	}
	return catalog[key]
}
