package typedetect

// zootechnicalTerms are name tokens that mark a column as domain data
var zootechnicalTerms = wordSet(
	"peso", "weight", "ganho", "gain", "gpd", "gmd", "adg", "conversao", "conversion",
	"ca", "fcr", "idade", "age", "raca", "breed", "consumo", "intake", "racao",
	"feed", "altura", "height", "perimetro", "leite", "milk", "gordura", "fat",
	"proteina", "protein", "carcaca", "carcass", "rendimento", "mortalidade",
	"mortality", "viabilidade", "escore", "ecc", "bcs", "prenhez", "parto", "partos",
	"desmame", "ovos", "ovo", "postura", "lote", "sexo", "sex", "dias", "toucinho",
	"backfat", "iep", "leitoes", "cms", "brinco", "piquete", "baia", "galpao",
	"tratamento",
)

// nameUnits maps name tokens to a default unit; multi-token entries are checked first
var nameUnits = []struct {
	tokens []string
	unit   string
}{
	{[]string{"ganho", "diario"}, "kg/dia"},
	{[]string{"ganho", "medio", "diario"}, "kg/dia"},
	{[]string{"gpd"}, "kg/dia"},
	{[]string{"gmd"}, "kg/dia"},
	{[]string{"adg"}, "kg/dia"},
	{[]string{"cms"}, "kg/dia"},
	{[]string{"conversao"}, "kg/kg"},
	{[]string{"fcr"}, "kg/kg"},
	{[]string{"ovo"}, "g"},
	{[]string{"peso"}, "kg"},
	{[]string{"weight"}, "kg"},
	{[]string{"ganho"}, "kg"},
	{[]string{"consumo"}, "kg"},
	{[]string{"racao"}, "kg"},
	{[]string{"altura"}, "cm"},
	{[]string{"height"}, "cm"},
	{[]string{"perimetro"}, "cm"},
	{[]string{"idade"}, "dias"},
	{[]string{"age"}, "dias"},
	{[]string{"dias"}, "dias"},
	{[]string{"leite"}, "L/dia"},
	{[]string{"milk"}, "L/dia"},
	{[]string{"toucinho"}, "mm"},
	{[]string{"backfat"}, "mm"},
	{[]string{"mortalidade"}, "%"},
	{[]string{"viabilidade"}, "%"},
	{[]string{"rendimento"}, "%"},
	{[]string{"gordura"}, "%"},
	{[]string{"proteina"}, "%"},
	{[]string{"prenhez"}, "%"},
	{[]string{"postura"}, "%"},
}

// identifierTerms are name tokens that suggest a per-record key
var identifierTerms = wordSet(
	"id", "codigo", "cod", "code", "brinco", "tag", "identificacao", "registro",
	"matricula", "numero", "uuid", "chip", "rfid", "sisbov",
)

// ordinalScales are ordered vocabularies; a column whose distinct values all belong to
// one scale is ordinal
var ordinalScales = [][]string{
	{"muito_baixo", "baixo", "medio", "alto", "muito_alto"},
	{"muito_baixa", "baixa", "media", "alta", "muito_alta"},
	{"very_low", "low", "medium", "high", "very_high"},
	{"pequeno", "medio", "grande"},
	{"small", "medium", "large"},
	{"ruim", "regular", "bom", "otimo", "excelente"},
	{"poor", "fair", "good", "very_good", "excellent"},
	{"leve", "moderado", "grave", "severo"},
	{"mild", "moderate", "severe"},
	{"jovem", "adulto", "idoso"},
	{"magro", "moderado", "gordo", "obeso"},
	{"nenhum", "pouco", "moderado", "muito"},
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
