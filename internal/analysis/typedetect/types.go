package typedetect

// VariableType is the semantic classification of a column
type VariableType string

const (
	TypeContinuous VariableType = "quantitative_continuous"
	TypeDiscrete   VariableType = "quantitative_discrete"
	TypeTemporal   VariableType = "temporal"
	TypeIdentifier VariableType = "identifier"
	TypeNominal    VariableType = "qualitative_nominal"
	TypeOrdinal    VariableType = "qualitative_ordinal"
)

// IsQuantitative reports whether numeric statistics apply
func (t VariableType) IsQuantitative() bool {
	return t == TypeContinuous || t == TypeDiscrete
}

// IsQualitative reports whether categorical statistics apply
func (t VariableType) IsQualitative() bool {
	return t == TypeNominal || t == TypeOrdinal
}

// RawType is the storage representation observed in the values
type RawType string

const (
	RawNumeric RawType = "numeric"
	RawString  RawType = "string"
	RawDate    RawType = "date"
)

// VariableTypeInfo describes one column
type VariableTypeInfo struct {
	Type           VariableType `json:"type"`
	RawType        RawType      `json:"raw_type"`
	IsZootechnical bool         `json:"is_zootechnical"`
	Unit           string       `json:"unit,omitempty"`
	MetricKey      string       `json:"metric_key,omitempty"`
}

// DetectionConfig holds the classification thresholds
type DetectionConfig struct {
	NumericThreshold     float64 `json:"numeric_threshold"`     // share of values that must parse strictly as numbers
	IdentifierUniqueness float64 `json:"identifier_uniqueness"` // unique ratio for id-like column names
	CodeUniqueness       float64 `json:"code_uniqueness"`       // unique ratio for alphanumeric code columns
	MinCodeSample        int     `json:"min_code_sample"`
	MaxDiscreteValues    int     `json:"max_discrete_values"`
}

// DefaultDetectionConfig returns the thresholds used by the analysis service
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		NumericThreshold:     0.9,
		IdentifierUniqueness: 0.8,
		CodeUniqueness:       0.9,
		MinCodeSample:        5,
		MaxDiscreteValues:    10,
	}
}
