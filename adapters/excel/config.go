package excel

// Config holds configuration for the tabular file reader
type Config struct {
	// Sheet selects the worksheet; empty means the first sheet of the workbook
	Sheet string `json:"sheet"`
	// Delimiter forces the CSV separator; zero sniffs ',', ';' or tab from the header
	Delimiter rune `json:"delimiter"`
	// MaxRows stops decoding after MaxRows+1 data rows so callers can detect the
	// overflow with Dataset.Head; zero reads everything
	MaxRows int `json:"max_rows"`
}

// DefaultConfig returns the reader defaults
func DefaultConfig() Config {
	return Config{}
}
