package api

import (
	"zoostat/internal/analysis/correlation"
	"zoostat/internal/analysis/inferential"
)

// datasetRequest is the envelope shared by the analysis endpoints. Rows live under
// "data" and are decoded separately so numbers keep their JSON form.
type datasetRequest struct {
	Name        string               `json:"name"`
	Species     string               `json:"species"`
	Subtype     string               `json:"subtype"`
	Columns     []string             `json:"columns"`
	Correlation *correlation.Options `json:"options"`
}

type convertRequest struct {
	Value *float64 `json:"value" binding:"required"`
	From  string   `json:"from" binding:"required"`
	To    string   `json:"to" binding:"required"`
}

type convertResponse struct {
	Value     float64 `json:"value"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
}

type ttestRequest struct {
	Type            string    `json:"type"`
	Group1          []float64 `json:"group1" binding:"required"`
	Group2          []float64 `json:"group2"`
	Mu              float64   `json:"mu"`
	ConfidenceLevel int       `json:"confidence_level"`
}

type anovaRequest struct {
	Groups          []inferential.Group `json:"groups" binding:"required"`
	ConfidenceLevel int                 `json:"confidence_level"`
}

type pairRequest struct {
	X               []float64 `json:"x" binding:"required"`
	Y               []float64 `json:"y" binding:"required"`
	ConfidenceLevel int       `json:"confidence_level"`
}

type describeRequest struct {
	Values []float64 `json:"values" binding:"required"`
}

type listResponse struct {
	Items interface{} `json:"items"`
	Count int         `json:"count"`
}
