// Package dataset holds the in-memory tabular form every analysis runs on.
package dataset

import (
	"sort"
	"strings"

	"zoostat/domain/core"
)

// Row is one decoded record; values are string, number, bool, time.Time or nil
type Row map[string]interface{}

// Dataset is an ordered set of rows with a known column order
type Dataset struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New creates a dataset with an explicit column order
func New(name string, columns []string, rows []Row) *Dataset {
	return &Dataset{Name: name, Columns: columns, Rows: rows}
}

// FromRows derives the column order from the rows: the first row's keys sorted, then
// keys first seen in later rows, also sorted per row
func FromRows(name string, rows []Row) *Dataset {
	seen := make(map[string]struct{})
	var columns []string
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			if _, ok := seen[k]; !ok {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			seen[k] = struct{}{}
			columns = append(columns, k)
		}
	}
	return &Dataset{Name: name, Columns: columns, Rows: rows}
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Column returns the raw values of a column in row order; absent cells are nil
func (d *Dataset) Column(name string) []interface{} {
	out := make([]interface{}, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[name]
	}
	return out
}

// NumericColumn parses a column leniently. ok[i] is false where the cell is missing
// or not a number.
func (d *Dataset) NumericColumn(name string) (values []float64, ok []bool) {
	values = make([]float64, len(d.Rows))
	ok = make([]bool, len(d.Rows))
	for i, row := range d.Rows {
		values[i], ok[i] = core.ParseLenientNumber(row[name])
	}
	return values, ok
}

// Head returns a dataset sharing the first max rows; max <= 0 means no limit.
// The second return reports whether rows were dropped.
func (d *Dataset) Head(max int) (*Dataset, bool) {
	if max <= 0 || len(d.Rows) <= max {
		return d, false
	}
	return &Dataset{Name: d.Name, Columns: d.Columns, Rows: d.Rows[:max]}, true
}

// Validate checks that the dataset is usable at all
func (d *Dataset) Validate() error {
	if d == nil || len(d.Rows) == 0 {
		return core.NewStructuralError("dataset.Validate", core.ErrEmptyDataset)
	}
	return nil
}

// Fingerprint hashes the column order and the text of every cell, so the same table
// decoded from CSV or JSON yields the same value whenever the cell text agrees
func (d *Dataset) Fingerprint() core.Hash {
	var b strings.Builder
	b.WriteString(strings.Join(d.Columns, "\x1f"))
	b.WriteByte('\n')
	for _, row := range d.Rows {
		for i, col := range d.Columns {
			if i > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(core.ToString(row[col]))
		}
		b.WriteByte('\n')
	}
	return core.NewHash([]byte(b.String()))
}
