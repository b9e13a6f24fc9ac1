// Package jsonrows decodes JSON documents holding an array of row objects.
package jsonrows

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"zoostat/domain/dataset"
	"zoostat/internal"
	"zoostat/internal/errors"
)

// Reader extracts rows from a JSON document. DataPath is a gjson path to the row
// array; empty means the document itself, or the first of "data", "rows",
// "records" or "items" holding an array.
type Reader struct {
	DataPath string
	MaxRows  int
	logger   *internal.Logger
}

// commonDataPaths are probed in order when no DataPath is configured
var commonDataPaths = []string{"data", "rows", "records", "items"}

// NewReader creates a JSON rows reader
func NewReader(dataPath string, maxRows int, logger *internal.Logger) *Reader {
	return &Reader{DataPath: dataPath, MaxRows: maxRows, logger: logger.OrNop()}
}

// Accepts reports whether the file name looks like JSON
func (r *Reader) Accepts(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".json")
}

// Read decodes the document read from src
func (r *Reader) Read(ctx context.Context, src io.Reader, name string) (*dataset.Dataset, error) {
	body, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}
	return r.Parse(ctx, body, strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
}

// Parse decodes an in-memory document
func (r *Reader) Parse(ctx context.Context, body []byte, name string) (*dataset.Dataset, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.InvalidInput("invalid JSON document")
	}

	data, err := r.locate(body)
	if err != nil {
		return nil, err
	}

	var rows []dataset.Row
	var iterErr error
	data.ForEach(func(_, item gjson.Result) bool {
		if len(rows)%256 == 0 {
			if iterErr = ctx.Err(); iterErr != nil {
				return false
			}
		}
		if r.MaxRows > 0 && len(rows) > r.MaxRows {
			return false
		}
		if !item.IsObject() {
			iterErr = errors.InvalidInput(fmt.Sprintf("row %d is not an object", len(rows)+1))
			return false
		}
		rows = append(rows, decodeRow(item))
		return true
	})
	if iterErr != nil {
		return nil, iterErr
	}
	if len(rows) == 0 {
		return nil, errors.InvalidInput("JSON document holds no rows")
	}

	ds := dataset.FromRows(name, rows)
	r.logger.Debug("[JSONReader] decoded %d rows, %d columns", ds.Len(), len(ds.Columns))
	return ds, nil
}

func (r *Reader) locate(body []byte) (gjson.Result, error) {
	if r.DataPath != "" {
		result := gjson.GetBytes(body, r.DataPath)
		if !result.Exists() {
			return gjson.Result{}, errors.InvalidInput(fmt.Sprintf("data path '%s' not found in document", r.DataPath))
		}
		return asArray(result, r.DataPath)
	}

	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return root, nil
	}
	for _, path := range commonDataPaths {
		if result := root.Get(path); result.IsArray() {
			return result, nil
		}
	}
	if root.IsObject() {
		return wrapObject(root), nil
	}
	return gjson.Result{}, errors.InvalidInput("JSON document is not an array or object")
}

func asArray(result gjson.Result, path string) (gjson.Result, error) {
	switch {
	case result.IsArray():
		return result, nil
	case result.IsObject():
		return wrapObject(result), nil
	default:
		return gjson.Result{}, errors.InvalidInput(fmt.Sprintf("data path '%s' is not an array or object", path))
	}
}

// wrapObject treats a single object as a one-row array
func wrapObject(obj gjson.Result) gjson.Result {
	return gjson.Parse("[" + obj.Raw + "]")
}

// decodeRow keeps numbers as float64, booleans as bool, null as nil and flattens
// nested values to their raw JSON text
func decodeRow(item gjson.Result) dataset.Row {
	row := make(dataset.Row)
	item.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.Null:
			row[key.String()] = nil
		case gjson.Number:
			row[key.String()] = value.Float()
		case gjson.True, gjson.False:
			row[key.String()] = value.Bool()
		case gjson.String:
			row[key.String()] = value.String()
		default:
			row[key.String()] = value.Raw
		}
		return true
	})
	return row
}
