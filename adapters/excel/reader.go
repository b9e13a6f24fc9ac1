package excel

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"zoostat/domain/core"
	"zoostat/domain/dataset"
	"zoostat/internal"
	apperrors "zoostat/internal/errors"
)

const ctxCheckEvery = 256

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DataReader handles reading Excel and CSV files into datasets
type DataReader struct {
	config Config
	logger *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config Config, logger *internal.Logger) *DataReader {
	return &DataReader{config: config, logger: logger.OrNop()}
}

// Accepts reports whether the file extension is a supported tabular format
func (r *DataReader) Accepts(filename string) bool {
	_, ok := DetectFormat(filename)
	return ok
}

// ReadFile opens and decodes a file from disk
func (r *DataReader) ReadFile(ctx context.Context, path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound(fmt.Sprintf("file %s", path))
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return r.Read(ctx, f, filepath.Base(path))
}

// Read decodes the stream according to the extension of name
func (r *DataReader) Read(ctx context.Context, src io.Reader, name string) (*dataset.Dataset, error) {
	format, ok := DetectFormat(name)
	if !ok {
		return nil, apperrors.Unsupported(fmt.Sprintf("unsupported file type: %s", filepath.Ext(name)))
	}

	start := time.Now()
	var (
		headers []string
		rows    [][]string
		err     error
	)
	switch format {
	case FormatCSV:
		headers, rows, err = r.readCSV(ctx, src)
	case FormatXLSX:
		headers, rows, err = r.readExcel(ctx, src)
	}
	if err != nil {
		return nil, err
	}

	ds := buildDataset(datasetName(name), headers, rows)
	r.logger.Debug("[DataReader] %s decoded in %.2fms (%d columns, %d rows)",
		strings.ToUpper(string(format)), float64(time.Since(start).Nanoseconds())/1e6, len(ds.Columns), ds.Len())
	return ds, nil
}

func (r *DataReader) readCSV(ctx context.Context, src io.Reader) ([]string, [][]string, error) {
	buffered := bufio.NewReader(src)
	if head, err := buffered.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = buffered.Discard(len(utf8BOM))
	}

	delimiter := r.config.Delimiter
	if delimiter == 0 {
		// Peek fails with io.EOF on short input but still returns what it has
		line, _ := buffered.Peek(4096)
		delimiter = sniffDelimiter(line)
	}

	reader := csv.NewReader(buffered)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, apperrors.InvalidInput("CSV file must have at least a header row and one data row")
		}
		return nil, nil, apperrors.Wrap(apperrors.InvalidInput(err.Error()), "failed to read CSV header")
	}

	var rows [][]string
	for {
		if len(rows)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		if r.limitReached(len(rows)) {
			break
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.InvalidInput(err.Error()), "failed to read CSV file")
		}
		rows = append(rows, record)
	}
	if len(rows) == 0 {
		return nil, nil, apperrors.InvalidInput("CSV file must have at least a header row and one data row")
	}
	return header, rows, nil
}

func (r *DataReader) readExcel(ctx context.Context, src io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.InvalidInput(err.Error()), "failed to open Excel file")
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, apperrors.InvalidInput("Excel file has no worksheets")
		}
		sheet = sheets[0]
	}

	iter, err := f.Rows(sheet)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.InvalidInput(err.Error()), fmt.Sprintf("failed to read sheet %s", sheet))
	}
	defer iter.Close()

	var header []string
	var rows [][]string
	for iter.Next() {
		if len(rows)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		cols, err := iter.Columns()
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.InvalidInput(err.Error()), "failed to read Excel row")
		}
		if header == nil {
			if blank(cols) {
				continue
			}
			header = cols
			continue
		}
		if r.limitReached(len(rows)) {
			break
		}
		rows = append(rows, cols)
	}
	if err := iter.Error(); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.InvalidInput(err.Error()), "failed to read Excel rows")
	}
	if header == nil || len(rows) == 0 {
		return nil, nil, apperrors.InvalidInput("Excel file must have at least a header row and one data row")
	}
	return header, rows, nil
}

func (r *DataReader) limitReached(n int) bool {
	return r.config.MaxRows > 0 && n > r.config.MaxRows
}

// buildDataset trims cells, drops fully blank rows and maps empty cells to nil.
// Cells stay text; numeric parsing happens in the analysis core.
func buildDataset(name string, header []string, rows [][]string) *dataset.Dataset {
	headers := uniqueHeaders(header)
	out := make([]dataset.Row, 0, len(rows))
	for _, record := range rows {
		if blank(record) {
			continue
		}
		row := make(dataset.Row, len(headers))
		for j, h := range headers {
			if j < len(record) {
				if cell := strings.TrimSpace(record[j]); cell != "" {
					row[h] = cell
					continue
				}
			}
			row[h] = nil
		}
		out = append(out, row)
	}
	return dataset.New(name, headers, out)
}

// uniqueHeaders trims header cells, names blank ones coluna_N and suffixes repeats
func uniqueHeaders(header []string) []string {
	out := make([]string, len(header))
	named := make(map[string]bool, len(header))
	for _, h := range header {
		if key := core.NormalizeKey(h); key != "" {
			named[key] = true
		}
	}
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "coluna_" + strconv.Itoa(i+1)
		}
		key := core.NormalizeKey(h)
		if taken[key] {
			// a generated name must not collide with any header in the file
			base := h
			for n := 2; ; n++ {
				h = base + "_" + strconv.Itoa(n)
				key = core.NormalizeKey(h)
				if !taken[key] && !named[key] {
					break
				}
			}
		}
		taken[key] = true
		out[i] = h
	}
	return out
}

// sniffDelimiter picks the most frequent of ';', tab and ',' on the first line;
// ',' wins ties
func sniffDelimiter(sample []byte) rune {
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}
	best, bestCount := ',', bytes.Count(sample, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if c := bytes.Count(sample, []byte(string(d))); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func datasetName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
