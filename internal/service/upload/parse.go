package upload

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/upload"
	"github.com/xuri/excelize/v2"
)

// parsedFile holds either flat rows or, for a JSON object upload, a
// fragment already in document layout.
type parsedFile struct {
	Rows     []upload.Row
	Fragment map[string]any
}

// ParseFile reads an uploaded file by extension. The first line of a
// CSV or the first row of the first sheet is the header.
func ParseFile(filename string, data []byte) (parsedFile, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		parsed parsedFile
		err    error
	)
	switch ext {
	case ".csv":
		parsed.Rows, err = parseCSV(data)
	case ".xlsx":
		parsed.Rows, err = parseXLSX(data)
	case ".json":
		parsed, err = parseJSON(data)
	default:
		return parsedFile{}, fmt.Errorf("%w: %q, use one of %s", upload.ErrUnsupportedFormat, ext, strings.Join(upload.AllowedExtensions, ", "))
	}
	if err != nil {
		return parsedFile{}, err
	}
	if len(parsed.Rows) == 0 && len(parsed.Fragment) == 0 {
		return parsedFile{}, upload.ErrEmptyFile
	}
	return parsed, nil
}

func parseCSV(data []byte) ([]upload.Row, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", upload.ErrMalformedFile, err)
		}
		records = append(records, rec)
	}
	return rowsFromRecords(records), nil
}

func parseXLSX(data []byte) ([]upload.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", upload.ErrMalformedFile, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: no worksheet found", upload.ErrMalformedFile)
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", upload.ErrMalformedFile, err)
	}
	return rowsFromRecords(records), nil
}

// rowsFromRecords keys each record by the header line. Short records
// get "" for missing cells, extra cells are dropped and blank lines are
// skipped.
func rowsFromRecords(records [][]string) []upload.Row {
	if len(records) == 0 {
		return nil
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	var rows []upload.Row
	for _, rec := range records[1:] {
		row := make(upload.Row, len(header))
		blank := true
		for i, h := range header {
			if h == "" {
				continue
			}
			var cell string
			if i < len(rec) {
				cell = strings.TrimSpace(rec[i])
			}
			if cell != "" {
				blank = false
			}
			row[h] = cell
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows
}

// parseJSON accepts an array of row objects or an object that is
// already nested like the target collection.
func parseJSON(data []byte) (parsedFile, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return parsedFile{}, fmt.Errorf("%w: %v", upload.ErrMalformedFile, err)
	}

	switch t := v.(type) {
	case map[string]any:
		return parsedFile{Fragment: normalizeNumbers(t).(map[string]any)}, nil
	case []any:
		rows := make([]upload.Row, 0, len(t))
		for i, item := range t {
			obj, ok := item.(map[string]any)
			if !ok {
				return parsedFile{}, fmt.Errorf("%w: element %d is not an object", upload.ErrMalformedFile, i)
			}
			row := make(upload.Row, len(obj))
			for k, cell := range obj {
				row[strings.TrimSpace(k)] = cellString(cell)
			}
			rows = append(rows, row)
		}
		return parsedFile{Rows: rows}, nil
	default:
		return parsedFile{}, fmt.Errorf("%w: expected an array or object", upload.ErrMalformedFile)
	}
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// normalizeNumbers turns json.Number leaves into float64 so fragments
// look like what the store returns.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, c := range t {
			t[k] = normalizeNumbers(c)
		}
		return t
	case []any:
		for i, c := range t {
			t[i] = normalizeNumbers(c)
		}
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	default:
		return v
	}
}
