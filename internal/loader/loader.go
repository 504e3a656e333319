// Package loader ingests flat tabular data into the tuple shape
// internal/predicate.Filter expects, grounded on the original's ad hoc CSV
// and JSONL ingestion scripts (original_source/test/extract_data.py,
// extract_freebase_data.py). No third-party CSV or JSON-lines library
// appears anywhere in the retrieved example pack, so this package uses
// encoding/csv and encoding/json directly, the way the teacher's own
// serialization package uses encoding/json for its graph persistence format.
package loader

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/vital-ai/kgraphinfer/internal/value"
)

// LoadCSV reads comma-separated rows from r and converts each cell to a
// value.Value using scalar-sniffing: a cell that parses as an integer
// becomes an Int, one that parses as a float becomes a Float, one that
// strconv.ParseBool accepts ("true", "True", "TRUE", "t", "false", "F", ...)
// becomes a Bool, and everything else becomes a String.
// If header is true, the first row is skipped. Every row must have the same
// column count (mirroring predicate.NewFilter's fixed-arity requirement).
func LoadCSV(r io.Reader, header bool) ([][]value.Value, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if header && len(records) > 0 {
		records = records[1:]
	}

	rows := make([][]value.Value, len(records))
	var arity = -1
	for i, rec := range records {
		if arity == -1 {
			arity = len(rec)
		} else if len(rec) != arity {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(rec), arity)
		}
		row := make([]value.Value, len(rec))
		for j, cell := range rec {
			row[j] = sniffScalar(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// LoadJSONL reads one JSON object per line from r and projects each record's
// values, in the order listed by fields, into a tuple row. A record missing
// one of fields is skipped (mirroring the original's tolerance for
// partially-populated entity records).
func LoadJSONL(r io.Reader, fields []string) ([][]value.Value, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var rows [][]value.Value
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		row := make([]value.Value, 0, len(fields))
		complete := true
		for _, f := range fields {
			raw, ok := rec[f]
			if !ok {
				complete = false
				break
			}
			row = append(row, jsonToValue(raw))
		}
		if complete {
			rows = append(rows, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading JSONL: %w", err)
	}
	return rows, nil
}

func jsonToValue(raw any) value.Value {
	switch v := raw.(type) {
	case string:
		return value.NewString(v)
	case bool:
		return value.NewBool(v)
	case float64:
		if v == float64(int64(v)) {
			return value.NewInt(int64(v))
		}
		return value.NewFloat(v)
	case []any:
		items := make([]value.Value, len(v))
		for i, item := range v {
			items[i] = jsonToValue(item)
		}
		return value.NewList(items)
	default:
		return value.NewString(fmt.Sprintf("%v", v))
	}
}

func sniffScalar(cell string) value.Value {
	if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return value.NewInt(i)
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return value.NewFloat(f)
	}
	if b, err := strconv.ParseBool(cell); err == nil {
		return value.NewBool(b)
	}
	return value.NewString(cell)
}
