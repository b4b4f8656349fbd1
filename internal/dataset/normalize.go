package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RawRow maps a trimmed header name to its trimmed cell value.
// A key is present only when the source row had a cell for it.
type RawRow map[string]string

var (
	ErrMissingHeader = errors.New("missing header row")
	ErrEmptyDataset  = errors.New("no usable rows")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normalize parses delimited text with a header row. Blank lines are
// skipped, short rows lack their trailing keys and extra cells are ignored.
func Normalize(r io.Reader) ([]RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse delimited text: %w", err)
	}
	return fromRecords(records)
}

// NormalizeValues applies the Normalize contract to a value matrix such as
// the one returned by the Sheets API. The first row is the header.
func NormalizeValues(values [][]interface{}) ([]RawRow, error) {
	records := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellString(v)
		}
		records = append(records, cells)
	}
	return fromRecords(records)
}

func fromRecords(records [][]string) ([]RawRow, error) {
	start := 0
	for start < len(records) && blank(records[start]) {
		start++
	}
	if start == len(records) {
		return nil, ErrMissingHeader
	}

	header := make([]string, len(records[start]))
	named := 0
	for i, h := range records[start] {
		header[i] = cleanHeader(h)
		if header[i] != "" {
			named++
		}
	}
	if named == 0 {
		return nil, ErrMissingHeader
	}

	rows := make([]RawRow, 0, len(records)-start-1)
	for _, rec := range records[start+1:] {
		if blank(rec) {
			continue
		}
		row := make(RawRow, len(header))
		for i, cell := range rec {
			if i >= len(header) {
				break
			}
			if header[i] == "" {
				continue
			}
			if _, dup := row[header[i]]; dup {
				continue
			}
			row[header[i]] = strings.TrimSpace(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// detectDelimiter picks ';' when the header line has more semicolons
// than commas, as Brazilian spreadsheet exports do.
func detectDelimiter(data []byte) rune {
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
			return ';'
		}
		return ','
	}
	return ','
}

func cleanHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.Trim(h, "\"'")
	return strings.TrimSpace(h)
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
