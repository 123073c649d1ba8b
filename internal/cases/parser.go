package cases

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// ParseTable parses raw upload bytes into rows keyed by the header line.
//
// The content is expected to be UTF-8 (invalid sequences are replaced, a
// leading BOM is stripped) with a header line followed by delimited data
// rows. Malformed delimiting (unterminated quote, inconsistent column
// count) rejects the whole file rather than salvaging a subset, so no data
// is silently dropped. An input with no data rows after the header is also
// rejected.
func ParseTable(data []byte) (*ParsedTable, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	data = sanitizeUTF8(data)

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Reason: "empty file"}
	}

	r := csv.NewReader(bytes.NewReader(data))
	// FieldsPerRecord is left at zero so the first record fixes the column
	// count and every later record must match it.

	header, err := r.Read()
	if err != nil {
		return nil, asParseError(err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = cleanCell(h)
	}

	var rows []RawRow
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, asParseError(err)
		}
		if isEmptyRecord(record) {
			continue
		}
		// Duplicate headers collapse onto one key, last column wins.
		row := make(RawRow, len(columns))
		for i, col := range columns {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &ParseError{Reason: "no data rows after header"}
	}

	return &ParsedTable{
		Columns:       columns,
		Rows:          rows,
		FirstDataLine: 2,
	}, nil
}

// asParseError converts an encoding/csv error into a ParseError, keeping
// the line number when the csv package reports one.
func asParseError(err error) *ParseError {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		reason := pe.Err.Error()
		if errors.Is(pe.Err, csv.ErrFieldCount) {
			reason = "inconsistent column count"
		}
		return &ParseError{Line: pe.Line, Reason: reason}
	}
	return &ParseError{Reason: err.Error()}
}

// cleanCell trims whitespace and stray quotes from a cell value.
func cleanCell(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}

func isEmptyRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the replacement rune.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// ParseAndValidate runs the full preview pipeline: parse, normalize, and
// validate every row. Row indexes are file line numbers (header is line 1).
func ParseAndValidate(data []byte) (*ParsedTable, []ValidatedRow, error) {
	table, err := ParseTable(data)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]ValidatedRow, len(table.Rows))
	for i, raw := range table.Rows {
		fields := Normalize(raw)
		errs := Validate(fields)
		rows[i] = ValidatedRow{
			RowIndex: table.FirstDataLine + i,
			Fields:   fields,
			Errors:   errs,
			IsValid:  len(errs) == 0,
		}
	}
	return table, rows, nil
}
