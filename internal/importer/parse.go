package importer

// parse.go turns raw CSV text into an ordered RecordSet.
//
// The delimiter is sniffed rather than configured: users paste exports
// from spreadsheets, databases, and European locales, so comma, tab,
// and semicolon all appear in the wild. The first row is the header and
// defines the column set for every record.

import (
	"bytes"
	"encoding/csv"
	"strings"
	"unicode/utf8"
)

// candidateDelimiters are tried in order during sniffing.
var candidateDelimiters = []rune{',', '\t', ';'}

// ParseOptions configures CSV parsing.
type ParseOptions struct {
	// DropIncompleteRows drops data rows that have an empty cell in any
	// content column instead of importing them with gaps.
	DropIncompleteRows bool
}

// ParseCSV parses CSV text with default options.
func ParseCSV(text string) (*RecordSet, error) {
	return ParseCSVWith(text, ParseOptions{})
}

// ParseCSVWith parses CSV text into a RecordSet. It strips a UTF-8 BOM,
// replaces invalid UTF-8 sequences, sniffs the delimiter, and maps each
// data row onto the header's column names. A file no delimiter can
// parse is fatal (CSV001); a file with a header but no data rows is
// fatal (CSV002).
func ParseCSVWith(text string, opts ParseOptions) (*RecordSet, error) {
	data := sanitizeUTF8(stripBOM([]byte(text)))

	rows, err := sniffCSV(data)
	if err != nil {
		return nil, err
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(cell)
	}

	set := &RecordSet{Columns: contentColumns(header)}

	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		record := make(RawRecord, len(header))
		for i, name := range header {
			if name == "" || i >= len(row) {
				continue
			}
			record[name] = row[i]
		}
		if opts.DropIncompleteRows && hasEmptyContentCell(record, set.Columns) {
			continue
		}
		set.Records = append(set.Records, record)
	}

	if len(set.Records) == 0 {
		return nil, errCSVEmpty()
	}
	return set, nil
}

// sniffCSV tries each candidate delimiter and returns the first parse
// that looks plausible: at least two header columns, or exactly one
// column that does not itself contain another candidate delimiter (a
// guard against accepting a mis-split single-column parse).
func sniffCSV(data []byte) ([][]string, error) {
	var lastErr error
	for _, delim := range candidateDelimiters {
		r := csv.NewReader(bytes.NewReader(data))
		r.Comma = delim
		r.FieldsPerRecord = -1
		r.LazyQuotes = true

		rows, err := r.ReadAll()
		if err != nil {
			lastErr = err
			continue
		}
		if len(rows) == 0 || len(rows[0]) == 0 {
			continue
		}
		if len(rows[0]) >= 2 {
			return rows, nil
		}
		if !containsOtherDelimiter(rows[0][0], delim) {
			return rows, nil
		}
	}
	return nil, errCSVUnparseable(lastErr)
}

func containsOtherDelimiter(cell string, used rune) bool {
	for _, delim := range candidateDelimiters {
		if delim != used && strings.ContainsRune(cell, delim) {
			return true
		}
	}
	return false
}

// contentColumns filters the header down to content field columns.
// Columns starting with ":" are side-channel metadata (":draft"), and
// "<name>:alt" columns whose base column exists are alt-text sidecars;
// both are still readable on each record but are not fields.
func contentColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}

	var cols []string
	for _, name := range header {
		if name == "" || strings.HasPrefix(name, MetaColumnPrefix) {
			continue
		}
		if base, ok := strings.CutSuffix(name, AltColumnSuffix); ok && present[base] {
			continue
		}
		cols = append(cols, name)
	}
	return cols
}

func hasEmptyContentCell(record RawRecord, columns []string) bool {
	for _, col := range columns {
		if strings.TrimSpace(record[col]) == "" {
			return true
		}
	}
	return false
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// stripBOM removes a leading UTF-8 byte order mark, commonly added by
// Windows spreadsheet exports.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the replacement
// character so the csv reader never chokes on mangled encodings.
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
			buf.Write(data[:size])
			data = data[size:]
		}
	}
	return buf.Bytes()
}
