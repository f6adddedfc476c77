package ingest

import (
	"strconv"
	"strings"
)

// Row is one parsed record keyed by header name. Values are string or
// float64 depending on the coercion heuristic below.
type Row map[string]any

// parseProgressInterval is the row-count interval for parse progress
// reports.
const parseProgressInterval = 50000

// identifierColumns are header-name fragments that suppress numeric
// coercion. Part numbers and inventory ids look numeric for many rows but
// are identifiers; coercing them would corrupt lookups. This rule is a
// deliberate heuristic carried over from the existing data semantics, not
// a schema.
var identifierColumns = []string{"part_num", "inventory_id"}

// ParseCSV parses comma-delimited text with a header row. Field values use
// doubled-quote escaping. A value is coerced to float64 when it is
// non-empty, numeric, and its column is not an identifier column. Rows
// whose field count does not match the header are silently dropped.
// Progress, when requested, reports the fraction of lines consumed every
// 50,000 rows.
func ParseCSV(text string, onProgress func(fraction float64)) []Row {
	raw := strings.Split(text, "\n")
	lines := raw[:0:0]
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	headers := parseCSVLine(lines[0])
	data := make([]Row, 0, len(lines)-1)

	for i := 1; i < len(lines); i++ {
		values := parseCSVLine(lines[i])
		if len(values) != len(headers) {
			continue
		}
		row := make(Row, len(headers))
		for j, header := range headers {
			row[header] = coerceValue(header, values[j])
		}
		data = append(data, row)

		if onProgress != nil && i%parseProgressInterval == 0 {
			onProgress(float64(i) / float64(len(lines)))
		}
	}
	return data
}

// coerceValue applies the numeric-coercion heuristic to one field.
func coerceValue(header, value string) any {
	if value == "" {
		return value
	}
	for _, frag := range identifierColumns {
		if strings.Contains(header, frag) {
			return value
		}
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

// parseCSVLine splits one line on commas outside quotes. A doubled quote
// inside a quoted field is a literal quote. Fields are trimmed.
func parseCSVLine(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	result = append(result, strings.TrimSpace(current.String()))
	return result
}
