// Package coerce normalizes raw source cells into typed table values with
// deterministic rules. It runs once at the import boundary; the engine never
// re-parses raw bytes.
package coerce

import (
	"math"
	"strconv"
	"strings"

	"scour/domain/table"
)

// Cell converts one raw source string into a typed cell value.
// Order of attempts: missing sentinel, numeric, boolean, text.
func Cell(raw string) table.Value {
	s := strings.TrimSpace(raw)
	if isMissingToken(s) {
		return table.Missing()
	}
	if f, ok := ParseNumeric(s); ok {
		return table.NewNumber(f)
	}
	if b, ok := ParseBoolean(s); ok {
		return table.NewBool(b)
	}
	return table.NewText(s)
}

// isMissingToken matches the source encodings that all normalize to the one
// missing sentinel.
func isMissingToken(s string) bool {
	switch strings.ToLower(s) {
	case "", "null", "nil", "none", "nan", "n/a", "na", "-", "?":
		return true
	}
	return false
}

// ParseNumeric attempts a strict numeric parse with tolerance for common
// human formats: thousands separators, currency symbols, percent signs and
// parenthesized negatives.
func ParseNumeric(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	clean := strings.TrimSpace(s)

	// (123) means -123 in accounting exports.
	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
		negative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "%"} {
		clean = strings.ReplaceAll(clean, symbol, "")
	}
	clean = strings.TrimSpace(clean)

	// Thousands separators: 1,234,567 or 1 234 567. A single trailing comma
	// group of decimal size is treated as a European decimal separator.
	if strings.Contains(clean, ",") && !strings.Contains(clean, ".") {
		if idx := strings.LastIndex(clean, ","); len(clean)-idx-1 <= 2 && strings.Count(clean, ",") == 1 {
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}
	clean = strings.ReplaceAll(clean, " ", "")

	if negative {
		clean = "-" + clean
	}

	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ParseBoolean attempts a boolean parse over the accepted token set.
// Bare "1"/"0" are intentionally excluded: they parse as numbers first.
func ParseBoolean(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "on":
		return true, true
	case "false", "no", "n", "off":
		return false, true
	}
	return false, false
}

// Row converts a raw header-keyed record into a table row.
func Row(headers []string, raw map[string]string) table.Row {
	row := make(table.Row, len(headers))
	for _, h := range headers {
		row[h] = Cell(raw[h])
	}
	return row
}
