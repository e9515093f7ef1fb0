package table

import (
	"strings"
	"time"
)

// ColumnType is the inferred type of a column.
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeBoolean     ColumnType = "boolean"
	TypeDatetime    ColumnType = "datetime"
	TypeUnknown     ColumnType = "unknown"
)

// Column is the derived per-column metadata. It is recomputed on demand so it
// is always consistent with the current data, never cached across transforms.
type Column struct {
	Name           string     `json:"name"`
	Type           ColumnType `json:"inferred_type"`
	NullCount      int        `json:"null_count"`
	NullPercentage float64    `json:"null_percentage"`
	UniqueCount    int        `json:"unique_count"`
	SampleValues   []Value    `json:"sample_values"`
}

const (
	inferSampleSize = 100
	inferThreshold  = 0.8
	sampleValueCap  = 5
)

// Profile computes fresh metadata for every column, in table order.
func (t *Table) Profile() []Column {
	out := make([]Column, 0, len(t.ColumnNames))
	for _, name := range t.ColumnNames {
		out = append(out, t.ProfileColumn(name))
	}
	return out
}

// ProfileColumn computes fresh metadata for one column.
func (t *Table) ProfileColumn(name string) Column {
	col := Column{Name: name}
	seen := make(map[string]struct{})
	var sample []Value

	for _, r := range t.Rows {
		v := r[name]
		if v.IsMissing() {
			col.NullCount++
			continue
		}
		if _, ok := seen[v.Key()]; !ok {
			seen[v.Key()] = struct{}{}
			col.UniqueCount++
		}
		if len(sample) < sampleValueCap {
			sample = append(sample, v)
		}
	}

	col.SampleValues = sample
	if n := len(t.Rows); n > 0 {
		col.NullPercentage = float64(col.NullCount) / float64(n) * 100
	}
	col.Type = t.inferType(name)
	return col
}

// inferType samples up to 100 non-null values; >=80% numeric wins, else >=80%
// boolean-like, else >=80% datetime-like, else categorical. A column with no
// non-null values is unknown.
func (t *Table) inferType(name string) ColumnType {
	sampled, numeric, boolean, datetime := 0, 0, 0, 0
	for _, r := range t.Rows {
		v := r[name]
		if v.IsMissing() {
			continue
		}
		sampled++
		if isNumericLike(v) {
			numeric++
		}
		if isBooleanLike(v) {
			boolean++
		}
		if isDatetimeLike(v) {
			datetime++
		}
		if sampled >= inferSampleSize {
			break
		}
	}
	if sampled == 0 {
		return TypeUnknown
	}
	n := float64(sampled)
	switch {
	case float64(numeric)/n >= inferThreshold:
		return TypeNumeric
	case float64(boolean)/n >= inferThreshold:
		return TypeBoolean
	case float64(datetime)/n >= inferThreshold:
		return TypeDatetime
	}
	return TypeCategorical
}

func isNumericLike(v Value) bool {
	_, ok := v.Float()
	return ok
}

func isBooleanLike(v Value) bool {
	switch v.Kind {
	case KindBool:
		return true
	case KindNumber:
		return v.Num == 0 || v.Num == 1
	case KindText:
		switch strings.ToLower(strings.TrimSpace(v.Text)) {
		case "true", "false", "yes", "no", "y", "n", "on", "off", "1", "0":
			return true
		}
	}
	return false
}

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

func isDatetimeLike(v Value) bool {
	if v.Kind != KindText {
		return false
	}
	s := strings.TrimSpace(v.Text)
	for _, layout := range datetimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
