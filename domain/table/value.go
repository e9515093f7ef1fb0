package table

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind is the storage type of a single cell.
type Kind string

const (
	KindNumber  Kind = "number"
	KindText    Kind = "text"
	KindBool    Kind = "bool"
	KindMissing Kind = "missing"
)

// Value is a typed cell value. Missing is one uniform sentinel regardless of
// how the source encoded it (empty string, null, NaN-as-text, absent key).
type Value struct {
	Kind Kind
	Num  float64
	Text string
	Bool bool
}

// NewNumber creates a numeric cell value.
func NewNumber(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// NewText creates a text cell value. Empty text is normalized to Missing.
func NewText(s string) Value {
	if s == "" {
		return Missing()
	}
	return Value{Kind: KindText, Text: s}
}

// NewBool creates a boolean cell value.
func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// Missing returns the missing-cell sentinel.
func Missing() Value {
	return Value{Kind: KindMissing}
}

// IsMissing reports whether the cell holds no value.
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing
}

// Float returns the cell as a float64 when it parses as one.
// Numbers parse directly; text parses via strconv; booleans and missing do not.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Display renders the cell for journal entries, derived column names and export.
func (v Value) Display() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Text
	case KindBool:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}

// Key returns a canonical string usable as a map key. Distinct kinds never
// collide, so value-level equality holds across a whole row signature.
func (v Value) Key() string {
	switch v.Kind {
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return "t:" + v.Text
	case KindBool:
		return "b:" + strconv.FormatBool(v.Bool)
	}
	return "m"
}

// Equal reports value-level equality.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindText:
		return v.Text == o.Text
	case KindBool:
		return v.Bool == o.Bool
	}
	return true
}

// MarshalJSON renders values as native JSON scalars (number/string/bool/null).
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindText:
		return json.Marshal(v.Text)
	case KindBool:
		return json.Marshal(v.Bool)
	}
	return []byte("null"), nil
}

// UnmarshalJSON maps JSON scalars back onto the variant. Lossless for every
// kind this package produces.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = Missing()
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case float64:
		*v = NewNumber(x)
	case bool:
		*v = NewBool(x)
	case string:
		*v = NewText(x)
	default:
		*v = NewText(trimmed)
	}
	return nil
}
