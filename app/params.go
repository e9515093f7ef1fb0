package app

import (
	"fmt"

	"scour/domain/core"
	"scour/domain/table"
)

// Params carries operator parameters from the dispatch surface: at minimum
// the target column, plus method-specific literals.
type Params map[string]interface{}

// Column returns the required "column" parameter.
func (p Params) Column() (string, error) {
	return p.String("column")
}

// String returns a required string parameter.
func (p Params) String(key string) (string, error) {
	raw, ok := p[key]
	if !ok {
		return "", core.NewMissingParamError(key)
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

// StringList returns a required list-of-strings parameter. Accepts both
// []string and the []interface{} that JSON decoding produces.
func (p Params) StringList(key string) ([]string, error) {
	raw, ok := p[key]
	if !ok {
		return nil, core.NewMissingParamError(key)
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("parameter %q must contain only strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("parameter %q must be a list of strings", key)
}

// Value returns a required scalar parameter as a typed cell value.
func (p Params) Value(key string) (table.Value, error) {
	raw, ok := p[key]
	if !ok {
		return table.Missing(), core.NewMissingParamError(key)
	}
	switch v := raw.(type) {
	case nil:
		return table.Missing(), nil
	case float64:
		return table.NewNumber(v), nil
	case int:
		return table.NewNumber(float64(v)), nil
	case bool:
		return table.NewBool(v), nil
	case string:
		return table.NewText(v), nil
	case table.Value:
		return v, nil
	}
	return table.Missing(), fmt.Errorf("parameter %q has unsupported type %T", key, raw)
}

// Float returns an optional float parameter, falling back to def.
func (p Params) Float(key string, def float64) (float64, error) {
	raw, ok := p[key]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("parameter %q must be a number", key)
}
