package vektria

import (
	"encoding/json"
	"fmt"
)

// ValueKind identifies the active variant of a ValueField.
type ValueKind int

// Value kind constants.
const (
	ValueKindNone ValueKind = iota
	ValueKindBool
	ValueKindInt
	ValueKindLong
	ValueKindFloat
	ValueKindDouble
	ValueKindString
)

// ValueField is the wire representation of a field default value: a tagged
// union with at most one active variant. A ValueField with no variant set is
// equivalent to "no default value".
type ValueField struct {
	kind      ValueKind
	boolVal   bool
	intVal    int32
	longVal   int64
	floatVal  float32
	doubleVal float64
	stringVal string
}

// BoolValue creates a bool-variant ValueField.
func BoolValue(v bool) *ValueField { return &ValueField{kind: ValueKindBool, boolVal: v} }

// IntValue creates an int32-variant ValueField (Int8/Int16/Int32 fields).
func IntValue(v int32) *ValueField { return &ValueField{kind: ValueKindInt, intVal: v} }

// LongValue creates an int64-variant ValueField.
func LongValue(v int64) *ValueField { return &ValueField{kind: ValueKindLong, longVal: v} }

// FloatValue creates a float32-variant ValueField.
func FloatValue(v float32) *ValueField { return &ValueField{kind: ValueKindFloat, floatVal: v} }

// DoubleValue creates a float64-variant ValueField.
func DoubleValue(v float64) *ValueField { return &ValueField{kind: ValueKindDouble, doubleVal: v} }

// StringValue creates a string-variant ValueField.
func StringValue(v string) *ValueField { return &ValueField{kind: ValueKindString, stringVal: v} }

// Kind returns the active variant, or ValueKindNone if unset.
func (v *ValueField) Kind() ValueKind {
	if v == nil {
		return ValueKindNone
	}
	return v.kind
}

// Value returns the active variant's value as an untyped scalar,
// or nil if no variant is set.
func (v *ValueField) Value() any {
	if v == nil {
		return nil
	}
	switch v.kind {
	case ValueKindBool:
		return v.boolVal
	case ValueKindInt:
		return v.intVal
	case ValueKindLong:
		return v.longVal
	case ValueKindFloat:
		return v.floatVal
	case ValueKindDouble:
		return v.doubleVal
	case ValueKindString:
		return v.stringVal
	default:
		return nil
	}
}

// Equal reports whether two value fields hold the same variant and value.
func (v *ValueField) Equal(other *ValueField) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	if v.Kind() == ValueKindNone {
		return true
	}
	return *v == *other
}

// Wire keys for the JSON encoding of each variant.
const (
	valueKeyBool   = "bool_data"
	valueKeyInt    = "int_data"
	valueKeyLong   = "long_data"
	valueKeyFloat  = "float_data"
	valueKeyDouble = "double_data"
	valueKeyString = "string_data"
)

// MarshalJSON encodes the value field as a single-key object naming the
// active variant, or an empty object when no variant is set.
func (v *ValueField) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case ValueKindBool:
		return json.Marshal(map[string]any{valueKeyBool: v.boolVal})
	case ValueKindInt:
		return json.Marshal(map[string]any{valueKeyInt: v.intVal})
	case ValueKindLong:
		return json.Marshal(map[string]any{valueKeyLong: v.longVal})
	case ValueKindFloat:
		return json.Marshal(map[string]any{valueKeyFloat: v.floatVal})
	case ValueKindDouble:
		return json.Marshal(map[string]any{valueKeyDouble: v.doubleVal})
	case ValueKindString:
		return json.Marshal(map[string]any{valueKeyString: v.stringVal})
	default:
		return []byte("{}"), nil
	}
}

// UnmarshalJSON decodes a single-key variant object.
func (v *ValueField) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := valueFieldFromMap(raw)
	if err != nil {
		return err
	}
	if decoded == nil {
		*v = ValueField{}
	} else {
		*v = *decoded
	}
	return nil
}

// valueFieldFromMap rebuilds a ValueField from its decoded JSON object.
// An empty object yields nil (no default value).
func valueFieldFromMap(raw map[string]any) (*ValueField, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if len(raw) > 1 {
		return nil, fmt.Errorf("%w: default value must have a single variant, got %d", ErrParam, len(raw))
	}
	for key, val := range raw {
		switch key {
		case valueKeyBool:
			b, ok := val.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be a bool, got %T", ErrParam, key, val)
			}
			return BoolValue(b), nil
		case valueKeyInt:
			n, err := toInt64(val)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrParam, key, err)
			}
			return IntValue(int32(n)), nil
		case valueKeyLong:
			n, err := toInt64(val)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrParam, key, err)
			}
			return LongValue(n), nil
		case valueKeyFloat:
			f, err := toFloat64(val)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrParam, key, err)
			}
			return FloatValue(float32(f)), nil
		case valueKeyDouble:
			f, err := toFloat64(val)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrParam, key, err)
			}
			return DoubleValue(f), nil
		case valueKeyString:
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be a string, got %T", ErrParam, key, val)
			}
			return StringValue(s), nil
		default:
			return nil, fmt.Errorf("%w: unknown default value variant %q", ErrParam, key)
		}
	}
	return nil, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch f := v.(type) {
	case float32:
		return float64(f), nil
	case float64:
		return f, nil
	case int:
		return float64(f), nil
	case int64:
		return float64(f), nil
	default:
		return 0, fmt.Errorf("expected a float, got %T", v)
	}
}

// inferDefaultValue wraps a plain scalar into its tagged wire representation.
// Returns nil for nil input; fails for values whose inferred type cannot
// carry a default.
func inferDefaultValue(data any) (*ValueField, error) {
	if data == nil {
		return nil, nil
	}
	switch InferScalarType(data) {
	case DataTypeBool:
		return BoolValue(data.(bool)), nil
	case DataTypeInt8, DataTypeInt16, DataTypeInt32:
		n, _ := toInt64(data)
		return IntValue(int32(n)), nil
	case DataTypeInt64:
		n, _ := toInt64(data)
		return LongValue(n), nil
	case DataTypeFloat:
		return FloatValue(data.(float32)), nil
	case DataTypeDouble:
		return DoubleValue(data.(float64)), nil
	case DataTypeVarChar:
		return StringValue(data.(string)), nil
	default:
		return nil, fmt.Errorf("%w: default value unsupported for type %T", ErrParam, data)
	}
}
