package vektria

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValueField_KindAndValue(t *testing.T) {
	tests := []struct {
		name string
		vf   *ValueField
		kind ValueKind
		want any
	}{
		{"bool", BoolValue(true), ValueKindBool, true},
		{"int", IntValue(42), ValueKindInt, int32(42)},
		{"long", LongValue(1 << 40), ValueKindLong, int64(1 << 40)},
		{"float", FloatValue(1.5), ValueKindFloat, float32(1.5)},
		{"double", DoubleValue(2.5), ValueKindDouble, 2.5},
		{"string", StringValue("hello"), ValueKindString, "hello"},
		{"nil", nil, ValueKindNone, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.vf.Kind(); got != tc.kind {
				t.Errorf("Kind() = %d, want %d", got, tc.kind)
			}
			if got := tc.vf.Value(); got != tc.want {
				t.Errorf("Value() = %v (%T), want %v (%T)", got, got, tc.want, tc.want)
			}
		})
	}
}

func TestValueField_Equal(t *testing.T) {
	if !LongValue(7).Equal(LongValue(7)) {
		t.Error("equal longs must compare equal")
	}
	if LongValue(7).Equal(LongValue(8)) {
		t.Error("different longs must not compare equal")
	}
	if LongValue(7).Equal(IntValue(7)) {
		t.Error("different variants must not compare equal")
	}
	var a, b *ValueField
	if !a.Equal(b) {
		t.Error("two nil values must compare equal")
	}
	if a.Equal(StringValue("x")) {
		t.Error("nil must not equal a set value")
	}
}

func TestValueField_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		vf   *ValueField
	}{
		{"bool", BoolValue(false)},
		{"int", IntValue(-3)},
		{"long", LongValue(9000)},
		{"float", FloatValue(0.25)},
		{"double", DoubleValue(3.125)},
		{"string", StringValue("abc")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.vf)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var decoded ValueField
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !decoded.Equal(tc.vf) {
				t.Errorf("round trip: got %v, want %v", decoded.Value(), tc.vf.Value())
			}
		})
	}
}

func TestValueField_UnmarshalEmptyObject(t *testing.T) {
	var vf ValueField
	if err := json.Unmarshal([]byte("{}"), &vf); err != nil {
		t.Fatalf("unmarshal empty object: %v", err)
	}
	if vf.Kind() != ValueKindNone {
		t.Errorf("empty object must decode to no variant, got kind %d", vf.Kind())
	}
}

func TestValueFieldFromMap_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"two variants", map[string]any{"bool_data": true, "long_data": 1}},
		{"unknown variant", map[string]any{"blob_data": "x"}},
		{"wrong bool type", map[string]any{"bool_data": "yes"}},
		{"wrong string type", map[string]any{"string_data": 5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := valueFieldFromMap(tc.raw)
			if !errors.Is(err, ErrParam) {
				t.Errorf("expected ErrParam, got %v", err)
			}
		})
	}
}

func TestInferDefaultValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *ValueField
	}{
		{"bool", true, BoolValue(true)},
		{"int8", int8(1), IntValue(1)},
		{"int16", int16(2), IntValue(2)},
		{"int32", int32(3), IntValue(3)},
		{"int", 4, LongValue(4)},
		{"int64", int64(5), LongValue(5)},
		{"float32", float32(1.5), FloatValue(1.5)},
		{"float64", 2.5, DoubleValue(2.5)},
		{"string", "v", StringValue("v")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inferDefaultValue(tc.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("got %v, want %v", got.Value(), tc.want.Value())
			}
		})
	}
}

func TestInferDefaultValue_Nil(t *testing.T) {
	got, err := inferDefaultValue(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("nil input must yield nil, got %v", got)
	}
}

func TestInferDefaultValue_Unsupported(t *testing.T) {
	for _, v := range []any{[]float32{0.1}, map[string]any{}, struct{}{}} {
		_, err := inferDefaultValue(v)
		if !errors.Is(err, ErrParam) {
			t.Errorf("%T: expected ErrParam, got %v", v, err)
		}
	}
}
