package vektria

import "testing"

func TestDataType_String(t *testing.T) {
	tests := []struct {
		dtype DataType
		want  string
	}{
		{DataTypeNone, "None"},
		{DataTypeBool, "Bool"},
		{DataTypeInt64, "Int64"},
		{DataTypeVarChar, "VarChar"},
		{DataTypeFloatVector, "FloatVector"},
		{DataTypeBinaryVector, "BinaryVector"},
		{DataTypeUnknown, "Unknown"},
		{DataType(42), "Invalid"},
	}

	for _, tc := range tests {
		if got := tc.dtype.String(); got != tc.want {
			t.Errorf("DataType(%d).String() = %q, want %q", tc.dtype, got, tc.want)
		}
	}
}

func TestDataType_IsValid(t *testing.T) {
	valid := []DataType{
		DataTypeBool, DataTypeInt8, DataTypeInt16, DataTypeInt32, DataTypeInt64,
		DataTypeFloat, DataTypeDouble, DataTypeString, DataTypeVarChar,
		DataTypeArray, DataTypeJSON, DataTypeBinaryVector, DataTypeFloatVector,
	}
	for _, dtype := range valid {
		if !dtype.IsValid() {
			t.Errorf("expected %s to be valid", dtype)
		}
	}

	invalid := []DataType{DataTypeNone, DataTypeUnknown, DataType(42), DataType(-1)}
	for _, dtype := range invalid {
		if dtype.IsValid() {
			t.Errorf("expected %s (%d) to be invalid", dtype, dtype)
		}
	}
}

func TestDataType_IsVector(t *testing.T) {
	if !DataTypeFloatVector.IsVector() || !DataTypeBinaryVector.IsVector() {
		t.Error("vector types must report IsVector")
	}
	for _, dtype := range []DataType{DataTypeBool, DataTypeInt64, DataTypeVarChar, DataTypeJSON} {
		if dtype.IsVector() {
			t.Errorf("%s must not report IsVector", dtype)
		}
	}
}

func TestMapColumnType(t *testing.T) {
	tests := []struct {
		col  ColumnType
		want DataType
	}{
		{ColumnBool, DataTypeBool},
		{ColumnInt8, DataTypeInt8},
		{ColumnInt16, DataTypeInt16},
		{ColumnInt32, DataTypeInt32},
		{ColumnInt64, DataTypeInt64},
		{ColumnFloat32, DataTypeFloat},
		{ColumnFloat64, DataTypeDouble},
		{ColumnString, DataTypeVarChar},
		{ColumnBytes, DataTypeUnknown},
		{ColumnObject, DataTypeUnknown},
	}

	for _, tc := range tests {
		if got := MapColumnType(tc.col); got != tc.want {
			t.Errorf("MapColumnType(%d) = %s, want %s", tc.col, got, tc.want)
		}
	}
}

func TestInferScalarType(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  DataType
	}{
		{"bool", true, DataTypeBool},
		{"int8", int8(1), DataTypeInt8},
		{"int16", int16(1), DataTypeInt16},
		{"int32", int32(1), DataTypeInt32},
		{"int", 1, DataTypeInt64},
		{"int64", int64(1), DataTypeInt64},
		{"float32", float32(1.5), DataTypeFloat},
		{"float64", 1.5, DataTypeDouble},
		{"string", "x", DataTypeVarChar},
		{"nil", nil, DataTypeUnknown},
		{"struct", struct{}{}, DataTypeUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := InferScalarType(tc.value); got != tc.want {
				t.Errorf("InferScalarType(%v) = %s, want %s", tc.value, got, tc.want)
			}
		})
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  DataType
	}{
		{"bytes", []byte{0xAA}, DataTypeBinaryVector},
		{"float32 slice", []float32{0.1, 0.2}, DataTypeFloatVector},
		{"float64 slice", []float64{0.1, 0.2}, DataTypeFloatVector},
		{"any slice of floats", []any{0.1, 0.2}, DataTypeFloatVector},
		{"any slice of strings", []any{"a"}, DataTypeUnknown},
		{"empty any slice", []any{}, DataTypeUnknown},
		{"map", map[string]any{"k": 1}, DataTypeJSON},
		{"scalar", int64(7), DataTypeInt64},
		{"nil", nil, DataTypeUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := InferType(tc.value); got != tc.want {
				t.Errorf("InferType(%v) = %s, want %s", tc.value, got, tc.want)
			}
		})
	}
}

func TestVectorDim(t *testing.T) {
	if got := vectorDim(DataTypeBinaryVector, []byte{0xAA, 0xBB}); got != 16 {
		t.Errorf("binary vector dim: got %d, want 16", got)
	}
	if got := vectorDim(DataTypeFloatVector, []float32{0.1, 0.2, 0.3}); got != 3 {
		t.Errorf("float32 vector dim: got %d, want 3", got)
	}
	if got := vectorDim(DataTypeFloatVector, []float64{0.1, 0.2}); got != 2 {
		t.Errorf("float64 vector dim: got %d, want 2", got)
	}
	if got := vectorDim(DataTypeFloatVector, []any{0.1, 0.2, 0.3, 0.4}); got != 4 {
		t.Errorf("any vector dim: got %d, want 4", got)
	}
	if got := vectorDim(DataTypeFloatVector, "not a vector"); got != 0 {
		t.Errorf("non-vector dim: got %d, want 0", got)
	}
}
