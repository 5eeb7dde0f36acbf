package vektria

// DataType identifies the wire-level type of a collection field.
type DataType int32

// Data type constants. Values match the service wire protocol.
const (
	DataTypeNone    DataType = 0
	DataTypeBool    DataType = 1
	DataTypeInt8    DataType = 2
	DataTypeInt16   DataType = 3
	DataTypeInt32   DataType = 4
	DataTypeInt64   DataType = 5
	DataTypeFloat   DataType = 10
	DataTypeDouble  DataType = 11
	DataTypeString  DataType = 20 // deprecated on the wire, use VarChar
	DataTypeVarChar DataType = 21
	DataTypeArray   DataType = 22
	DataTypeJSON    DataType = 23

	DataTypeBinaryVector DataType = 100
	DataTypeFloatVector  DataType = 101

	// DataTypeUnknown is the sentinel for an unresolved column type.
	// It is never valid in a field schema.
	DataTypeUnknown DataType = 999
)

var dataTypeNames = map[DataType]string{
	DataTypeNone:         "None",
	DataTypeBool:         "Bool",
	DataTypeInt8:         "Int8",
	DataTypeInt16:        "Int16",
	DataTypeInt32:        "Int32",
	DataTypeInt64:        "Int64",
	DataTypeFloat:        "Float",
	DataTypeDouble:       "Double",
	DataTypeString:       "String",
	DataTypeVarChar:      "VarChar",
	DataTypeArray:        "Array",
	DataTypeJSON:         "JSON",
	DataTypeBinaryVector: "BinaryVector",
	DataTypeFloatVector:  "FloatVector",
	DataTypeUnknown:      "Unknown",
}

// String returns the protocol name of the data type.
func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return "Invalid"
}

// IsValid reports whether t is a recognized, usable field type.
// None and Unknown are not usable in a field schema.
func (t DataType) IsValid() bool {
	if t == DataTypeNone || t == DataTypeUnknown {
		return false
	}
	_, ok := dataTypeNames[t]
	return ok
}

// IsVector reports whether t is a vector type.
func (t DataType) IsVector() bool {
	return t == DataTypeBinaryVector || t == DataTypeFloatVector
}

// ColumnType is the native type of a tabular column, as declared by the
// caller's column container. Object columns carry arbitrary Go values and
// must be resolved by sampling.
type ColumnType int

// Column type constants.
const (
	ColumnBool ColumnType = iota
	ColumnInt8
	ColumnInt16
	ColumnInt32
	ColumnInt64
	ColumnFloat32
	ColumnFloat64
	ColumnString
	ColumnBytes
	ColumnObject
)

// MapColumnType maps a native column type to a wire data type.
// Object and Bytes columns map to Unknown and are resolved by sampling
// a value from the column.
func MapColumnType(t ColumnType) DataType {
	switch t {
	case ColumnBool:
		return DataTypeBool
	case ColumnInt8:
		return DataTypeInt8
	case ColumnInt16:
		return DataTypeInt16
	case ColumnInt32:
		return DataTypeInt32
	case ColumnInt64:
		return DataTypeInt64
	case ColumnFloat32:
		return DataTypeFloat
	case ColumnFloat64:
		return DataTypeDouble
	case ColumnString:
		return DataTypeVarChar
	default:
		return DataTypeUnknown
	}
}

// InferScalarType maps a Go scalar value to a wire data type.
// Returns Unknown for non-scalar or unsupported values.
func InferScalarType(v any) DataType {
	switch v.(type) {
	case bool:
		return DataTypeBool
	case int8:
		return DataTypeInt8
	case int16:
		return DataTypeInt16
	case int32:
		return DataTypeInt32
	case int, int64:
		return DataTypeInt64
	case float32:
		return DataTypeFloat
	case float64:
		return DataTypeDouble
	case string:
		return DataTypeVarChar
	default:
		return DataTypeUnknown
	}
}

// InferType maps an arbitrary sample value to a wire data type,
// recognizing vector shapes:
//   - []byte is a binary vector
//   - a slice of floats is a float vector
//   - a map is a JSON value
//   - anything else falls back to scalar inference
func InferType(v any) DataType {
	switch d := v.(type) {
	case nil:
		return DataTypeUnknown
	case []byte:
		return DataTypeBinaryVector
	case []float32, []float64:
		return DataTypeFloatVector
	case map[string]any:
		return DataTypeJSON
	case []any:
		if len(d) == 0 {
			return DataTypeUnknown
		}
		switch d[0].(type) {
		case float32, float64:
			return DataTypeFloatVector
		default:
			return DataTypeUnknown
		}
	}

	return InferScalarType(v)
}

// vectorDim derives the dimensionality of a sampled vector value:
// byte count times eight for binary vectors, element count otherwise.
func vectorDim(dtype DataType, sample any) int {
	switch d := sample.(type) {
	case []byte:
		if dtype == DataTypeBinaryVector {
			return len(d) * 8
		}
		return len(d)
	case []float32:
		return len(d)
	case []float64:
		return len(d)
	case []any:
		return len(d)
	}
	return 0
}
