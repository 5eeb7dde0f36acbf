package vektria

import (
	"fmt"
	"reflect"
)

// IsRowBased classifies an insert payload. Tables are always column-based;
// a plain map is row-based; a slice is row-based only when its first element
// is a map. An empty slice is vacuously column-based.
func IsRowBased(data any) (bool, error) {
	switch d := data.(type) {
	case *Table:
		return false, nil
	case map[string]any:
		return true, nil
	case []map[string]any:
		return len(d) > 0, nil
	}

	v := reflect.ValueOf(data)
	if !v.IsValid() || v.Kind() != reflect.Slice {
		return false, fmt.Errorf("%w: data must be a Table, a slice or a map, got %T",
			ErrDataTypeNotSupported, data)
	}
	if v.Len() == 0 {
		return false, nil
	}
	first := v.Index(0)
	if first.Kind() == reflect.Interface {
		first = first.Elem()
	}
	return first.IsValid() && first.Kind() == reflect.Map, nil
}

// ParseFieldsFromData derives the field list a payload actually carries.
// It returns the inferred fields, the schema fields the payload is expected
// to match (auto-id primary excluded), and whether the payload was tabular.
func ParseFieldsFromData(schema *CollectionSchema, data any) (
	inferred, expected []*FieldSchema, isTabular bool, err error,
) {
	if t, ok := data.(*Table); ok {
		inferred, expected, err = parseFieldsFromTable(schema, t)
		return inferred, expected, true, err
	}

	columns, ok := sequenceValues(data)
	if !ok {
		return nil, nil, false, fmt.Errorf("%w: data must be a Table or a list, got %T",
			ErrDataTypeNotSupported, data)
	}

	expected = expectedFields(schema)

	for i, field := range expected {
		// Missing trailing columns fall back to the schema's declared
		// type: the caller passed data in schema order.
		if i >= len(columns) || columns[i] == nil {
			f, err := NewFieldSchema("", field.DataType)
			if err != nil {
				return nil, nil, false, err
			}
			inferred = append(inferred, f)
			continue
		}
		values, ok := sequenceValues(columns[i])
		if !ok {
			return nil, nil, false, fmt.Errorf("%w: data should be a list of lists, element %d is %T",
				ErrDataTypeNotSupported, i, columns[i])
		}
		dtype := field.DataType
		if len(values) > 0 {
			dtype = InferType(values[0])
		}
		f, err := NewFieldSchema("", dtype)
		if err != nil {
			return nil, nil, false, err
		}
		inferred = append(inferred, f)
	}

	// Columns beyond the declared schema: infer each from its first value.
	// These carry dynamic-field data when the schema allows it.
	for i := len(expected); i < len(columns); i++ {
		values, ok := sequenceValues(columns[i])
		if !ok || len(values) == 0 {
			return nil, nil, false, fmt.Errorf("%w: extra column %d is empty",
				ErrCannotInferSchema, i)
		}
		f, err := NewFieldSchema("", InferType(values[0]))
		if err != nil {
			return nil, nil, false, err
		}
		inferred = append(inferred, f)
	}

	return inferred, expected, false, nil
}

// parseFieldsFromTable infers fields from a column-oriented payload,
// trusting the schema for columns the payload does not carry.
func parseFieldsFromTable(schema *CollectionSchema, t *Table) (
	inferred, expected []*FieldSchema, err error,
) {
	colNames, dataTypes, colParams, err := prepareFieldsFromTable(t)
	if err != nil {
		return nil, nil, err
	}

	expected = expectedFields(schema)

	for _, field := range expected {
		idx := indexOf(colNames, field.Name)
		if idx < 0 {
			// Column absent from the payload: synthesize it so the
			// remaining-column pass below does not re-add it.
			f, err := NewFieldSchema(field.Name, field.DataType)
			if err != nil {
				return nil, nil, err
			}
			colNames = append(colNames, field.Name)
			dataTypes = append(dataTypes, field.DataType)
			inferred = append(inferred, f)
			continue
		}
		f, err := NewFieldSchema(field.Name, dataTypes[idx], paramOptions(colParams[field.Name])...)
		if err != nil {
			return nil, nil, err
		}
		inferred = append(inferred, f)
	}

	inferredNames := make(map[string]bool, len(inferred))
	for _, f := range inferred {
		inferredNames[f.Name] = true
	}
	for i, name := range colNames {
		if inferredNames[name] {
			continue
		}
		f, err := NewFieldSchema(name, dataTypes[i], paramOptions(colParams[name])...)
		if err != nil {
			return nil, nil, err
		}
		inferred = append(inferred, f)
	}

	return inferred, expected, nil
}

// FieldsFromTable derives a complete field list directly from a tabular
// payload, for schema-less collection construction.
func FieldsFromTable(t *Table) ([]*FieldSchema, error) {
	colNames, dataTypes, colParams, err := prepareFieldsFromTable(t)
	if err != nil {
		return nil, err
	}
	fields := make([]*FieldSchema, len(colNames))
	for i, name := range colNames {
		f, err := NewFieldSchema(name, dataTypes[i], paramOptions(colParams[name])...)
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	return fields, nil
}

// prepareFieldsFromTable maps each column's native type to a wire type,
// resolving Unknown columns by sampling the first row. Vector columns
// resolved this way get their dimensionality captured as a type parameter.
func prepareFieldsFromTable(t *Table) (
	colNames []string, dataTypes []DataType, colParams map[string]map[string]any, err error,
) {
	cols := t.Columns()
	colNames = make([]string, len(cols))
	dataTypes = make([]DataType, len(cols))
	colParams = make(map[string]map[string]any)

	unknown := false
	for i, c := range cols {
		colNames[i] = c.Name
		dataTypes[i] = MapColumnType(c.Type)
		if dataTypes[i] == DataTypeUnknown {
			unknown = true
		}
	}

	if unknown {
		if t.Len() == 0 {
			return nil, nil, nil, fmt.Errorf("%w: table is empty and column types are ambiguous",
				ErrCannotInferSchema)
		}
		for i, c := range cols {
			if dataTypes[i] != DataTypeUnknown {
				continue
			}
			sample := c.Values[0]
			dtype := InferType(sample)
			if dtype.IsVector() {
				colParams[c.Name] = map[string]any{
					TypeParamDim: vectorDim(dtype, sample),
				}
			}
			dataTypes[i] = dtype
		}
	}

	for i, dtype := range dataTypes {
		if dtype == DataTypeUnknown {
			return nil, nil, nil, fmt.Errorf("%w: cannot resolve type of column %q",
				ErrCannotInferSchema, colNames[i])
		}
	}
	return colNames, dataTypes, colParams, nil
}

// expectedFields returns the schema's fields with any auto-id primary
// field removed: its values are service-generated and never part of
// the payload.
func expectedFields(schema *CollectionSchema) []*FieldSchema {
	fields := make([]*FieldSchema, 0, schema.Len())
	for _, f := range schema.Fields() {
		if f.IsPrimary && f.AutoID {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// checkFieldsMatch reconciles inferred fields against the expected schema
// fields. Positional names are authoritative only for tabular input; for
// list input position alone decides.
func checkFieldsMatch(inferred, expected []*FieldSchema, isTabular bool) error {
	if len(inferred) != len(expected) {
		return fmt.Errorf("%w: expected fields %v, got %v",
			ErrDataNotMatch, fieldNames(expected), fieldNames(inferred))
	}
	for i, f := range inferred {
		want := expected[i]
		if f.DataType != want.DataType {
			return fmt.Errorf("%w: field %q expected type %s, got %s",
				ErrDataNotMatch, want.Name, want.DataType, f.DataType)
		}
		if isTabular && f.Name != want.Name {
			return fmt.Errorf("%w: expected field name %q, got %q",
				ErrDataNotMatch, want.Name, f.Name)
		}
	}
	return nil
}

// CheckInsertSchema validates an insert payload against a schema. For
// auto-id schemas a tabular primary column is allowed only when entirely
// nil, and is dropped before inference.
func CheckInsertSchema(schema *CollectionSchema, data any) error {
	if schema == nil {
		return fmt.Errorf("%w: schema is nil", ErrSchemaNotReady)
	}
	if schema.AutoID() {
		if t, ok := data.(*Table); ok && schema.PrimaryField() != nil {
			name := schema.PrimaryField().Name
			if col, ok := t.Column(name); ok {
				if !col.allNil() {
					return fmt.Errorf("%w: expect no data for auto_id primary field %q",
						ErrDataNotMatch, name)
				}
				data = t.DropColumn(name)
			}
		}
	}

	inferred, expected, isTabular, err := ParseFieldsFromData(schema, data)
	if err != nil {
		return err
	}
	return checkFieldsMatch(inferred, expected, isTabular)
}

// CheckUpsertSchema validates an upsert payload against a schema. Upsert
// requires caller-supplied keys, so auto-id schemas are rejected outright.
func CheckUpsertSchema(schema *CollectionSchema, data any) error {
	if schema == nil {
		return fmt.Errorf("%w: schema is nil", ErrSchemaNotReady)
	}
	if schema.AutoID() {
		return fmt.Errorf("%w: primary field %q is auto-generated", ErrUpsertAutoID, schema.PrimaryField().Name)
	}

	inferred, expected, isTabular, err := ParseFieldsFromData(schema, data)
	if err != nil {
		return err
	}
	return checkFieldsMatch(inferred, expected, isTabular)
}

// CheckSchema verifies a schema is complete enough to insert into:
// present, non-empty and declaring at least one vector field.
func CheckSchema(schema *CollectionSchema) error {
	if schema == nil {
		return fmt.Errorf("%w: schema is nil", ErrSchemaNotReady)
	}
	if schema.Len() < 1 {
		return fmt.Errorf("%w: schema has no fields", ErrSchemaNotReady)
	}
	for _, f := range schema.Fields() {
		if f.DataType.IsVector() {
			return nil
		}
	}
	return fmt.Errorf("%w: schema must declare at least one vector field", ErrSchemaNotReady)
}

// sequenceValues flattens any slice value into []any. Returns false for
// non-slice values. []byte is a scalar payload here, not a sequence.
func sequenceValues(v any) ([]any, bool) {
	switch d := v.(type) {
	case nil:
		return nil, false
	case []any:
		return d, true
	case []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func fieldNames(fields []*FieldSchema) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// paramOptions converts captured column type params into field options.
func paramOptions(params map[string]any) []FieldOption {
	opts := make([]FieldOption, 0, len(params))
	for k, v := range params {
		opts = append(opts, WithTypeParam(k, v))
	}
	return opts
}
