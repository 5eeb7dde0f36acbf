package vektria

import (
	"fmt"
	"reflect"
)

// Type parameter keys recognized on vector and variable-length fields.
const (
	TypeParamDim       = "dim"
	TypeParamMaxLength = "max_length"
)

var commonTypeParams = []string{TypeParamDim, TypeParamMaxLength}

// FieldSchema describes a single collection field: its declared type, name
// and attribute flags. Construct with NewFieldSchema; treat as immutable.
type FieldSchema struct {
	Name           string
	DataType       DataType
	Description    string
	IsPrimary      bool
	AutoID         bool
	IsPartitionKey bool
	IsDynamic      bool
	DefaultValue   *ValueField
	TypeParams     map[string]any
}

// FieldOption configures field schema construction.
type FieldOption func(*fieldConfig)

type fieldConfig struct {
	description    string
	isPrimary      bool
	autoID         bool
	isPartitionKey bool
	isDynamic      bool
	defaultValue   any
	typeParams     map[string]any
}

// WithFieldDescription sets the field description text.
func WithFieldDescription(desc string) FieldOption {
	return func(c *fieldConfig) { c.description = desc }
}

// AsPrimaryKey flags the field as the collection's primary key.
func AsPrimaryKey() FieldOption {
	return func(c *fieldConfig) { c.isPrimary = true }
}

// WithFieldAutoID makes the service generate primary-key values.
// Valid only on the primary field.
func WithFieldAutoID(autoID bool) FieldOption {
	return func(c *fieldConfig) { c.autoID = autoID }
}

// AsPartitionKey flags the field as the collection's partition key.
func AsPartitionKey() FieldOption {
	return func(c *fieldConfig) { c.isPartitionKey = true }
}

// AsDynamic flags the field as the dynamic-schema catch-all.
func AsDynamic() FieldOption {
	return func(c *fieldConfig) { c.isDynamic = true }
}

// WithDefaultValue sets the field default. Accepts a plain scalar
// (bool, int8..int64, float32, float64, string) or a *ValueField.
func WithDefaultValue(v any) FieldOption {
	return func(c *fieldConfig) { c.defaultValue = v }
}

// WithDim sets the vector dimensionality type parameter.
func WithDim(dim int) FieldOption {
	return WithTypeParam(TypeParamDim, dim)
}

// WithMaxLength sets the maximum length type parameter for VarChar fields.
func WithMaxLength(n int) FieldOption {
	return WithTypeParam(TypeParamMaxLength, n)
}

// WithTypeParam sets a raw type parameter. Only recognized keys on vector
// and VarChar fields are retained.
func WithTypeParam(key string, value any) FieldOption {
	return func(c *fieldConfig) {
		if c.typeParams == nil {
			c.typeParams = make(map[string]any)
		}
		c.typeParams[key] = value
	}
}

// NewFieldSchema validates and creates a FieldSchema.
func NewFieldSchema(name string, dtype DataType, opts ...FieldOption) (*FieldSchema, error) {
	if !dtype.IsValid() {
		return nil, fmt.Errorf("%w: field %q has data type %s", ErrDataTypeNotSupported, name, dtype)
	}

	cfg := &fieldConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.autoID && !cfg.isPrimary {
		return nil, fmt.Errorf("%w: auto_id is only valid on the primary field, field %q is not primary",
			ErrPrimaryKey, name)
	}

	defaultValue, err := resolveDefaultValue(cfg.defaultValue)
	if err != nil {
		return nil, err
	}

	f := &FieldSchema{
		Name:           name,
		DataType:       dtype,
		Description:    cfg.description,
		IsPrimary:      cfg.isPrimary,
		AutoID:         cfg.autoID,
		IsPartitionKey: cfg.isPartitionKey,
		IsDynamic:      cfg.isDynamic,
		DefaultValue:   defaultValue,
	}
	f.TypeParams = parseTypeParams(dtype, cfg.typeParams)
	return f, nil
}

// resolveDefaultValue normalizes the default value into its tagged wire
// form. A ValueField with no variant set collapses to no default.
func resolveDefaultValue(v any) (*ValueField, error) {
	switch d := v.(type) {
	case nil:
		return nil, nil
	case *ValueField:
		if d.Kind() == ValueKindNone {
			return nil, nil
		}
		return d, nil
	default:
		return inferDefaultValue(v)
	}
}

// parseTypeParams retains recognized type parameters for vector and
// variable-length types; all other types ignore them.
func parseTypeParams(dtype DataType, params map[string]any) map[string]any {
	switch dtype {
	case DataTypeBinaryVector, DataTypeFloatVector, DataTypeVarChar:
	default:
		return nil
	}
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]any)
	for _, key := range commonTypeParams {
		if v, ok := params[key]; ok {
			out[key] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Clone returns a copy that shares no mutable state with the original.
func (f *FieldSchema) Clone() *FieldSchema {
	c := *f
	if f.TypeParams != nil {
		c.TypeParams = make(map[string]any, len(f.TypeParams))
		for k, v := range f.TypeParams {
			c.TypeParams[k] = v
		}
	}
	if f.DefaultValue != nil {
		dv := *f.DefaultValue
		c.DefaultValue = &dv
	}
	return &c
}

// GetParam returns a type parameter by name, if present.
func (f *FieldSchema) GetParam(name string) (any, bool) {
	v, ok := f.TypeParams[name]
	return v, ok
}

// Dim returns the declared vector dimensionality, or 0 if absent.
func (f *FieldSchema) Dim() int {
	v, ok := f.TypeParams[TypeParamDim]
	if !ok {
		return 0
	}
	n, err := toInt64(v)
	if err != nil {
		return 0
	}
	return int(n)
}

// ToMap serializes the field into its plain nested-map wire form.
// Optional keys are present only when set; auto_id accompanies is_primary.
func (f *FieldSchema) ToMap() map[string]any {
	m := map[string]any{
		"name":        f.Name,
		"description": f.Description,
		"type":        f.DataType,
	}
	if len(f.TypeParams) > 0 {
		params := make(map[string]any, len(f.TypeParams))
		for k, v := range f.TypeParams {
			params[k] = v
		}
		m["params"] = params
	}
	if f.IsPrimary {
		m["is_primary"] = true
		m["auto_id"] = f.AutoID
	}
	if f.IsPartitionKey {
		m["is_partition_key"] = true
	}
	if f.DefaultValue.Kind() != ValueKindNone {
		m["default_value"] = f.DefaultValue
	}
	if f.IsDynamic {
		m["is_dynamic"] = true
	}
	return m
}

// FieldSchemaFromMap deserializes a field from its plain nested-map form.
// Flag values of the wrong type fail with the matching key-constraint error.
func FieldSchemaFromMap(raw map[string]any) (*FieldSchema, error) {
	name, ok := raw["name"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: field name must be a string, got %T", ErrParam, raw["name"])
	}

	dtype, err := dataTypeFromAny(raw["type"])
	if err != nil {
		return nil, fmt.Errorf("%w: field %q: %v", ErrDataTypeNotSupported, name, err)
	}

	var opts []FieldOption
	if desc, ok := raw["description"].(string); ok {
		opts = append(opts, WithFieldDescription(desc))
	}
	if params, ok := raw["params"].(map[string]any); ok {
		for k, v := range params {
			opts = append(opts, WithTypeParam(k, normalizeParam(v)))
		}
	}

	if v, present := raw["is_primary"]; present {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: is_primary of field %q must be a bool, got %T", ErrPrimaryKey, name, v)
		}
		if b {
			opts = append(opts, AsPrimaryKey())
		}
	}
	if v, present := raw["auto_id"]; present {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: auto_id of field %q must be a bool, got %T", ErrAutoID, name, v)
		}
		opts = append(opts, WithFieldAutoID(b))
	}
	if v, present := raw["is_partition_key"]; present {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: is_partition_key of field %q must be a bool, got %T", ErrPartitionKey, name, v)
		}
		if b {
			opts = append(opts, AsPartitionKey())
		}
	}
	if v, present := raw["is_dynamic"]; present {
		if b, ok := v.(bool); ok && b {
			opts = append(opts, AsDynamic())
		}
	}
	if v, present := raw["default_value"]; present && v != nil {
		dv, err := defaultValueFromAny(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		if dv != nil {
			opts = append(opts, WithDefaultValue(dv))
		}
	}

	return NewFieldSchema(name, dtype, opts...)
}

// dataTypeFromAny accepts the typed enum plus the numeric forms JSON
// decoding produces.
func dataTypeFromAny(v any) (DataType, error) {
	switch t := v.(type) {
	case DataType:
		return t, nil
	case int:
		return DataType(t), nil
	case int32:
		return DataType(t), nil
	case int64:
		return DataType(t), nil
	case float64:
		return DataType(t), nil
	default:
		return DataTypeUnknown, fmt.Errorf("type must be a data type value, got %T", v)
	}
}

// defaultValueFromAny accepts a *ValueField, its decoded JSON object, or a
// plain scalar.
func defaultValueFromAny(v any) (*ValueField, error) {
	switch d := v.(type) {
	case *ValueField:
		return d, nil
	case map[string]any:
		return valueFieldFromMap(d)
	default:
		return inferDefaultValue(v)
	}
}

// normalizeParam folds JSON float64 numbers back to int where lossless,
// so a round-tripped dim compares equal to the original.
func normalizeParam(v any) any {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return int(f)
	}
	return v
}

// Equal reports whether two field schemas serialize identically.
func (f *FieldSchema) Equal(other *FieldSchema) bool {
	if f == nil || other == nil {
		return f == other
	}
	return reflect.DeepEqual(f.ToMap(), other.ToMap())
}

func (f *FieldSchema) String() string {
	return fmt.Sprintf("FieldSchema(name=%s, type=%s)", f.Name, f.DataType)
}
