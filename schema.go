package vektria

import (
	"fmt"
	"reflect"
)

// CollectionSchema is an ordered field list plus collection-level flags.
// Construct with NewCollectionSchema; field order is significant and part
// of equality. After mutation (AddField, SetAutoID) call Verify explicitly
// to re-run validation; it is not automatic, so schemas can be built
// incrementally.
type CollectionSchema struct {
	fields             []*FieldSchema
	description        string
	enableDynamicField bool

	primaryField      *FieldSchema
	partitionKeyField *FieldSchema

	// Constructor hints retained so Verify can re-run the same checks.
	primaryName         string
	hasPrimaryName      bool
	partitionKeyName    string
	hasPartitionKeyName bool
	autoID              bool
}

// SchemaOption configures collection schema construction.
type SchemaOption func(*schemaConfig)

type schemaConfig struct {
	description        string
	primaryName        string
	hasPrimaryName     bool
	partitionKeyName   string
	hasPartitionKey    bool
	autoID             bool
	enableDynamicField bool
	skipFieldCheck     bool
}

// WithDescription sets the collection description text.
func WithDescription(desc string) SchemaOption {
	return func(c *schemaConfig) { c.description = desc }
}

// WithPrimaryField designates the primary field by name. The named field
// must exist and is flagged primary during validation.
func WithPrimaryField(name string) SchemaOption {
	return func(c *schemaConfig) {
		c.primaryName = name
		c.hasPrimaryName = true
	}
}

// WithPartitionKeyField designates the partition-key field by name.
func WithPartitionKeyField(name string) SchemaOption {
	return func(c *schemaConfig) {
		c.partitionKeyName = name
		c.hasPartitionKey = true
	}
}

// WithAutoID propagates service-generated IDs onto the primary field.
func WithAutoID(autoID bool) SchemaOption {
	return func(c *schemaConfig) { c.autoID = autoID }
}

// WithDynamicField enables the dynamic-schema catch-all field.
func WithDynamicField(enable bool) SchemaOption {
	return func(c *schemaConfig) { c.enableDynamicField = enable }
}

// WithoutFieldCheck skips field reconciliation and key validation at
// construction. For trusted, pre-validated input; call Verify later.
func WithoutFieldCheck() SchemaOption {
	return func(c *schemaConfig) { c.skipFieldCheck = true }
}

// NewCollectionSchema validates and creates a CollectionSchema.
func NewCollectionSchema(fields []*FieldSchema, opts ...SchemaOption) (*CollectionSchema, error) {
	if fields == nil {
		return nil, fmt.Errorf("%w: got nil", ErrFieldsType)
	}

	cfg := &schemaConfig{}
	for _, o := range opts {
		o(cfg)
	}

	copied := make([]*FieldSchema, len(fields))
	for i, f := range fields {
		if f == nil {
			return nil, fmt.Errorf("%w: element %d is nil", ErrFieldType, i)
		}
		copied[i] = f.Clone()
	}

	s := &CollectionSchema{
		fields:              copied,
		description:         cfg.description,
		enableDynamicField:  cfg.enableDynamicField,
		primaryName:         cfg.primaryName,
		hasPrimaryName:      cfg.hasPrimaryName,
		partitionKeyName:    cfg.partitionKeyName,
		hasPartitionKeyName: cfg.hasPartitionKey,
		autoID:              cfg.autoID,
	}

	if !cfg.skipFieldCheck {
		if err := s.checkFields(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// checkFields reconciles name hints with field flags, resolves the derived
// primary and partition-key fields and validates key constraints.
func (s *CollectionSchema) checkFields() error {
	s.primaryField = nil
	s.partitionKeyField = nil

	primaryName := s.primaryName
	hasPrimaryName := s.hasPrimaryName
	partitionKeyName := s.partitionKeyName
	hasPartitionKeyName := s.hasPartitionKeyName

	for _, f := range s.fields {
		if hasPrimaryName && primaryName == f.Name {
			f.IsPrimary = true
		}
		if hasPartitionKeyName && partitionKeyName == f.Name {
			f.IsPartitionKey = true
		}

		if f.IsPrimary {
			if hasPrimaryName && primaryName != f.Name {
				return fmt.Errorf("%w: expected only one primary key field, got %q and %q",
					ErrPrimaryKey, primaryName, f.Name)
			}
			s.primaryField = f
			primaryName = f.Name
			hasPrimaryName = true
		}

		if f.IsPartitionKey {
			if hasPartitionKeyName && partitionKeyName != f.Name {
				return fmt.Errorf("%w: expected only one partition key field, got %q and %q",
					ErrPartitionKey, partitionKeyName, f.Name)
			}
			s.partitionKeyField = f
			partitionKeyName = f.Name
			hasPartitionKeyName = true
		}
	}

	if err := validatePrimaryKey(s.primaryField); err != nil {
		return err
	}
	if err := validatePartitionKey(
		partitionKeyName, hasPartitionKeyName, s.partitionKeyField, s.primaryField.Name,
	); err != nil {
		return err
	}

	if s.autoID {
		s.primaryField.AutoID = true
	}
	return nil
}

func validatePrimaryKey(primaryField *FieldSchema) error {
	if primaryField == nil {
		return fmt.Errorf("%w: schema must have a primary key field", ErrPrimaryKey)
	}
	if primaryField.DataType != DataTypeInt64 && primaryField.DataType != DataTypeVarChar {
		return fmt.Errorf("%w: primary key field %q must be Int64 or VarChar, got %s",
			ErrPrimaryKey, primaryField.Name, primaryField.DataType)
	}
	return nil
}

func validatePartitionKey(
	partitionKeyName string, hasPartitionKeyName bool,
	partitionKeyField *FieldSchema, primaryFieldName string,
) error {
	if partitionKeyField != nil {
		if partitionKeyField.Name == primaryFieldName {
			return fmt.Errorf("%w: partition key field %q may not be the primary key field",
				ErrPartitionKey, partitionKeyField.Name)
		}
		if partitionKeyField.DataType != DataTypeInt64 && partitionKeyField.DataType != DataTypeVarChar {
			return fmt.Errorf("%w: partition key field %q must be Int64 or VarChar, got %s",
				ErrPartitionKey, partitionKeyField.Name, partitionKeyField.DataType)
		}
		return nil
	}
	if hasPartitionKeyName {
		return fmt.Errorf("%w: partition key field %q does not exist",
			ErrPartitionKey, partitionKeyName)
	}
	return nil
}

// Verify re-runs full schema validation. Call after mutating the schema
// (for example via AddField).
func (s *CollectionSchema) Verify() error {
	return s.checkFields()
}

// AddField appends a new field without re-validating the schema.
func (s *CollectionSchema) AddField(name string, dtype DataType, opts ...FieldOption) error {
	f, err := NewFieldSchema(name, dtype, opts...)
	if err != nil {
		return err
	}
	s.fields = append(s.fields, f)
	return nil
}

// Fields returns the ordered field list.
func (s *CollectionSchema) Fields() []*FieldSchema { return s.fields }

// Len returns the number of fields.
func (s *CollectionSchema) Len() int { return len(s.fields) }

// Description returns the collection description text.
func (s *CollectionSchema) Description() string { return s.description }

// PrimaryField returns the derived primary key field, if resolved.
func (s *CollectionSchema) PrimaryField() *FieldSchema { return s.primaryField }

// PartitionKeyField returns the derived partition key field, if any.
func (s *CollectionSchema) PartitionKeyField() *FieldSchema { return s.partitionKeyField }

// AutoID reports whether primary keys are service-generated.
func (s *CollectionSchema) AutoID() bool {
	if s.primaryField == nil {
		return false
	}
	return s.primaryField.AutoID
}

// SetAutoID toggles service-generated primary keys on the primary field.
func (s *CollectionSchema) SetAutoID(autoID bool) {
	s.autoID = autoID
	if s.primaryField != nil {
		s.primaryField.AutoID = autoID
	}
}

// EnableDynamicField reports whether the dynamic catch-all is enabled.
func (s *CollectionSchema) EnableDynamicField() bool { return s.enableDynamicField }

// SetEnableDynamicField toggles the dynamic catch-all.
func (s *CollectionSchema) SetEnableDynamicField(enable bool) {
	s.enableDynamicField = enable
}

// ToMap serializes the schema into its plain nested-map wire form.
func (s *CollectionSchema) ToMap() map[string]any {
	fields := make([]map[string]any, len(s.fields))
	for i, f := range s.fields {
		fields[i] = f.ToMap()
	}
	m := map[string]any{
		"auto_id":     s.AutoID(),
		"description": s.description,
		"fields":      fields,
	}
	if s.enableDynamicField {
		m["enable_dynamic_field"] = true
	}
	return m
}

// CollectionSchemaFromMap deserializes a schema from its plain nested-map
// form, validating it in full.
func CollectionSchemaFromMap(raw map[string]any) (*CollectionSchema, error) {
	rawFields, err := fieldListFromAny(raw["fields"])
	if err != nil {
		return nil, err
	}

	fields := make([]*FieldSchema, len(rawFields))
	for i, rf := range rawFields {
		fm, ok := rf.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T", ErrFieldType, i, rf)
		}
		f, err := FieldSchemaFromMap(fm)
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}

	var opts []SchemaOption
	if desc, ok := raw["description"].(string); ok {
		opts = append(opts, WithDescription(desc))
	}
	if v, present := raw["enable_dynamic_field"]; present {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: enable_dynamic_field must be a bool, got %T", ErrParam, v)
		}
		opts = append(opts, WithDynamicField(b))
	}
	return NewCollectionSchema(fields, opts...)
}

// fieldListFromAny accepts both the in-memory and JSON-decoded shapes of
// the fields list.
func fieldListFromAny(v any) ([]any, error) {
	switch list := v.(type) {
	case []any:
		return list, nil
	case []map[string]any:
		out := make([]any, len(list))
		for i, m := range list {
			out[i] = m
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrFieldsType, v)
	}
}

// Equal reports whether two schemas serialize identically, including
// field order.
func (s *CollectionSchema) Equal(other *CollectionSchema) bool {
	if s == nil || other == nil {
		return s == other
	}
	return reflect.DeepEqual(s.ToMap(), other.ToMap())
}

func (s *CollectionSchema) String() string {
	return fmt.Sprintf("CollectionSchema(fields=%d, auto_id=%t)", len(s.fields), s.AutoID())
}
