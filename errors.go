package vektria

import (
	"errors"

	"github.com/vektria-cloud/vektria-go/internal/registry"
)

// Validation errors. All failures surface immediately to the caller and are
// not retryable by this layer. Use errors.Is() to check.
var (
	// ErrDataTypeNotSupported signals an unrecognized or unusable data type.
	ErrDataTypeNotSupported = errors.New("data type not supported")
	// ErrFieldsType signals that a schema's field list has the wrong shape.
	ErrFieldsType = errors.New("fields must be a list of field schemas")
	// ErrFieldType signals that a field-list element is not a field schema.
	ErrFieldType = errors.New("field must be a field schema")
	// ErrPrimaryKey signals a primary-key constraint violation.
	ErrPrimaryKey = errors.New("primary key error")
	// ErrPartitionKey signals a partition-key constraint violation.
	ErrPartitionKey = errors.New("partition key error")
	// ErrAutoID signals an invalid auto_id value.
	ErrAutoID = errors.New("auto_id error")
	// ErrParam signals an invalid construction parameter.
	ErrParam = errors.New("invalid parameter")
	// ErrCannotInferSchema signals that column types cannot be resolved.
	ErrCannotInferSchema = errors.New("cannot infer schema from data")
	// ErrDataNotMatch signals that data does not reconcile with the schema.
	ErrDataNotMatch = errors.New("data does not match schema")
	// ErrUpsertAutoID signals an upsert against an auto-id schema.
	ErrUpsertAutoID = errors.New("upsert is not allowed when auto_id is enabled")
	// ErrSchemaNotReady signals an absent or incomplete schema.
	ErrSchemaNotReady = errors.New("schema not ready")
)

// Registry errors re-exported for SDK callers.
var (
	ErrCollectionNotFound = registry.ErrNotFound
	ErrCollectionExists   = registry.ErrAlreadyExists
)
