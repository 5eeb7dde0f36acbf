// Package vektria provides schema definition and data validation for the
// vektria vector store, plus a Go client for its schema registry.
//
// A collection schema is a list of typed fields with exactly one primary
// key and at least one vector field:
//
//	id, _ := vektria.NewFieldSchema("id", vektria.DataTypeInt64,
//	    vektria.AsPrimaryKey(), vektria.WithFieldAutoID(true))
//	vec, _ := vektria.NewFieldSchema("embedding", vektria.DataTypeFloatVector,
//	    vektria.WithDim(768))
//	schema, _ := vektria.NewCollectionSchema([]*vektria.FieldSchema{id, vec})
//
// Insert payloads are validated against the schema before submission.
// Data is either positional (one value list per field, in schema order)
// or tabular (a *Table of named columns):
//
//	client, _ := vektria.New(ctx, vektria.WithRedis("localhost:6379", ""))
//	_ = client.CreateCollection(ctx, "docs", schema)
//	n, _ := client.Insert(ctx, "docs", []any{vectors})
//
// Schema inference fills in what payloads leave implicit: untyped table
// columns are resolved by sampling values, and vector columns get their
// dimensionality captured automatically.
package vektria
