// Package types defines the entity types, validation rules, sentinel errors,
// and the Store interface for the Modulo backend. Entities mirror the shape
// the desktop shell consumes: camelCase JSON, RFC 3339 UTC timestamps, and
// dense zero-based positions inside each parent container.
package types
