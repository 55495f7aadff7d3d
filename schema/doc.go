// Package schema describes the boundary: WIT definitions of its entities and
// the C prototypes of every exported function.
package schema
