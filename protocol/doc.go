// Package protocol implements the runtime contract shared by every entity
// that crosses the boundary.
//
// An entity lives in the host's handle table and is reached only through its
// handle. Three call families operate on it:
//
//   - lifecycle: default, clone, debug and free (Adopt, Clone, Debug, Free)
//   - field accessors: get/with pairs that report a status (Get, With,
//     GetString, WithString, Update)
//   - variants: as/tag/payload access on a Variant-backed entity (AsUnit,
//     AsPayload, GetTag, TakePayload, ReleaseString)
//
// Every fallible call runs inside Call, which converts structured errors into
// a status code, logs the failure, and recovers panics. No error value or
// panic crosses the boundary.
//
// Owned strings are tracked by a Ledger so tests can assert that freeing all
// handles returns every sub-value.
package protocol
