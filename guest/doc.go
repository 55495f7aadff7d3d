// Package guest builds and drives synthetic WebAssembly caller modules.
//
// A shim imports boundary functions from a host module and re-exports them
// under the same names. It defines its own memory, exported as "memory", and
// a bump allocator exported as "cabi_realloc" that never frees. That is
// enough for Go code to play the part of an unmanaged caller: it places
// strings in the shim's memory, passes pointers to the boundary, and reads
// back what the host wrote.
package guest
