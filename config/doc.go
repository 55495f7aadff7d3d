// Package config loads crops.toml.
//
//	[runtime]
//	memory_limit_pages = 16
//	max_handles = 4096
//	serialize_calls = false
//
//	[debug]
//	output = "stdout"   # stdout, stderr or discard
//
//	[log]
//	level = "info"
//	development = false
//
//	[guest]
//	memory_pages = 1
//	heap_base = 1024
//
// Missing keys keep their defaults.
package config
