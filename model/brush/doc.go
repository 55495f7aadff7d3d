// Package brush implements the Brush struct entity.
//
// Each field uses the accessor family of its type:
//
//	weight  u8           get/with
//	color   Color        get/with through a caller-owned Color handle
//	name    string       get/with/name_len, buffer descriptor output
//	tags    []string     push/get/remove/tags_len, buffer descriptor output
//	size    optional u32 replace/take/get
//
// String outputs are written into caller-owned buffers. The caller keeps
// ownership of both the buffer and any Color handle passed in.
package brush
