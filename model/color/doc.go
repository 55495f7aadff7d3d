// Package color implements the Color variant entity: Red, Blue, Green, or
// Other carrying an owned string.
//
// Red is the default. Re-tagging always releases the previous Other payload
// before installing the new state. The Other payload leaves the host through
// a raw transfer (GetOther) and must come back through StringFree.
package color
