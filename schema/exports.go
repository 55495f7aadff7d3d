package schema

import (
	"fmt"
	"strings"

	"github.com/wippyai/crops/errors"
)

// Param is one parameter of a boundary function.
type Param struct {
	Name string
	C    string
}

// Export describes one boundary function as seen from C.
type Export struct {
	Name   string
	Params []Param
	Result string // "void" when the function returns nothing
	Doc    string
}

// Prototype renders the C declaration.
func (e Export) Prototype() string {
	params := make([]string, len(e.Params))
	for i, p := range e.Params {
		params[i] = p.C + " " + p.Name
	}
	args := "void"
	if len(params) > 0 {
		args = strings.Join(params, ", ")
	}
	return fmt.Sprintf("%s %s(%s);", e.Result, e.Name, args)
}

// HasResult reports whether the function returns a value.
func (e Export) HasResult() bool {
	return e.Result != "void"
}

func p(name, c string) Param { return Param{Name: name, C: c} }

func lifecycle(entity, typ string) []Export {
	ptr := typ + "*"
	cptr := "const " + typ + "*"
	return []Export{
		{Name: entity + "_default", Result: ptr, Doc: "Allocates a " + typ + " with default values. Returns NULL when no handle is available."},
		{Name: entity + "_clone", Params: []Param{p("s", cptr)}, Result: ptr, Doc: "Deep-copies s. The copy must be freed independently."},
		{Name: entity + "_debug", Params: []Param{p("s", cptr)}, Result: "void", Doc: "Prints s on one line."},
		{Name: entity + "_free", Params: []Param{p("s", ptr)}, Result: "void", Doc: "Frees s and everything it owns. s must not be used afterwards."},
	}
}

// Exports lists every function of the boundary.
func Exports() []Export {
	var out []Export
	out = append(out, lifecycle("brush", "Brush")...)
	out = append(out,
		Export{Name: "brush_from_weight_name", Params: []Param{p("weight", "uint8_t"), p("name", "const char*")}, Result: "Brush*", Doc: "Allocates a Brush with the given weight and a copy of name."},
		Export{Name: "brush_get_weight", Params: []Param{p("s", "const Brush*"), p("out", "uint8_t*")}, Result: "int32_t"},
		Export{Name: "brush_with_weight", Params: []Param{p("s", "Brush*"), p("value", "uint8_t")}, Result: "int32_t"},
		Export{Name: "brush_get_color", Params: []Param{p("s", "const Brush*"), p("out", "Color*")}, Result: "int32_t", Doc: "Copies the color into the caller-owned out."},
		Export{Name: "brush_with_color", Params: []Param{p("s", "Brush*"), p("value", "const Color*")}, Result: "int32_t", Doc: "Copies value. The caller keeps ownership of value."},
		Export{Name: "brush_get_name", Params: []Param{p("s", "const Brush*"), p("buf", "char*"), p("cap", "uint32_t")}, Result: "int32_t", Doc: "Copies the name and a NUL into buf. The caller owns buf."},
		Export{Name: "brush_with_name", Params: []Param{p("s", "Brush*"), p("value", "const char*")}, Result: "int32_t"},
		Export{Name: "brush_name_len", Params: []Param{p("s", "const Brush*"), p("out", "uint32_t*")}, Result: "int32_t"},
		Export{Name: "brush_push_tags", Params: []Param{p("s", "Brush*"), p("value", "const char*")}, Result: "int32_t"},
		Export{Name: "brush_get_tags", Params: []Param{p("s", "const Brush*"), p("index", "uint32_t"), p("buf", "char*"), p("cap", "uint32_t")}, Result: "int32_t", Doc: "Copies tag index and a NUL into buf. The caller owns buf."},
		Export{Name: "brush_remove_tags", Params: []Param{p("s", "Brush*"), p("index", "uint32_t"), p("buf", "char*"), p("cap", "uint32_t")}, Result: "int32_t", Doc: "Removes tag index, copying it into buf unless buf is NULL."},
		Export{Name: "brush_tags_len", Params: []Param{p("s", "const Brush*"), p("out", "uint32_t*")}, Result: "int32_t"},
		Export{Name: "brush_replace_size", Params: []Param{p("s", "Brush*"), p("value", "uint32_t")}, Result: "int32_t"},
		Export{Name: "brush_take_size", Params: []Param{p("s", "Brush*"), p("out", "uint32_t*")}, Result: "int32_t"},
		Export{Name: "brush_get_size", Params: []Param{p("s", "const Brush*"), p("out", "uint32_t*")}, Result: "int32_t"},
	)
	out = append(out, lifecycle("color", "Color")...)
	for _, v := range []string{"red", "blue", "green"} {
		out = append(out, Export{Name: "color_from_" + v, Result: "Color*"})
	}
	for _, v := range []string{"red", "blue", "green"} {
		out = append(out, Export{Name: "color_as_" + v, Params: []Param{p("s", "Color*")}, Result: "int32_t"})
	}
	out = append(out,
		Export{Name: "color_as_other", Params: []Param{p("s", "Color*"), p("value", "const char*")}, Result: "int32_t"},
		Export{Name: "color_tag", Params: []Param{p("s", "const Color*"), p("out", "uint32_t*")}, Result: "int32_t", Doc: "Writes 0 red, 1 blue, 2 green or 3 other."},
		Export{Name: "color_get_other", Params: []Param{p("s", "const Color*"), p("out", "char**")}, Result: "int32_t", Doc: "Stores a new NUL-terminated copy of the payload in *out. Release it with crops_string_free."},
		Export{Name: "crops_string_free", Params: []Param{p("s", "char*")}, Result: "int32_t", Doc: "Releases a string returned by color_get_other."},
	)
	return out
}

// Header renders a C header declaring the whole boundary.
func Header() string {
	var sb strings.Builder
	sb.WriteString("#pragma once\n\n#include <stdint.h>\n\n")
	sb.WriteString("typedef struct Brush Brush;\ntypedef struct Color Color;\n\n")
	for s := errors.StatusOK; s <= errors.StatusFailure; s++ {
		fmt.Fprintf(&sb, "#define CROPS_%s %d\n", strings.ToUpper(s.String()), int32(s))
	}
	sb.WriteString("\n")
	for _, e := range Exports() {
		if e.Doc != "" {
			fmt.Fprintf(&sb, "/* %s */\n", e.Doc)
		}
		sb.WriteString(e.Prototype())
		sb.WriteString("\n")
	}
	return sb.String()
}
