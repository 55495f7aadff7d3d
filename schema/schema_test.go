package schema

import (
	"strings"
	"testing"

	"go.bytecodealliance.org/wit"
)

func TestRender(t *testing.T) {
	c := Color()
	b := Brush(c)

	wantBrush := `record brush {
    weight: u8,
    color: color,
    name: string,
    tags: list<string>,
    size: option<u32>,
}
`
	if got := Render(b); got != wantBrush {
		t.Errorf("brush:\n%s\nwant:\n%s", got, wantBrush)
	}

	wantColor := `variant color {
    red,
    blue,
    green,
    other(string),
}
`
	if got := Render(c); got != wantColor {
		t.Errorf("color:\n%s\nwant:\n%s", got, wantColor)
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  wit.Type
		want string
	}{
		{wit.U8{}, "u8"},
		{wit.U32{}, "u32"},
		{wit.String{}, "string"},
		{&wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}, "list<u8>"},
		{&wit.TypeDef{Kind: &wit.Option{Type: wit.String{}}}, "option<string>"},
		{Color(), "color"},
	}
	for _, tt := range tests {
		if got := TypeString(tt.typ); got != tt.want {
			t.Errorf("TypeString(%T) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestLayout(t *testing.T) {
	c := Color()
	tests := []struct {
		name string
		typ  wit.Type
		want Layout
	}{
		{"u8", wit.U8{}, Layout{1, 1}},
		{"string", wit.String{}, Layout{8, 4}},
		{"option u32", &wit.TypeDef{Kind: &wit.Option{Type: wit.U32{}}}, Layout{8, 4}},
		{"color", c, Layout{12, 4}},
		{"brush", Brush(c), Layout{40, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LayoutOf(tt.typ); got != tt.want {
				t.Errorf("LayoutOf = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExports(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range Exports() {
		if seen[e.Name] {
			t.Errorf("duplicate export %s", e.Name)
		}
		seen[e.Name] = true
	}

	for _, name := range []string{
		"brush_default", "brush_clone", "brush_debug", "brush_free",
		"brush_get_weight", "brush_with_weight",
		"color_from_red", "color_as_other", "color_get_other", "crops_string_free",
	} {
		if !seen[name] {
			t.Errorf("missing export %s", name)
		}
	}
}

func TestPrototype(t *testing.T) {
	e := Export{Name: "brush_get_name", Params: []Param{{"s", "const Brush*"}, {"buf", "char*"}, {"cap", "uint32_t"}}, Result: "int32_t"}
	if got, want := e.Prototype(), "int32_t brush_get_name(const Brush* s, char* buf, uint32_t cap);"; got != want {
		t.Errorf("Prototype() = %q, want %q", got, want)
	}
	if got := (Export{Name: "brush_default", Result: "Brush*"}).Prototype(); got != "Brush* brush_default(void);" {
		t.Errorf("Prototype() = %q", got)
	}
}

func TestHeader(t *testing.T) {
	h := Header()
	for _, want := range []string{
		"#include <stdint.h>",
		"typedef struct Brush Brush;",
		"#define CROPS_OK 0",
		"#define CROPS_NULL_ARGUMENT 1",
		"#define CROPS_FAILURE 8",
		"void brush_free(Brush* s);",
		"int32_t color_get_other(const Color* s, char** out);",
	} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}
