package schema

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"
)

func named(name string, kind wit.TypeDefKind) *wit.TypeDef {
	return &wit.TypeDef{Name: &name, Kind: kind}
}

// Color returns the WIT definition of the Color variant. Case order matches
// the discriminants written by color_tag.
func Color() *wit.TypeDef {
	return named("color", &wit.Variant{
		Cases: []wit.Case{
			{Name: "red"},
			{Name: "blue"},
			{Name: "green"},
			{Name: "other", Type: wit.String{}},
		},
	})
}

// Brush returns the WIT definition of the Brush record. color refers to the
// definition returned by Color.
func Brush(color *wit.TypeDef) *wit.TypeDef {
	return named("brush", &wit.Record{
		Fields: []wit.Field{
			{Name: "weight", Type: wit.U8{}},
			{Name: "color", Type: color},
			{Name: "name", Type: wit.String{}},
			{Name: "tags", Type: &wit.TypeDef{Kind: &wit.List{Type: wit.String{}}}},
			{Name: "size", Type: &wit.TypeDef{Kind: &wit.Option{Type: wit.U32{}}}},
		},
	})
}

// Entities returns every entity definition in declaration order.
func Entities() []*wit.TypeDef {
	c := Color()
	return []*wit.TypeDef{Brush(c), c}
}

// TypeString renders a type reference in WIT syntax.
func TypeString(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		switch k := v.Kind.(type) {
		case *wit.List:
			return "list<" + TypeString(k.Type) + ">"
		case *wit.Option:
			return "option<" + TypeString(k.Type) + ">"
		case wit.Type:
			return TypeString(k)
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}

// Render prints a named record or variant definition in WIT syntax.
func Render(td *wit.TypeDef) string {
	name := TypeString(td)
	var sb strings.Builder
	switch k := td.Kind.(type) {
	case *wit.Record:
		fmt.Fprintf(&sb, "record %s {\n", name)
		for _, f := range k.Fields {
			fmt.Fprintf(&sb, "    %s: %s,\n", f.Name, TypeString(f.Type))
		}
		sb.WriteString("}\n")
	case *wit.Variant:
		fmt.Fprintf(&sb, "variant %s {\n", name)
		for _, c := range k.Cases {
			if c.Type == nil {
				fmt.Fprintf(&sb, "    %s,\n", c.Name)
				continue
			}
			fmt.Fprintf(&sb, "    %s(%s),\n", c.Name, TypeString(c.Type))
		}
		sb.WriteString("}\n")
	default:
		fmt.Fprintf(&sb, "type %s = %s\n", name, TypeString(td))
	}
	return sb.String()
}
