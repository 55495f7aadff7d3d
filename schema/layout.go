package schema

import "go.bytecodealliance.org/wit"

// Layout is the canonical ABI size and alignment of a value type.
type Layout struct {
	Size  uint32
	Align uint32
}

// LayoutOf computes the canonical ABI layout of t.
func LayoutOf(t wit.Type) Layout {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return Layout{Size: 1, Align: 1}
	case wit.U16, wit.S16:
		return Layout{Size: 2, Align: 2}
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return Layout{Size: 4, Align: 4}
	case wit.U64, wit.S64, wit.F64:
		return Layout{Size: 8, Align: 8}
	case wit.String:
		return Layout{Size: 8, Align: 4}
	case *wit.TypeDef:
		return layoutOfDef(typ)
	default:
		return Layout{Size: 0, Align: 1}
	}
}

func layoutOfDef(t *wit.TypeDef) Layout {
	switch kind := t.Kind.(type) {
	case *wit.Record:
		offset, maxAlign := uint32(0), uint32(1)
		for _, f := range kind.Fields {
			l := LayoutOf(f.Type)
			offset = alignTo(offset, l.Align) + l.Size
			maxAlign = max(maxAlign, l.Align)
		}
		return Layout{Size: alignTo(offset, maxAlign), Align: maxAlign}
	case *wit.Variant:
		disc := discriminantSize(len(kind.Cases))
		maxAlign, maxSize := disc, uint32(0)
		for _, c := range kind.Cases {
			if c.Type == nil {
				continue
			}
			l := LayoutOf(c.Type)
			maxAlign = max(maxAlign, l.Align)
			maxSize = max(maxSize, l.Size)
		}
		return Layout{Size: alignTo(alignTo(disc, maxAlign)+maxSize, maxAlign), Align: maxAlign}
	case *wit.List:
		return Layout{Size: 8, Align: 4}
	case *wit.Option:
		inner := LayoutOf(kind.Type)
		align := max(1, inner.Align)
		return Layout{Size: alignTo(alignTo(1, align)+inner.Size, align), Align: align}
	case wit.Type:
		return LayoutOf(kind)
	default:
		return Layout{Size: 0, Align: 1}
	}
}

func discriminantSize(n int) uint32 {
	switch {
	case n <= 1<<8:
		return 1
	case n <= 1<<16:
		return 2
	default:
		return 4
	}
}

func alignTo(offset, align uint32) uint32 {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
