package syntax

import (
	"strings"

	"macro-derive/internal/token"
)

const indent = "    "

// FormatType renders a type expression as source text.
func FormatType(t Type) string {
	var sb strings.Builder
	writeType(&sb, t)

	return sb.String()
}

func writeType(sb *strings.Builder, t Type) {
	switch t := t.(type) {
	case *PathType:
		writePath(sb, t.Path)

	case *ArrayType:
		sb.WriteString("[")
		writeType(sb, t.Elem)
		sb.WriteString("; ")
		sb.WriteString(t.Len.String())
		sb.WriteString("]")

	case *SliceType:
		sb.WriteString("[")
		writeType(sb, t.Elem)
		sb.WriteString("]")

	case *PtrType:
		if t.Mut {
			sb.WriteString("*mut ")
		} else {
			sb.WriteString("*const ")
		}
		writeType(sb, t.Elem)

	case *RefType:
		sb.WriteString("&")
		if t.Lifetime != "" {
			sb.WriteString("'" + t.Lifetime + " ")
		}
		if t.Mut {
			sb.WriteString("mut ")
		}
		writeType(sb, t.Elem)

	case *TupleType:
		sb.WriteString("(")
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeType(sb, e)
		}
		if len(t.Elems) == 1 {
			sb.WriteString(",")
		}
		sb.WriteString(")")

	case *MacroType:
		writePath(sb, t.Path)
		sb.WriteString("!")
		sb.WriteString(t.Delim.Open())
		sb.WriteString(t.Tokens.String())
		sb.WriteString(t.Delim.Close())

	case *OtherType:
		sb.WriteString(t.Tokens.String())

	case nil:
		sb.WriteString("<nil>")
	}
}

// FormatPath renders a path as source text.
func FormatPath(p Path) string {
	var sb strings.Builder
	writePath(&sb, p)

	return sb.String()
}

func writePath(sb *strings.Builder, p Path) {
	if p.Leading {
		sb.WriteString("::")
	}

	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteString("::")
		}
		sb.WriteString(seg.Name)

		if !seg.Angled {
			continue
		}
		if seg.Turbofish {
			sb.WriteString("::")
		}
		sb.WriteString("<")
		writeArgs(sb, seg.Args)
		sb.WriteString(">")
	}
}

func writeArgs(sb *strings.Builder, args []GenericArg) {
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}

		switch a.Kind {
		case ArgType:
			writeType(sb, a.Type)
		case ArgLifetime:
			sb.WriteString("'" + a.Name)
		case ArgBinding:
			sb.WriteString(a.Name + " = ")
			writeType(sb, a.Type)
		default:
			sb.WriteString(a.Tokens.String())
		}
	}
}

// FormatGenericParams renders a parameter list including the angle
// brackets, or "" when the list is empty.
func FormatGenericParams(params []GenericParam) string {
	if len(params) == 0 {
		return ""
	}

	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = FormatGenericParam(p)
	}

	return "<" + strings.Join(parts, ", ") + ">"
}

// FormatGenericParam renders one declared parameter.
func FormatGenericParam(p GenericParam) string {
	var sb strings.Builder

	if len(p.Attrs) > 0 {
		sb.WriteString(p.Attrs.String() + " ")
	}

	switch p.Kind {
	case ConstParam:
		sb.WriteString("const " + p.Name + ": ")
		writeType(&sb, p.ConstType)
	default:
		sb.WriteString(p.Ident())
		if len(p.Bounds) > 0 {
			sb.WriteString(": " + p.Bounds.String())
		}
	}

	if len(p.Default) > 0 {
		sb.WriteString(" = " + p.Default.String())
	}

	return sb.String()
}

// FormatArgs renders generic arguments including the angle brackets, or ""
// when there are none.
func FormatArgs(args []GenericArg) string {
	if len(args) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("<")
	writeArgs(&sb, args)
	sb.WriteString(">")

	return sb.String()
}

// FormatDeclaration renders a declaration as source text.
func FormatDeclaration(d *Declaration) string {
	var sb strings.Builder

	for _, a := range d.Attrs {
		sb.WriteString(attrLine(a) + "\n")
	}

	if len(d.Vis) > 0 {
		sb.WriteString(d.Vis.String() + " ")
	}
	sb.WriteString(string(d.Kind) + " " + d.Name)
	sb.WriteString(FormatGenericParams(d.Generics))

	where := ""
	if len(d.Where) > 0 {
		where = " where " + d.Where.String()
	}

	switch {
	case d.Kind == Enum:
		sb.WriteString(where + " {\n")
		for _, v := range d.Variants {
			writeVariant(&sb, v)
		}
		sb.WriteString("}")

	case d.Fields.Style == TupleFields:
		writeTupleFields(&sb, d.Fields.List)
		sb.WriteString(where + ";")

	case d.Fields.Style == UnitFields && d.Kind == Struct:
		sb.WriteString(where + ";")

	default:
		sb.WriteString(where + " {\n")
		for _, f := range d.Fields.List {
			writeAttrs(&sb, f.Attrs, indent)
			sb.WriteString(indent + fieldPrefix(f) + f.Name + ": " + FormatType(f.Type) + ",\n")
		}
		sb.WriteString("}")
	}

	return sb.String()
}

func writeVariant(sb *strings.Builder, v Variant) {
	writeAttrs(sb, v.Attrs, indent)
	sb.WriteString(indent + v.Name)

	switch v.Fields.Style {
	case TupleFields:
		writeTupleFields(sb, v.Fields.List)
	case NamedFields:
		sb.WriteString(" {")
		for i, f := range v.Fields.List {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(" ")
			for _, a := range f.Attrs {
				sb.WriteString(a.String() + " ")
			}
			sb.WriteString(fieldPrefix(f) + f.Name + ": " + FormatType(f.Type))
		}
		sb.WriteString(" }")
	}

	if len(v.Discriminant) > 0 {
		sb.WriteString(" = " + v.Discriminant.String())
	}
	sb.WriteString(",\n")
}

func writeTupleFields(sb *strings.Builder, fields []Field) {
	sb.WriteString("(")
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		for _, a := range f.Attrs {
			sb.WriteString(a.String() + " ")
		}
		sb.WriteString(fieldPrefix(f) + FormatType(f.Type))
	}
	sb.WriteString(")")
}

func writeAttrs(sb *strings.Builder, attrs []token.Stream, prefix string) {
	for _, a := range attrs {
		sb.WriteString(prefix + attrLine(a) + "\n")
	}
}

func fieldPrefix(f Field) string {
	if len(f.Vis) == 0 {
		return ""
	}

	return f.Vis.String() + " "
}

// attrLine renders an attribute that sits on its own line. Attributes lexed
// from single-line doc comments are written back as those comments.
func attrLine(a token.Stream) string {
	if n := len(a); n > 0 {
		if c := a[n-1].Comment; c != "" && !strings.Contains(c, "\n") {
			return c
		}
	}

	return a.String()
}
