package syntax

import (
	"strconv"

	"macro-derive/internal/token"
)

// TypeKind represents the kind of a type expression.
type TypeKind int

const (
	TypeKindOther TypeKind = iota // any shape not subject to traversal
	TypeKindPath                  // a::b::C<T, 'a>
	TypeKindArray                 // [T; N]
	TypeKindSlice                 // [T]
	TypeKindPtr                   // *const T / *mut T
	TypeKindRef                   // &'a mut T
	TypeKindTuple                 // (A, B)
	TypeKindMacro                 // m![...]
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindPath:
		return "path"
	case TypeKindArray:
		return "array"
	case TypeKindSlice:
		return "slice"
	case TypeKindPtr:
		return "pointer"
	case TypeKindRef:
		return "reference"
	case TypeKindTuple:
		return "tuple"
	case TypeKindMacro:
		return "macro"
	default:
		return "other"
	}
}

// Type is a node of the type-expression tree.
type Type interface {
	Kind() TypeKind
}

// PathType is a (possibly generic) named type.
type PathType struct {
	Path Path
}

// ArrayType is a fixed-length array. Len is kept as raw tokens.
type ArrayType struct {
	Elem Type
	Len  token.Stream
}

// SliceType is an unsized slice.
type SliceType struct {
	Elem Type
}

// PtrType is a raw pointer.
type PtrType struct {
	Mut  bool
	Elem Type
}

// RefType is a reference with an optional lifetime (stored without the
// apostrophe).
type RefType struct {
	Lifetime string
	Mut      bool
	Elem     Type
}

// TupleType is a tuple; zero elements is the unit type.
type TupleType struct {
	Elems []Type
}

// MacroType is a macro invocation in type position. Its argument tokens are
// opaque: they are never parsed as types.
type MacroType struct {
	Path   Path
	Delim  token.Delimiter
	Tokens token.Stream
}

// OtherType carries grammar that is passed through untouched: function
// pointers, trait objects, impl Trait, qualified paths, parenthesised types.
type OtherType struct {
	Tokens token.Stream
}

func (*PathType) Kind() TypeKind  { return TypeKindPath }
func (*ArrayType) Kind() TypeKind { return TypeKindArray }
func (*SliceType) Kind() TypeKind { return TypeKindSlice }
func (*PtrType) Kind() TypeKind   { return TypeKindPtr }
func (*RefType) Kind() TypeKind   { return TypeKindRef }
func (*TupleType) Kind() TypeKind { return TypeKindTuple }
func (*MacroType) Kind() TypeKind { return TypeKindMacro }
func (*OtherType) Kind() TypeKind { return TypeKindOther }

// Key returns the structural identity of the invocation: two invocations
// have equal keys iff they name the same macro path with the same delimiter
// and the same argument tokens.
func (m *MacroType) Key() string {
	return FormatPath(m.Path) + "!" + strconv.Itoa(int(m.Delim)) + "{" + m.Tokens.Key() + "}"
}

// Path is a "::"-separated name.
type Path struct {
	Leading  bool // starts with "::"
	Segments []Segment
}

// Segment is one path segment with its optional angle-bracketed arguments.
type Segment struct {
	Name      string
	Turbofish bool // written as name::<...>
	Angled    bool // has an argument list, possibly empty
	Args      []GenericArg
}

// SimplePath builds a path from plain identifiers.
func SimplePath(names ...string) Path {
	segs := make([]Segment, len(names))
	for i, n := range names {
		segs[i] = Segment{Name: n}
	}

	return Path{Segments: segs}
}

// ArgKind is the kind of a generic argument.
type ArgKind int

const (
	ArgType       ArgKind = iota // Vec<T>
	ArgLifetime                  // Foo<'a>
	ArgConst                     // [T; N] style const: Foo<3>, Foo<{ N + 1 }>
	ArgBinding                   // Iterator<Item = T>
	ArgConstraint                // Foo<Item: Bound>, kept raw
)

// GenericArg is a single argument of an angle-bracketed list.
type GenericArg struct {
	Kind   ArgKind
	Type   Type         // ArgType, ArgBinding
	Name   string       // ArgLifetime (without apostrophe), ArgBinding
	Tokens token.Stream // ArgConst, ArgConstraint
}

// ParamKind is the kind of a generic parameter.
type ParamKind int

const (
	TypeParam ParamKind = iota
	LifetimeParam
	ConstParam
)

// String returns a human-readable parameter kind.
func (k ParamKind) String() string {
	switch k {
	case LifetimeParam:
		return "lifetime"
	case ConstParam:
		return "const"
	default:
		return "type"
	}
}

// GenericParam is one declared generic parameter.
type GenericParam struct {
	Kind      ParamKind
	Attrs     token.Stream
	Name      string       // lifetimes are stored without the apostrophe
	Bounds    token.Stream // raw tokens after ':'
	Default   token.Stream // raw tokens after '='; type and const params only
	ConstType Type         // const params only
}

// Ident returns the parameter as it is written at a use site: 'a, T or N.
func (p GenericParam) Ident() string {
	if p.Kind == LifetimeParam {
		return "'" + p.Name
	}

	return p.Name
}

// WithoutDefault returns a copy of p with any default value removed.
func (p GenericParam) WithoutDefault() GenericParam {
	p.Default = nil
	return p
}

// Arg returns p as a positional generic argument.
func (p GenericParam) Arg() GenericArg {
	switch p.Kind {
	case LifetimeParam:
		return GenericArg{Kind: ArgLifetime, Name: p.Name}
	case ConstParam:
		return GenericArg{Kind: ArgConst, Tokens: token.Stream{token.NewIdent(p.Name)}}
	default:
		return GenericArg{Kind: ArgType, Type: &PathType{Path: SimplePath(p.Name)}}
	}
}

// DeclKind is the keyword introducing a declaration.
type DeclKind string

const (
	Struct DeclKind = "struct"
	Enum   DeclKind = "enum"
	Union  DeclKind = "union"
)

// FieldStyle describes how a field list is written.
type FieldStyle int

const (
	UnitFields  FieldStyle = iota // no fields
	NamedFields                   // { a: A, b: B }
	TupleFields                   // (A, B)
)

// Fields is a record body.
type Fields struct {
	Style FieldStyle
	List  []Field
}

// Field is one record field. Name is empty for tuple positions.
type Field struct {
	Attrs []token.Stream
	Vis   token.Stream
	Name  string
	Type  Type
}

// Variant is one alternative of an enum.
type Variant struct {
	Attrs        []token.Stream
	Name         string
	Fields       Fields
	Discriminant token.Stream
}

// Declaration is a struct, enum or union item.
type Declaration struct {
	Attrs    []token.Stream // each attribute as written: '#' followed by a bracket group
	Vis      token.Stream
	Kind     DeclKind
	Name     string
	Generics []GenericParam
	Where    token.Stream // predicates after 'where'; nil without a where clause
	Fields   Fields       // struct and union
	Variants []Variant    // enum
}

// Param returns the declared generic parameter with the given name.
func (d *Declaration) Param(name string) (GenericParam, bool) {
	for _, p := range d.Generics {
		if p.Name == name {
			return p, true
		}
	}

	return GenericParam{}, false
}

// AttrPath returns the path of an attribute (serde in #[serde(...)]) and
// the tokens following it inside the brackets.
func AttrPath(attr token.Stream) (string, token.Stream, bool) {
	if len(attr) != 2 || !attr[0].IsPunct("#") || !attr[1].IsGroup(token.Bracket) {
		return "", nil, false
	}

	inner := attr[1].Stream
	if len(inner) == 0 || inner[0].Kind != token.Ident {
		return "", nil, false
	}

	name := inner[0].Text
	i := 1

	for i+2 < len(inner) && inner[i].IsPunct(":") && inner[i+1].IsPunct(":") &&
		inner[i+2].Kind == token.Ident {
		name += "::" + inner[i+2].Text
		i += 3
	}

	return name, inner[i:], true
}
