package syntax

import (
	"strconv"
	"strings"
)

// FieldPath builds a readable location string for a field.
// Examples:
//   - "Point.x" for a named struct field
//   - "Pair.1" for a tuple position
//   - "Shape::Circle.radius" for a field of an enum variant
type FieldPath struct {
	parts []string
}

// NewFieldPath creates a new FieldPath rooted at a declaration name.
func NewFieldPath(root string) *FieldPath {
	return &FieldPath{
		parts: []string{root},
	}
}

// Variant qualifies the last part with an enum variant name.
func (p *FieldPath) Variant(name string) *FieldPath {
	if len(p.parts) == 0 {
		return &FieldPath{parts: []string{name}}
	}

	newParts := make([]string, len(p.parts))
	copy(newParts, p.parts)
	newParts[len(newParts)-1] += "::" + name

	return &FieldPath{parts: newParts}
}

// Field appends a field name, or the position for tuple fields.
func (p *FieldPath) Field(f Field, index int) *FieldPath {
	name := f.Name
	if name == "" {
		name = strconv.Itoa(index)
	}

	return &FieldPath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// String returns the full path string.
func (p *FieldPath) String() string {
	return strings.Join(p.parts, ".")
}

// EachField calls fn for every field of every variant in declaration order.
// fn receives a pointer into d, so it may replace the field's type.
func (d *Declaration) EachField(fn func(path *FieldPath, f *Field)) {
	root := NewFieldPath(d.Name)

	if d.Kind != Enum {
		for i := range d.Fields.List {
			fn(root.Field(d.Fields.List[i], i), &d.Fields.List[i])
		}

		return
	}

	for vi := range d.Variants {
		v := &d.Variants[vi]
		vp := root.Variant(v.Name)

		for i := range v.Fields.List {
			fn(vp.Field(v.Fields.List[i], i), &v.Fields.List[i])
		}
	}
}

// Clone returns a copy of d whose field and variant slices are independent
// of the original. Type trees are shared; they are never mutated in place.
func (d *Declaration) Clone() *Declaration {
	c := *d
	c.Generics = append([]GenericParam(nil), d.Generics...)
	c.Fields = cloneFields(d.Fields)

	if d.Variants != nil {
		c.Variants = make([]Variant, len(d.Variants))
		for i, v := range d.Variants {
			v.Fields = cloneFields(v.Fields)
			c.Variants[i] = v
		}
	}

	return &c
}

func cloneFields(f Fields) Fields {
	if f.List != nil {
		f.List = append([]Field(nil), f.List...)
	}

	return f
}
