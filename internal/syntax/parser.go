package syntax

import (
	"fmt"

	"macro-derive/internal/token"
)

// ParseError is a syntax error at a token position.
type ParseError struct {
	Pos token.Pos
	Msg string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ParseDeclaration parses a struct, enum or union item. The stream must
// hold exactly one item.
func ParseDeclaration(s token.Stream) (*Declaration, error) {
	p := newParser(s)

	d, err := p.parseDeclaration()
	if err != nil {
		return nil, err
	}

	if !p.eof() {
		return nil, p.errorf("unexpected %q after declaration", p.peek(0).String())
	}

	return d, nil
}

// ParseType parses a single type expression spanning the whole stream.
func ParseType(s token.Stream) (Type, error) {
	p := newParser(s)

	t, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if !p.eof() {
		return nil, p.errorf("unexpected %q after type", p.peek(0).String())
	}

	return t, nil
}

// ParsePath parses a path spanning the whole stream.
func ParsePath(s token.Stream) (Path, error) {
	p := newParser(s)

	path, err := p.parsePath()
	if err != nil {
		return Path{}, err
	}

	if !p.eof() {
		return Path{}, p.errorf("unexpected %q after path", p.peek(0).String())
	}

	return path, nil
}

type parser struct {
	toks token.Stream
	pos  int
}

func newParser(s token.Stream) *parser {
	return &parser{toks: s}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.toks)
}

// peek returns the token n positions ahead, or an Invalid token.
func (p *parser) peek(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return token.Token{}
	}

	return p.toks[p.pos+n]
}

func (p *parser) next() token.Token {
	t := p.peek(0)
	if !p.eof() {
		p.pos++
	}

	return t
}

func (p *parser) errorf(format string, args ...any) error {
	var pos token.Pos

	switch {
	case !p.eof():
		pos = p.toks[p.pos].Pos
	case len(p.toks) > 0:
		pos = p.toks[len(p.toks)-1].Pos
	}

	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expectPunct(ch string) error {
	if !p.peek(0).IsPunct(ch) {
		return p.errorf("expected %q", ch)
	}
	p.next()

	return nil
}

func (p *parser) expectIdent() (string, error) {
	t := p.peek(0)
	if t.Kind != token.Ident {
		return "", p.errorf("expected identifier")
	}
	p.next()

	return t.Text, nil
}

// atPathSep reports whether "::" starts at the cursor.
func (p *parser) atPathSep() bool {
	a, b := p.peek(0), p.peek(1)

	return a.IsPunct(":") && a.Spacing == token.Joint && b.IsPunct(":")
}

// afterArrow reports whether the token at the cursor is the '>' of "->".
func (p *parser) afterArrow() bool {
	if p.pos == 0 || p.eof() {
		return false
	}
	prev := p.toks[p.pos-1]

	return prev.IsPunct("-") && prev.Spacing == token.Joint
}

// atColon reports whether a lone ':' (not "::") is at the cursor.
func (p *parser) atColon() bool {
	return p.peek(0).IsPunct(":") && !p.atPathSep()
}

// atEq reports whether a lone '=' (not "==" or "=>") is at the cursor.
func (p *parser) atEq() bool {
	return p.eqAt(0)
}

func (p *parser) eqAt(n int) bool {
	t := p.peek(n)
	if !t.IsPunct("=") {
		return false
	}

	if t.Spacing == token.Joint {
		next := p.peek(n + 1)
		return !next.IsPunct("=") && !next.IsPunct(">")
	}

	return true
}

// scan consumes raw tokens up to a top-level terminator: ',' ';' or an
// unmatched '>', and '=' when stopAtEq is set. Angle brackets are tracked
// so that commas inside Foo<A, B> do not terminate; the '>' of "->" is not
// a closing bracket.
func (p *parser) scan(stopAtEq bool) token.Stream {
	start := p.pos
	depth := 0

	for !p.eof() {
		t := p.peek(0)

		if t.Kind == token.Punct {
			switch t.Text {
			case "<":
				depth++
			case ">":
				if !p.afterArrow() {
					if depth == 0 {
						return p.toks[start:p.pos]
					}
					depth--
				}
			case ",", ";":
				if depth == 0 {
					return p.toks[start:p.pos]
				}
			case "=":
				if depth == 0 && stopAtEq && p.atEq() {
					return p.toks[start:p.pos]
				}
			}
		}

		p.next()
	}

	return p.toks[start:p.pos]
}

func (p *parser) parseAttrs() []token.Stream {
	var attrs []token.Stream

	for p.peek(0).IsPunct("#") && p.peek(1).IsGroup(token.Bracket) {
		attrs = append(attrs, p.toks[p.pos:p.pos+2])
		p.pos += 2
	}

	return attrs
}

func (p *parser) parseVis() token.Stream {
	if !p.peek(0).IsIdent("pub") {
		return nil
	}

	start := p.pos
	p.next()

	if g := p.peek(0); g.IsGroup(token.Paren) && len(g.Stream) > 0 {
		switch g.Stream[0].Text {
		case "crate", "self", "super", "in":
			p.next()
		}
	}

	return p.toks[start:p.pos]
}

func (p *parser) parseDeclaration() (*Declaration, error) {
	d := &Declaration{
		Attrs: p.parseAttrs(),
		Vis:   p.parseVis(),
	}

	kw := p.peek(0)
	switch {
	case kw.IsIdent("struct"):
		d.Kind = Struct
	case kw.IsIdent("enum"):
		d.Kind = Enum
	case kw.IsIdent("union"):
		d.Kind = Union
	default:
		return nil, p.errorf("expected struct, enum or union")
	}
	p.next()

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	d.Name = name

	if p.peek(0).IsPunct("<") {
		d.Generics, err = p.parseGenericParams()
		if err != nil {
			return nil, err
		}
	}

	switch d.Kind {
	case Struct:
		err = p.parseStructBody(d)
	case Enum:
		err = p.parseEnumBody(d)
	case Union:
		err = p.parseUnionBody(d)
	}
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (p *parser) parseStructBody(d *Declaration) error {
	if g := p.peek(0); g.IsGroup(token.Paren) {
		p.next()

		fields, err := parseTupleFields(g.Stream)
		if err != nil {
			return err
		}
		d.Fields = fields
		d.Where = p.parseWhere()

		return p.expectPunct(";")
	}

	d.Where = p.parseWhere()

	if p.peek(0).IsPunct(";") {
		p.next()
		d.Fields = Fields{Style: UnitFields}

		return nil
	}

	g := p.peek(0)
	if !g.IsGroup(token.Brace) {
		return p.errorf("expected struct body")
	}
	p.next()

	fields, err := parseNamedFields(g.Stream)
	if err != nil {
		return err
	}
	d.Fields = fields

	return nil
}

func (p *parser) parseEnumBody(d *Declaration) error {
	d.Where = p.parseWhere()

	g := p.peek(0)
	if !g.IsGroup(token.Brace) {
		return p.errorf("expected enum body")
	}
	p.next()

	variants, err := parseVariants(g.Stream)
	if err != nil {
		return err
	}
	d.Variants = variants

	return nil
}

func (p *parser) parseUnionBody(d *Declaration) error {
	d.Where = p.parseWhere()

	g := p.peek(0)
	if !g.IsGroup(token.Brace) {
		return p.errorf("expected union body")
	}
	p.next()

	fields, err := parseNamedFields(g.Stream)
	if err != nil {
		return err
	}
	d.Fields = fields

	return nil
}

// parseWhere consumes a where clause up to the body brace group or ';'.
func (p *parser) parseWhere() token.Stream {
	if !p.peek(0).IsIdent("where") {
		return nil
	}
	p.next()

	start := p.pos
	depth := 0

	for !p.eof() {
		t := p.peek(0)

		switch {
		case t.IsPunct("<"):
			depth++
		case t.IsPunct(">") && depth > 0 && !p.afterArrow():
			depth--
		case depth == 0 && (t.IsGroup(token.Brace) || t.IsPunct(";")):
			if p.pos == start {
				return nil
			}

			return p.toks[start:p.pos]
		}

		p.next()
	}

	return p.toks[start:p.pos]
}

func (p *parser) parseGenericParams() ([]GenericParam, error) {
	if err := p.expectPunct("<"); err != nil {
		return nil, err
	}

	var params []GenericParam

	for {
		if p.peek(0).IsPunct(">") {
			p.next()
			return params, nil
		}

		param, err := p.parseGenericParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)

		switch {
		case p.peek(0).IsPunct(","):
			p.next()
		case p.peek(0).IsPunct(">"):
		default:
			return nil, p.errorf("expected ',' or '>' in generic parameters")
		}
	}
}

func (p *parser) parseGenericParam() (GenericParam, error) {
	var param GenericParam

	for _, a := range p.parseAttrs() {
		param.Attrs = append(param.Attrs, a...)
	}

	switch t := p.peek(0); {
	case t.IsPunct("'"):
		p.next()
		name, err := p.expectIdent()
		if err != nil {
			return param, err
		}
		param.Kind = LifetimeParam
		param.Name = name

		if p.atColon() {
			p.next()
			param.Bounds = p.scan(false)
		}

	case t.IsIdent("const") && p.peek(1).Kind == token.Ident:
		p.next()
		param.Kind = ConstParam
		param.Name = p.next().Text

		if !p.atColon() {
			return param, p.errorf("expected ':' after const parameter %s", param.Name)
		}
		p.next()

		ty, err := p.parseType()
		if err != nil {
			return param, err
		}
		param.ConstType = ty

		if p.atEq() {
			p.next()
			param.Default = p.scan(false)
		}

	case t.Kind == token.Ident:
		p.next()
		param.Kind = TypeParam
		param.Name = t.Text

		if p.atColon() {
			p.next()
			param.Bounds = p.scan(true)
		}

		if p.atEq() {
			p.next()
			param.Default = p.scan(false)
		}

	default:
		return param, p.errorf("expected generic parameter")
	}

	return param, nil
}

func parseNamedFields(s token.Stream) (Fields, error) {
	p := newParser(s)
	fields := Fields{Style: NamedFields}

	for !p.eof() {
		f := Field{
			Attrs: p.parseAttrs(),
			Vis:   p.parseVis(),
		}

		name, err := p.expectIdent()
		if err != nil {
			return fields, err
		}
		f.Name = name

		if !p.atColon() {
			return fields, p.errorf("expected ':' after field %s", name)
		}
		p.next()

		f.Type, err = p.parseType()
		if err != nil {
			return fields, fmt.Errorf("field %s: %w", name, err)
		}
		fields.List = append(fields.List, f)

		if err := p.fieldSeparator(); err != nil {
			return fields, err
		}
	}

	return fields, nil
}

func parseTupleFields(s token.Stream) (Fields, error) {
	p := newParser(s)
	fields := Fields{Style: TupleFields}

	for !p.eof() {
		f := Field{
			Attrs: p.parseAttrs(),
			Vis:   p.parseVis(),
		}

		ty, err := p.parseType()
		if err != nil {
			return fields, fmt.Errorf("field %d: %w", len(fields.List), err)
		}
		f.Type = ty
		fields.List = append(fields.List, f)

		if err := p.fieldSeparator(); err != nil {
			return fields, err
		}
	}

	return fields, nil
}

func (p *parser) fieldSeparator() error {
	if p.eof() {
		return nil
	}

	return p.expectPunct(",")
}

func parseVariants(s token.Stream) ([]Variant, error) {
	p := newParser(s)

	var variants []Variant

	for !p.eof() {
		v := Variant{Attrs: p.parseAttrs()}

		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		v.Name = name

		switch g := p.peek(0); {
		case g.IsGroup(token.Brace):
			p.next()
			v.Fields, err = parseNamedFields(g.Stream)
		case g.IsGroup(token.Paren):
			p.next()
			v.Fields, err = parseTupleFields(g.Stream)
		default:
			v.Fields = Fields{Style: UnitFields}
		}
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", name, err)
		}

		if p.atEq() {
			p.next()
			v.Discriminant = p.scan(false)
		}
		variants = append(variants, v)

		if err := p.fieldSeparator(); err != nil {
			return nil, err
		}
	}

	return variants, nil
}
