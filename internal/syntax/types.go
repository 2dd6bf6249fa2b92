package syntax

import (
	"macro-derive/internal/token"
)

// parseType parses one type expression. Shapes the walker does not descend
// into are captured as OtherType spanning up to the next top-level
// terminator.
func (p *parser) parseType() (Type, error) {
	start := p.pos

	t, err := p.parseTypeInner()
	if err != nil {
		return nil, err
	}

	// A + B: bare trait-object bounds.
	if p.peek(0).IsPunct("+") {
		p.pos = start
		return p.opaque()
	}

	return t, nil
}

func (p *parser) parseTypeInner() (Type, error) {
	t := p.peek(0)

	switch {
	case t.Kind == token.Invalid:
		return nil, p.errorf("expected type")

	case t.IsGroup(token.Paren):
		p.next()
		return parseParenType(t)

	case t.IsGroup(token.Bracket):
		p.next()
		return parseBracketType(t)

	case t.IsPunct("*"):
		p.next()
		return p.parsePtr()

	case t.IsPunct("&"):
		p.next()
		return p.parseRef()

	case t.IsPunct("!"), t.IsPunct("<"):
		return p.opaque()

	case t.IsPunct(":") && p.atPathSep():
		return p.parsePathOrMacro()

	case t.Kind == token.Ident:
		switch t.Text {
		case "fn", "unsafe", "extern", "dyn", "impl", "for", "_":
			return p.opaque()
		}

		return p.parsePathOrMacro()
	}

	return nil, p.errorf("unexpected %q in type", t.String())
}

// opaque captures raw tokens as an OtherType.
func (p *parser) opaque() (Type, error) {
	toks := p.scan(true)
	if len(toks) == 0 {
		return nil, p.errorf("expected type")
	}

	return &OtherType{Tokens: toks}, nil
}

func parseParenType(g token.Token) (Type, error) {
	if len(g.Stream) == 0 {
		return &TupleType{}, nil
	}

	elems, err := parseTypeList(g.Stream)
	if err != nil {
		return nil, err
	}

	// (T) is a parenthesised type, (T,) a one-element tuple.
	if len(elems) == 1 && !g.Stream[len(g.Stream)-1].IsPunct(",") {
		return &OtherType{Tokens: token.Stream{g}}, nil
	}

	return &TupleType{Elems: elems}, nil
}

func parseTypeList(s token.Stream) ([]Type, error) {
	p := newParser(s)

	var elems []Type

	for !p.eof() {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, t)

		if err := p.fieldSeparator(); err != nil {
			return nil, err
		}
	}

	return elems, nil
}

func parseBracketType(g token.Token) (Type, error) {
	p := newParser(g.Stream)

	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if p.eof() {
		return &SliceType{Elem: elem}, nil
	}

	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	if p.eof() {
		return nil, p.errorf("expected array length")
	}

	return &ArrayType{Elem: elem, Len: p.toks[p.pos:]}, nil
}

func (p *parser) parsePtr() (Type, error) {
	var mut bool

	switch {
	case p.peek(0).IsIdent("const"):
	case p.peek(0).IsIdent("mut"):
		mut = true
	default:
		return nil, p.errorf("expected const or mut after '*'")
	}
	p.next()

	elem, err := p.parseTypeInner()
	if err != nil {
		return nil, err
	}

	return &PtrType{Mut: mut, Elem: elem}, nil
}

func (p *parser) parseRef() (Type, error) {
	ref := &RefType{}

	if p.peek(0).IsPunct("'") {
		p.next()

		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		ref.Lifetime = name
	}

	if p.peek(0).IsIdent("mut") {
		p.next()
		ref.Mut = true
	}

	elem, err := p.parseTypeInner()
	if err != nil {
		return nil, err
	}
	ref.Elem = elem

	return ref, nil
}

func (p *parser) parsePathOrMacro() (Type, error) {
	start := p.pos

	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}

	if p.peek(0).IsPunct("!") && p.peek(1).Kind == token.Group {
		p.next()
		g := p.next()

		return &MacroType{Path: path, Delim: g.Delim, Tokens: g.Stream}, nil
	}

	// Fn(A) -> B style arguments are not traversed.
	if p.peek(0).IsGroup(token.Paren) {
		p.pos = start
		return p.opaque()
	}

	return &PathType{Path: path}, nil
}

func (p *parser) parsePath() (Path, error) {
	var path Path

	if p.atPathSep() {
		path.Leading = true
		p.pos += 2
	}

	for {
		name, err := p.expectIdent()
		if err != nil {
			return path, err
		}
		seg := Segment{Name: name}

		if p.atPathSep() && p.peek(2).IsPunct("<") {
			p.pos += 2
			seg.Turbofish = true
		}

		if p.peek(0).IsPunct("<") {
			p.next()

			seg.Angled = true
			seg.Args, err = p.parseGenericArgs()
			if err != nil {
				return path, err
			}
		}

		path.Segments = append(path.Segments, seg)

		if !p.atPathSep() {
			return path, nil
		}
		p.pos += 2
	}
}

// parseGenericArgs parses arguments after '<' through the closing '>'.
func (p *parser) parseGenericArgs() ([]GenericArg, error) {
	args := []GenericArg{}

	for {
		if p.peek(0).IsPunct(">") {
			p.next()
			return args, nil
		}

		arg, err := p.parseGenericArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		switch {
		case p.peek(0).IsPunct(","):
			p.next()
		case p.peek(0).IsPunct(">"):
		default:
			return nil, p.errorf("expected ',' or '>' in generic arguments")
		}
	}
}

func (p *parser) parseGenericArg() (GenericArg, error) {
	t := p.peek(0)

	switch {
	case t.IsPunct("'"):
		p.next()

		name, err := p.expectIdent()
		if err != nil {
			return GenericArg{}, err
		}

		return GenericArg{Kind: ArgLifetime, Name: name}, nil

	case t.Kind == token.Literal, t.IsGroup(token.Brace), t.IsPunct("-"),
		t.IsIdent("true"), t.IsIdent("false"):
		return GenericArg{Kind: ArgConst, Tokens: p.scan(false)}, nil

	case t.Kind == token.Ident && p.eqAt(1):
		p.pos += 2

		ty, err := p.parseType()
		if err != nil {
			return GenericArg{}, err
		}

		return GenericArg{Kind: ArgBinding, Name: t.Text, Type: ty}, nil

	case t.Kind == token.Ident && p.peek(1).IsPunct(":") &&
		!(p.peek(1).Spacing == token.Joint && p.peek(2).IsPunct(":")):
		return GenericArg{Kind: ArgConstraint, Tokens: p.scan(false)}, nil
	}

	ty, err := p.parseType()
	if err != nil {
		return GenericArg{}, err
	}

	return GenericArg{Kind: ArgType, Type: ty}, nil
}
