package token

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const punctChars = "+-*/%^!&|=<>@.,;:#$?~"

// Error is a lexical error with its position.
type Error struct {
	Pos Pos
	Msg string
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Lex splits src into a token forest. Whitespace and plain comments are
// discarded; brackets must balance. Doc comments become doc attributes
// (/// x lexes as #[doc = " x"], //! x as #![doc = " x"]) whose bracket
// group remembers the comment text.
func Lex(src string) (Stream, error) {
	l := &lexer{src: src, line: 1, col: 1}

	return l.stream(0, Pos{})
}

// MustLex is Lex for known-good input such as test fixtures. It panics on
// error.
func MustLex(src string) Stream {
	s, err := Lex(src)
	if err != nil {
		panic(err)
	}

	return s
}

type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func (l *lexer) pos() Pos {
	return Pos{Offset: l.off, Line: l.line, Col: l.col}
}

func (l *lexer) eof() bool {
	return l.off >= len(l.src)
}

func (l *lexer) peek(n int) byte {
	if l.off+n >= len(l.src) {
		return 0
	}

	return l.src[l.off+n]
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.off < len(l.src); i++ {
		if l.src[l.off] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.off++
	}
}

func (l *lexer) errorf(p Pos, format string, args ...any) error {
	return &Error{Pos: p, Msg: fmt.Sprintf(format, args...)}
}

// stream lexes tokens until the closing delimiter (0 at top level).
func (l *lexer) stream(closer byte, open Pos) (Stream, error) {
	var out Stream

	for {
		if err := l.skipSpace(); err != nil {
			return nil, err
		}

		if l.eof() {
			if closer != 0 {
				return nil, l.errorf(open, "unclosed delimiter %q", string(openerOf(closer)))
			}

			return out, nil
		}

		start := l.pos()
		c := l.src[l.off]

		switch {
		case c == ')' || c == ']' || c == '}':
			if c != closer {
				return nil, l.errorf(start, "unexpected closing delimiter %q", string(c))
			}

			return out, nil

		case c == '(' || c == '[' || c == '{':
			l.advance(1)
			inner, err := l.stream(closerOf(c), start)
			if err != nil {
				return nil, err
			}
			l.advance(1)
			out = append(out, Token{Kind: Group, Delim: delimOf(c), Stream: inner, Pos: start, End: l.off})

		case c == '/' && l.atDocComment():
			toks, err := l.docComment(start)
			if err != nil {
				return nil, err
			}
			out = append(out, toks...)

		case c == '"':
			if err := l.quoted('"'); err != nil {
				return nil, err
			}
			out = append(out, l.token(Literal, start))

		case c == '\'':
			toks, err := l.quote(start)
			if err != nil {
				return nil, err
			}
			out = append(out, toks...)

		case c >= '0' && c <= '9':
			l.number()
			out = append(out, l.token(Literal, start))

		case l.prefixedLiteral():
			if err := l.literalWithPrefix(); err != nil {
				return nil, err
			}
			out = append(out, l.token(Literal, start))

		case strings.IndexByte(punctChars, c) >= 0:
			l.advance(1)
			t := l.token(Punct, start)
			if !l.eof() && strings.IndexByte(punctChars, l.src[l.off]) >= 0 {
				t.Spacing = Joint
			}
			out = append(out, t)

		default:
			r, _ := utf8.DecodeRuneInString(l.src[l.off:])
			if !isIdentStart(r) {
				return nil, l.errorf(start, "unexpected character %q", r)
			}
			l.ident()
			out = append(out, l.token(Ident, start))
		}
	}
}

func (l *lexer) token(kind Kind, start Pos) Token {
	return Token{Kind: kind, Text: l.src[start.Offset:l.off], Pos: start, End: l.off}
}

func (l *lexer) skipSpace() error {
	for !l.eof() {
		c := l.src[l.off]

		switch {
		case c == '/' && (l.peek(1) == '/' || l.peek(1) == '*'):
			if l.atDocComment() {
				return nil
			}
			if l.peek(1) == '/' {
				for !l.eof() && l.src[l.off] != '\n' {
					l.advance(1)
				}
				continue
			}
			if err := l.blockComment(l.pos(), 0); err != nil {
				return err
			}
		default:
			r, size := utf8.DecodeRuneInString(l.src[l.off:])
			if !unicode.IsSpace(r) {
				return nil
			}
			l.advance(size)
		}
	}

	return nil
}

// blockComment consumes a possibly nested block comment. depth counts the
// openers already consumed.
func (l *lexer) blockComment(start Pos, depth int) error {
	for {
		if l.eof() {
			return l.errorf(start, "unterminated block comment")
		}
		if l.src[l.off] == '/' && l.peek(1) == '*' {
			depth++
			l.advance(2)
			continue
		}
		if l.src[l.off] == '*' && l.peek(1) == '/' {
			depth--
			l.advance(2)
			if depth == 0 {
				return nil
			}
			continue
		}
		l.advance(1)
	}
}

// atDocComment reports whether a doc comment starts here. Four slashes or
// stars make a plain comment.
func (l *lexer) atDocComment() bool {
	rest := l.src[l.off:]

	switch {
	case strings.HasPrefix(rest, "///"):
		return !strings.HasPrefix(rest, "////")
	case strings.HasPrefix(rest, "/**"):
		return !strings.HasPrefix(rest, "/***") && !strings.HasPrefix(rest, "/**/")
	default:
		return strings.HasPrefix(rest, "//!") || strings.HasPrefix(rest, "/*!")
	}
}

// docComment lexes a doc comment into the attribute tokens it stands for.
// Inner comments (//! and /*!) document the enclosing item.
func (l *lexer) docComment(start Pos) (Stream, error) {
	line := l.peek(1) == '/'
	inner := l.peek(2) == '!'
	l.advance(3)
	from := l.off

	var body string
	if line {
		for !l.eof() && l.src[l.off] != '\n' {
			l.advance(1)
		}
		body = strings.TrimSuffix(l.src[from:l.off], "\r")
	} else {
		if err := l.blockComment(start, 1); err != nil {
			return nil, err
		}
		body = l.src[from : l.off-2]
	}

	end := l.off
	at := func(t Token) Token {
		t.Pos, t.End = start, end
		return t
	}

	out := Stream{at(NewPunct("#", Alone))}
	if inner {
		out[0].Spacing = Joint
		out = append(out, at(NewPunct("!", Alone)))
	}

	group := at(NewGroup(Bracket, Stream{
		at(NewIdent("doc")),
		at(NewPunct("=", Alone)),
		at(NewLiteral(docLiteral(body))),
	}))
	group.Comment = strings.TrimSuffix(l.src[start.Offset:end], "\r")

	return append(out, group), nil
}

// docLiteral quotes a doc comment body as a string literal.
func docLiteral(body string) string {
	var sb strings.Builder
	sb.WriteByte('"')

	for _, r := range body {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

// ident consumes an identifier, including the raw form r#name.
func (l *lexer) ident() {
	if l.src[l.off] == 'r' && l.peek(1) == '#' {
		l.advance(2)
	}

	for !l.eof() {
		r, size := utf8.DecodeRuneInString(l.src[l.off:])
		if !isIdentContinue(r) {
			return
		}
		l.advance(size)
	}
}

// quote handles a leading apostrophe: a char literal or a lifetime.
func (l *lexer) quote(start Pos) (Stream, error) {
	if l.peek(1) == '\\' {
		if err := l.quoted('\''); err != nil {
			return nil, err
		}

		return Stream{l.token(Literal, start)}, nil
	}

	r, size := utf8.DecodeRuneInString(l.src[l.off+1:])
	if r == utf8.RuneError && size <= 1 {
		return nil, l.errorf(start, "unexpected apostrophe")
	}

	if l.peek(1+size) == '\'' {
		l.advance(2 + size)

		return Stream{l.token(Literal, start)}, nil
	}

	if !isIdentStart(r) {
		return nil, l.errorf(start, "invalid lifetime or char literal")
	}

	l.advance(1)
	tick := l.token(Punct, start)
	tick.Spacing = Joint

	nameStart := l.pos()
	l.ident()

	return Stream{tick, l.token(Ident, nameStart)}, nil
}

// quoted consumes a quoted literal with backslash escapes.
func (l *lexer) quoted(q byte) error {
	start := l.pos()
	l.advance(1)

	for !l.eof() {
		switch l.src[l.off] {
		case '\\':
			l.advance(2)
		case q:
			l.advance(1)
			l.suffix()

			return nil
		default:
			l.advance(1)
		}
	}

	return l.errorf(start, "unterminated literal")
}

// prefixedLiteral reports whether a byte/raw string or byte char starts here.
func (l *lexer) prefixedLiteral() bool {
	rest := l.src[l.off:]

	for _, p := range []string{`b"`, `b'`, `br"`, `br#`, `r"`, `r#"`, `r##`, `c"`, `cr"`, `cr#`} {
		if strings.HasPrefix(rest, p) {
			return true
		}
	}

	return false
}

func (l *lexer) literalWithPrefix() error {
	start := l.pos()

	raw := false
	for !l.eof() && (l.src[l.off] == 'b' || l.src[l.off] == 'c' || l.src[l.off] == 'r') {
		raw = raw || l.src[l.off] == 'r'
		l.advance(1)
	}

	if !raw {
		return l.quoted(l.src[l.off])
	}

	hashes := 0
	for !l.eof() && l.src[l.off] == '#' {
		hashes++
		l.advance(1)
	}

	if l.eof() || l.src[l.off] != '"' {
		return l.errorf(start, "malformed raw string")
	}
	l.advance(1)

	closing := `"` + strings.Repeat("#", hashes)
	idx := strings.Index(l.src[l.off:], closing)
	if idx < 0 {
		return l.errorf(start, "unterminated raw string")
	}
	l.advance(idx + len(closing))
	l.suffix()

	return nil
}

// number consumes an integer or float literal with an optional suffix.
func (l *lexer) number() {
	hex := l.src[l.off] == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X')

	for !l.eof() {
		c := l.src[l.off]

		switch {
		case isDigit(c) || isLetter(c) || c == '_':
			l.advance(1)
		case c == '.' && isDigit(l.peek(1)):
			l.advance(1)
		case (c == '+' || c == '-') && !hex && l.off > 0 &&
			(l.src[l.off-1] == 'e' || l.src[l.off-1] == 'E') && isDigit(l.peek(1)):
			l.advance(1)
		default:
			return
		}
	}
}

// suffix consumes an identifier suffix glued to a literal ("x"foo).
func (l *lexer) suffix() {
	if l.eof() {
		return
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.off:])
	if isIdentStart(r) {
		l.ident()
	}
}

func openerOf(c byte) byte {
	switch c {
	case ')':
		return '('
	case ']':
		return '['
	default:
		return '{'
	}
}

func closerOf(c byte) byte {
	switch c {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}

func delimOf(c byte) Delimiter {
	switch c {
	case '(':
		return Paren
	case '[':
		return Bracket
	default:
		return Brace
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
