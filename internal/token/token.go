package token

import (
	"strconv"
	"strings"
)

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind is the kind of a token tree.
type Kind int

const (
	Invalid Kind = iota
	Ident
	Punct
	Literal
	Group
)

// Spacing tells whether a punctuation token is immediately followed by
// another punctuation token ("::", "->", "'a").
type Spacing int

const (
	Alone Spacing = iota
	Joint
)

// String returns a human-readable spacing name.
func (s Spacing) String() string {
	if s == Joint {
		return "joint"
	}

	return "alone"
}

// Delimiter is the delimiter of a group.
type Delimiter int

const (
	NoDelim Delimiter = iota
	Paren
	Bracket
	Brace
)

// Open returns the opening delimiter text.
func (d Delimiter) Open() string {
	switch d {
	case Paren:
		return "("
	case Bracket:
		return "["
	case Brace:
		return "{"
	default:
		return ""
	}
}

// Close returns the closing delimiter text.
func (d Delimiter) Close() string {
	switch d {
	case Paren:
		return ")"
	case Bracket:
		return "]"
	case Brace:
		return "}"
	default:
		return ""
	}
}

// Pos is a source position. Offset is a byte offset, Line and Col are 1-based.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

// String returns "line:col".
func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// Token is a single token tree: an identifier, a punctuation character, a
// literal or a delimited group holding a nested stream.
type Token struct {
	Kind    Kind
	Text    string    // identifier name, punctuation character or literal source
	Spacing Spacing   // puncts only
	Delim   Delimiter // groups only
	Stream  Stream    // groups only
	Pos     Pos       // start of the token
	End     int       // byte offset just past the token

	// Comment is the source of the doc comment a doc attribute's bracket
	// group was lexed from. It does not take part in Equal or Key.
	Comment string
}

// Stream is an ordered sequence of token trees.
type Stream []Token

// NewIdent returns an identifier token.
func NewIdent(name string) Token {
	return Token{Kind: Ident, Text: name}
}

// NewPunct returns a punctuation token.
func NewPunct(ch string, spacing Spacing) Token {
	return Token{Kind: Punct, Text: ch, Spacing: spacing}
}

// NewLiteral returns a literal token with the given source text.
func NewLiteral(text string) Token {
	return Token{Kind: Literal, Text: text}
}

// NewGroup returns a delimited group.
func NewGroup(delim Delimiter, s Stream) Token {
	return Token{Kind: Group, Delim: delim, Stream: s}
}

// Lifetime returns the two tokens making up a lifetime ('name).
func Lifetime(name string) Stream {
	return Stream{NewPunct("'", Joint), NewIdent(name)}
}

// IsIdent reports whether t is the identifier name.
func (t Token) IsIdent(name string) bool {
	return t.Kind == Ident && t.Text == name
}

// IsPunct reports whether t is the punctuation character ch.
func (t Token) IsPunct(ch string) bool {
	return t.Kind == Punct && t.Text == ch
}

// IsGroup reports whether t is a group with the given delimiter.
func (t Token) IsGroup(d Delimiter) bool {
	return t.Kind == Group && t.Delim == d
}

// Equal reports whether two tokens are structurally equal. Positions are
// ignored.
func (t Token) Equal(o Token) bool {
	if t.Kind != o.Kind {
		return false
	}

	switch t.Kind {
	case Group:
		return t.Delim == o.Delim && t.Stream.Equal(o.Stream)
	case Punct:
		return t.Text == o.Text && t.Spacing == o.Spacing
	default:
		return t.Text == o.Text
	}
}

// Equal reports whether two streams are structurally equal.
func (s Stream) Equal(o Stream) bool {
	if len(s) != len(o) {
		return false
	}

	for i := range s {
		if !s[i].Equal(o[i]) {
			return false
		}
	}

	return true
}

// Key returns an unambiguous encoding of the stream's structure. Two streams
// have the same key iff they are Equal.
func (s Stream) Key() string {
	var sb strings.Builder
	s.writeKey(&sb)

	return sb.String()
}

func (s Stream) writeKey(sb *strings.Builder) {
	for _, t := range s {
		switch t.Kind {
		case Group:
			sb.WriteString("G")
			sb.WriteString(strconv.Itoa(int(t.Delim)))
			sb.WriteString("{")
			t.Stream.writeKey(sb)
			sb.WriteString("}")
		case Punct:
			sb.WriteString("P")
			sb.WriteString(t.Text)
			if t.Spacing == Joint {
				sb.WriteString("j")
			} else {
				sb.WriteString("a")
			}
		case Ident:
			sb.WriteString("I")
			sb.WriteString(strconv.Itoa(len(t.Text)))
			sb.WriteString(":")
			sb.WriteString(t.Text)
		case Literal:
			sb.WriteString("L")
			sb.WriteString(strconv.Itoa(len(t.Text)))
			sb.WriteString(":")
			sb.WriteString(t.Text)
		}
	}
}

// Split splits the stream on top-level punctuation tokens equal to sep.
// Separators nested inside groups never split. A trailing separator yields
// a trailing empty stream.
func (s Stream) Split(sep string) []Stream {
	var (
		parts []Stream
		start int
	)

	for i, t := range s {
		if t.IsPunct(sep) {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	return append(parts, s[start:])
}

// Clone returns a deep copy of the stream.
func (s Stream) Clone() Stream {
	if s == nil {
		return nil
	}

	out := make(Stream, len(s))
	for i, t := range s {
		out[i] = t
		if t.Kind == Group {
			out[i].Stream = t.Stream.Clone()
		}
	}

	return out
}
