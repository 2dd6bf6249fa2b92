package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(s Stream) []Kind {
	out := make([]Kind, len(s))
	for i, t := range s {
		out[i] = t.Kind
	}

	return out
}

func texts(s Stream) []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = t.Text
	}

	return out
}

func TestLex_Basics(t *testing.T) {
	s, err := Lex("pub struct Foo<T> { a: Vec<T>, }")
	require.NoError(t, err)

	assert.Equal(t, []Kind{Ident, Ident, Ident, Punct, Ident, Punct, Group}, kinds(s))
	assert.Equal(t, Brace, s[6].Delim)
	assert.Equal(t, []string{"a", ":", "Vec", "<", "T", ">", ","}, texts(s[6].Stream))
}

func TestLex_Lifetimes(t *testing.T) {
	s := MustLex("&'a str")
	require.Len(t, s, 4)

	assert.True(t, s[1].IsPunct("'"))
	assert.Equal(t, Joint, s[1].Spacing)
	assert.True(t, s[2].IsIdent("a"))
	assert.True(t, s[3].IsIdent("str"))
	assert.True(t, s[1:3].Equal(Lifetime("a")))
}

func TestLex_Literals(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"42", "42"},
		{"42u8", "42u8"},
		{"0x1F_u32", "0x1F_u32"},
		{"1.5e-3f64", "1.5e-3f64"},
		{`"a \"quoted\" str"`, `"a \"quoted\" str"`},
		{`b"bytes"`, `b"bytes"`},
		{`r#"raw "str""#`, `r#"raw "str""#`},
		{`br##"x"#y"##`, `br##"x"#y"##`},
		{`'x'`, `'x'`},
		{`'\n'`, `'\n'`},
		{`b'a'`, `b'a'`},
		{`'é'`, `'é'`},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			s, err := Lex(tt.src)
			require.NoError(t, err)
			require.Len(t, s, 1)
			assert.Equal(t, Literal, s[0].Kind)
			assert.Equal(t, tt.want, s[0].Text)
		})
	}
}

func TestLex_RangeIsNotFloat(t *testing.T) {
	s := MustLex("0..10")
	assert.Equal(t, []string{"0", ".", ".", "10"}, texts(s))
}

func TestLex_RawIdent(t *testing.T) {
	s := MustLex("r#type")
	require.Len(t, s, 1)
	assert.Equal(t, Ident, s[0].Kind)
	assert.Equal(t, "r#type", s[0].Text)
}

func TestLex_Spacing(t *testing.T) {
	s := MustLex("a::b -> c")
	require.Len(t, s, 7)

	assert.Equal(t, Joint, s[1].Spacing)
	assert.Equal(t, Alone, s[2].Spacing)
	assert.Equal(t, Joint, s[4].Spacing)
	assert.Equal(t, Alone, s[5].Spacing)
}

func TestLex_Comments(t *testing.T) {
	s := MustLex(`
		// plain comment
		//// four slashes
		/***/ /**/ /*** stars ***/
		struct /* inline /* nested */ comment */ Foo; // trailing
	`)

	assert.Equal(t, []string{"struct", "Foo", ";"}, texts(s))
}

func TestLex_DocComments(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    string
		comment string
	}{
		{"line", "/// Public docs.\n", `#[doc = " Public docs."]`, "/// Public docs."},
		{"line crlf", "///x\r\n", `#[doc = "x"]`, "///x"},
		{"inner line", "//! Crate docs.", `#![doc = " Crate docs."]`, "//! Crate docs."},
		{"block", "/** Block \"quoted\" */", `#[doc = " Block \"quoted\" "]`, `/** Block "quoted" */`},
		{"inner block", "/*! a\n b */", `#![doc = " a\n b "]`, "/*! a\n b */"},
		{"nested block", "/** a /* b */ c */", `#[doc = " a /* b */ c "]`, "/** a /* b */ c */"},
		{"backslash", `/// a\b`, `#[doc = " a\\b"]`, `/// a\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MustLex(tt.src)
			assert.Equal(t, tt.want, s.String())

			group := s[len(s)-1]
			require.True(t, group.IsGroup(Bracket))
			assert.Equal(t, tt.comment, group.Comment)

			again := MustLex(s.String())
			assert.True(t, s.Equal(again), "desugared form lexes to the same tokens")
		})
	}
}

func TestLex_DocCommentPositions(t *testing.T) {
	s := MustLex("struct S;\n/// Docs.\nstruct T;")
	require.Len(t, s, 8)

	assert.True(t, s[3].IsPunct("#"))
	assert.Equal(t, Pos{Offset: 10, Line: 2, Col: 1}, s[3].Pos)
	assert.Equal(t, 19, s[4].End)
	assert.True(t, s[5].IsIdent("struct"))
}

func TestLex_UnterminatedDocComment(t *testing.T) {
	_, err := Lex("/** never closed")
	require.EqualError(t, err, "1:1: unterminated block comment")
}

func TestLex_Positions(t *testing.T) {
	s := MustLex("a\n  bc")
	require.Len(t, s, 2)

	assert.Equal(t, Pos{Offset: 0, Line: 1, Col: 1}, s[0].Pos)
	assert.Equal(t, Pos{Offset: 4, Line: 2, Col: 3}, s[1].Pos)
	assert.Equal(t, 6, s[1].End)
	assert.Equal(t, "2:3", s[1].Pos.String())
}

func TestLex_GroupEnd(t *testing.T) {
	s := MustLex("x [a, (b)] y")
	require.Len(t, s, 3)
	assert.Equal(t, 2, s[1].Pos.Offset)
	assert.Equal(t, 10, s[1].End)
}

func TestLex_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"unclosed", "foo(bar", `1:4: unclosed delimiter "("`},
		{"mismatched", "foo(bar]", `1:8: unexpected closing delimiter "]"`},
		{"stray closer", "a }", `1:3: unexpected closing delimiter "}"`},
		{"unterminated string", `"abc`, "1:1: unterminated literal"},
		{"unterminated comment", "/* x", "1:1: unterminated block comment"},
		{"bad character", "a ` b", "1:3: unexpected character '`'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.src)
			require.Error(t, err)

			var lexErr *Error
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestMustLex_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLex("(") })
}
