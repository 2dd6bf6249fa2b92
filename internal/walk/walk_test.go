package walk

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macro-derive/internal/syntax"
	"macro-derive/internal/token"
)

func mustType(t *testing.T, src string) syntax.Type {
	t.Helper()

	ty, err := syntax.ParseType(token.MustLex(src))
	require.NoError(t, err)

	return ty
}

func formatAll(ms []*syntax.MacroType) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = syntax.FormatType(m)
	}

	return out
}

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"none", "Vec<T>", []string{}},
		{"root", "Mac![T]", []string{"Mac![T]"}},
		{"generic argument", "Outer<Inner![T], U>", []string{"Inner![T]"}},
		{"left to right", "Map<A![], B![]>", []string{"A![]", "B![]"}},
		{"outer segment first", "a::B<X![]>::C<Y![]>", []string{"X![]", "Y![]"}},
		{"dedup", "(M![x], Vec<M![x]>, M![y])", []string{"M![x]", "M![y]"}},
		{"array", "[M![T]; 3]", []string{"M![T]"}},
		{"slice", "[M![T]]", []string{"M![T]"}},
		{"pointer", "*const M![T]", []string{"M![T]"}},
		{"reference", "&'a mut M![T]", []string{"M![T]"}},
		{"binding", "Iterator<Item = M![T]>", []string{"M![T]"}},
		{"nested args are opaque", "Outer![Inner![T]]", []string{"Outer![Inner![T]]"}},
		{"fn pointer not traversed", "fn(M![T]) -> u8", []string{}},
		{"trait object not traversed", "Box<dyn Tr<M![T]>>", []string{}},
		{"parenthesised not traversed", "(M![T])", []string{}},
		{"three levels", "[(u8, Vec<Option<M![T]>>); 2]", []string{"M![T]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Find(mustType(t, tt.src))
			assert.Equal(t, tt.want, formatAll(got), spew.Sdump(got))
			assert.Equal(t, len(tt.want) > 0, Contains(mustType(t, tt.src)))
		})
	}
}

func TestCollector(t *testing.T) {
	c := NewCollector()

	first := c.Add(mustType(t, "Pair<A![], B![]>"))
	second := c.Add(mustType(t, "Pair<B![], C![]>"))

	assert.Equal(t, []string{"A![]", "B![]"}, formatAll(first))
	assert.Equal(t, []string{"B![]", "C![]"}, formatAll(second), "local results repeat earlier roots")
	assert.Equal(t, []string{"A![]", "B![]", "C![]"}, formatAll(c.Macros()))
}

func TestOpaque(t *testing.T) {
	ty := mustType(t, "(fn(M![T]), Vec<dyn Tr>, u8)")

	opaque := Opaque(ty)
	require.Len(t, opaque, 2)
	assert.Equal(t, "fn(M![T])", opaque[0].Tokens.String())
	assert.Equal(t, "dyn Tr", opaque[1].Tokens.String())
}

func TestMacroCalls(t *testing.T) {
	assert.Equal(t, []string{"M", "N"}, MacroCalls(token.MustLex("fn(M![T], (x, N!{y})) -> u8")))
	assert.Empty(t, MacroCalls(token.MustLex("fn(T) -> u8")))
	assert.Empty(t, MacroCalls(token.MustLex("a != b")))
}

func TestRewrite(t *testing.T) {
	ty := mustType(t, "(Outer<Inner![T], U>, [Other![]; 2], &'a *mut Inner![T], Keep![x])")
	found := Find(ty)
	require.Len(t, found, 3)

	subs := make(Substitutions)
	subs.Add(found[0], &syntax.PathType{Path: syntax.SimplePath("A")})
	subs.Add(found[1], &syntax.PathType{Path: syntax.SimplePath("B")})

	out := Rewrite(ty, subs)

	assert.Equal(t, "(Outer<A, U>, [B; 2], &'a *mut A, Keep![x])", syntax.FormatType(out))
	assert.Equal(t, "(Outer<Inner![T], U>, [Other![]; 2], &'a *mut Inner![T], Keep![x])",
		syntax.FormatType(ty), "input is not modified")
}

func TestRewrite_StructuralPreservation(t *testing.T) {
	for _, src := range []string{
		"Vec<T>",
		"()",
		"(T,)",
		"Foo<>",
		"[Option<&'a str>; N]",
		"::a::b::<T>",
		"HashMap<K, V, Item = u8, 'a, 3>",
		"fn(T) -> U",
		"*const [T]",
	} {
		t.Run(src, func(t *testing.T) {
			ty := mustType(t, src)
			out := Rewrite(ty, Substitutions{})

			assert.Equal(t, ty, out)
			assert.Equal(t, src, syntax.FormatType(out))
		})
	}
}

func TestRewrite_MacroRoot(t *testing.T) {
	ty := mustType(t, "M![T]")
	repl := &syntax.PathType{Path: syntax.SimplePath("Alias")}

	subs := make(Substitutions)
	subs.Add(ty.(*syntax.MacroType), repl)

	assert.Same(t, repl, Rewrite(ty, subs))
}
