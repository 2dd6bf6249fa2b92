package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macro-derive/internal/diagnostic"
	"macro-derive/internal/syntax"
	"macro-derive/internal/token"
)

func names(paths []syntax.Path) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = syntax.FormatPath(p)
	}

	return out
}

func TestParseTraitList(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "Debug", []string{"Debug"}},
		{"empty candidate dropped", "Debug, ,Clone", []string{"Debug", "Clone"}},
		{"trailing comma", "Debug, Clone,", []string{"Debug", "Clone"}},
		{"consecutive commas", "Debug,,,Clone", []string{"Debug", "Clone"}},
		{"qualified paths", "serde::Serialize, ::core::fmt::Debug", []string{"serde::Serialize", "::core::fmt::Debug"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traits, diags, err := ParseTraitList(tt.src)
			require.NoError(t, err)
			assert.True(t, diags.IsEmpty(), diags.All())

			if tt.want == nil {
				assert.Empty(t, traits)
				return
			}
			assert.Equal(t, tt.want, names(traits))
		})
	}
}

func TestParseTraits_DropsMalformed(t *testing.T) {
	traits, diags := ParseTraits(token.MustLex("Debug, 3, Clone, &Foo"))

	assert.Equal(t, []string{"Debug", "Clone"}, names(traits))
	require.Len(t, diags.Warnings, 2)
	assert.Equal(t, diagnostic.CodeTraitDropped, diags.Warnings[0].Code)
	assert.Contains(t, diags.Warnings[0].Message, `"3"`)
	assert.False(t, diags.HasErrors())
}

func TestParseTraits_NestedCommaDoesNotSplit(t *testing.T) {
	traits, diags := ParseTraits(token.MustLex("Into<(u8, u16)>, Clone"))

	assert.True(t, diags.IsEmpty())
	assert.Equal(t, []string{"Into<(u8, u16)>", "Clone"}, names(traits))
}

func TestParseTraits_AllDropped(t *testing.T) {
	traits, diags := ParseTraits(token.MustLex("1, 2"))

	assert.Empty(t, traits)
	require.Len(t, diags.Warnings, 3)
	assert.Equal(t, diagnostic.CodeTraitEmpty, diags.Warnings[2].Code)
}

func TestParseTraitList_LexError(t *testing.T) {
	_, _, err := ParseTraitList("Debug, (Clone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to lex trait list")
}

func TestStrict(t *testing.T) {
	_, diags := ParseTraits(token.MustLex("Debug, 3"))

	strict := Strict(diags)
	require.Len(t, strict.Errors, 1)
	assert.Equal(t, diagnostic.Error, strict.Errors[0].Severity)
	assert.Equal(t, diagnostic.CodeTraitDropped, strict.Errors[0].Code)
	assert.Empty(t, strict.Warnings)
	require.Error(t, strict.Error())
}

func TestAttribute(t *testing.T) {
	assert.Empty(t, Attribute(nil))

	traits, _, err := ParseTraitList("Debug, serde::Serialize")
	require.NoError(t, err)
	assert.Equal(t, "#[derive(Debug, serde::Serialize)]", Attribute(traits))
}
