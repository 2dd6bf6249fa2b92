package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_AddAndQuery(t *testing.T) {
	var d Diagnostics
	assert.True(t, d.IsEmpty())
	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddWarning(CodeTraitDropped, "dropped trait", "Foo", "")
	d.AddInfo(CodeMacroInOpaqueType, "note", "Foo", "a")
	assert.False(t, d.IsEmpty())
	assert.False(t, d.HasErrors())

	d.AddError(CodeTraitDropped, "bad input", "", "")
	assert.True(t, d.HasErrors())
	require.EqualError(t, d.Error(), "[trait_dropped] bad input")

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, Error, all[0].Severity)
	assert.Equal(t, Warning, all[1].Severity)
	assert.Equal(t, Info, all[2].Severity)
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{Code: CodeMacroInOpaqueType, Message: "left in place", Item: "Foo", FieldPath: "Bar.x"}
	assert.Equal(t, "[Foo] Bar.x: [macro_in_opaque_type] left in place", d.String())

	assert.Equal(t, "plain", Diagnostic{Message: "plain"}.String())
}

func TestDiagnostics_MergeAndWithItem(t *testing.T) {
	var a, b Diagnostics
	a.AddWarning(CodeTraitEmpty, "empty", "", "")
	b.AddWarning(CodeTraitDropped, "dropped", "Other", "")
	b.AddError(CodeAttributeMisspelled, "oops", "", "")

	a.Merge(b)
	assert.Len(t, a.Warnings, 2)
	assert.Len(t, a.Errors, 1)

	named := a.WithItem("Foo")
	assert.Equal(t, "Foo", named.Warnings[0].Item)
	assert.Equal(t, "Other", named.Warnings[1].Item)
	assert.Equal(t, "Foo", named.Errors[0].Item)
	assert.Nil(t, named.Infos)
	assert.Empty(t, a.Warnings[0].Item, "original is untouched")
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", Info.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "unknown", Severity(9).String())

	text, err := Warning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warning", string(text))
}
