package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"macro_derive", "macro_derive", 0},
		{"macro_derive", "macro_derve", 1},
		{"macro_derive", "macro_derives", 1},
		{"macro_derive", "derive", 6},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a))
		})
	}
}

func TestTolerance(t *testing.T) {
	assert.Equal(t, 1, Tolerance("ab"))
	assert.Equal(t, 2, Tolerance("abcdefgh"))
	assert.Equal(t, 3, Tolerance("macro_derive"))
	assert.Equal(t, 3, Tolerance("a_very_long_attribute_name"))
}

func TestClosest(t *testing.T) {
	got, ok := Closest("macro_derve", []string{"derive", "macro_derive"})
	assert.True(t, ok)
	assert.Equal(t, "macro_derive", got)

	_, ok = Closest("derive", []string{"macro_derive"})
	assert.False(t, ok)

	_, ok = Closest("macro_derive", []string{"macro_derive"})
	assert.False(t, ok)

	got, ok = Closest("ab", []string{"ac", "ad"})
	assert.True(t, ok)
	assert.Equal(t, "ac", got)
}
