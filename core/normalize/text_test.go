package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "collapses whitespace", in: "  Ava \t the\n\nBright ", want: "Ava the Bright"},
		{name: "straightens quotes", in: "\u201CDawn\u201D and \u2018dusk\u2019", want: "\"Dawn\" and 'dusk'"},
		{name: "drops replacement characters", in: "Ava\uFFFD? sings \uFFFD\"loud\uFFFD\"", want: "Ava sings \"loud\""},
		{name: "non breaking spaces", in: "Sun\u00A0Court", want: "Sun Court"},
		{name: "composes accents", in: "Elysio\u0301n", want: "Elysi\u00F3n"},
		{name: "escape character", in: "A\u001B[0mB", want: "A[0mB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanText(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CleanText(got), "idempotent")
		})
	}
}

func TestCleanValueAndList(t *testing.T) {
	s, ok := CleanValue(42.0)
	assert.True(t, ok)
	assert.Equal(t, "42", s)

	_, ok = CleanValue("   ")
	assert.False(t, ok)
	_, ok = CleanValue([]any{"x"})
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b"}, CleanList([]any{" a ", "", nil, "b"}))
	assert.Equal(t, []string{"solo"}, CleanList("solo"))
	assert.Empty(t, CleanList(nil))
}

func TestCanonicalKey(t *testing.T) {
	assert.Equal(t, "distinctive_features", CanonicalKey("Distinctive Features"))
	assert.Equal(t, "sun_court", CanonicalKey(" Sun-Court! "))
	assert.Equal(t, "", CanonicalKey("--"))
}
