package sanitizer_test

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/sanitizer"
)

func TestContext_Scalars(t *testing.T) {
	t.Parallel()

	in := map[string]any{
		"name":          "  Carlo \n",
		"total_rentals": 8,
		"minutes":       int64(240),
		"ratio":         0.25,
		"whole":         float64(45),
		"users":         uint32(1000),
		"number":        json.Number("42"),
	}

	out := sanitizer.Context(in)

	assert.Equal(t, "Carlo", out["name"])
	assert.Equal(t, "8", out["total_rentals"])
	assert.Equal(t, "240", out["minutes"])
	assert.Equal(t, "0.25", out["ratio"])
	assert.Equal(t, "45", out["whole"])
	assert.Equal(t, "1000", out["users"])
	assert.Equal(t, "42", out["number"])
}

func TestContext_TruncatesToMaxLength(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", sanitizer.DefaultMaxLength+500)
	out := sanitizer.Context(map[string]any{"bio": long})

	require.Len(t, out["bio"], sanitizer.DefaultMaxLength)
}

func TestContext_TruncatesByRunes(t *testing.T) {
	t.Parallel()

	out := sanitizer.Context(map[string]any{"v": "ééééé"}, sanitizer.WithMaxLength(3))

	require.Equal(t, "ééé", out["v"])
	require.Equal(t, 3, utf8.RuneCountInString(out["v"].(string)))
}

func TestContext_NoTrailingWhitespaceAfterCut(t *testing.T) {
	t.Parallel()

	out := sanitizer.Context(map[string]any{"v": "abc   def"}, sanitizer.WithMaxLength(5))

	require.Equal(t, "abc", out["v"])
}

func TestContext_NonScalarsPassThrough(t *testing.T) {
	t.Parallel()

	games := []any{
		map[string]any{"name": "  Mario Kart 8  ", "total_minutes": 180},
		map[string]any{"name": strings.Repeat("x", 2000)},
	}
	nested := map[string]any{"fav": " PS5 "}

	in := map[string]any{
		"top_games": games,
		"nested":    nested,
		"active":    true,
		"missing":   nil,
	}

	out := sanitizer.Context(in)

	assert.Equal(t, games, out["top_games"])
	assert.Equal(t, nested, out["nested"])
	assert.Equal(t, true, out["active"])
	assert.Contains(t, out, "missing")
	assert.Nil(t, out["missing"])
}

func TestContext_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := map[string]any{"name": "  Carlo  ", "count": 3}
	_ = sanitizer.Context(in)

	assert.Equal(t, "  Carlo  ", in["name"])
	assert.Equal(t, 3, in["count"])
}

func TestContext_ScalarInvariant(t *testing.T) {
	t.Parallel()

	in := map[string]any{
		"a": "   ",
		"b": "\t" + strings.Repeat("z ", 900) + "\n",
		"c": -17,
		"d": 3.5,
		"e": strings.Repeat("é", 1500),
	}

	out := sanitizer.Context(in)

	for key, v := range out {
		s, ok := v.(string)
		require.True(t, ok, key)
		require.LessOrEqual(t, utf8.RuneCountInString(s), sanitizer.DefaultMaxLength, key)
		require.Equal(t, strings.TrimSpace(s), s, key)
	}
}

func TestContext_WithHTMLStripping(t *testing.T) {
	t.Parallel()

	in := map[string]any{"name": " <b>Carlo</b><script>alert(1)</script> "}

	plain := sanitizer.Context(in)
	stripped := sanitizer.Context(in, sanitizer.WithHTMLStripping())

	assert.Equal(t, "<b>Carlo</b><script>alert(1)</script>", plain["name"])
	assert.Equal(t, "Carlo", stripped["name"])
}

func TestContext_WithHTMLSanitizing(t *testing.T) {
	t.Parallel()

	in := map[string]any{
		"note":  ` <strong>MVP</strong> of <em>Smash</em><script>alert(1)</script> `,
		"count": 12,
	}

	out := sanitizer.Context(in, sanitizer.WithHTMLSanitizing())

	assert.Equal(t, "<strong>MVP</strong> of <em>Smash</em>", out["note"])
	assert.Equal(t, "12", out["count"])
	assert.Contains(t, in["note"], "<script>", "input is not modified")
}

func TestContext_LastHTMLOptionWins(t *testing.T) {
	t.Parallel()

	in := map[string]any{"note": "<em>hi</em>"}

	out := sanitizer.Context(in, sanitizer.WithHTMLSanitizing(), sanitizer.WithHTMLStripping())
	assert.Equal(t, "hi", out["note"])

	out = sanitizer.Context(in, sanitizer.WithHTMLStripping(), sanitizer.WithHTMLMode(sanitizer.HTMLKeep))
	assert.Equal(t, "<em>hi</em>", out["note"])
}

func TestParseHTMLMode(t *testing.T) {
	t.Parallel()

	tests := map[string]sanitizer.HTMLMode{
		"":      sanitizer.HTMLKeep,
		"false": sanitizer.HTMLKeep,
		"keep":  sanitizer.HTMLKeep,
		"true":  sanitizer.HTMLStrip,
		"Strip": sanitizer.HTMLStrip,
		" safe": sanitizer.HTMLSafe,
	}
	for in, want := range tests {
		got, err := sanitizer.ParseHTMLMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		assert.NotEmpty(t, got.String())
	}

	_, err := sanitizer.ParseHTMLMode("escape")
	require.ErrorIs(t, err, sanitizer.ErrUnknownHTMLMode)
}

func TestContext_IgnoresNonPositiveMaxLength(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", sanitizer.DefaultMaxLength+1)
	out := sanitizer.Context(map[string]any{"v": long}, sanitizer.WithMaxLength(0))

	require.Len(t, out["v"], sanitizer.DefaultMaxLength)
}
