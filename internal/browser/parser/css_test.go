// internal/browser/parser/css_test.go
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper functions to build expected structures concisely
func d(prop, val string, important bool) Declaration {
	return Declaration{Property: Property(prop), Value: Value(val), Important: important}
}

func TestParseDeclarations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Declaration
	}{
		{"Single", "display: grid", []Declaration{d("display", "grid", false)}},
		{"Trailing Semicolon", "width: 10px;", []Declaration{d("width", "10px", false)}},
		{"Braced Block", "{ width: 10px; height: 5px }", []Declaration{d("width", "10px", false), d("height", "5px", false)}},
		{"Uppercase Property", "WIDTH: 10px", []Declaration{d("width", "10px", false)}},
		{"Important", "width: 10px !important", []Declaration{d("width", "10px", true)}},
		{"Function With Semicolon Free Args", "grid-template-columns: repeat(2, [a] minmax(10px, 1fr) [b])",
			[]Declaration{d("grid-template-columns", "repeat(2, [a] minmax(10px, 1fr) [b])", false)}},
		{"Quoted Value", `grid-template-areas: "a a" "b c"`, []Declaration{d("grid-template-areas", `"a a" "b c"`, false)}},
		{"Comment Skipped", "/* c */ order: 2", []Declaration{d("order", "2", false)}},
		{"Missing Colon Skipped", "width 10px; height: 4px", []Declaration{d("height", "4px", false)}},
		{"Empty Value Skipped", "width: ; height: 4px", []Declaration{d("height", "4px", false)}},
		{"Invalid Start Skipped", "1width: 3px; order: 1", []Declaration{d("order", "1", false)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInline(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseDeclarations_OverrideOrder(t *testing.T) {
	t.Run("Later Wins", func(t *testing.T) {
		got := ParseInline("width: 1px; height: 2px; width: 3px")
		assert.Equal(t, []Declaration{d("height", "2px", false), d("width", "3px", false)}, got)
	})

	t.Run("Important Sticks", func(t *testing.T) {
		got := ParseInline("width: 1px !important; width: 3px")
		assert.Equal(t, []Declaration{d("width", "1px", true)}, got)
	})

	t.Run("Important Overrides Important", func(t *testing.T) {
		got := ParseInline("width: 1px !important; width: 3px !important")
		assert.Equal(t, []Declaration{d("width", "3px", true)}, got)
	})
}

func TestTokenize(t *testing.T) {
	t.Run("Dimensions And Percentages", func(t *testing.T) {
		toks, err := Tokenize("10px 50% 1.5em -2 .5fr 1e2px")
		require.NoError(t, err)
		require.Len(t, toks, 6)

		assert.Equal(t, TokenDimension, toks[0].Kind)
		assert.Equal(t, "px", toks[0].Unit)
		assert.InDelta(t, 10.0, toks[0].Number, 1e-9)

		assert.Equal(t, TokenPercentage, toks[1].Kind)
		assert.InDelta(t, 50.0, toks[1].Number, 1e-9)

		assert.Equal(t, "em", toks[2].Unit)
		assert.InDelta(t, 1.5, toks[2].Number, 1e-9)

		assert.Equal(t, TokenNumber, toks[3].Kind)
		assert.InDelta(t, -2.0, toks[3].Number, 1e-9)

		assert.Equal(t, "fr", toks[4].Unit)
		assert.InDelta(t, 0.5, toks[4].Number, 1e-9)

		assert.Equal(t, "px", toks[5].Unit)
		assert.InDelta(t, 100.0, toks[5].Number, 1e-9)
	})

	t.Run("Nested Functions And Brackets", func(t *testing.T) {
		toks, err := Tokenize("[full-start] repeat(AUTO-FILL, [a] minmax(100px, 1fr)) [full-end]")
		require.NoError(t, err)
		require.Len(t, toks, 3)

		assert.Equal(t, TokenBracket, toks[0].Kind)
		assert.Equal(t, []string{"full-start"}, toks[0].Names)

		rep := toks[1]
		assert.Equal(t, TokenFunction, rep.Kind)
		assert.Equal(t, "repeat", rep.Text)
		args := rep.SplitArgs()
		require.Len(t, args, 2)
		assert.True(t, args[0][0].Is("auto-fill"))
		require.Len(t, args[1], 2)
		assert.Equal(t, []string{"a"}, args[1][0].Names)
		assert.Equal(t, "minmax", args[1][1].Text)
		assert.Len(t, args[1][1].SplitArgs(), 2)
	})

	t.Run("Strings And Slash", func(t *testing.T) {
		toks, err := Tokenize(`"a b" 'c' 1 / 3`)
		require.NoError(t, err)
		require.Len(t, toks, 5)
		assert.Equal(t, TokenString, toks[0].Kind)
		assert.Equal(t, "a b", toks[0].Text)
		assert.Equal(t, "c", toks[1].Text)
		assert.Equal(t, TokenSlash, toks[3].Kind)
	})

	t.Run("Errors", func(t *testing.T) {
		for _, input := range []string{"repeat(2, 1fr", "[a", `"open`, "1fr)", "[1bad]", "( 1px )"} {
			_, err := Tokenize(input)
			assert.Error(t, err, "input %q", input)
		}
	})
}
