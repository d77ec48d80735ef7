package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := map[string]OutputMode{
		"":         ModeAuto,
		"auto":     ModeAuto,
		"TEXT":     ModeText,
		"markdown": ModeMarkdown,
		"md":       ModeMarkdown,
		" json ":   ModeJSON,
		"yaml":     ModeAuto,
	}
	for in, want := range tests {
		assert.Equal(t, want, Mode(in), "Mode(%q)", in)
	}
	assert.Len(t, ValidModes(), 4)
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
		{ModeText, false, ModeText},
		{"", false, ModeMarkdown},
	}
	for _, tt := range tests {
		r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
		assert.Equal(t, tt.want, r.EffectiveMode(), "mode=%q tty=%v", tt.mode, tt.isTTY)
	}
}

func TestNewRendererDetectsNonTerminal(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestNoColor(t *testing.T) {
	t.Setenv("CLICOLOR", "")

	t.Setenv("NO_COLOR", "")
	r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, true, ModeText)
	assert.Equal(t, DefaultStyles(), r.Styles())

	t.Setenv("NO_COLOR", "1")
	r = NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, true, ModeText)
	assert.Equal(t, PlainStyles(), r.Styles())
}

func TestHeader(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Header(2, "Tables")
	assert.Equal(t, "## Tables\n\n", out.String())

	r, out, _ = newTestRenderer(ModeText, false)
	r.Header(2, "Tables")
	assert.Equal(t, "Tables\n", out.String())
}

func TestMessagesGoToTheRightStream(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText, false)
	r.Success("done")
	r.Muted("quiet")
	r.Warning("careful")
	r.Error("broken")

	assert.Equal(t, "✓ done\nquiet\n", out.String())
	assert.Equal(t, "! careful\n✗ broken\n", errOut.String())
}

func TestStatusLine(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, false)
	r.StatusLine("a.yaml", "success", "")
	r.StatusLine("b.yaml", "error", "2 errors")
	r.StatusLine("c.yaml", "skipped", "")

	assert.Equal(t, "✓ a.yaml\n✗ b.yaml 2 errors\n- c.yaml\n", out.String())
}

func TestJSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(CheckOutput{Summary: CheckSummary{Units: 1}}))

	var got CheckOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 1, got.Summary.Units)
}

func TestTable(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Table([]string{"#", "Text"}, [][]any{{0, "hi"}, {1, "bye"}})
	md := out.String()
	assert.Contains(t, md, "| # | Text |")
	assert.Contains(t, md, "| 1 | bye |")

	r, out, _ = newTestRenderer(ModeText, false)
	r.Table([]string{"#", "Text"}, [][]any{{0, "hi"}})
	assert.Contains(t, out.String(), "┌")
	assert.Contains(t, out.String(), "hi")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Top", FormatHeader(0, "Top"))
	assert.Equal(t, "### Deep", FormatHeader(3, "Deep"))
	assert.Equal(t, "- **unit**: demo", FormatKeyValue("unit", "demo"))

	block := FormatCodeBlock("dot", "digraph {}")
	assert.True(t, strings.HasPrefix(block, "```dot\n"))
	assert.True(t, strings.HasSuffix(block, "\n```"))
}
