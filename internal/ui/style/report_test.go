package style

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRender(t *testing.T) {
	r := NewReport("Mint")
	r.Section("Token").
		Add("Name", "Fair Token").
		AddTone("Mint", "Mint1111", ToneAddress)
	r.Section("Result").AddTone("Outcome", "confirmed", ToneSuccess)
	r.SetStatus("done", ToneSuccess)

	out := r.String()
	for _, want := range []string{"Mint", "Token", "Name", "Fair Token", "Mint1111", "Outcome", "confirmed", "done"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "Token"), strings.Index(out, "Result"))

	var buf bytes.Buffer
	require.NoError(t, r.Print(&buf))
	assert.Equal(t, out, buf.String())
}

func TestTable(t *testing.T) {
	out := Table(DefaultStyles, []string{"SIG", "OUTCOME"}, [][]string{
		{"abc", "confirmed"},
		{"defghij", "expired"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "abc")
	assert.Contains(t, lines[2], "expired")
}

func TestStylesValueFallback(t *testing.T) {
	st := NewStyles(DefaultPalette())
	assert.Equal(t, st.Value(ToneDefault).Render("x"), st.Value(Tone(99)).Render("x"))
}
