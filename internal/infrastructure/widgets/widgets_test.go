package widgets

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/stackrender/internal/question"
)

func TestText(t *testing.T) {
	t.Parallel()

	w := NewText("ans1", 0)
	got := w.Render(&State{Contents: `x<2 & "y"`}, "xqcas_7_ans1", false, "2")
	require.Equal(t, `<input type="text" name="xqcas_7_ans1" id="xqcas_7_ans1" size="15" value="x&lt;2 &amp; &#34;y&#34;">`, got)

	ro := w.Render(nil, "f", true, "")
	require.Contains(t, ro, `value=""`)
	require.Contains(t, ro, `readonly="readonly"`)
	require.True(t, w.RequiresValidation())
	require.False(t, w.SuppressesOwnValidationUI())
}

func TestMatrix(t *testing.T) {
	t.Parallel()

	w := NewMatrix("m", 2, 2)
	var _ question.MatrixWidget = w

	got := w.Render(&State{Contents: "1,2;3"}, "f", false, "")
	require.Contains(t, got, `id="f_sub_0_1" size="5" value="2"`)
	require.Contains(t, got, `id="f_sub_1_0" size="5" value="3"`)
	require.Contains(t, got, `id="f_sub_1_1" size="5" value=""`)
	require.Equal(t, 2, w.DisplayWidth())
	require.Equal(t, 2, w.DisplayHeight())
}

func TestChoice(t *testing.T) {
	t.Parallel()

	radio := NewChoice("c", ChoiceRadio, []string{"a", "b"})
	got := radio.Render(&State{Contents: "b"}, "f", false, "")
	require.Contains(t, got, `<input type="radio" name="f" id="f_1" value="b" checked="checked"> b`)
	require.True(t, radio.SuppressesOwnValidationUI())
	require.False(t, radio.RequiresValidation())

	boolean := NewChoice("c", ChoiceBoolean, nil)
	require.Contains(t, boolean.Render(&State{Contents: "false"}, "f", true, ""),
		`<option value="false" selected="selected">false</option>`)
	require.Contains(t, boolean.Render(nil, "f", true, ""), `disabled="disabled"`)

	check := NewChoice("c", ChoiceCheckbox, []string{"x", "y"})
	out := check.Render(&State{Contents: "x, y"}, "f", false, "")
	require.Contains(t, out, `type="checkbox" name="f" id="f_0" value="x" checked="checked"`)
	require.Contains(t, out, `type="checkbox" name="f" id="f_1" value="y" checked="checked"`)
}

func TestReplaceValidationMarkersAndFactory(t *testing.T) {
	t.Parallel()

	w := New("algebraic", "a", 0, 0, nil)
	require.Equal(t, "x SHELL y [[validation:b]]",
		w.ReplaceValidationMarkers(nil, "f", "x [[validation:a]] y [[validation:b]]", "SHELL"))

	require.IsType(t, &Matrix{}, New("matrix", "m", 2, 3, nil))
	require.IsType(t, &Choice{}, New("dropdown", "d", 0, 0, []string{"1"}))

	var malformed *State
	require.False(t, malformed.Valid())
	require.False(t, (&State{Malformed: true}).Valid())
	require.True(t, (&State{}).Valid())
}
