package render

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/stackrender/internal/diagnostics"
	"github.com/alexisbeaulieu97/stackrender/internal/ports"
	"github.com/alexisbeaulieu97/stackrender/internal/question"
	"github.com/alexisbeaulieu97/stackrender/internal/style"
)

const prefixCorrect = "<p>Correct answer, well done.</p>"

var (
	messages    = question.Messages{Correct: prefixCorrect, Incorrect: "<p>Incorrect answer.</p>", Partial: "<p>Partially correct.</p>"}
	styles      = style.Config{question.FormatRight: "ok", question.FormatWrong: "bad"}
	anyMarker   = regexp.MustCompile(`\[\[(input|validation|feedback):[^\]]+\]\]`)
	instantOpts = Options{InstantValidation: true}
)

func exampleQuestion(state question.InputState, eval question.Evaluation, user question.Response) *question.Question {
	return &question.Question{
		ID:       "7",
		Text:     "Ans: [[input:a]] [[validation:a]] [[feedback:p]]",
		Messages: messages,
		Slots: []question.InputSlot{{
			Name:           "a",
			ShowValidation: true,
			Widget:         &fakeWidget{name: "a", markup: "<W>", validates: true},
			State:          state,
		}},
		Provider: &fakeProvider{evaluation: eval, user: user, correct: question.Response{"a": "2"}, solutionValid: true},
	}
}

func TestRenderQuestionExample1(t *testing.T) {
	t.Parallel()

	q := exampleQuestion(fakeState{ok: true},
		question.Evaluation{"p": correctOutcome("Good", question.FormatRight)},
		question.Response{"a": "2"})

	res := New(instantOpts).RenderQuestion(context.Background(), q, styles, true)

	want := "Ans: <W> " + ValidationShell("7", "a", q.Slots[0].Widget) + " " +
		prefixCorrect + `<div class="ilc_text_block_ok ilPositionStatic">Good</div>`
	if diff := cmp.Diff(want, res.Text); diff != "" {
		t.Fatalf("rendered text mismatch (-want +got):\n%s", diff)
	}
	require.False(t, anyMarker.MatchString(res.Text))
	require.Empty(t, res.Warnings())
	require.Equal(t, []string{"a"}, res.InputsToValidate)
	require.Equal(t, "question", res.Mode)
}

func TestRenderQuestionExample2MalformedInput(t *testing.T) {
	t.Parallel()

	for _, state := range []question.InputState{nil, fakeState{ok: false}} {
		q := exampleQuestion(state, question.Evaluation{"p": correctOutcome("Good", question.FormatRight)}, question.Response{"a": "x"})
		res := New(instantOpts).RenderQuestion(context.Background(), q, styles, true)

		require.True(t, strings.HasPrefix(res.Text, "Ans: Error rendering input: a  "), res.Text)
		require.Equal(t, 1, strings.Count(res.Text, "Error rendering input: a"))
		require.False(t, anyMarker.MatchString(res.Text))
		require.Len(t, res.Warnings(), 1)
		require.Equal(t, diagnostics.KindMalformedInput, res.Warnings()[0].Kind)
	}
}

func TestRenderQuestionExample3MissingOutcome(t *testing.T) {
	t.Parallel()

	q := exampleQuestion(fakeState{ok: true}, question.Evaluation{"p": correctOutcome("Good", question.FormatRight)}, question.Response{"a": "2"})
	q.Text += " [[feedback:q]]"

	res := New(instantOpts).RenderQuestion(context.Background(), q, styles, true)
	require.Contains(t, res.Text, "WARNING: No evaluation state for prt: q")
	require.Contains(t, res.Text, "Good</div>")
	require.Len(t, res.Warnings(), 1)
	require.Equal(t, "q", res.Warnings()[0].Name)
}

func TestRenderQuestionExample4InconsistentFormats(t *testing.T) {
	t.Parallel()

	eval := question.Evaluation{"p": {
		Status: question.StatusCorrect,
		State: &question.StaticState{Fragments: []question.Fragment{
			{Text: "One", Format: question.FormatPtr(question.FormatRight)},
			{Text: "Two", Format: question.FormatPtr(question.FormatWrong)},
		}},
	}}

	var reported []diagnostics.Diagnostic
	reporter := diagnostics.ReporterFunc(func(_ context.Context, d diagnostics.Diagnostic) {
		reported = append(reported, d)
	})

	res := New(Options{InstantValidation: true, Reporter: reporter}).
		RenderQuestion(context.Background(), exampleQuestion(fakeState{ok: true}, eval, question.Response{"a": "1"}), styles, true)

	require.Contains(t, res.Text, `<div class="ilc_text_block_ok ilPositionStatic">One Two</div>`)
	require.NotContains(t, res.Text, "ilc_text_block_bad")
	require.Len(t, reported, 1)
	require.Equal(t, diagnostics.KindInconsistentFeedbackFormat, reported[0].Kind)
}

func TestRenderQuestionExample5EmptyResponse(t *testing.T) {
	t.Parallel()

	q := exampleQuestion(fakeState{ok: true}, question.Evaluation{"p": correctOutcome("Good", question.FormatRight)}, question.Response{"a": "  "})
	q.Provider.(*fakeProvider).validationError = "Fill in all inputs"

	res := New(instantOpts).RenderQuestion(context.Background(), q, styles, true)
	require.True(t, strings.HasSuffix(res.Text, ValidationShell("7", "a", q.Slots[0].Widget)+" "), res.Text)
	require.NotContains(t, res.Text, prefixCorrect)
	require.NotContains(t, res.Text, "ilc_text_block")
	require.NotContains(t, res.Text, "Fill in all inputs")
	require.Empty(t, res.Warnings())
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, diagnostics.KindEmptyResponseSuppression, res.Diagnostics[0].Kind)
}

func TestRenderQuestionHidesFeedbackWhenDisabled(t *testing.T) {
	t.Parallel()

	q := exampleQuestion(fakeState{ok: true}, question.Evaluation{"p": correctOutcome("Good", question.FormatRight)}, question.Response{"a": "2"})
	res := New(instantOpts).RenderQuestion(context.Background(), q, styles, false)

	require.NotContains(t, res.Text, "Good")
	require.False(t, anyMarker.MatchString(res.Text))
	require.Empty(t, res.Diagnostics)
}

func TestRenderQuestionAppendsValidationError(t *testing.T) {
	t.Parallel()

	q := exampleQuestion(fakeState{ok: true}, question.Evaluation{"p": correctOutcome("Good", question.FormatRight)}, question.Response{"a": "2"})
	q.Provider.(*fakeProvider).validationError = "Your answer is not a number"

	res := New(instantOpts).RenderQuestion(context.Background(), q, styles, true)
	require.True(t, strings.HasSuffix(res.Text, "Good</div><br>Your answer is not a number"), res.Text)
}

func TestRenderQuestionValidationButtonAndSuppression(t *testing.T) {
	t.Parallel()

	text := &fakeWidget{name: "a", markup: "<A>", validates: true}
	radio := &fakeWidget{name: "b", markup: "<B>", suppress: true}
	matrix := &fakeMatrix{fakeWidget: fakeWidget{name: "m", markup: "<M>", validates: true}, w: 2, h: 3}

	q := &question.Question{
		ID:   "9",
		Text: "[[input:a]][[validation:a]]|[[input:b]][[validation:b]]|[[input:m]][[validation:m]]",
		Slots: []question.InputSlot{
			{Name: "m", ShowValidation: true, Widget: matrix, State: fakeState{ok: true}},
			{Name: "b", ShowValidation: true, Widget: radio, State: fakeState{ok: true}},
			{Name: "a", ShowValidation: true, Widget: text, State: fakeState{ok: true}},
		},
		Provider: &fakeProvider{user: question.Response{}},
	}

	res := New(Options{InstantValidation: false}).RenderQuestion(context.Background(), q, nil, true)
	parts := strings.Split(res.Text, "|")
	require.Len(t, parts, 3)

	require.Equal(t, "<A> "+ValidationButton("9", "a")+ValidationShell("9", "a", text), parts[0])
	require.Equal(t, "<B>", parts[1])
	require.Contains(t, parts[2], `<div id="xqcas_input_matrix_width_m" style="visibility: hidden">2</div>`)
	require.Contains(t, parts[2], `<div id="xqcas_input_matrix_height_m" style="visibility: hidden">3</div>`)
	require.Equal(t, []string{"a", "m"}, res.InputsToValidate)
	require.Equal(t, []string{"xqcas_9_a"}, text.calls)
}

func TestRenderQuestionShowValidationOff(t *testing.T) {
	t.Parallel()

	q := exampleQuestion(fakeState{ok: true}, nil, question.Response{})
	q.Slots[0].ShowValidation = false

	res := New(Options{}).RenderQuestion(context.Background(), q, styles, true)
	require.Equal(t, "Ans: <W>  ", res.Text)
}

func TestRenderQuestionNilProviderAndQuestion(t *testing.T) {
	t.Parallel()

	q := exampleQuestion(fakeState{ok: true}, nil, nil)
	q.Provider = nil
	res := New(instantOpts).RenderQuestion(context.Background(), q, styles, true)
	require.False(t, anyMarker.MatchString(res.Text))

	empty := New(instantOpts).RenderQuestion(context.Background(), nil, styles, true)
	require.Equal(t, "", empty.Text)
}

func TestRenderBestSolution(t *testing.T) {
	t.Parallel()

	q := exampleQuestion(fakeState{ok: false}, question.Evaluation{"p": correctOutcome("Good", question.FormatRight)}, question.Response{"a": "2"})
	widget := q.Slots[0].Widget.(*fakeWidget)

	res := New(instantOpts).RenderBestSolution(context.Background(), q, styles)
	require.Equal(t, "Ans: <W>(ro:2)  ", res.Text)
	require.Equal(t, []string{"xqcas_7_a_solution"}, widget.calls)
	require.Empty(t, res.Diagnostics)
	require.Equal(t, "solution", res.Mode)

	q.Provider.(*fakeProvider).solutionValid = false
	res = New(instantOpts).RenderBestSolution(context.Background(), q, styles)
	require.Equal(t, "Ans: Error rendering input: a  ", res.Text)
}

func TestRenderTestResult(t *testing.T) {
	t.Parallel()

	attempt := &question.Attempt{
		QuestionID: "7",
		Text:       "A: [[input:a]] [[validation:a]] [[feedback:p]][[feedback:q]][[feedback:r]] B: [[input:b]]",
		Messages:   messages,
		Inputs: map[string]question.StoredInput{
			"a": {Display: "$x^2$", CorrectDisplay: "$x^3$"},
			"b": {Display: "5", CorrectDisplay: "6"},
		},
		Response: question.Response{"a": "x^2", "b": "5"},
		PRTs: map[string]question.StoredPRT{
			"p": {StatusRecorded: true, FeedbackRecorded: true},
			"q": {StatusRecorded: true, FeedbackRecorded: false},
		},
		Evaluation: question.Evaluation{
			"p": correctOutcome("Fine", question.FormatRight),
			"q": correctOutcome("Hidden", question.FormatRight),
			"r": correctOutcome("Unrecorded", question.FormatRight),
		},
	}

	display := ports.DisplayFunc(func(s string) string {
		return strings.NewReplacer("$x^2$", `\(x^2\)`, "$x^3$", `\(x^3\)`).Replace(s)
	})
	r := New(Options{Display: display, InstantValidation: true})

	withFeedback := r.RenderTestResult(context.Background(), attempt, styles, true)
	require.Equal(t,
		`A: \(x^2\)  `+prefixCorrect+`<div class="ilc_text_block_ok ilPositionStatic">Fine</div>`+
			prefixCorrect+`WARNING: No evaluation state for prt: q<br> B: 5`,
		withFeedback.Text)
	require.Len(t, withFeedback.Warnings(), 1)
	require.Equal(t, false, withFeedback.Warnings()[0].Context["feedback_recorded"])

	hidden := r.RenderTestResult(context.Background(), attempt, styles, false)
	require.Equal(t, `A: \(x^2\)   B: 5`, hidden.Text)

	solution := r.RenderSolutionReplay(context.Background(), attempt, styles)
	require.Equal(t, `A: \(x^3\)   B: 6`, solution.Text)
	require.Equal(t, "result-solution", solution.Mode)

	attempt.EmptyResponse = true
	empty := r.RenderTestResult(context.Background(), attempt, styles, true)
	require.Equal(t, `A: \(x^2\)   B: 5`, empty.Text)
}

func TestRenderSpecificFeedback(t *testing.T) {
	t.Parallel()

	q := exampleQuestion(fakeState{ok: true}, question.Evaluation{
		"p": correctOutcome("Good", question.FormatRight),
	}, question.Response{"a": "2"})
	q.SpecificFeedback = "[[feedback:p]] / [[feedback:z]]"

	r := New(instantOpts)
	res := r.RenderSpecificFeedback(context.Background(), q, styles)
	require.Equal(t, prefixCorrect+`<div class="ilc_text_block_ok ilPositionStatic">Good</div> / WARNING: No evaluation state for prt: z<br>`, res.Text)

	attempt := &question.Attempt{PRTs: map[string]question.StoredPRT{"p": {StatusRecorded: true, FeedbackRecorded: true}}}
	test := r.RenderSpecificFeedbackForTest(context.Background(), q, attempt, styles)
	require.Equal(t, prefixCorrect+`<div class="ilc_text_block_ok ilPositionStatic">Good</div> / `, test.Text)
}

func TestRenderSpecificFeedbackDefaultStyle(t *testing.T) {
	t.Parallel()

	q := exampleQuestion(fakeState{ok: true}, question.Evaluation{
		"p": correctOutcome("Good", question.FormatRight),
	}, question.Response{"a": "2"})
	q.SpecificFeedback = "[[feedback:p]]"
	withDefault := style.Config{question.FormatRight: "ok", question.FormatDefault: "body"}
	body := prefixCorrect + `<div class="ilc_text_block_ok ilPositionStatic">Good</div>`

	r := New(instantOpts)
	res := r.RenderSpecificFeedback(context.Background(), q, withDefault)
	require.Equal(t, `<div class="ilc_text_block_body ilPositionStatic">`+body+`</div>`, res.Text)

	attempt := &question.Attempt{PRTs: map[string]question.StoredPRT{"p": {StatusRecorded: true, FeedbackRecorded: true}}}
	test := r.RenderSpecificFeedbackForTest(context.Background(), q, attempt, withDefault)
	require.Equal(t, `<div class="ilc_text_block_body ilPositionStatic">`+body+`</div>`, test.Text)

	unstyled := r.RenderSpecificFeedback(context.Background(), q, styles)
	require.Equal(t, body, unstyled.Text)

	live := r.RenderQuestion(context.Background(), q, withDefault, true)
	require.NotContains(t, live.Text, "ilc_text_block_body")

	q.SpecificFeedback = ""
	empty := r.RenderSpecificFeedback(context.Background(), q, withDefault)
	require.Equal(t, "", empty.Text)
}

func TestRenderGeneralFeedback(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	display := ports.DisplayFunc(func(s string) string {
		return strings.ReplaceAll(s, "$x$", `\(x\)`)
	})
	r := New(Options{Display: display, Sink: sink})

	q := &question.Question{ID: "7", GeneralFeedback: "Solve for $x$ first. [[feedback:p]]"}
	res := r.RenderGeneralFeedback(context.Background(), q)
	require.Equal(t, `Solve for \(x\) first. [[feedback:p]]`, res.Text)
	require.Equal(t, "general-feedback", res.Mode)
	require.Empty(t, res.Diagnostics)
	require.Equal(t, []string{res.Text}, sink.texts)
	require.Equal(t, ports.BootstrapConfig{QuestionID: "7", Mode: "general-feedback"}, sink.configs[0])

	require.Equal(t, Result{Mode: "general-feedback"}, r.RenderGeneralFeedback(context.Background(), nil))
}

func TestRenderKeepsAnswerValuesThatLookLikeMarkers(t *testing.T) {
	t.Parallel()

	q := &question.Question{
		ID:       "7",
		Text:     "Ans: [[input:a]] [[feedback:p]]",
		Messages: messages,
		Slots: []question.InputSlot{{
			Name:   "a",
			Value:  "[[feedback:p]]",
			Widget: &fakeWidget{name: "a", markup: "<W>", echo: true},
			State:  fakeState{ok: true},
		}},
		Provider: &fakeProvider{
			evaluation: question.Evaluation{"p": correctOutcome("Good", question.FormatRight)},
			user:       question.Response{"a": "[[feedback:p]]"},
		},
	}
	r := New(instantOpts)

	shown := r.RenderQuestion(context.Background(), q, styles, true)
	require.Equal(t,
		"Ans: <W>([[feedback:p]]) "+prefixCorrect+`<div class="ilc_text_block_ok ilPositionStatic">Good</div>`,
		shown.Text)

	hidden := r.RenderQuestion(context.Background(), q, styles, false)
	require.Equal(t, "Ans: <W>([[feedback:p]]) ", hidden.Text)

	attempt := &question.Attempt{
		QuestionID: "7",
		Text:       "A: [[input:a]] [[feedback:p]]",
		Messages:   messages,
		Inputs:     map[string]question.StoredInput{"a": {Display: "[[feedback:p]]"}},
		Response:   question.Response{"a": "[[feedback:p]]"},
		PRTs:       map[string]question.StoredPRT{"p": {StatusRecorded: true, FeedbackRecorded: true}},
		Evaluation: question.Evaluation{"p": correctOutcome("Fine", question.FormatRight)},
	}
	replay := r.RenderTestResult(context.Background(), attempt, styles, true)
	require.Equal(t,
		"A: [[feedback:p]] "+prefixCorrect+`<div class="ilc_text_block_ok ilPositionStatic">Fine</div>`,
		replay.Text)
}

func TestRenderHandsTextToSink(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{err: errors.New("sink down")}
	q := exampleQuestion(fakeState{ok: true}, nil, question.Response{"a": "1"})

	res := New(Options{Sink: sink, ValidateURL: "/validate", InstantValidation: true}).RenderQuestion(context.Background(), q, styles, false)
	require.Equal(t, []string{res.Text}, sink.texts)
	require.Equal(t, ports.BootstrapConfig{
		QuestionID:       "7",
		Mode:             "question",
		ValidateURL:      "/validate",
		Instant:          true,
		InputsToValidate: []string{"a"},
	}, sink.configs[0])
}

func TestRenderModesAgreeOnSubstitution(t *testing.T) {
	t.Parallel()

	q := exampleQuestion(fakeState{ok: true}, question.Evaluation{"p": correctOutcome("Good", question.FormatRight)}, question.Response{"a": "2"})
	r := New(instantOpts)
	ctx := context.Background()

	for _, res := range []Result{
		r.RenderQuestion(ctx, q, styles, true),
		r.RenderQuestion(ctx, q, styles, false),
		r.RenderBestSolution(ctx, q, styles),
	} {
		require.False(t, anyMarker.MatchString(res.Text), "mode %s left markers: %s", res.Mode, res.Text)
	}
}

func TestModeByName(t *testing.T) {
	t.Parallel()

	for _, m := range Modes() {
		got, ok := ModeByName(m.Name)
		require.True(t, ok)
		require.Equal(t, m, got)
	}
	_, ok := ModeByName("nope")
	require.False(t, ok)
	require.Equal(t, "stored_correct", SourceStoredCorrect.String())
}
