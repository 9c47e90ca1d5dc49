package render

// Source selects where input display values come from.
type Source int

const (
	// SourceNone renders no inputs (specific feedback texts).
	SourceNone Source = iota
	// SourceLive renders each widget from its live state.
	SourceLive
	// SourceSolution renders each widget read-only from the correct response.
	SourceSolution
	// SourceStored substitutes the stored display values of an attempt.
	SourceStored
	// SourceStoredCorrect substitutes the stored correct display values.
	SourceStoredCorrect
)

func (s Source) String() string {
	switch s {
	case SourceLive:
		return "live"
	case SourceSolution:
		return "solution"
	case SourceStored:
		return "stored"
	case SourceStoredCorrect:
		return "stored_correct"
	default:
		return "none"
	}
}

// Mode describes one render variant. Every entry point runs the same
// pipeline; only the descriptor differs.
type Mode struct {
	Name           string
	Source         Source
	ShowFeedback   bool
	ShowValidation bool
	// ReadOnly renders live widgets without editing.
	ReadOnly bool
	// FieldSuffix is appended to every field id.
	FieldSuffix string
	// WrapDefault wraps the finished text in the feedback_default style.
	WrapDefault bool
}

var (
	// ModeQuestion is the live question shown to the student.
	ModeQuestion = Mode{Name: "question", Source: SourceLive, ShowFeedback: true, ShowValidation: true}
	// ModeBestSolution shows the reference solution in live widgets.
	ModeBestSolution = Mode{Name: "solution", Source: SourceSolution, ReadOnly: true, FieldSuffix: "_solution"}
	// ModeTestResult replays a stored attempt.
	ModeTestResult = Mode{Name: "result", Source: SourceStored, ShowFeedback: true}
	// ModeSolutionReplay replays the stored correct answers.
	ModeSolutionReplay = Mode{Name: "result-solution", Source: SourceStoredCorrect}
	// ModeSpecificFeedback renders the specific feedback text of a question.
	ModeSpecificFeedback = Mode{Name: "feedback", Source: SourceNone, ShowFeedback: true, WrapDefault: true}
	// ModeSpecificFeedbackForTest renders specific feedback gated by stored flags.
	ModeSpecificFeedbackForTest = Mode{Name: "feedback-test", Source: SourceNone, ShowFeedback: true, WrapDefault: true}
	// ModeGeneralFeedback renders the general feedback text through the
	// display processor only.
	ModeGeneralFeedback = Mode{Name: "general-feedback", Source: SourceNone}
)

// Modes lists the named modes in a stable order.
func Modes() []Mode {
	return []Mode{
		ModeQuestion,
		ModeBestSolution,
		ModeTestResult,
		ModeSolutionReplay,
		ModeSpecificFeedback,
		ModeSpecificFeedbackForTest,
		ModeGeneralFeedback,
	}
}

// ModeByName looks up a named mode.
func ModeByName(name string) (Mode, bool) {
	for _, m := range Modes() {
		if m.Name == name {
			return m, true
		}
	}
	return Mode{}, false
}
