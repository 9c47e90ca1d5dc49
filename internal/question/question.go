package question

import "sort"

// InputState is the parsed state of one input. Renderers only ask whether it
// is well formed; a nil InputState is absent.
type InputState interface {
	Valid() bool
}

// ValidState reports whether s is present and well formed.
func ValidState(s InputState) bool {
	return s != nil && s.Valid()
}

// Widget renders one input.
type Widget interface {
	Render(state InputState, fieldID string, readOnly bool, value string) string
	RequiresValidation() bool
	// SuppressesOwnValidationUI is true for widgets that show validation
	// inline; they never receive a validation button or shell.
	SuppressesOwnValidationUI() bool
	ReplaceValidationMarkers(state InputState, fieldID, text, shell string) string
}

// MatrixWidget is a Widget with a two dimensional layout.
type MatrixWidget interface {
	Widget
	DisplayWidth() int
	DisplayHeight() int
}

// InputSlot binds an input name to its widget and live state.
type InputSlot struct {
	Name           string
	Value          string
	ShowValidation bool
	Widget         Widget
	State          InputState
}

// EvaluationProvider supplies scored results and response helpers.
type EvaluationProvider interface {
	Evaluation() Evaluation
	CorrectResponse() Response
	UserResponse() Response
	IsEmptyResponse(resp Response, slots []InputSlot) bool
	ValidationError(resp Response) string
	SolutionState(name string, resp Response) InputState
}

// Question is the live, instantiated question rendered by the live and best
// solution modes.
type Question struct {
	ID               string
	Text             string
	SpecificFeedback string
	GeneralFeedback  string
	Messages         Messages
	Slots            []InputSlot
	Provider         EvaluationProvider
}

// SortedSlots returns the slots ordered by name.
func (q *Question) SortedSlots() []InputSlot {
	if q == nil {
		return nil
	}
	slots := append([]InputSlot(nil), q.Slots...)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Name < slots[j].Name })
	return slots
}

// StoredInput holds the display values recorded for one input.
type StoredInput struct {
	Display        string
	CorrectDisplay string
}

// StoredPRT records which fields were persisted for one feedback unit.
type StoredPRT struct {
	StatusRecorded   bool
	FeedbackRecorded bool
}

// Attempt is a stored submission replayed by the test-result modes.
type Attempt struct {
	QuestionID    string
	Text          string
	Messages      Messages
	Inputs        map[string]StoredInput
	Response      Response
	EmptyResponse bool
	PRTs          map[string]StoredPRT
	Evaluation    Evaluation
}

// InputNames returns the stored input names in ascending order.
func (a *Attempt) InputNames() []string {
	if a == nil {
		return nil
	}
	names := make([]string, 0, len(a.Inputs))
	for name := range a.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
