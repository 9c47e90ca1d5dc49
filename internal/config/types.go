package config

// Config is the stackrender.yaml document shared by every host.
type Config struct {
	Version   string    `yaml:"version" validate:"required,semver"`
	Rendering Rendering `yaml:"rendering,omitempty"`
	Styles    Styles    `yaml:"styles,omitempty"`
	Logging   Logging   `yaml:"logging,omitempty"`
	Server    Server    `yaml:"server,omitempty"`
}

// Rendering holds renderer options.
type Rendering struct {
	InstantValidation bool   `yaml:"instant_validation,omitempty"`
	ValidateURL       string `yaml:"validate_url,omitempty" validate:"omitempty,uri"`
	ClassPrefix       string `yaml:"class_prefix,omitempty" validate:"omitempty,style_id"`
	ExtraClass        string `yaml:"extra_class,omitempty" validate:"omitempty,style_id"`
}

// Styles selects where the format code to style identifier mapping comes from.
type Styles struct {
	Source string            `yaml:"source,omitempty" validate:"required,oneof=inline yaml sqlite"`
	Path   string            `yaml:"path,omitempty" validate:"required_if=Source yaml"`
	DSN    string            `yaml:"dsn,omitempty" validate:"required_if=Source sqlite"`
	Scope  string            `yaml:"scope,omitempty" validate:"required"`
	Inline map[string]string `yaml:"inline,omitempty" validate:"omitempty,dive,style_id"`
}

// Logging configures the zerolog backed logger.
type Logging struct {
	Level         string `yaml:"level,omitempty" validate:"required,oneof=debug info warn error"`
	HumanReadable bool   `yaml:"human_readable,omitempty"`
}

// Server configures the HTTP render service.
type Server struct {
	Addr        string   `yaml:"addr,omitempty" validate:"required,hostname_port"`
	CORSOrigins []string `yaml:"cors_origins,omitempty" validate:"omitempty,dive,required"`
}

// Document is a question document: one question instance with its inputs,
// evaluation and an optional stored attempt.
type Document struct {
	ID               string                `yaml:"id" validate:"required,question_id"`
	Text             string                `yaml:"text"`
	SpecificFeedback string                `yaml:"specific_feedback,omitempty"`
	GeneralFeedback  string                `yaml:"general_feedback,omitempty"`
	Messages         MessagesDoc           `yaml:"messages,omitempty"`
	ValidationError  string                `yaml:"validation_error,omitempty"`
	Inputs           []InputDoc            `yaml:"inputs,omitempty" validate:"omitempty,dive"`
	Evaluation       map[string]OutcomeDoc `yaml:"evaluation,omitempty" validate:"omitempty,dive"`
	Attempt          *AttemptDoc           `yaml:"attempt,omitempty"`
}

// MessagesDoc holds the status prefixes.
type MessagesDoc struct {
	Correct   string `yaml:"correct,omitempty"`
	Incorrect string `yaml:"incorrect,omitempty"`
	Partial   string `yaml:"partial,omitempty"`
}

// InputDoc describes one input slot.
type InputDoc struct {
	Name           string   `yaml:"name" validate:"required,input_name"`
	Type           string   `yaml:"type,omitempty" validate:"omitempty,oneof=text algebraic numerical matrix radio dropdown checkbox boolean"`
	Value          string   `yaml:"value,omitempty"`
	State          string   `yaml:"state,omitempty" validate:"omitempty,oneof=valid invalid absent"`
	ShowValidation *bool    `yaml:"show_validation,omitempty"`
	Response       string   `yaml:"response,omitempty"`
	Correct        string   `yaml:"correct,omitempty"`
	Width          int      `yaml:"width,omitempty" validate:"min=0,max=100"`
	Height         int      `yaml:"height,omitempty" validate:"min=0,max=100"`
	Options        []string `yaml:"options,omitempty"`
}

// OutcomeDoc is the evaluation outcome of one feedback unit.
type OutcomeDoc struct {
	Status    string            `yaml:"status,omitempty" validate:"omitempty,oneof=correct incorrect partially_correct partial unknown"`
	State     string            `yaml:"state,omitempty" validate:"omitempty,oneof=present absent"`
	Variables map[string]string `yaml:"variables,omitempty"`
	Feedback  []FragmentDoc     `yaml:"feedback,omitempty"`
}

// FragmentDoc is one feedback fragment. A missing format declares none.
type FragmentDoc struct {
	Text   string `yaml:"text"`
	Format *int   `yaml:"format,omitempty"`
}

// AttemptDoc is a stored attempt replayed by the result modes.
type AttemptDoc struct {
	Text       string                    `yaml:"text,omitempty"`
	Inputs     map[string]StoredInputDoc `yaml:"inputs,omitempty"`
	Response   map[string]string         `yaml:"response,omitempty"`
	Empty      *bool                     `yaml:"empty,omitempty"`
	PRTs       map[string]StoredPRTDoc   `yaml:"prts,omitempty"`
	Evaluation map[string]OutcomeDoc     `yaml:"evaluation,omitempty" validate:"omitempty,dive"`
}

// StoredInputDoc holds the recorded display values of one input.
type StoredInputDoc struct {
	Display        string `yaml:"display"`
	CorrectDisplay string `yaml:"correct_display,omitempty"`
}

// StoredPRTDoc records which fields of a feedback unit were persisted.
type StoredPRTDoc struct {
	StatusRecorded   bool `yaml:"status_recorded"`
	FeedbackRecorded bool `yaml:"feedback_recorded"`
}
