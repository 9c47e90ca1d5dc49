package ports

import (
	"context"

	"github.com/alexisbeaulieu97/stackrender/internal/style"
)

// DisplayProcessor prepares text for math typesetting. Implementations must
// be idempotent: processing already processed text changes nothing.
type DisplayProcessor interface {
	ProcessDisplay(text string) string
}

// DisplayFunc adapts a function to DisplayProcessor.
type DisplayFunc func(string) string

// ProcessDisplay calls f.
func (f DisplayFunc) ProcessDisplay(text string) string {
	if f == nil {
		return text
	}
	return f(text)
}

// IdentityDisplay leaves text untouched.
var IdentityDisplay DisplayProcessor = DisplayFunc(func(s string) string { return s })

// StyleStore supplies the format code to style identifier mapping for a
// scope. Implementations must be safe for concurrent reads.
type StyleStore interface {
	GetStyles(ctx context.Context, scope string) (style.Config, error)
}

// BootstrapConfig is handed to the asset sink together with the rendered text
// so the host can wire up client-side validation.
type BootstrapConfig struct {
	QuestionID       string   `json:"question_id"`
	Mode             string   `json:"mode"`
	ValidateURL      string   `json:"validate_url"`
	Instant          bool     `json:"instant"`
	InputsToValidate []string `json:"inputs_to_validate,omitempty"`
}

// AssetSink receives the finalized text of each render. Failures are logged
// by the caller and never fail the render.
type AssetSink interface {
	Bootstrap(ctx context.Context, text string, cfg BootstrapConfig) error
}
