package preview

import "github.com/alexisbeaulieu97/stackrender/internal/render"

// RenderedMsg carries the outcome of rendering one mode.
type RenderedMsg struct {
	Mode     string
	Feedback bool
	Result   render.Result
	Err      error
}
