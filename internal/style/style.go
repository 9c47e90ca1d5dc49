// Package style maps feedback format codes to temporary markers and resolves
// those markers into the configured wrapper elements.
package style

import (
	"regexp"
	"sort"
	"strings"

	"github.com/alexisbeaulieu97/stackrender/internal/question"
)

// Config maps a format code to its style identifier. Missing codes resolve
// to an empty identifier.
type Config map[question.Format]string

// Lookup returns the style identifier for f, or "".
func (c Config) Lookup(f question.Format) string {
	if c == nil {
		return ""
	}
	return c[f]
}

// Clone returns an independent copy of c.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// styled lists the formats that receive a wrapper, with their marker keys.
var styled = []struct {
	format question.Format
	key    string
}{
	{question.FormatRight, "feedback_node_right"},
	{question.FormatWrong, "feedback_node_wrong"},
	{question.FormatHint, "feedback_solution_hint"},
	{question.FormatExtraInfo, "feedback_extra_info"},
	{question.FormatPlot, "feedback_plot_feedback"},
}

// DefaultKey is the store key of the style wrapping whole specific feedback
// texts. It is kept under question.FormatDefault and never produces markers.
const DefaultKey = "feedback_default"

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidID reports whether id may be written into a class attribute. The
// empty id means unstyled and is valid.
func ValidID(id string) bool {
	return id == "" || idPattern.MatchString(id)
}

// Key returns the marker/store key for f and whether f is wrapped at all.
func Key(f question.Format) (string, bool) {
	for _, s := range styled {
		if s.format == f {
			return s.key, true
		}
	}
	return "", false
}

// Keys returns all store keys: the marker keys in format order, then DefaultKey.
func Keys() []string {
	keys := make([]string, 0, len(styled)+1)
	for _, s := range styled {
		keys = append(keys, s.key)
	}
	return append(keys, DefaultKey)
}

// FormatForKey maps a store key to its format. DefaultKey maps to
// question.FormatDefault.
func FormatForKey(key string) (question.Format, bool) {
	if key == DefaultKey {
		return question.FormatDefault, true
	}
	for _, s := range styled {
		if s.key == key {
			return s.format, true
		}
	}
	return 0, false
}

// FromKeys builds a Config from store keys such as "feedback_node_right".
// Unknown keys and keys whose value is not a valid style identifier are
// skipped and returned sorted for diagnostics.
func FromKeys(values map[string]string) (Config, []string) {
	cfg := make(Config, len(values))
	var rejected []string
	for key, value := range values {
		f, ok := FormatForKey(key)
		if !ok || !ValidID(value) {
			rejected = append(rejected, key)
			continue
		}
		cfg[f] = value
	}
	sort.Strings(rejected)
	return cfg, rejected
}

// OpenMarker is the temporary opening marker for f ("" for plain formats).
func OpenMarker(f question.Format) string {
	key, ok := Key(f)
	if !ok {
		return ""
	}
	return "[[" + key + "]]"
}

// CloseMarker is the temporary closing marker for f ("" for plain formats).
func CloseMarker(f question.Format) string {
	key, ok := Key(f)
	if !ok {
		return ""
	}
	return "[[" + key + "_close]]"
}

// Wrap surrounds body with the temporary markers for f. Plain and unknown
// formats are returned untouched.
func Wrap(f question.Format, body string) string {
	if _, ok := Key(f); !ok {
		return body
	}
	return OpenMarker(f) + body + CloseMarker(f)
}

const (
	DefaultClassPrefix = "ilc_text_block_"
	DefaultExtraClass  = "ilPositionStatic"
	closingElement     = "</div>"
)

// Resolver turns temporary markers into wrapper elements.
type Resolver struct {
	ClassPrefix string
	ExtraClass  string
}

// NewResolver returns a Resolver using the default wrapper classes.
func NewResolver() Resolver {
	return Resolver{ClassPrefix: DefaultClassPrefix, ExtraClass: DefaultExtraClass}
}

// OpenElement returns the opening wrapper element for a style identifier.
func (r Resolver) OpenElement(styleID string) string {
	class := r.ClassPrefix + styleID
	if r.ExtraClass != "" {
		class += " " + r.ExtraClass
	}
	return `<div class="` + class + `">`
}

// WrapDefault wraps text in the element of the feedback_default style. Text
// is returned unchanged when it is empty or no default style is configured.
func (r Resolver) WrapDefault(text string, cfg Config) string {
	id := cfg.Lookup(question.FormatDefault)
	if id == "" || text == "" {
		return text
	}
	return r.OpenElement(id) + text + closingElement
}

// Resolve replaces every temporary marker pair in a single pass, so no pair's
// replacement can be matched by another pair.
func (r Resolver) Resolve(text string, cfg Config) string {
	pairs := make([]string, 0, len(styled)*4)
	for _, s := range styled {
		pairs = append(pairs,
			CloseMarker(s.format), closingElement,
			OpenMarker(s.format), r.OpenElement(cfg.Lookup(s.format)),
		)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
