// Package bootstrap implements the asset sink that hands client-side
// validation settings to the page hosting a rendered question.
package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/alexisbeaulieu97/stackrender/internal/ports"
)

// ScriptType is the MIME type of the emitted bootstrap element.
const ScriptType = "application/json"

// Entry is one recorded bootstrap call.
type Entry struct {
	Config ports.BootstrapConfig
	Size   int
}

// Sink records every bootstrap call and, when a writer is set, writes the
// matching script element to it.
type Sink struct {
	mu      sync.Mutex
	w       io.Writer
	entries []Entry
}

var _ ports.AssetSink = (*Sink)(nil)

// NewSink returns a Sink writing to w. A nil writer only records.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Bootstrap implements ports.AssetSink.
func (s *Sink) Bootstrap(_ context.Context, text string, cfg ports.BootstrapConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, Entry{Config: cfg, Size: len(text)})
	if s.w == nil || len(cfg.InputsToValidate) == 0 {
		return nil
	}

	script, err := Script(cfg)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(s.w, script+"\n"); err != nil {
		return fmt.Errorf("write bootstrap: %w", err)
	}
	return nil
}

// Entries returns the recorded calls in order.
func (s *Sink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// Script renders cfg as a JSON script element the client picks up by id.
func Script(cfg ports.BootstrapConfig) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode bootstrap: %w", err)
	}
	return fmt.Sprintf(`<script type="%s" id="stackrender-bootstrap-%s">%s</script>`, ScriptType, cfg.QuestionID, data), nil
}
