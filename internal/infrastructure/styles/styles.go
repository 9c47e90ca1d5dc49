// Package styles provides the style stores that map feedback format codes to
// style identifiers: inline configuration, a YAML file and a SQL settings table.
package styles

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/stackrender/internal/config"
	"github.com/alexisbeaulieu97/stackrender/internal/logger"
	"github.com/alexisbeaulieu97/stackrender/internal/ports"
	"github.com/alexisbeaulieu97/stackrender/internal/style"
	stackerrors "github.com/alexisbeaulieu97/stackrender/pkg/errors"
)

// Static serves one fixed configuration for every scope.
type Static struct {
	cfg style.Config
}

var _ ports.StyleStore = (*Static)(nil)

// NewStatic builds a Static store from store keys such as "feedback_node_right".
func NewStatic(values map[string]string) (*Static, error) {
	cfg, rejected := style.FromKeys(values)
	if len(rejected) > 0 {
		return nil, stackerrors.NewStoreError("inline", "", fmt.Errorf("unknown or invalid style keys: %v", rejected))
	}
	return &Static{cfg: cfg}, nil
}

// GetStyles returns a copy of the configured mapping.
func (s *Static) GetStyles(context.Context, string) (style.Config, error) {
	return s.cfg.Clone(), nil
}

// FileStore serves per-scope style mappings from a YAML file of the form
//
//	default:
//	  feedback_node_right: ok
//	course-7:
//	  feedback_node_wrong: bad
type FileStore struct {
	path   string
	log    ports.Logger
	mu     sync.RWMutex
	scopes map[string]style.Config
}

var _ ports.StyleStore = (*FileStore)(nil)

// NewFileStore creates a FileStore and loads it from disk.
func NewFileStore(path string, log ports.Logger) (*FileStore, error) {
	if log == nil {
		log = logger.NewNoOp()
	}
	s := &FileStore{path: path, log: log.With("component", "style_store", "backend", "yaml")}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load (re)reads the file. On failure the previous contents stay in place.
func (s *FileStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return stackerrors.NewStoreError("yaml", "", err)
	}

	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return stackerrors.NewStoreError("yaml", "", fmt.Errorf("parse %s: %w", s.path, err))
	}

	scopes := make(map[string]style.Config, len(raw))
	for scope, values := range raw {
		cfg, rejected := style.FromKeys(values)
		if len(rejected) > 0 {
			s.log.Warn(context.Background(), "ignoring unknown or invalid style keys", "scope", scope, "keys", rejected)
		}
		scopes[scope] = cfg
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scopes = scopes
	return nil
}

// GetStyles returns a copy of the mapping for scope.
func (s *FileStore) GetStyles(_ context.Context, scope string) (style.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.scopes[scope]
	if !ok {
		return nil, stackerrors.NewStoreError("yaml", scope, stackerrors.ErrStyleScopeNotFound)
	}
	return cfg.Clone(), nil
}

// Scopes returns the known scope names in ascending order.
func (s *FileStore) Scopes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.scopes))
	for name := range s.scopes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open builds the store selected by cfg. The returned close function releases
// any database handle and is always non-nil.
func Open(ctx context.Context, cfg config.Styles, log ports.Logger) (ports.StyleStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Source {
	case "yaml":
		s, err := NewFileStore(cfg.Path, log)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case "sqlite":
		s, err := OpenSQLite(ctx, cfg.DSN, log)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		s, err := NewStatic(cfg.Inline)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	}
}
