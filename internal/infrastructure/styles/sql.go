package styles

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // driver: sqlite

	"github.com/alexisbeaulieu97/stackrender/internal/logger"
	"github.com/alexisbeaulieu97/stackrender/internal/ports"
	"github.com/alexisbeaulieu97/stackrender/internal/style"
	stackerrors "github.com/alexisbeaulieu97/stackrender/pkg/errors"
)

// SettingsGroup is the group_name under which feedback styles are stored.
const SettingsGroup = "feedback"

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS style_settings (
  scope TEXT NOT NULL,
  parameter_name TEXT NOT NULL,
  value TEXT NOT NULL DEFAULT '',
  group_name TEXT NOT NULL DEFAULT 'feedback',
  PRIMARY KEY (scope, parameter_name, group_name)
);
`

// SQLStore reads style settings from a SQL table. Results are cached per
// scope until Put or Invalidate touches the scope.
type SQLStore struct {
	db    *sql.DB
	log   ports.Logger
	mu    sync.RWMutex
	cache map[string]style.Config
}

var _ ports.StyleStore = (*SQLStore)(nil)

// OpenSQLite opens a SQLite database with the modernc driver and ensures the
// settings table exists.
func OpenSQLite(ctx context.Context, dsn string, log ports.Logger) (*SQLStore, error) {
	if dsn == "" {
		dsn = "file:stackrender.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, stackerrors.NewStoreError("sqlite", "", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, stackerrors.NewStoreError("sqlite", "", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQLite); err != nil {
		_ = db.Close()
		return nil, stackerrors.NewStoreError("sqlite", "", fmt.Errorf("ensure schema: %w", err))
	}

	return NewSQLStore(db, log), nil
}

// NewSQLStore wraps an open database whose schema already exists.
func NewSQLStore(db *sql.DB, log ports.Logger) *SQLStore {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &SQLStore{
		db:    db,
		log:   log.With("component", "style_store", "backend", "sqlite"),
		cache: make(map[string]style.Config),
	}
}

// GetStyles returns the mapping stored for scope.
func (s *SQLStore) GetStyles(ctx context.Context, scope string) (style.Config, error) {
	s.mu.RLock()
	cfg, ok := s.cache[scope]
	s.mu.RUnlock()
	if ok {
		return cfg.Clone(), nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT parameter_name, value FROM style_settings WHERE scope = ? AND group_name = ?`,
		scope, SettingsGroup)
	if err != nil {
		return nil, stackerrors.NewStoreError("sqlite", scope, err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, stackerrors.NewStoreError("sqlite", scope, err)
		}
		values[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, stackerrors.NewStoreError("sqlite", scope, err)
	}
	if len(values) == 0 {
		return nil, stackerrors.NewStoreError("sqlite", scope, stackerrors.ErrStyleScopeNotFound)
	}

	cfg, rejected := style.FromKeys(values)
	if len(rejected) > 0 {
		s.log.Warn(ctx, "ignoring unknown or invalid style keys", "scope", scope, "keys", rejected)
	}

	s.mu.Lock()
	s.cache[scope] = cfg
	s.mu.Unlock()

	return cfg.Clone(), nil
}

// Put stores one style identifier and drops the cached scope.
func (s *SQLStore) Put(ctx context.Context, scope, key, value string) error {
	if _, ok := style.FormatForKey(key); !ok {
		return stackerrors.NewStoreError("sqlite", scope, fmt.Errorf("unknown style key %q", key))
	}
	if !style.ValidID(value) {
		return stackerrors.NewStoreError("sqlite", scope, fmt.Errorf("invalid style identifier %q", value))
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO style_settings (scope, parameter_name, value, group_name) VALUES (?, ?, ?, ?)
		 ON CONFLICT (scope, parameter_name, group_name) DO UPDATE SET value = excluded.value`,
		scope, key, value, SettingsGroup)
	if err != nil {
		return stackerrors.NewStoreError("sqlite", scope, err)
	}

	s.Invalidate(scope)
	return nil
}

// Invalidate drops the cached mapping for scope.
func (s *SQLStore) Invalidate(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, scope)
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
