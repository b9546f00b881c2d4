// Package sqlite implements every repository on a single SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/vintegcorp/vintegcorp/internal/errors"
)

// Store owns the database handle shared by the repositories
type Store struct {
	db  *sql.DB
	now func() time.Time
}

type Option func(*Store)

// WithClock sets the clock used for created_at and updated_at
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open opens the database at path and applies the schema
func Open(ctx context.Context, path string, options ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName(path))
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}
	if path == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range options {
		opt(s)
	}

	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func dataSourceName(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

// Migrate creates any missing tables and indexes
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate store db: %w", err)
	}
	return nil
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Users() *UserRepo                 { return &UserRepo{store: s} }
func (s *Store) Projects() *ProjectRepo           { return &ProjectRepo{store: s} }
func (s *Store) Tasks() *TaskRepo                 { return &TaskRepo{store: s} }
func (s *Store) Articles() *ArticleRepo           { return &ArticleRepo{store: s} }
func (s *Store) Announcements() *AnnouncementRepo { return &AnnouncementRepo{store: s} }
func (s *Store) Feed() *FeedRepo                  { return &FeedRepo{store: s} }
func (s *Store) Documents() *DocumentRepo         { return &DocumentRepo{store: s} }

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// inTx runs fn in a transaction, committing when it returns nil
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// mapError translates driver errors into the storage sentinels
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return apperrors.Wrapf(apperrors.ErrNotFound, "%s", op)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return apperrors.Wrapf(apperrors.ErrConflict, "%s", op)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return apperrors.Wrapf(apperrors.ErrInvalidReference, "%s", op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// requireAffected turns an update or delete that touched no row into ErrNotFound
func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return apperrors.Wrapf(apperrors.ErrNotFound, "%s", op)
	}
	return nil
}

// jsonColumn stores a Go value as JSON text
type jsonColumn[T any] struct {
	v *T
}

func asJSON[T any](v *T) jsonColumn[T] {
	return jsonColumn[T]{v: v}
}

func (j jsonColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

func (j jsonColumn[T]) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		return nil
	case string:
		return json.Unmarshal([]byte(s), j.v)
	case []byte:
		return json.Unmarshal(s, j.v)
	default:
		return fmt.Errorf("json column: unsupported type %T", src)
	}
}

// nullable returns nil for a nil pointer so it is stored as NULL
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// updateSet collects the assignments of a partial UPDATE
type updateSet struct {
	columns []string
	args    []any
}

func (u *updateSet) add(column string, value any) {
	u.columns = append(u.columns, column+" = ?")
	u.args = append(u.args, value)
}

func (u *updateSet) empty() bool {
	return len(u.columns) == 0
}

func (u *updateSet) clause() string {
	return strings.Join(u.columns, ", ")
}
