// Package store keeps the ordered lesson list in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lessons-cli/internal/model"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens (creating if needed) the database at path and migrates it.
// ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("missing database path")
	}
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite registers as "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: writes are serialized and ":memory:" stays a single database.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	if !memory {
		pragmas = append([]string{"PRAGMA journal_mode=WAL;"}, pragmas...)
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &Store{db: db, path: path, now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Path() string { return s.path }

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS lessons (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			rank TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_lessons_rank ON lessons(rank, created_at_unixms, id);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	_, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO meta(k, v) VALUES('schema_version', ?)`, schemaVersion)
	return err
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listLessons(ctx context.Context, q queryer) ([]model.Lesson, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, title, rank, created_at_unixms, updated_at_unixms FROM lessons`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Lesson{}
	for rows.Next() {
		var (
			l                    model.Lesson
			createdMs, updatedMs int64
		)
		if err := rows.Scan(&l.ID, &l.Title, &l.Rank, &createdMs, &updatedMs); err != nil {
			return nil, err
		}
		l.CreatedAt = time.UnixMilli(createdMs).UTC()
		l.UpdatedAt = time.UnixMilli(updatedMs).UTC()
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortLessons(out)
	return out, nil
}

// List returns every lesson in display order.
func (s *Store) List(ctx context.Context) ([]model.Lesson, error) {
	return listLessons(ctx, s.db)
}

func (s *Store) Get(ctx context.Context, id string) (model.Lesson, error) {
	id = strings.TrimSpace(id)
	var (
		l                    model.Lesson
		createdMs, updatedMs int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, rank, created_at_unixms, updated_at_unixms FROM lessons WHERE id = ?`, id,
	).Scan(&l.ID, &l.Title, &l.Rank, &createdMs, &updatedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Lesson{}, NotFoundError{Kind: "lesson", ID: id}
	}
	if err != nil {
		return model.Lesson{}, err
	}
	l.CreatedAt = time.UnixMilli(createdMs).UTC()
	l.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return l, nil
}

// Create appends a lesson after the current last one.
func (s *Store) Create(ctx context.Context, title string) (model.Lesson, error) {
	title = model.NormalizeTitle(title)
	if title == "" {
		return model.Lesson{}, ErrEmptyTitle
	}
	id, err := newRandomID(lessonIDPrefix)
	if err != nil {
		return model.Lesson{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Lesson{}, err
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := listLessons(ctx, tx)
	if err != nil {
		return model.Lesson{}, err
	}
	last := ""
	if len(existing) > 0 {
		last = existing[len(existing)-1].Rank
	}
	rank, err := rankBetweenUnique(ranksExcept(existing, nil), last, "")
	if err != nil {
		return model.Lesson{}, err
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO lessons(id, title, rank, created_at_unixms, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		id, title, rank, now.UnixMilli(), now.UnixMilli(),
	); err != nil {
		return model.Lesson{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Lesson{}, err
	}
	return model.Lesson{ID: id, Title: title, Rank: rank, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *Store) Update(ctx context.Context, id, title string) (model.Lesson, error) {
	id = strings.TrimSpace(id)
	title = model.NormalizeTitle(title)
	if title == "" {
		return model.Lesson{}, ErrEmptyTitle
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE lessons SET title = ?, updated_at_unixms = ? WHERE id = ?`,
		title, s.now().UTC().UnixMilli(), id,
	)
	if err != nil {
		return model.Lesson{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.Lesson{}, err
	} else if n == 0 {
		return model.Lesson{}, NotFoundError{Kind: "lesson", ID: id}
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	res, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return NotFoundError{Kind: "lesson", ID: id}
	}
	return nil
}

// Reorder moves the lesson at oldIndex so that it ends up at newIndex.
func (s *Store) Reorder(ctx context.Context, oldIndex, newIndex int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ordered, err := listLessons(ctx, tx)
	if err != nil {
		return err
	}
	plan, err := planReorder(ordered, oldIndex, newIndex)
	if err != nil {
		return err
	}
	if len(plan.rankByID) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `UPDATE lessons SET rank = ?, updated_at_unixms = ? WHERE id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	nowMs := s.now().UTC().UnixMilli()
	for id, rank := range plan.rankByID {
		if _, err := stmt.ExecContext(ctx, rank, nowMs, id); err != nil {
			return fmt.Errorf("rerank %s: %w", id, err)
		}
	}
	return tx.Commit()
}
