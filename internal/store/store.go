// Package store persists scene documents in SQLite.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/VantageDataChat/GoSlides/internal/store/migrations"
	"github.com/VantageDataChat/GoSlides/scene"
)

// ErrNotFound is returned when no document has the requested id.
var ErrNotFound = errors.New("document not found")

// Summary describes a stored document without its body.
type Summary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	SlideCount int       `json:"slideCount"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Store persists documents in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and applies the embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save inserts or replaces a document, keyed by its presentation id. Each
// save of an existing document increments the stored version, which is
// returned.
func (s *Store) Save(ctx context.Context, doc *scene.Document) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if doc == nil || doc.Presentation == nil {
		return 0, fmt.Errorf("document is required")
	}
	if err := doc.Validate(); err != nil {
		return 0, err
	}
	p := doc.Presentation
	body, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("encode document: %w", err)
	}
	created := p.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	version := max(p.Version, 1)

	row := s.sqlDB.QueryRowContext(ctx,
		`INSERT INTO documents (id, title, slide_count, body, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   title = excluded.title,
		   slide_count = excluded.slide_count,
		   body = excluded.body,
		   version = documents.version + 1,
		   updated_at = excluded.updated_at
		 RETURNING version`,
		p.ID, p.Title, doc.SlideCount(), string(body), version,
		toMillis(created), toMillis(s.now()),
	)
	var stored int
	if err := row.Scan(&stored); err != nil {
		return 0, fmt.Errorf("save document: %w", err)
	}
	return stored, nil
}

// Load returns the document with the given presentation id.
func (s *Store) Load(ctx context.Context, id string) (*scene.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	var (
		body    string
		version int
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT body, version FROM documents WHERE id = ?`, strings.TrimSpace(id),
	).Scan(&body, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load document: %w", err)
	}
	doc, err := scene.Decode(bytes.NewReader([]byte(body)))
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", id, err)
	}
	doc.Presentation.Version = version
	return doc, nil
}

// List returns summaries of every stored document, most recently updated
// first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, title, slide_count, version, created_at, updated_at
		   FROM documents
		  ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum              Summary
			created, updated int64
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.SlideCount, &sum.Version, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		sum.CreatedAt = fromMillis(created)
		sum.UpdatedAt = fromMillis(updated)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return out, nil
}

// Delete removes a document. Deleting an unknown id returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
