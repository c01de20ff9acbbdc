// Package persist provides durable shape storage backing the in-memory
// store, so a restarted server rehydrates the board peers were working on.
package persist

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

// SQLiteStore persists shapes in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the database at path, creating parent
// directories as needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS shapes (
		id TEXT PRIMARY KEY,
		type TEXT,
		x REAL, y REAL, w REAL, h REAL,
		rotation REAL,
		color TEXT,
		stroke TEXT,
		stroke_width REAL,
		text TEXT,
		font_size REAL,
		grp TEXT,
		updated_at TEXT,
		updated_by TEXT,
		seq INTEGER
	);`)
	return err
}

// UpsertShapes writes the given shapes in one transaction. The seq column
// records first-write order so LoadAll can restore store-insertion order.
func (s *SQLiteStore) UpsertShapes(ctx context.Context, shapes []domain.Shape) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, shape := range shapes {
		_, err := tx.ExecContext(ctx, `INSERT INTO shapes
			(id, type, x, y, w, h, rotation, color, stroke, stroke_width, text, font_size, grp, updated_at, updated_by, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
				(SELECT COALESCE(MAX(seq), 0) + 1 FROM shapes))
			ON CONFLICT(id) DO UPDATE SET
				type = excluded.type,
				x = excluded.x, y = excluded.y, w = excluded.w, h = excluded.h,
				rotation = excluded.rotation,
				color = excluded.color,
				stroke = excluded.stroke,
				stroke_width = excluded.stroke_width,
				text = excluded.text,
				font_size = excluded.font_size,
				grp = excluded.grp,
				updated_at = excluded.updated_at,
				updated_by = excluded.updated_by`,
			shape.ID,
			string(shape.Type),
			shape.X, shape.Y, shape.W, shape.H,
			shape.Rotation,
			shape.Color,
			shape.Stroke,
			shape.StrokeWidth,
			shape.Text,
			shape.FontSize,
			shape.Group,
			shape.UpdatedAt.Format(time.RFC3339Nano),
			shape.UpdatedBy,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteShape removes one shape by id.
func (s *SQLiteStore) DeleteShape(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "DELETE FROM shapes WHERE id = ?", id)
	return err
}

// LoadAll returns every persisted shape in first-write order.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]domain.Shape, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, type, x, y, w, h, rotation, color, stroke, stroke_width, text, font_size, grp, updated_at, updated_by
		FROM shapes ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shapes []domain.Shape
	for rows.Next() {
		var shape domain.Shape
		var shapeType, updatedAt string
		if err := rows.Scan(
			&shape.ID, &shapeType,
			&shape.X, &shape.Y, &shape.W, &shape.H,
			&shape.Rotation,
			&shape.Color, &shape.Stroke, &shape.StrokeWidth,
			&shape.Text, &shape.FontSize,
			&shape.Group,
			&updatedAt, &shape.UpdatedBy,
		); err != nil {
			return nil, err
		}
		shape.Type = domain.ShapeType(shapeType)
		if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			shape.UpdatedAt = t
		}
		shapes = append(shapes, shape)
	}
	return shapes, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

var _ ports.Persister = (*SQLiteStore)(nil)
