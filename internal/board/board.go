// Package board implements the versioned artifact board the report resolves
// its model and dataset pins from. The local board is a sqlite file; a remote
// board is reached through the HTTP client in httpboard.go. Both satisfy
// Resolver, which is all the report pipeline depends on.
package board

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/harbor-data/model.report/internal/monitoring"
)

// CreatedStamp is the fixed-width wire format for pin creation timestamps.
const CreatedStamp = "20060102T150405Z"

// ErrPinNotFound reports that no version of the requested pin exists.
var ErrPinNotFound = errors.New("pin not found")

// Meta describes one pinned artifact version.
type Meta struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Created     time.Time `json:"created"`
	Description string    `json:"description"`
	ContentType string    `json:"content_type"`
}

// Resolver is the read-only board contract the report pipeline consumes.
type Resolver interface {
	// Resolve returns the latest version of the named pin.
	Resolve(ctx context.Context, name string) ([]byte, Meta, error)
}

// ParseCreatedStamp parses the fixed YYYYMMDDTHHMMSSZ creation stamp.
// Malformed stamps are errors, never zero values.
func ParseCreatedStamp(s string) (time.Time, error) {
	t, err := time.Parse(CreatedStamp, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed created stamp %q: %w", s, err)
	}
	return t, nil
}

// FormatCreatedStamp renders t in the fixed creation-stamp format, in UTC.
func FormatCreatedStamp(t time.Time) string {
	return t.UTC().Format(CreatedStamp)
}

// Board is a local sqlite-backed pin board.
type Board struct {
	*sql.DB
	path string
	logf func(format string, v ...interface{})
}

// Open opens (or creates) a sqlite board at path and applies the baseline
// schema. Schema evolution beyond the baseline goes through MigrateUp.
func Open(path string) (*Board, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS pins (
			name              TEXT NOT NULL,
			version           TEXT NOT NULL,
			created           TEXT NOT NULL,
			description       TEXT,
			content_type      TEXT,
			payload           BLOB NOT NULL,
			PRIMARY KEY (name, version)
		);
		CREATE INDEX IF NOT EXISTS pins_by_name_created ON pins (name, created);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create board schema: %w", err)
	}

	return &Board{DB: db, path: path, logf: monitoring.Prefixed("board")}, nil
}

// Write pins a new version of the named artifact and returns its metadata.
func (b *Board) Write(ctx context.Context, name, description, contentType string, created time.Time, payload []byte) (Meta, error) {
	if name == "" {
		return Meta{}, fmt.Errorf("pin name must not be empty")
	}
	meta := Meta{
		Name:        name,
		Version:     uuid.New().String(),
		Created:     created.UTC().Truncate(time.Second),
		Description: description,
		ContentType: contentType,
	}
	_, err := b.ExecContext(ctx, `
		INSERT INTO pins (name, version, created, description, content_type, payload)
		VALUES (?, ?, ?, ?, ?, ?)`,
		meta.Name, meta.Version, FormatCreatedStamp(meta.Created), meta.Description, meta.ContentType, payload,
	)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to write pin %q: %w", name, err)
	}
	b.logf("pinned %s version %s (%d bytes)", meta.Name, meta.Version, len(payload))
	return meta, nil
}

// Resolve returns the most recently created version of the named pin.
func (b *Board) Resolve(ctx context.Context, name string) ([]byte, Meta, error) {
	row := b.QueryRowContext(ctx, `
		SELECT name, version, created, description, content_type, payload
		FROM pins WHERE name = ?
		ORDER BY created DESC, rowid DESC LIMIT 1`, name)
	return scanPin(row, name)
}

// ResolveVersion returns one exact version of the named pin.
func (b *Board) ResolveVersion(ctx context.Context, name, version string) ([]byte, Meta, error) {
	row := b.QueryRowContext(ctx, `
		SELECT name, version, created, description, content_type, payload
		FROM pins WHERE name = ? AND version = ?`, name, version)
	return scanPin(row, name)
}

// Versions lists all versions of the named pin, newest first.
func (b *Board) Versions(ctx context.Context, name string) ([]Meta, error) {
	rows, err := b.QueryContext(ctx, `
		SELECT name, version, created, description, content_type
		FROM pins WHERE name = ?
		ORDER BY created DESC, rowid DESC`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions of %q: %w", name, err)
	}
	defer rows.Close()

	var out []Meta
	for rows.Next() {
		var m Meta
		var created string
		if err := rows.Scan(&m.Name, &m.Version, &created, &m.Description, &m.ContentType); err != nil {
			return nil, err
		}
		if m.Created, err = ParseCreatedStamp(created); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanPin(row *sql.Row, name string) ([]byte, Meta, error) {
	var m Meta
	var created string
	var payload []byte
	err := row.Scan(&m.Name, &m.Version, &created, &m.Description, &m.ContentType, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Meta{}, fmt.Errorf("%w: %q", ErrPinNotFound, name)
	}
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to read pin %q: %w", name, err)
	}
	if m.Created, err = ParseCreatedStamp(created); err != nil {
		return nil, Meta{}, err
	}
	return payload, m, nil
}
