package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ============================================================
// Operation Journal
// ============================================================

type Op string

const (
	OpAddLine    Op = "add_line"
	OpAddPlane   Op = "add_plane"
	OpRemove     Op = "remove"
	OpPosition   Op = "update_position"
	OpRotation   Op = "update_rotation"
	OpEquation   Op = "update_equation"
	OpVisibility Op = "toggle_visibility"
	OpSelect     Op = "select"
	OpReset      Op = "reset"
)

type Entry struct {
	Seq       int64  `json:"seq"`
	Op        Op     `json:"op"`
	ObjectID  string `json:"objectId,omitempty"`
	Editor    string `json:"editor"`
	Payload   string `json:"payload,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Journal records the operations applied to the store during this process.
// It is an audit trail only; nothing is restored from it on start-up.
type Journal struct {
	db *sql.DB
}

func New(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// Init applies migrations and drops entries left by a previous run.
func (j *Journal) Init(ctx context.Context) error {
	if err := j.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if _, err := j.db.ExecContext(ctx, `DELETE FROM operations`); err != nil {
		return fmt.Errorf("truncate journal: %w", err)
	}
	return nil
}

func (j *Journal) Record(ctx context.Context, e Entry) error {
	_, err := j.db.ExecContext(ctx, `
        INSERT INTO operations (op, object_id, editor, payload)
        VALUES (?, ?, ?, ?)
    `, string(e.Op), e.ObjectID, e.Editor, e.Payload)
	if err != nil {
		return fmt.Errorf("record %s: %w", e.Op, err)
	}
	return nil
}

// List returns the most recent entries, oldest first. A limit <= 0 returns all.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx, `
        SELECT seq, op, object_id, editor, payload, created_at
        FROM (
            SELECT * FROM operations ORDER BY seq DESC LIMIT ?
        )
        ORDER BY seq ASC
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var op string
		if err := rows.Scan(&e.Seq, &op, &e.ObjectID, &e.Editor, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		e.Op = Op(op)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns how many operations touched the given object.
func (j *Journal) Count(ctx context.Context, objectID string) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM operations WHERE object_id = ?
    `, objectID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count journal: %w", err)
	}
	return n, nil
}

// Ping reports whether the database is reachable.
func (j *Journal) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// ============================================================
// Migrations
// ============================================================

func (j *Journal) runMigrations(ctx context.Context) error {
	files, err := migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	for _, f := range files {
		data, err := migrations.ReadFile("migrations/" + f.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", f.Name(), err)
		}
		if _, err := j.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", f.Name(), err)
		}
	}
	return nil
}

// OpenSQLite opens the journal database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
