// Package catalog keeps a SQLite index of registry objects seen by the
// rifcs command.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/ands/rifcs"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS registry_objects (
	key        TEXT PRIMARY KEY,
	class      TEXT NOT NULL,
	grp        TEXT NOT NULL DEFAULT '',
	source     TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	file       TEXT NOT NULL,
	indexed_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS registry_objects_class ON registry_objects(class);
`

// Entry is one catalogued registry object.
type Entry struct {
	Key       string            `yaml:"key"`
	Class     rifcs.ObjectClass `yaml:"class"`
	Group     string            `yaml:"group,omitempty"`
	Source    string            `yaml:"source,omitempty"`
	Title     string            `yaml:"title,omitempty"`
	File      string            `yaml:"file"`
	IndexedAt time.Time         `yaml:"indexed_at"`
}

// Catalog is a SQLite-backed registry object index. It must be closed.
type Catalog struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the catalog at path.
func Open(ctx context.Context, path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialise catalog %s: %w", path, err)
	}
	return &Catalog{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Add records every object of reg as found in file, replacing earlier
// entries with the same key. It returns the number of objects recorded.
func (c *Catalog) Add(ctx context.Context, file string, reg *rifcs.Registry) (n int, err error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin catalog update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO registry_objects (key, class, grp, source, title, file, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			class = excluded.class,
			grp = excluded.grp,
			source = excluded.source,
			title = excluded.title,
			file = excluded.file,
			indexed_at = excluded.indexed_at`)
	if err != nil {
		return 0, fmt.Errorf("prepare catalog insert: %w", err)
	}
	defer stmt.Close()

	at := rifcs.FormatTimestamp(c.now())
	for _, ro := range reg.Objects() {
		_, err := stmt.ExecContext(ctx,
			ro.Key(), string(ro.ObjectClass()), ro.Group(), ro.OriginatingSource(), Title(ro), file, at)
		if err != nil {
			return 0, fmt.Errorf("catalog %s: %w", ro.Key(), err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit catalog update: %w", err)
	}
	return n, nil
}

// List returns catalogued objects ordered by key, restricted to class unless
// it is Unclassified.
func (c *Catalog) List(ctx context.Context, class rifcs.ObjectClass) ([]Entry, error) {
	query := `SELECT key, class, grp, source, title, file, indexed_at FROM registry_objects`
	var args []any
	if class != rifcs.Unclassified {
		query += ` WHERE class = ?`
		args = append(args, string(class))
	}
	query += ` ORDER BY key`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			class   string
			indexed string
		)
		if err := rows.Scan(&e.Key, &class, &e.Group, &e.Source, &e.Title, &e.File, &indexed); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		e.Class = rifcs.ObjectClass(class)
		if e.IndexedAt, err = time.Parse(rifcs.TimestampLayout, indexed); err != nil {
			return nil, fmt.Errorf("catalog %s: bad timestamp %q: %w", e.Key, indexed, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return entries, nil
}

// Title is the text of the first name of ro's class object, its parts
// joined by spaces.
func Title(ro *rifcs.RegistryObject) string {
	obj := ro.Class()
	if obj == nil {
		return ""
	}
	names := obj.Body().Names()
	if len(names) == 0 {
		return ""
	}
	var parts []string
	for _, p := range names[0].NameParts() {
		if t := strings.TrimSpace(p.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
