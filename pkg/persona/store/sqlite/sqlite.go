// Package sqlite keeps a history of persona reports in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/persona/pkg/persona/extract"
	"github.com/cognicore/persona/pkg/persona/internalerr"
	"github.com/cognicore/persona/pkg/persona/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db  *sql.DB
	ids *store.IDs
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time; concurrent saves queue instead of hitting SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db, ids: store.NewIDs()}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	generated_at INTEGER NOT NULL,
	taxonomy_version TEXT,
	body TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS reports_username ON reports(username, generated_at);

CREATE TABLE IF NOT EXISTS report_citations (
	report_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	type TEXT NOT NULL,
	text TEXT NOT NULL,
	source TEXT NOT NULL,
	PRIMARY KEY(report_id, seq),
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Save inserts the report and its citations in one transaction. Saving an
// existing ID replaces it.
func (s *sqliteStore) Save(ctx context.Context, r store.Report) (store.Report, error) {
	if r.Username == "" {
		return store.Report{}, fmt.Errorf("%w: report without username", internalerr.ErrInvalidInput)
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now().UTC()
	}
	if r.ID == "" {
		r.ID = s.ids.New(r.GeneratedAt)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Report{}, err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO reports (id, username, generated_at, taxonomy_version, body)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	username=excluded.username,
	generated_at=excluded.generated_at,
	taxonomy_version=excluded.taxonomy_version,
	body=excluded.body;
`
	if _, err := tx.ExecContext(ctx, stmt,
		r.ID, r.Username, r.GeneratedAt.UTC().UnixNano(), r.TaxonomyVersion, r.Body,
	); err != nil {
		return store.Report{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM report_citations WHERE report_id = ?`, r.ID); err != nil {
		return store.Report{}, err
	}
	for i, c := range r.Citations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO report_citations (report_id, seq, type, text, source) VALUES (?, ?, ?, ?, ?)`,
			r.ID, i, string(c.Type), c.Text, c.Source,
		); err != nil {
			return store.Report{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return store.Report{}, err
	}
	r.Location = "sqlite://" + r.ID
	return r, nil
}

// Get loads one report by ID.
func (s *sqliteStore) Get(ctx context.Context, id string) (store.Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, generated_at, taxonomy_version, body FROM reports WHERE id = ?`, id)
	r, err := s.scanReport(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Report{}, fmt.Errorf("report %s: %w", id, internalerr.ErrNotFound)
	}
	return r, err
}

// Latest returns the newest report for username; ties on generation time
// go to the larger ID.
func (s *sqliteStore) Latest(ctx context.Context, username string) (store.Report, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, username, generated_at, taxonomy_version, body FROM reports
WHERE username = ?
ORDER BY generated_at DESC, id DESC
LIMIT 1`, username)
	r, err := s.scanReport(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Report{}, fmt.Errorf("reports for %s: %w", username, internalerr.ErrNotFound)
	}
	return r, err
}

func (s *sqliteStore) scanReport(ctx context.Context, row *sql.Row) (store.Report, error) {
	var (
		r       store.Report
		nanos   int64
		version sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Username, &nanos, &version, &r.Body); err != nil {
		return store.Report{}, err
	}
	r.GeneratedAt = time.Unix(0, nanos).UTC()
	r.TaxonomyVersion = version.String
	r.Location = "sqlite://" + r.ID

	rows, err := s.db.QueryContext(ctx,
		`SELECT type, text, source FROM report_citations WHERE report_id = ? ORDER BY seq`, r.ID)
	if err != nil {
		return store.Report{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c   extract.Citation
			typ string
		)
		if err := rows.Scan(&typ, &c.Text, &c.Source); err != nil {
			return store.Report{}, err
		}
		c.Type = extract.CitationType(typ)
		r.Citations = append(r.Citations, c)
	}
	return r, rows.Err()
}
