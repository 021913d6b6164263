// Package store persists users, their settings and their saved-job lists in
// a local sqlite database, keyed by email. It replaces the browser-local
// key-value storage of the original design with a real file on disk.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrUserNotFound is returned when no account exists for the given email.
var ErrUserNotFound = errors.New("user not found")

// DB wraps the sqlite connection pool.
type DB struct {
	pool *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*DB, error) {
	// modernc sqlite DSN, e.g. file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// sqlite wants a single writer
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	db := &DB{pool: pool}
	if err := db.migrate(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	if d == nil || d.pool == nil {
		return nil
	}
	return d.pool.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
	email    TEXT PRIMARY KEY,
	name     TEXT NOT NULL DEFAULT '',
	password TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS settings (
	email      TEXT PRIMARY KEY,
	theme      TEXT NOT NULL DEFAULT 'light',
	job_alerts INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS saved_jobs (
	email TEXT PRIMARY KEY,
	ids   TEXT NOT NULL DEFAULT '[]'
);`
	if _, err := d.pool.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// User is a stored account.
type User struct {
	Email string
	Name  string
}

// Settings are the per-user preferences.
type Settings struct {
	Theme     string
	JobAlerts bool
}

// UpsertUser creates the account if it does not exist and updates the name
// otherwise.
func (d *DB) UpsertUser(ctx context.Context, email, name string) error {
	_, err := d.pool.ExecContext(ctx, `
INSERT INTO users (email, name) VALUES (?, ?)
ON CONFLICT(email) DO UPDATE SET name = excluded.name;`, email, name)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetUser looks up an account by email.
func (d *DB) GetUser(ctx context.Context, email string) (*User, error) {
	var user User
	err := d.pool.QueryRowContext(ctx,
		`SELECT email, name FROM users WHERE email = ?;`, email,
	).Scan(&user.Email, &user.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// DeleteUser removes the account with its settings and saved jobs.
func (d *DB) DeleteUser(ctx context.Context, email string) error {
	for _, stmt := range []string{
		`DELETE FROM users WHERE email = ?;`,
		`DELETE FROM settings WHERE email = ?;`,
		`DELETE FROM saved_jobs WHERE email = ?;`,
	} {
		if _, err := d.pool.ExecContext(ctx, stmt, email); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
	}
	return nil
}

// GetSettings returns the user's settings, defaulting when none are stored.
func (d *DB) GetSettings(ctx context.Context, email string) (*Settings, error) {
	var (
		settings Settings
		alerts   int
	)
	err := d.pool.QueryRowContext(ctx,
		`SELECT theme, job_alerts FROM settings WHERE email = ?;`, email,
	).Scan(&settings.Theme, &alerts)
	if errors.Is(err, sql.ErrNoRows) {
		return &Settings{Theme: "light"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	settings.JobAlerts = alerts != 0
	return &settings, nil
}

// SetSettings stores the user's settings.
func (d *DB) SetSettings(ctx context.Context, email string, settings *Settings) error {
	alerts := 0
	if settings.JobAlerts {
		alerts = 1
	}
	_, err := d.pool.ExecContext(ctx, `
INSERT INTO settings (email, theme, job_alerts) VALUES (?, ?, ?)
ON CONFLICT(email) DO UPDATE SET theme = excluded.theme, job_alerts = excluded.job_alerts;`,
		email, settings.Theme, alerts)
	if err != nil {
		return fmt.Errorf("set settings: %w", err)
	}
	return nil
}

// GetSavedJobs returns the saved-job ids for the user. Users without a row
// get an empty list. The stored order carries no meaning.
func (d *DB) GetSavedJobs(ctx context.Context, email string) ([]string, error) {
	var raw string
	err := d.pool.QueryRowContext(ctx,
		`SELECT ids FROM saved_jobs WHERE email = ?;`, email,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get saved jobs: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode saved jobs: %w", err)
	}
	return ids, nil
}

// SetSavedJobs replaces the saved-job list for the user.
func (d *DB) SetSavedJobs(ctx context.Context, email string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode saved jobs: %w", err)
	}
	_, err = d.pool.ExecContext(ctx, `
INSERT INTO saved_jobs (email, ids) VALUES (?, ?)
ON CONFLICT(email) DO UPDATE SET ids = excluded.ids;`, email, string(raw))
	if err != nil {
		return fmt.Errorf("set saved jobs: %w", err)
	}
	return nil
}
