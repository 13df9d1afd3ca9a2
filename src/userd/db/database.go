// Package db provides the userd persistence layer: an in-memory SQLite
// database that is loaded from disk on start and written back on shutdown.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/bitswalk/userd/src/common/errors"
	"github.com/bitswalk/userd/src/common/logs"
	"github.com/bitswalk/userd/src/common/paths"
	"github.com/bitswalk/userd/src/userd/db/migrations"
	"github.com/bitswalk/userd/src/userd/users"
	_ "github.com/mattn/go-sqlite3"
)

// package-level logger, can be set via SetLogger
var log = logs.NewDiscard()

// SetLogger sets the logger for the db package and its migrations
func SetLogger(l *logs.Logger) {
	if l == nil {
		return
	}
	log = l
	migrations.SetLogger(l)
}

// Database wraps the SQLite connection with persistence capabilities
type Database struct {
	db           *sql.DB
	persistPath  string
	mu           sync.RWMutex
	shutdownOnce sync.Once
}

// Config holds the database configuration
type Config struct {
	// PersistPath is the file the database is saved to on shutdown.
	// Empty disables persistence.
	PersistPath string
	// LoadOnStart loads existing data from PersistPath on startup
	LoadOnStart bool
}

// DefaultConfig returns a default database configuration
func DefaultConfig() Config {
	return Config{
		PersistPath: "~/.userd/userd.db",
		LoadOnStart: true,
	}
}

// New creates a new in-memory database with persistence support
func New(cfg Config) (*Database, error) {
	persistPath := ""
	if cfg.PersistPath != "" {
		persistPath = paths.Expand(cfg.PersistPath)
	}

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	// Every :memory: connection is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := migrations.NewRunner(db).Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	database := &Database{
		db:          db,
		persistPath: persistPath,
	}

	if cfg.LoadOnStart && persistPath != "" {
		if _, err := os.Stat(persistPath); err == nil {
			if err := database.LoadFromDisk(); err != nil {
				// start fresh rather than refusing to serve
				log.Warn("Failed to load database from disk", "path", persistPath, "error", err)
			}
		}
	}

	return database, nil
}

// DB returns the underlying sql.DB for direct queries
func (d *Database) DB() *sql.DB {
	return d.db
}

// PersistPath returns the expanded path the database is saved to
func (d *Database) PersistPath() string {
	return d.persistPath
}

// WithinTx runs fn with a UserRepository bound to a single transaction.
// The transaction is committed when fn returns nil and rolled back when it
// returns an error or panics.
func (d *Database) WithinTx(ctx context.Context, fn func(users.Store) error) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.ErrDatabaseTransaction.WithCause(err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(newUserRepository(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Warn("Transaction rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.ErrDatabaseTransaction.WithCause(err)
	}
	return nil
}

// Shutdown persists the database to disk and closes the connection
func (d *Database) Shutdown() error {
	var shutdownErr error

	d.shutdownOnce.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		if d.persistPath != "" {
			if err := d.persistToDisk(); err != nil {
				shutdownErr = fmt.Errorf("failed to persist database: %w", err)
			}
		}

		if err := d.db.Close(); err != nil {
			if shutdownErr != nil {
				shutdownErr = fmt.Errorf("%v; also failed to close database: %w", shutdownErr, err)
			} else {
				shutdownErr = fmt.Errorf("failed to close database: %w", err)
			}
		}
	})

	return shutdownErr
}

// Close closes the connection without persisting. Used by one-shot commands
// that read the persisted file while a server may own it.
func (d *Database) Close() error {
	var closeErr error
	d.shutdownOnce.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		closeErr = d.db.Close()
	})
	return closeErr
}

// SaveToDisk writes the current state to disk without closing the database
func (d *Database) SaveToDisk() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.persistToDisk()
}

// persistToDisk writes to a temp file with VACUUM INTO, then renames it over
// the target so a crash never leaves a half-written database behind
func (d *Database) persistToDisk() error {
	if d.persistPath == "" {
		return nil
	}

	if err := paths.EnsureDir(d.persistPath); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", d.persistPath, err)
	}

	tempPath := d.persistPath + ".tmp"
	os.Remove(tempPath)

	if _, err := d.db.Exec("VACUUM INTO ?", tempPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to vacuum database to disk: %w", err)
	}

	if err := os.Rename(tempPath, d.persistPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename database file: %w", err)
	}

	log.Debug("Database persisted", "path", d.persistPath)
	return nil
}

func (d *Database) tableExistsInDiskDB(tableName string) bool {
	var count int
	err := d.db.QueryRow(`
		SELECT COUNT(*) FROM disk_db.sqlite_master
		WHERE type='table' AND name=?
	`, tableName).Scan(&count)
	return err == nil && count > 0
}

// LoadFromDisk copies the persisted users and settings into memory
func (d *Database) LoadFromDisk() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.persistPath == "" {
		return nil
	}

	if _, err := d.db.Exec("ATTACH DATABASE ? AS disk_db", d.persistPath); err != nil {
		return fmt.Errorf("failed to attach disk database: %w", err)
	}
	defer d.db.Exec("DETACH DATABASE disk_db")

	if d.tableExistsInDiskDB("settings") {
		if _, err := d.db.Exec(`
			INSERT OR REPLACE INTO settings (key, value, created_at, updated_at)
			SELECT key, value, created_at, updated_at FROM disk_db.settings
		`); err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
	}

	if d.tableExistsInDiskDB("users") {
		if _, err := d.db.Exec(`
			INSERT OR REPLACE INTO users (id, name, email, phone, active, created_at, updated_at)
			SELECT id, name, email, phone, active, created_at, updated_at FROM disk_db.users
		`); err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}
	}

	if d.tableExistsInDiskDB("sqlite_sequence") {
		if err := d.restoreUserSequence(); err != nil {
			return fmt.Errorf("failed to load user id sequence: %w", err)
		}
	}

	log.Info("Database loaded from disk", "path", d.persistPath)
	return nil
}

// restoreUserSequence carries the AUTOINCREMENT high-water mark over from
// disk so ids of users deleted before the restart are never handed out again.
// sqlite_sequence has no unique key on name, so the row is replaced by hand.
func (d *Database) restoreUserSequence() error {
	var seq int64
	err := d.db.QueryRow(`
		SELECT MAX(seq) FROM (
			SELECT seq FROM disk_db.sqlite_sequence WHERE name = 'users'
			UNION ALL
			SELECT COALESCE(MAX(id), 0) FROM main.users
		)
	`).Scan(&seq)
	if err != nil {
		return err
	}

	if _, err := d.db.Exec(`DELETE FROM main.sqlite_sequence WHERE name = 'users'`); err != nil {
		return err
	}
	_, err = d.db.Exec(`INSERT INTO main.sqlite_sequence (name, seq) VALUES ('users', ?)`, seq)
	return err
}

// GetSetting retrieves a setting value by key. A missing key returns
// sql.ErrNoRows.
func (d *Database) GetSetting(key string) (string, error) {
	var value string
	err := d.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSetting stores or updates a setting value
func (d *Database) SetSetting(key, value string) error {
	_, err := d.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}
