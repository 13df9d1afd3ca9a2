package migrations

import "database/sql"

// migration001Users creates the users and settings tables
func migration001Users() Migration {
	return Migration{
		Version:     1,
		Description: "Users and settings tables",
		Up:          migration001Up,
	}
}

func migration001Up(tx *sql.Tx) error {
	if _, err := tx.Exec(usersTableSQL); err != nil {
		return err
	}
	if _, err := tx.Exec(settingsTableSQL); err != nil {
		return err
	}
	return nil
}

// timestamps are Unix milliseconds, assigned by the repository
const usersTableSQL = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT 1,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

const settingsTableSQL = `
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`
