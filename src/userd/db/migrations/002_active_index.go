package migrations

import "database/sql"

// migration002ActiveIndex indexes the active flag for the active users listing
func migration002ActiveIndex() Migration {
	return Migration{
		Version:     2,
		Description: "Index users by active flag",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_users_active ON users(active, id)`)
			return err
		},
	}
}
