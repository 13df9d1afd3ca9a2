// Package users implements the business rules for the user collection:
// email uniqueness and existence checks around create, read, update and delete.
// Persistence is reached only through the Store and Transactor interfaces.
package users

import "context"

// Record is a persisted user as stored by the persistence layer.
// ID and timestamps are assigned by Store.Save; timestamps are Unix milliseconds.
type Record struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Active    bool
	CreatedAt int64
	UpdatedAt int64
}

// UserDTO is the transfer shape exchanged with callers
type UserDTO struct {
	ID        int64  `json:"id" example:"1"`
	Name      string `json:"name" example:"John Doe"`
	Email     string `json:"email" example:"john@example.com"`
	Phone     string `json:"phone" example:"1234567890"`
	Active    bool   `json:"active" example:"true"`
	CreatedAt int64  `json:"created_at" example:"1735689600000"`
	UpdatedAt int64  `json:"updated_at" example:"1735689600000"`
}

// CreateInput holds the fields of a new user. Values are expected to be
// validated (non-blank, email syntax) by the transport layer.
type CreateInput struct {
	Name  string
	Email string
	Phone string
}

// UpdateInput holds a partial update. A nil field is absent and leaves the
// stored value untouched; a non-nil field is present and overwrites it, even
// when it points to an empty string.
type UpdateInput struct {
	Name   *string
	Email  *string
	Phone  *string
	Active *bool
}

// IsEmpty reports whether no field is present
func (in UpdateInput) IsEmpty() bool {
	return in.Name == nil && in.Email == nil && in.Phone == nil && in.Active == nil
}

// Store is the persistence contract consumed by the Manager.
// Optional lookups report presence through the boolean result.
type Store interface {
	FindByID(ctx context.Context, id int64) (*Record, bool, error)
	FindByEmail(ctx context.Context, email string) (*Record, bool, error)
	FindAll(ctx context.Context) ([]Record, error)
	FindByActive(ctx context.Context, active bool) ([]Record, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// Save inserts a record with ID 0 and assigns its ID and timestamps;
	// otherwise it updates the record and refreshes UpdatedAt.
	Save(ctx context.Context, r *Record) (*Record, error)
	DeleteByID(ctx context.Context, id int64) error
}

// Transactor runs fn against a Store bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// StringPtr returns a pointer to s, for building UpdateInput literals
func StringPtr(s string) *string {
	return &s
}

// BoolPtr returns a pointer to b, for building UpdateInput literals
func BoolPtr(b bool) *bool {
	return &b
}
