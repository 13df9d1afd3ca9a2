package users

import "github.com/bitswalk/userd/src/common/errors"

// DuplicateEmail reports that email is already held by a user record.
// It matches errors.ErrEmailAlreadyExists and carries the email as detail "email".
func DuplicateEmail(email string) error {
	return errors.ErrEmailAlreadyExists.
		WithMessagef("Email already exists: %s", email).
		WithDetail("email", email)
}

// UserNotFound reports that no user record has the given id.
// It matches errors.ErrUserNotFound and carries the id as detail "id".
func UserNotFound(id int64) error {
	return errors.ErrUserNotFound.
		WithMessagef("User not found with id: %d", id).
		WithDetail("id", id)
}
