package users

import (
	"context"

	"github.com/bitswalk/userd/src/common/logs"
)

// package-level logger, can be set via SetLogger
var log = logs.NewDiscard()

// SetLogger sets the logger for the users package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// Manager enforces the user collection invariants. It holds no state of its
// own; every call goes back to the Store.
type Manager struct {
	store Store
	tx    Transactor
}

// NewManager creates a Manager. When tx is nil, create and update run
// directly against store without a transaction scope.
func NewManager(store Store, tx Transactor) *Manager {
	return &Manager{store: store, tx: tx}
}

// withinTx runs the read-check-then-write sequences of create and update
func (m *Manager) withinTx(ctx context.Context, fn func(Store) error) error {
	if m.tx == nil {
		return fn(m.store)
	}
	return m.tx.WithinTx(ctx, fn)
}

// CreateUser stores a new active user after checking that its email is unused
func (m *Manager) CreateUser(ctx context.Context, in CreateInput) (*UserDTO, error) {
	var saved *Record

	err := m.withinTx(ctx, func(s Store) error {
		_, found, err := s.FindByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if found {
			return DuplicateEmail(in.Email)
		}

		saved, err = s.Save(ctx, &Record{
			Name:   in.Name,
			Email:  in.Email,
			Phone:  in.Phone,
			Active: true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("User created", "id", saved.ID)
	dto := toDTO(saved)
	return &dto, nil
}

// GetUserByID returns the user with the given id
func (m *Manager) GetUserByID(ctx context.Context, id int64) (*UserDTO, error) {
	rec, found, err := m.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, UserNotFound(id)
	}

	dto := toDTO(rec)
	return &dto, nil
}

// GetAllUsers returns every user in the order the store yields them
func (m *Manager) GetAllUsers(ctx context.Context) ([]UserDTO, error) {
	recs, err := m.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(recs), nil
}

// GetActiveUsers returns the users whose active flag is set
func (m *Manager) GetActiveUsers(ctx context.Context) ([]UserDTO, error) {
	recs, err := m.store.FindByActive(ctx, true)
	if err != nil {
		return nil, err
	}
	return toDTOs(recs), nil
}

// GetInactiveUsers returns the users whose active flag is cleared
func (m *Manager) GetInactiveUsers(ctx context.Context) ([]UserDTO, error) {
	recs, err := m.store.FindByActive(ctx, false)
	if err != nil {
		return nil, err
	}
	return toDTOs(recs), nil
}

// UpdateUser applies the present fields of in to the user with the given id.
// A changed email is checked for uniqueness first; on conflict nothing is saved.
func (m *Manager) UpdateUser(ctx context.Context, id int64, in UpdateInput) (*UserDTO, error) {
	var saved *Record

	if in.IsEmpty() {
		log.Debug("Update carries no fields, only updated_at changes", "id", id)
	}

	err := m.withinTx(ctx, func(s Store) error {
		rec, found, err := s.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return UserNotFound(id)
		}

		if in.Name != nil {
			rec.Name = *in.Name
		}
		if in.Phone != nil {
			rec.Phone = *in.Phone
		}
		if in.Active != nil {
			rec.Active = *in.Active
		}

		if in.Email != nil && *in.Email != rec.Email {
			holder, taken, err := s.FindByEmail(ctx, *in.Email)
			if err != nil {
				return err
			}
			if taken && holder.ID != rec.ID {
				return DuplicateEmail(*in.Email)
			}
			rec.Email = *in.Email
		}

		saved, err = s.Save(ctx, rec)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("User updated", "id", saved.ID)
	dto := toDTO(saved)
	return &dto, nil
}

// DeleteUser removes the user with the given id
func (m *Manager) DeleteUser(ctx context.Context, id int64) error {
	exists, err := m.store.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return UserNotFound(id)
	}

	if err := m.store.DeleteByID(ctx, id); err != nil {
		return err
	}

	log.Info("User deleted", "id", id)
	return nil
}

func toDTO(r *Record) UserDTO {
	return UserDTO{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toDTOs(recs []Record) []UserDTO {
	out := make([]UserDTO, 0, len(recs))
	for i := range recs {
		out = append(out, toDTO(&recs[i]))
	}
	return out
}
