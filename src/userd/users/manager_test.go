package users

import (
	"context"
	stderrors "errors"
	"math"
	"strings"
	"testing"

	"github.com/bitswalk/userd/src/common/errors"
)

// =============================================================================
// Fake store
// =============================================================================

// fakeStore is an in-memory Store that counts every call
type fakeStore struct {
	records map[int64]Record
	nextID  int64
	clock   int64

	findByIDCalls    int
	findByEmailCalls int
	findAllCalls     int
	findActiveCalls  int
	existsCalls      int
	saveCalls        int
	deleteCalls      int

	lastEmailLookup string
	failWith        error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[int64]Record), nextID: 1, clock: 1000}
}

func (f *fakeStore) seed(name, email, phone string, active bool) Record {
	r := Record{ID: f.nextID, Name: name, Email: email, Phone: phone, Active: active, CreatedAt: f.clock, UpdatedAt: f.clock}
	f.records[r.ID] = r
	f.nextID++
	return r
}

func (f *fakeStore) FindByID(ctx context.Context, id int64) (*Record, bool, error) {
	f.findByIDCalls++
	if f.failWith != nil {
		return nil, false, f.failWith
	}
	r, ok := f.records[id]
	if !ok {
		return nil, false, nil
	}
	return &r, true, nil
}

func (f *fakeStore) FindByEmail(ctx context.Context, email string) (*Record, bool, error) {
	f.findByEmailCalls++
	f.lastEmailLookup = email
	if f.failWith != nil {
		return nil, false, f.failWith
	}
	for _, r := range f.records {
		if r.Email == email {
			r := r
			return &r, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeStore) ordered(filter func(Record) bool) []Record {
	var out []Record
	for id := int64(1); id < f.nextID; id++ {
		if r, ok := f.records[id]; ok && filter(r) {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeStore) FindAll(ctx context.Context) ([]Record, error) {
	f.findAllCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.ordered(func(Record) bool { return true }), nil
}

func (f *fakeStore) FindByActive(ctx context.Context, active bool) ([]Record, error) {
	f.findActiveCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.ordered(func(r Record) bool { return r.Active == active }), nil
}

func (f *fakeStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	f.existsCalls++
	if f.failWith != nil {
		return false, f.failWith
	}
	_, ok := f.records[id]
	return ok, nil
}

func (f *fakeStore) Save(ctx context.Context, r *Record) (*Record, error) {
	f.saveCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.clock++
	saved := *r
	if saved.ID == 0 {
		saved.ID = f.nextID
		f.nextID++
		saved.CreatedAt = f.clock
	}
	saved.UpdatedAt = f.clock
	f.records[saved.ID] = saved
	return &saved, nil
}

func (f *fakeStore) DeleteByID(ctx context.Context, id int64) error {
	f.deleteCalls++
	if f.failWith != nil {
		return f.failWith
	}
	delete(f.records, id)
	return nil
}

// fakeTx records how many scopes were opened and whether they failed
type fakeTx struct {
	store     *fakeStore
	scopes    int
	rollbacks int
}

func (t *fakeTx) WithinTx(ctx context.Context, fn func(Store) error) error {
	t.scopes++
	if err := fn(t.store); err != nil {
		t.rollbacks++
		return err
	}
	return nil
}

func newTestManager() (*Manager, *fakeStore, *fakeTx) {
	store := newFakeStore()
	tx := &fakeTx{store: store}
	return NewManager(store, tx), store, tx
}

func assertNotFound(t *testing.T, err error, id int64) {
	t.Helper()
	if !errors.Is(err, errors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	got, ok := errors.Detail(err, "id")
	if !ok || got != id {
		t.Errorf("expected id detail %d, got %v", id, got)
	}
}

func assertDuplicate(t *testing.T, err error, email string) {
	t.Helper()
	if !errors.Is(err, errors.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
	if !strings.Contains(err.Error(), email) {
		t.Errorf("expected error message to mention %q, got %q", email, err.Error())
	}
	got, ok := errors.Detail(err, "email")
	if !ok || got != email {
		t.Errorf("expected email detail %q, got %v", email, got)
	}
}

// =============================================================================
// CreateUser
// =============================================================================

func TestCreateUser_Success(t *testing.T) {
	m, store, tx := newTestManager()
	ctx := context.Background()

	dto, err := m.CreateUser(ctx, CreateInput{Name: "John Doe", Email: "john@example.com", Phone: "1234567890"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if dto.ID == 0 {
		t.Error("expected assigned ID")
	}
	if dto.Name != "John Doe" || dto.Email != "john@example.com" || dto.Phone != "1234567890" {
		t.Errorf("unexpected fields: %+v", dto)
	}
	if !dto.Active {
		t.Error("expected new user to be active")
	}
	if dto.CreatedAt == 0 || dto.UpdatedAt == 0 {
		t.Error("expected timestamps to be populated")
	}
	if store.findByEmailCalls != 1 {
		t.Errorf("expected 1 email lookup, got %d", store.findByEmailCalls)
	}
	if store.saveCalls != 1 {
		t.Errorf("expected 1 save, got %d", store.saveCalls)
	}
	if tx.scopes != 1 {
		t.Errorf("expected 1 transaction scope, got %d", tx.scopes)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	m, store, tx := newTestManager()
	store.seed("Existing", "john@example.com", "1", true)

	_, err := m.CreateUser(context.Background(), CreateInput{Name: "John Doe", Email: "john@example.com", Phone: "2"})
	assertDuplicate(t, err, "john@example.com")

	if store.saveCalls != 0 {
		t.Errorf("expected no save, got %d", store.saveCalls)
	}
	if len(store.records) != 1 {
		t.Errorf("expected store unchanged, got %d records", len(store.records))
	}
	if tx.rollbacks != 1 {
		t.Errorf("expected transaction rollback, got %d", tx.rollbacks)
	}
}

func TestCreateUser_PropagatesStoreError(t *testing.T) {
	m, store, _ := newTestManager()
	boom := stderrors.New("disk on fire")
	store.failWith = boom

	_, err := m.CreateUser(context.Background(), CreateInput{Name: "A", Email: "a@example.com", Phone: "1"})
	if !stderrors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
	if errors.Is(err, errors.ErrEmailAlreadyExists) || errors.Is(err, errors.ErrUserNotFound) {
		t.Error("store error must not be reported as a user error kind")
	}
}

func TestCreateUser_WithoutTransactor(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store, nil)

	if _, err := m.CreateUser(context.Background(), CreateInput{Name: "A", Email: "a@example.com", Phone: "1"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if store.saveCalls != 1 {
		t.Errorf("expected 1 save, got %d", store.saveCalls)
	}
}

// =============================================================================
// Reads
// =============================================================================

func TestGetUserByID(t *testing.T) {
	m, store, _ := newTestManager()
	seeded := store.seed("Jane", "jane@example.com", "555", false)

	dto, err := m.GetUserByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if dto.Email != "jane@example.com" || dto.Active {
		t.Errorf("unexpected dto: %+v", dto)
	}
	if store.saveCalls != 0 || store.deleteCalls != 0 {
		t.Error("read must not write")
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	m, _, _ := newTestManager()
	ctx := context.Background()

	for _, id := range []int64{0, -1, 42, math.MaxInt64} {
		_, err := m.GetUserByID(ctx, id)
		assertNotFound(t, err, id)
	}
}

func TestGetAllUsers(t *testing.T) {
	m, store, _ := newTestManager()
	ctx := context.Background()

	all, err := m.GetAllUsers(ctx)
	if err != nil {
		t.Fatalf("GetAllUsers failed: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", all)
	}

	store.seed("A", "a@example.com", "1", true)
	store.seed("B", "b@example.com", "2", false)
	store.seed("C", "c@example.com", "3", true)

	all, err = m.GetAllUsers(ctx)
	if err != nil {
		t.Fatalf("GetAllUsers failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 users, got %d", len(all))
	}
	for i, want := range []string{"A", "B", "C"} {
		if all[i].Name != want {
			t.Errorf("position %d: expected %s, got %s", i, want, all[i].Name)
		}
	}
}

func TestGetActiveUsers(t *testing.T) {
	m, store, _ := newTestManager()
	store.seed("A", "a@example.com", "1", true)
	store.seed("B", "b@example.com", "2", false)
	store.seed("C", "c@example.com", "3", true)

	active, err := m.GetActiveUsers(context.Background())
	if err != nil {
		t.Fatalf("GetActiveUsers failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active users, got %d", len(active))
	}
	if active[0].Name != "A" || active[1].Name != "C" {
		t.Errorf("unexpected order: %+v", active)
	}
	for _, u := range active {
		if !u.Active {
			t.Errorf("inactive user returned: %+v", u)
		}
	}
}

func TestGetInactiveUsers(t *testing.T) {
	m, store, _ := newTestManager()
	store.seed("A", "a@example.com", "1", true)
	store.seed("B", "b@example.com", "2", false)
	store.seed("C", "c@example.com", "3", false)

	inactive, err := m.GetInactiveUsers(context.Background())
	if err != nil {
		t.Fatalf("GetInactiveUsers failed: %v", err)
	}
	if len(inactive) != 2 || inactive[0].Name != "B" || inactive[1].Name != "C" {
		t.Fatalf("unexpected inactive users: %+v", inactive)
	}
	if store.findActiveCalls != 1 || store.findAllCalls != 0 {
		t.Errorf("expected one FindByActive and no FindAll, got %d/%d", store.findActiveCalls, store.findAllCalls)
	}
}

// =============================================================================
// UpdateUser
// =============================================================================

func TestUpdateUser_PartialKeepsOtherFields(t *testing.T) {
	m, store, _ := newTestManager()
	seeded := store.seed("John Doe", "john@example.com", "1234567890", true)

	dto, err := m.UpdateUser(context.Background(), seeded.ID, UpdateInput{Phone: StringPtr("0987654321")})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if dto.Phone != "0987654321" {
		t.Errorf("expected phone updated, got %s", dto.Phone)
	}
	if dto.Name != "John Doe" || dto.Email != "john@example.com" || !dto.Active {
		t.Errorf("unexpected fields changed: %+v", dto)
	}
	if store.findByEmailCalls != 0 {
		t.Errorf("expected no email lookup, got %d", store.findByEmailCalls)
	}
	if store.saveCalls != 1 {
		t.Errorf("expected 1 save, got %d", store.saveCalls)
	}
}

func TestUpdateUser_Deactivate(t *testing.T) {
	m, store, _ := newTestManager()
	seeded := store.seed("A", "a@example.com", "1", true)

	dto, err := m.UpdateUser(context.Background(), seeded.ID, UpdateInput{Active: BoolPtr(false)})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if dto.Active {
		t.Error("expected user to be deactivated")
	}

	active, _ := m.GetActiveUsers(context.Background())
	if len(active) != 0 {
		t.Errorf("expected no active users, got %d", len(active))
	}
}

func TestUpdateUser_SameEmailSkipsLookup(t *testing.T) {
	m, store, _ := newTestManager()
	seeded := store.seed("A", "a@example.com", "1", true)

	_, err := m.UpdateUser(context.Background(), seeded.ID, UpdateInput{Email: StringPtr("a@example.com")})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if store.findByEmailCalls != 0 {
		t.Errorf("expected no email lookup, got %d", store.findByEmailCalls)
	}
	if store.saveCalls != 1 {
		t.Errorf("expected 1 save, got %d", store.saveCalls)
	}
}

func TestUpdateUser_NewUniqueEmail(t *testing.T) {
	m, store, _ := newTestManager()
	seeded := store.seed("A", "a@example.com", "1", true)

	dto, err := m.UpdateUser(context.Background(), seeded.ID, UpdateInput{Email: StringPtr("new@example.com")})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if dto.Email != "new@example.com" {
		t.Errorf("expected email updated, got %s", dto.Email)
	}
	if store.findByEmailCalls != 1 || store.lastEmailLookup != "new@example.com" {
		t.Errorf("expected one lookup of the new email, got %d (%s)", store.findByEmailCalls, store.lastEmailLookup)
	}
}

func TestUpdateUser_DuplicateEmailSavesNothing(t *testing.T) {
	m, store, tx := newTestManager()
	target := store.seed("A", "a@example.com", "1", true)
	store.seed("B", "b@example.com", "2", true)

	_, err := m.UpdateUser(context.Background(), target.ID, UpdateInput{
		Name:  StringPtr("Renamed"),
		Email: StringPtr("b@example.com"),
	})
	assertDuplicate(t, err, "b@example.com")

	if store.saveCalls != 0 {
		t.Errorf("expected no save, got %d", store.saveCalls)
	}
	if got := store.records[target.ID]; got.Name != "A" || got.Email != "a@example.com" {
		t.Errorf("stored record changed: %+v", got)
	}
	if tx.rollbacks != 1 {
		t.Errorf("expected rollback, got %d", tx.rollbacks)
	}
}

func TestUpdateUser_EmptyStringIsPresent(t *testing.T) {
	m, store, _ := newTestManager()
	seeded := store.seed("A", "a@example.com", "1", true)

	dto, err := m.UpdateUser(context.Background(), seeded.ID, UpdateInput{Phone: StringPtr("")})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if dto.Phone != "" {
		t.Errorf("expected phone cleared, got %q", dto.Phone)
	}
}

func TestUpdateUser_EmptyInputStillSaves(t *testing.T) {
	m, store, _ := newTestManager()
	seeded := store.seed("A", "a@example.com", "1", true)

	if !(UpdateInput{}).IsEmpty() {
		t.Fatal("expected zero UpdateInput to be empty")
	}

	dto, err := m.UpdateUser(context.Background(), seeded.ID, UpdateInput{})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if dto.Name != "A" || dto.Email != "a@example.com" {
		t.Errorf("unexpected dto: %+v", dto)
	}
	if store.saveCalls != 1 {
		t.Errorf("expected 1 save, got %d", store.saveCalls)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	m, store, _ := newTestManager()

	_, err := m.UpdateUser(context.Background(), 99, UpdateInput{Name: StringPtr("x")})
	assertNotFound(t, err, 99)

	if store.saveCalls != 0 || store.findByEmailCalls != 0 {
		t.Error("expected no further store calls after missing record")
	}
}

// =============================================================================
// DeleteUser
// =============================================================================

func TestDeleteUser(t *testing.T) {
	m, store, _ := newTestManager()
	seeded := store.seed("A", "a@example.com", "1", true)

	if err := m.DeleteUser(context.Background(), seeded.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if store.existsCalls != 1 || store.deleteCalls != 1 {
		t.Errorf("expected 1 exists + 1 delete, got %d + %d", store.existsCalls, store.deleteCalls)
	}
	if len(store.records) != 0 {
		t.Error("expected record removed")
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	m, store, _ := newTestManager()

	err := m.DeleteUser(context.Background(), 7)
	assertNotFound(t, err, 7)

	if store.deleteCalls != 0 {
		t.Errorf("expected no delete, got %d", store.deleteCalls)
	}
}

func TestDeleteUser_Twice(t *testing.T) {
	m, store, _ := newTestManager()
	seeded := store.seed("A", "a@example.com", "1", true)
	ctx := context.Background()

	if err := m.DeleteUser(ctx, seeded.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	assertNotFound(t, m.DeleteUser(ctx, seeded.ID), seeded.ID)
}

// =============================================================================
// End to end
// =============================================================================

func TestUserLifecycle(t *testing.T) {
	m, _, _ := newTestManager()
	ctx := context.Background()

	created, err := m.CreateUser(ctx, CreateInput{Name: "John Doe", Email: "john@example.com", Phone: "1234567890"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = m.CreateUser(ctx, CreateInput{Name: "Other", Email: "john@example.com", Phone: "1"})
	assertDuplicate(t, err, "john@example.com")

	updated, err := m.UpdateUser(ctx, created.ID, UpdateInput{Phone: StringPtr("0987654321")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "John Doe" || updated.Phone != "0987654321" {
		t.Errorf("unexpected update result: %+v", updated)
	}

	if err := m.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, err = m.GetUserByID(ctx, created.ID)
	assertNotFound(t, err, created.ID)
}
