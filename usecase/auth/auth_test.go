package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/prodhub/backend/domain"
)

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}, nextID: 1}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	stored := *u
	stored.ID = r.nextID
	r.nextID++
	r.users[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*domain.Session{}}
}

func (r *fakeSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSessionRepo) Save(_ context.Context, s *domain.Session) error {
	copied := *s
	r.sessions[s.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) Extend(_ context.Context, id string, ttlSeconds int) error {
	s, ok := r.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.ExpiresAt = time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	return nil
}

const strongPassword = "Sup3r$ecret"

func TestIsStrongPassword(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"Sup3r$ecret", true},
		{"short1$A", true},
		{"a1$Abc", false},        // too short
		{"alllower1$", false},    // no uppercase
		{"ALLUPPER1$", false},    // no lowercase
		{"NoDigits$here", false}, // no digit
		{"NoSpecial1here", false},
	}
	for _, tc := range cases {
		if got := IsStrongPassword(tc.password); got != tc.want {
			t.Errorf("IsStrongPassword(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}

func TestRegister_CreatesHashedUser(t *testing.T) {
	users := newFakeUserRepo()
	uc := New(users, newFakeSessionRepo(), nil)

	user, err := uc.Register(context.Background(), " alice ", " alice@example.com ", strongPassword)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want alice", user.Username)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want alice@example.com", user.Email)
	}
	if user.PasswordHash == strongPassword || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strongPassword)); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	uc := New(newFakeUserRepo(), newFakeSessionRepo(), nil)

	cases := [][3]string{
		{"", "a@b.c", strongPassword},
		{"alice", "", strongPassword},
		{"alice", "a@b.c", "  "},
	}
	for i, tc := range cases {
		_, err := uc.Register(context.Background(), tc[0], tc[1], tc[2])
		if err == nil || err.Error() != "Missing required fields: username, email, or password" {
			t.Errorf("case %d: err = %v", i, err)
		}
	}
}

func TestRegister_WeakPasswordFieldError(t *testing.T) {
	uc := New(newFakeUserRepo(), newFakeSessionRepo(), nil)

	_, err := uc.Register(context.Background(), "alice", "a@b.c", "weak")
	var fieldErrs domain.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("err = %v, want FieldErrors", err)
	}
	if _, ok := fieldErrs["password"]; !ok {
		t.Errorf("field errors = %v, want password key", fieldErrs)
	}
}

func TestLogin_Success(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	uc := New(users, sessions, nil)

	if _, err := uc.Register(context.Background(), "alice", "a@b.c", strongPassword); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, session, err := uc.Login(context.Background(), "alice", strongPassword, time.Hour)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want alice", user.Username)
	}
	if session.ID == "" || session.UserID != user.ID {
		t.Errorf("session = %+v, want id set and user %d", session, user.ID)
	}
	if _, err := sessions.Get(context.Background(), session.ID); err != nil {
		t.Errorf("session not persisted: %v", err)
	}
}

func TestLogin_ByEmail(t *testing.T) {
	uc := New(newFakeUserRepo(), newFakeSessionRepo(), nil)
	if _, err := uc.Register(context.Background(), "alice", "a@b.c", strongPassword); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := uc.Login(context.Background(), "a@b.c", strongPassword, time.Hour); err != nil {
		t.Errorf("login by email: %v", err)
	}
}

func TestLogin_BadCredentialsSameMessage(t *testing.T) {
	uc := New(newFakeUserRepo(), newFakeSessionRepo(), nil)
	if _, err := uc.Register(context.Background(), "alice", "a@b.c", strongPassword); err != nil {
		t.Fatalf("Register: %v", err)
	}

	const want = "Invalid username/email or password"

	_, _, err := uc.Login(context.Background(), "alice", "wrong", time.Hour)
	if err == nil || err.Error() != want {
		t.Errorf("wrong password: err = %v, want %q", err, want)
	}

	_, _, err = uc.Login(context.Background(), "nobody", strongPassword, time.Hour)
	if err == nil || err.Error() != want {
		t.Errorf("unknown user: err = %v, want %q", err, want)
	}
}

func TestGetSession_EvictsExpired(t *testing.T) {
	sessions := newFakeSessionRepo()
	uc := New(newFakeUserRepo(), sessions, nil)

	expired := &domain.Session{
		ID:        "s1",
		UserID:    1,
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := sessions.Save(context.Background(), expired); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := uc.GetSession(context.Background(), "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("err = %v, want %v", err, domain.ErrSessionNotFound)
	}
	if _, ok := sessions.sessions["s1"]; ok {
		t.Error("expired session should be evicted")
	}
}

func TestLogout_RemovesSession(t *testing.T) {
	sessions := newFakeSessionRepo()
	uc := New(newFakeUserRepo(), sessions, nil)

	if _, err := uc.Register(context.Background(), "alice", "a@b.c", strongPassword); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, session, err := uc.Login(context.Background(), "alice", strongPassword, time.Hour)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := uc.Logout(context.Background(), session.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok := sessions.sessions[session.ID]; ok {
		t.Error("session should be gone after logout")
	}
}
