package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

type fakeUsers struct {
	byEmail map[string]*domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*domain.User{}}
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return domain.WrapError(domain.ErrConflict, "create user", errors.New("duplicate email"))
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func newTestService(t *testing.T) (*Service, *fakeUsers) {
	t.Helper()
	users := newFakeUsers()
	svc, err := NewService(users, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, users
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	session, err := svc.Register(context.Background(), Credentials{
		Email:    "Client@Example.com",
		Password: "correct horse",
	}, domain.RoleClient)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if session.Token == "" {
		t.Fatal("empty token")
	}
	if session.User.Email != "client@example.com" {
		t.Fatalf("email = %q", session.User.Email)
	}
	if session.User.PasswordHash != "" {
		t.Fatal("password hash leaked")
	}

	login, err := svc.Login(context.Background(), Credentials{
		Email:    "client@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	identity, err := svc.ParseToken(login.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if identity.UserID != session.User.ID {
		t.Fatalf("UserID = %q, want %q", identity.UserID, session.User.ID)
	}
	if identity.Role != domain.RoleClient {
		t.Fatalf("Role = %q", identity.Role)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newTestService(t)

	creds := Credentials{Email: "a@example.com", Password: "long enough"}
	if _, err := svc.Register(context.Background(), creds, domain.RoleClient); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(context.Background(), creds, domain.RoleClient); !errors.Is(err, ErrUserExists) {
		t.Fatalf("err = %v, want ErrUserExists", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []Credentials{
		{Email: "", Password: "long enough"},
		{Email: "not-an-email", Password: "long enough"},
		{Email: "a@example.com", Password: "short"},
	}
	for _, creds := range cases {
		if _, err := svc.Register(context.Background(), creds, domain.RoleClient); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("creds %+v: err = %v, want invalid input", creds, err)
		}
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	creds := Credentials{Email: "a@example.com", Password: "long enough"}
	if _, err := svc.Register(context.Background(), creds, domain.RoleClient); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(context.Background(), Credentials{Email: "a@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCreds) {
		t.Fatalf("err = %v, want ErrInvalidCreds", err)
	}

	_, err = svc.Login(context.Background(), Credentials{Email: "nobody@example.com", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCreds) {
		t.Fatalf("err = %v, want ErrInvalidCreds", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc, _ := newTestService(t)
	svc.tokenTTL = -time.Minute

	session, err := svc.Register(context.Background(), Credentials{Email: "a@example.com", Password: "long enough"}, domain.RoleClient)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.ParseToken(session.Token); !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	svc, _ := newTestService(t)
	other, err := NewService(newFakeUsers(), "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	session, err := other.Register(context.Background(), Credentials{Email: "a@example.com", Password: "long enough"}, domain.RoleClient)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.ParseToken(session.Token); !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}
