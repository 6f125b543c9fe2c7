package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/cryptox"
	"github.com/dmitrijs2005/timekeeper/internal/server/auth"
	"github.com/dmitrijs2005/timekeeper/internal/server/config"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
)

func newUserService(t *testing.T, u *fakeUsersRepo) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
	}
	return NewUserService(nil, &fakeRepoManager{u: u}, cfg)
}

func TestRegister_Success(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newUserService(t, repo)

	id, err := s.Register(context.Background(), "Alice", "alice@example.com", "pw", "")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if id != 1 {
		t.Fatalf("unexpected id %d", id)
	}

	stored := repo.byMail["alice@example.com"]
	if stored.Role != models.RoleEmployee {
		t.Fatalf("default role not applied: %q", stored.Role)
	}
	if stored.PasswordHash == "pw" {
		t.Fatalf("password stored in clear")
	}
	if ok, _ := cryptox.CheckPassword(stored.PasswordHash, []byte("pw")); !ok {
		t.Fatalf("stored hash does not verify")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newUserService(t, newFakeUsersRepo())

	if _, err := s.Register(context.Background(), "Alice", "alice@example.com", "pw", "employee"); err != nil {
		t.Fatalf("first Register error: %v", err)
	}
	_, err := s.Register(context.Background(), "Alice 2", "alice@example.com", "other", "employee")
	if !errors.Is(err, common.ErrUserAlreadyExists) || !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	s := newUserService(t, newFakeUsersRepo())

	cases := []struct {
		name, email, pw, role string
		want                  error
	}{
		{"", "a@example.com", "pw", "", common.ErrMissingFields},
		{"A", "  ", "pw", "", common.ErrMissingFields},
		{"A", "a@example.com", "", "", common.ErrMissingFields},
		{"A", "a@example.com", "pw", "root", common.ErrInvalidRole},
	}
	for _, c := range cases {
		_, err := s.Register(context.Background(), c.name, c.email, c.pw, c.role)
		if !errors.Is(err, c.want) || !errors.Is(err, common.ErrorValidation) {
			t.Errorf("Register(%q,%q,%q,%q): want %v, got %v", c.name, c.email, c.pw, c.role, c.want, err)
		}
	}
}

func TestRegister_AdminRoleAccepted(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newUserService(t, repo)

	if _, err := s.Register(context.Background(), "Root", "root@example.com", "pw", "admin"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if repo.byMail["root@example.com"].Role != models.RoleAdmin {
		t.Fatalf("role not stored")
	}
}

func TestRegister_StorageErrors(t *testing.T) {
	repo := newFakeUsersRepo()
	repo.getErr = errBoom{}
	s := newUserService(t, repo)

	_, err := s.Register(context.Background(), "A", "a@example.com", "pw", "")
	if err == nil || !regexp.MustCompile(`error looking up user: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}

	repo.getErr = nil
	repo.createErr = errBoom{}
	_, err = s.Register(context.Background(), "A", "a@example.com", "pw", "")
	if err == nil || !regexp.MustCompile(`error creating user: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped create error, got %v", err)
	}
}

func TestCreateUser_SameRulesAsRegister(t *testing.T) {
	s := newUserService(t, newFakeUsersRepo())

	if _, err := s.CreateUser(context.Background(), "Bob", "bob@example.com", "pw", ""); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if _, err := s.CreateUser(context.Background(), "Bob", "bob@example.com", "pw", ""); !errors.Is(err, common.ErrUserAlreadyExists) {
		t.Fatalf("want ErrUserAlreadyExists, got %v", err)
	}
	if _, err := s.CreateUser(context.Background(), "", "x@example.com", "pw", ""); !errors.Is(err, common.ErrMissingFields) {
		t.Fatalf("want ErrMissingFields, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	s := newUserService(t, newFakeUsersRepo())

	id, err := s.Register(context.Background(), "Alice", "alice@example.com", "pw", "admin")
	if err != nil {
		t.Fatal(err)
	}

	res, err := s.Login(context.Background(), "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if res.User.ID != id || res.User.Name != "Alice" || res.User.Role != "admin" {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	claims, err := auth.ParseToken(res.Token, []byte("k"))
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != id || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newUserService(t, newFakeUsersRepo())
	if _, err := s.Register(context.Background(), "Alice", "alice@example.com", "pw", ""); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Login(context.Background(), "ghost@example.com", "pw"); !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("unknown email: want ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Login(context.Background(), "ghost@example.com", "pw"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want unauthorized category, got %v", err)
	}
}

func TestLogin_StorageError(t *testing.T) {
	repo := newFakeUsersRepo()
	repo.getErr = errBoom{}
	s := newUserService(t, repo)

	_, err := s.Login(context.Background(), "a@example.com", "pw")
	if err == nil || errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newUserService(t, repo)
	for _, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := s.Register(context.Background(), "X", email, "pw", ""); err != nil {
			t.Fatal(err)
		}
	}

	users, err := s.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers error: %v", err)
	}
	if len(users) != 2 || users[0].ID != 1 || users[1].Email != "b@example.com" {
		t.Fatalf("unexpected users: %+v", users)
	}

	repo.listErr = errBoom{}
	if _, err := s.ListUsers(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
