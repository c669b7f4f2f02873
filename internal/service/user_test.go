package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sadman/salvage/internal/apperror"
	"github.com/sadman/salvage/internal/auth"
	"github.com/sadman/salvage/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
// A hand-written fake keeps the tests dependency-free and easy to read.
type fakeUserRepo struct {
	byEmail map[string]*model.User
	byID    map[string]*model.User
	nextID  int
	// set to simulate failures
	createErr     error
	getByEmailErr error
	// when true, the first Create fails with a uniqueness error and
	// plants the row anyway, simulating a lost insert race
	loseCreateRace bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*model.User),
		byID:    make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[user.Email]; exists {
		return errors.New("UNIQUE constraint failed: users.email")
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-fake-%d", f.nextID)
	user.CreatedAt = time.Now()
	copied := *user
	f.byEmail[user.Email] = &copied
	f.byID[user.ID] = &copied
	if f.loseCreateRace {
		f.loseCreateRace = false
		return errors.New("UNIQUE constraint failed: users.email")
	}
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

// fakeVerifier returns a canned identity, or an error, without ever
// talking to Google.
type fakeVerifier struct {
	identity *auth.Identity
	err      error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*auth.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestUserService wires a UserService with fakes.
func newTestUserService(t *testing.T, repo *fakeUserRepo, verifier *fakeVerifier) *UserService {
	t.Helper()
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return NewUserService(repo, verifier, ts, testLogger())
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_NewUser(t *testing.T) {
	repo := newFakeUserRepo()
	verifier := &fakeVerifier{identity: &auth.Identity{
		Email:   "a@x.com",
		Name:    "Ada",
		Picture: "https://example.com/ada.png",
	}}
	svc := newTestUserService(t, repo, verifier)

	result, err := svc.Login(context.Background(), "raw-google-id-token")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if result.User == nil || result.User.ID == "" {
		t.Fatal("Login() should return a created user with an ID")
	}
	if result.User.Email != "a@x.com" {
		t.Errorf("Email = %q, want %q", result.User.Email, "a@x.com")
	}
	if result.Token == "" {
		t.Error("Login() should issue a session token")
	}
}

func TestLogin_Idempotent(t *testing.T) {
	repo := newFakeUserRepo()
	verifier := &fakeVerifier{identity: &auth.Identity{Email: "a@x.com", Name: "Ada"}}
	svc := newTestUserService(t, repo, verifier)

	first, err := svc.Login(context.Background(), "token-1")
	if err != nil {
		t.Fatalf("first Login() error = %v", err)
	}
	second, err := svc.Login(context.Background(), "token-2")
	if err != nil {
		t.Fatalf("second Login() error = %v", err)
	}

	// Two logins with the same email land on the same user row
	if first.User.ID != second.User.ID {
		t.Errorf("second login created a new user: %q != %q", second.User.ID, first.User.ID)
	}
}

func TestLogin_DoesNotRefreshProfile(t *testing.T) {
	repo := newFakeUserRepo()
	verifier := &fakeVerifier{identity: &auth.Identity{Email: "a@x.com", Name: "Old Name"}}
	svc := newTestUserService(t, repo, verifier)

	if _, err := svc.Login(context.Background(), "token-1"); err != nil {
		t.Fatalf("first Login() error = %v", err)
	}

	// Same email with a new display name: the stored record wins
	verifier.identity = &auth.Identity{Email: "a@x.com", Name: "New Name"}
	second, err := svc.Login(context.Background(), "token-2")
	if err != nil {
		t.Fatalf("second Login() error = %v", err)
	}
	if second.User.Name != "Old Name" {
		t.Errorf("Name = %q, want the original %q", second.User.Name, "Old Name")
	}
}

func TestLogin_RejectsUnverifiableToken(t *testing.T) {
	repo := newFakeUserRepo()
	verifier := &fakeVerifier{err: errors.New("signature mismatch")}
	svc := newTestUserService(t, repo, verifier)

	_, err := svc.Login(context.Background(), "forged-token")
	if err == nil {
		t.Fatal("Login() should reject a token that fails verification")
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestLogin_EmptyToken(t *testing.T) {
	svc := newTestUserService(t, newFakeUserRepo(), &fakeVerifier{})

	_, err := svc.Login(context.Background(), "   ")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

// =========================================================================
// FIND-OR-CREATE TESTS
// =========================================================================

func TestFindOrCreate_EmptyEmail(t *testing.T) {
	svc := newTestUserService(t, newFakeUserRepo(), &fakeVerifier{})

	_, err := svc.FindOrCreate(context.Background(), "", "Ada", "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestFindOrCreate_MalformedEmail(t *testing.T) {
	svc := newTestUserService(t, newFakeUserRepo(), &fakeVerifier{})

	_, err := svc.FindOrCreate(context.Background(), "not-an-email", "Ada", "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestFindOrCreate_LostRaceFallsBackToWinner(t *testing.T) {
	repo := newFakeUserRepo()
	repo.loseCreateRace = true
	svc := newTestUserService(t, repo, &fakeVerifier{})

	user, err := svc.FindOrCreate(context.Background(), "race@x.com", "Racer", "")
	if err != nil {
		t.Fatalf("FindOrCreate() should recover from a lost insert race, got %v", err)
	}
	if user.Email != "race@x.com" {
		t.Errorf("Email = %q, want %q", user.Email, "race@x.com")
	}
}

func TestFindOrCreate_StorageFailure(t *testing.T) {
	repo := newFakeUserRepo()
	repo.getByEmailErr = errors.New("database is locked")
	svc := newTestUserService(t, repo, &fakeVerifier{})

	_, err := svc.FindOrCreate(context.Background(), "a@x.com", "Ada", "")
	if !errors.Is(err, apperror.ErrStorage) {
		t.Errorf("error = %v, want ErrStorage", err)
	}
}

// =========================================================================
// GET BY ID TESTS
// =========================================================================

func TestUserGetByID_NotFound(t *testing.T) {
	svc := newTestUserService(t, newFakeUserRepo(), &fakeVerifier{})

	_, err := svc.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
