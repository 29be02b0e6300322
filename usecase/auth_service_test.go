package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/speakaussie/server/adapters/memory"
	"github.com/speakaussie/server/domain/entities"
)

type stubTokenIssuer struct{}

func (stubTokenIssuer) IssueUserToken(userID, email string) (string, error) {
	return fmt.Sprintf("token-for-%s", userID), nil
}

func newAuthFixture(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewAuthService(store.Users(), store.Subscriptions(), stubTokenIssuer{}), store
}

func TestRegister(t *testing.T) {
	service, store := newAuthFixture(t)

	user, token, err := service.Register(context.Background(), "bruce@example.com", "secret-pass", "Bruce")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "bruce@example.com" {
		t.Errorf("Expected email preserved, got %s", user.Email)
	}
	if user.PasswordHash == "secret-pass" || user.PasswordHash == "" {
		t.Error("Expected password to be stored hashed")
	}
	if token == "" {
		t.Error("Expected an access token")
	}

	// Registration puts the user on the free plan.
	sub, err := store.Subscriptions().GetByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if sub == nil || sub.Plan != entities.PlanFree {
		t.Errorf("Expected free subscription, got %v", sub)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := newAuthFixture(t)

	if _, _, err := service.Register(context.Background(), "bruce@example.com", "secret-pass", "Bruce"); err != nil {
		t.Fatalf("First Register failed: %v", err)
	}

	_, _, err := service.Register(context.Background(), "bruce@example.com", "other-pass", "Impostor")
	if !errors.Is(err, entities.ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	service, _ := newAuthFixture(t)

	registered, _, err := service.Register(context.Background(), "bruce@example.com", "secret-pass", "Bruce")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, plan, token, err := service.Login(context.Background(), "bruce@example.com", "secret-pass")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("Expected user %s, got %s", registered.ID, user.ID)
	}
	if plan != entities.PlanFree {
		t.Errorf("Expected free plan, got %s", plan)
	}
	if token == "" {
		t.Error("Expected an access token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	service, _ := newAuthFixture(t)

	if _, _, err := service.Register(context.Background(), "bruce@example.com", "secret-pass", "Bruce"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, _, _, err := service.Login(context.Background(), "bruce@example.com", "wrong-pass")
	if !errors.Is(err, entities.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	service, _ := newAuthFixture(t)

	// Unknown email and wrong password must be indistinguishable.
	_, _, _, err := service.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, entities.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestProfile(t *testing.T) {
	service, _ := newAuthFixture(t)

	registered, _, err := service.Register(context.Background(), "bruce@example.com", "secret-pass", "Bruce")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, plan, err := service.Profile(context.Background(), registered.ID)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if user.Name != "Bruce" || plan != entities.PlanFree {
		t.Errorf("Expected Bruce on free plan, got %s on %s", user.Name, plan)
	}

	_, _, err = service.Profile(context.Background(), "no-such-user")
	if !errors.Is(err, entities.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	service, _ := newAuthFixture(t)

	registered, _, err := service.Register(context.Background(), "bruce@example.com", "secret-pass", "Bruce")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	newName := "Bazza"
	user, _, err := service.UpdateProfile(context.Background(), registered.ID, &newName)
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.Name != "Bazza" {
		t.Errorf("Expected name Bazza, got %s", user.Name)
	}

	// A nil name leaves the profile untouched.
	user, _, err = service.UpdateProfile(context.Background(), registered.ID, nil)
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.Name != "Bazza" {
		t.Errorf("Expected name unchanged, got %s", user.Name)
	}
}
