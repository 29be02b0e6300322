package usecase

import (
	"context"

	"github.com/speakaussie/server/domain/entities"
	"github.com/speakaussie/server/domain/repositories"
	"github.com/speakaussie/server/internal/auth"
)

// TokenIssuer mints signed access tokens for authenticated users.
type TokenIssuer interface {
	IssueUserToken(userID, email string) (string, error)
}

// AuthService handles registration, login, and profile management.
type AuthService struct {
	users         repositories.UserRepository
	subscriptions repositories.SubscriptionRepository
	tokens        TokenIssuer
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users repositories.UserRepository,
	subscriptions repositories.SubscriptionRepository,
	tokens TokenIssuer,
) *AuthService {
	return &AuthService{
		users:         users,
		subscriptions: subscriptions,
		tokens:        tokens,
	}
}

// Register creates a user with a hashed password, puts them on the free
// plan, and returns an access token.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*entities.User, string, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", entities.ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := entities.NewUser(email, hash, name)
	if err := user.Validate(); err != nil {
		return nil, "", err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	if err := s.subscriptions.Create(ctx, entities.NewSubscription(user.ID, entities.PlanFree)); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.IssueUserToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user, their plan, and a token.
// A missing user and a wrong password are reported identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entities.User, entities.Plan, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", "", err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", "", entities.ErrInvalidCredentials
	}

	plan, err := s.planFor(ctx, user.ID)
	if err != nil {
		return nil, "", "", err
	}

	token, err := s.tokens.IssueUserToken(user.ID, user.Email)
	if err != nil {
		return nil, "", "", err
	}
	return user, plan, token, nil
}

// Profile returns the user and their current plan.
func (s *AuthService) Profile(ctx context.Context, userID string) (*entities.User, entities.Plan, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", entities.ErrUserNotFound
	}

	plan, err := s.planFor(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return user, plan, nil
}

// UpdateProfile applies partial profile changes.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, name *string) (*entities.User, entities.Plan, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", entities.ErrUserNotFound
	}

	if name != nil {
		user.Name = *name
		if err := s.users.Update(ctx, user); err != nil {
			return nil, "", err
		}
	}

	plan, err := s.planFor(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return user, plan, nil
}

func (s *AuthService) planFor(ctx context.Context, userID string) (entities.Plan, error) {
	sub, err := s.subscriptions.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if sub == nil {
		return entities.PlanFree, nil
	}
	return sub.Plan, nil
}
