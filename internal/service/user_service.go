package service

import (
	"context"
	"fmt"
	"time"

	"github.com/transitx/marketplace/internal/domain"
	"github.com/transitx/marketplace/internal/repository"
	"github.com/transitx/marketplace/pkg/events"
	"github.com/transitx/marketplace/pkg/logger"
)

type UserService interface {
	// UpsertLogin records a login: first login inserts a fresh profile with
	// the default role, repeat logins only refresh last_logged_in.
	UpsertLogin(ctx context.Context, profile *domain.LoginProfile) (*domain.User, bool, error)
	GetRole(ctx context.Context, email string) (string, error)
}

type userService struct {
	userRepo repository.UserRepository
	eventBus events.Publisher
}

func NewUserService(userRepo repository.UserRepository, eventBus events.Publisher) UserService {
	return &userService{
		userRepo: userRepo,
		eventBus: eventBus,
	}
}

func (s *userService) UpsertLogin(ctx context.Context, profile *domain.LoginProfile) (*domain.User, bool, error) {
	if err := profile.Validate(); err != nil {
		return nil, false, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, profile.Email)
	if err != nil {
		return nil, false, fmt.Errorf("look up user: %w", err)
	}

	now := time.Now().UTC()

	if existing != nil {
		// The submitted profile is ignored on repeat login so a client can
		// never overwrite role or creation time.
		if err := s.userRepo.TouchLastLogin(ctx, existing.Email, now); err != nil {
			return nil, false, err
		}
		existing.LastLoggedIn = now

		s.publishLogin(ctx, existing.Email, false, now)
		return existing, false, nil
	}

	user := &domain.User{
		Email:        profile.Email,
		DisplayName:  profile.DisplayName,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		LastLoggedIn: now,
	}
	if err := s.userRepo.Insert(ctx, user); err != nil {
		return nil, false, err
	}

	logger.InfoContext(ctx, "user registered", "email", user.Email)
	s.publishLogin(ctx, user.Email, true, now)

	return user, true, nil
}

func (s *userService) GetRole(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("look up role: %w", err)
	}
	if user == nil {
		// An unknown user is not an error, just an empty role.
		return "", nil
	}
	return user.Role, nil
}

func (s *userService) publishLogin(ctx context.Context, email string, firstLogin bool, at time.Time) {
	event := events.UserLoggedInEvent{
		Email:      email,
		FirstLogin: firstLogin,
		LoggedInAt: at,
	}
	if err := s.eventBus.Publish(ctx, events.UserLoggedIn, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish login event", "error", err, "email", email)
	}
}
