package service

import (
	"context"
	"fmt"
	"strings"

	"creditsvc/events"
	"creditsvc/models"
)

// profileService implements the ProfileService interface
type profileService struct {
	uowFactory UnitOfWorkFactory
}

// NewProfileService creates a new profile service
func NewProfileService(uowFactory UnitOfWorkFactory) ProfileService {
	return &profileService{
		uowFactory: uowFactory,
	}
}

// GetOrCreate returns the existing profile or creates an empty one
func (s *profileService) GetOrCreate(ctx context.Context, anonID string) (*models.User, error) {
	if strings.TrimSpace(anonID) == "" {
		return nil, &ValidationError{Reason: "anon id is required"}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByAnonID(ctx, anonID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	// User exists, return it
	if user != nil {
		return user, nil
	}

	// Database primary key on anon_id prevents duplicate profiles
	user, err = uow.UserRepository().Create(ctx, anonID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uow.EventBus().Publish(events.UserCreatedEvent{AnonID: anonID})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// Update applies a partial profile update; at least one field must be provided
func (s *profileService) Update(ctx context.Context, anonID string, name, avatarURL *string) (*models.User, error) {
	if name == nil && avatarURL == nil {
		return nil, &ValidationError{Reason: "at least one of name or avatarUrl must be provided"}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().Update(ctx, anonID, name, avatarURL)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if user == nil {
		return nil, &NotFoundError{Resource: "profile", AnonID: anonID}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// LinkUser attaches an authenticated user id to a profile
func (s *profileService) LinkUser(ctx context.Context, anonID, userID string) (*models.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, &ValidationError{Reason: "user id is required"}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().LinkUser(ctx, anonID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to link user: %w", err)
	}
	if user == nil {
		return nil, &NotFoundError{Resource: "profile", AnonID: anonID}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}
