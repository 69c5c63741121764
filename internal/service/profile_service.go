package service

import (
	"context"
	"fmt"

	"github.com/coderr-app/coderr-backend/internal/domain"
	"github.com/coderr-app/coderr-backend/internal/repository"
	"github.com/coderr-app/coderr-backend/internal/utils"
)

type ProfileService interface {
	Get(ctx context.Context, userID int64) (*domain.Profile, error)
	Update(ctx context.Context, actor domain.Actor, userID int64, patch domain.ProfilePatch) (*domain.Profile, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.Profile, error)
}

type profileService struct {
	profiles repository.ProfileRepository
}

func NewProfileService(profiles repository.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Get(ctx context.Context, userID int64) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, actor domain.Actor, userID int64, patch domain.ProfilePatch) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	if !domain.CanEditProfile(actor, userID) {
		return nil, domain.ErrForbidden
	}

	if patch.Email != nil {
		email := utils.NormalizeEmail(*patch.Email)
		if !utils.IsValidEmail(email) {
			return nil, domain.NewFieldError("email", "Enter a valid email address.")
		}
		patch.Email = &email
	}

	updated, err := s.profiles.Update(ctx, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	return updated, nil
}

func (s *profileService) ListByRole(ctx context.Context, role domain.Role) ([]domain.Profile, error) {
	return s.profiles.ListByType(ctx, role)
}
