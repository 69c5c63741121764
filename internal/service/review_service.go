package service

import (
	"context"
	"fmt"
	"time"

	"github.com/coderr-app/coderr-backend/internal/domain"
	"github.com/coderr-app/coderr-backend/internal/repository"
	"github.com/coderr-app/coderr-backend/pkg/events"
	"github.com/coderr-app/coderr-backend/pkg/logger"
)

type ReviewService interface {
	Create(ctx context.Context, actor domain.Actor, req *domain.ReviewCreateRequest) (*domain.Review, error)
	List(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error)
	Update(ctx context.Context, actor domain.Actor, id int64, patch domain.ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}

type reviewService struct {
	reviews  repository.ReviewRepository
	profiles repository.ProfileRepository
	bus      events.Publisher
}

func NewReviewService(reviews repository.ReviewRepository, profiles repository.ProfileRepository, bus events.Publisher) ReviewService {
	return &reviewService{reviews: reviews, profiles: profiles, bus: bus}
}

func (s *reviewService) Create(ctx context.Context, actor domain.Actor, req *domain.ReviewCreateRequest) (*domain.Review, error) {
	if !domain.CanCreateReview(actor) {
		return nil, domain.ErrForbidden
	}

	if !domain.ValidRating(req.Rating) {
		return nil, domain.NewFieldError("rating",
			fmt.Sprintf("Rating must be between %d and %d.", domain.MinRating, domain.MaxRating))
	}

	// The target must exist and carry the business role; an unknown id and a
	// customer id fail the same way.
	isBusiness, err := s.profiles.IsBusinessUser(ctx, req.BusinessUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check business user: %w", err)
	}
	if !isBusiness {
		return nil, domain.NewFieldError("business_user",
			fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", req.BusinessUserID))
	}

	review, err := s.reviews.Create(ctx, actor.ID, req.BusinessUserID, req.Rating, req.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	event := events.ReviewCreatedEvent{
		ReviewID:       review.ID,
		BusinessUserID: review.BusinessUserID,
		ReviewerID:     review.ReviewerID,
		Rating:         review.Rating,
		CreatedAt:      review.CreatedAt,
	}
	if err := s.bus.Publish(ctx, events.ReviewCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish review created event", "error", err, "review_id", review.ID)
	}

	return review, nil
}

func (s *reviewService) List(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error) {
	return s.reviews.List(ctx, f)
}

func (s *reviewService) Update(ctx context.Context, actor domain.Actor, id int64, patch domain.ReviewPatch) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, domain.ErrNotFound
	}
	if !domain.CanModifyReview(actor, review) {
		return nil, domain.ErrForbidden
	}

	if patch.Rating != nil && !domain.ValidRating(*patch.Rating) {
		return nil, domain.NewFieldError("rating",
			fmt.Sprintf("Rating must be between %d and %d.", domain.MinRating, domain.MaxRating))
	}

	updated, err := s.reviews.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	event := events.ReviewUpdatedEvent{
		ReviewID:  updated.ID,
		Rating:    updated.Rating,
		UpdatedAt: updated.UpdatedAt,
	}
	if err := s.bus.Publish(ctx, events.ReviewUpdated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish review updated event", "error", err, "review_id", updated.ID)
	}

	return updated, nil
}

func (s *reviewService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review == nil {
		return domain.ErrNotFound
	}
	if !domain.CanModifyReview(actor, review) {
		return domain.ErrForbidden
	}

	if _, err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	event := events.ReviewDeletedEvent{
		ReviewID:       id,
		BusinessUserID: review.BusinessUserID,
		At:             time.Now(),
	}
	if err := s.bus.Publish(ctx, events.ReviewDeleted, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish review deleted event", "error", err, "review_id", id)
	}
	return nil
}
