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

type OfferService interface {
	Create(ctx context.Context, actor domain.Actor, req *domain.OfferCreateRequest) (*domain.Offer, error)
	Get(ctx context.Context, id int64) (*domain.Offer, error)
	GetDetail(ctx context.Context, id int64) (*domain.OfferDetail, error)
	List(ctx context.Context, f domain.OfferFilter) ([]domain.Offer, int64, error)
	Update(ctx context.Context, actor domain.Actor, id int64, patch domain.OfferPatch) (*domain.Offer, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}

type offerService struct {
	offers repository.OfferRepository
	bus    events.Publisher
}

func NewOfferService(offers repository.OfferRepository, bus events.Publisher) OfferService {
	return &offerService{offers: offers, bus: bus}
}

func (s *offerService) Create(ctx context.Context, actor domain.Actor, req *domain.OfferCreateRequest) (*domain.Offer, error) {
	if !domain.CanCreateOffer(actor) {
		return nil, domain.ErrForbidden
	}

	verr := &domain.ValidationError{}
	if req.Title == "" {
		verr.Add("title", "This field is required.")
	}
	if req.Description == "" {
		verr.Add("description", "This field is required.")
	}
	if !verr.Empty() {
		return nil, verr
	}
	if err := domain.ValidateOfferDetails(req.Details); err != nil {
		return nil, err
	}

	offer, err := s.offers.Create(ctx, actor.ID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	event := events.OfferCreatedEvent{
		OfferID:   offer.ID,
		UserID:    offer.UserID,
		Title:     offer.Title,
		MinPrice:  offer.MinPrice,
		CreatedAt: offer.CreatedAt,
	}
	if err := s.bus.Publish(ctx, events.OfferCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish offer created event", "error", err, "offer_id", offer.ID)
	}

	return offer, nil
}

func (s *offerService) Get(ctx context.Context, id int64) (*domain.Offer, error) {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, domain.ErrNotFound
	}
	return offer, nil
}

func (s *offerService) GetDetail(ctx context.Context, id int64) (*domain.OfferDetail, error) {
	detail, err := s.offers.GetDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrNotFound
	}
	return detail, nil
}

func (s *offerService) List(ctx context.Context, f domain.OfferFilter) ([]domain.Offer, int64, error) {
	return s.offers.List(ctx, f)
}

func (s *offerService) Update(ctx context.Context, actor domain.Actor, id int64, patch domain.OfferPatch) (*domain.Offer, error) {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, domain.ErrNotFound
	}
	if !domain.CanModifyOffer(actor, offer) {
		return nil, domain.ErrForbidden
	}

	// Each detail entry must name the tier it updates. The tier set under an
	// offer is fixed at creation, so an unparseable tier can never match.
	for _, dp := range patch.Details {
		if dp.OfferType == "" {
			return nil, domain.NewFieldError("details", "Each detail must have an offer_type for update.")
		}
		if _, ok := domain.ParseOfferTier(dp.OfferType); !ok {
			return nil, domain.NewFieldError("details",
				fmt.Sprintf("OfferDetail with offer_type %s does not exist for this offer.", dp.OfferType))
		}
		if dp.Price != nil && *dp.Price < 0 {
			return nil, domain.NewFieldError("details", "Price must be a non-negative integer.")
		}
	}

	updated, err := s.offers.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	event := events.OfferUpdatedEvent{
		OfferID:   updated.ID,
		UserID:    updated.UserID,
		UpdatedAt: updated.UpdatedAt,
	}
	if err := s.bus.Publish(ctx, events.OfferUpdated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish offer updated event", "error", err, "offer_id", updated.ID)
	}

	return updated, nil
}

func (s *offerService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if offer == nil {
		return domain.ErrNotFound
	}
	if !domain.CanModifyOffer(actor, offer) {
		return domain.ErrForbidden
	}

	if _, err := s.offers.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}

	event := events.OfferDeletedEvent{
		OfferID: id,
		UserID:  offer.UserID,
		At:      time.Now(),
	}
	if err := s.bus.Publish(ctx, events.OfferDeleted, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish offer deleted event", "error", err, "offer_id", id)
	}
	return nil
}
