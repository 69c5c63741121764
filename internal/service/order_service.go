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

type OrderService interface {
	Create(ctx context.Context, actor domain.Actor, offerDetailID int64) (*domain.Order, error)
	List(ctx context.Context, actor domain.Actor) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
	CountForBusiness(ctx context.Context, businessUserID int64, status domain.OrderStatus) (int64, error)
}

type orderService struct {
	orders   repository.OrderRepository
	profiles repository.ProfileRepository
	bus      events.Publisher
}

func NewOrderService(orders repository.OrderRepository, profiles repository.ProfileRepository, bus events.Publisher) OrderService {
	return &orderService{orders: orders, profiles: profiles, bus: bus}
}

func (s *orderService) Create(ctx context.Context, actor domain.Actor, offerDetailID int64) (*domain.Order, error) {
	if !domain.CanCreateOrder(actor) {
		return nil, domain.ErrForbidden
	}

	order, err := s.orders.Create(ctx, actor.ID, offerDetailID)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if order == nil {
		return nil, domain.NewFieldError("offer_detail_id",
			fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", offerDetailID))
	}

	event := events.OrderCreatedEvent{
		OrderID:        order.ID,
		OfferDetailID:  order.OfferDetailID,
		CustomerUserID: order.CustomerUserID,
		BusinessUserID: order.BusinessUserID,
		Price:          order.Price,
		CreatedAt:      order.CreatedAt,
	}
	if err := s.bus.Publish(ctx, events.OrderCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish order created event", "error", err, "order_id", order.ID)
	}

	return order, nil
}

func (s *orderService) List(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	return s.orders.ListForUser(ctx, actor.ID)
}

func (s *orderService) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !domain.CanUpdateOrderStatus(actor, order) {
		return nil, domain.ErrForbidden
	}

	updated, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	event := events.OrderStatusChangedEvent{
		OrderID:        updated.ID,
		BusinessUserID: updated.BusinessUserID,
		Status:         string(updated.Status),
		At:             time.Now(),
	}
	if err := s.bus.Publish(ctx, events.OrderStatusChanged, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish order status event", "error", err, "order_id", updated.ID)
	}

	return updated, nil
}

func (s *orderService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if !domain.CanDeleteOrder(actor) {
		return domain.ErrForbidden
	}

	ok, err := s.orders.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}

	event := events.OrderDeletedEvent{OrderID: id, At: time.Now()}
	if err := s.bus.Publish(ctx, events.OrderDeleted, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish order deleted event", "error", err, "order_id", id)
	}
	return nil
}

// CountForBusiness rejects ids that do not belong to a business-role user.
func (s *orderService) CountForBusiness(ctx context.Context, businessUserID int64, status domain.OrderStatus) (int64, error) {
	isBusiness, err := s.profiles.IsBusinessUser(ctx, businessUserID)
	if err != nil {
		return 0, fmt.Errorf("failed to check business user: %w", err)
	}
	if !isBusiness {
		return 0, domain.ErrNotFound
	}
	return s.orders.CountByBusinessAndStatus(ctx, businessUserID, status)
}
