package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/coderr-app/coderr-backend/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	UserRegistered = "user.registered"

	OfferCreated = "offer.created"
	OfferUpdated = "offer.updated"
	OfferDeleted = "offer.deleted"

	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	OrderDeleted       = "order.deleted"

	ReviewCreated = "review.created"
	ReviewUpdated = "review.updated"
	ReviewDeleted = "review.deleted"
)

// Event payloads
type UserRegisteredEvent struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Type     string    `json:"type"`
	At       time.Time `json:"at"`
}

type OfferCreatedEvent struct {
	OfferID   int64     `json:"offer_id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	MinPrice  int       `json:"min_price"`
	CreatedAt time.Time `json:"created_at"`
}

type OfferUpdatedEvent struct {
	OfferID   int64     `json:"offer_id"`
	UserID    int64     `json:"user_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OfferDeletedEvent struct {
	OfferID int64     `json:"offer_id"`
	UserID  int64     `json:"user_id"`
	At      time.Time `json:"at"`
}

type OrderCreatedEvent struct {
	OrderID        int64     `json:"order_id"`
	OfferDetailID  int64     `json:"offer_detail_id"`
	CustomerUserID int64     `json:"customer_user_id"`
	BusinessUserID int64     `json:"business_user_id"`
	Price          int       `json:"price"`
	CreatedAt      time.Time `json:"created_at"`
}

type OrderStatusChangedEvent struct {
	OrderID        int64     `json:"order_id"`
	BusinessUserID int64     `json:"business_user_id"`
	Status         string    `json:"status"`
	At             time.Time `json:"at"`
}

type OrderDeletedEvent struct {
	OrderID int64     `json:"order_id"`
	At      time.Time `json:"at"`
}

type ReviewCreatedEvent struct {
	ReviewID       int64     `json:"review_id"`
	BusinessUserID int64     `json:"business_user_id"`
	ReviewerID     int64     `json:"reviewer_id"`
	Rating         int       `json:"rating"`
	CreatedAt      time.Time `json:"created_at"`
}

type ReviewUpdatedEvent struct {
	ReviewID  int64     `json:"review_id"`
	Rating    int       `json:"rating"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReviewDeletedEvent struct {
	ReviewID       int64     `json:"review_id"`
	BusinessUserID int64     `json:"business_user_id"`
	At             time.Time `json:"at"`
}
