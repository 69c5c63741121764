package domain

import "time"

type OrderStatus string

const (
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderInProgress, OrderCompleted, OrderCancelled:
		return OrderStatus(s), true
	default:
		return "", false
	}
}

// Order binds a customer, a business and one chosen pricing tier. The tier
// snapshot fields are read through from the referenced offer detail.
type Order struct {
	ID             int64       `json:"id"`
	OfferDetailID  int64       `json:"-"`
	CustomerUserID int64       `json:"customer_user"`
	BusinessUserID int64       `json:"business_user"`
	Status         OrderStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	// Snapshot of the ordered tier.
	Title              string    `json:"title"`
	Revisions          int       `json:"revisions"`
	DeliveryTimeInDays int       `json:"delivery_time_in_days"`
	Price              int       `json:"price"`
	Features           []string  `json:"features"`
	OfferType          OfferTier `json:"offer_type"`
}

type OrderCreateRequest struct {
	OfferDetailID int64 `json:"offer_detail_id"`
}
