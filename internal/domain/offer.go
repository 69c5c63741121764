package domain

import "time"

type OfferTier string

const (
	TierBasic    OfferTier = "basic"
	TierStandard OfferTier = "standard"
	TierPremium  OfferTier = "premium"
)

func ParseOfferTier(s string) (OfferTier, bool) {
	switch OfferTier(s) {
	case TierBasic, TierStandard, TierPremium:
		return OfferTier(s), true
	default:
		return "", false
	}
}

type OfferDetail struct {
	ID                 int64     `json:"id"`
	OfferID            int64     `json:"-"`
	Title              string    `json:"title"`
	Revisions          int       `json:"revisions"`
	DeliveryTimeInDays int       `json:"delivery_time_in_days"`
	Price              int       `json:"price"`
	Features           []string  `json:"features"`
	OfferType          OfferTier `json:"offer_type"`
}

type Offer struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user"`
	Title       string        `json:"title"`
	Image       string        `json:"image"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Details     []OfferDetail `json:"details"`

	// Recomputed on read from the persisted details, never stored.
	MinPrice        int `json:"min_price"`
	MinDeliveryTime int `json:"min_delivery_time"`

	OwnerFirstName string `json:"-"`
	OwnerLastName  string `json:"-"`
	OwnerUsername  string `json:"-"`
}

type OfferDetailInput struct {
	Title              string   `json:"title"`
	Revisions          int      `json:"revisions"`
	DeliveryTimeInDays int      `json:"delivery_time_in_days"`
	Price              int      `json:"price"`
	Features           []string `json:"features"`
	OfferType          string   `json:"offer_type"`
}

type OfferCreateRequest struct {
	Title       string             `json:"title"`
	Image       string             `json:"image"`
	Description string             `json:"description"`
	Details     []OfferDetailInput `json:"details"`
}

// OfferDetailPatch updates the tier identified by OfferType. The tier itself
// is never mutated; only the remaining attributes of the matched detail.
type OfferDetailPatch struct {
	OfferType          string    `json:"offer_type"`
	Title              *string   `json:"title"`
	Revisions          *int      `json:"revisions"`
	DeliveryTimeInDays *int      `json:"delivery_time_in_days"`
	Price              *int      `json:"price"`
	Features           *[]string `json:"features"`
}

type OfferPatch struct {
	Title       *string            `json:"title"`
	Image       *string            `json:"image"`
	Description *string            `json:"description"`
	Details     []OfferDetailPatch `json:"details"`
}

type OfferOrdering string

const (
	OrderByUpdatedAt OfferOrdering = "updated_at"
	OrderByMinPrice  OfferOrdering = "min_price"
)

type OfferFilter struct {
	CreatorID       *int64
	MinPrice        *int
	MaxDeliveryTime *int
	Search          string
	Ordering        OfferOrdering
	Descending      bool
	Limit           int
	Offset          int
}

// ValidateOfferDetails enforces the creation-time tier invariant: exactly 3
// details whose tiers are exactly {basic, standard, premium}.
func ValidateOfferDetails(details []OfferDetailInput) *ValidationError {
	if len(details) != 3 {
		return NewFieldError("details", "An offer must have 3 details.")
	}
	seen := make(map[OfferTier]bool, 3)
	for _, d := range details {
		tier, ok := ParseOfferTier(d.OfferType)
		if !ok || seen[tier] {
			return NewFieldError("details", "An offer must have one detail of each type: basic, standard, premium.")
		}
		seen[tier] = true
	}
	for _, d := range details {
		if d.Price < 0 {
			return NewFieldError("details", "Price must be a non-negative integer.")
		}
	}
	return nil
}
