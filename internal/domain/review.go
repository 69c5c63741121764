package domain

import "time"

type Review struct {
	ID             int64     `json:"id"`
	BusinessUserID int64     `json:"business_user"`
	ReviewerID     int64     `json:"reviewer"`
	Rating         int       `json:"rating"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ReviewCreateRequest struct {
	BusinessUserID int64  `json:"business_user"`
	Rating         int    `json:"rating"`
	Description    string `json:"description"`
}

type ReviewPatch struct {
	Rating      *int    `json:"rating"`
	Description *string `json:"description"`
}

type ReviewOrdering string

const (
	ReviewOrderByUpdatedAt ReviewOrdering = "updated_at"
	ReviewOrderByRating    ReviewOrdering = "rating"
)

type ReviewFilter struct {
	BusinessUserID *int64
	ReviewerID     *int64
	Ordering       ReviewOrdering
	Descending     bool
}

const (
	MinRating = 1
	MaxRating = 5
)

func ValidRating(r int) bool { return r >= MinRating && r <= MaxRating }
