package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/coderr-app/coderr-backend/internal/domain"
	"github.com/coderr-app/coderr-backend/internal/http/response"
)

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ReviewFilter{
		Ordering:   domain.ReviewOrderByUpdatedAt,
		Descending: true,
	}

	if v := q.Get("business_user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.ValidationFields(w, map[string][]string{"business_user_id": {"Enter a number."}})
			return
		}
		filter.BusinessUserID = &id
	}
	if v := q.Get("reviewer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.ValidationFields(w, map[string][]string{"reviewer_id": {"Enter a number."}})
			return
		}
		filter.ReviewerID = &id
	}
	if v := q.Get("ordering"); v != "" {
		filter.Descending = strings.HasPrefix(v, "-")
		switch strings.TrimPrefix(v, "-") {
		case "rating":
			filter.Ordering = domain.ReviewOrderByRating
		case "updated_at":
			filter.Ordering = domain.ReviewOrderByUpdatedAt
		default:
			response.ValidationFields(w, map[string][]string{"ordering": {"Invalid ordering field."}})
			return
		}
	}

	reviews, err := h.reviewService.List(r.Context(), filter)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}
	response.JSON(w, http.StatusOK, reviews)
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	var req domain.ReviewCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	review, err := h.reviewService.Create(r.Context(), getActor(r), &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, review)
}

// updateReview permits only rating and description. Every other key in the
// body yields its own field error.
func (h *Handlers) updateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, "Not found.")
		return
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	fieldErrs := domain.ValidationError{Fields: map[string][]string{}}
	for key := range body {
		if key != "rating" && key != "description" {
			fieldErrs.Add(key, "This field cannot be updated.")
		}
	}
	if !fieldErrs.Empty() {
		response.ValidationFields(w, fieldErrs.Fields)
		return
	}

	var patch domain.ReviewPatch
	if raw, ok := body["rating"]; ok {
		var rating int
		if err := json.Unmarshal(raw, &rating); err != nil {
			response.ValidationFields(w, map[string][]string{"rating": {"Enter a number."}})
			return
		}
		patch.Rating = &rating
	}
	if raw, ok := body["description"]; ok {
		var desc string
		if err := json.Unmarshal(raw, &desc); err != nil {
			response.ValidationFields(w, map[string][]string{"description": {"Enter a string."}})
			return
		}
		patch.Description = &desc
	}

	review, err := h.reviewService.Update(r.Context(), getActor(r), id, patch)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, review)
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, "Not found.")
		return
	}

	if err := h.reviewService.Delete(r.Context(), getActor(r), id); err != nil {
		response.DomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
