package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/coderr-app/coderr-backend/internal/domain"
	"github.com/coderr-app/coderr-backend/internal/http/response"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type detailLink struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

type offerUserDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// offerListDTO is the list view: detail links instead of nested tiers, plus
// owner display fields.
type offerListDTO struct {
	ID              int64            `json:"id"`
	User            int64            `json:"user"`
	Title           string           `json:"title"`
	Image           string           `json:"image"`
	Description     string           `json:"description"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Details         []detailLink     `json:"details"`
	MinPrice        int              `json:"min_price"`
	MinDeliveryTime int              `json:"min_delivery_time"`
	UserDetails     offerUserDetails `json:"user_details"`
}

// offerRetrieveDTO is the single-offer view: like the list view but without
// the owner display fields.
type offerRetrieveDTO struct {
	ID              int64        `json:"id"`
	User            int64        `json:"user"`
	Title           string       `json:"title"`
	Image           string       `json:"image"`
	Description     string       `json:"description"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	Details         []detailLink `json:"details"`
	MinPrice        int          `json:"min_price"`
	MinDeliveryTime int          `json:"min_delivery_time"`
}

// offerWriteDTO is the create/update response: full nested tiers, no derived
// or owner fields.
type offerWriteDTO struct {
	ID          int64                `json:"id"`
	User        int64                `json:"user"`
	Title       string               `json:"title"`
	Image       string               `json:"image"`
	Description string               `json:"description"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Details     []domain.OfferDetail `json:"details"`
}

func detailLinks(o *domain.Offer) []detailLink {
	links := make([]detailLink, 0, len(o.Details))
	for _, d := range o.Details {
		links = append(links, detailLink{ID: d.ID, URL: fmt.Sprintf("/offerdetails/%d/", d.ID)})
	}
	return links
}

func toOfferListDTO(o *domain.Offer) offerListDTO {
	return offerListDTO{
		ID:              o.ID,
		User:            o.UserID,
		Title:           o.Title,
		Image:           o.Image,
		Description:     o.Description,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Details:         detailLinks(o),
		MinPrice:        o.MinPrice,
		MinDeliveryTime: o.MinDeliveryTime,
		UserDetails: offerUserDetails{
			FirstName: o.OwnerFirstName,
			LastName:  o.OwnerLastName,
			Username:  o.OwnerUsername,
		},
	}
}

func toOfferRetrieveDTO(o *domain.Offer) offerRetrieveDTO {
	return offerRetrieveDTO{
		ID:              o.ID,
		User:            o.UserID,
		Title:           o.Title,
		Image:           o.Image,
		Description:     o.Description,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Details:         detailLinks(o),
		MinPrice:        o.MinPrice,
		MinDeliveryTime: o.MinDeliveryTime,
	}
}

func toOfferWriteDTO(o *domain.Offer) offerWriteDTO {
	return offerWriteDTO{
		ID:          o.ID,
		User:        o.UserID,
		Title:       o.Title,
		Image:       o.Image,
		Description: o.Description,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Details:     o.Details,
	}
}

type pageEnvelope struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

func parsePage(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxPageSize {
			pageSize = n
		}
	}
	return page, pageSize
}

func pageURL(r *http.Request, page int) *string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

func (h *Handlers) listOffers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize := parsePage(r)

	filter := domain.OfferFilter{
		Search:     strings.TrimSpace(q.Get("search")),
		Ordering:   domain.OrderByUpdatedAt,
		Descending: true,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}

	if v := q.Get("creator_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.ValidationFields(w, map[string][]string{"creator_id": {"Enter a number."}})
			return
		}
		filter.CreatorID = &id
	}
	if v := q.Get("min_price"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.ValidationFields(w, map[string][]string{"min_price": {"Enter a number."}})
			return
		}
		filter.MinPrice = &n
	}
	if v := q.Get("max_delivery_time"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.ValidationFields(w, map[string][]string{"max_delivery_time": {"Enter a number."}})
			return
		}
		filter.MaxDeliveryTime = &n
	}
	if v := q.Get("ordering"); v != "" {
		filter.Descending = strings.HasPrefix(v, "-")
		switch strings.TrimPrefix(v, "-") {
		case "min_price":
			filter.Ordering = domain.OrderByMinPrice
		case "updated_at":
			filter.Ordering = domain.OrderByUpdatedAt
		default:
			response.ValidationFields(w, map[string][]string{"ordering": {"Invalid ordering field."}})
			return
		}
	}

	offers, total, err := h.offerService.List(r.Context(), filter)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	results := make([]offerListDTO, 0, len(offers))
	for i := range offers {
		results = append(results, toOfferListDTO(&offers[i]))
	}

	env := pageEnvelope{Count: total, Results: results}
	if int64(page*pageSize) < total {
		env.Next = pageURL(r, page+1)
	}
	if page > 1 {
		env.Previous = pageURL(r, page-1)
	}

	response.JSON(w, http.StatusOK, env)
}

func (h *Handlers) createOffer(w http.ResponseWriter, r *http.Request) {
	var req domain.OfferCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	offer, err := h.offerService.Create(r.Context(), getActor(r), &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, toOfferWriteDTO(offer))
}

func (h *Handlers) getOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, "Not found.")
		return
	}

	offer, err := h.offerService.Get(r.Context(), id)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toOfferRetrieveDTO(offer))
}

func (h *Handlers) updateOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, "Not found.")
		return
	}

	var patch domain.OfferPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	offer, err := h.offerService.Update(r.Context(), getActor(r), id, patch)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toOfferWriteDTO(offer))
}

func (h *Handlers) deleteOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, "Not found.")
		return
	}

	if err := h.offerService.Delete(r.Context(), getActor(r), id); err != nil {
		response.DomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getOfferDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, "Not found.")
		return
	}

	detail, err := h.offerService.GetDetail(r.Context(), id)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, detail)
}
