package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coderr-app/coderr-backend/internal/domain"
	"github.com/coderr-app/coderr-backend/internal/handlers"
	"github.com/coderr-app/coderr-backend/internal/service"
	"github.com/coderr-app/coderr-backend/pkg/config"
)

// ---------- Mocks ----------

type mockPublisher struct {
	published []string
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.published = append(m.published, subject)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type mockMailer struct {
	lastTo   string
	lastName string
	sendErr  error
}

func (m *mockMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	m.lastTo = toEmail
	return "mock-id", m.sendErr
}

func (m *mockMailer) SendWelcome(toEmail, username string) error {
	m.lastTo = toEmail
	m.lastName = username
	return m.sendErr
}

// memStore backs all mock repositories with shared in-memory state.
type memStore struct {
	nextUserID   int64
	nextOfferID  int64
	nextDetailID int64
	nextOrderID  int64
	nextReviewID int64

	users    map[int64]*domain.User
	profiles map[int64]*domain.Profile
	offers   map[int64]*domain.Offer
	orders   map[int64]*domain.Order
	reviews  map[int64]*domain.Review
}

func newMemStore() *memStore {
	return &memStore{
		nextUserID:   1,
		nextOfferID:  1,
		nextDetailID: 1,
		nextOrderID:  1,
		nextReviewID: 1,
		users:        make(map[int64]*domain.User),
		profiles:     make(map[int64]*domain.Profile),
		offers:       make(map[int64]*domain.Offer),
		orders:       make(map[int64]*domain.Order),
		reviews:      make(map[int64]*domain.Review),
	}
}

func (s *memStore) findDetail(id int64) (*domain.Offer, *domain.OfferDetail) {
	for _, o := range s.offers {
		for i := range o.Details {
			if o.Details[i].ID == id {
				return o, &o.Details[i]
			}
		}
	}
	return nil, nil
}

// ---------- User repository ----------

type mockUserRepo struct{ store *memStore }

func (m *mockUserRepo) CreateWithProfile(_ context.Context, username, email, hash string, role domain.Role) (*domain.User, error) {
	id := m.store.nextUserID
	m.store.nextUserID++

	now := time.Now()
	user := &domain.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.store.users[id] = user
	m.store.profiles[id] = &domain.Profile{
		UserID:    id,
		Username:  username,
		Email:     email,
		Type:      role,
		CreatedAt: now,
	}
	return user, nil
}

func (m *mockUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range m.store.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	return m.store.users[id], nil
}

func (m *mockUserRepo) UsernameTaken(_ context.Context, username string) (bool, error) {
	u, _ := m.FindByUsername(context.Background(), username)
	return u != nil, nil
}

func (m *mockUserRepo) EmailTaken(_ context.Context, email string) (bool, error) {
	for _, u := range m.store.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ---------- Profile repository ----------

type mockProfileRepo struct{ store *memStore }

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID int64) (*domain.Profile, error) {
	return m.store.profiles[userID], nil
}

func (m *mockProfileRepo) Update(_ context.Context, userID int64, patch domain.ProfilePatch) (*domain.Profile, error) {
	p, exists := m.store.profiles[userID]
	if !exists {
		return nil, nil
	}
	if patch.FirstName != nil {
		p.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		p.LastName = *patch.LastName
	}
	if patch.File != nil {
		p.File = *patch.File
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Tel != nil {
		p.Tel = *patch.Tel
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.WorkingHours != nil {
		p.WorkingHours = *patch.WorkingHours
	}
	if patch.Email != nil {
		p.Email = *patch.Email
		if u := m.store.users[userID]; u != nil {
			u.Email = *patch.Email
		}
	}
	return p, nil
}

func (m *mockProfileRepo) ListByType(_ context.Context, role domain.Role) ([]domain.Profile, error) {
	var result []domain.Profile
	for _, p := range m.store.profiles {
		if p.Type == role {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockProfileRepo) IsBusinessUser(_ context.Context, userID int64) (bool, error) {
	p := m.store.profiles[userID]
	return p != nil && p.Type == domain.RoleBusiness, nil
}

// ---------- Offer repository ----------

type mockOfferRepo struct{ store *memStore }

func (m *mockOfferRepo) Create(_ context.Context, userID int64, req *domain.OfferCreateRequest) (*domain.Offer, error) {
	id := m.store.nextOfferID
	m.store.nextOfferID++

	now := time.Now()
	offer := &domain.Offer{
		ID:          id,
		UserID:      userID,
		Title:       req.Title,
		Image:       req.Image,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, in := range req.Details {
		detailID := m.store.nextDetailID
		m.store.nextDetailID++
		offer.Details = append(offer.Details, domain.OfferDetail{
			ID:                 detailID,
			OfferID:            id,
			Title:              in.Title,
			Revisions:          in.Revisions,
			DeliveryTimeInDays: in.DeliveryTimeInDays,
			Price:              in.Price,
			Features:           in.Features,
			OfferType:          domain.OfferTier(in.OfferType),
		})
	}
	m.recomputeMins(offer)
	m.fillOwner(offer)
	m.store.offers[id] = offer
	return offer, nil
}

func (m *mockOfferRepo) recomputeMins(o *domain.Offer) {
	if len(o.Details) == 0 {
		return
	}
	o.MinPrice = o.Details[0].Price
	o.MinDeliveryTime = o.Details[0].DeliveryTimeInDays
	for _, d := range o.Details[1:] {
		if d.Price < o.MinPrice {
			o.MinPrice = d.Price
		}
		if d.DeliveryTimeInDays < o.MinDeliveryTime {
			o.MinDeliveryTime = d.DeliveryTimeInDays
		}
	}
}

func (m *mockOfferRepo) fillOwner(o *domain.Offer) {
	if p := m.store.profiles[o.UserID]; p != nil {
		o.OwnerFirstName = p.FirstName
		o.OwnerLastName = p.LastName
		o.OwnerUsername = p.Username
	}
}

func (m *mockOfferRepo) GetByID(_ context.Context, id int64) (*domain.Offer, error) {
	return m.store.offers[id], nil
}

func (m *mockOfferRepo) GetDetailByID(_ context.Context, id int64) (*domain.OfferDetail, error) {
	_, d := m.store.findDetail(id)
	return d, nil
}

func (m *mockOfferRepo) List(_ context.Context, f domain.OfferFilter) ([]domain.Offer, int64, error) {
	var matched []*domain.Offer
	for _, o := range m.store.offers {
		if f.CreatorID != nil && o.UserID != *f.CreatorID {
			continue
		}
		if f.MinPrice != nil && o.MinPrice < *f.MinPrice {
			continue
		}
		if f.MaxDeliveryTime != nil && o.MinDeliveryTime > *f.MaxDeliveryTime {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(o.Title), needle) &&
				!strings.Contains(strings.ToLower(o.Description), needle) {
				continue
			}
		}
		matched = append(matched, o)
	}

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		if f.Ordering == domain.OrderByMinPrice {
			less = matched[i].MinPrice < matched[j].MinPrice
		} else {
			less = matched[i].UpdatedAt.Before(matched[j].UpdatedAt)
		}
		if f.Descending {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []domain.Offer{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]domain.Offer, 0, end-f.Offset)
	for _, o := range matched[f.Offset:end] {
		page = append(page, *o)
	}
	return page, total, nil
}

func (m *mockOfferRepo) Update(_ context.Context, id int64, patch domain.OfferPatch) (*domain.Offer, error) {
	o, exists := m.store.offers[id]
	if !exists {
		return nil, nil
	}
	if patch.Title != nil {
		o.Title = *patch.Title
	}
	if patch.Image != nil {
		o.Image = *patch.Image
	}
	if patch.Description != nil {
		o.Description = *patch.Description
	}
	for _, dp := range patch.Details {
		found := false
		for i := range o.Details {
			if string(o.Details[i].OfferType) != dp.OfferType {
				continue
			}
			found = true
			d := &o.Details[i]
			if dp.Title != nil {
				d.Title = *dp.Title
			}
			if dp.Revisions != nil {
				d.Revisions = *dp.Revisions
			}
			if dp.DeliveryTimeInDays != nil {
				d.DeliveryTimeInDays = *dp.DeliveryTimeInDays
			}
			if dp.Price != nil {
				d.Price = *dp.Price
			}
			if dp.Features != nil {
				d.Features = *dp.Features
			}
		}
		if !found {
			return nil, domain.NewFieldError("details",
				fmt.Sprintf("OfferDetail with offer_type %s does not exist for this offer.", dp.OfferType))
		}
	}
	m.recomputeMins(o)
	o.UpdatedAt = time.Now()
	return o, nil
}

func (m *mockOfferRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, exists := m.store.offers[id]; !exists {
		return false, nil
	}
	delete(m.store.offers, id)
	return true, nil
}

// ---------- Order repository ----------

type mockOrderRepo struct{ store *memStore }

func (m *mockOrderRepo) Create(_ context.Context, customerUserID, offerDetailID int64) (*domain.Order, error) {
	offer, detail := m.store.findDetail(offerDetailID)
	if detail == nil {
		return nil, nil
	}

	id := m.store.nextOrderID
	m.store.nextOrderID++

	now := time.Now()
	order := &domain.Order{
		ID:                 id,
		OfferDetailID:      offerDetailID,
		CustomerUserID:     customerUserID,
		BusinessUserID:     offer.UserID,
		Status:             domain.OrderInProgress,
		CreatedAt:          now,
		UpdatedAt:          now,
		Title:              detail.Title,
		Revisions:          detail.Revisions,
		DeliveryTimeInDays: detail.DeliveryTimeInDays,
		Price:              detail.Price,
		Features:           detail.Features,
		OfferType:          detail.OfferType,
	}
	m.store.orders[id] = order
	return order, nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	return m.store.orders[id], nil
}

func (m *mockOrderRepo) ListForUser(_ context.Context, userID int64) ([]domain.Order, error) {
	var result []domain.Order
	for _, o := range m.store.orders {
		if o.CustomerUserID == userID || o.BusinessUserID == userID {
			result = append(result, *o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	o, exists := m.store.orders[id]
	if !exists {
		return nil, nil
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return o, nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, exists := m.store.orders[id]; !exists {
		return false, nil
	}
	delete(m.store.orders, id)
	return true, nil
}

func (m *mockOrderRepo) CountByBusinessAndStatus(_ context.Context, businessUserID int64, status domain.OrderStatus) (int64, error) {
	var count int64
	for _, o := range m.store.orders {
		if o.BusinessUserID == businessUserID && o.Status == status {
			count++
		}
	}
	return count, nil
}

// ---------- Review repository ----------

type mockReviewRepo struct{ store *memStore }

func (m *mockReviewRepo) Create(_ context.Context, reviewerID, businessUserID int64, rating int, description string) (*domain.Review, error) {
	id := m.store.nextReviewID
	m.store.nextReviewID++

	now := time.Now()
	review := &domain.Review{
		ID:             id,
		BusinessUserID: businessUserID,
		ReviewerID:     reviewerID,
		Rating:         rating,
		Description:    description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.store.reviews[id] = review
	return review, nil
}

func (m *mockReviewRepo) GetByID(_ context.Context, id int64) (*domain.Review, error) {
	return m.store.reviews[id], nil
}

func (m *mockReviewRepo) List(_ context.Context, f domain.ReviewFilter) ([]domain.Review, error) {
	var result []domain.Review
	for _, r := range m.store.reviews {
		if f.BusinessUserID != nil && r.BusinessUserID != *f.BusinessUserID {
			continue
		}
		if f.ReviewerID != nil && r.ReviewerID != *f.ReviewerID {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool {
		var less bool
		if f.Ordering == domain.ReviewOrderByRating {
			less = result[i].Rating < result[j].Rating
		} else {
			less = result[i].UpdatedAt.Before(result[j].UpdatedAt)
		}
		if f.Descending {
			return !less
		}
		return less
	})
	return result, nil
}

func (m *mockReviewRepo) Update(_ context.Context, id int64, patch domain.ReviewPatch) (*domain.Review, error) {
	r, exists := m.store.reviews[id]
	if !exists {
		return nil, nil
	}
	if patch.Rating != nil {
		r.Rating = *patch.Rating
	}
	if patch.Description != nil {
		r.Description = *patch.Description
	}
	r.UpdatedAt = time.Now()
	return r, nil
}

func (m *mockReviewRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, exists := m.store.reviews[id]; !exists {
		return false, nil
	}
	delete(m.store.reviews, id)
	return true, nil
}

// ---------- Stats repository ----------

type mockStatsRepo struct{ store *memStore }

func (m *mockStatsRepo) BaseInfo(_ context.Context) (*domain.BaseInfo, error) {
	info := &domain.BaseInfo{}
	var sum int
	for _, r := range m.store.reviews {
		info.ReviewCount++
		sum += r.Rating
	}
	if info.ReviewCount > 0 {
		info.AverageRating = float64(sum) / float64(info.ReviewCount)
	}
	for _, p := range m.store.profiles {
		if p.Type == domain.RoleBusiness {
			info.BusinessProfileCount++
		}
	}
	info.OfferCount = int64(len(m.store.offers))
	return info, nil
}

// ---------- Test Setup ----------

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret",
			AccessTokenTTL: time.Hour,
		},
	}
}

func setupTestServer() (*httptest.Server, *memStore) {
	store := newMemStore()
	bus := &mockPublisher{}
	cfg := testConfig()

	userRepo := &mockUserRepo{store: store}
	profileRepo := &mockProfileRepo{store: store}
	offerRepo := &mockOfferRepo{store: store}
	orderRepo := &mockOrderRepo{store: store}
	reviewRepo := &mockReviewRepo{store: store}
	statsRepo := &mockStatsRepo{store: store}

	authService := service.NewAuthService(userRepo, profileRepo, &mockMailer{}, bus, cfg)
	profileService := service.NewProfileService(profileRepo)
	offerService := service.NewOfferService(offerRepo, bus)
	orderService := service.NewOrderService(orderRepo, profileRepo, bus)
	reviewService := service.NewReviewService(reviewRepo, profileRepo, bus)
	statsService := service.NewStatsService(statsRepo, nil, time.Minute)

	h := handlers.New(authService, offerService, orderService, reviewService, profileService, statsService, cfg)

	r := chi.NewRouter()
	r.Mount("/api", h.Routes())

	return httptest.NewServer(r), store
}

// ---------- HTTP helpers ----------

func jsonBytes(data interface{}) []byte {
	b, _ := json.Marshal(data)
	return b
}

func doJSON(t *testing.T, method, url, token string, data interface{}, expectedStatus int) *http.Response {
	t.Helper()

	var body *bytes.Buffer
	if data != nil {
		body = bytes.NewBuffer(jsonBytes(data))
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("%s %s failed to build request: %v", method, url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}

	if resp.StatusCode != expectedStatus {
		t.Fatalf("%s %s: expected status %d, got %d", method, url, expectedStatus, resp.StatusCode)
	}

	return resp
}

func postJSON(t *testing.T, url, token string, data interface{}, expectedStatus int) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPost, url, token, data, expectedStatus)
}

func patchJSON(t *testing.T, url, token string, data interface{}, expectedStatus int) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPatch, url, token, data, expectedStatus)
}

func get(t *testing.T, url, token string, expectedStatus int) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodGet, url, token, nil, expectedStatus)
}

func del(t *testing.T, url, token string, expectedStatus int) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodDelete, url, token, nil, expectedStatus)
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

// registerUser creates a user through the registration endpoint and returns
// the auth response with a usable token.
func registerUser(t *testing.T, serverURL, username, role string) domain.AuthResponse {
	t.Helper()

	body := map[string]string{
		"username":          username,
		"email":             username + "@example.com",
		"password":          "secret-pass-123",
		"repeated_password": "secret-pass-123",
		"type":              role,
	}
	resp := postJSON(t, serverURL+"/api/registration", "", body, http.StatusCreated)

	var auth domain.AuthResponse
	decodeBody(t, resp, &auth)
	if auth.Token == "" || auth.UserID == 0 {
		t.Fatalf("registration returned incomplete auth response: %+v", auth)
	}
	return auth
}

// seedOffer creates a standard three-tier offer for the given business token.
func seedOffer(t *testing.T, serverURL, token, title string) map[string]interface{} {
	t.Helper()

	body := map[string]interface{}{
		"title":       title,
		"image":       "",
		"description": "Professional " + title,
		"details": []map[string]interface{}{
			{
				"title":                 title + " basic",
				"revisions":             1,
				"delivery_time_in_days": 7,
				"price":                 100,
				"features":              []string{"Logo"},
				"offer_type":            "basic",
			},
			{
				"title":                 title + " standard",
				"revisions":             3,
				"delivery_time_in_days": 5,
				"price":                 250,
				"features":              []string{"Logo", "Flyer"},
				"offer_type":            "standard",
			},
			{
				"title":                 title + " premium",
				"revisions":             5,
				"delivery_time_in_days": 3,
				"price":                 500,
				"features":              []string{"Logo", "Flyer", "Website"},
				"offer_type":            "premium",
			},
		},
	}
	resp := postJSON(t, serverURL+"/api/offers", token, body, http.StatusCreated)

	var created map[string]interface{}
	decodeBody(t, resp, &created)
	return created
}
