package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/coderr-app/coderr-backend/internal/domain"
	"github.com/coderr-app/coderr-backend/internal/http/response"
	"github.com/coderr-app/coderr-backend/internal/service"
	"github.com/coderr-app/coderr-backend/pkg/auth"
	"github.com/coderr-app/coderr-backend/pkg/config"
	"github.com/coderr-app/coderr-backend/pkg/logger"
)

type ctxKey string

const claimsKey ctxKey = "claims"

type Handlers struct {
	authService    service.AuthService
	offerService   service.OfferService
	orderService   service.OrderService
	reviewService  service.ReviewService
	profileService service.ProfileService
	statsService   service.StatsService
	cfg            *config.Config
}

func New(
	authService service.AuthService,
	offerService service.OfferService,
	orderService service.OrderService,
	reviewService service.ReviewService,
	profileService service.ProfileService,
	statsService service.StatsService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		authService:    authService,
		offerService:   offerService,
		orderService:   orderService,
		reviewService:  reviewService,
		profileService: profileService,
		statsService:   statsService,
		cfg:            cfg,
	}
}

// Routes builds the full API router.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.StripSlashes)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w)
	})

	r.Post("/registration", h.register)
	r.Post("/login", h.login)

	r.Route("/offers", func(r chi.Router) {
		r.Get("/", h.listOffers)
		r.With(h.RequireJWT("business")).Post("/", h.createOffer)
		r.With(h.RequireJWT("")).Get("/{id}", h.getOffer)
		r.With(h.RequireJWT("")).Patch("/{id}", h.updateOffer)
		r.With(h.RequireJWT("")).Delete("/{id}", h.deleteOffer)
	})
	r.With(h.RequireJWT("")).Get("/offerdetails/{id}", h.getOfferDetail)

	r.Route("/orders", func(r chi.Router) {
		r.Use(h.RequireJWT(""))
		r.Get("/", h.listOrders)
		r.Post("/", h.createOrder)
		r.Patch("/{id}", h.updateOrderStatus)
		r.Delete("/{id}", h.deleteOrder)
	})
	r.With(h.RequireJWT("")).Get("/order-count/{id}", h.countInProgressOrders)
	r.With(h.RequireJWT("")).Get("/completed-order-count/{id}", h.countCompletedOrders)

	r.Route("/reviews", func(r chi.Router) {
		r.Use(h.RequireJWT(""))
		r.Get("/", h.listReviews)
		r.Post("/", h.createReview)
		r.Patch("/{id}", h.updateReview)
		r.Delete("/{id}", h.deleteReview)
	})

	r.Get("/profile/{id}", h.getProfile)
	r.With(h.RequireJWT("")).Patch("/profile/{id}", h.updateProfile)
	r.With(h.RequireJWT("")).Get("/profiles/business", h.listBusinessProfiles)
	r.With(h.RequireJWT("")).Get("/profiles/customer", h.listCustomerProfiles)

	r.Get("/base-info", h.baseInfo)

	return r
}

// RequireJWT enforces a bearer token, and optionally a role. Admins pass any
// role requirement; object-level checks still apply downstream.
func (h *Handlers) RequireJWT(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.Unauthorized(w, "Authentication credentials were not provided.")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := auth.Parse(token, h.cfg.Auth.JWTSecret)
			if err != nil {
				response.Unauthorized(w, "Invalid token.")
				return
			}

			if requiredRole != "" && claims.Role != requiredRole && claims.Role != string(domain.RoleAdmin) {
				response.Forbidden(w, "You do not have permission to perform this action.")
				return
			}

			ctx := context.WithValue(r.Context(), logger.UserIDKey, claims.Sub)
			ctx = context.WithValue(ctx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getClaims(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func getActor(r *http.Request) domain.Actor {
	claims := getClaims(r)
	if claims == nil {
		return domain.Actor{}
	}
	return domain.Actor{ID: claims.Sub, Role: domain.Role(claims.Role)}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
