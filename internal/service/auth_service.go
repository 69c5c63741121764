package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/coderr-app/coderr-backend/internal/domain"
	"github.com/coderr-app/coderr-backend/internal/mailer"
	"github.com/coderr-app/coderr-backend/internal/repository"
	"github.com/coderr-app/coderr-backend/internal/utils"
	"github.com/coderr-app/coderr-backend/pkg/auth"
	"github.com/coderr-app/coderr-backend/pkg/config"
	"github.com/coderr-app/coderr-backend/pkg/events"
	"github.com/coderr-app/coderr-backend/pkg/logger"
)

const invalidCredentials = "Invalid username or password."

type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
}

type authService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	mail     mailer.Service
	bus      events.Publisher
	cfg      *config.Config
}

func NewAuthService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	mail mailer.Service,
	bus events.Publisher,
	cfg *config.Config,
) AuthService {
	return &authService{
		users:    users,
		profiles: profiles,
		mail:     mail,
		bus:      bus,
		cfg:      cfg,
	}
}

func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	username := utils.NormalizeString(req.Username)
	email := utils.NormalizeEmail(req.Email)

	verr := &domain.ValidationError{}
	if username == "" {
		verr.Add("username", "This field is required.")
	}
	if email == "" {
		verr.Add("email", "This field is required.")
	} else if !utils.IsValidEmail(email) {
		verr.Add("email", "Enter a valid email address.")
	}
	if req.Password == "" {
		verr.Add("password", "This field is required.")
	}
	role, ok := domain.ParseRole(req.Type)
	if !ok {
		verr.Add("type", "Type must be customer or business.")
	}
	if !verr.Empty() {
		return nil, verr
	}
	if req.Password != req.RepeatedPassword {
		return nil, domain.NewFieldError("error", "Passwords do not match.")
	}

	if taken, err := s.users.UsernameTaken(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		return nil, domain.NewFieldError("username", "This username is already taken.")
	}
	if taken, err := s.users.EmailTaken(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, domain.NewFieldError("email", "This email is already taken.")
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateWithProfile(ctx, username, email, hash, role)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.NewAccessToken(user.ID, user.Username, user.Email, string(role),
		s.cfg.Auth.JWTSecret, s.cfg.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	// Best effort; registration never fails on mail or event errors.
	if err := s.mail.SendWelcome(user.Email, user.Username); err != nil {
		logger.WarnContext(ctx, "Failed to send welcome mail", "error", err, "user_id", user.ID)
	}
	event := events.UserRegisteredEvent{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Type:     string(role),
		At:       time.Now(),
	}
	if err := s.bus.Publish(ctx, events.UserRegistered, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish user registered event", "error", err, "user_id", user.ID)
	}

	return &domain.AuthResponse{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		UserID:   user.ID,
	}, nil
}

// Login deliberately reports the same generic error for an unknown username
// and a wrong password.
func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	username := utils.NormalizeString(req.Username)
	if username == "" || req.Password == "" {
		return nil, domain.NewFieldError("error", invalidCredentials)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, domain.NewFieldError("error", invalidCredentials)
	}

	ok, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, domain.NewFieldError("error", invalidCredentials)
	}

	role, err := s.roleOf(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := auth.NewAccessToken(user.ID, user.Username, user.Email, string(role),
		s.cfg.Auth.JWTSecret, s.cfg.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domain.AuthResponse{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		UserID:   user.ID,
	}, nil
}

func (s *authService) roleOf(ctx context.Context, user *domain.User) (domain.Role, error) {
	if user.IsStaff {
		return domain.RoleAdmin, nil
	}
	profile, err := s.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return "", fmt.Errorf("user %d has no profile", user.ID)
	}
	return profile.Type, nil
}
