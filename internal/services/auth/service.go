package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/roulettegame/internal/dependencies/clock"
	"github.com/mcoot/roulettegame/internal/dependencies/random"
	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/storage"
)

// AdminTokenCookie is the name of the cookie carrying the admin token
const AdminTokenCookie = "admin-token"

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMissingCredentials = errors.New("email and password are required")
)

// Config holds configuration for the auth service
type Config struct {
	// TokenTTL is how long an issued token stays valid
	TokenTTL time.Duration
	// Secret signs tokens. When empty a random secret is generated, so tokens
	// do not survive a restart.
	Secret string
	// SecureCookie marks the token cookie Secure (HTTPS only)
	SecureCookie bool
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenTTL: 7 * 24 * time.Hour,
	}
}

// Service handles admin accounts and the stateless admin tokens
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	cfg     Config
	secret  []byte
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger, cfg Config) *Service {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultConfig().TokenTTL
	}

	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		logger.Warn("no admin token secret configured, generating an ephemeral one")
		secret = random.Bytes(32)
	}

	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
		cfg:     cfg,
		secret:  secret,
	}
}

// Login checks an admin's email and password and issues a token
func (s *Service) Login(ctx context.Context, email, password string) (*model.Admin, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	admin, err := s.storage.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrAdminNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	return admin, s.IssueToken(admin.ID), nil
}

// Authenticate verifies a token and loads the admin it was issued to
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Admin, error) {
	adminID, ok := s.VerifyToken(token)
	if !ok {
		return nil, ErrInvalidToken
	}

	admin, err := s.storage.GetAdmin(ctx, adminID)
	if err != nil {
		if errors.Is(err, model.ErrAdminNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return admin, nil
}

// CreateAdmin registers a new admin account
func (s *Service) CreateAdmin(ctx context.Context, email, name, password string) (*model.Admin, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	_, err := s.storage.GetAdminByEmail(ctx, email)
	if err == nil {
		return nil, model.ErrAdminExists
	}
	if !errors.Is(err, model.ErrAdminNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{
		ID:           model.AdminID(s.random.UUID()),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}

	if err := s.storage.SaveAdmin(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// EnsureAdmin returns the admin with the given email, creating it if needed.
// An existing admin's password is left untouched.
func (s *Service) EnsureAdmin(ctx context.Context, email, name, password string) (*model.Admin, error) {
	admin, err := s.storage.GetAdminByEmail(ctx, email)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, model.ErrAdminNotFound) {
		return nil, err
	}

	admin, err = s.CreateAdmin(ctx, email, name, password)
	if err != nil {
		return nil, err
	}
	s.logger.Info("bootstrap admin created", "admin_id", admin.ID, "email", admin.Email)
	return admin, nil
}

// SetTokenCookie writes the admin token as a session cookie
func (s *Service) SetTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearTokenCookie expires the admin token cookie
func (s *Service) ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

// TokenFromRequest extracts the admin token from the cookie, falling back to
// an Authorization: Bearer header
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AdminTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
