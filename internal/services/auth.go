package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

type authService struct {
	limiter      repository.RateLimitRepository
	adminEmail   string
	passwordHash []byte
	jwtKey       []byte
	expiry       time.Duration
}

func NewAuthService(cfg config.Security, limiter repository.RateLimitRepository) AuthService {
	return &authService{
		limiter:      limiter,
		adminEmail:   strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		passwordHash: []byte(cfg.AdminPasswordHash),
		jwtKey:       []byte(cfg.JWTKey),
		expiry:       time.Duration(cfg.JWTExpiryHours) * time.Hour,
	}
}

// Login implements AuthService.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {

	email := strings.ToLower(strings.TrimSpace(req.Email))

	allowed, remaining, retryAfter, err := s.limiter.Allow(ctx, "login:"+email)
	if err != nil {
		return nil, errors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return &models.LoginResponse{
			Success:    false,
			Message:    "Too many login attempts. Please try again later.",
			RetryAfter: retryAfter,
		}, nil
	}

	emailMatches := s.adminEmail != "" && subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1

	if len(s.passwordHash) == 0 || bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)) != nil || !emailMatches {
		middleware.LoggerFromContext(ctx).Warn("Admin login failed", "email", email)
		return &models.LoginResponse{
			Success:        false,
			Message:        "Invalid email or password",
			RemainingTries: remaining,
		}, nil
	}

	claims := models.NewAdminClaims(email, time.Now(), s.expiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, errors.InternalError("Failed to generate authentication token").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("Admin logged in", "email", email)

	return &models.LoginResponse{
		Success:   true,
		Token:     tokenString,
		ExpiresIn: int(s.expiry.Seconds()),
	}, nil
}
