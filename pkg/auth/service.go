package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fstore/pkg/log"
	"fstore/pkg/models"
	"fstore/pkg/registry"
)

// DefaultTokenTTL is the access token lifetime when none is configured.
const DefaultTokenTTL = 30 * time.Minute

// Config carries the token signing parameters.
type Config struct {
	Secret   []byte
	TokenTTL time.Duration
}

// UserStore is the slice of the registry the auth service needs.
type UserStore interface {
	CreateUser(username, hashedPassword string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(userID int64) (*models.User, error)
}

// Service verifies credentials and issues/validates bearer tokens. The rest
// of the system only ever asks it one question: which user id does this
// request belong to.
type Service struct {
	cfg   Config
	users UserStore
}

// NewService creates an auth service over the given user store.
func NewService(cfg Config, users UserStore) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	return &Service{cfg: cfg, users: users}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrWeakCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(username, string(hashed))
	if err != nil {
		if errors.Is(err, registry.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	log.Info().Str("username", username).Int64("user_id", user.ID).Msg("User registered")
	return user, nil
}

// Login verifies credentials and returns a signed access token.
func (s *Service) Login(username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, registry.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", ErrInactiveUser
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	log.Info().Str("username", username).Int64("user_id", user.ID).Msg("User logged in")
	return token, nil
}

// Authenticate validates a bearer token and resolves it to a live user id.
func (s *Service) Authenticate(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.cfg.Secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	// The token may outlive the account; the registry is the authority.
	user, err := s.users.GetUserByID(userID)
	if err != nil || !user.IsActive {
		return 0, ErrInvalidToken
	}

	return user.ID, nil
}
