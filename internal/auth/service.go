package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/core/ports"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidCreds = errors.New("invalid credentials")
)

// Service issues and validates HS256 bearer tokens and manages credentials.
type Service struct {
	users    ports.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewService builds the auth service. When secret is empty an ephemeral
// in-memory one is generated; issued tokens then die with the process.
func NewService(users ports.UserRepository, secret string, tokenTTL time.Duration) (*Service, error) {
	key := []byte(strings.TrimSpace(secret))
	if len(key) == 0 {
		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate fallback jwt secret: %w", err)
		}
		key = []byte(base64.RawURLEncoding.EncodeToString(buf))
		slog.Warn("jwt_secret_not_set", "msg", "using ephemeral in-memory secret")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{users: users, secret: key, tokenTTL: tokenTTL}, nil
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (s *Service) Register(ctx context.Context, creds Credentials, role domain.Role) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.WrapError(domain.ErrInvalidInput, "register", errors.New("valid email is required"))
	}
	if len(creds.Password) < 8 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "register", errors.New("password must be at least 8 characters"))
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if domain.IsKind(err, domain.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.session(*user)
}

func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return nil, ErrInvalidCreds
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCreds
	}

	return s.session(*user)
}

// Identity is the authenticated principal attached to requests.
type Identity struct {
	UserID string
	Role   domain.Role
}

// ParseToken validates a bearer token and returns the identity it carries.
func (s *Service) ParseToken(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, domain.WrapError(domain.ErrUnauthorized, "parse token", errors.New("invalid or expired token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, domain.WrapError(domain.ErrUnauthorized, "parse token", errors.New("invalid claims"))
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, domain.WrapError(domain.ErrUnauthorized, "parse token", errors.New("missing subject"))
	}
	role, _ := claims["role"].(string)

	return Identity{UserID: sub, Role: domain.Role(role)}, nil
}

func (s *Service) session(user domain.User) (*Session, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	user.PasswordHash = ""
	return &Session{Token: token, User: user}, nil
}
