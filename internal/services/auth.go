package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"park-ticketing-platform/internal/models"
	"park-ticketing-platform/internal/utils"
)

var (
	// ErrUsernameTaken is returned when registering an existing username
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken is returned when an access token fails validation
	ErrInvalidToken = errors.New("invalid or expired token")
)

// UserStore is the persistence contract the auth service depends on
type UserStore interface {
	LoadUsers() ([]models.User, error)
	SaveUsers(users []models.User) error
}

// Claims are the JWT claims carried by an access token
type Claims struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// AuthService manages account registration and token-based login
type AuthService struct {
	store    UserStore
	secret   []byte
	tokenTTL time.Duration

	mu    sync.RWMutex
	users []models.User

	now func() time.Time
}

// NewAuthService creates an auth service, restoring the persisted accounts
func NewAuthService(store UserStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	users, err := store.LoadUsers()
	if err != nil {
		log.Printf("Warning: failed to load users, starting empty: %v", err)
		users = nil
	}

	return &AuthService{
		store:    store,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
		users:    users,
		now:      time.Now,
	}
}

// Register creates a new account. Usernames are unique; customer type
// defaults to Adult.
func (s *AuthService) Register(req *models.UserRegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	username := strings.TrimSpace(req.Username)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if strings.EqualFold(s.users[i].Username, username) {
			return nil, ErrUsernameTaken
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customerType := req.CustomerType
	if customerType == "" {
		customerType = models.CustomerAdult
	}

	user := models.User{
		ID:           "CUST-" + uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		CustomerType: customerType,
		CreatedAt:    s.now(),
	}

	s.users = append(s.users, user)
	if err := s.store.SaveUsers(s.users); err != nil {
		log.Printf("Warning: failed to persist users: %v", err)
	}

	return &user, nil
}

// Login verifies credentials and issues a signed access token
func (s *AuthService) Login(username, password string) (string, *models.User, error) {
	s.mu.RLock()
	var user *models.User
	for i := range s.users {
		if strings.EqualFold(s.users[i].Username, strings.TrimSpace(username)) {
			u := s.users[i]
			user = &u
			break
		}
	}
	s.mu.RUnlock()

	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return "", nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := &Claims{
		Name:    user.FullName,
		Type:    string(user.CustomerType),
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, user, nil
}

// ParseToken validates an access token and returns its claims
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CustomerRef returns the order-facing identity for a set of claims
func (c *Claims) CustomerRef() models.CustomerRef {
	return models.CustomerRef{
		ID:   c.Subject,
		Name: c.Name,
		Type: c.Type,
	}
}
