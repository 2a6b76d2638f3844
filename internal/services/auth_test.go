package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"park-ticketing-platform/internal/models"
)

type mockUserStore struct {
	users         []models.User
	shouldFailOps map[string]bool
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{shouldFailOps: make(map[string]bool)}
}

func (m *mockUserStore) LoadUsers() ([]models.User, error) {
	if m.shouldFailOps["LoadUsers"] {
		return nil, errors.New("mock error")
	}
	return m.users, nil
}

func (m *mockUserStore) SaveUsers(users []models.User) error {
	if m.shouldFailOps["SaveUsers"] {
		return errors.New("mock error")
	}
	m.users = make([]models.User, len(users))
	copy(m.users, users)
	return nil
}

func validRegisterRequest() *models.UserRegisterRequest {
	return &models.UserRegisterRequest{
		Username: "ranger_rick",
		Password: "trailhead42",
		Email:    "rick@example.com",
		FullName: "Rick Ranger",
	}
}

func newTestAuthService(store UserStore) *AuthService {
	svc := NewAuthService(store, "test-secret", time.Hour)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestAuthService_Register(t *testing.T) {
	store := newMockUserStore()
	svc := newTestAuthService(store)

	user, err := svc.Register(validRegisterRequest())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if !strings.HasPrefix(user.ID, "CUST-") {
		t.Errorf("ID = %q, want CUST- prefix", user.ID)
	}
	if user.PasswordHash == "" || user.PasswordHash == "trailhead42" {
		t.Error("password must be stored hashed")
	}
	if user.CustomerType != models.CustomerAdult {
		t.Errorf("CustomerType = %v, want Adult default", user.CustomerType)
	}
	if len(store.users) != 1 {
		t.Errorf("persisted %d users, want 1", len(store.users))
	}
}

func TestAuthService_RegisterDuplicateUsername(t *testing.T) {
	svc := newTestAuthService(newMockUserStore())

	if _, err := svc.Register(validRegisterRequest()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Username collisions are case-insensitive
	req := validRegisterRequest()
	req.Username = "RANGER_RICK"
	if _, err := svc.Register(req); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("Register() error = %v, want ErrUsernameTaken", err)
	}
}

func TestAuthService_RegisterInvalidRequest(t *testing.T) {
	svc := newTestAuthService(newMockUserStore())

	req := validRegisterRequest()
	req.Password = "short"
	if _, err := svc.Register(req); err == nil {
		t.Fatal("Register() should reject a short password")
	}
}

func TestAuthService_LoginAndParseToken(t *testing.T) {
	svc := newTestAuthService(newMockUserStore())

	registered, err := svc.Register(validRegisterRequest())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, user, err := svc.Login("ranger_rick", "trailhead42")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() returned an empty token")
	}
	if user.ID != registered.ID {
		t.Errorf("user = %q, want %q", user.ID, registered.ID)
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Subject != registered.ID {
		t.Errorf("Subject = %q, want %q", claims.Subject, registered.ID)
	}
	if claims.Name != "Rick Ranger" || claims.Type != string(models.CustomerAdult) {
		t.Errorf("claims = %+v", claims)
	}

	ref := claims.CustomerRef()
	if ref.ID != registered.ID || ref.Name != "Rick Ranger" {
		t.Errorf("CustomerRef() = %+v", ref)
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc := newTestAuthService(newMockUserStore())
	if _, err := svc.Register(validRegisterRequest()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "nobody", "trailhead42"},
		{"wrong password", "ranger_rick", "wrong-password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.Login(tt.username, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAuthService_ParseTokenExpired(t *testing.T) {
	svc := newTestAuthService(newMockUserStore())
	if _, err := svc.Register(validRegisterRequest()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, _, err := svc.Login("ranger_rick", "trailhead42")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Move the clock past the one-hour TTL
	svc.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }
	if _, err := svc.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestAuthService_ParseTokenWrongSecret(t *testing.T) {
	issuer := newTestAuthService(newMockUserStore())
	if _, err := issuer.Register(validRegisterRequest()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	token, _, err := issuer.Login("ranger_rick", "trailhead42")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	verifier := newTestAuthService(newMockUserStore())
	verifier.secret = []byte("other-secret")
	if _, err := verifier.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestAuthService_RestoresPersistedUsers(t *testing.T) {
	store := newMockUserStore()

	first := newTestAuthService(store)
	if _, err := first.Register(validRegisterRequest()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	second := newTestAuthService(store)
	if _, _, err := second.Login("ranger_rick", "trailhead42"); err != nil {
		t.Errorf("Login() after reload error = %v", err)
	}
}
