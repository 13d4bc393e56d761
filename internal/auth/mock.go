// ABOUTME: In-memory auth API used in mock mode
// ABOUTME: Checks bcrypt-hashed demo accounts and issues signed JWTs

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/freelancehub/freelancehub-cli/internal/client"
)

// mockTokenTTL matches a typical server session lifetime
const mockTokenTTL = 24 * time.Hour

var mockSigningKey = []byte("freelancehub-mock-mode")

var errEmailTaken = errors.New("email already registered")

// Account is a seeded mock-mode user with a plain-text password
type Account struct {
	User     User
	Password string
}

type mockAccount struct {
	user client.User
	hash []byte
}

type mockClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// MockAPI implements API without a server
type MockAPI struct {
	tokens client.TokenSource
	now    func() time.Time

	mu       sync.Mutex
	accounts map[string]mockAccount
}

// NewMockAPI seeds accounts; tokens is read by CurrentUser like the HTTP client would
func NewMockAPI(tokens client.TokenSource, accounts []Account) (*MockAPI, error) {
	m := &MockAPI{
		tokens:   tokens,
		now:      time.Now,
		accounts: make(map[string]mockAccount),
	}
	for _, a := range accounts {
		if _, err := m.add(client.User{
			ID:        a.User.ID,
			FirstName: a.User.FirstName,
			LastName:  a.User.LastName,
			Email:     a.User.Email,
		}, a.Password); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// add hashes first so the duplicate check and the insert share one critical section
func (m *MockAPI) add(u client.User, password string) (client.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return client.User{}, err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	key := strings.ToLower(u.Email)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[key]; exists {
		return client.User{}, errEmailTaken
	}
	m.accounts[key] = mockAccount{user: u, hash: hash}
	return u, nil
}

func (m *MockAPI) issue(email string) (string, error) {
	now := m.now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, mockClaims{
		Email: strings.ToLower(email),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strings.ToLower(email),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(mockTokenTTL)),
		},
	}).SignedString(mockSigningKey)
}

// Login checks the password against the seeded hash
func (m *MockAPI) Login(ctx context.Context, email, password string) (*client.AuthResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	acct, ok := m.accounts[strings.ToLower(email)]
	m.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) != nil {
		return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}
	}

	token, err := m.issue(email)
	if err != nil {
		return nil, err
	}
	return &client.AuthResponse{Token: token, User: acct.user}, nil
}

// Register adds an account for the life of the process
func (m *MockAPI) Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := m.add(client.User{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email}, req.Password)
	if errors.Is(err, errEmailTaken) {
		return nil, &client.APIError{StatusCode: http.StatusBadRequest, Message: "Email already registered"}
	}
	if err != nil {
		return nil, err
	}
	token, err := m.issue(req.Email)
	if err != nil {
		return nil, err
	}
	return &client.AuthResponse{Token: token, User: u}, nil
}

// CurrentUser resolves the token from the token source
func (m *MockAPI) CurrentUser(ctx context.Context) (*client.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, ok := m.tokens.Token()
	if !ok {
		return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Not authenticated"}
	}

	var c mockClaims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (interface{}, error) {
		return mockSigningKey, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid token"}
	}

	m.mu.Lock()
	acct, ok := m.accounts[c.Email]
	m.mu.Unlock()
	if !ok {
		return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid token"}
	}
	u := acct.user
	return &u, nil
}
