// ABOUTME: In-process fake of the marketplace REST API for integration tests
// ABOUTME: Serves auth and project routes from memory with JWT bearer tokens

package testserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/freelancehub/freelancehub-cli/internal/client"
)

// naiveLayout is how the API writes created_at: no zone designator
const naiveLayout = "2006-01-02T15:04:05.000000"

var signingKey = []byte("testserver-signing-key")

type account struct {
	user client.User
	hash []byte
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Server is a running fake API
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]account
	projects []client.Project
	calls    map[string]int
	failures map[string]failure
	now      func() time.Time
	tokenTTL time.Duration
}

type failure struct {
	status int
	body   string
}

// New starts a fake API that is closed when the test ends
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		accounts: make(map[string]account),
		calls:    make(map[string]int),
		failures: make(map[string]failure),
		now:      time.Now,
		tokenTTL: 24 * time.Hour,
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.track)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Freelance Project Marketplace API"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.With(s.requireBearer).Get("/me", s.handleMe)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", s.handleListProjects)
		r.Post("/", s.handleCreateProject)
		r.Get("/{id}", s.handleGetProject)
		r.Patch("/{id}/status", s.handleUpdateStatus)
	})
	return r
}

// track counts calls per "METHOD /path" and serves injected failures
func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimSuffix(r.URL.Path, "/")
		if key == r.Method+" " {
			key += "/"
		}
		slog.Debug("Fake API request", "request_id", r.Header.Get(client.RequestIDHeader), "route", key)

		s.mu.Lock()
		s.calls[key]++
		f, fail := s.failures[key]
		delete(s.failures, key)
		s.mu.Unlock()

		if fail {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Calls returns how many times route ("GET /projects") was hit
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// FailNext makes the next call to route answer status with a raw JSON body
func (s *Server) FailNext(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, body: body}
}

// AddUser registers an account and returns its identity record
func (s *Server) AddUser(firstName, lastName, email, password string) client.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u := client.User{ID: uuid.NewString(), FirstName: firstName, LastName: lastName, Email: email}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[strings.ToLower(email)] = account{user: u, hash: hash}
	return u
}

// AddProject seeds a project; empty id, status and created_at are filled in
func (s *Server) AddProject(p client.Project) client.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = "OPEN"
	}
	if p.CreatedAt == "" {
		p.CreatedAt = s.now().UTC().Format(naiveLayout)
	}
	s.projects = append(s.projects, p)
	return p
}

// Project returns the stored project with id
func (s *Server) Project(id string) (client.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return client.Project{}, false
}

// IssueToken signs a token for email valid for ttl; a negative ttl yields an expired token
func (s *Server) IssueToken(email string, ttl time.Duration) string {
	c := claims{
		Email: strings.ToLower(email),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return token
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req client.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, client.AuthResponse{Token: s.IssueToken(req.Email, s.tokenTTL), User: acct.user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req client.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}

	s.mu.Lock()
	_, exists := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if exists {
		writeMessage(w, http.StatusBadRequest, "Email already registered")
		return
	}

	u := s.AddUser(req.FirstName, req.LastName, req.Email, req.Password)
	writeJSON(w, http.StatusCreated, client.AuthResponse{Token: s.IssueToken(req.Email, s.tokenTTL), User: u})
}

type ctxKey struct{}

// requireBearer validates the JWT bearer token and resolves its account
func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeMessage(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var c claims
		_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (interface{}, error) {
			return signingKey, nil
		}, jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if errors.Is(err, jwt.ErrTokenExpired) {
			writeMessage(w, http.StatusUnauthorized, "Token expired")
			return
		}
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		s.mu.Lock()
		acct, ok := s.accounts[c.Email]
		s.mu.Unlock()
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r, acct.user)))
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, err := intParam(q.Get("skip"), 0)
	if err != nil || skip < 0 {
		writeDetail(w, "skip", "ensure this value is greater than or equal to 0")
		return
	}
	limit, err := intParam(q.Get("limit"), 10)
	if err != nil || limit < 1 || limit > 100 {
		writeDetail(w, "limit", "ensure this value is between 1 and 100")
		return
	}
	minBudget, minSet := floatParam(q.Get("min_budget"))
	maxBudget, maxSet := floatParam(q.Get("max_budget"))
	tech, status := q.Get("tech"), q.Get("status")

	s.mu.Lock()
	matched := make([]client.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if tech != "" && !contains(p.TechStack, tech) {
			continue
		}
		if minSet && p.Budget < minBudget {
			continue
		}
		if maxSet && p.Budget > maxBudget {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt > matched[j].CreatedAt
	})
	if skip > len(matched) {
		skip = len(matched)
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	writeJSON(w, http.StatusOK, matched[skip:end])
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.Project(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Project not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req client.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, "body", "invalid JSON")
		return
	}
	switch {
	case len(req.Title) < 5:
		writeDetail(w, "title", "ensure this value has at least 5 characters")
		return
	case len(req.Description) < 20:
		writeDetail(w, "description", "ensure this value has at least 20 characters")
		return
	case req.Budget <= 0:
		writeDetail(w, "budget", "ensure this value is greater than 0")
		return
	case len(req.TechStack) == 0:
		writeDetail(w, "tech_stack", "ensure this value has at least 1 items")
		return
	}

	p := s.AddProject(client.Project{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		TechStack:   req.TechStack,
	})
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req client.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || (req.Status != "OPEN" && req.Status != "COMPLETED") {
		writeDetail(w, "status", "value is not a valid enumeration member")
		return
	}

	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects[i].Status = req.Status
			writeJSON(w, http.StatusOK, s.projects[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Project not found"})
}

func withUser(r *http.Request, u client.User) context.Context {
	return context.WithValue(r.Context(), ctxKey{}, u)
}

func userFrom(r *http.Request) client.User {
	u, _ := r.Context().Value(ctxKey{}).(client.User)
	return u
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeDetail answers 422 in FastAPI's validation error shape
func writeDetail(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{"loc": []string{"body", field}, "msg": msg, "type": "value_error"}},
	})
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func floatParam(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
