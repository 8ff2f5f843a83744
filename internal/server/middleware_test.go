package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"todo-backend/internal/auth"
	"todo-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubUserRepo satisfies repository.UserRepository with a single canned
// user and an optional forced error.
type stubUserRepo struct {
	user *domain.User
	err  error
}

func (s *stubUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }

func (s *stubUserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Update(ctx context.Context, user *domain.User) error { return nil }

func (s *stubUserRepo) Delete(ctx context.Context, id uint) error { return nil }

func newAuthTestServer(repo *stubUserRepo) (*Server, *auth.TokenService) {
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	return &Server{tokens: tokens, users: repo}, tokens
}

// echoIdentity reports whether the middleware attached a user, and which.
func echoIdentity(t *testing.T, gotUser **domain.User, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if user, ok := UserFromContext(r.Context()); ok {
			*gotUser = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func issueFor(t *testing.T, tokens *auth.TokenService, user *domain.User) string {
	t.Helper()
	token, err := tokens.Issue(strconv.FormatUint(uint64(user.ID), 10), user.Email, user.Username)
	require.NoError(t, err)
	return token
}

func TestRequireAuth_ResolvesUser(t *testing.T) {
	user := &domain.User{ID: 42, Username: "alice", Email: "alice@example.com"}
	srv, tokens := newAuthTestServer(&stubUserRepo{user: user})

	var gotUser *domain.User
	var called bool
	handler := srv.RequireAuth(echoIdentity(t, &gotUser, &called))

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	require.NotNil(t, gotUser)
	assert.Equal(t, uint(42), gotUser.ID)
}

func TestRequireAuth_Rejections(t *testing.T) {
	user := &domain.User{ID: 42, Username: "alice", Email: "alice@example.com"}
	otherSecret := auth.NewTokenService([]byte("other-secret"), time.Hour)

	tests := []struct {
		name   string
		repo   *stubUserRepo
		header func(tokens *auth.TokenService) string
	}{
		{
			"missing header",
			&stubUserRepo{user: user},
			func(*auth.TokenService) string { return "" },
		},
		{
			"not a bearer scheme",
			&stubUserRepo{user: user},
			func(*auth.TokenService) string { return "Basic abc123" },
		},
		{
			"malformed token",
			&stubUserRepo{user: user},
			func(*auth.TokenService) string { return "Bearer not.a.jwt" },
		},
		{
			"token signed with a different secret",
			&stubUserRepo{user: user},
			func(*auth.TokenService) string { return "Bearer " + issueFor(t, otherSecret, user) },
		},
		{
			"expired token",
			&stubUserRepo{user: user},
			func(tokens *auth.TokenService) string {
				token, err := tokens.IssueWithTTL("42", user.Email, user.Username, -1*time.Second)
				require.NoError(t, err)
				return "Bearer " + token
			},
		},
		{
			"non-numeric subject",
			&stubUserRepo{user: user},
			func(tokens *auth.TokenService) string {
				token, err := tokens.Issue("not-a-number", user.Email, user.Username)
				require.NoError(t, err)
				return "Bearer " + token
			},
		},
		{
			"unknown user",
			&stubUserRepo{},
			func(tokens *auth.TokenService) string { return "Bearer " + issueFor(t, tokens, user) },
		},
		{
			"repository failure",
			&stubUserRepo{err: errors.New("connection refused")},
			func(tokens *auth.TokenService) string { return "Bearer " + issueFor(t, tokens, user) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, tokens := newAuthTestServer(tt.repo)

			var called bool
			var gotUser *domain.User
			handler := srv.RequireAuth(echoIdentity(t, &gotUser, &called))

			req := httptest.NewRequest(http.MethodGet, "/todos", nil)
			if header := tt.header(tokens); header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called, "handler must not run")
			assert.JSONEq(t, `{"error":"unauthenticated"}`, rec.Body.String())
		})
	}
}

func TestOptionalAuth_DegradesToAnonymous(t *testing.T) {
	user := &domain.User{ID: 42, Username: "alice", Email: "alice@example.com"}

	tests := []struct {
		name   string
		repo   *stubUserRepo
		header string
	}{
		{"missing header", &stubUserRepo{user: user}, ""},
		{"malformed token", &stubUserRepo{user: user}, "Bearer garbage"},
		{"unknown user", &stubUserRepo{}, ""},
		{"repository failure", &stubUserRepo{err: errors.New("connection refused")}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, tokens := newAuthTestServer(tt.repo)

			header := tt.header
			if header == "" && tt.name != "missing header" {
				header = "Bearer " + issueFor(t, tokens, user)
			}

			var called bool
			var gotUser *domain.User
			handler := srv.OptionalAuth(echoIdentity(t, &gotUser, &called))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, called, "request must proceed anonymously")
			assert.Nil(t, gotUser)
		})
	}
}

func TestOptionalAuth_ResolvesValidIdentity(t *testing.T) {
	user := &domain.User{ID: 7, Username: "bob", Email: "bob@example.com"}
	srv, tokens := newAuthTestServer(&stubUserRepo{user: user})

	var called bool
	var gotUser *domain.User
	handler := srv.OptionalAuth(echoIdentity(t, &gotUser, &called))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.NotNil(t, gotUser)
	assert.Equal(t, uint(7), gotUser.ID)
}
