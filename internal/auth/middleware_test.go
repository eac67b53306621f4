package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/access-control-api/internal/domain"
	apperrors "github.com/spec-kit/access-control-api/pkg/util"
)

type stubUserRepo struct {
	users map[string]*domain.User
	err   error
}

func (r *stubUserRepo) Create(context.Context, *domain.User) error { return nil }
func (r *stubUserRepo) Update(context.Context, *domain.User) error { return nil }

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func newTestApp(t *testing.T, repo *stubUserRepo) (*fiber.App, *TokenManager) {
	t.Helper()

	tm := newTestManager(t, "middleware-secret", "HS256", 30)
	mw := NewAuthMiddleware(tm, repo)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
		},
	})

	echoPrincipal := func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return errors.New("principal missing after gate")
		}
		return c.JSON(fiber.Map{"username": principal.Username, "role": principal.Role})
	}

	app.Get("/protected", mw.Handle, RequireAuthenticated(), echoPrincipal)
	app.Get("/admin-only", mw.Handle, RequireRole(domain.RoleAdmin), echoPrincipal)
	app.Get("/user-only", mw.Handle, RequireRole(domain.RoleUser), echoPrincipal)
	return app, tm
}

func activeUsers() map[string]*domain.User {
	return map[string]*domain.User{
		"alice": {ID: "u-1", Username: "alice", Role: domain.RoleUser, IsActive: true},
		"root":  {ID: "u-2", Username: "root", Role: domain.RoleAdmin, IsActive: true},
		"bob":   {ID: "u-3", Username: "bob", Role: domain.RoleUser, IsActive: false},
	}
}

func doRequest(t *testing.T, app *fiber.App, path, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	return resp
}

func issueFor(t *testing.T, tm *TokenManager, username string, role domain.Role) string {
	t.Helper()
	token, _, err := tm.Issue(username, role)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token
}

func TestAuthMiddleware_HeaderExtraction(t *testing.T) {
	app, tm := newTestApp(t, &stubUserRepo{users: activeUsers()})
	valid := issueFor(t, tm, "alice", domain.RoleUser)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"no token part", "Bearer", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid bearer", "Bearer " + valid, http.StatusOK},
		{"case-insensitive scheme", "bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, "/protected", tt.header)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestAuthMiddleware_UnknownSubject(t *testing.T) {
	app, tm := newTestApp(t, &stubUserRepo{users: activeUsers()})
	token := issueFor(t, tm, "ghost", domain.RoleUser)

	resp := doRequest(t, app, "/protected", "Bearer "+token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("deleted user should be unauthorized, got %d", resp.StatusCode)
	}
}

func TestAuthMiddleware_InactiveSubject(t *testing.T) {
	app, tm := newTestApp(t, &stubUserRepo{users: activeUsers()})
	token := issueFor(t, tm, "bob", domain.RoleUser)

	resp := doRequest(t, app, "/protected", "Bearer "+token)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("inactive user should be forbidden, got %d", resp.StatusCode)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	app, _ := newTestApp(t, &stubUserRepo{users: activeUsers()})

	expired, err := NewTokenManager("middleware-secret", "HS256", -1)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	token := issueFor(t, expired, "alice", domain.RoleUser)

	resp := doRequest(t, app, "/protected", "Bearer "+token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expired token should be unauthorized, got %d", resp.StatusCode)
	}
}

func TestAuthMiddleware_StoreError(t *testing.T) {
	app, tm := newTestApp(t, &stubUserRepo{err: errors.New("connection refused")})
	token := issueFor(t, tm, "alice", domain.RoleUser)

	resp := doRequest(t, app, "/protected", "Bearer "+token)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("store failure should surface as 500, got %d", resp.StatusCode)
	}
}

func TestRequireRole_ExactMatch(t *testing.T) {
	app, tm := newTestApp(t, &stubUserRepo{users: activeUsers()})
	userToken := issueFor(t, tm, "alice", domain.RoleUser)
	adminToken := issueFor(t, tm, "root", domain.RoleAdmin)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"user on admin route", "/admin-only", userToken, http.StatusForbidden},
		{"admin on admin route", "/admin-only", adminToken, http.StatusOK},
		{"user on user route", "/user-only", userToken, http.StatusOK},
		// No hierarchy: admin does not satisfy a user-only gate.
		{"admin on user route", "/user-only", adminToken, http.StatusForbidden},
		{"no token on admin route", "/admin-only", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := ""
			if tt.token != "" {
				header = "Bearer " + tt.token
			}
			resp := doRequest(t, app, tt.path, header)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestAuthMiddleware_RoleFromStoreNotToken(t *testing.T) {
	// The live record is authoritative: a token minted with role admin
	// for a user whose stored role is user must not pass the admin gate.
	app, tm := newTestApp(t, &stubUserRepo{users: activeUsers()})
	forged := issueFor(t, tm, "alice", domain.RoleAdmin)

	resp := doRequest(t, app, "/admin-only", "Bearer "+forged)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("stale token role should not grant admin, got %d", resp.StatusCode)
	}
}
