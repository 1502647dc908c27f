package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"peopledesk/internal/auth"
	"peopledesk/internal/entity"
)

func newAuthTestRouter(t *testing.T, handler *HTTPHandler, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	chain := append([]gin.HandlerFunc{handler.AuthMiddleware()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			InternalError(c, "no user in context")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "role": user.Role})
	})
	r.GET("/probe", chain...)
	return r
}

func TestAuthMiddlewareRejectsMissingOrMalformedHeaders(t *testing.T) {
	repo := newFakeAPIRepo()
	handler := newTestHandler(t, repo)
	router := newAuthTestRouter(t, handler)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc123"},
		{name: "empty token", header: "Bearer "},
		{name: "garbage token", header: "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
			}
		})
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	user := &entity.DbUser{ID: "u1", Username: "jamie", Role: entity.UserRoleHR, Status: entity.UserStatusActive}
	repo := newFakeAPIRepo(user)
	handler := newTestHandler(t, repo)

	shortLived, err := auth.NewManager("test-secret", "peopledesk-test", time.Nanosecond)
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	token, _, err := shortLived.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	router := newAuthTestRouter(t, handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}

	var response APIError
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response.Code != ErrCodeSessionExpired {
		t.Errorf("expected code %s, got %s", ErrCodeSessionExpired, response.Code)
	}
}

func TestAuthMiddlewareLoadsActiveUser(t *testing.T) {
	user := &entity.DbUser{ID: "u1", Username: "jamie", Role: entity.UserRoleHR, Status: entity.UserStatusActive}
	repo := newFakeAPIRepo(user)
	handler := newTestHandler(t, repo)

	token, _, err := handler.authManager.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	router := newAuthTestRouter(t, handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response["user_id"] != "u1" {
		t.Errorf("expected user_id u1, got %s", response["user_id"])
	}
	if response["role"] != entity.UserRoleHR {
		t.Errorf("expected role hr, got %s", response["role"])
	}
}

func TestAuthMiddlewareRejectsInactiveUser(t *testing.T) {
	user := &entity.DbUser{ID: "u1", Username: "jamie", Role: entity.UserRoleHR, Status: entity.UserStatusInactive}
	repo := newFakeAPIRepo(user)
	handler := newTestHandler(t, repo)

	token, _, err := handler.authManager.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	router := newAuthTestRouter(t, handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestAuthMiddlewareRejectsDeletedUser(t *testing.T) {
	user := &entity.DbUser{ID: "u1", Username: "jamie", Role: entity.UserRoleHR, Status: entity.UserStatusActive}
	repo := newFakeAPIRepo(user)
	handler := newTestHandler(t, repo)

	token, _, err := handler.authManager.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	delete(repo.users, "u1")

	router := newAuthTestRouter(t, handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequireAccess(t *testing.T) {
	adminUser := &entity.DbUser{ID: "admin1", Username: "admin", Role: entity.UserRoleAdmin, Status: entity.UserStatusActive}
	guestUser := &entity.DbUser{ID: "g1", Username: "guest", Role: entity.UserRoleGuest, Status: entity.UserStatusActive}
	grantedGuest := &entity.DbUser{
		ID:            "g2",
		Username:      "guest2",
		Role:          entity.UserRoleGuest,
		Status:        entity.UserStatusActive,
		SectionAccess: entity.StringArray{auth.SectionDocuments},
	}
	repo := newFakeAPIRepo(adminUser, guestUser, grantedGuest)
	handler := newTestHandler(t, repo)

	requirement := auth.Requirement{Section: auth.SectionDocuments}
	router := newAuthTestRouter(t, handler, handler.RequireAccess(requirement))

	serve := func(t *testing.T, user *entity.DbUser) *httptest.ResponseRecorder {
		t.Helper()
		token, _, err := handler.authManager.GenerateToken(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("admin passes by role default", func(t *testing.T) {
		if w := serve(t, adminUser); w.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
		}
	})

	t.Run("guest without grants is denied", func(t *testing.T) {
		if w := serve(t, guestUser); w.Code != http.StatusForbidden {
			t.Errorf("expected status %d, got %d", http.StatusForbidden, w.Code)
		}
	})

	t.Run("guest with section grant passes", func(t *testing.T) {
		if w := serve(t, grantedGuest); w.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
		}
	})
}
