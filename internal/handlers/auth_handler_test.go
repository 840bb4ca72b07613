package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koinonia-app/koinonia-api/internal/auth"
	"github.com/koinonia-app/koinonia-api/internal/config"
	"github.com/koinonia-app/koinonia-api/internal/domain/policy"
	"github.com/koinonia-app/koinonia-api/internal/domain/user"
	"github.com/koinonia-app/koinonia-api/internal/middleware"
	"github.com/koinonia-app/koinonia-api/internal/services"
	"github.com/koinonia-app/koinonia-api/internal/storage/memory"
)

type testAPI struct {
	router *gin.Engine
	store  *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Session.Secret = "test-secret"
	cfg.Session.CookieName = "koinonia_session"
	cfg.Session.TTL = time.Hour

	sessions, err := auth.NewSessionManager(cfg)
	require.NoError(t, err)

	store := memory.NewStore()
	engine := policy.NewEngine(store.Relationships())
	account := services.NewAccountService(store)
	groups := services.NewGroupService(store, engine)

	authHandler := NewAuthHandler(account, sessions)
	groupHandler := NewGroupHandler(groups)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.RequireUser(sessions, store))
	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/groups", groupHandler.Create)
	authed.GET("/groups/:group_id", groupHandler.Get)

	return &testAPI{router: router, store: store}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "koinonia_session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func (a *testAPI) seedInvitation(t *testing.T) string {
	t.Helper()
	sponsor := user.New("sponsor@example.com", "sponsor", "S", "P", "")
	require.NoError(t, sponsor.SetPassword("password123"))
	require.NoError(t, a.store.Users().Create(sponsor))
	inv, err := user.NewInvitation(sponsor.ID)
	require.NoError(t, err)
	require.NoError(t, a.store.Invitations().Create(inv))
	return inv.Code
}

func TestRegisterLoginFlow(t *testing.T) {
	api := newTestAPI(t)
	code := api.seedInvitation(t)

	w := api.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"email":           "alice@example.com",
		"username":        "alice",
		"password":        "password123",
		"first_name":      "Alice",
		"last_name":       "Smith",
		"invitation_code": code,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)

	// The session cookie authenticates follow-up requests.
	w = api.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.NotContains(t, w.Body.String(), "password", "hash must never serialize")

	// Reusing the invitation code is rejected.
	w = api.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"email":           "bob@example.com",
		"username":        "bob",
		"password":        "password123",
		"first_name":      "Bob",
		"last_name":       "Jones",
		"invitation_code": code,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestsWithoutSessionRejected(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodGet, "/api/auth/me", nil, &http.Cookie{Name: "koinonia_session", Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGroupVisibilityOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	register := func(email, username, code string) *http.Cookie {
		w := api.do(t, http.MethodPost, "/api/auth/register", gin.H{
			"email":           email,
			"username":        username,
			"password":        "password123",
			"first_name":      "T",
			"last_name":       "U",
			"invitation_code": code,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		return sessionCookie(t, w)
	}

	ownerCookie := register("owner@example.com", "owner", api.seedInvitation(t))
	outsiderCookie := register("outsider@example.com", "outsider", api.seedInvitation(t))

	w := api.do(t, http.MethodPost, "/api/groups", gin.H{"name": "Leaders", "private": true}, ownerCookie)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// A hidden-but-existing group is a 403, a missing one a 404.
	w = api.do(t, http.MethodGet, "/api/groups/"+created.Data.ID, nil, outsiderCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do(t, http.MethodGet, "/api/groups/00000000-0000-0000-0000-000000000001", nil, outsiderCookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(t, http.MethodGet, "/api/groups/"+created.Data.ID, nil, ownerCookie)
	assert.Equal(t, http.StatusOK, w.Code)
}
