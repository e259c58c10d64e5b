package web

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/furnistore/internal/client/bootstrap"
	"github.com/dmitrijs2005/furnistore/internal/client/config"
	"github.com/dmitrijs2005/furnistore/internal/client/models"
	"github.com/dmitrijs2005/furnistore/internal/client/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validToken() string {
	exp := time.Now().Add(time.Hour).Unix()
	return "h." + base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"exp":%d}`, exp))) + ".s"
}

type console struct {
	srv      *Server
	rt       *bootstrap.Runtime
	notices  *Notices
	upstream *http.ServeMux
	gotReqID string
}

func newConsole(t *testing.T, role models.Role) *console {
	t.Helper()
	return newConsoleWith(t, role, bootstrap.Options{})
}

func newConsoleWith(t *testing.T, role models.Role, opts bootstrap.Options) *console {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c := &console{upstream: http.NewServeMux(), notices: NewNotices()}
	c.upstream.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access": validToken(),
			"user":   models.User{ID: 1, Username: body["username"], Role: role},
		})
	})
	api := httptest.NewServer(c.upstream)
	t.Cleanup(api.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = api.URL
	cfg.StoragePath = ":memory:"

	rt, err := bootstrap.Open(context.Background(), cfg, nil, c.notices, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	c.rt = rt
	c.srv = New(rt, c.notices, nil)
	return c
}

func (c *console) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c.srv.Handler().ServeHTTP(w, req)
	return w
}

func (c *console) login(t *testing.T) {
	t.Helper()
	w := c.do(t, http.MethodPost, "/login", map[string]string{"username": "ann", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHealthz(t *testing.T) {
	c := newConsole(t, models.RoleStaff)
	w := c.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAdmin_WaitsWhileSessionLoads(t *testing.T) {
	c := newConsole(t, models.RoleStaff)

	w := c.do(t, http.MethodGet, "/admin/orders", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestAdmin_AnonymousRedirected(t *testing.T) {
	c := newConsole(t, models.RoleStaff)
	c.rt.Session.Initialize(context.Background())

	w := c.do(t, http.MethodGet, "/admin/orders", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLoginAndSession(t *testing.T) {
	c := newConsole(t, models.RoleAdmin)
	c.rt.Session.Initialize(context.Background())

	c.login(t)

	w := c.do(t, http.MethodGet, "/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var v sessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "authenticated", v.State)
	assert.True(t, v.IsAdmin)
	assert.True(t, v.IsStaff)
	assert.False(t, v.IsCustomer)
	assert.Equal(t, "ann", v.User.Username)

	w = c.do(t, http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, c.rt.Session.Snapshot().IsAuthenticated())
}

func TestLogin_Failure(t *testing.T) {
	c := newConsole(t, models.RoleAdmin)

	w := c.do(t, http.MethodPost, "/login", map[string]string{"username": "ann", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), session.MsgLoginFailed)

	w = c.do(t, http.MethodPost, "/login", map[string]string{"username": "ann"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_RoleRequirements(t *testing.T) {
	c := newConsole(t, models.RoleStaff)
	c.upstream.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":3,"user":1,"status":"paid","total":"10.00","created_at":"2024-01-02T00:00:00Z"}]`))
	})
	c.login(t)

	w := c.do(t, http.MethodGet, "/admin/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderPaid, orders[0].Status)

	w = c.do(t, http.MethodGet, "/admin/users", nil)
	assert.Equal(t, http.StatusFound, w.Code, "staff may not list users")
}

func TestAdmin_UnauthorizedUpstreamClosesSession(t *testing.T) {
	c := newConsole(t, models.RoleStaff)
	c.upstream.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c.login(t)

	w := c.do(t, http.MethodGet, "/admin/products", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.False(t, c.rt.Session.Snapshot().IsAuthenticated())
	assert.Equal(t, 1, c.notices.Redirects())

	w = c.do(t, http.MethodGet, "/login", nil)
	assert.Contains(t, w.Body.String(), session.MsgSessionExpired)
	assert.Empty(t, c.notices.Drain(), "notices are shown once")
}

func TestAdmin_CreateCategory(t *testing.T) {
	c := newConsole(t, models.RoleStaff)
	c.upstream.HandleFunc("/api/categories/", func(w http.ResponseWriter, r *http.Request) {
		c.gotReqID = r.Header.Get("X-Request-ID")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["name"] == "Chairs" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"name":["category with this name already exists."]}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":9,"name":"` + body["name"] + `"}`))
	})
	c.login(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/categories", bytes.NewBufferString(`{"name":"Lamps"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "console-1")
	w := httptest.NewRecorder()
	c.srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "console-1", c.gotReqID, "request id is passed upstream")

	w = c.do(t, http.MethodPost, "/admin/categories", map[string]string{"name": "Chairs"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "category with this name already exists.")
	assert.True(t, c.rt.Session.Snapshot().IsAuthenticated())

	w = c.do(t, http.MethodPost, "/admin/categories", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// flakyTransport fails every request to one path.
type flakyTransport struct{ path string }

func (f flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.URL.Path == f.path {
		return nil, errors.New("connection refused")
	}
	return http.DefaultTransport.RoundTrip(r)
}

func TestAdmin_UpstreamUnreachable(t *testing.T) {
	c := newConsoleWith(t, models.RoleStaff, bootstrap.Options{
		HTTPClient: &http.Client{Transport: flakyTransport{path: "/api/orders/"}},
	})
	c.login(t)

	w := c.do(t, http.MethodGet, "/admin/orders", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.True(t, c.rt.Session.Snapshot().IsAuthenticated(), "network failures keep the session")
}

func TestAdmin_UpstreamServerErrorIsBadGateway(t *testing.T) {
	c := newConsole(t, models.RoleStaff)
	c.upstream.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"database is down"}`))
	})
	c.login(t)

	w := c.do(t, http.MethodGet, "/admin/orders", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "database is down")
	assert.True(t, c.rt.Session.Snapshot().IsAuthenticated())
}

func TestNotices_Bounded(t *testing.T) {
	n := NewNotices()
	for i := 0; i < maxNotices+5; i++ {
		n.Info(fmt.Sprint(i))
	}
	got := n.Drain()
	require.Len(t, got, maxNotices)
	assert.Equal(t, "5", got[0])
}
