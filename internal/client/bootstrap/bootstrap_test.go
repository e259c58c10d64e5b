package bootstrap

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/furnistore/internal/client/config"
	"github.com/dmitrijs2005/furnistore/internal/client/models"
	"github.com/dmitrijs2005/furnistore/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopUI struct{ navs int }

func (nopUI) Info(string)         {}
func (nopUI) Error(string)        {}
func (nopUI) DismissLoading()     {}
func (u *nopUI) NavigateToLogin() { u.navs++ }

func farFutureToken() string {
	exp := time.Now().Add(time.Hour).Unix()
	return "h." + base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"exp":%d}`, exp))) + ".s"
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = baseURL
	cfg.StoragePath = filepath.Join(t.TempDir(), "nested", "session.db")
	return cfg
}

func TestOpen_WiresSessionIntoClient(t *testing.T) {
	tok := farFutureToken()
	var sawAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login/":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access": tok,
				"user":   models.User{ID: 1, Username: "alice", Role: models.RoleStaff},
			})
		case "/api/orders/":
			sawAuth = r.Header.Get(common.HeaderAuthorization)
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	ui := &nopUI{}
	rt, err := Open(context.Background(), testConfig(t, srv.URL), nil, ui, Options{})
	require.NoError(t, err)
	defer rt.Close()

	ctx := context.Background()
	rt.Session.Initialize(ctx)
	require.NoError(t, rt.Session.Login(ctx, "alice", "pw"))

	_, err = rt.API.ListOrders(ctx)
	require.Error(t, err)

	assert.Equal(t, "Bearer "+tok, sawAuth)
	assert.False(t, rt.Session.Snapshot().IsAuthenticated(), "401 closes the session")
	assert.Equal(t, 1, ui.navs)
}

func TestOpen_RejectsRelativeBaseURL(t *testing.T) {
	_, err := Open(context.Background(), testConfig(t, "/api"), nil, &nopUI{}, Options{})
	require.Error(t, err)
}
