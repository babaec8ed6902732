package prtg

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProxyRouter(t *testing.T, upstream http.HandlerFunc) (chi.Router, *int) {
	t.Helper()
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		upstream(w, r)
	}))
	t.Cleanup(server.Close)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewTableCache(redisClient, time.Minute, slog.Default())

	handler := NewHandler(slog.Default(), NewClient(server.URL, "u", "p"), cache)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r, &hits
}

func TestListDevicesServesSecondRequestFromCache(t *testing.T) {
	router, hits := newProxyRouter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"devices":[{"objid":1,"device":"fw","host":"10.0.0.1","group":"Net","probe":"Local","status":"Up"}]}`))
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/devices", nil)
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Body.String(), `"fw"`)
	}
	assert.Equal(t, 1, *hits, "second request must not hit PRTG")
}

func TestAddDeviceValidation(t *testing.T) {
	router, hits := newProxyRouter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	req := httptest.NewRequest(http.MethodPost, "/devices", strings.NewReader(`{"name":"fw"}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Name, Host, dan Parent Group ID wajib diisi")
	assert.Equal(t, 0, *hits)
}

func TestAddDeviceRelaysPRTGErrorBody(t *testing.T) {
	router, _ := newProxyRouter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<error>no such group</error>"))
	})

	req := httptest.NewRequest(http.MethodPost, "/devices",
		strings.NewReader(`{"name":"fw","host":"10.0.0.1","parentId":"9"}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "no such group")
}

func TestRenameDeviceRequiresNewName(t *testing.T) {
	router, _ := newProxyRouter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	req := httptest.NewRequest(http.MethodPut, "/devices/40", strings.NewReader(`{}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "New name is required")
}

func TestMutationInvalidatesDeviceCache(t *testing.T) {
	router, hits := newProxyRouter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/table.json" {
			_, _ = w.Write([]byte(`{"devices":[]}`))
			return
		}
		_, _ = w.Write([]byte("OK"))
	})

	list := func() {
		req := httptest.NewRequest(http.MethodGet, "/devices", nil)
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)
		require.Equal(t, http.StatusOK, res.Code)
	}

	list()
	require.Equal(t, 1, *hits)

	req := httptest.NewRequest(http.MethodDelete, "/devices/40", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, 2, *hits)

	// The delete dropped the cached table, so listing refetches.
	list()
	assert.Equal(t, 3, *hits)
}

func TestListGroupsFailure(t *testing.T) {
	router, _ := newProxyRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodGet, "/groups", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Contains(t, res.Body.String(), "Failed to fetch groups")
}
