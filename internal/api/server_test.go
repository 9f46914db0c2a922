package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookit/internal/auth"
	"bookit/internal/cache"
	"bookit/internal/config"
	"bookit/internal/messaging"
	"bookit/internal/models"
	"bookit/internal/service"
	"bookit/internal/service/servicetest"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		GinMode:        gin.TestMode,
		BasePath:       "/api",
		MetricsEnabled: true,
		Auth: config.AuthConfig{
			JWTSecret:  "server-secret",
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 30 * 24 * time.Hour,
			BcryptCost: bcrypt.MinCost,
			RateRPS:    100,
			RateBurst:  100,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, store *cache.ValkeyClient) *Server {
	t.Helper()
	theatres := servicetest.NewTheatres()
	stores := service.Stores{
		Users:    &servicetest.Users{},
		Theatres: theatres,
		Shows:    servicetest.NewShows(theatres),
	}
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)

	var purger service.CachePurger
	if store != nil {
		purger = store
	}
	s := New(cfg, Deps{
		Services: service.NewServices(stores, issuer, cfg.Auth.BcryptCost, messaging.NoopPublisher{}, purger),
		Issuer:   issuer,
		Cache:    store,
	})
	t.Cleanup(func() { _ = s.Cleanup() })
	return s
}

func request(t *testing.T, s *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func signup(t *testing.T, s *Server) models.AuthUser {
	t.Helper()
	w := request(t, s, http.MethodPost, "/api/signup", `{"username":"alice","password":"s3cret"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User
}

func TestLivenessAndHealth(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	w := request(t, s, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<p>API for BookIT.</p>", w.Body.String())

	w = request(t, s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestShowListingRequiresAccessToken(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)
	user := signup(t, s)

	w := request(t, s, http.MethodGet, "/api/", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(t, s, http.MethodGet, "/api/", "", user.Refresh)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(t, s, http.MethodGet, "/api/", "", user.Access)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

func TestBasePathIsConfigurable(t *testing.T) {
	cfg := testConfig()
	cfg.BasePath = "/v2"
	s := newTestServer(t, cfg, nil)

	assert.Equal(t, http.StatusOK, request(t, s, http.MethodGet, "/v2/theatres", "", "").Code)
	assert.Equal(t, http.StatusNotFound, request(t, s, http.MethodGet, "/api/theatres", "", "").Code)
}

func TestTheatreRoundTrip(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	w := request(t, s, http.MethodPost, "/api/theatres", `{"name":"Grand","place":"Downtown","capacity":"200"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.DataResponse[models.Theatre]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created.Data, 1)
	id := created.Data[0].ID
	require.NotEmpty(t, id)

	w = request(t, s, http.MethodGet, "/api/theatres/"+id, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"_id":"`+id+`","name":"Grand","place":"Downtown","capacity":"200"}`, w.Body.String())

	w = request(t, s, http.MethodDelete, "/api/theatres", `{"_id":"unknown-id"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"error":false}`, w.Body.String())
}

func TestCORSAllowsDelete(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)
	w := request(t, s, http.MethodOptions, "/api/theatres", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestAuthEndpointsAreRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.RateRPS = 0.001
	cfg.Auth.RateBurst = 1
	s := newTestServer(t, cfg, nil)

	signup(t, s)
	w := request(t, s, http.MethodPost, "/api/login", `{"username":"alice","password":"s3cret"}`, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// theatre routes are not limited
	assert.Equal(t, http.StatusOK, request(t, s, http.MethodGet, "/api/theatres", "", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)
	request(t, s, http.MethodGet, "/api/theatres", "", "")

	w := request(t, s, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bookit_http_requests_total")
}

func TestWritesPurgeResponseCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := cache.NewWithClient(rdb, time.Minute)
	s := newTestServer(t, testConfig(), store)

	w := request(t, s, http.MethodGet, "/api/theatres", "", "")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	w = request(t, s, http.MethodGet, "/api/theatres", "", "")
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())

	w = request(t, s, http.MethodPost, "/api/theatres", `{"name":"Grand","place":"Downtown","capacity":"200"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(t, s, http.MethodGet, "/api/theatres", "", "")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	var resp models.DataResponse[models.Theatre]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)

	w = request(t, s, http.MethodGet, "/health", "", "")
	assert.Contains(t, w.Body.String(), `"cache":"ok"`)
}
