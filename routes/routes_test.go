package routes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/gin-gonic/gin"

	"go-marketplace/config"
	"go-marketplace/models"
	"go-marketplace/repositories"
	"go-marketplace/services"
)

type cartResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    []models.CartEntry `json:"data"`
}

type testServer struct {
	router  *gin.Engine
	storage *repositories.MemoryStorage
	store   *services.CartStore
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storage := repositories.NewMemoryStorage()
	store := services.NewCartStore(storage, services.CartStoreOptions{Key: config.DefaultStorageKey})
	store.Start(context.Background())
	t.Cleanup(func() { store.Close(context.Background()) })
	<-store.Loaded()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(Dependencies{Config: cfg, Logger: logger, Storage: storage, Store: store})
	return &testServer{router: router, storage: storage, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) []models.CartEntry {
	t.Helper()
	var resp cartResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	return resp.Data
}

func TestCartRoutes(t *testing.T) {
	srv := newTestServer(t, &config.Config{})

	w := srv.do(t, http.MethodPost, "/cart", `{"id":"x","title":"T","image_url":"u","price":9.99}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.CartEntry{{ID: "x", Title: "T", ImageURL: "u", Price: 9.99, Quantity: 1}}, decodeCart(t, w))

	w = srv.do(t, http.MethodPost, "/cart", `{"id":"y","title":"Y","image_url":"v","price":1}`, nil)
	assert.Equal(t, 2, len(decodeCart(t, w)))

	w = srv.do(t, http.MethodPatch, "/cart/x/increment", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decodeCart(t, w)[0].Quantity)

	w = srv.do(t, http.MethodPatch, "/cart/y/decrement", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	products := decodeCart(t, w)
	assert.Equal(t, 1, len(products))
	assert.Equal(t, "x", products[0].ID)

	w = srv.do(t, http.MethodPatch, "/cart/missing/decrement", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, products, decodeCart(t, w))

	w = srv.do(t, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, products, decodeCart(t, w))
	assert.NotEqual(t, "", w.Header().Get("X-Request-ID"))

	assert.NoError(t, srv.store.Flush(context.Background()))
	data, err := srv.storage.GetItem(context.Background(), config.DefaultStorageKey)
	assert.NoError(t, err)
	stored, err := models.DecodeCart(data)
	assert.NoError(t, err)
	assert.Equal(t, products, stored)

	w = srv.do(t, http.MethodDelete, "/cart", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, len(decodeCart(t, w)))
}

func TestAddToCartRejectsInvalidBody(t *testing.T) {
	srv := newTestServer(t, &config.Config{})

	w := srv.do(t, http.MethodPost, "/cart", `{"title":"no id"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPost, "/cart", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 0, len(srv.store.Products()))
}

func TestDeviceAuth(t *testing.T) {
	srv := newTestServer(t, &config.Config{JWTSecret: "secret", JWTExpiry: time.Hour})

	w := srv.do(t, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.do(t, http.MethodGet, "/cart", "", http.Header{"Authorization": {"Token abc"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.do(t, http.MethodPost, "/auth/device", `{"device_id":"phone-1"}`, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Data models.DeviceTokenResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEqual(t, "", resp.Data.Token)

	w = srv.do(t, http.MethodGet, "/cart", "", http.Header{"Authorization": {"Bearer " + resp.Data.Token}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeviceTokenDisabled(t *testing.T) {
	srv := newTestServer(t, &config.Config{})

	w := srv.do(t, http.MethodPost, "/auth/device", `{"device_id":"phone-1"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &config.Config{})

	w := srv.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"loaded":true`)

	assert.NoError(t, srv.storage.Close())
	w = srv.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
