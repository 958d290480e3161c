package httpgin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/tourcart/internal/domain"
	"github.com/kirinyoku/tourcart/internal/service"
	"github.com/kirinyoku/tourcart/internal/service/booking"
	catalogsvc "github.com/kirinyoku/tourcart/internal/service/catalog"
)

const fixture = `{
	"profiles": {"Ana": {"profileImage": "ana.jpg", "experiences": ["kayak-tour"], "shortText": "Guide"}},
	"experiences": [
		{
			"id": "kayak", "slug": "kayak-tour", "owner": "Ana", "title": "Kayak Tour", "price": 100,
			"categoryPrices": {"adults": 120, "children": 80},
			"addons": ["lunch"],
			"guests": {"min": 1, "max": 6},
			"allowedCategories": {"adults": true, "children": true, "seniors": false},
			"schedule": {"2030-05-01": [{"time": "10:00", "capacity": 5, "booked": 3}]}
		}
	],
	"addons": [{"slug": "lunch", "title": "Lunch", "price": 10}]
}`

func newTestRouter(t *testing.T, adminToken string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat := catalogsvc.New(catalogsvc.Config{Path: path}, catalogsvc.Deps{Logger: logger})
	require.NoError(t, cat.Load(context.Background()))

	svcs := &service.Services{
		Catalog: cat,
		Booking: booking.New(booking.Config{}, booking.Deps{Catalogs: cat, Logger: logger}),
	}

	return NewRouter(svcs, nil, logger, adminToken)
}

func do(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

const addBody = `{
	"experienceId": "kayak",
	"bookingDate": "2030-05-01",
	"bookingTime": "10:00",
	"guestCounts": {"adults": 1, "children": 1},
	"selectedAddons": [{"title": "Lunch", "quantity": 1}]
}`

// ==== catalog ====

func TestRouter_Healthz(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_GetExperienceWithETag(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(r, http.MethodGet, "/experiences/kayak-tour", "")
	require.Equal(t, http.StatusOK, w.Code)

	e := decode[domain.Experience](t, w)
	assert.Equal(t, "kayak", e.ID)
	require.Len(t, e.Addons, 1)
	assert.Equal(t, "Lunch", e.Addons[0].Title)

	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	w = do(r, http.MethodGet, "/experiences/kayak-tour", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, w.Code)

	w = do(r, http.MethodGet, "/experiences/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Slots(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(r, http.MethodGet, "/experiences/kayak/slots?date=2030-05-01&guests=3", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[SlotsResponse](t, w)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, domain.SlotTooSmall, resp.Slots[0].Status)

	w = do(r, http.MethodGet, "/experiences/kayak/slots", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Profiles(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(r, http.MethodGet, "/profiles", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Ana"}, decode[[]string](t, w))

	w = do(r, http.MethodGet, "/profiles/Ana/experiences", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Experience](t, w), 1)

	w = do(r, http.MethodGet, "/profiles/Bob", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/addons/lunch", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

// ==== cart ====

func TestRouter_CartFlow(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(r, http.MethodPost, "/sessions/abc/cart/items", addBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	res := decode[booking.MutationResult](t, w)
	assert.Equal(t, 2, res.Cart.TotalItems)
	// 120 + 80 + lunch 10 for each guest
	assert.Equal(t, "220", res.Cart.TotalPrice.String())

	w = do(r, http.MethodGet, "/experiences/kayak/availability?date=2030-05-01&time=10:00&guests=1&session=abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.SlotAvailability{Remaining: 0, IsFull: true}, decode[domain.SlotAvailability](t, w))

	w = do(r, http.MethodPost, "/sessions/abc/cart/items", addBody)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPatch, "/sessions/abc/cart/items/0/quantity", `{"quantity": 3}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[booking.CartView](t, w).TotalItems)

	w = do(r, http.MethodDelete, "/sessions/abc/cart/items/5", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/sessions/abc/cart/items/0", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[booking.CartView](t, w).ItemCount)
}

func TestRouter_AddValidation(t *testing.T) {
	r := newTestRouter(t, "")

	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing experience", `{"guestCounts": {"adults": 1}}`, http.StatusBadRequest},
		{"unknown experience", `{"experienceId": "x", "guestCounts": {"adults": 1}}`, http.StatusNotFound},
		{"seniors not allowed", `{"experienceId": "kayak", "bookingDate": "2030-05-01", "bookingTime": "10:00", "guestCounts": {"seniors": 1}}`, http.StatusUnprocessableEntity},
		{"missing time", `{"experienceId": "kayak", "guestCounts": {"adults": 1}}`, http.StatusUnprocessableEntity},
		{"unknown addon", `{"experienceId": "kayak", "bookingDate": "2030-05-01", "bookingTime": "10:00", "guestCounts": {"adults": 1}, "selectedAddons": [{"title": "Wine"}]}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/sessions/abc/cart/items", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestRouter_UpdateAndClear(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(r, http.MethodPost, "/sessions/abc/cart/items", addBody)
	require.Equal(t, http.StatusCreated, w.Code)

	update := `{"experienceId": "kayak", "bookingDate": "2030-05-01", "bookingTime": "10:00", "guestCounts": {"adults": 2}}`
	w = do(r, http.MethodPut, "/sessions/abc/cart/items/0", update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "240", decode[booking.MutationResult](t, w).Cart.TotalPrice.String())

	w = do(r, http.MethodPut, "/sessions/abc/cart/items/x", update)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, "/sessions/abc/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[booking.CartView](t, w).ItemCount)
}

// ==== admin ====

func TestRouter_PublishCatalogRequiresToken(t *testing.T) {
	r := newTestRouter(t, "secret")
	doc := `{"experiences": [{"id": "boat", "title": "Boat", "price": 50}]}`

	w := do(r, http.MethodPut, "/admin/catalog", doc)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPut, "/admin/catalog", `{bad`, "Authorization", "Bearer secret")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/admin/catalog", doc, "Authorization", "Bearer secret")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, decode[PublishCatalogResponse](t, w).Experiences)

	w = do(r, http.MethodGet, "/experiences/boat", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEtagMatches(t *testing.T) {
	assert.True(t, etagMatches(`W/"a"`, `W/"a"`))
	assert.True(t, etagMatches(`"b", "a"`, `W/"a"`))
	assert.True(t, etagMatches(`*`, `"a"`))
	assert.False(t, etagMatches(``, `"a"`))
	assert.False(t, etagMatches(`"b"`, `"a"`))
}
