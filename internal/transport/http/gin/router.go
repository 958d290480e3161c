package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	redisrepo "github.com/kirinyoku/tourcart/internal/repository/redis"
	"github.com/kirinyoku/tourcart/internal/service"
	"github.com/kirinyoku/tourcart/internal/service/booking"
	catalogsvc "github.com/kirinyoku/tourcart/internal/service/catalog"
	"github.com/kirinyoku/tourcart/internal/session"
)

const idemLockTTL = 60 * time.Second

// NewRouter builds the HTTP API. idem may be nil, in which case
// Idempotency-Key headers are ignored. An empty adminToken leaves the admin
// routes open.
func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	adminToken string,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(logger), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"catalog": svcs.Catalog.Current().Version(),
		})
	})

	// Catalog
	r.GET("/experiences", handleListExperiences(svcs))
	r.GET("/experiences/:id", handleGetExperience(svcs))
	r.GET("/experiences/:id/slots", handleListSlots(svcs))
	r.GET("/experiences/:id/dates", handleListDates(svcs))
	r.GET("/experiences/:id/availability", handleCheckAvailability(svcs))
	r.GET("/addons/:slug", handleGetAddon(svcs))
	r.GET("/profiles", handleListProfiles(svcs))
	r.GET("/profiles/:name", handleGetProfile(svcs))
	r.GET("/profiles/:name/experiences", handleListProfileExperiences(svcs))

	// Cart
	carts := r.Group("/sessions/:sid/cart")
	{
		carts.GET("", handleGetCart(svcs))
		carts.DELETE("", handleClearCart(svcs))
		carts.POST("/items", handleAddItem(svcs, idem))
		carts.PUT("/items/:index", handleUpdateItem(svcs))
		carts.PATCH("/items/:index/quantity", handleSetQuantity(svcs))
		carts.DELETE("/items/:index", handleRemoveItem(svcs))
	}

	// Admin-API
	admin := r.Group("/admin", AdminTokenMiddleware(adminToken))
	{
		admin.PUT("/catalog", handlePublishCatalog(svcs))
	}

	return r
}

// --- Catalog handlers ---

// @Summary  List experiences
// @Success  200  {array}  domain.Experience
// @Router   /experiences [get]
func handleListExperiences(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, svcs.Catalog.Experiences(), "public, max-age=60", true)
	}
}

// @Summary  Get experience
// @Param    id  path  string  true  "Experience ID or slug"
// @Success  200  {object}  domain.Experience
// @Failure  404  {object}  ErrorResponse
// @Router   /experiences/{id} [get]
func handleGetExperience(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, err := svcs.Catalog.Experience(c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, e, "public, max-age=60", true)
	}
}

// @Summary  List slots of a day
// @Param    id      path   string  true   "Experience ID or slug"
// @Param    date    query  string  true   "YYYY-MM-DD"
// @Param    guests  query  int     false  "group size, default 1"
// @Success  200  {object}  SlotsResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /experiences/{id}/slots [get]
func handleListSlots(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		if date == "" {
			badRequest(c, "missing date")
			return
		}
		guests := parseIntDefault(c.Query("guests"), 1)

		slots, err := svcs.Booking.Slots(c.Request.Context(), c.Param("id"), date, guests)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, SlotsResponse{
			ExperienceID: c.Param("id"),
			Date:         date,
			Guests:       guests,
			Slots:        slots,
		}, "public, max-age=15", true)
	}
}

// @Summary  List bookable dates
// @Param    id      path   string  true   "Experience ID or slug"
// @Param    from    query  string  false  "YYYY-MM-DD, default today"
// @Param    guests  query  int     false  "group size, default 1"
// @Success  200  {object}  DatesResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /experiences/{id}/dates [get]
func handleListDates(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		from := c.Query("from")
		guests := parseIntDefault(c.Query("guests"), 1)

		dates, err := svcs.Booking.Dates(c.Request.Context(), c.Param("id"), from, guests)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, DatesResponse{
			ExperienceID: c.Param("id"),
			From:         from,
			Guests:       guests,
			Dates:        dates,
		}, "public, max-age=15", true)
	}
}

// @Summary  Check a slot against a session cart
// @Param    id       path   string  true   "Experience ID or slug"
// @Param    date     query  string  true   "YYYY-MM-DD"
// @Param    time     query  string  true   "HH:MM"
// @Param    guests   query  int     false  "requested seats, default 1"
// @Param    session  query  string  false  "session whose cart is counted"
// @Param    exclude  query  int     false  "cart line not to count"
// @Success  200  {object}  domain.SlotAvailability
// @Failure  404  {object}  ErrorResponse
// @Router   /experiences/{id}/availability [get]
func handleCheckAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		date, slotTime := c.Query("date"), c.Query("time")
		if date == "" || slotTime == "" {
			badRequest(c, "missing date or time")
			return
		}
		guests := parseIntDefault(c.Query("guests"), 1)

		var exclude *int
		if s := c.Query("exclude"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				badRequest(c, "invalid exclude")
				return
			}
			exclude = &v
		}

		avail, err := svcs.Booking.CheckAvailability(
			c.Request.Context(),
			c.Query("session"),
			c.Param("id"),
			date,
			slotTime,
			guests,
			exclude,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, avail)
	}
}

// @Summary  Get addon
// @Param    slug  path  string  true  "Addon slug"
// @Success  200  {object}  domain.Addon
// @Failure  404  {object}  ErrorResponse
// @Router   /addons/{slug} [get]
func handleGetAddon(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := svcs.Catalog.Addon(c.Param("slug"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, a, "public, max-age=60", true)
	}
}

// @Summary  List profile names
// @Success  200  {array}  string
// @Router   /profiles [get]
func handleListProfiles(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, svcs.Catalog.ProfileNames(), "public, max-age=60", true)
	}
}

// @Summary  Get profile
// @Param    name  path  string  true  "Profile name"
// @Success  200  {object}  catalog.ProfileView
// @Failure  404  {object}  ErrorResponse
// @Router   /profiles/{name} [get]
func handleGetProfile(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svcs.Catalog.Profile(c.Param("name"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, p, "public, max-age=60", true)
	}
}

// @Summary  List experiences of a profile
// @Param    name  path  string  true  "Profile name"
// @Success  200  {array}  domain.Experience
// @Failure  404  {object}  ErrorResponse
// @Router   /profiles/{name}/experiences [get]
func handleListProfileExperiences(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svcs.Catalog.Profile(c.Param("name"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, p.Experiences, "public, max-age=60", true)
	}
}

// --- Cart handlers ---

// @Summary  Get cart
// @Param    sid  path  string  true  "Session ID"
// @Success  200  {object}  booking.CartView
// @Failure  400  {object}  ErrorResponse
// @Router   /sessions/{sid}/cart [get]
func handleGetCart(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Booking.Cart(c.Request.Context(), c.Param("sid"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, view)
	}
}

// @Summary  Add booking to cart (idempotent)
// @Param    sid  path  string          true  "Session ID"
// @Param    req  body  BookingRequest  true  "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} booking.MutationResult
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse "experience not found"
// @Failure  409 {object} ErrorResponse "slot unavailable / idem in progress"
// @Failure  422 {object} ErrorResponse "invalid guests or addons"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /sessions/{sid}/cart/items [post]
func handleAddItem(svcs *service.Services, idem *redisrepo.IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.Param("sid")

		var req BookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemCartAdd(sid, idemKey)

			payload, state, err := idem.Begin(c.Request.Context(), idemStorageKey, idemLockTTL)
			if err != nil {
				respondErr(c, err)
				return
			}

			switch state {
			case redisrepo.IdemReplay:
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			case redisrepo.IdemInProgress:
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		res, err := svcs.Booking.Add(c.Request.Context(), sid, req.toSession())
		if err != nil {
			if idemStorageKey != "" {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" {
			b, _ := json.Marshal(res)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, res)
	}
}

// @Summary  Replace a cart line
// @Param    sid    path  string          true  "Session ID"
// @Param    index  path  int             true  "Line index"
// @Param    req    body  BookingRequest  true  "payload"
// @Success  200 {object} booking.MutationResult
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Failure  422 {object} ErrorResponse
// @Router   /sessions/{sid}/cart/items/{index} [put]
func handleUpdateItem(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, ok := parseIntParam(c, "index")
		if !ok {
			return
		}

		var req BookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		res, err := svcs.Booking.Update(c.Request.Context(), c.Param("sid"), index, req.toSession())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  Set line quantity
// @Param    sid    path  string              true  "Session ID"
// @Param    index  path  int                 true  "Line index"
// @Param    req    body  SetQuantityRequest  true  "quantity, 0 removes the line"
// @Success  200 {object} booking.CartView
// @Failure  404 {object} ErrorResponse
// @Router   /sessions/{sid}/cart/items/{index}/quantity [patch]
func handleSetQuantity(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, ok := parseIntParam(c, "index")
		if !ok {
			return
		}

		var req SetQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		view, err := svcs.Booking.SetQuantity(c.Request.Context(), c.Param("sid"), index, *req.Quantity)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// @Summary  Remove a cart line
// @Param    sid    path  string  true  "Session ID"
// @Param    index  path  int     true  "Line index"
// @Success  200 {object} booking.CartView
// @Failure  404 {object} ErrorResponse
// @Router   /sessions/{sid}/cart/items/{index} [delete]
func handleRemoveItem(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, ok := parseIntParam(c, "index")
		if !ok {
			return
		}

		view, err := svcs.Booking.Remove(c.Request.Context(), c.Param("sid"), index)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// @Summary  Clear cart
// @Param    sid  path  string  true  "Session ID"
// @Success  200 {object} booking.CartView
// @Router   /sessions/{sid}/cart [delete]
func handleClearCart(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Booking.Clear(c.Request.Context(), c.Param("sid"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// --- Admin handlers ---

// @Summary  Publish catalog
// @Param    req  body  domain.CatalogData  true  "catalog document"
// @Success  200 {object} PublishCatalogResponse
// @Failure  400 {object} ErrorResponse
// @Failure  401 {object} ErrorResponse
// @Router   /admin/catalog [put]
func handlePublishCatalog(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.GetRawData()
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		cat, err := svcs.Catalog.Publish(c.Request.Context(), raw)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, PublishCatalogResponse{
			Version:     cat.Version(),
			Experiences: len(cat.Experiences()),
			Profiles:    len(cat.Profiles()),
		})
	}
}

// --- Helpers ---

func parseIntParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var lineErr booking.LineNotFoundError
	var rlErr booking.RateLimitedError

	switch {
	// booking service
	case errors.Is(err, booking.ErrInvalidSessionID):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
	case errors.As(err, &lineErr):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "cart line not found"})
	case errors.As(err, &rlErr):
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rlErr.RetryAfter.Seconds()))))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
	// session
	case errors.Is(err, session.ErrExperienceNotFound),
		errors.Is(err, catalogsvc.ErrExperienceNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "experience not found"})
	case errors.Is(err, session.ErrCategoryNotAllowed):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "guest category not allowed"})
	case errors.Is(err, session.ErrGuestBounds):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "guest count out of bounds"})
	case errors.Is(err, session.ErrUnknownAddon):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "unknown addon"})
	case errors.Is(err, session.ErrTimeRequired):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "booking date and time are required"})
	case errors.Is(err, session.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "not enough seats left"})
	case errors.Is(err, session.ErrDateUnavailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "date not available"})
	// catalog service
	case errors.Is(err, catalogsvc.ErrAddonNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "addon not found"})
	case errors.Is(err, catalogsvc.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
	case errors.Is(err, catalogsvc.ErrInvalidCatalog):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid catalog document"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
