package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/google/uuid"

	"luckydraw/internal/metrics"
	"luckydraw/internal/models"
	"luckydraw/internal/services"
)

const (
	tenantHeader = "X-Tenant-ID"
	tenantCookie = "tenant_id"
	tenantKey    = "tenantID"
)

// HTTPHandler holds the dependencies for the HTTP handlers, like the draw service.
type HTTPHandler struct {
	service *services.DrawService
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(service *services.DrawService) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// RegisterPublicRoutes registers routes that do not need a tenant.
func (h *HTTPHandler) RegisterPublicRoutes(router gin.IRoutes) {
	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// RegisterTenantRoutes registers all the routes scoped to a tenant session.
func (h *HTTPHandler) RegisterTenantRoutes(router *gin.RouterGroup) {
	router.POST("/participants/upload", h.UploadParticipantsCSV)
	router.GET("/participants", h.ListParticipants)
	router.GET("/prizes", h.GetPrizes)
	router.PUT("/prizes", h.SetPrizes)

	lotto := router.Group("/lotto")
	lotto.POST("/draw", h.DrawLotto)
	lotto.POST("/match", h.MatchLotto)
	lotto.GET("/winners", h.ListLottoWinners)
	lotto.GET("/summary", h.LottoSummary)

	raffle := router.Group("/raffle")
	raffle.POST("/draw", h.DrawRaffle)
	raffle.POST("/confirm", h.ConfirmRaffle)
	raffle.POST("/abandon", h.AbandonRaffle)
	raffle.GET("/state", h.RaffleState)
	raffle.POST("/reset", h.ResetRaffle)

	router.POST("/milestones/upload", h.UploadMilestonesCSV)
	router.GET("/progress", h.Progress)
	router.GET("/export-results-csv", h.ExportResultsCSV)
	router.DELETE("/session", h.ClearSession)
}

// TenantMiddleware resolves the tenant from the X-Tenant-ID header or the
// tenant cookie, issuing a new cookie when neither is present.
func (h *HTTPHandler) TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(tenantHeader)
		if tenantID == "" {
			if cookie, err := c.Cookie(tenantCookie); err == nil {
				tenantID = cookie
			}
		}
		if tenantID == "" {
			tenantID = uuid.NewString()
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(tenantCookie, tenantID, int((7 * 24 * time.Hour).Seconds()), "/", "", false, true)
		}
		c.Set(tenantKey, tenantID)
		c.Next()
	}
}

// MetricsMiddleware records request counts and latency per route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// Health reports liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HTTPHandler) engine(c *gin.Context) *services.DrawEngine {
	return h.service.Engine(c.GetString(tenantKey))
}

// GetPrizes returns the tenant's prize table.
func (h *HTTPHandler) GetPrizes(c *gin.Context) {
	table := h.engine(c).PrizeTable()
	tiers := make([]models.PrizeTier, 0, len(table))
	for _, k := range table.Keys() {
		tiers = append(tiers, table[k])
	}
	c.JSON(http.StatusOK, gin.H{"prizes": tiers})
}

// SetPrizes replaces the tenant's prize table. Past winners keep their prizes.
func (h *HTTPHandler) SetPrizes(c *gin.Context) {
	var tiers []models.PrizeTier
	if err := c.ShouldBindJSON(&tiers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	table := make(models.PrizeTable, len(tiers))
	for _, t := range tiers {
		if t.Key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "every prize needs a key"})
			return
		}
		table[t.Key] = t
	}
	h.engine(c).SetPrizeTable(table)
	c.JSON(http.StatusOK, gin.H{"prizes": tiers})
}

// ClearSession removes every piece of state held for the tenant.
func (h *HTTPHandler) ClearSession(c *gin.Context) {
	h.service.ClearSession(c.GetString(tenantKey))
	c.Status(http.StatusNoContent)
}

// errorStatus maps engine errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidDraw), errors.Is(err, services.ErrNoPrizeConfigured):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrEmptyPool),
		errors.Is(err, services.ErrPoolExhausted),
		errors.Is(err, services.ErrDrawInProgress),
		errors.Is(err, services.ErrNoPendingDraw):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorKind is a short label for metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidDraw):
		return "invalid_draw"
	case errors.Is(err, services.ErrNoPrizeConfigured):
		return "no_prize"
	case errors.Is(err, services.ErrEmptyPool):
		return "empty_pool"
	case errors.Is(err, services.ErrPoolExhausted):
		return "exhausted"
	case errors.Is(err, services.ErrDrawInProgress):
		return "in_progress"
	default:
		return "error"
	}
}

func writeError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
