package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"GeoWatch/internal/dependencies"
	"GeoWatch/internal/models"
	"GeoWatch/internal/storage"
)

type Handlers struct {
	container *dependencies.Container
	logger    *slog.Logger
}

func NewHandlers(container *dependencies.Container) *Handlers {
	return &Handlers{
		container: container,
		logger:    slog.Default(),
	}
}

// создает успешный JSON ответ
func SuccessResponse(message string, data interface{}) gin.H {
	response := gin.H{
		"success":   true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	if data != nil {
		response["data"] = data
	}

	return response
}

// создает JSON ответ с ошибкой
func ErrorResponse(code string, message string) gin.H {
	return gin.H{
		"success":   false,
		"error":     code,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}
}

// GetPingLogs возвращает ping-журнал за диапазон, сгруппированный по странам
func (h *Handlers) GetPingLogs(c *gin.Context) {
	interval := storage.IntervalForRange(c.Query("timeRange"))
	domain := c.Query("domain")

	logs, err := h.container.PingStore.ListSince(c.Request.Context(), interval, domain)
	if err != nil {
		h.logger.Error("failed to list ping logs", "error", err, "interval", interval)
		c.JSON(http.StatusInternalServerError, ErrorResponse("query_failed", "Failed to query ping logs"))
		return
	}

	byCountry := make(map[string][]*models.PingLog)
	for _, row := range logs {
		byCountry[row.Country] = append(byCountry[row.Country], row)
	}

	c.JSON(http.StatusOK, byCountry)
}

// GetHTTPLogs возвращает http-журнал. С параметром domain строки группируются
// страна -> город, без него отдаются плоским списком.
func (h *Handlers) GetHTTPLogs(c *gin.Context) {
	interval := storage.IntervalForRange(c.Query("timeRange"))
	domain := c.Query("domain")

	logs, err := h.container.HTTPStore.ListSince(c.Request.Context(), interval, domain)
	if err != nil {
		h.logger.Error("failed to list http logs", "error", err, "interval", interval)
		c.JSON(http.StatusInternalServerError, ErrorResponse("query_failed", "Failed to query http logs"))
		return
	}

	if domain == "" {
		c.JSON(http.StatusOK, logs)
		return
	}

	byCountryCity := make(map[string]map[string][]*models.HTTPLog)
	for _, row := range logs {
		if byCountryCity[row.Country] == nil {
			byCountryCity[row.Country] = make(map[string][]*models.HTTPLog)
		}
		byCountryCity[row.Country][row.City] = append(byCountryCity[row.Country][row.City], row)
	}

	c.JSON(http.StatusOK, byCountryCity)
}

// GetLocations возвращает сконфигурированные группы локаций
func (h *Handlers) GetLocations(c *gin.Context) {
	groups := make(map[string][]models.Location, len(h.container.Config.Groups))
	for _, group := range h.container.Config.Groups {
		groups[group.Name] = group.Locations
	}

	c.JSON(http.StatusOK, groups)
}

// GetStatus возвращает снимок статусной полосы
func (h *Handlers) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse("status", gin.H{
		"locations": h.container.Tracker.Snapshot(),
	}))
}
