package controller

import (
	"net/http"
	"time"

	"github.com/freshplatter/platter-backend/internal/app/service"
	"github.com/freshplatter/platter-backend/internal/errors"
	"github.com/freshplatter/platter-backend/internal/middleware"
	"github.com/freshplatter/platter-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The feed is admin-only and token-gated; origin checks are
		// handled by the CORS layer on the rest of the API.
		return true
	},
}

type DashboardController struct {
	dashboardService service.DashboardService
	hub              *websocket.Hub
}

func NewDashboardController(dashboardService service.DashboardService, hub *websocket.Hub) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		hub:              hub,
	}
}

// GetSummary returns aggregate order metrics for a window (admin)
// GET /api/v1/admin/dashboard?from=2025-01-01&to=2025-01-31
func (ctrl *DashboardController) GetSummary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now

	if q := c.Query("from"); q != "" {
		t, err := time.Parse("2006-01-02", q)
		if err != nil {
			errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		from = t
	}
	if q := c.Query("to"); q != "" {
		t, err := time.Parse("2006-01-02", q)
		if err != nil {
			errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		to = t
	}

	summary, err := ctrl.dashboardService.Summary(c.Request.Context(), from, to)
	if err != nil {
		log.Error("Failed to build dashboard summary", err, nil)
		errors.InternalError(c, "Failed to build dashboard summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
	})
}

// GetDeliveries returns the delivery manifest for a day (admin)
// GET /api/v1/admin/dashboard/deliveries?date=2025-01-06
func (ctrl *DashboardController) GetDeliveries(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	day := time.Now()
	if q := c.Query("date"); q != "" {
		t, err := time.Parse("2006-01-02", q)
		if err != nil {
			errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = t
	}

	stops, err := ctrl.dashboardService.DeliveriesOn(day)
	if err != nil {
		log.Error("Failed to build delivery manifest", err, map[string]interface{}{
			"day": day.Format("2006-01-02"),
		})
		errors.InternalError(c, "Failed to build delivery manifest")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  day.Format("2006-01-02"),
		"stops": stops,
		"count": len(stops),
	})
}

// OrderFeed upgrades to a WebSocket pushing live order events (admin)
// GET /api/v1/admin/dashboard/feed?token=...
func (ctrl *DashboardController) OrderFeed(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &websocket.Client{
		Hub:    ctrl.hub,
		Conn:   &websocket.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 256),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
