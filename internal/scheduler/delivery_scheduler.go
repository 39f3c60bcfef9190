package scheduler

import (
	"time"

	"github.com/freshplatter/platter-backend/internal/app/service"
	"github.com/freshplatter/platter-backend/internal/websocket"
	"github.com/freshplatter/platter-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DeliveryScheduler builds the day's delivery manifest every morning so
// the kitchen knows which subscriptions have a stop today.
type DeliveryScheduler struct {
	cron             *cron.Cron
	dashboardService service.DashboardService
	hub              *websocket.Hub
	spec             string
}

func NewDeliveryScheduler(dashboardService service.DashboardService, hub *websocket.Hub, spec string) *DeliveryScheduler {
	return &DeliveryScheduler{
		cron:             cron.New(),
		dashboardService: dashboardService,
		hub:              hub,
		spec:             spec,
	}
}

func (s *DeliveryScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.BuildManifest(time.Now())
	})
	if err != nil {
		logger.Error("Failed to add cron job for delivery manifest", err)
		return err
	}

	s.cron.Start()
	logger.Info("Delivery scheduler started", map[string]interface{}{
		"cron": s.spec,
	})
	return nil
}

// BuildManifest expands open subscriptions for the given day and logs
// the resulting stop list. Exposed separately so the admin API can
// trigger a rebuild on demand.
func (s *DeliveryScheduler) BuildManifest(day time.Time) {
	logger.Info("Building delivery manifest", map[string]interface{}{
		"day": day.Format("2006-01-02"),
	})

	stops, err := s.dashboardService.DeliveriesOn(day)
	if err != nil {
		logger.Error("Failed to build delivery manifest", err)
		return
	}

	for _, stop := range stops {
		logger.Info("Delivery stop", map[string]interface{}{
			"order_id": stop.OrderID,
			"user_id":  stop.UserID,
			"address":  stop.ShippingAddress,
			"items":    len(stop.Items),
		})
	}

	if s.hub != nil {
		s.hub.BroadcastJSON(map[string]interface{}{
			"type":  "delivery_manifest",
			"day":   day.Format("2006-01-02"),
			"stops": stops,
		})
	}

	logger.Info("Delivery manifest built", map[string]interface{}{
		"day":   day.Format("2006-01-02"),
		"stops": len(stops),
	})
}

func (s *DeliveryScheduler) Stop() {
	logger.Info("Stopping delivery scheduler...", nil)
	s.cron.Stop()
	logger.Info("Delivery scheduler stopped", nil)
}
