package service

import (
	"context"
	"fmt"
	"time"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/pkg/logger"
	"github.com/freshplatter/platter-backend/pkg/plan"
	"github.com/freshplatter/platter-backend/pkg/redis"
	"github.com/freshplatter/platter-backend/pkg/schedule"
)

const dashboardCacheTTL = 60 * time.Second

// DashboardSummary aggregates order activity for the admin overview.
type DashboardSummary struct {
	From            time.Time                 `json:"from"`
	To              time.Time                 `json:"to"`
	OrderCount      int                       `json:"order_count"`
	Revenue         float64                   `json:"revenue"`
	OrdersByStatus  map[model.OrderStatus]int `json:"orders_by_status"`
	DeliveriesToday int                       `json:"deliveries_today"`
	NewLeads        int                       `json:"new_leads"`
}

// DeliveryStop is a single order due for delivery on a given day.
type DeliveryStop struct {
	OrderID         uint              `json:"order_id"`
	UserID          uint              `json:"user_id"`
	ShippingAddress string            `json:"shipping_address"`
	Items           []StopItem        `json:"items"`
	Status          model.OrderStatus `json:"status"`
}

type StopItem struct {
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	SelectedPlan plan.Code `json:"selected_plan"`
}

type DashboardService interface {
	Summary(ctx context.Context, from, to time.Time) (*DashboardSummary, error)
	DeliveriesOn(day time.Time) ([]DeliveryStop, error)
}

type dashboardService struct {
	orderRepo repository.OrderRepository
	leadRepo  repository.LeadRepository
}

func NewDashboardService(orderRepo repository.OrderRepository, leadRepo repository.LeadRepository) DashboardService {
	return &dashboardService{
		orderRepo: orderRepo,
		leadRepo:  leadRepo,
	}
}

func (s *dashboardService) Summary(ctx context.Context, from, to time.Time) (*DashboardSummary, error) {
	cacheKey := fmt.Sprintf("dashboard:summary:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))

	var cached DashboardSummary
	if redis.GetJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	orders, err := s.orderRepo.FindAll(repository.OrderFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		From:           from,
		To:             to,
		OrdersByStatus: make(map[model.OrderStatus]int),
	}
	for _, order := range orders {
		summary.OrderCount++
		summary.OrdersByStatus[order.Status]++
		if order.Status != model.OrderStatusCancelled {
			summary.Revenue += order.TotalAmount
		}
	}

	stops, err := s.DeliveriesOn(time.Now())
	if err != nil {
		return nil, err
	}
	summary.DeliveriesToday = len(stops)

	leads, err := s.leadRepo.FindAll(model.LeadStatusNew)
	if err != nil {
		return nil, err
	}
	summary.NewLeads = len(leads)

	if err := redis.CacheJSON(ctx, cacheKey, summary, dashboardCacheTTL); err != nil {
		logger.Warn("Failed to cache dashboard summary", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return summary, nil
}

// DeliveriesOn expands every open subscription into its delivery dates
// and keeps the orders that have a stop on the given day. Order items on
// pack codes without a weekday table are skipped rather than failing the
// whole manifest.
func (s *dashboardService) DeliveriesOn(day time.Time) ([]DeliveryStop, error) {
	day = schedule.Day(day)

	orders, err := s.orderRepo.FindOpenSubscriptions(day)
	if err != nil {
		return nil, err
	}

	stops := make([]DeliveryStop, 0)
	for _, order := range orders {
		end := day
		if order.DeliveryEndDate != nil {
			end = *order.DeliveryEndDate
		}

		var items []StopItem
		for _, item := range order.OrderItems {
			dates, err := schedule.ExpandDates(item.SelectedPlan, order.DeliveryStartDate, end)
			if err != nil {
				logger.Warn("Skipping unschedulable order item", map[string]interface{}{
					"order_id": order.ID,
					"plan":     item.SelectedPlan,
				})
				continue
			}
			for _, d := range dates {
				if d.Equal(day) {
					items = append(items, StopItem{
						Name:         item.Name,
						Quantity:     item.Quantity,
						SelectedPlan: item.SelectedPlan,
					})
					break
				}
			}
		}
		if len(items) == 0 {
			continue
		}

		stops = append(stops, DeliveryStop{
			OrderID:         order.ID,
			UserID:          order.UserID,
			ShippingAddress: order.ShippingAddress,
			Items:           items,
			Status:          order.Status,
		})
	}
	return stops, nil
}
