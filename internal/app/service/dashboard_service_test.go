package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/internal/db"
	"github.com/freshplatter/platter-backend/pkg/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDashboardServiceTest(t *testing.T) (DashboardService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	leadRepo := repository.NewLeadRepository(testDB)
	return NewDashboardService(orderRepo, leadRepo), testDB
}

var seedSubscriptionSeq atomic.Uint64

func seedSubscription(t *testing.T, testDB *gorm.DB, code plan.Code, start, end time.Time, status model.OrderStatus) *model.Order {
	t.Helper()

	user := &model.User{Email: fmt.Sprintf("%s%s-%d@example.com", code, start.Format("0102"), seedSubscriptionSeq.Add(1)), PasswordHash: "hash", Name: "Subscriber", Role: model.RoleUser}
	require.NoError(t, testDB.Create(user).Error)

	order := &model.Order{
		UserID:            user.ID,
		BookingDate:       start,
		DeliveryStartDate: start,
		DeliveryEndDate:   &end,
		TotalAmount:       200,
		Status:            status,
		ShippingAddress:   "5 Orchard Road",
		OrderItems: []model.OrderItem{
			{Name: "Meal Box", Quantity: 1, Price: 200, SelectedPlan: code},
		},
	}
	require.NoError(t, testDB.Create(order).Error)
	return order
}

func TestDashboardService_DeliveriesOn(t *testing.T) {
	svc, testDB := setupDashboardServiceTest(t)

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // Monday
	end := start.AddDate(0, 0, 13)

	seedSubscription(t, testDB, plan.Weekly3MWF, start, end, model.OrderStatusPaymentSuccess)
	seedSubscription(t, testDB, plan.Weekly3TTS, start, end, model.OrderStatusPaymentSuccess)

	// Monday: only the Mon/Wed/Fri subscription delivers.
	stops, err := svc.DeliveriesOn(start)
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, plan.Weekly3MWF, stops[0].Items[0].SelectedPlan)

	// Tuesday: only the Tue/Thu/Sat subscription.
	stops, err = svc.DeliveriesOn(start.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, plan.Weekly3TTS, stops[0].Items[0].SelectedPlan)

	// Sunday: nothing delivers.
	stops, err = svc.DeliveriesOn(start.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Len(t, stops, 0)
}

func TestDashboardService_DeliveriesOn_SkipsCancelledAndOutOfWindow(t *testing.T) {
	svc, testDB := setupDashboardServiceTest(t)

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 13)

	seedSubscription(t, testDB, plan.Weekly6, start, end, model.OrderStatusCancelled)

	stops, err := svc.DeliveriesOn(start)
	require.NoError(t, err)
	assert.Len(t, stops, 0)

	// A live subscription whose window has already closed.
	seedSubscription(t, testDB, plan.Weekly6, start, end, model.OrderStatusPaymentSuccess)
	stops, err = svc.DeliveriesOn(end.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Len(t, stops, 0)
}

func TestDashboardService_DeliveriesOn_SkipsLegacyPackItems(t *testing.T) {
	svc, testDB := setupDashboardServiceTest(t)

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 13)

	// Legacy pack codes have no weekday table; the stop is dropped
	// instead of erroring out the manifest.
	seedSubscription(t, testDB, plan.ThreeDays, start, end, model.OrderStatusPaymentSuccess)

	stops, err := svc.DeliveriesOn(start)
	require.NoError(t, err)
	assert.Len(t, stops, 0)
}

func TestDashboardService_Summary(t *testing.T) {
	svc, testDB := setupDashboardServiceTest(t)

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 13)

	seedSubscription(t, testDB, plan.Weekly3MWF, start, end, model.OrderStatusPaymentSuccess)
	seedSubscription(t, testDB, plan.Weekly6, start, end, model.OrderStatusCancelled)

	require.NoError(t, testDB.Create(&model.Lead{Name: "Jo", Phone: "010", Status: model.LeadStatusNew}).Error)

	summary, err := svc.Summary(context.Background(), start, start.AddDate(0, 0, 30))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.OrderCount)
	// Cancelled orders do not count toward revenue.
	assert.Equal(t, 200.0, summary.Revenue)
	assert.Equal(t, 1, summary.OrdersByStatus[model.OrderStatusPaymentSuccess])
	assert.Equal(t, 1, summary.OrdersByStatus[model.OrderStatusCancelled])
	assert.Equal(t, 1, summary.NewLeads)
}
