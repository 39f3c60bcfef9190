package repository

import (
	"time"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/pkg/logger"
	"gorm.io/gorm"
)

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status model.OrderStatus
	From   time.Time
	To     time.Time
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindAll(filter OrderFilter) ([]model.Order, error)
	// FindOpenSubscriptions returns orders whose delivery window covers
	// the given day and which are not cancelled; the dashboard and the
	// manifest scheduler expand these into concrete delivery dates.
	FindOpenSubscriptions(day time.Time) ([]model.Order, error)
	Update(order *model.Order) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
		"item_count":   len(order.OrderItems),
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id": order.UserID,
		})
		return err
	}
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("OrderItems").
		Preload("OrderItems.Ingredients").
		Preload("User").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("user_id = ?", userID).
		Preload("OrderItems").
		Preload("OrderItems.Ingredients").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindAll(filter OrderFilter) ([]model.Order, error) {
	query := r.db.
		Preload("OrderItems").
		Preload("User")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at < ?", filter.To)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders in database", err, map[string]interface{}{
			"status": filter.Status,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindOpenSubscriptions(day time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.
		Where("status NOT IN ?", []model.OrderStatus{model.OrderStatusCancelled}).
		Where("delivery_start_date <= ?", day).
		Where("delivery_end_date IS NULL OR delivery_end_date >= ?", day).
		Preload("OrderItems").
		Preload("User").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find open subscriptions in database", err, map[string]interface{}{
			"day": day,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}
	return nil
}
