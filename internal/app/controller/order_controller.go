package controller

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/internal/app/service"
	"github.com/freshplatter/platter-backend/internal/errors"
	"github.com/freshplatter/platter-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CheckoutRequest struct {
	BookingDate       *time.Time `json:"booking_date"`
	DeliveryStartDate time.Time  `json:"delivery_start_date" binding:"required"`
	DeliveryEndDate   *time.Time `json:"delivery_end_date"`
	PaymentMethod     string     `json:"payment_method" binding:"required"`
	ShippingAddress   string     `json:"shipping_address" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// CreateOrder snapshots the cart into an order
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return
	}

	input := service.CheckoutInput{
		DeliveryStartDate: req.DeliveryStartDate,
		DeliveryEndDate:   req.DeliveryEndDate,
		PaymentMethod:     req.PaymentMethod,
		ShippingAddress:   req.ShippingAddress,
	}
	if req.BookingDate != nil {
		input.BookingDate = *req.BookingDate
	}

	order, err := ctrl.orderService.CreateOrderFromCart(userID, input)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrEmptyCart):
			errors.BadRequest(c, errors.CartEmpty, "Cart is empty")
		case stderrors.Is(err, service.ErrInvalidDeliveryWindow):
			errors.BadRequest(c, errors.PlanWindowInvalid, "Invalid delivery window")
		default:
			log.Error("Failed to create order", err, map[string]interface{}{
				"user_id": userID,
			})
			errors.InternalError(c, "Failed to create order")
		}
		return
	}

	log.Info("Order created", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      userID,
		"total_amount": order.TotalAmount,
	})

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// GetMyOrders returns the authenticated user's orders
// GET /api/v1/orders/my-orders
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one of the user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, id)
	if err != nil {
		if stderrors.Is(err, service.ErrOrderNotFound) {
			errors.NotFound(c, errors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": id,
		})
		errors.InternalError(c, "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// ListOrders returns all orders, filterable by status and window (admin)
// GET /api/v1/admin/orders?status=pending&from=2025-01-01&to=2025-01-31
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter, err := orderFilterFromQuery(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid date filter, expected YYYY-MM-DD")
		return
	}

	orders, err := ctrl.orderService.ListOrders(filter)
	if err != nil {
		log.Error("Failed to list orders", err, nil)
		errors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// UpdateOrderStatus moves an order through its lifecycle (admin)
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return
	}

	if err := ctrl.orderService.UpdateOrderStatus(id, req.Status); err != nil {
		switch {
		case stderrors.Is(err, service.ErrOrderNotFound):
			errors.NotFound(c, errors.OrderNotFound, "Order not found")
		case stderrors.Is(err, service.ErrInvalidOrderStatus):
			errors.BadRequest(c, errors.OrderInvalidStatus, "Invalid order status")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": id,
				"status":   req.Status,
			})
			errors.InternalError(c, "Failed to update order status")
		}
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": id,
		"status":   req.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
	})
}

// ExportOrders streams the filtered order list as an xlsx workbook (admin)
// GET /api/v1/admin/orders/export
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter, err := orderFilterFromQuery(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid date filter, expected YYYY-MM-DD")
		return
	}

	orders, err := ctrl.orderService.ListOrders(filter)
	if err != nil {
		log.Error("Failed to list orders for export", err, nil)
		errors.InternalError(c, "Failed to export orders")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Order ID", "User ID", "Booking Date", "Delivery Start", "Delivery End", "Status", "Payment", "Total", "Address", "Items"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, order := range orders {
		endDate := ""
		if order.DeliveryEndDate != nil {
			endDate = order.DeliveryEndDate.Format("2006-01-02")
		}
		itemSummary := ""
		for i, item := range order.OrderItems {
			if i > 0 {
				itemSummary += ", "
			}
			itemSummary += fmt.Sprintf("%s x%d (%s)", item.Name, item.Quantity, item.SelectedPlan)
		}

		values := []interface{}{
			order.ID,
			order.UserID,
			order.BookingDate.Format("2006-01-02"),
			order.DeliveryStartDate.Format("2006-01-02"),
			endDate,
			string(order.Status),
			order.PaymentMethod,
			order.TotalAmount,
			order.ShippingAddress,
			itemSummary,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to write xlsx export", err, nil)
	}

	log.Info("Orders exported", map[string]interface{}{
		"count": len(orders),
	})
}

func orderFilterFromQuery(c *gin.Context) (repository.OrderFilter, error) {
	filter := repository.OrderFilter{
		Status: model.OrderStatus(c.Query("status")),
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, err
		}
		filter.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, err
		}
		filter.To = t
	}
	return filter, nil
}
