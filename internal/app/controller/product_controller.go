package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/internal/app/service"
	"github.com/freshplatter/platter-backend/internal/errors"
	"github.com/freshplatter/platter-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ListProducts returns the catalog, optionally filtered by category
// GET /api/v1/products?category=salads
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		Category:      model.ProductCategory(c.Query("category")),
		OnlyAvailable: c.Query("include_unavailable") != "true",
	}

	products, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err, map[string]interface{}{
			"category": filter.Category,
		})
		errors.InternalError(c, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns one product with its plan prices and ingredients
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		errors.InternalError(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// CreateProduct adds a catalog entry (admin)
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return
	}

	product, err := ctrl.productService.CreateProduct(input)
	if err != nil {
		if stderrors.Is(err, service.ErrInvalidPlanPrice) {
			errors.BadRequest(c, errors.PlanPriceUnresolved, "Invalid plan prices")
			return
		}
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": input.Name,
		})
		errors.InternalError(c, "Failed to create product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct edits a catalog entry (admin)
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid product ID")
		return
	}

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, input)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrProductNotFound):
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
		case stderrors.Is(err, service.ErrInvalidPlanPrice):
			errors.BadRequest(c, errors.PlanPriceUnresolved, "Invalid plan prices")
		default:
			log.Error("Failed to update product", err, map[string]interface{}{
				"product_id": id,
			})
			errors.InternalError(c, "Failed to update product")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct removes a catalog entry (admin)
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid product ID")
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		errors.InternalError(c, "Failed to delete product")
		return
	}

	log.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted",
	})
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
