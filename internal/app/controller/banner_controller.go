package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/freshplatter/platter-backend/internal/app/service"
	"github.com/freshplatter/platter-backend/internal/errors"
	"github.com/freshplatter/platter-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type BannerController struct {
	bannerService service.BannerService
}

func NewBannerController(bannerService service.BannerService) *BannerController {
	return &BannerController{
		bannerService: bannerService,
	}
}

// GetBanners returns active banners for the storefront home page
// GET /api/v1/banners
func (ctrl *BannerController) GetBanners(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	banners, err := ctrl.bannerService.GetActiveBanners()
	if err != nil {
		log.Error("Failed to fetch banners", err, nil)
		errors.InternalError(c, "Failed to fetch banners")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"banners": banners,
	})
}

// ListBanners returns all banners including inactive ones (admin)
// GET /api/v1/admin/banners
func (ctrl *BannerController) ListBanners(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	banners, err := ctrl.bannerService.GetAllBanners()
	if err != nil {
		log.Error("Failed to list banners", err, nil)
		errors.InternalError(c, "Failed to fetch banners")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"banners": banners,
	})
}

// CreateBanner adds a banner (admin)
// POST /api/v1/admin/banners
func (ctrl *BannerController) CreateBanner(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.BannerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return
	}

	banner, err := ctrl.bannerService.CreateBanner(input)
	if err != nil {
		log.Error("Failed to create banner", err, nil)
		errors.InternalError(c, "Failed to create banner")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"banner": banner,
	})
}

// UpdateBanner edits a banner (admin)
// PUT /api/v1/admin/banners/:id
func (ctrl *BannerController) UpdateBanner(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid banner ID")
		return
	}

	var input service.BannerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return
	}

	banner, err := ctrl.bannerService.UpdateBanner(id, input)
	if err != nil {
		if stderrors.Is(err, service.ErrBannerNotFound) {
			errors.NotFound(c, errors.BannerNotFound, "Banner not found")
			return
		}
		log.Error("Failed to update banner", err, map[string]interface{}{
			"banner_id": id,
		})
		errors.InternalError(c, "Failed to update banner")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"banner": banner,
	})
}

// DeleteBanner removes a banner (admin)
// DELETE /api/v1/admin/banners/:id
func (ctrl *BannerController) DeleteBanner(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid banner ID")
		return
	}

	if err := ctrl.bannerService.DeleteBanner(id); err != nil {
		if stderrors.Is(err, service.ErrBannerNotFound) {
			errors.NotFound(c, errors.BannerNotFound, "Banner not found")
			return
		}
		log.Error("Failed to delete banner", err, map[string]interface{}{
			"banner_id": id,
		})
		errors.InternalError(c, "Failed to delete banner")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Banner deleted",
	})
}
