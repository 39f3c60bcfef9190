package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/service"
	"github.com/freshplatter/platter-backend/internal/errors"
	"github.com/freshplatter/platter-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type LeadController struct {
	leadService service.LeadService
}

func NewLeadController(leadService service.LeadService) *LeadController {
	return &LeadController{
		leadService: leadService,
	}
}

type UpdateLeadStatusRequest struct {
	Status model.LeadStatus `json:"status" binding:"required"`
}

// SubmitLead records a contact-form enquiry; no login required
// POST /api/v1/leads
func (ctrl *LeadController) SubmitLead(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.LeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return
	}

	lead, err := ctrl.leadService.SubmitLead(input)
	if err != nil {
		log.Error("Failed to submit lead", err, nil)
		errors.InternalError(c, "Failed to submit enquiry")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"lead": lead,
	})
}

// ListLeads returns enquiries, optionally filtered by status (admin)
// GET /api/v1/admin/leads?status=new
func (ctrl *LeadController) ListLeads(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	leads, err := ctrl.leadService.GetLeads(model.LeadStatus(c.Query("status")))
	if err != nil {
		log.Error("Failed to list leads", err, nil)
		errors.InternalError(c, "Failed to fetch leads")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leads": leads,
		"count": len(leads),
	})
}

// UpdateLeadStatus moves an enquiry through the funnel (admin)
// PUT /api/v1/admin/leads/:id/status
func (ctrl *LeadController) UpdateLeadStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid lead ID")
		return
	}

	var req UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return
	}

	lead, err := ctrl.leadService.UpdateLeadStatus(id, req.Status)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrLeadNotFound):
			errors.NotFound(c, errors.LeadNotFound, "Lead not found")
		case stderrors.Is(err, service.ErrInvalidLeadStatus):
			errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid lead status")
		default:
			log.Error("Failed to update lead status", err, map[string]interface{}{
				"lead_id": id,
			})
			errors.InternalError(c, "Failed to update lead")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lead": lead,
	})
}
