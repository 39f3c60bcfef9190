package service

import (
	"errors"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrLeadNotFound      = errors.New("lead not found")
	ErrInvalidLeadStatus = errors.New("invalid lead status")
)

var validLeadStatuses = map[model.LeadStatus]bool{
	model.LeadStatusNew:       true,
	model.LeadStatusContacted: true,
	model.LeadStatusConverted: true,
	model.LeadStatusClosed:    true,
}

type LeadInput struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

type LeadService interface {
	SubmitLead(input LeadInput) (*model.Lead, error)
	GetLeads(status model.LeadStatus) ([]model.Lead, error)
	UpdateLeadStatus(id uint, status model.LeadStatus) (*model.Lead, error)
}

type leadService struct {
	leadRepo repository.LeadRepository
}

func NewLeadService(leadRepo repository.LeadRepository) LeadService {
	return &leadService{leadRepo: leadRepo}
}

func (s *leadService) SubmitLead(input LeadInput) (*model.Lead, error) {
	lead := &model.Lead{
		Name:    input.Name,
		Phone:   input.Phone,
		Email:   input.Email,
		Message: input.Message,
		Source:  input.Source,
		Status:  model.LeadStatusNew,
	}
	if err := s.leadRepo.Create(lead); err != nil {
		return nil, err
	}

	logger.Info("Lead submitted", map[string]interface{}{
		"lead_id": lead.ID,
		"source":  lead.Source,
	})
	return lead, nil
}

func (s *leadService) GetLeads(status model.LeadStatus) ([]model.Lead, error) {
	return s.leadRepo.FindAll(status)
}

func (s *leadService) UpdateLeadStatus(id uint, status model.LeadStatus) (*model.Lead, error) {
	if !validLeadStatuses[status] {
		return nil, ErrInvalidLeadStatus
	}

	lead, err := s.leadRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	lead.Status = status
	if err := s.leadRepo.Update(lead); err != nil {
		return nil, err
	}
	return lead, nil
}
