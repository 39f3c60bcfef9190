package repository

import (
	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/pkg/logger"
	"gorm.io/gorm"
)

type LeadRepository interface {
	Create(lead *model.Lead) error
	FindAll(status model.LeadStatus) ([]model.Lead, error)
	FindByID(id uint) (*model.Lead, error)
	Update(lead *model.Lead) error
	Delete(id uint) error
}

type leadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(lead *model.Lead) error {
	logger.Debug("Creating lead in database", map[string]interface{}{
		"name":   lead.Name,
		"source": lead.Source,
	})

	if err := r.db.Create(lead).Error; err != nil {
		logger.Error("Failed to create lead in database", err, map[string]interface{}{
			"name": lead.Name,
		})
		return err
	}
	return nil
}

func (r *leadRepository) FindAll(status model.LeadStatus) ([]model.Lead, error) {
	query := r.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var leads []model.Lead
	if err := query.Find(&leads).Error; err != nil {
		logger.Error("Failed to find leads in database", err)
		return nil, err
	}
	return leads, nil
}

func (r *leadRepository) FindByID(id uint) (*model.Lead, error) {
	var lead model.Lead
	if err := r.db.First(&lead, id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) Update(lead *model.Lead) error {
	if err := r.db.Save(lead).Error; err != nil {
		logger.Error("Failed to update lead in database", err, map[string]interface{}{
			"lead_id": lead.ID,
		})
		return err
	}
	return nil
}

func (r *leadRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Lead{}, id).Error; err != nil {
		logger.Error("Failed to delete lead from database", err, map[string]interface{}{
			"lead_id": id,
		})
		return err
	}
	return nil
}
