package service

import (
	"errors"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrBannerNotFound = errors.New("banner not found")

type BannerInput struct {
	Title    string `json:"title" binding:"required"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"image_url" binding:"required"`
	LinkURL  string `json:"link_url"`
	Position int    `json:"position"`
	IsActive *bool  `json:"is_active"`
}

type BannerService interface {
	GetActiveBanners() ([]model.Banner, error)
	GetAllBanners() ([]model.Banner, error)
	CreateBanner(input BannerInput) (*model.Banner, error)
	UpdateBanner(id uint, input BannerInput) (*model.Banner, error)
	DeleteBanner(id uint) error
}

type bannerService struct {
	bannerRepo repository.BannerRepository
}

func NewBannerService(bannerRepo repository.BannerRepository) BannerService {
	return &bannerService{bannerRepo: bannerRepo}
}

func (s *bannerService) GetActiveBanners() ([]model.Banner, error) {
	return s.bannerRepo.FindActive()
}

func (s *bannerService) GetAllBanners() ([]model.Banner, error) {
	return s.bannerRepo.FindAll()
}

func (s *bannerService) CreateBanner(input BannerInput) (*model.Banner, error) {
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	banner := &model.Banner{
		Title:    input.Title,
		Subtitle: input.Subtitle,
		ImageURL: input.ImageURL,
		LinkURL:  input.LinkURL,
		Position: input.Position,
		IsActive: active,
	}
	if err := s.bannerRepo.Create(banner); err != nil {
		return nil, err
	}

	logger.Info("Banner created", map[string]interface{}{
		"banner_id": banner.ID,
	})
	return banner, nil
}

func (s *bannerService) UpdateBanner(id uint, input BannerInput) (*model.Banner, error) {
	banner, err := s.bannerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBannerNotFound
		}
		return nil, err
	}

	banner.Title = input.Title
	banner.Subtitle = input.Subtitle
	banner.ImageURL = input.ImageURL
	banner.LinkURL = input.LinkURL
	banner.Position = input.Position
	if input.IsActive != nil {
		banner.IsActive = *input.IsActive
	}

	if err := s.bannerRepo.Update(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

func (s *bannerService) DeleteBanner(id uint) error {
	if _, err := s.bannerRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBannerNotFound
		}
		return err
	}
	return s.bannerRepo.Delete(id)
}
