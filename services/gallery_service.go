package services

import (
	"strings"

	"github.com/mirabelle-minis/commissions-api/models"
	"gorm.io/gorm"
)

// GalleryService owns the append-only progress photo collection of an order
type GalleryService struct {
	db *gorm.DB
}

// NewGalleryService creates a new gallery service
func NewGalleryService(db *gorm.DB) *GalleryService {
	return &GalleryService{db: db}
}

// AddImage appends a progress photo to an order's gallery
func (s *GalleryService) AddImage(orderID uint, imageKey, caption string) (*models.GalleryImage, error) {
	if strings.TrimSpace(imageKey) == "" {
		return nil, NewValidationError("MISSING_IMAGE", "image key is required")
	}
	if strings.TrimSpace(caption) == "" {
		return nil, NewValidationError("MISSING_CAPTION", "caption is required")
	}

	if _, err := findOrder(s.db, orderID); err != nil {
		return nil, err
	}

	image := models.GalleryImage{
		OrderID:  orderID,
		ImageKey: imageKey,
		Caption:  caption,
	}

	if err := s.db.Create(&image).Error; err != nil {
		return nil, err
	}

	return &image, nil
}

// ListImages returns an order's gallery in upload order
func (s *GalleryService) ListImages(orderID uint) ([]models.GalleryImage, error) {
	if _, err := findOrder(s.db, orderID); err != nil {
		return nil, err
	}

	var images []models.GalleryImage
	if err := s.db.Where("order_id = ?", orderID).Order("created_at ASC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}
