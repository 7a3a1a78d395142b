package services

import (
	"errors"

	"github.com/mirabelle-minis/commissions-api/models"
	"gorm.io/gorm"
)

// DesignService owns design version uploads and customer feedback. Designs
// never gate the order stage.
type DesignService struct {
	db *gorm.DB
}

// NewDesignService creates a new design service
func NewDesignService(db *gorm.DB) *DesignService {
	return &DesignService{db: db}
}

// UploadDesign appends a new design version for an order. The version is
// one above the current maximum for the order.
func (s *DesignService) UploadDesign(orderID uint, imageKeys []string, notes string) (*models.DesignVersion, error) {
	if len(imageKeys) == 0 {
		return nil, NewValidationError("NO_IMAGES", "design version needs at least one image")
	}

	var design *models.DesignVersion
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, txErr := findOrder(tx, orderID)
		if txErr != nil {
			return txErr
		}
		if order.Stage.IsTerminal() {
			return NewStateConflictError("ORDER_TERMINAL", string(order.Stage), "any non-terminal stage")
		}

		var maxVersion int
		if txErr := tx.Model(&models.DesignVersion{}).
			Where("order_id = ?", orderID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; txErr != nil {
			return txErr
		}

		d := models.DesignVersion{
			OrderID:   orderID,
			Version:   maxVersion + 1,
			ImageKeys: imageKeys,
			Notes:     notes,
			Status:    models.DesignSubmitted,
		}

		if txErr := tx.Create(&d).Error; txErr != nil {
			return txErr
		}

		design = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return design, nil
}

// ListDesigns returns the design history for an order, latest version first
func (s *DesignService) ListDesigns(orderID uint) ([]models.DesignVersion, error) {
	var designs []models.DesignVersion
	if err := s.db.Where("order_id = ?", orderID).Order("version DESC").Find(&designs).Error; err != nil {
		return nil, err
	}
	return designs, nil
}

// SubmitFeedback records the customer's verdict on a submitted design
// version: approved or changes_requested, with optional feedback text.
func (s *DesignService) SubmitFeedback(designID uint, status models.DesignStatus, feedback string) (*models.DesignVersion, error) {
	if status != models.DesignApproved && status != models.DesignChangesRequested {
		return nil, NewValidationError("INVALID_DESIGN_STATUS",
			"design feedback status must be %q or %q", models.DesignApproved, models.DesignChangesRequested)
	}

	var design *models.DesignVersion
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var d models.DesignVersion
		if txErr := tx.First(&d, designID).Error; txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return NewNotFoundError("design version", designID)
			}
			return txErr
		}

		if d.Status != models.DesignSubmitted {
			return NewStateConflictError("DESIGN_ALREADY_REVIEWED", string(d.Status), string(models.DesignSubmitted))
		}

		updates := map[string]interface{}{"status": status}
		if feedback != "" {
			updates["feedback"] = feedback
		}

		if txErr := tx.Model(&d).Updates(updates).Error; txErr != nil {
			return txErr
		}

		d.Status = status
		if feedback != "" {
			d.Feedback = &feedback
		}
		design = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return design, nil
}
