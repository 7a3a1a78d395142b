package services

import (
	"testing"

	"github.com/mirabelle-minis/commissions-api/models"
	"github.com/stretchr/testify/assert"
)

func TestUploadDesign(t *testing.T) {
	db := setupServiceTestDB(t)
	customer := seedCustomer(t, db)
	order := seedOrder(t, db, customer.ID, models.StageInProduction)
	svc := NewDesignService(db)

	first, err := svc.UploadDesign(order.ID, []string{"designs/v1-front.png", "designs/v1-side.png"}, "First pass at the paint scheme")
	assert.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, models.DesignSubmitted, first.Status)
	assert.Len(t, first.ImageKeys, 2)

	// Versions are monotonic per order
	second, err := svc.UploadDesign(order.ID, []string{"designs/v2-front.png"}, "Darker hull per feedback")
	assert.NoError(t, err)
	assert.Equal(t, 2, second.Version)
}

func TestUploadDesignRequiresImages(t *testing.T) {
	db := setupServiceTestDB(t)
	customer := seedCustomer(t, db)
	order := seedOrder(t, db, customer.ID, models.StageInProduction)
	svc := NewDesignService(db)

	_, err := svc.UploadDesign(order.ID, nil, "No images attached")

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "NO_IMAGES", vErr.Code)
}

func TestUploadDesignTerminalOrder(t *testing.T) {
	db := setupServiceTestDB(t)
	customer := seedCustomer(t, db)
	order := seedOrder(t, db, customer.ID, models.StageCancelled)
	svc := NewDesignService(db)

	_, err := svc.UploadDesign(order.ID, []string{"designs/v1.png"}, "")

	var conflict *StateConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, "ORDER_TERMINAL", conflict.Code)
}

func TestListDesigns(t *testing.T) {
	db := setupServiceTestDB(t)
	customer := seedCustomer(t, db)
	order := seedOrder(t, db, customer.ID, models.StageInProduction)
	svc := NewDesignService(db)

	for _, notes := range []string{"v1", "v2", "v3"} {
		_, err := svc.UploadDesign(order.ID, []string{"designs/" + notes + ".png"}, notes)
		assert.NoError(t, err)
	}

	designs, err := svc.ListDesigns(order.ID)
	assert.NoError(t, err)
	if assert.Len(t, designs, 3) {
		// Latest version first
		assert.Equal(t, 3, designs[0].Version)
		assert.Equal(t, 1, designs[2].Version)
	}
}

func TestSubmitFeedback(t *testing.T) {
	db := setupServiceTestDB(t)
	customer := seedCustomer(t, db)
	order := seedOrder(t, db, customer.ID, models.StageInProduction)
	svc := NewDesignService(db)

	design, err := svc.UploadDesign(order.ID, []string{"designs/v1.png"}, "")
	assert.NoError(t, err)

	updated, err := svc.SubmitFeedback(design.ID, models.DesignChangesRequested, "The decals look too clean")
	assert.NoError(t, err)
	assert.Equal(t, models.DesignChangesRequested, updated.Status)
	assert.Equal(t, "The decals look too clean", *updated.Feedback)
}

func TestSubmitFeedbackInvalidStatus(t *testing.T) {
	db := setupServiceTestDB(t)
	customer := seedCustomer(t, db)
	order := seedOrder(t, db, customer.ID, models.StageInProduction)
	svc := NewDesignService(db)

	design, err := svc.UploadDesign(order.ID, []string{"designs/v1.png"}, "")
	assert.NoError(t, err)

	// The customer cannot push a design back to submitted
	_, err = svc.SubmitFeedback(design.ID, models.DesignSubmitted, "")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "INVALID_DESIGN_STATUS", vErr.Code)
}

func TestSubmitFeedbackTwice(t *testing.T) {
	db := setupServiceTestDB(t)
	customer := seedCustomer(t, db)
	order := seedOrder(t, db, customer.ID, models.StageInProduction)
	svc := NewDesignService(db)

	design, err := svc.UploadDesign(order.ID, []string{"designs/v1.png"}, "")
	assert.NoError(t, err)

	_, err = svc.SubmitFeedback(design.ID, models.DesignApproved, "")
	assert.NoError(t, err)

	_, err = svc.SubmitFeedback(design.ID, models.DesignChangesRequested, "Changed my mind")
	var conflict *StateConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, "DESIGN_ALREADY_REVIEWED", conflict.Code)
}
