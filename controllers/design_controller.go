package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirabelle-minis/commissions-api/config"
	"github.com/mirabelle-minis/commissions-api/models"
	"github.com/mirabelle-minis/commissions-api/services"
)

// UploadDesignRequest represents the request body for uploading a design version
type UploadDesignRequest struct {
	ImageKeys []string `json:"image_keys" binding:"required"`
	Notes     string   `json:"notes"`
}

// UploadDesign handles POST /api/v1/orders/:id/designs (admins only)
func UploadDesign(c *gin.Context) {
	if requireAdmin(c) == nil {
		return
	}

	orderID := idParam(c, "id")
	if orderID == 0 {
		return
	}

	var req UploadDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	svc := services.NewDesignService(config.GetDB())
	design, err := svc.UploadDesign(orderID, req.ImageKeys, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    design,
	})
}

// ListDesigns handles GET /api/v1/orders/:id/designs
func ListDesigns(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	orderID := idParam(c, "id")
	if orderID == 0 {
		return
	}

	orderSvc := services.NewOrderService(config.GetDB())
	order, err := orderSvc.GetOrder(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !canAccessOrder(user, order) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to view this order",
			},
		})
		return
	}

	svc := services.NewDesignService(config.GetDB())
	designs, err := svc.ListDesigns(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    designs,
	})
}

// DesignFeedbackRequest represents the customer's verdict on a design version
type DesignFeedbackRequest struct {
	Status   string `json:"status" binding:"required"` // approved or changes_requested
	Feedback string `json:"feedback"`
}

// SubmitDesignFeedback handles POST /api/v1/designs/:id/feedback (order owner only)
func SubmitDesignFeedback(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	designID := idParam(c, "id")
	if designID == 0 {
		return
	}

	db := config.GetDB()
	var design models.DesignVersion
	if err := db.First(&design, designID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Design version not found",
			},
		})
		return
	}

	orderSvc := services.NewOrderService(db)
	order, err := orderSvc.GetOrder(design.OrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if order.CustomerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to review this design",
			},
		})
		return
	}

	var req DesignFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	svc := services.NewDesignService(db)
	updated, err := svc.SubmitFeedback(designID, models.DesignStatus(req.Status), req.Feedback)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}
