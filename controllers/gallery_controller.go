package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirabelle-minis/commissions-api/config"
	"github.com/mirabelle-minis/commissions-api/services"
)

// AddGalleryImageRequest represents the request body for adding a progress photo
type AddGalleryImageRequest struct {
	ImageKey string `json:"image_key" binding:"required"`
	Caption  string `json:"caption" binding:"required"`
}

// AddGalleryImage handles POST /api/v1/orders/:id/gallery (admins only)
func AddGalleryImage(c *gin.Context) {
	if requireAdmin(c) == nil {
		return
	}

	orderID := idParam(c, "id")
	if orderID == 0 {
		return
	}

	var req AddGalleryImageRequest
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

	svc := services.NewGalleryService(config.GetDB())
	image, err := svc.AddImage(orderID, req.ImageKey, req.Caption)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    image,
	})
}

// ListGalleryImages handles GET /api/v1/orders/:id/gallery
func ListGalleryImages(c *gin.Context) {
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

	svc := services.NewGalleryService(config.GetDB())
	images, err := svc.ListImages(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    images,
	})
}
