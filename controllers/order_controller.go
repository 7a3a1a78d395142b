package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirabelle-minis/commissions-api/config"
	"github.com/mirabelle-minis/commissions-api/models"
	"github.com/mirabelle-minis/commissions-api/services"
)

// CreateEnquiryRequest represents the request body for submitting an enquiry
type CreateEnquiryRequest struct {
	ModelName          string   `json:"model_name" binding:"required"`
	Scale              string   `json:"scale"`
	BudgetRange        string   `json:"budget_range"`
	Description        string   `json:"description"`
	ReferenceImageKeys []string `json:"reference_image_keys"`
}

// CreateEnquiry handles POST /api/v1/enquiries - submits a new commission
// enquiry (customers only)
func CreateEnquiry(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	if user.Role != "customer" {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only customers can submit enquiries",
			},
		})
		return
	}

	var req CreateEnquiryRequest
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

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.CreateEnquiry(user.ID, services.EnquiryInput{
		ModelName:          req.ModelName,
		Scale:              req.Scale,
		BudgetRange:        req.BudgetRange,
		Description:        req.Description,
		ReferenceImageKeys: req.ReferenceImageKeys,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - customers see their own orders,
// admins see all. An optional ?stage= filter narrows the list.
func ListOrders(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	stage := models.Stage(c.Query("stage"))
	if stage != "" && !stage.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STAGE",
				"message": "Unknown stage filter",
			},
		})
		return
	}

	customerID := user.ID
	if user.IsAdmin() {
		customerID = 0
	}

	svc := services.NewOrderService(config.GetDB())
	orders, err := svc.ListOrders(customerID, stage)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id - returns an order with its legal
// actions and progress position
func GetOrder(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	orderID := idParam(c, "id")
	if orderID == 0 {
		return
	}

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.GetOrder(orderID)
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

	actions, err := svc.AvailableActions(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":   order,
			"actions": actions,
		},
	})
}

// StartReview handles POST /api/v1/orders/:id/review - moves a new enquiry
// into review (admins only)
func StartReview(c *gin.Context) {
	if requireAdmin(c) == nil {
		return
	}

	orderID := idParam(c, "id")
	if orderID == 0 {
		return
	}

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.StartReview(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// MarkReadyToShip handles POST /api/v1/orders/:id/ready (admins only)
func MarkReadyToShip(c *gin.Context) {
	if requireAdmin(c) == nil {
		return
	}

	orderID := idParam(c, "id")
	if orderID == 0 {
		return
	}

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.MarkReadyToShip(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ShipOrderRequest represents the request body for shipping an order
type ShipOrderRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required"`
	Carrier        string `json:"carrier" binding:"required"`
}

// ShipOrder handles POST /api/v1/orders/:id/ship (admins only)
func ShipOrder(c *gin.Context) {
	if requireAdmin(c) == nil {
		return
	}

	orderID := idParam(c, "id")
	if orderID == 0 {
		return
	}

	var req ShipOrderRequest
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

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.Ship(orderID, req.TrackingNumber, req.Carrier)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CompleteOrder handles POST /api/v1/orders/:id/complete (admins only)
func CompleteOrder(c *gin.Context) {
	if requireAdmin(c) == nil {
		return
	}

	orderID := idParam(c, "id")
	if orderID == 0 {
		return
	}

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.Complete(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CancelOrderRequest represents the request body for cancelling an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - irreversibly cancels
// an order (admins only)
func CancelOrder(c *gin.Context) {
	if requireAdmin(c) == nil {
		return
	}

	orderID := idParam(c, "id")
	if orderID == 0 {
		return
	}

	var req CancelOrderRequest
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

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.Cancel(orderID, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
