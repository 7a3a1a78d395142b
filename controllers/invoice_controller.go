package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirabelle-minis/commissions-api/config"
	"github.com/mirabelle-minis/commissions-api/services"
)

// GenerateInvoice handles POST /api/v1/quotes/:id/invoice - generates the
// invoice for an accepted quote (admins only)
func GenerateInvoice(c *gin.Context) {
	if requireAdmin(c) == nil {
		return
	}

	quoteID := idParam(c, "id")
	if quoteID == 0 {
		return
	}

	svc := services.NewInvoiceService(config.GetDB(), taxRate())
	invoice, err := svc.GenerateInvoice(quoteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    invoice,
	})
}

// GetInvoice handles GET /api/v1/orders/:id/invoice
func GetInvoice(c *gin.Context) {
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

	svc := services.NewInvoiceService(config.GetDB(), taxRate())
	invoice, err := svc.GetInvoiceForOrder(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    invoice,
	})
}

// ProcessPaymentRequest represents the request body for paying an invoice
type ProcessPaymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// ProcessPayment handles POST /api/v1/orders/:id/payments - pays the order's
// unpaid invoice and moves the order into production (order owner only)
func ProcessPayment(c *gin.Context) {
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

	if order.CustomerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to pay for this order",
			},
		})
		return
	}

	var req ProcessPaymentRequest
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

	svc := services.NewInvoiceService(config.GetDB(), taxRate())
	invoice, err := svc.ProcessPayment(orderID, req.PaymentMethod)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    invoice,
	})
}
