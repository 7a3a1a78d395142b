package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mirabelle-minis/commissions-api/config"
	"github.com/mirabelle-minis/commissions-api/services"
)

// CreateQuoteRequest represents the request body for sending a quote
type CreateQuoteRequest struct {
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	Currency    string    `json:"currency"`
	Timeline    string    `json:"timeline" binding:"required"`
	ValidUntil  time.Time `json:"valid_until" binding:"required"`
	ScopeOfWork []string  `json:"scope_of_work" binding:"required"`
	Terms       string    `json:"terms"`
}

// CreateQuote handles POST /api/v1/orders/:id/quotes (admins only)
func CreateQuote(c *gin.Context) {
	if requireAdmin(c) == nil {
		return
	}

	orderID := idParam(c, "id")
	if orderID == 0 {
		return
	}

	var req CreateQuoteRequest
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

	svc := services.NewQuoteService(config.GetDB())
	quote, err := svc.CreateQuote(orderID, services.QuoteInput{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Timeline:    req.Timeline,
		ValidUntil:  req.ValidUntil,
		ScopeOfWork: req.ScopeOfWork,
		Terms:       req.Terms,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    quote,
	})
}

// ListQuotes handles GET /api/v1/orders/:id/quotes - returns the quote
// history for an order
func ListQuotes(c *gin.Context) {
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

	svc := services.NewQuoteService(config.GetDB())
	quotes, err := svc.ListQuotes(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quotes,
	})
}

// requireQuoteOwner loads a quote and verifies the acting user owns the
// parent order. On failure it writes the error response and returns nil.
func requireQuoteOwner(c *gin.Context, quoteID uint) *services.QuoteService {
	user := currentUser(c)
	if user == nil {
		return nil
	}

	svc := services.NewQuoteService(config.GetDB())
	quote, err := svc.GetQuote(quoteID)
	if err != nil {
		respondServiceError(c, err)
		return nil
	}

	orderSvc := services.NewOrderService(config.GetDB())
	order, err := orderSvc.GetOrder(quote.OrderID)
	if err != nil {
		respondServiceError(c, err)
		return nil
	}

	if order.CustomerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to respond to this quote",
			},
		})
		return nil
	}

	return svc
}

// AcceptQuote handles POST /api/v1/quotes/:id/accept (order owner only)
func AcceptQuote(c *gin.Context) {
	quoteID := idParam(c, "id")
	if quoteID == 0 {
		return
	}

	svc := requireQuoteOwner(c, quoteID)
	if svc == nil {
		return
	}

	quote, err := svc.AcceptQuote(quoteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// RejectQuoteRequest represents the request body for rejecting a quote
type RejectQuoteRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RejectQuote handles POST /api/v1/quotes/:id/reject - requests a revision
// (order owner only)
func RejectQuote(c *gin.Context) {
	quoteID := idParam(c, "id")
	if quoteID == 0 {
		return
	}

	svc := requireQuoteOwner(c, quoteID)
	if svc == nil {
		return
	}

	var req RejectQuoteRequest
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

	quote, err := svc.RejectQuote(quoteID, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}
