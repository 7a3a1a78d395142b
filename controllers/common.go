package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mirabelle-minis/commissions-api/config"
	"github.com/mirabelle-minis/commissions-api/middleware"
	"github.com/mirabelle-minis/commissions-api/models"
	"github.com/mirabelle-minis/commissions-api/services"
)

// currentUser resolves the authenticated user from the JWT's sub claim.
// On failure it writes the error response and returns nil.
func currentUser(c *gin.Context) *models.User {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return nil
	}

	return &user
}

// requireAdmin resolves the authenticated user and rejects non-admins.
// On failure it writes the error response and returns nil.
func requireAdmin(c *gin.Context) *models.User {
	user := currentUser(c)
	if user == nil {
		return nil
	}
	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only admins can perform this action",
			},
		})
		return nil
	}
	return user
}

// idParam parses a numeric URL parameter. On failure it writes the error
// response and returns 0.
func idParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid " + name + " parameter",
			},
		})
		return 0
	}
	return uint(id)
}

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// validation errors are 400, state conflicts 409, missing records 404.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    validationErr.Code,
				"message": validationErr.Message,
			},
		})
		return
	}

	var conflictErr *services.StateConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":     conflictErr.Code,
				"message":  conflictErr.Error(),
				"current":  conflictErr.Current,
				"expected": conflictErr.Expected,
			},
		})
		return
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": notFoundErr.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "An unexpected error occurred",
		},
	})
}

// taxRate returns the configured tax rate, falling back to the default when
// no config has been loaded (unit tests exercise controllers directly).
func taxRate() float64 {
	if cfg := config.GetConfig(); cfg != nil {
		return cfg.TaxRate
	}
	return 0.08
}

// canAccessOrder reports whether a user may view an order: customers see
// their own orders, admins see all.
func canAccessOrder(user *models.User, order *models.Order) bool {
	return user.IsAdmin() || order.CustomerID == user.ID
}
