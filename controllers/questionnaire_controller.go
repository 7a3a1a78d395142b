package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirabelle-minis/commissions-api/config"
	"github.com/mirabelle-minis/commissions-api/models"
	"github.com/mirabelle-minis/commissions-api/services"
)

// QuestionRequest represents one question in a questionnaire request
type QuestionRequest struct {
	Prompt   string   `json:"prompt" binding:"required"`
	Type     string   `json:"type" binding:"required"`
	Required bool     `json:"required"`
	Options  []string `json:"options"`
}

// CreateQuestionnaireRequest represents the request body for sending a questionnaire
type CreateQuestionnaireRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Questions   []QuestionRequest `json:"questions" binding:"required"`
}

// CreateQuestionnaire handles POST /api/v1/orders/:id/questionnaire - creates
// and sends a questionnaire to the customer (admins only)
func CreateQuestionnaire(c *gin.Context) {
	if requireAdmin(c) == nil {
		return
	}

	orderID := idParam(c, "id")
	if orderID == 0 {
		return
	}

	var req CreateQuestionnaireRequest
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

	input := services.QuestionnaireInput{
		Title:       req.Title,
		Description: req.Description,
	}
	for _, q := range req.Questions {
		input.Questions = append(input.Questions, services.QuestionInput{
			Prompt:   q.Prompt,
			Type:     models.QuestionType(q.Type),
			Required: q.Required,
			Options:  q.Options,
		})
	}

	svc := services.NewQuestionnaireService(config.GetDB())
	questionnaire, err := svc.CreateQuestionnaire(orderID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    questionnaire,
	})
}

// SubmitQuestionnaireResponseRequest represents the customer's answers,
// keyed by question id
type SubmitQuestionnaireResponseRequest struct {
	Answers map[uint]services.AnswerInput `json:"answers" binding:"required"`
}

// SubmitQuestionnaireResponse handles POST /api/v1/questionnaires/:id/responses
// - records the customer's answers (order owner only)
func SubmitQuestionnaireResponse(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	questionnaireID := idParam(c, "id")
	if questionnaireID == 0 {
		return
	}

	svc := services.NewQuestionnaireService(config.GetDB())
	questionnaire, err := svc.GetQuestionnaire(questionnaireID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	orderSvc := services.NewOrderService(config.GetDB())
	order, err := orderSvc.GetOrder(questionnaire.OrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if order.CustomerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to answer this questionnaire",
			},
		})
		return
	}

	var req SubmitQuestionnaireResponseRequest
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

	answered, err := svc.SubmitResponse(questionnaireID, req.Answers)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    answered,
	})
}
