package services

import (
	"errors"
	"strings"
	"time"

	"github.com/mirabelle-minis/commissions-api/models"
	"gorm.io/gorm"
)

// QuestionnaireService owns questionnaire creation and customer responses
type QuestionnaireService struct {
	db *gorm.DB
}

// NewQuestionnaireService creates a new questionnaire service
func NewQuestionnaireService(db *gorm.DB) *QuestionnaireService {
	return &QuestionnaireService{db: db}
}

// QuestionInput describes one question of a new questionnaire
type QuestionInput struct {
	Prompt   string
	Type     models.QuestionType
	Required bool
	Options  []string
}

// QuestionnaireInput is the admin-supplied form definition
type QuestionnaireInput struct {
	Title       string
	Description string
	Questions   []QuestionInput
}

// FileAnswer is the answer shape for file_upload questions
type FileAnswer struct {
	Name          string `json:"name"`
	MimeType      string `json:"mimeType"`
	DataReference string `json:"dataReference"`
}

// AnswerInput is one customer answer, keyed by question id at the call site.
// Exactly one of Value or File is set depending on the question type.
type AnswerInput struct {
	Value string      `json:"value"`
	File  *FileAnswer `json:"file,omitempty"`
}

// CreateQuestionnaire validates and persists a questionnaire for an order in
// pending_admin_review, advances the order to questionnaire_sent, and
// notifies the customer.
func (s *QuestionnaireService) CreateQuestionnaire(orderID uint, input QuestionnaireInput) (*models.Questionnaire, error) {
	if err := validateQuestionnaireInput(input); err != nil {
		return nil, err
	}

	var questionnaire *models.Questionnaire
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, txErr := findOrder(tx, orderID)
		if txErr != nil {
			return txErr
		}

		if order.Stage != models.StagePendingAdminReview {
			return NewStateConflictError("INVALID_STAGE", string(order.Stage), string(models.StagePendingAdminReview))
		}

		var active int64
		if txErr := tx.Model(&models.Questionnaire{}).
			Where("order_id = ? AND answered = ?", orderID, false).
			Count(&active).Error; txErr != nil {
			return txErr
		}
		if active > 0 {
			return NewStateConflictError("QUESTIONNAIRE_ACTIVE", "active questionnaire", "no active questionnaire")
		}

		q := models.Questionnaire{
			OrderID:     orderID,
			Title:       input.Title,
			Description: input.Description,
		}
		for i, question := range input.Questions {
			q.Questions = append(q.Questions, models.Question{
				Position: i + 1,
				Prompt:   question.Prompt,
				Type:     question.Type,
				Required: question.Required,
				Options:  question.Options,
			})
		}

		if txErr := tx.Create(&q).Error; txErr != nil {
			return txErr
		}

		if txErr := transition(tx, order, models.StageQuestionnaireSent, nil); txErr != nil {
			return txErr
		}

		questionnaire = &q
		notify(order.Customer.Email, TemplateQuestionnaireSent, map[string]interface{}{
			"order_reference": order.Reference,
			"title":           q.Title,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return questionnaire, nil
}

// GetQuestionnaire fetches a questionnaire with questions and answers loaded
func (s *QuestionnaireService) GetQuestionnaire(questionnaireID uint) (*models.Questionnaire, error) {
	return findQuestionnaire(s.db, questionnaireID)
}

// SubmitResponse records the customer's answers, marks the questionnaire
// read-only, and advances the order to questionnaire_completed. It fails
// with a ValidationError listing every unanswered required question.
func (s *QuestionnaireService) SubmitResponse(questionnaireID uint, answers map[uint]AnswerInput) (*models.Questionnaire, error) {
	var questionnaire *models.Questionnaire
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q, txErr := findQuestionnaire(tx, questionnaireID)
		if txErr != nil {
			return txErr
		}

		if q.Answered {
			return NewStateConflictError("QUESTIONNAIRE_ANSWERED", "answered", "unanswered")
		}

		if txErr := validateAnswers(q, answers); txErr != nil {
			return txErr
		}

		order, txErr := findOrder(tx, q.OrderID)
		if txErr != nil {
			return txErr
		}
		if order.Stage != models.StageQuestionnaireSent {
			return NewStateConflictError("INVALID_STAGE", string(order.Stage), string(models.StageQuestionnaireSent))
		}

		for _, question := range q.Questions {
			input, ok := answers[question.ID]
			if !ok {
				continue
			}

			answer := models.Answer{
				QuestionnaireID: q.ID,
				QuestionID:      question.ID,
				Value:           input.Value,
			}
			if question.Type == models.QuestionFileUpload && input.File != nil {
				answer.FileName = &input.File.Name
				answer.FileMimeType = &input.File.MimeType
				answer.FileKey = &input.File.DataReference
			}

			if txErr := tx.Create(&answer).Error; txErr != nil {
				return txErr
			}
		}

		now := time.Now()
		if txErr := tx.Model(q).Updates(map[string]interface{}{
			"answered":    true,
			"answered_at": now,
		}).Error; txErr != nil {
			return txErr
		}

		if txErr := transition(tx, order, models.StageQuestionnaireCompleted, nil); txErr != nil {
			return txErr
		}

		q.Answered = true
		q.AnsweredAt = &now
		questionnaire = q
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetQuestionnaire(questionnaire.ID)
}

// validateQuestionnaireInput checks the form definition: non-empty title,
// at least one question, non-empty prompts, and at least two non-empty
// options on choice questions.
func validateQuestionnaireInput(input QuestionnaireInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return NewValidationError("MISSING_TITLE", "questionnaire title is required")
	}
	if len(input.Questions) == 0 {
		return NewValidationError("NO_QUESTIONS", "questionnaire must contain at least one question")
	}

	for i, question := range input.Questions {
		if strings.TrimSpace(question.Prompt) == "" {
			return NewValidationError("EMPTY_PROMPT", "question %d has an empty prompt", i+1)
		}
		if !question.Type.IsValid() {
			return NewValidationError("INVALID_QUESTION_TYPE", "question %d has unknown type %q", i+1, question.Type)
		}
		if question.Type.IsChoice() {
			var options int
			for _, option := range question.Options {
				if strings.TrimSpace(option) != "" {
					options++
				}
			}
			if options < 2 {
				return NewValidationError("TOO_FEW_OPTIONS", "question %d needs at least two non-empty options", i+1)
			}
		}
	}

	return nil
}

// validateAnswers checks that every required question has a usable answer
func validateAnswers(q *models.Questionnaire, answers map[uint]AnswerInput) error {
	var missing []string
	for _, question := range q.Questions {
		if !question.Required {
			continue
		}

		input, ok := answers[question.ID]
		if !ok {
			missing = append(missing, question.Prompt)
			continue
		}

		if question.Type == models.QuestionFileUpload {
			if input.File == nil || strings.TrimSpace(input.File.DataReference) == "" {
				missing = append(missing, question.Prompt)
			}
			continue
		}

		if strings.TrimSpace(input.Value) == "" {
			missing = append(missing, question.Prompt)
		}
	}

	if len(missing) > 0 {
		return NewValidationError("MISSING_REQUIRED_ANSWERS",
			"required questions unanswered: %s", strings.Join(missing, "; "))
	}

	// Selected options must come from the question's option list
	for _, question := range q.Questions {
		input, ok := answers[question.ID]
		if !ok || question.Type != models.QuestionSingleSelect || strings.TrimSpace(input.Value) == "" {
			continue
		}
		valid := false
		for _, option := range question.Options {
			if input.Value == option {
				valid = true
				break
			}
		}
		if !valid {
			return NewValidationError("INVALID_OPTION",
				"answer %q is not an option of question %q", input.Value, question.Prompt)
		}
	}

	return nil
}

// findQuestionnaire fetches a questionnaire by id with its questions ordered
func findQuestionnaire(tx *gorm.DB, questionnaireID uint) (*models.Questionnaire, error) {
	var q models.Questionnaire
	err := tx.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Answers").First(&q, questionnaireID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("questionnaire", questionnaireID)
		}
		return nil, err
	}
	return &q, nil
}
