package models

import (
	"time"

	"gorm.io/gorm"
)

// QuestionType enumerates the supported question input types
type QuestionType string

const (
	QuestionShortText    QuestionType = "short_text"
	QuestionLongText     QuestionType = "long_text"
	QuestionFileUpload   QuestionType = "file_upload"
	QuestionSingleSelect QuestionType = "single_select"
	QuestionMultiSelect  QuestionType = "multi_select"
)

// IsChoice reports whether the question type carries an options list
func (t QuestionType) IsChoice() bool {
	return t == QuestionSingleSelect || t == QuestionMultiSelect
}

// IsValid reports whether t is a known question type
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionShortText, QuestionLongText, QuestionFileUpload, QuestionSingleSelect, QuestionMultiSelect:
		return true
	}
	return false
}

// Questionnaire represents an admin-authored form attached to an order.
// It becomes read-only once the customer submits answers.
type Questionnaire struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrderID     uint           `gorm:"not null;index" json:"order_id"`
	Order       Order          `gorm:"foreignKey:OrderID" json:"-"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Questions   []Question     `gorm:"foreignKey:QuestionnaireID" json:"questions"`
	Answers     []Answer       `gorm:"foreignKey:QuestionnaireID" json:"answers"`
	Answered    bool           `gorm:"not null;default:false" json:"answered"`
	AnsweredAt  *time.Time     `json:"answered_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Questionnaire model
func (Questionnaire) TableName() string {
	return "questionnaires"
}

// Question represents a single typed question within a questionnaire
type Question struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	QuestionnaireID uint         `gorm:"not null;index" json:"questionnaire_id"`
	Position        int          `gorm:"not null" json:"position"`
	Prompt          string       `gorm:"not null" json:"prompt"`
	Type            QuestionType `gorm:"not null" json:"type"`
	Required        bool         `gorm:"not null;default:false" json:"required"`
	Options         []string     `gorm:"serializer:json" json:"options,omitempty"` // only for choice types
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// TableName specifies the table name for the Question model
func (Question) TableName() string {
	return "questions"
}

// Answer represents a customer's answer to one question. For file_upload
// questions the file fields are set instead of Value.
type Answer struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	QuestionnaireID uint      `gorm:"not null;index" json:"questionnaire_id"`
	QuestionID      uint      `gorm:"not null;index" json:"question_id"`
	Value           string    `gorm:"type:text" json:"value"` // text or selected option(s); multi_select values are JSON-encoded
	FileName        *string   `json:"file_name,omitempty"`
	FileMimeType    *string   `json:"file_mime_type,omitempty"`
	FileKey         *string   `json:"file_key,omitempty"` // storage key for the uploaded file
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Answer model
func (Answer) TableName() string {
	return "answers"
}
