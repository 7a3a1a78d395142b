package models

// Stage is the position of an order in the commission fulfillment sequence.
type Stage string

const (
	StageEnquiryReceived        Stage = "enquiry_received"
	StagePendingAdminReview     Stage = "pending_admin_review"
	StageQuestionnaireSent      Stage = "questionnaire_sent"
	StageQuestionnaireCompleted Stage = "questionnaire_completed"
	StageQuoteSent              Stage = "quote_sent"
	StageQuoteAccepted          Stage = "quote_accepted"
	StageInProduction           Stage = "in_production"
	StageReadyToShip            Stage = "ready_to_ship"
	StageShipped                Stage = "shipped"
	StageCompleted              Stage = "completed"
	StageCancelled              Stage = "cancelled"
)

// CanonicalStages is the full forward sequence, excluding the cancelled side state.
var CanonicalStages = []Stage{
	StageEnquiryReceived,
	StagePendingAdminReview,
	StageQuestionnaireSent,
	StageQuestionnaireCompleted,
	StageQuoteSent,
	StageQuoteAccepted,
	StageInProduction,
	StageReadyToShip,
	StageShipped,
	StageCompleted,
}

// IsValid reports whether s is one of the canonical stages or cancelled.
func (s Stage) IsValid() bool {
	if s == StageCancelled {
		return true
	}
	for _, stage := range CanonicalStages {
		if s == stage {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s Stage) IsTerminal() bool {
	return s == StageCompleted || s == StageCancelled
}

// progressIndex maps each stage to its position on the eight-step
// customer-facing progress bar. The questionnaire stages display at the
// review step: answering the questionnaire is part of the review loop, not
// a step of its own. Cancelled orders have no position.
var progressIndex = map[Stage]int{
	StageEnquiryReceived:        0,
	StagePendingAdminReview:     1,
	StageQuestionnaireSent:      1,
	StageQuestionnaireCompleted: 1,
	StageQuoteSent:              2,
	StageQuoteAccepted:          3,
	StageInProduction:           4,
	StageReadyToShip:            5,
	StageShipped:                6,
	StageCompleted:              7,
	StageCancelled:              -1,
}

// ProgressSteps is the number of steps on the customer-facing progress bar.
const ProgressSteps = 8

// ProgressIndex returns the progress bar position for a stage, or -1 for
// cancelled or unknown stages.
func ProgressIndex(s Stage) int {
	if idx, ok := progressIndex[s]; ok {
		return idx
	}
	return -1
}

// Action is an operation an actor may perform on an order in its current stage.
type Action string

const (
	ActionStartReview         Action = "start_review"
	ActionSendQuestionnaire   Action = "send_questionnaire"
	ActionAnswerQuestionnaire Action = "answer_questionnaire"
	ActionSendQuote           Action = "send_quote"
	ActionRespondToQuote      Action = "respond_to_quote"
	ActionGenerateInvoice     Action = "generate_invoice"
	ActionPayInvoice          Action = "pay_invoice"
	ActionUploadDesign        Action = "upload_design"
	ActionAddGalleryImage     Action = "add_gallery_image"
	ActionMarkReadyToShip     Action = "mark_ready_to_ship"
	ActionShip                Action = "ship"
	ActionComplete            Action = "complete"
	ActionCancel              Action = "cancel"
)

// AvailableActions returns the legal actions for an order given its stage and
// attachment state. It is a pure function: no other state participates.
func AvailableActions(stage Stage, hasActiveQuestionnaire, hasAcceptedQuote, hasInvoice bool) []Action {
	var actions []Action

	switch stage {
	case StageEnquiryReceived:
		actions = append(actions, ActionStartReview)
	case StagePendingAdminReview:
		if !hasActiveQuestionnaire {
			actions = append(actions, ActionSendQuestionnaire)
		}
		actions = append(actions, ActionSendQuote)
	case StageQuestionnaireSent:
		actions = append(actions, ActionAnswerQuestionnaire)
	case StageQuestionnaireCompleted:
		actions = append(actions, ActionSendQuote)
	case StageQuoteSent:
		if !hasAcceptedQuote {
			actions = append(actions, ActionRespondToQuote)
		}
	case StageQuoteAccepted:
		if !hasInvoice {
			actions = append(actions, ActionGenerateInvoice)
		} else {
			actions = append(actions, ActionPayInvoice)
		}
	case StageInProduction:
		actions = append(actions, ActionUploadDesign, ActionAddGalleryImage, ActionMarkReadyToShip)
	case StageReadyToShip:
		actions = append(actions, ActionShip)
	case StageShipped:
		actions = append(actions, ActionComplete)
	}

	if !stage.IsTerminal() {
		actions = append(actions, ActionCancel)
	}

	return actions
}

// stageTransitions lists the legal forward transitions. Cancellation is
// handled separately: every non-terminal stage may move to cancelled.
var stageTransitions = map[Stage][]Stage{
	StageEnquiryReceived:        {StagePendingAdminReview},
	StagePendingAdminReview:     {StageQuestionnaireSent, StageQuoteSent},
	StageQuestionnaireSent:      {StageQuestionnaireCompleted},
	StageQuestionnaireCompleted: {StageQuoteSent},
	StageQuoteSent:              {StageQuoteAccepted, StagePendingAdminReview},
	StageQuoteAccepted:          {StageInProduction},
	StageInProduction:           {StageReadyToShip},
	StageReadyToShip:            {StageShipped},
	StageShipped:                {StageCompleted},
}

// CanTransition reports whether an order may move from one stage to another.
func CanTransition(from, to Stage) bool {
	if to == StageCancelled {
		return !from.IsTerminal()
	}
	for _, next := range stageTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
