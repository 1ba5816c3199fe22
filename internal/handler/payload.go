package handler

import "time"

type signUpRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type createWorkshopRequest struct {
	Name           string    `json:"name"           validate:"required"`
	Description    string    `json:"description"    validate:"required"`
	Datetime       time.Time `json:"datetime"       validate:"required"`
	NewSignupEmail string    `json:"newSignupEmail" validate:"required"`
	VideoCallLink  *string   `json:"videoCallLink"  validate:"omitempty,url"`
	FeedbackLink   *string   `json:"feedbackLink"   validate:"omitempty,url"`
	RecordingLink  *string   `json:"recordingLink"  validate:"omitempty,url"`
}

// updateWorkshopRequest carries only the fields to change; absent fields are
// left untouched, and an optional link supplied as "" clears it.
type updateWorkshopRequest struct {
	Name           *string    `json:"name"           validate:"omitempty,min=1"`
	Description    *string    `json:"description"    validate:"omitempty,min=1"`
	Datetime       *time.Time `json:"datetime"`
	NewSignupEmail *string    `json:"newSignupEmail" validate:"omitempty,min=1"`
	VideoCallLink  *string    `json:"videoCallLink"  validate:"omitempty,url|eq="`
	FeedbackLink   *string    `json:"feedbackLink"   validate:"omitempty,url|eq="`
	RecordingLink  *string    `json:"recordingLink"  validate:"omitempty,url|eq="`
}

type consentRequest struct {
	ConsentToEmails *bool `json:"consentToEmails" validate:"required"`
}

type roleRequest struct {
	EmailAddress string `json:"emailAddress" validate:"required,email"`
}

type messageRequest struct {
	Message string `json:"message" validate:"required"`
}

type supportRequest struct {
	Message string `json:"message" validate:"required"`
	Email   string `json:"email"   validate:"omitempty,email"`
}

type recipientsResponse struct {
	Recipients []string `json:"recipients"`
}
