package model

import "time"

// WorkshopUser records a registration from the workshop's side. It carries
// only what per-workshop email dispatch needs, so registrants can be
// enumerated and emailed without fetching their user documents.
type WorkshopUser struct {
	WorkshopID      string    `bson:"workshop_id" json:"workshopId"`
	UserID          string    `bson:"user_id"     json:"userId"`
	ConsentToEmails bool      `bson:"consent_to_emails" json:"consentToEmails"`
	CreatedAt       time.Time `bson:"created_at"  json:"createdAt"`
}

// UserWorkshop records the same registration from the user's side, with the
// workshop's fields denormalized onto it so a user's schedule can be listed
// in one query. It exists if and only if the matching WorkshopUser exists.
type UserWorkshop struct {
	UserID          string    `bson:"user_id"     json:"userId"`
	WorkshopID      string    `bson:"workshop_id" json:"workshopId"`
	Name            string    `bson:"name"        json:"name"`
	Description     string    `bson:"description" json:"description"`
	Datetime        time.Time `bson:"datetime"    json:"datetime"`
	VideoCallLink   *string   `bson:"video_call_link,omitempty" json:"videoCallLink,omitempty"`
	FeedbackLink    *string   `bson:"feedback_link,omitempty"   json:"feedbackLink,omitempty"`
	RecordingLink   *string   `bson:"recording_link,omitempty"  json:"recordingLink,omitempty"`
	ConsentToEmails bool      `bson:"consent_to_emails" json:"consentToEmails"`
	CreatedAt       time.Time `bson:"created_at"  json:"createdAt"`
}

// NewRegistrationPair builds the symmetric join pair for a (user, workshop)
// registration with the caller-supplied consent flag.
func NewRegistrationPair(userID string, workshop *Workshop, consent bool) (*WorkshopUser, *UserWorkshop) {
	workshopUser := &WorkshopUser{
		WorkshopID:      workshop.ID,
		UserID:          userID,
		ConsentToEmails: consent,
	}

	userWorkshop := &UserWorkshop{
		UserID:          userID,
		WorkshopID:      workshop.ID,
		Name:            workshop.Name,
		Description:     workshop.Description,
		Datetime:        workshop.Datetime,
		VideoCallLink:   workshop.VideoCallLink,
		FeedbackLink:    workshop.FeedbackLink,
		RecordingLink:   workshop.RecordingLink,
		ConsentToEmails: consent,
	}

	return workshopUser, userWorkshop
}
