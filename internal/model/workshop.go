package model

import "time"

// Workshop is the authoritative, admin-editable record of a workshop. All
// derived copies (the public projection and each registrant's denormalized
// copy) are fanned out from this document.
type Workshop struct {
	ID             string    `bson:"_id"             json:"id"`
	Name           string    `bson:"name"            json:"name"`
	Description    string    `bson:"description"     json:"description"`
	Datetime       time.Time `bson:"datetime"        json:"datetime"`
	VideoCallLink  *string   `bson:"video_call_link,omitempty" json:"videoCallLink,omitempty"`
	FeedbackLink   *string   `bson:"feedback_link,omitempty"   json:"feedbackLink,omitempty"`
	RecordingLink  *string   `bson:"recording_link,omitempty"  json:"recordingLink,omitempty"`
	NewSignupEmail string    `bson:"new_signup_email" json:"newSignupEmail"`
	CreatedAt      time.Time `bson:"created_at"      json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at"      json:"updatedAt"`
}

// PublicWorkshop is the reduced, publicly readable projection of a workshop.
// It exists exactly as long as the admin copy exists.
type PublicWorkshop struct {
	ID          string    `bson:"_id"         json:"id"`
	Name        string    `bson:"name"        json:"name"`
	Description string    `bson:"description" json:"description"`
	Datetime    time.Time `bson:"datetime"    json:"datetime"`
}

// PublicFields are the workshop fields visible in the public projection.
var PublicFields = []string{"name", "description", "datetime"}

// RegistrantFields are the workshop fields denormalized onto every
// registrant's copy. The registrant's consent flag is deliberately not here;
// it is owned by the registrant and never written by fan-out.
var RegistrantFields = []string{
	"name", "datetime", "description",
	"recording_link", "video_call_link", "feedback_link",
}

// DocFields returns the workshop's mutable fields keyed by document field
// name, with unset optional links as nil. Used to diff two snapshots.
func (w *Workshop) DocFields() map[string]any {
	return map[string]any{
		"name":             w.Name,
		"description":      w.Description,
		"datetime":         w.Datetime,
		"video_call_link":  deref(w.VideoCallLink),
		"feedback_link":    deref(w.FeedbackLink),
		"recording_link":   deref(w.RecordingLink),
		"new_signup_email": w.NewSignupEmail,
	}
}

// Public returns the public projection of the workshop.
func (w *Workshop) Public() *PublicWorkshop {
	return &PublicWorkshop{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Datetime:    w.Datetime,
	}
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
