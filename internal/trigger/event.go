package trigger

import "github.com/atelierhub/workshop-hub-api/internal/model"

// EventType names a change the trigger worker reacts to.
type EventType string

const (
	EventWorkshopCreated     EventType = "workshop.created"
	EventWorkshopUpdated     EventType = "workshop.updated"
	EventWorkshopDeleted     EventType = "workshop.deleted"
	EventRegistrationCreated EventType = "registration.created"
	EventUserDeleted         EventType = "user.deleted"
	EventPosterUploaded      EventType = "poster.uploaded"
)

// Event is the envelope published for every change. Which fields are set
// depends on the event type: workshop events carry document snapshots,
// registration and poster events carry identifiers.
type Event struct {
	Type EventType `json:"type"`

	// Workshop is the document after the change (created, updated).
	Workshop *model.Workshop `json:"workshop,omitempty"`
	// Before is the document before the change (updated) or the deleted
	// document (deleted).
	Before *model.Workshop `json:"before,omitempty"`

	WorkshopID string `json:"workshopId,omitempty"`
	UserID     string `json:"userId,omitempty"`

	// PosterKey is the storage key of a freshly uploaded poster object.
	PosterKey string `json:"posterKey,omitempty"`
}
