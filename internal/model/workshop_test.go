package model

import (
	"testing"
	"time"
)

func TestPublicProjectionCarriesOnlyPublicFields(t *testing.T) {
	link := "https://meet.example.com/pottery"
	workshop := &Workshop{
		ID:             "ws-1",
		Name:           "Intro to Pottery",
		Description:    "hands on",
		Datetime:       time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
		VideoCallLink:  &link,
		NewSignupEmail: "See you at the wheel!",
	}

	public := workshop.Public()

	if public.ID != workshop.ID || public.Name != workshop.Name {
		t.Errorf("projection identity mismatch: %+v", public)
	}
	if public.Description != workshop.Description || !public.Datetime.Equal(workshop.Datetime) {
		t.Errorf("projection content mismatch: %+v", public)
	}
}

func TestDocFieldsDereferencesOptionalLinks(t *testing.T) {
	link := "https://feedback.example.com/f"
	workshop := &Workshop{
		Name:         "Glazing 101",
		FeedbackLink: &link,
	}

	fields := workshop.DocFields()

	if fields["feedback_link"] != link {
		t.Errorf("expected set link value, got %v", fields["feedback_link"])
	}
	if fields["video_call_link"] != nil {
		t.Errorf("expected nil for unset link, got %v", fields["video_call_link"])
	}
	if fields["recording_link"] != nil {
		t.Errorf("expected nil for unset link, got %v", fields["recording_link"])
	}
}
