package trigger

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

type fakeNotifier struct {
	workshopIDs []string
	userIDs     []string
}

func (f *fakeNotifier) SendWelcome(_ context.Context, workshopID, userID string) error {
	f.workshopIDs = append(f.workshopIDs, workshopID)
	f.userIDs = append(f.userIDs, userID)
	return nil
}

type fakeDeriver struct {
	keys []string
}

func (f *fakeDeriver) Derive(_ context.Context, key string) error {
	f.keys = append(f.keys, key)
	return nil
}

func newTestWorker() (*Worker, *fakeNotifier, *fakeDeriver, *fakeRegistrationRepo) {
	publicRepo := newFakePublicRepo()
	registrationRepo := newFakeRegistrationRepo()
	logger := zerolog.Nop()
	fanout := NewFanout(publicRepo, registrationRepo, &logger)

	notifier := &fakeNotifier{}
	deriver := &fakeDeriver{}
	worker := NewWorker(nil, fanout, notifier, deriver, &logger)
	return worker, notifier, deriver, registrationRepo
}

// fakeEventSource replays buffered deliveries until StopConsuming closes the
// stream and joins the loop, mirroring the broker client's contract.
type fakeEventSource struct {
	deliveries chan []byte
	done       chan struct{}
}

func newFakeEventSource(bodies ...[]byte) *fakeEventSource {
	source := &fakeEventSource{
		deliveries: make(chan []byte, len(bodies)),
		done:       make(chan struct{}),
	}
	for _, body := range bodies {
		source.deliveries <- body
	}
	return source
}

func (f *fakeEventSource) Consume(handler func([]byte) error) error {
	go func() {
		defer close(f.done)
		for body := range f.deliveries {
			_ = handler(body)
		}
	}()
	return nil
}

func (f *fakeEventSource) StopConsuming() error {
	close(f.deliveries)
	<-f.done
	return nil
}

func mustMarshal(t *testing.T, event Event) []byte {
	t.Helper()
	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return body
}

func TestWorkerDropsMalformedEvent(t *testing.T) {
	worker, notifier, deriver, _ := newTestWorker()

	if err := worker.handle(context.Background(), []byte("{not json")); err != nil {
		t.Errorf("malformed events must be dropped, not requeued: %v", err)
	}
	if len(notifier.userIDs) != 0 || len(deriver.keys) != 0 {
		t.Error("malformed event must not be dispatched")
	}
}

func TestWorkerDropsUnknownEventType(t *testing.T) {
	worker, _, _, _ := newTestWorker()

	body := mustMarshal(t, Event{Type: "workshop.renamed"})
	if err := worker.handle(context.Background(), body); err != nil {
		t.Errorf("unknown events must be dropped, not requeued: %v", err)
	}
}

func TestWorkerDispatchesWelcomeOnRegistration(t *testing.T) {
	worker, notifier, _, _ := newTestWorker()

	body := mustMarshal(t, Event{
		Type:       EventRegistrationCreated,
		WorkshopID: "ws-1",
		UserID:     "user-1",
	})
	if err := worker.handle(context.Background(), body); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(notifier.workshopIDs) != 1 || notifier.workshopIDs[0] != "ws-1" {
		t.Errorf("welcome not sent for workshop: %v", notifier.workshopIDs)
	}
	if len(notifier.userIDs) != 1 || notifier.userIDs[0] != "user-1" {
		t.Errorf("welcome not sent to user: %v", notifier.userIDs)
	}
}

func TestWorkerDispatchesPosterDerivation(t *testing.T) {
	worker, _, deriver, _ := newTestWorker()

	body := mustMarshal(t, Event{Type: EventPosterUploaded, PosterKey: "workshops/ws-1/poster"})
	if err := worker.handle(context.Background(), body); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(deriver.keys) != 1 || deriver.keys[0] != "workshops/ws-1/poster" {
		t.Errorf("poster derivation not dispatched: %v", deriver.keys)
	}
}

func TestWorkerRequeuesIncompleteWorkshopEvent(t *testing.T) {
	worker, _, _, _ := newTestWorker()

	body := mustMarshal(t, Event{Type: EventWorkshopCreated})
	if err := worker.handle(context.Background(), body); err == nil {
		t.Error("workshop.created without a document must fail")
	}
}

func TestWorkerStopDrainsInFlightDeliveries(t *testing.T) {
	publicRepo := newFakePublicRepo()
	registrationRepo := newFakeRegistrationRepo()
	logger := zerolog.Nop()
	fanout := NewFanout(publicRepo, registrationRepo, &logger)
	notifier := &fakeNotifier{}
	deriver := &fakeDeriver{}

	source := newFakeEventSource(
		mustMarshal(t, Event{Type: EventRegistrationCreated, WorkshopID: "ws-1", UserID: "user-1"}),
		mustMarshal(t, Event{Type: EventRegistrationCreated, WorkshopID: "ws-1", UserID: "user-2"}),
	)
	worker := NewWorker(source, fanout, notifier, deriver, &logger)

	worker.Start(context.Background())
	worker.Stop()

	if len(notifier.userIDs) != 2 {
		t.Fatalf("expected both queued events handled before shutdown, got %v", notifier.userIDs)
	}
	if notifier.userIDs[0] != "user-1" || notifier.userIDs[1] != "user-2" {
		t.Errorf("deliveries handled out of order: %v", notifier.userIDs)
	}
}

func TestWorkerDispatchesUserDeleted(t *testing.T) {
	worker, _, _, registrationRepo := newTestWorker()

	body := mustMarshal(t, Event{Type: EventUserDeleted, UserID: "user-9"})
	if err := worker.handle(context.Background(), body); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(registrationRepo.deletedUsers) != 1 || registrationRepo.deletedUsers[0] != "user-9" {
		t.Errorf("user join documents not cleaned up: %v", registrationRepo.deletedUsers)
	}
}
