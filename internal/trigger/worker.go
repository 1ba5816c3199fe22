package trigger

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
)

// WelcomeNotifier sends the new-signup welcome email for a registration.
type WelcomeNotifier interface {
	SendWelcome(ctx context.Context, workshopID, userID string) error
}

// PosterDeriver produces the resized poster variants for an uploaded object.
type PosterDeriver interface {
	Derive(ctx context.Context, key string) error
}

// EventSource feeds raw event bodies to a handler until StopConsuming cancels
// the stream and joins the delivery loop.
type EventSource interface {
	Consume(handler func([]byte) error) error
	StopConsuming() error
}

// Worker consumes trigger events and dispatches them to fan-out, the welcome
// notifier, and the poster deriver. It is the in-process stand-in for the
// database-change and storage-upload triggers of a serverless platform.
type Worker struct {
	source   EventSource
	fanout   *Fanout
	notifier WelcomeNotifier
	posters  PosterDeriver
	logger   *zerolog.Logger
	done     chan struct{}
	cancel   context.CancelFunc
}

// NewWorker creates a Worker over the trigger queue.
func NewWorker(
	source EventSource,
	fanout *Fanout,
	notifier WelcomeNotifier,
	posters PosterDeriver,
	logger *zerolog.Logger,
) *Worker {
	return &Worker{
		source:   source,
		fanout:   fanout,
		notifier: notifier,
		posters:  posters,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins consuming trigger events until the context is canceled.
func (w *Worker) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	go func() {
		defer close(w.done)

		if err := w.source.Consume(func(body []byte) error {
			return w.handle(workerCtx, body)
		}); err != nil {
			w.logger.Error().Err(err).Msg("failed to start consuming trigger events")
			return
		}

		w.logger.Info().Msg("trigger worker started")
		<-workerCtx.Done()
	}()
}

// Stop cancels the consumer, waits for the delivery loop to finish any
// in-flight handler, then shuts the worker down.
func (w *Worker) Stop() {
	if w.cancel == nil {
		return
	}

	if err := w.source.StopConsuming(); err != nil {
		w.logger.Error().Err(err).Msg("failed to cancel trigger consumer")
	}
	w.cancel()
	<-w.done
}

func (w *Worker) handle(ctx context.Context, body []byte) error {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		// A malformed event can never succeed; log and drop it instead of
		// requeueing forever.
		w.logger.Error().Err(err).Str("body", string(body)).Msg("dropping malformed trigger event")
		return nil
	}

	w.logger.Info().Str("event", string(event.Type)).Msg("received trigger event")

	switch event.Type {
	case EventWorkshopCreated:
		if event.Workshop == nil {
			return errors.New("workshop.created event missing workshop")
		}
		return w.fanout.WorkshopCreated(ctx, event.Workshop)

	case EventWorkshopUpdated:
		if event.Before == nil || event.Workshop == nil {
			return errors.New("workshop.updated event missing snapshots")
		}
		return w.fanout.WorkshopUpdated(ctx, event.Before, event.Workshop)

	case EventWorkshopDeleted:
		if event.Before == nil {
			return errors.New("workshop.deleted event missing document")
		}
		return w.fanout.WorkshopDeleted(ctx, event.Before)

	case EventRegistrationCreated:
		return w.notifier.SendWelcome(ctx, event.WorkshopID, event.UserID)

	case EventUserDeleted:
		return w.fanout.UserDeleted(ctx, event.UserID)

	case EventPosterUploaded:
		return w.posters.Derive(ctx, event.PosterKey)

	default:
		w.logger.Warn().Str("event", string(event.Type)).Msg("dropping unknown trigger event")
		return nil
	}
}
