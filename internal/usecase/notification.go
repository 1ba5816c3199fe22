package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/atelierhub/workshop-hub-api/internal/identity"
	"github.com/atelierhub/workshop-hub-api/internal/model"
	"github.com/atelierhub/workshop-hub-api/internal/repository"
	"github.com/atelierhub/workshop-hub-api/shared/mailer"
)

// EmailSender is the outbound email transport. Satisfied by *mailer.Mailer.
type EmailSender interface {
	Send(email mailer.Email) error
	SendBroadcast(bcc []string, subject, body string) error
}

// NotificationUsecase defines the four email dispatch flows: the new-signup
// welcome, the per-workshop broadcast, the promotional broadcast, and the
// free-form support message.
type NotificationUsecase interface {
	// SendWelcome sends the workshop's configured welcome text to a fresh
	// registrant. It silently does nothing when the registrant has no email
	// on file or the workshop no longer exists.
	SendWelcome(ctx context.Context, workshopID, userID string) error

	// BroadcastToRegistrants emails every registrant whose per-workshop
	// consent is true, blind-copying all of them on one message, and returns
	// the resolved addresses.
	BroadcastToRegistrants(ctx context.Context, callerID, workshopID, message string) ([]string, error)

	// Promote emails every user whose general consent is explicitly true and
	// who is not registered for the workshop, and returns the addresses.
	Promote(ctx context.Context, callerID, workshopID, message string) ([]string, error)

	// SendSupport forwards a message to the fixed support recipient. The
	// reply-to address is the explicit one if given, otherwise the caller's.
	SendSupport(ctx context.Context, callerID, message, replyTo string) error
}

type notificationUsecase struct {
	userRepo         repository.UserRepository
	workshopRepo     repository.WorkshopRepository
	registrationRepo repository.RegistrationRepository
	provider         identity.Provider
	sender           EmailSender
	supportRecipient string
	logger           *zerolog.Logger
}

func NewNotificationUsecase(
	userRepo repository.UserRepository,
	workshopRepo repository.WorkshopRepository,
	registrationRepo repository.RegistrationRepository,
	provider identity.Provider,
	sender EmailSender,
	supportRecipient string,
	logger *zerolog.Logger,
) NotificationUsecase {
	return &notificationUsecase{
		userRepo:         userRepo,
		workshopRepo:     workshopRepo,
		registrationRepo: registrationRepo,
		provider:         provider,
		sender:           sender,
		supportRecipient: supportRecipient,
		logger:           logger,
	}
}

func (u *notificationUsecase) SendWelcome(ctx context.Context, workshopID, userID string) error {
	if _, err := bson.ObjectIDFromHex(userID); err != nil {
		// The identifier can never resolve, so retrying would loop forever.
		u.logger.Error().Err(err).Str("userId", userID).Msg("dropping welcome for unresolvable user id")
		return nil
	}

	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		return err
	}
	if user.Email == "" {
		return nil
	}

	workshop, err := u.workshopRepo.GetWorkshop(ctx, workshopID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// The workshop was deleted before the trigger ran; nothing to send.
			return nil
		}
		return err
	}

	return u.sender.Send(mailer.Email{
		To:      []string{user.Email},
		Subject: "Welcome to " + workshop.Name,
		Body:    workshop.NewSignupEmail,
	})
}

func (u *notificationUsecase) BroadcastToRegistrants(
	ctx context.Context,
	callerID, workshopID, message string,
) ([]string, error) {
	if err := requireAdmin(ctx, u.provider, callerID); err != nil {
		return nil, err
	}

	workshop, err := u.workshopRepo.GetWorkshop(ctx, workshopID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWorkshopNotFound
		}
		return nil, err
	}

	registrants, err := u.registrationRepo.ListWorkshopUsers(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	recipients := make([]string, 0, len(registrants))
	for _, registrant := range registrants {
		if !registrant.ConsentToEmails {
			continue
		}

		user, err := u.userRepo.GetUser(ctx, registrant.UserID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, err
		}
		if user.Email == "" {
			continue
		}

		recipients = append(recipients, user.Email)
	}

	if len(recipients) == 0 {
		return recipients, nil
	}

	if err := u.sender.SendBroadcast(recipients, workshop.Name, message); err != nil {
		return nil, err
	}

	return recipients, nil
}

func (u *notificationUsecase) Promote(
	ctx context.Context,
	callerID, workshopID, message string,
) ([]string, error) {
	if err := requireAdmin(ctx, u.provider, callerID); err != nil {
		return nil, err
	}

	workshop, err := u.workshopRepo.GetWorkshop(ctx, workshopID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWorkshopNotFound
		}
		return nil, err
	}

	consenting, err := u.userRepo.ListConsentingUsers(ctx)
	if err != nil {
		return nil, err
	}

	registrants, err := u.registrationRepo.ListWorkshopUsers(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	registered := make(map[string]struct{}, len(registrants))
	for _, registrant := range registrants {
		registered[registrant.UserID] = struct{}{}
	}

	recipients := promotionRecipients(consenting, registered)
	if len(recipients) == 0 {
		return recipients, nil
	}

	if err := u.sender.SendBroadcast(recipients, workshop.Name, message); err != nil {
		return nil, err
	}

	return recipients, nil
}

func (u *notificationUsecase) SendSupport(ctx context.Context, callerID, message, replyTo string) error {
	if replyTo == "" {
		caller, err := u.provider.GetUser(ctx, callerID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrUserNotFound
			}
			return err
		}
		replyTo = caller.Email
	}

	return u.sender.Send(mailer.Email{
		To:      []string{u.supportRecipient},
		ReplyTo: replyTo,
		Subject: "Support request",
		Body:    message,
	})
}

// promotionRecipients picks the addresses for a promotional broadcast: users
// with an explicit general opt-in, excluding anyone already registered for
// the target workshop. Users whose consent flag is unset are treated as
// opted out.
func promotionRecipients(consenting []*model.User, registered map[string]struct{}) []string {
	recipients := make([]string, 0, len(consenting))
	for _, user := range consenting {
		if user.ConsentToEmails == nil || !*user.ConsentToEmails {
			continue
		}
		if _, ok := registered[user.ID.Hex()]; ok {
			continue
		}
		if user.Email == "" {
			continue
		}
		recipients = append(recipients, user.Email)
	}
	return recipients
}
