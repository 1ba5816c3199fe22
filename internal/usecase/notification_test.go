package usecase

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atelierhub/workshop-hub-api/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func newNotificationFixture(
	userRepo *fakeUserRepo,
	workshopRepo *fakeWorkshopRepo,
	registrationRepo *fakeRegistrationRepo,
	provider *fakeProvider,
) (NotificationUsecase, *fakeSender) {
	sender := &fakeSender{}
	logger := zerolog.Nop()
	u := NewNotificationUsecase(
		userRepo, workshopRepo, registrationRepo, provider,
		sender, "support@example.com", &logger,
	)
	return u, sender
}

func TestSendWelcomeUsesWorkshopTemplate(t *testing.T) {
	registrant := newPlainUser("maker@example.com")
	workshop := registrationTestWorkshop()
	workshop.NewSignupEmail = "Bring an apron!"

	u, sender := newNotificationFixture(
		newFakeUserRepo(registrant),
		newFakeWorkshopRepo(workshop),
		&fakeRegistrationRepo{},
		newFakeProvider(),
	)

	if err := u.SendWelcome(context.Background(), "ws-1", registrant.ID.Hex()); err != nil {
		t.Fatalf("SendWelcome: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	email := sender.sent[0]
	if !slices.Equal(email.To, []string{"maker@example.com"}) {
		t.Errorf("wrong recipient: %v", email.To)
	}
	if email.Subject != "Welcome to Intro to Pottery" {
		t.Errorf("wrong subject: %q", email.Subject)
	}
	if email.Body != "Bring an apron!" {
		t.Errorf("wrong body: %q", email.Body)
	}
}

func TestSendWelcomeSilentWhenWorkshopGone(t *testing.T) {
	registrant := newPlainUser("maker@example.com")
	u, sender := newNotificationFixture(
		newFakeUserRepo(registrant),
		newFakeWorkshopRepo(),
		&fakeRegistrationRepo{},
		newFakeProvider(),
	)

	if err := u.SendWelcome(context.Background(), "deleted", registrant.ID.Hex()); err != nil {
		t.Errorf("deleted workshop must not fail the trigger: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Error("no email expected")
	}
}

func TestSendWelcomeSilentWhenUserGone(t *testing.T) {
	u, sender := newNotificationFixture(
		newFakeUserRepo(),
		newFakeWorkshopRepo(registrationTestWorkshop()),
		&fakeRegistrationRepo{},
		newFakeProvider(),
	)

	if err := u.SendWelcome(context.Background(), "ws-1", bson.NewObjectID().Hex()); err != nil {
		t.Errorf("deleted user must not fail the trigger: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Error("no email expected")
	}
}

func TestSendWelcomeDropsUnresolvableUserID(t *testing.T) {
	u, sender := newNotificationFixture(
		newFakeUserRepo(),
		newFakeWorkshopRepo(registrationTestWorkshop()),
		&fakeRegistrationRepo{},
		newFakeProvider(),
	)

	// An ID that can never parse must be dropped, not handed back to the
	// queue for endless redelivery.
	if err := u.SendWelcome(context.Background(), "ws-1", "not-a-hex-object-id"); err != nil {
		t.Errorf("unresolvable user id must not fail the trigger: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Error("no email expected")
	}
}

func TestBroadcastToRegistrantsFiltersByWorkshopConsent(t *testing.T) {
	admin := newAdminUser("admin@example.com")
	consenting := newPlainUser("yes@example.com")
	declined := newPlainUser("no@example.com")

	registrationRepo := &fakeRegistrationRepo{
		workshopUsers: []*model.WorkshopUser{
			{WorkshopID: "ws-1", UserID: consenting.ID.Hex(), ConsentToEmails: true},
			{WorkshopID: "ws-1", UserID: declined.ID.Hex(), ConsentToEmails: false},
		},
	}

	u, sender := newNotificationFixture(
		newFakeUserRepo(consenting, declined),
		newFakeWorkshopRepo(registrationTestWorkshop()),
		registrationRepo,
		newFakeProvider(admin),
	)

	recipients, err := u.BroadcastToRegistrants(context.Background(), admin.ID.Hex(), "ws-1", "New date!")
	if err != nil {
		t.Fatalf("BroadcastToRegistrants: %v", err)
	}

	if !slices.Equal(recipients, []string{"yes@example.com"}) {
		t.Errorf("expected only consenting registrants, got %v", recipients)
	}
	if len(sender.broadcasts) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(sender.broadcasts))
	}
	broadcast := sender.broadcasts[0]
	if !slices.Equal(broadcast.Bcc, []string{"yes@example.com"}) {
		t.Errorf("recipients must be blind-copied: %v", broadcast.Bcc)
	}
	if broadcast.Subject != "Intro to Pottery" {
		t.Errorf("subject should be the workshop name, got %q", broadcast.Subject)
	}
}

func TestBroadcastToRegistrantsNoConsentingRecipients(t *testing.T) {
	admin := newAdminUser("admin@example.com")
	u, sender := newNotificationFixture(
		newFakeUserRepo(),
		newFakeWorkshopRepo(registrationTestWorkshop()),
		&fakeRegistrationRepo{},
		newFakeProvider(admin),
	)

	recipients, err := u.BroadcastToRegistrants(context.Background(), admin.ID.Hex(), "ws-1", "hi")
	if err != nil {
		t.Fatalf("BroadcastToRegistrants: %v", err)
	}
	if len(recipients) != 0 || len(sender.broadcasts) != 0 {
		t.Error("nothing should be sent with no consenting registrants")
	}
}

func TestBroadcastToRegistrantsRequiresAdmin(t *testing.T) {
	caller := newPlainUser("member@example.com")
	u, _ := newNotificationFixture(
		newFakeUserRepo(),
		newFakeWorkshopRepo(registrationTestWorkshop()),
		&fakeRegistrationRepo{},
		newFakeProvider(caller),
	)

	_, err := u.BroadcastToRegistrants(context.Background(), caller.ID.Hex(), "ws-1", "hi")
	if !errors.Is(err, ErrNotAdmin) {
		t.Errorf("expected ErrNotAdmin, got %v", err)
	}
}

func TestPromoteExcludesRegistrantsAndNonConsenters(t *testing.T) {
	admin := newAdminUser("admin@example.com")
	optedIn := newPlainUser("optin@example.com")
	optedIn.ConsentToEmails = boolPtr(true)
	alreadyRegistered := newPlainUser("registered@example.com")
	alreadyRegistered.ConsentToEmails = boolPtr(true)

	userRepo := newFakeUserRepo(optedIn, alreadyRegistered)
	userRepo.consenting = []*model.User{optedIn, alreadyRegistered}

	registrationRepo := &fakeRegistrationRepo{
		workshopUsers: []*model.WorkshopUser{
			{WorkshopID: "ws-1", UserID: alreadyRegistered.ID.Hex(), ConsentToEmails: true},
		},
	}

	u, sender := newNotificationFixture(
		userRepo,
		newFakeWorkshopRepo(registrationTestWorkshop()),
		registrationRepo,
		newFakeProvider(admin),
	)

	recipients, err := u.Promote(context.Background(), admin.ID.Hex(), "ws-1", "Seats left!")
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}

	if !slices.Equal(recipients, []string{"optin@example.com"}) {
		t.Errorf("expected registered users excluded, got %v", recipients)
	}
	if len(sender.broadcasts) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(sender.broadcasts))
	}
}

func TestPromotionRecipientsTreatsUnsetConsentAsOptedOut(t *testing.T) {
	optedIn := newPlainUser("optin@example.com")
	optedIn.ConsentToEmails = boolPtr(true)
	declined := newPlainUser("declined@example.com")
	declined.ConsentToEmails = boolPtr(false)
	undecided := newPlainUser("undecided@example.com")
	noEmail := newPlainUser("")
	noEmail.ConsentToEmails = boolPtr(true)

	recipients := promotionRecipients(
		[]*model.User{optedIn, declined, undecided, noEmail},
		map[string]struct{}{},
	)

	if !slices.Equal(recipients, []string{"optin@example.com"}) {
		t.Errorf("only an explicit opt-in qualifies, got %v", recipients)
	}
}

func TestSendSupportFallsBackToCallerEmail(t *testing.T) {
	caller := newPlainUser("caller@example.com")
	u, sender := newNotificationFixture(
		newFakeUserRepo(),
		newFakeWorkshopRepo(),
		&fakeRegistrationRepo{},
		newFakeProvider(caller),
	)

	if err := u.SendSupport(context.Background(), caller.ID.Hex(), "kiln is broken", ""); err != nil {
		t.Fatalf("SendSupport: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	email := sender.sent[0]
	if !slices.Equal(email.To, []string{"support@example.com"}) {
		t.Errorf("support mail must go to the fixed recipient: %v", email.To)
	}
	if email.ReplyTo != "caller@example.com" {
		t.Errorf("reply-to should fall back to the caller, got %q", email.ReplyTo)
	}
}

func TestSendSupportPrefersExplicitReplyTo(t *testing.T) {
	caller := newPlainUser("caller@example.com")
	u, sender := newNotificationFixture(
		newFakeUserRepo(),
		newFakeWorkshopRepo(),
		&fakeRegistrationRepo{},
		newFakeProvider(caller),
	)

	if err := u.SendSupport(context.Background(), caller.ID.Hex(), "hello", "other@example.com"); err != nil {
		t.Fatalf("SendSupport: %v", err)
	}

	if sender.sent[0].ReplyTo != "other@example.com" {
		t.Errorf("explicit reply-to must win, got %q", sender.sent[0].ReplyTo)
	}
}
