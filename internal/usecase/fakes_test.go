package usecase

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/atelierhub/workshop-hub-api/internal/model"
	"github.com/atelierhub/workshop-hub-api/internal/repository"
	"github.com/atelierhub/workshop-hub-api/internal/trigger"
	"github.com/atelierhub/workshop-hub-api/shared/mailer"
	"github.com/atelierhub/workshop-hub-api/shared/patch"
)

// fakeProvider is an in-memory identity.Provider keyed by user ID hex.
type fakeProvider struct {
	users     map[string]*model.User
	claimErrs map[string]error
}

func newFakeProvider(users ...*model.User) *fakeProvider {
	provider := &fakeProvider{
		users:     make(map[string]*model.User),
		claimErrs: make(map[string]error),
	}
	for _, user := range users {
		provider.users[user.ID.Hex()] = user
	}
	return provider
}

func (f *fakeProvider) GetUser(_ context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (f *fakeProvider) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeProvider) SetCustomUserClaims(
	_ context.Context,
	id string,
	claims map[string]any,
) (*model.User, error) {
	if err := f.claimErrs[id]; err != nil {
		return nil, err
	}

	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if user.CustomClaims == nil {
		user.CustomClaims = make(map[string]any)
	}
	for key, value := range claims {
		user.CustomClaims[key] = value
	}
	return user, nil
}

func (f *fakeProvider) DeleteUser(_ context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	delete(f.users, id)
	return user, nil
}

func newAdminUser(email string) *model.User {
	return &model.User{
		ID:           bson.NewObjectID(),
		Email:        email,
		CustomClaims: map[string]any{model.ClaimAdmin: true},
	}
}

func newPlainUser(email string) *model.User {
	return &model.User{
		ID:    bson.NewObjectID(),
		Email: email,
	}
}

// fakeUserRepo serves the user lookups notification flows need.
type fakeUserRepo struct {
	users      map[string]*model.User
	consenting []*model.User
	createErr  error
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*model.User)}
	for _, user := range users {
		repo.users[user.ID.Hex()] = user
	}
	return repo
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	user.ID = bson.NewObjectID()
	f.users[user.ID.Hex()] = user
	return user, nil
}

func (f *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) UpdateUser(
	_ context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.ConsentToEmails != nil {
		user.ConsentToEmails = params.ConsentToEmails
	}
	if params.CustomClaims != nil {
		user.CustomClaims = params.CustomClaims
	}
	return user, nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	delete(f.users, id)
	return user, nil
}

func (f *fakeUserRepo) ListConsentingUsers(_ context.Context) ([]*model.User, error) {
	return f.consenting, nil
}

// fakeWorkshopRepo serves workshops from a map.
type fakeWorkshopRepo struct {
	workshops map[string]*model.Workshop
}

func newFakeWorkshopRepo(workshops ...*model.Workshop) *fakeWorkshopRepo {
	repo := &fakeWorkshopRepo{workshops: make(map[string]*model.Workshop)}
	for _, workshop := range workshops {
		repo.workshops[workshop.ID] = workshop
	}
	return repo
}

func (f *fakeWorkshopRepo) CreateWorkshop(_ context.Context, workshop *model.Workshop) (*model.Workshop, error) {
	f.workshops[workshop.ID] = workshop
	return workshop, nil
}

func (f *fakeWorkshopRepo) GetWorkshop(_ context.Context, id string) (*model.Workshop, error) {
	workshop, ok := f.workshops[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return workshop, nil
}

func (f *fakeWorkshopRepo) UpdateWorkshop(
	_ context.Context,
	id string,
	_ repository.UpdateWorkshopParams,
) (*model.Workshop, error) {
	workshop, ok := f.workshops[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return workshop, nil
}

func (f *fakeWorkshopRepo) DeleteWorkshop(_ context.Context, id string) (*model.Workshop, error) {
	workshop, ok := f.workshops[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	delete(f.workshops, id)
	return workshop, nil
}

func (f *fakeWorkshopRepo) ListWorkshops(_ context.Context) ([]*model.Workshop, error) {
	workshops := make([]*model.Workshop, 0, len(f.workshops))
	for _, workshop := range f.workshops {
		workshops = append(workshops, workshop)
	}
	return workshops, nil
}

// fakeRegistrationRepo records registrations and serves canned lists.
type fakeRegistrationRepo struct {
	registerErr   error
	workshopUsers []*model.WorkshopUser
	userWorkshops []*model.UserWorkshop
	unregistered  [][2]string
}

func (f *fakeRegistrationRepo) Register(
	_ context.Context,
	workshopUser *model.WorkshopUser,
	userWorkshop *model.UserWorkshop,
) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.workshopUsers = append(f.workshopUsers, workshopUser)
	f.userWorkshops = append(f.userWorkshops, userWorkshop)
	return nil
}

func (f *fakeRegistrationRepo) Unregister(_ context.Context, userID, workshopID string) error {
	found := false
	for i, workshopUser := range f.workshopUsers {
		if workshopUser.UserID == userID && workshopUser.WorkshopID == workshopID {
			f.workshopUsers = append(f.workshopUsers[:i], f.workshopUsers[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return mongo.ErrNoDocuments
	}

	// Both sides go together, as in the transactional repository.
	for i, userWorkshop := range f.userWorkshops {
		if userWorkshop.UserID == userID && userWorkshop.WorkshopID == workshopID {
			f.userWorkshops = append(f.userWorkshops[:i], f.userWorkshops[i+1:]...)
			break
		}
	}

	f.unregistered = append(f.unregistered, [2]string{userID, workshopID})
	return nil
}

func (f *fakeRegistrationRepo) SetConsent(_ context.Context, userID, workshopID string, consent bool) error {
	for _, workshopUser := range f.workshopUsers {
		if workshopUser.UserID == userID && workshopUser.WorkshopID == workshopID {
			workshopUser.ConsentToEmails = consent
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeRegistrationRepo) ListWorkshopUsers(_ context.Context, workshopID string) ([]*model.WorkshopUser, error) {
	var registrants []*model.WorkshopUser
	for _, workshopUser := range f.workshopUsers {
		if workshopUser.WorkshopID == workshopID {
			registrants = append(registrants, workshopUser)
		}
	}
	return registrants, nil
}

func (f *fakeRegistrationRepo) ListUserWorkshops(_ context.Context, userID string) ([]*model.UserWorkshop, error) {
	var workshops []*model.UserWorkshop
	for _, userWorkshop := range f.userWorkshops {
		if userWorkshop.UserID == userID {
			workshops = append(workshops, userWorkshop)
		}
	}
	return workshops, nil
}

func (f *fakeRegistrationRepo) PatchUserCopies(_ context.Context, _ string, _ patch.Patch) (int64, error) {
	return 0, nil
}

func (f *fakeRegistrationRepo) DeleteByWorkshop(_ context.Context, _ string) error { return nil }

func (f *fakeRegistrationRepo) DeleteByUser(_ context.Context, _ string) error { return nil }

// fakePublisher records published trigger events.
type fakePublisher struct {
	events []trigger.Event
}

func (f *fakePublisher) Publish(_ context.Context, event trigger.Event) error {
	f.events = append(f.events, event)
	return nil
}

// fakeSender records outbound email instead of dialing SMTP.
type fakeSender struct {
	sent       []mailer.Email
	broadcasts []mailer.Email
}

func (f *fakeSender) Send(email mailer.Email) error {
	f.sent = append(f.sent, email)
	return nil
}

func (f *fakeSender) SendBroadcast(bcc []string, subject, body string) error {
	f.broadcasts = append(f.broadcasts, mailer.Email{Bcc: bcc, Subject: subject, Body: body})
	return nil
}
