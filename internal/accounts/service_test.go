package accounts

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/socdash/socdash/internal/shared"
)

type mockRepository struct {
	byID    map[uuid.UUID]*User
	byEmail map[string]*User

	createErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		byID:    make(map[uuid.UUID]*User),
		byEmail: make(map[string]*User),
	}
}

func (m *mockRepository) CreateInvited(ctx context.Context, user User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byEmail[user.Email]; ok {
		return shared.ErrEmailTaken
	}
	stored := user
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.byID[stored.ID] = &stored
	m.byEmail[stored.Email] = &stored
	return nil
}

func (m *mockRepository) ActivateByToken(ctx context.Context, token string, params ActivationParams) (*User, error) {
	for _, user := range m.byID {
		if user.ActivationToken != nil && *user.ActivationToken == token && !user.IsActivated {
			user.Username = &params.Username
			user.Name = &params.Name
			user.PasswordHash = &params.PasswordHash
			user.IsActivated = true
			user.ActivationToken = nil
			copied := *user
			return &copied, nil
		}
	}
	return nil, shared.ErrInvalidToken
}

func (m *mockRepository) List(ctx context.Context) ([]User, error) {
	users := make([]User, 0, len(m.byID))
	for _, user := range m.byID {
		users = append(users, *user)
	}
	return users, nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	user, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(m.byEmail, user.Email)
	delete(m.byID, id)
	return nil
}

func (m *mockRepository) ExpireTrial(ctx context.Context, id uuid.UUID) (*User, error) {
	user, ok := m.byID[id]
	if !ok || !user.IsTrial {
		return nil, shared.ErrNotFound
	}
	user.IsActivated = false
	copied := *user
	return &copied, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (s *stubMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

type scheduledExpiry struct {
	userID uuid.UUID
	email  string
	delay  time.Duration
}

type stubScheduler struct {
	scheduled []scheduledExpiry
	cancelled []uuid.UUID
	err       error
}

func (s *stubScheduler) ScheduleTrialExpiry(ctx context.Context, userID uuid.UUID, email string, delay time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.scheduled = append(s.scheduled, scheduledExpiry{userID: userID, email: email, delay: delay})
	return nil
}

func (s *stubScheduler) CancelTrialExpiry(ctx context.Context, userID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.cancelled = append(s.cancelled, userID)
	return nil
}

func newTestService(repo Repository, mailer Mailer, scheduler TrialScheduler) *Service {
	return NewService(repo, mailer, scheduler, slog.Default(), ServiceConfig{
		ActivationURL: "http://localhost:3000/activate",
		TrialDuration: 5 * time.Minute,
		TrialRole:     "admin",
	})
}

func TestCreateInvitationPersistsAndMails(t *testing.T) {
	repo := newMockRepository()
	mailer := &stubMailer{}
	svc := newTestService(repo, mailer, &stubScheduler{})

	err := svc.CreateInvitation(context.Background(), "new@x.com", "analyst")
	require.NoError(t, err)

	require.Len(t, repo.byEmail, 1)
	user := repo.byEmail["new@x.com"]
	require.NotNil(t, user)
	assert.False(t, user.IsActivated)
	assert.False(t, user.IsTrial)
	assert.Equal(t, "analyst", user.Role)
	require.NotNil(t, user.ActivationToken)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "new@x.com", mailer.sent[0].to)
	assert.Equal(t, "You're Invited to SOC Dashboard", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, *user.ActivationToken)
	assert.Contains(t, mailer.sent[0].body, "http://localhost:3000/activate")
}

func TestCreateInvitationDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	mailer := &stubMailer{}
	svc := newTestService(repo, mailer, &stubScheduler{})

	require.NoError(t, svc.CreateInvitation(context.Background(), "dup@x.com", "analyst"))
	mailer.sent = nil

	for _, attempt := range []func() error{
		func() error { return svc.CreateInvitation(context.Background(), "dup@x.com", "admin") },
		func() error { return svc.CreateFreeTrial(context.Background(), "dup@x.com") },
		func() error { return svc.CreatePaidInvitation(context.Background(), "dup@x.com", "admin") },
	} {
		err := attempt()
		require.ErrorIs(t, err, shared.ErrEmailTaken)
	}
	assert.Len(t, repo.byEmail, 1)
	assert.Empty(t, mailer.sent, "conflict must not send email")
}

func TestCreateInvitationMailFailureKeepsRecord(t *testing.T) {
	repo := newMockRepository()
	mailer := &stubMailer{err: errors.New("smtp down")}
	svc := newTestService(repo, mailer, &stubScheduler{})

	err := svc.CreateInvitation(context.Background(), "orphan@x.com", "analyst")
	require.Error(t, err)
	// The invited row is persisted before delivery; it stays behind.
	assert.NotNil(t, repo.byEmail["orphan@x.com"])
}

func TestCreateFreeTrialMarksTrial(t *testing.T) {
	repo := newMockRepository()
	mailer := &stubMailer{}
	svc := newTestService(repo, mailer, &stubScheduler{})

	require.NoError(t, svc.CreateFreeTrial(context.Background(), "a@x.com"))

	user := repo.byEmail["a@x.com"]
	require.NotNil(t, user)
	assert.True(t, user.IsTrial)
	assert.False(t, user.IsActivated)
	assert.Equal(t, "admin", user.Role)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Free Trial Invitation - 5 Minutes", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "?token="+*user.ActivationToken)
}

func TestCreatePaidInvitationIsNotTrial(t *testing.T) {
	repo := newMockRepository()
	mailer := &stubMailer{}
	svc := newTestService(repo, mailer, &stubScheduler{})

	require.NoError(t, svc.CreatePaidInvitation(context.Background(), "paid@x.com", "viewer"))

	user := repo.byEmail["paid@x.com"]
	require.NotNil(t, user)
	assert.False(t, user.IsTrial)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Payment Success - Activate Your SOC Dashboard Account", mailer.sent[0].subject)
}

func TestActivateSetsCredentialsAndClearsToken(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &stubMailer{}, &stubScheduler{})

	require.NoError(t, svc.CreateInvitation(context.Background(), "act@x.com", "analyst"))
	token := *repo.byEmail["act@x.com"].ActivationToken

	require.NoError(t, svc.Activate(context.Background(), token, "acct", "s3cretpw", "Account Holder"))

	user := repo.byEmail["act@x.com"]
	assert.True(t, user.IsActivated)
	assert.Nil(t, user.ActivationToken)
	require.NotNil(t, user.Username)
	assert.Equal(t, "acct", *user.Username)
	require.NotNil(t, user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte("s3cretpw")))
}

func TestActivateTokenRedeemsAtMostOnce(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &stubMailer{}, &stubScheduler{})

	require.NoError(t, svc.CreateInvitation(context.Background(), "once@x.com", "analyst"))
	token := *repo.byEmail["once@x.com"].ActivationToken

	require.NoError(t, svc.Activate(context.Background(), token, "once", "password1", "Once"))
	err := svc.Activate(context.Background(), token, "twice", "password2", "Twice")
	require.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestActivateUnknownToken(t *testing.T) {
	svc := newTestService(newMockRepository(), &stubMailer{}, &stubScheduler{})
	err := svc.Activate(context.Background(), "never-issued", "user", "password", "User")
	require.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestActivateTrialSchedulesExpiry(t *testing.T) {
	repo := newMockRepository()
	scheduler := &stubScheduler{}
	svc := newTestService(repo, &stubMailer{}, scheduler)

	require.NoError(t, svc.CreateFreeTrial(context.Background(), "trial@x.com"))
	user := repo.byEmail["trial@x.com"]
	token := *user.ActivationToken

	require.NoError(t, svc.Activate(context.Background(), token, "trial", "password1", "Trial"))

	require.Len(t, scheduler.scheduled, 1)
	assert.Equal(t, user.ID, scheduler.scheduled[0].userID)
	assert.Equal(t, "trial@x.com", scheduler.scheduled[0].email)
	assert.Equal(t, 5*time.Minute, scheduler.scheduled[0].delay)
}

func TestActivateNonTrialDoesNotSchedule(t *testing.T) {
	repo := newMockRepository()
	scheduler := &stubScheduler{}
	svc := newTestService(repo, &stubMailer{}, scheduler)

	require.NoError(t, svc.CreateInvitation(context.Background(), "plain@x.com", "analyst"))
	token := *repo.byEmail["plain@x.com"].ActivationToken
	require.NoError(t, svc.Activate(context.Background(), token, "plain", "password1", "Plain"))

	assert.Empty(t, scheduler.scheduled)
}

func TestActivateScheduleFailureDoesNotFailActivation(t *testing.T) {
	repo := newMockRepository()
	scheduler := &stubScheduler{err: errors.New("redis down")}
	svc := newTestService(repo, &stubMailer{}, scheduler)

	require.NoError(t, svc.CreateFreeTrial(context.Background(), "t@x.com"))
	token := *repo.byEmail["t@x.com"].ActivationToken

	require.NoError(t, svc.Activate(context.Background(), token, "t", "password1", "T"))
	assert.True(t, repo.byEmail["t@x.com"].IsActivated)
}

func TestDeleteUserCancelsPendingExpiry(t *testing.T) {
	repo := newMockRepository()
	scheduler := &stubScheduler{}
	svc := newTestService(repo, &stubMailer{}, scheduler)

	require.NoError(t, svc.CreateFreeTrial(context.Background(), "gone@x.com"))
	id := repo.byEmail["gone@x.com"].ID

	require.NoError(t, svc.DeleteUser(context.Background(), id))

	assert.Empty(t, repo.byID)
	require.Len(t, scheduler.cancelled, 1)
	assert.Equal(t, id, scheduler.cancelled[0])

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestDeleteUserMissing(t *testing.T) {
	svc := newTestService(newMockRepository(), &stubMailer{}, &stubScheduler{})
	err := svc.DeleteUser(context.Background(), uuid.New())
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestExpireTrialDeactivates(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &stubMailer{}, &stubScheduler{})

	require.NoError(t, svc.CreateFreeTrial(context.Background(), "exp@x.com"))
	user := repo.byEmail["exp@x.com"]
	token := *user.ActivationToken
	require.NoError(t, svc.Activate(context.Background(), token, "exp", "password1", "Exp"))
	require.True(t, repo.byEmail["exp@x.com"].IsActivated)

	expired, err := svc.ExpireTrial(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "exp@x.com", expired.Email)
	assert.False(t, repo.byEmail["exp@x.com"].IsActivated)
	// The token was cleared at activation and expiry does not restore it, so
	// the record is terminal. Kept as-is on purpose.
	assert.Nil(t, repo.byEmail["exp@x.com"].ActivationToken)
}

func TestExpireTrialMissingUser(t *testing.T) {
	svc := newTestService(newMockRepository(), &stubMailer{}, &stubScheduler{})
	_, err := svc.ExpireTrial(context.Background(), uuid.New())
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListUsersProjectionOmitsSecrets(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &stubMailer{}, &stubScheduler{})
	require.NoError(t, svc.CreateInvitation(context.Background(), "list@x.com", "analyst"))

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "list@x.com", users[0].Email)
	assert.False(t, users[0].IsActivated)
}
