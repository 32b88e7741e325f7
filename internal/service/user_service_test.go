package service

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	f.nextID++
	user.UserID = f.nextID
	f.users[user.UserID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, db.ErrUserNotFound
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*model.Session
}

func (f *fakeSessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	f.sessions[session.SessionID] = session
	return nil
}

func (f *fakeSessionRepo) GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, db.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessionRepo) DeleteSession(ctx context.Context, id uuid.UUID) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) error {
	for id, s := range f.sessions {
		if s.ExpiredAt.Before(before) {
			delete(f.sessions, id)
		}
	}
	return nil
}

var (
	_ db.IUserRepository    = (*fakeUserRepo)(nil)
	_ db.ISessionRepository = (*fakeSessionRepo)(nil)
)

func newTestUserService() (*UserService, *fakeUserRepo, *fakeSessionRepo) {
	userRepo := &fakeUserRepo{users: map[uint]*model.User{}}
	sessionRepo := &fakeSessionRepo{sessions: map[uuid.UUID]*model.Session{}}
	return NewUserService(userRepo, sessionRepo), userRepo, sessionRepo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestUserService()

	user, err := svc.Register(context.Background(), "a@example.com", "hunter2secret", "Alice")
	require.NoError(t, err)
	require.NotZero(t, user.UserID)
	// 密碼不落明文
	require.NotEqual(t, "hunter2secret", user.HashedPassword)

	session, loggedIn, err := svc.Login(context.Background(), "a@example.com", "hunter2secret")
	require.NoError(t, err)
	require.Equal(t, user.UserID, loggedIn.UserID)
	require.True(t, session.ExpiredAt.After(time.Now()))
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, _, _ := newTestUserService()

	_, err := svc.Register(context.Background(), "a@example.com", "hunter2secret", "Alice")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "a@example.com", "otherpassword", "Alice2")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestUserService()

	_, err := svc.Register(context.Background(), "a@example.com", "hunter2secret", "Alice")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "a@example.com", "wrongpassword")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "hunter2secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newTestUserService()

	user, err := svc.Register(context.Background(), "a@example.com", "hunter2secret", "Alice")
	require.NoError(t, err)
	session, _, err := svc.Login(context.Background(), "a@example.com", "hunter2secret")
	require.NoError(t, err)

	authed, err := svc.Authenticate(context.Background(), session.SessionID.String())
	require.NoError(t, err)
	require.Equal(t, user.UserID, authed.UserID)

	_, err = svc.Authenticate(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, ErrSessionInvalid)

	_, err = svc.Authenticate(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrSessionInvalid)
}

func TestAuthenticate_ExpiredSessionIsDeleted(t *testing.T) {
	svc, _, sessionRepo := newTestUserService()

	user, err := svc.Register(context.Background(), "a@example.com", "hunter2secret", "Alice")
	require.NoError(t, err)

	expired := &model.Session{
		SessionID: uuid.New(),
		UserID:    user.UserID,
		ExpiredAt: time.Now().UTC().Add(-time.Minute),
	}
	require.NoError(t, sessionRepo.CreateSession(context.Background(), expired))

	_, err = svc.Authenticate(context.Background(), expired.SessionID.String())
	require.ErrorIs(t, err, ErrSessionInvalid)
	// 過期session被順手清掉
	require.NotContains(t, sessionRepo.sessions, expired.SessionID)
}

func TestLogout(t *testing.T) {
	svc, _, sessionRepo := newTestUserService()

	_, err := svc.Register(context.Background(), "a@example.com", "hunter2secret", "Alice")
	require.NoError(t, err)
	session, _, err := svc.Login(context.Background(), "a@example.com", "hunter2secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), session.SessionID))
	require.Empty(t, sessionRepo.sessions)

	_, err = svc.Authenticate(context.Background(), session.SessionID.String())
	require.ErrorIs(t, err, ErrSessionInvalid)
}
