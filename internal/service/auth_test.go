package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmdc/cmdc/internal/identity"
	"github.com/cmdc/cmdc/internal/models"
	"github.com/cmdc/cmdc/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuthRepo struct {
	UpsertUserFunc    func(ctx context.Context, user models.User) error
	CreateSessionFunc func(ctx context.Context, session models.Session) error
	GetSessionFunc    func(ctx context.Context, token string) (*models.Session, error)
	DeleteSessionFunc func(ctx context.Context, token string) error
}

func (m *mockAuthRepo) UpsertUser(ctx context.Context, user models.User) error {
	return m.UpsertUserFunc(ctx, user)
}
func (m *mockAuthRepo) CreateSession(ctx context.Context, session models.Session) error {
	return m.CreateSessionFunc(ctx, session)
}
func (m *mockAuthRepo) GetSession(ctx context.Context, token string) (*models.Session, error) {
	return m.GetSessionFunc(ctx, token)
}
func (m *mockAuthRepo) DeleteSession(ctx context.Context, token string) error {
	return m.DeleteSessionFunc(ctx, token)
}

type fakeVerifier struct {
	user models.User
	err  error
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (models.User, error) {
	return f.user, f.err
}

func TestLogin_IssuesSession(t *testing.T) {
	var upserted models.User
	var created models.Session
	repo := &mockAuthRepo{
		UpsertUserFunc: func(_ context.Context, user models.User) error {
			upserted = user
			return nil
		},
		CreateSessionFunc: func(_ context.Context, session models.Session) error {
			created = session
			return nil
		},
	}
	verifier := &fakeVerifier{user: models.User{UID: "u1", DisplayName: "Alice"}}
	svc := service.NewAuthService(repo, verifier, time.Hour)

	session, user, err := svc.Login(context.Background(), "provider-token")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UID)
	assert.Equal(t, "u1", upserted.UID)
	assert.Equal(t, created.Token, session.Token)

	// session tokens are uuids
	_, err = uuid.Parse(session.Token)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)
}

func TestLogin_InvalidToken(t *testing.T) {
	verifier := &fakeVerifier{err: identity.ErrInvalidToken}
	svc := service.NewAuthService(&mockAuthRepo{}, verifier, time.Hour)

	_, _, err := svc.Login(context.Background(), "bad")
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestAuthenticate_KnownToken(t *testing.T) {
	repo := &mockAuthRepo{
		GetSessionFunc: func(_ context.Context, token string) (*models.Session, error) {
			return &models.Session{Token: token, UID: "u1"}, nil
		},
	}
	svc := service.NewAuthService(repo, &fakeVerifier{}, time.Hour)

	uid, err := svc.Authenticate(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
}

func TestAuthenticate_UnknownTokenIsAnonymous(t *testing.T) {
	repo := &mockAuthRepo{
		GetSessionFunc: func(context.Context, string) (*models.Session, error) {
			return nil, nil
		},
	}
	svc := service.NewAuthService(repo, &fakeVerifier{}, time.Hour)

	uid, err := svc.Authenticate(context.Background(), "tok-x")
	require.NoError(t, err)
	assert.Empty(t, uid)
}

func TestLogout_DeletesSession(t *testing.T) {
	deleted := ""
	repo := &mockAuthRepo{
		DeleteSessionFunc: func(_ context.Context, token string) error {
			deleted = token
			return nil
		},
	}
	svc := service.NewAuthService(repo, &fakeVerifier{}, time.Hour)

	require.NoError(t, svc.Logout(context.Background(), "tok-1"))
	assert.Equal(t, "tok-1", deleted)
}

func TestLogin_StoreErrorPropagates(t *testing.T) {
	wantErr := errors.New("db down")
	repo := &mockAuthRepo{
		UpsertUserFunc: func(context.Context, models.User) error {
			return wantErr
		},
	}
	verifier := &fakeVerifier{user: models.User{UID: "u1"}}
	svc := service.NewAuthService(repo, verifier, time.Hour)

	_, _, err := svc.Login(context.Background(), "tok")
	assert.ErrorIs(t, err, wantErr)
}
