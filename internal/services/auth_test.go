package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/simplenotes/notes/internal/session"
	"github.com/simplenotes/notes/internal/store"
	"github.com/simplenotes/notes/internal/store/storetest"
	"github.com/simplenotes/notes/types"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*AuthService, *storetest.Users, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	users := storetest.NewUsers()
	sessions := session.NewManager("test-secret", time.Hour, false)
	return NewAuthService(users, sessions, bcrypt.MinCost, logger), users, hook
}

func register(t *testing.T, svc *AuthService, fullname, username, email, password string) types.User {
	t.Helper()
	_, user, err := svc.Register(context.Background(), RegisterInput{
		FullName: fullname,
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func TestRegister_NormalizesAndHashes(t *testing.T) {
	svc, _, _ := newAuthService(t)

	sess, user, err := svc.Register(context.Background(), RegisterInput{
		FullName: " Jane Doe ",
		Username: "  JaNe ",
		Email:    " jane@x.com ",
		Password: "pw123",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", user.FullName)
	assert.Equal(t, "jane", user.Username)
	assert.Equal(t, "jane@x.com", user.Email)
	assert.NotEqual(t, "pw123", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123")))

	assert.Equal(t, user.ID, sess.UserID)
	assert.NotEmpty(t, sess.Token)
}

func TestRegister_DuplicateUsernameCaseInsensitive(t *testing.T) {
	svc, _, hook := newAuthService(t)
	register(t, svc, "Jane Doe", "jane", "jane@x.com", "pw123")

	_, _, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Other Jane",
		Username: "JANE",
		Email:    "other@x.com",
		Password: "pw456",
	})
	assert.ErrorIs(t, err, ErrConflict)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	register(t, svc, "Jane Doe", "jane", "jane@x.com", "pw123")

	_, _, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Janet",
		Username: "janet",
		Email:    "jane@x.com",
		Password: "pw456",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

// racingUsers reports no existing user on lookup, so the duplicate is only
// caught by the unique constraint on insert.
type racingUsers struct {
	*storetest.Users
}

func (racingUsers) FindByUsernameOrEmail(context.Context, string, string) (types.User, error) {
	return types.User{}, store.ErrNotFound
}

func TestRegister_ConstraintViolationIsConflict(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	users := racingUsers{storetest.NewUsers()}
	svc := NewAuthService(users, session.NewManager("k", time.Hour, false), bcrypt.MinCost, logger)
	register(t, svc, "Jane Doe", "jane", "jane@x.com", "pw123")

	_, _, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Jane Again",
		Username: "jane",
		Email:    "again@x.com",
		Password: "pw123",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, users, _ := newAuthService(t)

	long := make([]byte, maxCredentialLength+1)
	for i := range long {
		long[i] = 'a'
	}

	cases := map[string]RegisterInput{
		"missing fullname": {Username: "a", Email: "a@x.com", Password: "p"},
		"missing username": {FullName: "A", Username: "   ", Email: "a@x.com", Password: "p"},
		"missing email":    {FullName: "A", Username: "a", Password: "p"},
		"missing password": {FullName: "A", Username: "a", Email: "a@x.com", Password: "  "},
		"long username":    {FullName: "A", Username: string(long), Email: "a@x.com", Password: "p"},
		"long password":    {FullName: "A", Username: "a", Email: "a@x.com", Password: strings.Repeat("p", maxPasswordBytes+1)},
		"nul in fullname":  {FullName: "A\x00B", Username: "a", Email: "a@x.com", Password: "p"},
		"invalid utf-8":    {FullName: "A", Username: "a", Email: "a\xff@x.com", Password: "p"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := users.FindByUsernameOrEmail(context.Background(), "a", "a@x.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogin_ByUsernameAndEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	user := register(t, svc, "Jane Doe", "jane", "jane@x.com", "pw123")

	for _, identifier := range []string{"JANE", "jane", " jane ", "jane@x.com"} {
		t.Run(identifier, func(t *testing.T) {
			sess, got, err := svc.Login(context.Background(), identifier, "pw123")
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
			assert.Equal(t, user.ID, sess.UserID)
		})
	}
}

func TestLogin_Failures(t *testing.T) {
	svc, _, _ := newAuthService(t)
	register(t, svc, "Jane Doe", "jane", "jane@x.com", "pw123")

	sess, _, err := svc.Login(context.Background(), "jane", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Empty(t, sess.Token)

	sess, _, err = svc.Login(context.Background(), "nobody", "pw123")
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Empty(t, sess.Token)

	for _, info := range []string{"ja\x00ne", "jane\xff"} {
		_, _, err = svc.Login(context.Background(), info, "pw123")
		assert.ErrorIs(t, err, ErrUnknownUser)
	}
}

func TestRegister_LongestPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)
	password := strings.Repeat("p", maxPasswordBytes)
	register(t, svc, "Jane Doe", "jane", "jane@x.com", password)

	_, _, err := svc.Login(context.Background(), "jane", password)
	require.NoError(t, err)
}

func TestCurrentUser(t *testing.T) {
	svc, users, _ := newAuthService(t)
	sess, user, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Jane Doe",
		Username: "jane",
		Email:    "jane@x.com",
		Password: "pw123",
	})
	require.NoError(t, err)

	got, err := svc.CurrentUser(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.CurrentUser(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// The user is re-read on every call, so removal is seen immediately.
	users.Delete(user.ID)
	_, err = svc.CurrentUser(context.Background(), sess.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

type failingUsers struct {
	storetest.Users
}

func (*failingUsers) GetByID(context.Context, int) (types.User, error) {
	return types.User{}, errors.New("connection lost")
}

func TestCurrentUser_StoreError(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	sessions := session.NewManager("k", time.Hour, false)
	svc := NewAuthService(&failingUsers{}, sessions, bcrypt.MinCost, logger)

	sess, err := sessions.Issue(1)
	require.NoError(t, err)

	_, err = svc.CurrentUser(context.Background(), sess.Token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestLogout(t *testing.T) {
	svc, _, hook := newAuthService(t)
	sess, _, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Jane Doe",
		Username: "jane",
		Email:    "jane@x.com",
		Password: "pw123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), sess.Token))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "user logged out", hook.LastEntry().Message)

	assert.ErrorIs(t, svc.Logout(context.Background(), ""), ErrUnauthenticated)
}
