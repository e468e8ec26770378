package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/simplenotes/notes/internal/store"
	"github.com/simplenotes/notes/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// maxCredentialLength matches the width of the users columns.
const maxCredentialLength = 50

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// SessionIssuer creates and verifies session tokens.
type SessionIssuer interface {
	Issue(userID int) (types.Session, error)
	Parse(token string) (types.Session, error)
}

// RegisterInput carries the sign-up form fields.
type RegisterInput struct {
	FullName string
	Username string
	Email    string
	Password string
}

// AuthService verifies credentials and manages sessions.
type AuthService struct {
	users    UserRepository
	sessions SessionIssuer
	hashCost int
	log      logrus.FieldLogger
}

func NewAuthService(users UserRepository, sessions SessionIssuer, hashCost int, log logrus.FieldLogger) *AuthService {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		hashCost: hashCost,
		log:      log.WithField("component", "auth"),
	}
}

// Register creates an account and logs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (types.Session, types.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = normalizeUsername(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Password = strings.TrimSpace(in.Password)

	if err := validateRegistration(in); err != nil {
		return types.Session{}, types.User{}, err
	}

	// The unique constraints decide; this lookup only avoids hashing for
	// obvious duplicates.
	if _, err := s.users.FindByUsernameOrEmail(ctx, in.Username, in.Email); err == nil {
		s.log.WithField("username", in.Username).Warn("user already exists")
		return types.Session{}, types.User{}, ErrConflict
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.Session{}, types.User{}, fmt.Errorf("check existing user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return types.Session{}, types.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, types.User{
		FullName:     in.FullName,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			s.log.WithField("username", in.Username).Warn("user already exists")
			return types.Session{}, types.User{}, ErrConflict
		}
		return types.Session{}, types.User{}, fmt.Errorf("create user: %w", err)
	}

	sess, err := s.sessions.Issue(user.ID)
	if err != nil {
		return types.Session{}, types.User{}, fmt.Errorf("issue session: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return sess, user, nil
}

// Login authenticates by username (case-insensitive) or email.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (types.Session, types.User, error) {
	email := strings.TrimSpace(identifier)
	username := normalizeUsername(identifier)
	password = strings.TrimSpace(password)

	// No stored user can match text the database would refuse.
	if !storableText(email) {
		s.log.Warn("user does not exist")
		return types.Session{}, types.User{}, ErrUnknownUser
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.log.WithField("identifier", email).Warn("user does not exist")
			return types.Session{}, types.User{}, ErrUnknownUser
		}
		return types.Session{}, types.User{}, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.WithField("user_id", user.ID).Warn("incorrect password")
		return types.Session{}, types.User{}, ErrBadCredentials
	}

	sess, err := s.sessions.Issue(user.ID)
	if err != nil {
		return types.Session{}, types.User{}, fmt.Errorf("issue session: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("user logged in")
	return sess, user, nil
}

// Logout ends the session carried by token. The caller is responsible for
// removing the token from the client.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	sess, err := s.sessions.Parse(token)
	if err != nil {
		return ErrUnauthenticated
	}
	s.log.WithField("user_id", sess.UserID).Info("user logged out")
	return nil
}

// CurrentUser resolves token to its user. The user is loaded from the store
// on every call.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (types.User, error) {
	sess, err := s.sessions.Parse(token)
	if err != nil {
		return types.User{}, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrUnauthenticated
		}
		return types.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validateRegistration(in RegisterInput) error {
	fields := []struct {
		name  string
		value string
	}{
		{"fullname", in.FullName},
		{"username", in.Username},
		{"email", in.Email},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, f.name)
		}
		if !storableText(f.value) {
			return fmt.Errorf("%w: %s contains invalid characters", ErrInvalidInput, f.name)
		}
		if utf8.RuneCountInString(f.value) > maxCredentialLength {
			return fmt.Errorf("%w: %s is longer than %d characters", ErrInvalidInput, f.name, maxCredentialLength)
		}
	}
	if in.Password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if len(in.Password) > maxPasswordBytes {
		return fmt.Errorf("%w: password is longer than %d bytes", ErrInvalidInput, maxPasswordBytes)
	}
	return nil
}
