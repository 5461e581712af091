// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"task_backend/internal/feature/auth/domain"
	"task_backend/internal/feature/auth/domain/entity"
	"task_backend/internal/platform/apperr"
	jwtmw "task_backend/internal/platform/jwt"
)

const (
	// minPasswordLength is the minimum number of characters in a password.
	minPasswordLength = 6

	bearerPrefix = "Bearer "
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention, the interface is defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user and assigns its ID.
	// It returns domain.ErrUserAlreadyExists if the email is already taken.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves the user with the given normalized email.
	// It returns domain.ErrUserNotFound if the user does not exist.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID retrieves the user with the given ID.
	// It returns domain.ErrUserNotFound if the user does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// Touch sets the user's UpdatedAt to at.
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
}

// PasswordHasher computes and checks one-way password hashes.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	// Verify reports a mismatch (including a malformed hash) as false.
	Verify(ctx context.Context, plaintext, hashed string) (bool, error)
}

// TokenCodec issues and verifies signed session tokens.
type TokenCodec interface {
	Issue(userID, email string) (string, error)
	Verify(token string) (*jwtmw.Claims, error)
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	User  entity.Identity
	Token string
}

// authUsecase implements registration, login and request authentication.
type authUsecase struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenCodec
	now    func() time.Time

	dummyMu   sync.Mutex
	dummyHash string
}

// NewAuthUsecase creates a new instance of authUsecase.
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, tokens TokenCodec) *authUsecase {
	return &authUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

// normalizeEmail lowercases an email for storage and comparison.
func normalizeEmail(email string) string {
	return strings.ToLower(email)
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return domain.ErrCredentialsRequired
	}
	if !emailPattern.MatchString(email) {
		return domain.ErrInvalidEmail
	}
	return nil
}

// Register creates a new user with a hashed password and returns the
// user together with a fresh token.
func (u *authUsecase) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	if len([]rune(password)) < minPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}
	email = normalizeEmail(email)

	// Cheap early exit; the store's unique index remains the authority
	// when two registrations race.
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to look up user")
	}

	hashed, err := u.hasher.Hash(ctx, password)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to hash password")
	}

	user := &entity.User{Email: email, Password: hashed}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to create user")
	}

	token, err := u.tokens.Issue(user.ID.String(), user.Email)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to generate token")
	}
	return &AuthResult{User: user.Identity(), Token: token}, nil
}

// Login authenticates a user and returns a signed token on success.
// A bcrypt comparison runs even when the email is unknown, so both
// failure paths take comparable time.
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to look up user")
	}

	var passwordHash string
	if user != nil {
		passwordHash = user.Password
	} else {
		passwordHash, err = u.timingHash(ctx)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.Internal, "failed to prepare timing hash")
		}
	}
	match, verifyErr := u.hasher.Verify(ctx, password, passwordHash)
	if verifyErr != nil {
		return nil, apperr.Wrap(verifyErr, apperr.Internal, "failed to verify password")
	}
	if user == nil || !match {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(user.ID.String(), user.Email)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to generate token")
	}

	// TODO: UpdatedAt doubles as "last login"; split it out if a
	// dedicated last_login_at column is ever added to the users table.
	now := u.now()
	if err := u.users.Touch(ctx, user.ID, now); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to update user")
	}
	user.UpdatedAt = now

	return &AuthResult{User: user.Identity(), Token: token}, nil
}

// Authenticate resolves an Authorization header value to a live user.
// Token validity and user existence are checked separately and in that
// order; a valid token for a deleted user is rejected.
func (u *authUsecase) Authenticate(ctx context.Context, authorization string) (*entity.Identity, error) {
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return nil, domain.ErrNoToken
	}
	token := strings.TrimPrefix(authorization, bearerPrefix)

	claims, err := u.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", domain.ErrInvalidToken)
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperr.Wrap(err, apperr.Internal, "Authentication failed")
	}

	identity := user.Identity()
	return &identity, nil
}

// timingHash returns a valid hash used to equalise login latency for
// unknown emails. It is computed with the configured cost, detached from the
// caller's cancellation, and only a successful result is kept.
func (u *authUsecase) timingHash(ctx context.Context) (string, error) {
	u.dummyMu.Lock()
	defer u.dummyMu.Unlock()
	if u.dummyHash != "" {
		return u.dummyHash, nil
	}
	hashed, err := u.hasher.Hash(context.WithoutCancel(ctx), "timing-equalisation-password")
	if err != nil {
		return "", err
	}
	if hashed == "" {
		return "", errors.New("hasher returned an empty hash")
	}
	u.dummyHash = hashed
	return hashed, nil
}
