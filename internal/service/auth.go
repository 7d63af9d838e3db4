package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/photoflow/photoflow-go/internal/crypto"
	"github.com/photoflow/photoflow-go/internal/model"
	"github.com/photoflow/photoflow-go/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSlugTaken          = errors.New("portfolio link already in use")
	ErrInvalidSlug        = errors.New("portfolio link may only contain lowercase letters, digits, and hyphens")
	ErrBioTooLong         = errors.New("bio must be 280 characters or fewer")
	ErrNotAdmin           = errors.New("admin access required")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

const maxBioLength = 280

// AuthService owns registration, login, session issuance, and profile
// maintenance. Sessions are stateless signed tokens; nothing is kept
// server-side beyond the user record itself.
type AuthService struct {
	store      store.Store
	secret     string
	ttl        time.Duration
	adminEmail string
}

func NewAuthService(st store.Store, secret string, ttl time.Duration, adminEmail string) *AuthService {
	return &AuthService{
		store:      st,
		secret:     secret,
		ttl:        ttl,
		adminEmail: adminEmail,
	}
}

// Register creates an account with an empty profile. The caller still has
// to log in and complete the profile before the rest of the app opens up.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user := model.User{
		Email:           email,
		Password:        hash,
		ProfileComplete: false,
	}
	if _, err := s.store.AddUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// Login verifies credentials and issues a session token embedding the
// user's public fields. Unknown email and bad password collapse into the
// same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.AuthResponse, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := crypto.VerifyPassword(password, user.Password)
	if err != nil || !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	return s.issueSession(*user)
}

// CurrentUser re-reads the user behind a verified session so callers see
// fresh fields rather than the snapshot frozen into the token.
func (s *AuthService) CurrentUser(ctx context.Context, email string) (model.User, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	return user.Sanitized(), nil
}

// ChangePassword swaps the credential after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, email, current, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	match, err := crypto.VerifyPassword(current, user.Password)
	if err != nil || !match {
		return ErrWrongPassword
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	_, err = s.store.UpdateUser(ctx, email, model.UserPatch{Password: &hash})
	return err
}

// UpdateProfile saves the editable profile fields, marks the profile
// complete, and re-issues the session token so its embedded snapshot
// reflects the update. A portfolio slug held by another user is rejected.
func (s *AuthService) UpdateProfile(ctx context.Context, email string, update model.ProfileUpdate) (model.AuthResponse, error) {
	if len(update.Bio) > maxBioLength {
		return model.AuthResponse{}, ErrBioTooLong
	}
	if update.PortfolioSlug != "" {
		if !slugPattern.MatchString(update.PortfolioSlug) {
			return model.AuthResponse{}, ErrInvalidSlug
		}
		holder, err := s.store.FindUserBySlug(ctx, update.PortfolioSlug)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return model.AuthResponse{}, err
		}
		if holder != nil && holder.Email != email {
			return model.AuthResponse{}, ErrSlugTaken
		}
	}

	complete := true
	patch := model.UserPatch{
		Name:              &update.Name,
		Company:           &update.Company,
		Phone:             &update.Phone,
		PortfolioSlug:     &update.PortfolioSlug,
		ProfilePictureURL: &update.ProfilePictureURL,
		Bio:               &update.Bio,
		Website:           &update.Website,
		Instagram:         &update.Instagram,
		Twitter:           &update.Twitter,
		ProfileComplete:   &complete,
	}
	user, err := s.store.UpdateUser(ctx, email, patch)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			return model.AuthResponse{}, ErrSlugTaken
		}
		return model.AuthResponse{}, err
	}

	return s.issueSession(*user)
}

// ListUsers returns every account with passwords stripped. Restricted to
// the configured admin account.
func (s *AuthService) ListUsers(ctx context.Context, callerEmail string) ([]model.User, error) {
	if !s.IsAdmin(callerEmail) {
		return nil, ErrNotAdmin
	}
	return s.store.ListUsers(ctx)
}

// IsAdmin reports whether the email is the configured admin account.
// When no admin is configured, nobody is one.
func (s *AuthService) IsAdmin(email string) bool {
	return s.adminEmail != "" && email == s.adminEmail
}

func (s *AuthService) issueSession(user model.User) (model.AuthResponse, error) {
	token, err := crypto.NewSessionToken(user, s.secret, s.ttl)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("signing session token: %w", err)
	}
	return model.AuthResponse{Token: token, User: user.Sanitized()}, nil
}
