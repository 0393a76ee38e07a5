// Package auth registers users, checks their credentials and issues the
// bearer tokens the HTTP bridge accepts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/rustyeddy/tradelog/internal/logging"
	"github.com/rustyeddy/tradelog/journal"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the shortest password Register and ChangePassword accept.
const MinPasswordLen = 6

type Store interface {
	journal.Repository
	InTx(ctx context.Context, fn func(repo journal.Repository) error) error
}

type Service struct {
	store    Store
	defaults journal.UserSettings
	cost     int
	log      logging.Logger
}

type Option func(*Service)

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a Service that seeds every new user with a copy of defaults.
func New(store Store, defaults journal.UserSettings, opts ...Option) *Service {
	s := &Service{
		store:    store,
		defaults: defaults,
		cost:     bcrypt.DefaultCost,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user and its settings row in one transaction.
func (s *Service) Register(ctx context.Context, email, password string) (*journal.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var u *journal.User
	err = s.store.InTx(ctx, func(repo journal.Repository) error {
		var err error
		if u, err = repo.CreateUser(ctx, email, string(hash)); err != nil {
			return err
		}
		st := s.defaults
		st.UserID = u.ID
		_, err = repo.CreateSettings(ctx, &st)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login returns the user when the password matches. Unknown emails and
// wrong passwords both fail with common.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (*journal.User, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.Warn(ctx, "login failed", "user_id", u.ID)
		return nil, fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
	}
	return u, nil
}

// ChangePassword rotates the credential hash after checking the old
// password.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)); err != nil {
		return fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
	}
	if err := checkPassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.log.Info(ctx, "password changed", "user_id", userID)
	return nil
}

func (s *Service) Settings(ctx context.Context, userID int64) (*journal.UserSettings, error) {
	return s.store.GetSettings(ctx, userID)
}

func (s *Service) UpdateSettings(ctx context.Context, userID int64, p journal.SettingsPatch) (*journal.UserSettings, error) {
	return s.store.UpdateSettings(ctx, userID, p)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", common.Invalid("invalid email %q", email)
	}
	return email, nil
}

func checkPassword(p string) error {
	if len(p) < MinPasswordLen {
		return common.Invalid("password must be at least %d characters", MinPasswordLen)
	}
	return nil
}
