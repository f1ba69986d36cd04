// Package auth manages local accounts and the logged-in session.
//
// Accounts live in a JSON object under the users key, keyed by lower-cased
// email. A session exists while userLoggedIn is set; lastLoggedInEmail
// names its user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

var (
	ErrMissingFields      = errors.New("email and password are required")
	ErrAccountExists      = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotLoggedIn        = errors.New("not logged in, run 'habitual login' first")
)

type Service struct {
	kv   storage.KV
	cost int
	now  func() time.Time
}

func NewService(kv storage.KV) *Service {
	return &Service{
		kv:   kv,
		cost: bcrypt.DefaultCost,
		now:  time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) accounts(ctx context.Context) (map[string]models.Account, error) {
	users := map[string]models.Account{}
	if _, err := storage.GetJSON(ctx, s.kv, constants.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	return users, nil
}

func (s *Service) saveAccounts(ctx context.Context, users map[string]models.Account) error {
	if err := storage.SetJSON(ctx, s.kv, constants.KeyUsers, users); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}
	return nil
}

// SignUp registers a new account. It does not log the user in.
func (s *Service) SignUp(ctx context.Context, email, password string) (models.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.Account{}, ErrMissingFields
	}

	users, err := s.accounts(ctx)
	if err != nil {
		return models.Account{}, err
	}
	if _, exists := users[email]; exists {
		return models.Account{}, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}
	account := models.Account{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	users[email] = account
	if err := s.saveAccounts(ctx, users); err != nil {
		return models.Account{}, err
	}
	return account, nil
}

// Login checks the credentials and starts a session.
func (s *Service) Login(ctx context.Context, email, password string) (models.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.Session{}, ErrMissingFields
	}

	users, err := s.accounts(ctx)
	if err != nil {
		return models.Session{}, err
	}
	account, ok := users[email]
	if !ok {
		return models.Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return models.Session{}, ErrInvalidCredentials
	}

	account.LastLoginAt = s.now().UTC()
	users[email] = account
	if err := s.saveAccounts(ctx, users); err != nil {
		return models.Session{}, err
	}
	if err := s.kv.SetItem(ctx, constants.KeyLastLoggedInEmail, email); err != nil {
		return models.Session{}, fmt.Errorf("failed to save session: %w", err)
	}
	if err := s.kv.SetItem(ctx, constants.KeyUserLoggedIn, "true"); err != nil {
		return models.Session{}, fmt.Errorf("failed to save session: %w", err)
	}

	return models.Session{Email: email, LoggedInAt: account.LastLoginAt}, nil
}

// Logout ends the session. It is not an error to log out twice.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.kv.RemoveItem(ctx, constants.KeyLastLoggedInEmail); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if err := s.kv.RemoveItem(ctx, constants.KeyUserLoggedIn); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current returns the logged-in session, or ErrNotLoggedIn.
func (s *Service) Current(ctx context.Context) (models.Session, error) {
	_, loggedIn, err := s.kv.GetItem(ctx, constants.KeyUserLoggedIn)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to read session: %w", err)
	}
	if !loggedIn {
		return models.Session{}, ErrNotLoggedIn
	}

	email, found, err := s.kv.GetItem(ctx, constants.KeyLastLoggedInEmail)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to read session: %w", err)
	}
	if !found || email == "" {
		return models.Session{}, ErrNotLoggedIn
	}

	users, err := s.accounts(ctx)
	if err != nil {
		return models.Session{}, err
	}
	account, ok := users[email]
	if !ok {
		return models.Session{}, ErrNotLoggedIn
	}
	return models.Session{Email: email, LoggedInAt: account.LastLoginAt}, nil
}
