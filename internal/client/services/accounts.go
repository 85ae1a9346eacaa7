// Package services contains the application services of the snapshop client:
// local accounts and sessions, search history, and search orchestration.
package services

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/snapshop/internal/client/models"
	"github.com/dmitrijs2005/snapshop/internal/client/storage"
	"github.com/dmitrijs2005/snapshop/internal/common"
	"github.com/dmitrijs2005/snapshop/internal/logging"
)

// Storage keys. users holds a JSON object of email to account record;
// currentUserEmail holds the session pointer.
const (
	usersKey   = "users"
	sessionKey = "currentUserEmail"
)

// AccountUpdate mutates a copy of the stored account inside UpdateAccount.
type AccountUpdate func(*models.Account)

func WithProfilePic(dataURL string) AccountUpdate {
	return func(a *models.Account) { a.ProfilePic = dataURL }
}

func WithLocation(location string) AccountUpdate {
	return func(a *models.Account) { a.Location = location }
}

// PrependHistory puts e in front, keeping history newest first.
func PrependHistory(e models.HistoryEntry) AccountUpdate {
	return func(a *models.Account) {
		a.History = append([]models.HistoryEntry{e}, a.History...)
	}
}

// AccountStore keeps accounts and the session pointer in a Repository.
//
// Contract:
//   - CreateAccount: register a new email and start its session.
//   - Authenticate: check credentials and start a session.
//   - UpdateAccount: change the logged-in account only.
//   - EndSession: forget the session, keep the account.
//   - LoadSession: resolve the session pointer to an account.
//
// This is a local convenience identity, not a security boundary: passwords
// are stored as entered.
type AccountStore struct {
	repo storage.Repository
	log  logging.Logger
	mu   sync.Mutex
}

func NewAccountStore(repo storage.Repository, log logging.Logger) *AccountStore {
	if log == nil {
		log = logging.Nop()
	}
	return &AccountStore{repo: repo, log: log.With("component", "accounts")}
}

func (s *AccountStore) CreateAccount(ctx context.Context, email, password string) (*models.Account, error) {
	if isBlank(email) || isBlank(password) {
		return nil, common.ErrCredentialsRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := users[email]; ok {
		return nil, common.ErrDuplicateAccount
	}

	acc := &models.Account{Email: email, Password: password, History: []models.HistoryEntry{}}
	users[email] = acc

	raw, err := json.Marshal(users)
	if err != nil {
		return nil, fmt.Errorf("encode accounts: %w", err)
	}
	if err := s.repo.SetMany(ctx, map[string][]byte{
		usersKey:   raw,
		sessionKey: []byte(email),
	}); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}

	s.log.Info(ctx, "account created", "email", email)
	return acc.Clone(), nil
}

func (s *AccountStore) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	if isBlank(email) || isBlank(password) {
		return nil, common.ErrCredentialsRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	acc, ok := users[email]
	if !ok || subtle.ConstantTimeCompare([]byte(acc.Password), []byte(password)) != 1 {
		return nil, common.ErrInvalidCredentials
	}

	if err := s.repo.Set(ctx, sessionKey, []byte(email)); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.log.Info(ctx, "logged in", "email", email)
	return acc.Clone(), nil
}

// UpdateAccount applies updates to the account of the active session. It
// fails with common.ErrNotFound when email is not the logged-in user or has
// no record. The email itself can never be changed.
func (s *AccountStore) UpdateAccount(ctx context.Context, email string, updates ...AccountUpdate) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.sessionEmail(ctx)
	if err != nil {
		return nil, err
	}
	if current != email {
		return nil, common.ErrNotFound
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	stored, ok := users[email]
	if !ok {
		return nil, common.ErrNotFound
	}

	acc := stored.Clone()
	for _, update := range updates {
		update(acc)
	}
	acc.Email = email
	users[email] = acc

	raw, err := json.Marshal(users)
	if err != nil {
		return nil, fmt.Errorf("encode accounts: %w", err)
	}
	if err := s.repo.Set(ctx, usersKey, raw); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}
	return acc.Clone(), nil
}

func (s *AccountStore) EndSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// LoadSession returns the logged-in account, or common.ErrNoSession when the
// pointer is missing or names an unknown email.
func (s *AccountStore) LoadSession(ctx context.Context) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, err := s.sessionEmail(ctx)
	if err != nil {
		return nil, err
	}
	if email == "" {
		return nil, common.ErrNoSession
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	acc, ok := users[email]
	if !ok {
		s.log.Warn(ctx, "session points to unknown account", "email", email)
		return nil, common.ErrNoSession
	}
	return acc.Clone(), nil
}

func (s *AccountStore) sessionEmail(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, sessionKey)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return string(v), nil
}

// loadUsers decodes the account map. A corrupted blob is treated as empty so
// the next write replaces it.
func (s *AccountStore) loadUsers(ctx context.Context) (map[string]*models.Account, error) {
	raw, err := s.repo.Get(ctx, usersKey)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	users := map[string]*models.Account{}
	if len(raw) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(raw, &users); err != nil {
		s.log.Warn(ctx, "stored accounts are corrupted, starting empty", "error", err)
		return map[string]*models.Account{}, nil
	}
	if users == nil {
		// "null" decodes without error
		s.log.Warn(ctx, "stored accounts are null, starting empty")
		return map[string]*models.Account{}, nil
	}

	for email, acc := range users {
		if acc == nil {
			delete(users, email)
			continue
		}
		acc.Email = email
		if acc.History == nil {
			acc.History = []models.HistoryEntry{}
		}
	}
	return users, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
