// Package session owns the client-side current-user state: restored from
// durable storage on start, set on login, cleared on logout. There is one
// Manager per running client, and it is the only writer of that state.
package session

import (
	"context"
	"encoding/json"
	"log"

	"github.com/uhiportal/doctor-portal-api/internal/models"
)

// Credentialer is the slice of the account service the session needs.
type Credentialer interface {
	VerifyCredentials(ctx context.Context, email, password string) (*models.User, error)
}

type Manager struct {
	accounts Credentialer
	store    Store
	current  *models.SessionUser
}

// NewManager builds a session manager and restores any previously persisted
// session. A missing or corrupt record means signed-out; it never fails.
func NewManager(accounts Credentialer, store Store) *Manager {
	m := &Manager{accounts: accounts, store: store}
	m.restore()
	return m
}

func (m *Manager) restore() {
	data, err := m.store.Load()
	if err != nil {
		log.Printf("Session restore failed, starting signed out: %v", err)
		return
	}
	if len(data) == 0 {
		return
	}

	var user models.SessionUser
	if err := json.Unmarshal(data, &user); err != nil || user.ID == "" || !user.Role.Valid() {
		log.Println("Stored session record is unusable, starting signed out.")
		m.store.Clear()
		return
	}
	m.current = &user
}

// Current returns the signed-in user's view, or nil when signed out.
func (m *Manager) Current() *models.SessionUser {
	return m.current
}

// Login verifies the credentials, then sets and persists the sanitized
// view. On any failure the session is left exactly as it was.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.SessionUser, error) {
	account, err := m.accounts.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	view := account.View()
	data, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(data); err != nil {
		return nil, err
	}
	m.current = &view
	return &view, nil
}

// Logout clears the session and its durable copy. Safe to call when
// already signed out.
func (m *Manager) Logout() error {
	m.current = nil
	return m.store.Clear()
}
