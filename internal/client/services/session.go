package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"sync"

	"dermascan/internal/client/auth"
	"dermascan/internal/client/models"
	"dermascan/internal/client/repositories/kv"
	"dermascan/internal/common"
	"dermascan/internal/dbx"
	"dermascan/internal/logging"
)

// SessionState is a snapshot of the authentication state. Token is non-empty
// exactly while a login is live; CurrentUser is the record captured at login
// time, not a live view of the stored account.
type SessionState struct {
	Token        string
	CurrentUser  *models.UserRecord
	IsLoading    bool
	ErrorMessage string
}

// LoggedIn reports whether the snapshot represents an authenticated session.
func (s SessionState) LoggedIn() bool {
	return s.Token != "" && s.CurrentUser != nil
}

// SessionManager is the single source of truth for who is logged in. It
// mediates all session-related store I/O and notifies subscribers on every
// state change. All methods are safe for concurrent use.
//
// Store failures never propagate as panics or leave the state mid-load: they
// land in ErrorMessage with IsLoading reset.
type SessionManager struct {
	db     *sql.DB
	issuer *auth.TokenIssuer
	log    logging.Logger

	mu        sync.Mutex
	state     SessionState
	observers []func(SessionState)
}

func NewSessionManager(db *sql.DB, issuer *auth.TokenIssuer, log logging.Logger) *SessionManager {
	return &SessionManager{
		db:     db,
		issuer: issuer,
		log:    log,
		state:  SessionState{IsLoading: true},
	}
}

// Subscribe registers fn to be called with every subsequent state snapshot.
// It is called synchronously, outside the manager's lock.
func (m *SessionManager) Subscribe(fn func(SessionState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// State returns the current snapshot.
func (m *SessionManager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// set replaces the state under the lock and notifies observers after
// releasing it.
func (m *SessionManager) set(mutate func(*SessionState)) {
	m.mu.Lock()
	mutate(&m.state)
	snapshot := m.state
	observers := m.observers
	m.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

func (m *SessionManager) repo() kv.Repository {
	return kv.NewSQLiteRepository(m.db)
}

// Initialize derives the session from the store. Idempotent: calling it again
// re-reads and overwrites the in-memory state. A stored user without a token
// (or the reverse) counts as logged out; that is the recovery rule for a
// crash between the two login writes done by any older revision.
func (m *SessionManager) Initialize(ctx context.Context) {
	m.set(func(s *SessionState) { s.IsLoading = true })

	repo := m.repo()

	token, tokenErr := repo.Get(ctx, keyUserToken)
	rawUser, userErr := repo.Get(ctx, keyCurrentUser)

	if tokenErr != nil || userErr != nil {
		err := tokenErr
		if err == nil {
			err = userErr
		}
		m.log.Error(ctx, "failed to restore session", "error", err)
		m.set(func(s *SessionState) {
			*s = SessionState{ErrorMessage: "could not restore session"}
		})
		return
	}

	var user *models.UserRecord
	if len(rawUser) > 0 {
		var u models.UserRecord
		if err := json.Unmarshal(rawUser, &u); err != nil {
			m.log.Warn(ctx, "stored session user is corrupted", "error", err)
			m.set(func(s *SessionState) {
				*s = SessionState{ErrorMessage: "could not restore session"}
			})
			return
		}
		user = &u
	}

	if len(token) == 0 || user == nil {
		m.set(func(s *SessionState) { *s = SessionState{} })
		return
	}

	m.set(func(s *SessionState) {
		*s = SessionState{Token: string(token), CurrentUser: user}
	})
}

// SignUp overwrites the single local account wholesale. It does not log the
// new user in and does not touch any live session.
func (m *SessionManager) SignUp(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || password == "" {
		return common.ErrCredentialsRequired
	}
	if !strings.Contains(email, "@") {
		return common.ErrValidation
	}

	record := models.UserRecord{Name: name, Email: email, Password: password}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}

	if err := m.repo().Set(ctx, keyUserData, raw); err != nil {
		m.log.Error(ctx, "failed to save account", "error", err)
		return err
	}

	m.log.Info(ctx, "account registered", "email", record.OwnerID())
	return nil
}

// Login authenticates against the stored account. On success it issues a
// fresh token and persists token and user copy in one transaction. On any
// failure the previous session, if one exists, is left untouched.
func (m *SessionManager) Login(ctx context.Context, identifier, secret string) error {
	m.set(func(s *SessionState) {
		s.IsLoading = true
		s.ErrorMessage = ""
	})

	if strings.TrimSpace(identifier) == "" || secret == "" {
		return m.fail(ctx, common.ErrCredentialsRequired, "credentials required")
	}

	repo := m.repo()

	rawUser, err := repo.Get(ctx, keyUserData)
	if err != nil {
		m.log.Error(ctx, "failed to read account", "error", err)
		return m.fail(ctx, err, "could not read stored account")
	}
	if len(rawUser) == 0 {
		return m.fail(ctx, common.ErrNoRegisteredUser, "no registered user, sign up first")
	}

	var record models.UserRecord
	if err := json.Unmarshal(rawUser, &record); err != nil {
		m.log.Error(ctx, "stored account is corrupted", "error", err)
		return m.fail(ctx, err, "stored account is corrupted")
	}

	if !MatchCredentials(identifier, secret, record) {
		return m.fail(ctx, common.ErrInvalidCredentials, "invalid credentials")
	}

	token, err := m.issuer.Issue(ctx, record.Email)
	if err != nil {
		m.log.Error(ctx, "failed to issue token", "error", err)
		return m.fail(ctx, err, "could not start session")
	}

	// User copy first, token second, both in one transaction: either both
	// land or neither does, and Initialize treats a user without a token as
	// logged out anyway.
	err = dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := kv.NewSQLiteRepository(tx)
		if err := txRepo.Set(ctx, keyCurrentUser, rawUser); err != nil {
			return err
		}
		return txRepo.Set(ctx, keyUserToken, []byte(token))
	})
	if err != nil {
		m.log.Error(ctx, "failed to persist session", "error", err)
		return m.fail(ctx, err, "could not persist session")
	}

	m.set(func(s *SessionState) {
		*s = SessionState{Token: token, CurrentUser: &record}
	})
	m.log.Info(ctx, "login successful", "email", record.OwnerID())
	return nil
}

// fail records a login failure: loading off, message set, token and user
// exactly as they were.
func (m *SessionManager) fail(ctx context.Context, err error, msg string) error {
	m.set(func(s *SessionState) {
		s.IsLoading = false
		s.ErrorMessage = msg
	})
	return err
}

// Logout clears the persisted session and resets the in-memory state. The
// in-memory state goes logged-out even when store removal fails; a storage
// error must never keep the user looking authenticated.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.set(func(s *SessionState) { s.IsLoading = true })

	err := dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := kv.NewSQLiteRepository(tx)
		if err := txRepo.Delete(ctx, keyUserToken); err != nil {
			return err
		}
		return txRepo.Delete(ctx, keyCurrentUser)
	})

	if err != nil {
		m.log.Error(ctx, "failed to clear persisted session", "error", err)
		m.set(func(s *SessionState) {
			*s = SessionState{ErrorMessage: "could not fully clear session"}
		})
		return err
	}

	m.set(func(s *SessionState) { *s = SessionState{} })
	m.log.Info(ctx, "logged out")
	return nil
}

// ClearError clears the error message and nothing else.
func (m *SessionManager) ClearError() {
	m.set(func(s *SessionState) { s.ErrorMessage = "" })
}
