package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

const CookieName = "portal_sid"

type ctxKey struct{}

type current struct {
	id  string
	rec Record
}

// Manager owns every write to session storage. Handlers read the session from
// the request context and go through the Manager to change it.
type Manager struct {
	store  Store
	secure bool
}

func NewManager(store Store, secureCookie bool) *Manager {
	return &Manager{store: store, secure: secureCookie}
}

func (m *Manager) Store() Store {
	return m.store
}

// Begin stores sess under a fresh id and sets the session cookie. Any session
// already on the request is discarded.
func (m *Manager) Begin(w http.ResponseWriter, r *http.Request, sess Session) (context.Context, error) {
	ctx := r.Context()
	if old, ok := ctx.Value(ctxKey{}).(*current); ok {
		if err := m.store.Delete(ctx, old.id); err != nil {
			return ctx, err
		}
	}

	id := uuid.NewString()
	rec := Record{Session: &sess}
	if err := m.store.Save(ctx, id, rec); err != nil {
		return ctx, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return context.WithValue(ctx, ctxKey{}, &current{id: id, rec: rec}), nil
}

// End deletes the stored record and expires the cookie.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	var err error
	if c, ok := r.Context().Value(ctxKey{}).(*current); ok {
		err = m.store.Delete(r.Context(), c.id)
		c.rec = Record{}
	} else if cookie, cerr := r.Cookie(CookieName); cerr == nil && cookie.Value != "" {
		err = m.store.Delete(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return err
}

// Load attaches the record named by the request cookie to the context. A
// missing cookie or an unknown id leaves the request anonymous.
func (m *Manager) Load(r *http.Request) (*http.Request, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return r, nil
	}

	rec, err := m.store.Load(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return r, nil
		}
		return r, err
	}
	if rec.Session == nil {
		return r, nil
	}

	ctx := context.WithValue(r.Context(), ctxKey{}, &current{id: cookie.Value, rec: rec})
	return r.WithContext(ctx), nil
}

// Update applies fn to the session's State and saves the result. It is a no-op
// for anonymous requests.
func (m *Manager) Update(ctx context.Context, fn func(*State)) error {
	c, ok := ctx.Value(ctxKey{}).(*current)
	if !ok || c.rec.Session == nil {
		return nil
	}

	rec := c.rec
	fn(&rec.State)
	if err := m.store.Save(ctx, c.id, rec); err != nil {
		return fmt.Errorf("update session state: %w", err)
	}
	c.rec = rec
	return nil
}

func (m *Manager) Flash(ctx context.Context, level, text string) error {
	return m.Update(ctx, func(s *State) {
		s.Notices = append(s.Notices, Notice{Level: level, Text: text})
	})
}

// TakeNotices returns pending flash notices and clears them.
func (m *Manager) TakeNotices(ctx context.Context) ([]Notice, error) {
	notices := StateFromContext(ctx).Notices
	if len(notices) == 0 {
		return nil, nil
	}
	err := m.Update(ctx, func(s *State) { s.Notices = nil })
	return notices, err
}

// FromContext returns the signed-in session, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	c, ok := ctx.Value(ctxKey{}).(*current)
	if !ok || c.rec.Session == nil {
		return nil, false
	}
	return c.rec.Session, true
}

// StateFromContext returns a snapshot of the session's UI state.
func StateFromContext(ctx context.Context) State {
	if c, ok := ctx.Value(ctxKey{}).(*current); ok {
		return c.rec.State
	}
	return State{}
}

// ID returns the session id, or "" for anonymous requests.
func ID(ctx context.Context) string {
	if c, ok := ctx.Value(ctxKey{}).(*current); ok && c.rec.Session != nil {
		return c.id
	}
	return ""
}
