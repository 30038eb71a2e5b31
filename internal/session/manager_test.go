package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("OT")
	require.NoError(t, err)
	assert.Equal(t, RoleOT, r)

	_, err = ParseRole("doctor")
	assert.Error(t, err)
}

func TestDashboardPath(t *testing.T) {
	assert.Equal(t, "/doctor/dashboard", DashboardPath(RoleDoctor))
	assert.Equal(t, "/ot/dashboard", DashboardPath(RoleOT))
	assert.Equal(t, "/admin", DashboardPath(RoleAdmin))
	assert.Equal(t, "/", DashboardPath(Role("Janitor")))
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestManager_BeginLoadEnd(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	ctx, err := m.Begin(w, r, Session{UserID: "u1", Name: "Asha", Role: RolePatient, Token: "tok"})
	require.NoError(t, err)

	sess, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, RolePatient, sess.Role)

	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Zero(t, cookie.MaxAge)

	next := httptest.NewRequest(http.MethodGet, "/patient/dashboard", nil)
	next.AddCookie(cookie)
	loaded, err := m.Load(next)
	require.NoError(t, err)

	sess, ok = FromContext(loaded.Context())
	require.True(t, ok)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, cookie.Value, ID(loaded.Context()))

	out := httptest.NewRecorder()
	require.NoError(t, m.End(out, loaded))
	assert.Equal(t, -1, sessionCookie(t, out).MaxAge)

	_, err = store.Load(context.Background(), cookie.Value)
	assert.ErrorIs(t, err, ErrNotFound)
	_, ok = FromContext(loaded.Context())
	assert.False(t, ok)
}

func TestManager_LoadUnknownCookie(t *testing.T) {
	m := NewManager(NewMemoryStore(), false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "stale"})
	loaded, err := m.Load(r)
	require.NoError(t, err)

	_, ok := FromContext(loaded.Context())
	assert.False(t, ok)
	assert.Empty(t, ID(loaded.Context()))
}

func TestManager_BeginReplacesExisting(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, true)

	first, err := m.Begin(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/login", nil), Session{UserID: "u1", Role: RolePatient})
	require.NoError(t, err)
	oldID := ID(first)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil).WithContext(first)
	second, err := m.Begin(w, r, Session{UserID: "u2", Role: RoleAdmin})
	require.NoError(t, err)

	assert.NotEqual(t, oldID, ID(second))
	assert.True(t, sessionCookie(t, w).Secure)
	_, err = store.Load(context.Background(), oldID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_FlashAndUpdate(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, false)

	ctx, err := m.Begin(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/login", nil), Session{UserID: "u1", Role: RoleDoctor})
	require.NoError(t, err)

	require.NoError(t, m.Update(ctx, func(s *State) {
		s.Draft.Diagnosis = "Fever"
		s.Draft.AddMedicine("Paracetamol")
	}))
	require.NoError(t, m.Flash(ctx, NoticeSuccess, "Medicine added"))

	stored, err := store.Load(context.Background(), ID(ctx))
	require.NoError(t, err)
	assert.Equal(t, "Fever", stored.State.Draft.Diagnosis)
	require.Len(t, stored.State.Notices, 1)

	notices, err := m.TakeNotices(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Notice{{Level: NoticeSuccess, Text: "Medicine added"}}, notices)

	again, err := m.TakeNotices(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, "Fever", StateFromContext(ctx).Draft.Diagnosis)
}

func TestManager_UpdateAnonymousIsNoop(t *testing.T) {
	m := NewManager(NewMemoryStore(), false)
	called := false
	require.NoError(t, m.Update(context.Background(), func(*State) { called = true }))
	assert.False(t, called)
}
