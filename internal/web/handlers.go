package web

import (
	"context"
	"net/http"
	"time"

	"github.com/hackgods/hospital-portal/internal/apiclient"
	"github.com/hackgods/hospital-portal/internal/apperr"
	"github.com/hackgods/hospital-portal/internal/debounce"
	"github.com/hackgods/hospital-portal/internal/logging"
	"github.com/hackgods/hospital-portal/internal/notify"
	"github.com/hackgods/hospital-portal/internal/session"
)

// AlertPublisher pushes an admin broadcast onto the live alert feed.
type AlertPublisher interface {
	Publish(ctx context.Context, msg string) error
}

type Handlers struct {
	sessions        *session.Manager
	api             *apiclient.Client
	views           *Renderer
	alerts          notify.Source
	publisher       AlertPublisher
	search          *debounce.Debouncer
	bookingRedirect time.Duration
	streams         context.Context
}

// apiCtx carries the caller's bearer token into API calls.
func apiCtx(r *http.Request) context.Context {
	ctx := r.Context()
	if sess, ok := session.FromContext(ctx); ok {
		return apiclient.WithToken(ctx, sess.Token)
	}
	return ctx
}

func (h *Handlers) page(r *http.Request, title string, data any) Page {
	p := Page{Title: title, Data: data}
	if sess, ok := session.FromContext(r.Context()); ok {
		p.Session = sess
	}
	notices, err := h.sessions.TakeNotices(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("take notices")
	}
	p.Notices = notices
	return p
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, p Page) {
	if err := h.views.Render(w, status, name, p); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Str("page", name).Msg("render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// loadFailed records a failed dashboard fetch on p. It reports true when the
// API rejected the token, in which case the user has already been signed out.
func (h *Handlers) loadFailed(w http.ResponseWriter, r *http.Request, p *Page, err error) bool {
	if apperr.IsUnauthorized(err) {
		h.forceLogout(w, r)
		return true
	}
	logging.FromContext(r.Context()).Warn().Err(err).Msg("dashboard fetch failed")
	p.Notices = append(p.Notices, session.Notice{Level: session.NoticeError, Text: apperr.UserMessage(err)})
	return false
}

// fail reports a failed action. Unauthorized errors end the session.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error, to string) {
	if apperr.IsUnauthorized(err) {
		h.forceLogout(w, r)
		return
	}
	if !apperr.IsValidation(err) {
		logging.FromContext(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("action failed")
	}
	h.done(w, r, session.NoticeError, apperr.UserMessage(err), to)
}

// done flashes msg and redirects to to.
func (h *Handlers) done(w http.ResponseWriter, r *http.Request, level, msg, to string) {
	if err := h.sessions.Flash(r.Context(), level, msg); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("flash notice")
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *Handlers) update(w http.ResponseWriter, r *http.Request, fn func(*session.State)) bool {
	if err := h.sessions.Update(r.Context(), fn); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("update session state")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *Handlers) forceLogout(w http.ResponseWriter, r *http.Request) {
	logging.FromContext(r.Context()).Info().Msg("api rejected token, signing out")
	if err := h.sessions.End(w, r); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("end session")
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
