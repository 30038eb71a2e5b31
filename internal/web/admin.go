package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/hospital-portal/internal/apperr"
	"github.com/hackgods/hospital-portal/internal/dashboard"
	"github.com/hackgods/hospital-portal/internal/logging"
	"github.com/hackgods/hospital-portal/internal/session"
)

type adminUsersView struct {
	Form        dashboard.NewUserForm
	Roles       []string
	Departments []string
	Users       []dashboard.User
}

type adminAccessView struct {
	PermissionNames []string
	Rows            []dashboard.RolePermissions
	AuditLogs       []dashboard.AuditLog
}

type adminNotificationsView struct {
	Targets []string
	Sent    []dashboard.Broadcast
}

func (h *Handlers) renderUsers(w http.ResponseWriter, r *http.Request, form dashboard.NewUserForm, formErr error) {
	p := h.page(r, "Admin · Users", nil)
	if formErr != nil {
		p.Notices = append(p.Notices, session.Notice{Level: session.NoticeError, Text: apperr.UserMessage(formErr)})
	}

	users, err := h.api.Users(apiCtx(r))
	if err != nil && h.loadFailed(w, r, &p, err) {
		return
	}

	form.Password = ""
	p.Data = adminUsersView{
		Form:        form,
		Roles:       dashboard.UserRoles,
		Departments: dashboard.DepartmentNames(),
		Users:       users,
	}
	h.render(w, r, http.StatusOK, "admin_users", p)
}

func (h *Handlers) adminUsers(w http.ResponseWriter, r *http.Request) {
	h.renderUsers(w, r, dashboard.NewUserForm{Role: dashboard.UserRoles[0]}, nil)
}

func (h *Handlers) createUser(w http.ResponseWriter, r *http.Request) {
	form := dashboard.NewUserForm{
		Name:       r.PostFormValue("name"),
		Email:      r.PostFormValue("email"),
		Password:   r.PostFormValue("password"),
		Role:       r.PostFormValue("role"),
		Department: r.PostFormValue("department"),
	}.Normalized()

	err := form.Validate()
	if err == nil {
		err = h.api.RegisterUser(apiCtx(r), form)
	}
	if err != nil {
		if apperr.IsUnauthorized(err) {
			h.forceLogout(w, r)
			return
		}
		h.renderUsers(w, r, form, err)
		return
	}
	h.done(w, r, session.NoticeSuccess, "User created successfully!", "/admin/users")
}

func (h *Handlers) adminStats(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "Admin · Hospital Stats", nil)

	stats, err := h.api.Stats(apiCtx(r))
	if err != nil && h.loadFailed(w, r, &p, err) {
		return
	}
	p.Data = dashboard.StatCards(stats)
	h.render(w, r, http.StatusOK, "admin_stats", p)
}

func (h *Handlers) adminAccess(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "Admin · Access Control", nil)

	rows := session.StateFromContext(r.Context()).Permissions
	if rows == nil {
		rows = dashboard.DefaultPermissions()
	}

	logs, err := h.api.AuditLogs(apiCtx(r))
	if err != nil && h.loadFailed(w, r, &p, err) {
		return
	}

	p.Data = adminAccessView{
		PermissionNames: dashboard.PermissionNames,
		Rows:            rows,
		AuditLogs:       logs,
	}
	h.render(w, r, http.StatusOK, "admin_access", p)
}

// togglePermission flips one cell of the access matrix. The matrix lives in
// the admin's session only.
func (h *Handlers) togglePermission(w http.ResponseWriter, r *http.Request) {
	role, perm := r.PostFormValue("role"), r.PostFormValue("permission")

	toggled := false
	if !h.update(w, r, func(s *session.State) {
		if s.Permissions == nil {
			s.Permissions = dashboard.DefaultPermissions()
		}
		toggled = dashboard.TogglePermission(s.Permissions, role, perm)
	}) {
		return
	}
	if !toggled {
		h.done(w, r, session.NoticeError, "Unknown role or permission.", "/admin/access")
		return
	}
	http.Redirect(w, r, "/admin/access", http.StatusSeeOther)
}

func (h *Handlers) adminEmergency(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "Admin · Emergency Protocols", nil)

	protocols, err := h.api.Protocols(apiCtx(r))
	if err != nil && h.loadFailed(w, r, &p, err) {
		return
	}
	p.Data = protocols
	h.render(w, r, http.StatusOK, "admin_emergency", p)
}

func (h *Handlers) createProtocol(w http.ResponseWriter, r *http.Request) {
	form := dashboard.ProtocolForm{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Active:      r.PostFormValue("active") == "true",
	}
	if err := form.Validate(); err != nil {
		h.fail(w, r, err, "/admin/emergency")
		return
	}
	if err := h.api.CreateProtocol(apiCtx(r), form); err != nil {
		h.fail(w, r, err, "/admin/emergency")
		return
	}
	h.done(w, r, session.NoticeSuccess, "Protocol added.", "/admin/emergency")
}

func (h *Handlers) toggleProtocol(w http.ResponseWriter, r *http.Request) {
	if err := h.api.ToggleProtocol(apiCtx(r), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, "/admin/emergency")
		return
	}
	h.done(w, r, session.NoticeSuccess, "Protocol updated.", "/admin/emergency")
}

func (h *Handlers) adminNotifications(w http.ResponseWriter, r *http.Request) {
	view := adminNotificationsView{
		Targets: dashboard.NotificationTargets,
		Sent:    session.StateFromContext(r.Context()).SentBroadcasts,
	}
	h.render(w, r, http.StatusOK, "admin_notifications", h.page(r, "Admin · Notifications", view))
}

// broadcast sends an admin notification. Blank messages are dropped silently.
// When a live alert feed is configured the message is published there too.
func (h *Handlers) broadcast(w http.ResponseWriter, r *http.Request) {
	form, ok := dashboard.BroadcastForm{
		Message: r.PostFormValue("message"),
		Target:  r.PostFormValue("target"),
	}.Normalized()
	if !ok {
		http.Redirect(w, r, "/admin/notifications", http.StatusSeeOther)
		return
	}

	sent, err := h.api.Broadcast(apiCtx(r), form)
	if err != nil {
		h.fail(w, r, err, "/admin/notifications")
		return
	}
	if sent.Message == "" {
		sent.Message, sent.Target = form.Message, form.Target
	}
	if sent.CreatedAt.IsZero() {
		sent.CreatedAt = dashboard.Date{Time: time.Now()}
	}

	if !h.update(w, r, func(s *session.State) {
		s.SentBroadcasts = append([]dashboard.Broadcast{sent}, s.SentBroadcasts...)
	}) {
		return
	}

	if h.publisher != nil {
		if err := h.publisher.Publish(r.Context(), form.Message); err != nil {
			logging.FromContext(r.Context()).Warn().Err(err).Msg("publish broadcast to alert feed")
		}
	}
	h.done(w, r, session.NoticeSuccess, "Notification sent!", "/admin/notifications")
}
