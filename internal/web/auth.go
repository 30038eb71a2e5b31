package web

import (
	"net/http"
	"strings"

	"github.com/hackgods/hospital-portal/internal/apiclient"
	"github.com/hackgods/hospital-portal/internal/apperr"
	"github.com/hackgods/hospital-portal/internal/logging"
	"github.com/hackgods/hospital-portal/internal/session"
)

const minPasswordLength = 6

var loginRoles = []session.Role{
	session.RolePatient,
	session.RoleDoctor,
	session.RolePharmacy,
	session.RoleOT,
	session.RoleAdmin,
}

type loginView struct {
	Email string
	Role  session.Role
	Roles []session.Role
	Error string
}

type registerView struct {
	Name  string
	Email string
	Error string
}

func (h *Handlers) landing(w http.ResponseWriter, r *http.Request) {
	var target string
	if sess, ok := session.FromContext(r.Context()); ok {
		target = session.DashboardPath(sess.Role)
	}
	h.render(w, r, http.StatusOK, "landing", h.page(r, "Welcome", target))
}

func (h *Handlers) loginForm(w http.ResponseWriter, r *http.Request) {
	view := loginView{Role: session.RolePatient, Roles: loginRoles}
	h.render(w, r, http.StatusOK, "login", h.page(r, "Login", view))
}

// login signs in with the API. The role picked on the form is advisory only;
// the role the API returns decides the dashboard.
func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	res, err := h.api.Login(r.Context(), email, password)
	if err != nil {
		view := loginView{Email: email, Role: session.Role(r.PostFormValue("role")), Roles: loginRoles, Error: apperr.UserMessage(err)}
		h.render(w, r, http.StatusOK, "login", h.page(r, "Login", view))
		return
	}

	h.begin(w, r, res)
}

func (h *Handlers) registerForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", h.page(r, "Register", registerView{}))
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	reg := apiclient.Registration{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Role:     string(session.RolePatient),
	}

	var err error
	if len(reg.Password) < minPasswordLength {
		err = apperr.Validation("Password must be at least 6 characters.")
	}
	var res apiclient.AuthResult
	if err == nil {
		res, err = h.api.Register(r.Context(), reg)
	}
	if err != nil {
		view := registerView{Name: reg.Name, Email: reg.Email, Error: apperr.UserMessage(err)}
		h.render(w, r, http.StatusOK, "register", h.page(r, "Register", view))
		return
	}

	h.begin(w, r, res)
}

func (h *Handlers) begin(w http.ResponseWriter, r *http.Request, res apiclient.AuthResult) {
	role, err := session.ParseRole(res.Role)
	if err != nil {
		logging.FromContext(r.Context()).Warn().Str("role", res.Role).Msg("api returned unknown role")
		role = session.Role(res.Role)
	}

	ctx, err := h.sessions.Begin(w, r, session.Session{
		UserID: res.ID,
		Name:   res.Name,
		Email:  res.Email,
		Role:   role,
		Token:  res.Token,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("begin session")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.done(w, r.WithContext(ctx), session.NoticeSuccess, "Welcome, "+res.Name+"!", session.DashboardPath(role))
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(w, r); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("end session")
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
