package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/hackgods/hospital-portal/internal/apperr"
	"github.com/hackgods/hospital-portal/internal/dashboard"
	"github.com/hackgods/hospital-portal/internal/session"
)

type patientView struct {
	Status dashboard.QueueStatus
}

type bookingView struct {
	Form        dashboard.BookingRequest
	Departments []string
	Doctors     []string
	Today       string
	Error       string
}

type bookingConfirmedView struct {
	Form    dashboard.BookingRequest
	Booking dashboard.Booking
}

func (h *Handlers) patientDashboard(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "Patient Dashboard", nil)
	p.Widget = true

	status, err := h.api.PatientStatus(apiCtx(r))
	if err != nil && h.loadFailed(w, r, &p, err) {
		return
	}
	p.Data = patientView{Status: status}
	h.render(w, r, http.StatusOK, "patient_dashboard", p)
}

func newBookingView(form dashboard.BookingRequest) bookingView {
	return bookingView{
		Form:        form,
		Departments: dashboard.DepartmentNames(),
		Doctors:     dashboard.DoctorsFor(form.Department),
		Today:       time.Now().Format(dashboard.DateLayout),
	}
}

func (h *Handlers) bookTokenForm(w http.ResponseWriter, r *http.Request) {
	view := newBookingView(dashboard.BookingRequest{Department: r.URL.Query().Get("department")})
	h.render(w, r, http.StatusOK, "book_token", h.page(r, "Book a Token", view))
}

func (h *Handlers) bookToken(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	form := dashboard.BookingRequest{
		PatientName: sess.Name,
		Department:  r.PostFormValue("department"),
		DoctorName:  r.PostFormValue("doctorName"),
		Date:        strings.TrimSpace(r.PostFormValue("date")),
	}

	err := dashboard.ValidateBooking(form)
	var booking dashboard.Booking
	if err == nil {
		booking, err = h.api.BookToken(apiCtx(r), form)
	}
	if err != nil {
		if apperr.IsUnauthorized(err) {
			h.forceLogout(w, r)
			return
		}
		view := newBookingView(form)
		view.Error = apperr.UserMessage(err)
		h.render(w, r, http.StatusOK, "book_token", h.page(r, "Book a Token", view))
		return
	}

	p := h.page(r, "Token Booked", bookingConfirmedView{Form: form, Booking: booking})
	p.Refresh = &Refresh{Seconds: int(h.bookingRedirect / time.Second), URL: "/patient/dashboard"}
	h.render(w, r, http.StatusOK, "booking_confirmed", p)
}

func (h *Handlers) patientPrescriptions(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "My Prescriptions", nil)

	list, err := h.api.PatientPrescriptions(apiCtx(r))
	if err != nil && h.loadFailed(w, r, &p, err) {
		return
	}
	p.Data = list
	h.render(w, r, http.StatusOK, "patient_prescriptions", p)
}
