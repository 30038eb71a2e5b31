package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/hackgods/hospital-portal/internal/apperr"
	"github.com/hackgods/hospital-portal/internal/dashboard"
	"github.com/hackgods/hospital-portal/internal/debounce"
	"github.com/hackgods/hospital-portal/internal/logging"
	"github.com/hackgods/hospital-portal/internal/session"
)

const (
	tabPatients = "patients"
	tabCurrent  = "current"
	tabOT       = "ot"

	minSearchLength = 2
)

type doctorView struct {
	Tab         string
	Current     *dashboard.CurrentCase
	Queue       []dashboard.QueueEntry
	CanCallNext bool
	Draft       dashboard.PrescriptionDraft
}

func doctorTab(tab string) string {
	return "/doctor/dashboard?tab=" + url.QueryEscape(tab)
}

func (h *Handlers) doctorDashboard(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "Doctor Dashboard", nil)
	ctx := apiCtx(r)
	view := doctorView{Tab: tabPatients, Draft: session.StateFromContext(r.Context()).Draft}

	current, err := h.api.CurrentSession(ctx)
	if err != nil && h.loadFailed(w, r, &p, err) {
		return
	}
	if current != nil {
		view.Current = current
		view.Tab = tabCurrent
		if view.Draft.AppointmentID != current.ID {
			view.Draft.Reset()
			view.Draft.AppointmentID = current.ID
			if !h.update(w, r, func(s *session.State) { s.Draft = view.Draft }) {
				return
			}
		}
	} else if err == nil {
		queue, err := h.api.DoctorQueue(ctx)
		if err != nil && h.loadFailed(w, r, &p, err) {
			return
		}
		view.Queue = dashboard.OrderQueue(queue)
		view.CanCallNext = dashboard.CanCallNext(queue, nil)
	}

	switch tab := r.URL.Query().Get("tab"); tab {
	case tabPatients, tabCurrent, tabOT:
		view.Tab = tab
	}

	p.Data = view
	h.render(w, r, http.StatusOK, "doctor_dashboard", p)
}

// callNext claims the head of the combined queue, emergencies first.
func (h *Handlers) callNext(w http.ResponseWriter, r *http.Request) {
	ctx := apiCtx(r)

	current, err := h.api.CurrentSession(ctx)
	if err != nil {
		h.fail(w, r, err, doctorTab(tabPatients))
		return
	}
	queue, err := h.api.DoctorQueue(ctx)
	if err != nil {
		h.fail(w, r, err, doctorTab(tabPatients))
		return
	}
	if !dashboard.CanCallNext(queue, current) {
		msg := "No patients waiting."
		if current != nil {
			msg = "Finish the current patient first."
		}
		h.done(w, r, session.NoticeInfo, msg, doctorTab(tabPatients))
		return
	}

	next, _ := dashboard.NextEntry(queue)
	served, err := h.api.CallNext(ctx, next.ID)
	if err != nil {
		h.fail(w, r, err, doctorTab(tabPatients))
		return
	}

	if !h.update(w, r, func(s *session.State) {
		s.Draft.Reset()
		s.Draft.AppointmentID = served.ID
	}) {
		return
	}
	name := served.PatientName
	if name == "" {
		name = next.PatientName
	}
	h.done(w, r, session.NoticeSuccess, "Now serving "+name+".", doctorTab(tabCurrent))
}

// Every draft button submits the one draft form, so the diagnosis being
// typed is saved along with each medicine edit.
func (h *Handlers) editDraft(w http.ResponseWriter, r *http.Request, edit func(*dashboard.PrescriptionDraft)) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, apperr.Validation("Could not read the form."), doctorTab(tabCurrent))
		return
	}
	diagnosis, hasDiagnosis := r.PostForm["diagnosis"]
	ok := h.update(w, r, func(s *session.State) {
		if hasDiagnosis && len(diagnosis) > 0 {
			s.Draft.Diagnosis = diagnosis[0]
		}
		edit(&s.Draft)
	})
	if ok {
		http.Redirect(w, r, doctorTab(tabCurrent), http.StatusSeeOther)
	}
}

func (h *Handlers) addMedicine(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("medicine")
	h.editDraft(w, r, func(d *dashboard.PrescriptionDraft) { d.AddMedicine(name) })
}

func (h *Handlers) removeMedicine(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("remove")
	h.editDraft(w, r, func(d *dashboard.PrescriptionDraft) { d.RemoveMedicine(name) })
}

// Quantity inputs are named "quantity.<medicine>"; the Update button says
// which line to apply.
func (h *Handlers) setMedicineQuantity(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("update")
	qty := r.PostFormValue("quantity." + name)
	h.editDraft(w, r, func(d *dashboard.PrescriptionDraft) { d.SetQuantity(name, qty) })
}

func (h *Handlers) submitPrescription(w http.ResponseWriter, r *http.Request) {
	draft := session.StateFromContext(r.Context()).Draft
	draft.Diagnosis = r.PostFormValue("diagnosis")
	if !h.update(w, r, func(s *session.State) { s.Draft.Diagnosis = draft.Diagnosis }) {
		return
	}

	if err := draft.Validate(); err != nil {
		h.fail(w, r, err, doctorTab(tabCurrent))
		return
	}

	ctx := apiCtx(r)
	current, err := h.api.CurrentSession(ctx)
	if err != nil {
		h.fail(w, r, err, doctorTab(tabCurrent))
		return
	}
	if current == nil {
		h.done(w, r, session.NoticeError, "No patient is being served.", doctorTab(tabPatients))
		return
	}
	// A draft started for another case must not land on this one.
	if draft.AppointmentID != current.ID {
		if !h.update(w, r, func(s *session.State) {
			s.Draft.Reset()
			s.Draft.AppointmentID = current.ID
		}) {
			return
		}
		h.done(w, r, session.NoticeWarning, "The prescription draft was for a different patient and has been cleared.", doctorTab(tabCurrent))
		return
	}

	if err := h.api.SubmitPrescription(ctx, draft.Submission(*current)); err != nil {
		h.fail(w, r, err, doctorTab(tabCurrent))
		return
	}

	if !h.update(w, r, func(s *session.State) { s.Draft.Reset() }) {
		return
	}
	h.done(w, r, session.NoticeSuccess, "Prescription for "+current.PatientName+" submitted.", doctorTab(tabPatients))
}

func (h *Handlers) cancelServing(w http.ResponseWriter, r *http.Request) {
	ctx := apiCtx(r)
	current, err := h.api.CurrentSession(ctx)
	if err != nil {
		h.fail(w, r, err, doctorTab(tabCurrent))
		return
	}
	if current == nil {
		h.done(w, r, session.NoticeInfo, "No patient is being served.", doctorTab(tabPatients))
		return
	}

	if err := h.api.CancelServing(ctx, current.ID); err != nil {
		h.fail(w, r, err, doctorTab(tabCurrent))
		return
	}

	if !h.update(w, r, func(s *session.State) { s.Draft.Reset() }) {
		return
	}
	h.done(w, r, session.NoticeInfo, "Session cancelled. Patient returned to queue.", doctorTab(tabPatients))
}

func (h *Handlers) requestOT(w http.ResponseWriter, r *http.Request) {
	form := dashboard.OTRequestForm{
		Date:          r.PostFormValue("date"),
		StartTime:     r.PostFormValue("startTime"),
		EndTime:       r.PostFormValue("endTime"),
		PatientName:   strings.TrimSpace(r.PostFormValue("patientName")),
		OperationType: strings.TrimSpace(r.PostFormValue("operationType")),
	}
	if err := form.Validate(); err != nil {
		h.fail(w, r, err, doctorTab(tabOT))
		return
	}
	if err := h.api.RequestOT(apiCtx(r), form); err != nil {
		h.fail(w, r, err, doctorTab(tabOT))
		return
	}
	h.done(w, r, session.NoticeSuccess, "OT slot requested successfully!", doctorTab(tabOT))
}

// searchDrugs answers the search box. Keystrokes for the same session are
// debounced; a superseded request answers with an empty list and sends
// nothing to the API.
func (h *Handlers) searchDrugs(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(q) < minSearchLength {
		writeJSON(w, http.StatusOK, []dashboard.DrugMatch{})
		return
	}

	var matches []dashboard.DrugMatch
	err := h.search.Do(apiCtx(r), session.ID(r.Context()), func(ctx context.Context) error {
		var err error
		matches, err = h.api.SearchDrugs(ctx, q)
		return err
	})

	switch {
	case err == nil:
		if matches == nil {
			matches = []dashboard.DrugMatch{}
		}
		writeJSON(w, http.StatusOK, matches)
	case errors.Is(err, debounce.ErrSuperseded), errors.Is(err, context.Canceled):
		writeJSON(w, http.StatusOK, []dashboard.DrugMatch{})
	case apperr.IsUnauthorized(err):
		writeError(w, http.StatusUnauthorized, "unauthorized", apperr.UserMessage(err))
	default:
		logging.FromContext(r.Context()).Warn().Err(err).Str("q", q).Msg("drug search failed")
		writeError(w, http.StatusBadGateway, "search_failed", apperr.UserMessage(err))
	}
}
