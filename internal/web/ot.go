package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/hackgods/hospital-portal/internal/apperr"
	"github.com/hackgods/hospital-portal/internal/dashboard"
	"github.com/hackgods/hospital-portal/internal/session"
)

const (
	tabRequests  = "requests"
	tabCalendar  = "calendar"
	tabEmergency = "emergency"
)

type slotSearch struct {
	Room  string
	Slots []dashboard.SlotOption
}

type otRequestRow struct {
	Request  dashboard.OTRequest
	Searches []slotSearch
}

type otView struct {
	Tab           string
	Requests      []otRequestRow
	Schedules     []dashboard.OTSlot
	Rooms         []string
	Statuses      []string
	SlotForm      dashboard.SlotForm
	EmergencyForm dashboard.EmergencyForm
}

func otTab(tab string) string {
	return "/ot/dashboard?tab=" + url.QueryEscape(tab)
}

func (h *Handlers) otDashboard(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "OT Staff Dashboard", nil)

	view := otView{
		Tab:           tabCalendar,
		Rooms:         dashboard.Rooms,
		Statuses:      dashboard.SlotStatuses,
		SlotForm:      dashboard.DefaultSlotForm(),
		EmergencyForm: dashboard.DefaultEmergencyForm(),
	}
	switch tab := r.URL.Query().Get("tab"); tab {
	case tabRequests, tabCalendar, tabEmergency:
		view.Tab = tab
	}

	var requests []dashboard.OTRequest
	g, ctx := errgroup.WithContext(apiCtx(r))
	g.Go(func() error {
		var err error
		requests, err = h.api.OTRequests(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		view.Schedules, err = h.api.OTSchedules(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if h.loadFailed(w, r, &p, err) {
			return
		}
		requests, view.Schedules = nil, nil
	}

	found := session.StateFromContext(r.Context()).FoundSlots
	for _, req := range requests {
		row := otRequestRow{Request: req}
		for _, room := range dashboard.Rooms {
			slots, ok := found[dashboard.FoundSlotsKey(req.ID, room)]
			if !ok {
				continue
			}
			row.Searches = append(row.Searches, slotSearch{Room: room, Slots: dashboard.SlotOptions(slots)})
		}
		view.Requests = append(view.Requests, row)
	}

	p.Data = view
	h.render(w, r, http.StatusOK, "ot_dashboard", p)
}

func (h *Handlers) findRequest(r *http.Request, id string) (dashboard.OTRequest, error) {
	requests, err := h.api.OTRequests(apiCtx(r))
	if err != nil {
		return dashboard.OTRequest{}, err
	}
	for _, req := range requests {
		if req.ID == id {
			return req, nil
		}
	}
	return dashboard.OTRequest{}, apperr.Validation("That request is no longer pending.")
}

// findSlots searches free slots for a request on its own date and keeps the
// result in the session until the request is assigned.
func (h *Handlers) findSlots(w http.ResponseWriter, r *http.Request) {
	room := r.PostFormValue("room")
	if !dashboard.IsRoom(room) {
		h.fail(w, r, apperr.Validation("Please choose an OT room."), otTab(tabRequests))
		return
	}

	req, err := h.findRequest(r, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, otTab(tabRequests))
		return
	}
	date := req.Date.ISODate()

	slots, err := h.api.FindSlots(apiCtx(r), date, room)
	if err != nil {
		h.fail(w, r, err, otTab(tabRequests))
		return
	}

	if !h.update(w, r, func(s *session.State) {
		if s.FoundSlots == nil {
			s.FoundSlots = make(map[string][]dashboard.OTSlot)
		}
		s.FoundSlots[dashboard.FoundSlotsKey(req.ID, room)] = slots
	}) {
		return
	}

	if len(slots) == 0 {
		h.done(w, r, session.NoticeWarning, "No available slots found for "+room+" on "+date+".", otTab(tabRequests))
		return
	}
	http.Redirect(w, r, otTab(tabRequests), http.StatusSeeOther)
}

func (h *Handlers) assignRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	scheduleID := r.PostFormValue("scheduleId")
	if scheduleID == "" {
		h.fail(w, r, apperr.Validation("Please select a slot to assign."), otTab(tabRequests))
		return
	}

	if err := h.api.AssignRequest(apiCtx(r), id, scheduleID); err != nil {
		h.fail(w, r, err, otTab(tabRequests))
		return
	}

	if !h.update(w, r, func(s *session.State) {
		prefix := dashboard.FoundSlotsKey(id, "")
		for key := range s.FoundSlots {
			if strings.HasPrefix(key, prefix) {
				delete(s.FoundSlots, key)
			}
		}
	}) {
		return
	}
	h.done(w, r, session.NoticeSuccess, "Doctor's request has been scheduled!", otTab(tabRequests))
}

func (h *Handlers) createSlot(w http.ResponseWriter, r *http.Request) {
	form := dashboard.SlotForm{
		Date:      r.PostFormValue("date"),
		StartTime: r.PostFormValue("startTime"),
		EndTime:   r.PostFormValue("endTime"),
		Room:      r.PostFormValue("room"),
	}
	if err := form.Validate(); err != nil {
		h.fail(w, r, err, otTab(tabCalendar))
		return
	}
	if err := h.api.CreateSlot(apiCtx(r), form); err != nil {
		h.fail(w, r, err, otTab(tabCalendar))
		return
	}
	h.done(w, r, session.NoticeSuccess, "New available slot created!", otTab(tabCalendar))
}

func (h *Handlers) updateSlotStatus(w http.ResponseWriter, r *http.Request) {
	status := r.PostFormValue("status")
	if !dashboard.IsSlotStatus(status) {
		h.fail(w, r, apperr.Validation("Unknown slot status."), otTab(tabCalendar))
		return
	}
	if err := h.api.UpdateSlotStatus(apiCtx(r), chi.URLParam(r, "id"), status); err != nil {
		h.fail(w, r, err, otTab(tabCalendar))
		return
	}
	h.done(w, r, session.NoticeSuccess, "OT status updated.", otTab(tabCalendar))
}

func (h *Handlers) emergencyBooking(w http.ResponseWriter, r *http.Request) {
	form, err := dashboard.EmergencyForm{
		PatientName: strings.TrimSpace(r.PostFormValue("patientName")),
		Reason:      strings.TrimSpace(r.PostFormValue("reason")),
		Date:        r.PostFormValue("date"),
		StartTime:   r.PostFormValue("startTime"),
		Room:        r.PostFormValue("room"),
	}.Booking()
	if err != nil {
		h.fail(w, r, err, otTab(tabEmergency))
		return
	}
	if err := h.api.EmergencyBooking(apiCtx(r), form); err != nil {
		h.fail(w, r, err, otTab(tabEmergency))
		return
	}
	h.done(w, r, session.NoticeSuccess, "Emergency OT slot reserved!", otTab(tabCalendar))
}
