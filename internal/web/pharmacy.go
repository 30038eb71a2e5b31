package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/hackgods/hospital-portal/internal/apperr"
	"github.com/hackgods/hospital-portal/internal/dashboard"
	"github.com/hackgods/hospital-portal/internal/session"
)

const pharmacyHome = "/pharmacy/dashboard"

type inventoryRow struct {
	Item    dashboard.InventoryItem
	Low     bool
	Pending int
}

type dispenseRow struct {
	Item        dashboard.DispenseItem
	Dispensable bool
}

type pharmacyView struct {
	Inventory     []inventoryRow
	LowStock      []dashboard.InventoryItem
	Reorder       dashboard.ReorderForm
	Prescriptions []dispenseRow
}

func (h *Handlers) pharmacyData(r *http.Request) ([]dashboard.InventoryItem, []dashboard.DispenseItem, error) {
	var (
		items []dashboard.InventoryItem
		queue []dashboard.DispenseItem
	)
	g, ctx := errgroup.WithContext(apiCtx(r))
	g.Go(func() error {
		var err error
		items, err = h.api.Inventory(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		queue, err = h.api.DispenseQueue(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return items, queue, nil
}

func (h *Handlers) pharmacyDashboard(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "Pharmacy Dashboard", nil)

	items, queue, err := h.pharmacyData(r)
	if err != nil && h.loadFailed(w, r, &p, err) {
		return
	}

	view := pharmacyView{LowStock: dashboard.LowStock(items)}
	for _, item := range items {
		view.Inventory = append(view.Inventory, inventoryRow{
			Item:    item,
			Low:     dashboard.IsLowStock(item),
			Pending: dashboard.PendingCount(queue, item.Name),
		})
	}
	for _, line := range queue {
		view.Prescriptions = append(view.Prescriptions, dispenseRow{
			Item:        line,
			Dispensable: dashboard.CanDispense(line, items),
		})
	}

	view.Reorder = dashboard.ReorderSelection(view.LowStock, session.StateFromContext(r.Context()).Reorder)
	if !h.update(w, r, func(s *session.State) { s.Reorder = view.Reorder }) {
		return
	}

	p.Data = view
	h.render(w, r, http.StatusOK, "pharmacy_dashboard", p)
}

// reorder only records the selection; there is no supplier integration.
func (h *Handlers) reorder(w http.ResponseWriter, r *http.Request) {
	qty, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
	if err != nil || qty < 1 {
		h.fail(w, r, apperr.Validation("Reorder quantity must be at least 1."), pharmacyHome)
		return
	}
	form := dashboard.ReorderForm{
		DrugID:   r.PostFormValue("drugId"),
		Quantity: qty,
		Notes:    strings.TrimSpace(r.PostFormValue("notes")),
	}

	items, err := h.api.Inventory(apiCtx(r))
	if err != nil {
		h.fail(w, r, err, pharmacyHome)
		return
	}
	item, ok := dashboard.FindInventoryByID(items, form.DrugID)
	if !ok {
		h.fail(w, r, apperr.Validation("Please choose a drug to reorder."), pharmacyHome)
		return
	}

	if !h.update(w, r, func(s *session.State) { s.Reorder = form }) {
		return
	}
	h.done(w, r, session.NoticeSuccess, "Reorder request for "+item.Name+" submitted (Demo).", pharmacyHome)
}

func (h *Handlers) restock(w http.ResponseWriter, r *http.Request) {
	if err := h.api.Restock(apiCtx(r), chi.URLParam(r, "id"), dashboard.RestockQuantity); err != nil {
		h.fail(w, r, err, pharmacyHome)
		return
	}
	h.done(w, r, session.NoticeSuccess, "Restocked +10 units!", pharmacyHome)
}

// dispense asks for confirmation first and refuses lines the stock cannot cover.
func (h *Handlers) dispense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	items, queue, err := h.pharmacyData(r)
	if err != nil {
		h.fail(w, r, err, pharmacyHome)
		return
	}

	var (
		line  dashboard.DispenseItem
		found bool
	)
	for _, item := range queue {
		if item.ID == id {
			line, found = item, true
			break
		}
	}
	if !found || line.Status != dashboard.DispensePending {
		h.done(w, r, session.NoticeWarning, "Prescription is no longer pending.", pharmacyHome)
		return
	}
	if !dashboard.CanDispense(line, items) {
		h.done(w, r, session.NoticeError, "Insufficient stock to dispense.", pharmacyHome)
		return
	}

	if r.PostFormValue("confirm") != "yes" {
		h.render(w, r, http.StatusOK, "dispense_confirm", h.page(r, "Confirm Dispense", line))
		return
	}

	if err := h.api.Dispense(apiCtx(r), id); err != nil {
		h.fail(w, r, err, pharmacyHome)
		return
	}
	h.done(w, r, session.NoticeSuccess, "Prescription dispensed!", pharmacyHome)
}
