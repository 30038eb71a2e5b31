package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/hospital-portal/internal/apiclient"
	"github.com/hackgods/hospital-portal/internal/debounce"
	"github.com/hackgods/hospital-portal/internal/notify"
	"github.com/hackgods/hospital-portal/internal/session"
)

type RouterConfig struct {
	Sessions  *session.Manager
	API       *apiclient.Client
	Alerts    notify.Source
	Publisher AlertPublisher // optional
	Search    *debounce.Debouncer
	Redis     *redis.Client // optional, checked by readiness
	Env       string
	Version   string

	BookingRedirect time.Duration
	// Streams, when cancelled, ends every open notification stream.
	Streams context.Context
}

func NewRouter(cfg RouterConfig) (http.Handler, error) {
	if cfg.Sessions == nil || cfg.API == nil || cfg.Alerts == nil || cfg.Search == nil {
		return nil, errors.New("web: sessions, api, alerts and search are required")
	}

	views, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	h := &Handlers{
		sessions:        cfg.Sessions,
		api:             cfg.API,
		views:           views,
		alerts:          cfg.Alerts,
		publisher:       cfg.Publisher,
		search:          cfg.Search,
		bookingRedirect: cfg.BookingRedirect,
		streams:         cfg.Streams,
	}
	if h.streams == nil {
		h.streams = context.Background()
	}

	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.Sessions.Store(), cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Group(func(r chi.Router) {
		r.Use(LoadSession(cfg.Sessions))

		r.Get("/", h.landing)
		r.Get("/login", h.loginForm)
		r.Post("/login", h.login)
		r.Get("/register", h.registerForm)
		r.Post("/register", h.register)
		r.Post("/logout", h.logout)

		r.With(RequireSignedIn).Get("/notifications/stream", h.streamAlerts)

		r.Route("/patient", func(r chi.Router) {
			r.Use(RequireRole(session.RolePatient))
			r.Get("/dashboard", h.patientDashboard)
			r.Get("/book-token", h.bookTokenForm)
			r.Post("/book-token", h.bookToken)
			r.Get("/prescriptions", h.patientPrescriptions)
		})

		r.Route("/doctor", func(r chi.Router) {
			r.Use(RequireRole(session.RoleDoctor))
			r.Get("/dashboard", h.doctorDashboard)
			r.Get("/search", h.searchDrugs)
			r.Post("/call-next", h.callNext)
			r.Post("/cancel-serving", h.cancelServing)
			r.Post("/draft/medicines", h.addMedicine)
			r.Post("/draft/medicines/remove", h.removeMedicine)
			r.Post("/draft/medicines/quantity", h.setMedicineQuantity)
			r.Post("/prescriptions", h.submitPrescription)
			r.Post("/request-ot", h.requestOT)
		})

		r.Route("/pharmacy", func(r chi.Router) {
			r.Use(RequireRole(session.RolePharmacy))
			r.Get("/dashboard", h.pharmacyDashboard)
			r.Post("/reorder", h.reorder)
			r.Post("/inventory/{id}/restock", h.restock)
			r.Post("/prescriptions/{id}/dispense", h.dispense)
		})

		r.Route("/ot", func(r chi.Router) {
			r.Use(RequireRole(session.RoleOT))
			r.Get("/dashboard", h.otDashboard)
			r.Post("/requests/{id}/find-slots", h.findSlots)
			r.Post("/requests/{id}/assign", h.assignRequest)
			r.Post("/schedules", h.createSlot)
			r.Post("/schedules/{id}/status", h.updateSlotStatus)
			r.Post("/emergency", h.emergencyBooking)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireRole(session.RoleAdmin))
			r.Get("/", h.adminUsers)
			r.Get("/users", h.adminUsers)
			r.Post("/users", h.createUser)
			r.Get("/stats", h.adminStats)
			r.Get("/access", h.adminAccess)
			r.Post("/access/toggle", h.togglePermission)
			r.Get("/emergency", h.adminEmergency)
			r.Post("/emergency", h.createProtocol)
			r.Post("/emergency/{id}/toggle", h.toggleProtocol)
			r.Get("/notifications", h.adminNotifications)
			r.Post("/notifications", h.broadcast)
		})
	})

	return r, nil
}
