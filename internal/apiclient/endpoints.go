package apiclient

import (
	"context"
	"net/url"

	"github.com/hackgods/hospital-portal/internal/dashboard"
)

// AuthResult is the identity returned by /auth/login and /auth/register.
type AuthResult struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	err := c.post(ctx, "/auth/login", body, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, reg Registration) (AuthResult, error) {
	var out AuthResult
	err := c.post(ctx, "/auth/register", reg, &out)
	return out, err
}

// Patient

func (c *Client) BookToken(ctx context.Context, req dashboard.BookingRequest) (dashboard.Booking, error) {
	var out dashboard.Booking
	err := c.post(ctx, "/patient/book-token", req, &out)
	return out, err
}

func (c *Client) PatientStatus(ctx context.Context) (dashboard.QueueStatus, error) {
	var out dashboard.QueueStatus
	err := c.get(ctx, "/patient/status", &out)
	return out, err
}

func (c *Client) PatientPrescriptions(ctx context.Context) ([]dashboard.PatientPrescription, error) {
	var out []dashboard.PatientPrescription
	err := c.get(ctx, "/patient/prescriptions", &out)
	return out, err
}

// Doctor

// CurrentSession returns nil when the doctor is not serving anyone.
func (c *Client) CurrentSession(ctx context.Context) (*dashboard.CurrentCase, error) {
	var out *dashboard.CurrentCase
	if err := c.get(ctx, "/doctor/current-session", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DoctorQueue(ctx context.Context) (dashboard.Queue, error) {
	var out dashboard.Queue
	err := c.get(ctx, "/doctor/queue", &out)
	return out, err
}

type appointmentRef struct {
	AppointmentID string `json:"appointmentId"`
}

// CallNext claims the appointment. The API refuses if another doctor got there first.
func (c *Client) CallNext(ctx context.Context, appointmentID string) (dashboard.CurrentCase, error) {
	var out dashboard.CurrentCase
	err := c.post(ctx, "/doctor/call-next", appointmentRef{AppointmentID: appointmentID}, &out)
	return out, err
}

func (c *Client) CancelServing(ctx context.Context, appointmentID string) error {
	return c.put(ctx, "/doctor/cancel-serving", appointmentRef{AppointmentID: appointmentID}, nil)
}

func (c *Client) SubmitPrescription(ctx context.Context, sub dashboard.PrescriptionSubmission) error {
	return c.post(ctx, "/doctor/prescriptions", sub, nil)
}

func (c *Client) RequestOT(ctx context.Context, form dashboard.OTRequestForm) error {
	return c.post(ctx, "/doctor/request-ot", form, nil)
}

// Pharmacy

func (c *Client) SearchDrugs(ctx context.Context, q string) ([]dashboard.DrugMatch, error) {
	var out []dashboard.DrugMatch
	err := c.get(ctx, "/pharmacy/search?q="+url.QueryEscape(q), &out)
	return out, err
}

func (c *Client) Inventory(ctx context.Context) ([]dashboard.InventoryItem, error) {
	var out []dashboard.InventoryItem
	err := c.get(ctx, "/pharmacy/inventory", &out)
	return out, err
}

func (c *Client) DispenseQueue(ctx context.Context) ([]dashboard.DispenseItem, error) {
	var out []dashboard.DispenseItem
	err := c.get(ctx, "/pharmacy/prescriptions", &out)
	return out, err
}

func (c *Client) Restock(ctx context.Context, drugID string, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.put(ctx, "/pharmacy/inventory/"+url.PathEscape(drugID)+"/restock", body, nil)
}

func (c *Client) Dispense(ctx context.Context, prescriptionID string) error {
	return c.put(ctx, "/pharmacy/prescriptions/"+url.PathEscape(prescriptionID)+"/dispense", nil, nil)
}

// OT staff

func (c *Client) OTRequests(ctx context.Context) ([]dashboard.OTRequest, error) {
	var out []dashboard.OTRequest
	err := c.get(ctx, "/ot-staff/requests", &out)
	return out, err
}

func (c *Client) OTSchedules(ctx context.Context) ([]dashboard.OTSlot, error) {
	var out []dashboard.OTSlot
	err := c.get(ctx, "/ot-staff/schedules", &out)
	return out, err
}

// FindSlots lists free slots in room on date (YYYY-MM-DD).
func (c *Client) FindSlots(ctx context.Context, date, room string) ([]dashboard.OTSlot, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("room", room)
	var out []dashboard.OTSlot
	err := c.get(ctx, "/ot-staff/find-slots?"+q.Encode(), &out)
	return out, err
}

func (c *Client) AssignRequest(ctx context.Context, requestID, scheduleID string) error {
	return c.put(ctx, "/ot-staff/assign-request", dashboard.AssignRequest{RequestID: requestID, ScheduleID: scheduleID}, nil)
}

func (c *Client) UpdateSlotStatus(ctx context.Context, slotID, status string) error {
	body := map[string]string{"status": status}
	return c.put(ctx, "/ot-staff/schedules/"+url.PathEscape(slotID), body, nil)
}

func (c *Client) CreateSlot(ctx context.Context, form dashboard.SlotForm) error {
	return c.post(ctx, "/ot-staff/schedules", form, nil)
}

func (c *Client) EmergencyBooking(ctx context.Context, form dashboard.EmergencyForm) error {
	return c.post(ctx, "/ot-staff/emergency-booking", form, nil)
}

// Admin

func (c *Client) Users(ctx context.Context) ([]dashboard.User, error) {
	var out []dashboard.User
	err := c.get(ctx, "/admin/users", &out)
	return out, err
}

func (c *Client) RegisterUser(ctx context.Context, form dashboard.NewUserForm) error {
	return c.post(ctx, "/admin/register-user", form, nil)
}

func (c *Client) Stats(ctx context.Context) (dashboard.HospitalStats, error) {
	var out dashboard.HospitalStats
	err := c.get(ctx, "/admin/stats", &out)
	return out, err
}

func (c *Client) Protocols(ctx context.Context) ([]dashboard.Protocol, error) {
	var out []dashboard.Protocol
	err := c.get(ctx, "/admin/protocols", &out)
	return out, err
}

func (c *Client) CreateProtocol(ctx context.Context, form dashboard.ProtocolForm) error {
	return c.post(ctx, "/admin/protocols", form, nil)
}

// ToggleProtocol flips the protocol's active flag server-side.
func (c *Client) ToggleProtocol(ctx context.Context, id string) error {
	return c.put(ctx, "/admin/protocols/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Broadcast(ctx context.Context, form dashboard.BroadcastForm) (dashboard.Broadcast, error) {
	var out dashboard.Broadcast
	err := c.post(ctx, "/admin/notifications", form, &out)
	return out, err
}

func (c *Client) AuditLogs(ctx context.Context) ([]dashboard.AuditLog, error) {
	var out []dashboard.AuditLog
	err := c.get(ctx, "/admin/audit-logs", &out)
	return out, err
}
