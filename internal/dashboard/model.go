package dashboard

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Ref is a reference to another API document. The API sends either the bare id
// or the populated document, so both shapes decode into Ref.
type Ref struct {
	ID         string `json:"_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Department string `json:"department,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

type QueueEntry struct {
	ID          string `json:"_id"`
	PatientID   string `json:"patientId,omitempty"`
	PatientName string `json:"patientName"`
	TokenNumber int    `json:"tokenNumber"`
	Reason      string `json:"reason"`
	IsEmergency bool   `json:"isEmergency"`
}

type Queue struct {
	Emergencies []QueueEntry `json:"emergencies"`
	Queue       []QueueEntry `json:"queue"`
}

// CurrentCase is the appointment a doctor is serving right now.
type CurrentCase struct {
	ID          string `json:"_id"`
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName"`
	TokenNumber int    `json:"tokenNumber"`
	Reason      string `json:"reason"`
	IsEmergency bool   `json:"isEmergency"`
}

type DrugMatch struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// Position is a queue position that the API reports either as a number or as
// the literal "Served".
type Position struct {
	Served bool
	Value  int
	Known  bool
}

func (p *Position) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*p = Position{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == PositionServed {
			p.Served, p.Known = true, true
			return nil
		}
		if n, err := strconv.Atoi(s); err == nil {
			p.Value, p.Known = n, true
		}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	p.Value, p.Known = int(n), true
	return nil
}

func (p Position) MarshalJSON() ([]byte, error) {
	switch {
	case p.Served:
		return json.Marshal(PositionServed)
	case p.Known:
		return json.Marshal(p.Value)
	default:
		return []byte("null"), nil
	}
}

const PositionServed = "Served"

type QueueStatus struct {
	Department      string   `json:"department"`
	YourToken       *int     `json:"yourToken"`
	CurrentServing  *int     `json:"currentServing"`
	PositionInQueue Position `json:"positionInQueue"`
}

type BookingRequest struct {
	PatientName string `json:"patientName"`
	Department  string `json:"department"`
	Date        string `json:"date"`
	DoctorName  string `json:"doctorName"`
}

type Booking struct {
	ID          string `json:"_id,omitempty"`
	TokenNumber int    `json:"tokenNumber"`
}

// Date accepts full timestamps, bare YYYY-MM-DD values and epoch
// milliseconds. Anything else decodes to the zero Date, which views show as
// "N/A", so one odd value never fails a whole list.
type Date struct {
	time.Time
}

const DateLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
	time.RFC1123,
	time.RFC1123Z,
}

func (d *Date) UnmarshalJSON(data []byte) error {
	d.Time = time.Time{}

	var ms float64
	if err := json.Unmarshal(data, &ms); err == nil {
		d.Time = time.UnixMilli(int64(ms)).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.UTC().Format(time.RFC3339))
}

// ISODate renders the calendar day the API expects in query strings.
func (d Date) ISODate() string {
	if d.IsZero() {
		return ""
	}
	return d.UTC().Format(DateLayout)
}

// MedicineNames decodes a prescription's medicine list whether the API sends
// plain names or {name, quantity} lines.
type MedicineNames []string

func (m *MedicineNames) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				return err
			}
			out = append(out, s)
			continue
		}
		var line MedicineLine
		if err := json.Unmarshal(item, &line); err != nil {
			return err
		}
		out = append(out, line.Name)
	}
	*m = out
	return nil
}

type PatientPrescription struct {
	ID          string        `json:"_id"`
	Doctor      Ref           `json:"doctorId"`
	Appointment Ref           `json:"appointmentId"`
	Date        Date          `json:"date"`
	Diagnosis   string        `json:"diagnosis"`
	Medicines   MedicineNames `json:"medicines"`
}

type InventoryItem struct {
	ID                string `json:"_id"`
	Name              string `json:"name"`
	Stock             int    `json:"stock"`
	LowStockThreshold int    `json:"lowStockThreshold"`
	ExpiryDate        Date   `json:"expiryDate"`
}

// DispenseItem is one line of the pharmacy prescription queue.
type DispenseItem struct {
	ID       string `json:"_id"`
	Patient  Ref    `json:"patientId"`
	DrugName string `json:"drugName"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}

const (
	DispensePending   = "Pending"
	DispenseDispensed = "Dispensed"
)

type OTSlot struct {
	ID            string `json:"_id"`
	Date          Date   `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Room          string `json:"room"`
	Status        string `json:"status"`
	PatientName   string `json:"patientName,omitempty"`
	OperationType string `json:"operationType,omitempty"`
	IsEmergency   bool   `json:"isEmergency,omitempty"`
}

type OTRequest struct {
	ID            string `json:"_id"`
	Doctor        Ref    `json:"doctorId"`
	PatientName   string `json:"patientName"`
	OperationType string `json:"operationType"`
	Date          Date   `json:"date"`
}

type User struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

type HospitalStats struct {
	DoctorsOnDuty    *int `json:"doctorsOnDuty"`
	PatientsAdmitted *int `json:"patientsAdmitted"`
	PharmacyOrders   *int `json:"pharmacyOrders"`
	EmergenciesToday *int `json:"emergenciesToday"`
}

type Protocol struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

type Broadcast struct {
	ID        string `json:"_id"`
	Message   string `json:"message"`
	Target    string `json:"target"`
	CreatedAt Date   `json:"createdAt"`
}

type AuditLog struct {
	ID        string `json:"_id"`
	Timestamp Date   `json:"timestamp"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
}
