package dashboard

import (
	"strconv"
	"strings"

	"github.com/hackgods/hospital-portal/internal/apperr"
)

type MedicineLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// PrescriptionDraft is built up while a doctor works on the current case.
// Medicine names are unique within Medicines.
type PrescriptionDraft struct {
	AppointmentID string         `json:"appointmentId,omitempty"`
	Diagnosis     string         `json:"diagnosis"`
	Medicines     []MedicineLine `json:"medicines"`
}

// PrescriptionSubmission is the body of POST /doctor/prescriptions.
type PrescriptionSubmission struct {
	PatientID     string         `json:"patientId"`
	AppointmentID string         `json:"appointmentId"`
	Diagnosis     string         `json:"diagnosis"`
	Medicines     []MedicineLine `json:"medicines"`
}

// AddMedicine appends name with quantity 1. It reports false and leaves the
// draft unchanged when name is blank or already listed.
func (d *PrescriptionDraft) AddMedicine(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || d.Has(name) {
		return false
	}
	d.Medicines = append(d.Medicines, MedicineLine{Name: name, Quantity: 1})
	return true
}

func (d *PrescriptionDraft) Has(name string) bool {
	for _, m := range d.Medicines {
		if m.Name == name {
			return true
		}
	}
	return false
}

func (d *PrescriptionDraft) RemoveMedicine(name string) {
	kept := d.Medicines[:0]
	for _, m := range d.Medicines {
		if m.Name != name {
			kept = append(kept, m)
		}
	}
	d.Medicines = kept
}

// SetQuantity stores ClampQuantity(raw) on the named line.
func (d *PrescriptionDraft) SetQuantity(name, raw string) {
	qty := ClampQuantity(raw)
	for i := range d.Medicines {
		if d.Medicines[i].Name == name {
			d.Medicines[i].Quantity = qty
		}
	}
}

// Reset discards the draft, e.g. after submission or when the case is dropped.
func (d *PrescriptionDraft) Reset() {
	*d = PrescriptionDraft{}
}

func (d PrescriptionDraft) Validate() error {
	if strings.TrimSpace(d.Diagnosis) == "" || len(d.Medicines) == 0 {
		return apperr.Validation("Diagnosis and at least one medicine are required.")
	}
	return nil
}

// Submission turns the draft into the request for the current case.
func (d PrescriptionDraft) Submission(c CurrentCase) PrescriptionSubmission {
	meds := make([]MedicineLine, len(d.Medicines))
	copy(meds, d.Medicines)
	return PrescriptionSubmission{
		PatientID:     c.PatientID,
		AppointmentID: c.ID,
		Diagnosis:     strings.TrimSpace(d.Diagnosis),
		Medicines:     meds,
	}
}

// ClampQuantity reads the leading integer of raw and never returns less than 1.
// "3 boxes" is 3; "0", "-5" and "abc" are all 1.
func ClampQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 1
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 {
		return 1
	}
	return n
}
