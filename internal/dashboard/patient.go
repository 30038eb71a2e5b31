package dashboard

import (
	"strconv"
	"strings"

	"github.com/hackgods/hospital-portal/internal/apperr"
)

type Department struct {
	Name    string
	Doctors []string
}

// Directory is the department → doctor list offered when booking a token and
// when an admin creates a doctor account.
var Directory = []Department{
	{Name: "Cardiology", Doctors: []string{"doc1", "Dr. Rao"}},
	{Name: "Orthopedics", Doctors: []string{"Dr. Kamath", "Dr. Bhat"}},
	{Name: "ENT", Doctors: []string{"Dr. Naik", "Dr. Pinto"}},
	{Name: "Neurology", Doctors: []string{"Dr. Shenoy", "Dr. Pai"}},
}

func DepartmentNames() []string {
	names := make([]string, len(Directory))
	for i, d := range Directory {
		names[i] = d.Name
	}
	return names
}

// DoctorsFor returns nil for an unknown department.
func DoctorsFor(department string) []string {
	for _, d := range Directory {
		if d.Name == department {
			return d.Doctors
		}
	}
	return nil
}

func ValidateBooking(req BookingRequest) error {
	if strings.TrimSpace(req.Department) == "" || DoctorsFor(req.Department) == nil {
		return apperr.Validation("Please choose a department.")
	}
	found := false
	for _, doc := range DoctorsFor(req.Department) {
		if doc == req.DoctorName {
			found = true
			break
		}
	}
	if !found {
		return apperr.Validation("Please choose a doctor from the selected department.")
	}
	if strings.TrimSpace(req.Date) == "" {
		return apperr.Validation("Please choose an appointment date.")
	}
	return nil
}

// Progress is the queue progress bar width in percent.
func Progress(p Position) int {
	if p.Served {
		return 100
	}
	if !p.Known || p.Value <= 0 {
		return 0
	}
	return min(p.Value*10, 100)
}

// PositionText is the sentence under the progress bar.
func PositionText(p Position) string {
	switch {
	case p.Served:
		return "Your turn has been served!"
	case p.Known && p.Value > 0:
		return "You are " + strconv.Itoa(p.Value) + " positions away"
	default:
		return "Waiting for queue assignment..."
	}
}

func IntOr(v *int, fallback string) string {
	if v == nil {
		return fallback
	}
	return strconv.Itoa(*v)
}

func StringOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// JoinMedicines renders a prescription's medicines as one line.
func JoinMedicines(names []string) string {
	return strings.Join(names, ", ")
}
