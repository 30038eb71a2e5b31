package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hackgods/hospital-portal/internal/apperr"
)

const (
	SlotAvailable   = "Available"
	SlotOccupied    = "Occupied"
	SlotBooked      = "Booked"
	SlotUnavailable = "Unavailable"
)

var (
	Rooms        = []string{"OT-1", "OT-2", "OT-3", "OT-4", "OT-5"}
	SlotStatuses = []string{SlotAvailable, SlotOccupied, SlotBooked, SlotUnavailable}
)

// EmergencyDuration is how long an emergency booking holds the theatre, in hours.
const EmergencyDuration = 2

func StatusColor(status string) string {
	switch status {
	case SlotAvailable:
		return "green"
	case SlotOccupied:
		return "red"
	case SlotBooked:
		return "yellow"
	default:
		return "gray"
	}
}

func IsRoom(room string) bool {
	for _, r := range Rooms {
		if r == room {
			return true
		}
	}
	return false
}

func IsSlotStatus(status string) bool {
	for _, s := range SlotStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// EmergencyEndTime is the start hour plus EmergencyDuration, on the hour.
// Bookings may not run past midnight.
func EmergencyEndTime(start string) (string, error) {
	hour, _, err := parseClock(start)
	if err != nil {
		return "", err
	}
	end := hour + EmergencyDuration
	if end > 23 {
		return "", apperr.Validation("Emergency bookings must end before midnight.")
	}
	return fmt.Sprintf("%02d:00", end), nil
}

func parseClock(v string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) < 2 {
		return 0, 0, apperr.Validation("Time must be in HH:MM format.")
	}
	hour, herr := strconv.Atoi(parts[0])
	minute, merr := strconv.Atoi(parts[1])
	if herr != nil || merr != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, apperr.Validation("Time must be in HH:MM format.")
	}
	return hour, minute, nil
}

// FoundSlotsKey indexes search results for one request and room.
func FoundSlotsKey(requestID, room string) string {
	return requestID + "-" + room
}

// SlotOption is a found slot offered for assignment.
type SlotOption struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func SlotOptions(slots []OTSlot) []SlotOption {
	out := make([]SlotOption, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotOption{ID: s.ID, StartTime: s.StartTime, EndTime: s.EndTime})
	}
	return out
}

type SlotForm struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Room      string `json:"room"`
}

func DefaultSlotForm() SlotForm {
	return SlotForm{StartTime: "09:00", EndTime: "11:00", Room: Rooms[0]}
}

func (f SlotForm) Validate() error {
	if f.Date == "" {
		return apperr.Validation("Please choose a date for the slot.")
	}
	if !IsRoom(f.Room) {
		return apperr.Validation("Please choose an OT room.")
	}
	return validateWindow(f.StartTime, f.EndTime)
}

type EmergencyForm struct {
	PatientName string `json:"patientName"`
	Reason      string `json:"reason"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Room        string `json:"room"`
}

func DefaultEmergencyForm() EmergencyForm {
	return EmergencyForm{StartTime: "09:00", Room: Rooms[0]}
}

// Booking validates the form and fills in the derived end time.
func (f EmergencyForm) Booking() (EmergencyForm, error) {
	if strings.TrimSpace(f.PatientName) == "" || strings.TrimSpace(f.Reason) == "" || f.Date == "" {
		return f, apperr.Validation("Patient name, surgery reason and date are required.")
	}
	if !IsRoom(f.Room) {
		return f, apperr.Validation("Please choose an OT room.")
	}
	end, err := EmergencyEndTime(f.StartTime)
	if err != nil {
		return f, err
	}
	f.EndTime = end
	return f, nil
}

// OTRequestForm is the doctor's request for theatre time.
type OTRequestForm struct {
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	PatientName   string `json:"patientName,omitempty"`
	OperationType string `json:"operationType,omitempty"`
}

func (f OTRequestForm) Validate() error {
	if f.Date == "" {
		return apperr.Validation("Please choose a date for the OT request.")
	}
	return validateWindow(f.StartTime, f.EndTime)
}

func validateWindow(start, end string) error {
	sh, sm, err := parseClock(start)
	if err != nil {
		return err
	}
	eh, em, err := parseClock(end)
	if err != nil {
		return err
	}
	if eh*60+em <= sh*60+sm {
		return apperr.Validation("End time must be after start time.")
	}
	return nil
}

type AssignRequest struct {
	RequestID  string `json:"requestId"`
	ScheduleID string `json:"scheduleId"`
}
