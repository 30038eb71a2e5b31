package session

import (
	"fmt"

	"github.com/hackgods/hospital-portal/internal/dashboard"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleDoctor   Role = "Doctor"
	RolePatient  Role = "Patient"
	RolePharmacy Role = "Pharmacy"
	RoleOT       Role = "OT"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleDoctor, RolePatient, RolePharmacy, RoleOT:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// DashboardPath is where a user with role lands after signing in.
func DashboardPath(role Role) string {
	switch role {
	case RolePatient:
		return "/patient/dashboard"
	case RoleDoctor:
		return "/doctor/dashboard"
	case RoleOT:
		return "/ot/dashboard"
	case RolePharmacy:
		return "/pharmacy/dashboard"
	case RoleAdmin:
		return "/admin"
	default:
		return "/"
	}
}

// Session is the signed-in identity and the bearer token for the hospital API.
type Session struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Token  string `json:"token"`
}

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeWarning = "warning"
	NoticeInfo    = "info"
)

// Notice is a flash message shown once on the next rendered page.
type Notice struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// State is per-session UI state that outlives a single request.
type State struct {
	Notices        []Notice                      `json:"notices,omitempty"`
	Draft          dashboard.PrescriptionDraft   `json:"draft"`
	FoundSlots     map[string][]dashboard.OTSlot `json:"foundSlots,omitempty"`
	Permissions    []dashboard.RolePermissions   `json:"permissions,omitempty"`
	SentBroadcasts []dashboard.Broadcast         `json:"sentBroadcasts,omitempty"`
	Reorder        dashboard.ReorderForm         `json:"reorder"`
}

// Record is what a Store keeps under a session id.
type Record struct {
	Session *Session `json:"session"`
	State   State    `json:"state"`
}
