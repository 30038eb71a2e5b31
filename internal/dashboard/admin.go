package dashboard

import (
	"strings"

	"github.com/hackgods/hospital-portal/internal/apperr"
)

// UserRoles are the roles an admin can create accounts for.
var UserRoles = []string{"Patient", "Doctor", "Pharmacy", "OT", "Admin"}

type NewUserForm struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

func (f NewUserForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Email) == "" || f.Password == "" {
		return apperr.Validation("Name, email and password are required.")
	}
	known := false
	for _, r := range UserRoles {
		if r == f.Role {
			known = true
			break
		}
	}
	if !known {
		return apperr.Validation("Please choose a role.")
	}
	if f.Role == "Doctor" && DoctorsFor(f.Department) == nil {
		return apperr.Validation("Doctors need a department.")
	}
	return nil
}

// Normalized drops the department for every role but Doctor.
func (f NewUserForm) Normalized() NewUserForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	if f.Role != "Doctor" {
		f.Department = ""
	}
	return f
}

type StatCard struct {
	Label string
	Value string
}

func StatCards(s HospitalStats) []StatCard {
	return []StatCard{
		{Label: "Doctors on Duty", Value: IntOr(s.DoctorsOnDuty, "N/A")},
		{Label: "Patients Admitted", Value: IntOr(s.PatientsAdmitted, "N/A")},
		{Label: "Pharmacy Orders", Value: IntOr(s.PharmacyOrders, "N/A")},
		{Label: "Emergencies Today", Value: IntOr(s.EmergenciesToday, "N/A")},
	}
}

var NotificationTargets = []string{
	"All Dashboards",
	"Doctors Dashboard",
	"Patients Dashboard",
	"Pharmacy Dashboard",
	"OT Staff Dashboard",
	"Admin Dashboard",
}

type BroadcastForm struct {
	Message string `json:"message"`
	Target  string `json:"target"`
}

// Normalized trims the message and falls back to the first target. ok is false
// for a blank message, which is dropped without error.
func (f BroadcastForm) Normalized() (BroadcastForm, bool) {
	f.Message = strings.TrimSpace(f.Message)
	known := false
	for _, t := range NotificationTargets {
		if t == f.Target {
			known = true
			break
		}
	}
	if !known {
		f.Target = NotificationTargets[0]
	}
	return f, f.Message != ""
}

type ProtocolForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

func (f ProtocolForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Description) == "" {
		return apperr.Validation("Protocol name and description are required.")
	}
	return nil
}

const (
	PermManageUsers   = "manageUsers"
	PermViewStats     = "viewStats"
	PermEditProtocols = "editProtocols"
)

var PermissionNames = []string{PermManageUsers, PermViewStats, PermEditProtocols}

// RolePermissions is one row of the access matrix. It lives only in the
// admin's session; nothing is sent to the API.
type RolePermissions struct {
	Role        string          `json:"role"`
	Permissions map[string]bool `json:"permissions"`
}

func DefaultPermissions() []RolePermissions {
	row := func(role string, granted ...string) RolePermissions {
		p := make(map[string]bool, len(PermissionNames))
		for _, name := range PermissionNames {
			p[name] = false
		}
		for _, g := range granted {
			p[g] = true
		}
		return RolePermissions{Role: role, Permissions: p}
	}
	return []RolePermissions{
		row("Admin", PermManageUsers, PermViewStats, PermEditProtocols),
		row("Doctor", PermViewStats),
		row("Pharmacy"),
		row("OT Staff"),
	}
}

// TogglePermission flips one cell and reports whether it existed.
func TogglePermission(rows []RolePermissions, role, perm string) bool {
	for i := range rows {
		if rows[i].Role != role {
			continue
		}
		if _, ok := rows[i].Permissions[perm]; !ok {
			return false
		}
		rows[i].Permissions[perm] = !rows[i].Permissions[perm]
		return true
	}
	return false
}
