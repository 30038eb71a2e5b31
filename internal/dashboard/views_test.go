package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/hospital-portal/internal/apperr"
)

func TestProgress(t *testing.T) {
	assert.Equal(t, 100, Progress(Position{Served: true, Known: true}))
	assert.Equal(t, 30, Progress(Position{Value: 3, Known: true}))
	assert.Equal(t, 100, Progress(Position{Value: 14, Known: true}))
	assert.Equal(t, 0, Progress(Position{}))
}

func TestValidateBooking(t *testing.T) {
	ok := BookingRequest{Department: "Cardiology", DoctorName: "Dr. Rao", Date: "2025-03-01"}
	require.NoError(t, ValidateBooking(ok))

	wrongDoctor := ok
	wrongDoctor.DoctorName = "Dr. Naik"
	assert.True(t, apperr.IsValidation(ValidateBooking(wrongDoctor)))

	noDate := ok
	noDate.Date = ""
	assert.Error(t, ValidateBooking(noDate))

	assert.Error(t, ValidateBooking(BookingRequest{Department: "Dermatology", DoctorName: "x", Date: "2025-03-01"}))
	assert.Equal(t, []string{"Dr. Naik", "Dr. Pinto"}, DoctorsFor("ENT"))
}

func TestDisplayFallbacks(t *testing.T) {
	token := 7
	assert.Equal(t, "7", IntOr(&token, "Not issued"))
	assert.Equal(t, "Not issued", IntOr(nil, "Not issued"))
	assert.Equal(t, "Not assigned", StringOr("", "Not assigned"))
	assert.Equal(t, "Paracetamol, Cetirizine", JoinMedicines([]string{"Paracetamol", "Cetirizine"}))
}

func TestReorderSelection(t *testing.T) {
	inventory := []InventoryItem{
		{ID: "1", Name: "Amoxicillin", Stock: 50, LowStockThreshold: 10},
		{ID: "2", Name: "Insulin", Stock: 3, LowStockThreshold: 5},
		{ID: "3", Name: "Heparin", Stock: 5, LowStockThreshold: 5},
	}
	low := LowStock(inventory)
	require.Len(t, low, 2)

	got := ReorderSelection(low, ReorderForm{})
	assert.Equal(t, "2", got.DrugID)
	assert.Equal(t, DefaultReorderQuantity, got.Quantity)
	assert.Equal(t, "Auto-reorder for low stock (3)", got.Notes)

	kept := ReorderSelection(low, ReorderForm{DrugID: "3", Quantity: 25, Notes: "urgent"})
	assert.Equal(t, ReorderForm{DrugID: "3", Quantity: 25, Notes: "urgent"}, kept)

	stale := ReorderSelection(low, ReorderForm{DrugID: "1", Quantity: 5})
	assert.Equal(t, "2", stale.DrugID)

	assert.Empty(t, ReorderSelection(nil, ReorderForm{DrugID: "2"}).DrugID)
}

func TestCanDispense(t *testing.T) {
	inventory := []InventoryItem{{Name: "Insulin", Stock: 3}}

	assert.True(t, CanDispense(DispenseItem{DrugName: "Insulin", Quantity: 3}, inventory))
	assert.False(t, CanDispense(DispenseItem{DrugName: "Insulin", Quantity: 4}, inventory))
	assert.False(t, CanDispense(DispenseItem{DrugName: "Morphine", Quantity: 1}, inventory))
}

func TestPendingCount(t *testing.T) {
	queue := []DispenseItem{
		{DrugName: "Insulin", Status: DispensePending},
		{DrugName: "Insulin", Status: DispenseDispensed},
		{DrugName: "Insulin", Status: DispensePending},
		{DrugName: "Heparin", Status: DispensePending},
	}
	assert.Equal(t, 2, PendingCount(queue, "Insulin"))
	assert.Equal(t, 0, PendingCount(queue, "Morphine"))
}

func TestEmergencyEndTime(t *testing.T) {
	end, err := EmergencyEndTime("09:30")
	require.NoError(t, err)
	assert.Equal(t, "11:00", end)

	end, err = EmergencyEndTime("21:00")
	require.NoError(t, err)
	assert.Equal(t, "23:00", end)

	_, err = EmergencyEndTime("22:00")
	assert.True(t, apperr.IsValidation(err))

	_, err = EmergencyEndTime("noon")
	assert.Error(t, err)
}

func TestEmergencyForm_Booking(t *testing.T) {
	f := EmergencyForm{PatientName: "Asha", Reason: "Appendicitis", Date: "2025-03-01", StartTime: "14:00", Room: "OT-2"}
	booked, err := f.Booking()
	require.NoError(t, err)
	assert.Equal(t, "16:00", booked.EndTime)

	f.Room = "OT-9"
	_, err = f.Booking()
	assert.Error(t, err)
}

func TestSlotForm_Validate(t *testing.T) {
	f := DefaultSlotForm()
	assert.Error(t, f.Validate())

	f.Date = "2025-03-01"
	require.NoError(t, f.Validate())

	f.EndTime = "08:00"
	assert.Error(t, f.Validate())
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "green", StatusColor(SlotAvailable))
	assert.Equal(t, "red", StatusColor(SlotOccupied))
	assert.Equal(t, "yellow", StatusColor(SlotBooked))
	assert.Equal(t, "gray", StatusColor(SlotUnavailable))
	assert.Equal(t, "gray", StatusColor("whatever"))
	assert.Equal(t, "req1-OT-3", FoundSlotsKey("req1", "OT-3"))
}

func TestNewUserForm_Validate(t *testing.T) {
	f := NewUserForm{Name: "Meera", Email: "meera@example.com", Password: "secret1", Role: "Doctor"}
	assert.Error(t, f.Validate())

	f.Department = "Neurology"
	require.NoError(t, f.Validate())

	pharmacist := NewUserForm{Name: "Ravi", Email: "ravi@example.com", Password: "secret1", Role: "Pharmacy", Department: "ENT"}
	require.NoError(t, pharmacist.Validate())
	assert.Empty(t, pharmacist.Normalized().Department)
}

func TestStatCards_MissingCounts(t *testing.T) {
	n := 4
	cards := StatCards(HospitalStats{DoctorsOnDuty: &n})
	require.Len(t, cards, 4)
	assert.Equal(t, "4", cards[0].Value)
	assert.Equal(t, "N/A", cards[3].Value)
}

func TestBroadcastForm_Normalized(t *testing.T) {
	_, ok := BroadcastForm{Message: "   "}.Normalized()
	assert.False(t, ok)

	f, ok := BroadcastForm{Message: " Fire drill at 3pm ", Target: "bogus"}.Normalized()
	require.True(t, ok)
	assert.Equal(t, "Fire drill at 3pm", f.Message)
	assert.Equal(t, "All Dashboards", f.Target)
}

func TestTogglePermission(t *testing.T) {
	rows := DefaultPermissions()
	require.Len(t, rows, 4)
	assert.True(t, rows[1].Permissions[PermViewStats])
	assert.False(t, rows[1].Permissions[PermManageUsers])

	assert.True(t, TogglePermission(rows, "Doctor", PermManageUsers))
	assert.True(t, rows[1].Permissions[PermManageUsers])

	assert.False(t, TogglePermission(rows, "Doctor", "deleteEverything"))
	assert.False(t, TogglePermission(rows, "Janitor", PermViewStats))

	fresh := DefaultPermissions()
	assert.False(t, fresh[1].Permissions[PermManageUsers])
}
