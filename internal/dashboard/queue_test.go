package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderQueue_EmergenciesFirst(t *testing.T) {
	q := Queue{
		Emergencies: []QueueEntry{{ID: "e1", TokenNumber: 7, IsEmergency: true}},
		Queue:       []QueueEntry{{ID: "r1", TokenNumber: 3}, {ID: "r2", TokenNumber: 4}},
	}

	ordered := OrderQueue(q)
	require.Len(t, ordered, 3)
	assert.Equal(t, []string{"e1", "r1", "r2"}, []string{ordered[0].ID, ordered[1].ID, ordered[2].ID})

	next, ok := NextEntry(q)
	require.True(t, ok)
	assert.Equal(t, "e1", next.ID)
}

func TestNextEntry_RegularWhenNoEmergency(t *testing.T) {
	next, ok := NextEntry(Queue{Queue: []QueueEntry{{ID: "r1"}, {ID: "r2"}}})
	require.True(t, ok)
	assert.Equal(t, "r1", next.ID)
}

func TestCanCallNext(t *testing.T) {
	q := Queue{Queue: []QueueEntry{{ID: "r1"}}}

	assert.True(t, CanCallNext(q, nil))
	assert.False(t, CanCallNext(q, &CurrentCase{ID: "a1"}))
	assert.False(t, CanCallNext(Queue{}, nil))

	_, ok := NextEntry(Queue{})
	assert.False(t, ok)
}

func TestPosition_Decode(t *testing.T) {
	var s QueueStatus
	require.NoError(t, json.Unmarshal([]byte(`{"department":"ENT","yourToken":12,"currentServing":null,"positionInQueue":"Served"}`), &s))
	assert.True(t, s.PositionInQueue.Served)
	assert.Equal(t, 12, *s.YourToken)
	assert.Nil(t, s.CurrentServing)

	require.NoError(t, json.Unmarshal([]byte(`{"positionInQueue":4}`), &s))
	assert.Equal(t, Position{Value: 4, Known: true}, s.PositionInQueue)

	require.NoError(t, json.Unmarshal([]byte(`{"positionInQueue":null}`), &s))
	assert.False(t, s.PositionInQueue.Known)
}

func TestRef_DecodesBothShapes(t *testing.T) {
	var p PatientPrescription
	require.NoError(t, json.Unmarshal([]byte(`{
		"_id":"rx1",
		"doctorId":{"_id":"d1","name":"Dr. Rao","department":"Cardiology"},
		"appointmentId":"a1",
		"date":"2025-03-01T10:00:00.000Z",
		"diagnosis":"Flu",
		"medicines":["Paracetamol",{"name":"Cetirizine","quantity":2}]
	}`), &p))

	assert.Equal(t, "Dr. Rao", p.Doctor.Name)
	assert.Equal(t, "a1", p.Appointment.ID)
	assert.Equal(t, "2025-03-01", p.Date.ISODate())
	assert.Equal(t, MedicineNames{"Paracetamol", "Cetirizine"}, p.Medicines)
}

func TestDate_BareDay(t *testing.T) {
	var item InventoryItem
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ibuprofen","expiryDate":"2026-01-31"}`), &item))
	assert.Equal(t, "2026-01-31", item.ExpiryDate.ISODate())

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ibuprofen","expiryDate":null}`), &item))
	assert.True(t, item.ExpiryDate.IsZero())
}

func TestDate_UnparseableIsZero(t *testing.T) {
	var logs []AuditLog
	require.NoError(t, json.Unmarshal([]byte(`[
		{"_id":"l1","timestamp":"2025-03-01T10:00:00.000Z","actor":"admin","action":"login"},
		{"_id":"l2","timestamp":"yesterday","actor":"admin","action":"toggle"},
		{"_id":"l3","timestamp":1740823200000,"actor":"admin","action":"broadcast"},
		{"_id":"l4","timestamp":"2025-03-01 10:00:00","actor":"admin","action":"logout"}
	]`), &logs))

	require.Len(t, logs, 4)
	assert.Equal(t, "2025-03-01", logs[0].Timestamp.ISODate())
	assert.True(t, logs[1].Timestamp.IsZero())
	assert.Equal(t, "2025-03-01", logs[2].Timestamp.ISODate())
	assert.Equal(t, "2025-03-01", logs[3].Timestamp.ISODate())

	var b Broadcast
	require.NoError(t, json.Unmarshal([]byte(`{"message":"Drill at noon","createdAt":"not a date"}`), &b))
	assert.Equal(t, "Drill at noon", b.Message)
	assert.True(t, b.CreatedAt.IsZero())
}
