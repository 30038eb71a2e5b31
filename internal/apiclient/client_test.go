package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/hospital-portal/internal/apperr"
	"github.com/hackgods/hospital-portal/internal/dashboard"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", srv.Client())
}

func TestRequest_SendsTokenAndJSON(t *testing.T) {
	var gotAuth, gotType, gotPath string
	var gotBody map[string]string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"_id":"u1","name":"Dr. Rao","email":"rao@example.com","role":"Doctor","token":"jwt"}`))
	})

	ctx := WithToken(context.Background(), "old-token")
	res, err := c.Login(ctx, "rao@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "Bearer old-token", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "/api/auth/login", gotPath)
	assert.Equal(t, map[string]string{"email": "rao@example.com", "password": "secret"}, gotBody)
	assert.Equal(t, AuthResult{ID: "u1", Name: "Dr. Rao", Email: "rao@example.com", Role: "Doctor", Token: "jwt"}, res)
}

func TestRequest_NoTokenNoHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	})

	users, err := c.Users(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRequest_ErrorMessageFromBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Patient already claimed by another doctor"}`))
	})

	_, err := c.CallNext(context.Background(), "a1")
	require.Error(t, err)

	assert.Equal(t, apperr.KindHTTP, apperr.KindOf(err))
	assert.Equal(t, "Patient already claimed by another doctor", apperr.UserMessage(err))
}

func TestRequest_UnauthorizedKinds(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`not json`))
		})

		_, err := c.DoctorQueue(context.Background())
		assert.True(t, apperr.IsUnauthorized(err), "status %d", status)
	}
}

func TestRequest_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := New(srv.URL, nil)
	_, err := c.PatientStatus(context.Background())
	assert.Equal(t, apperr.KindNetwork, apperr.KindOf(err))
}

func TestCurrentSession_Null(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	cur, err := c.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestCurrentSession_Serving(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_id":"a1","patientId":"p1","patientName":"Asha","tokenNumber":4,"reason":"Fever"}`))
	})

	cur, err := c.CurrentSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "Asha", cur.PatientName)
}

func TestEndpoints_PathsAndBodies(t *testing.T) {
	type call struct {
		method, uri string
		body        map[string]any
	}
	var calls []call

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, call{method: r.Method, uri: r.URL.RequestURI(), body: body})
		_, _ = w.Write([]byte(`[]`))
	})
	ctx := context.Background()

	require.NoError(t, c.Restock(ctx, "d1", dashboard.RestockQuantity))
	require.NoError(t, c.Dispense(ctx, "rx1"))
	require.NoError(t, c.AssignRequest(ctx, "req1", "slot9"))
	_, err := c.FindSlots(ctx, "2025-03-01", "OT-2")
	require.NoError(t, err)
	_, err = c.SearchDrugs(ctx, "para cet")
	require.NoError(t, err)
	require.NoError(t, c.CancelServing(ctx, "a1"))

	require.Len(t, calls, 6)
	assert.Equal(t, call{http.MethodPut, "/api/pharmacy/inventory/d1/restock", map[string]any{"quantity": float64(10)}}, calls[0])
	assert.Equal(t, http.MethodPut, calls[1].method)
	assert.Equal(t, "/api/pharmacy/prescriptions/rx1/dispense", calls[1].uri)
	assert.Equal(t, map[string]any{"requestId": "req1", "scheduleId": "slot9"}, calls[2].body)
	assert.Equal(t, "/api/ot-staff/find-slots?date=2025-03-01&room=OT-2", calls[3].uri)
	assert.Equal(t, "/api/pharmacy/search?q=para+cet", calls[4].uri)
	assert.Equal(t, call{http.MethodPut, "/api/doctor/cancel-serving", map[string]any{"appointmentId": "a1"}}, calls[5])
}
