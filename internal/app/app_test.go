package app_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premuk420/Myslivec/internal/app"
	"github.com/premuk420/Myslivec/internal/store"
)

type testApp struct {
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	container, err := app.NewContainer(app.Config{
		StoreDriver:  store.DriverMemory,
		JWTSecret:    "test-secret",
		JWTTTL:       30 * time.Minute,
		PasswordCost: 4, // Lower cost for testing purposes
		Timezone:     time.UTC,
		InviteCodes:  func() (string, error) { return "ABC123", nil },
	})
	require.NoError(t, err)
	return &testApp{router: container.Router}
}

func (a *testApp) executeRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// login registers a user and returns its access token.
func (a *testApp) login(t *testing.T, email, name string) string {
	t.Helper()
	w := a.executeRequest("POST", "/v1/auth/register", map[string]any{
		"email": email, "password": "password123", "display_name": name,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.executeRequest("POST", "/v1/auth/login", map[string]any{
		"email": email, "password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type idResponse struct {
	ID string `json:"id"`
}

func TestHealthAndAuth(t *testing.T) {
	a := newTestApp(t)

	w := a.executeRequest("GET", "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.executeRequest("GET", "/v1/grounds", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.executeRequest("GET", "/v1/grounds", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := a.login(t, "a@example.com", "Adam")
	w = a.executeRequest("GET", "/v1/users/me", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@example.com")
}

func TestReservationFlow(t *testing.T) {
	a := newTestApp(t)
	ownerToken := a.login(t, "a@example.com", "Adam")
	hunterToken := a.login(t, "b@example.com", "Bohdan")

	// Owner creates the ground with a boundary
	w := a.executeRequest("POST", "/v1/grounds", map[string]any{
		"name": "Háj",
		"boundary": []map[string]float64{
			{"lat": 49.80, "lng": 15.40},
			{"lat": 49.80, "lng": 15.50},
			{"lat": 49.90, "lng": 15.50},
			{"lat": 49.90, "lng": 15.40},
		},
	}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	g := decode[struct {
		ID         string `json:"id"`
		InviteCode string `json:"invite_code"`
		Centroid   struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"centroid"`
	}](t, w)
	assert.Equal(t, "ABC123", g.InviteCode)
	assert.InDelta(t, 49.85, g.Centroid.Lat, 1e-9)
	assert.InDelta(t, 15.45, g.Centroid.Lng, 1e-9)

	// Anyone can preview the invite
	w = a.executeRequest("GET", "/v1/invites/abc123", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Háj")

	// Hunter joins with the code
	w = a.executeRequest("POST", "/v1/memberships/join", map[string]any{"invite_code": "ABC123"}, hunterToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	joined := decode[struct {
		Membership struct {
			Role        string `json:"role"`
			Status      string `json:"status"`
			Permissions string `json:"permissions"`
		} `json:"membership"`
		GroundID string `json:"ground_id"`
	}](t, w)
	assert.Equal(t, g.ID, joined.GroundID)
	assert.Equal(t, "member", joined.Membership.Role)
	assert.Equal(t, "active", joined.Membership.Status)
	assert.Equal(t, "can_reserve", joined.Membership.Permissions)

	w = a.executeRequest("POST", "/v1/memberships/join", map[string]any{"invite_code": "ABC123"}, hunterToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Members never see the invite code
	w = a.executeRequest("GET", "/v1/grounds/"+g.ID, nil, hunterToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "ABC123")

	// Owner places a high seat
	w = a.executeRequest("POST", "/v1/grounds/"+g.ID+"/points", map[string]any{
		"type": "high_seat", "name": "Posed u lesa", "lat": 49.85, "lng": 15.45,
	}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	point := decode[idResponse](t, w)

	// Members cannot edit points
	w = a.executeRequest("POST", "/v1/grounds/"+g.ID+"/points", map[string]any{
		"type": "feeder", "name": "Krmelec", "lat": 49.85, "lng": 15.45,
	}, hunterToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	reserve := func(start, end string) *httptest.ResponseRecorder {
		return a.executeRequest("POST", "/v1/grounds/"+g.ID+"/reservations", map[string]any{
			"map_point_id": point.ID, "date": "2024-05-01", "start_time": start, "end_time": end,
		}, hunterToken)
	}

	w = reserve("16:00", "18:00")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[idResponse](t, w)

	w = reserve("17:00", "19:00")
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "16:00-18:00")

	// Touching windows do not collide
	w = reserve("18:00", "19:00")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	touching := decode[idResponse](t, w)

	w = reserve("18:00", "17:00")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Owner cancels the hunter's first reservation
	w = a.executeRequest("POST", "/v1/reservations/"+first.ID+"/cancel", nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)

	w = a.executeRequest("POST", "/v1/reservations/"+first.ID+"/cancel", nil, ownerToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The freed slot can be taken again
	w = a.executeRequest("POST", "/v1/reservations/"+touching.ID+"/cancel", nil, hunterToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = reserve("17:00", "19:00")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.executeRequest("GET", "/v1/grounds/"+g.ID+"/reservations", nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)
	active := decode[struct {
		Items []struct {
			StartTime time.Time `json:"start_time"`
		} `json:"items"`
	}](t, w)
	require.Len(t, active.Items, 1)
	assert.Equal(t, "17:00", active.Items[0].StartTime.UTC().Format("15:04"))

	// Overview cards and history bucket
	w = a.executeRequest("GET", "/v1/grounds", nil, hunterToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"member_count":1`)
	assert.Contains(t, w.Body.String(), `"point_count":1`)

	w = a.executeRequest("GET", "/v1/reservations?bucket=history", nil, hunterToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	history := decode[struct {
		Total int `json:"total"`
	}](t, w)
	assert.Equal(t, 3, history.Total)
}

func TestGroundDeletionIsOwnerOnly(t *testing.T) {
	a := newTestApp(t)
	ownerToken := a.login(t, "a@example.com", "Adam")
	hunterToken := a.login(t, "b@example.com", "Bohdan")

	w := a.executeRequest("POST", "/v1/grounds", map[string]any{"name": "Bory"}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	g := decode[idResponse](t, w)

	w = a.executeRequest("POST", "/v1/memberships/join", map[string]any{"invite_code": "ABC123"}, hunterToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.executeRequest("DELETE", "/v1/grounds/"+g.ID, nil, hunterToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.executeRequest("DELETE", "/v1/grounds/"+g.ID, nil, ownerToken)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = a.executeRequest("GET", "/v1/grounds/"+g.ID, nil, ownerToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.executeRequest("GET", "/v1/grounds", nil, hunterToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[]}`, w.Body.String())
}

func TestDeletingPointRemovesItsReservations(t *testing.T) {
	a := newTestApp(t)
	ownerToken := a.login(t, "a@example.com", "Adam")

	w := a.executeRequest("POST", "/v1/grounds", map[string]any{"name": "Bory"}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	g := decode[idResponse](t, w)

	w = a.executeRequest("POST", "/v1/grounds/"+g.ID+"/points", map[string]any{
		"type": "pulpit", "name": "Kazatelna", "lat": 49.8, "lng": 15.4,
	}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	point := decode[idResponse](t, w)

	w = a.executeRequest("POST", "/v1/grounds/"+g.ID+"/reservations", map[string]any{
		"map_point_id": point.ID, "date": "2024-05-01", "start_time": "10:00", "end_time": "12:00",
	}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	r := decode[idResponse](t, w)

	w = a.executeRequest("DELETE", "/v1/grounds/"+g.ID+"/points/"+point.ID, nil, ownerToken)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = a.executeRequest("GET", "/v1/grounds/"+g.ID+"/reservations", nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[]}`, w.Body.String())

	w = a.executeRequest("GET", "/v1/reservations/"+r.ID, nil, ownerToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
