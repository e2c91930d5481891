package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hostelcare/config"
	"github.com/yeremiapane/hostelcare/database"
	"github.com/yeremiapane/hostelcare/hub"
	"github.com/yeremiapane/hostelcare/router"
	"github.com/yeremiapane/hostelcare/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error", "text")
	os.Exit(m.Run())
}

type integration struct {
	t   *testing.T
	srv *httptest.Server
	hub *hub.Hub
}

// setupIntegration boots the real router on an in-memory database seeded
// with an admin account, the same way main does.
func setupIntegration(t *testing.T) *integration {
	db, err := config.InitDB(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, gin.TestMode)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	created, err := database.SeedAdmin(db, config.SeedConfig{
		AdminName:     "Warden",
		AdminEmail:    "warden@hostel.test",
		AdminPassword: "warden-pass",
		AdminContact:  "0800000000",
	})
	require.NoError(t, err)
	require.True(t, created)

	h := hub.New()
	r := router.SetupRouter(router.Dependencies{
		DB:                 db,
		Tokens:             utils.NewTokenService("integration-test-secret", utils.DefaultTokenTTL),
		Hub:                h,
		CORSOrigin:         "*",
		LoginRatePerMinute: 100,
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &integration{t: t, srv: srv, hub: h}
}

func (it *integration) call(method, path, token string, body interface{}) (int, []byte) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(it.t, err)
	}

	req, err := http.NewRequest(method, it.srv.URL+path, bytes.NewReader(payload))
	require.NoError(it.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := it.srv.Client().Do(req)
	require.NoError(it.t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(it.t, err)
	return resp.StatusCode, buf.Bytes()
}

func (it *integration) mustCall(method, path, token string, body interface{}, out interface{}) {
	code, raw := it.call(method, path, token, body)
	require.Equal(it.t, http.StatusOK, code, "%s %s: %s", method, path, raw)
	if out != nil {
		require.NoError(it.t, json.Unmarshal(raw, out))
	}
}

func (it *integration) login(email, password string) (string, uint) {
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	it.mustCall(http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": password}, &resp)
	return resp.Token, resp.User.ID
}

func (it *integration) dialEvents(token string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(it.srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(it.t, err)
	it.t.Cleanup(func() { conn.Close() })
	return conn
}

// TestEndToEndIntegration runs the main hostel flows:
// 1. Admin logs in and creates a student and a worker
// 2. Student files a complaint, admin resolves it
// 3. Student requests cleaning, admin assigns the worker, worker completes it
// 4. The room-status dashboard reflects the result
func TestEndToEndIntegration(t *testing.T) {
	it := setupIntegration(t)

	adminToken, _ := it.login("warden@hostel.test", "warden-pass")

	it.mustCall(http.MethodPost, "/api/create-user", adminToken, map[string]string{
		"name": "Siti", "email": "siti@hostel.test", "contact": "0811111111",
		"password": "siti-pass", "role": "student", "roomNo": "A-101",
	}, nil)
	it.mustCall(http.MethodPost, "/api/create-user", adminToken, map[string]string{
		"name": "Budi", "email": "budi@hostel.test", "contact": "0822222222",
		"password": "budi-pass", "role": "worker",
	}, nil)

	studentToken, _ := it.login("siti@hostel.test", "siti-pass")
	workerToken, workerID := it.login("budi@hostel.test", "budi-pass")

	workerEvents := it.dialEvents(workerToken)
	// registration happens after the upgrade completes
	require.Eventually(t, func() bool { return it.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	// complaint flow
	var complaint struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	it.mustCall(http.MethodPost, "/api/complaint", studentToken,
		map[string]string{"category": "Plumbing", "description": "Leaking tap"}, &complaint)
	assert.Equal(t, "pending", complaint.Status)

	it.mustCall(http.MethodPut, fmt.Sprintf("/api/complaints/%d/resolve", complaint.ID), adminToken, nil, &complaint)
	assert.Equal(t, "resolved", complaint.Status)

	// cleaning flow
	var cleaning struct {
		ID               uint   `json:"id"`
		Status           string `json:"status"`
		AssignedWorkerID *uint  `json:"assignedWorkerId"`
	}
	it.mustCall(http.MethodPost, "/api/clean", studentToken,
		map[string]string{"roomNo": "A-101", "preferredTime": "09:00"}, &cleaning)

	it.mustCall(http.MethodPut, fmt.Sprintf("/api/cleaning/%d/assign", cleaning.ID), adminToken,
		map[string]uint{"workerId": workerID}, &cleaning)
	require.NotNil(t, cleaning.AssignedWorkerID)
	assert.Equal(t, "pending", cleaning.Status)

	workerEvents.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event hub.Message
	require.NoError(t, workerEvents.ReadJSON(&event))
	assert.Equal(t, hub.EventCleaningAssigned, event.Event)

	it.mustCall(http.MethodPut, fmt.Sprintf("/api/cleaning/%d/status", cleaning.ID), workerToken,
		map[string]string{"status": "completed"}, &cleaning)
	assert.Equal(t, "completed", cleaning.Status)
	assert.Equal(t, workerID, *cleaning.AssignedWorkerID)

	var report struct {
		TotalRooms   int `json:"totalRooms"`
		Cleaned      int `json:"cleaned"`
		Pending      int `json:"pending"`
		NotRequested int `json:"notRequested"`
	}
	it.mustCall(http.MethodGet, "/api/dashboard/room-status", "", nil, &report)
	assert.Equal(t, 1, report.TotalRooms)
	assert.Equal(t, 1, report.Cleaned)
	assert.Zero(t, report.Pending)
	assert.Zero(t, report.NotRequested)
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	it := setupIntegration(t)

	protected := []struct{ method, path string }{
		{http.MethodPost, "/api/create-user"},
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/me"},
		{http.MethodGet, "/api/dashboard/room-status/export"},
		{http.MethodPost, "/api/complaint"},
		{http.MethodGet, "/api/student/complaints"},
		{http.MethodGet, "/api/complaints/all"},
		{http.MethodPut, "/api/complaints/1/resolve"},
		{http.MethodPost, "/api/clean"},
		{http.MethodGet, "/api/student/cleanRequests"},
		{http.MethodGet, "/api/cleaning/all"},
		{http.MethodPut, "/api/cleaning/1/assign"},
		{http.MethodGet, "/api/worker/assigned"},
		{http.MethodPut, "/api/cleaning/1/status"},
		{http.MethodGet, "/api/notifications"},
		{http.MethodPut, "/api/notifications/1/read"},
	}

	for _, ep := range protected {
		code, raw := it.call(ep.method, ep.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, "%s %s", ep.method, ep.path)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, string(raw), "%s %s", ep.method, ep.path)

		code, raw = it.call(ep.method, ep.path, "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, code, "%s %s", ep.method, ep.path)
		assert.JSONEq(t, `{"error":"Invalid token"}`, string(raw), "%s %s", ep.method, ep.path)
	}
}

func TestReadsAreIdempotent(t *testing.T) {
	it := setupIntegration(t)
	adminToken, _ := it.login("warden@hostel.test", "warden-pass")

	for _, path := range []string{"/api/users", "/api/complaints/all", "/api/cleaning/all", "/api/dashboard/room-status"} {
		_, first := it.call(http.MethodGet, path, adminToken, nil)
		_, second := it.call(http.MethodGet, path, adminToken, nil)
		assert.JSONEq(t, string(first), string(second), path)
	}
}

func TestPingAndRequestID(t *testing.T) {
	it := setupIntegration(t)

	resp, err := it.srv.Client().Get(it.srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
