package controllers_test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yeremiapane/hostelcare/models"
	"github.com/yeremiapane/hostelcare/services"
)

func TestRoomStatusIsPublic(t *testing.T) {
	f := newCleaningFixture(t)
	f.app.createUser("Andi", "andi@hostel.test", models.RoleStudent, "A-102")
	req := f.request(t)
	f.assign(t, req.ID, f.worker.ID)
	f.setStatus(t, req.ID, models.CleaningCompleted)

	w := f.app.do(http.MethodGet, "/api/dashboard/room-status", "", nil)
	requireStatus(t, w, http.StatusOK)

	report := decode[services.RoomStatusReport](t, w)
	assert.Equal(t, 2, report.TotalRooms)
	assert.Equal(t, 1, report.Cleaned)
	assert.Equal(t, 0, report.Pending)
	assert.Equal(t, 1, report.NotRequested)
	require.Len(t, report.Rooms, 2)

	byRoom := map[string]services.RoomStatus{}
	for _, r := range report.Rooms {
		byRoom[r.RoomNo] = r
	}
	assert.Equal(t, models.CleaningCompleted, byRoom["A-101"].Status)
	require.NotNil(t, byRoom["A-101"].Worker)
	assert.Equal(t, "Budi", byRoom["A-101"].Worker.Name)
	assert.NotNil(t, byRoom["A-101"].LastRequestDate)
	assert.Equal(t, services.StatusNotRequested, byRoom["A-102"].Status)
	assert.Nil(t, byRoom["A-102"].Worker)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "budi@hostel.test")
	assert.NotContains(t, w.Body.String(), `"email"`)
	assert.NotContains(t, w.Body.String(), "0001-01-01")
}

func TestExportRoomStatus(t *testing.T) {
	f := newCleaningFixture(t)
	f.request(t)
	token := f.app.tokenFor(f.admin)

	w := f.app.do(http.MethodGet, "/api/dashboard/room-status/export", token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	xlsx, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer xlsx.Close()
	rows, err := xlsx.GetRows("Room Status")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 6)
	assert.Equal(t, "A-101", rows[5][0])

	w = f.app.do(http.MethodGet, "/api/dashboard/room-status/export?format=pdf", token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = f.app.do(http.MethodGet, "/api/dashboard/room-status/export?format=csv", token, nil)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "unsupported export format", errorOf(t, w))
}

func TestExportRoomStatusRequiresAdmin(t *testing.T) {
	f := newCleaningFixture(t)

	requireStatus(t, f.app.do(http.MethodGet, "/api/dashboard/room-status/export", "", nil), http.StatusUnauthorized)
	requireStatus(t, f.app.do(http.MethodGet, "/api/dashboard/room-status/export", f.app.tokenFor(f.student), nil), http.StatusForbidden)
}
