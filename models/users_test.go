package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserJSONOmitsUnloadedCreatedAt(t *testing.T) {
	ref := User{ID: 3, Name: "Budi", Email: "budi@hostel.test", Password: "hash"}
	data, err := json.Marshal(ref)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "createdAt")
	assert.NotContains(t, string(data), "0001-01-01")
	assert.NotContains(t, string(data), "hash")

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	full := User{ID: 3, Name: "Budi", Role: RoleWorker, CreatedAt: created}
	data, err = json.Marshal(&full)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"createdAt":"2024-03-01T12:00:00Z"`)
	assert.Contains(t, string(data), `"role":"worker"`)

	var back User
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, created.Equal(back.CreatedAt))
	assert.Equal(t, "Budi", back.Name)
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleStudent, RoleWorker} {
		assert.True(t, IsValidRole(role))
	}
	assert.False(t, IsValidRole("janitor"))
	assert.False(t, IsValidRole(""))
}
