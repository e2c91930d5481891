package models

import (
	"encoding/json"
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
	RoleWorker  = "worker"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Contact   string    `gorm:"type:varchar(10);not null" json:"contact,omitempty"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null;index" json:"role,omitempty"`
	RoomNo    string    `gorm:"type:varchar(50);index" json:"roomNo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// IsValidRole reports whether role is one of the three hostel roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleStudent, RoleWorker:
		return true
	}
	return false
}

// MarshalJSON leaves out createdAt when it was not loaded, as with expanded
// references that select display fields only.
func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	out := struct {
		plain
		CreatedAt *time.Time `json:"createdAt,omitempty"`
	}{plain: plain(u)}
	if !u.CreatedAt.IsZero() {
		out.CreatedAt = &u.CreatedAt
	}
	return json.Marshal(out)
}
