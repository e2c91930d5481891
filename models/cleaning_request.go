package models

import (
	"time"
)

const (
	CleaningPending   = "pending"
	CleaningCompleted = "completed"
)

// CleaningRequest is a student's request to have a room cleaned. Status is a
// free-form string; workers set it, usually to "completed".
type CleaningRequest struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	StudentID        uint      `gorm:"not null;index" json:"studentId"`
	Student          *User     `gorm:"foreignKey:StudentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"student,omitempty"`
	RoomNo           string    `gorm:"type:varchar(50);not null;index" json:"roomNo"`
	PreferredTime    string    `gorm:"type:varchar(100);not null" json:"preferredTime"`
	Status           string    `gorm:"type:varchar(32);not null;default:'pending'" json:"status"`
	AssignedWorkerID *uint     `gorm:"index" json:"assignedWorkerId"`
	AssignedWorker   *User     `gorm:"foreignKey:AssignedWorkerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"assignedWorker,omitempty"`
	CreatedAt        time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"not null" json:"updatedAt"`
}
