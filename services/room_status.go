package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yeremiapane/hostelcare/models"
	"gorm.io/gorm"
)

const (
	StatusNotRequested = "Not Requested"
	noRoom             = "-"
)

// WorkerRef identifies the assigned worker on the public dashboard.
type WorkerRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RoomStatus is one row of the room-status dashboard, one per student.
type RoomStatus struct {
	RoomNo          string     `json:"roomNo"`
	Student         string     `json:"student"`
	Status          string     `json:"status"`
	Worker          *WorkerRef `json:"worker"`
	LastRequestDate *time.Time `json:"lastRequestDate"`
}

type RoomStatusReport struct {
	TotalRooms   int          `json:"totalRooms"`
	Cleaned      int          `json:"cleaned"`
	Pending      int          `json:"pending"`
	NotRequested int          `json:"notRequested"`
	Rooms        []RoomStatus `json:"rooms"`
}

// LatestRequestPerRoom keeps the most recent cleaning request of every room.
// Requests are ordered newest first (created_at, then id) and each room keeps
// the first request it sees.
func LatestRequestPerRoom(requests []models.CleaningRequest) map[string]models.CleaningRequest {
	sorted := make([]models.CleaningRequest, len(requests))
	copy(sorted, requests)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})

	latest := make(map[string]models.CleaningRequest, len(sorted))
	for _, req := range sorted {
		if _, seen := latest[req.RoomNo]; !seen {
			latest[req.RoomNo] = req
		}
	}
	return latest
}

// BuildRoomStatus joins students with the latest cleaning request of their
// room. Rooms that have requests but no current student do not appear.
func BuildRoomStatus(students []models.User, requests []models.CleaningRequest) RoomStatusReport {
	latest := LatestRequestPerRoom(requests)

	report := RoomStatusReport{Rooms: make([]RoomStatus, 0, len(students))}
	for _, s := range students {
		row := RoomStatus{
			RoomNo:  s.RoomNo,
			Student: s.Name,
			Status:  StatusNotRequested,
		}
		if row.RoomNo == "" {
			row.RoomNo = noRoom
		}

		if req, ok := latest[s.RoomNo]; ok && s.RoomNo != "" {
			row.Status = req.Status
			row.Worker = workerOf(req)
			created := req.CreatedAt
			row.LastRequestDate = &created
		}

		switch row.Status {
		case models.CleaningCompleted:
			report.Cleaned++
		case models.CleaningPending:
			report.Pending++
		case StatusNotRequested:
			report.NotRequested++
		}
		report.Rooms = append(report.Rooms, row)
	}
	report.TotalRooms = len(report.Rooms)

	return report
}

func workerOf(req models.CleaningRequest) *WorkerRef {
	if req.AssignedWorker != nil {
		return &WorkerRef{ID: req.AssignedWorker.ID, Name: req.AssignedWorker.Name}
	}
	if req.AssignedWorkerID != nil {
		return &WorkerRef{ID: *req.AssignedWorkerID}
	}
	return nil
}

// RoomStatusService loads students and cleaning requests and builds the
// room-status report.
type RoomStatusService struct {
	db *gorm.DB
}

func NewRoomStatusService(db *gorm.DB) *RoomStatusService {
	return &RoomStatusService{db: db}
}

func (s *RoomStatusService) Report(ctx context.Context) (RoomStatusReport, error) {
	var students []models.User
	if err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleStudent).
		Order("id ASC").
		Find(&students).Error; err != nil {
		return RoomStatusReport{}, fmt.Errorf("failed to load students: %w", err)
	}

	var requests []models.CleaningRequest
	if err := s.db.WithContext(ctx).
		Preload("AssignedWorker", selectWorkerRef).
		Order("created_at DESC").Order("id DESC").
		Find(&requests).Error; err != nil {
		return RoomStatusReport{}, fmt.Errorf("failed to load cleaning requests: %w", err)
	}

	return BuildRoomStatus(students, requests), nil
}

// SelectStudentFields limits an expanded student to display data.
func SelectStudentFields(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "room_no")
}

// SelectWorkerFields limits an expanded worker to display data.
func SelectWorkerFields(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

func selectWorkerRef(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name")
}
