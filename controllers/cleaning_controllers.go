package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostelcare/hub"
	"github.com/yeremiapane/hostelcare/models"
	"github.com/yeremiapane/hostelcare/services"
	"github.com/yeremiapane/hostelcare/utils"
	"gorm.io/gorm"
)

var (
	errCreateCleaning   = errors.New("Error creating cleaning request")
	errCleaningNotFound = errors.New("Cleaning request not found")
	errInvalidStatus    = errors.New("Invalid status")
)

type CleaningController struct {
	DB       *gorm.DB
	Notifier *services.Notifier
}

func NewCleaningController(db *gorm.DB, notifier *services.Notifier) *CleaningController {
	return &CleaningController{DB: db, Notifier: notifier}
}

func withStudent(db *gorm.DB) *gorm.DB {
	return db.Preload("Student", services.SelectStudentFields)
}

func withWorker(db *gorm.DB) *gorm.DB {
	return db.Preload("AssignedWorker", services.SelectWorkerFields)
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

// CreateCleaningRequest records a cleaning request owned by the signed-in
// student.
func (cc *CleaningController) CreateCleaningRequest(c *gin.Context) {
	student, ok := currentUser(c)
	if !ok {
		return
	}

	type reqBody struct {
		RoomNo        string `json:"roomNo" binding:"required"`
		PreferredTime string `json:"preferredTime" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errCreateCleaning)
		return
	}

	request := models.CleaningRequest{
		StudentID:     student.ID,
		RoomNo:        body.RoomNo,
		PreferredTime: body.PreferredTime,
		Status:        models.CleaningPending,
	}
	if err := cc.DB.WithContext(c.Request.Context()).Create(&request).Error; err != nil {
		utils.ErrorLogger.Printf("Error creating cleaning request for student %d: %v", student.ID, err)
		utils.RespondError(c, http.StatusBadRequest, errCreateCleaning)
		return
	}

	utils.InfoLogger.Printf("Cleaning request %d for room %s by student %d", request.ID, request.RoomNo, student.ID)
	cc.Notifier.Broadcast(models.RoleAdmin, hub.EventCleaningCreated, request)

	utils.RespondJSON(c, http.StatusOK, request)
}

// GetStudentCleaningRequests lists the signed-in student's requests with the
// assigned worker.
func (cc *CleaningController) GetStudentCleaningRequests(c *gin.Context) {
	student, ok := currentUser(c)
	if !ok {
		return
	}

	requests := []models.CleaningRequest{}
	if err := newestFirst(withWorker(cc.DB.WithContext(c.Request.Context()))).
		Where("student_id = ?", student.ID).
		Find(&requests).Error; err != nil {
		respondStoreError(c, err, errCleaningNotFound)
		return
	}

	utils.RespondJSON(c, http.StatusOK, requests)
}

// GetAllCleaningRequests lists every request with student and worker.
func (cc *CleaningController) GetAllCleaningRequests(c *gin.Context) {
	requests := []models.CleaningRequest{}
	if err := newestFirst(withWorker(withStudent(cc.DB.WithContext(c.Request.Context())))).
		Find(&requests).Error; err != nil {
		respondStoreError(c, err, errCleaningNotFound)
		return
	}

	utils.RespondJSON(c, http.StatusOK, requests)
}

// GetWorkerAssigned lists the requests assigned to the signed-in worker.
func (cc *CleaningController) GetWorkerAssigned(c *gin.Context) {
	worker, ok := currentUser(c)
	if !ok {
		return
	}

	requests := []models.CleaningRequest{}
	if err := newestFirst(withStudent(cc.DB.WithContext(c.Request.Context()))).
		Where("assigned_worker_id = ?", worker.ID).
		Find(&requests).Error; err != nil {
		respondStoreError(c, err, errCleaningNotFound)
		return
	}

	utils.RespondJSON(c, http.StatusOK, requests)
}

// AssignWorker sets the assigned worker. The status is left untouched.
func (cc *CleaningController) AssignWorker(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	type reqBody struct {
		WorkerID flexID `json:"workerId" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ErrInvalidWorker)
		return
	}

	db := cc.DB.WithContext(c.Request.Context())

	var worker models.User
	if err := db.Where("role = ?", models.RoleWorker).First(&worker, uint(body.WorkerID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusBadRequest, utils.ErrInvalidWorker)
			return
		}
		respondStoreError(c, err, utils.ErrInvalidWorker)
		return
	}

	request, err := cc.updateField(c.Request.Context(), id, "assigned_worker_id", worker.ID)
	if err != nil {
		respondStoreError(c, err, errCleaningNotFound)
		return
	}

	utils.InfoLogger.Printf("Cleaning request %d assigned to worker %d", request.ID, worker.ID)
	msg := fmt.Sprintf("Room %s needs cleaning (%s)", request.RoomNo, request.PreferredTime)
	if err := cc.Notifier.Notify(c.Request.Context(), worker.ID, hub.EventCleaningAssigned, msg, request); err != nil {
		utils.ErrorLogger.Printf("Error notifying worker %d: %v", worker.ID, err)
	}

	utils.RespondJSON(c, http.StatusOK, request)
}

// UpdateStatus sets the status. The assigned worker is left untouched.
func (cc *CleaningController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	type reqBody struct {
		Status string `json:"status" binding:"required,max=32"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidStatus)
		return
	}

	request, err := cc.updateField(c.Request.Context(), id, "status", body.Status)
	if err != nil {
		respondStoreError(c, err, errCleaningNotFound)
		return
	}

	utils.InfoLogger.Printf("Cleaning request %d status set to %q", request.ID, request.Status)
	msg := fmt.Sprintf("Cleaning of room %s is now %s", request.RoomNo, request.Status)
	if err := cc.Notifier.Notify(c.Request.Context(), request.StudentID, hub.EventCleaningStatus, msg, request); err != nil {
		utils.ErrorLogger.Printf("Error notifying student %d: %v", request.StudentID, err)
	}
	cc.Notifier.Broadcast(models.RoleAdmin, hub.EventCleaningStatus, request)

	utils.RespondJSON(c, http.StatusOK, request)
}

// updateField writes a single column so concurrent assign and status updates
// never overwrite each other, then reloads the request with its references.
func (cc *CleaningController) updateField(ctx context.Context, id uint, column string, value interface{}) (models.CleaningRequest, error) {
	db := cc.DB.WithContext(ctx)

	var request models.CleaningRequest
	if err := db.First(&request, id).Error; err != nil {
		return request, err
	}
	if err := db.Model(&request).Update(column, value).Error; err != nil {
		return request, err
	}
	if err := withWorker(withStudent(db)).First(&request, id).Error; err != nil {
		return request, err
	}
	return request, nil
}
