package controllers

import (
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
	errCreateComplaint   = errors.New("Error creating complaint")
	errComplaintNotFound = errors.New("Complaint not found")
)

type ComplaintController struct {
	DB       *gorm.DB
	Notifier *services.Notifier
}

func NewComplaintController(db *gorm.DB, notifier *services.Notifier) *ComplaintController {
	return &ComplaintController{DB: db, Notifier: notifier}
}

// CreateComplaint files a complaint owned by the signed-in student.
func (cc *ComplaintController) CreateComplaint(c *gin.Context) {
	student, ok := currentUser(c)
	if !ok {
		return
	}

	type reqBody struct {
		Category    string `json:"category" binding:"required"`
		Description string `json:"description" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errCreateComplaint)
		return
	}

	complaint := models.Complaint{
		StudentID:   student.ID,
		Category:    body.Category,
		Description: body.Description,
		Status:      models.ComplaintPending,
	}
	if err := cc.DB.WithContext(c.Request.Context()).Create(&complaint).Error; err != nil {
		utils.ErrorLogger.Printf("Error creating complaint for student %d: %v", student.ID, err)
		utils.RespondError(c, http.StatusBadRequest, errCreateComplaint)
		return
	}

	utils.InfoLogger.Printf("Complaint %d filed by student %d (%s)", complaint.ID, student.ID, complaint.Category)
	cc.Notifier.Broadcast(models.RoleAdmin, hub.EventComplaintCreated, complaint)

	utils.RespondJSON(c, http.StatusOK, complaint)
}

// GetStudentComplaints lists the signed-in student's complaints.
func (cc *ComplaintController) GetStudentComplaints(c *gin.Context) {
	student, ok := currentUser(c)
	if !ok {
		return
	}

	complaints := []models.Complaint{}
	if err := cc.DB.WithContext(c.Request.Context()).
		Where("student_id = ?", student.ID).
		Order("created_at DESC").Order("id DESC").
		Find(&complaints).Error; err != nil {
		respondStoreError(c, err, errComplaintNotFound)
		return
	}

	utils.RespondJSON(c, http.StatusOK, complaints)
}

// GetAllComplaints lists every complaint with its student.
func (cc *ComplaintController) GetAllComplaints(c *gin.Context) {
	complaints := []models.Complaint{}
	if err := cc.DB.WithContext(c.Request.Context()).
		Preload("Student", services.SelectStudentFields).
		Order("created_at DESC").Order("id DESC").
		Find(&complaints).Error; err != nil {
		respondStoreError(c, err, errComplaintNotFound)
		return
	}

	utils.RespondJSON(c, http.StatusOK, complaints)
}

// ResolveComplaint marks a complaint resolved. Resolving twice is harmless.
func (cc *ComplaintController) ResolveComplaint(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	db := cc.DB.WithContext(c.Request.Context())

	var complaint models.Complaint
	if err := db.First(&complaint, id).Error; err != nil {
		respondStoreError(c, err, errComplaintNotFound)
		return
	}

	alreadyResolved := complaint.Status == models.ComplaintResolved
	if !alreadyResolved {
		if err := db.Model(&complaint).Update("status", models.ComplaintResolved).Error; err != nil {
			respondStoreError(c, err, errComplaintNotFound)
			return
		}
	}

	if err := db.Preload("Student", services.SelectStudentFields).First(&complaint, id).Error; err != nil {
		respondStoreError(c, err, errComplaintNotFound)
		return
	}

	if !alreadyResolved {
		utils.InfoLogger.Printf("Complaint %d resolved", complaint.ID)
		msg := fmt.Sprintf("Your %s complaint has been resolved", complaint.Category)
		if err := cc.Notifier.Notify(c.Request.Context(), complaint.StudentID, hub.EventComplaintResolved, msg, complaint); err != nil {
			utils.ErrorLogger.Printf("Error notifying student %d: %v", complaint.StudentID, err)
		}
	}

	utils.RespondJSON(c, http.StatusOK, complaint)
}
