package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostelcare/middlewares"
	"github.com/yeremiapane/hostelcare/models"
	"github.com/yeremiapane/hostelcare/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	errCreateUser  = errors.New("Error creating user")
	errInvalidRole = errors.New("Invalid role")
)

type UserController struct {
	DB     *gorm.DB
	Tokens *utils.TokenService
}

func NewUserController(db *gorm.DB, tokens *utils.TokenService) *UserController {
	return &UserController{DB: db, Tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login checks the credentials and returns a token with the user.
func (uc *UserController) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ErrUserNotFound)
		return
	}

	var user models.User
	err := uc.DB.WithContext(c.Request.Context()).
		Where("email = ?", strings.TrimSpace(input.Email)).
		First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Printf("Error looking up %s: %v", input.Email, err)
		}
		utils.RespondError(c, http.StatusBadRequest, utils.ErrUserNotFound)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ErrInvalidPassword)
		return
	}

	token, err := uc.Tokens.Issue(user.ID)
	if err != nil {
		utils.ErrorLogger.Printf("Error issuing token for user %d: %v", user.ID, err)
		utils.RespondError(c, http.StatusInternalServerError, utils.ErrServer)
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s, role: %s", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusOK, loginResponse{Token: token, User: user})
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Contact  string `json:"contact" binding:"required,numeric,len=10"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin student worker"`
	RoomNo   string `json:"roomNo"`
}

// CreateUser lets an admin add an account of any role.
func (uc *UserController) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.InfoLogger.Printf("Rejected user creation: %v", err)
		utils.RespondError(c, http.StatusBadRequest, errCreateUser)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errCreateUser)
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Contact:  req.Contact,
		Password: string(hashed),
		Role:     req.Role,
	}
	// only students live in a room
	if user.Role == models.RoleStudent {
		user.RoomNo = strings.TrimSpace(req.RoomNo)
	}

	if err := uc.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		utils.InfoLogger.Printf("Rejected user creation for %s: %v", user.Email, err)
		utils.RespondError(c, http.StatusBadRequest, errCreateUser)
		return
	}

	utils.InfoLogger.Printf("New user created: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusOK, user)
}

// GetAllUsers lists every account, optionally filtered by ?role=.
func (uc *UserController) GetAllUsers(c *gin.Context) {
	query := uc.DB.WithContext(c.Request.Context()).Order("id ASC")
	if role := c.Query("role"); role != "" {
		if !models.IsValidRole(role) {
			utils.RespondError(c, http.StatusBadRequest, errInvalidRole)
			return
		}
		query = query.Where("role = ?", role)
	}

	users := []models.User{}
	if err := query.Find(&users).Error; err != nil {
		utils.ErrorLogger.Printf("Error listing users: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, utils.ErrServer)
		return
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{"users": users})
}

// GetProfile returns the signed-in user.
func (uc *UserController) GetProfile(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, utils.ErrUnauthorized)
		return
	}
	utils.RespondJSON(c, http.StatusOK, user)
}
