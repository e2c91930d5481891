package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostelcare/controllers"
	"github.com/yeremiapane/hostelcare/hub"
	"github.com/yeremiapane/hostelcare/middlewares"
	"github.com/yeremiapane/hostelcare/models"
	"github.com/yeremiapane/hostelcare/services"
	"github.com/yeremiapane/hostelcare/utils"
	"gorm.io/gorm"
)

// Dependencies are the shared pieces the routes are built from.
type Dependencies struct {
	DB                 *gorm.DB
	Tokens             *utils.TokenService
	Hub                *hub.Hub
	CORSOrigin         string
	LoginRatePerMinute int
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.CORSOrigin))

	notifier := services.NewNotifier(deps.DB, deps.Hub)

	userCtrl := controllers.NewUserController(deps.DB, deps.Tokens)
	complaintCtrl := controllers.NewComplaintController(deps.DB, notifier)
	cleaningCtrl := controllers.NewCleaningController(deps.DB, notifier)
	notificationCtrl := controllers.NewNotificationController(deps.DB)
	dashboardCtrl := controllers.NewDashboardController(
		services.NewRoomStatusService(deps.DB),
		services.NewReportService(),
	)
	realtimeCtrl := controllers.NewRealtimeController(deps.Hub, deps.CORSOrigin)

	rate := deps.LoginRatePerMinute
	if rate <= 0 {
		rate = 10
	}
	loginLimiter := middlewares.NewRateLimiter(rate)

	auth := middlewares.AuthMiddleware(deps.Tokens, deps.DB)
	adminOnly := middlewares.RoleCheck(models.RoleAdmin)
	studentOnly := middlewares.RoleCheck(models.RoleStudent)
	workerOnly := middlewares.RoleCheck(models.RoleWorker)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	api.POST("/login", loginLimiter.RateLimit(), userCtrl.Login)
	api.GET("/dashboard/room-status", dashboardCtrl.GetRoomStatus)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api.GET("/me", auth, userCtrl.GetProfile)
	api.GET("/notifications", auth, notificationCtrl.GetMyNotifications)
	api.PUT("/notifications/:id/read", auth, notificationCtrl.MarkRead)

	// Admin
	api.POST("/create-user", auth, adminOnly, userCtrl.CreateUser)
	api.GET("/users", auth, adminOnly, userCtrl.GetAllUsers)
	api.GET("/complaints/all", auth, adminOnly, complaintCtrl.GetAllComplaints)
	api.PUT("/complaints/:id/resolve", auth, adminOnly, complaintCtrl.ResolveComplaint)
	api.GET("/cleaning/all", auth, adminOnly, cleaningCtrl.GetAllCleaningRequests)
	api.PUT("/cleaning/:id/assign", auth, adminOnly, cleaningCtrl.AssignWorker)
	api.GET("/dashboard/room-status/export", auth, adminOnly, dashboardCtrl.ExportRoomStatus)

	// Student
	api.POST("/complaint", auth, studentOnly, complaintCtrl.CreateComplaint)
	api.GET("/student/complaints", auth, studentOnly, complaintCtrl.GetStudentComplaints)
	api.POST("/clean", auth, studentOnly, cleaningCtrl.CreateCleaningRequest)
	api.GET("/student/cleanRequests", auth, studentOnly, cleaningCtrl.GetStudentCleaningRequests)

	// Worker
	api.GET("/worker/assigned", auth, workerOnly, cleaningCtrl.GetWorkerAssigned)
	api.PUT("/cleaning/:id/status", auth, workerOnly, cleaningCtrl.UpdateStatus)

	// token comes from the query string, browsers cannot set headers on upgrade
	r.GET("/ws", middlewares.WebSocketAuthMiddleware(deps.Tokens, deps.DB), realtimeCtrl.Stream)

	return r
}
