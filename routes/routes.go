package routes

import (
	"staffpoint_go/controllers"
	"staffpoint_go/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App) {
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	employeeController := &controllers.EmployeeController{}
	termController := &controllers.TermController{}
	classController := &controllers.ClassController{}
	subjectController := &controllers.SubjectController{}
	roomController := &controllers.RoomController{}
	lessonPeriodController := &controllers.LessonPeriodController{}
	timetableController := &controllers.TimetableController{}
	settingsController := &controllers.SettingsController{}
	attendanceController := &controllers.AttendanceController{}
	classAttendanceController := &controllers.ClassAttendanceController{}
	reportController := &controllers.ReportController{}
	logController := &controllers.LogController{}
	notificationController := &controllers.NotificationController{}
	wsController := &controllers.WebSocketController{}

	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Post("/reset-password-token", authController.ResetPasswordWithToken)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)
	protected.Post("/auth/logout", authController.Logout)

	// Password reset routes (admin only)
	passwordReset := protected.Group("/password-reset", middleware.RequireAdmin())
	passwordReset.Post("/generate-token", authController.GeneratePasswordResetToken)
	passwordReset.Post("/reset-by-admin", authController.ResetPasswordByAdmin)

	// User management
	users := protected.Group("/users")
	users.Get("/", middleware.RequireAdmin(), userController.GetUsers)
	users.Get("/:id", middleware.RequireAdmin(), userController.GetUser)
	users.Post("/", middleware.RequireAdmin(), userController.CreateUser)
	users.Put("/:id", middleware.RequireAdmin(), userController.UpdateUser)
	users.Delete("/:id", middleware.RequireAdmin(), userController.DeleteUser)
	users.Post("/avatar", userController.UploadAvatar) // Users upload their own avatar

	// Employee profiles
	employees := protected.Group("/employees")
	employees.Get("/me", employeeController.GetMyEmployee)
	employees.Get("/", middleware.RequireAdmin(), employeeController.GetEmployees)
	employees.Get("/:id", middleware.RequireAdmin(), employeeController.GetEmployee)
	employees.Put("/:id", middleware.RequireAdmin(), employeeController.UpdateEmployee)

	// Terms
	terms := protected.Group("/terms")
	terms.Get("/", termController.GetTerms)
	terms.Get("/:id", termController.GetTerm)
	terms.Post("/", middleware.RequireAdmin(), termController.CreateTerm)
	terms.Put("/:id", middleware.RequireAdmin(), termController.UpdateTerm)
	terms.Post("/:id/activate", middleware.RequireAdmin(), termController.ActivateTerm)
	terms.Delete("/:id", middleware.RequireAdmin(), termController.DeleteTerm)

	// Classes
	classes := protected.Group("/classes")
	classes.Get("/", classController.GetClasses)
	classes.Get("/:id", classController.GetClass)
	classes.Post("/", middleware.RequireAdmin(), classController.CreateClass)
	classes.Put("/:id", middleware.RequireAdmin(), classController.UpdateClass)
	classes.Delete("/:id", middleware.RequireAdmin(), classController.DeleteClass)

	// Subjects
	subjects := protected.Group("/subjects")
	subjects.Get("/", subjectController.GetSubjects)
	subjects.Get("/:id", subjectController.GetSubject)
	subjects.Post("/", middleware.RequireAdmin(), subjectController.CreateSubject)
	subjects.Put("/:id", middleware.RequireAdmin(), subjectController.UpdateSubject)
	subjects.Delete("/:id", middleware.RequireAdmin(), subjectController.DeleteSubject)

	// Rooms
	rooms := protected.Group("/rooms")
	rooms.Get("/", roomController.GetRooms)
	rooms.Get("/:id", roomController.GetRoom)
	rooms.Post("/", middleware.RequireAdmin(), roomController.CreateRoom)
	rooms.Put("/:id", middleware.RequireAdmin(), roomController.UpdateRoom)
	rooms.Patch("/:id/status", middleware.RequireAdmin(), roomController.UpdateRoomStatus)
	rooms.Delete("/:id", middleware.RequireAdmin(), roomController.DeleteRoom)

	// Lesson periods
	periods := protected.Group("/lesson-periods")
	periods.Get("/", lessonPeriodController.GetLessonPeriods)
	periods.Get("/:id", lessonPeriodController.GetLessonPeriod)
	periods.Post("/", middleware.RequireAdmin(), lessonPeriodController.CreateLessonPeriod)
	periods.Put("/:id", middleware.RequireAdmin(), lessonPeriodController.UpdateLessonPeriod)
	periods.Delete("/:id", middleware.RequireAdmin(), lessonPeriodController.DeleteLessonPeriod)

	// Timetable
	timetable := protected.Group("/timetable")
	timetable.Get("/", timetableController.GetTimetable)
	timetable.Get("/today", middleware.RequireTrainerOrAdmin(), timetableController.GetTodaySlots)
	timetable.Get("/:id", timetableController.GetSlot)
	timetable.Post("/", middleware.RequireAdmin(), timetableController.CreateSlot)
	timetable.Put("/:id", middleware.RequireAdmin(), timetableController.UpdateSlot)
	timetable.Patch("/:id/status", middleware.RequireAdmin(), timetableController.UpdateSlotStatus)
	timetable.Delete("/:id", middleware.RequireAdmin(), timetableController.DeleteSlot)

	// Timetable settings (check-in window configuration)
	settings := protected.Group("/settings")
	settings.Get("/timetable", settingsController.GetSettings)
	settings.Put("/timetable", middleware.RequireAdmin(), settingsController.UpdateSettings)

	// Work attendance
	attendanceGroup := protected.Group("/attendance")
	attendanceGroup.Post("/check-in", attendanceController.CheckIn)
	attendanceGroup.Post("/check-out", attendanceController.CheckOut)
	attendanceGroup.Get("/me", attendanceController.GetMyAttendance)
	attendanceGroup.Get("/", middleware.RequireAdmin(), attendanceController.GetAttendance)

	// Class attendance
	classAttendance := protected.Group("/class-attendance")
	classAttendance.Post("/check-in", middleware.RequireTrainerOrAdmin(), classAttendanceController.CheckIn)
	classAttendance.Post("/check-out", middleware.RequireTrainerOrAdmin(), classAttendanceController.CheckOut)
	classAttendance.Get("/me", middleware.RequireTrainerOrAdmin(), classAttendanceController.GetMyClassAttendance)
	classAttendance.Get("/", middleware.RequireAdmin(), classAttendanceController.GetClassAttendance)

	// Reports (admin only)
	reports := protected.Group("/reports", middleware.RequireAdmin())
	reports.Get("/monthly", reportController.GetMonthlyReport)
	reports.Get("/monthly/pdf", reportController.DownloadMonthlyReportPDF)
	reports.Get("/monthly/excel", reportController.DownloadMonthlyReportExcel)
	reports.Get("/class-summary", reportController.GetClassAttendanceSummary)

	// Activity logs and archives (admin only)
	logs := protected.Group("/logs", middleware.RequireAdmin())
	logs.Get("/", logController.GetActivityLogs)
	logs.Get("/archives", logController.GetLogArchives)
	logs.Get("/archives/:id/download", logController.DownloadLogArchive)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetMyNotifications)
	notifications.Patch("/:id/read", notificationController.MarkNotificationRead)
	notifications.Post("/read-all", notificationController.MarkAllNotificationsRead)

	// WebSocket live feed
	protected.Get("/ws/stats", middleware.RequireAdmin(), wsController.GetStats)
	app.Use("/ws", wsController.WebSocketUpgrade)
	app.Get("/ws", middleware.JWTMiddleware(), wsController.StoreWSIdentity, wsController.HandleWebSocket())
}
