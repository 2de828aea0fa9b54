package FiberConfig

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"

	"TaskHive/Controllers"
	"TaskHive/Models"
	"TaskHive/Notifications"
	"TaskHive/Socket"
	"TaskHive/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, hub *Socket.Hub) {
	notifier := Notifications.New(db, hub)

	// Initialize handlers
	taskController := Controllers.NewTaskController(db, notifier)
	messageController := Controllers.NewMessageController(db, notifier)
	channelController := Controllers.NewChannelController(db, notifier)
	announcementController := Controllers.NewAnnouncementController(db, notifier)
	workLogController := Controllers.NewWorkLogController(db)
	dashboardController := Controllers.NewDashboardController(db)
	socketHandler := Socket.NewHandler(hub)

	// Socket endpoint; clients register their user id over the socket
	// itself after connecting.
	app.Use("/ws", socketHandler.Upgrade)
	app.Get("/ws", websocket.New(socketHandler.Serve))

	// API group
	api := app.Group("/api")

	// Auth
	api.Post("/login", Controllers.Login)
	api.Post("/logout", Controllers.Logout)
	api.Get("/me", middleware.Verify(""), Controllers.CurrentUser)
	api.Post("/fcm-token", middleware.Verify(""), Models.UpdateToken)

	// User management, admin only
	users := api.Group("/users", middleware.Verify(Models.RoleAdmin))
	users.Post("/", Controllers.RegisterUser)
	users.Get("/", Controllers.FetchUsers)
	users.Patch("/:id", Controllers.UpdateUser)
	users.Delete("/:id", Controllers.DeleteUser)

	// Tasks
	tasks := api.Group("/tasks", middleware.Verify(""))
	tasks.Get("/", taskController.GetTasks)
	tasks.Post("/", taskController.CreateTask)
	tasks.Get("/:id", taskController.GetTask)
	tasks.Put("/:id", taskController.UpdateTask)
	tasks.Delete("/:id", middleware.Verify(Models.RoleAdmin), taskController.DeleteTask)
	tasks.Get("/:id/timer", taskController.GetTaskTimer)

	// Direct messages
	messages := api.Group("/messages", middleware.Verify(""))
	messages.Post("/", messageController.SendMessage)
	messages.Get("/conversations", messageController.GetConversations)
	messages.Get("/:userId", messageController.GetThread)
	messages.Put("/read/:senderId", messageController.MarkRead)

	// Channels
	channels := api.Group("/channels", middleware.Verify(""))
	channels.Get("/", channelController.GetChannels)
	channels.Post("/", middleware.Verify(Models.RoleAdmin), channelController.CreateChannel)
	channels.Delete("/:id", middleware.Verify(Models.RoleAdmin), channelController.DeleteChannel)
	channels.Post("/:id/members", middleware.Verify(Models.RoleAdmin), channelController.AddMember)
	channels.Get("/:id/messages", channelController.GetChannelMessages)
	channels.Post("/:id/messages", channelController.SendChannelMessage)
	channels.Put("/:id/read", channelController.MarkChannelRead)

	// Notifications and badges
	api.Get("/notifications", middleware.Verify(""), Controllers.GetNotifications)
	api.Put("/notifications/read-all", middleware.Verify(""), Controllers.MarkAllNotificationsRead)
	api.Get("/unreads", middleware.Verify(""), Controllers.GetUnreadCounts)

	// Announcements
	api.Get("/announcements", middleware.Verify(""), announcementController.GetAnnouncements)
	api.Post("/announcements", middleware.Verify(Models.RoleAdmin), announcementController.CreateAnnouncement)

	// Work logs
	worklogs := api.Group("/worklogs", middleware.Verify(""))
	worklogs.Post("/start", workLogController.ClockIn)
	worklogs.Post("/stop", workLogController.ClockOut)
	worklogs.Get("/today", workLogController.Today)
	worklogs.Get("/report", middleware.Verify(Models.RoleAdmin), workLogController.Report)

	// Dashboard analytics, admin only
	dashboard := api.Group("/dashboard", middleware.Verify(Models.RoleAdmin))
	dashboard.Get("/summary", dashboardController.Summary)
	dashboard.Get("/priorities", dashboardController.PriorityBreakdown)
	dashboard.Get("/employees", dashboardController.EmployeeStats)
}

func FiberConfig(hub *Socket.Hub) {
	app := fiber.New()
	app.Use(middleware.Logger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Fatal(app.Listen(":" + port))
}
