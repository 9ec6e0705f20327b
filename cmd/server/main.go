package main

import (
	"context"
	"log"

	"unijournal/internal/cache"
	"unijournal/internal/config"
	"unijournal/internal/database"
	"unijournal/internal/handlers"
	"unijournal/internal/middleware"
	"unijournal/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.Load()

	// Подключаемся к базе данных
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Выполняем миграции
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Файловое хранилище (аватары, выгрузки журналов)
	store, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		log.Printf("Warning: storage bucket not ready: %v", err)
	}

	// Кэш горячих ответов
	cacheService := cache.New(cfg.Cache.TTL, 2*cfg.Cache.TTL)

	// Настраиваем Gin
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Middleware
	router.Use(middleware.CORSMiddleware())

	// Инициализируем handlers
	authHandler := handlers.NewAuthHandler(cfg)
	userHandler := handlers.NewUserHandler(store)
	groupHandler := handlers.NewGroupHandler(cacheService)
	subjectHandler := handlers.NewSubjectHandler()
	scheduleHandler := handlers.NewScheduleHandler(cacheService)
	attendanceHandler := handlers.NewAttendanceHandler()
	gradeHandler := handlers.NewGradeHandler()
	analyticsHandler := handlers.NewAnalyticsHandler()
	exportHandler := handlers.NewExportHandler(store)

	// API routes
	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		// Публичные роуты (без аутентификации)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		// Защищенные роуты (требуют аутентификации)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			// Текущий пользователь
			protected.GET("/auth/me", authHandler.Me)

			// Пользователи
			users := protected.Group("/users")
			{
				users.POST("", middleware.RequireRole("admin"), authHandler.Register)
				users.GET("", userHandler.ListUsers)
				users.GET("/:id", userHandler.GetUser)
				users.PUT("/:id", userHandler.UpdateUser)
				users.DELETE("/:id", middleware.RequireRole("admin"), userHandler.DeleteUser)
				users.PUT("/:id/password", userHandler.ChangePassword)
				users.POST("/:id/avatar", userHandler.UploadAvatar)
				users.GET("/:id/avatar", userHandler.GetAvatar)
			}

			// Списки для выпадающих меню
			protected.GET("/teachers", userHandler.ListTeachers)
			protected.GET("/students", userHandler.ListStudents)

			// Группы
			groups := protected.Group("/groups")
			{
				groups.POST("", middleware.RequireRole("admin"), groupHandler.CreateGroup)
				groups.GET("", groupHandler.ListGroups)
				groups.GET("/:id", groupHandler.GetGroup)
				groups.PUT("/:id", middleware.RequireRole("admin"), groupHandler.UpdateGroup)
				groups.DELETE("/:id", middleware.RequireRole("admin"), groupHandler.DeleteGroup)
				groups.POST("/:id/students", middleware.RequireRole("admin"), groupHandler.AddStudents)
				groups.DELETE("/:id/students/:student_id", middleware.RequireRole("admin"), groupHandler.RemoveStudent)
			}

			// Дисциплины
			subjects := protected.Group("/subjects")
			{
				subjects.POST("", middleware.RequireRole("admin"), subjectHandler.CreateSubject)
				subjects.GET("", subjectHandler.ListSubjects)
				subjects.GET("/:id", subjectHandler.GetSubject)
				subjects.PUT("/:id", middleware.RequireRole("admin"), subjectHandler.UpdateSubject)
				subjects.DELETE("/:id", middleware.RequireRole("admin"), subjectHandler.DeleteSubject)
				subjects.POST("/:id/teachers", middleware.RequireRole("admin"), subjectHandler.AssignTeachers)
				subjects.DELETE("/:id/teachers/:teacher_id", middleware.RequireRole("admin"), subjectHandler.RemoveTeacher)
			}

			// Недельное расписание
			scheduleRoutes := protected.Group("/schedule")
			{
				scheduleRoutes.GET("/group/:id", scheduleHandler.GetGroupSchedule)
				scheduleRoutes.GET("/group/:id/grid", scheduleHandler.GetGroupGrid)
				scheduleRoutes.POST("", middleware.RequireRole("admin"), scheduleHandler.SaveSchedule)
				scheduleRoutes.DELETE("/group/:id", middleware.RequireRole("admin"), scheduleHandler.DeleteGroupSchedule)
			}

			// Посещаемость
			attendance := protected.Group("/attendance")
			{
				attendance.POST("", middleware.RequireRole("admin", "teacher"), attendanceHandler.MarkAttendance)
				attendance.POST("/bulk", middleware.RequireRole("admin", "teacher"), attendanceHandler.BulkMarkAttendance)
				attendance.GET("", attendanceHandler.GetAttendance)
				attendance.GET("/student/:id/stats", attendanceHandler.GetStudentStats)
				attendance.DELETE("/:id", middleware.RequireRole("admin"), attendanceHandler.DeleteAttendance)
			}

			// Оценки
			grades := protected.Group("/grades")
			{
				grades.POST("", middleware.RequireRole("admin", "teacher"), gradeHandler.CreateGrade)
				grades.GET("", gradeHandler.ListGrades)
				grades.GET("/:id", gradeHandler.GetGrade)
				grades.PUT("/:id", middleware.RequireRole("admin", "teacher"), gradeHandler.UpdateGrade)
				grades.DELETE("/:id", middleware.RequireRole("admin", "teacher"), gradeHandler.DeleteGrade)
				grades.GET("/student/:id/average", gradeHandler.GetStudentAverage)
				grades.GET("/group/:id/journal", gradeHandler.GetGroupJournal)
			}

			// Аналитика
			analytics := protected.Group("/analytics")
			{
				analytics.GET("/university", analyticsHandler.GetUniversityStats)
				analytics.GET("/group/:id", analyticsHandler.GetGroupStats)
				analytics.GET("/attendance-report", analyticsHandler.GetAttendanceReport)
				analytics.GET("/grades-report", analyticsHandler.GetGradesReport)
			}

			// Экспорт данных
			export := protected.Group("/export")
			{
				export.GET("/group/:id/grades", exportHandler.ExportGroupGrades)
				export.GET("/group/:id/attendance", exportHandler.ExportGroupAttendance)
				export.GET("/group/:id/schedule", exportHandler.ExportGroupSchedule)
			}
		}
	}

	// Запускаем сервер
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
