package api

import (
	"net/http"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes wires every endpoint. Register/login/register-with-token and
// catalog reads are open; everything else sits behind the bearer middleware.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	trainerService service.TrainerService,
	exerciseService service.ExerciseService,
	programService service.ProgramService,
	workoutService service.WorkoutService,
	weightService service.WeightService,
) {
	authHandler := NewAuthHandler(authService, trainerService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	programHandler := NewProgramHandler(programService)
	workoutHandler := NewWorkoutHandler(workoutService)
	weightHandler := NewWeightHandler(weightService)

	authMiddleware := AuthMiddleware(jwtSecret)
	trainerOnly := RoleMiddleware(domain.RoleTrainer)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register-with-token", authHandler.RegisterWithToken)

		authGroup.GET("/profile", authMiddleware, authHandler.Profile)
		authGroup.POST("/generate-registration-link", authMiddleware, trainerOnly, authHandler.GenerateRegistrationLink)
		authGroup.GET("/registration-tokens", authMiddleware, trainerOnly, authHandler.ListRegistrationTokens)
		authGroup.GET("/clients", authMiddleware, trainerOnly, authHandler.ListClients)
		authGroup.GET("/clients/:id/details", authMiddleware, trainerOnly, authHandler.GetClientDetails)
	}

	exerciseGroup := router.Group("/exercises")
	{
		// Catalog reads are public.
		exerciseGroup.GET("", exerciseHandler.List)
		exerciseGroup.GET("/:id", exerciseHandler.Get)

		exerciseGroup.POST("", authMiddleware, exerciseHandler.Create)
		exerciseGroup.PATCH("/:id", authMiddleware, exerciseHandler.Update)
		exerciseGroup.DELETE("/:id", authMiddleware, exerciseHandler.Delete)
		exerciseGroup.POST("/:id/video-upload-url", authMiddleware, exerciseHandler.VideoUploadURL)
	}

	programGroup := router.Group("/programs")
	programGroup.Use(authMiddleware)
	{
		programGroup.POST("", trainerOnly, programHandler.Create)
		programGroup.GET("", programHandler.List)
		programGroup.GET("/my-programs", programHandler.MyPrograms)
		programGroup.GET("/:id", programHandler.Get)
		programGroup.PATCH("/:id", trainerOnly, programHandler.Update)
		programGroup.DELETE("/:id", trainerOnly, programHandler.Delete)
		programGroup.POST("/:id/copy/:clientId", trainerOnly, programHandler.CopyTemplate)

		programGroup.POST("/:id/sessions", trainerOnly, programHandler.AddSession)
		programGroup.GET("/:id/sessions", programHandler.GetSessions)
		programGroup.PATCH("/sessions/:sessionId", trainerOnly, programHandler.UpdateSession)
		programGroup.DELETE("/sessions/:sessionId", trainerOnly, programHandler.DeleteSession)

		programGroup.POST("/sessions/:sessionId/exercises", trainerOnly, programHandler.AddExercise)
		programGroup.GET("/sessions/:sessionId/exercises", programHandler.GetSessionExercises)
		programGroup.PATCH("/exercises/:exerciseId", trainerOnly, programHandler.UpdateExercise)
		programGroup.DELETE("/exercises/:exerciseId", trainerOnly, programHandler.DeleteExercise)
	}

	workoutGroup := router.Group("/workouts")
	workoutGroup.Use(authMiddleware)
	{
		workoutGroup.POST("/logs", workoutHandler.CreateLog)
		workoutGroup.GET("/logs", workoutHandler.ListLogs)
		workoutGroup.GET("/logs/:id", workoutHandler.GetLog)
		workoutGroup.PATCH("/logs/:id", workoutHandler.UpdateLog)
		workoutGroup.DELETE("/logs/:id", workoutHandler.DeleteLog)
		workoutGroup.POST("/logs/:id/exercises", workoutHandler.AddExerciseLog)
		workoutGroup.PATCH("/exercise-logs/:id", workoutHandler.UpdateExerciseLog)
		workoutGroup.GET("/stats", workoutHandler.Stats)
	}

	weightGroup := router.Group("/weight")
	weightGroup.Use(authMiddleware)
	{
		weightGroup.POST("", weightHandler.Create)
		weightGroup.GET("", weightHandler.List)
		weightGroup.PATCH("/:id", weightHandler.Update)
		weightGroup.DELETE("/:id", weightHandler.Delete)
		weightGroup.GET("/stats", weightHandler.Stats)
		weightGroup.GET("/progress", weightHandler.Progress)
	}
}
