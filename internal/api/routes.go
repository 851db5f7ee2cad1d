package api

import (
	"net/http"

	"alcyxob/fitness-ledger/internal/history"
	"alcyxob/fitness-ledger/internal/ledger"
	"alcyxob/fitness-ledger/internal/profile"
	"alcyxob/fitness-ledger/internal/repository"
	"alcyxob/fitness-ledger/internal/service"
	"alcyxob/fitness-ledger/internal/storage"
	"alcyxob/fitness-ledger/internal/workout"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	ledgerService *ledger.Service,
	engine *workout.Engine,
	scanner *history.Scanner,
	profileService *profile.Service,
	routines repository.RoutineRepository,
	fileStorage storage.FileStorage,
) {
	authHandler := NewAuthHandler(authService)
	ledgerHandler := NewLedgerHandler(ledgerService, fileStorage)
	workoutHandler := NewWorkoutHandler(engine, routines)
	historyHandler := NewHistoryHandler(scanner)
	profileHandler := NewProfileHandler(profileService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.SaveProfile)

		logGroup := protected.Group("/logs/:date")
		{
			logGroup.GET("", ledgerHandler.GetLog)
			logGroup.GET("/summary", ledgerHandler.GetSummary)

			logGroup.POST("/meals", ledgerHandler.AddMealEntry)
			logGroup.PUT("/meals/:entryId", ledgerHandler.UpdateMealEntry)
			logGroup.DELETE("/meals/:entryId", ledgerHandler.RemoveMealEntry)
			logGroup.POST("/repeat-meal", ledgerHandler.RepeatLastMeal)
			logGroup.POST("/meals/:entryId/photo-upload-url", ledgerHandler.RequestPhotoUploadURL)
			logGroup.GET("/meals/:entryId/photo-url", ledgerHandler.GetPhotoDownloadURL)

			logGroup.POST("/exercises", workoutHandler.AddStandaloneExercise)
			logGroup.DELETE("/exercises/:entryId", workoutHandler.RemoveStandaloneExercise)

			// POST /workouts instantiates from a routine template; PUT
			// upserts a full workout document.
			logGroup.POST("/workouts", workoutHandler.InstantiateFromRoutine)
			logGroup.PUT("/workouts", workoutHandler.UpsertWorkout)
			logGroup.DELETE("/workouts/:workoutId", workoutHandler.RemoveWorkout)
			logGroup.POST("/workouts/:workoutId/finish", workoutHandler.FinishWorkout)
			logGroup.POST("/workouts/:workoutId/promote", workoutHandler.PromoteToRoutine)
			logGroup.POST("/workouts/:workoutId/exercises", workoutHandler.AddExercise)
			logGroup.PUT("/workouts/:workoutId/exercises/:exerciseId", workoutHandler.UpdateExercise)
			logGroup.DELETE("/workouts/:workoutId/exercises/:exerciseId", workoutHandler.RemoveExercise)
			logGroup.PUT("/workouts/:workoutId/exercises/:exerciseId/performance", workoutHandler.RecordPerformance)

			logGroup.GET("/history/meals", historyHandler.LastMeals)
			logGroup.GET("/history/performance", historyHandler.LastPerformance)
		}

		protected.GET("/history/exercises", historyHandler.ExerciseHistory)

		routineGroup := protected.Group("/routines")
		{
			routineGroup.GET("", workoutHandler.ListRoutines)
			routineGroup.DELETE("/:routineId", workoutHandler.DeleteRoutine)
		}
	}
}
