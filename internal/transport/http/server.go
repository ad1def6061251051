package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "mathsolve/internal/app"
	"mathsolve/internal/bootstrap"
	"mathsolve/internal/repository"
	"mathsolve/internal/solver"
	"mathsolve/internal/transport/http/handler"
	"mathsolve/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/health", healthHandler.Check)
	router.GET("/health/detailed", healthHandler.CheckDetailed)

	userRepo := repository.NewUserRepository(app.DB)
	questionRepo := repository.NewQuestionRepository(app.DB)
	answerRepo := repository.NewAnswerRepository(app.DB)

	backends := []solver.Backend{}
	if app.Config.OpenAI.APIKey != "" {
		backends = append(backends, solver.NewOpenAIBackend(app.Config.OpenAI.APIKey, app.Config.OpenAI.Model))
	}
	backends = append(backends,
		solver.NewOllamaBackend(app.Config.Ollama.BaseURL, app.Config.Ollama.Model),
		solver.NewMockBackend(),
	)
	questionSolver := solver.New(app.Log, backends...)

	userService := appsvc.NewUserService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)

	var publisher appsvc.SolveEventPublisher
	if app.EventPublisher != nil {
		publisher = app.EventPublisher
	}
	questionService := appsvc.NewQuestionService(
		questionRepo,
		answerRepo,
		userRepo,
		app.Cache,
		questionSolver,
		publisher,
		app.Log,
		time.Duration(app.Config.Redis.AnswerTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
	)
	bulkService := appsvc.NewBulkService(questionRepo, answerRepo, userRepo, questionSolver, app.Log)

	userHandler := handler.NewUserHandler(userService)
	questionHandler := handler.NewQuestionHandler(questionService, bulkService)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", userHandler.Register)
	authGroup.POST("/login", userHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), userHandler.Me)

	userGroup := v1.Group("/users")
	userGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	userGroup.GET("/:id", userHandler.Get)
	userGroup.PUT("/:id", userHandler.Update)
	userGroup.DELETE("/:id", userHandler.Delete)

	questionGroup := v1.Group("/question")
	questionGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	questionGroup.POST("", questionHandler.Submit)
	questionGroup.GET("/stats", questionHandler.Stats)
	questionGroup.GET("/:id", questionHandler.Get)
	questionGroup.DELETE("/:id", questionHandler.Delete)
	questionGroup.GET("/user/:userId/history", questionHandler.History)
	questionGroup.POST("/ingest", questionHandler.BulkIngest)

	return router
}
