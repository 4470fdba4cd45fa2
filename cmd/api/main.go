package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/biodun42/ThinkFast/internal/config"
	"github.com/biodun42/ThinkFast/internal/handler"
	"github.com/biodun42/ThinkFast/internal/middleware"
	pgRepo "github.com/biodun42/ThinkFast/internal/repository/postgres"
	redisRepo "github.com/biodun42/ThinkFast/internal/repository/redis"
	"github.com/biodun42/ThinkFast/internal/service"
	"github.com/biodun42/ThinkFast/internal/service/session"
	"github.com/biodun42/ThinkFast/internal/trivia"
	ws "github.com/biodun42/ThinkFast/internal/websocket"
	"github.com/biodun42/ThinkFast/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	resultRepo := pgRepo.NewResultRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Клиент внешнего источника вопросов
	triviaClient := trivia.NewClient(cfg.Trivia.BaseURL, time.Duration(cfg.Trivia.TimeoutSec)*time.Second)

	// Хаб событий сессий
	hub := ws.NewHub()

	// Инициализируем сервисы
	challengeService := service.NewChallengeService(triviaClient, cacheRepo)
	quizService := service.NewQuizService(triviaClient, resultRepo, challengeService, hub, sessionConfig(cfg.Session))
	resultService := service.NewResultService(resultRepo)
	settingsService := service.NewSettingsService(cacheRepo)

	// Инициализируем обработчики
	sessionHandler := handler.NewSessionHandler(quizService)
	leaderboardHandler := handler.NewLeaderboardHandler(resultService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	catalogHandler := handler.NewCatalogHandler(quizService, challengeService)
	wsHandler := handler.NewWSHandler(hub, quizService)

	// Инициализируем middleware
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	// В production (GIN_MODE=release): не доверяем прокси (защита от IP spoofing)
	// В development: доверяем localhost
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8000", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Сессии квиза
		sessions := api.Group("/sessions")
		{
			sessions.POST("", rateLimiter.Limit(middleware.SessionStartRateLimitConfig()), sessionHandler.StartSession)

			// Группа маршрутов, требующих id сессии
			sessionWithID := sessions.Group("/:id")
			sessionWithID.Use(middleware.ExtractSessionID("id", "sessionID"))
			{
				sessionWithID.GET("", sessionHandler.GetSession)
				sessionWithID.POST("/answer", sessionHandler.SubmitAnswer)
				sessionWithID.POST("/lifeline", sessionHandler.ApplyLifeline)
				sessionWithID.POST("/pause", sessionHandler.PauseSession)
				sessionWithID.POST("/resume", sessionHandler.ResumeSession)
				sessionWithID.DELETE("", sessionHandler.ExitSession)

				// Поток событий сессии
				sessionWithID.GET("/ws", wsHandler.HandleConnection)
			}
		}

		// Каталог
		api.GET("/categories", catalogHandler.GetCategories)
		api.GET("/daily-challenge", catalogHandler.GetDailyChallenge)

		// Таблица лидеров
		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		api.GET("/leaderboard/export", leaderboardHandler.ExportLeaderboard)
		api.DELETE("/leaderboard", leaderboardHandler.ClearLeaderboard)

		// Настройки
		api.GET("/settings", settingsHandler.GetSettings)
		api.PATCH("/settings", settingsHandler.UpdateSettings)
		api.DELETE("/settings", settingsHandler.ResetSettings)
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}

// sessionConfig переводит тайминги из конфигурации в настройки сессии.
// Нулевые значения заменяются умолчаниями.
func sessionConfig(cfg config.SessionConfig) *session.Config {
	sc := session.DefaultConfig()
	if cfg.TickIntervalMs > 0 {
		sc.TickInterval = time.Duration(cfg.TickIntervalMs) * time.Millisecond
	}
	if cfg.SubmitSettleDelayMs > 0 {
		sc.SubmitSettleDelay = time.Duration(cfg.SubmitSettleDelayMs) * time.Millisecond
	}
	if cfg.TimeoutSettleDelayMs > 0 {
		sc.TimeoutSettleDelay = time.Duration(cfg.TimeoutSettleDelayMs) * time.Millisecond
	}
	if cfg.SkipSettleDelayMs > 0 {
		sc.SkipSettleDelay = time.Duration(cfg.SkipSettleDelayMs) * time.Millisecond
	}
	return sc
}
