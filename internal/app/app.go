package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/resourcing-service/internal/config"
	"github.com/aidar/resourcing-service/internal/handler"
	"github.com/aidar/resourcing-service/internal/middleware"
	"github.com/aidar/resourcing-service/internal/repository/postgres"
	"github.com/aidar/resourcing-service/internal/service"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config *config.Config
	db     *pgxpool.Pool
	server *http.Server
	logger *slog.Logger
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Подключаемся к базе данных
	if err := a.connectDB(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Настраиваем HTTP сервер и роутинг
	a.setupServer()

	a.logger.Info("Application initialized successfully")
	return nil
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Database.MaxConns
	poolConfig.MinConns = a.config.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	a.logger.Info("Connected to database")
	return nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer() {
	// Необработанные ошибки логируются через общий логгер приложения
	handler.SetLogger(a.logger)

	// Инициализируем слой репозиториев (работа с БД)
	userRepo := postgres.NewUserRepository(a.db)
	projectRepo := postgres.NewProjectRepository(a.db)
	capacityRepo := postgres.NewCapacityRepository(a.db)
	allocationRepo := postgres.NewAllocationRepository(a.db)
	txManager := postgres.NewTxManager(a.db)

	// Инициализируем слой сервисов (бизнес-логика)
	policy := service.NewAuthorizationPolicy()
	resolver := service.NewOverlapResolver()
	validator := service.NewCapacityValidator()
	userService := service.NewUserService(userRepo, capacityRepo, policy)
	projectService := service.NewProjectService(projectRepo)
	allocationService := service.NewAllocationService(
		allocationRepo,
		capacityRepo,
		projectRepo,
		userRepo,
		txManager,
		resolver,
		validator,
		policy,
	)
	authService := service.NewAuthService(
		userRepo,
		a.config.JWT.Secret,
		a.config.JWT.GetExpiration(),
	)
	statsService := service.NewStatsService(a.db)

	// Инициализируем HTTP обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	allocationHandler := handler.NewAllocationHandler(allocationService)
	statsHandler := handler.NewStatsHandler(statsService)

	// Инициализируем middleware для JWT авторизации
	authMiddleware := middleware.AuthMiddleware(authService)

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Публичные эндпоинты (без авторизации)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
	})

	// Health check для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			a.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Создание пользователя доступно без токена (для начальной настройки)
	// В production рекомендуется защитить или использовать seed-скрипт
	r.Post("/users", userHandler.CreateUser)

	// Защищенные эндпоинты (требуют JWT токен в заголовке Authorization)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		// Эндпоинты доступности пользователей
		r.Get("/users/{userId}/capacity", userHandler.GetCapacity)
		r.Put("/users/{userId}/capacity", userHandler.SetCapacity)

		// Эндпоинты проектов
		r.Post("/projects", projectHandler.CreateProject)
		r.Get("/projects/{projectId}", projectHandler.GetProject)

		// Эндпоинты аллокаций ресурсов
		r.Get("/projects/{projectId}/resource-allocations", allocationHandler.List)
		r.Post("/projects/{projectId}/resource-allocations", allocationHandler.Create)
		r.Put("/projects/{projectId}/resource-allocations/{allocationId}", allocationHandler.Update)
		r.Delete("/projects/{projectId}/resource-allocations/{allocationId}", allocationHandler.Delete)

		// Эндпоинты статистики загрузки
		r.Get("/stats/utilization", statsHandler.GetUtilization)
		r.Get("/stats/utilization/user", statsHandler.GetUserUtilization)
	})

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Закрываем подключения к базе данных
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
