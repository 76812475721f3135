package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createBookingHandler "github.com/mryabova/salon-booking-service/internal/api/handlers/create_booking"
	findNearestSlotsHandler "github.com/mryabova/salon-booking-service/internal/api/handlers/find_nearest_slots"
	getAvailabilityHandler "github.com/mryabova/salon-booking-service/internal/api/handlers/get_availability"
	getScheduleHandler "github.com/mryabova/salon-booking-service/internal/api/handlers/get_schedule"
	moveBookingHandler "github.com/mryabova/salon-booking-service/internal/api/handlers/move_booking"
	"github.com/mryabova/salon-booking-service/internal/api/middleware"
	"github.com/mryabova/salon-booking-service/internal/config"
	availabilityCache "github.com/mryabova/salon-booking-service/internal/infra/cache/availability"
	bookingRepo "github.com/mryabova/salon-booking-service/internal/infra/storage/booking"
	catalogRepo "github.com/mryabova/salon-booking-service/internal/infra/storage/catalog"
	settingsRepo "github.com/mryabova/salon-booking-service/internal/infra/storage/settings"
	"github.com/mryabova/salon-booking-service/internal/integrations/telegram"
	scheduleService "github.com/mryabova/salon-booking-service/internal/service/schedule"
	createBookingUC "github.com/mryabova/salon-booking-service/internal/usecase/create_booking"
	findNearestSlotsUC "github.com/mryabova/salon-booking-service/internal/usecase/find_nearest_slots"
	getAvailabilityUC "github.com/mryabova/salon-booking-service/internal/usecase/get_availability"
	moveBookingUC "github.com/mryabova/salon-booking-service/internal/usecase/move_booking"
	"github.com/mryabova/salon-booking-service/pkg/dbmetrics"
	"github.com/mryabova/salon-booking-service/pkg/logger"
	"github.com/mryabova/salon-booking-service/pkg/metrics"
	"github.com/mryabova/salon-booking-service/pkg/simpletxmanager"
	"github.com/mryabova/salon-booking-service/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting salon-booking-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		catalogRepository  *catalogRepo.Repository
		settingsRepository *settingsRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		settingsRepository = settingsRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		settingsRepository = settingsRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем кэш доступности (если включен Redis)
	var (
		slotCache        getAvailabilityUC.AvailabilityCache
		createCacheInval createBookingUC.CacheInvalidator
		moveCacheInval   moveBookingUC.CacheInvalidator
	)

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer redisClient.Close()

		cache := availabilityCache.NewCache(redisClient, time.Duration(cfg.Redis.CacheTTL)*time.Second)
		slotCache = cache
		createCacheInval = cache
		moveCacheInval = cache
		log.Info("Availability cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.CacheTTL)
	}

	// Инициализируем телеграм-уведомления (если задан токен)
	notifier, err := telegram.NewNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, log)
	if err != nil {
		log.Fatal("Failed to initialize telegram notifier: %v", err)
	}
	if notifier != nil {
		log.Info("Telegram notifications enabled (chat_id=%d)", cfg.Telegram.ChatID)
	}

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		bookingRepository,
		catalogRepository,
		settingsRepository,
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		settingsRepository,
		slotCache,
		log,
	)

	findNearestSlotsUseCase := findNearestSlotsUC.NewUseCase(getAvailabilityUseCase, log)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		settingsRepository,
		txMgr,
		notifier,
		createCacheInval,
		log,
	)

	moveBookingUseCase := moveBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		settingsRepository,
		txMgr,
		moveCacheInval,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBookingPublic := createBookingHandler.NewPublicHandler(createBookingUseCase, log)
	createBookingAdmin := createBookingHandler.NewAdminHandler(createBookingUseCase, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	findNearestSlots := findNearestSlotsHandler.NewHandler(findNearestSlotsUseCase, log)
	moveBooking := moveBookingHandler.NewHandler(moveBookingUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты на дату
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Создание записи клиентом
	api.HandleFunc("/bookings", createBookingPublic.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Token header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Auth.AdminToken))

	// Сетка расписания на день или неделю
	admin.HandleFunc("/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// Ближайшие свободные окна по услуге
	admin.HandleFunc("/slots/nearest", findNearestSlots.Handle).Methods(http.MethodGet)

	// Создание записи администратором
	admin.HandleFunc("/bookings", createBookingAdmin.Handle).Methods(http.MethodPost)

	// Перенос/изменение записи
	admin.HandleFunc("/bookings/{bookingId}", moveBooking.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
