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

	approveRequestHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/approve_request"
	bookConsoleHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/book_console"
	calendarHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/calendar"
	confirmLocationHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/confirm_location"
	consolesHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/consoles"
	discountsHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/discounts"
	endRentalHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/end_rental"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/get_available_slots"
	getRentalHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/get_rental"
	getSettingsHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/get_settings"
	getUserRentalsHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/get_user_rentals"
	listRentalsHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/list_rentals"
	listRequestsHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/list_requests"
	quotePriceHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/quote_price"
	ratingsHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/ratings"
	recordReturnHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/record_return"
	rejectRequestHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/reject_request"
	reservationsHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/reservations"
	submitRequestHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/submit_request"
	updateSettingsHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/update_settings"
	usersHandler "github.com/m04kA/SMC-ConsoleRental/internal/api/handlers/users"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	"github.com/m04kA/SMC-ConsoleRental/internal/config"
	calendarRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/calendar"
	consoleRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/console"
	discountRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/discount"
	holdRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/hold"
	"github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/migrations"
	ratingRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/rating"
	rentalRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/rental"
	requestRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/request"
	settingsRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/settings"
	userRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/user"
	"github.com/m04kA/SMC-ConsoleRental/internal/integrations/events"
	"github.com/m04kA/SMC-ConsoleRental/internal/integrations/telegram"
	"github.com/m04kA/SMC-ConsoleRental/internal/jobs"
	availabilityService "github.com/m04kA/SMC-ConsoleRental/internal/service/availability"
	consolesService "github.com/m04kA/SMC-ConsoleRental/internal/service/consoles"
	discountsService "github.com/m04kA/SMC-ConsoleRental/internal/service/discounts"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/dispatcher"
	ratingService "github.com/m04kA/SMC-ConsoleRental/internal/service/rating"
	rentalsService "github.com/m04kA/SMC-ConsoleRental/internal/service/rentals"
	settingsService "github.com/m04kA/SMC-ConsoleRental/internal/service/settings"
	usersService "github.com/m04kA/SMC-ConsoleRental/internal/service/users"
	approveRequestUC "github.com/m04kA/SMC-ConsoleRental/internal/usecase/approve_request"
	bookConsoleUC "github.com/m04kA/SMC-ConsoleRental/internal/usecase/book_console"
	confirmLocationUC "github.com/m04kA/SMC-ConsoleRental/internal/usecase/confirm_location"
	endRentalUC "github.com/m04kA/SMC-ConsoleRental/internal/usecase/end_rental"
	getAvailableSlotsUC "github.com/m04kA/SMC-ConsoleRental/internal/usecase/get_available_slots"
	quotePriceUC "github.com/m04kA/SMC-ConsoleRental/internal/usecase/quote_price"
	recordReturnUC "github.com/m04kA/SMC-ConsoleRental/internal/usecase/record_return"
	rejectRequestUC "github.com/m04kA/SMC-ConsoleRental/internal/usecase/reject_request"
	submitRequestUC "github.com/m04kA/SMC-ConsoleRental/internal/usecase/submit_request"
	"github.com/m04kA/SMC-ConsoleRental/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsoleRental/pkg/keylock"
	"github.com/m04kA/SMC-ConsoleRental/pkg/logger"
	"github.com/m04kA/SMC-ConsoleRental/pkg/metrics"
	"github.com/m04kA/SMC-ConsoleRental/pkg/txmanager"
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

	log.Info("Starting SMC-ConsoleRental...")

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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if err := migrations.Up(db); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	log.Info("Database migrations applied")

	// С nil-метриками обёртка только пробрасывает запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)
	locker := keylock.New()

	// Инициализируем репозитории
	consoleRepository := consoleRepo.NewRepository(wrappedDB)
	rentalRepository := rentalRepo.NewRepository(wrappedDB)
	requestRepository := requestRepo.NewRepository(wrappedDB)
	userRepository := userRepo.NewRepository(wrappedDB)
	holdRepository := holdRepo.NewRepository(wrappedDB)
	calendarRepository := calendarRepo.NewRepository(wrappedDB)
	discountRepository := discountRepo.NewRepository(wrappedDB)
	ratingRepository := ratingRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)

	// Инициализируем интеграции
	var notifier dispatcher.Notifier = telegram.NewNop(log)
	if cfg.Telegram.Enabled() {
		client, err := telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.MessagesPerSecond, log)
		if err != nil {
			log.Error("Telegram unavailable, notifications are disabled: %v", err)
		} else {
			notifier = client
		}
	}

	var publisher dispatcher.EventPublisher = events.Nop{}
	if cfg.Kafka.Enabled() {
		producer, err := events.NewProducer(cfg.Kafka.Brokers)
		if err != nil {
			log.Fatal("Failed to create Kafka producer: %v", err)
		}
		kafkaPublisher := events.NewPublisher(producer, cfg.Kafka.Topic, log)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("Rental events are published to Kafka (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	// Инициализируем сервисы
	settingsSvc := settingsService.NewService(settingsRepository, cfg.Rental.Settings(), log)
	eventDispatcher := dispatcher.New(notifier, publisher, settingsSvc, metricsCollector, log)
	discountSvc := discountsService.NewService(discountRepository, consoleRepository, log)
	availabilitySvc := availabilityService.NewService(
		calendarRepository,
		rentalRepository,
		consoleRepository,
		holdRepository,
		discountSvc,
		settingsSvc,
		txMgr,
		locker,
		log,
	)
	ratingSvc := ratingService.NewService(
		ratingRepository,
		userRepository,
		rentalRepository,
		settingsRepository,
		txMgr,
		log,
	)
	consoleSvc := consolesService.NewService(consoleRepository, rentalRepository, txMgr, locker, log)
	userSvc := usersService.NewService(
		userRepository,
		rentalRepository,
		consoleRepository,
		holdRepository,
		txMgr,
		locker,
		log,
	)
	rentalSvc := rentalsService.NewService(rentalRepository, requestRepository, log)

	// Инициализируем use cases
	bookConsoleUseCase := bookConsoleUC.NewUseCase(
		consoleRepository,
		rentalRepository,
		userRepository,
		availabilitySvc,
		discountSvc,
		settingsSvc,
		eventDispatcher,
		locker,
		txMgr,
		log,
	)
	rejectRequestUseCase := rejectRequestUC.NewUseCase(
		requestRepository,
		userRepository,
		availabilitySvc,
		eventDispatcher,
		locker,
		txMgr,
		log,
	)
	submitRequestUseCase := submitRequestUC.NewUseCase(
		consoleRepository,
		requestRepository,
		userRepository,
		availabilitySvc,
		bookConsoleUseCase,
		settingsSvc,
		eventDispatcher,
		locker,
		txMgr,
		log,
	)
	approveRequestUseCase := approveRequestUC.NewUseCase(
		requestRepository,
		bookConsoleUseCase,
		rejectRequestUseCase,
		eventDispatcher,
		locker,
		txMgr,
		log,
	)
	endRentalUseCase := endRentalUC.NewUseCase(
		rentalRepository,
		consoleRepository,
		userRepository,
		ratingSvc,
		availabilitySvc,
		eventDispatcher,
		locker,
		txMgr,
		log,
	)
	recordReturnUseCase := recordReturnUC.NewUseCase(
		rentalRepository,
		endRentalUseCase,
		ratingSvc,
		eventDispatcher,
		locker,
		txMgr,
		log,
	)
	confirmLocationUseCase := confirmLocationUC.NewUseCase(
		rentalRepository,
		requestRepository,
		userRepository,
		eventDispatcher,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(availabilitySvc, discountSvc, ratingSvc, log)
	quotePriceUseCase := quotePriceUC.NewUseCase(consoleRepository, discountSvc, ratingSvc, log)

	// Инициализируем handlers
	bookConsole := bookConsoleHandler.NewHandler(bookConsoleUseCase, log)
	submitRequest := submitRequestHandler.NewHandler(submitRequestUseCase, log)
	approveRequest := approveRequestHandler.NewHandler(approveRequestUseCase, log)
	rejectRequest := rejectRequestHandler.NewHandler(rejectRequestUseCase, log)
	endRental := endRentalHandler.NewHandler(endRentalUseCase, log)
	recordReturn := recordReturnHandler.NewHandler(recordReturnUseCase, log)
	confirmLocation := confirmLocationHandler.NewHandler(confirmLocationUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	quotePrice := quotePriceHandler.NewHandler(quotePriceUseCase, log)
	getRental := getRentalHandler.NewHandler(rentalSvc, log)
	getUserRentals := getUserRentalsHandler.NewHandler(rentalSvc, log)
	listRentals := listRentalsHandler.NewHandler(rentalSvc, log)
	listRequests := listRequestsHandler.NewHandler(rentalSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)
	consoles := consolesHandler.NewHandler(consoleSvc, log)
	users := usersHandler.NewHandler(userSvc, log)
	calendar := calendarHandler.NewHandler(availabilitySvc, log)
	reservations := reservationsHandler.NewHandler(availabilitySvc, log)
	discounts := discountsHandler.NewHandler(discountSvc, log)
	ratings := ratingsHandler.NewHandler(ratingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	admins := middleware.NewAdmins(cfg.Auth.AdminIDs)
	log.Info("Admin access configured for %d users", len(cfg.Auth.AdminIDs))

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// ADMIN ROUTES (X-User-ID из списка администраторов)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth(admins), middleware.RequireAdmin)

	// --- Консоли ---
	admin.HandleFunc("/consoles", consoles.Create).Methods(http.MethodPost)
	admin.HandleFunc("/consoles/{consoleId}", consoles.Delete).Methods(http.MethodDelete)

	// --- Заявки ---
	admin.HandleFunc("/rental-requests", listRequests.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/rental-requests/{requestId}", listRequests.Get).Methods(http.MethodGet)
	admin.HandleFunc("/rental-requests/{requestId}/approve", approveRequest.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/rental-requests/{requestId}/reject", rejectRequest.Handle).Methods(http.MethodPost)

	// --- Аренды ---
	admin.HandleFunc("/rentals", listRentals.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/rentals/{rentalId}/end", endRental.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/rentals/{rentalId}/return", recordReturn.Handle).Methods(http.MethodPost)

	// --- Скидки ---
	admin.HandleFunc("/discounts", discounts.List).Methods(http.MethodGet)
	admin.HandleFunc("/discounts", discounts.Create).Methods(http.MethodPost)
	admin.HandleFunc("/discounts/{discountId}", discounts.Get).Methods(http.MethodGet)
	admin.HandleFunc("/discounts/{discountId}", discounts.SetActive).Methods(http.MethodPatch)
	admin.HandleFunc("/discounts/{discountId}", discounts.Delete).Methods(http.MethodDelete)

	// --- Календарь ---
	admin.HandleFunc("/calendar/blocked-dates", calendar.ListBlocked).Methods(http.MethodGet)
	admin.HandleFunc("/calendar/blocked-dates", calendar.Block).Methods(http.MethodPost)
	admin.HandleFunc("/calendar/blocked-dates", calendar.Unblock).Methods(http.MethodDelete)
	admin.HandleFunc("/calendar/holidays", calendar.ListHolidays).Methods(http.MethodGet)
	admin.HandleFunc("/calendar/holidays", calendar.AddHoliday).Methods(http.MethodPost)
	admin.HandleFunc("/calendar/holidays/{date}", calendar.RemoveHoliday).Methods(http.MethodDelete)
	admin.HandleFunc("/calendar/settings", calendar.GetSettings).Methods(http.MethodGet)
	admin.HandleFunc("/calendar/settings", calendar.UpdateSettings).Methods(http.MethodPut)

	// --- Рейтинг ---
	admin.HandleFunc("/ratings", ratings.ListRatings).Methods(http.MethodGet)
	admin.HandleFunc("/ratings/transactions", ratings.ListTransactions).Methods(http.MethodGet)
	admin.HandleFunc("/ratings/transactions", ratings.AddTransaction).Methods(http.MethodPost)
	admin.HandleFunc("/ratings/rules", ratings.GetRules).Methods(http.MethodGet)
	admin.HandleFunc("/ratings/rules", ratings.UpdateRules).Methods(http.MethodPut)
	admin.HandleFunc("/ratings/manual", ratings.RecordManualRating).Methods(http.MethodPost)
	admin.HandleFunc("/ratings/pending", ratings.RentalsAwaitingRating).Methods(http.MethodGet)

	// --- Клиенты ---
	admin.HandleFunc("/users", users.List).Methods(http.MethodGet)
	admin.HandleFunc("/users/{userId}", users.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/users/{userId}/ban", users.Ban).Methods(http.MethodPost)
	admin.HandleFunc("/users/{userId}/loyalty-bonus", ratings.AdjustLoyaltyBonus).Methods(http.MethodPost)

	// --- Настройки ---
	admin.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	// ============================================================
	// PUBLIC ROUTES (X-User-ID необязателен)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth(admins))

	public.HandleFunc("/consoles", consoles.List).Methods(http.MethodGet)
	public.HandleFunc("/consoles/{consoleId}", consoles.Get).Methods(http.MethodGet)
	public.HandleFunc("/consoles/{consoleId}/calendar", calendar.ConsoleMonth).Methods(http.MethodGet)
	public.HandleFunc("/consoles/{consoleId}/days/{date}", calendar.Day).Methods(http.MethodGet)
	public.HandleFunc("/consoles/{consoleId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	public.HandleFunc("/consoles/{consoleId}/quote", quotePrice.Handle).Methods(http.MethodGet)
	public.HandleFunc("/calendar", calendar.SystemMonth).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(admins))

	// --- Клиенты ---
	protected.HandleFunc("/users", users.Register).Methods(http.MethodPost)
	protected.HandleFunc("/users/{userId}", users.Get).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/rentals", getUserRentals.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/rating", ratings.GetUserRating).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/rating/history", ratings.History).Methods(http.MethodGet)

	// --- Заявки и аренды ---
	protected.HandleFunc("/rental-requests", submitRequest.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/rentals", bookConsole.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/rentals/{rentalId}", getRental.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/rentals/{rentalId}/end", endRental.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/rentals/{rentalId}/location", confirmLocation.Handle).Methods(http.MethodPost)

	// --- Удержания и резервы слотов ---
	protected.HandleFunc("/temp-reservations", reservations.Hold).Methods(http.MethodPost)
	protected.HandleFunc("/temp-reservations", reservations.ReleaseHold).Methods(http.MethodDelete)
	protected.HandleFunc("/slot-reservations", reservations.ReserveSlot).Methods(http.MethodPost)
	protected.HandleFunc("/slot-reservations/{reservationId}", reservations.ReleaseSlot).Methods(http.MethodDelete)

	// Фоновые задачи
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		runner := jobs.NewRunner(
			consoleSvc,
			availabilitySvc,
			rentalRepository,
			settingsSvc,
			eventDispatcher,
			metricsCollector,
			time.Duration(cfg.Jobs.Timeout)*time.Second,
			log,
		)
		scheduler, err = jobs.NewScheduler(runner, jobs.Schedule{
			ReconcileConsoles:   cfg.Jobs.ReconcileConsoles,
			SendReturnReminders: cfg.Jobs.SendReturnReminders,
			SweepExpiredHolds:   cfg.Jobs.SweepExpiredHolds,
		}, log)
		if err != nil {
			log.Fatal("Failed to configure jobs: %v", err)
		}
		scheduler.Start()
	}

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
