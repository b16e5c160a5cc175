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
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	addTransactionHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/add_transaction"
	assignGroomerHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/assign_groomer"
	cancelBookingHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/delete_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/get_availability"
	getBalanceHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/get_balance"
	getBookingHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/get_booking"
	listBookingsHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/list_bookings"
	listSlotsHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/list_slots"
	listTransactionsHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/list_transactions"
	rescheduleBookingHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/reschedule_booking"
	transitionBookingHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/transition_booking"
	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/config"
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/booking"
	reminderRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/reminder"
	slotRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/slot"
	transactionRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/transaction"
	directoryClient "github.com/m04kA/SMC-GroomingService/internal/integrations/directory"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/events"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/smsgateway"
	"github.com/m04kA/SMC-GroomingService/internal/scheduler/reminders"
	bookingsService "github.com/m04kA/SMC-GroomingService/internal/service/bookings"
	ledgerService "github.com/m04kA/SMC-GroomingService/internal/service/ledger"
	createBookingUC "github.com/m04kA/SMC-GroomingService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-GroomingService/internal/usecase/get_availability"
	rescheduleBookingUC "github.com/m04kA/SMC-GroomingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-GroomingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroomingService/pkg/logger"
	"github.com/m04kA/SMC-GroomingService/pkg/metrics"
	"github.com/m04kA/SMC-GroomingService/pkg/otp"
	"github.com/m04kA/SMC-GroomingService/pkg/txmanager"
)

// eventPublisher публикатор событий жизненного цикла
type eventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
	Close() error
}

func main() {
	configPath := os.Getenv("GROOM_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-GroomingService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %s: %v", cfg.Scheduling.Timezone, err)
	}

	// Метрики. Методы Metrics безопасны для nil, поэтому при выключенных
	// метриках компоненты получают nil-коллектор
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
	db.SetConnMaxLifetime(config.Seconds(cfg.Database.ConnMaxLifetime))

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	slotRepository := slotRepo.NewRepository(wrappedDB)
	transactionRepository := transactionRepo.NewRepository(wrappedDB)
	reminderRepository := reminderRepo.NewRepository(wrappedDB)

	// Каталог слотов загружается один раз при старте
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	slots, err := slotRepository.GetAll(startupCtx)
	cancelStartup()
	if err != nil {
		log.Fatal("Failed to load slot catalog: %v", err)
	}
	if len(slots) == 0 {
		log.Fatal("Slot catalog is empty, apply migrations first")
	}
	catalog := domain.NewSlotCatalog(slots)
	log.Info("Slot catalog loaded: %d slots", catalog.Len())

	otpGenerator, err := otp.NewGenerator(cfg.OTP.Length, cfg.OTP.BcryptCost)
	if err != nil {
		log.Fatal("Failed to initialize OTP generator: %v", err)
	}

	// Интеграционные клиенты
	directory := directoryClient.NewClient(
		cfg.Directory.URL,
		config.Seconds(cfg.Directory.Timeout),
		log,
	)
	log.Info("Directory client initialized (url=%s, timeout=%ds)", cfg.Directory.URL, cfg.Directory.Timeout)

	var publisher eventPublisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		amqpPublisher, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to event broker: %v", err)
		}
		publisher = amqpPublisher
		log.Info("Lifecycle events are published to exchange %s", cfg.Events.Exchange)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("Failed to close event publisher: %v", err)
		}
	}()

	// Сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		directory,
		otpGenerator,
		txMgr,
		publisher,
		metricsCollector,
		bookingsService.OTPPolicy{
			MaxAttempts: cfg.OTP.MaxAttempts,
			Lockout:     time.Duration(cfg.OTP.LockoutMinutes) * time.Minute,
		},
		location,
		log,
	)
	ledgerSvc := ledgerService.NewService(
		bookingRepository,
		transactionRepository,
		txMgr,
		publisher,
		metricsCollector,
		cfg.OverpaymentTolerance(),
		log,
	)

	// Use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		catalog,
		location,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		directory,
		otpGenerator,
		txMgr,
		publisher,
		metricsCollector,
		catalog,
		location,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		txMgr,
		publisher,
		metricsCollector,
		catalog,
		location,
		log,
	)

	// Handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	listSlots := listSlotsHandler.NewHandler(catalog, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	assignGroomer := assignGroomerHandler.NewHandler(bookingSvc, log)
	startBooking := transitionBookingHandler.NewStartHandler(bookingSvc, log)
	completeBooking := transitionBookingHandler.NewCompleteHandler(bookingSvc, log)
	addTransaction := addTransactionHandler.NewHandler(ledgerSvc, log)
	listTransactions := listTransactionsHandler.NewHandler(ledgerSvc, log)
	getBalance := getBalanceHandler.NewHandler(ledgerSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots", listSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	allow := func(h http.HandlerFunc, roles ...domain.ActorRole) http.Handler {
		return middleware.RequireRoles(roles...)(h)
	}
	customerOrAdmin := []domain.ActorRole{domain.ActorCustomer, domain.ActorAdmin}
	groomerOrAdmin := []domain.ActorRole{domain.ActorGroomer, domain.ActorAdmin}

	// --- Бронирования ---
	protected.Handle("/bookings", allow(createBooking.Handle, customerOrAdmin...)).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.Handle("/bookings/{bookingId}", allow(deleteBooking.Handle, domain.ActorAdmin)).Methods(http.MethodDelete)
	protected.Handle("/bookings/{bookingId}/schedule",
		allow(rescheduleBooking.Handle, customerOrAdmin...)).Methods(http.MethodPut)
	protected.Handle("/bookings/{bookingId}/cancel",
		allow(cancelBooking.Handle, customerOrAdmin...)).Methods(http.MethodPatch)
	protected.Handle("/bookings/{bookingId}/assign-groomer",
		allow(assignGroomer.Handle, domain.ActorAdmin)).Methods(http.MethodPatch)

	// --- Визит ---
	protected.Handle("/bookings/{bookingId}/start", allow(startBooking.Handle, groomerOrAdmin...)).Methods(http.MethodPatch)
	protected.Handle("/bookings/{bookingId}/complete",
		allow(completeBooking.Handle, groomerOrAdmin...)).Methods(http.MethodPatch)

	// --- Платежи ---
	protected.Handle("/bookings/{bookingId}/transactions",
		allow(addTransaction.Handle, domain.ActorAdmin)).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/transactions", listTransactions.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/balance", getBalance.Handle).Methods(http.MethodGet)

	// Планировщик напоминаний
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	schedulerDone := make(chan struct{})

	if cfg.Reminders.Enabled {
		var runLock reminders.RunLock = lock.NoopLock{}
		if cfg.Redis.Enabled {
			redisClient := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer redisClient.Close()
			runLock = lock.NewRedisLock(redisClient, cfg.Reminders.LockKey, config.Seconds(cfg.Reminders.LockTTL))
			log.Info("Reminder run lock uses redis at %s", cfg.Redis.Addr)
		}

		gateway := smsgateway.NewClient(smsgateway.Config{
			BaseURL:      cfg.SMSGateway.URL,
			ClientID:     cfg.SMSGateway.ClientID,
			ClientSecret: cfg.SMSGateway.ClientSecret,
			SenderID:     cfg.SMSGateway.SenderID,
			Timeout:      config.Seconds(cfg.SMSGateway.Timeout),
		})

		scheduler := reminders.NewScheduler(
			bookingRepository,
			reminderRepository,
			directory,
			gateway,
			runLock,
			metricsCollector,
			reminders.Config{
				Horizons:       cfg.Reminders.Horizons,
				CustomerWindow: time.Duration(cfg.Reminders.CustomerWindowMinutes) * time.Minute,
				GroomerWindow:  time.Duration(cfg.Reminders.GroomerWindowMinutes) * time.Minute,
				Interval:       time.Duration(cfg.Reminders.IntervalMinutes) * time.Minute,
				WindowStart:    cfg.Reminders.WindowStart,
				WindowEnd:      cfg.Reminders.WindowEnd,
				SendTimeout:    config.Seconds(cfg.Reminders.SendTimeout),
				Location:       location,
			},
			log,
		)

		go func() {
			defer close(schedulerDone)
			scheduler.Start(schedulerCtx)
		}()
	} else {
		close(schedulerDone)
		log.Info("Reminder scheduler disabled")
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  config.Seconds(cfg.Server.ReadTimeout),
		WriteTimeout: config.Seconds(cfg.Server.WriteTimeout),
		IdleTimeout:  config.Seconds(cfg.Server.IdleTimeout),
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

	stopScheduler()
	<-schedulerDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Seconds(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
