package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonbook/config"
	"salonbook/cron"
	"salonbook/database"
	"salonbook/database/repository"
	"salonbook/database/repository/memstore"
	"salonbook/handlers"
	"salonbook/middleware"
	"salonbook/routes"
	"salonbook/services/booking"
	"salonbook/services/events"
	"salonbook/services/lock"
	"salonbook/services/notification"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	cfg := config.AppConfig
	persistent := cfg.StoreDriver != "memory"

	// Storage.
	var (
		store       *repository.Store
		mongoClient *mongo.Client
	)
	if persistent {
		database.InitDB()
		mongoClient = database.MongoClient
		s, err := repository.NewMongoStore(database.DB())
		if err != nil {
			logger.Fatal("main: failed to prepare mongo store", zap.Error(err))
		}
		store = s
	} else {
		mem := memstore.New()
		if cfg.SeedFile != "" {
			if err := mem.LoadSeed(cfg.SeedFile); err != nil {
				logger.Fatal("main: failed to load seed file", zap.String("path", cfg.SeedFile), zap.Error(err))
			}
		}
		store = &repository.Store{Schedules: mem, Catalogue: mem, Appointments: mem}
		logger.Warn("main: using in-memory store; data is lost on restart")
	}
	catalogue := repository.NewCachedCatalogue(store.Catalogue, cfg.CatalogueCacheSize,
		time.Duration(cfg.CatalogueCacheTTLSeconds)*time.Second, logger)

	// Events.
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPEnabled {
		p, err := events.NewAMQPPublisher(cfg.AMQPURI, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Fatal("main: failed to connect event publisher", zap.Error(err))
		}
		publisher = p
	}

	// Locks and reminders.
	dispatcher := &notification.Dispatcher{
		Publisher: publisher,
		LeadTime:  time.Duration(cfg.ReminderLeadHours) * time.Hour,
		Location:  config.Location(),
		Logger:    logger,
	}
	var (
		locker       lock.Locker = lock.NewLocalLocker()
		asynqClient  *asynq.Client
		worker       *asynq.Server
		redisClients []*redis.Client
	)
	if persistent {
		utils.InitRedis()
		redisClients = []*redis.Client{utils.GetLockClient(), utils.GetQueueClient()}
		locker = &lock.RedisLocker{
			Client: utils.GetLockClient(),
			TTL:    config.LockTTL(),
			Wait:   config.LockWait(),
			Logger: logger,
		}

		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisQueueDB,
		})
		dispatcher.Queue = asynqClient

		w, err := cron.StartReminderWorker(store.Appointments, publisher, logger)
		if err != nil {
			logger.Fatal("main: reminder worker failed to start", zap.Error(err))
		}
		worker = w
	}

	engine := &booking.DefaultBookingEngine{
		Schedules:    store.Schedules,
		Catalogue:    catalogue,
		Appointments: store.Appointments,
		Locker:       locker,
		Notifier:     dispatcher,
		Settings:     booking.SettingsFromConfig(cfg),
		Logger:       logger,
	}

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, 15*time.Second, redisClients, mongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlers.NewHandlerBundle(engine))

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	stopMonitor()
	if worker != nil {
		worker.Shutdown()
	}
	if asynqClient != nil {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("main: failed to close reminder queue client", zap.Error(err))
		}
	}
	if err := publisher.Close(); err != nil {
		logger.Warn("main: failed to close event publisher", zap.Error(err))
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: failed to disconnect mongo", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
