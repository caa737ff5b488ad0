package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/api"
	"github.com/galihcitta/chalet-reservation-system/internal/config"
	"github.com/galihcitta/chalet-reservation-system/internal/locking"
	"github.com/galihcitta/chalet-reservation-system/internal/metrics"
	"github.com/galihcitta/chalet-reservation-system/internal/repository"
	"github.com/galihcitta/chalet-reservation-system/internal/repository/memstore"
	"github.com/galihcitta/chalet-reservation-system/internal/services/admission"
	"github.com/galihcitta/chalet-reservation-system/internal/services/chalet"
	"github.com/galihcitta/chalet-reservation-system/internal/services/intake"
	"github.com/galihcitta/chalet-reservation-system/internal/services/messaging"
	"github.com/galihcitta/chalet-reservation-system/internal/services/tenant"
)

type chaletStore interface {
	chalet.Repository
	admission.ExistenceChecker
}

type tenantStore interface {
	tenant.Repository
	admission.ExistenceChecker
}

// stores is the storage backend picked by configuration.
type stores struct {
	chalets      chaletStore
	tenants      tenantStore
	reservations admission.ReservationStore
	db           *repository.Database
}

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := initLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting chalet reservation system",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("lock_backend", cfg.Admission.LockBackend))

	st, err := openStores(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	if st.db != nil {
		defer st.db.Close()

		if cfg.Metrics.Enabled {
			collector, err := metrics.StartPoolCollector(st.db.Pool(), cfg.Metrics.UpdateInterval)
			if err != nil {
				logger.Fatal("Failed to start pool metrics", zap.Error(err))
			}
			defer collector.Shutdown()
		}
	}

	locker, closeLocker, err := newLocker(cfg, st.db, logger)
	if err != nil {
		logger.Fatal("Failed to initialize chalet locks", zap.Error(err))
	}
	defer closeLocker()

	location, err := cfg.Admission.Location()
	if err != nil {
		logger.Fatal("Invalid admission timezone", zap.Error(err))
	}

	reservations := admission.NewService(st.tenants, st.chalets, st.reservations, locker, logger,
		admission.WithLocation(location))

	services := api.Services{
		Chalets:      chalet.NewManager(st.chalets, logger),
		Tenants:      tenant.NewManager(st.tenants, logger),
		Reservations: reservations,
	}
	if st.db != nil {
		services.HealthCheck = st.db.HealthCheck
	}

	var workerPool *messaging.WorkerPool
	if cfg.Intake.Enabled {
		intakeService := intake.NewService(reservations, cfg.Intake.PublicTenantID, cfg.Intake.Chalets, logger)
		services.Intake = intakeService

		if cfg.Intake.Async {
			rabbitMQ := messaging.NewRabbitMQManager(cfg.RabbitMQ.URL, logger)
			if err := rabbitMQ.Connect(); err != nil {
				logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
			}
			defer rabbitMQ.Close()

			workerPool = messaging.NewWorkerPool(cfg.Intake.Queue, cfg.Intake.Workers, intakeService, rabbitMQ, logger)
			if err := workerPool.Start(); err != nil {
				logger.Fatal("Failed to start intake workers", zap.Error(err))
			}
			services.Publisher = rabbitMQ
		}
	}

	server := api.NewServer(cfg, services, logger)
	server.SetupRoutes()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: server.GetRouter(),
	}

	go func() {
		logger.Info("Server starting", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
	defer cancel()

	// Stop taking requests before the workers, so no form is queued after
	// the consumers are gone.
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if workerPool != nil {
		logger.Info("Stopping intake workers...")
		if err := workerPool.Stop(); err != nil {
			logger.Error("Error stopping intake workers", zap.Error(err))
		}
	}

	logger.Info("Server exited gracefully")
}

func openStores(cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		mem := memstore.New()
		return &stores{
			chalets:      mem.Chalets(),
			tenants:      mem.Tenants(),
			reservations: mem.Reservations(),
		}, nil
	}

	if cfg.Database.AutoMigrate {
		if err := repository.RunMigrations(cfg.Database.MigrationsPath, cfg.Database.URL, logger); err != nil {
			return nil, err
		}
	}

	db, err := repository.NewDatabase(context.Background(), cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	return &stores{
		chalets:      repository.NewChaletRepository(db.Pool(), logger),
		tenants:      repository.NewTenantRepository(db.Pool(), logger),
		reservations: repository.NewReservationRepository(db.Pool(), logger),
		db:           db,
	}, nil
}

func newLocker(cfg *config.Config, db *repository.Database, logger *zap.Logger) (locking.Locker, func(), error) {
	noop := func() {}

	switch cfg.Admission.LockBackend {
	case config.LockRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("Using redis chalet locks", zap.String("addr", cfg.Redis.Addr))
		locker := locking.NewRedisLocker(client, cfg.Admission.LockPrefix,
			cfg.Admission.LockTTL, cfg.Admission.LockRetryInterval, logger)
		return locker, func() { client.Close() }, nil

	case config.LockPostgres:
		if db == nil {
			return nil, noop, fmt.Errorf("postgres chalet locks need postgres storage")
		}
		return locking.NewPostgresLocker(db.Pool(), logger), noop, nil

	default:
		return locking.NewKeyedMutex(), noop, nil
	}
}

func initLogger(level string) (*zap.Logger, error) {
	var zapConfig zap.Config

	if gin.Mode() == gin.DebugMode {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	switch level {
	case "debug":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapConfig.Build()
}
