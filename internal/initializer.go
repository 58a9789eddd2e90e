// Package internal starts the server: configuration, database, managers and router.
package internal

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code-atlas/internal/config"
	"code-atlas/internal/database"
	"code-atlas/internal/managers"
	"code-atlas/internal/routing"
	"code-atlas/internal/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

const envFile = ".env"

func Init() {
	err := godotenv.Load(envFile)
	if err != nil {
		log.Info("No .env file found, using environment variables from system")
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}
	setLogLevel(cfg.LogLevel)
	utils.SetServiceName(cfg.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := initializeDatabase(ctx, cfg.Database)
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal("Error migrating database: ", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsMgr := managers.NewMetricsManager(registry)

	databaseMgr := managers.NewDatabaseManager(pool)

	jwtMgr, err := managers.NewJWTManagerFromFile(cfg.JWT.KeyPairPath, cfg.JWT.Issuer)
	if err != nil {
		log.Fatal("Error initializing JWT manager: ", err)
	}

	catalogMgr := managers.NewCatalogManager(databaseMgr, metricsMgr, cfg.Catalog.Size, cfg.Catalog.TTL)

	r := routing.InitRouter(databaseMgr, jwtMgr, catalogMgr, metricsMgr, cfg.CORS.AllowOrigins)
	log.Info("Initialized router")

	server := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s...", cfg.HTTP.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Error starting server: ", err)
		}
	}()

	<-ctx.Done()
	log.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown: ", err)
	}
	log.Info("Server stopped")
}

func initializeDatabase(ctx context.Context, dbConfig config.Database) *pgxpool.Pool {
	log.Info("Initializing database")

	poolConfig, err := pgxpool.ParseConfig(dbConfig.DSN())
	if err != nil {
		log.Fatal("error configuring database: ", err)
	}

	poolConfig.MinConns = dbConfig.MinConns
	poolConfig.MaxConns = dbConfig.MaxConns
	poolConfig.MaxConnIdleTime = time.Minute * 2
	poolConfig.HealthCheckPeriod = time.Minute * 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("error connecting to database: ", err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatal("database not reachable: ", err)
	}
	log.Info("Connected to database")
	return pool
}

func setLogLevel(logLevel string) {
	switch logLevel {
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	log.SetReportCaller(true)
	log.SetOutput(os.Stdout)
}
