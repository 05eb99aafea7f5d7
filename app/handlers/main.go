package main

import (
	"context"
	"fmt"
	"os"
	"time"

	cfgPkg "github.com/narang24/Journal-Website-Backend/app/config"
	"github.com/narang24/Journal-Website-Backend/app/logger"
	"github.com/narang24/Journal-Website-Backend/app/mailer"
	"github.com/narang24/Journal-Website-Backend/app/services"
	"github.com/narang24/Journal-Website-Backend/app/store"
	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	logger.Init()

	cfgPkg.Load()

	if err := validateRequiredEnv(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("required environment variables missing")
	}

	dbUser := cfgPkg.GetString("POSTGRES_USER", "postgres")
	dbPassword := cfgPkg.GetString("POSTGRES_PASSWORD", "postgres")
	dbHost := cfgPkg.GetString("POSTGRES_HOST", "localhost")
	dbPort := cfgPkg.GetString("POSTGRES_PORT", "5432")
	dbName := cfgPkg.GetString("POSTGRES_DB", "journal")
	dbSSLMode := cfgPkg.GetString("POSTGRES_SSLMODE", "disable")

	dbAddr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPassword, dbHost, dbPort, dbName, dbSSLMode)

	cfg := config{
		addr: cfgPkg.GetString("ADDR", ":8080"),
		db: dbConfig{
			addr:         dbAddr,
			maxOpenConns: cfgPkg.GetInt("DB_MAX_OPEN_CONNS", 30),
			maxIdleConns: cfgPkg.GetInt("DB_MAX_IDLE_CONNS", 30),
			maxIdleTime:  cfgPkg.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
	}

	logger.Logger.Info().
		Str("host", dbHost).
		Str("port", dbPort).
		Str("database", dbName).
		Msg("connecting to postgres")

	db, err := cfgPkg.NewDB(
		cfg.db.addr,
		cfg.db.maxOpenConns,
		cfg.db.maxIdleConns,
		cfg.db.maxIdleTime,
	)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.Migrate(migrateCtx, db); err != nil {
		cancel()
		logger.Logger.Fatal().Err(err).Msg("failed to run migrations")
	}
	cancel()

	logger.Logger.Info().Str("database", dbName).Msg("postgres connection pool established")

	storage := store.NewStorage(db)

	redisClient, err := cfgPkg.NewRedisClient()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	logger.Logger.Info().Msg("redis connection established")

	mailCfg := mailer.ConfigFromEnv()

	// RabbitMQ is only dialed when mail delivery is handed off to a worker.
	var rabbitConn *amqp.Connection
	var rabbitCh *amqp.Channel
	if mailCfg.Provider == "amqp" {
		rabbitConn, rabbitCh, err = cfgPkg.NewRabbitMQConnection()
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}
		defer rabbitConn.Close()
		defer rabbitCh.Close()
		logger.Logger.Info().Msg("rabbitmq connection established")
	}

	mailService, err := mailer.NewService(mailCfg, rabbitCh)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to initialize mailer")
	}
	logger.Logger.Info().Str("provider", mailService.ProviderName()).Msg("mailer initialized")

	app := &application{
		config:            cfg,
		store:             storage,
		authService:       services.NewAuthService(storage, mailService),
		userService:       services.NewUserService(storage),
		manuscriptService: services.NewManuscriptService(),
		redisClient:       redisClient,
		db:                db,
		rabbitConn:        rabbitConn,
		rabbitCh:          rabbitCh,
	}
	mux := app.mount()

	if err := app.runWithGracefulShutdown(mux); err != nil {
		logger.Logger.Fatal().Err(err).Msg("server error")
	}
}

func validateRequiredEnv() error {
	if os.Getenv("JWT_SECRET") == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}
