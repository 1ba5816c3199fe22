package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/atelierhub/workshop-hub-api/internal/config"
	"github.com/atelierhub/workshop-hub-api/internal/handler"
	"github.com/atelierhub/workshop-hub-api/internal/identity"
	"github.com/atelierhub/workshop-hub-api/internal/poster"
	"github.com/atelierhub/workshop-hub-api/internal/repository"
	"github.com/atelierhub/workshop-hub-api/internal/trigger"
	"github.com/atelierhub/workshop-hub-api/internal/usecase"
	sharedauth "github.com/atelierhub/workshop-hub-api/shared/auth"
	"github.com/atelierhub/workshop-hub-api/shared/mailer"
	"github.com/atelierhub/workshop-hub-api/shared/validate"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.NewConfig(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Document store
	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	logger.Info().Msg("connected to MongoDB")

	db := mongoClient.Database(cfg.Mongo.Database)

	// Repositories
	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	workshopRepo := repository.NewWorkshopMongoRepository(db)
	publicRepo := repository.NewPublicWorkshopMongoRepository(db)
	registrationRepo := repository.NewRegistrationMongoRepository(ctx, &logger, mongoClient, db)

	// Trigger broker
	rabbitClient, err := trigger.NewRabbitClient(cfg.Rabbit, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rabbitClient.Close()

	// Outbound email and poster storage
	appMailer := mailer.NewMailer(&logger)

	posterStore, err := poster.NewS3Store(ctx, cfg.Storage, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create poster store")
	}

	// Use cases
	jwtAuth := sharedauth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.ExpiresIn)
	provider := identity.NewProvider(userRepo)

	authUsecase := usecase.NewAuthUsecase(userRepo, jwtAuth)
	accountUsecase := usecase.NewAccountUsecase(userRepo, provider, rabbitClient)
	workshopUsecase := usecase.NewWorkshopUsecase(workshopRepo, provider, rabbitClient, posterStore)
	registrationUsecase := usecase.NewRegistrationUsecase(registrationRepo, workshopRepo, rabbitClient)
	adminUsecase := usecase.NewAdminUsecase(provider, cfg.Admin.CoreEmails, &logger)
	notificationUsecase := usecase.NewNotificationUsecase(
		userRepo,
		workshopRepo,
		registrationRepo,
		provider,
		appMailer,
		cfg.Support.Recipient,
		&logger,
	)

	// Trigger worker
	fanout := trigger.NewFanout(publicRepo, registrationRepo, &logger)
	pipeline := poster.NewPipeline(posterStore, &logger)
	worker := trigger.NewWorker(rabbitClient, fanout, notificationUsecase, pipeline, &logger)
	worker.Start(ctx)

	// HTTP server
	validator, err := validate.NewValidator()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create validator")
	}

	apiHandler := handler.NewHandler(
		authUsecase,
		accountUsecase,
		workshopUsecase,
		registrationUsecase,
		adminUsecase,
		notificationUsecase,
		publicRepo,
		jwtAuth,
		validator,
		&logger,
	)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: apiHandler.Routes(),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("HTTP server error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down HTTP server")
	}

	worker.Stop()
	logger.Info().Msg("shutdown complete")
}
