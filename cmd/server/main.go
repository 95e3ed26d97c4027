package main

import (
	"context"
	"energylabel/config"
	"energylabel/internal/cache"
	"energylabel/internal/logging"
	"energylabel/internal/metrics"
	"energylabel/internal/model"
	"energylabel/internal/questionnaire"
	"energylabel/internal/repository"
	"energylabel/internal/service"
	"energylabel/internal/transport/rest"
	"energylabel/internal/transport/rest/middleware"
	"energylabel/internal/transport/ws"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title Energylabel API
// @version 1.0
// @description Questionnaire engine that estimates a home's energy label
// @host localhost:8080
// @BasePath /v1
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "energylabel:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logger.Close()
	log := logger.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("ping MongoDB: %w", err)
	}
	log.Info("connected to MongoDB", "database", cfg.MongoDatabase)
	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
	defer rdb.Close()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("ping Redis: %w", err)
	}
	log.Info("connected to Redis", "addr", cfg.RedisAddr())

	var fallback *model.Questionnaire
	if cfg.QuestionnaireFile != "" {
		if fallback, err = questionnaire.LoadFile(cfg.QuestionnaireFile); err != nil {
			return fmt.Errorf("load questionnaire: %w", err)
		}
		log.Info("default questionnaire loaded", "file", cfg.QuestionnaireFile, "questions", len(fallback.Questions))
	}

	var publisher service.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := service.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		defer kp.Close()
		publisher = kp
		log.Info("publishing assessments", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	m := metrics.New()
	wsHub := ws.NewHub(log)

	// Initialize repositories
	questionnaireRepo := repository.NewQuestionnaireRepo(db)
	assessmentRepo := repository.NewAssessmentRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb, cfg.SessionTTL)
	labelStats := cache.NewLabelStatsCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg.HostUsername, cfg.HostPassword, cfg.JWTSecret, cfg.SessionTTL)
	questionnaireSvc := service.NewQuestionnaireService(questionnaireRepo, fallback, m, log)
	assessmentSvc := service.NewAssessmentService(assessmentRepo, statsRepo, labelStats, publisher, m, log)
	sessionSvc := service.NewSessionService(questionnaireSvc, assessmentSvc, sessionCache, authSvc, wsHub, log)

	snapshots, err := service.StartStatsSnapshots(cfg.StatsSnapshotCron, assessmentSvc, log)
	if err != nil {
		return fmt.Errorf("schedule stats snapshots: %w", err)
	}
	defer snapshots.Stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustedProxies...)
	limiter.StartCleanup(ctx, time.Minute, 10*time.Minute)

	router := rest.NewRouter(&rest.Container{
		AuthService:          authSvc,
		QuestionnaireService: questionnaireSvc,
		SessionService:       sessionSvc,
		AssessmentService:    assessmentSvc,
		WSHub:                wsHub,
		Metrics:              m,
		RateLimiter:          limiter,
		Logger:               log,
		AccessLog:            logger.Writer(),
		AllowedOrigins:       cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "host", cfg.HostUsername)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
