package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"crm-service/internal/config"
	"crm-service/internal/db"
	aiHandler "crm-service/internal/handlers/ai"
	customerHandler "crm-service/internal/handlers/customer"
	exportHandler "crm-service/internal/handlers/export"
	healthHandler "crm-service/internal/handlers/health"
	messageHandler "crm-service/internal/handlers/message"
	orderHandler "crm-service/internal/handlers/order"
	reminderHandler "crm-service/internal/handlers/reminder"
	tagHandler "crm-service/internal/handlers/tag"
	templateHandler "crm-service/internal/handlers/template"
	wsHandler "crm-service/internal/handlers/websocket"
	"crm-service/internal/metrics"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/llm"
	"crm-service/internal/pkg/ratelimit"
	"crm-service/internal/repository/postgres"
	"crm-service/internal/repository/rediscache"
	activityUsecase "crm-service/internal/service/activity"
	aiUsecase "crm-service/internal/service/ai"
	customerUsecase "crm-service/internal/service/customer"
	exportUsecase "crm-service/internal/service/export"
	messageUsecase "crm-service/internal/service/message"
	orderUsecase "crm-service/internal/service/order"
	reminderUsecase "crm-service/internal/service/reminder"
	"crm-service/internal/service/scoring"
	"crm-service/internal/service/tagging"
	templateUsecase "crm-service/internal/service/template"
	"crm-service/internal/websocket"
	wsHandlers "crm-service/internal/websocket/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg        config.AppConfig
	engine     *gin.Engine
	logger     *zap.Logger
	httpServer *http.Server

	pool  *pgxpool.Pool
	redis *redis.Client

	stopHub context.CancelFunc
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{cfg: cfg, engine: gin.New(), logger: logger}
}

// Start connects storage, wires every component and serves HTTP until
// Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool

	applied, err := db.Migrate(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if len(applied) > 0 {
		s.logger.Info("migrations applied", zap.Ints("versions", applied))
	}

	// ----- Redis -----
	// Redis only backs the reply hot tier and the AI quota, so the service
	// still starts without it.
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addresses: []string{s.cfg.RedisAddr},
		Password:  s.cfg.RedisPass,
		DB:        s.cfg.RedisDB,
		PoolSize:  10,
	})
	if err != nil {
		s.logger.Warn("redis unavailable, running without reply hot tier and AI quota", zap.Error(err))
	} else {
		s.redis = redisClient
	}

	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
		corsMiddleware(s.cfg.CORSOrigins),
	)

	handlers := s.wire()
	SetupRouter(s.engine, s.logger, handlers)

	s.httpServer = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) wire() *Handlers {
	logger := s.logger
	m := metrics.New()

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(s.pool)
	customerRepo := postgres.NewCustomerRepository(s.pool)
	messageRepo := postgres.NewMessageRepository(s.pool)
	orderRepo := postgres.NewOrderRepository(s.pool)
	tagRepo := postgres.NewTagRepository(s.pool)
	reminderRepo := postgres.NewReminderRepository(s.pool)
	activityRepo := postgres.NewActivityRepository(s.pool)
	aiRepo := postgres.NewAIRepository(s.pool)
	templateRepo := postgres.NewTemplateRepository(s.pool)

	var (
		replies     aiUsecase.ReplyStore = aiRepo
		invalidator customerUsecase.CacheInvalidator
	)
	if s.redis != nil {
		hot := rediscache.NewReplyCache(s.redis, aiRepo, s.cfg.AI.ReplyCacheTTL, logger)
		replies, invalidator = hot, hot
	}

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger)
	hubCtx, cancel := context.WithCancel(context.Background())
	s.stopHub = cancel
	go hub.Run(hubCtx)

	// ----- Services (Usecases) -----
	activityService := activityUsecase.NewActivityService(activityRepo, hub, logger)
	hub.RegisterHandler(wsHandlers.NewActivityHandler(activityService))

	scorer := scoring.NewScorer(customerRepo, logger)
	tagger := tagging.NewTagger(tagRepo, activityService, logger)

	customerService := customerUsecase.NewCustomerService(dbWrapper, customerRepo, invalidator, logger)
	profileService := customerUsecase.NewProfileService(
		customerRepo,
		messageRepo,
		orderRepo,
		reminderRepo,
		activityRepo,
		aiRepo,
		logger,
	)
	messageService := messageUsecase.NewMessageService(
		messageRepo,
		customerRepo,
		tagger,
		scorer,
		s.cfg.AutoTagOutbound,
		logger,
	)
	orderService := orderUsecase.NewOrderService(
		dbWrapper,
		orderRepo,
		customerRepo,
		scorer,
		activityService,
		logger,
	)
	reminderService := reminderUsecase.NewReminderService(reminderRepo, customerRepo, activityService, logger)
	tagService := tagging.NewTagService(tagRepo, customerRepo, activityService, logger)
	templateService := templateUsecase.NewTemplateService(templateRepo, customerRepo, logger)
	exportService := exportUsecase.NewExportService(customerRepo, orderRepo, messageRepo, logger)

	completer := llm.NewClient(llm.Options{
		APIKey:  s.cfg.AI.APIKey,
		BaseURL: s.cfg.AI.BaseURL,
		Model:   s.cfg.AI.Model,
		Timeout: s.cfg.AI.Timeout,
	})
	limiter := ratelimit.NewLimiter(s.redis, "ai", s.cfg.AI.MaxCallsPerMinute, time.Minute)
	aiService := aiUsecase.NewAIService(
		completer,
		customerRepo,
		replies,
		aiRepo,
		messageRepo,
		limiter,
		m,
		s.cfg.AI,
		logger,
	)

	return &Handlers{
		HealthHandler:   healthHandler.NewHealthHandler(dbWrapper),
		CustomerHandler: customerHandler.NewCustomerHandler(customerService, profileService),
		MessageHandler:  messageHandler.NewMessageHandler(messageService),
		OrderHandler:    orderHandler.NewOrderHandler(orderService),
		ReminderHandler: reminderHandler.NewReminderHandler(reminderService),
		TagHandler:      tagHandler.NewTagHandler(tagService, activityService),
		AIHandler:       aiHandler.NewAIHandler(aiService),
		TemplateHandler: templateHandler.NewTemplateHandler(templateService),
		ExportHandler:   exportHandler.NewExportHandler(exportService),
		WSHandler:       wsHandler.NewWebSocketHandler(hub, s.cfg.CORSOrigins, logger),
		Metrics:         m,
	}
}

// Shutdown drains HTTP, stops the hub and closes storage.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.stopHub != nil {
		s.stopHub()
	}
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil {
			s.logger.Warn("failed to close redis", zap.Error(cerr))
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}
