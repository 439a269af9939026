package bootstrap

import (
	"context"
	"log"

	"notefiber-assign-be/internal/config"
	"notefiber-assign-be/internal/controller"
	"notefiber-assign-be/internal/handler"
	"notefiber-assign-be/internal/pkg/logger"
	"notefiber-assign-be/internal/pkg/serverutils"
	"notefiber-assign-be/internal/repository/cache"
	"notefiber-assign-be/internal/repository/memory"
	"notefiber-assign-be/internal/repository/unitofwork"
	"notefiber-assign-be/internal/service"
	"notefiber-assign-be/internal/websocket"
	"notefiber-assign-be/pkg/assign"

	pktNats "notefiber-assign-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssignController controller.IAssignController
	AuthMiddleware   fiber.Handler

	// Background Services (Exposed for main.go to run)
	ConsumerService       service.IConsumerService
	RelationEventsService *service.RelationEventsService

	// WebSockets
	RelationsFeedHandler *handler.RelationsFeedHandler
	WebSocketHub         *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	// 4. Assign Dialogs
	suggestionStore := newSuggestionStore(cfg, uowFactory, rdb)
	dialogRepo := memory.NewDialogRepository(cfg.Assign.DialogTTL)
	candidateCache := memory.NewCandidateCache(cfg.Assign.CandidateCacheTTL)

	publisherService := service.NewPublisherService(cfg.Assign.RefreshTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Assign.RefreshTopic,
		candidateCache,
		sysLogger,
	)

	// a nil *Publisher must not become a non-nil interface
	var events service.EventPublisher
	if natsPub != nil {
		events = natsPub
	}

	assignService := service.NewAssignService(
		service.NewRelationKinds(uowFactory),
		dialogRepo,
		candidateCache,
		assign.NewSuggestionCache(suggestionStore),
		events,
		publisherService,
		sysLogger,
	)

	var relationEvents *service.RelationEventsService
	if natsSub != nil {
		relationEvents = service.NewRelationEventsService(natsSub, wsHub, auditLogger, sysLogger)
	}

	return &Container{
		AssignController:      controller.NewAssignController(assignService),
		AuthMiddleware:        serverutils.NewJwtMiddleware(cfg.App.JwtSecret),
		ConsumerService:       consumerService,
		RelationEventsService: relationEvents,
		RelationsFeedHandler:  handler.NewRelationsFeedHandler(wsHub, cfg.App.JwtSecret, sysLogger),
		WebSocketHub:          wsHub,
		Logger:                sysLogger,
	}
}

func newSuggestionStore(cfg *config.Config, uowFactory unitofwork.RepositoryFactory, rdb *redis.Client) assign.SuggestionStore {
	switch cfg.Assign.SuggestionBackend {
	case "redis":
		if rdb != nil {
			log.Printf("[INFO] Using Suggestion Store: REDIS")
			return cache.NewSuggestionStore(rdb, cfg.Assign.SuggestionTTL)
		}
		log.Printf("[WARN] Redis unavailable, falling back to in-memory suggestions")
	case "database":
		log.Printf("[INFO] Using Suggestion Store: DATABASE")
		return unitofwork.NewSuggestionStore(uowFactory)
	}
	log.Printf("[INFO] Using Suggestion Store: MEMORY")
	return memory.NewSuggestionStore(cfg.Assign.SuggestionTTL)
}
