package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shashwat0010/streamify-chat-app/internal/auth"
	"github.com/shashwat0010/streamify-chat-app/internal/cache"
	"github.com/shashwat0010/streamify-chat-app/internal/config"
	"github.com/shashwat0010/streamify-chat-app/internal/handler"
	"github.com/shashwat0010/streamify-chat-app/internal/hub"
	"github.com/shashwat0010/streamify-chat-app/internal/presence"
	"github.com/shashwat0010/streamify-chat-app/internal/pubsub"
	"github.com/shashwat0010/streamify-chat-app/internal/recording"
	"github.com/shashwat0010/streamify-chat-app/internal/service"
)

// Server Fiber 서버 래퍼
type Server struct {
	app    *fiber.App
	cfg    *config.Config
	db     *gorm.DB
	logger *zap.Logger

	relay  *hub.Relay
	bridge *pubsub.Bridge

	socketHandler  *handler.SocketHandler
	friendHandler  *handler.FriendHandler
	meetingHandler *handler.MeetingHandler
	userHandler    *handler.UserHandler
	videoHandler   *handler.VideoHandler
	healthHandler  *handler.HealthHandler
	jwtManager     *auth.JWTManager
}

// New 새 서버 인스턴스 생성. redis 가 nil 이면 단일 인스턴스로 동작한다.
func New(cfg *config.Config, db *gorm.DB, redis *cache.RedisClient, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "Streamify API",
		ServerHeader:          "Fiber",
		StrictRouting:         true,
		CaseSensitive:         true,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           cfg.Server.IdleTimeout,
		ReadBufferSize:        16384,
		WriteBufferSize:       16384,
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: true,
	})

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// 화이트보드 릴레이 (Redis 가 있으면 인스턴스 간 브리지 연결)
	relay := hub.NewRelay(hub.NewRegistry(), nil, log.Named("relay"))

	var (
		bridge   *pubsub.Bridge
		tracker  presence.Tracker = presence.NewLocal()
		recCache service.RecordingCache
		pinger   handler.Pinger
	)
	if redis != nil {
		bridge = pubsub.NewBridge(redis.Client(), relay, cfg.Whiteboard.BridgeQueueSize, log.Named("bridge"))
		relay.SetPublisher(bridge)
		tracker = presence.NewManager(redis.Client())
		recCache = redis
		pinger = redis
	} else {
		log.Info("redis not configured, running as a single instance")
	}

	var finder recording.Finder
	if cfg.LiveKit.Host != "" && cfg.LiveKit.APIKey != "" {
		finder = recording.NewLiveKitFinder(cfg.LiveKit.Host, cfg.LiveKit.APIKey, cfg.LiveKit.APISecret,
			cfg.Recording.MatchWindow, log.Named("recording"))
	} else {
		log.Info("livekit not configured, recording lookup disabled")
	}

	friendService := service.NewFriendService(db, relay)
	meetingService := service.NewMeetingService(db, finder, recCache, log.Named("meeting"))
	userService := service.NewUserService(db)

	return &Server{
		app:            app,
		cfg:            cfg,
		db:             db,
		logger:         log,
		relay:          relay,
		bridge:         bridge,
		socketHandler:  handler.NewSocketHandler(relay, tracker, cfg.WebSocket, cfg.Whiteboard.SessionQueueSize, log),
		friendHandler:  handler.NewFriendHandler(friendService, tracker, log.Named("friend")),
		meetingHandler: handler.NewMeetingHandler(meetingService, log.Named("meeting")),
		userHandler:    handler.NewUserHandler(userService, log.Named("user")),
		videoHandler:   handler.NewVideoHandler(cfg.LiveKit, log.Named("video")),
		healthHandler:  handler.NewHealthHandler(db, pinger, relay.Registry()),
		jwtManager:     jwtManager,
	}
}

// App Fiber 앱 반환
func (s *Server) App() *fiber.App {
	return s.app
}

// Relay 화이트보드 릴레이 반환
func (s *Server) Relay() *hub.Relay {
	return s.relay
}

// SetupMiddleware 미들웨어 설정
func (s *Server) SetupMiddleware() {
	// 패닉 복구
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// 로깅
	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	// CORS
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORS.AllowOrigins,
		AllowHeaders:     s.cfg.CORS.AllowHeaders,
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: s.cfg.CORS.AllowCredentials,
	}))
}

// SetupRoutes 라우트 설정
func (s *Server) SetupRoutes() {
	// 헬스체크 엔드포인트
	s.app.Get("/health", s.healthHandler.Check)
	s.app.Get("/health/live", s.healthHandler.Liveness)
	s.app.Get("/health/ready", s.healthHandler.Readiness)

	// API Rate Limiter
	apiLimiter := limiter.New(limiter.Config{
		Max:        s.cfg.Server.RateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, please try again later",
			})
		},
	})

	api := s.app.Group("/api", apiLimiter, auth.AuthMiddleware(s.jwtManager))

	// Friend 라우트
	friends := api.Group("/friends")
	friends.Get("", s.friendHandler.List)
	friends.Post("/request", s.friendHandler.SendRequest)
	friends.Put("/request/:requestId/accept", s.friendHandler.AcceptRequest)
	friends.Get("/requests", s.friendHandler.IncomingRequests)
	friends.Get("/requests/outgoing", s.friendHandler.OutgoingRequests)
	friends.Delete("/:friendId", s.friendHandler.Remove)

	// Meeting 라우트
	meetings := api.Group("/meetings")
	meetings.Get("", s.meetingHandler.GetMeetings)
	meetings.Post("", s.meetingHandler.CreateMeeting)
	meetings.Get("/export", s.meetingHandler.ExportMeetings)
	meetings.Get("/:id", s.meetingHandler.GetMeeting)
	meetings.Post("/:id/check-recording", s.meetingHandler.CheckRecording)

	// User 라우트
	users := api.Group("/users")
	users.Get("", s.userHandler.Recommended)
	users.Get("/me", s.userHandler.GetMe)
	users.Get("/search", s.userHandler.SearchByEmail)
	users.Put("/profile", s.userHandler.UpdateProfile)

	// Video Call 라우트
	api.Post("/video/token", s.videoHandler.GenerateToken)

	// WebSocket 엔드포인트 (토큰은 선택)
	s.app.Get("/ws", auth.OptionalAuthMiddleware(s.jwtManager), func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}, websocket.New(s.socketHandler.HandleWebSocket, websocket.Config{
		ReadBufferSize:  s.cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: s.cfg.WebSocket.WriteBufferSize,
	}))
}

// Start 서버 시작. ctx 가 끝나면 Graceful Shutdown 한다.
func (s *Server) Start(ctx context.Context) error {
	bridgeCtx, stopBridge := context.WithCancel(ctx)
	defer stopBridge()

	if s.bridge != nil {
		go func() {
			if err := s.bridge.Run(bridgeCtx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("pubsub bridge stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down server")
		if err := s.Shutdown(); err != nil {
			s.logger.Error("server shutdown error", zap.Error(err))
		}
	}()

	s.logger.Info("streamify api starting",
		zap.String("addr", s.cfg.Server.Port),
		zap.Bool("redis", s.bridge != nil))

	return s.app.Listen(s.cfg.Server.Port)
}

// Shutdown 서버 종료
func (s *Server) Shutdown() error {
	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return s.app.ShutdownWithTimeout(timeout)
}
