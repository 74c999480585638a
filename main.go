package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"connectibles/internal/auth"
	"connectibles/internal/config"
	"connectibles/internal/db"
	"connectibles/internal/email"
	grpcserver "connectibles/internal/grpc"
	"connectibles/internal/handlers"
	"connectibles/internal/jobs"
	"connectibles/internal/middleware"
	"connectibles/internal/observability"
	"connectibles/internal/otp"
	"connectibles/internal/push"
	"connectibles/internal/rabbitmq"
	"connectibles/internal/repositories"
	"connectibles/internal/services"
	"connectibles/internal/storage"
	"connectibles/internal/telemetry"
	"connectibles/internal/ws"
)

func main() {
	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init tracing")
	}

	database, err := db.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer database.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer rdb.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQP, cfg.Telemetry.ServiceName)
	defer publisher.Close()
	observability.SetPublisher(publisher)
	log.Info().
		Str("mode", rabbitmq.PublisherMode(publisher)).
		Str("reason", rabbitmq.PublisherNoopReason(publisher)).
		Msg("event publisher ready")
	audit := telemetry.NewAuditEmitter(publisher, cfg.AMQP.AuditRouteKey, cfg.Telemetry.ServiceName, cfg.Telemetry.Environment)

	avatars, err := storage.NewS3Avatars(ctx, cfg.AWS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init avatar storage")
	}

	userRepo := repositories.NewUserRepo(database)
	connectionRepo := repositories.NewConnectionRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	gossipRepo := repositories.NewGossipRepo(database)
	reportRepo := repositories.NewReportRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)
	gameRepo := repositories.NewGameRepo(database)
	truthDareRepo := repositories.NewTruthDareRepo(database)
	chillRepo := repositories.NewChillRepo(database)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	dispatcher := jobs.NewAsyncDispatcher(cfg.Jobs.TaskTimeout)
	hub := ws.NewHub()

	notifier := services.NewNotificationService(notificationRepo, userRepo, hub, push.NewPusher(cfg.APNs), dispatcher)
	authService := services.NewAuthService(userRepo, otp.NewRedisStore(rdb, cfg.Auth.OTPTTL),
		email.NewSender(cfg.Email.APIURL, cfg.Email.APIKey, cfg.Email.Sender), tokens, cfg.Auth.AllowedDomain)
	userService := services.NewUserService(userRepo, avatars)
	matchService := services.NewMatchService(userRepo)
	connectionService := services.NewConnectionService(userRepo, connectionRepo, notifier)
	messageService := services.NewMessageService(userRepo, messageRepo, hub, notifier)
	gossipService := services.NewGossipService(gossipRepo, hub)
	chillService := services.NewChillService(chillRepo, cfg.Jobs.ChillPostTTL)
	reportService := services.NewReportService(userRepo, reportRepo, notifier)
	gameService := services.NewGameService(gameRepo, userRepo, hub, notifier, dispatcher)
	truthDareService := services.NewTruthDareService(truthDareRepo, userRepo, hub, notifier)

	authHandler := handlers.NewAuthHandler(authService, audit)
	userHandler := handlers.NewUserHandler(userService, matchService, audit, cfg.Auth.AdminKey)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	messageHandler := handlers.NewMessageHandler(messageService, gossipService)
	chillHandler := handlers.NewChillHandler(chillService)
	notificationHandler := handlers.NewNotificationHandler(notifier)
	reportHandler := handlers.NewReportHandler(reportService, audit)
	gameHandler := handlers.NewGameHandler(gameService, truthDareService)
	wsHandler := ws.NewHandler(hub, tokens)

	health := grpcserver.NewHealthServer(map[string]grpcserver.Check{
		"postgres": database.PingContext,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})

	router := gin.New()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog())
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		failures := health.Refresh(c.Request.Context())
		if len(failures) > 0 {
			down := make(map[string]string, len(failures))
			for name, err := range failures {
				down[name] = err.Error()
			}
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "failures": down})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ws", wsHandler.Handle)
	handlers.RegisterDebugRoutes(router, audit, hub, cfg.Server.Debug)

	requireAuth := middleware.RequireAuth(tokens)
	optionalAuth := middleware.OptionalAuth(tokens)
	api := router.Group("/api")

	api.POST("/auth/otp", authHandler.RequestOTP)
	api.POST("/auth/verify", authHandler.VerifyOTP)

	api.GET("/me", requireAuth, userHandler.GetMe)
	api.PATCH("/me", requireAuth, userHandler.UpdateProfile)
	api.POST("/me/push-token", requireAuth, userHandler.RegisterPushToken)
	api.POST("/me/avatar/upload", requireAuth, userHandler.RequestAvatarUpload)
	api.PUT("/me/avatar", requireAuth, userHandler.ConfirmAvatar)
	api.GET("/me/blocked", requireAuth, userHandler.ListBlocked)
	api.GET("/users", optionalAuth, userHandler.ListUsers)
	api.GET("/users/:user_id", optionalAuth, userHandler.GetUser)
	api.POST("/users/:user_id/block", requireAuth, userHandler.BlockUser)
	api.DELETE("/users/:user_id/block", requireAuth, userHandler.UnblockUser)
	api.POST("/users/:user_id/report", requireAuth, reportHandler.ReportUser)
	api.GET("/matches", optionalAuth, userHandler.FindMatches)
	api.DELETE("/admin/users", userHandler.AdminWipeUsers)

	api.GET("/connections", optionalAuth, connectionHandler.ListConnections)
	api.GET("/connections/:user_id/status", optionalAuth, connectionHandler.GetConnectionStatus)
	api.POST("/connections/:user_id/wave", requireAuth, connectionHandler.SendWave)
	api.POST("/connections/:user_id/request", requireAuth, connectionHandler.SendConnectionRequest)
	api.DELETE("/connections/:user_id", requireAuth, connectionHandler.RemoveConnection)
	api.GET("/connection-requests", optionalAuth, connectionHandler.ListIncomingRequests)
	api.POST("/connection-requests/:request_id/accept", requireAuth, connectionHandler.AcceptConnectionRequest)
	api.POST("/connection-requests/:request_id/reject", requireAuth, connectionHandler.RejectConnectionRequest)

	api.GET("/messages/unread-count", optionalAuth, messageHandler.UnreadCount)
	api.GET("/messages/:user_id", optionalAuth, messageHandler.GetConversation)
	api.POST("/messages/:user_id", requireAuth, messageHandler.SendMessage)
	api.POST("/messages/:user_id/read", requireAuth, messageHandler.MarkAsRead)
	api.GET("/gossip", optionalAuth, messageHandler.ListGossip)
	api.POST("/gossip", requireAuth, messageHandler.PostGossip)
	api.DELETE("/gossip/:message_id", requireAuth, messageHandler.DeleteGossip)

	api.GET("/chill", chillHandler.ListChillPosts)
	api.POST("/chill", requireAuth, chillHandler.CreateChillPost)

	api.GET("/notifications", optionalAuth, notificationHandler.List)
	api.GET("/notifications/unread-count", optionalAuth, notificationHandler.UnreadCount)
	api.POST("/notifications/read-all", requireAuth, notificationHandler.MarkAllRead)
	api.POST("/notifications/:notification_id/read", requireAuth, notificationHandler.MarkRead)
	api.DELETE("/notifications", requireAuth, notificationHandler.DeleteAll)
	api.DELETE("/notifications/:notification_id", requireAuth, notificationHandler.Delete)

	api.POST("/games", requireAuth, gameHandler.StartGame)
	api.GET("/games", optionalAuth, gameHandler.ListMyGames)
	api.GET("/games/stats", optionalAuth, gameHandler.GetMyStats)
	api.GET("/games/leaderboard/:game_type", gameHandler.Leaderboard)
	api.GET("/games/:session_id", requireAuth, gameHandler.GetGame)
	api.PUT("/games/:session_id/state", requireAuth, gameHandler.UpdateGameState)
	api.POST("/games/:session_id/move", requireAuth, gameHandler.PlayTicTacToeMove)

	api.POST("/truth-dare", requireAuth, gameHandler.StartTruthDare)
	api.GET("/truth-dare", optionalAuth, gameHandler.ListMyTruthDare)
	api.GET("/truth-dare/:session_id", requireAuth, gameHandler.GetTruthDare)
	api.POST("/truth-dare/:session_id/choice", requireAuth, gameHandler.MakeChoice)
	api.POST("/truth-dare/:session_id/answer", requireAuth, gameHandler.AnswerTruth)
	api.POST("/truth-dare/:session_id/complete", requireAuth, gameHandler.CompleteDare)
	api.POST("/truth-dare/:session_id/skip", requireAuth, gameHandler.SkipRound)
	api.POST("/truth-dare/:session_id/end", requireAuth, gameHandler.EndTruthDare)

	go jobs.NewChillCleanup(chillRepo, cfg.Jobs.ChillPostTTL, cfg.Jobs.ChillCleanupInterval).Run(ctx)
	go health.Watch(ctx, 30*time.Second)

	grpcListener, err := net.Listen("tcp", cfg.Server.GRPCAddr())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen for grpc")
	}
	go func() {
		if err := health.Serve(grpcListener); err != nil {
			log.Error().Err(err).Msg("grpc server stopped")
		}
	}()

	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info().Str("addr", srv.Addr).Str("grpc_addr", cfg.Server.GRPCAddr()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	health.Stop()
	dispatcher.Wait(shutdownCtx)
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown failed")
	}
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
