package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"rsvp-service/config"
	"rsvp-service/internal/cache"
	"rsvp-service/internal/db"
	"rsvp-service/internal/handlers"
	"rsvp-service/internal/middleware"
	"rsvp-service/internal/observability"
	"rsvp-service/internal/rabbitmq"
	"rsvp-service/internal/repositories"
	"rsvp-service/internal/telemetry"
	"rsvp-service/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	shutdownTracing, err := observability.InitTracing(context.Background(), cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		logrus.Fatalf("failed to init tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	database, err := db.Connect(cfg.Postgres.DSN)
	if err != nil {
		logrus.Fatalf("failed to connect to db: %v", err)
	}

	var snapshots *cache.Snapshot
	redisClient, err := cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logrus.Warnf("redis unavailable, snapshot cache disabled: %v", err)
		snapshots = cache.NewSnapshot(nil, 0)
	} else {
		snapshots = cache.NewSnapshot(redisClient, cfg.Redis.CacheTTL)
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	defer publisher.Close()
	logrus.Infof("export publisher mode=%s reason=%q", rabbitmq.PublisherMode(publisher), rabbitmq.PublisherNoopReason(publisher))

	if wsPublisher, err := observability.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange); err != nil {
		logrus.Warnf("ws event publisher disabled: %v", err)
	} else {
		observability.SetPublisher(wsPublisher)
		defer wsPublisher.Close()
	}

	export := telemetry.NewExportEmitter(publisher, cfg.AMQP.RoutingKey, cfg.Telemetry.ServiceName, cfg.Server.Environment)

	eventRepo := repositories.NewEventRepo(database)
	rsvpRepo := repositories.NewRsvpRepo(database)
	activityRepo := repositories.NewActivityRepo(database)
	reactionRepo := repositories.NewReactionRepo(database)

	hub := ws.NewHub()

	eventHandler := handlers.NewEventHandler(eventRepo, rsvpRepo, hub, snapshots, export)
	rsvpHandler := handlers.NewRsvpHandler(eventRepo, rsvpRepo, hub, snapshots)
	activityHandler := handlers.NewActivityHandler(eventRepo, activityRepo, reactionRepo, hub, snapshots)

	eventWS := ws.NewEventWebSocketHandler(hub, eventRepo)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))

	router.POST("/events", eventHandler.CreateEvent)
	router.GET("/events/:event_id", eventHandler.GetEvent)
	router.PUT("/events/:event_id", eventHandler.UpdateEvent)
	router.POST("/events/:event_id/final-date", eventHandler.SetFinalDate)
	router.POST("/events/:event_id/date-options", eventHandler.CreateDateOption)
	router.DELETE("/events/:event_id/date-options/:option_id", eventHandler.DeleteDateOption)

	router.GET("/events/:event_id/rsvps", rsvpHandler.ListRsvps)
	router.POST("/events/:event_id/rsvps", rsvpHandler.CreateRsvp)

	router.GET("/events/:event_id/activities", activityHandler.ListActivities)
	router.POST("/events/:event_id/activities", activityHandler.CreateActivity)
	router.DELETE("/events/:event_id/activities/:activity_id", activityHandler.DeleteActivity)
	router.POST("/events/:event_id/activities/:activity_id/reactions", activityHandler.CreateReaction)
	router.DELETE("/events/:event_id/activities/:activity_id/reactions/:reaction_id", activityHandler.DeleteReaction)

	router.GET("/ws/events/:event_id", eventWS.Handle)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
