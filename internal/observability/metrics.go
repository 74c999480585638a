package observability

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectibles_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connectibles_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	grpcServerHandledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grpc_server_handled_total",
			Help: "Total number of gRPC requests handled by the server.",
		},
		[]string{"grpc_service", "grpc_method", "grpc_code"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "connectibles_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectibles_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "connectibles_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
	connectionEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectibles_connection_events_total",
			Help: "Connection state machine transitions.",
		},
		[]string{"event"},
	)
	matchesServedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "connectibles_matches_served_total",
			Help: "Match candidates returned to users.",
		},
	)
	messagesSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectibles_messages_sent_total",
			Help: "Messages stored, by kind.",
		},
		[]string{"kind"},
	)
	reportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectibles_reports_total",
			Help: "User reports filed, by escalation outcome.",
		},
		[]string{"outcome"},
	)
	gamesCompletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectibles_games_completed_total",
			Help: "Game sessions completed.",
		},
		[]string{"game_type", "result"},
	)
	deferredTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectibles_deferred_tasks_total",
			Help: "Deferred side-effect tasks by outcome.",
		},
		[]string{"task", "outcome"},
	)
	chillPostsDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "connectibles_chill_posts_deleted_total",
			Help: "Chill posts removed by the cleanup job.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		grpcServerHandledTotal,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
		connectionEventsTotal,
		matchesServedTotal,
		messagesSentTotal,
		reportsTotal,
		gamesCompletedTotal,
		deferredTasksTotal,
		chillPostsDeletedTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func GRPCServerMetricsUnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		statusInfo := status.Convert(err)
		service, method := splitFullMethod(info.FullMethod)
		grpcServerHandledTotal.WithLabelValues(service, method, statusInfo.Code().String()).Inc()
		return resp, err
	}
}

func splitFullMethod(fullMethod string) (string, string) {
	parts := strings.Split(fullMethod, "/")
	if len(parts) < 3 {
		return "unknown", "unknown"
	}
	return parts[1], parts[2]
}

func IncWSActive() { wsActiveConnections.Inc() }

func DecWSActive() { wsActiveConnections.Dec() }

func IncWSEvent(event string) {
	wsEventsTotal.WithLabelValues(event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}

func IncConnectionEvent(event string) {
	connectionEventsTotal.WithLabelValues(event).Inc()
}

func AddMatchesServed(n int) {
	matchesServedTotal.Add(float64(n))
}

func IncMessageSent(kind string) {
	messagesSentTotal.WithLabelValues(kind).Inc()
}

func IncReport(outcome string) {
	reportsTotal.WithLabelValues(outcome).Inc()
}

func IncGameCompleted(gameType, result string) {
	gamesCompletedTotal.WithLabelValues(gameType, result).Inc()
}

func IncDeferredTask(task, outcome string) {
	deferredTasksTotal.WithLabelValues(task, outcome).Inc()
}

func AddChillPostsDeleted(n int64) {
	chillPostsDeletedTotal.Add(float64(n))
}
