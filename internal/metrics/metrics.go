package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/meetmate/internal/logger"
)

var (
	// Efficiency metrics
	OperationEfficiency = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "meetmate_operation_efficiency_percent",
			Help: "Last efficiency score per operation kind",
		},
		[]string{"kind"},
	)

	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meetmate_operation_duration_seconds",
			Help:    "Observed operation duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"kind"},
	)

	// Reminder metrics
	RemindersSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "meetmate_reminders_sent_total",
			Help: "Total reminders delivered",
		},
	)

	// Notification metrics
	NotificationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meetmate_notification_failures_total",
			Help: "Notification deliveries that failed, by channel",
		},
		[]string{"channel"},
	)
)

func init() {
	prometheus.MustRegister(
		OperationEfficiency,
		OperationDuration,
		RemindersSent,
		NotificationFailures,
	)
}

// Server exposes /metrics and /health over HTTP
type Server struct {
	server   *http.Server
	listener net.Listener
}

func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start binds the listen address and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.listener = ln

	logger.Info("Starting metrics server", "addr", ln.Addr().String())
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Start
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

func (s *Server) Stop(ctx context.Context) error {
	logger.Info("Stopping metrics server")
	return s.server.Shutdown(ctx)
}
