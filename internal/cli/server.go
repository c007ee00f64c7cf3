package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-quiz-service/internal/app"
	"ai-quiz-service/internal/config"
	"ai-quiz-service/internal/infra/memory"
	"ai-quiz-service/internal/infra/rabbitmq"
	"ai-quiz-service/internal/metrics"
	"ai-quiz-service/internal/quizparse"
	transport "ai-quiz-service/internal/transport/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("no API key configured, quiz generation will fail with an authentication error")
	}

	history, closeHistory, err := openHistory(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeHistory()

	publisher, err := rabbitmq.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange, logger.Named("events"))
	if err != nil {
		return err
	}
	defer publisher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	quizMetrics := metrics.New(registry)

	requester := newRequester(cfg, logger)
	parser := quizparse.NewParser(logger.Named("parser"))
	sessions := memory.NewSessionStore(config.TTLDuration(cfg.Session.TTL, 30*time.Minute))
	serviceLogger := logger.Named("quiz")
	newService := func(session *app.Session) *app.QuizService {
		return app.NewQuizService(requester, parser, history,
			app.WithSession(session),
			app.WithPublisher(publisher),
			app.WithMetrics(quizMetrics),
			app.WithLogger(serviceLogger),
		)
	}

	wsHandler := transport.NewWSHandler(sessions, newService, logger.Named("ws"))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/api/history", transport.NewHistoryHandler(history, logger.Named("http")))
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting quiz service",
			zap.String("port", finalPort),
			zap.String("history", cfg.History.Backend),
			zap.String("model", cfg.LLM.Model))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
