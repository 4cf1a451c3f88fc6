package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"rewrite-router/internal/common/logging"
	"rewrite-router/internal/config"
	"rewrite-router/internal/middleware"
	"rewrite-router/internal/routing"
	"rewrite-router/internal/server"
)

func main() {
	// A missing .env file is fine, environment variables still apply.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logging.InitGlobalLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.MustSync()
	logger := logging.GetGlobalLogger()

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		logger.Error("failed to load rules", err, logging.String("file", cfg.RulesFile))
		os.Exit(1)
	}

	engine := routing.NewRuleEngine(logger)
	for i := range rules {
		if err := engine.AddRule(&rules[i]); err != nil {
			logger.Error("failed to register rule", err, logging.String("rule", rules[i].Name))
			os.Exit(1)
		}
	}
	logger.Info("rules loaded",
		logging.Int("count", len(rules)),
		logging.String("file", cfg.RulesFile),
	)

	dispatcher, err := server.NewDispatcher(engine, cfg.UpstreamURL, logger)
	if err != nil {
		logger.Error("failed to build dispatcher", err)
		os.Exit(1)
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", server.HealthHandler(engine)).Methods("GET")
	router.PathPrefix("/").Handler(dispatcher)

	var handler http.Handler = router
	if cfg.AccessLogEnabled {
		handler = middleware.LoggingMiddleware(router)
	}

	srv := server.New(handler, cfg.Port, cfg.TLSCertFile, cfg.TLSKeyFile, logger)
	if err := srv.Start(); err != nil {
		logger.Error("failed to start server", err)
		os.Exit(1)
	}

	// Wait for interrupt signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
