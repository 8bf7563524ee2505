package api

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bip-connector/internal/api/handlers"
	"bip-connector/internal/api/middleware"
	"bip-connector/internal/api/utils"
	"bip-connector/internal/config"
	"bip-connector/internal/logger"
	"bip-connector/internal/store"
)

type ServerDeps struct {
	Store    *store.Store
	Executor handlers.Executor
	Logger   logger.LoggerService
}

func NewServer(cfg config.Config, deps ServerDeps) (*http.Server, error) {
	addr := strings.TrimSpace(cfg.APIListen)
	if err := validateListenAddr(addr); err != nil {
		return nil, err
	}

	token := strings.TrimSpace(cfg.BearerToken)
	if token == "" {
		return nil, errors.New("bearerToken is required")
	}
	if deps.Store == nil {
		return nil, errors.New("store is required")
	}
	if deps.Executor == nil {
		return nil, errors.New("executor is required")
	}

	mux := http.NewServeMux()

	mux.Handle("GET /api/health", handlers.NewHealthHandler(deps.Store))

	mux.Handle("POST /api/query", handlers.NewQueryHandler(cfg, deps.Store, deps.Executor))
	mux.Handle("POST /api/query/export", handlers.NewQueryExportHandler(cfg, deps.Store, deps.Executor))
	mux.Handle("POST /api/capacity", handlers.NewCapacityHandler(cfg))

	mux.Handle("GET /api/connections", handlers.NewConnectionListHandler(deps.Store))
	mux.Handle("POST /api/connections", handlers.NewConnectionCreateHandler(deps.Store))
	mux.Handle("GET /api/connections/{id}", handlers.NewConnectionGetHandler(deps.Store))
	mux.Handle("PUT /api/connections/{id}", handlers.NewConnectionUpdateHandler(deps.Store))
	mux.Handle("DELETE /api/connections/{id}", handlers.NewConnectionDeleteHandler(deps.Store))
	mux.Handle("POST /api/connections/{id}/test", handlers.NewConnectionTestHandler(cfg, deps.Store, deps.Executor))

	mux.Handle("GET /api/saved-queries", handlers.NewSavedQueryListHandler(deps.Store))
	mux.Handle("POST /api/saved-queries", handlers.NewSavedQueryCreateHandler(deps.Store))
	mux.Handle("GET /api/saved-queries/{id}", handlers.NewSavedQueryGetHandler(deps.Store))
	mux.Handle("PUT /api/saved-queries/{id}", handlers.NewSavedQueryUpdateHandler(deps.Store))
	mux.Handle("DELETE /api/saved-queries/{id}", handlers.NewSavedQueryDeleteHandler(deps.Store))

	mux.Handle("/api/", http.HandlerFunc(notFoundHandler))

	var handler http.Handler = middleware.Auth(token, mux)
	handler = middleware.Logging(deps.Logger, handler)

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Write timeout stays above the query timeout so slow reports do
		// not get cut off mid-response.
		WriteTimeout: cfg.QueryTimeout() + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}, nil
}

func validateListenAddr(addr string) error {
	if addr == "" {
		return errors.New("apiListen is required")
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return errors.New("apiListen must be in host:port format")
	}
	if host == "" {
		return errors.New("apiListen host is required")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return errors.New("apiListen port is invalid")
	}

	return nil
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusNotFound, "Not found", "NOT_FOUND", nil)
}
