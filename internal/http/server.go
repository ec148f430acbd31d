package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ochronus/qbreannounce/internal/app"
	"github.com/ochronus/qbreannounce/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	handler *Handler
	logger  *logrus.Logger
	router  *gin.Engine
	srv     *http.Server

	shutdownTimeout time.Duration
}

// NewServer creates a new HTTP server that runs cycle on POST /reannounce
func NewServer(container *app.Container, cycle Cycle) *Server {
	cfg := container.Config

	// Set gin mode based on log level
	if cfg.Loglevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	handler := NewHandler(container, cycle)

	router.POST("/reannounce", handler.Reannounce)
	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{
		config:  cfg,
		handler: handler,
		logger:  container.Logger,
		router:  router,

		shutdownTimeout: 5 * time.Second,
	}
}

// StartWithContext starts the HTTP server and shuts down gracefully when the context is canceled.
func (s *Server) StartWithContext(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.BindAddress, s.config.Port)
	s.logger.Infof("Starting web server at http://%s", addr)

	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		err := s.srv.Shutdown(shutdownCtx)

		// A running cycle may outlive the timeout; abandoning it leaves torrents paused.
		s.handler.Drain()
		if errors.Is(err, context.DeadlineExceeded) {
			retryCtx, retryCancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer retryCancel()
			err = s.srv.Shutdown(retryCtx)
		}
		if err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

// GetRouter returns the underlying gin router (useful for testing)
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
