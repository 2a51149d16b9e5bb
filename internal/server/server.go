// Package server exposes the render pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/ByLCY/carousel/internal/pipeline"
)

// Renderer renders a validated request. *pipeline.Service implements it.
type Renderer interface {
	Render(ctx context.Context, req *pipeline.Request) (*pipeline.Result, error)
}

// Options configures the HTTP server.
type Options struct {
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
	Logger          *log.Logger
}

// Server wires the gin router to a Renderer.
type Server struct {
	renderer Renderer
	logger   *log.Logger
	opts     Options
	engine   *gin.Engine
}

// New builds the router. gin's mode is left to the caller (gin.SetMode).
func New(r Renderer, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{renderer: r, logger: opts.Logger, opts: opts}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), RequestID(), RequestLogger(s.logger), CORS(), s.limitBody())
	router.NoMethod(methodNotAllowed)
	router.NoRoute(notFound)

	router.GET("/healthcheck", healthCheck)
	api := router.Group("/api")
	{
		api.POST("/render-slide", s.renderSlide)
		api.OPTIONS("/render-slide", func(c *gin.Context) { c.Status(http.StatusOK) })
		api.GET("/templates", s.listTemplates)
	}
	return router
}

func (s *Server) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxBodyBytes)
		}
		c.Next()
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.opts.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
