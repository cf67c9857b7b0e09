package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger   *slog.Logger
	handlers Handlers
	webDir   string
}

// New builds the HTTP server. coin breaks ties for /api/v1/move requests that
// do not carry their own seed; webDir is served at / when not empty.
func New(logger *slog.Logger, coin tictactoe.Coin, webDir string) *Server {
	return &Server{
		logger:   logger.With("component", "rest"),
		handlers: NewHandlers(coin),
		webDir:   webDir,
	}
}

func (that *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), that.requestLogger())

	router.GET("/ping", that.handlers.Ping)

	api := router.Group("/api/v1")
	api.POST("/outcome", that.handlers.Outcome)
	api.POST("/move", that.handlers.Move)

	if that.webDir != "" {
		router.StaticFile("/", that.webDir+"/index.html")
		router.Static("/static", that.webDir)
	}

	return router
}

// Start serves until ctx is canceled, then shuts the server down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		that.logger.Debug("request served",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(started),
		)
	}
}
