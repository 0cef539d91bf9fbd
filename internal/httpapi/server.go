// Package httpapi serves the engine over a local JSON API for external UIs.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/taskmaster/internal/engine"
	"github.com/julianstephens/taskmaster/internal/logger"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	engine *engine.Engine
	router *gin.Engine
}

func NewServer(e *engine.Engine) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		engine: e,
		router: router,
	}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/daily", s.handleListDaily)
		api.POST("/daily", s.handleAddDaily)
		api.GET("/planned", s.handleListPlanned)
		api.POST("/planned", s.handleAddPlanned)
		api.GET("/free", s.handleListFree)
		api.POST("/free", s.handleAddFree)

		api.PUT("/tasks/:kind/:id", s.handleUpdateTask)
		api.POST("/tasks/:kind/:id/toggle", s.handleToggleTask)
		api.DELETE("/tasks/:kind/:id", s.handleDeleteTask)
		api.POST("/reset", s.handleReset)

		api.GET("/reminders", s.handleListReminders)
		api.POST("/reminders", s.handleAddReminder)
		api.DELETE("/reminders/:id", s.handleDeleteReminder)

		api.GET("/projects", s.handleListProjects)
		api.POST("/projects", s.handleAddProject)
		api.GET("/projects/:id", s.handleGetProject)
		api.PUT("/projects/:id", s.handleUpdateProject)
		api.DELETE("/projects/:id", s.handleDeleteProject)
		api.POST("/projects/:id/tasks", s.handleAddProjectTask)
		api.PUT("/projects/:id/tasks/:taskId", s.handleUpdateProjectTask)
		api.DELETE("/projects/:id/tasks/:taskId", s.handleDeleteProjectTask)

		api.GET("/stats", s.handleStats)
		api.GET("/history", s.handleHistory)
	}

	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Info("HTTP API stopped")
		return nil
	}
}

var log = logger.Component("http")

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
