// Package server exposes the tracker to the browser extension over a local
// HTTP API.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Tiliavir/focus-streak-tracker/internal/message"
	"github.com/Tiliavir/focus-streak-tracker/internal/metrics"
	"github.com/Tiliavir/focus-streak-tracker/internal/model"
	"github.com/Tiliavir/focus-streak-tracker/internal/tracker"
)

// Server is the HTTP front of a Tracker.
type Server struct {
	engine  *gin.Engine
	handler *handler
	log     *zap.SugaredLogger
}

// New builds the routes for t.
func New(t *tracker.Tracker, log *zap.SugaredLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine:  gin.New(),
		handler: &handler{tracker: t},
		log:     log,
	}
	s.engine.Use(gin.Recovery(), requestID(), accessLog(log))

	s.engine.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/v1")
	v1.POST("/messages", s.postMessage)
	v1.POST("/activity", s.postActivity)
	v1.GET("/state", s.getState)
	v1.GET("/quiet", s.getQuiet)
	return s
}

// Handler returns the http.Handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) postMessage(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		failure(c, http.StatusBadRequest, "reading body: "+err.Error())
		return
	}
	m, err := message.Decode(body)
	if err != nil {
		metrics.RecordMessage("invalid", "error")
		failure(c, http.StatusBadRequest, err.Error())
		return
	}
	s.dispatch(c, m)
}

func (s *Server) postActivity(c *gin.Context) {
	var slot model.ActivitySlot
	if err := c.ShouldBindJSON(&slot); err != nil {
		failure(c, http.StatusBadRequest, "invalid activity slot: "+err.Error())
		return
	}
	s.dispatch(c, message.ActivitySlot{Slot: slot})
}

func (s *Server) getState(c *gin.Context) {
	s.dispatch(c, message.GetState{Date: c.Query("date")})
}

func (s *Server) getQuiet(c *gin.Context) {
	s.dispatch(c, message.QuietStatus{})
}

func (s *Server) dispatch(c *gin.Context, m message.Message) {
	data, err := message.Dispatch(c.Request.Context(), s.handler, m)
	if err != nil {
		metrics.RecordMessage(string(m.Type()), "error")
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.log.Errorw("message failed", "request_id", c.GetString(requestIDKey), "type", m.Type(), "error", err)
		}
		failure(c, status, err.Error())
		return
	}
	metrics.RecordMessage(string(m.Type()), "ok")
	success(c, data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tracker.ErrInvalidSlot),
		errors.Is(err, tracker.ErrInvalidSettings),
		errors.Is(err, tracker.ErrInvalidDate),
		errors.Is(err, message.ErrUnknownType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
