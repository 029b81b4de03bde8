// Package httpapi serves the read API over stored picks, a dry-run parse
// endpoint and an authenticated message intake endpoint.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/Ducky705/Live-Pick-Scraper/internal/db"
	"github.com/Ducky705/Live-Pick-Scraper/internal/fallback"
	"github.com/Ducky705/Live-Pick-Scraper/internal/globaltime"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pipeline"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	maxBodyBytes     = "64K"
)

// Store is the slice of the database the API reads and writes.
type Store interface {
	Ping(ctx context.Context) error
	ListPicks(ctx context.Context, opts db.PickListOptions) ([]db.PickListItem, error)
	ListCappers(ctx context.Context, limit int) ([]db.CapperListItem, error)
	QueryPipelineStats(ctx context.Context, day time.Time) (*db.PipelineStats, error)
	InsertRawMessage(ctx context.Context, msg pick.RawMessage) (int64, error)
}

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// TokenHash is the bcrypt hash guarding write routes. Empty disables them.
	TokenHash      string
	AllowedOrigins []string
}

type Server struct {
	store    Store
	engine   *pipeline.Engine
	fallback *fallback.Extractor
	logger   zerolog.Logger
	opts     Options
}

func NewServer(store Store, engine *pipeline.Engine, fb *fallback.Extractor, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	if opts.Port <= 0 {
		opts.Port = 8090
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 90 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	opts.Host = host
	opts.TokenHash = strings.TrimSpace(opts.TokenHash)

	return &Server{
		store:    store,
		engine:   engine,
		fallback: fb,
		logger:   logger,
		opts:     opts,
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.store == nil || s.engine == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.routes()
	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Bool("writes_enabled", s.opts.TokenHash != "").Msg("pick-engine api started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("pick-engine api stopped")
	return nil
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit(maxBodyBytes))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.opts.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		MaxAge:       3600,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Info()
			msg := "http request"
			if v.Error != nil {
				event = s.logger.Error().Err(v.Error)
				msg = "http request failed"
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg(msg)
			return nil
		},
	}))

	e.GET("/healthz", s.handleHealth)

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/stats", s.handleStats)
	api.GET("/picks", s.handlePicks)
	api.GET("/cappers", s.handleCappers)
	api.POST("/parse", s.handleParse)
	api.POST("/messages", s.handleIngest, s.requireToken())

	return e
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if text, ok := he.Message.(string); ok && strings.TrimSpace(text) != "" {
			message = text
		} else if text := http.StatusText(status); text != "" {
			message = text
		}
	}

	if status >= 500 {
		_ = internalError(c, "Internal server error")
		return
	}
	_ = fail(c, status, message, nil)
}

func (s *Server) handleHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error().Err(err).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, jsendResponse{
			Status:  "error",
			Message: "Database unavailable",
			Code:    http.StatusServiceUnavailable,
		})
	}
	return success(c, map[string]any{
		"service": "pick-engine",
		"time":    globaltime.UTC(),
	})
}

func (s *Server) handleStats(c echo.Context) error {
	day := globaltime.EasternDate(globaltime.Now())
	if raw := strings.TrimSpace(c.QueryParam("date")); raw != "" {
		parsed, err := pick.ParseDate(raw)
		if err != nil {
			return failValidation(c, map[string]string{"date": "must be YYYY-MM-DD"})
		}
		day = parsed
	}

	stats, err := s.store.QueryPipelineStats(c.Request().Context(), day)
	if err != nil {
		s.logger.Error().Err(err).Msg("query stats failed")
		return internalError(c, "Failed to load stats")
	}
	return success(c, stats)
}

func (s *Server) handlePicks(c echo.Context) error {
	limit, err := parsePositiveInt(c.QueryParam("limit"), defaultListLimit, 1, maxListLimit)
	if err != nil {
		return failValidation(c, map[string]string{"limit": err.Error()})
	}
	capperID, err := parsePositiveInt(c.QueryParam("capper_id"), 0, 1, 1<<31-1)
	if err != nil {
		return failValidation(c, map[string]string{"capper_id": err.Error()})
	}

	date := strings.TrimSpace(c.QueryParam("date"))
	if date != "" {
		if _, err := pick.ParseDate(date); err != nil {
			return failValidation(c, map[string]string{"date": "must be YYYY-MM-DD"})
		}
	}

	opts := db.PickListOptions{
		Date:     date,
		CapperID: int64(capperID),
		League:   strings.ToUpper(strings.TrimSpace(c.QueryParam("league"))),
		Limit:    limit,
	}
	items, err := s.store.ListPicks(c.Request().Context(), opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("query picks failed")
		return internalError(c, "Failed to load picks")
	}

	return success(c, map[string]any{
		"items": items,
		"filters": map[string]any{
			"date":      opts.Date,
			"capper_id": opts.CapperID,
			"league":    opts.League,
			"limit":     opts.Limit,
		},
	})
}

func (s *Server) handleCappers(c echo.Context) error {
	limit, err := parsePositiveInt(c.QueryParam("limit"), defaultListLimit, 1, maxListLimit)
	if err != nil {
		return failValidation(c, map[string]string{"limit": err.Error()})
	}

	items, err := s.store.ListCappers(c.Request().Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("query cappers failed")
		return internalError(c, "Failed to load cappers")
	}
	return success(c, map[string]any{
		"items": items,
		"limit": limit,
	})
}

// parsePositiveInt returns defaultValue for an empty value.
func parsePositiveInt(raw string, defaultValue, minValue, maxValue int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if value < minValue || value > maxValue {
		return 0, fmt.Errorf("must be between %d and %d", minValue, maxValue)
	}
	return value, nil
}
