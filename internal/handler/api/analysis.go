package api

import (
	"errors"
	"time"

	models "WaveScan/internal/domain/models"
	domrepo "WaveScan/internal/domain/repository"
	"WaveScan/internal/service/metrics"
	"WaveScan/internal/service/ratelimit"
	"WaveScan/internal/usecase"
	"WaveScan/pkg/cache"
	xhttp "WaveScan/pkg/http"
	xlogger "WaveScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler exposes the analysis engine over HTTP.
type AnalysisHandler struct {
	logger  *xlogger.Logger
	analyze *usecase.AnalyzeUseCase
	scan    *usecase.ScanUseCase
	bars    *usecase.BarsUseCase

	cache       cache.Service
	rl          *ratelimit.Limiter
	analysisTTL time.Duration
	barsTTL     time.Duration
}

type AnalysisHandlerOption func(*AnalysisHandler)

// WithCache enables response caching with per-concern TTLs.
func WithCache(c cache.Service, analysisTTL, barsTTL time.Duration) AnalysisHandlerOption {
	return func(h *AnalysisHandler) {
		h.cache = c
		if analysisTTL > 0 {
			h.analysisTTL = analysisTTL
		}
		if barsTTL > 0 {
			h.barsTTL = barsTTL
		}
	}
}

func NewAnalysisHandler(logger *xlogger.Logger, analyze *usecase.AnalyzeUseCase, scan *usecase.ScanUseCase, bars *usecase.BarsUseCase, opts ...AnalysisHandlerOption) *AnalysisHandler {
	metrics.Register()
	h := &AnalysisHandler{
		logger:      logger,
		analyze:     analyze,
		scan:        scan,
		bars:        bars,
		rl:          ratelimit.New(),
		analysisTTL: 30 * time.Second,
		barsTTL:     time.Minute,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/analyze", h.Analyze)
	g.GET("/signal", h.Signal)
	g.GET("/scan", h.Scan)
	g.GET("/bars", h.Bars)
}

func (h *AnalysisHandler) Analyze(c echo.Context) error {
	start := time.Now()
	endpoint := "analyze"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 10, 5) {
		return echo.NewHTTPError(429, "rate limited")
	}
	tf := domrepo.NormalizeTimeframe(req.TF)
	htf := tf.Higher()
	if req.HTF != "" {
		htf = domrepo.NormalizeTimeframe(req.HTF)
	}

	key := cache.Key(endpoint, req.Symbol, tf, htf, req.N)
	var cached models.Analysis
	if h.lookup(c, endpoint, key, &cached) {
		return xhttp.SuccessResponse(c, &cached)
	}

	res, err := h.analyze.Analyze(c.Request().Context(), usecase.AnalyzeParams{
		Symbol:    req.Symbol,
		Timeframe: tf,
		N:         req.N,
		HTF:       htf,
	})
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("analyze usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.store(c, key, res, h.analysisTTL)
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Signal(c echo.Context) error {
	start := time.Now()
	endpoint := "signal"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 10, 5) {
		return echo.NewHTTPError(429, "rate limited")
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	key := cache.Key(endpoint, req.Symbol, tf, req.N)
	var cached models.Signal
	if h.lookup(c, endpoint, key, &cached) {
		return xhttp.SuccessResponse(c, &cached)
	}

	res, err := h.analyze.Signal(c.Request().Context(), req.Symbol, tf, req.N)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("signal usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.store(c, key, res, h.analysisTTL)
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Scan(c echo.Context) error {
	start := time.Now()
	endpoint := "scan"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	// A scan fans out across the whole watchlist, so the limit is tight.
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 2, 1) {
		return echo.NewHTTPError(429, "rate limited")
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	key := cache.Key(endpoint, tf, req.MinScore)
	var cached models.ScanResult
	if h.lookup(c, endpoint, key, &cached) {
		return xhttp.SuccessResponse(c, &cached)
	}

	res, err := h.scan.Scan(c.Request().Context(), tf, req.MinScore)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("scan usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.store(c, key, res, h.analysisTTL)
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Bars(c echo.Context) error {
	start := time.Now()
	endpoint := "bars"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	to := time.Now().UTC()
	if req.To != "" {
		t, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			return xhttp.BadRequestResponse(c, "to must be RFC3339")
		}
		to = t
	}
	from := to.Add(-30 * 24 * time.Hour)
	if req.From != "" {
		t, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			return xhttp.BadRequestResponse(c, "from must be RFC3339")
		}
		from = t
	}

	key := cache.Key(endpoint, req.Symbol, tf, from.Unix(), to.Unix(), req.Limit)
	var cached usecase.GetBarsResult
	if h.lookup(c, endpoint, key, &cached) {
		return xhttp.SuccessResponse(c, &cached)
	}

	res, err := h.bars.GetBars(c.Request().Context(), usecase.GetBarsParams{
		Symbol:    req.Symbol,
		From:      from,
		To:        to,
		Timeframe: tf,
		Limit:     req.Limit,
	})
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("bars usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.store(c, key, res, h.barsTTL)
	return xhttp.SuccessResponse(c, res)
}

// lookup reads a cached response into dest and records the outcome.
func (h *AnalysisHandler) lookup(c echo.Context, endpoint, key string, dest interface{}) bool {
	if h.cache == nil {
		return false
	}
	err := h.cache.Get(c.Request().Context(), key, dest)
	switch {
	case err == nil:
		metrics.CacheHits.WithLabelValues(endpoint, "hit").Inc()
		return true
	case errors.Is(err, cache.ErrCacheMiss):
		metrics.CacheHits.WithLabelValues(endpoint, "miss").Inc()
	default:
		h.logger.Warn("cache get error", xlogger.String("key", key), xlogger.Error(err))
	}
	return false
}

func (h *AnalysisHandler) store(c echo.Context, key string, value interface{}, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(c.Request().Context(), key, value, ttl); err != nil {
		h.logger.Warn("cache set error", xlogger.String("key", key), xlogger.Error(err))
	}
}
