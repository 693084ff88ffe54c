package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"ShowPulse/internal/domain/models"
	domrepo "ShowPulse/internal/domain/repository"
	"ShowPulse/internal/usecase"
	xhttp "ShowPulse/pkg/http"
	xlogger "ShowPulse/pkg/logger"
)

// AnalysisEchoHandler exposes the snapshot pipeline over HTTP.
type AnalysisEchoHandler struct {
	logger    *xlogger.Logger
	rebuilder *usecase.Rebuilder
	store     *usecase.SnapshotStore
	quotes    domrepo.QuoteSource
	archive   domrepo.SnapshotArchive
}

func NewAnalysisEchoHandler(
	logger *xlogger.Logger,
	rebuilder *usecase.Rebuilder,
	store *usecase.SnapshotStore,
	quotes domrepo.QuoteSource,
	archive domrepo.SnapshotArchive,
) *AnalysisEchoHandler {
	return &AnalysisEchoHandler{
		logger:    logger,
		rebuilder: rebuilder,
		store:     store,
		quotes:    quotes,
		archive:   archive,
	}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/analysis/refresh", h.Refresh)
	g.GET("/analysis/latest", h.Latest)
	g.GET("/markets/top", h.TopMarkets)
	e.GET("/health", h.Health)
}

// Refresh triggers a rebuild. By default the call blocks for the result;
// with async=true it returns 202 and the rebuild runs on.
func (h *AnalysisEchoHandler) Refresh(c echo.Context) error {
	req := &models.RefreshRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if req.Async {
		go func() {
			if _, err := h.rebuilder.Rebuild(context.Background()); err != nil {
				h.logger.Error("background rebuild failed", xlogger.Error(err))
			}
		}()
		return xhttp.AcceptedResponse(c, map[string]string{"status": "rebuilding"})
	}

	snap, err := h.rebuilder.Rebuild(c.Request().Context())
	if err != nil {
		h.logger.Error("rebuild failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("rebuild failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, snap)
}

// Latest serves the current snapshot. The first call before any rebuild
// builds one synchronously rather than returning an empty result.
func (h *AnalysisEchoHandler) Latest(c echo.Context) error {
	if snap := h.store.Latest(); snap != nil {
		return xhttp.SuccessResponse(c, snap)
	}

	snap, err := h.rebuilder.Rebuild(c.Request().Context())
	if err != nil {
		h.logger.Error("initial rebuild failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("no snapshot available").WithError(err))
	}
	return xhttp.SuccessResponse(c, snap)
}

// TopMarkets returns the raw ranked quotes without provider enrichment.
func (h *AnalysisEchoHandler) TopMarkets(c echo.Context) error {
	req := &models.TopMarketsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	quotes, err := h.quotes.TopQuotes(c.Request().Context(), req.Limit)
	if err != nil {
		h.logger.Error("top markets fetch failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("market data unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, quotes)
}

type healthStatus struct {
	Status      string  `json:"status"`
	SnapshotAge float64 `json:"snapshot_age_seconds,omitempty"`
	RebuildID   string  `json:"rebuild_id,omitempty"`
	Archive     string  `json:"archive,omitempty"`
}

func (h *AnalysisEchoHandler) Health(c echo.Context) error {
	status := healthStatus{Status: "ok"}

	if snap := h.store.Latest(); snap != nil {
		status.SnapshotAge = time.Since(snap.Timestamp).Seconds()
		status.RebuildID = snap.RebuildID
	} else {
		status.Status = "warming_up"
	}

	if h.archive != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.archive.Health(ctx); err != nil {
			status.Archive = "unhealthy"
			return c.JSON(http.StatusServiceUnavailable, status)
		}
		status.Archive = "ok"
	}
	return c.JSON(http.StatusOK, status)
}
