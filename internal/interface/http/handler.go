package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/patternlife/internal/domain/narrative"
	"github.com/yanqian/patternlife/internal/domain/pattern"
	"github.com/yanqian/patternlife/internal/domain/route"
	apperrors "github.com/yanqian/patternlife/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	patternSvc   pattern.Service
	routeSvc     route.Service
	narrativeSvc narrative.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(patternSvc pattern.Service, routeSvc route.Service, narrativeSvc narrative.Service, logger *slog.Logger) *Handler {
	return &Handler{
		patternSvc:   patternSvc,
		routeSvc:     routeSvc,
		narrativeSvc: narrativeSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

type dayAnalysisRequest struct {
	Day string `json:"day" binding:"required"`
}

type clusterIntelRequest struct {
	Day       string `json:"day"`
	ClusterID int    `json:"clusterId" binding:"required"`
}

type aoiIntelRequest struct {
	Day   string `json:"day" binding:"required"`
	AOIID string `json:"aoiId" binding:"required"`
}

type locationIntelRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Patterns returns clusters, AOIs and locked dates for a day selector.
func (h *Handler) Patterns(c *gin.Context) {
	view, err := h.patternSvc.View(c.Request.Context(), c.Query("day"))
	if err != nil {
		abortWithError(c, domainError(err, "pattern_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// DayPoints returns one weekday's points in time order.
func (h *Handler) DayPoints(c *gin.Context) {
	day := strings.ToUpper(strings.TrimSpace(c.Query("day")))
	points, err := h.patternSvc.DayPoints(c.Request.Context(), day)
	if err != nil {
		abortWithError(c, domainError(err, "pattern_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day, "points": points})
}

// Routes returns movement paths for every locked date of the selector.
func (h *Handler) Routes(c *gin.Context) {
	routes, err := h.routeSvc.Routes(c.Request.Context(), c.Query("day"))
	if err != nil {
		abortWithError(c, domainError(err, "route_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// AnalyzeDay narrates one weekday's movement.
func (h *Handler) AnalyzeDay(c *gin.Context) {
	var req dayAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	day := strings.ToUpper(strings.TrimSpace(req.Day))
	points, err := h.patternSvc.DayPoints(c.Request.Context(), day)
	if err != nil {
		abortWithError(c, domainError(err, "analysis_failed"))
		return
	}
	c.JSON(http.StatusOK, h.narrativeSvc.AnalyzeDay(c.Request.Context(), day, points))
}

// ClusterIntel describes the place behind a ranked cluster.
func (h *Handler) ClusterIntel(c *gin.Context) {
	var req clusterIntelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	cluster, err := h.patternSvc.Cluster(c.Request.Context(), req.Day, req.ClusterID)
	if err != nil {
		abortWithError(c, domainError(err, "analysis_failed"))
		return
	}
	intel := h.narrativeSvc.ClusterIntel(c.Request.Context(), cluster)
	c.JSON(http.StatusOK, gin.H{"clusterId": cluster.ID, "key": cluster.Key, "intel": intel})
}

// AOIIntel hypothesizes what happened at an area of interest.
func (h *Handler) AOIIntel(c *gin.Context) {
	var req aoiIntelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	aoi, err := h.patternSvc.AOI(c.Request.Context(), req.Day, req.AOIID)
	if err != nil {
		abortWithError(c, domainError(err, "analysis_failed"))
		return
	}
	intel := h.narrativeSvc.AOIIntel(c.Request.Context(), aoi)
	c.JSON(http.StatusOK, gin.H{"aoiId": aoi.ID, "key": aoi.Key, "intel": intel})
}

// LocationIntel surveys an arbitrary coordinate.
func (h *Handler) LocationIntel(c *gin.Context) {
	var req locationIntelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	lat, lng := *req.Lat, *req.Lng
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "lat must be within ±90 and lng within ±180", nil))
		return
	}
	intel := h.narrativeSvc.LocationIntel(c.Request.Context(), lat, lng)
	c.JSON(http.StatusOK, gin.H{"lat": lat, "lng": lng, "intel": intel})
}

// domainError maps application error codes onto HTTP statuses.
func domainError(err error, fallbackCode string) *HTTPError {
	switch {
	case apperrors.IsCode(err, apperrors.CodeInvalidInput):
		return NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, errMessage(err), err)
	case apperrors.IsCode(err, apperrors.CodeNotFound):
		return NewHTTPError(http.StatusNotFound, apperrors.CodeNotFound, errMessage(err), err)
	case apperrors.IsCode(err, apperrors.CodeDataset):
		return NewHTTPError(http.StatusBadGateway, apperrors.CodeDataset, errMessage(err), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, fallbackCode, errMessage(err), err)
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
