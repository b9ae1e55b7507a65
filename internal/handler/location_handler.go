package handler

import (
	"errors"
	"net/http"
	"strconv"

	"oddmap/internal/domain"
	"oddmap/internal/repository"
	"oddmap/internal/service"
	"oddmap/pkg/location"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// maxSubmissionBody leaves room for the text fields and multipart framing
// around a maximum-size image.
const maxSubmissionBody = domain.MaxImageBytes + 1<<20

type LocationHandler struct {
	svc  *service.LocationService
	repo *repository.LocationRepository
	log  *zap.Logger
}

func NewLocationHandler(svc *service.LocationService, repo *repository.LocationRepository, log *zap.Logger) *LocationHandler {
	return &LocationHandler{svc: svc, repo: repo, log: log}
}

// List returns visible locations, newest first. lat/lng/radius_km optionally
// narrow the result to a radius.
func (h *LocationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	latRaw, lngRaw := c.Query("lat"), c.Query("lng")
	if latRaw == "" && lngRaw == "" {
		list, err := h.repo.ListVisible(ctx, domain.LocationListLimit)
		if err != nil {
			respondError(c, h.log, &domain.StorageError{Op: "list locations", Err: err}, "Failed to fetch locations")
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	lat, err := parseCoordinate("lat", latRaw)
	if err == nil && !location.ValidLatitude(lat) {
		err = domain.Invalid("lat", "lat must be between -90 and 90")
	}
	if err != nil {
		respondError(c, h.log, err, "Failed to fetch locations")
		return
	}
	lng, err := parseCoordinate("lng", lngRaw)
	if err != nil {
		respondError(c, h.log, err, "Failed to fetch locations")
		return
	}
	radius := domain.DefaultNearRadiusKm
	if v := c.Query("radius_km"); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil || !location.Finite(radius) || radius <= 0 || radius > domain.MaxNearRadiusKm {
			respondError(c, h.log, domain.Invalid("radius_km", "radius_km must be between 0 and 500"), "Failed to fetch locations")
			return
		}
	}
	list, err := h.repo.ListVisibleNear(ctx, lat, location.NormalizeLongitude(lng), radius, domain.LocationListLimit)
	if err != nil {
		respondError(c, h.log, &domain.StorageError{Op: "list nearby locations", Err: err}, "Failed to fetch locations")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create accepts a multipart submission, stores the image and the row, and
// echoes the created record.
func (h *LocationHandler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionBody)
	var req CreateLocationRequest
	if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, h.log, domain.Invalid("image", msgImageTooLarge), "")
			return
		}
		respondError(c, h.log, domain.Invalid("image", msgImageRequired), "")
		return
	}
	sub, err := req.Validate()
	if err != nil {
		respondError(c, h.log, err, "")
		return
	}
	if err := readImage(req.Image, &sub); err != nil {
		respondError(c, h.log, err, "")
		return
	}
	loc, err := h.svc.Submit(c.Request.Context(), sub)
	if err != nil {
		respondError(c, h.log, err, "Failed to create location")
		return
	}
	c.JSON(http.StatusCreated, loc)
}

// Report bumps the report counter. Unknown ids are not an error.
func (h *LocationHandler) Report(c *gin.Context) {
	id := c.Param("id")
	n, err := h.repo.IncrementReportCount(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, &domain.StorageError{Op: "report location", Err: err}, "Failed to report location")
		return
	}
	if n == 0 {
		h.log.Debug("report for unknown location", zap.String("location_id", id))
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
