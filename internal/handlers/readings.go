package handlers

import (
	"errors"
	"net/http"

	"fermentation_logger/internal/models"
	"fermentation_logger/internal/payload"
	"fermentation_logger/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errGetSnapshot     = "failed to load snapshot"
	errGetReadings     = "failed to load readings"
	errSaveReadings    = "readings applied but not persisted"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Current snapshot
// @Description  Readings with validity flags, as the next send would render them.
// @Tags         readings
// @Produce      json
// @Success      200  {object}  models.Snapshot
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/snapshot [get]
// @Security     BearerAuth
func (h *Handler) getSnapshot(c *gin.Context) {
	snap, err := h.services.Monitoring.GetSnapshot(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetSnapshot, "snapshot_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Raw readings
// @Description  Stored readings; unavailable values hold their sentinel.
// @Tags         readings
// @Produce      json
// @Success      200  {object}  models.ReadingState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/readings [get]
// @Security     BearerAuth
func (h *Handler) getReadings(c *gin.Context) {
	st, err := h.services.Monitoring.GetReadings(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetReadings, "readings_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Update readings
// @Description  Partial update. Absent fields keep their value, null marks a reading unavailable.
// @Tags         readings
// @Accept       json
// @Produce      json
// @Param        body  body      models.ReadingUpdate  true  "Readings"
// @Success      200   {object}  models.ReadingState
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/readings [post]
// @Security     BearerAuth
func (h *Handler) postReadings(c *gin.Context) {
	var u models.ReadingUpdate
	if ok := h.bindJSONOrBadRequest(c, &u); !ok {
		return
	}

	st, err := h.services.Readings.Apply(c.Request.Context(), u)
	switch {
	case errors.Is(err, service.ErrEmptyUpdate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveReadings, "readings_apply_failed", err)
	default:
		c.JSON(http.StatusOK, st)
	}
}

// @Summary      Preview payload
// @Description  Renders the current snapshot with the active logging configuration without sending it.
// @Tags         delivery
// @Produce      json
// @Success      200  {object}  service.PreviewResult
// @Failure      401  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /api/v1/preview [get]
// @Security     BearerAuth
func (h *Handler) getPreview(c *gin.Context) {
	res, err := h.services.Monitoring.Preview(c.Request.Context())
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, payload.ErrInvalidFormat) || errors.Is(err, payload.ErrBufferOverflow) ||
			errors.Is(err, payload.ErrNonFinite) || errors.Is(err, service.ErrEmptyPayload) {
			code = http.StatusUnprocessableEntity
		}
		h.logAndJSONError(c, code, err.Error(), "preview_failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
