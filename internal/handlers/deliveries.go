package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fermentation_logger/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errListFailed  = "failed to load deliveries"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List deliveries
// @Description  Send attempts filtered by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') and outcome. A date-only 'to' is inclusive of that whole day.
// @Tags         delivery
// @Produce      json
// @Param        from     query   string  false  "Start of range"  example(2025-08-01)
// @Param        to       query   string  false  "End of range; date-only treated as end of day"  example(2025-08-31)
// @Param        outcome  query   string  false  "Outcome"  Enums(delivered,redirect,unexpected_status,transport_error,render_error)
// @Success      200   {object}  map[string]interface{}  "count, deliveries"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/deliveries [get]
// @Security     BearerAuth
func (h *Handler) getDeliveries(c *gin.Context) {
	var (
		from time.Time
		to   time.Time
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}

	filter := service.DeliveryFilter{From: from, To: to, Outcome: c.Query("outcome")}
	records, err := h.services.DeliveryLog.List(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimeRange) || errors.Is(err, service.ErrInvalidOutcome) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListFailed, "deliveries_list_failed", err,
			"from", from, "to", to, "outcome", filter.Outcome)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":      len(records),
		"deliveries": records,
	})
}

// @Summary      Send now
// @Description  One immediate attempt with the active configuration. Does not move the periodic schedule. Refused with 409 while logging is disabled or a send is running.
// @Tags         delivery
// @Produce      json
// @Success      200  {object}  models.DeliveryRecord
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}  "error, delivery"
// @Router       /api/v1/send [post]
// @Security     BearerAuth
func (h *Handler) sendNow(c *gin.Context) {
	rec, err := h.services.Scheduler.SendNow(c.Request.Context())
	switch {
	case errors.Is(err, service.ErrSendInFlight), errors.Is(err, service.ErrLoggingDisabled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "delivery": rec})
	default:
		c.JSON(http.StatusOK, rec)
	}
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
