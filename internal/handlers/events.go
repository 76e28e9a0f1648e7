package handlers

import (
	"errors"
	"net/http"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errGetLive         = "failed to load live status"
	errRecordEvent     = "failed to record event"
	errInvalidBodyPref = "invalid body: "
)

// logAndJSONError logs err under logKey and writes {"error": userMsg}.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// errorStatus maps service errors caused by the request to 400 and everything else to 500.
func errorStatus(err error) int {
	if errors.Is(err, service.ErrUnknownField) || errors.Is(err, service.ErrNoSubject) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// EventRequest is the ingest payload of POST /events/{subject}.
type EventRequest struct {
	// Activity type. Allowed: sleep, phone, away
	EventType string `json:"event_type" binding:"required,oneof=sleep phone away" example:"phone"`
	// Whether the activity is currently observed
	Active *bool `json:"active" binding:"required" example:"true"`
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

// @Summary      Live status
// @Description  Current sleep/phone/away state, replayed from today's events.
// @Tags         events
// @Produce      json
// @Param        subject  path      string  true  "Subject id"
// @Success      200      {object}  models.LiveStatus
// @Failure      500      {object}  map[string]string
// @Router       /events/live/{subject} [get]
func (h *Handler) getLive(c *gin.Context) {
	subject := c.Param("subject")
	st, err := h.services.Status.Live(c.Request.Context(), subject)
	if err != nil {
		h.logAndJSONError(c, errorStatus(err), errGetLive, "get_live_failed", err, "subject", subject)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Record observation
// @Description  Edge-triggered: stores start/end only when the state of the activity changes.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        subject  path      string        true  "Subject id"
// @Param        payload  body      EventRequest  true  "Observation"
// @Success      200      {object}  map[string]interface{}  "recorded"
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /events/{subject} [post]
func (h *Handler) postEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	subject := c.Param("subject")
	recorded, err := h.services.Recorder.HandleEvent(c.Request.Context(), subject, models.Field(req.EventType), *req.Active)
	if err != nil {
		if code := errorStatus(err); code == http.StatusBadRequest {
			c.JSON(code, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errRecordEvent, "record_event_failed", err, "subject", subject)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recorded": recorded})
}
