package handlers

import (
	"net/http"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"

	"github.com/gin-gonic/gin"
)

const errGetToday = "failed to load today's events"

// @Summary      Today's events
// @Description  Stored transitions of the current day, oldest first.
// @Tags         events
// @Produce      json
// @Param        subject  path      string  true  "Subject id"
// @Success      200      {array}   models.ActivityEvent
// @Failure      500      {object}  map[string]string
// @Router       /events/today/{subject} [get]
func (h *Handler) getToday(c *gin.Context) {
	subject := c.Param("subject")
	events, err := h.services.EventLog.Today(c.Request.Context(), subject)
	if err != nil {
		h.logAndJSONError(c, errorStatus(err), errGetToday, "get_today_failed", err, "subject", subject)
		return
	}
	if events == nil {
		events = []models.ActivityEvent{}
	}
	c.JSON(http.StatusOK, events)
}
