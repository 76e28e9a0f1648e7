package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const errGetSummary = "failed to build summary"

// @Summary      Today's summary
// @Description  Minutes per activity over today's events and the productivity score against a 12h day.
// @Tags         summary
// @Produce      json
// @Param        subject  path      string  true  "Subject id"
// @Success      200      {object}  models.Summary
// @Failure      500      {object}  map[string]string
// @Router       /summary/today/{subject} [get]
func (h *Handler) getSummary(c *gin.Context) {
	subject := c.Param("subject")
	s, err := h.services.Summaries.Summary(c.Request.Context(), subject)
	if err != nil {
		h.logAndJSONError(c, errorStatus(err), errGetSummary, "get_summary_failed", err, "subject", subject)
		return
	}
	c.JSON(http.StatusOK, s)
}
