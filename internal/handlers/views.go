package handlers

import (
	"net/http"
	"time"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/dashboard"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const eventView = "view"

// ViewSource publishes dashboard views.
type ViewSource interface {
	View() dashboard.View
	Watch() (<-chan dashboard.View, func())
}

// DashboardHandler serves the dashboard: the HTML page, the view as JSON, a view stream and metrics.
type DashboardHandler struct {
	views    ViewSource
	gatherer prometheus.Gatherer
	log      *logger.Logger
}

// NewDashboardHandler builds the handler. A nil gatherer disables /metrics.
func NewDashboardHandler(views ViewSource, gatherer prometheus.Gatherer, log *logger.Logger) *DashboardHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardHandler{views: views, gatherer: gatherer, log: log}
}

// InitRoutes builds the Gin router of the dashboard server.
func (h *DashboardHandler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(pageTemplate)

	router.GET("/", h.page)
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": statusOK}) })
	router.GET("/api/view", h.getView)
	router.GET("/ws", h.wsViews)
	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}
	return router
}

func (h *DashboardHandler) page(c *gin.Context) {
	c.HTML(http.StatusOK, pageName, h.views.View())
}

func (h *DashboardHandler) getView(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.View())
}

// wsViews pushes every published view to the browser until either side goes away.
func (h *DashboardHandler) wsViews(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	views, cancel := h.views.Watch()
	defer cancel()

	prepareRead(conn)
	done := make(chan struct{})
	go startReader(conn, done, h.log)

	pinger := time.NewTicker(pingPeriod)
	defer pinger.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case v, ok := <-views:
			if !ok {
				writeClose(conn)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(wsEnvelope{Type: eventView, Data: v}); err != nil {
				h.log.Infow("ws_write_failed", "err", err)
				return
			}
		case <-pinger.C:
			if !ping(conn, h.log) {
				return
			}
		}
	}
}
