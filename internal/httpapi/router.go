// Package httpapi is the HTTP bridge to toastd. Host messages are accepted
// as JSON; frames, health and Prometheus metrics are served for tooling.
package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jmylchreest/toastd/internal/daemon"
	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/host"
	"github.com/jmylchreest/toastd/internal/metrics"
	"github.com/jmylchreest/toastd/internal/model"
)

// transport labels messages received over HTTP.
const transport = "http"

// Handler receives host messages. *daemon.Dispatcher implements it.
type Handler interface {
	Handle(ctx context.Context, msg host.Message) (daemon.Result, error)
	Frame() display.Frame
}

// Router holds the gin engine serving the API.
type Router struct {
	Engine *gin.Engine

	handler Handler
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewRouter builds the API. m may be nil, in which case /metrics is not served.
func NewRouter(handler Handler, m *metrics.Metrics, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	rt := &Router{Engine: r, handler: handler, metrics: m, logger: logger}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})))
	}

	r.POST("/message", rt.message)
	r.GET("/frame", rt.frame)
	r.GET("/notifications", rt.listNotifications)
	r.POST("/notifications", rt.createNotification)
	r.DELETE("/notifications/:id", rt.deleteNotification)

	page := r.Group("/page")
	{
		page.POST("/show", rt.showPage)
		page.POST("/close", rt.closePage)
		page.POST("/key", rt.keyPress)
	}

	return rt
}

func (rt *Router) dispatch(c *gin.Context, msg host.Message) (daemon.Result, bool) {
	if rt.metrics != nil {
		rt.metrics.RecordMessage(transport, string(msg.Type))
	}

	res, err := rt.handler.Handle(c.Request.Context(), msg)
	switch {
	case err == nil:
		return res, true
	case errors.Is(err, daemon.ErrUnknownMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, display.ErrStackClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		rt.logger.Error("failed to handle message", "type", msg.Type, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
	return res, false
}

// message accepts a full host envelope.
func (rt *Router) message(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := host.ParseMessage(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, ok := rt.dispatch(c, msg)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

func (rt *Router) frame(c *gin.Context) {
	c.JSON(http.StatusOK, rt.handler.Frame())
}

func (rt *Router) listNotifications(c *gin.Context) {
	f := rt.handler.Frame()
	items := make([]model.Notification, len(f.Items))
	for i, it := range f.Items {
		items[i] = it.Notification
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

// createNotification admits a payload. An empty body admits a notification
// with every field defaulted.
func (rt *Router) createNotification(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := model.ParsePayload(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, ok := rt.dispatch(c, host.ShowNotification(p))
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"notification": res.Notification})
}

func (rt *Router) deleteNotification(c *gin.Context) {
	res, ok := rt.dispatch(c, host.Dismiss(c.Param("id")))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": res.Handled})
}

func (rt *Router) showPage(c *gin.Context) {
	if _, ok := rt.dispatch(c, host.ShowPage()); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"visible": true})
}

func (rt *Router) closePage(c *gin.Context) {
	if _, ok := rt.dispatch(c, host.ClosePage()); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"visible": false})
}

type keyRequest struct {
	Key string `json:"key" binding:"required"`
}

func (rt *Router) keyPress(c *gin.Context) {
	var req keyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, ok := rt.dispatch(c, host.KeyDown(req.Key))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"handled": res.Handled})
}

// requestLogger logs every request through slog.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
