package http

import (
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig wires the ops endpoints. Nil fields disable their routes.
type RouterConfig struct {
	WS       *WSHandler
	Gatherer prometheus.Gatherer
	Sessions func() int
}

// NewRouter serves /healthz, /metrics, /debug/pprof and /ws.
func NewRouter(c RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	e := gin.New()
	e.Use(gin.Recovery())

	e.GET("/healthz", func(ctx *gin.Context) {
		body := gin.H{"status": "ok"}
		if c.Sessions != nil {
			body["active_sessions"] = c.Sessions()
		}
		ctx.JSON(http.StatusOK, body)
	})

	if c.Gatherer != nil {
		e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Gatherer, promhttp.HandlerOpts{})))
	}
	pprof.Register(e, "/debug/pprof")

	if c.WS != nil {
		e.GET("/ws", gin.WrapF(c.WS.ServeWS))
	}
	return e
}
