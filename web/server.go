// Package web exposes the transcription service over HTTP.
package web

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cutai-stt/internal/service"
	"cutai-stt/web/handlers"
)

// Server is the HTTP front of the transcription service.
type Server struct {
	engine *gin.Engine
	addr   string
}

// NewServer builds the router around the lifecycle controller.
func NewServer(addr string, svc *service.STT, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(log), cors.Default())

	stt := handlers.NewSTT(svc, log)
	api := engine.Group("/api")
	{
		api.POST("/upload", stt.Upload)
		api.POST("/stt", stt.Submit)
		api.GET("/stt-progress/:task_id", stt.Progress)
		api.POST("/stt-edit", stt.Edit)
		api.GET("/stt-records", stt.List)
		api.DELETE("/stt-record/:task_id", stt.Delete)
	}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{engine: engine, addr: addr}
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	return s.engine.Run(s.addr)
}
