package main

import (
	"time"

	"github.com/gin-gonic/gin"

	"b2b-market-scraper/pkg/logger"
)

func setupRouter(h *handler, l *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logRequest(l))

	router.GET("/health", h.health)
	router.POST("/extract", h.extract)
	router.POST("/crawl", h.crawl)
	router.POST("/crawl/upload", h.crawlUpload)
	router.POST("/clean", h.clean)
	return router
}

func logRequest(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Infof("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
