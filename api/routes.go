package api

import (
	"net/http"
	"time"

	"pdf_shuffle/config"
	pdfPkg "pdf_shuffle/pdf"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Service bundles what the handlers need. It holds no per-request state.
type Service struct {
	Config    *config.Config
	Assembler *pdfPkg.Assembler
	Logger    *logrus.Logger
}

func SetupRoutes(r *gin.Engine, svc *Service) {
	apiGroup := r.Group("/api/pdf")
	{
		apiGroup.POST("/upload", func(c *gin.Context) { HandleUpload(c, svc) })
		apiGroup.GET("/info", func(c *gin.Context) { HandleInfo(c, svc) })
		apiGroup.POST("/parse-pages", func(c *gin.Context) { HandleParsePages(c, svc) })
		apiGroup.POST("/split-range", func(c *gin.Context) { HandleSplitRange(c, svc) })
		apiGroup.POST("/split-every", func(c *gin.Context) { HandleSplitEvery(c, svc) })
		apiGroup.POST("/split-singles", func(c *gin.Context) { HandleSplitSingles(c, svc) })
		apiGroup.POST("/extract", func(c *gin.Context) { HandleExtract(c, svc) })
		apiGroup.POST("/reorder", func(c *gin.Context) { HandleReorder(c, svc) })
		apiGroup.POST("/merge", func(c *gin.Context) { HandleMerge(c, svc) })
		apiGroup.POST("/remove-pages", func(c *gin.Context) { HandleRemovePages(c, svc) })
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "pdf_shuffle",
		})
	})
}

// RequestLogger logs every request through logrus.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Info("Request handled")
	}
}
