package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wolffia-coop/ferntrack/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(sessions *handlers.RecordSessionHandler, pipe *handlers.PipelineHandler, dash *handlers.DashboardHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")

	api.POST("/record-sessions", sessions.Create)
	api.GET("/record-sessions/:id", sessions.Get)
	api.PUT("/record-sessions/:id/enterprise", sessions.SelectEnterprise)
	api.PUT("/record-sessions/:id/cycle", sessions.SetCycle)
	api.PUT("/record-sessions/:id/day", sessions.SelectDay)
	api.POST("/record-sessions/:id/edit", sessions.ConfirmEdit)
	api.POST("/record-sessions/:id/decline", sessions.DeclineEdit)
	api.PUT("/record-sessions/:id/form", sessions.UpdateForm)
	api.POST("/record-sessions/:id/save", sessions.Save)
	api.POST("/record-sessions/:id/reset", sessions.Reset)
	api.GET("/form-options", sessions.FormOptions)
	api.GET("/ph-suggestion", sessions.SuggestPH)

	api.GET("/branches", pipe.ListBranches)
	api.POST("/branches", pipe.CreateBranch)
	api.GET("/products", pipe.ListProducts)
	api.POST("/products", pipe.CreateProduct)
	api.GET("/products/:id", pipe.GetProduct)
	api.PUT("/products/:id", pipe.UpdateProduct)
	api.GET("/products/:id/stages", pipe.ListStages)
	api.POST("/products/:id/stages", pipe.RecordStage)

	api.GET("/dashboard", dash.Overview)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
