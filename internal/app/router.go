package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/paylink-backend/internal/handlers"
)

func wireRouter(serviceName string, h Handlers, mw Middleware) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(serviceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(mw.Auth.RequireAuth())
	{
		// Payment requests
		api.POST("/requests", h.PaymentRequest.Create)
		api.GET("/requests", h.PaymentRequest.List)
		api.GET("/requests/:id", h.PaymentRequest.GetSnapshot)
		api.POST("/requests/:id/pay", h.PaymentRequest.Pay)
		api.POST("/requests/:id/confirm", h.PaymentRequest.Confirm)
		api.POST("/requests/:id/decline", h.PaymentRequest.Decline)
		// SSE
		api.GET("/sse/stream", h.SSE.Stream)
		api.POST("/sse/subscribe", h.SSE.Subscribe)
		api.POST("/sse/unsubscribe", h.SSE.Unsubscribe)
	}

	return router
}
