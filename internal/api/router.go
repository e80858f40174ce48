package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func NewRouter(h *Handler, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	alerts := r.Group("/alerts")
	{
		alerts.GET("/subscribe/:user_id", h.Subscribe)
		alerts.GET("/ws/:user_id", h.SubscribeWS)
		alerts.DELETE("/subscribe/:user_id", h.Unsubscribe)
		alerts.POST("/test/:user_id", h.SendTestAlert)
	}

	notifications := r.Group("/api/notifications")
	{
		notifications.POST("", h.CreateNotification)
		notifications.GET("/user/:user_id", h.GetNotificationsByUserID)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
