package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"vehicle-alert-service/internal/models"
	"vehicle-alert-service/internal/stream"
)

// NotificationStore is the persistence surface the handlers need.
type NotificationStore interface {
	CreateNotification(ctx context.Context, userID, title, message string) (models.Notification, error)
	GetNotificationsByUserID(ctx context.Context, userID string) ([]models.Notification, error)
}

// AlertDispatcher pushes a fully populated alert through the fan-out pipeline.
type AlertDispatcher interface {
	Push(ctx context.Context, a models.Alert)
}

type Handler struct {
	registry   *stream.Registry
	dispatcher AlertDispatcher
	store      NotificationStore
	logger     *logrus.Logger
}

func NewHandler(registry *stream.Registry, dispatcher AlertDispatcher, store NotificationStore, logger *logrus.Logger) *Handler {
	return &Handler{registry: registry, dispatcher: dispatcher, store: store, logger: logger}
}

// SendTestAlert synthesizes a fixed test alert and dispatches it.
func (h *Handler) SendTestAlert(c *gin.Context) {
	userID := c.Param("user_id")

	a := models.Alert{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      models.TypeTestAlert,
		Title:     "테스트 알림",
		Message:   "테스트 알림입니다.",
		CreatedAt: time.Now(),
	}
	h.dispatcher.Push(c.Request.Context(), a)

	h.logger.Infof("Test alert sent: user_id=%s alert_id=%s", userID, a.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Test alert sent to userId=" + userID})
}

// Unsubscribe terminates all of a user's live connections.
func (h *Handler) Unsubscribe(c *gin.Context) {
	userID := c.Param("user_id")
	h.registry.Unsubscribe(userID)
	c.JSON(http.StatusOK, gin.H{"message": "All connections removed for userId=" + userID})
}

// CreateNotification stores a notification record directly.
func (h *Handler) CreateNotification(c *gin.Context) {
	var req struct {
		UserID  string `json:"userId" binding:"required"`
		Title   string `json:"title" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid request body for notification: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	n, err := h.store.CreateNotification(c.Request.Context(), req.UserID, req.Title, req.Message)
	if err != nil {
		h.logger.Errorf("Failed to create notification: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	h.logger.Infof("Created notification: %s", n.ID)
	c.JSON(http.StatusCreated, n)
}

// GetNotificationsByUserID lists a user's notifications, newest first.
func (h *Handler) GetNotificationsByUserID(c *gin.Context) {
	userID := c.Param("user_id")

	notifications, err := h.store.GetNotificationsByUserID(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorf("Failed to get notifications for user_id %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notifications"})
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	h.logger.Infof("Retrieved %d notifications for user_id %s", len(notifications), userID)
	c.JSON(http.StatusOK, notifications)
}
