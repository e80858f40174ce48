package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"vehicle-alert-service/internal/models"
)

// CreateNotification inserts a new notification record with a generated id
// and timestamp and returns the stored record.
func (d *DB) CreateNotification(ctx context.Context, userID, title, message string) (models.Notification, error) {
	n := models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}

	query := `
        INSERT INTO notifications (id, user_id, title, message, created_at)
        VALUES ($1, $2, $3, $4, $5)`
	_, err := d.Pool.Exec(ctx, query, n.ID, n.UserID, n.Title, n.Message, n.CreatedAt)
	if err != nil {
		return models.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

// GetNotificationsByUserID fetches a user's notifications, newest first.
func (d *DB) GetNotificationsByUserID(ctx context.Context, userID string) ([]models.Notification, error) {
	query := `
        SELECT id, user_id, title, message, created_at
        FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC`
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications for user_id %s: %w", userID, err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}
