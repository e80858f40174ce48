package models

import "time"

// Notification is the durable projection of a dispatched alert.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConsumableOverview summarizes a user's consumable state for the daily scan.
// NextDueDate is the nearest upcoming replacement date as YYYYMMDD, or empty
// when no upcoming date exists.
type ConsumableOverview struct {
	UserID      string `json:"userId"`
	NextDueDate string `json:"nextDueDate,omitempty"`
}
