package models

import "time"

// Alert types produced by the watchers, the scheduler, and the manual trigger.
const (
	TypeTestAlert             = "TEST_ALERT"
	TypeConsumableReplaced    = "CONSUMABLE_REPLACED"
	TypeConsumableDueSoon     = "CONSUMABLE_DUE_SOON"
	TypeDrivingScoreLow       = "DRIVING_SCORE_LOW"
	TypeDrivingScoreWeeklyAvg = "DRIVING_SCORE_WEEKLY_AVG"
)

// Alert is an ephemeral, typed event destined for exactly one user. Producers
// fully populate it before handing it to the dispatcher; the dispatcher never
// mutates it.
type Alert struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryFromType maps an alert type to the display category stored as the
// notification title.
func CategoryFromType(alertType string) string {
	switch alertType {
	case TypeDrivingScoreLow, TypeDrivingScoreWeeklyAvg:
		return "안전"
	case TypeConsumableReplaced:
		return "차량 소모품"
	case TypeConsumableDueSoon:
		return "차량 점검"
	default:
		return "기타"
	}
}

// FormatShortDate rewrites an 8-digit YYYYMMDD string as "MM월 DD일".
// Anything that is not exactly 8 characters is returned unchanged.
func FormatShortDate(yyyymmdd string) string {
	if len(yyyymmdd) != 8 {
		return yyyymmdd
	}
	return yyyymmdd[4:6] + "월 " + yyyymmdd[6:8] + "일"
}
