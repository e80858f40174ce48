package producer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"vehicle-alert-service/internal/feed"
	"vehicle-alert-service/internal/models"
)

// consumableFields are the changed-date fields whose update means a
// consumable was replaced. A single update may touch several of them.
var consumableFields = []string{
	"engineOilChangedDate",
	"batteryChangedDate",
	"coolantChangedDate",
	"transmissionOilChangedDate",
	"brakeOilChangedDate",
	"airconFilterChangedDate",
}

// ConsumableWatcher consumes the consumables change feed and synthesizes a
// replacement alert for every changed-date field with a new non-null value.
type ConsumableWatcher struct {
	source     feed.Source
	dispatcher Dispatcher
	logger     *logrus.Logger
}

// NewConsumableWatcher constructs a ConsumableWatcher.
func NewConsumableWatcher(source feed.Source, dispatcher Dispatcher, logger *logrus.Logger) *ConsumableWatcher {
	return &ConsumableWatcher{source: source, dispatcher: dispatcher, logger: logger}
}

// Run consumes the feed until it fails or ctx is cancelled. A feed error is
// fatal to this watcher; process supervision restarts it.
func (w *ConsumableWatcher) Run(ctx context.Context) error {
	w.logger.Infof("Consumable change feed watcher started")
	for {
		ev, err := w.source.Next(ctx)
		if err != nil {
			return err
		}
		w.handle(ctx, ev)
	}
}

func (w *ConsumableWatcher) handle(ctx context.Context, ev *feed.ChangeEvent) {
	if ev.OperationType != "insert" && ev.OperationType != "update" {
		return
	}
	if ev.FullDocument == nil {
		return
	}
	if ev.UpdateDescription == nil || len(ev.UpdateDescription.UpdatedFields) == 0 {
		return
	}

	for _, field := range consumableFields {
		if _, changed := ev.UpdateDescription.UpdatedFields[field]; !changed {
			continue
		}
		newValue := ev.FullDocument[field]
		if newValue == nil {
			continue
		}
		dateStr := fmt.Sprintf("%v", newValue)

		a := models.Alert{
			ID:     uuid.NewString(),
			UserID: ev.String("userId"),
			Type:   models.TypeConsumableReplaced,
			Title:  "차량소모품",
			Message: fmt.Sprintf("[%s / %s]\n%s 교체 완료: %s",
				ev.String("carModel"), ev.String("carNumber"),
				koreanFieldName(field), models.FormatShortDate(dateStr)),
			CreatedAt: time.Now(),
		}
		w.dispatcher.Push(ctx, a)
	}
}

// koreanFieldName localizes a changed-date field for the alert message.
func koreanFieldName(field string) string {
	switch field {
	case "engineOilChangedDate":
		return "엔진 오일"
	case "batteryChangedDate":
		return "배터리"
	case "coolantChangedDate":
		return "부동액"
	case "transmissionOilChangedDate":
		return "변속기 오일"
	case "brakeOilChangedDate":
		return "브레이크 오일"
	case "airconFilterChangedDate":
		return "에어컨 필터"
	default:
		return field
	}
}
