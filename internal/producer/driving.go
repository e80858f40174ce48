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

// lowScoreThreshold is the driving score at or below which a warning fires.
const lowScoreThreshold = 50.0

// DrivingWatcher consumes driving-pattern inserts and alerts on low scores.
type DrivingWatcher struct {
	source     feed.Source
	dispatcher Dispatcher
	logger     *logrus.Logger
}

// NewDrivingWatcher constructs a DrivingWatcher.
func NewDrivingWatcher(source feed.Source, dispatcher Dispatcher, logger *logrus.Logger) *DrivingWatcher {
	return &DrivingWatcher{source: source, dispatcher: dispatcher, logger: logger}
}

// Run consumes the feed until it fails or ctx is cancelled.
func (w *DrivingWatcher) Run(ctx context.Context) error {
	w.logger.Infof("Driving pattern change feed watcher started")
	for {
		ev, err := w.source.Next(ctx)
		if err != nil {
			return err
		}
		w.handle(ctx, ev)
	}
}

func (w *DrivingWatcher) handle(ctx context.Context, ev *feed.ChangeEvent) {
	if ev.OperationType != "insert" {
		return
	}
	if ev.FullDocument == nil {
		return
	}

	score, ok := ev.Float("drivingScore")
	if !ok || score > lowScoreThreshold {
		return
	}

	a := models.Alert{
		ID:     uuid.NewString(),
		UserID: ev.String("userId"),
		Type:   models.TypeDrivingScoreLow,
		Title:  "안전 알림: 운전 점수 경고",
		Message: fmt.Sprintf("최근 운전 점수가 %.1f점으로 낮게 나왔습니다. 부드러운 운전으로 점수를 올려볼까요?",
			score),
		CreatedAt: time.Now(),
	}
	w.dispatcher.Push(ctx, a)
}
