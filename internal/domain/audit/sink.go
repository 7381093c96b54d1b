package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/zephyrtools/internal/domain/operation"
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/eventbus"
)

// Writer is the write half of Service.
type Writer interface {
	Log(ctx context.Context, rec *Record) error
}

// Sink persists dispatcher completion events.
type Sink struct {
	writer Writer
	logger *zap.Logger
}

func NewSink(w Writer, logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{writer: w, logger: logger}
}

// Run writes every event from events until the channel is closed. Write
// errors are logged and never stop the loop. Cancelling ctx does not stop
// Run; close the bus instead so buffered events are still written.
func (s *Sink) Run(ctx context.Context, events <-chan eventbus.Event) {
	writeCtx := context.WithoutCancel(ctx)
	for evt := range events {
		completed, ok := evt.Payload.(operation.CompletedEvent)
		if !ok {
			s.logger.Warn("unexpected audit payload", zap.String("topic", evt.Topic))
			continue
		}
		if err := s.writer.Log(writeCtx, FromEvent(completed)); err != nil {
			s.logger.Error("audit write failed",
				zap.String("operation", completed.Operation),
				zap.Error(err))
		}
	}
}
