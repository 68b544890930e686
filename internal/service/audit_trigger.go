package service

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/lending-service/internal/events"
)

// AuditTrigger logs every loan and payment mutation that can be tied to
// a user. The audit subsystem proper is an external collaborator; here
// the trail is a structured log line.
type AuditTrigger struct {
	logger       *zap.Logger
	registerOnce sync.Once
}

// NewAuditTrigger constructs the trigger.
func NewAuditTrigger(logger *zap.Logger) *AuditTrigger {
	return &AuditTrigger{logger: logger}
}

// Register subscribes the trigger to loan and payment changes.
func (a *AuditTrigger) Register(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	a.registerOnce.Do(func() {
		dispatcher.Subscribe(events.EventLoanChanged, a.handle)
		dispatcher.Subscribe(events.EventPaymentChanged, a.handle)
	})
}

func (a *AuditTrigger) handle(_ context.Context, event events.Event) error {
	userID, ok := event.Args.UserID()
	if !ok {
		return nil
	}

	payload, err := json.Marshal(event.Args.Data)
	if err != nil {
		payload = []byte("{}")
	}
	a.logger.Info("audit",
		zap.String("user_id", userID),
		zap.String("action", string(event.Action)+" "+string(event.Entity)),
		zap.ByteString("data", payload))
	return nil
}
