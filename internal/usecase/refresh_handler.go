package usecase

import (
	"context"
	"encoding/json"
	"time"

	"ShowPulse/pkg/logger"
	"ShowPulse/pkg/util"
)

// RefreshHandler consumes refresh requests from Kafka and triggers a rebuild.
// Any payload on the topic is a trigger; a reason field is logged when
// present. Joining semantics in the Rebuilder collapse message bursts into a
// single pass.
type RefreshHandler struct {
	topic     string
	rebuilder *Rebuilder
	log       *logger.Logger
}

func NewRefreshHandler(topic string, rebuilder *Rebuilder, log *logger.Logger) *RefreshHandler {
	return &RefreshHandler{topic: topic, rebuilder: rebuilder, log: log}
}

func (h *RefreshHandler) Topic() string { return h.topic }

type refreshMessage struct {
	Reason      string `json:"reason"`
	Source      string `json:"source"`
	RequestedAt string `json:"requested_at"` // RFC3339 or unix seconds
}

func (h *RefreshHandler) Handle(ctx context.Context, data []byte) error {
	var msg refreshMessage
	_ = json.Unmarshal(data, &msg)

	if h.log != nil {
		fields := []logger.Field{
			logger.String("reason", msg.Reason),
			logger.String("source", msg.Source),
		}
		if reqAt, ok := util.ParseTime(msg.RequestedAt); ok {
			fields = append(fields, logger.Duration("queue_delay", time.Since(reqAt)))
		}
		h.log.Info("refresh requested", fields...)
	}

	_, err := h.rebuilder.Rebuild(ctx)
	return err
}
