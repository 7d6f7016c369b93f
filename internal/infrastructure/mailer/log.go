package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{log: logger}
}

func (l *LogSender) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	l.log.Info("mail (log transport)",
		zap.String("message_id", msg.ID),
		zap.String("from", msg.From),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)

	return nil
}
