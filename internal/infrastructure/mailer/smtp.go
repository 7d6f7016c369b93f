package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// SMTPSender hands messages to an SMTP relay.
type SMTPSender struct {
	cfg      SMTPConfig
	log      *zap.Logger
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now      func() time.Time
}

func NewSMTPSender(cfg SMTPConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		cfg:      cfg,
		log:      logger,
		sendMail: smtp.SendMail,
		now:      time.Now,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	if err := s.sendMail(addr, auth, msg.From, []string{msg.To}, msg.Bytes(s.now())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", addr, err)
	}

	s.log.Info("mail sent", zap.String("message_id", msg.ID), zap.String("to", msg.To))

	return nil
}
