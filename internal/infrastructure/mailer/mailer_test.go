package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func recovery() Message {
	return Message{
		ID:      "b6f1",
		From:    "noreply@gestorinventario.com",
		To:      "ana@x.com",
		Subject: "Recuperación de contraseña - Gestor de Inventario",
		Body:    "Hola Ana,\n\nlink\n",
	}
}

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *Message)
		ok     bool
	}{
		{name: "valid", mutate: func(*Message) {}, ok: true},
		{name: "no recipient", mutate: func(m *Message) { m.To = " " }},
		{name: "no sender", mutate: func(m *Message) { m.From = "" }},
		{name: "header injection", mutate: func(m *Message) { m.Subject = "x\r\nBcc: evil@x.com" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := recovery()
			tt.mutate(&m)
			err := m.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidMessage)
		})
	}
}

func TestMessage_Bytes(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	raw := string(recovery().Bytes(now))

	head, body, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found)
	assert.Contains(t, head, "To: ana@x.com\r\n")
	assert.Contains(t, head, "Subject: =?utf-8?q?Recuperaci=C3=B3n")
	assert.Contains(t, head, "Message-ID: <b6f1@gestorinventario.com>")
	assert.Contains(t, head, "Content-Type: text/plain; charset=UTF-8")
	assert.Equal(t, "Hola Ana,\r\n\r\nlink\r\n", body)
}

func TestSMTPSender_Send(t *testing.T) {
	var (
		gotAddr string
		gotTo   []string
		gotAuth smtp.Auth
	)
	s := NewSMTPSender(SMTPConfig{Host: "mailpit", Port: 1025}, zap.NewNop())
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotAuth = addr, to, a
		return nil
	}

	require.NoError(t, s.Send(context.Background(), recovery()))
	assert.Equal(t, "mailpit:1025", gotAddr)
	assert.Equal(t, []string{"ana@x.com"}, gotTo)
	assert.Nil(t, gotAuth)
}

func TestSMTPSender_Errors(t *testing.T) {
	boom := errors.New("connection refused")
	s := NewSMTPSender(SMTPConfig{Host: "mailpit", Port: 1025, User: "u", Password: "p"}, zap.NewNop())
	calls := 0
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		calls++
		return boom
	}

	require.ErrorIs(t, s.Send(context.Background(), recovery()), boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Send(ctx, recovery()), context.Canceled)

	bad := recovery()
	bad.To = ""
	require.ErrorIs(t, s.Send(context.Background(), bad), ErrInvalidMessage)

	assert.Equal(t, 1, calls)
}

func TestLogSender_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewLogSender(zap.New(core))

	require.NoError(t, l.Send(context.Background(), recovery()))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "ana@x.com", entry.ContextMap()["to"])
}
