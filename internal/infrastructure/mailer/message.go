package mailer

import (
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"
)

// RoutingKey routes queued messages from the publisher to the relay.
const RoutingKey = "mail.send"

var ErrInvalidMessage = errors.New("invalid mail message")

type Message struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (m Message) Validate() error {
	if strings.TrimSpace(m.From) == "" || strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("%w: from and to are required", ErrInvalidMessage)
	}
	if strings.ContainsAny(m.From+m.To+m.Subject, "\r\n") {
		return fmt.Errorf("%w: header injection", ErrInvalidMessage)
	}

	return nil
}

// Bytes renders m as a UTF-8 plain text RFC 5322 message.
func (m Message) Bytes(now time.Time) []byte {
	var b strings.Builder
	b.WriteString("From: " + m.From + "\r\n")
	b.WriteString("To: " + m.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", m.Subject) + "\r\n")
	b.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	if m.ID != "" {
		b.WriteString("Message-ID: <" + m.ID + "@" + domainOf(m.From) + ">\r\n")
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(m.Body, "\r\n", "\n"), "\n", "\r\n"))

	return []byte(b.String())
}

func domainOf(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 && i < len(addr)-1 {
		return strings.Trim(addr[i+1:], "> ")
	}
	return "localhost"
}
