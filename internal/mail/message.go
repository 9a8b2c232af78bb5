// Package mail builds outreach messages and sends them through the Gmail API.
package mail

import (
	"fmt"
	"mime"
	"strings"
)

// Message is one outgoing plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Encode renders the message in RFC 2822 form with CRLF line endings.
// Non-ASCII subjects are Q-encoded; the body is sent as UTF-8 text/plain.
func (m Message) Encode() []byte {
	var sb strings.Builder

	writeHeader := func(name, value string) {
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteString("\r\n")
	}

	writeHeader("From", m.From)
	writeHeader("To", m.To)
	writeHeader("Subject", mime.QEncoding.Encode("UTF-8", m.Subject))
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", `text/plain; charset="UTF-8"`)
	sb.WriteString("\r\n")
	sb.WriteString(normalizeLineEndings(m.Body))

	return []byte(sb.String())
}

// Validate checks the message has the fields Gmail requires.
func (m Message) Validate() error {
	if m.To == "" {
		return fmt.Errorf("recipient address is required")
	}
	if m.Subject == "" && m.Body == "" {
		return fmt.Errorf("message needs a subject or a body")
	}
	return nil
}

// normalizeLineEndings converts bare LF to CRLF without doubling existing CRLF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}
