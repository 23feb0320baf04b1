// Package smtp implements the NotificationService interface over a plain
// SMTP relay.
package smtp

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"net/textproto"

	"github.com/FebaRodrigues/final-fit-sub000/notifications"
)

// multipartBoundary separates the plain text and HTML alternatives.
const multipartBoundary = "----=_Part_0_123456789.123456789"

// noTrackingHeader disables provider click tracking, which rewrites links
// and breaks verification codes.
var noTrackingHeader = []byte(`{"filters":{"clicktrack":{"settings":{"enable":0,"enable_text":false}}}}`)

// Config holds the sender identity and the relay coordinates. TestAPIPort
// points at the HTTP API of a local capture server (MailHog) and is only
// used by tests.
type Config struct {
	FromName     string
	FromAddress  string
	SMTPUsername string
	SMTPPassword string
	SMTPServer   string
	SMTPPort     int
	TestAPIPort  int
}

// Email sends mail notifications through an SMTP relay using net/smtp.
type Email struct {
	config *Config
	auth   smtp.Auth
}

// New validates the configuration and prepares the SMTP auth. Auth is only
// set when both username and password are provided, so unauthenticated
// relays (local capture servers) keep working.
func (se *Email) New(rawConfig any) error {
	config, ok := rawConfig.(*Config)
	if !ok {
		return fmt.Errorf("invalid SMTP configuration")
	}
	if _, err := mail.ParseAddress(config.FromAddress); err != nil {
		return fmt.Errorf("could not parse from email: %v", err)
	}
	se.config = config
	if config.SMTPUsername != "" && config.SMTPPassword != "" {
		se.auth = smtp.PlainAuth("", config.SMTPUsername, config.SMTPPassword, config.SMTPServer)
	}
	return nil
}

// SendNotification composes a multipart message from the notification and
// delivers it. net/smtp has no context support, so the send runs in a
// goroutine and the call returns early when the context is cancelled.
func (se *Email) SendNotification(ctx context.Context, notification *notifications.Notification) error {
	message, err := se.composeMessage(notification)
	if err != nil {
		return fmt.Errorf("could not compose email: %v", err)
	}
	addr := fmt.Sprintf("%s:%d", se.config.SMTPServer, se.config.SMTPPort)
	errCh := make(chan error, 1)
	go func() {
		errCh <- smtp.SendMail(addr, se.auth, se.config.FromAddress, []string{notification.ToAddress}, message)
		close(errCh)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// composeMessage renders the notification as a multipart/alternative
// message with a plain text part followed by the HTML part.
func (se *Email) composeMessage(notification *notifications.Notification) ([]byte, error) {
	to, err := mail.ParseAddress(notification.ToAddress)
	if err != nil {
		return nil, fmt.Errorf("could not parse to email: %v", err)
	}
	var msg bytes.Buffer
	from := mail.Address{Name: se.config.FromName, Address: se.config.FromAddress}
	fmt.Fprintf(&msg, "From: %s\r\n", from.String())
	fmt.Fprintf(&msg, "To: %s\r\n", to.String())
	if notification.ReplyTo != "" {
		replyTo, err := mail.ParseAddress(notification.ReplyTo)
		if err != nil {
			return nil, fmt.Errorf("could not parse reply-to email: %v", err)
		}
		fmt.Fprintf(&msg, "Reply-To: %s\r\n", replyTo.String())
	}
	if notification.CCAddress != "" {
		cc, err := mail.ParseAddress(notification.CCAddress)
		if err != nil {
			return nil, fmt.Errorf("could not parse cc email: %v", err)
		}
		fmt.Fprintf(&msg, "Cc: %s\r\n", cc.String())
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", notification.Subject)
	if !notification.EnableTracking {
		fmt.Fprintf(&msg, "X-SMTPAPI: %s\r\n", noTrackingHeader)
	}
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n", multipartBoundary)
	msg.WriteString("\r\n")

	writer := multipart.NewWriter(&msg)
	if err := writer.SetBoundary(multipartBoundary); err != nil {
		return nil, fmt.Errorf("could not set boundary: %v", err)
	}
	textPart, _ := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {`text/plain; charset="UTF-8"`},
		"Content-Transfer-Encoding": {"7bit"},
	})
	if _, err := textPart.Write([]byte(notification.PlainBody)); err != nil {
		return nil, fmt.Errorf("could not write plain text part: %v", err)
	}
	htmlPart, _ := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {`text/html; charset="UTF-8"`},
		"Content-Transfer-Encoding": {"7bit"},
	})
	if _, err := htmlPart.Write([]byte(notification.Body)); err != nil {
		return nil, fmt.Errorf("could not write HTML part: %v", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("could not close multipart writer: %v", err)
	}
	return msg.Bytes(), nil
}
