package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// SMTPTransport submits over implicit TLS or STARTTLS, authenticating with
// PLAIN.
type SMTPTransport struct {
	Host        string
	Port        int
	ImplicitTLS bool // TLS from the first byte (SMTPS); otherwise STARTTLS
	Creds       Credentials
	TLSConfig   *tls.Config
}

func NewSMTPTransport(host string, port int, creds Credentials) *SMTPTransport {
	return &SMTPTransport{
		Host:        host,
		Port:        port,
		ImplicitTLS: port == 465,
		Creds:       creds,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: host,
		},
	}
}

func (t *SMTPTransport) Name() string { return "smtp" }

func (t *SMTPTransport) Deliver(ctx context.Context, from string, to []string, msg []byte) error {
	if t.Host == "" {
		return errors.New("smtp host is required")
	}
	if len(to) == 0 {
		return errors.New("smtp: no recipients")
	}
	addr := net.JoinHostPort(t.Host, strconv.Itoa(t.Port))

	var (
		c   *smtp.Client
		err error
	)
	if t.ImplicitTLS {
		c, err = smtp.DialTLS(addr, t.TLSConfig)
	} else {
		c, err = smtp.DialStartTLS(addr, t.TLSConfig)
	}
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	defer c.Close()

	// go-smtp has no context support; unblock it by closing the connection.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-done:
		}
	}()

	if err := c.Auth(sasl.NewPlainClient("", t.Creds.Username, t.Creds.Password)); err != nil {
		return fmt.Errorf("smtp auth user=%s: %w", t.Creds.Username, err)
	}
	if err := c.SendMail(from, to, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	// the message is accepted at this point; a failed QUIT must not resend it
	if err := c.Quit(); err != nil {
		log.Printf("[smtp] quit after delivery failed host=%s: %v", t.Host, err)
	}
	return nil
}
