package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// IMAPTransport drops the message straight into a mailbox of the sender's own
// account with APPEND. It can only reach that account, so every recipient
// must be the login user.
type IMAPTransport struct {
	Host      string
	Port      int
	Mailbox   string
	Creds     Credentials
	TLSConfig *tls.Config
}

func NewIMAPTransport(host string, port int, mailbox string, creds Credentials) *IMAPTransport {
	if mailbox == "" {
		mailbox = "INBOX"
	}
	return &IMAPTransport{
		Host:    host,
		Port:    port,
		Mailbox: mailbox,
		Creds:   creds,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: host,
		},
	}
}

func (t *IMAPTransport) Name() string { return "imap" }

func (t *IMAPTransport) Deliver(ctx context.Context, from string, to []string, msg []byte) error {
	if err := t.checkRecipients(to); err != nil {
		return err
	}
	addr := net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
	c, err := DialAndLoginIMAP(ctx, addr, t.Creds.Username, t.Creds.Password, t.TLSConfig)
	if err != nil {
		return err
	}
	defer LogoutAndClose(c)

	cmd := c.Append(t.Mailbox, int64(len(msg)), &imap.AppendOptions{Time: time.Now()})
	if _, err := cmd.Write(msg); err != nil {
		_ = cmd.Close()
		return fmt.Errorf("imap append write: %w", err)
	}
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("imap append close: %w", err)
	}
	if _, err := cmd.Wait(); err != nil {
		return fmt.Errorf("imap append %s: %w", t.Mailbox, err)
	}
	log.Printf("[imap] appended mailbox=%q bytes=%d to=%v", t.Mailbox, len(msg), to)
	return nil
}

// ErrForeignRecipient is returned when IMAP delivery is asked to reach an
// address other than the account it logs into.
var ErrForeignRecipient = errors.New("imap transport can only deliver to the login account")

func (t *IMAPTransport) checkRecipients(to []string) error {
	if len(to) == 0 {
		return errors.New("imap: no recipients")
	}
	for _, rcpt := range to {
		if !strings.EqualFold(strings.TrimSpace(rcpt), strings.TrimSpace(t.Creds.Username)) {
			return fmt.Errorf("%w: login=%s recipient=%s", ErrForeignRecipient, t.Creds.Username, rcpt)
		}
	}
	return nil
}

// DialAndLoginIMAP connects over TLS and logs in.
func DialAndLoginIMAP(ctx context.Context, addr, username, password string, tlsCfg *tls.Config) (*imapclient.Client, error) {
	if addr == "" {
		return nil, errors.New("imap addr is required")
	}
	if username == "" || password == "" {
		return nil, errors.New("imap username/password is required")
	}
	if tlsCfg == nil {
		tlsCfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: tlsCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}

	// Best-effort close on context cancel.
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(username, password).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}

	return c, nil
}

func LogoutAndClose(c *imapclient.Client) {
	if c == nil {
		return
	}
	_ = c.Logout().Wait()
	_ = c.Close()
}
