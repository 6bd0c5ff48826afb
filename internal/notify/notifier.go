package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"wanted-mailer/internal/domain"
)

// FromName is the display name on outgoing mail.
const FromName = "원티드 알림"

type Notifier struct {
	creds     Credentials
	recipient string
	linkBase  string
	transport Transport
	now       func() time.Time
}

// New builds a Notifier. creds.Username doubles as the From address; the
// transport is expected to authenticate with the same creds.
func New(creds Credentials, recipient, linkBase string, t Transport) *Notifier {
	return &Notifier{
		creds:     creds,
		recipient: recipient,
		linkBase:  linkBase,
		transport: t,
		now:       time.Now,
	}
}

// Notify composes listings into one message and delivers it. It returns the
// composed message so callers can log or print it.
func (n *Notifier) Notify(ctx context.Context, listings []domain.Listing) (Message, error) {
	if len(listings) == 0 {
		return Message{}, errors.New("notify: nothing to send")
	}
	now := n.now()

	msg, err := Compose(listings, n.linkBase, now)
	if err != nil {
		return Message{}, err
	}
	if err := n.Send(ctx, msg, now); err != nil {
		return msg, err
	}
	return msg, nil
}

func (n *Notifier) Send(ctx context.Context, msg Message, now time.Time) error {
	raw, err := Build(Envelope{FromName: FromName, From: n.creds.Username, To: n.recipient}, msg, now)
	if err != nil {
		return err
	}
	if err := n.transport.Deliver(ctx, n.creds.Username, []string{n.recipient}, raw); err != nil {
		return fmt.Errorf("deliver via %s: %w", n.transport.Name(), err)
	}
	log.Printf("[notify] sent transport=%s to=%s listings=%d", n.transport.Name(), n.recipient, msg.Count)
	return nil
}
