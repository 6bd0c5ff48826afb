package notify

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Transport hands a finished RFC 5322 message to something that delivers it.
type Transport interface {
	Name() string
	Deliver(ctx context.Context, from string, to []string, msg []byte) error
}

// Credentials authenticate the sender against the mail server.
type Credentials struct {
	Username string // also the From address
	Password string
}

// WriterTransport prints messages instead of sending them (-dry-run).
type WriterTransport struct {
	W io.Writer
}

func (t WriterTransport) Name() string { return "stdout" }

func (t WriterTransport) Deliver(_ context.Context, from string, to []string, msg []byte) error {
	_, err := fmt.Fprintf(t.W, "MAIL FROM:<%s> RCPT TO:%v at %s\n%s\n", from, to, time.Now().Format(time.RFC3339), msg)
	return err
}
