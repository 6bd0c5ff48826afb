package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"wanted-mailer/internal/domain"
	"wanted-mailer/internal/fsutil"
)

// KST is the zone every timestamp in the log and the mail is rendered in.
var KST = time.FixedZone("KST", 9*60*60)

// SendLog is a plain-text history of mailed batches, newest block first.
type SendLog struct {
	Path     string
	LinkBase string // listing links are LinkBase + "/" + id
}

func NewSendLog(path, linkBase string) *SendLog {
	return &SendLog{Path: path, LinkBase: strings.TrimRight(linkBase, "/")}
}

// Block renders one batch:
//
//	--- 2006-01-02 15:04:05 KST sent N job(s) ---
//	[id] company - position | location | url
//	<blank>
func (s *SendLog) Block(sent []domain.Listing, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s sent %d job(s) ---\n", now.In(KST).Format("2006-01-02 15:04:05 MST"), len(sent))
	for _, l := range sent {
		fmt.Fprintf(&b, "[%s] %s - %s | %s | %s/%s\n", l.ID, l.Company, l.Position, l.Location, s.LinkBase, l.ID)
	}
	b.WriteString("\n")
	return b.String()
}

// Prepend puts a new block on top of the existing history and rewrites the
// file atomically.
func (s *SendLog) Prepend(sent []domain.Listing, now time.Time) error {
	prev, err := os.ReadFile(s.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	data := append([]byte(s.Block(sent, now)), prev...)
	return fsutil.WriteFileAtomic(s.Path, data, 0o644)
}
