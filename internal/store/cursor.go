package store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"wanted-mailer/internal/domain"
	"wanted-mailer/internal/fsutil"
)

// Cursor keeps the id of the newest listing of the last mailed batch in its
// own file, and the human-readable history in a SendLog next to it.
type Cursor struct {
	Path string
	// LegacyPath is the old combined "id, blank line, log" file. It is only
	// read, and only while Path does not exist yet.
	LegacyPath string
	Log        *SendLog
}

func NewCursor(path, legacyPath string, log *SendLog) *Cursor {
	return &Cursor{Path: path, LegacyPath: legacyPath, Log: log}
}

// Read returns the stored id. ok is false when nothing was stored yet.
func (c *Cursor) Read() (id string, ok bool, err error) {
	id, err = firstLine(c.Path)
	if errors.Is(err, os.ErrNotExist) && c.LegacyPath != "" {
		id, err = firstLine(c.LegacyPath)
	}
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cursor: %w", err)
	}
	return id, id != "", nil
}

// Write records sent in the log and then moves the cursor to latestID. Call
// it only after the batch was delivered.
func (c *Cursor) Write(latestID string, sent []domain.Listing, now time.Time) error {
	latestID = strings.TrimSpace(latestID)
	if latestID == "" {
		return errors.New("write cursor: empty id")
	}
	if strings.ContainsAny(latestID, "\r\n") {
		return fmt.Errorf("write cursor: id %q spans lines", latestID)
	}

	// log first: a crash between the two writes means a re-send, not a lost batch
	if c.Log != nil {
		if err := c.Log.Prepend(sent, now); err != nil {
			return fmt.Errorf("write send log: %w", err)
		}
	}

	if err := fsutil.WriteFileAtomic(c.Path, []byte(latestID+"\n"), 0o644); err != nil {
		return fmt.Errorf("write cursor: %w", err)
	}
	return nil
}

func firstLine(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sc := bufio.NewScanner(bytes.NewReader(b))
	if sc.Scan() {
		return strings.TrimSpace(sc.Text()), nil
	}
	return "", sc.Err()
}
