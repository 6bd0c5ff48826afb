package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"wanted-mailer/internal/config"
	"wanted-mailer/internal/notify"
	"wanted-mailer/internal/secrets"
)

func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, fmt.Errorf("config load failed (%s): %w", opts.configPath, err)
	}
	if err := config.OverlayEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	if opts.dataDir != "" {
		cfg.State.Dir = opts.dataDir
	}

	cfg, res := config.NormalizeAndValidate(cfg)
	for _, w := range res.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !res.OK() {
		return cfg, errors.New("config validation failed:\n- " + strings.Join(res.Errors, "\n- "))
	}
	return cfg, nil
}

func newTransport(cfg config.Config, creds notify.Credentials, dryRun bool) notify.Transport {
	switch {
	case dryRun:
		return notify.WriterTransport{W: os.Stdout}
	case cfg.Mail.Transport == "imap":
		return notify.NewIMAPTransport(cfg.Mail.IMAPHost, cfg.Mail.IMAPPort, cfg.Mail.Mailbox, creds)
	default:
		return notify.NewSMTPTransport(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, creds)
	}
}

// checkTransport rejects combinations the chosen transport cannot deliver:
// IMAP only files mail into the sender's own mailbox.
func checkTransport(cfg config.Config, sender string, dryRun bool) error {
	if dryRun || cfg.Mail.Transport != "imap" {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(cfg.Email), strings.TrimSpace(sender)) {
		return fmt.Errorf("mail.transport imap delivers to the sender's own mailbox; email %q must equal MY_EMAIL %q (or use smtp)", cfg.Email, sender)
	}
	return nil
}

func storePassword(sender string, in io.Reader) error {
	if sender == "" {
		return errors.New("MY_EMAIL must be set to name the keychain entry")
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if err := secrets.SetSenderPassword(sender, strings.TrimRight(line, "\r\n")); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	log.Printf("[secrets] stored password for %s in the keychain", sender)
	return nil
}
