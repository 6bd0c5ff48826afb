// config/overlay.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OverlayEnv applies MAILER_* environment overrides on top of a loaded file,
// so the same config can be reused from different cron entries.
func OverlayEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv("MAILER_EMAIL"); v != "" {
		cfg.Email = v
	}
	if v := getenv("MAILER_DATA_DIR"); v != "" {
		cfg.State.Dir = v
	}
	if v := getenv("MAILER_ENDPOINT"); v != "" {
		cfg.Source.Endpoint = v
	}
	if v := getenv("MAILER_TRANSPORT"); v != "" {
		cfg.Mail.Transport = v
	}
	if v := getenv("MAILER_SMTP_HOST"); v != "" {
		cfg.Mail.SMTPHost = v
	}
	if v := getenv("MAILER_SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAILER_SMTP_PORT: %w", err)
		}
		cfg.Mail.SMTPPort = port
	}
	if v := getenv("MAILER_MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAILER_MAX_PAGES: %w", err)
		}
		cfg.Source.MaxPages = n
	}
	if v := getenv("MAILER_LOCATIONS"); v != "" {
		cfg.Locations = splitList(v)
	}
	if v := getenv("MAILER_JOBS"); v != "" {
		cfg.Jobs = splitList(v)
	}
	if v := getenv("MAILER_YEARS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAILER_YEARS: %w", err)
		}
		cfg.Years = n
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
