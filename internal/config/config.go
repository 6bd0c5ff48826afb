// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Criteria is what a listing has to satisfy to be mailed.
type Criteria struct {
	Locations []string `json:"locations" yaml:"locations" validate:"min=1,dive,required"`
	Jobs      []string `json:"jobs" yaml:"jobs" validate:"min=1,dive,required"`
	Years     int      `json:"years" yaml:"years" validate:"gte=0"`
}

type Source struct {
	Endpoint  string   `json:"endpoint,omitempty" yaml:"endpoint,omitempty" validate:"required,url"`
	Country   string   `json:"country,omitempty" yaml:"country,omitempty" validate:"required"`
	JobSort   string   `json:"job_sort,omitempty" yaml:"job_sort,omitempty"`
	MaxPages  int      `json:"max_pages,omitempty" yaml:"max_pages,omitempty" validate:"gte=1"`
	PageDelay Duration `json:"page_delay,omitempty" yaml:"page_delay,omitempty"`
	Timeout   Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	LinkBase  string   `json:"link_base,omitempty" yaml:"link_base,omitempty" validate:"required,url"`
}

type State struct {
	Dir        string `json:"dir,omitempty" yaml:"dir,omitempty"`
	CursorFile string `json:"cursor_file,omitempty" yaml:"cursor_file,omitempty" validate:"required"`
	LogFile    string `json:"log_file,omitempty" yaml:"log_file,omitempty" validate:"required"`
	LegacyFile string `json:"legacy_file,omitempty" yaml:"legacy_file,omitempty"`
}

type Mail struct {
	Transport string `json:"transport,omitempty" yaml:"transport,omitempty" validate:"oneof=smtp imap"`
	SMTPHost  string `json:"smtp_host,omitempty" yaml:"smtp_host,omitempty" validate:"required_if=Transport smtp"`
	SMTPPort  int    `json:"smtp_port,omitempty" yaml:"smtp_port,omitempty" validate:"gte=0,lte=65535"`
	IMAPHost  string `json:"imap_host,omitempty" yaml:"imap_host,omitempty" validate:"required_if=Transport imap"`
	IMAPPort  int    `json:"imap_port,omitempty" yaml:"imap_port,omitempty" validate:"gte=0,lte=65535"`
	Mailbox   string `json:"mailbox,omitempty" yaml:"mailbox,omitempty"`
}

type Config struct {
	Criteria `yaml:",inline"`

	Email string `json:"email" yaml:"email" validate:"required,email"`

	Source     Source   `json:"source,omitempty" yaml:"source,omitempty"`
	State      State    `json:"state,omitempty" yaml:"state,omitempty"`
	Mail       Mail     `json:"mail,omitempty" yaml:"mail,omitempty"`
	RunTimeout Duration `json:"run_timeout,omitempty" yaml:"run_timeout,omitempty"`
}

// Default returns a config with every optional field filled in.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	if c.Source.Endpoint == "" {
		c.Source.Endpoint = "https://www.wanted.co.kr/api/v4/jobs"
	}
	if c.Source.Country == "" {
		c.Source.Country = "kr"
	}
	if c.Source.JobSort == "" {
		c.Source.JobSort = "job.latest_order"
	}
	if c.Source.MaxPages == 0 {
		c.Source.MaxPages = 30
	}
	if c.Source.PageDelay == 0 {
		c.Source.PageDelay = Duration(500 * time.Millisecond)
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = Duration(20 * time.Second)
	}
	if c.Source.LinkBase == "" {
		c.Source.LinkBase = "https://www.wanted.co.kr/wd"
	}

	if c.State.Dir == "" {
		c.State.Dir = "."
	}
	if c.State.CursorFile == "" {
		c.State.CursorFile = "last_id"
	}
	if c.State.LogFile == "" {
		c.State.LogFile = "send.log"
	}

	if c.Mail.Transport == "" {
		c.Mail.Transport = "smtp"
	}
	if c.Mail.SMTPHost == "" {
		c.Mail.SMTPHost = "smtp.gmail.com"
	}
	if c.Mail.SMTPPort == 0 {
		c.Mail.SMTPPort = 465
	}
	if c.Mail.IMAPHost == "" {
		c.Mail.IMAPHost = "imap.gmail.com"
	}
	if c.Mail.IMAPPort == 0 {
		c.Mail.IMAPPort = 993
	}
	if c.Mail.Mailbox == "" {
		c.Mail.Mailbox = "INBOX"
	}

	if c.RunTimeout == 0 {
		c.RunTimeout = Duration(10 * time.Minute)
	}
}

// StatePath resolves a state file name against State.Dir.
func (c Config) StatePath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.State.Dir, name)
}

// Load reads path, decoding YAML for .yml/.yaml and JSON otherwise, and
// applies defaults. It does not validate.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := unmarshal(path, b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

func unmarshal(path string, b []byte, cfg *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(b, cfg)
	}
	return json.Unmarshal(b, cfg)
}

func marshal(path string, cfg Config) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(&cfg)
	}
	return json.MarshalIndent(cfg, "", "  ")
}
