package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"wanted-mailer/internal/config"
	"wanted-mailer/internal/notify"
	"wanted-mailer/internal/poll"
	"wanted-mailer/internal/scheduler"
	"wanted-mailer/internal/scrape/util"
	"wanted-mailer/internal/scrape/wanted"
	"wanted-mailer/internal/secrets"
	"wanted-mailer/internal/store"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type options struct {
	configPath    string
	dataDir       string
	envFile       string
	dryRun        bool
	every         time.Duration
	initConfig    bool
	storePassword bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.json", "path to the config file (.json, .yml)")
	flag.StringVar(&opts.dataDir, "data-dir", "", "directory for the cursor, send log and lock (overrides state.dir)")
	flag.StringVar(&opts.envFile, "env", ".env", "optional dotenv file with MY_EMAIL / MY_PASSWORD")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "print the mail instead of sending it and leave the cursor alone")
	flag.DurationVar(&opts.every, "every", 0, "keep running and poll at this interval (0 polls once and exits)")
	flag.BoolVar(&opts.initConfig, "init", false, "write a starter config to -config if none exists, then exit")
	flag.BoolVar(&opts.storePassword, "store-password", false, "read the sender password from stdin into the OS keychain, then exit")
	flag.Parse()

	log.SetPrefix(fmt.Sprintf("[run:%s] ", uuid.NewString()[:8]))

	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[env] could not load %s: %v", opts.envFile, err)
	}

	if err := run(opts); err != nil {
		log.Printf("failed: %v", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.initConfig {
		created, err := config.EnsureUserConfig(opts.configPath)
		if err != nil {
			return fmt.Errorf("config bootstrap failed: %w", err)
		}
		if created {
			log.Printf("[config] wrote starter config to %s", opts.configPath)
		} else {
			log.Printf("[config] %s already exists, left untouched", opts.configPath)
		}
		return nil
	}

	sender := os.Getenv("MY_EMAIL")
	if opts.storePassword {
		return storePassword(sender, os.Stdin)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := checkTransport(cfg, sender, opts.dryRun); err != nil {
		return err
	}
	log.Printf("[config] locations=%v jobs=%v years>=%d to=%s", cfg.Locations, cfg.Jobs, cfg.Years, cfg.Email)

	// Missing credentials are not fatal here: a dry run needs none, and a
	// real send fails at authentication with the server's own message.
	password, err := secrets.SenderPassword(sender, os.Getenv("MY_PASSWORD"))
	if err != nil {
		log.Printf("[secrets] %v", err)
	}
	if sender == "" {
		log.Printf("[secrets] MY_EMAIL is not set")
	}

	if err := os.MkdirAll(cfg.State.Dir, 0o755); err != nil {
		return err
	}
	lock, err := store.TryLock(filepath.Join(cfg.State.Dir, "mailer.lock"))
	if errors.Is(err, store.ErrLocked) {
		log.Printf("[lock] %v; exiting", err)
		return nil
	}
	if err != nil {
		return err
	}
	defer lock.Unlock()

	creds := notify.Credentials{Username: sender, Password: password}
	transport := newTransport(cfg, creds, opts.dryRun)

	sendLog := store.NewSendLog(cfg.StatePath(cfg.State.LogFile), cfg.Source.LinkBase)
	deps := poll.Deps{
		Fetcher: wanted.New(wanted.Config{
			Endpoint: cfg.Source.Endpoint,
			Country:  cfg.Source.Country,
			JobSort:  cfg.Source.JobSort,
			MaxPages: cfg.Source.MaxPages,
			Timeout:  cfg.Source.Timeout.Std(),
		}, util.NewPageLimiter(cfg.Source.PageDelay.Std())),
		Criteria: cfg.Criteria,
		Cursor:   store.NewCursor(cfg.StatePath(cfg.State.CursorFile), cfg.StatePath(cfg.State.LegacyFile), sendLog),
		Notifier: notify.New(creds, cfg.Email, cfg.Source.LinkBase, transport),
		DryRun:   opts.dryRun,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.every <= 0 {
		ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout.Std())
		defer cancel()
		return pollOnce(ctx, deps)
	}

	log.Printf("[scheduler] polling every %s", opts.every)
	scheduler.Every(ctx, opts.every, cfg.RunTimeout.Std(), "poll", func(ctx context.Context) error {
		return pollOnce(ctx, deps)
	})
	log.Printf("[scheduler] stopped")
	return nil
}

func pollOnce(ctx context.Context, deps poll.Deps) error {
	res, err := poll.PollOnce(ctx, deps)
	if err != nil {
		return err
	}
	log.Printf("[run] outcome=%s fetched=%d matched=%d new=%d cursor=%q",
		res.Outcome, res.Fetched, res.Matched, len(res.New), res.Cursor)
	return nil
}
