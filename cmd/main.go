package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"tiktok-bulk-scheduler/internal"
	"tiktok-bulk-scheduler/internal/input"
	"tiktok-bulk-scheduler/internal/logging"
	"tiktok-bulk-scheduler/internal/notify"
	"tiktok-bulk-scheduler/internal/report"
	"tiktok-bulk-scheduler/internal/scheduler"
	"tiktok-bulk-scheduler/internal/tiktok"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file if it exists (try multiple paths)
	for _, path := range []string{".env", "../.env"} {
		_ = godotenv.Load(path)
	}

	log, err := logging.New("errors.log")
	if err != nil {
		panic(err)
	}
	defer log.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stop on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Infof("shutdown signal received")
		cancel()
	}()

	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Errorf("config: %v", err)
		return 1
	}

	if cfg.RunCron != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.RunCron, func() { runBatch(ctx, cfg, log) }); err != nil {
			log.Errorf("invalid RUN_CRON %q: %v", cfg.RunCron, err)
			return 1
		}
		log.Infof("running batch on cron schedule %q", cfg.RunCron)
		c.Start()
		<-ctx.Done()
		<-c.Stop().Done()
		return 0
	}

	if failed := runBatch(ctx, cfg, log); failed {
		return 1
	}
	return 0
}

// runBatch performs one full pass over the input file. It returns true
// when the run could not start or any item failed, for the exit status.
func runBatch(ctx context.Context, cfg internal.Config, log *logging.Logger) bool {
	format, err := input.DetectFormat(cfg.InputFile)
	if err != nil {
		log.Errorf("%v", err)
		return true
	}

	log.Infof("loading videos from %s", cfg.InputFile)
	reqs, err := input.Load(cfg.InputFile, format)
	if err != nil {
		log.Errorf("load input: %v", err)
		return true
	}
	log.Infof("found %d video(s) to schedule", len(reqs))

	client := tiktok.NewAPIClient(ctx, cfg.AccessToken, cfg.BaseURL)
	sched := scheduler.New(tiktok.NewUploader(client), report.New(os.Stdout), cfg.ChunkDelay)
	sum := sched.Run(ctx, reqs)

	if cfg.TelegramToken != "" && cfg.SummaryChatID != 0 {
		n, err := notify.New(cfg.TelegramToken, cfg.SummaryChatID)
		if err != nil {
			log.Errorf("notify: %v", err)
		} else if err := n.SendSummary(sum); err != nil {
			log.Errorf("notify: %v", err)
		}
	}

	return sum.Failed() > 0
}
