package main

import (
	"time"

	"github.com/jabrane-me/crous-bot-notifier/config"
	"github.com/jabrane-me/crous-bot-notifier/notify"
	"github.com/jabrane-me/crous-bot-notifier/scraper/crous"
	"github.com/jabrane-me/crous-bot-notifier/services"
	"github.com/jabrane-me/crous-bot-notifier/storage"
	"github.com/jabrane-me/crous-bot-notifier/utils"
)

// One invocation = one full pass over all targets. The external scheduler
// (cron, CI workflow) drives the cadence; overlapping invocations on the
// same data directory are the caller's responsibility to avoid.
func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== CROUS Bot Notifier starting ===")
	logger.Info("Config — targets: %d | data dir: %s | report window: %02d:%02d–%02d:%02d CET",
		len(cfg.Targets), cfg.DataDir,
		cfg.ReportStartHour, cfg.ReportStartMinute, cfg.ReportEndHour, cfg.ReportEndMinute)

	if !cfg.Mail.Enabled() {
		logger.Warn("Email credentials missing — changes are tracked but nothing will be sent")
	}

	store := storage.NewCSVStore(cfg.DataDir)
	scraper := crous.New(logger, cfg.MaxPages)
	mailer := notify.NewMailer(cfg.Mail)

	window := services.ReportWindow{
		StartHour:   cfg.ReportStartHour,
		StartMinute: cfg.ReportStartMinute,
		EndHour:     cfg.ReportEndHour,
		EndMinute:   cfg.ReportEndMinute,
	}

	monitor := services.NewMonitor(scraper, store, mailer, logger, window, func() time.Time {
		return time.Now().In(config.ReferenceZone)
	})
	results := monitor.Run(cfg.Targets)

	insightSvc := services.NewInsightService(logger)
	for _, target := range cfg.Targets {
		current, ok := results[target.Folder]
		if !ok {
			continue
		}
		insightSvc.Print(target.Name, insightSvc.Generate(current))
	}

	logger.Info("Run finished")
}
