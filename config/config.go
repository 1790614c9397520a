package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/jabrane-me/crous-bot-notifier/models"
)

// ReferenceZone is the fixed clock all date arithmetic uses: CET without
// daylight-saving adjustment, matching the report window definition. A
// deployment that needs DST-aware behavior must change this in one place.
var ReferenceZone = time.FixedZone("CET", 1*60*60)

// MailConfig holds the SendGrid SMTP credentials. Any missing field
// disables sending without aborting the run.
type MailConfig struct {
	Host       string
	Port       int
	APIKey     string
	From       string
	To         string
	SenderName string
}

// Enabled reports whether every credential needed to send mail is present.
func (m MailConfig) Enabled() bool {
	return m.APIKey != "" && m.From != "" && m.To != ""
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataDir  string
	MaxPages int

	ReportStartHour   int
	ReportStartMinute int
	ReportEndHour     int
	ReportEndMinute   int

	Mail    MailConfig
	Targets []models.Target
}

// defaultTarget is the CROUS search page the bot was originally built for,
// used when no targets file is configured.
var defaultTarget = models.Target{
	Name:    "CROUS Paris",
	URL:     "https://trouverunlogement.lescrous.fr/tools/41/search",
	Folder:  "crous-paris",
	Alerts:  true,
	Reports: true,
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		DataDir:  getEnv("DATA_DIR", "data"),
		MaxPages: getEnvInt("MAX_PAGES", 10),

		ReportStartHour:   getEnvInt("REPORT_START_HOUR", 22),
		ReportStartMinute: getEnvInt("REPORT_START_MINUTE", 0),
		ReportEndHour:     getEnvInt("REPORT_END_HOUR", 23),
		ReportEndMinute:   getEnvInt("REPORT_END_MINUTE", 30),

		Mail: MailConfig{
			Host:       getEnv("SMTP_HOST", "smtp.sendgrid.net"),
			Port:       getEnvInt("SMTP_PORT", 587),
			APIKey:     getEnv("SENDGRID_API_KEY", ""),
			From:       getEnv("FROM_EMAIL", ""),
			To:         getEnv("TO_EMAIL", ""),
			SenderName: getEnv("SENDER_NAME", "CROUS BOT Notifier"),
		},
	}

	// The window never crosses midnight. An inverted window coming from the
	// environment would silently suppress every report, so fall back to the
	// default window instead.
	start := cfg.ReportStartHour*60 + cfg.ReportStartMinute
	end := cfg.ReportEndHour*60 + cfg.ReportEndMinute
	if end < start {
		log.Printf("[config] Report window end %02d:%02d precedes start %02d:%02d — using default window 22:00-23:30",
			cfg.ReportEndHour, cfg.ReportEndMinute, cfg.ReportStartHour, cfg.ReportStartMinute)
		cfg.ReportStartHour, cfg.ReportStartMinute = 22, 0
		cfg.ReportEndHour, cfg.ReportEndMinute = 23, 30
	}

	targets, err := loadTargets(getEnv("TARGETS_FILE", ""))
	if err != nil {
		log.Printf("[config] Could not load targets file: %v — using default target", err)
		targets = nil
	}
	if len(targets) == 0 {
		targets = []models.Target{defaultTarget}
	}
	cfg.Targets = targets

	return cfg
}

// loadTargets reads the static target list from a JSON file. An empty path
// means no file was configured.
func loadTargets(path string) ([]models.Target, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read targets file %q: %w", path, err)
	}
	var targets []models.Target
	if err := json.Unmarshal(raw, &targets); err != nil {
		return nil, fmt.Errorf("config: parse targets file %q: %w", path, err)
	}
	return targets, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[config] Invalid integer for %s: %q — using default %d", key, v, fallback)
	}
	return fallback
}
