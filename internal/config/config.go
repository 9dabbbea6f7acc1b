package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"matchdata-scraper/internal/logging"
	"matchdata-scraper/internal/provider/fotmob"
	"matchdata-scraper/internal/provider/sofascore"
	"matchdata-scraper/internal/provider/transfermarkt"
)

// Config stores runtime configuration for the scraper and its HTTP surface.
type Config struct {
	HTTPAddr                  string
	ReadTimeout               time.Duration
	WriteTimeout              time.Duration
	LogLevel                  logging.Level
	ChromePath                string
	ChromeHeadless            bool
	UserAgent                 string
	FotMobBaseURL             string
	SofaScoreAPIBaseURL       string
	TransfermarktCEAPIBaseURL string
	HTTPTimeout               time.Duration
	NavigateTimeout           time.Duration
	StateWait                 time.Duration
	SearchWait                time.Duration
	ConsentWait               time.Duration
	SofaScoreNavigateTimeout  time.Duration
	SofaScoreStateWait        time.Duration
	MaxSessions               int
}

func Load() (Config, error) {
	headless, err := strconv.ParseBool(getEnv("CHROME_HEADLESS", "true"))
	if err != nil {
		return Config{}, errors.Wrap(err, "parse CHROME_HEADLESS")
	}

	maxSessions, err := getEnvAsInt("MAX_SESSIONS", 3)
	if err != nil {
		return Config{}, errors.Wrap(err, "parse MAX_SESSIONS")
	}
	if maxSessions <= 0 {
		return Config{}, errors.New("MAX_SESSIONS must be > 0")
	}

	cfg := Config{
		HTTPAddr:                  getEnv("HTTP_ADDR", ":8080"),
		LogLevel:                  logging.ParseLevel(getEnv("LOG_LEVEL", "info")),
		ChromePath:                strings.TrimSpace(getEnv("CHROME_PATH", "")),
		ChromeHeadless:            headless,
		UserAgent:                 getEnv("USER_AGENT", transfermarkt.DefaultUserAgent),
		FotMobBaseURL:             strings.TrimRight(getEnv("FOTMOB_BASE_URL", fotmob.DefaultBaseURL), "/"),
		SofaScoreAPIBaseURL:       strings.TrimRight(getEnv("SOFASCORE_API_BASE_URL", sofascore.DefaultAPIBaseURL), "/"),
		TransfermarktCEAPIBaseURL: strings.TrimRight(getEnv("TRANSFERMARKT_CEAPI_BASE_URL", transfermarkt.DefaultCEAPIBaseURL), "/"),
		MaxSessions:               maxSessions,
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"READ_TIMEOUT", "15s", &cfg.ReadTimeout},
		{"WRITE_TIMEOUT", "5m", &cfg.WriteTimeout},
		{"HTTP_TIMEOUT", "15s", &cfg.HTTPTimeout},
		{"NAVIGATE_TIMEOUT", "60s", &cfg.NavigateTimeout},
		{"STATE_WAIT", "15s", &cfg.StateWait},
		{"SEARCH_WAIT", "15s", &cfg.SearchWait},
		{"CONSENT_WAIT", "5s", &cfg.ConsentWait},
		{"SOFASCORE_NAVIGATE_TIMEOUT", "30s", &cfg.SofaScoreNavigateTimeout},
		{"SOFASCORE_STATE_WAIT", "7s", &cfg.SofaScoreStateWait},
	}
	for _, d := range durations {
		value, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil {
			return Config{}, errors.Wrapf(err, "parse %s", d.key)
		}
		if value <= 0 {
			return Config{}, errors.Newf("%s must be > 0", d.key)
		}
		*d.dst = value
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}
