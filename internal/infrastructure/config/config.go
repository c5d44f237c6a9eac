// internal/infrastructure/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// BotDocument is the persisted JSON configuration. It lives in
// config/default.json next to the binary and is created with defaults on
// first start.
type BotDocument struct {
	APIURL         string  `json:"api_url"`
	KonstantaC     float64 `json:"konstanta_c"`
	ChartDays      int     `json:"chart_days"`
	MaxHistoryDays int     `json:"max_history_days"`
}

// RedisConfig - optional session mirror
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port for go-redis.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// TeamSpeakConfig - optional ServerQuery access for /tsinfo
type TeamSpeakConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	VirtualServerID int
}

// Enabled reports whether /tsinfo can work at all.
func (t TeamSpeakConfig) Enabled() bool {
	return t.Host != ""
}

// Config is the full runtime configuration: secrets and infrastructure from
// the environment, bot behavior from the JSON document.
type Config struct {
	BotDocument

	TelegramBotToken string
	AdminIDs         []int64

	Redis     RedisConfig
	TeamSpeak TeamSpeakConfig

	LogFile  string
	LogLevel string
	Debug    bool
}

// Defaults mirrored into config/default.json when it does not exist yet.
const (
	defaultAPIURL         = "https://east.albion-online-data.com/api/v2/stats/gold"
	defaultKonstantaC     = 30070000
	defaultChartDays      = 7
	defaultMaxHistoryDays = 365
)

// LoadConfig reads .env (if present) plus the JSON document at docPath and
// assembles the runtime configuration. A missing document is not an error:
// it is written out with defaults first, same as the bot always did.
func LoadConfig(envPath, docPath string) (*Config, error) {
	if envPath != "" {
		// A missing .env is fine, real deployments use actual env vars.
		_ = godotenv.Load(envPath)
	}

	doc, err := loadOrCreateDocument(docPath)
	if err != nil {
		return nil, fmt.Errorf("konfigurasi JSON: %w", err)
	}

	cfg := &Config{
		BotDocument:      *doc,
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		AdminIDs:         parseAdminIDs(os.Getenv("ADMIN_IDS")),
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		TeamSpeak: TeamSpeakConfig{
			Host:            os.Getenv("TS_HOST"),
			Port:            getEnvInt("TS_PORT", 10011),
			Username:        os.Getenv("TS_USERNAME"),
			Password:        os.Getenv("TS_PASSWORD"),
			VirtualServerID: getEnvInt("TS_VIRTUALSERVER_ID", 1),
		},
		LogFile:  getEnv("LOG_FILE", "logs/bot.log"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
		Debug:    getEnvBool("DEBUG", false),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN tidak di-set")
	}
	if c.APIURL == "" {
		return fmt.Errorf("api_url kosong di konfigurasi")
	}
	if c.KonstantaC <= 0 {
		return fmt.Errorf("konstanta_c harus > 0, dapat %v", c.KonstantaC)
	}
	if c.MaxHistoryDays < 0 {
		return fmt.Errorf("max_history_days harus >= 0, dapat %d", c.MaxHistoryDays)
	}
	return nil
}

// IsAdmin reports whether userID may run privileged commands (/live).
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func loadOrCreateDocument(path string) (*BotDocument, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		doc := &BotDocument{
			APIURL:         defaultAPIURL,
			KonstantaC:     defaultKonstantaC,
			ChartDays:      defaultChartDays,
			MaxHistoryDays: defaultMaxHistoryDays,
		}
		if err := writeDocument(path, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc BotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}

func writeDocument(path string, doc *BotDocument) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func parseAdminIDs(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
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
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return fallback
}
