package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/consultium-ai/demo-booking-service/internal/domain"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Availability AvailabilityConfig
	Session      SessionConfig
	Notify       NotifyConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values for the delivery audit log.
// Optional: with an empty DSN the service runs without the audit trail.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values for the wizard session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AvailabilityConfig carries the bookable-window schedule as env strings.
type AvailabilityConfig struct {
	WeekdayWindows string
	SlotMinutes    int
	Rule           domain.AvailabilityRule
}

// SessionConfig controls wizard session lifetime in Redis.
type SessionConfig struct {
	TTLMinutes int
}

// NotifyConfig configures the notification dispatcher and its transport.
type NotifyConfig struct {
	// Provider selects the transport: "emailjs", "sendgrid" or "stub".
	Provider string

	// Channels is the priority-ordered template list; LastResortChannel is
	// tried exactly once after the list is exhausted.
	Channels          []domain.DeliveryChannel
	LastResortChannel domain.DeliveryChannel

	AttemptTimeoutSeconds int

	OwnerEmail string
	OwnerName  string

	// Out-of-band contact line shown to visitors when delivery fails.
	FallbackContact string

	EmailJSBaseURL   string
	EmailJSServiceID string
	EmailJSPublicKey string

	SendGridAPIKey   string
	SendGridFrom     string
	SendGridFromName string

	// When set, delivery drift alerts are posted here.
	AlertWebhookURL string
}

// AttemptTimeout returns the bounded per-channel delivery timeout.
func (n NotifyConfig) AttemptTimeout() time.Duration {
	if n.AttemptTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(n.AttemptTimeoutSeconds) * time.Second
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "demo-booking-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Availability: AvailabilityConfig{
			WeekdayWindows: getEnv("BOOKING_WEEKDAY_WINDOWS", "mon=12-18,tue=12-18,wed=12-18,thu=12-18,fri=15-18"),
			SlotMinutes:    getEnvAsInt("BOOKING_SLOT_MINUTES", 30),
		},
		Session: SessionConfig{
			TTLMinutes: getEnvAsInt("BOOKING_SESSION_TTL_MINUTES", 60),
		},
		Notify: NotifyConfig{
			Provider:              getEnv("NOTIFY_PROVIDER", "stub"),
			LastResortChannel:     domain.DeliveryChannel(getEnv("NOTIFY_LAST_RESORT_CHANNEL", "contact_form")),
			AttemptTimeoutSeconds: getEnvAsInt("NOTIFY_ATTEMPT_TIMEOUT_SECONDS", 5),
			OwnerEmail:            getEnv("NOTIFY_OWNER_EMAIL", "info@consultiumai.com"),
			OwnerName:             getEnv("NOTIFY_OWNER_NAME", "Team Consultium AI"),
			FallbackContact:       getEnv("NOTIFY_FALLBACK_CONTACT", "info@consultiumai.com of WhatsApp: +31 85 080 5541"),
			EmailJSBaseURL:        getEnv("EMAILJS_BASE_URL", "https://api.emailjs.com"),
			EmailJSServiceID:      os.Getenv("EMAILJS_SERVICE_ID"),
			EmailJSPublicKey:      os.Getenv("EMAILJS_PUBLIC_KEY"),
			SendGridAPIKey:        os.Getenv("SENDGRID_API_KEY"),
			SendGridFrom:          os.Getenv("SENDGRID_FROM_EMAIL"),
			SendGridFromName:      getEnv("SENDGRID_FROM_NAME", "Consultium AI"),
			AlertWebhookURL:       os.Getenv("NOTIFY_ALERT_WEBHOOK_URL"),
		},
	}

	rule, err := ParseAvailabilityRule(cfg.Availability.WeekdayWindows, cfg.Availability.SlotMinutes)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_WEEKDAY_WINDOWS: %w", err)
	}
	cfg.Availability.Rule = rule

	channels, err := parseChannels(getEnv("NOTIFY_CHANNELS", "template_3wepyib,template_1,template_contact,template_consultium"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_CHANNELS: %w", err)
	}
	cfg.Notify.Channels = channels

	if err := cfg.Notify.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns the wizard draft lifetime.
func (s SessionConfig) SessionTTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

var weekdayNames = map[string]int{
	"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6,
}

// ParseAvailabilityRule parses a "mon=12-18,fri=15-18" style window list into
// a validated rule. Weekdays not mentioned are closed.
func ParseAvailabilityRule(windows string, slotMinutes int) (domain.AvailabilityRule, error) {
	rule := domain.AvailabilityRule{
		Windows:     make(map[int]domain.WeekdayWindow),
		SlotMinutes: slotMinutes,
	}
	for _, part := range strings.Split(windows, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, span, ok := strings.Cut(part, "=")
		if !ok {
			return domain.AvailabilityRule{}, fmt.Errorf("malformed window %q", part)
		}
		weekday, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return domain.AvailabilityRule{}, fmt.Errorf("unknown weekday %q", name)
		}
		startStr, endStr, ok := strings.Cut(span, "-")
		if !ok {
			return domain.AvailabilityRule{}, fmt.Errorf("malformed window %q", part)
		}
		start, err := strconv.Atoi(strings.TrimSpace(startStr))
		if err != nil {
			return domain.AvailabilityRule{}, fmt.Errorf("malformed window %q: %w", part, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(endStr))
		if err != nil {
			return domain.AvailabilityRule{}, fmt.Errorf("malformed window %q: %w", part, err)
		}
		if _, exists := rule.Windows[weekday]; exists {
			return domain.AvailabilityRule{}, fmt.Errorf("duplicate weekday %q", name)
		}
		rule.Windows[weekday] = domain.WeekdayWindow{StartHour: start, EndHour: end}
	}
	if err := rule.Validate(); err != nil {
		return domain.AvailabilityRule{}, err
	}
	return rule, nil
}

func parseChannels(csv string) ([]domain.DeliveryChannel, error) {
	var channels []domain.DeliveryChannel
	seen := make(map[domain.DeliveryChannel]bool)
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ch := domain.DeliveryChannel(part)
		if seen[ch] {
			return nil, fmt.Errorf("duplicate channel %q", part)
		}
		seen[ch] = true
		channels = append(channels, ch)
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("at least one channel required")
	}
	return channels, nil
}

func (n NotifyConfig) validate() error {
	switch n.Provider {
	case "stub":
	case "emailjs":
		if n.EmailJSServiceID == "" || n.EmailJSPublicKey == "" {
			return fmt.Errorf("EMAILJS_SERVICE_ID and EMAILJS_PUBLIC_KEY required for emailjs provider")
		}
	case "sendgrid":
		if n.SendGridAPIKey == "" || n.SendGridFrom == "" {
			return fmt.Errorf("SENDGRID_API_KEY and SENDGRID_FROM_EMAIL required for sendgrid provider")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_PROVIDER %q", n.Provider)
	}
	for _, ch := range n.Channels {
		if ch == n.LastResortChannel {
			return fmt.Errorf("last-resort channel %q must not appear in NOTIFY_CHANNELS", ch)
		}
	}
	if n.OwnerEmail == "" {
		return fmt.Errorf("NOTIFY_OWNER_EMAIL required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
