package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile           = ".env"
	defaultPort              = "8080"
	defaultEnvironment       = EnvLocal
	defaultTemplatesDir      = "templates"
	defaultPublicDir         = "public"
	defaultContentDir        = "content"
	defaultBaseURL           = "http://localhost:8080"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultRequestTimeout    = 30 * time.Second
	defaultGateMinDuration   = 2500 * time.Millisecond
	defaultGateExitDelay     = 400 * time.Millisecond
	defaultBookingReset      = time.Second
	defaultSubmitLimit       = 10
	defaultSubmitWindow      = time.Minute
	defaultTimezone          = "Asia/Kolkata"
	defaultWhatsAppNumber    = "917745046520"
	defaultLogLevel          = "info"
	devSigningKey            = "dev-only-session-signing-key-change-me"
	minSigningKeyLength      = 32
)

var defaultGateAssets = []string{"/assets/img/logo.png", "/assets/img/hero-bg.jpg"}

const (
	EnvLocal = "local"
	EnvProd  = "prod"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string
	Dev         bool
	BaseURL     string
	LogLevel    string
	Server      ServerConfig
	Paths       PathConfig
	Session     SessionConfig
	Gate        GateConfig
	Booking     BookingConfig
	Analytics   AnalyticsConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration

	// TrustProxy honours X-Forwarded-For and X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxy bool
}

// Addr returns the listen address for the configured port.
func (s ServerConfig) Addr() string { return ":" + s.Port }

// PathConfig locates templates, static files and markdown content on disk.
type PathConfig struct {
	Templates string
	Public    string
	Content   string
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	SigningKey string
	Secure     bool
}

// GateConfig tunes the loading overlay.
type GateConfig struct {
	MinDuration time.Duration
	ExitDelay   time.Duration
	Assets      []string
}

// BookingConfig tunes the lead form.
type BookingConfig struct {
	ResetDelay     time.Duration
	SubmitLimit    int // submissions per client per SubmitWindow; 0 disables
	SubmitWindow   time.Duration
	Timezone       string
	Location       *time.Location
	WhatsAppNumber string
}

// AnalyticsConfig holds optional tracking identifiers rendered into pages.
type AnalyticsConfig struct {
	GA4ID string
	GTMID string
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles configuration from defaults, the .env file, the process
// environment and any explicit map, in increasing order of precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	var invalid []string
	duration := func(key string, fallback time.Duration) time.Duration {
		d, ok := durationWithDefault(lookup, key, fallback)
		if !ok {
			invalid = append(invalid, key)
		}
		return d
	}

	integer := func(key string, fallback int) int {
		n, ok := intWithDefault(lookup, key, fallback)
		if !ok {
			invalid = append(invalid, key)
		}
		return n
	}

	port := stringWithDefault(lookup, "WEB_PORT", "")
	if port == "" {
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}
	env := strings.ToLower(stringWithDefault(lookup, "WEB_ENV", defaultEnvironment))

	cfg := Config{
		Environment: env,
		Dev:         boolWithDefault(lookup, "WEB_DEV", false),
		BaseURL:     strings.TrimRight(stringWithDefault(lookup, "WEB_BASE_URL", defaultBaseURL), "/"),
		LogLevel:    stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
		Server: ServerConfig{
			Port:              port,
			ReadHeaderTimeout: duration("WEB_SERVER_READ_HEADER_TIMEOUT", defaultReadHeaderTimeout),
			ReadTimeout:       duration("WEB_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:      duration("WEB_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:       duration("WEB_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			RequestTimeout:    duration("WEB_SERVER_REQUEST_TIMEOUT", defaultRequestTimeout),
			ShutdownTimeout:   duration("WEB_SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
			TrustProxy:        boolWithDefault(lookup, "WEB_TRUST_PROXY", false),
		},
		Paths: PathConfig{
			Templates: stringWithDefault(lookup, "WEB_TEMPLATES_DIR", defaultTemplatesDir),
			Public:    stringWithDefault(lookup, "WEB_PUBLIC_DIR", defaultPublicDir),
			Content:   stringWithDefault(lookup, "WEB_CONTENT_DIR", defaultContentDir),
		},
		Session: SessionConfig{
			SigningKey: stringWithDefault(lookup, "WEB_SESSION_SIGNING_KEY", ""),
			Secure:     boolWithDefault(lookup, "WEB_SESSION_SECURE", env == EnvProd),
		},
		Gate: GateConfig{
			MinDuration: duration("WEB_GATE_MIN_DURATION", defaultGateMinDuration),
			ExitDelay:   duration("WEB_GATE_EXIT_DELAY", defaultGateExitDelay),
			Assets:      csvWithDefault(lookup, "WEB_GATE_ASSETS", defaultGateAssets),
		},
		Booking: BookingConfig{
			ResetDelay:     duration("WEB_BOOKING_RESET_DELAY", defaultBookingReset),
			SubmitLimit:    integer("WEB_BOOKING_SUBMIT_LIMIT", defaultSubmitLimit),
			SubmitWindow:   duration("WEB_BOOKING_SUBMIT_WINDOW", defaultSubmitWindow),
			Timezone:       stringWithDefault(lookup, "WEB_TIMEZONE", defaultTimezone),
			WhatsAppNumber: stringWithDefault(lookup, "WEB_WHATSAPP_NUMBER", defaultWhatsAppNumber),
		},
		Analytics: AnalyticsConfig{
			GA4ID: stringWithDefault(lookup, "WEB_GA4_ID", ""),
			GTMID: stringWithDefault(lookup, "WEB_GTM_ID", ""),
		},
	}

	if loc, err := time.LoadLocation(cfg.Booking.Timezone); err == nil {
		cfg.Booking.Location = loc
	} else {
		invalid = append(invalid, "WEB_TIMEZONE")
	}
	if cfg.Session.SigningKey == "" && cfg.Environment != EnvProd {
		cfg.Session.SigningKey = devSigningKey
	}

	invalid = append(invalid, validateConfig(cfg)...)
	if len(invalid) > 0 {
		return Config{}, &ValidationError{fields: invalid}
	}
	return cfg, nil
}

func validateConfig(cfg Config) []string {
	var fields []string
	if n, err := strconv.Atoi(cfg.Server.Port); err != nil || n <= 0 || n > 65535 {
		fields = append(fields, "WEB_PORT")
	}
	switch cfg.Environment {
	case EnvLocal, EnvProd:
	default:
		fields = append(fields, "WEB_ENV")
	}
	if cfg.Environment == EnvProd && len(cfg.Session.SigningKey) < minSigningKeyLength {
		fields = append(fields, "WEB_SESSION_SIGNING_KEY")
	}
	if cfg.Gate.MinDuration <= 0 {
		fields = append(fields, "WEB_GATE_MIN_DURATION")
	}
	if cfg.Gate.ExitDelay < 0 {
		fields = append(fields, "WEB_GATE_EXIT_DELAY")
	}
	if cfg.Booking.ResetDelay < 0 {
		fields = append(fields, "WEB_BOOKING_RESET_DELAY")
	}
	if cfg.Booking.SubmitLimit < 0 {
		fields = append(fields, "WEB_BOOKING_SUBMIT_LIMIT")
	}
	if cfg.Booking.SubmitLimit > 0 && cfg.Booking.SubmitWindow <= 0 {
		fields = append(fields, "WEB_BOOKING_SUBMIT_WINDOW")
	}
	if !isDigits(cfg.Booking.WhatsAppNumber) {
		fields = append(fields, "WEB_WHATSAPP_NUMBER")
	}
	return fields
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	if _, err := os.Stat(absPath); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	values, err := godotenv.Read(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

// durationWithDefault reports false when a value is present but unparseable.
func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) (time.Duration, bool) {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, true
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback, false
	}
	return d, true
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) (int, bool) {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback, false
	}
	return n, true
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string, fallback []string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return append([]string(nil), fallback...)
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
