package profile

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Configuration keys. Each maps to FECHADOR_<KEY> with dots replaced by underscores.
const (
	KeyMode            = "mode"
	KeyAddr            = "addr"
	KeyPort            = "port"
	KeyDefaultTimezone = "timezone"
	KeyAPIKey          = "api-key"
	KeyRateLimitRPS    = "rate-limit.rps"
	KeyRateLimitBurst  = "rate-limit.burst"
	KeyJournalDSN      = "journal.dsn"

	KeyLLMProvider  = "llm.provider"
	KeyLLMModel     = "llm.model"
	KeyLLMAPIKey    = "llm.api-key"
	KeyLLMBaseURL   = "llm.base-url"
	KeyLLMMaxTokens = "llm.max-tokens"
	KeyModelTimeout = "llm.timeout"

	KeyFallbackCacheSize = "fallback.cache-size"
	KeyFallbackCacheTTL  = "fallback.cache-ttl"

	KeyWeekendSkip              = "policy.weekend-skip"
	KeyDefaultHour              = "policy.default-hour"
	KeyMorningWindow            = "policy.morning-window"
	KeyMorningWindowWeekday     = "policy.morning-window-weekday"
	KeyAmbiguousHourPMThreshold = "policy.ambiguous-hour-pm-threshold"
	KeyCorrectPastWeekdays      = "policy.correct-past-weekdays"
	KeyAssignDefaultHour        = "policy.assign-default-hour"
	KeyPromoteAmbiguousHour     = "policy.promote-ambiguous-hour"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "FECHADOR"

// Profile is the configuration to start the resolver.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Version is the current version of server
	Version string
	// DefaultTimezone is used when a request carries no zona_horaria
	DefaultTimezone string
	// APIKey enables X-API-Key authentication when non-empty
	APIKey string

	RateLimitRPS   float64
	RateLimitBurst int

	// JournalDSN points to the sqlite resolution journal; empty disables it
	JournalDSN string

	LLMProvider  string // openai, deepseek, anthropic, none
	LLMModel     string
	LLMAPIKey    string
	LLMBaseURL   string
	LLMMaxTokens int
	ModelTimeout time.Duration

	FallbackCacheSize int
	FallbackCacheTTL  time.Duration

	WeekendSkip              bool
	DefaultHour              int
	MorningWindow            bool
	MorningWindowWeekday     string
	AmbiguousHourPMThreshold int
	CorrectPastWeekdays      bool
	AssignDefaultHour        bool
	PromoteAmbiguousHour     bool
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyMode, "dev")
	v.SetDefault(KeyAddr, "")
	v.SetDefault(KeyPort, 8081)
	v.SetDefault(KeyDefaultTimezone, "Europe/Madrid")
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyRateLimitRPS, 10.0)
	v.SetDefault(KeyRateLimitBurst, 20)
	v.SetDefault(KeyJournalDSN, "")

	v.SetDefault(KeyLLMProvider, "none")
	v.SetDefault(KeyLLMModel, "")
	v.SetDefault(KeyLLMAPIKey, "")
	v.SetDefault(KeyLLMBaseURL, "")
	v.SetDefault(KeyLLMMaxTokens, 64)
	v.SetDefault(KeyModelTimeout, "12s")

	v.SetDefault(KeyFallbackCacheSize, 512)
	v.SetDefault(KeyFallbackCacheTTL, "10m")

	v.SetDefault(KeyWeekendSkip, true)
	v.SetDefault(KeyDefaultHour, 12)
	v.SetDefault(KeyMorningWindow, false)
	v.SetDefault(KeyMorningWindowWeekday, "friday")
	v.SetDefault(KeyAmbiguousHourPMThreshold, 7)
	v.SetDefault(KeyCorrectPastWeekdays, true)
	v.SetDefault(KeyAssignDefaultHour, true)
	v.SetDefault(KeyPromoteAmbiguousHour, true)
}

// NewViper returns a viper instance reading FECHADOR_* variables with defaults set.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// LoadDotEnv loads the given .env files, or ./.env when none is named.
// A missing default file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
	}
	if err := godotenv.Load(files...); err != nil {
		return errors.Wrap(err, "failed to load .env file")
	}
	return nil
}

// FromViper builds a profile from v. An optional config file named by
// configFile is merged before reading.
func FromViper(v *viper.Viper, configFile string) (*Profile, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}

	p := &Profile{
		Mode:            v.GetString(KeyMode),
		Addr:            v.GetString(KeyAddr),
		Port:            v.GetInt(KeyPort),
		DefaultTimezone: v.GetString(KeyDefaultTimezone),
		APIKey:          v.GetString(KeyAPIKey),
		RateLimitRPS:    v.GetFloat64(KeyRateLimitRPS),
		RateLimitBurst:  v.GetInt(KeyRateLimitBurst),
		JournalDSN:      v.GetString(KeyJournalDSN),

		LLMProvider:  strings.ToLower(v.GetString(KeyLLMProvider)),
		LLMModel:     v.GetString(KeyLLMModel),
		LLMAPIKey:    v.GetString(KeyLLMAPIKey),
		LLMBaseURL:   v.GetString(KeyLLMBaseURL),
		LLMMaxTokens: v.GetInt(KeyLLMMaxTokens),
		ModelTimeout: v.GetDuration(KeyModelTimeout),

		FallbackCacheSize: v.GetInt(KeyFallbackCacheSize),
		FallbackCacheTTL:  v.GetDuration(KeyFallbackCacheTTL),

		WeekendSkip:              v.GetBool(KeyWeekendSkip),
		DefaultHour:              v.GetInt(KeyDefaultHour),
		MorningWindow:            v.GetBool(KeyMorningWindow),
		MorningWindowWeekday:     v.GetString(KeyMorningWindowWeekday),
		AmbiguousHourPMThreshold: v.GetInt(KeyAmbiguousHourPMThreshold),
		CorrectPastWeekdays:      v.GetBool(KeyCorrectPastWeekdays),
		AssignDefaultHour:        v.GetBool(KeyAssignDefaultHour),
		PromoteAmbiguousHour:     v.GetBool(KeyPromoteAmbiguousHour),
	}
	return p, nil
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsLLMEnabled reports whether a model provider is configured.
func (p *Profile) IsLLMEnabled() bool {
	return p.LLMProvider != "" && p.LLMProvider != "none"
}

// Location returns the default request zone. Call after Validate.
func (p *Profile) Location() *time.Location {
	loc, err := time.LoadLocation(p.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MorningWeekday returns the weekday exempted by the morning window.
func (p *Profile) MorningWeekday() time.Weekday {
	wd, _ := ParseWeekday(p.MorningWindowWeekday)
	return wd
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses an English weekday name, case-insensitively.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return time.Sunday, errors.Errorf("unknown weekday %q", name)
	}
	return wd, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}

	if _, err := time.LoadLocation(p.DefaultTimezone); err != nil {
		slog.Error("failed to load default timezone", slog.String("timezone", p.DefaultTimezone), slog.String("error", err.Error()))
		return errors.Wrapf(err, "invalid default timezone %q", p.DefaultTimezone)
	}

	if p.DefaultHour < 0 || p.DefaultHour > 23 {
		return errors.Errorf("default hour must be within 0..23, got %d", p.DefaultHour)
	}
	if p.AmbiguousHourPMThreshold < 0 || p.AmbiguousHourPMThreshold > 11 {
		return errors.Errorf("ambiguous hour threshold must be within 0..11, got %d", p.AmbiguousHourPMThreshold)
	}
	if _, err := ParseWeekday(p.MorningWindowWeekday); err != nil {
		return errors.Wrap(err, "invalid morning window weekday")
	}

	switch p.LLMProvider {
	case "", "none":
		p.LLMProvider = "none"
	case "openai", "deepseek", "anthropic":
		if p.LLMAPIKey == "" {
			return errors.Errorf("llm provider %s requires an API key", p.LLMProvider)
		}
	default:
		return errors.Errorf("unsupported llm provider %q", p.LLMProvider)
	}

	if p.RateLimitRPS < 0 || p.RateLimitBurst < 0 {
		return errors.New("rate limit values must not be negative")
	}
	return nil
}
