// Package config loads the monitor configuration from configs/config.yml and the environment using Viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Ordering policies for the dashboard reconciler.
const (
	PolicyArrival   = "arrival"
	PolicyMonotonic = "monotonic"
)

// Push modes of the reference backend.
const (
	PushModeDelta = "delta"
	PushModeBatch = "batch"
)

// envPrefix scopes environment overrides, e.g. MONITOR_DASHBOARD_SUBJECT_ID.
const envPrefix = "MONITOR"

// Config is the root configuration shared by both subcommands.
type Config struct {
	LogLevel  string    `mapstructure:"log_level"`
	Backend   Backend   `mapstructure:"backend"`
	Dashboard Dashboard `mapstructure:"dashboard"`
}

// Backend configures the reference backend.
type Backend struct {
	Port         string        `mapstructure:"port"`
	DBPath       string        `mapstructure:"db_path"`
	PushMode     string        `mapstructure:"push_mode"` // delta | batch
	Simulate     bool          `mapstructure:"simulate"`
	SimulateTick time.Duration `mapstructure:"simulate_tick"`

	// SimulateSubjects lists the subjects the simulator generates events for.
	SimulateSubjects []string `mapstructure:"simulate_subjects"`
}

// Dashboard configures the reconciliation engine and its view server.
type Dashboard struct {
	Port              string        `mapstructure:"port"`
	SubjectID         string        `mapstructure:"subject_id"`
	BaseURL           string        `mapstructure:"base_url"`
	PushURL           string        `mapstructure:"push_url"` // derived from BaseURL when empty
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	Policy            string        `mapstructure:"policy"` // arrival | monotonic
	TimelineMaxEvents int           `mapstructure:"timeline_max_events"`
	FetchTimeout      time.Duration `mapstructure:"fetch_timeout"`
	ReconnectInterval time.Duration `mapstructure:"reconnect_interval"`
}

var (
	errNoSubject     = errors.New("config: dashboard.subject_id must be set")
	errNoBaseURL     = errors.New("config: dashboard.base_url must be set")
	errBadPolicy     = errors.New("config: dashboard.policy must be arrival or monotonic")
	errBadPushMode   = errors.New("config: backend.push_mode must be delta or batch")
	errNegativeLimit = errors.New("config: dashboard.timeline_max_events must be >= 0")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("backend.port", "5000")
	v.SetDefault("backend.db_path", "monitor.db")
	v.SetDefault("backend.push_mode", PushModeDelta)
	v.SetDefault("backend.simulate", false)
	v.SetDefault("backend.simulate_tick", 5*time.Second)
	v.SetDefault("backend.simulate_subjects", []string{"001"})

	v.SetDefault("dashboard.port", "8080")
	v.SetDefault("dashboard.subject_id", "001")
	v.SetDefault("dashboard.base_url", "http://127.0.0.1:5000")
	v.SetDefault("dashboard.push_url", "")
	v.SetDefault("dashboard.poll_interval", 2*time.Second)
	v.SetDefault("dashboard.policy", PolicyArrival)
	v.SetDefault("dashboard.timeline_max_events", 10_000)
	v.SetDefault("dashboard.fetch_timeout", 5*time.Second)
	v.SetDefault("dashboard.reconnect_interval", 2*time.Second)
}

// Load reads the config file (if present), applies env overrides and defaults, and validates.
// An empty path looks for configs/config.yml; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Dashboard.Policy = strings.ToLower(strings.TrimSpace(c.Dashboard.Policy))
	c.Backend.PushMode = strings.ToLower(strings.TrimSpace(c.Backend.PushMode))

	if strings.TrimSpace(c.Dashboard.SubjectID) == "" {
		return errNoSubject
	}
	if c.Dashboard.BaseURL == "" {
		return errNoBaseURL
	}
	if _, err := url.Parse(c.Dashboard.BaseURL); err != nil {
		return fmt.Errorf("config: dashboard.base_url: %w", err)
	}
	switch c.Dashboard.Policy {
	case PolicyArrival, PolicyMonotonic:
	default:
		return errBadPolicy
	}
	switch c.Backend.PushMode {
	case PushModeDelta, PushModeBatch:
	default:
		return errBadPushMode
	}
	if c.Dashboard.TimelineMaxEvents < 0 {
		return errNegativeLimit
	}
	return nil
}

// PushEndpoint returns the push channel URL, deriving ws(s)://host/ws from BaseURL when unset.
// The subject is added as the subject query parameter so the backend only pushes its events.
func (d Dashboard) PushEndpoint() (string, error) {
	raw := d.PushURL
	if raw == "" {
		raw = d.BaseURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse push endpoint: %w", err)
	}
	if d.PushURL == "" {
		switch u.Scheme {
		case "https":
			u.Scheme = "wss"
		default:
			u.Scheme = "ws"
		}
		u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	}
	if d.SubjectID != "" {
		q := u.Query()
		if q.Get("subject") == "" {
			q.Set("subject", d.SubjectID)
			u.RawQuery = q.Encode()
		}
	}
	return u.String(), nil
}
