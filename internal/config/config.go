package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fermentation_logger/internal/models"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "FERMLOG"

// Config is the full process configuration.
type Config struct {
	Port          string
	LogLevel      string
	DBPath        string
	SchedulerTick time.Duration

	Logging   models.LoggingConfig
	Auth      AuthConfig
	MQTT      MQTTConfig
	Simulator SimulatorConfig
}

// AuthConfig guards the /api/v1 routes with a single operator account.
type AuthConfig struct {
	Enabled      bool
	Username     string
	PasswordHash string // bcrypt
	JWTSecret    string
	TokenTTL     time.Duration
}

// MQTTConfig configures the optional reading subscriber.
type MQTTConfig struct {
	Enabled  bool
	Broker   string
	Port     int
	ClientID string
	Topic    string
}

// SimulatorConfig configures the optional fermentation chamber simulator.
type SimulatorConfig struct {
	Enabled bool
	Tick    time.Duration
}

// Loader reads configuration through a private viper instance.
type Loader struct {
	v *viper.Viper
}

// NewLoader prepares a loader for path; an empty path means configs/config.yml.
func NewLoader(path string) *Loader {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("scheduler.tick", "1s")

	v.SetDefault("logging.enabled", false)
	v.SetDefault("logging.period", "60")
	v.SetDefault("logging.method", string(models.MethodGet))
	v.SetDefault("logging.service", string(models.ServiceFormatString))
	v.SetDefault("logging.null_literal", models.DefaultNullLiteral)
	v.SetDefault("logging.timeout", models.DefaultSendTimeout.String())

	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.token_ttl", "1h")

	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.port", 1883)
	v.SetDefault("mqtt.client_id", "fermentation-logger")
	v.SetDefault("mqtt.topic", "brewpi/readings")

	v.SetDefault("simulator.enabled", false)
	v.SetDefault("simulator.tick", "1s")
}

// Load reads the config file, applies env overrides and validates the result.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return l.decodeAndValidate()
}

// Watch re-reads the file on change and hands the result to onChange.
// A reload that fails validation is reported through err and must not be applied.
func (l *Loader) Watch(onChange func(cfg Config, err error)) {
	l.v.OnConfigChange(func(_ fsnotify.Event) {
		onChange(l.decodeAndValidate())
	})
	l.v.WatchConfig()
}

func (l *Loader) decodeAndValidate() (Config, error) {
	cfg, err := decode(l.v)
	if err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (Config, error) {
	schedulerTick, err := parseDuration(v.GetString("scheduler.tick"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid scheduler.tick: %w", err)
	}

	logging, err := decodeLogging(v)
	if err != nil {
		return Config{}, err
	}

	tokenTTL, err := parseDuration(v.GetString("auth.token_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid auth.token_ttl: %w", err)
	}

	simTick, err := parseDuration(v.GetString("simulator.tick"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid simulator.tick: %w", err)
	}

	return Config{
		Port:          strings.TrimSpace(v.GetString("port")),
		LogLevel:      strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		DBPath:        strings.TrimSpace(v.GetString("db.path")),
		SchedulerTick: schedulerTick,
		Logging:       logging,
		Auth: AuthConfig{
			Enabled:      v.GetBool("auth.enabled"),
			Username:     strings.TrimSpace(v.GetString("auth.username")),
			PasswordHash: strings.TrimSpace(v.GetString("auth.password_hash")),
			JWTSecret:    v.GetString("auth.jwt_secret"),
			TokenTTL:     tokenTTL,
		},
		MQTT: MQTTConfig{
			Enabled:  v.GetBool("mqtt.enabled"),
			Broker:   strings.TrimSpace(v.GetString("mqtt.broker")),
			Port:     v.GetInt("mqtt.port"),
			ClientID: strings.TrimSpace(v.GetString("mqtt.client_id")),
			Topic:    strings.TrimSpace(v.GetString("mqtt.topic")),
		},
		Simulator: SimulatorConfig{
			Enabled: v.GetBool("simulator.enabled"),
			Tick:    simTick,
		},
	}, nil
}

func decodeLogging(v *viper.Viper) (models.LoggingConfig, error) {
	period, err := parseDuration(v.GetString("logging.period"))
	if err != nil {
		return models.LoggingConfig{}, fmt.Errorf("invalid logging.period: %w", err)
	}
	method, err := models.ParseMethod(v.GetString("logging.method"))
	if err != nil {
		return models.LoggingConfig{}, fmt.Errorf("logging.method: %w", err)
	}
	service, err := models.ParseServiceKind(v.GetString("logging.service"))
	if err != nil {
		return models.LoggingConfig{}, fmt.Errorf("logging.service: %w", err)
	}
	timeout, err := parseDuration(v.GetString("logging.timeout"))
	if err != nil {
		return models.LoggingConfig{}, fmt.Errorf("invalid logging.timeout: %w", err)
	}

	return models.LoggingConfig{
		Enabled:     v.GetBool("logging.enabled"),
		Period:      period.Truncate(time.Second),
		URL:         strings.TrimSpace(v.GetString("logging.url")),
		Format:      v.GetString("logging.format"),
		ContentType: strings.TrimSpace(v.GetString("logging.content_type")),
		Method:      method,
		Service:     service,
		NullLiteral: v.GetString("logging.null_literal"),
		Timeout:     timeout,
	}, nil
}

// parseDuration accepts a bare integer as seconds or a Go duration string.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%q is neither seconds nor a duration", s)
	}
	return d, nil
}
