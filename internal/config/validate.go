package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"fermentation_logger/internal/logger"
	"fermentation_logger/internal/models"
	"fermentation_logger/internal/payload"
)

// Validate checks a decoded configuration. It never mutates cfg.
func Validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("port is required")
	}
	if !logger.IsKnownLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid log.level %q (allowed: debug, info, warn, error)", cfg.LogLevel)
	}
	if cfg.SchedulerTick <= 0 {
		return fmt.Errorf("scheduler.tick must be positive, got %v", cfg.SchedulerTick)
	}
	if err := ValidateLogging(cfg.Logging); err != nil {
		return err
	}

	if cfg.Auth.Enabled {
		if cfg.Auth.Username == "" || cfg.Auth.PasswordHash == "" {
			return errors.New("auth.username and auth.password_hash are required when auth is enabled")
		}
		if len(cfg.Auth.JWTSecret) < 16 {
			return errors.New("auth.jwt_secret must be at least 16 characters")
		}
		if cfg.Auth.TokenTTL <= 0 {
			return fmt.Errorf("auth.token_ttl must be positive, got %v", cfg.Auth.TokenTTL)
		}
	}

	if cfg.MQTT.Enabled {
		if cfg.MQTT.Broker == "" || cfg.MQTT.Topic == "" {
			return errors.New("mqtt.broker and mqtt.topic are required when mqtt is enabled")
		}
		if cfg.MQTT.Port <= 0 || cfg.MQTT.Port > 65535 {
			return fmt.Errorf("invalid mqtt.port %d", cfg.MQTT.Port)
		}
	}

	if cfg.Simulator.Enabled && cfg.Simulator.Tick <= 0 {
		return fmt.Errorf("simulator.tick must be positive, got %v", cfg.Simulator.Tick)
	}
	return nil
}

// ValidateLogging checks the push settings. A disabled config is only checked for
// template size so it can be enabled later without surprises.
func ValidateLogging(lc models.LoggingConfig) error {
	if len(lc.Format) > models.MaxTemplateBytes {
		return fmt.Errorf("logging.format is %d bytes (max %d)", len(lc.Format), models.MaxTemplateBytes)
	}
	if !lc.Enabled {
		return nil
	}

	if lc.Period < time.Second {
		return fmt.Errorf("logging.period must be at least 1s when enabled, got %v", lc.Period)
	}
	u, err := url.Parse(lc.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("logging.url %q must be an absolute http(s) URL", lc.URL)
	}
	if strings.Contains(lc.URL, "#") {
		return fmt.Errorf("logging.url %q must not contain a fragment", lc.URL)
	}
	if lc.Service == models.ServiceFormatString {
		if lc.Format == "" {
			return errors.New("logging.format is required for the format service")
		}
		if err := payload.ValidateTemplate(lc.Format); err != nil {
			return fmt.Errorf("logging.format: %w", err)
		}
	}
	if lc.Timeout <= 0 {
		return fmt.Errorf("logging.timeout must be positive, got %v", lc.Timeout)
	}
	return nil
}
