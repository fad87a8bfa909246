package models

import (
	"fmt"
	"strings"
	"time"
)

// Method is the HTTP verb used to deliver a payload.
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
	MethodPut  Method = "PUT"
)

// ServiceKind selects the payload serializer.
type ServiceKind string

const (
	ServiceFormatString ServiceKind = "format"
	ServiceNonNullJSON  ServiceKind = "json"
)

// Payload limits shared by the serializers and config validation.
const (
	MaxPayloadBytes  = 512
	MaxTemplateBytes = 1024
)

const (
	DefaultContentType = "application/x-www-form-urlencoded"
	DefaultNullLiteral = "null"
	DefaultSendTimeout = 10 * time.Second
)

// LoggingConfig describes where and how readings are pushed.
// The core only reads it; configuration management owns updates.
type LoggingConfig struct {
	Enabled     bool          `json:"enabled"`
	Period      time.Duration `json:"period"`
	URL         string        `json:"url"`
	Format      string        `json:"format,omitempty"`       // template, used by ServiceFormatString
	ContentType string        `json:"content_type,omitempty"` // empty means DefaultContentType
	Method      Method        `json:"method"`
	Service     ServiceKind   `json:"service"`
	NullLiteral string        `json:"null_literal,omitempty"` // token for invalid values in templates
	Timeout     time.Duration `json:"timeout"`
}

// EffectiveContentType returns the Content-Type header for POST/PUT.
func (c LoggingConfig) EffectiveContentType() string {
	if strings.TrimSpace(c.ContentType) == "" {
		return DefaultContentType
	}
	return c.ContentType
}

// EffectiveNullLiteral returns the token substituted for invalid template values.
func (c LoggingConfig) EffectiveNullLiteral() string {
	if c.NullLiteral == "" {
		return DefaultNullLiteral
	}
	return c.NullLiteral
}

// EffectiveTimeout returns the request timeout, falling back to DefaultSendTimeout.
func (c LoggingConfig) EffectiveTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultSendTimeout
	}
	return c.Timeout
}

// HasBody reports whether the payload travels in the request body.
func (m Method) HasBody() bool {
	return m == MethodPost || m == MethodPut
}

// ParseMethod normalizes a verb name.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(strings.TrimSpace(s))); m {
	case MethodGet, MethodPost, MethodPut:
		return m, nil
	default:
		return "", fmt.Errorf("invalid method %q (allowed: GET, POST, PUT)", s)
	}
}

// ParseServiceKind accepts the short names plus the historical long ones.
func ParseServiceKind(s string) (ServiceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "format", "formatstring", "format_string":
		return ServiceFormatString, nil
	case "json", "nonnulljson", "non_null_json":
		return ServiceNonNullJSON, nil
	default:
		return "", fmt.Errorf("invalid service %q (allowed: format, json)", s)
	}
}
