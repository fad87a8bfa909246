package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := toZapLevel(in); got != want {
			t.Errorf("toZapLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsKnownLevel(t *testing.T) {
	for _, l := range []string{"debug", " INFO ", "warn", "warning", "error"} {
		if !IsKnownLevel(l) {
			t.Errorf("IsKnownLevel(%q) = false", l)
		}
	}
	if IsKnownLevel("trace") {
		t.Errorf("IsKnownLevel(trace) = true")
	}
}

func TestNamedAndNop(t *testing.T) {
	l := Nop().Named("scheduler")
	if l == nil || l.SugaredLogger == nil {
		t.Fatal("Named returned an empty logger")
	}
	l.Infow("delivery_sent", "status", 200)
}
