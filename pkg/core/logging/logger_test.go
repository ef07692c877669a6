package logging

import (
	"bytes"
	"io"
	"strings"
	"testing"

	mdwlog "github.com/msto63/mathcfg/foundation/core/log"
	"github.com/msto63/mathcfg/pkg/core/config"
)

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("mathcfg")

	if cfg.ServiceName != "mathcfg" {
		t.Errorf("ServiceName = %v, want mathcfg", cfg.ServiceName)
	}
	if cfg.Level != "warn" {
		t.Errorf("Level = %v, want warn", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("Format = %v, want console", cfg.Format)
	}
}

func TestFromConfig(t *testing.T) {
	appCfg := config.Default()
	appCfg.General.LogLevel = "debug"
	appCfg.General.LogFormat = "json"

	cfg := FromConfig("serve", appCfg)
	if cfg.Level != "debug" || cfg.Format != "json" || cfg.ServiceName != "serve" {
		t.Errorf("FromConfig() = %+v", cfg)
	}

	if got := FromConfig("x", nil); got.Level != "warn" {
		t.Errorf("FromConfig(nil).Level = %v, want warn", got.Level)
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel mdwlog.Level
	}{
		{"debug json", "debug", "json", mdwlog.LevelDebug},
		{"trace text", "trace", "text", mdwlog.LevelTrace},
		{"invalid falls back", "loud", "xml", mdwlog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(LoggerConfig{ServiceName: "test", Level: tt.level, Format: tt.format})
			if logger.GetLevel() != tt.wantLevel {
				t.Errorf("GetLevel() = %v, want %v", logger.GetLevel(), tt.wantLevel)
			}
		})
	}
}

func TestNewLogger_Outputs(t *testing.T) {
	var primary, extra bytes.Buffer
	logger := NewLogger(LoggerConfig{
		ServiceName:       "test",
		Level:             "info",
		Format:            "json",
		Output:            &primary,
		AdditionalOutputs: []io.Writer{&extra},
	})

	logger.Info("server started")

	for name, buf := range map[string]*bytes.Buffer{"primary": &primary, "extra": &extra} {
		out := buf.String()
		if !strings.Contains(out, `"message":"server started"`) || !strings.Contains(out, `"logger":"test"`) {
			t.Errorf("%s output = %s", name, out)
		}
	}
}

func TestNewSimpleLogger(t *testing.T) {
	logger := NewSimpleLogger("mathcfg")
	if logger == nil {
		t.Fatal("NewSimpleLogger() returned nil")
	}
	if logger.IsLevelEnabled(mdwlog.LevelInfo) {
		t.Error("Info should be disabled at the default warn level")
	}
}
