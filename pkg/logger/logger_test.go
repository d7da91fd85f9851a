package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestColorHandlerWritesAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Info("graph built", "nodes", 4, "edges", 3)

	out := buf.String()
	if !strings.Contains(out, "graph built") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "nodes") || !strings.Contains(out, "=4") {
		t.Errorf("expected nodes=4 attribute, got %q", out)
	}
}

func TestColorHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}

	log := slog.New(h)
	log.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("expected no output for suppressed level, got %q", buf.String())
	}
}

func TestColorHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewColorHandler(&buf, nil))

	log.With("run_id", "abc").WithGroup("audit").Info("flagged", "rule", "age_out_of_range")

	out := buf.String()
	if !strings.Contains(out, "run_id") {
		t.Errorf("expected inherited attr, got %q", out)
	}
	if !strings.Contains(out, "audit") {
		t.Errorf("expected group prefix, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
