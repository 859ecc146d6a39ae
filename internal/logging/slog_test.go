package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newBufferLogger() (*SlogLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var m map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &m); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	return m
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newBufferLogger()
	ctx := context.Background()

	log.Info(ctx, "hello", "k", "v")
	m := lastLine(t, buf)
	if m["msg"] != "hello" || m["level"] != "INFO" || m["k"] != "v" {
		t.Fatalf("unexpected info line: %v", m)
	}

	log.Warn(ctx, "careful")
	if m := lastLine(t, buf); m["level"] != "WARN" {
		t.Fatalf("unexpected warn line: %v", m)
	}

	log.Error(ctx, "broken")
	if m := lastLine(t, buf); m["level"] != "ERROR" {
		t.Fatalf("unexpected error line: %v", m)
	}
}

func TestNewJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewJSON(buf)

	log.Info(context.Background(), "started", "addr", ":8080")

	m := lastLine(t, buf)
	if m["msg"] != "started" || m["addr"] != ":8080" {
		t.Fatalf("unexpected json line: %v", m)
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newBufferLogger()

	child := log.With("request_id", "abc-123")
	child.Info(context.Background(), "handled")

	m := lastLine(t, buf)
	if m["request_id"] != "abc-123" {
		t.Fatalf("expected request_id on child logger, got %v", m)
	}
}
