package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestToSystemLog(t *testing.T) {
	now := time.Now()
	record := slog.NewRecord(now, slog.LevelError, "moderation request failed", 0)
	record.AddAttrs(
		slog.String("request_id", "req-1"),
		slog.String("report_id", "r-1"),
		slog.String("action", "resolve reports"),
		slog.Any("error", errors.New("connection refused")),
		slog.Float64("latency_ms", 12.6),
		slog.String("path", "/api/reports"),
	)

	entry := toSystemLog(record, []slog.Attr{slog.String("person_id", "p-1")})

	if entry.Level != "ERROR" || entry.Message != "moderation request failed" || !entry.Timestamp.Equal(now) {
		t.Errorf("header = %s %q %v", entry.Level, entry.Message, entry.Timestamp)
	}
	if entry.RequestID != "req-1" || entry.Action != "resolve reports" || entry.Error != "connection refused" {
		t.Errorf("columns = %+v", entry)
	}
	if entry.PersonID == nil || *entry.PersonID != "p-1" {
		t.Errorf("PersonID = %v", entry.PersonID)
	}
	if entry.ReportID == nil || *entry.ReportID != "r-1" {
		t.Errorf("ReportID = %v", entry.ReportID)
	}
	if entry.LatencyMs != 13 {
		t.Errorf("LatencyMs = %d, want 13", entry.LatencyMs)
	}

	var extra map[string]interface{}
	if err := json.Unmarshal(entry.Extra, &extra); err != nil {
		t.Fatalf("decode extra: %v", err)
	}
	if len(extra) != 1 || extra["path"] != "/api/reports" {
		t.Errorf("Extra = %v", extra)
	}
}

func TestToSystemLog_NoExtra(t *testing.T) {
	record := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	record.AddAttrs(slog.String("action", "x"))
	if entry := toSystemLog(record, nil); entry.Extra != nil {
		t.Errorf("Extra = %s, want nil", entry.Extra)
	}
}

func TestPGHandler_BuffersErrorsWithPresetAttrs(t *testing.T) {
	h := &PGHandler{}
	if h.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should not reach the database")
	}

	logger := slog.New(h).With("person_id", "p-1").With("request_id", "req-9")
	logger.Error("failed", "action", "count reports")

	if len(h.buffer) != 1 {
		t.Fatalf("buffered %d entries, want 1", len(h.buffer))
	}
	entry := h.buffer[0]
	if entry.PersonID == nil || *entry.PersonID != "p-1" || entry.RequestID != "req-9" || entry.Action != "count reports" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var info, errs bytes.Buffer
	m := NewMultiHandler(
		NewJSONHandler(&info),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(m).With("service", "modqueue")

	logger.Debug("dropped")
	logger.Info("report filed")
	logger.Error("store down")

	if got := strings.Count(info.String(), "\n"); got != 2 {
		t.Errorf("info handler got %d lines, want 2: %s", got, info.String())
	}
	if got := strings.Count(errs.String(), "\n"); got != 1 {
		t.Errorf("error handler got %d lines, want 1: %s", got, errs.String())
	}
	if !strings.Contains(errs.String(), `"service":"modqueue"`) {
		t.Errorf("WithAttrs not propagated: %s", errs.String())
	}
	if m.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled on every handler")
	}
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink closed") }

func TestMultiHandler_KeepsGoingAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	m := NewMultiHandler(failingHandler{NewJSONHandler(&buf)}, NewJSONHandler(&buf))

	err := m.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0))
	if err == nil || !strings.Contains(err.Error(), "sink closed") {
		t.Errorf("err = %v, want sink closed", err)
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Error("second handler did not receive the record")
	}
}
