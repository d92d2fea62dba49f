package monitor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pipewatch/pipewatch/internal/models"
	"github.com/pipewatch/pipewatch/internal/runlog"
)

func newHealthRunner(t *testing.T, stats *fakeStats, sender *fakeSender) (*Health, string) {
	t.Helper()

	dir := t.TempDir()
	runner := NewHealth(testPipelines(), stats, sender, runlog.New(dir), nil, discardLogger())
	runner.now = func() time.Time { return fixedNow }
	return runner, dir
}

func TestHealth_RunAllHealthy(t *testing.T) {
	stats := &fakeStats{stats: map[string]models.PipelineStats{
		"fact_calls":         healthyStats(2, 1523, 1400),
		"dim_agent_activity": healthyStats(20, 240, 238),
	}}
	sender := &fakeSender{}
	runner, dir := newHealthRunner(t, stats, sender)

	code := runner.Run(context.Background())

	if code != ExitOK {
		t.Fatalf("Run() = %d, want %d", code, ExitOK)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d messages on a healthy run", len(sender.sent))
	}

	marker, err := os.ReadFile(filepath.Join(dir, "pipeline_health_last_success.txt"))
	if err != nil {
		t.Fatalf("success marker not written: %v", err)
	}
	if string(marker) != "2026-01-15T14:30:00Z" {
		t.Errorf("marker content = %q", marker)
	}
	if _, err := os.Stat(filepath.Join(dir, "pipeline_alerts.txt")); !os.IsNotExist(err) {
		t.Error("alert file written on a healthy run")
	}
}

func TestHealth_RunWithIssues(t *testing.T) {
	// fact_calls has no rows in the window; dim_agent_activity is fine.
	stats := &fakeStats{stats: map[string]models.PipelineStats{
		"fact_calls":         {},
		"dim_agent_activity": healthyStats(20, 240, 238),
	}}
	sender := &fakeSender{}
	runner, dir := newHealthRunner(t, stats, sender)

	code := runner.Run(context.Background())

	if code != ExitIssues {
		t.Fatalf("Run() = %d, want %d", code, ExitIssues)
	}

	// One plain-text alert plus one card per critical pipeline.
	if len(sender.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Text, "🚨 Pipeline Health Alert - 2026-01-15 14:30") {
		t.Errorf("alert text = %q", sender.sent[0].Text)
	}
	if !strings.Contains(sender.sent[0].Text, "❌ fact_calls: No data found in last 7 days") {
		t.Errorf("alert text missing issue line: %q", sender.sent[0].Text)
	}
	card := sender.sent[1]
	if len(card.Cards) != 1 || card.Cards[0].Header.Title != "🚨 CRITICAL PIPELINE FAILURE" {
		t.Errorf("second message = %+v, want critical card", card)
	}
	if card.Cards[0].Header.Subtitle != "fact_calls" {
		t.Errorf("critical card subtitle = %q", card.Cards[0].Header.Subtitle)
	}

	alerts, err := os.ReadFile(filepath.Join(dir, "pipeline_alerts.txt"))
	if err != nil {
		t.Fatalf("alert file not written: %v", err)
	}
	if !strings.Contains(string(alerts), "No data found in last 7 days") {
		t.Errorf("alert file content = %q", alerts)
	}
	if !strings.Contains(string(alerts), strings.Repeat("=", 50)) {
		t.Errorf("alert file missing separator: %q", alerts)
	}

	if _, err := os.Stat(filepath.Join(dir, "pipeline_health_last_success.txt")); !os.IsNotExist(err) {
		t.Error("success marker written despite issues")
	}
}

func TestHealth_RunWarningOnly(t *testing.T) {
	stats := &fakeStats{stats: map[string]models.PipelineStats{
		"fact_calls":         healthyStats(13, 1400, 1300),
		"dim_agent_activity": healthyStats(20, 240, 238),
	}}
	sender := &fakeSender{}
	runner, _ := newHealthRunner(t, stats, sender)

	code := runner.Run(context.Background())

	if code != ExitIssues {
		t.Fatalf("Run() = %d, want %d for a warning", code, ExitIssues)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want text alert only for warnings", len(sender.sent))
	}
	if sender.sent[0].Text == "" {
		t.Error("warning alert message has no text payload")
	}
}

func TestHealth_RunAppliesVolumeCheck(t *testing.T) {
	// Fresh data but under the volume floor after the checking hour.
	stats := &fakeStats{stats: map[string]models.PipelineStats{
		"fact_calls":         healthyStats(2, 450, 1400),
		"dim_agent_activity": healthyStats(20, 240, 238),
	}}
	sender := &fakeSender{}
	runner, _ := newHealthRunner(t, stats, sender)

	code := runner.Run(context.Background())

	if code != ExitIssues {
		t.Fatalf("Run() = %d, want %d for low volume", code, ExitIssues)
	}
	if !strings.Contains(sender.sent[0].Text, "⚠️ fact_calls") {
		t.Errorf("alert text missing volume warning: %q", sender.sent[0].Text)
	}
}

func TestHealth_RunQueryError(t *testing.T) {
	stats := &fakeStats{stats: map[string]models.PipelineStats{}}
	sender := &fakeSender{}
	runner, _ := newHealthRunner(t, stats, sender)

	if code := runner.Run(context.Background()); code != ExitDatabase {
		t.Errorf("Run() = %d, want %d", code, ExitDatabase)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d messages after a query failure", len(sender.sent))
	}
}

func TestHealth_RunSenderDisabled(t *testing.T) {
	stats := &fakeStats{stats: map[string]models.PipelineStats{
		"fact_calls":         {},
		"dim_agent_activity": healthyStats(20, 240, 238),
	}}
	sender := &fakeSender{disabled: true}
	runner, dir := newHealthRunner(t, stats, sender)

	code := runner.Run(context.Background())

	if code != ExitIssues {
		t.Fatalf("Run() = %d, want %d", code, ExitIssues)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d messages with a disabled sender", len(sender.sent))
	}
	if _, err := os.Stat(filepath.Join(dir, "pipeline_alerts.txt")); err != nil {
		t.Errorf("alert file should be written even without a webhook: %v", err)
	}
}

func TestHealth_RunSendFailureStillExitsOnHealth(t *testing.T) {
	stats := &fakeStats{stats: map[string]models.PipelineStats{
		"fact_calls":         {},
		"dim_agent_activity": healthyStats(20, 240, 238),
	}}
	sender := &fakeSender{sendErr: context.DeadlineExceeded}
	runner, _ := newHealthRunner(t, stats, sender)

	if code := runner.Run(context.Background()); code != ExitIssues {
		t.Errorf("Run() = %d, want %d despite send failure", code, ExitIssues)
	}
}
