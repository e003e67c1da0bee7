package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuitale/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	wpm, cpm, acc := SessionMetrics(300, 100, 60000)
	if cpm != 300 {
		t.Fatalf("expected 300 CPM, got %v", cpm)
	}
	if wpm != 60 {
		t.Fatalf("expected 60 WPM, got %v", wpm)
	}
	if acc != 0.75 {
		t.Fatalf("expected accuracy 0.75, got %v", acc)
	}
}

func TestSessionMetricsZeroDuration(t *testing.T) {
	wpm, cpm, acc := SessionMetrics(10, 0, 0)
	if wpm != 0 || cpm != 0 || acc != 0 {
		t.Fatalf("expected zero metrics for zero duration, got %v %v %v", wpm, cpm, acc)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	out := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], out[i])
		}
	}
}

func TestSparklineConstantSeries(t *testing.T) {
	out := Sparkline([]float64{5, 5, 5})
	if len(out) != 3 {
		t.Fatalf("expected 3 chars, got %q", out)
	}
	if out[0] != out[1] || out[1] != out[2] {
		t.Fatalf("expected uniform sparkline, got %q", out)
	}
}

func TestSparklineRange(t *testing.T) {
	out := Sparkline([]float64{0, 10})
	if out[0] != sparkChars[0] {
		t.Fatalf("expected minimum glyph first, got %q", out)
	}
	if out[1] != sparkChars[len(sparkChars)-1] {
		t.Fatalf("expected maximum glyph last, got %q", out)
	}
}

func TestResample(t *testing.T) {
	values := []float64{1, 1, 3, 3}
	out := Resample(values, 2)
	if len(out) != 2 || out[0] != 1 || out[1] != 3 {
		t.Fatalf("unexpected resample: %v", out)
	}
	short := Resample([]float64{1, 2}, 10)
	if len(short) != 2 {
		t.Fatalf("expected short series untouched, got %v", short)
	}
}

func testSessions() []model.SessionAggregate {
	base := time.Unix(0, 0).UTC()
	return []model.SessionAggregate{
		{SessionID: 1, StoryPath: "alice.txt", EndedAt: base.Add(time.Hour), Chars: 300, Errors: 100, DurationMs: 60000},
		{SessionID: 2, StoryPath: "alice.txt", EndedAt: base.Add(2 * time.Hour), Chars: 400, Errors: 0, DurationMs: 60000},
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, testSessions()); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Best WPM: 80.00", "Avg WPM: 70.00", "Characters typed: 700"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestRenderSessionsTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSessions(&buf, testSessions()); err != nil {
		t.Fatalf("render sessions: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "alice.txt") || !strings.Contains(out, "80.0") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
}

func TestRenderCurves(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCurves(&buf, testSessions(), 1, 40); err != nil {
		t.Fatalf("render curves: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "WPM") || !strings.Contains(out, "Accuracy") {
		t.Fatalf("curves missing series labels:\n%s", out)
	}
	if !strings.Contains(out, "min 60.0 max 80.0") {
		t.Fatalf("curves missing min/max labels:\n%s", out)
	}
}

func TestRenderCurvesSkipsSingleSession(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCurves(&buf, testSessions()[:1], 1, 40); err != nil {
		t.Fatalf("render curves: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for a single session, got %q", buf.String())
	}
}
