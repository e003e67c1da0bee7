// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tuitale/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes WPM, CPM, and accuracy for a stored session.
// Errors are incorrect keystroke attempts, so retries lower accuracy.
func SessionMetrics(chars, errors int, durationMs int64) (wpm, cpm, accuracy float64) {
	if durationMs <= 0 {
		return 0, 0, 0
	}
	minutes := float64(durationMs) / 60000.0
	wpm = (float64(chars) / 5.0) / minutes
	cpm = float64(chars) / minutes
	den := float64(chars + errors)
	if den > 0 {
		accuracy = float64(chars) / den
	}
	return wpm, cpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample shrinks a series to at most width points by averaging
// buckets, so a long history fits one terminal line.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		if hi <= lo {
			hi = lo + 1
		}
		sum := 0.0
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// RenderSummary prints a summary of stored sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalCPM, totalAcc float64
	bestWPM := 0.0
	totalChars := 0
	for _, s := range sessions {
		wpm, cpm, acc := SessionMetrics(s.Chars, s.Errors, s.DurationMs)
		totalWPM += wpm
		totalCPM += cpm
		totalAcc += acc
		totalChars += s.Chars
		if wpm > bestWPM {
			bestWPM = wpm
		}
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Characters typed: %d", totalChars),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg CPM: %.2f", totalCPM/count),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSessions prints a table of the stored sessions.
func RenderSessions(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		return nil
	}
	headers := []string{"Ended", "Story", "Chars", "Errors", "WPM", "Accuracy"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		wpm, _, acc := SessionMetrics(s.Chars, s.Errors, s.DurationMs)
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.StoryPath,
			fmt.Sprintf("%d", s.Chars),
			fmt.Sprintf("%d", s.Errors),
			fmt.Sprintf("%.1f", wpm),
			fmt.Sprintf("%.1f%%", acc*100),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves prints WPM and accuracy learning curves as labelled
// sparklines sized to the given width.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) < 2 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpm, _, acc := SessionMetrics(s.Chars, s.Errors, s.DurationMs)
		wpms[i] = wpm
		accs[i] = acc * 100
	}
	wpms = MovingAverage(wpms, window)
	accs = MovingAverage(accs, window)

	if _, err := fmt.Fprintln(w, "Learning Curves"); err != nil {
		return err
	}
	if err := renderCurve(w, "WPM", wpms, width); err != nil {
		return err
	}
	if err := renderCurve(w, "Accuracy", accs, width); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func renderCurve(w io.Writer, name string, values []float64, width int) error {
	lineWidth := width - 10 // room for the label column
	if lineWidth < 10 {
		lineWidth = 10
	}
	sampled := Resample(values, lineWidth)
	minVal, maxVal := sampled[0], sampled[0]
	for _, v := range sampled[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	_, err := fmt.Fprintf(w, "%-9s|%s| min %.1f max %.1f\n", name, Sparkline(sampled), minVal, maxVal)
	return err
}
