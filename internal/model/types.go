// Package model defines shared data structures.
package model

import "time"

// Config defines practice UI settings.
type Config struct {
	Layout       string
	ShowKeyboard bool
	ProgressPath string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Story       string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionStats captures a completed typing session.
type SessionStats struct {
	Fingerprint string
	StoryPath   string
	StartedAt   time.Time
	EndedAt     time.Time
	Chars       int
	Errors      int
	DurationMs  int64
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID  int64
	StoryPath  string
	EndedAt    time.Time
	Chars      int
	Errors     int
	DurationMs int64
}
