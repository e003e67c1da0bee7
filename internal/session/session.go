// Package session implements the typing session engine: cursor and
// outcome tracking, keystroke classification, and timing.
package session

import (
	"fmt"
	"time"
)

// Outcome classifies a position in the target text or the result of a
// handled input event.
type Outcome int

const (
	// OutcomeUntyped marks a position not yet reached.
	OutcomeUntyped Outcome = iota
	// OutcomeCorrect marks a completed position.
	OutcomeCorrect
	// OutcomeIncorrect marks a failed attempt pending at the cursor.
	OutcomeIncorrect
	// OutcomeCorrected marks a position backspaced over after a mistake,
	// pending retype.
	OutcomeCorrected
	// OutcomeIgnored reports input that is a defined no-op: keystrokes
	// after completion and backspace at the start.
	OutcomeIgnored
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeUntyped:
		return "untyped"
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeCorrected:
		return "corrected"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// State is the session lifecycle phase.
type State int

const (
	// StateNotStarted means no keystroke has been classified yet.
	StateNotStarted State = iota
	// StateActive means typing is in progress.
	StateActive
	// StateComplete means the cursor reached the end of the text.
	// Terminal for input; statistics remain queryable.
	StateComplete
)

// Session tracks typing progress through a fixed target text. It is
// single-threaded by contract: one event loop feeds it keystrokes.
type Session struct {
	target   []rune
	cursor   int
	marks    []Outcome
	attempts []int
	wrong    rune // observed char of the pending incorrect attempt

	startedAt   time.Time
	active      time.Duration
	activeSince time.Time

	now func() time.Time
}

// Snapshot is a point-in-time statistics view of a session.
type Snapshot struct {
	Typed    int
	Attempts int
	Accuracy float64
	Elapsed  time.Duration
	// CPM is characters per minute over active time. It is meaningless
	// while SpeedValid is false (no active time accumulated yet).
	CPM        float64
	SpeedValid bool
}

// Saved is the persistable engine state. The session has no knowledge
// of how or where it is stored.
type Saved struct {
	Cursor   int
	Attempts map[int]int
	Pending  Outcome
	Wrong    rune
	Elapsed  time.Duration
}

// New creates a fresh session over the target text.
func New(target []rune) *Session {
	return &Session{
		target:   target,
		marks:    make([]Outcome, len(target)),
		attempts: make([]int, len(target)),
		now:      time.Now,
	}
}

// Restore rebuilds a session from previously saved state. It validates
// the saved fields against the target so a stale or corrupt record
// cannot produce an inconsistent session.
func Restore(target []rune, sv Saved) (*Session, error) {
	if sv.Cursor < 0 || sv.Cursor > len(target) {
		return nil, fmt.Errorf("cursor %d out of range [0, %d]", sv.Cursor, len(target))
	}
	if sv.Elapsed < 0 {
		return nil, fmt.Errorf("negative elapsed time")
	}
	switch sv.Pending {
	case OutcomeUntyped, OutcomeIncorrect, OutcomeCorrected:
	default:
		return nil, fmt.Errorf("invalid pending outcome %v", sv.Pending)
	}
	if sv.Pending != OutcomeUntyped && sv.Cursor == len(target) {
		return nil, fmt.Errorf("pending outcome at end of text")
	}

	s := New(target)
	s.cursor = sv.Cursor
	s.active = sv.Elapsed
	for i := 0; i < sv.Cursor; i++ {
		s.marks[i] = OutcomeCorrect
	}
	for pos, count := range sv.Attempts {
		if pos < 0 || pos >= len(target) || count < 0 {
			return nil, fmt.Errorf("attempt entry out of range: pos=%d count=%d", pos, count)
		}
		s.attempts[pos] = count
	}
	if sv.Pending != OutcomeUntyped {
		s.marks[sv.Cursor] = sv.Pending
		s.wrong = sv.Wrong
	}
	if s.cursor > 0 || s.active > 0 {
		// Resumed sessions count as started; the original start
		// time is not preserved across runs.
		s.startedAt = s.now()
	}
	return s, nil
}

// Save captures the engine state for persistence.
func (s *Session) Save() Saved {
	attempts := map[int]int{}
	for pos, count := range s.attempts {
		if count > 0 {
			attempts[pos] = count
		}
	}
	pending := OutcomeUntyped
	var wrong rune
	if s.cursor < len(s.target) {
		switch s.marks[s.cursor] {
		case OutcomeIncorrect:
			pending = OutcomeIncorrect
			wrong = s.wrong
		case OutcomeCorrected:
			pending = OutcomeCorrected
		}
	}
	return Saved{
		Cursor:   s.cursor,
		Attempts: attempts,
		Pending:  pending,
		Wrong:    wrong,
		Elapsed:  s.Elapsed(),
	}
}

// Len returns the target text length.
func (s *Session) Len() int {
	return len(s.target)
}

// Cursor returns the current position in the target text.
func (s *Session) Cursor() int {
	return s.cursor
}

// CurrentChar returns the expected character at the cursor. ok is false
// when the session is complete.
func (s *Session) CurrentChar() (rune, bool) {
	if s.cursor >= len(s.target) {
		return 0, false
	}
	return s.target[s.cursor], true
}

// IsComplete reports whether the cursor reached the end of the text.
func (s *Session) IsComplete() bool {
	return s.cursor == len(s.target)
}

// State returns the lifecycle phase.
func (s *Session) State() State {
	switch {
	case s.IsComplete():
		return StateComplete
	case s.startedAt.IsZero():
		return StateNotStarted
	default:
		return StateActive
	}
}

// OutcomeAt returns the recorded outcome for position i.
func (s *Session) OutcomeAt(i int) Outcome {
	if i < 0 || i >= len(s.marks) {
		return OutcomeUntyped
	}
	return s.marks[i]
}

// AttemptsAt returns the incorrect-attempt count recorded at position i.
func (s *Session) AttemptsAt(i int) int {
	if i < 0 || i >= len(s.attempts) {
		return 0
	}
	return s.attempts[i]
}

// WrongChar returns the observed character of the pending incorrect
// attempt at the cursor. ok is false when no attempt is pending.
func (s *Session) WrongChar() (rune, bool) {
	if s.cursor < len(s.target) && s.marks[s.cursor] == OutcomeIncorrect {
		return s.wrong, true
	}
	return 0, false
}

// StartedAt returns the time of the first classified keystroke, zero
// before the session starts.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// HandleKey classifies one input character against the expected one.
// A match records Correct and advances the cursor; a mismatch records
// Incorrect with the observed character and does not advance: the
// correct character must be typed before progressing.
func (s *Session) HandleKey(r rune) Outcome {
	if s.IsComplete() {
		return OutcomeIgnored
	}
	s.touch()
	if r == s.target[s.cursor] {
		s.marks[s.cursor] = OutcomeCorrect
		s.wrong = 0
		s.cursor++
		if s.IsComplete() {
			s.foldActive()
		}
		return OutcomeCorrect
	}
	s.marks[s.cursor] = OutcomeIncorrect
	s.wrong = r
	s.attempts[s.cursor]++
	return OutcomeIncorrect
}

// HandleBackspace steps the cursor back by one. The position stepped
// onto is marked Corrected when it carries prior incorrect attempts,
// Untyped otherwise. At the start of the text it is a no-op.
func (s *Session) HandleBackspace() Outcome {
	if s.IsComplete() || s.cursor == 0 {
		return OutcomeIgnored
	}
	s.resume()
	s.marks[s.cursor] = OutcomeUntyped
	s.wrong = 0
	s.cursor--
	if s.attempts[s.cursor] > 0 {
		s.marks[s.cursor] = OutcomeCorrected
	} else {
		s.marks[s.cursor] = OutcomeUntyped
	}
	return OutcomeCorrected
}

// Pause folds the running active time. Idempotent.
func (s *Session) Pause() {
	s.foldActive()
}

// Resume restarts the active clock for a started session. Idempotent;
// a no-op before the first keystroke and after completion.
func (s *Session) Resume() {
	if s.IsComplete() {
		return
	}
	s.resume()
}

// Elapsed returns the accumulated active duration.
func (s *Session) Elapsed() time.Duration {
	elapsed := s.active
	if !s.activeSince.IsZero() {
		elapsed += s.now().Sub(s.activeSince)
	}
	return elapsed
}

// Stats returns the current accuracy/speed snapshot. Attempts count
// only incorrect events recorded at completed positions, so retries
// lower accuracy even though those positions end up correct.
func (s *Session) Stats() Snapshot {
	typed := s.cursor
	attempts := 0
	for i := 0; i < s.cursor; i++ {
		attempts += s.attempts[i]
	}
	accuracy := 1.0
	if typed+attempts > 0 {
		accuracy = float64(typed) / float64(typed+attempts)
	}
	elapsed := s.Elapsed()
	snap := Snapshot{
		Typed:    typed,
		Attempts: attempts,
		Accuracy: accuracy,
		Elapsed:  elapsed,
	}
	if elapsed > 0 {
		snap.CPM = float64(typed) / elapsed.Minutes()
		snap.SpeedValid = true
	}
	return snap
}

// touch starts the session on the first keystroke and resumes a paused
// one: any classified keystroke counts as activity.
func (s *Session) touch() {
	if s.startedAt.IsZero() {
		now := s.now()
		s.startedAt = now
		s.activeSince = now
		return
	}
	s.resume()
}

func (s *Session) resume() {
	if s.startedAt.IsZero() || !s.activeSince.IsZero() {
		return
	}
	s.activeSince = s.now()
}

func (s *Session) foldActive() {
	if s.activeSince.IsZero() {
		return
	}
	s.active += s.now().Sub(s.activeSince)
	s.activeSince = time.Time{}
}
