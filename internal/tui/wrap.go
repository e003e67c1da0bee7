// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuitale/internal/session"
	"github.com/verte-zerg/tuitale/internal/text"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
	isBreak bool
}

// buildStyledRunes styles the target slice [start, end) from the
// session's per-position outcomes. Completed positions render in the
// correct style; the cursor position reflects its pending mark.
func buildStyledRunes(target []rune, sess *session.Session, words []wordRange, start, end int) []styledRune {
	cursor := sess.Cursor()
	currentWord := wordForCursor(words, cursor)

	out := make([]styledRune, 0, end-start)
	for i := start; i < end; i++ {
		r := target[i]
		displayed := r
		style := pendingStyle
		switch {
		case i < cursor:
			style = correctStyle
		case i == cursor:
			switch sess.OutcomeAt(i) {
			case session.OutcomeIncorrect:
				style = incorrectStyle.Underline(true)
				if wrong, ok := sess.WrongChar(); ok && r == ' ' && wrong != ' ' {
					displayed = '•'
				}
			case session.OutcomeCorrected:
				style = correctedStyle.Underline(true)
			default:
				style = cursorStyle
			}
		default:
			if r != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
				style = currentWordStyle
			}
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: r == ' ',
			isBreak: r == text.NewlineMark,
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(target []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range target {
		if r == ' ' || r == text.NewlineMark {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(target)})
	}
	return words
}

func wordForCursor(words []wordRange, cursor int) *wordRange {
	if len(words) == 0 {
		return nil
	}
	if cursor < 0 {
		return &words[0]
	}
	for i, w := range words {
		if cursor < w.end {
			return &words[i]
		}
	}
	return &words[len(words)-1]
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes soft-wraps at the given display width, breaking at
// the last space when possible. Newline marks force a line break so
// the story keeps its paragraph structure.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	flush := func() {
		out.WriteString(renderStyledRunes(line))
		out.WriteRune('\n')
		line = line[:0]
		lineWidth = 0
		lastSpaceIdx = -1
	}

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				flush()
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
		if item.isBreak {
			flush()
		}
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
