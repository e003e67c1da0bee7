// Package keyboard models physical key layouts for next-key hints.
package keyboard

import "strings"

// Modifier is a layer or shift key required to produce a character.
type Modifier int

const (
	// ModNone means the character sits on the base layer.
	ModNone Modifier = iota
	// ModShift means the shifted base layer.
	ModShift
	// ModSym means the symbol layer (3l).
	ModSym
	// ModCur means the cursor/number layer (3l).
	ModCur
)

// String returns the modifier label used in hint rendering.
func (m Modifier) String() string {
	switch m {
	case ModShift:
		return "shift"
	case ModSym:
		return "sym"
	case ModCur:
		return "cur"
	default:
		return ""
	}
}

// Location points at a key on a layout grid.
type Location struct {
	Row      int
	Col      int
	Modifier Modifier
}

// Layout describes a keyboard layout with optional extra layers.
type Layout struct {
	Name string
	Base [][]rune
	Sym  [][]rune
	Cur  [][]rune
}

// Layouts lists the supported layouts in cycle order.
func Layouts() []*Layout {
	return []*Layout{&QWERTY, &Dvorak, &ThreeL}
}

// ByName returns the layout with the given name, matched
// case-insensitively, or nil.
func ByName(name string) *Layout {
	for _, layout := range Layouts() {
		if strings.EqualFold(layout.Name, name) {
			return layout
		}
	}
	return nil
}

// Shift maps a base-layer character to its shifted counterpart.
func Shift(r rune) rune {
	switch r {
	case '`':
		return '~'
	case '1':
		return '!'
	case '2':
		return '@'
	case '3':
		return '#'
	case '4':
		return '$'
	case '5':
		return '%'
	case '6':
		return '^'
	case '7':
		return '&'
	case '8':
		return '*'
	case '9':
		return '('
	case '0':
		return ')'
	case '[':
		return '{'
	case ']':
		return '}'
	case '\'':
		return '"'
	case ',':
		return '<'
	case '.':
		return '>'
	case '/':
		return '?'
	case '=':
		return '+'
	case '\\':
		return '|'
	case '-':
		return '_'
	case ';':
		return ':'
	default:
		if r >= 'a' && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}
}

// Locate finds the key producing the character, checking the base
// layer, then sym and cur layers, then the shifted base layer.
func (l *Layout) Locate(r rune) (Location, bool) {
	if loc, ok := find(l.Base, r); ok {
		return loc, true
	}
	if loc, ok := find(l.Sym, r); ok {
		loc.Modifier = ModSym
		return loc, true
	}
	if loc, ok := find(l.Cur, r); ok {
		// The cur layer sits under the right hand.
		loc.Col += 6
		loc.Modifier = ModCur
		return loc, true
	}
	for row, keys := range l.Base {
		for col, key := range keys {
			if key != 0 && Shift(key) == r {
				return Location{Row: row, Col: col, Modifier: ModShift}, true
			}
		}
	}
	return Location{}, false
}

func find(layer [][]rune, r rune) (Location, bool) {
	for row, keys := range layer {
		for col, key := range keys {
			if key != 0 && key == r {
				return Location{Row: row, Col: col}, true
			}
		}
	}
	return Location{}, false
}

// QWERTY is the standard US layout.
var QWERTY = Layout{
	Name: "QWERTY",
	Base: [][]rune{
		{'`', '1', '2', '3', '4', '5', '6', '7', '8', '9', '0', '-', '=', 0},
		{0, 'q', 'w', 'e', 'r', 't', 'y', 'u', 'i', 'o', 'p', '[', ']', '\\'},
		{0, 'a', 's', 'd', 'f', 'g', 'h', 'j', 'k', 'l', ';', '\'', 0, 0},
		{0, 'z', 'x', 'c', 'v', 'b', 'n', 'm', ',', '.', '/', 0, 0, 0},
	},
}

// Dvorak is the simplified Dvorak layout.
var Dvorak = Layout{
	Name: "Dvorak",
	Base: [][]rune{
		{'`', '1', '2', '3', '4', '5', '6', '7', '8', '9', '0', '[', ']', 0},
		{0, '\'', ',', '.', 'p', 'y', 'f', 'g', 'c', 'r', '/', '=', '\\', 0},
		{0, 'a', 'o', 'e', 'u', 'i', 'd', 'h', 't', 'n', 's', '-', 0, 0},
		{0, ';', 'q', 'j', 'k', 'x', 'b', 'm', 'w', 'v', 'z', 0, 0, 0},
	},
}

// ThreeL is the three-layer 3l layout with sym and cur layers.
var ThreeL = Layout{
	Name: "3l",
	Base: [][]rune{
		{'q', 'f', 'u', 'y', 'z', 'x', 'k', 'c', 'w', 'b'},
		{'o', 'h', 'e', 'a', 'i', 'd', 'r', 't', 'n', 's'},
		{',', 'm', '.', 'j', ';', 'g', 'l', 'p', 'v', 0},
	},
	Sym: [][]rune{
		{'"', '_', '[', ']', '^', '!', '<', '>', '=', '&'},
		{'/', '-', '{', '}', '*', '?', '(', ')', '\'', ':'},
		{'#', '$', '|', '~', '`', '+', '%', '\\', '@'},
	},
	Cur: [][]rune{
		{0, '1', '2', '3'},
		{0, '4', '5', '6'},
		{'0', '7', '8', '9'},
	},
}
