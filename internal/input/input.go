// Package input tracks the twelve momentary switches of the machine.
// It turns raw per-tick switch levels into level ("pressed") and edge
// ("just pressed") queries with exactly one tick of history.
package input

import (
	"fmt"
	"strconv"
	"strings"
)

// Switch identifies one of the twelve physical switches.
type Switch uint8

const (
	Number0 Switch = iota
	Number1
	Number2
	Number3
	Number4
	Number5
	Number6
	Number7
	Number8
	Number9
	Left
	Right
)

// NumSwitches is the number of distinct switches.
const NumSwitches = 12

// Number returns the digit switch for n. It panics if n is not in 0..9;
// an out-of-range switch identity is a programming error.
func Number(n int) Switch {
	if n < 0 || n > 9 {
		panic(fmt.Sprintf("input: invalid number switch %d", n))
	}
	return Switch(n)
}

// Num returns the digit of a number switch. ok is false for Left and Right.
func (s Switch) Num() (n int, ok bool) {
	if s <= Number9 {
		return int(s), true
	}
	return 0, false
}

func (s Switch) String() string {
	switch {
	case s <= Number9:
		return strconv.Itoa(int(s))
	case s == Left:
		return "left"
	case s == Right:
		return "right"
	default:
		return fmt.Sprintf("switch(%d)", uint8(s))
	}
}

// ParseSwitch maps the text names "0".."9", "left" and "right" to switches.
// Surrounding whitespace and case are ignored.
func ParseSwitch(text string) (Switch, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	switch text {
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	if len(text) == 1 && text[0] >= '0' && text[0] <= '9' {
		return Switch(text[0] - '0'), true
	}
	return 0, false
}

// All returns every switch in identity order.
func All() [NumSwitches]Switch {
	var all [NumSwitches]Switch
	for i := range all {
		all[i] = Switch(i)
	}
	return all
}

// Level is the sampled state of one switch.
type Level uint8

const (
	Released Level = iota
	Pressed
)

func (l Level) String() string {
	if l == Pressed {
		return "pressed"
	}
	return "released"
}

// Sampler reads the current raw level of a switch.
type Sampler interface {
	ReadSwitch(s Switch) (Level, error)
}
