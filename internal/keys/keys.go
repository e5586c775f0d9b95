// Package keys turns the polled key-status bytes written by the input
// process into the press/release events the engine asks for.
package keys

import (
	"strconv"
	"strings"
)

// Button is a logical button index, i.e. a byte offset in the key-status
// channel.
type Button uint

const (
	RIGHT_BUTTON Button = iota
	LEFT_BUTTON
	FORWARD_BUTTON
	BACKWARD_BUTTON
	FIRE_BUTTON
	USE_BUTTON
	ESCAPE_BUTTON
	ENTER_BUTTON
)

// ButtonCount is the size of the key-status channel.
const ButtonCount = 8

var buttonNames = [ButtonCount]string{
	"right",
	"left",
	"forward",
	"backward",
	"fire",
	"use",
	"escape",
	"enter",
}

func (b Button) String() string {
	if b < ButtonCount {
		return buttonNames[b]
	}
	return "button" + strconv.FormatUint(uint64(b), 10)
}

// ButtonByName accepts the names used in param.yaml and by the api.
func ButtonByName(name string) (Button, bool) {
	name = strings.ToLower(name)
	for i, n := range buttonNames {
		if n == name {
			return Button(i), true
		}
	}
	return 0, false
}

// Engine key codes.
const (
	KEY_RIGHTARROW byte = 0xae
	KEY_LEFTARROW  byte = 0xac
	KEY_UPARROW    byte = 0xad
	KEY_DOWNARROW  byte = 0xaf
	KEY_FIRE       byte = 0xa3
	KEY_USE        byte = 0xa2
	KEY_ESCAPE     byte = 27
	KEY_ENTER      byte = 13
)

// Translate maps a button index to the engine key vocabulary. Unknown
// indexes are passed through as a lower-cased character code.
func Translate(index uint) byte {
	switch Button(index) {
	case ENTER_BUTTON:
		return KEY_ENTER
	case ESCAPE_BUTTON:
		return KEY_ESCAPE
	case LEFT_BUTTON:
		return KEY_LEFTARROW
	case RIGHT_BUTTON:
		return KEY_RIGHTARROW
	case FORWARD_BUTTON:
		return KEY_UPARROW
	case BACKWARD_BUTTON:
		return KEY_DOWNARROW
	case FIRE_BUTTON:
		return KEY_FIRE
	case USE_BUTTON:
		return KEY_USE
	default:
		return toLower(byte(index))
	}
}

func toLower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
