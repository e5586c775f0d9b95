package event

import (
	"github.com/jypelle/yuvbridge/internal/keys"
)

type ButtonEventType int

const (
	PRESS_EVENT_TYPE ButtonEventType = iota
	RELEASE_EVENT_TYPE
)

func (t ButtonEventType) Status() byte {
	if t == PRESS_EVENT_TYPE {
		return 1
	}
	return 0
}

// Buttons
type ButtonEvent struct {
	Button          keys.Button
	ButtonEventType ButtonEventType
}

// Engine
type EngineEvent struct {
	Data interface{}
}

// EngineEventKeyData is a key polled back from the bridge by the engine.
type EngineEventKeyData struct {
	Pressed bool
	Key     byte
}

type EngineEventQuitData struct{}

// Display
type DisplayEvent struct {
	Data interface{}
}

type DisplayEventFrameData struct {
	MeanLuma uint8
	Changed  bool
}

// Api
type ApiEvent struct {
	Result chan error
	Data   interface{}
}

type ApiEventKeyData struct {
	Button          keys.Button
	ButtonEventType ButtonEventType
}
