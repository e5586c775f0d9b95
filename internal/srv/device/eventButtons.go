package device

import (
	"encoding/binary"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/go-errors/errors"
	"github.com/jypelle/yuvbridge/internal/keys"
	"github.com/jypelle/yuvbridge/internal/srv/event"
	"github.com/sirupsen/logrus"
)

const (
	evKey       = 1
	keyReleased = 0
	keyPressed  = 1
)

// InputEvent is one evdev record as a 32-bit kernel writes it: the
// timeval packed in 8 bytes, then type, code and value.
type InputEvent struct {
	Timestamp uint64
	Type      uint16
	Code      uint16
	Value     uint32
}

// InputEventSize is the length of a packed InputEvent.
const InputEventSize = 16

func ReadInputEvent(r io.Reader) (InputEvent, error) {
	var ev InputEvent
	err := binary.Read(r, binary.LittleEndian, &ev)
	return ev, err
}

// EventButtons reads key events from an input device node and forwards the
// ones whose code is mapped to a logical button. Auto-repeat is dropped.
type EventButtons struct {
	lock         sync.RWMutex
	eventChannel chan event.ButtonEvent
	simulation   bool
	path         string
	codes        map[uint16]keys.Button

	file *os.File
	done chan bool
}

func NewEventButtons(path string, codes map[uint16]string, simulation bool) *EventButtons {
	device := EventButtons{
		eventChannel: make(chan event.ButtonEvent, keys.QueueSize),
		simulation:   simulation,
		path:         path,
		codes:        make(map[uint16]keys.Button, len(codes)),
		done:         make(chan bool),
	}

	for code, name := range codes {
		button, ok := keys.ButtonByName(name)
		if !ok {
			logrus.Fatalf("Unknown button %s for event code %d", name, code)
		}
		device.codes[code] = button
	}

	return &device
}

func (d *EventButtons) Start() {
	logrus.Infof("Start event buttons device")

	d.lock.Lock()
	defer d.lock.Unlock()

	if d.simulation {
		return
	}

	file, err := os.Open(d.path)
	if err != nil {
		logrus.Warnf("Event buttons disabled, unable to open %s: %v", d.path, err)
		return
	}
	d.file = file

	codes := make([]int, 0, len(d.codes))
	for code := range d.codes {
		codes = append(codes, int(code))
	}
	sort.Ints(codes)
	logrus.Debugf("Listening to %s for codes %v", d.path, codes)

	go func() {
		if err := d.Feed(file); err != nil {
			logrus.Warnf("Stop reading %s: %v", d.path, err)
		}
		d.done <- true
	}()
}

// Feed decodes records from r and sends the mapped key edges until r is
// exhausted or closed.
func (d *EventButtons) Feed(r io.Reader) error {
	for {
		ev, err := ReadInputEvent(r)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return errors.Wrap(err, 0)
		}
		if buttonEvent, ok := d.Translate(ev); ok {
			d.eventChannel <- buttonEvent
		}
	}
}

// Translate maps a raw record to a button edge.
func (d *EventButtons) Translate(ev InputEvent) (event.ButtonEvent, bool) {
	if ev.Type != evKey {
		return event.ButtonEvent{}, false
	}
	button, ok := d.codes[ev.Code]
	if !ok {
		return event.ButtonEvent{}, false
	}

	switch ev.Value {
	case keyPressed:
		return event.ButtonEvent{Button: button, ButtonEventType: event.PRESS_EVENT_TYPE}, true
	case keyReleased:
		return event.ButtonEvent{Button: button, ButtonEventType: event.RELEASE_EVENT_TYPE}, true
	}
	return event.ButtonEvent{}, false
}

func (d *EventButtons) StopSendingEvent() {
	logrus.Infof("Stop event buttons device")

	d.lock.Lock()
	defer d.lock.Unlock()

	if d.file == nil {
		return
	}
	d.file.Close()
	<-d.done
	d.file = nil
}

func (d *EventButtons) EventChannel() chan event.ButtonEvent {
	return d.eventChannel
}
