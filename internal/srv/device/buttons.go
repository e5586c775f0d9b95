package device

import (
	"sort"
	"sync"
	"time"

	"github.com/jypelle/yuvbridge/internal/keys"
	"github.com/jypelle/yuvbridge/internal/srv/event"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const debounceDelay = 20 * time.Millisecond

type Button struct {
	button     keys.Button
	pin        gpio.PinIn
	isPressed  bool
	lastChange time.Time
}

// NewButton wires an active-low push button: pressed pulls the pin to ground.
func NewButton(button keys.Button, pin gpio.PinIn) (*Button, error) {
	// Set it as input, with an internal pull up resistor:
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, err
	}
	return &Button{button: button, pin: pin}, nil
}

// Refresh samples the pin and reports press and release edges. A change
// closer than debounceDelay to the previous one is ignored.
func (b *Button) Refresh(now time.Time, buttonEventChannel chan event.ButtonEvent) {
	isPressed := b.pin.Read() == gpio.Low
	if isPressed == b.isPressed || now.Sub(b.lastChange) < debounceDelay {
		return
	}

	b.isPressed = isPressed
	b.lastChange = now
	eventType := event.RELEASE_EVENT_TYPE
	if isPressed {
		eventType = event.PRESS_EVENT_TYPE
	}
	buttonEventChannel <- event.ButtonEvent{Button: b.button, ButtonEventType: eventType}
}

type Buttons struct {
	lock         sync.RWMutex
	eventChannel chan event.ButtonEvent
	simulation   bool
	pins         map[string]string

	buttons []*Button

	checkTicker *time.Ticker

	askDone chan bool
	done    chan bool
}

// NewButtons takes a logical button name to GPIO pin name map.
func NewButtons(pins map[string]string, simulation bool) *Buttons {
	if !simulation {
		if _, err := host.Init(); err != nil {
			logrus.Fatalf("Unable to initialize periph host: %v\n", err)
		}
	}

	device := Buttons{
		eventChannel: make(chan event.ButtonEvent),
		simulation:   simulation,
		pins:         pins,
		askDone:      make(chan bool),
		done:         make(chan bool),
	}

	return &device
}

func (d *Buttons) Start() {
	logrus.Infof("Start buttons device")

	d.lock.Lock()
	defer d.lock.Unlock()

	if !d.simulation {
		names := make([]string, 0, len(d.pins))
		for name := range d.pins {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			logical, ok := keys.ButtonByName(name)
			if !ok {
				logrus.Fatalf("Unknown button %s", name)
			}
			pin := gpioreg.ByName(d.pins[name])
			if pin == nil {
				logrus.Fatalf("Failed to find %s button on %s", name, d.pins[name])
			}
			button, err := NewButton(logical, pin)
			if err != nil {
				logrus.Fatalf("Failed to setup %s button: %v", name, err)
			}
			d.buttons = append(d.buttons, button)
		}
	}

	// Start periodic check
	d.checkTicker = time.NewTicker(5 * time.Millisecond)
	go func() {
		for loop := true; loop; {
			select {
			case now := <-d.checkTicker.C:
				for _, button := range d.buttons {
					button.Refresh(now, d.eventChannel)
				}
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *Buttons) StopSendingEvent() {
	logrus.Infof("Stop buttons device")

	d.lock.Lock()
	defer d.lock.Unlock()

	d.checkTicker.Stop()
	d.askDone <- true
	<-d.done
}

func (d *Buttons) EventChannel() chan event.ButtonEvent {
	return d.eventChannel
}
